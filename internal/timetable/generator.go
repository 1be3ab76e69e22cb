package timetable

import (
	"math/rand"

	"github.com/campusone/timetable-api/internal/models"
)

// Generator owns the mutable state of one run: the growing entry list
// and the per-class counters. Entries are only appended; the three
// passes execute strictly in sequence and never concurrently.
type Generator struct {
	data *Dataset
	rng  *rand.Rand

	entries       []models.TimetableEntry
	lectureCounts map[string]map[string]int            // class -> subject -> lectures
	labCounts     map[string]map[string]map[string]int // class -> subject -> batch -> labs
}

// Result is the immutable outcome of a run, handed to the validator
// and to external consumers.
type Result struct {
	Entries       []models.TimetableEntry
	LectureCounts map[string]map[string]int
	LabCounts     map[string]map[string]map[string]int
}

// NewGenerator prepares a run over the dataset. The random source
// drives candidate tie-breaks only; a fixed seed makes the run fully
// deterministic.
func NewGenerator(data *Dataset, rng *rand.Rand) *Generator {
	g := &Generator{data: data, rng: rng}
	g.reset()
	return g
}

func (g *Generator) reset() {
	g.entries = nil
	g.lectureCounts = make(map[string]map[string]int)
	g.labCounts = make(map[string]map[string]map[string]int)

	for _, class := range g.data.Classes() {
		g.lectureCounts[class.ID] = make(map[string]int, len(class.Subjects))
		g.labCounts[class.ID] = make(map[string]map[string]int)
		for _, subjectID := range class.Subjects {
			g.lectureCounts[class.ID][subjectID] = 0
			subject, ok := g.data.Subject(subjectID)
			if !ok || !subject.IsLab {
				continue
			}
			batches := make(map[string]int, len(class.BatchLabels()))
			for _, batch := range class.BatchLabels() {
				batches[batch] = 0
			}
			g.labCounts[class.ID][subjectID] = batches
		}
	}
}

// Generate runs the three placement passes in order and returns the
// accumulated schedule. Placement failures degrade into shortfalls
// surfaced by the validator; nothing here aborts the run.
func (g *Generator) Generate() *Result {
	g.reset()

	g.placeLabs()
	g.placeLectures()
	g.fillMinimum()

	return &Result{
		Entries:       g.entries,
		LectureCounts: g.lectureCounts,
		LabCounts:     g.labCounts,
	}
}

// placeLabs assigns every (class, lab subject, batch) to exactly one
// (day, lab slot), scanning days then the two canonical slots in fixed
// order. A batch that fits nowhere stays unscheduled; the validator
// reports the shortfall.
func (g *Generator) placeLabs() {
	for _, class := range g.data.Classes() {
		for _, subjectID := range g.data.LabSubjects(class) {
			for _, batch := range class.BatchLabels() {
				g.placeLabSession(class.ID, subjectID, batch)
			}
		}
	}
}

func (g *Generator) placeLabSession(classID, subjectID, batch string) bool {
	for _, day := range Days {
		for _, slot := range LabSlots {
			if g.addLabSession(day, slot, classID, subjectID, batch) {
				return true
			}
		}
	}
	return false
}

// placeLectures schedules non-lab subjects up to the weekly cap. Days
// already holding the daily lecture target are skipped so load spreads
// across the week; the lunch slot is never attempted.
func (g *Generator) placeLectures() {
	for _, class := range g.data.Classes() {
		for _, subjectID := range class.Subjects {
			subject, ok := g.data.Subject(subjectID)
			if !ok || subject.IsLab {
				continue
			}
			for g.lectureCounts[class.ID][subjectID] < MaxWeeklyLectures {
				if !g.placeOneLecture(class.ID, subjectID, true) {
					break
				}
			}
		}
	}
}

// placeOneLecture scans the week for the first feasible (day, slot).
// With skipFullDays set, days at or above the daily target are not
// considered.
func (g *Generator) placeOneLecture(classID, subjectID string, skipFullDays bool) bool {
	for _, day := range Days {
		if skipFullDays && g.lecturesOnDay(classID, day) >= MinDailyLectures {
			continue
		}
		if g.placeLectureOnDay(day, classID, subjectID) {
			return true
		}
	}
	return false
}

func (g *Generator) placeLectureOnDay(day, classID, subjectID string) bool {
	for _, slot := range LectureSlots {
		if slot.Start == LunchBreak.Start {
			continue
		}
		if g.addLecture(day, slot, classID, subjectID) {
			return true
		}
	}
	return false
}

// fillMinimum tops up each under-filled (class, day) toward the daily
// lecture target, drawing from remaining quota in the class's declared
// subject order. Days that cannot be filled are left under target.
func (g *Generator) fillMinimum() {
	for _, class := range g.data.Classes() {
		for _, day := range Days {
			for g.lecturesOnDay(class.ID, day) < MinDailyLectures {
				if !g.fillOneLecture(class, day) {
					break
				}
			}
		}
	}
}

func (g *Generator) fillOneLecture(class *models.ClassGroup, day string) bool {
	for _, subjectID := range class.Subjects {
		subject, ok := g.data.Subject(subjectID)
		if !ok || subject.IsLab {
			continue
		}
		if g.lectureCounts[class.ID][subjectID] >= MaxWeeklyLectures {
			continue
		}
		if g.placeLectureOnDay(day, class.ID, subjectID) {
			return true
		}
	}
	return false
}

// addLecture attempts one whole-class placement. Every failed
// precondition is a local, recoverable "try elsewhere" signal.
func (g *Generator) addLecture(day string, slot models.TimeSlot, classID, subjectID string) bool {
	subject, ok := g.data.Subject(subjectID)
	if !ok {
		return false
	}
	if g.lectureCounts[classID][subjectID] >= MaxWeeklyLectures {
		return false
	}
	if !g.classFree(classID, day, slot, nil) {
		return false
	}
	facultyID, ok := g.pickFaculty(subjectID, day, slot)
	if !ok {
		return false
	}
	resourceID, ok := g.pickResource(subject.IsLab, day, slot)
	if !ok {
		return false
	}

	g.entries = append(g.entries, models.TimetableEntry{
		Day:        day,
		Slot:       slot,
		SubjectID:  subjectID,
		FacultyID:  facultyID,
		ResourceID: resourceID,
		ClassID:    classID,
	})
	g.lectureCounts[classID][subjectID]++
	return true
}

// addLabSession attempts one batch placement in a lab slot.
func (g *Generator) addLabSession(day string, slot models.TimeSlot, classID, subjectID, batch string) bool {
	subject, ok := g.data.Subject(subjectID)
	if !ok || !subject.IsLab {
		return false
	}
	if !g.classFree(classID, day, slot, &batch) {
		return false
	}
	facultyID, ok := g.pickFaculty(subjectID, day, slot)
	if !ok {
		return false
	}
	resourceID, ok := g.pickResource(true, day, slot)
	if !ok {
		return false
	}

	label := batch
	g.entries = append(g.entries, models.TimetableEntry{
		Day:        day,
		Slot:       slot,
		SubjectID:  subjectID,
		FacultyID:  facultyID,
		ResourceID: resourceID,
		ClassID:    classID,
		Batch:      &label,
	})
	g.labCounts[classID][subjectID][batch]++
	return true
}

// lecturesOnDay counts whole-class entries for the class on the day.
func (g *Generator) lecturesOnDay(classID, day string) int {
	count := 0
	for _, entry := range g.entries {
		if entry.ClassID == classID && entry.Day == day && entry.IsLecture() {
			count++
		}
	}
	return count
}
