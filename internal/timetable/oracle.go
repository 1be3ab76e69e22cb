package timetable

import (
	"math/rand"

	"github.com/campusone/timetable-api/internal/models"
)

// The oracle is the set of pure queries the placement passes consult:
// declared availability, booking conflicts against the schedule built
// so far, and randomized candidate selection for faculty and rooms.
// None of these mutate state.

// facultyAvailable reports whether the faculty's declared windows for
// the day contain the slot. Unknown ids are never available.
func (g *Generator) facultyAvailable(facultyID, day string, slot models.TimeSlot) bool {
	faculty, ok := g.data.Faculty(facultyID)
	if !ok {
		return false
	}
	return faculty.IsAvailable(day, slot)
}

// facultyFree reports whether no existing entry books the faculty in
// an overlapping slot on the day.
func (g *Generator) facultyFree(facultyID, day string, slot models.TimeSlot) bool {
	for _, entry := range g.entries {
		if entry.FacultyID == facultyID && entry.Day == day && entry.Slot.Overlaps(slot) {
			return false
		}
	}
	return true
}

// resourceFree reports whether no existing entry books the resource in
// an overlapping slot on the day.
func (g *Generator) resourceFree(resourceID, day string, slot models.TimeSlot) bool {
	for _, entry := range g.entries {
		if entry.ResourceID == resourceID && entry.Day == day && entry.Slot.Overlaps(slot) {
			return false
		}
	}
	return true
}

// classFree reports whether the class (batch == nil) or a specific
// batch can take the slot. A whole-class entry blocks every batch for
// its time range; a batch entry blocks the whole class and its own
// batch but not sibling batches.
func (g *Generator) classFree(classID, day string, slot models.TimeSlot, batch *string) bool {
	for _, entry := range g.entries {
		if entry.ClassID != classID || entry.Day != day || !entry.Slot.Overlaps(slot) {
			continue
		}
		if batch == nil {
			return false
		}
		if entry.Batch == nil || *entry.Batch == *batch {
			return false
		}
	}
	return true
}

// pickFaculty selects a faculty for the subject at (day, slot) among
// the subject's eligible ids: declared-available, currently free, and
// never an HOD in the day's first lecture slot. Candidate order is
// shuffled so ties break randomly; the first fit wins.
func (g *Generator) pickFaculty(subjectID, day string, slot models.TimeSlot) (string, bool) {
	subject, ok := g.data.Subject(subjectID)
	if !ok {
		return "", false
	}
	firstSlot := slot.Start == firstLectureStart

	candidates := make([]string, len(subject.FacultyIDs))
	copy(candidates, subject.FacultyIDs)
	shuffle(g.rng, candidates)

	for _, facultyID := range candidates {
		faculty, ok := g.data.Faculty(facultyID)
		if !ok {
			continue
		}
		if firstSlot && faculty.Position == models.PositionHOD {
			continue
		}
		if g.facultyAvailable(facultyID, day, slot) && g.facultyFree(facultyID, day, slot) {
			return facultyID, true
		}
	}
	return "", false
}

// pickResource selects a free resource of the kind the subject needs,
// again with randomized tie-break order.
func (g *Generator) pickResource(isLab bool, day string, slot models.TimeSlot) (string, bool) {
	kind := models.ResourceClassroom
	if isLab {
		kind = models.ResourceLab
	}

	candidates := g.data.ResourcesOfKind(kind)
	shuffle(g.rng, candidates)

	for _, resource := range candidates {
		if g.resourceFree(resource.ID, day, slot) {
			return resource.ID, true
		}
	}
	return "", false
}

func shuffle[T any](rng *rand.Rand, items []T) {
	rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
