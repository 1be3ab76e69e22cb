package timetable

import (
	"fmt"

	"github.com/campusone/timetable-api/internal/models"
)

// Issue categories reported by the validator. A missing key means the
// corresponding invariant holds everywhere.
const (
	IssueHODFirstLecture    = "hod_first_lecture"
	IssueSubjectLectureCap  = "subject_lecture_limit"
	IssueBatchLabAttendance = "batch_lab_attendance"
	IssueMinimumLectures    = "minimum_lectures"
	IssueLabTiming          = "lab_timing"
)

// Report maps an issue category to human-readable findings.
type Report map[string][]string

// OK reports whether the audit found no violations.
func (r Report) OK() bool {
	for _, findings := range r {
		if len(findings) > 0 {
			return false
		}
	}
	return true
}

// Validate audits a finished schedule against the rule set. It is
// purely diagnostic: no repair, no mutation, no failure path.
func Validate(data *Dataset, result *Result) Report {
	report := Report{}

	// HOD in the day's first lecture slot.
	for _, entry := range result.Entries {
		faculty, ok := data.Faculty(entry.FacultyID)
		if !ok {
			continue
		}
		if faculty.Position == models.PositionHOD && entry.Slot.Start == firstLectureStart {
			report[IssueHODFirstLecture] = append(report[IssueHODFirstLecture],
				fmt.Sprintf("HOD %s has first lecture on %s", faculty.Name, entry.Day))
		}
	}

	// Counter audits iterate classes and their declared subject lists
	// so finding order is stable across runs.
	for _, class := range data.Classes() {
		for _, subjectID := range class.Subjects {
			count, ok := result.LectureCounts[class.ID][subjectID]
			if !ok {
				continue
			}
			if count > MaxWeeklyLectures {
				report[IssueSubjectLectureCap] = append(report[IssueSubjectLectureCap],
					fmt.Sprintf("Subject %s has %d lectures for class %s",
						subjectName(data, subjectID), count, class.Name))
			}
		}

		for _, subjectID := range class.Subjects {
			batches, ok := result.LabCounts[class.ID][subjectID]
			if !ok {
				continue
			}
			for _, batch := range class.BatchLabels() {
				if count := batches[batch]; count != 1 {
					report[IssueBatchLabAttendance] = append(report[IssueBatchLabAttendance],
						fmt.Sprintf("Batch %s of class %s has %d labs for %s",
							batch, class.Name, count, subjectName(data, subjectID)))
				}
			}
		}

		for _, day := range Days {
			count := countLectures(result.Entries, class.ID, day)
			if count < MinDailyLectures {
				report[IssueMinimumLectures] = append(report[IssueMinimumLectures],
					fmt.Sprintf("Class %s has only %d lectures on %s", class.Name, count, day))
			}
		}
	}

	// Batch entries outside the canonical lab slots.
	for _, entry := range result.Entries {
		if entry.Batch == nil {
			continue
		}
		if entry.Slot.Start != LabSlots[0].Start && entry.Slot.Start != LabSlots[1].Start {
			report[IssueLabTiming] = append(report[IssueLabTiming],
				fmt.Sprintf("Lab for %s on %s is not at start or end of day", entry.ClassID, entry.Day))
		}
	}

	return report
}

func subjectName(data *Dataset, subjectID string) string {
	if subject, ok := data.Subject(subjectID); ok {
		return subject.Name
	}
	return subjectID
}

func countLectures(entries []models.TimetableEntry, classID, day string) int {
	count := 0
	for _, entry := range entries {
		if entry.ClassID == classID && entry.Day == day && entry.IsLecture() {
			count++
		}
	}
	return count
}
