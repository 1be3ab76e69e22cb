package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusone/timetable-api/internal/models"
)

func batchPtr(label string) *string { return &label }

func TestValidateFlagsHODFirstLecture(t *testing.T) {
	data := sampleDataset()
	result := &Result{
		Entries: []models.TimetableEntry{
			{Day: "Monday", Slot: LectureSlots[0], SubjectID: "s1", FacultyID: "f1", ResourceID: "r1", ClassID: "c1"},
		},
		LectureCounts: map[string]map[string]int{},
		LabCounts:     map[string]map[string]map[string]int{},
	}

	report := Validate(data, result)
	require.Len(t, report[IssueHODFirstLecture], 1)
	assert.Contains(t, report[IssueHODFirstLecture][0], "Dr. Smith")
	assert.Contains(t, report[IssueHODFirstLecture][0], "Monday")
}

func TestValidateFlagsLectureLimitBreach(t *testing.T) {
	data := sampleDataset()
	result := &Result{
		LectureCounts: map[string]map[string]int{
			"c1": {"s1": 3, "s2": 2},
		},
		LabCounts: map[string]map[string]map[string]int{},
	}

	report := Validate(data, result)
	require.Len(t, report[IssueSubjectLectureCap], 1)
	assert.Contains(t, report[IssueSubjectLectureCap][0], "Artificial Intelligence")
	assert.Contains(t, report[IssueSubjectLectureCap][0], "CS-A")
}

func TestValidateFlagsBatchLabAttendance(t *testing.T) {
	data := sampleDataset()
	result := &Result{
		LectureCounts: map[string]map[string]int{},
		LabCounts: map[string]map[string]map[string]int{
			"c1": {"s3": {"B1": 0, "B2": 1, "B3": 2}},
		},
	}

	report := Validate(data, result)
	// Both a missing session and a duplicate session are findings.
	require.Len(t, report[IssueBatchLabAttendance], 2)
	assert.Contains(t, report[IssueBatchLabAttendance][0], "Batch B1")
	assert.Contains(t, report[IssueBatchLabAttendance][0], "0 labs")
	assert.Contains(t, report[IssueBatchLabAttendance][1], "Batch B3")
	assert.Contains(t, report[IssueBatchLabAttendance][1], "2 labs")
}

func TestValidateFlagsUnderFilledDays(t *testing.T) {
	data := sampleDataset()
	result := &Result{
		LectureCounts: map[string]map[string]int{},
		LabCounts:     map[string]map[string]map[string]int{},
	}

	report := Validate(data, result)
	// Empty schedule: every (class, day) is under target.
	assert.Len(t, report[IssueMinimumLectures], len(data.Classes())*len(Days))
	assert.Contains(t, report[IssueMinimumLectures][0], "has only 0 lectures")
}

func TestValidateFlagsOffCatalogLabTiming(t *testing.T) {
	data := sampleDataset()
	result := &Result{
		Entries: []models.TimetableEntry{
			{Day: "Tuesday", Slot: models.TimeSlot{Start: "10:15", End: "12:15"}, SubjectID: "s3",
				FacultyID: "f2", ResourceID: "r3", ClassID: "c1", Batch: batchPtr("B1")},
			{Day: "Tuesday", Slot: LabSlots[1], SubjectID: "s4",
				FacultyID: "f4", ResourceID: "r4", ClassID: "c1", Batch: batchPtr("B2")},
		},
		LectureCounts: map[string]map[string]int{},
		LabCounts:     map[string]map[string]map[string]int{},
	}

	report := Validate(data, result)
	require.Len(t, report[IssueLabTiming], 1)
	assert.Contains(t, report[IssueLabTiming][0], "c1")
	assert.Contains(t, report[IssueLabTiming][0], "Tuesday")
}

func TestValidateCleanScheduleHasEmptyCategories(t *testing.T) {
	data := sampleDataset()
	result := &Result{
		Entries: []models.TimetableEntry{
			{Day: "Monday", Slot: LectureSlots[1], SubjectID: "s1", FacultyID: "f5", ResourceID: "r1", ClassID: "c1"},
		},
		LectureCounts: map[string]map[string]int{"c1": {"s1": 1}},
		LabCounts:     map[string]map[string]map[string]int{},
	}

	report := Validate(data, result)
	assert.Empty(t, report[IssueHODFirstLecture])
	assert.Empty(t, report[IssueSubjectLectureCap])
	assert.Empty(t, report[IssueBatchLabAttendance])
	assert.Empty(t, report[IssueLabTiming])
	// Minimum lectures still under target; the category is present.
	assert.NotEmpty(t, report[IssueMinimumLectures])
	assert.False(t, report.OK())
}

func TestReportOK(t *testing.T) {
	assert.True(t, Report{}.OK())
	assert.True(t, Report{IssueLabTiming: nil}.OK())
	assert.False(t, Report{IssueLabTiming: []string{"x"}}.OK())
}
