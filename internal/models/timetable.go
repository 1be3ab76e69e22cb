package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// TimetableEntry is one placed session. A nil Batch denotes a
// whole-class lecture; a present batch denotes a lab session for that
// sub-group only.
type TimetableEntry struct {
	Day        string   `json:"day"`
	Slot       TimeSlot `json:"time_slot"`
	SubjectID  string   `json:"subject_id"`
	FacultyID  string   `json:"faculty_id"`
	ResourceID string   `json:"resource_id"`
	ClassID    string   `json:"class_id"`
	Batch      *string  `json:"batch"`
}

// IsLecture reports whether the entry occupies the whole class.
func (e TimetableEntry) IsLecture() bool {
	return e.Batch == nil
}

// TimetableStatus tracks the lifecycle of a persisted timetable.
type TimetableStatus string

const (
	TimetableStatusDraft     TimetableStatus = "DRAFT"
	TimetableStatusPublished TimetableStatus = "PUBLISHED"
)

// Timetable is a persisted, versioned generation result.
type Timetable struct {
	ID        string          `db:"id" json:"id"`
	Version   int             `db:"version" json:"version"`
	Status    TimetableStatus `db:"status" json:"status"`
	Meta      types.JSONText  `db:"meta" json:"meta"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// TimetableRow is one stored entry of a persisted timetable. Seq keeps
// the generation order, which is the canonical ordering of the output
// sequence.
type TimetableRow struct {
	ID          string    `db:"id" json:"id"`
	TimetableID string    `db:"timetable_id" json:"timetable_id"`
	Seq         int       `db:"seq" json:"seq"`
	Day         string    `db:"day" json:"day"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	SubjectID   string    `db:"subject_id" json:"subject_id"`
	FacultyID   string    `db:"faculty_id" json:"faculty_id"`
	ResourceID  string    `db:"resource_id" json:"resource_id"`
	ClassID     string    `db:"class_id" json:"class_id"`
	Batch       *string   `db:"batch" json:"batch"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Pagination mirrors the common list response metadata.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}
