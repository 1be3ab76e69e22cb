package dto

// TimeWindow is an HH:MM interval in request payloads.
type TimeWindow struct {
	Start string `json:"start" validate:"required,datetime=15:04"`
	End   string `json:"end" validate:"required,datetime=15:04"`
}

// FacultyPayload describes a faculty member in a generation request.
type FacultyPayload struct {
	ID           string                  `json:"id" validate:"required"`
	Name         string                  `json:"name" validate:"required"`
	Position     string                  `json:"position" validate:"required,oneof=HOD Senior Junior Guest"`
	Subjects     []string                `json:"subjects"`
	Availability map[string][]TimeWindow `json:"availability" validate:"omitempty,dive,dive"`
}

// SubjectPayload describes a subject in a generation request.
type SubjectPayload struct {
	ID         string   `json:"id" validate:"required"`
	Name       string   `json:"name" validate:"required"`
	IsLab      bool     `json:"is_lab"`
	FacultyIDs []string `json:"faculty_ids"`
}

// ClassPayload describes a class group. Batches default to the
// standard three-way split when omitted.
type ClassPayload struct {
	ID       string   `json:"id" validate:"required"`
	Name     string   `json:"name" validate:"required"`
	Subjects []string `json:"subjects" validate:"required,min=1"`
	Batches  []string `json:"batches"`
}

// ResourcePayload describes a bookable room.
type ResourcePayload struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=classroom lab"`
	Capacity int    `json:"capacity" validate:"omitempty,min=0"`
}

// GenerateTimetableRequest carries the full domain payload for one
// generation run. Seed pins the tie-break randomization so a run can
// be reproduced exactly; when omitted the service picks one.
type GenerateTimetableRequest struct {
	Faculties []FacultyPayload  `json:"faculties" validate:"required,min=1,dive"`
	Subjects  []SubjectPayload  `json:"subjects" validate:"required,min=1,dive"`
	Classes   []ClassPayload    `json:"classes" validate:"required,min=1,dive"`
	Resources []ResourcePayload `json:"resources" validate:"required,min=1,dive"`
	Seed      *int64            `json:"seed"`
}

// EntryPayload is one serialized schedule entry. Batch is null for
// whole-class lectures.
type EntryPayload struct {
	Day        string  `json:"day"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	SubjectID  string  `json:"subject_id"`
	FacultyID  string  `json:"faculty_id"`
	ResourceID string  `json:"resource_id"`
	ClassID    string  `json:"class_id"`
	Batch      *string `json:"batch"`
}

// GenerateTimetableResponse returns the generated entry sequence along
// with the validator's audit.
type GenerateTimetableResponse struct {
	ProposalID string              `json:"proposal_id"`
	Seed       int64               `json:"seed"`
	Entries    []EntryPayload      `json:"entries"`
	Report     map[string][]string `json:"report"`
	Satisfied  bool                `json:"satisfied"`
}

// SaveTimetableRequest persists a generated proposal.
type SaveTimetableRequest struct {
	ProposalID string `json:"proposal_id" validate:"required"`
	Publish    bool   `json:"publish"`
}
