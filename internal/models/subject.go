package models

// Subject is an academic subject taught by one or more faculty.
type Subject struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	IsLab      bool     `json:"is_lab"`
	FacultyIDs []string `json:"faculty_ids"`
}
