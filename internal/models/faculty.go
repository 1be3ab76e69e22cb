package models

// FacultyPosition is the closed set of academic ranks.
type FacultyPosition string

const (
	PositionHOD    FacultyPosition = "HOD"
	PositionSenior FacultyPosition = "Senior"
	PositionJunior FacultyPosition = "Junior"
	PositionGuest  FacultyPosition = "Guest"
)

// Faculty describes a teaching staff member with declared weekly
// availability windows keyed by day name.
type Faculty struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Position     FacultyPosition       `json:"position"`
	Subjects     []string              `json:"subjects"`
	Availability map[string][]TimeSlot `json:"availability"`
}

// IsAvailable reports whether some declared window on the day fully
// contains the requested slot.
func (f *Faculty) IsAvailable(day string, slot TimeSlot) bool {
	windows, ok := f.Availability[day]
	if !ok {
		return false
	}
	for _, window := range windows {
		if window.Contains(slot) {
			return true
		}
	}
	return false
}
