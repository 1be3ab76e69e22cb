package models

// ResourceKind distinguishes lecture rooms from laboratories.
type ResourceKind string

const (
	ResourceClassroom ResourceKind = "classroom"
	ResourceLab       ResourceKind = "lab"
)

// Resource is a bookable room. Capacity is descriptive metadata; the
// placement engine does not enforce it.
type Resource struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Kind     ResourceKind `json:"type"`
	Capacity int          `json:"capacity"`
}
