package models

// DefaultBatches subdivide a class for lab attendance when the input
// omits its own labels.
var DefaultBatches = []string{"B1", "B2", "B3"}

// ClassGroup is a cohort of students studying a declared subject list.
// Batches split the group for lab sessions only; lectures always
// occupy the whole class.
type ClassGroup struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Subjects []string `json:"subjects"`
	Batches  []string `json:"batches"`
}

// BatchLabels returns the declared batches, falling back to the
// default three-way split.
func (c *ClassGroup) BatchLabels() []string {
	if len(c.Batches) > 0 {
		return c.Batches
	}
	return DefaultBatches
}
