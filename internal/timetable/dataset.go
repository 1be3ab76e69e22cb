package timetable

import (
	"github.com/samber/lo"

	"github.com/campusone/timetable-api/internal/models"
)

// Dataset is the read-only input of one generation run. Entities are
// indexed by id so entries can cross-reference them without embedding;
// classes and resources keep their declared order because pass
// iteration order is part of the engine contract.
type Dataset struct {
	faculties map[string]*models.Faculty
	subjects  map[string]*models.Subject
	classes   []*models.ClassGroup
	resources []*models.Resource
}

// NewDataset indexes the domain entities for a run.
func NewDataset(
	faculties []models.Faculty,
	subjects []models.Subject,
	classes []models.ClassGroup,
	resources []models.Resource,
) *Dataset {
	d := &Dataset{
		faculties: make(map[string]*models.Faculty, len(faculties)),
		subjects:  make(map[string]*models.Subject, len(subjects)),
		classes:   make([]*models.ClassGroup, 0, len(classes)),
		resources: make([]*models.Resource, 0, len(resources)),
	}
	for i := range faculties {
		d.faculties[faculties[i].ID] = &faculties[i]
	}
	for i := range subjects {
		d.subjects[subjects[i].ID] = &subjects[i]
	}
	for i := range classes {
		d.classes = append(d.classes, &classes[i])
	}
	for i := range resources {
		d.resources = append(d.resources, &resources[i])
	}
	return d
}

// Faculty resolves a faculty id. Unknown ids are an absent result, not
// an error; callers skip them.
func (d *Dataset) Faculty(id string) (*models.Faculty, bool) {
	f, ok := d.faculties[id]
	return f, ok
}

// Subject resolves a subject id.
func (d *Dataset) Subject(id string) (*models.Subject, bool) {
	s, ok := d.subjects[id]
	return s, ok
}

// Classes returns the class groups in declared order.
func (d *Dataset) Classes() []*models.ClassGroup {
	return d.classes
}

// Class resolves a class id.
func (d *Dataset) Class(id string) (*models.ClassGroup, bool) {
	for _, c := range d.classes {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// ResourcesOfKind returns resources of the given kind in declared order.
func (d *Dataset) ResourcesOfKind(kind models.ResourceKind) []*models.Resource {
	return lo.Filter(d.resources, func(r *models.Resource, _ int) bool {
		return r.Kind == kind
	})
}

// LabSubjects returns the ids of the class's lab-flagged subjects in
// declared order, skipping unknown references.
func (d *Dataset) LabSubjects(class *models.ClassGroup) []string {
	return lo.Filter(class.Subjects, func(id string, _ int) bool {
		subject, ok := d.subjects[id]
		return ok && subject.IsLab
	})
}
