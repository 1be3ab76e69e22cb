package timetable

import (
	"math/rand"

	"github.com/campusone/timetable-api/internal/models"
)

func fullWeek(days ...string) map[string][]models.TimeSlot {
	availability := make(map[string][]models.TimeSlot, len(days))
	for _, day := range days {
		availability[day] = []models.TimeSlot{{Start: "09:15", End: "15:35"}}
	}
	return availability
}

func sampleFaculties() []models.Faculty {
	return []models.Faculty{
		{
			ID: "f1", Name: "Dr. Smith", Position: models.PositionHOD,
			Subjects:     []string{"s1", "s2"},
			Availability: fullWeek("Monday", "Tuesday", "Wednesday", "Thursday", "Friday"),
		},
		{
			ID: "f2", Name: "Prof. Johnson", Position: models.PositionSenior,
			Subjects:     []string{"s3", "s4"},
			Availability: fullWeek("Monday", "Tuesday", "Wednesday", "Thursday"),
		},
		{
			ID: "f3", Name: "Dr. Williams", Position: models.PositionJunior,
			Subjects:     []string{"s2", "s5"},
			Availability: fullWeek("Monday", "Tuesday", "Wednesday", "Friday"),
		},
		{
			ID: "f4", Name: "Prof. Brown", Position: models.PositionJunior,
			Subjects: []string{"s3", "s4"},
			Availability: map[string][]models.TimeSlot{
				"Monday":    {{Start: "09:15", End: "15:35"}},
				"Wednesday": {{Start: "10:15", End: "15:35"}},
				"Thursday":  {{Start: "09:15", End: "15:35"}},
				"Friday":    {{Start: "09:15", End: "15:35"}},
			},
		},
		{
			ID: "f5", Name: "Ms. Jones", Position: models.PositionGuest,
			Subjects:     []string{"s1", "s5"},
			Availability: fullWeek("Tuesday", "Thursday", "Friday"),
		},
	}
}

func sampleSubjects() []models.Subject {
	return []models.Subject{
		{ID: "s1", Name: "Artificial Intelligence", IsLab: false, FacultyIDs: []string{"f1", "f5"}},
		{ID: "s2", Name: "Data Mining", IsLab: false, FacultyIDs: []string{"f1", "f3"}},
		{ID: "s3", Name: "Computer Networks", IsLab: true, FacultyIDs: []string{"f2", "f4"}},
		{ID: "s4", Name: "Database Systems", IsLab: true, FacultyIDs: []string{"f2", "f4"}},
		{ID: "s5", Name: "Machine Learning", IsLab: false, FacultyIDs: []string{"f3", "f5"}},
	}
}

func sampleClasses() []models.ClassGroup {
	return []models.ClassGroup{
		{ID: "c1", Name: "CS-A", Subjects: []string{"s1", "s2", "s3", "s4"}},
		{ID: "c2", Name: "IT-B", Subjects: []string{"s2", "s3", "s4", "s5"}},
	}
}

func sampleResources() []models.Resource {
	return []models.Resource{
		{ID: "r1", Name: "Classroom 101", Kind: models.ResourceClassroom, Capacity: 60},
		{ID: "r2", Name: "Classroom 102", Kind: models.ResourceClassroom, Capacity: 60},
		{ID: "r3", Name: "Lab 201", Kind: models.ResourceLab, Capacity: 30},
		{ID: "r4", Name: "Lab 202", Kind: models.ResourceLab, Capacity: 30},
	}
}

func sampleDataset() *Dataset {
	return NewDataset(sampleFaculties(), sampleSubjects(), sampleClasses(), sampleResources())
}

func generateSample(seed int64) (*Dataset, *Result) {
	data := sampleDataset()
	result := NewGenerator(data, rand.New(rand.NewSource(seed))).Generate()
	return data, result
}
