package qpi

import (
	"github.com/yigit/qpidash/internal/app/models"
)

func grade(v float64) *float64 {
	return &v
}

func subject(id int64, year, sem string, units float64, g *float64) models.Subject {
	return models.Subject{ID: id, Year: year, Semester: sem, Name: "S", Units: units, Grade: g}
}

// sampleCurriculum spans two years with a mix of graded and ungraded rows
func sampleCurriculum() []models.Subject {
	return []models.Subject{
		subject(1, "1L", "1st Semester", 4, grade(90)),
		subject(2, "1L", "1st Semester", 2, grade(80)),
		subject(3, "1L", "2nd Semester", 3, nil),
		subject(4, "2L", "1st Semester", 3, grade(70)),
		subject(5, "2L", "2nd Semester", 3, grade(0)),
	}
}
