package models

// Subject is one curriculum entry with the session's grade overlaid on it
type Subject struct {
	ID       int64    `json:"id" db:"id" example:"1"`
	Year     string   `json:"year" db:"year" example:"1L"`
	Semester string   `json:"semester" db:"semester" example:"1st Semester"`
	Name     string   `json:"name" db:"name" example:"Persons and Family Relations"`
	Units    float64  `json:"units" db:"units" example:"4"`
	Grade    *float64 `json:"grade,omitempty" db:"-" example:"88.5"` // nil or 0 means ungraded
}

// GradeValue returns the grade or 0 when absent
func (s Subject) GradeValue() float64 {
	if s.Grade == nil {
		return 0
	}
	return *s.Grade
}

// WithGrade returns a copy of the subject carrying the given grade
func (s Subject) WithGrade(grade float64) Subject {
	g := grade
	s.Grade = &g
	return s
}
