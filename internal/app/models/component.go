package models

// Component is one weighted sub-grade inside a single course
type Component struct {
	Label  string   `json:"label" example:"Midterm Exam"`
	Weight float64  `json:"weight" example:"33"`
	Score  *float64 `json:"score,omitempty" example:"88"`
}

// DefaultComponents returns a fresh copy of the four-row starting template
func DefaultComponents() []Component {
	return []Component{
		{Label: "Midterm Exam", Weight: 33},
		{Label: "Final Exam", Weight: 33},
		{Label: "Quizzes", Weight: 17},
		{Label: "Recitation", Weight: 17},
	}
}

// CloneComponents deep-copies a component list, scores included
func CloneComponents(in []Component) []Component {
	out := make([]Component, len(in))
	for i, c := range in {
		out[i] = c
		if c.Score != nil {
			score := *c.Score
			out[i].Score = &score
		}
	}
	return out
}
