package dto

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/yigit/qpidash/internal/app/models"
)

// SetGradeRequest sets or clears one subject's grade. Null or 0 clears it.
type SetGradeRequest struct {
	Grade *float64 `json:"grade" binding:"omitempty,grade" example:"88.5"`
}

// BulkGradesRequest edits several grades at once, keyed by subject ID
type BulkGradesRequest struct {
	Grades map[int64]*float64 `json:"grades" binding:"required,min=1,dive,omitempty,grade"`
}

// ProjectionQuery selects the scope and target of a projection
type ProjectionQuery struct {
	Scope  string   `form:"scope" example:"TOTAL"`
	Target *float64 `form:"target" binding:"omitempty,target" example:"85"`
}

// ComponentProjectionQuery carries the target of a component projection
type ComponentProjectionQuery struct {
	Target *float64 `form:"target" binding:"omitempty,target" example:"90"`
}

// ComponentsRequest replaces the whole component list
type ComponentsRequest struct {
	Components []ComponentInput `json:"components" binding:"required,max=50,dive"`
}

// ComponentInput is one row of the component table
type ComponentInput struct {
	Label  string     `json:"label" binding:"max=100" example:"Midterm Exam"`
	Weight float64    `json:"weight" binding:"weight" example:"33"`
	Score  ScoreInput `json:"score" swaggertype:"number" example:"88"`
}

// ToModels converts the request rows into components
func (r ComponentsRequest) ToModels() []models.Component {
	out := make([]models.Component, len(r.Components))
	for i, c := range r.Components {
		out[i] = models.Component{
			Label:  strings.TrimSpace(c.Label),
			Weight: c.Weight,
			Score:  c.Score.Float(),
		}
	}
	return out
}

// ScoreInput is a leniently decoded score cell. Numbers and numeric strings
// are kept; null, empty strings and anything malformed decode to absent.
type ScoreInput struct {
	value *float64
}

// NewScoreInput wraps a score value
func NewScoreInput(v *float64) ScoreInput {
	return ScoreInput{value: v}
}

// Float returns the decoded score, nil when absent
func (s ScoreInput) Float() *float64 {
	if s.value == nil {
		return nil
	}
	v := *s.value
	return &v
}

// UnmarshalJSON never fails; unusable input leaves the score absent
func (s *ScoreInput) UnmarshalJSON(data []byte) error {
	s.value = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
	} else {
		raw = string(data)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	s.value = &v
	return nil
}

// MarshalJSON writes the score or null
func (s ScoreInput) MarshalJSON() ([]byte, error) {
	if s.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*s.value)
}
