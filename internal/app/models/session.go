package models

import (
	"time"

	"github.com/google/uuid"
)

// Session holds one user's grade overlay and component list.
// Sessions are never shared; repositories hand out copies.
type Session struct {
	ID         uuid.UUID         `json:"id"`
	Grades     map[int64]float64 `json:"grades"`
	Components []Component       `json:"components"`

	// Target drives the curriculum projections; ComponentTarget the course grade
	Target          float64   `json:"target"`
	ComponentTarget float64   `json:"componentTarget"`
	CreatedAt       time.Time `json:"createdAt"`
	LastSeenAt      time.Time `json:"lastSeenAt"`
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	grades := make(map[int64]float64, len(s.Grades))
	for id, g := range s.Grades {
		grades[id] = g
	}
	return &Session{
		ID:              s.ID,
		Grades:          grades,
		Components:      CloneComponents(s.Components),
		Target:          s.Target,
		ComponentTarget: s.ComponentTarget,
		CreatedAt:       s.CreatedAt,
		LastSeenAt:      s.LastSeenAt,
	}
}

// Overlay applies the session's grades to a curriculum snapshot
func (s *Session) Overlay(curriculum []Subject) []Subject {
	out := make([]Subject, len(curriculum))
	for i, subj := range curriculum {
		subj.Grade = nil
		if g, ok := s.Grades[subj.ID]; ok {
			subj = subj.WithGrade(g)
		}
		out[i] = subj
	}
	return out
}
