package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/qpidash/internal/app/models"
	"github.com/yigit/qpidash/internal/pkg/qpi"
)

// APIResponse is the envelope for every JSON response
type APIResponse struct {
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// SessionResponse is returned once, when a session is created
type SessionResponse struct {
	SessionID uuid.UUID `json:"sessionId" example:"5b1e3f0c-7d0e-4c37-9d55-2f0a2f1a6b11"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionInfoResponse describes an existing session
type SessionInfoResponse struct {
	SessionID       uuid.UUID `json:"sessionId"`
	Target          float64   `json:"target" example:"75"`
	ComponentTarget float64   `json:"componentTarget" example:"75"`
	GradedSubjects  int       `json:"gradedSubjects" example:"12"`
	Components      int       `json:"components" example:"4"`
	CreatedAt       time.Time `json:"createdAt"`
	LastSeenAt      time.Time `json:"lastSeenAt"`
}

// NewSessionInfoResponse maps a session to its summary
func NewSessionInfoResponse(s *models.Session) SessionInfoResponse {
	return SessionInfoResponse{
		SessionID:       s.ID,
		Target:          s.Target,
		ComponentTarget: s.ComponentTarget,
		GradedSubjects:  len(s.Grades),
		Components:      len(s.Components),
		CreatedAt:       s.CreatedAt,
		LastSeenAt:      s.LastSeenAt,
	}
}

// CurriculumResponse is the grouped, grade-free curriculum
type CurriculumResponse struct {
	Years      []models.YearStanding `json:"years"`
	TotalUnits float64               `json:"totalUnits" example:"140"`
	Subjects   int                   `json:"subjects" example:"45"`
}

// ComponentsResponse is a component list with its current standing
type ComponentsResponse struct {
	Components []models.Component       `json:"components"`
	Standing   models.ComponentStanding `json:"standing"`
}

// NewComponentsResponse computes the standing of the given list
func NewComponentsResponse(components []models.Component) ComponentsResponse {
	if components == nil {
		components = []models.Component{}
	}
	return ComponentsResponse{
		Components: components,
		Standing:   qpi.Standing(components),
	}
}
