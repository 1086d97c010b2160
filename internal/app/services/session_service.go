package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/qpidash/internal/app/models"
	"github.com/yigit/qpidash/internal/app/repositories"
	"github.com/yigit/qpidash/internal/pkg/apperrors"
	"github.com/yigit/qpidash/internal/pkg/auth"
	"github.com/yigit/qpidash/internal/pkg/qpi"
	"github.com/yigit/qpidash/internal/pkg/validation"
	"github.com/yigit/qpidash/internal/pkg/websocket"
)

// SessionToken is a freshly created session together with its bearer token
type SessionToken struct {
	Session   *models.Session
	Token     string
	ExpiresAt time.Time
}

// SessionService owns the session lifecycle and every per-session computation
type SessionService interface {
	Create(ctx context.Context) (*SessionToken, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error

	SetGrade(ctx context.Context, id uuid.UUID, subjectID int64, grade *float64) (*models.SessionDashboard, error)
	SetGrades(ctx context.Context, id uuid.UUID, grades map[int64]*float64) (*models.SessionDashboard, error)
	Dashboard(ctx context.Context, id uuid.UUID) (*models.SessionDashboard, error)
	Project(ctx context.Context, id uuid.UUID, scope models.Scope, target *float64) (*models.ScopeProjection, error)

	Components(ctx context.Context, id uuid.UUID) ([]models.Component, error)
	ReplaceComponents(ctx context.Context, id uuid.UUID, components []models.Component) ([]models.Component, error)
	ResetComponents(ctx context.Context, id uuid.UUID) ([]models.Component, error)
	ProjectComponents(ctx context.Context, id uuid.UUID, target *float64) (*models.ComponentProjection, error)
}

// SessionServiceConfig carries the grading settings a session service applies
type SessionServiceConfig struct {
	DefaultTarget float64
	YearQPIMode   qpi.YearQPIMode
}

type sessionServiceImpl struct {
	curriculumRepo *repositories.CurriculumRepository
	sessionRepo    *repositories.SessionRepository
	jwtService     *auth.JWTService
	publisher      Publisher
	config         SessionServiceConfig
	logger         zerolog.Logger
}

// NewSessionService creates a new session service
func NewSessionService(
	repos *repositories.Repositories,
	jwtService *auth.JWTService,
	publisher Publisher,
	config SessionServiceConfig,
	logger zerolog.Logger,
) SessionService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if config.DefaultTarget == 0 {
		config.DefaultTarget = models.PassingGrade
	}
	if config.YearQPIMode == "" {
		config.YearQPIMode = qpi.YearQPIThroughYear
	}
	return &sessionServiceImpl{
		curriculumRepo: repos.CurriculumRepository,
		sessionRepo:    repos.SessionRepository,
		jwtService:     jwtService,
		publisher:      publisher,
		config:         config,
		logger:         logger,
	}
}

// Create starts a session with an empty overlay and the default components
func (s *sessionServiceImpl) Create(ctx context.Context) (*SessionToken, error) {
	session := s.sessionRepo.Create(models.DefaultComponents(), s.config.DefaultTarget)

	token, expiresAt, err := s.jwtService.IssueSessionToken(session.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("sessionID", session.ID.String()).Msg("Failed to issue session token")
		_ = s.sessionRepo.Delete(session.ID)
		return nil, fmt.Errorf("error issuing session token: %w", err)
	}

	s.logger.Info().Str("sessionID", session.ID.String()).Msg("Session created")
	return &SessionToken{
		Session:   session,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Get returns a copy of the session
func (s *sessionServiceImpl) Get(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	return s.sessionRepo.Get(id)
}

// Delete ends the session and disconnects its live subscribers
func (s *sessionServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.sessionRepo.Delete(id); err != nil {
		return err
	}
	s.publisher.Publish(id, websocket.EventClosed, nil)
	s.logger.Info().Str("sessionID", id.String()).Msg("Session deleted")
	return nil
}

// SetGrade sets or clears one subject's grade. A nil or zero grade clears it.
func (s *sessionServiceImpl) SetGrade(ctx context.Context, id uuid.UUID, subjectID int64, grade *float64) (*models.SessionDashboard, error) {
	return s.SetGrades(ctx, id, map[int64]*float64{subjectID: grade})
}

// SetGrades applies a batch of grade edits. Either every edit applies or none does.
func (s *sessionServiceImpl) SetGrades(ctx context.Context, id uuid.UUID, grades map[int64]*float64) (*models.SessionDashboard, error) {
	for subjectID, grade := range grades {
		if !s.curriculumRepo.Exists(subjectID) {
			return nil, apperrors.NewCustomError(apperrors.ErrSubjectNotFound,
				fmt.Sprintf("subject %d is not part of the curriculum", subjectID)).
				WithDetails(map[string]interface{}{"subjectId": subjectID})
		}
		if err := validateGrade(grade); err != nil {
			return nil, fmt.Errorf("subject %d: %w", subjectID, err)
		}
	}

	session, err := s.sessionRepo.Update(id, func(draft *models.Session) error {
		for subjectID, grade := range grades {
			if grade == nil || *grade == 0 {
				delete(draft.Grades, subjectID)
				continue
			}
			draft.Grades[subjectID] = *grade
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dashboard := s.buildDashboard(session)
	s.publisher.Publish(id, websocket.EventDashboard, dashboard)

	s.logger.Debug().
		Str("sessionID", id.String()).
		Int("edits", len(grades)).
		Float64("cumulativeQPI", dashboard.Summary.CumulativeQPI).
		Msg("Grades updated")
	return dashboard, nil
}

// Dashboard returns the summary panel and the per-year standings
func (s *sessionServiceImpl) Dashboard(ctx context.Context, id uuid.UUID) (*models.SessionDashboard, error) {
	session, err := s.sessionRepo.Get(id)
	if err != nil {
		return nil, err
	}
	return s.buildDashboard(session), nil
}

func (s *sessionServiceImpl) buildDashboard(session *models.Session) *models.SessionDashboard {
	subjects := session.Overlay(s.curriculumRepo.All())
	return &models.SessionDashboard{
		Summary: qpi.Summarize(subjects),
		Years:   qpi.YearStandings(subjects, s.config.YearQPIMode),
		Target:  session.Target,
		Total:   qpi.ProjectScope(subjects, models.ScopeTotal, session.Target),
	}
}

// Project computes the average still needed on a scope. A nil target reuses
// the session's last target; a given target becomes the new last target.
func (s *sessionServiceImpl) Project(ctx context.Context, id uuid.UUID, scope models.Scope, target *float64) (*models.ScopeProjection, error) {
	scope, err := s.resolveScope(scope)
	if err != nil {
		return nil, err
	}
	if target != nil {
		if err := validateTarget(*target); err != nil {
			return nil, err
		}
	}

	session, err := s.sessionRepo.Update(id, func(draft *models.Session) error {
		if target != nil {
			draft.Target = *target
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	projection := qpi.ProjectScope(session.Overlay(s.curriculumRepo.All()), scope, session.Target)
	return &projection, nil
}

func (s *sessionServiceImpl) resolveScope(scope models.Scope) (models.Scope, error) {
	trimmed := models.Scope(strings.TrimSpace(string(scope)))
	if trimmed == "" || trimmed.IsTotal() {
		return models.ScopeTotal, nil
	}
	for _, year := range qpi.Years(s.curriculumRepo.All()) {
		if string(trimmed) == year {
			return trimmed, nil
		}
	}
	return "", apperrors.NewCustomError(apperrors.ErrInvalidScope,
		fmt.Sprintf("scope %q is neither a curriculum year nor %s", trimmed, models.ScopeTotal))
}

// Components returns the session's component list
func (s *sessionServiceImpl) Components(ctx context.Context, id uuid.UUID) ([]models.Component, error) {
	session, err := s.sessionRepo.Get(id)
	if err != nil {
		return nil, err
	}
	return session.Components, nil
}

// ReplaceComponents swaps in a whole new component list
func (s *sessionServiceImpl) ReplaceComponents(ctx context.Context, id uuid.UUID, components []models.Component) ([]models.Component, error) {
	for i, c := range components {
		if !validation.ValidWeight(c.Weight) {
			return nil, apperrors.NewCustomError(apperrors.ErrWeightOutOfRange,
				fmt.Sprintf("component %d (%s): weight must be between 0 and 100", i, c.Label)).
				WithDetails(map[string]interface{}{"index": i, "weight": c.Weight})
		}
	}
	return s.updateComponents(id, models.CloneComponents(components))
}

// ResetComponents restores the default four-row template
func (s *sessionServiceImpl) ResetComponents(ctx context.Context, id uuid.UUID) ([]models.Component, error) {
	return s.updateComponents(id, models.DefaultComponents())
}

func (s *sessionServiceImpl) updateComponents(id uuid.UUID, components []models.Component) ([]models.Component, error) {
	session, err := s.sessionRepo.Update(id, func(draft *models.Session) error {
		draft.Components = components
		return nil
	})
	if err != nil {
		return nil, err
	}

	projection := qpi.ProjectComponents(session.Components, session.ComponentTarget)
	s.publisher.Publish(id, websocket.EventComponents, projection)
	return session.Components, nil
}

// ProjectComponents computes the average needed on the unscored components.
// The course target is kept apart from the curriculum target.
func (s *sessionServiceImpl) ProjectComponents(ctx context.Context, id uuid.UUID, target *float64) (*models.ComponentProjection, error) {
	if target != nil {
		if err := validateTarget(*target); err != nil {
			return nil, err
		}
	}

	session, err := s.sessionRepo.Update(id, func(draft *models.Session) error {
		if target != nil {
			draft.ComponentTarget = *target
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	projection := qpi.ProjectComponents(session.Components, session.ComponentTarget)
	return &projection, nil
}

func validateGrade(grade *float64) error {
	if grade == nil || *grade == 0 {
		return nil
	}
	g := *grade
	if !validation.ValidGrade(g) {
		return apperrors.NewCustomError(apperrors.ErrGradeOutOfRange,
			fmt.Sprintf("grade %.2f is outside %d-%d", g, int(models.MinGrade), int(models.MaxGrade)))
	}
	return nil
}

func validateTarget(target float64) error {
	if !validation.ValidTarget(target) {
		return apperrors.NewCustomError(apperrors.ErrTargetOutOfRange,
			fmt.Sprintf("target %.2f is outside %d-%d", target, int(models.MinGrade), int(models.MaxGrade)))
	}
	return nil
}
