package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/qpidash/internal/app/models"
	"github.com/yigit/qpidash/internal/app/repositories"
	"github.com/yigit/qpidash/internal/pkg/apperrors"
	"github.com/yigit/qpidash/internal/pkg/auth"
	"github.com/yigit/qpidash/internal/pkg/qpi"
	"github.com/yigit/qpidash/internal/pkg/websocket"
)

type publishedEvent struct {
	sessionID uuid.UUID
	eventType string
	payload   interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(sessionID uuid.UUID, eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{sessionID, eventType, payload})
}

func (p *recordingPublisher) last() publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func f(v float64) *float64 {
	return &v
}

func testCurriculum() repositories.StaticCurriculumLoader {
	return repositories.StaticCurriculumLoader{
		{ID: 1, Year: "1L", Semester: "1st Semester", Name: "Persons", Units: 3},
		{ID: 2, Year: "1L", Semester: "2nd Semester", Name: "Obligations", Units: 3},
		{ID: 3, Year: "2L", Semester: "1st Semester", Name: "Criminal Law", Units: 4},
		{ID: 4, Year: "2L", Semester: "2nd Semester", Name: "Evidence", Units: 2},
	}
}

func newTestSessionService(t *testing.T) (SessionService, *recordingPublisher, *auth.JWTService) {
	t.Helper()
	curriculumRepo, err := repositories.NewCurriculumRepository(context.Background(), testCurriculum())
	require.NoError(t, err)

	repos := repositories.NewRepositories(curriculumRepo, repositories.NewSessionRepository(time.Hour))
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "qpidash-test",
	})
	pub := &recordingPublisher{}
	svc := NewSessionService(repos, jwtService, pub, SessionServiceConfig{
		DefaultTarget: 75,
		YearQPIMode:   qpi.YearQPIThroughYear,
	}, zerolog.Nop())
	return svc, pub, jwtService
}

func createSession(t *testing.T, svc SessionService) uuid.UUID {
	t.Helper()
	created, err := svc.Create(context.Background())
	require.NoError(t, err)
	return created.Session.ID
}

func TestSessionService_CreateIssuesToken(t *testing.T) {
	svc, _, jwtService := newTestSessionService(t)

	created, err := svc.Create(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, created.Token)
	assert.True(t, created.ExpiresAt.After(time.Now()))
	assert.Equal(t, 75.0, created.Session.Target)
	assert.Equal(t, models.DefaultComponents(), created.Session.Components)

	id, err := jwtService.ValidateToken(created.Token)
	require.NoError(t, err)
	assert.Equal(t, created.Session.ID, id)
}

func TestSessionService_SetGradeUpdatesDashboard(t *testing.T) {
	svc, pub, _ := newTestSessionService(t)
	ctx := context.Background()
	id := createSession(t, svc)

	dash, err := svc.SetGrade(ctx, id, 1, f(90))
	require.NoError(t, err)
	assert.Equal(t, 90.0, dash.Summary.CumulativeQPI)
	assert.Equal(t, 3.0, dash.Summary.UnitsTaken)
	assert.Equal(t, 9.0, dash.Summary.UnitsRemaining)
	assert.Equal(t, 12.0, dash.Summary.TotalUnits)
	assert.Equal(t, 25, dash.Summary.ProgressPercent)

	require.Equal(t, 1, pub.count())
	assert.Equal(t, websocket.EventDashboard, pub.last().eventType)
	assert.Equal(t, id, pub.last().sessionID)

	dash, err = svc.SetGrades(ctx, id, map[int64]*float64{2: f(80), 3: f(70)})
	require.NoError(t, err)
	// (270 + 240 + 280) / 10
	assert.InDelta(t, 79.0, dash.Summary.CumulativeQPI, 1e-9)
	assert.Equal(t, 83, dash.Summary.ProgressPercent)

	require.Len(t, dash.Years, 2)
	assert.Equal(t, "1L", dash.Years[0].Year)
	assert.InDelta(t, 85.0, dash.Years[0].QPI, 1e-9)
	assert.InDelta(t, 79.0, dash.Years[1].QPI, 1e-9)
	assert.True(t, dash.Years[1].Semesters[0].Subjects[0].BelowPassing)
}

func TestSessionService_ClearGrade(t *testing.T) {
	svc, _, _ := newTestSessionService(t)
	ctx := context.Background()
	id := createSession(t, svc)

	_, err := svc.SetGrades(ctx, id, map[int64]*float64{1: f(90), 2: f(80)})
	require.NoError(t, err)

	dash, err := svc.SetGrade(ctx, id, 1, f(0))
	require.NoError(t, err)
	assert.Equal(t, 80.0, dash.Summary.CumulativeQPI)

	dash, err = svc.SetGrade(ctx, id, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, dash.Summary.CumulativeQPI)
	assert.Equal(t, 0.0, dash.Summary.UnitsTaken)

	session, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, session.Grades)
}

func TestSessionService_SetGradesRejectsInvalidBatch(t *testing.T) {
	svc, pub, _ := newTestSessionService(t)
	ctx := context.Background()
	id := createSession(t, svc)

	_, err := svc.SetGrades(ctx, id, map[int64]*float64{1: f(90), 2: f(120)})
	assert.ErrorIs(t, err, apperrors.ErrGradeOutOfRange)

	_, err = svc.SetGrade(ctx, id, 1, f(60))
	assert.ErrorIs(t, err, apperrors.ErrGradeOutOfRange)

	_, err = svc.SetGrade(ctx, id, 99, f(80))
	assert.ErrorIs(t, err, apperrors.ErrSubjectNotFound)

	session, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, session.Grades)
	assert.Equal(t, 0, pub.count())
}

func TestSessionService_UnknownSession(t *testing.T) {
	svc, _, _ := newTestSessionService(t)
	ctx := context.Background()

	_, err := svc.Dashboard(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	_, err = svc.SetGrade(ctx, uuid.New(), 1, f(80))
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestSessionService_Project(t *testing.T) {
	svc, _, _ := newTestSessionService(t)
	ctx := context.Background()
	id := createSession(t, svc)

	_, err := svc.SetGrades(ctx, id, map[int64]*float64{1: f(90), 2: f(80), 3: f(70)})
	require.NoError(t, err)

	tests := []struct {
		name     string
		scope    models.Scope
		target   float64
		status   models.ProjectionStatus
		required float64
	}{
		// (85*12 - 790) / 2
		{"unreachable", models.ScopeTotal, 85, models.StatusUnreachable, 115},
		{"needs", models.ScopeTotal, 80, models.StatusNeeds, 85},
		{"secured", models.ScopeTotal, 65, models.StatusSecured, -5},
		{"empty scope means total", "", 80, models.StatusNeeds, 85},
		// (80*6 - 280) / 2
		{"single year", "2L", 80, models.StatusNeeds, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := svc.Project(ctx, id, tt.scope, f(tt.target))
			require.NoError(t, err)
			assert.Equal(t, tt.status, p.Status)
			assert.InDelta(t, tt.required, p.RequiredAverage, 1e-9)
			assert.Equal(t, tt.target, p.Target)
		})
	}

	t.Run("complete year", func(t *testing.T) {
		p, err := svc.Project(ctx, id, "1L", f(80))
		require.NoError(t, err)
		assert.Equal(t, models.StatusScopeComplete, p.Status)
		assert.InDelta(t, 85.0, p.FinalIndex, 1e-9)
		assert.True(t, p.Reached)
	})

	t.Run("nil target reuses last target", func(t *testing.T) {
		_, err := svc.Project(ctx, id, models.ScopeTotal, f(72))
		require.NoError(t, err)

		p, err := svc.Project(ctx, id, models.ScopeTotal, nil)
		require.NoError(t, err)
		assert.Equal(t, 72.0, p.Target)

		dash, err := svc.Dashboard(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 72.0, dash.Target)
		assert.Equal(t, 72.0, dash.Total.Target)
	})
}

func TestSessionService_ProjectValidation(t *testing.T) {
	svc, _, _ := newTestSessionService(t)
	ctx := context.Background()
	id := createSession(t, svc)

	_, err := svc.Project(ctx, id, "5L", f(80))
	assert.ErrorIs(t, err, apperrors.ErrInvalidScope)

	_, err = svc.Project(ctx, id, models.ScopeTotal, f(50))
	assert.ErrorIs(t, err, apperrors.ErrTargetOutOfRange)

	_, err = svc.Project(ctx, id, models.ScopeTotal, f(100.5))
	assert.ErrorIs(t, err, apperrors.ErrTargetOutOfRange)

	session, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 75.0, session.Target)
}

func TestSessionService_Components(t *testing.T) {
	svc, pub, _ := newTestSessionService(t)
	ctx := context.Background()
	id := createSession(t, svc)

	components, err := svc.Components(ctx, id)
	require.NoError(t, err)
	require.Len(t, components, 4)

	components[0].Score = f(80)
	components[1].Score = f(90)
	saved, err := svc.ReplaceComponents(ctx, id, components)
	require.NoError(t, err)
	assert.Equal(t, 90.0, *saved[1].Score)
	assert.Equal(t, websocket.EventComponents, pub.last().eventType)

	p, err := svc.ProjectComponents(ctx, id, f(90))
	require.NoError(t, err)
	assert.InDelta(t, 56.1, p.CurrentWeightedPoints, 1e-9)
	assert.InDelta(t, 85.0, p.CurrentGrade, 1e-9)
	assert.InDelta(t, 34.0, p.RemainingWeight, 1e-9)
	assert.Equal(t, models.StatusNeeds, p.Status)
	assert.InDelta(t, 33.9/0.34, p.RequiredAverage, 1e-9)

	reset, err := svc.ResetComponents(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultComponents(), reset)
}

func TestSessionService_ReplaceComponentsRejectsBadWeight(t *testing.T) {
	svc, _, _ := newTestSessionService(t)
	ctx := context.Background()
	id := createSession(t, svc)

	_, err := svc.ReplaceComponents(ctx, id, []models.Component{{Label: "Exam", Weight: 120}})
	assert.ErrorIs(t, err, apperrors.ErrWeightOutOfRange)

	_, err = svc.ReplaceComponents(ctx, id, []models.Component{{Label: "Exam", Weight: -1}})
	assert.ErrorIs(t, err, apperrors.ErrWeightOutOfRange)

	components, err := svc.Components(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultComponents(), components)
}

func TestSessionService_OverAllocatedComponents(t *testing.T) {
	svc, _, _ := newTestSessionService(t)
	ctx := context.Background()
	id := createSession(t, svc)

	_, err := svc.ReplaceComponents(ctx, id, []models.Component{
		{Label: "Midterm", Weight: 60, Score: f(80)},
		{Label: "Final", Weight: 60, Score: f(90)},
	})
	require.NoError(t, err)

	p, err := svc.ProjectComponents(ctx, id, nil)
	require.NoError(t, err)
	assert.True(t, p.OverAllocated)
	assert.InDelta(t, -20.0, p.RemainingWeight, 1e-9)
	assert.Equal(t, models.StatusScopeComplete, p.Status)
	assert.InDelta(t, 102.0, p.FinalIndex, 1e-9)
}

func TestSessionService_TargetsAreIndependent(t *testing.T) {
	svc, _, _ := newTestSessionService(t)
	ctx := context.Background()
	id := createSession(t, svc)

	_, err := svc.Project(ctx, id, models.ScopeTotal, f(80))
	require.NoError(t, err)

	cp, err := svc.ProjectComponents(ctx, id, f(95))
	require.NoError(t, err)
	assert.Equal(t, 95.0, cp.Target)

	dash, err := svc.Dashboard(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 80.0, dash.Target)
	assert.Equal(t, 80.0, dash.Total.Target)

	p, err := svc.Project(ctx, id, models.ScopeTotal, nil)
	require.NoError(t, err)
	assert.Equal(t, 80.0, p.Target)

	cp, err = svc.ProjectComponents(ctx, id, nil)
	require.NoError(t, err)
	assert.Equal(t, 95.0, cp.Target)

	session, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 80.0, session.Target)
	assert.Equal(t, 95.0, session.ComponentTarget)
}

func TestSessionService_SessionsAreIsolated(t *testing.T) {
	svc, _, _ := newTestSessionService(t)
	ctx := context.Background()
	a := createSession(t, svc)
	b := createSession(t, svc)

	_, err := svc.SetGrade(ctx, a, 1, f(95))
	require.NoError(t, err)

	dash, err := svc.Dashboard(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, 0.0, dash.Summary.CumulativeQPI)
}

func TestSessionService_Delete(t *testing.T) {
	svc, pub, _ := newTestSessionService(t)
	ctx := context.Background()
	id := createSession(t, svc)

	require.NoError(t, svc.Delete(ctx, id))
	assert.Equal(t, websocket.EventClosed, pub.last().eventType)

	_, err := svc.Get(ctx, id)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, id), apperrors.ErrSessionNotFound)
}
