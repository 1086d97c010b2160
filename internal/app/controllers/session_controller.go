package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/qpidash/internal/app/models"
	"github.com/yigit/qpidash/internal/app/models/dto"
	"github.com/yigit/qpidash/internal/app/services"
	"github.com/yigit/qpidash/internal/middleware"
)

// SessionController handles sessions, grade edits and projections
type SessionController struct {
	sessionService services.SessionService
}

// NewSessionController creates a new SessionController
func NewSessionController(sessionService services.SessionService) *SessionController {
	return &SessionController{
		sessionService: sessionService,
	}
}

// CreateSession starts a new grading session
// @Summary Create a session
// @Description Creates a session with an empty grade overlay and returns its bearer token
// @Tags sessions
// @Produce json
// @Success 201 {object} dto.APIResponse{data=dto.SessionResponse} "Session created"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sessions [post]
func (c *SessionController) CreateSession(ctx *gin.Context) {
	created, err := c.sessionService.Create(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: dto.SessionResponse{
			SessionID: created.Session.ID,
			Token:     created.Token,
			ExpiresAt: created.ExpiresAt,
		},
		Timestamp: time.Now(),
	})
}

// GetSession describes the current session
// @Summary Get the current session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SessionInfoResponse}
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid session token"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/me [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	id, ok := currentSession(ctx)
	if !ok {
		return
	}

	session, err := c.sessionService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewSessionInfoResponse(session),
		Timestamp: time.Now(),
	})
}

// DeleteSession ends the current session
// @Summary End the current session
// @Tags sessions
// @Security BearerAuth
// @Success 204 "Session deleted"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid session token"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/me [delete]
func (c *SessionController) DeleteSession(ctx *gin.Context) {
	id, ok := currentSession(ctx)
	if !ok {
		return
	}

	if err := c.sessionService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// SetGrade sets or clears one subject's grade
// @Summary Set a subject grade
// @Description Sets the grade of one subject. A null or 0 grade clears it.
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subjectId path int true "Subject ID" Format(int64) minimum(1)
// @Param request body dto.SetGradeRequest true "Grade"
// @Success 200 {object} dto.APIResponse{data=models.SessionDashboard} "Updated dashboard"
// @Failure 400 {object} dto.ErrorResponse "Grade out of range"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid session token"
// @Failure 404 {object} dto.ErrorResponse "Subject or session not found"
// @Router /sessions/me/grades/{subjectId} [put]
func (c *SessionController) SetGrade(ctx *gin.Context) {
	id, ok := currentSession(ctx)
	if !ok {
		return
	}

	subjectID, err := strconv.ParseInt(ctx.Param("subjectId"), 10, 64)
	if err != nil || subjectID <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid subject ID")
		errorDetail = errorDetail.WithDetails("Subject ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.SetGradeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	dashboard, err := c.sessionService.SetGrade(ctx, id, subjectID, req.Grade)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dashboard,
		Timestamp: time.Now(),
	})
}

// SetGrades applies several grade edits at once
// @Summary Set several grades
// @Description Applies every edit or none. Null or 0 clears a grade.
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkGradesRequest true "Grades keyed by subject ID"
// @Success 200 {object} dto.APIResponse{data=models.SessionDashboard} "Updated dashboard"
// @Failure 400 {object} dto.ErrorResponse "Grade out of range"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid session token"
// @Failure 404 {object} dto.ErrorResponse "Subject or session not found"
// @Router /sessions/me/grades [patch]
func (c *SessionController) SetGrades(ctx *gin.Context) {
	id, ok := currentSession(ctx)
	if !ok {
		return
	}

	var req dto.BulkGradesRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	dashboard, err := c.sessionService.SetGrades(ctx, id, req.Grades)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dashboard,
		Timestamp: time.Now(),
	})
}

// GetDashboard returns the summary panel and per-year standings
// @Summary Get the dashboard
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.SessionDashboard}
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid session token"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/me/dashboard [get]
func (c *SessionController) GetDashboard(ctx *gin.Context) {
	id, ok := currentSession(ctx)
	if !ok {
		return
	}

	dashboard, err := c.sessionService.Dashboard(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dashboard,
		Timestamp: time.Now(),
	})
}

// GetProjection computes the average needed on the remaining units of a scope
// @Summary Project a scope
// @Description Computes the average needed on ungraded units to reach the target. Omitting target reuses the last one.
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param scope query string false "Year label or TOTAL" default(TOTAL)
// @Param target query number false "Target index, 65-100"
// @Success 200 {object} dto.APIResponse{data=models.ScopeProjection}
// @Failure 400 {object} dto.ErrorResponse "Unknown scope or target out of range"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid session token"
// @Router /sessions/me/projection [get]
func (c *SessionController) GetProjection(ctx *gin.Context) {
	id, ok := currentSession(ctx)
	if !ok {
		return
	}

	var query dto.ProjectionQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	projection, err := c.sessionService.Project(ctx, id, models.Scope(query.Scope), query.Target)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      projection,
		Timestamp: time.Now(),
	})
}
