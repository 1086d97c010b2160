package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/qpidash/internal/app/models/dto"
	"github.com/yigit/qpidash/internal/app/services"
	"github.com/yigit/qpidash/internal/middleware"
)

// ComponentController handles the per-course component table
type ComponentController struct {
	sessionService services.SessionService
}

// NewComponentController creates a new ComponentController
func NewComponentController(sessionService services.SessionService) *ComponentController {
	return &ComponentController{
		sessionService: sessionService,
	}
}

// GetComponents returns the component list and its standing
// @Summary Get components
// @Tags components
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ComponentsResponse}
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid session token"
// @Router /sessions/me/components [get]
func (c *ComponentController) GetComponents(ctx *gin.Context) {
	id, ok := currentSession(ctx)
	if !ok {
		return
	}

	components, err := c.sessionService.Components(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewComponentsResponse(components),
		Timestamp: time.Now(),
	})
}

// ReplaceComponents stores a whole new component list
// @Summary Replace components
// @Description Scores may be numbers, numeric strings, empty strings or null. Malformed scores count as absent.
// @Tags components
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ComponentsRequest true "Component list"
// @Success 200 {object} dto.APIResponse{data=dto.ComponentsResponse}
// @Failure 400 {object} dto.ErrorResponse "Weight out of range"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid session token"
// @Router /sessions/me/components [put]
func (c *ComponentController) ReplaceComponents(ctx *gin.Context) {
	id, ok := currentSession(ctx)
	if !ok {
		return
	}

	var req dto.ComponentsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	components, err := c.sessionService.ReplaceComponents(ctx, id, req.ToModels())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewComponentsResponse(components),
		Timestamp: time.Now(),
	})
}

// ResetComponents restores the default template
// @Summary Reset components
// @Tags components
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ComponentsResponse}
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid session token"
// @Router /sessions/me/components [delete]
func (c *ComponentController) ResetComponents(ctx *gin.Context) {
	id, ok := currentSession(ctx)
	if !ok {
		return
	}

	components, err := c.sessionService.ResetComponents(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewComponentsResponse(components),
		Timestamp: time.Now(),
	})
}

// GetComponentProjection computes the score needed on the unscored components
// @Summary Project components
// @Tags components
// @Produce json
// @Security BearerAuth
// @Param target query number false "Target grade, 65-100"
// @Success 200 {object} dto.APIResponse{data=models.ComponentProjection}
// @Failure 400 {object} dto.ErrorResponse "Target out of range"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid session token"
// @Router /sessions/me/components/projection [get]
func (c *ComponentController) GetComponentProjection(ctx *gin.Context) {
	id, ok := currentSession(ctx)
	if !ok {
		return
	}

	var query dto.ComponentProjectionQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	projection, err := c.sessionService.ProjectComponents(ctx, id, query.Target)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      projection,
		Timestamp: time.Now(),
	})
}
