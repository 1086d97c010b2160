package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/qpidash/internal/app/models/dto"
	"github.com/yigit/qpidash/internal/middleware"
)

// currentSession reads the session set by the auth middleware
func currentSession(ctx *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.SessionID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		errorDetail = errorDetail.WithDetails("Session not found in context")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return uuid.Nil, false
	}
	return id, true
}
