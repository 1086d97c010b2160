package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/qpidash/internal/app/models/dto"
	"github.com/yigit/qpidash/internal/pkg/apperrors"
	"github.com/yigit/qpidash/internal/pkg/logger"
)

// HandleAPIError maps service errors to HTTP responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := classifyError(err)

	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Details != nil {
		detail = detail.WithDetails(custom.Details)
	}

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Unhandled API error")
	}

	c.AbortWithStatusJSON(status, dto.APIResponse{
		Error:     detail,
		Timestamp: time.Now(),
	})
}

func classifyError(err error) (int, *dto.ErrorDetail) {
	switch {
	case errors.Is(err, apperrors.ErrSessionNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeSessionNotFound, "Session not found")
	case errors.Is(err, apperrors.ErrSessionExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeSessionExpired, "Session expired")
	case errors.Is(err, apperrors.ErrSubjectNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrInvalidFormat):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrGradeOutOfRange):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeGradeOutOfRange, err.Error()).WithField("grade")
	case errors.Is(err, apperrors.ErrTargetOutOfRange):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeTargetOutOfRange, err.Error()).WithField("target")
	case errors.Is(err, apperrors.ErrWeightOutOfRange):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeWeightOutOfRange, err.Error()).WithField("weight")
	case errors.Is(err, apperrors.ErrInvalidScope):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeInvalidScope, err.Error()).WithField("scope")
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, "Conflict")
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
