package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/qpidash/internal/pkg/apperrors"
)

func TestHandleAPIError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"session not found", apperrors.ErrSessionNotFound, http.StatusNotFound, "SES_001"},
		{"session expired", apperrors.ErrSessionExpired, http.StatusUnauthorized, "SES_002"},
		{"subject not found", apperrors.NewCustomError(apperrors.ErrSubjectNotFound, "subject 9 is not part of the curriculum"), http.StatusNotFound, "RES_001"},
		{"wrapped target", fmt.Errorf("project: %w", apperrors.ErrTargetOutOfRange), http.StatusBadRequest, "GRD_002"},
		{"grade", apperrors.ErrGradeOutOfRange, http.StatusBadRequest, "GRD_001"},
		{"weight", apperrors.ErrWeightOutOfRange, http.StatusBadRequest, "GRD_003"},
		{"scope", apperrors.ErrInvalidScope, http.StatusBadRequest, "GRD_004"},
		{"token expired", apperrors.ErrTokenExpired, http.StatusUnauthorized, "AUTH_006"},
		{"token malformed", apperrors.ErrInvalidFormat, http.StatusUnauthorized, "AUTH_005"},
		{"validation", apperrors.NewValidationError("grade", "bad"), http.StatusBadRequest, "VAL_001"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "SRV_001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error.Code)
			assert.True(t, c.IsAborted())
		})
	}
}

func TestHandleAPIErrorCarriesDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/", nil)

	HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrWeightOutOfRange, "too heavy").
		WithDetails(map[string]interface{}{"index": 2}))

	var body struct {
		Error struct {
			Message string                 `json:"message"`
			Field   string                 `json:"field"`
			Details map[string]interface{} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "too heavy", body.Error.Message)
	assert.Equal(t, "weight", body.Error.Field)
	assert.Equal(t, 2.0, body.Error.Details["index"])
}
