package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/qpidash/internal/pkg/auth"
)

func TestSessionAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", TokenExp: time.Hour, TokenIssuer: "qpidash"})
	sessionID := uuid.New()
	token, _, err := jwtService.IssueSessionToken(sessionID)
	require.NoError(t, err)

	var seen uuid.UUID
	router := gin.New()
	router.GET("/me", NewAuthMiddleware(jwtService).SessionAuth(), func(c *gin.Context) {
		seen, _ = SessionID(c)
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"bearer header", "Bearer " + token, "", http.StatusOK},
		{"raw token", token, "", http.StatusOK},
		{"query token", "", "?token=" + token, http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = uuid.Nil
			req := httptest.NewRequest(http.MethodGet, "/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, sessionID, seen)
			} else {
				assert.Equal(t, uuid.Nil, seen)
			}
		})
	}
}

func TestSessionAuthRejectsForeignIssuer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ours := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", TokenExp: time.Hour, TokenIssuer: "qpidash"})
	theirs := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", TokenExp: time.Hour, TokenIssuer: "elsewhere"})
	token, _, err := theirs.IssueSessionToken(uuid.New())
	require.NoError(t, err)

	router := gin.New()
	router.GET("/me", NewAuthMiddleware(ours).SessionAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
