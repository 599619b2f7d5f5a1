package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_ReplacesInvalidCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(time.Hour, false))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, sessionID(c)) })

	tests := []struct {
		name      string
		cookie    string
		wantFresh bool
	}{
		{"no cookie", "", true},
		{"garbage cookie", "not-a-uuid", true},
		{"valid cookie kept", "5f1c0b7e-9a43-4d8e-8f2a-2b1f6c3d4e5f", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			id := w.Body.String()
			_, err := uuid.Parse(id)
			require.NoError(t, err)

			if tt.wantFresh {
				assert.NotEqual(t, tt.cookie, id)
				assert.Contains(t, w.Header().Get("Set-Cookie"), SessionCookie+"="+id)
				assert.Contains(t, w.Header().Get("Set-Cookie"), "SameSite=Lax")
			} else {
				assert.Equal(t, tt.cookie, id)
				assert.Empty(t, w.Header().Get("Set-Cookie"))
			}
		})
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		origins     []string
		origin      string
		wantAllowed string
	}{
		{"listed origin", []string{"https://quiz.example.com"}, "https://quiz.example.com", "https://quiz.example.com"},
		{"unlisted origin", []string{"https://quiz.example.com"}, "https://evil.example.com", ""},
		{"wildcard", []string{"*"}, "https://anything.example.com", "*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORS(tt.origins))
			r.GET("/api/questions", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/api/questions", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantAllowed, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
