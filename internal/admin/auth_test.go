package admin

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "persona-quiz/internal/common/errors"
	"persona-quiz/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Username:     "admin",
		Password:     "123",
		Secret:       "s3cret",
		CookieName:   "admin_auth_v2",
		CookieTTL:    24 * time.Hour,
		AnalyticsKey: "analytics-key",
	}
}

func newTestAuthenticator(t *testing.T, cfg *Config) *Authenticator {
	t.Helper()
	log := logger.NewTestLogger(t)
	return NewAuthenticator(cfg, apperrors.NewResponder(log), log)
}

func newTestRouter(a *Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST(APILoginPath, a.Login)
	r.GET(APILoginPath, a.Probe)
	r.POST("/api/admin/logout", a.Logout)

	gated := r.Group("/admin", a.RequireAdmin())
	gated.GET("", func(c *gin.Context) { c.String(http.StatusOK, "dashboard") })
	gated.GET("/login", func(c *gin.Context) { c.String(http.StatusOK, "login page") })
	gated.GET("/export", func(c *gin.Context) { c.String(http.StatusOK, "export") })

	r.GET("/api/answers", a.RequireAnalyticsKey(), func(c *gin.Context) { c.String(http.StatusOK, "rows") })
	return r
}

func login(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, APILoginPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ==========================
// Tokens
// ==========================

func TestAuthenticator_Tokens(t *testing.T) {
	a := newTestAuthenticator(t, createTestConfig())
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	token := a.IssueToken()
	assert.True(t, a.VerifyToken(token))

	assert.False(t, a.VerifyToken(""))
	assert.False(t, a.VerifyToken("garbage"))
	assert.False(t, a.VerifyToken(token+"0"))

	expiry, mac, _ := strings.Cut(token, ".")
	assert.False(t, a.VerifyToken("9"+expiry+"."+mac), "tampered expiry")

	other := newTestAuthenticator(t, &Config{Username: "admin", Secret: "different", CookieTTL: time.Hour})
	other.now = a.now
	assert.False(t, other.VerifyToken(token), "foreign secret")

	a.now = func() time.Time { return now.Add(25 * time.Hour) }
	assert.False(t, a.VerifyToken(token), "expired")
}

func TestAuthenticator_CheckCredentials(t *testing.T) {
	a := newTestAuthenticator(t, createTestConfig())

	assert.True(t, a.CheckCredentials("admin", "123"))
	assert.False(t, a.CheckCredentials("admin", "1234"))
	assert.False(t, a.CheckCredentials("Admin", "123"))
	assert.False(t, a.CheckCredentials("", ""))
}

// ==========================
// Handlers
// ==========================

func TestLogin(t *testing.T) {
	a := newTestAuthenticator(t, createTestConfig())
	r := newTestRouter(a)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCookie bool
	}{
		{"valid credentials", `{"username":"admin","password":"123"}`, http.StatusOK, true},
		{"wrong password", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized, false},
		{"malformed body", `{"username":`, http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := login(t, r, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)

			cookie := w.Header().Get("Set-Cookie")
			if !tt.wantCookie {
				assert.Empty(t, cookie)
				return
			}
			assert.Contains(t, cookie, "admin_auth_v2=")
			assert.Contains(t, cookie, "HttpOnly")
			assert.Contains(t, cookie, "SameSite=Lax")
			assert.Contains(t, cookie, "Max-Age=86400")
			assert.NotContains(t, cookie, "Secure")
		})
	}
}

func TestLogin_SecureInProduction(t *testing.T) {
	cfg := createTestConfig()
	cfg.Secure = true
	r := newTestRouter(newTestAuthenticator(t, cfg))

	w := login(t, r, `{"username":"admin","password":"123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Secure")
}

func TestProbeAndLogout(t *testing.T) {
	r := newTestRouter(newTestAuthenticator(t, createTestConfig()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, APILoginPath, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"route":"/api/admin/login"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

// ==========================
// Middleware
// ==========================

func TestRequireAdmin(t *testing.T) {
	a := newTestAuthenticator(t, createTestConfig())
	r := newTestRouter(a)
	valid := &http.Cookie{Name: "admin_auth_v2", Value: a.IssueToken()}

	tests := []struct {
		name         string
		path         string
		cookie       *http.Cookie
		wantStatus   int
		wantLocation string
	}{
		{"dashboard without cookie", "/admin", nil, http.StatusFound, "/admin/login?next=%2Fadmin"},
		{"nested path keeps query", "/admin/export?fmt=csv", nil, http.StatusFound, "/admin/login?next=%2Fadmin%2Fexport%3Ffmt%3Dcsv"},
		{"login page is open", "/admin/login", nil, http.StatusOK, ""},
		{"forged cookie", "/admin", &http.Cookie{Name: "admin_auth_v2", Value: "1.abc"}, http.StatusFound, "/admin/login?next=%2Fadmin"},
		{"valid cookie", "/admin", valid, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
		})
	}
}

func TestRequireAnalyticsKey(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		header     string
		wantStatus int
	}{
		{"valid bearer", "analytics-key", "Bearer analytics-key", http.StatusOK},
		{"wrong bearer", "analytics-key", "Bearer other", http.StatusUnauthorized},
		{"lowercase scheme", "analytics-key", "bearer analytics-key", http.StatusOK},
		{"extra whitespace", "analytics-key", "  BEARER   analytics-key ", http.StatusOK},
		{"bare key without scheme", "analytics-key", "analytics-key", http.StatusUnauthorized},
		{"missing header", "analytics-key", "", http.StatusUnauthorized},
		{"wrong scheme", "analytics-key", "Basic analytics-key", http.StatusUnauthorized},
		{"empty key never matches", "", "Bearer ", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestConfig()
			cfg.AnalyticsKey = tt.key
			r := newTestRouter(newTestAuthenticator(t, cfg))

			req := httptest.NewRequest(http.MethodGet, "/api/answers", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
