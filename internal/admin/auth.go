// Package admin gates the dashboard behind a shared-secret login and the
// analytics endpoints behind a bearer key.
package admin

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"persona-quiz/internal/common/config"
	apperrors "persona-quiz/internal/common/errors"
	"persona-quiz/internal/common/logger"
)

const (
	LoginPath    = "/admin/login"
	APILoginPath = "/api/admin/login"
)

type Config struct {
	Username     string
	Password     string
	Secret       string
	CookieName   string
	CookieTTL    time.Duration
	Secure       bool
	AnalyticsKey string
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Username:     cfg.Admin.Username,
		Password:     cfg.Admin.Password,
		Secret:       cfg.Admin.Secret,
		CookieName:   cfg.Admin.CookieName,
		CookieTTL:    config.GetSeconds(cfg.Admin.CookieTTL),
		Secure:       cfg.App.IsProduction(),
		AnalyticsKey: cfg.Analytics.APIKey,
	}
}

type Credentials struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type Authenticator struct {
	config    *Config
	responder *apperrors.Responder
	logger    logger.Logger
	now       func() time.Time
}

func NewAuthenticator(cfg *Config, responder *apperrors.Responder, log logger.Logger) *Authenticator {
	return &Authenticator{
		config:    cfg,
		responder: responder,
		logger:    log.WithFields(map[string]interface{}{"component": "admin-auth"}),
		now:       time.Now,
	}
}

// CheckCredentials compares both fields in constant time.
func (a *Authenticator) CheckCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.config.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.config.Password)) == 1
	return userOK && passOK
}

// IssueToken returns a cookie value of the form "<expiry>.<mac>".
func (a *Authenticator) IssueToken() string {
	expiry := strconv.FormatInt(a.now().Add(a.config.CookieTTL).Unix(), 10)
	return expiry + "." + a.sign(expiry)
}

// VerifyToken checks the signature and expiry of a cookie value.
func (a *Authenticator) VerifyToken(token string) bool {
	expiry, mac, ok := strings.Cut(token, ".")
	if !ok || expiry == "" || mac == "" {
		return false
	}
	if !hmac.Equal([]byte(mac), []byte(a.sign(expiry))) {
		return false
	}
	unix, err := strconv.ParseInt(expiry, 10, 64)
	if err != nil {
		return false
	}
	return a.now().Unix() < unix
}

func (a *Authenticator) sign(expiry string) string {
	h := hmac.New(sha256.New, []byte(a.config.Secret))
	h.Write([]byte("admin|" + a.config.Username + "|" + expiry))
	return hex.EncodeToString(h.Sum(nil))
}

// Authenticated reports whether the request carries a valid admin cookie.
func (a *Authenticator) Authenticated(c *gin.Context) bool {
	token, err := c.Cookie(a.config.CookieName)
	if err != nil {
		return false
	}
	return a.VerifyToken(token)
}

// Login handles POST /api/admin/login.
func (a *Authenticator) Login(c *gin.Context) {
	var creds Credentials
	if err := c.ShouldBind(&creds); err != nil {
		a.responder.Respond(c, apperrors.NewInvalidRequestBodyError(err))
		return
	}

	if !a.CheckCredentials(creds.Username, creds.Password) {
		a.logger.Warn("Admin login rejected", map[string]interface{}{
			"client_ip": c.ClientIP(),
		})
		a.responder.Respond(c, apperrors.NewInvalidCredentialsError())
		return
	}

	a.setCookie(c, a.IssueToken(), int(a.config.CookieTTL.Seconds()))
	a.logger.Info("Admin logged in", map[string]interface{}{"client_ip": c.ClientIP()})
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Probe handles GET /api/admin/login.
func (a *Authenticator) Probe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "route": APILoginPath})
}

// Logout clears the admin cookie.
func (a *Authenticator) Logout(c *gin.Context) {
	a.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *Authenticator) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(a.config.CookieName, value, maxAge, "/", "", a.config.Secure, true)
}

// RequireAdmin redirects unauthenticated requests to the login page,
// carrying the original path and query in "next".
func (a *Authenticator) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == LoginPath || a.Authenticated(c) {
			c.Next()
			return
		}
		target := LoginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}

// RequireAnalyticsKey accepts "Authorization: Bearer <key>". An empty
// configured key rejects every request.
func (a *Authenticator) RequireAnalyticsKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.bearerMatches(c.GetHeader("Authorization")) {
			a.responder.Respond(c, apperrors.NewUnauthorizedError("missing or invalid bearer token"))
			return
		}
		c.Next()
	}
}

func (a *Authenticator) bearerMatches(header string) bool {
	if a.config.AnalyticsKey == "" {
		return false
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(a.config.AnalyticsKey)) == 1
}
