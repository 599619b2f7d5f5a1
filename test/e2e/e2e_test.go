// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"persona-quiz/internal/admin"
	"persona-quiz/internal/answers"
	"persona-quiz/internal/common/config"
	"persona-quiz/internal/common/database"
	apperrors "persona-quiz/internal/common/errors"
	"persona-quiz/internal/common/logger"
	"persona-quiz/internal/common/observability"
	"persona-quiz/internal/motto"
	"persona-quiz/internal/server"
	"persona-quiz/internal/submissions"
	"persona-quiz/pkg/catalog"
)

// ==========================
// Test Environment
// ==========================

type TestEnvironment struct {
	Config      *config.Config
	Server      *httptest.Server
	Redis       *miniredis.Miniredis
	Indexed     *int32
	Completions *int32
}

func setupEnvironment(t *testing.T, upstreamStatus int) *TestEnvironment {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	log := logger.NewTestLogger(t)

	cfg := &config.Config{
		App:       config.AppConfig{Name: "persona-quiz-e2e", Environment: "test"},
		Admin:     config.AdminConfig{Username: "admin", Password: "123", Secret: "e2e-secret", CookieName: "admin_auth_v2", CookieTTL: 3600},
		Analytics: config.AnalyticsConfig{APIKey: "e2e-key"},
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "quiz.db")},
		},
		Quiz: config.QuizConfig{
			AnswerTTL:       3600,
			CountCacheTTL:   60000,
			ListLimit:       100,
			ListMaxLimit:    1000,
			DashboardWindow: 500,
			DashboardRecent: 25,
			MottoCacheSize:  16,
		},
	}

	// --- Chat completions upstream ---
	var completions int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&completions, 1)
		if upstreamStatus != http.StatusOK {
			w.WriteHeader(upstreamStatus)
			_, _ = w.Write([]byte(`{"error":{"message":"unavailable"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Calm minds chart brave new paths"}}]}`))
	}))
	t.Cleanup(upstream.Close)
	cfg.APIs.GenAI = config.GenAIConfig{BaseURL: upstream.URL, APIKey: "sk-e2e", Model: "gpt-4o-mini", MaxTokens: 24, Timeout: 2000}

	// --- Elasticsearch ---
	var indexed int32
	es := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/quiz_submissions/_doc/") {
			atomic.AddInt32(&indexed, 1)
			w.WriteHeader(http.StatusCreated)
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(es.Close)
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{es.URL}})
	require.NoError(t, err)

	// --- Storage ---
	db, err := database.Open(cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store := submissions.NewSQLStore(db.DB, db.Dialect, log)
	require.NoError(t, store.EnsureSchema(ctx))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	// --- Services ---
	cat := catalog.Default()
	mottoCfg := motto.LoadConfig(cfg)
	mottos, err := motto.NewService(mottoCfg, motto.NewChatCompleter(mottoCfg, log), log)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	srv := server.New(cfg, server.Deps{
		Catalog:        cat,
		Answers:        answers.NewRedisStore(rdb, config.GetSeconds(cfg.Quiz.AnswerTTL), log),
		Submissions:    submissions.NewService(submissions.LoadConfig(cfg, cat.IDs()), store, submissions.NewESIndexer(esClient, "quiz_submissions"), rdb, log),
		Mottos:         mottos,
		Auth:           admin.NewAuthenticator(admin.LoadConfig(cfg), apperrors.NewResponder(log), log),
		Observability:  observability.NewWithRegisterer(cfg.App.Name, reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}, log)

	httpServer := httptest.NewServer(srv.Handler())
	t.Cleanup(httpServer.Close)

	return &TestEnvironment{
		Config:      cfg,
		Server:      httpServer,
		Redis:       mr,
		Indexed:     &indexed,
		Completions: &completions,
	}
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar:     jar,
		Timeout: 5 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func call(t *testing.T, client *http.Client, method, url string, body interface{}, headers ...string) (int, map[string]interface{}, http.Header) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	res, err := client.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	if len(raw) > 0 && strings.HasPrefix(res.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return res.StatusCode, out, res.Header
}

// ==========================
// Journeys
// ==========================

func TestQuizJourney(t *testing.T) {
	env := setupEnvironment(t, http.StatusOK)
	base := env.Server.URL
	browser := newBrowser(t)

	// --- 1. Answer the seven questions one at a time ---
	picks := map[string]string{
		"q1": "Koala Chill",
		"q2": "Small Fortune",
		"q3": "Relaxed Scholar",
		"q4": "Quiet and Relaxed",
		"q5": "Wildlife Watcher",
		"q6": "Who cares about rankings?",
		"q7": "Embark on a World Tour",
	}
	for _, id := range catalog.Default().IDs() {
		status, body, _ := call(t, browser, http.MethodPut, base+"/api/session/answers/"+id, map[string]string{"value": picks[id]})
		require.Equal(t, http.StatusOK, status, body)
	}

	status, body, _ := call(t, browser, http.MethodGet, base+"/api/session/answers", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["answers"], 7)

	// Stored in a redis hash with a TTL.
	keys := env.Redis.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "quiz:answers:"))
	assert.Greater(t, env.Redis.TTL(keys[0]), time.Duration(0))

	// --- 2. Result page ---
	status, body, _ = call(t, browser, http.MethodGet, base+"/api/result", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Mindful Learner", body["persona"])
	assert.Equal(t, "r7", body["slug"])
	profile := body["profile"].(map[string]interface{})
	assert.Equal(t, "Focused Scholar", profile["partner"])

	// --- 3. Mottos ---
	status, body, _ = call(t, browser, http.MethodPost, base+"/api/motto", map[string]string{"persona": "Mindful Learner"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Calm minds chart brave new paths", body["motto"])
	assert.Equal(t, "ai", body["source"])

	status, body, _ = call(t, browser, http.MethodPost, base+"/api/location", map[string]string{"avatar": "koala"})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["motto"])
	assert.EqualValues(t, 2, atomic.LoadInt32(env.Completions))

	// --- 4. Submit ---
	status, body, _ = call(t, browser, http.MethodPost, base+"/api/answers", map[string]interface{}{
		"answers": picks,
		"meta":    map[string]string{"ua": "e2e", "screen": "1280x800"},
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "Mindful Learner", body["persona"])
	assert.EqualValues(t, 1, atomic.LoadInt32(env.Indexed))

	status, body, _ = call(t, browser, http.MethodGet, base+"/api/answers/count", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["count"])
	assert.True(t, env.Redis.Exists(submissions.CountCacheKey))

	// A second submission invalidates the cached count.
	status, _, _ = call(t, browser, http.MethodPost, base+"/api/answers", map[string]interface{}{
		"answers": map[string]string{"q2": "Endless Gold"},
		"persona": "City Visionary",
	})
	require.Equal(t, http.StatusOK, status)
	assert.False(t, env.Redis.Exists(submissions.CountCacheKey))

	status, body, _ = call(t, browser, http.MethodGet, base+"/api/answers/count", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["count"])

	// --- 5. Analytics export ---
	status, _, _ = call(t, browser, http.MethodGet, base+"/api/answers", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body, _ = call(t, browser, http.MethodGet, base+"/api/answers?limit=1", nil, "Authorization", "Bearer e2e-key")
	require.Equal(t, http.StatusOK, status)
	items := body["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "City Visionary", items[0].(map[string]interface{})["persona"])

	// --- 6. Admin dashboard ---
	status, _, headers := call(t, browser, http.MethodGet, base+"/admin", nil)
	assert.Equal(t, http.StatusFound, status)
	assert.Equal(t, "/admin/login?next=%2Fadmin", headers.Get("Location"))

	status, _, _ = call(t, browser, http.MethodPost, base+"/api/admin/login", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _, _ = call(t, browser, http.MethodPost, base+"/api/admin/login", map[string]string{"username": "admin", "password": "123"})
	require.Equal(t, http.StatusOK, status)

	status, body, _ = call(t, browser, http.MethodGet, base+"/admin", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["total"])
	recent := body["recent"].([]interface{})
	require.Len(t, recent, 2)
	assert.Equal(t, "— | Endless Gold | — | — | — | — | —", recent[0].(map[string]interface{})["joined"])

	status, _, _ = call(t, browser, http.MethodPost, base+"/api/admin/logout", nil)
	require.Equal(t, http.StatusOK, status)
	status, _, _ = call(t, browser, http.MethodGet, base+"/admin", nil)
	assert.Equal(t, http.StatusFound, status)

	// --- 7. Start over ---
	status, _, _ = call(t, browser, http.MethodDelete, base+"/api/session/answers", nil)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, env.Redis.Exists(keys[0]))

	// --- 8. Metrics ---
	res, err := browser.Get(base + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	raw, _ := io.ReadAll(res.Body)
	assert.Contains(t, string(raw), "http_server_requests")
}

func TestMottoFallbackJourney(t *testing.T) {
	env := setupEnvironment(t, http.StatusTooManyRequests)
	browser := newBrowser(t)

	status, body, _ := call(t, browser, http.MethodPost, env.Server.URL+"/api/motto", map[string]string{"persona": "Focused Scholar"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["fallback"])
	assert.Equal(t, "fallback", body["source"])
	assert.Contains(t, []string{"Quiet focus strong results", "Deep work bright paths"}, body["motto"])
}

func TestSessionsAreIsolated(t *testing.T) {
	env := setupEnvironment(t, http.StatusOK)
	alice, bob := newBrowser(t), newBrowser(t)

	status, _, _ := call(t, alice, http.MethodPatch, env.Server.URL+"/api/session/answers",
		map[string]interface{}{"answers": map[string]string{"q3": "Party Expert"}})
	require.Equal(t, http.StatusOK, status)

	_, body, _ := call(t, bob, http.MethodGet, env.Server.URL+"/api/session/answers", nil)
	assert.Empty(t, body["answers"])

	_, body, _ = call(t, alice, http.MethodGet, env.Server.URL+"/api/result", nil)
	assert.Equal(t, "Dynamic Explorer", body["persona"])

	_, body, _ = call(t, bob, http.MethodGet, env.Server.URL+"/api/result", nil)
	assert.Equal(t, "City Visionary", body["persona"])
}
