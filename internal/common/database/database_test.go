package database

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"persona-quiz/internal/common/config"
)

// ==========================
// SQL
// ==========================

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		in      string
		want    string
	}{
		{"sqlite untouched", DialectSQLite, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = ? AND b = ?"},
		{"postgres numbered", DialectPostgres, "INSERT INTO t (a, b, c) VALUES (?, ?, ?)", "INSERT INTO t (a, b, c) VALUES ($1, $2, $3)"},
		{"quoted literal kept", DialectPostgres, "SELECT '?' FROM t WHERE a = ?", "SELECT '?' FROM t WHERE a = $1"},
		{"no placeholders", DialectPostgres, "SELECT COUNT(*) FROM t", "SELECT COUNT(*) FROM t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rebind(tt.dialect, tt.in))
		})
	}
}

func TestNewSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "quiz.db")

	client, err := NewSQLite(config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx))
	assert.Equal(t, DialectSQLite, client.Dialect)

	_, err = client.Exec(ctx, "CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)")
	require.NoError(t, err)
	_, err = client.Exec(ctx, "INSERT INTO kv (k, v) VALUES (?, ?)", "a", "1")
	require.NoError(t, err)

	var v string
	require.NoError(t, client.QueryRow(ctx, "SELECT v FROM kv WHERE k = ?", "a").Scan(&v))
	assert.Equal(t, "1", v)

	var mode string
	require.NoError(t, client.QueryRow(ctx, "PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestOpen_Postgres(t *testing.T) {
	client, err := Open(config.DatabaseConfig{
		Driver:   config.DriverPostgres,
		Postgres: config.PostgresConfig{URL: "postgres://u:p@localhost:1/db?sslmode=disable", MaxConnections: 2, MaxIdle: 1},
	})
	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, DialectPostgres, client.Dialect)
}

// ==========================
// Redis
// ==========================

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Ping(context.Background()))

	_, err = NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

// ==========================
// Elasticsearch
// ==========================

func newFakeES(t *testing.T, indexExists bool, creates *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodHead && r.URL.Path == "/quiz_submissions":
			if indexExists {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(http.StatusNotFound)
			}
		case r.Method == http.MethodPut && r.URL.Path == "/quiz_submissions":
			atomic.AddInt32(creates, 1)
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		case r.Method == http.MethodHead && r.URL.Path == "/":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestElasticsearch_EnsureIndex(t *testing.T) {
	tests := []struct {
		name        string
		exists      bool
		wantCreates int32
	}{
		{"creates missing index", false, 1},
		{"skips existing index", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var creates int32
			srv := newFakeES(t, tt.exists, &creates)

			client, err := NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{srv.URL}})
			require.NoError(t, err)

			ctx := context.Background()
			require.NoError(t, client.Ping(ctx))
			require.NoError(t, client.EnsureIndex(ctx, "quiz_submissions", `{"mappings":{}}`))
			assert.Equal(t, tt.wantCreates, atomic.LoadInt32(&creates))
		})
	}
}
