// internal/common/database/sql.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"persona-quiz/internal/common/config"
)

// Dialect identifies the SQL flavour behind a SQLClient.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// SQLClient wraps a database/sql handle together with its dialect.
type SQLClient struct {
	DB      *sql.DB
	Dialect Dialect
}

// Open connects to the store selected by cfg.Driver.
func Open(cfg config.DatabaseConfig) (*SQLClient, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return NewPostgres(cfg.Postgres)
	case config.DriverSQLite:
		return NewSQLite(cfg.SQLite)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Rebind rewrites "?" placeholders into the dialect's form.
func (c *SQLClient) Rebind(query string) string {
	return Rebind(c.Dialect, query)
}

// Rebind rewrites "?" placeholders to $1..$n for postgres. Quoted literals
// are left untouched.
func Rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Ping tests the database connection
func (c *SQLClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database connection
func (c *SQLClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// Query executes a query that returns rows. Placeholders are rebound.
func (c *SQLClient) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return c.DB.QueryContext(ctx, c.Rebind(query), args...)
}

// QueryRow executes a query that returns at most one row
func (c *SQLClient) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return c.DB.QueryRowContext(ctx, c.Rebind(query), args...)
}

// Exec executes a query that doesn't return rows
func (c *SQLClient) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return c.DB.ExecContext(ctx, c.Rebind(query), args...)
}
