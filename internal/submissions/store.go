// Package submissions persists completed quizzes and derives the admin
// statistics from them.
package submissions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"persona-quiz/internal/common/database"
	"persona-quiz/internal/common/logger"
	"persona-quiz/internal/models"
)

var (
	ErrInsertFailed = errors.New("SUBMISSION_INSERT_FAILED")
	ErrQueryFailed  = errors.New("SUBMISSION_QUERY_FAILED")
)

// sqliteTimeLayout is fixed-width so that text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is the persistence boundary for submissions.
type Store interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, s *models.Submission) error
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, limit int) ([]models.Submission, error)
}

var schemaStatements = map[database.Dialect][]string{
	database.DialectPostgres: {
		`CREATE TABLE IF NOT EXISTS quiz_submissions (
			id UUID PRIMARY KEY,
			answers JSONB NOT NULL,
			persona TEXT NOT NULL,
			meta JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS ix_quiz_submissions_created_at ON quiz_submissions (created_at DESC)`,
	},
	database.DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS quiz_submissions (
			id TEXT PRIMARY KEY,
			answers TEXT NOT NULL,
			persona TEXT NOT NULL,
			meta TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS ix_quiz_submissions_created_at ON quiz_submissions (created_at DESC)`,
	},
}

// SQLStore implements Store over database/sql for postgres and sqlite.
type SQLStore struct {
	db      *sql.DB
	dialect database.Dialect
	logger  logger.Logger
}

func NewSQLStore(db *sql.DB, dialect database.Dialect, log logger.Logger) *SQLStore {
	return &SQLStore{
		db:      db,
		dialect: dialect,
		logger:  log.WithFields(map[string]interface{}{"component": "submission-store", "dialect": string(dialect)}),
	}
}

func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	statements, ok := schemaStatements[s.dialect]
	if !ok {
		return fmt.Errorf("no schema for dialect %q", s.dialect)
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	s.logger.Info("Submission schema ensured", nil)
	return nil
}

func (s *SQLStore) Insert(ctx context.Context, sub *models.Submission) error {
	answersJSON, err := json.Marshal(sub.Answers)
	if err != nil {
		return fmt.Errorf("%w: marshal answers: %v", ErrInsertFailed, err)
	}

	var metaJSON interface{}
	if sub.Meta != nil {
		b, err := json.Marshal(sub.Meta)
		if err != nil {
			return fmt.Errorf("%w: marshal meta: %v", ErrInsertFailed, err)
		}
		metaJSON = string(b)
	}

	_, err = s.db.ExecContext(ctx, database.Rebind(s.dialect,
		`INSERT INTO quiz_submissions (id, answers, persona, meta, created_at) VALUES (?, ?, ?, ?, ?)`),
		sub.ID,
		string(answersJSON),
		sub.Persona,
		metaJSON,
		s.timeArg(sub.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}
	return nil
}

func (s *SQLStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quiz_submissions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count: %v", ErrQueryFailed, err)
	}
	return n, nil
}

// List returns up to limit submissions, newest first.
func (s *SQLStore) List(ctx context.Context, limit int) ([]models.Submission, error) {
	rows, err := s.db.QueryContext(ctx, database.Rebind(s.dialect,
		`SELECT id, answers, persona, meta, created_at FROM quiz_submissions ORDER BY created_at DESC LIMIT ?`),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	out := make([]models.Submission, 0, limit)
	for rows.Next() {
		var (
			sub       models.Submission
			answers   []byte
			meta      []byte
			createdAt interface{}
		)
		if err := rows.Scan(&sub.ID, &answers, &sub.Persona, &meta, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrQueryFailed, err)
		}
		if err := json.Unmarshal(answers, &sub.Answers); err != nil {
			s.logger.Warn("Skipping unreadable answers column", map[string]interface{}{"id": sub.ID, "error": err.Error()})
			sub.Answers = map[string]string{}
		}
		if len(meta) > 0 {
			var m models.SubmissionMeta
			if err := json.Unmarshal(meta, &m); err == nil {
				sub.Meta = &m
			}
		}
		if sub.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", ErrQueryFailed, err)
	}
	return out, nil
}

func (s *SQLStore) timeArg(t time.Time) interface{} {
	if s.dialect == database.DialectSQLite {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t.UTC()
}

func parseTime(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return parseTimeString(t)
	case []byte:
		return parseTimeString(string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected created_at type %T", v)
	}
}

func parseTimeString(s string) (time.Time, error) {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable created_at %q", s)
}
