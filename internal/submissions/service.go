package submissions

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"persona-quiz/internal/common/config"
	apperrors "persona-quiz/internal/common/errors"
	"persona-quiz/internal/common/logger"
	"persona-quiz/internal/common/metrics"
	"persona-quiz/internal/common/validation"
	"persona-quiz/internal/models"
	"persona-quiz/internal/persona"
)

// CountCacheKey holds the cached submission total.
const CountCacheKey = "quiz:submissions:count"

// MissingAnswer fills dashboard cells for unanswered questions.
const MissingAnswer = "—"

type Config struct {
	CountCacheTTL   time.Duration
	ListLimit       int
	ListMaxLimit    int
	DashboardWindow int
	DashboardRecent int
	QuestionIDs     []string
}

func LoadConfig(cfg *config.Config, questionIDs []string) *Config {
	return &Config{
		CountCacheTTL:   config.GetDuration(cfg.Quiz.CountCacheTTL),
		ListLimit:       cfg.Quiz.ListLimit,
		ListMaxLimit:    cfg.Quiz.ListMaxLimit,
		DashboardWindow: cfg.Quiz.DashboardWindow,
		DashboardRecent: cfg.Quiz.DashboardRecent,
		QuestionIDs:     questionIDs,
	}
}

// Service validates, stores and summarises submissions. The indexer and
// redis client are optional.
type Service struct {
	config  *Config
	store   Store
	indexer Indexer
	redis   *redis.Client
	logger  logger.Logger
	now     func() time.Time
}

func NewService(cfg *Config, store Store, indexer Indexer, redisClient *redis.Client, log logger.Logger) *Service {
	return &Service{
		config:  cfg,
		store:   store,
		indexer: indexer,
		redis:   redisClient,
		logger:  log.WithFields(map[string]interface{}{"component": "submissions"}),
		now:     time.Now,
	}
}

// Submit validates a raw POST body, fills in the persona when the client
// omitted it and persists the result.
func (s *Service) Submit(ctx context.Context, raw []byte) (*models.Submission, error) {
	result, err := validation.SubmissionSchema.ValidateJSON(raw)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return nil, apperrors.NewInvalidRequestBodyError(err)
	}
	if !result.Valid {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return nil, apperrors.NewValidationError(result.Summary())
	}

	var req models.SubmitRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return nil, apperrors.NewInvalidRequestBodyError(err)
	}

	sub := &models.Submission{
		ID:        uuid.New().String(),
		Answers:   req.Answers,
		Persona:   strings.TrimSpace(req.Persona),
		Meta:      req.Meta,
		CreatedAt: s.now().UTC(),
	}
	if sub.Answers == nil {
		sub.Answers = map[string]string{}
	}
	if sub.Persona == "" {
		sub.Persona = persona.Compute(sub.Answers).String()
	}

	if err := s.store.Insert(ctx, sub); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		s.logger.Error("Failed to insert submission", map[string]interface{}{
			"id":    sub.ID,
			"error": err.Error(),
		})
		return nil, apperrors.NewSubmissionInsertFailedError(err)
	}
	metrics.SubmissionsTotal.WithLabelValues("stored").Inc()

	if s.indexer != nil {
		if err := s.indexer.Index(ctx, sub); err != nil {
			s.logger.Warn("Failed to index submission", map[string]interface{}{
				"id":    sub.ID,
				"error": err.Error(),
			})
		}
	}
	s.invalidateCount(ctx)

	s.logger.Info("Submission stored", map[string]interface{}{
		"id":       sub.ID,
		"persona":  sub.Persona,
		"answered": len(sub.Answers),
	})
	return sub, nil
}

// Count returns the total number of submissions, served from redis when a
// fresh value is cached.
func (s *Service) Count(ctx context.Context) (int64, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, CountCacheKey).Result()
		switch {
		case err == nil:
			if n, perr := strconv.ParseInt(cached, 10, 64); perr == nil {
				metrics.CountCacheLookups.WithLabelValues("hit").Inc()
				return n, nil
			}
			metrics.CountCacheLookups.WithLabelValues("miss").Inc()
		case errors.Is(err, redis.Nil):
			metrics.CountCacheLookups.WithLabelValues("miss").Inc()
		default:
			metrics.CountCacheLookups.WithLabelValues("error").Inc()
			s.logger.Warn("Count cache read failed", map[string]interface{}{"error": err.Error()})
		}
	}

	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, apperrors.NewSubmissionQueryFailedError("count", err)
	}

	if s.redis != nil && s.config.CountCacheTTL > 0 {
		if err := s.redis.Set(ctx, CountCacheKey, n, s.config.CountCacheTTL).Err(); err != nil {
			s.logger.Warn("Count cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return n, nil
}

// DefaultLimit is the page size used when a caller does not ask for one.
func (s *Service) DefaultLimit() int {
	return s.config.ListLimit
}

// ClampLimit maps a requested page size onto [1, ListMaxLimit].
func (s *Service) ClampLimit(limit int) int {
	if limit < 1 {
		limit = 1
	}
	if limit > s.config.ListMaxLimit {
		limit = s.config.ListMaxLimit
	}
	return limit
}

// List returns the newest submissions.
func (s *Service) List(ctx context.Context, limit int) ([]models.Submission, error) {
	rows, err := s.store.List(ctx, s.ClampLimit(limit))
	if err != nil {
		return nil, apperrors.NewSubmissionQueryFailedError("list", err)
	}
	return rows, nil
}

// Dashboard tallies personas over the most recent window of submissions
// and flattens the newest rows for display.
func (s *Service) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	total, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.List(ctx, s.config.DashboardWindow)
	if err != nil {
		return nil, apperrors.NewSubmissionQueryFailedError("dashboard", err)
	}

	return BuildDashboard(total, rows, s.config.DashboardRecent, s.config.QuestionIDs), nil
}

// BuildDashboard aggregates rows, which must be ordered newest first.
func BuildDashboard(total int64, rows []models.Submission, recent int, questionIDs []string) *models.Dashboard {
	counts := make(map[persona.Persona]int, persona.Count)
	other := 0
	for _, row := range rows {
		if p, ok := persona.Parse(row.Persona); ok {
			counts[p]++
		} else {
			other++
		}
	}

	dash := &models.Dashboard{
		Total:    total,
		Window:   len(rows),
		Personas: make([]models.PersonaCount, 0, persona.Count),
		Other:    other,
		Recent:   make([]models.DashboardRow, 0, recent),
		Empty:    len(rows) == 0,
	}
	for _, p := range persona.TieBreakOrder() {
		dash.Personas = append(dash.Personas, models.PersonaCount{
			Persona: p.String(),
			Slug:    persona.Slug(p),
			Count:   counts[p],
		})
	}

	for i, row := range rows {
		if i >= recent {
			break
		}
		cells := make([]string, 0, len(questionIDs))
		for _, id := range questionIDs {
			v := strings.TrimSpace(row.Answers[id])
			if v == "" {
				v = MissingAnswer
			}
			cells = append(cells, v)
		}
		dash.Recent = append(dash.Recent, models.DashboardRow{
			ID:        row.ID,
			CreatedAt: row.CreatedAt,
			Persona:   row.Persona,
			Answers:   cells,
			Joined:    strings.Join(cells, " | "),
		})
	}
	return dash
}

func (s *Service) invalidateCount(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, CountCacheKey).Err(); err != nil {
		s.logger.Warn("Count cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}
