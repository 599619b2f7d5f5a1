package answers

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"persona-quiz/internal/common/logger"
	"persona-quiz/internal/common/metrics"
)

const keyPrefix = "quiz:answers:"

// RedisStore keeps each session's answers in a hash whose TTL is refreshed
// on every write.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisStore(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "answer-store", "backend": "redis"}),
	}
}

func sessionKey(sessionID string) string {
	return keyPrefix + sessionID
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (map[string]string, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	values, err := s.client.HGetAll(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		s.observe("get", err)
		return nil, fmt.Errorf("load answers: %w", err)
	}
	s.observe("get", nil)
	if values == nil {
		values = map[string]string{}
	}
	return values, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID, questionID, value string) error {
	return s.SaveAll(ctx, sessionID, map[string]string{questionID: value})
}

func (s *RedisStore) SaveAll(ctx context.Context, sessionID string, partial map[string]string) error {
	if err := validateSession(sessionID); err != nil {
		return err
	}
	clean, err := cleanPartial(partial)
	if err != nil {
		return err
	}
	if len(clean) == 0 {
		return nil
	}

	fields := make([]interface{}, 0, len(clean)*2)
	for id, value := range clean {
		fields = append(fields, id, value)
	}

	key := sessionKey(sessionID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fields...)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	s.observe("save", err)
	if err != nil {
		return fmt.Errorf("save answers: %w", err)
	}

	s.logger.Debug("Answers saved", map[string]interface{}{
		"session":   sessionID,
		"questions": len(clean),
	})
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, sessionID, questionID string) error {
	if err := validateSession(sessionID); err != nil {
		return err
	}
	if err := ValidateQuestionID(questionID); err != nil {
		return err
	}
	err := s.client.HDel(ctx, sessionKey(sessionID), questionID).Err()
	s.observe("remove", err)
	if err != nil {
		return fmt.Errorf("remove answer: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := validateSession(sessionID); err != nil {
		return err
	}
	err := s.client.Del(ctx, sessionKey(sessionID)).Err()
	s.observe("clear", err)
	if err != nil {
		return fmt.Errorf("clear answers: %w", err)
	}
	return nil
}

func (s *RedisStore) observe(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		s.logger.Warn("Answer store operation failed", map[string]interface{}{
			"op":    op,
			"error": err.Error(),
		})
	}
	metrics.AnswerStoreOps.WithLabelValues(op, status).Inc()
}
