package answers

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemorySessions bounds the in-process store when no size is configured.
const DefaultMemorySessions = 10000

// MemoryStore is a process-local Store used when Redis is not configured.
// It keeps at most size sessions; the least recently written is evicted
// first and a session expires ttl after its last write.
type MemoryStore struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, map[string]string]
}

func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = DefaultMemorySessions
	}
	return &MemoryStore{sessions: expirable.NewLRU[string, map[string]string](size, nil, ttl)}
}

// Len reports how many sessions are currently held.
func (s *MemoryStore) Len() int {
	return s.sessions.Len()
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (map[string]string, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, _ := s.sessions.Peek(sessionID)
	return copyAnswers(current, 0), nil
}

func (s *MemoryStore) Save(ctx context.Context, sessionID, questionID, value string) error {
	return s.SaveAll(ctx, sessionID, map[string]string{questionID: value})
}

func (s *MemoryStore) SaveAll(_ context.Context, sessionID string, partial map[string]string) error {
	if err := validateSession(sessionID); err != nil {
		return err
	}
	clean, err := cleanPartial(partial)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current, _ := s.sessions.Peek(sessionID)
	updated := copyAnswers(current, len(clean))
	for k, v := range clean {
		updated[k] = v
	}
	s.sessions.Add(sessionID, updated)
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, sessionID, questionID string) error {
	if err := validateSession(sessionID); err != nil {
		return err
	}
	if err := ValidateQuestionID(questionID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sessions.Peek(sessionID)
	if !ok {
		return nil
	}
	updated := copyAnswers(current, 0)
	delete(updated, questionID)
	s.sessions.Add(sessionID, updated)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	if err := validateSession(sessionID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.Remove(sessionID)
	return nil
}

func copyAnswers(in map[string]string, extra int) map[string]string {
	out := make(map[string]string, len(in)+extra)
	for k, v := range in {
		out[k] = v
	}
	return out
}
