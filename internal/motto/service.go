// Package motto produces the short slogans shown on result cards. Callers
// always get a motto: upstream failures fall back to recent or canned text.
package motto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"persona-quiz/internal/common/logger"
	"persona-quiz/internal/common/metrics"
	"persona-quiz/internal/persona"
)

const (
	KindPersona  = "persona"
	KindLocation = "location"

	SourceAI       = "ai"
	SourceCache    = "cache"
	SourceFallback = "fallback"
)

// recentPerKey bounds how many generated mottos are remembered per persona.
const recentPerKey = 5

const maxPersonaInput = 64

// Result is a motto ready for display.
type Result struct {
	Motto    string
	Source   string
	Fallback bool
}

type Service struct {
	completer Completer
	recent    *lru.Cache[string, []string]
	mu        sync.Mutex
	logger    logger.Logger
	pick      func(n int) int
}

func NewService(config *Config, completer Completer, log logger.Logger) (*Service, error) {
	size := config.CacheSize
	if size <= 0 {
		size = 64
	}
	cache, err := lru.New[string, []string](size)
	if err != nil {
		return nil, fmt.Errorf("create motto cache: %w", err)
	}
	return &Service{
		completer: completer,
		recent:    cache,
		logger:    log.WithFields(map[string]interface{}{"component": "motto"}),
		pick:      rand.IntN,
	}, nil
}

// Persona returns a motto for the named persona. Unknown names still get
// a motto from the default pool.
func (s *Service) Persona(ctx context.Context, name string) *Result {
	name = strings.TrimSpace(name)
	if r := []rune(name); len(r) > maxPersonaInput {
		name = string(r[:maxPersonaInput])
	}

	pool := persona.DefaultMottoPool()
	cacheKey := KindPersona + ":"
	if p, ok := persona.Parse(name); ok {
		name = string(p)
		pool = persona.MottoPool(p)
		cacheKey += name
	}

	user := fmt.Sprintf("Persona: %s\nReturn ONLY the motto text (<= 8 words).", name)
	return s.generate(ctx, KindPersona, cacheKey, personaSystemPrompt, user, pool)
}

// Location returns a motto for the location card built from the avatar and
// the current answers.
func (s *Service) Location(ctx context.Context, avatar string, answers map[string]string) *Result {
	avatar = strings.TrimSpace(avatar)
	if avatar == "" {
		avatar = "unknown"
	}
	encoded, _ := json.Marshal(sortedAnswers(answers))

	user := strings.Join([]string{
		"Avatar: " + avatar,
		"Answers: " + string(encoded),
		"Return ONLY the motto text (<= 8 words).",
	}, "\n")
	return s.generate(ctx, KindLocation, KindLocation+":", locationSystemPrompt, user, locationMottos)
}

func (s *Service) generate(ctx context.Context, kind, cacheKey, system, user string, pool []string) *Result {
	start := time.Now()
	result := s.generateInner(ctx, kind, cacheKey, system, user, pool)
	metrics.MottoResponses.WithLabelValues(kind, result.Source).Inc()
	metrics.MottoDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	return result
}

func (s *Service) generateInner(ctx context.Context, kind, cacheKey, system, user string, pool []string) *Result {
	raw, err := s.completer.Complete(ctx, system, user)
	if err == nil {
		if motto := ToMaxEightWords(raw); motto != "" {
			s.remember(cacheKey, motto)
			return &Result{Motto: motto, Source: SourceAI}
		}
		// An empty completion is not a failure; use the canned pool.
		return &Result{Motto: ToMaxEightWords(s.choose(pool)), Source: SourceFallback}
	}

	fields := map[string]interface{}{"kind": kind, "error": err.Error()}
	switch {
	case errors.Is(err, ErrMottoNotConfigured):
		s.logger.Debug("Motto provider not configured, using fallback", fields)
	case errors.Is(err, ErrMottoRateLimited):
		s.logger.Warn("Motto provider rate limited, using fallback", fields)
	default:
		s.logger.Error("Motto generation failed, using fallback", fields)
	}

	if cached := s.recall(cacheKey); cached != "" {
		return &Result{Motto: cached, Source: SourceCache, Fallback: true}
	}
	return &Result{Motto: ToMaxEightWords(s.choose(pool)), Source: SourceFallback, Fallback: true}
}

func (s *Service) remember(key, motto string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, _ := s.recent.Get(key)
	for _, m := range existing {
		if m == motto {
			return
		}
	}
	updated := append([]string{motto}, existing...)
	if len(updated) > recentPerKey {
		updated = updated[:recentPerKey]
	}
	s.recent.Add(key, updated)
}

func (s *Service) recall(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	mottos, ok := s.recent.Get(key)
	if !ok || len(mottos) == 0 {
		return ""
	}
	return mottos[s.pick(len(mottos))]
}

func (s *Service) choose(pool []string) string {
	if len(pool) == 0 {
		return persona.DefaultMottoPool()[0]
	}
	return pool[s.pick(len(pool))]
}

type answerPair struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

// sortedAnswers gives the prompt a stable order.
func sortedAnswers(answers map[string]string) []answerPair {
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]answerPair, 0, len(keys))
	for _, k := range keys {
		out = append(out, answerPair{Question: k, Answer: answers[k]})
	}
	return out
}
