package motto

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"persona-quiz/internal/common/httpclient"
	"persona-quiz/internal/common/logger"
)

var (
	ErrMottoTimeout       = errors.New("MOTTO_TIMEOUT")
	ErrMottoFailed        = errors.New("MOTTO_GENERATION_FAILED")
	ErrMottoRateLimited   = errors.New("MOTTO_RATE_LIMITED")
	ErrMottoNotConfigured = errors.New("MOTTO_NOT_CONFIGURED")
)

// Completer turns a system and user prompt into one line of text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stop        []string      `json:"stop,omitempty"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// ChatCompleter calls an OpenAI-compatible chat completions endpoint.
type ChatCompleter struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

func NewChatCompleter(config *Config, log logger.Logger) *ChatCompleter {
	return &ChatCompleter{
		config: config,
		// The per-call context carries the deadline.
		client: httpclient.NewClient(0),
		logger: log.WithFields(map[string]interface{}{"component": "motto-completer"}),
	}
}

func (c *ChatCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	if c.config.APIKey == "" {
		return "", ErrMottoNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	body := chatRequest{
		Model:       c.config.Model,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
		Stop:        []string{"\n"},
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	headers := map[string]string{"Authorization": "Bearer " + c.config.APIKey}
	url := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ErrMottoTimeout
			}
		}

		var resp chatResponse
		lastErr = c.client.PostJSON(ctx, url, headers, body, &resp)
		if lastErr == nil {
			if len(resp.Choices) == 0 {
				return "", nil
			}
			return strings.TrimSpace(resp.Choices[0].Message.Content), nil
		}

		if ctx.Err() != nil {
			return "", ErrMottoTimeout
		}

		var statusErr *httpclient.StatusError
		if errors.As(lastErr, &statusErr) {
			if statusErr.StatusCode == http.StatusTooManyRequests || isQuotaMessage(statusErr.Body) {
				return "", fmt.Errorf("%w: %v", ErrMottoRateLimited, lastErr)
			}
			if statusErr.StatusCode < http.StatusInternalServerError {
				break
			}
		}

		c.logger.Warn("Motto completion attempt failed", map[string]interface{}{
			"attempt": attempt + 1,
			"error":   lastErr.Error(),
		})
	}

	return "", fmt.Errorf("%w: %v", ErrMottoFailed, lastErr)
}

func isQuotaMessage(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "quota") || strings.Contains(lower, "rate limit")
}
