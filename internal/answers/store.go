// Package answers keeps the in-progress answer set for each quiz session.
package answers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrInvalidQuestionID = errors.New("INVALID_QUESTION_ID")
	ErrInvalidAnswer     = errors.New("INVALID_ANSWER")
	ErrInvalidSession    = errors.New("INVALID_SESSION")
)

// QuizKeys are the question ids of the standard quiz, in order.
var QuizKeys = []string{"q1", "q2", "q3", "q4", "q5", "q6", "q7"}

const maxAnswerLen = 256

var questionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// Store persists answer sets keyed by session id.
type Store interface {
	Get(ctx context.Context, sessionID string) (map[string]string, error)
	Save(ctx context.Context, sessionID, questionID, value string) error
	SaveAll(ctx context.Context, sessionID string, partial map[string]string) error
	Remove(ctx context.Context, sessionID, questionID string) error
	Clear(ctx context.Context, sessionID string) error
}

// ValidateQuestionID rejects ids outside [A-Za-z0-9_-]{1,32}.
func ValidateQuestionID(id string) error {
	if !questionIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidQuestionID, id)
	}
	return nil
}

// CleanAnswer trims value and checks its length.
func CleanAnswer(value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidAnswer)
	}
	if len(v) > maxAnswerLen {
		return "", fmt.Errorf("%w: longer than %d bytes", ErrInvalidAnswer, maxAnswerLen)
	}
	return v, nil
}

func validateSession(sessionID string) error {
	if sessionID == "" || len(sessionID) > 128 {
		return ErrInvalidSession
	}
	return nil
}

// cleanPartial validates every entry and returns trimmed copies.
func cleanPartial(partial map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(partial))
	for id, value := range partial {
		if err := ValidateQuestionID(id); err != nil {
			return nil, err
		}
		v, err := CleanAnswer(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
		out[id] = v
	}
	return out, nil
}

// IsValidationError reports whether err came from input validation.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidQuestionID) || errors.Is(err, ErrInvalidAnswer) || errors.Is(err, ErrInvalidSession)
}
