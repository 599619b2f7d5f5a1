// internal/models/submission.go
package models

import "time"

// Submission is one completed quiz, as persisted.
type Submission struct {
	ID        string            `json:"id"`
	Answers   map[string]string `json:"answers"`
	Persona   string            `json:"persona"`
	Meta      *SubmissionMeta   `json:"meta,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// SubmissionMeta is optional client context sent with a submission.
type SubmissionMeta struct {
	UA        string `json:"ua,omitempty"`
	Screen    string `json:"screen,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// SubmitRequest is the POST /api/answers body. Persona may be omitted, in
// which case it is computed from Answers.
type SubmitRequest struct {
	Answers map[string]string `json:"answers"`
	Persona string            `json:"persona,omitempty"`
	Meta    *SubmissionMeta   `json:"meta,omitempty"`
}

type SubmitResponse struct {
	OK      bool   `json:"ok"`
	ID      string `json:"id"`
	Persona string `json:"persona"`
}
