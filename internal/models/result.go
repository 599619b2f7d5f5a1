// internal/models/result.go
package models

// ScoreRequest is the POST /api/score body.
type ScoreRequest struct {
	Answers map[string]string `json:"answers"`
}

// ScoreResult is the outcome of scoring an answer set.
type ScoreResult struct {
	Persona  string            `json:"persona"`
	Slug     string            `json:"slug"`
	Scores   map[string]int    `json:"scores"`
	Answered int               `json:"answered"`
	Answers  map[string]string `json:"answers,omitempty"`
}

type MottoRequest struct {
	Persona string `json:"persona"`
}

type LocationRequest struct {
	Avatar  string            `json:"avatar"`
	Answers map[string]string `json:"answers"`
}

// MottoResponse mirrors the shape the result page expects.
type MottoResponse struct {
	Motto    string `json:"motto"`
	Source   string `json:"source"`
	Fallback bool   `json:"fallback,omitempty"`
}
