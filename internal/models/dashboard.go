// internal/models/dashboard.go
package models

import "time"

// Dashboard is the admin overview of recent submissions.
type Dashboard struct {
	Total    int64          `json:"total"`
	Window   int            `json:"window"`
	Personas []PersonaCount `json:"personas"`
	Other    int            `json:"other"`
	Recent   []DashboardRow `json:"recent"`
	Empty    bool           `json:"empty"`
}

type PersonaCount struct {
	Persona string `json:"persona"`
	Slug    string `json:"slug"`
	Count   int    `json:"count"`
}

// DashboardRow flattens a submission for the recent-submissions table.
// Answers holds one cell per quiz question, "—" when unanswered.
type DashboardRow struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Persona   string    `json:"persona"`
	Answers   []string  `json:"answers"`
	Joined    string    `json:"joined"`
}
