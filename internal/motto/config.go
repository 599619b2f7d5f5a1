package motto

import (
	"time"

	"persona-quiz/internal/common/config"
)

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	MaxRetries  int
	CacheSize   int
}

// LoadConfig derives the motto settings from the application config.
func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		BaseURL:     cfg.APIs.GenAI.BaseURL,
		APIKey:      cfg.APIs.GenAI.APIKey,
		Model:       cfg.APIs.GenAI.Model,
		Temperature: cfg.APIs.GenAI.Temperature,
		MaxTokens:   cfg.APIs.GenAI.MaxTokens,
		Timeout:     config.GetDuration(cfg.APIs.GenAI.Timeout),
		MaxRetries:  cfg.APIs.GenAI.MaxRetries,
		CacheSize:   cfg.Quiz.MottoCacheSize,
	}
}
