package config

import "time"

// AIConfig holds the upstream question generator settings
type AIConfig struct {
	APIKey  string        `json:"-" env:"GEMINI_API_KEY"` // Never serialize
	BaseURL string        `json:"baseUrl" env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/models"`
	Model   string        `json:"model" env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	Timeout time.Duration `json:"timeout" env:"GEMINI_TIMEOUT" envDefault:"30s"`
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for the configured model
func (c *AIConfig) ModelEndpoint() string {
	return c.BaseURL + "/" + c.Model + ":generateContent"
}

// Backend names the active question source for logs and health output
func (c *AIConfig) Backend() string {
	if c.IsEnabled() {
		return "gemini"
	}
	return "fallback"
}
