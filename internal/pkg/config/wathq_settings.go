package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

// Wathq defaults
const (
	DefaultWathqBaseURL           = "https://api.wathq.sa"
	DefaultWathqTimeout           = 15 * time.Second
	DefaultWathqRequestsPerSecond = 5.0
	DefaultWathqBurst             = 5
)

// WathqSettings configures the commercial registry client.
// APIKey is checked per request, not here, so the service starts without registry access.
type WathqSettings struct {
	BaseURL           string        `mapstructure:"base_url" validate:"required,url"`
	APIKey            string        `mapstructure:"api_key"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" validate:"gt=0"`
	Burst             int           `mapstructure:"burst" validate:"min=1"`
}

// DefaultWathqSettings returns settings pointing at the public Wathq API.
func DefaultWathqSettings() WathqSettings {
	return WathqSettings{
		BaseURL:           DefaultWathqBaseURL,
		Timeout:           DefaultWathqTimeout,
		RequestsPerSecond: DefaultWathqRequestsPerSecond,
		Burst:             DefaultWathqBurst,
	}
}

// WathqSettingsFromEnv returns the defaults overridden by WATHQ_API_KEY and WATHQ_BASE_URL.
func WathqSettingsFromEnv() WathqSettings {
	s := DefaultWathqSettings()
	if key := os.Getenv("WATHQ_API_KEY"); key != "" {
		s.APIKey = key
	}
	if baseURL := os.Getenv("WATHQ_BASE_URL"); baseURL != "" {
		s.BaseURL = baseURL
	}
	return s
}

// Validate checks that all fields in WathqSettings are valid
func (s *WathqSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for WathqSettings: %w", err)
	}

	return nil
}
