package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// ApplicationSettings represents user preferences stored locally
type ApplicationSettings struct {
	// Backend configuration
	APIBaseURL string `json:"api_base_url"`

	// UI Settings
	UITheme string `json:"ui_theme"` // "light", "dark", "auto"

	// Billing defaults
	DefaultCountry string `json:"default_country"`

	// Application Settings
	AutoRefresh bool `json:"auto_refresh"` // poll quota and files in the background

	// Internal tracking
	LastUpdated time.Time `json:"last_updated"`
}

// ValidationError describes an invalid settings field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DefaultApplicationSettings returns the default application settings
func DefaultApplicationSettings() *ApplicationSettings {
	return &ApplicationSettings{
		APIBaseURL:     "http://localhost:5000",
		UITheme:        "light",
		DefaultCountry: DefaultCountry,
		AutoRefresh:    true,
		LastUpdated:    time.Now(),
	}
}

// ToJSON converts settings to JSON string for database storage
func (s *ApplicationSettings) ToJSON() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FromJSON loads settings from JSON string
func (s *ApplicationSettings) FromJSON(jsonStr string) error {
	return json.Unmarshal([]byte(jsonStr), s)
}

// Validate checks if the settings are valid
func (s *ApplicationSettings) Validate() error {
	if s.APIBaseURL == "" {
		return &ValidationError{Field: "api_base_url", Message: "API base URL cannot be empty"}
	}
	if u, err := url.Parse(s.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return &ValidationError{Field: "api_base_url", Message: "API base URL must be a valid http(s) URL"}
	}

	validThemes := map[string]bool{"light": true, "dark": true, "auto": true}
	if !validThemes[s.UITheme] {
		return &ValidationError{Field: "ui_theme", Message: "Invalid UI theme"}
	}

	return nil
}
