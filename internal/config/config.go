// Package config loads the service configuration from the environment.
package config

import (
	"os"
	"strings"
)

// Config holds everything the server needs at startup. OAuth providers
// are optional: a provider without credentials simply shows up as not
// configured in the status endpoint.
type Config struct {
	Port           string
	LogLevel       string
	FrontendOrigin string
	CallbackBase   string

	GoogleClientID     string
	GoogleClientSecret string

	MicrosoftClientID     string
	MicrosoftClientSecret string
	MicrosoftTenant       string
}

// Load reads the configuration from environment variables, applying
// defaults for local development.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8000"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FrontendOrigin: strings.TrimRight(getEnv("FRONTEND_ORIGIN", "http://127.0.0.1:5173"), "/"),
		CallbackBase:   strings.TrimRight(getEnv("OAUTH_CALLBACK_BASE", "http://127.0.0.1:8000"), "/"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),

		MicrosoftClientID:     os.Getenv("MS_CLIENT_ID"),
		MicrosoftClientSecret: os.Getenv("MS_CLIENT_SECRET"),
		MicrosoftTenant:       getEnv("MS_TENANT_ID", "common"),
	}
}

// GoogleConfigured reports whether Google OAuth credentials are present.
func (c *Config) GoogleConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// MicrosoftConfigured reports whether Microsoft OAuth credentials are present.
func (c *Config) MicrosoftConfigured() bool {
	return c.MicrosoftClientID != "" && c.MicrosoftClientSecret != ""
}

// CallbackURL returns the OAuth redirect URI for a provider.
func (c *Config) CallbackURL(provider string) string {
	return c.CallbackBase + "/api/oauth/callback/" + provider
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
