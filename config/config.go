// Package config provides configuration for the chat backend.
package config

import (
	"os"
	"strconv"
)

// Config holds the chat backend configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Snapshot persistence
	DatabaseURL  string
	SnapshotName string

	// Primary backend (OpenAI-compatible, serves anthropic/* and openai/* ids)
	OpenAIAPIKey  string
	OpenAIBaseURL string

	// Secondary backend (GitHub Models)
	GitHubToken     string
	GitHubModelsURL string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:        getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:     getEnv("DATABASE_URL", "file:aichat.db?cache=shared&mode=rwc"),
		SnapshotName:    getEnv("SNAPSHOT_NAME", "ai-chat-store"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		GitHubToken:     getEnv("GITHUB_TOKEN", ""),
		GitHubModelsURL: getEnv("GITHUB_MODELS_URL", "https://models.github.ai/inference"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
