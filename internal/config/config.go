package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultResponsesURL = "https://chatgpt.com/backend-api/codex/responses"
	DefaultModel        = "gpt-5"
	envPrefix           = "CODEX_CLIENT_"
)

// Config holds all client configuration.
type Config struct {
	Model            string
	ReasoningEffort  string
	ReasoningSummary string
	AccessToken      string
	AccountID        string
	ResponsesURL     string
	// InstructionsFile, when set, is read into BaseInstructionsOverride by LoadInstructions.
	InstructionsFile         string
	BaseInstructionsOverride string
	UserInstructions         string
	Store                    bool
	StreamBuffer             int
	Verbose                  bool
}

// DefaultFromEnv creates a Config with defaults from environment variables.
func DefaultFromEnv() *Config {
	token := strings.TrimSpace(os.Getenv(envPrefix + "ACCESS_TOKEN"))
	if token == "" {
		token = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	return &Config{
		Model:            envOrDefault(envPrefix+"MODEL", DefaultModel),
		ReasoningEffort:  envOrDefault(envPrefix+"REASONING_EFFORT", "medium"),
		ReasoningSummary: envOrDefault(envPrefix+"REASONING_SUMMARY", "auto"),
		AccessToken:      token,
		AccountID:        strings.TrimSpace(os.Getenv(envPrefix + "ACCOUNT_ID")),
		ResponsesURL:     envRaw(envPrefix+"BASE_URL", DefaultResponsesURL),
		InstructionsFile: strings.TrimSpace(os.Getenv(envPrefix + "INSTRUCTIONS_FILE")),
		UserInstructions: os.Getenv(envPrefix + "USER_INSTRUCTIONS"),
		Store:            envBool(envPrefix + "STORE"),
		StreamBuffer:     envInt(envPrefix+"STREAM_BUFFER", 16),
		Verbose:          envBool(envPrefix + "VERBOSE"),
	}
}

// LoadInstructions reads InstructionsFile into BaseInstructionsOverride.
// It is a no-op when no file is configured.
func (c *Config) LoadInstructions() error {
	if c.InstructionsFile == "" {
		return nil
	}
	data, err := os.ReadFile(c.InstructionsFile)
	if err != nil {
		return fmt.Errorf("failed to read instructions file: %w", err)
	}
	c.BaseInstructionsOverride = string(data)
	return nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return strings.ToLower(strings.TrimSpace(v))
	}
	return defaultVal
}

// envRaw is envOrDefault without case folding, for URLs.
func envRaw(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func envInt(key string, defaultVal int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return defaultVal
	}
	return v
}
