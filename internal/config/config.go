// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingCredential indicates a required credential or setting is absent.
// Fatal at startup; checked with errors.Is.
var ErrMissingCredential = errors.New("missing required configuration")

// Provider identifies an LLM/embedding backend.
type Provider string

const (
	// ProviderGoogleAI uses the Gemini API via langchaingo.
	ProviderGoogleAI Provider = "googleai"

	// ProviderOpenAI uses the OpenAI API via langchaingo.
	ProviderOpenAI Provider = "openai"

	// ProviderOllama uses a local Ollama server via langchaingo.
	ProviderOllama Provider = "ollama"
)

// Mode selects which credentials Validate requires.
type Mode int

const (
	// ModeServe requires Slack tokens plus the LLM credential.
	ModeServe Mode = iota

	// ModeIndex requires only the embedding/LLM credential.
	ModeIndex

	// ModeCRM requires only the CRM credential.
	ModeCRM
)

// Config holds all configuration values.
type Config struct {
	// Slack
	SlackBotToken string
	SlackAppToken string

	// LLM / embeddings
	LLMProvider    Provider
	LLMModel       string
	EmbedModel     string
	EmbedDimension int
	GoogleAPIKey   string
	OpenAIAPIKey   string
	OllamaHost     string

	// Monday CRM
	MondayAPIKey  string
	MondayAPIURL  string
	MondayBoardID int64
	MondayTimeout time.Duration

	// Vector store + indexing
	StorePath    string
	DataDir      string
	ChunkSize    int
	ChunkOverlap int

	// Retrieval
	TopK          int
	ContextBudget int

	// Bot behavior
	TurnTimeout     time.Duration
	RouterRulesPath string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
// Defaults match the deployed bot: Gemini flash model, 768-dim Google
// embeddings, chunking 1000/200, top-5 retrieval.
func Load() Config {
	return Config{
		SlackBotToken: getEnv("SLACK_BOT_TOKEN", ""),
		SlackAppToken: getEnv("SLACK_APP_TOKEN", ""),

		LLMProvider:    Provider(getEnv("SAIBORG_LLM_PROVIDER", string(ProviderGoogleAI))),
		LLMModel:       getEnv("SAIBORG_LLM_MODEL", "gemini-2.0-flash"),
		EmbedModel:     getEnv("SAIBORG_EMBED_MODEL", "text-embedding-004"),
		EmbedDimension: getEnvInt("SAIBORG_EMBED_DIMENSION", 768),
		GoogleAPIKey:   getEnv("GOOGLE_API_KEY", ""),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OllamaHost:     getEnv("OLLAMA_HOST", "http://localhost:11434"),

		MondayAPIKey:  getEnv("MONDAY_API_KEY", ""),
		MondayAPIURL:  getEnv("MONDAY_API_URL", "https://api.monday.com/v2"),
		MondayBoardID: getEnvInt64("MONDAY_CUSTOMER_BOARD_ID", 5085798849),
		MondayTimeout: getEnvDuration("MONDAY_API_TIMEOUT", 30*time.Second),

		StorePath:    getEnv("SAIBORG_STORE_PATH", "saiborg_db"),
		DataDir:      getEnv("SAIBORG_DATA_DIR", "data"),
		ChunkSize:    getEnvInt("SAIBORG_CHUNK_SIZE", 1000),
		ChunkOverlap: getEnvInt("SAIBORG_CHUNK_OVERLAP", 200),

		TopK:          getEnvInt("SAIBORG_TOP_K", 5),
		ContextBudget: getEnvInt("SAIBORG_CONTEXT_BUDGET", 6000),

		TurnTimeout:     getEnvDuration("SAIBORG_TURN_TIMEOUT", 60*time.Second),
		RouterRulesPath: getEnv("SAIBORG_ROUTER_RULES", ""),

		LogFile:  getEnv("SAIBORG_LOG_FILE", ""),
		LogLevel: parseLogLevel(getEnv("SAIBORG_LOG_LEVEL", "INFO")),
	}
}

// CRMEnabled reports whether CRM features are configured.
func (c Config) CRMEnabled() bool {
	return c.MondayAPIKey != ""
}

// llmCredential returns the env var name and value required by the
// configured provider. Ollama needs no credential.
func (c Config) llmCredential() (string, string) {
	switch c.LLMProvider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY", c.OpenAIAPIKey
	case ProviderOllama:
		return "", "ok"
	default:
		return "GOOGLE_API_KEY", c.GoogleAPIKey
	}
}

// Validate checks that every credential the given mode needs is present.
// On failure it returns a single ErrMissingCredential naming all missing
// variables, so the operator fixes everything in one pass.
func (c Config) Validate(mode Mode) error {
	var missing []string

	need := func(name, value string) {
		if name != "" && value == "" {
			missing = append(missing, name)
		}
	}

	switch mode {
	case ModeServe:
		need("SLACK_BOT_TOKEN", c.SlackBotToken)
		need("SLACK_APP_TOKEN", c.SlackAppToken)
		need(c.llmCredential())
	case ModeIndex:
		need(c.llmCredential())
	case ModeCRM:
		need("MONDAY_API_KEY", c.MondayAPIKey)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredential, strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	// Bare integers are treated as seconds, matching the original deployment.
	if n, err := strconv.Atoi(val); err == nil {
		return time.Duration(n) * time.Second
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
