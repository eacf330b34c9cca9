package config

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.LLMProvider != ProviderGoogleAI {
		t.Errorf("LLMProvider = %q, want %q", cfg.LLMProvider, ProviderGoogleAI)
	}
	if cfg.LLMModel != "gemini-2.0-flash" {
		t.Errorf("LLMModel = %q", cfg.LLMModel)
	}
	if cfg.EmbedDimension != 768 {
		t.Errorf("EmbedDimension = %d, want 768", cfg.EmbedDimension)
	}
	if cfg.MondayBoardID != 5085798849 {
		t.Errorf("MondayBoardID = %d", cfg.MondayBoardID)
	}
	if cfg.StorePath != "saiborg_db" {
		t.Errorf("StorePath = %q", cfg.StorePath)
	}
	if cfg.ChunkSize != 1000 || cfg.ChunkOverlap != 200 {
		t.Errorf("chunking = %d/%d, want 1000/200", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.TurnTimeout != 60*time.Second {
		t.Errorf("TurnTimeout = %v", cfg.TurnTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SAIBORG_LLM_PROVIDER", "openai")
	t.Setenv("SAIBORG_TOP_K", "3")
	t.Setenv("MONDAY_API_TIMEOUT", "30")
	t.Setenv("SAIBORG_TURN_TIMEOUT", "45s")
	t.Setenv("SAIBORG_LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.LLMProvider != ProviderOpenAI {
		t.Errorf("LLMProvider = %q", cfg.LLMProvider)
	}
	if cfg.TopK != 3 {
		t.Errorf("TopK = %d", cfg.TopK)
	}
	// Bare integer timeout values are seconds.
	if cfg.MondayTimeout != 30*time.Second {
		t.Errorf("MondayTimeout = %v", cfg.MondayTimeout)
	}
	if cfg.TurnTimeout != 45*time.Second {
		t.Errorf("TurnTimeout = %v", cfg.TurnTimeout)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		SlackBotToken: "xoxb-test",
		SlackAppToken: "xapp-test",
		LLMProvider:   ProviderGoogleAI,
		GoogleAPIKey:  "key",
		MondayAPIKey:  "monday-key",
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		mode        Mode
		wantErr     bool
		wantMissing []string
	}{
		{
			name:   "serve with all credentials",
			mutate: func(c *Config) {},
			mode:   ModeServe,
		},
		{
			name:        "serve without slack tokens",
			mutate:      func(c *Config) { c.SlackBotToken = ""; c.SlackAppToken = "" },
			mode:        ModeServe,
			wantErr:     true,
			wantMissing: []string{"SLACK_BOT_TOKEN", "SLACK_APP_TOKEN"},
		},
		{
			name:        "serve without google key",
			mutate:      func(c *Config) { c.GoogleAPIKey = "" },
			mode:        ModeServe,
			wantErr:     true,
			wantMissing: []string{"GOOGLE_API_KEY"},
		},
		{
			name: "serve with openai provider needs openai key",
			mutate: func(c *Config) {
				c.LLMProvider = ProviderOpenAI
				c.GoogleAPIKey = ""
			},
			mode:        ModeServe,
			wantErr:     true,
			wantMissing: []string{"OPENAI_API_KEY"},
		},
		{
			name: "ollama needs no credential",
			mutate: func(c *Config) {
				c.LLMProvider = ProviderOllama
				c.GoogleAPIKey = ""
			},
			mode: ModeIndex,
		},
		{
			name:   "index ignores slack tokens",
			mutate: func(c *Config) { c.SlackBotToken = ""; c.SlackAppToken = "" },
			mode:   ModeIndex,
		},
		{
			name:        "crm requires monday key",
			mutate:      func(c *Config) { c.MondayAPIKey = "" },
			mode:        ModeCRM,
			wantErr:     true,
			wantMissing: []string{"MONDAY_API_KEY"},
		},
		{
			// CRM key absence is not an error for serving; features disable.
			name:   "serve without monday key",
			mutate: func(c *Config) { c.MondayAPIKey = "" },
			mode:   ModeServe,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)

			err := cfg.Validate(tt.mode)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrMissingCredential) {
				t.Errorf("error %v does not match ErrMissingCredential", err)
			}
			for _, name := range tt.wantMissing {
				if !strings.Contains(err.Error(), name) {
					t.Errorf("error %q does not name %s", err, name)
				}
			}
		})
	}
}

func TestCRMEnabled(t *testing.T) {
	if (Config{}).CRMEnabled() {
		t.Error("CRMEnabled() = true without key")
	}
	if !(Config{MondayAPIKey: "k"}).CRMEnabled() {
		t.Error("CRMEnabled() = false with key")
	}
}
