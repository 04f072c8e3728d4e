// Package config loads the MindCare configuration file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mindcare-ai/mindcare/internal/llm"
)

// DefaultBaseURL is where the prediction and emotion backend runs locally.
const DefaultBaseURL = "http://127.0.0.1:5000"

// Config holds all MindCare configuration.
type Config struct {
	Services ServicesConfig `yaml:"services"`
	Logging  LoggingConfig  `yaml:"logging"`
	LLM      llm.Config     `yaml:"llm"`

	// Database is the request log path. Empty means store.DefaultDBPath.
	Database string `yaml:"database"`
}

// ServicesConfig holds the backend base URLs.
type ServicesConfig struct {
	PredictionURL string `yaml:"prediction_url"`
	EmotionURL    string `yaml:"emotion_url"`
	JournalURL    string `yaml:"journal_url"`
}

// LoggingConfig configures the log file.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty means the state dir default
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Services: ServicesConfig{
			PredictionURL: DefaultBaseURL,
			EmotionURL:    DefaultBaseURL,
			JournalURL:    DefaultBaseURL,
		},
		Logging: LoggingConfig{Level: "info"},
		LLM:     llm.DefaultConfig(),
	}
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	envString("MINDCARE_API_URL", &c.Services.PredictionURL)
	envString("MINDCARE_EMOTION_URL", &c.Services.EmotionURL)
	envString("MINDCARE_JOURNAL_URL", &c.Services.JournalURL)
	envString("MINDCARE_LOG_LEVEL", &c.Logging.Level)
	envString("MINDCARE_DB", &c.Database)
	c.LLM.ApplyEnv()
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks that every service URL is an absolute http(s) URL. The
// LLM section is checked lazily since the assistant is optional.
func (c *Config) Validate() error {
	urls := []struct{ name, value string }{
		{"prediction_url", c.Services.PredictionURL},
		{"emotion_url", c.Services.EmotionURL},
		{"journal_url", c.Services.JournalURL},
	}
	for _, u := range urls {
		parsed, err := url.Parse(u.value)
		if err != nil {
			return fmt.Errorf("services.%s: %w", u.name, err)
		}
		if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("services.%s: %q is not an http(s) URL", u.name, u.value)
		}
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/mindcare/config.yaml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mindcare", "config.yaml"), nil
}
