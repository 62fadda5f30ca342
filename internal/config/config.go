// Package config handles configuration loading and management for TaskFlow.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for TaskFlow.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Summary   SummaryConfig   `mapstructure:"summary"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// CORSOrigins lists the origins allowed to call the API.
	CORSOrigins []string `mapstructure:"cors_origins"`
	// Debug switches gin into debug mode and raises log verbosity.
	Debug bool `mapstructure:"debug"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `mapstructure:"backend"`
	// Path is the SQLite database file.
	Path string `mapstructure:"path"`
}

// SchedulerConfig holds the scheduling defaults.
type SchedulerConfig struct {
	// Zone is the IANA scheduling zone dates and windows are read in.
	Zone string `mapstructure:"zone"`
	// WindowStart and WindowEnd bound the default working window (HH:MM).
	WindowStart string `mapstructure:"window_start"`
	WindowEnd   string `mapstructure:"window_end"`
	// DefaultPolicy orders candidates when a request names none.
	DefaultPolicy string `mapstructure:"default_policy"`
}

// SummaryConfig holds the report summary provider settings.
type SummaryConfig struct {
	// Enabled turns on the model-backed provider; off means every report
	// uses the deterministic template.
	Enabled bool `mapstructure:"enabled"`
	// Model is the Claude model id; empty selects the adapter default.
	Model string `mapstructure:"model"`
	// MaxTokens bounds the response length.
	MaxTokens int `mapstructure:"max_tokens"`
	// Timeout caps each provider call.
	Timeout time.Duration `mapstructure:"timeout"`
	// APIKey is the Anthropic API key; ${VAR} references are expanded.
	APIKey string `mapstructure:"api_key"`
	// UseBedrock routes calls through AWS Bedrock.
	UseBedrock bool `mapstructure:"use_bedrock"`
	// AWSRegion and AWSProfile configure the Bedrock credential chain.
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
	// RateLimit is the sustained provider calls-per-second budget.
	RateLimit float64 `mapstructure:"rate_limit"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (TASKFLOW_*, ANTHROPIC_API_KEY)
// 2. Project config (.taskflow.yaml in current directory or parent)
// 3. User config (~/.config/taskflow/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides
	v.AutomaticEnv()
	v.SetEnvPrefix("TASKFLOW")

	// Map specific environment variables
	v.BindEnv("summary.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("server.host", "TASKFLOW_SERVER_HOST")
	v.BindEnv("server.port", "TASKFLOW_SERVER_PORT")
	v.BindEnv("store.backend", "TASKFLOW_STORE_BACKEND")
	v.BindEnv("store.path", "TASKFLOW_STORE_PATH")
	v.BindEnv("scheduler.zone", "TASKFLOW_SCHEDULER_ZONE")
	v.BindEnv("logging.level", "TASKFLOW_LOG_LEVEL")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Summary.APIKey = expandEnv(cfg.Summary.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Summary.APIKey = expandEnv(cfg.Summary.APIKey)

	return cfg, nil
}

// YAML renders the configuration as a config-file document. Durations are
// written in their string form so the file round-trips through Load.
func (c *Config) YAML() ([]byte, error) {
	doc := map[string]any{
		"server": map[string]any{
			"host":         c.Server.Host,
			"port":         c.Server.Port,
			"cors_origins": c.Server.CORSOrigins,
			"debug":        c.Server.Debug,
		},
		"store": map[string]any{
			"backend": c.Store.Backend,
			"path":    c.Store.Path,
		},
		"scheduler": map[string]any{
			"zone":           c.Scheduler.Zone,
			"window_start":   c.Scheduler.WindowStart,
			"window_end":     c.Scheduler.WindowEnd,
			"default_policy": c.Scheduler.DefaultPolicy,
		},
		"summary": map[string]any{
			"enabled":     c.Summary.Enabled,
			"model":       c.Summary.Model,
			"max_tokens":  c.Summary.MaxTokens,
			"timeout":     c.Summary.Timeout.String(),
			"api_key":     c.Summary.APIKey,
			"use_bedrock": c.Summary.UseBedrock,
			"aws_region":  c.Summary.AWSRegion,
			"aws_profile": c.Summary.AWSProfile,
			"rate_limit":  c.Summary.RateLimit,
		},
		"logging": map[string]any{
			"level": c.Logging.Level,
		},
	}
	return yaml.Marshal(doc)
}

// WriteUserConfig writes the configuration to the user config file,
// creating the directory as needed.
func WriteUserConfig(cfg *Config) (string, error) {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	out, err := cfg.YAML()
	if err != nil {
		return "", fmt.Errorf("rendering config: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")
	if err := os.WriteFile(configPath, out, 0600); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return configPath, nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.debug", false)

	// Store defaults
	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.path", "taskflow.db")

	// Scheduler defaults
	v.SetDefault("scheduler.zone", "UTC")
	v.SetDefault("scheduler.window_start", "09:00")
	v.SetDefault("scheduler.window_end", "17:00")
	v.SetDefault("scheduler.default_policy", "round_robin")

	// Summary provider defaults
	v.SetDefault("summary.enabled", false)
	v.SetDefault("summary.model", "")
	v.SetDefault("summary.max_tokens", 1024)
	v.SetDefault("summary.timeout", "30s")
	v.SetDefault("summary.api_key", "")
	v.SetDefault("summary.use_bedrock", false)
	v.SetDefault("summary.aws_region", "")
	v.SetDefault("summary.aws_profile", "")
	v.SetDefault("summary.rate_limit", 1.0)

	// Logging defaults
	v.SetDefault("logging.level", "info")
}

// getUserConfigDir returns the XDG config directory for TaskFlow.
func getUserConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "taskflow")
	}

	// Fall back to ~/.config/taskflow
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "taskflow")
	}
	return filepath.Join(home, ".config", "taskflow")
}

// findProjectConfig searches for .taskflow.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".taskflow.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000"},
			Debug:       false,
		},
		Store: StoreConfig{
			Backend: "memory",
			Path:    "taskflow.db",
		},
		Scheduler: SchedulerConfig{
			Zone:          "UTC",
			WindowStart:   "09:00",
			WindowEnd:     "17:00",
			DefaultPolicy: "round_robin",
		},
		Summary: SummaryConfig{
			Enabled:   false,
			MaxTokens: 1024,
			Timeout:   30 * time.Second,
			RateLimit: 1.0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
