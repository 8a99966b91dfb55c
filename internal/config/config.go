// Package config handles configuration loading, validation and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the tracker and its tools.
type Config struct {
	WorkHours            WorkHours `yaml:"work_hours"`
	Models               Models    `yaml:"models"`
	Ollama               Ollama    `yaml:"ollama"`
	IdleThresholdSeconds int       `yaml:"idle_threshold_seconds"`
	Paths                Paths     `yaml:"paths"`
	Logging              Logging   `yaml:"logging"`
}

// Models selects which models run each classification stage.
type Models struct {
	Vision string `yaml:"vision"` // stage A: screenshot description
	Text   string `yaml:"text"`   // stage B: activity classification, summaries
}

// Ollama holds connection settings for the local model server.
type Ollama struct {
	Host           string `yaml:"host"`
	TimeoutSeconds int    `yaml:"timeout_seconds"` // per model call
}

// Paths holds filesystem locations used by the tracker.
type Paths struct {
	DataDir  string `yaml:"data_dir"`  // database + lock files
	StopFlag string `yaml:"stop_flag"` // manual-pause flag file
}

// Logging holds log output settings.
type Logging struct {
	Level string `yaml:"level"`
}

// Timeout returns the per-call model timeout as a duration.
func (o Ollama) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// IdleThreshold returns the configured idle threshold in seconds.
func (c *Config) IdleThreshold() float64 {
	return float64(c.IdleThresholdSeconds)
}

// Default returns sensible defaults: Mon-Fri 09:00-17:30 work hours, a
// 5 minute idle threshold, and a local Ollama instance.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/tmp"
	}

	return &Config{
		WorkHours: WorkHours{
			Start: ClockTime{Hour: 9},
			End:   ClockTime{Hour: 17, Minute: 30},
		},
		Models: Models{
			Vision: "qwen3-vl:4b",
			Text:   "qwen3:8b",
		},
		Ollama: Ollama{
			Host:           "http://localhost:11434",
			TimeoutSeconds: 30,
		},
		IdleThresholdSeconds: 300,
		Paths: Paths{
			DataDir:  filepath.Join(home, ".local", "share", "zeit"),
			StopFlag: filepath.Join(home, ".zeit_stop"),
		},
		Logging: Logging{Level: "info"},
	}
}

// Load loads configuration from the default paths, falling back to defaults
// when no config file exists.
func Load() (*Config, error) {
	cfg := Default()

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, nil
	}

	configPaths := []string{
		filepath.Join(home, ".config", "zeit", "config.yaml"),
		filepath.Join(home, ".local", "share", "zeit", "config.yaml"),
	}

	for _, path := range configPaths {
		if err := loadFromFile(cfg, path); err == nil {
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
			return cfg, nil
		}
	}

	return cfg, nil
}

// loadFromFile reads a YAML config file and merges it into cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	cfg.Paths.DataDir = expandTilde(cfg.Paths.DataDir)
	cfg.Paths.StopFlag = expandTilde(cfg.Paths.StopFlag)
	return nil
}

// Validate checks invariants a config file could break.
func (c *Config) Validate() error {
	if c.WorkHours.Start.Minutes() >= c.WorkHours.End.Minutes() {
		return fmt.Errorf("work hours: start %s must be before end %s",
			c.WorkHours.Start, c.WorkHours.End)
	}
	if c.IdleThresholdSeconds < 0 {
		return fmt.Errorf("idle threshold must not be negative")
	}
	if c.Ollama.TimeoutSeconds <= 0 {
		return fmt.Errorf("ollama timeout must be positive")
	}
	return nil
}

// Save writes the current config to disk.
func (c *Config) Save() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configDir := filepath.Join(home, ".config", "zeit")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(configDir, "config.yaml"), data, 0600)
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.Paths.DataDir, 0700)
}

// expandTilde expands ~ to the user's home directory.
func expandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
