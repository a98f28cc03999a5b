package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	ModelPrefix string        `yaml:"model_prefix"`
	LogLevel    string        `yaml:"log_level"`
	Model       ModelConfig   `yaml:"model"`
	Decoder     DecoderConfig `yaml:"decoder"`
}

// ModelConfig holds training and language model settings.
type ModelConfig struct {
	Order          int     `yaml:"order"`
	Interpolation  float64 `yaml:"interpolation"`
	SmoothingFloor float64 `yaml:"smoothing_floor"`
}

// DecoderConfig holds search settings.
type DecoderConfig struct {
	Weights       []float64 `yaml:"weights"` // translation, phrase penalty, word penalty, LM
	MaxSpan       int       `yaml:"max_span"`
	MaxIterations int       `yaml:"max_iterations"`
	NBest         int       `yaml:"nbest"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Model: ModelConfig{
			Order:          3,
			Interpolation:  0.5,
			SmoothingFloor: 1e-6,
		},
		Decoder: DecoderConfig{
			Weights:       []float64{1, 1, 1, 1},
			MaxSpan:       7,
			MaxIterations: 100000,
			NBest:         1,
		},
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults. A leading ~ in model_prefix is expanded to the user's home directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config file")
	}

	cfg.ModelPrefix = expandTilde(cfg.ModelPrefix)

	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.Model.Order < 1 {
		return errors.Errorf("model.order must be >= 1, got %d", c.Model.Order)
	}
	if c.Model.SmoothingFloor <= 0 || c.Model.SmoothingFloor >= 1 {
		return errors.Errorf("model.smoothing_floor must be in (0, 1), got %g", c.Model.SmoothingFloor)
	}
	if c.Decoder.MaxSpan < 1 {
		return errors.Errorf("decoder.max_span must be >= 1, got %d", c.Decoder.MaxSpan)
	}
	if c.Decoder.MaxIterations < 1 {
		return errors.Errorf("decoder.max_iterations must be >= 1, got %d", c.Decoder.MaxIterations)
	}
	if c.Decoder.NBest < 1 {
		return errors.Errorf("decoder.nbest must be >= 1, got %d", c.Decoder.NBest)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}

// ParseLogLevel maps a level name to a slog.Level, defaulting to info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a text logger writing to w at the given level name.
func NewLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLogLevel(level)}))
}

// expandTilde replaces a leading ~ with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
