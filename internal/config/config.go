// Package config loads the deckschema CLI configuration from a YAML file,
// a .env file and the environment, in that order of increasing priority.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/deckschema/extract"
)

// Config holds the full CLI configuration.
type Config struct {
	OutDir    string        `yaml:"out_dir"`
	Jobs      int           `yaml:"jobs"`
	Indent    bool          `yaml:"indent"`
	LogLevel  string        `yaml:"log_level"`  // debug | info | warn | error
	LogFormat string        `yaml:"log_format"` // text | json
	OCR       OCRConfig     `yaml:"ocr"`
	Extract   ExtractConfig `yaml:"extract"`
}

// OCRConfig configures picture OCR.
type OCRConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Languages string `yaml:"languages"` // tesseract codes joined with "+"
}

// ExtractConfig mirrors extract.Options.
type ExtractConfig struct {
	IncludeAssets     bool `yaml:"include_assets"`
	IncludeMetadata   bool `yaml:"include_metadata"`
	IncludeAnimations bool `yaml:"include_animations"`
	IncludeComments   bool `yaml:"include_comments"`
	ExtractImages     bool `yaml:"extract_images"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		OutDir:    "",
		Jobs:      4,
		Indent:    true,
		LogLevel:  "info",
		LogFormat: "text",
		OCR: OCRConfig{
			Enabled:   false,
			Languages: "eng",
		},
	}
}

// LoadConfig reads and parses a YAML config file. Returns DefaultConfig
// merged with the file. An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides the configuration from DECKSCHEMA_* variables. The
// given .env files (or ./.env when none) are loaded first; variables
// already set in the environment win over the files.
func (c *Config) ApplyEnv(envFiles ...string) error {
	_ = godotenv.Load(envFiles...)

	c.OutDir = getEnv("DECKSCHEMA_OUT_DIR", c.OutDir)
	c.Jobs = getEnvInt("DECKSCHEMA_JOBS", c.Jobs)
	c.LogLevel = getEnv("DECKSCHEMA_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("DECKSCHEMA_LOG_FORMAT", c.LogFormat)
	c.OCR.Enabled = getEnvBool("DECKSCHEMA_OCR", c.OCR.Enabled)
	c.OCR.Languages = getEnv("DECKSCHEMA_OCR_LANGUAGES", c.OCR.Languages)
	return c.Validate()
}

// Validate checks that values are sane.
func (c *Config) Validate() error {
	if c.Jobs <= 0 {
		return fmt.Errorf("jobs must be > 0")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log_format %q (use text or json)", c.LogFormat)
	}
	if c.OCR.Enabled && strings.TrimSpace(c.OCR.Languages) == "" {
		return fmt.Errorf("ocr.languages is required when ocr is enabled")
	}
	return nil
}

// Options returns the extraction options described by the configuration.
func (c *Config) Options() extract.Options {
	return extract.Options{
		IncludeAssets:     c.Extract.IncludeAssets,
		IncludeMetadata:   c.Extract.IncludeMetadata,
		IncludeAnimations: c.Extract.IncludeAnimations,
		IncludeComments:   c.Extract.IncludeComments,
		ExtractImages:     c.Extract.ExtractImages || c.OCR.Enabled,
		OCRImages:         c.OCR.Enabled,
	}
}

// Logger builds the logger described by the configuration.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unsupported log_level %q: %w", s, err)
	}
	return l, nil
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("environment value is not an int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("environment value is not a bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}
