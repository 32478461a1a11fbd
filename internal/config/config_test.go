package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if opts := cfg.Options(); opts.ExtractImages || opts.OCRImages || opts.IncludeMetadata {
		t.Errorf("default options = %+v, want all off", opts)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "deckschema.yaml", `
out_dir: build
jobs: 8
log_level: debug
extract:
  include_metadata: true
  include_assets: true
ocr:
  enabled: true
  languages: eng+fra
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.OutDir != "build" || cfg.Jobs != 8 || cfg.LogLevel != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.LogFormat != "text" || !cfg.Indent {
		t.Errorf("defaults not kept: %+v", cfg)
	}

	opts := cfg.Options()
	if !opts.IncludeMetadata || !opts.IncludeAssets || !opts.ExtractImages || !opts.OCRImages {
		t.Errorf("Options() = %+v", opts)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "jobs: [", "parse config"},
		{"zero jobs", "jobs: 0", "jobs must be > 0"},
		{"bad level", "log_level: loud", "log_level"},
		{"bad format", "log_format: xml", "log_format"},
		{"ocr without languages", "ocr:\n  enabled: true\n  languages: ''", "ocr.languages"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "c.yaml", tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadConfig() error = %v, want %q", err, tt.wantErr)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig() expected error for missing file")
	}
	if cfg, err := LoadConfig(""); err != nil || cfg.Jobs != 4 {
		t.Errorf("LoadConfig(\"\") = %+v, %v", cfg, err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := writeFile(t, ".env", "DECKSCHEMA_JOBS=2\nDECKSCHEMA_LOG_FORMAT=json\nDECKSCHEMA_OCR_LANGUAGES=deu\n")
	t.Setenv("DECKSCHEMA_OUT_DIR", "from-env")
	t.Setenv("DECKSCHEMA_JOBS", "6")
	t.Setenv("DECKSCHEMA_OCR", "true")
	t.Cleanup(func() {
		os.Unsetenv("DECKSCHEMA_LOG_FORMAT")
		os.Unsetenv("DECKSCHEMA_OCR_LANGUAGES")
	})

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(env); err != nil {
		t.Fatalf("ApplyEnv() failed: %v", err)
	}
	// Variables already in the environment win over the .env file.
	if cfg.Jobs != 6 || cfg.OutDir != "from-env" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.LogFormat != "json" || cfg.OCR.Languages != "deu" || !cfg.OCR.Enabled {
		t.Errorf("cfg from .env = %+v", cfg)
	}
}

func TestApplyEnv_BadValuesKeepDefaults(t *testing.T) {
	t.Setenv("DECKSCHEMA_JOBS", "many")
	t.Setenv("DECKSCHEMA_OCR", "perhaps")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(filepath.Join(t.TempDir(), "none.env")); err != nil {
		t.Fatalf("ApplyEnv() failed: %v", err)
	}
	if cfg.Jobs != 4 || cfg.OCR.Enabled {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	log := cfg.Logger(&buf)
	log.Info("hidden")
	log.Warn("shown", "slide", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"slide":3`) {
		t.Errorf("log output = %q", out)
	}
}
