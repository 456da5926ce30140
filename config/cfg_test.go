package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}

	opts := cfg.Engine.Options()
	if opts.MediaType != "all" || opts.Indent != 2 || !opts.Merge || !opts.Prefix {
		t.Errorf("Engine options = %+v, want all/2/merge/prefix", opts)
	}
	if a := cfg.Atomic.AtomicOptions(); a.ClassPrefix != "c" || a.HashLength != 7 {
		t.Errorf("Atomic options = %+v, want c/7", a)
	}
	if got := cfg.Fonts.Fallbacks["*"]; len(got) != 1 || got[0] != "sans-serif" {
		t.Errorf("Default fallbacks = %q, want [sans-serif]", got)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("Console level = %q, want normal", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
engine:
  indent: 4
  media_type: screen
  merge: false
  prefix: true
atomic:
  class_prefix: ws
  hash_length: 10
assets:
  base_url: https://cdn.example.com
fonts:
  fallbacks:
    Inter: [Arial, sans-serif]
logging:
  console:
    level: debug
`)
	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Engine.Indent != 4 || cfg.Engine.MediaType != "screen" || cfg.Engine.Merge {
		t.Errorf("Engine = %+v", cfg.Engine)
	}
	if cfg.Atomic.ClassPrefix != "ws" || cfg.Atomic.HashLength != 10 {
		t.Errorf("Atomic = %+v", cfg.Atomic)
	}

	bo := cfg.BuildOptions()
	if bo.AssetBase != "https://cdn.example.com" {
		t.Errorf("AssetBase = %q", bo.AssetBase)
	}
	if got := bo.FontFallbacks["Inter"]; len(got) != 2 {
		t.Errorf("Inter fallbacks = %q, want 2 entries", got)
	}
	if _, ok := bo.FontFallbacks["*"]; !ok {
		t.Error("default fallback entry lost when file adds its own")
	}
}

func TestLoadConfiguration_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "version: 1\nengine:\n  indent: 2\n  invalid indent\n"},
		{"unknown field", "version: 1\nengine:\n  tabs: true\n"},
		{"wrong version", "version: 2\n"},
		{"hash too short", "version: 1\natomic:\n  hash_length: 2\n"},
		{"digit prefix", "version: 1\natomic:\n  class_prefix: \"1\"\n"},
		{"bad log level", "version: 1\nlogging:\n  console:\n    level: loud\n"},
		{"empty fallback", "version: 1\nfonts:\n  fallbacks:\n    Inter: [\"\"]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Error("LoadConfiguration() succeeded, want error")
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestPrepareAndDump(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if !bytes.Contains(data, []byte("class_prefix: c")) {
		t.Errorf("Prepare() output misses atomic section:\n%s", data)
	}

	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	out, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	for _, want := range []string{"version: 1", "media_type: all", "hash_length: 7"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("Dump() output misses %q:\n%s", want, out)
		}
	}
}

func TestLoggingConfig_Prepare(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "run.log")
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "normal"},
		FileLogger:    LoggerConfig{Level: "debug", Destination: dest, Mode: "overwrite"},
	}

	var stdout, stderr bytes.Buffer
	log, err := conf.prepare(&stdout, &stderr)
	if err != nil {
		t.Fatalf("prepare() error = %v", err)
	}
	log.Debug("hidden from console")
	log.Info("to stdout")
	log.Error("to stderr", zap.String("k", "v"))
	_ = log.Sync()

	if s := stdout.String(); !strings.Contains(s, "to stdout") || strings.Contains(s, "hidden") || strings.Contains(s, "to stderr") {
		t.Errorf("stdout = %q", s)
	}
	if s := stderr.String(); !strings.Contains(s, "to stderr") || strings.Contains(s, "to stdout") {
		t.Errorf("stderr = %q", s)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("log file: %v", err)
	}
	if !strings.Contains(string(data), "hidden from console") {
		t.Errorf("debug entry missing from file log:\n%s", data)
	}
}

func TestLoggingConfig_None(t *testing.T) {
	conf := LoggingConfig{ConsoleLogger: LoggerConfig{Level: "none"}, FileLogger: LoggerConfig{Level: "none"}}
	var stdout, stderr bytes.Buffer
	log, err := conf.prepare(&stdout, &stderr)
	if err != nil {
		t.Fatalf("prepare() error = %v", err)
	}
	log.Error("nothing")
	if stdout.Len() != 0 || stderr.Len() != 0 {
		t.Errorf("output with level none: %q %q", stdout.String(), stderr.String())
	}
}
