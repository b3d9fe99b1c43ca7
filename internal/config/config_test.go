// Package config tests configuration loading.
package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.Store != DefaultStore {
		t.Errorf("Store: got %q, want %q", cfg.Store, DefaultStore)
	}
	if cfg.StorageKey != "todos" {
		t.Errorf("StorageKey: got %q, want todos", cfg.StorageKey)
	}
	if cfg.MatchBy != "id" {
		t.Errorf("MatchBy: got %q, want id", cfg.MatchBy)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging defaults: got %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadDefaultsOnly(t *testing.T) {
	dir := t.TempDir()
	cws, err := loadFrom(dir, "", flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("loadFrom: %v", err)
	}
	cfg := cws.Config
	if want := filepath.Join(dir, ".tudu", "store"); cfg.StorePath != want {
		t.Errorf("StorePath: got %q, want %q", cfg.StorePath, want)
	}
	for field, source := range cws.Sources {
		if source != SourceDefault {
			t.Errorf("%s: got source %q, want default", field, source)
		}
	}
	if cws.GetConfigFile() != "" {
		t.Errorf("GetConfigFile: got %q, want empty", cws.GetConfigFile())
	}
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	userFile := filepath.Join(t.TempDir(), "tudu.toml")
	writeFile(t, userFile, `store = "sqlite"
storage_key = "user-key"
log_level = "warn"
`)
	writeFile(t, filepath.Join(dir, "tudu.toml"), `storage_key = "project-key"
match_by = "text"
`)
	t.Setenv("TUDU_LOG_FORMAT", "json")
	t.Setenv("TUDU_LOG_TIMESTAMPS", "yes")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cws, err := loadFrom(dir, userFile, fs, []string{"--log-level", "debug", "ls"})
	if err != nil {
		t.Fatalf("loadFrom: %v", err)
	}
	cfg := cws.Config

	checks := []struct {
		field  string
		got    string
		want   string
		source ConfigSource
	}{
		{"store", cfg.Store, "sqlite", SourceUserFile},
		{"storage_key", cfg.StorageKey, "project-key", SourceProjFile},
		{"match_by", cfg.MatchBy, "text", SourceProjFile},
		{"log_format", cfg.LogFormat, "json", SourceEnv},
		{"log_level", cfg.LogLevel, "debug", SourceFlag},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %q, want %q", c.field, c.got, c.want)
		}
		if cws.Sources[c.field] != c.source {
			t.Errorf("%s source: got %q, want %q", c.field, cws.Sources[c.field], c.source)
		}
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps: want true from env")
	}
	if want := filepath.Join(dir, ".tudu", "tudu.db"); cfg.StorePath != want {
		t.Errorf("StorePath: got %q, want %q", cfg.StorePath, want)
	}
	if got := fs.Args(); len(got) != 1 || got[0] != "ls" {
		t.Errorf("remaining args: got %v, want [ls]", got)
	}
	if len(cws.Files) != 2 || cws.GetConfigFile() != filepath.Join(dir, "tudu.toml") {
		t.Errorf("Files: got %v", cws.Files)
	}
}

func TestLoadDotTuduConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".tudu", "tudu.toml"), `store_path = "data"`)

	cws, err := loadFrom(dir, "", flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("loadFrom: %v", err)
	}
	if want := filepath.Join(dir, "data"); cws.Config.StorePath != want {
		t.Errorf("StorePath: got %q, want %q", cws.Config.StorePath, want)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tudu.toml"), `max_iterations = 5`)
	_, err := loadFrom(dir, "", flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err == nil || !strings.Contains(err.Error(), "max_iterations") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"store", []string{"--store", "redis"}},
		{"match", []string{"--match-by", "hash"}},
		{"key", []string{"--key", "a/b"}},
		{"level", []string{"--log-level", "loud"}},
		{"format", []string{"--log-format", "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadFrom(t.TempDir(), "", flag.NewFlagSet("test", flag.ContinueOnError), tt.args)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tudu.toml"), ExampleConfig())
	if _, err := loadFrom(dir, "", flag.NewFlagSet("test", flag.ContinueOnError), nil); err != nil {
		t.Fatalf("example config does not load: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	t.Setenv("TUDU_TEST_DIR", "/opt/tudu")

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
		{"$TUDU_TEST_DIR/logs", "/opt/tudu/logs"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := expandPath(tt.input); got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"off", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := boolFromString(tt.input); got != tt.want {
				t.Errorf("boolFromString(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
