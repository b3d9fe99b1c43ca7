package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/nibzard/tudu/internal/kv"
)

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("invalid config")

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultStore      = kv.BackendFile
	DefaultStorageKey = "todos"
	DefaultMatchBy    = "id"
	DefaultLogDir     = "~/.tudu/logs"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// Config holds the full configuration for tudu.
type Config struct {
	// Storage
	Store      string `toml:"store"`       // file, sqlite or memory
	StorePath  string `toml:"store_path"`  // directory (file) or database file (sqlite)
	StorageKey string `toml:"storage_key"` // key the collection is written under
	MatchBy    string `toml:"match_by"`    // id or text

	// Logging configuration
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// Validate reports settings no component can work with.
func (c *Config) Validate() error {
	var problems []string
	if !slices.Contains(kv.Backends(), strings.ToLower(c.Store)) {
		problems = append(problems, fmt.Sprintf("store %q (expected %s)", c.Store, strings.Join(kv.Backends(), "|")))
	}
	if err := kv.ValidateKey(c.StorageKey); err != nil {
		problems = append(problems, fmt.Sprintf("storage_key: %v", err))
	}
	switch strings.ToLower(c.MatchBy) {
	case "id", "text":
	default:
		problems = append(problems, fmt.Sprintf("match_by %q (expected id|text)", c.MatchBy))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		problems = append(problems, fmt.Sprintf("log_level %q (expected debug|info|warn|error|fatal)", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json", "logfmt":
	default:
		problems = append(problems, fmt.Sprintf("log_format %q (expected text|json|logfmt)", c.LogFormat))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
