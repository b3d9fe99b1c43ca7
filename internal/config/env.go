package config

import "os"

// envBinding maps one TUDU_* variable onto a config field.
type envBinding struct {
	name  string
	field string
	apply func(cfg *Config, value string)
}

func envBindings() []envBinding {
	return []envBinding{
		{"TUDU_STORE", "store", func(c *Config, v string) { c.Store = v }},
		{"TUDU_STORE_PATH", "store_path", func(c *Config, v string) { c.StorePath = v }},
		{"TUDU_STORAGE_KEY", "storage_key", func(c *Config, v string) { c.StorageKey = v }},
		{"TUDU_MATCH_BY", "match_by", func(c *Config, v string) { c.MatchBy = v }},
		{"TUDU_LOG_DIR", "log_dir", func(c *Config, v string) { c.LogDir = v }},
		{"TUDU_LOG_LEVEL", "log_level", func(c *Config, v string) { c.LogLevel = v }},
		{"TUDU_LOG_FORMAT", "log_format", func(c *Config, v string) { c.LogFormat = v }},
		{"TUDU_LOG_TIMESTAMPS", "log_timestamps", func(c *Config, v string) { c.LogTimestamps = boolFromString(v) }},
		{"TUDU_LOG_CALLER", "log_caller", func(c *Config, v string) { c.LogCaller = boolFromString(v) }},
	}
}

// loadFromEnv overrides config from environment variables. If sources is
// non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	for _, b := range envBindings() {
		v := os.Getenv(b.name)
		if v == "" {
			continue
		}
		b.apply(cfg, v)
		if sources != nil {
			sources[b.field] = SourceEnv
		}
	}
}
