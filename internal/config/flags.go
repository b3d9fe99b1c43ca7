package config

import (
	"flag"
)

// flagFields maps flag names to config field names for source tracking.
var flagFields = map[string]string{
	"store":          "store",
	"store-path":     "store_path",
	"key":            "storage_key",
	"match-by":       "match_by",
	"log-dir":        "log_dir",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the global flags on fs, seeded with the current values,
// and parses args. If sources is non-nil, flags that were set are recorded.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tudu", flag.ContinueOnError)
	}

	// Storage
	fs.StringVar(&cfg.Store, "store", cfg.Store, "Store backend (file, sqlite, memory)")
	fs.StringVar(&cfg.StorePath, "store-path", cfg.StorePath, "Store directory (file) or database path (sqlite)")
	fs.StringVar(&cfg.StorageKey, "key", cfg.StorageKey, "Storage key for the task collection")
	fs.StringVar(&cfg.MatchBy, "match-by", cfg.MatchBy, "Task identity for edits and deletes (id, text)")

	// Logging
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
