package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tudu configuration file
# Values can be overridden by environment variables (TUDU_*) or CLI flags

# Storage backend: file, sqlite or memory
store = "file"

# Where the store lives (relative to the working directory).
# Defaults to .tudu/store for file and .tudu/tudu.db for sqlite.
# store_path = ".tudu/store"

# Key the task collection is written under
storage_key = "todos"

# How edits and deletes find their task: id, or text to match every
# task with the same label
match_by = "id"

# Logging
log_dir = "~/.tudu/logs"
log_level = "info"
log_format = "text"   # text, json or logfmt
log_timestamps = false
log_caller = false
`
}
