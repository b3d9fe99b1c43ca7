// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.tudu/tudu.toml or OS-specific config directory)
// 3. Project config file (tudu.toml, .tudu.toml or .tudu/tudu.toml in the working directory)
// 4. Environment variables (TUDU_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.tudu/tudu.toml (preferred)
// - Windows: %APPDATA%\tudu\tudu.toml
// - macOS: ~/Library/Application Support/tudu/tudu.toml
// - Linux/BSD: $XDG_CONFIG_HOME/tudu/tudu.toml or ~/.config/tudu/tudu.toml
package config
