// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.todocard/todocard.toml or OS-specific config directory)
// 3. Project config file (todocard.toml or .todocard.toml in the working directory)
// 4. Environment variables (TODOCARD_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.todocard/todocard.toml (preferred)
// - Windows: %APPDATA%\todocard\todocard.toml
// - macOS: ~/Library/Application Support/todocard/todocard.toml
// - Linux/BSD: $XDG_CONFIG_HOME/todocard/todocard.toml or ~/.config/todocard/todocard.toml
//
// Project-level config locations (overrides user config):
// - ./todocard.toml (preferred)
// - ./.todocard.toml
package config
