package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todocard configuration file
# Values can be overridden by TODOCARD_* environment variables or CLI flags

# Backend origin
api_base_url = "https://localhost:3333"

# Per-request timeout in milliseconds
request_timeout_ms = 10000

# Accept self-signed certificates (local development backends only)
insecure_skip_verify = false

# Display language; empty follows LC_ALL / LC_MESSAGES / LANG
language = "en"

# Start in the deleted-items view
deleted_view = false

# Log directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.todocard/logs"

# Logging: level (debug|info|warn|error), format (text|json|logfmt)
log_level = "info"
log_format = "text"
log_timestamps = true
log_caller = false
`
}
