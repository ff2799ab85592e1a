package config

import "time"

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
	DefaultAPIBaseURL       = "https://localhost:3333"
	DefaultRequestTimeoutMS = 10000
	DefaultLogDir           = "~/.todocard/logs"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

// Config holds the full configuration for todocard.
type Config struct {
	// Backend
	APIBaseURL         string `toml:"api_base_url"`
	RequestTimeoutMS   int    `toml:"request_timeout_ms"`
	InsecureSkipVerify bool   `toml:"insecure_skip_verify"`

	// Display language (BCP 47). Empty means the LANG environment.
	Language string `toml:"language"`

	// Start in the deleted-items view
	DeletedView bool `toml:"deleted_view"`

	// Logging configuration
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
}

// RequestTimeout returns the per-request timeout.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutMS <= 0 {
		return time.Duration(DefaultRequestTimeoutMS) * time.Millisecond
	}
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// configFields returns the list of configurable field names for source tracking.
// Names match the TOML keys.
func configFields() []string {
	return []string{
		"api_base_url",
		"request_timeout_ms",
		"insecure_skip_verify",
		"language",
		"deleted_view",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}
