package config

import (
	"os"
	"strconv"
	"strings"
)

// loadFromEnv overrides config from environment variables. If sources is
// non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("TODOCARD_API_URL"); v != "" {
		cfg.APIBaseURL = v
		set("api_base_url")
	}
	if v := os.Getenv("TODOCARD_REQUEST_TIMEOUT_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.RequestTimeoutMS = i
			set("request_timeout_ms")
		}
	}
	if v := os.Getenv("TODOCARD_INSECURE"); v != "" {
		cfg.InsecureSkipVerify = boolFromString(v)
		set("insecure_skip_verify")
	}
	if v := os.Getenv("TODOCARD_LANG"); v != "" {
		cfg.Language = v
		set("language")
	}
	if v := os.Getenv("TODOCARD_DELETED_VIEW"); v != "" {
		cfg.DeletedView = boolFromString(v)
		set("deleted_view")
	}

	// Logging configuration
	if v := os.Getenv("TODOCARD_LOG_DIR"); v != "" {
		cfg.LogDir = v
		set("log_dir")
	}
	if v := os.Getenv("TODOCARD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
		set("log_level")
	}
	if v := os.Getenv("TODOCARD_LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
		set("log_format")
	}
	if v := os.Getenv("TODOCARD_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		set("log_timestamps")
	}
	if v := os.Getenv("TODOCARD_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		set("log_caller")
	}
}

// boolFromString accepts 1/true/yes/on in any case.
func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
