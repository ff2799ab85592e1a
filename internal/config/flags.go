package config

import "flag"

// flagFields maps flag names to the config field they set.
var flagFields = map[string]string{
	"api-url":        "api_base_url",
	"timeout-ms":     "request_timeout_ms",
	"insecure":       "insecure_skip_verify",
	"lang":           "language",
	"deleted":        "deleted_view",
	"log-dir":        "log_dir",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the global flags on fs and parses args. If sources is
// non-nil, explicitly set flags are recorded.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("todocard", flag.ContinueOnError)
	}

	// Backend
	fs.StringVar(&cfg.APIBaseURL, "api-url", cfg.APIBaseURL, "Backend base URL")
	fs.IntVar(&cfg.RequestTimeoutMS, "timeout-ms", cfg.RequestTimeoutMS, "Per-request timeout in milliseconds")
	fs.BoolVar(&cfg.InsecureSkipVerify, "insecure", cfg.InsecureSkipVerify, "Accept self-signed TLS certificates")

	// Display
	fs.StringVar(&cfg.Language, "lang", cfg.Language, "Display language (e.g. en, zh-CN)")
	fs.BoolVar(&cfg.DeletedView, "deleted", cfg.DeletedView, "Start in the deleted-items view")

	// Logging
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log output")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller location in log output")

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
