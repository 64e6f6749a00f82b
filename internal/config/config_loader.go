package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/viper"

	"placepicker.dev/internal/report"
	"placepicker.dev/internal/utils"
)

// EnvPrefix is prepended to every environment variable read by Load,
// e.g. PLACEPICKER_REDIS_URL.
const EnvPrefix = "PLACEPICKER"

var defaults = map[string]any{
	"port":            4000,
	"env":             "development",
	"data_dir":        "data",
	"images_dir":      "images",
	"redis_url":       "",
	"redis_key":       "placepicker:user-places",
	"base_url":        "http://localhost:4000",
	"request_timeout": "10s",
	"locator":         LocatorNone,
	"latitude":        0.0,
	"longitude":       0.0,
	"locator_url":     "",
}

// Load builds a Config from, in increasing precedence: defaults, the optional
// config file, PLACEPICKER_* environment variables and overrides. Overrides
// are keyed by config key, see FlagOverrides.
//
// The result is validated; read or parse errors are reported to Sentry.
func Load(configFile string, overrides map[string]string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
				Tags:  utils.MakeMap("file_path", configFile),
				Level: sentry.LevelError,
			})
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("file_path", configFile),
			Level: sentry.LevelError,
		})
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FlagOverrides returns the flags that were explicitly set on fs, keyed by
// config key ("base-url" becomes "base_url"). The config-file flag is skipped.
func FlagOverrides(fs *flag.FlagSet) map[string]string {
	out := map[string]string{}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config-file" {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if _, known := defaults[key]; known {
			out[key] = f.Value.String()
		}
	})
	return out
}

// ValidateConfigFlags rejects positional arguments the backend does not take.
func ValidateConfigFlags(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))
	}
	return nil
}
