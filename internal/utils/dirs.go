package utils

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"

	"placepicker.dev/internal/report"
)

// EnsureDirectory makes sure dir exists and is a directory, creating it if necessary.
func EnsureDirectory(dir string, logger *slog.Logger) error {
	stat, err := os.Stat(dir)

	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
					Level: sentry.LevelError,
					ExtraContext: map[string]interface{}{
						"dir": dir,
					},
				})
				return err
			}
			logger.Info("created directory", "dir", dir)
			return nil
		}
		return err
	}

	if !stat.IsDir() {
		err := fmt.Errorf("%s is not a directory", dir)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Level: sentry.LevelError,
			ExtraContext: map[string]interface{}{
				"dir": dir,
			},
		})
		return err
	}
	return nil
}
