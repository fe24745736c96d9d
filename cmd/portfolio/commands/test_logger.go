package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jaudi/Portfolio-analysis/pkg/config"
	"github.com/jaudi/Portfolio-analysis/pkg/logger"
)

// testLoggerCmd represents the test-logger command
var testLoggerCmd = &cobra.Command{
	Use:   "test-logger",
	Short: "Print sample log lines in every format",
	Long: `Writes sample log lines so the LOG_FORMAT and LOG_LEVEL settings can be
checked by eye.

Example:
  go run ./cmd/portfolio test-logger`,
	RunE: runTestLogger,
}

func init() {
	rootCmd.AddCommand(testLoggerCmd)
}

func runTestLogger(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	sections := []struct {
		title  string
		format string
		level  string
		write  func(*logger.Logger)
	}{
		{"1. JSON Format (Production)", "json", "info", writeLevels},
		{"2. Console Format (Development)", "console", "debug", writeLevels},
		{"3. Structured Logging with Fields", "json", "info", writeStructured},
		{"4. Error Logging", "json", "error", writeErrors},
	}

	for _, s := range sections {
		fmt.Fprintln(out, s.title)
		PrintSeparator(out)
		s.write(sampleLogger(out, s.format, s.level))
		fmt.Fprintln(out)
	}

	PrintSuccess(out, "All logger samples written")
	return nil
}

func sampleLogger(w io.Writer, format, level string) *logger.Logger {
	return logger.NewWithWriter(&config.Config{
		Env:       "development",
		LogLevel:  level,
		LogFormat: format,
	}, w)
}

func writeLevels(log *logger.Logger) {
	log.Debug("Resolving lookback period")
	log.Info("Price table loaded")
	log.Warn("Fewer than two common trading dates")
	log.Error("Price fetch failed")
}

func writeStructured(log *logger.Logger) {
	// Single field
	log.WithField("symbol", "^GSPC").Info("Price cache hit")

	// Multiple fields
	log.WithFields(map[string]interface{}{
		"symbols":       []string{"^GSPC", "^FTSE"},
		"period":        "2y",
		"samples":       503,
		"return_annual": 0.084,
		"vol_annual":    0.151,
	}).Info("Analysis completed")

	// Chained fields
	log.WithField("job", "price_refresh").
		WithField("source", "yahoo").
		Info("Job started")
}

func writeErrors(log *logger.Logger) {
	err := errors.New("connection timeout")

	// Simple error
	log.WithError(err).Error("Failed to fetch daily closes")

	// Error with context
	log.WithError(err).
		WithFields(map[string]interface{}{
			"retry_count": 3,
			"timeout_ms":  30000,
			"symbol":      "^N225",
		}).
		Error("Connection failed after retries")
}
