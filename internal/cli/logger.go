package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// SetupLogger sets up the internal logger for the CLI tool, logging to a file in the user's home directory
func SetupLogger(level slog.Level, version string) (*slog.Logger, error) {
	// Logs will be saved at ~/.nextstep/logs/nextstep-cli.log
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	logsDir := filepath.Join(homeDir, ".nextstep", "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	logFile := filepath.Join(logsDir, "nextstep-cli.log")
	f, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}
	handler := slog.NewTextHandler(f, opts)
	logger := slog.New(handler)

	logger.Info("nextstep CLI started", "version", version)

	return logger, nil
}
