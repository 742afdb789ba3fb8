package logger

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// SetupLogger builds the root logger for the given environment. Local runs
// log human-readable debug output to stderr; dev and prod write JSON records
// to a file under logPath.
func SetupLogger(env, logPath string) *slog.Logger {
	switch env {
	case envDev, envProd:
		file, err := os.OpenFile(
			filepath.Join(logPath, "guestflow.log"),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644,
		)
		if err != nil {
			log.Fatalf("opening log file: %v", err)
		}
		level := slog.LevelInfo
		if env == envDev {
			level = slog.LevelDebug
		}
		return slog.New(slog.NewJSONHandler(io.MultiWriter(file, os.Stderr), &slog.HandlerOptions{Level: level}))
	default:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
