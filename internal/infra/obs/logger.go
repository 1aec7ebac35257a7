package obs

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// NewLogger configures the process logger: colorful tint output for
// local development, JSON elsewhere.
func NewLogger(env string) *slog.Logger {
	level := slog.LevelInfo
	if strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug") {
		level = slog.LevelDebug
	}
	writer := os.Stdout
	switch strings.ToLower(env) {
	case "dev", "local":
		handler := tint.NewHandler(writer, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC3339,
		})
		return slog.New(handler)
	default:
		handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level})
		return slog.New(handler)
	}
}
