package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

var (
	mu       sync.RWMutex
	instance hclog.Logger = hclog.New(&hclog.LoggerOptions{
		Name:   "team-calendar-api",
		Level:  hclog.Info,
		Output: os.Stdout,
	})
)

// Init replaces the process logger. Level is one of debug, info, warn, error.
func Init(level string, json bool) {
	l := hclog.New(&hclog.LoggerOptions{
		Name:       "team-calendar-api",
		Level:      parseLevel(level),
		Output:     os.Stdout,
		JSONFormat: json,
	})

	mu.Lock()
	instance = l
	mu.Unlock()
}

// SetLogger installs an already configured logger, mostly for tests.
func SetLogger(l hclog.Logger) {
	mu.Lock()
	instance = l
	mu.Unlock()
}

// Get returns the underlying hclog logger.
func Get() hclog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

func parseLevel(level string) hclog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return hclog.Debug
	case "warn", "warning":
		return hclog.Warn
	case "error":
		return hclog.Error
	default:
		return hclog.Info
	}
}
