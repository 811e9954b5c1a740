// Package logging provides file-based logging for weft.
// It outputs logs to both a global log file (.weft/logs/weft.log)
// and feature-specific log files (.weft/logs/<feature>.log).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/weftlabs/weft/internal/domain"
)

var _ domain.Logger = (*Logger)(nil)

// Logger writes formatted entries to per-feature and global log files.
// Fields are ordered to minimize memory padding.
type Logger struct {
	globalFile   *os.File
	featureFiles map[string]*os.File
	weftDir      string
	mu           sync.Mutex
	level        slog.Level
}

// New creates a new Logger that writes under weftDir/logs.
// If weftDir is empty, logging is disabled (returns a no-op logger).
func New(weftDir string, level slog.Level) *Logger {
	return &Logger{
		weftDir:      weftDir,
		level:        level,
		featureFiles: make(map[string]*os.File),
	}
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) ensureLogsDir() error {
	return os.MkdirAll(filepath.Join(l.weftDir, "logs"), 0o750)
}

func (l *Logger) ensureGlobalFile() (*os.File, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.globalFile != nil {
		return l.globalFile, nil
	}
	if err := l.ensureLogsDir(); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}

	path := domain.GlobalLogPath(l.weftDir)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open global log file: %w", err)
	}
	l.globalFile = f
	return f, nil
}

func (l *Logger) ensureFeatureFile(featureID string) (*os.File, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if f, ok := l.featureFiles[featureID]; ok {
		return f, nil
	}
	if err := l.ensureLogsDir(); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}

	path := domain.FeatureLogPath(l.weftDir, featureID)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open feature log file: %w", err)
	}
	l.featureFiles[featureID] = f
	return f, nil
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	if l.globalFile != nil {
		if err := l.globalFile.Close(); err != nil {
			lastErr = err
		}
		l.globalFile = nil
	}
	for id, f := range l.featureFiles {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(l.featureFiles, id)
	}
	return lastErr
}

// formatLog formats a log entry.
// Format: [2025-12-30 09:32:51] [INFO] [feat-auth] [category] message
func formatLog(t time.Time, level slog.Level, featureID, category, msg string) string {
	scope := "global"
	if featureID != "" {
		scope = featureID
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		scope,
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// log writes an entry to the global log and, when featureID is set, to
// that feature's log as well.
func (l *Logger) log(level slog.Level, featureID, category, msg string) {
	if l.weftDir == "" {
		return // logging disabled
	}
	if level < l.level {
		return
	}

	entry := formatLog(time.Now(), level, featureID, category, msg)

	if gf, err := l.ensureGlobalFile(); err == nil {
		_, _ = io.WriteString(gf, entry)
	}
	if featureID != "" {
		if ff, err := l.ensureFeatureFile(featureID); err == nil {
			_, _ = io.WriteString(ff, entry)
		}
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(featureID, category, msg string) {
	l.log(slog.LevelDebug, featureID, category, msg)
}

// Info logs an info message.
func (l *Logger) Info(featureID, category, msg string) {
	l.log(slog.LevelInfo, featureID, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(featureID, category, msg string) {
	l.log(slog.LevelWarn, featureID, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(featureID, category, msg string) {
	l.log(slog.LevelError, featureID, category, msg)
}
