// Package logger internal/infrastructure/logger/logger.go
package logger

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Level represents the severity level of a log message
type Level string

const (
	// DebugLevel is used for development messages
	DebugLevel Level = "debug"
	// InfoLevel is used for general operational information
	InfoLevel Level = "info"
	// WarnLevel is used for warnings and potential issues
	WarnLevel Level = "warn"
	// ErrorLevel is used for errors and unexpected events
	ErrorLevel Level = "error"
	// FatalLevel is used for critical errors that require termination
	FatalLevel Level = "fatal"
)

// ParseLevel converts a configuration string into a Level
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case DebugLevel:
		return DebugLevel, nil
	case InfoLevel, "":
		return InfoLevel, nil
	case WarnLevel, "warning":
		return WarnLevel, nil
	case ErrorLevel:
		return ErrorLevel, nil
	case FatalLevel:
		return FatalLevel, nil
	default:
		return "", fmt.Errorf("unknown log level %q", s)
	}
}

// Logger defines the interface for the application logger
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Fatal(msg string, fields map[string]interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// JSONLogger writes structured JSON logs through logrus
type JSONLogger struct {
	entry *logrus.Entry
}

// NewJSONLogger creates a new JSON logger
func NewJSONLogger(output io.Writer, level Level) *JSONLogger {
	if output == nil {
		output = os.Stdout
	}

	base := logrus.New()
	base.SetOutput(output)
	base.SetLevel(toLogrusLevel(level))
	base.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "timestamp",
			logrus.FieldKeyMsg:  "message",
		},
	})

	return &JSONLogger{entry: logrus.NewEntry(base)}
}

func toLogrusLevel(level Level) logrus.Level {
	switch level {
	case DebugLevel:
		return logrus.DebugLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case FatalLevel:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// WithField returns a new logger with the field added to the log context
func (l *JSONLogger) WithField(key string, value interface{}) Logger {
	return &JSONLogger{entry: l.entry.WithField(key, value)}
}

// WithFields returns a new logger with the fields added to the log context
func (l *JSONLogger) WithFields(fields map[string]interface{}) Logger {
	if len(fields) == 0 {
		return l
	}
	return &JSONLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

// Debug logs a message at debug level
func (l *JSONLogger) Debug(msg string, fields map[string]interface{}) {
	l.log(logrus.DebugLevel, msg, fields)
}

// Info logs a message at info level
func (l *JSONLogger) Info(msg string, fields map[string]interface{}) {
	l.log(logrus.InfoLevel, msg, fields)
}

// Warn logs a message at warn level
func (l *JSONLogger) Warn(msg string, fields map[string]interface{}) {
	l.log(logrus.WarnLevel, msg, fields)
}

// Error logs a message at error level
func (l *JSONLogger) Error(msg string, fields map[string]interface{}) {
	l.log(logrus.ErrorLevel, msg, fields)
}

// Fatal logs a message at fatal level and then terminates the program
func (l *JSONLogger) Fatal(msg string, fields map[string]interface{}) {
	l.log(logrus.FatalLevel, msg, fields)
}

// Printf lets the logger stand in wherever a printf-style writer is expected
// (GORM's logger, for one). Output goes to debug level.
func (l *JSONLogger) Printf(format string, args ...interface{}) {
	l.log(logrus.DebugLevel, fmt.Sprintf(format, args...), nil)
}

func (l *JSONLogger) log(level logrus.Level, msg string, fields map[string]interface{}) {
	if !l.entry.Logger.IsLevelEnabled(level) {
		return
	}

	// Caller of the exported method, not this helper
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "unknown"
		line = 0
	}

	entry := l.entry.WithFields(logrus.Fields{
		"file": file,
		"line": line,
	})
	if len(fields) > 0 {
		entry = entry.WithFields(logrus.Fields(fields))
	}

	entry.Log(level, msg)
	if level == logrus.FatalLevel {
		entry.Logger.Exit(1)
	}
}

// Default logger instances
var (
	defaultLogger Logger = NewJSONLogger(os.Stdout, InfoLevel)
)

// GetDefaultLogger returns the default logger
func GetDefaultLogger() Logger {
	return defaultLogger
}

// SetDefaultLogger sets the default logger
func SetDefaultLogger(logger Logger) {
	if logger != nil {
		defaultLogger = logger
	}
}
