package log

import (
	"fmt"
	"io"
	"log"
	"os"
)

// LogLevel represents logging severity.
type LogLevel int

const (
	// LogLevelDebug for detailed diagnostics, such as per-query fact counts.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo for lifecycle events, such as completed refresh cycles.
	LogLevelInfo
	// LogLevelWarn for degraded operation, such as skipped extraction chunks.
	LogLevelWarn
	// LogLevelError for failures, such as a refresh cycle serving stale data.
	LogLevelError
	// LogLevelNone disables all logging.
	LogLevelNone
)

// String returns the level's name.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelNone:
		return "NONE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", l)
	}
}

// Logger is the logging interface used across dyngraph. The coordinator and
// the batch applier report refresh cycles and batch outcomes through it.
type Logger interface {
	Debug(format string, v ...any)
	Info(format string, v ...any)
	Warn(format string, v ...any)
	Error(format string, v ...any)
}

// DefaultLogger implements Logger on the standard library's log package.
type DefaultLogger struct {
	logger *log.Logger
	level  LogLevel
}

// NewDefaultLogger creates a logger writing to stderr.
func NewDefaultLogger(level LogLevel) *DefaultLogger {
	return NewWriterLogger(os.Stderr, level)
}

// NewWriterLogger creates a logger writing to out.
func NewWriterLogger(out io.Writer, level LogLevel) *DefaultLogger {
	return &DefaultLogger{
		logger: log.New(out, "[dyngraph] ", log.LstdFlags),
		level:  level,
	}
}

func (l *DefaultLogger) Debug(format string, v ...any) { l.log(LogLevelDebug, format, v...) }
func (l *DefaultLogger) Info(format string, v ...any)  { l.log(LogLevelInfo, format, v...) }
func (l *DefaultLogger) Warn(format string, v ...any)  { l.log(LogLevelWarn, format, v...) }
func (l *DefaultLogger) Error(format string, v ...any) { l.log(LogLevelError, format, v...) }

func (l *DefaultLogger) log(level LogLevel, format string, v ...any) {
	if l.level <= level {
		l.logger.Printf("["+level.String()+"] "+format, v...)
	}
}

// NoOpLogger discards everything. Handy in tests.
type NoOpLogger struct{}

func (l *NoOpLogger) Debug(format string, v ...any) {}
func (l *NoOpLogger) Info(format string, v ...any)  {}
func (l *NoOpLogger) Warn(format string, v ...any)  {}
func (l *NoOpLogger) Error(format string, v ...any) {}

// defaultLogger serves components that were not handed an explicit logger.
var defaultLogger Logger = NewDefaultLogger(LogLevelInfo)

// SetDefaultLogger replaces the package-level logger.
func SetDefaultLogger(logger Logger) {
	defaultLogger = logger
}

// GetDefaultLogger returns the current package-level logger.
func GetDefaultLogger() Logger {
	return defaultLogger
}

// SetLogLevel replaces the package-level logger with a stderr logger at the
// given level.
func SetLogLevel(level LogLevel) {
	defaultLogger = NewDefaultLogger(level)
}

// Debug logs a debug message through the package-level logger.
func Debug(format string, v ...any) { defaultLogger.Debug(format, v...) }

// Info logs an informational message through the package-level logger.
func Info(format string, v ...any) { defaultLogger.Info(format, v...) }

// Warn logs a warning through the package-level logger.
func Warn(format string, v ...any) { defaultLogger.Warn(format, v...) }

// Error logs an error through the package-level logger.
func Error(format string, v ...any) { defaultLogger.Error(format, v...) }
