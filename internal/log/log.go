// Package log provides structured logging for bpgroup.
// Logging is off unless enabled via --debug, --verbose or BPGROUP_DEBUG.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Category groups related log messages.
type Category string

const (
	CatPipeline Category = "pipeline" // invocation lifecycle
	CatScan     Category = "scan"     // attribute scanning
	CatRewrite  Category = "rewrite"  // node rewriting
	CatEdit     Category = "edit"     // edit collection and application
	CatHost     Category = "host"     // document reads and writes
	CatConfig   Category = "config"   // configuration loading/saving
	CatWatcher  Category = "watcher"  // file watcher events
	CatCache    Category = "cache"    // digest cache
)

// Logger provides structured logging.
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	writer   io.Writer
	enabled  bool
	minLevel Level
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Init opens path for appending and installs it as the global log sink.
// Returns a cleanup function to close the log file.
func Init(path string) (func(), error) {
	var initErr error
	once.Do(func() {
		defaultLogger, initErr = newLogger(path)
	})
	if initErr != nil {
		return nil, initErr
	}
	if defaultLogger == nil {
		return nil, fmt.Errorf("logger initialization failed or already attempted")
	}
	return func() {
		if defaultLogger != nil && defaultLogger.file != nil {
			_ = defaultLogger.file.Close()
		}
	}, nil
}

// InitWriter installs w as the global log sink. Used for --verbose and tests.
func InitWriter(w io.Writer, minLevel Level) {
	defaultLogger = &Logger{
		writer:   w,
		enabled:  true,
		minLevel: minLevel,
	}
}

// Mirror adds w as a second destination for every entry.
func Mirror(w io.Writer) {
	if defaultLogger == nil {
		InitWriter(w, LevelDebug)
		return
	}
	defaultLogger.mu.Lock()
	defaultLogger.writer = io.MultiWriter(defaultLogger.writer, w)
	defaultLogger.mu.Unlock()
}

// Reset disables logging and drops the global logger.
func Reset() {
	defaultLogger = nil
	once = sync.Once{}
}

func newLogger(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // G304: path is user-controlled debug log path
	if err != nil {
		return nil, err
	}

	return &Logger{
		file:     f,
		writer:   f,
		enabled:  true,
		minLevel: LevelDebug,
	}, nil
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defaultLogger.enabled = enabled
		defaultLogger.mu.Unlock()
	}
}

// SetMinLevel sets the minimum log level.
func SetMinLevel(level Level) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defaultLogger.minLevel = level
		defaultLogger.mu.Unlock()
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	log(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	log(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	log(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	log(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	log(LevelError, cat, msg, fields...)
}

func log(level Level, cat Category, msg string, fields ...any) {
	l := defaultLogger
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || level < l.minLevel || l.writer == nil {
		return
	}

	// Format: 2025-12-06T10:45:00 [ERROR] [scan] message key=value key2=value2
	timestamp := time.Now().Format("2006-01-02T15:04:05")
	entry := fmt.Sprintf("%s [%s] [%s] %s", timestamp, level, cat, msg)

	for i := 0; i+1 < len(fields); i += 2 {
		entry += fmt.Sprintf(" %v=%v", fields[i], fields[i+1])
	}
	// Odd field count: orphan key with no value
	if len(fields)%2 != 0 {
		entry += fmt.Sprintf(" %v=<missing>", fields[len(fields)-1])
	}
	entry += "\n"

	_, _ = l.writer.Write([]byte(entry))
}
