// Package main - debug.go
//
// Centralized logging and debug image dumps.
//
// Logging System:
//   - Thread-safe file logging, mirrored to stderr
//   - Four log levels: DEBUG, INFO, WARN, ERROR
//   - Microsecond timestamps
//   - File is truncated (cleared) on each startup
//   - Global logger instance accessible via convenience functions
//
// Debug Dumps:
// When Config.Debug is set, detection regions and annotated frames are
// saved as PNG files next to the log so threshold tuning can be done from
// a failed session.
package main

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vcaesar/imgo"
)

// Logger provides thread-safe leveled logging to a file and stderr.
type Logger struct {
	file   *os.File
	logger *log.Logger
	debug  bool
	mu     sync.Mutex
}

var globalLogger *Logger

// InitLogger initializes the global logger. The log file is truncated on
// each startup so it only contains the current session.
func InitLogger(path string, debug bool) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	globalLogger = &Logger{
		file:   file,
		logger: log.New(file, "", log.LstdFlags|log.Lmicroseconds),
		debug:  debug,
	}
	globalLogger.printf("INFO", "logger initialized")
	return nil
}

// CloseLogger closes the log file.
func CloseLogger() {
	if globalLogger != nil && globalLogger.file != nil {
		globalLogger.printf("INFO", "logger closing")
		globalLogger.file.Close()
	}
}

func (l *Logger) printf(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := fmt.Sprintf("[%s] %s", level, fmt.Sprintf(format, v...))
	l.logger.Print(msg)
	fmt.Fprintln(os.Stderr, time.Now().Format("15:04:05.000"), msg)
}

// LogDebug logs a debug level message.
func LogDebug(format string, v ...interface{}) {
	if globalLogger != nil && globalLogger.debug {
		globalLogger.printf("DEBUG", format, v...)
	}
}

// LogInfo logs an info level message.
func LogInfo(format string, v ...interface{}) {
	if globalLogger != nil {
		globalLogger.printf("INFO", format, v...)
	}
}

// LogWarn logs a warning level message.
func LogWarn(format string, v ...interface{}) {
	if globalLogger != nil {
		globalLogger.printf("WARN", format, v...)
	}
}

// LogError logs an error level message.
func LogError(format string, v ...interface{}) {
	if globalLogger != nil {
		globalLogger.printf("ERROR", format, v...)
	}
}

// saveDebugImage writes img under the debug folder with a timestamped name.
// No-op unless debug logging is enabled.
func saveDebugImage(dir, tag string, img image.Image) {
	if globalLogger == nil || !globalLogger.debug || img == nil {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		LogWarn("debug dir: %v", err)
		return
	}
	name := fmt.Sprintf("%s_%s.png", tag, time.Now().Format("150405.000"))
	if err := imgo.Save(filepath.Join(dir, name), img); err != nil {
		LogWarn("debug image %s: %v", tag, err)
	}
}
