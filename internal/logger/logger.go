// Package logger provides structured logging for the ELD library.
//
// It supports leveled output (TRACE/DEBUG/INFO/WARN/ERROR) with an
// atomic level switch for lock-free checks, and package-level
// functions rather than an injected logger instance, so every part of
// the library can log without threading a logger handle through every
// call.
//
// Log output format:
//
//	YYYY/MM/DD HH:MM:SS.ssssss [PID] [LEVEL] function.file:line: message
package logger

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// Level represents the severity of a log message.
type Level int32

const (
	TRACE Level = iota
	DEBUG
	INFO
	WARN
	ERROR
)

var levelNames = map[Level]string{
	TRACE: "TRACE",
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

var (
	currentLevel atomic.Int32
	processID    = os.Getpid()
	backend      *log.Logger
)

func init() {
	backend = log.New(os.Stdout, "", 0)
	currentLevel.Store(int32(INFO))
}

// SetLevel sets the minimum level that will be emitted.
func SetLevel(level string) error {
	switch strings.ToUpper(level) {
	case "TRACE":
		currentLevel.Store(int32(TRACE))
	case "DEBUG":
		currentLevel.Store(int32(DEBUG))
	case "INFO":
		currentLevel.Store(int32(INFO))
	case "WARN":
		currentLevel.Store(int32(WARN))
	case "ERROR":
		currentLevel.Store(int32(ERROR))
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}
	return nil
}

// CurrentLevel returns the active minimum level.
func CurrentLevel() string {
	return levelNames[Level(currentLevel.Load())]
}

func formatMessage(level Level, skip int, format string, args ...interface{}) string {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		file = "unknown"
		line = 0
	}
	if idx := strings.LastIndex(file, "/"); idx != -1 {
		file = file[idx+1:]
	}
	if idx := strings.LastIndex(file, ".go"); idx != -1 {
		file = file[:idx]
	}

	funcName := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		full := fn.Name()
		if idx := strings.LastIndex(full, "."); idx != -1 {
			funcName = full[idx+1:]
		}
	}

	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006/01/02 15:04:05.000000")
	return fmt.Sprintf("%s [%d] [%s] %s.%s:%d: %s",
		timestamp, processID, levelNames[level], funcName, file, line, msg)
}

func logMessage(level Level, skip int, format string, args ...interface{}) {
	if level < Level(currentLevel.Load()) {
		return
	}
	backend.Println(formatMessage(level, skip, format, args...))
}

// Trace logs a trace-level message.
func Trace(format string, args ...interface{}) { logMessage(TRACE, 3, format, args...) }

// Debug logs a debug-level message.
func Debug(format string, args ...interface{}) { logMessage(DEBUG, 3, format, args...) }

// Info logs an info-level message.
func Info(format string, args ...interface{}) { logMessage(INFO, 3, format, args...) }

// Warn logs a warning-level message.
func Warn(format string, args ...interface{}) { logMessage(WARN, 3, format, args...) }

// Error logs an error-level message.
func Error(format string, args ...interface{}) { logMessage(ERROR, 3, format, args...) }

// Configure applies ELD_LOG_LEVEL from the environment, if set.
func Configure() {
	if level := os.Getenv("ELD_LOG_LEVEL"); level != "" {
		_ = SetLevel(level)
	}
}
