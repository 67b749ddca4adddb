// Package logger writes verbose diagnostics to stderr. Nothing is printed
// unless verbose mode is switched on with --verbose.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether verbose logging is on.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log output. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug logs a debug message.
func Debug(format string, args ...any) {
	logf("DEBUG", format, args...)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	logf("INFO", format, args...)
}

// Warn logs a warning.
func Warn(format string, args ...any) {
	logf("WARN", format, args...)
}

// Section prints a section header.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		_, _ = fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

func logf(level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	_, _ = fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
}
