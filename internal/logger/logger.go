// Package logger provides console logging for pocketserve.
// Debug, Info and Warn lines are printed only in verbose mode (--verbose).
// Event lines report file operations and are always printed.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu         sync.RWMutex
	verbose    bool
	output     io.Writer = os.Stderr
	timestamps bool
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for all logs.
// Defaults to os.Stderr. Useful for testing and for the TUI, which must
// not have stray lines written over its screen.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetTimestamps prefixes every line with the wall-clock time.
func SetTimestamps(on bool) {
	mu.Lock()
	defer mu.Unlock()
	timestamps = on
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	gated("DEBUG", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	gated("INFO", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	gated("WARN", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Event prints a tagged line regardless of verbose mode, e.g.
// "[UPLOAD] /photos/cat.jpg".
func Event(tag, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	write(tag, format, args...)
}

func gated(level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		write(level, format, args...)
	}
}

// write emits one line (caller must hold the read lock).
func write(tag, format string, args ...any) {
	prefix := ""
	if timestamps {
		prefix = time.Now().Format("15:04:05") + " "
	}
	fmt.Fprintf(output, prefix+"["+tag+"] "+format+"\n", args...)
}
