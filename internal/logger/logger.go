// Package logger provides leveled logging for incident-rag.
// Debug, Info and Section lines appear only with --verbose. Warnings and
// errors are always written unless the logger is silenced, which the
// progress view does while it owns the terminal.
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
	silent     bool
	timestamps bool
	output     io.Writer = os.Stderr
)

// SetVerbose enables or disables debug and info output.
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

// SetSilent suppresses every level, including warnings and errors.
func SetSilent(s bool) {
	mu.Lock()
	defer mu.Unlock()
	silent = s
}

// SetTimestamps prefixes lines with the wall-clock time.
// Long-running commands (serve, watch) turn this on.
func SetTimestamps(t bool) {
	mu.Lock()
	defer mu.Unlock()
	timestamps = t
}

// SetOutput sets the output writer. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints pipeline detail in verbose mode.
func Debug(format string, args ...any) {
	write(true, "DEBUG", format, args...)
}

// Info prints a progress message in verbose mode.
func Info(format string, args ...any) {
	write(true, "INFO", format, args...)
}

// Warn prints a recoverable problem, such as a retried rate limit.
func Warn(format string, args ...any) {
	write(false, "WARN", format, args...)
}

// Error prints a failure that aborted an operation.
func Error(format string, args ...any) {
	write(false, "ERROR", format, args...)
}

// Section prints a section header in verbose mode.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose && !silent {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

func write(verboseOnly bool, level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if silent || (verboseOnly && !verbose) {
		return
	}
	prefix := "[" + level + "] "
	if timestamps {
		prefix = time.Now().Format("15:04:05") + " " + prefix
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}
