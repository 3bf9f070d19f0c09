// Package logger provides verbose logging for the pagesearch CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to trace the indexing and query pipelines.
// Errors are always printed.
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
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

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write(true, "[DEBUG] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write(true, "[INFO] ", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	write(true, "[WARN] ", format, args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	write(false, "[ERROR] ", format, args...)
}

// Fields renders key/value pairs as "k1=v1 k2=v2", sorted by key.
func Fields(kv map[string]any) string {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, kv[k]))
	}
	return strings.Join(parts, " ")
}

func write(needsVerbose bool, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if needsVerbose && !verbose {
		return
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}
