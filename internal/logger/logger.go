// Package logger provides leveled diagnostic logging for lispmeta.
// Output is off by default. Import failures are reported here because
// the host entry point only returns a success flag.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level is a logging threshold. Lower levels are chattier.
type Level int

const (
	// LevelVerbose logs everything, including per-line match traces.
	LevelVerbose Level = iota
	// LevelDebug logs per-file progress and failures.
	LevelDebug
	// LevelOff disables logging.
	LevelOff
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelDebug:
		return "debug"
	case LevelOff:
		return "off"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// LevelFromName parses a level name. Matching is case-insensitive.
func LevelFromName(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "verbose":
		return LevelVerbose, nil
	case "debug":
		return LevelDebug, nil
	case "off", "":
		return LevelOff, nil
	default:
		return LevelOff, fmt.Errorf("unknown log level %q (want verbose, debug or off)", name)
	}
}

var (
	mu     sync.RWMutex
	level            = LevelOff
	output io.Writer = os.Stderr
)

// SetLevel sets the process-wide logging threshold.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// GetLevel returns the current logging threshold.
func GetLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return level
}

// SetVerbose switches between LevelVerbose and LevelOff.
func SetVerbose(v bool) {
	if v {
		SetLevel(LevelVerbose)
		return
	}
	SetLevel(LevelOff)
}

// IsVerbose returns true if verbose messages are printed.
func IsVerbose() bool {
	return GetLevel() == LevelVerbose
}

// Enabled reports whether messages at l would be printed.
func Enabled(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled(l)
}

func enabled(l Level) bool {
	return level != LevelOff && l != LevelOff && l >= level
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Log prints a message at the given level.
func Log(l Level, format string, args ...any) {
	logf(l, "["+strings.ToUpper(l.String())+"] ", format, args...)
}

// Verbose prints a message if the level is verbose.
func Verbose(format string, args ...any) {
	logf(LevelVerbose, "[VERBOSE] ", format, args...)
}

// Debug prints a message if the level is debug or lower.
func Debug(format string, args ...any) {
	logf(LevelDebug, "[DEBUG] ", format, args...)
}

// Info prints an informational message if the level is debug or lower.
func Info(format string, args ...any) {
	logf(LevelDebug, "[INFO] ", format, args...)
}

// Warn prints a warning message if the level is debug or lower.
func Warn(format string, args ...any) {
	logf(LevelDebug, "[WARN] ", format, args...)
}

// Section prints a section header if the level is debug or lower.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if enabled(LevelDebug) {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

func logf(l Level, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if enabled(l) {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}
