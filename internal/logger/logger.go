// Package logger provides levelled console logging for pitrseek.
// Errors, warnings and informational messages are always printed to
// stderr; debug and trace messages appear when the --debug flag is given
// once or twice. Level tags are coloured when the output is a terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Level is a logging verbosity threshold.
type Level int

// Levels in increasing verbosity.
const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// LevelFromCount maps the number of --debug flags to a level.
func LevelFromCount(n int) Level {
	switch {
	case n <= 0:
		return LevelInfo
	case n == 1:
		return LevelDebug
	default:
		return LevelTrace
	}
}

var (
	mu       sync.RWMutex
	level    = LevelInfo
	output   io.Writer = os.Stderr
	renderer           = lipgloss.NewRenderer(os.Stderr)
)

var tagColours = map[Level]lipgloss.Color{
	LevelError: lipgloss.Color("#F38BA8"),
	LevelWarn:  lipgloss.Color("#F9E2AF"),
	LevelInfo:  lipgloss.Color("#06B6D4"),
	LevelDebug: lipgloss.Color("#6C7086"),
	LevelTrace: lipgloss.Color("#45475A"),
}

var tagNames = map[Level]string{
	LevelError: "ERROR",
	LevelWarn:  "WARN",
	LevelInfo:  "INFO",
	LevelDebug: "DEBUG",
	LevelTrace: "TRACE",
}

// SetLevel sets the most verbose level that is printed.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// CurrentLevel returns the active level.
func CurrentLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return level
}

// IsVerbose returns true if debug messages are printed.
func IsVerbose() bool {
	return CurrentLevel() >= LevelDebug
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	renderer = lipgloss.NewRenderer(w)
}

// Output returns the current output writer.
func Output() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return output
}

// logf holds the write lock so concurrent callers never interleave output.
func logf(l Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if l > level {
		return
	}
	tag := renderer.NewStyle().Foreground(tagColours[l]).Render("[" + tagNames[l] + "]")
	fmt.Fprintf(output, tag+" "+format+"\n", args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	logf(LevelError, format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

// Info prints an informational message.
func Info(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

// Debug prints a message if debug mode is enabled.
func Debug(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

// Trace prints a message at the most verbose level.
func Trace(format string, args ...any) {
	logf(LevelTrace, format, args...)
}

// Section prints a section header if debug mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if level >= LevelDebug {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
