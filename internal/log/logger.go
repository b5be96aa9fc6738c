// Package log provides the leveled console logger used by the CLI.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level filters which messages a Logger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	levelSilent
)

// LevelFromVerbosity maps the counts of the -v and -q flags onto a
// level. The default is warnings and errors; each -v lowers the
// threshold and each -q raises it, so -vv shows everything and -qq
// silences the logger completely.
func LevelFromVerbosity(verbose, quiet int) Level {
	level := LevelWarn - Level(verbose) + Level(quiet)
	if level < LevelDebug {
		level = LevelDebug
	}
	if level > levelSilent {
		level = levelSilent
	}
	return level
}

// Logger writes timestamped, leveled lines to a single writer. Level
// labels are colored when the writer is a terminal. Safe for concurrent
// use.
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	level    Level
	colorize bool
}

// New creates a Logger writing to w, emitting messages at or above
// level.
func New(w io.Writer, level Level) *Logger {
	colorize := false
	if w == os.Stdout || w == os.Stderr {
		colorize = !color.NoColor
	}
	return &Logger{writer: w, level: level, colorize: colorize}
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *Logger) logf(level Level, format string, args ...any) {
	if l == nil || level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	label := levelLabel(level)
	if l.colorize {
		label = levelColor(level).Sprint(label)
	}
	fmt.Fprintf(l.writer, "[%s] [%s] %s\n",
		time.Now().Format("15:04:05"), label, fmt.Sprintf(format, args...))
}

func levelLabel(level Level) string {
	switch level {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

func levelColor(level Level) *color.Color {
	switch level {
	case LevelDebug:
		return color.New(color.FgCyan)
	case LevelInfo:
		return color.New(color.FgBlue)
	case LevelWarn:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}
