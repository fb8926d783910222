// Package logging provides the leveled, prefixed logger used across the
// stream packages. A nil *Logger is valid and discards everything.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"

	"github.com/fatih/color"
)

// ENV_LOG_LEVEL names the environment variable consulted for the initial
// level of RootLogger.
const ENV_LOG_LEVEL = "ANSISTREAM_LOG_LEVEL"

// Logger writes prefixed lines at or below its level. Subloggers share the
// level and writer of the logger they were derived from.
type Logger struct {
	prefix string
	level  *atomic.Uint32
	output *log.Logger
}

// RootLogger is the logger from which all package loggers derive.
var RootLogger = NewLogger(levelFromEnvironment(), os.Stderr)

func levelFromEnvironment() Level {
	level, ok := NameToLevel(os.Getenv(ENV_LOG_LEVEL))
	if !ok {
		return LevelWarn
	}
	return level
}

// NewLogger creates a root logger writing to w.
func NewLogger(level Level, w io.Writer) *Logger {
	l := &Logger{
		level:  &atomic.Uint32{},
		output: log.New(w, "", log.LstdFlags),
	}
	l.level.Store(uint32(level))
	return l
}

// Sublogger creates a logger whose prefix is extended by name.
func (l *Logger) Sublogger(name string) *Logger {
	if l == nil {
		return nil
	}

	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}

	return &Logger{
		prefix: prefix,
		level:  l.level,
		output: l.output,
	}
}

// Level returns the current level.
func (l *Logger) Level() Level {
	if l == nil {
		return LevelDisabled
	}
	return Level(l.level.Load())
}

// SetLevel changes the level of the logger and of every logger sharing it.
func (l *Logger) SetLevel(level Level) {
	if l != nil {
		l.level.Store(uint32(level))
	}
}

func (l *Logger) write(level Level, line string) {
	if l == nil || l.Level() < level {
		return
	}
	if l.prefix != "" {
		line = fmt.Sprintf("[%s] %s", l.prefix, line)
	}
	l.output.Output(3, line)
}

// Error logs err with a red error tag.
func (l *Logger) Error(err error) {
	l.write(LevelError, color.RedString("Error: %v", err))
}

// Warn logs err with a yellow warning tag.
func (l *Logger) Warn(err error) {
	l.write(LevelWarn, color.YellowString("Warning: %v", err))
}

// Infof logs with fmt.Sprintf semantics at LevelInfo.
func (l *Logger) Infof(format string, v ...any) {
	l.write(LevelInfo, fmt.Sprintf(format, v...))
}

// Debugf logs with fmt.Sprintf semantics at LevelDebug.
func (l *Logger) Debugf(format string, v ...any) {
	l.write(LevelDebug, fmt.Sprintf(format, v...))
}

// Tracef logs with fmt.Sprintf semantics at LevelTrace.
func (l *Logger) Tracef(format string, v ...any) {
	l.write(LevelTrace, fmt.Sprintf(format, v...))
}
