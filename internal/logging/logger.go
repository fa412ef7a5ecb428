// Package logging provides the leveled component logger shared by every layer.
package logging

import (
	"io"
	"log"
	"os"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

var levelMap = map[entities.LogLevel]int{
	entities.LogLevelDebug: 0,
	entities.LogLevelInfo:  1,
	entities.LogLevelWarn:  2,
	entities.LogLevelError: 3,
}

// Logger writes "[LEVEL] [component] message" lines
type Logger struct {
	component string
	verbose   bool
	level     entities.LogLevel
	out       *log.Logger
}

// New creates a logger at info level
func New(component string, verbose bool) *Logger {
	return NewWithLevel(component, verbose, entities.LogLevelInfo)
}

// NewWithLevel creates a logger with a specific level.
// Verbose loggers always log at debug level.
func NewWithLevel(component string, verbose bool, level entities.LogLevel) *Logger {
	if verbose {
		level = entities.LogLevelDebug
	}
	return &Logger{
		component: component,
		verbose:   verbose,
		level:     level,
		out:       log.New(os.Stderr, "", log.LstdFlags),
	}
}

// FromConfig creates a logger configured by the [logging] section
func FromConfig(component string, cfg entities.LoggingConfig) *Logger {
	return NewWithLevel(component, cfg.Verbose, cfg.GetLevel())
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	l := New("discard", false)
	l.out = log.New(io.Discard, "", 0)
	return l
}

// Named returns a logger for another component sharing level and output
func (l *Logger) Named(component string) *Logger {
	clone := *l
	clone.component = component
	return &clone
}

// SetOutput redirects the log output
func (l *Logger) SetOutput(w io.Writer) {
	l.out = log.New(w, "", 0)
}

// SetLevel updates the logging level
func (l *Logger) SetLevel(level entities.LogLevel) {
	l.level = level
}

// Level returns the current level
func (l *Logger) Level() entities.LogLevel {
	return l.level
}

func (l *Logger) shouldLog(msgLevel entities.LogLevel) bool {
	return levelMap[msgLevel] >= levelMap[l.level]
}

func (l *Logger) printf(tag, msg string, args ...interface{}) {
	l.out.Printf("["+tag+"] [%s] "+msg, append([]interface{}{l.component}, args...)...)
}

// Debug logs debug messages (only if debug level is enabled)
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelDebug) {
		l.printf("DEBUG", msg, args...)
	}
}

// Info logs informational messages
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelInfo) {
		l.printf("INFO", msg, args...)
	}
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelWarn) {
		l.printf("WARN", msg, args...)
	}
}

// Error logs error messages
func (l *Logger) Error(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelError) {
		l.printf("ERROR", msg, args...)
	}
}

// Success logs success messages at info level
func (l *Logger) Success(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelInfo) {
		l.printf("SUCCESS", msg, args...)
	}
}
