// Package logging provides the Logger capability handed to release pipelines.
// The console backend renders through the printer package; the json backend
// is a zap production logger for CI log collectors.
package logging

import (
	"fmt"
	"strings"
)

// Logger is the logging capability used by the release engine.
// kv is a flat list of alternating keys and values.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Success(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)

	// With returns a Logger that adds kv to every entry.
	With(kv ...any) Logger
}

// Level names accepted by --log-level.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
	LevelNone  = "none"
)

// Format names accepted by --log-format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New builds a Logger for the given format and level.
func New(format, level string) (Logger, error) {
	if level == "" {
		level = LevelInfo
	}
	switch format {
	case "", FormatConsole:
		lvl, err := parseLevel(level)
		if err != nil {
			return nil, err
		}
		return NewConsole(lvl), nil
	case FormatJSON:
		return NewZap(level)
	default:
		return nil, fmt.Errorf("unknown log format %q (expected console or json)", format)
	}
}

// Level orders console output.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	Disabled
)

func parseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case LevelDebug:
		return DebugLevel, nil
	case LevelInfo:
		return InfoLevel, nil
	case LevelWarn, "warning":
		return WarnLevel, nil
	case LevelError:
		return ErrorLevel, nil
	case LevelNone:
		return Disabled, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

type nop struct{}

// NewNop returns a Logger that discards everything.
func NewNop() Logger { return nop{} }

func (nop) Debug(string, ...any)   {}
func (nop) Info(string, ...any)    {}
func (nop) Success(string, ...any) {}
func (nop) Warn(string, ...any)    {}
func (nop) Error(string, ...any)   {}
func (n nop) With(...any) Logger   { return n }
