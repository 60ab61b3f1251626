package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/indaco/shiplane/internal/printer"
)

// Console writes styled, human readable lines.
type Console struct {
	mu     *sync.Mutex
	out    io.Writer
	level  Level
	fields []any
}

// Verify Console implements Logger.
var _ Logger = (*Console)(nil)

// NewConsole returns a Console logger writing to stdout.
func NewConsole(level Level) *Console {
	return NewConsoleTo(os.Stdout, level)
}

// NewConsoleTo returns a Console logger writing to w.
func NewConsoleTo(w io.Writer, level Level) *Console {
	return &Console{mu: &sync.Mutex{}, out: w, level: level}
}

func (c *Console) Debug(msg string, kv ...any) {
	c.write(DebugLevel, printer.Faint, msg, kv)
}

func (c *Console) Info(msg string, kv ...any) {
	c.write(InfoLevel, printer.Info, msg, kv)
}

func (c *Console) Success(msg string, kv ...any) {
	c.write(InfoLevel, printer.Success, msg, kv)
}

func (c *Console) Warn(msg string, kv ...any) {
	c.write(WarnLevel, printer.Warning, msg, kv)
}

func (c *Console) Error(msg string, kv ...any) {
	c.write(ErrorLevel, printer.Error, msg, kv)
}

// With returns a child logger. A "package" field becomes the line prefix.
func (c *Console) With(kv ...any) Logger {
	fields := make([]any, 0, len(c.fields)+len(kv))
	fields = append(fields, c.fields...)
	fields = append(fields, kv...)
	return &Console{mu: c.mu, out: c.out, level: c.level, fields: fields}
}

func (c *Console) write(level Level, style func(string) string, msg string, kv []any) {
	if level < c.level {
		return
	}

	var sb strings.Builder
	prefix, rest := splitPrefix(append(append([]any{}, c.fields...), kv...))
	if prefix != "" {
		sb.WriteString(printer.Bold("[" + prefix + "]"))
		sb.WriteByte(' ')
	}
	sb.WriteString(style(msg))
	if len(rest) > 0 {
		sb.WriteByte(' ')
		sb.WriteString(printer.Faint(formatFields(rest)))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, sb.String())
}

// splitPrefix pulls the "package" field out of kv.
func splitPrefix(kv []any) (string, []any) {
	var prefix string
	rest := make([]any, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i+1 < len(kv) && kv[i] == "package" {
			prefix = fmt.Sprint(kv[i+1])
			continue
		}
		rest = append(rest, kv[i])
		if i+1 < len(kv) {
			rest = append(rest, kv[i+1])
		}
	}
	return prefix, rest
}

func formatFields(kv []any) string {
	parts := make([]string, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		if i+1 >= len(kv) {
			parts = append(parts, fmt.Sprint(kv[i]))
			break
		}
		parts = append(parts, fmt.Sprintf("%v=%v", kv[i], kv[i+1]))
	}
	return strings.Join(parts, " ")
}
