// Package logging provides the slog handlers used by the twee2sam tools.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiGrey   = "\x1b[90m"
)

// PassageKey is the attribute carrying the title of the passage a
// diagnostic is about.
const PassageKey = "passage"

// ConsoleHandler writes one line per record in the style
//
//	warning: 'Start': <<endif>> without <<if>>
//
// optionally coloured by level.
type ConsoleHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	level slog.Leveler
	color bool
	attrs []slog.Attr
}

// NewConsoleHandler returns a handler writing to w records at or above
// level.
func NewConsoleHandler(w io.Writer, level slog.Leveler, color bool) *ConsoleHandler {
	return &ConsoleHandler{mu: &sync.Mutex{}, w: w, level: level, color: color}
}

// IsTerminal reports whether f is an interactive terminal, so output to it
// can be coloured.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewLogger builds the logger used by the command-line tools. Output is
// coloured only when w is a terminal.
func NewLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	color := false
	if f, ok := w.(*os.File); ok {
		color = IsTerminal(f)
	}
	return slog.New(NewConsoleHandler(w, level, color))
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	label := levelLabel(r.Level)
	if h.color {
		sb.WriteString(levelColor(r.Level))
		sb.WriteString(label)
		sb.WriteString(ansiReset)
	} else {
		sb.WriteString(label)
	}
	sb.WriteString(": ")

	var passage string
	var extra []string
	visit := func(a slog.Attr) bool {
		if a.Key == PassageKey {
			passage = a.Value.String()
		} else {
			extra = append(extra, fmt.Sprintf("%s=%v", a.Key, a.Value))
		}
		return true
	}
	for _, a := range h.attrs {
		visit(a)
	}
	r.Attrs(visit)

	if passage != "" {
		fmt.Fprintf(&sb, "'%s': ", passage)
	}
	sb.WriteString(r.Message)
	if len(extra) > 0 {
		if h.color {
			sb.WriteString(ansiGrey)
		}
		sb.WriteString(" (" + strings.Join(extra, ", ") + ")")
		if h.color {
			sb.WriteString(ansiReset)
		}
	}
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

// WithGroup is a no-op: the console format has no nesting.
func (h *ConsoleHandler) WithGroup(string) slog.Handler { return h }

func levelLabel(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "error"
	case l >= slog.LevelWarn:
		return "warning"
	case l >= slog.LevelInfo:
		return "info"
	}
	return "debug"
}

func levelColor(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return ansiRed
	case l >= slog.LevelWarn:
		return ansiYellow
	}
	return ansiGrey
}
