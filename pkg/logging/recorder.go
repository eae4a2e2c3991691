package logging

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Entry is one record kept by a Recorder.
type Entry struct {
	Level   slog.Level
	Message string
	Passage string
}

// Recorder is a slog handler that keeps every record in memory. Tests use it
// to count the diagnostics a compile produced.
type Recorder struct {
	mu      *sync.Mutex
	entries *[]Entry
	attrs   []slog.Attr
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{mu: &sync.Mutex{}, entries: &[]Entry{}}
}

// Logger returns a logger feeding the recorder.
func (r *Recorder) Logger() *slog.Logger { return slog.New(r) }

func (r *Recorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *Recorder) Handle(_ context.Context, rec slog.Record) error {
	e := Entry{Level: rec.Level, Message: rec.Message}
	for _, a := range r.attrs {
		if a.Key == PassageKey {
			e.Passage = a.Value.String()
		}
	}
	rec.Attrs(func(a slog.Attr) bool {
		if a.Key == PassageKey {
			e.Passage = a.Value.String()
		}
		return true
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	*r.entries = append(*r.entries, e)
	return nil
}

func (r *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *r
	clone.attrs = append(append([]slog.Attr{}, r.attrs...), attrs...)
	return &clone
}

func (r *Recorder) WithGroup(string) slog.Handler { return r }

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), *r.entries...)
}

// Count returns how many records contain substr in their message.
func (r *Recorder) Count(substr string) int {
	n := 0
	for _, e := range r.Entries() {
		if strings.Contains(e.Message, substr) {
			n++
		}
	}
	return n
}

// Warnings returns how many records were logged at warning level or above.
func (r *Recorder) Warnings() int {
	n := 0
	for _, e := range r.Entries() {
		if e.Level >= slog.LevelWarn {
			n++
		}
	}
	return n
}
