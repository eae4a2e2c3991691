package logging

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestConsoleHandler(t *testing.T) {
	tests := []struct {
		name     string
		color    bool
		log      func(l *slog.Logger)
		expected string
	}{
		{
			name:     "passage warning",
			log:      func(l *slog.Logger) { l.Warn("<<endif>> without <<if>>", "passage", "Start") },
			expected: "warning: 'Start': <<endif>> without <<if>>\n",
		},
		{
			name:     "extra attributes",
			log:      func(l *slog.Logger) { l.Warn("text buffer overflow", "passage", "Cave", "limit", 511) },
			expected: "warning: 'Cave': text buffer overflow (limit=511)\n",
		},
		{
			name:     "attributes from With",
			log:      func(l *slog.Logger) { l.With("passage", "Hall").Error("boom") },
			expected: "error: 'Hall': boom\n",
		},
		{
			name:     "below level",
			log:      func(l *slog.Logger) { l.Debug("hidden") },
			expected: "",
		},
		{
			name:     "coloured",
			color:    true,
			log:      func(l *slog.Logger) { l.Warn("careful") },
			expected: ansiYellow + "warning" + ansiReset + ": careful\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(slog.New(NewConsoleHandler(&buf, slog.LevelInfo, tt.color)))
			if buf.String() != tt.expected {
				t.Errorf("got %q, want %q", buf.String(), tt.expected)
			}
		})
	}
}

func TestNewLogger_PlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, slog.LevelWarn)
	log.Info("compiled")
	log.Warn("careful", "passage", "Start")

	if got, want := buf.String(), "warning: 'Start': careful\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	log := rec.Logger()
	log.Info("compiled", "passage", "Start")
	log.With("passage", "Cave").Warn("text buffer overflow")
	log.Warn("text buffer overflow", "passage", "Hall")

	if got := rec.Count("overflow"); got != 2 {
		t.Errorf("Count = %d, want 2", got)
	}
	if got := rec.Warnings(); got != 2 {
		t.Errorf("Warnings = %d, want 2", got)
	}
	entries := rec.Entries()
	if len(entries) != 3 || entries[1].Passage != "Cave" || entries[2].Passage != "Hall" {
		t.Errorf("unexpected entries %+v", entries)
	}
}
