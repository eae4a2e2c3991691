package sam

import "testing"

func TestEscapeText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{`say "hi"`, "say 'hi'"},
		{"[not] a block", "{not} a block"},
		{"Café crème", "Cafe creme"},
		{"日本", "??"},
		{"hard\x16space", "hard\x16space"},
		{"two\nlines", "two\nlines"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := escapeText(tt.input); got != tt.expected {
				t.Errorf("escapeText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
