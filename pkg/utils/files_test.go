package utils

import (
	"path/filepath"
	"testing"
)

func TestNameToIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Start", "Start"},
		{"The Cave", "The_Cave"},
		{"Bob's room #2", "Bob_s_room__2"},
		{"café", "caf_"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NameToIdentifier(tt.input); got != tt.expected {
				t.Errorf("NameToIdentifier(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAssetIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"cave.png", "cave"},
		{"images/Old Map.bmp", "Old_Map"},
		{`music\theme-1.vgm`, "theme_1"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := AssetIdentifier(tt.input); got != tt.expected {
				t.Errorf("AssetIdentifier(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetPathInfo(t *testing.T) {
	dir := t.TempDir()
	full, parent, err := GetPathInfo(filepath.Join(dir, "sub", "..", "story.tw"))
	if err != nil {
		t.Fatal(err)
	}
	if full != filepath.Join(dir, "story.tw") {
		t.Errorf("fullPath = %q", full)
	}
	if parent != dir {
		t.Errorf("parentDir = %q, want %q", parent, dir)
	}
}
