package expr

import (
	"reflect"
	"testing"
)

func TestFold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"$a && $b", "a  and  b"},
		{"$a || !$b", "a  or   not b"},
		{"$a != 3", "a != 3"},
		{"  $gold  ", "gold"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := fold(tt.input); got != tt.expected {
				t.Errorf("fold(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
		wantErr  bool
	}{
		{
			name:     "Empty",
			input:    "",
			expected: []Token{{Kind: End, Text: "(end)", Pos: 0}},
		},
		{
			name:  "Names and literals",
			input: "$gold + 10",
			expected: []Token{
				{Kind: Name, Text: "gold", Pos: 0},
				{Kind: Operator, Text: "+", Pos: 5},
				{Kind: Literal, Text: "10", Pos: 7},
				{Kind: End, Text: "(end)", Pos: 9},
			},
		},
		{
			name:  "Two character operators",
			input: "a<>b<=c",
			expected: []Token{
				{Kind: Name, Text: "a", Pos: 0},
				{Kind: Operator, Text: "<>", Pos: 1},
				{Kind: Name, Text: "b", Pos: 3},
				{Kind: Operator, Text: "<=", Pos: 4},
				{Kind: Name, Text: "c", Pos: 6},
				{Kind: End, Text: "(end)", Pos: 7},
			},
		},
		{
			name:  "String literal keeps quotes",
			input: `"it's"`,
			expected: []Token{
				{Kind: Literal, Text: `"it's"`, Pos: 0},
				{Kind: End, Text: "(end)", Pos: 6},
			},
		},
		{
			name:  "Decimal",
			input: "1.5",
			expected: []Token{
				{Kind: Literal, Text: "1.5", Pos: 0},
				{Kind: End, Text: "(end)", Pos: 3},
			},
		},
		{name: "Unknown character", input: "a @ b", wantErr: true},
		{name: "Lone ampersand", input: "a & b", wantErr: true},
		{name: "Unterminated string", input: `"abc`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lex(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got tokens %v", got)
				}
				if _, ok := err.(*SyntaxError); !ok {
					t.Errorf("expected *SyntaxError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lex(%q) failed: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Lex(%q)\n got: %v\nwant: %v", tt.input, got, tt.expected)
			}
		})
	}
}
