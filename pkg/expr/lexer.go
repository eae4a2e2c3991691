package expr

import (
	"strings"
	"unicode"
)

// multiCharOps lists the two-character operators, matched before single ones.
var multiCharOps = []string{"<>", "<=", ">=", "==", "!="}

// singleCharOps lists every single-character operator the lexer accepts.
// Some of them ("=", ":") have no parse rule and fail later, in the parser.
const singleCharOps = "(),+-*/%<>=:"

// fold rewrites JavaScript-style boolean operators to their keyword form and
// strips variable sigils. A '!' that starts "!=" is left alone.
func fold(src string) string {
	var sb strings.Builder
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '$':
			// sigil
		case c == '&' && i+1 < len(src) && src[i+1] == '&':
			sb.WriteString(" and ")
			i++
		case c == '|' && i+1 < len(src) && src[i+1] == '|':
			sb.WriteString(" or ")
			i++
		case c == '!' && (i+1 >= len(src) || src[i+1] != '='):
			sb.WriteString(" not ")
		default:
			sb.WriteByte(c)
		}
	}
	return strings.TrimSpace(sb.String())
}

// lexer holds the mutable state of a single scanning pass.
type lexer struct {
	src []rune
	pos int
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.pos++
	}
}

// scanName collects an identifier or keyword.
func (l *lexer) scanName() Token {
	start := l.pos
	for l.pos < len(l.src) {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.pos++
	}
	return Token{Kind: Name, Text: string(l.src[start:l.pos]), Pos: start}
}

// scanNumber collects an integer or decimal literal.
func (l *lexer) scanNumber() Token {
	start := l.pos
	seenDot := false
	for l.pos < len(l.src) {
		r := l.peek()
		if r == '.' && !seenDot {
			seenDot = true
			l.pos++
			continue
		}
		if !unicode.IsDigit(r) {
			break
		}
		l.pos++
	}
	return Token{Kind: Literal, Text: string(l.src[start:l.pos]), Pos: start}
}

// scanString collects a quoted literal, keeping the quotes in the token text.
func (l *lexer) scanString() (Token, error) {
	start := l.pos
	quote := l.peek()
	l.pos++
	for l.pos < len(l.src) {
		r := l.peek()
		if r == '\\' {
			l.pos += 2
			continue
		}
		l.pos++
		if r == quote {
			return Token{Kind: Literal, Text: string(l.src[start:l.pos]), Pos: start}, nil
		}
	}
	return Token{}, syntaxErrorf(start, "unterminated string literal")
}

func (l *lexer) nextToken() (Token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.src) {
		return Token{Kind: End, Text: "(end)", Pos: l.pos}, nil
	}

	ch := l.peek()
	switch {
	case unicode.IsLetter(ch) || ch == '_':
		return l.scanName(), nil
	case unicode.IsDigit(ch):
		return l.scanNumber(), nil
	case ch == '"' || ch == '\'':
		return l.scanString()
	}

	start := l.pos
	if l.pos+1 < len(l.src) {
		pair := string(l.src[l.pos : l.pos+2])
		for _, op := range multiCharOps {
			if pair == op {
				l.pos += 2
				return Token{Kind: Operator, Text: op, Pos: start}, nil
			}
		}
	}
	if strings.ContainsRune(singleCharOps, ch) {
		l.pos++
		return Token{Kind: Operator, Text: string(ch), Pos: start}, nil
	}
	return Token{}, syntaxErrorf(start, "unknown operator (%q)", string(ch))
}

// Lex folds src and splits it into tokens, including the final End token.
func Lex(src string) ([]Token, error) {
	l := &lexer{src: []rune(fold(src))}
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == End {
			return tokens, nil
		}
	}
}
