package sam

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// The VM string literal has no escapes: double quotes and brackets would end
// the literal or open a block, so they are swapped for lookalikes.
var literalEscaper = strings.NewReplacer(`"`, "'", "[", "{", "]", "}")

// asciiOnly replaces whatever survives accent stripping and is still outside
// ASCII.
var asciiOnly = runes.Map(func(r rune) rune {
	if r > unicode.MaxASCII {
		return '?'
	}
	return r
})

// foldASCII drops diacritics ("café" becomes "cafe") and replaces other
// non-ASCII runes with '?'. The VM font is ASCII only.
func foldASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC, asciiOnly)
	out, _, err := transform.String(t, s)
	if err != nil {
		out, _, _ = transform.String(asciiOnly, s)
	}
	return out
}

// escapeText turns story text into the body of a VM string literal.
func escapeText(s string) string {
	return literalEscaper.Replace(foldASCII(s))
}

// quote wraps already escaped text as a string push.
func quote(s string) string {
	return `"` + s + `"`
}
