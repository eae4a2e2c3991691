package passage

import (
	"fmt"
	"regexp"
	"strings"
)

// FragmentKind identifies the category of a tokenized passage fragment.
type FragmentKind int

const (
	TextFragment  FragmentKind = iota // plain text, the catch-all
	ListFragment                      // "# " or "* " prefixed line
	MacroFragment                     // <<name params>>
	ImageFragment                     // [img[path]]
	LinkFragment                      // [[...]]
)

var fragmentNames = [...]string{
	TextFragment:  "text",
	ListFragment:  "list",
	MacroFragment: "macro",
	ImageFragment: "image",
	LinkFragment:  "link",
}

func (k FragmentKind) String() string {
	if int(k) >= 0 && int(k) < len(fragmentNames) {
		return fragmentNames[k]
	}
	return fmt.Sprintf("FragmentKind(%d)", int(k))
}

// Fragment is one classified piece of passage text.
type Fragment struct {
	Kind FragmentKind
	Text string // text, image path or link body

	Macro  string // macro name
	Params string // raw macro parameters, leading blanks included

	Ordered bool       // list item was "#"-prefixed
	Items   []Fragment // list item contents, tokenized again
}

var (
	lineContinuation = regexp.MustCompile(`\\[ \t]*\n`)

	reListItem = regexp.MustCompile(`(?m)^([#\*])\s(.*)$`)
	reMacro    = regexp.MustCompile(`<<(\w+)(\s*.*?)>>`)
	reImage    = regexp.MustCompile(`\[img\[(.*?)\]\]`)
	reLink     = regexp.MustCompile(`\[\[(.*?)\]\]`)
)

// tier is one level of the tokenizer. Text between matches of a tier is
// handed down to the tiers below it.
type tier struct {
	kind FragmentKind
	re   *regexp.Regexp
	skip int // characters dropped after each match
}

// tiers lists the patterns from highest to lowest priority. Plain text is
// implicit: whatever no tier claims.
var tiers = []tier{
	{kind: ListFragment, re: reListItem, skip: 1},
	{kind: MacroFragment, re: reMacro},
	{kind: ImageFragment, re: reImage},
	{kind: LinkFragment, re: reLink},
}

// Tokenize splits passage text into fragments. Line continuations are
// removed before anything else.
func Tokenize(text string) []Fragment {
	return tokenizeString(lineContinuation.ReplaceAllString(text, ""))
}

func tokenizeString(s string) []Fragment {
	return classify(s, tiers)
}

func classify(s string, remaining []tier) []Fragment {
	if s == "" {
		return nil
	}
	if len(remaining) == 0 {
		return []Fragment{{Kind: TextFragment, Text: s}}
	}

	t, lower := remaining[0], remaining[1:]
	var frags []Fragment
	pos := 0
	for _, loc := range t.re.FindAllStringSubmatchIndex(s, -1) {
		start, end := loc[0], loc[1]
		if pos < start && pos < len(s) {
			frags = append(frags, classify(s[pos:start], lower)...)
		}
		pos = end + t.skip
		frags = append(frags, t.fragment(s, loc))
	}
	if pos < len(s) {
		frags = append(frags, classify(s[pos:], lower)...)
	}
	return frags
}

// fragment builds the fragment for one match; loc holds submatch indexes.
func (t tier) fragment(s string, loc []int) Fragment {
	group := func(n int) string {
		if loc[2*n] < 0 {
			return ""
		}
		return s[loc[2*n]:loc[2*n+1]]
	}
	switch t.kind {
	case ListFragment:
		return Fragment{
			Kind:    ListFragment,
			Ordered: group(1) == "#",
			Items:   tokenizeString(strings.TrimSpace(group(2))),
		}
	case MacroFragment:
		return Fragment{Kind: MacroFragment, Macro: group(1), Params: group(2)}
	default:
		return Fragment{Kind: t.kind, Text: group(1)}
	}
}
