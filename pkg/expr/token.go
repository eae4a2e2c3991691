package expr

import "fmt"

// Kind identifies the category of a lexed token.
type Kind int

const (
	End      Kind = iota // sentinel: end of input
	Literal              // number or quoted string
	Name                 // identifier or keyword (and, or, not, is, true, false)
	Operator             // punctuation operator
)

var kindNames = [...]string{
	End:      "end",
	Literal:  "literal",
	Name:     "name",
	Operator: "operator",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a single lexical unit of an expression.
type Token struct {
	Kind Kind
	Text string // the exact source text that was matched, quotes included
	Pos  int    // 0-based rune offset in the folded source
}

func (t Token) String() string {
	return fmt.Sprintf("%-8s %q  at %d", t.Kind, t.Text, t.Pos)
}

// ruleKey returns the key used to look the token up in the rule table.
// Keywords and operators are keyed by their own text, everything else by
// the generic "(literal)" or "(name)" entries.
func (t Token) ruleKey() string {
	switch t.Kind {
	case End:
		return "(end)"
	case Literal:
		return "(literal)"
	case Name:
		if _, ok := rules[t.Text]; ok {
			return t.Text
		}
		return "(name)"
	}
	return t.Text
}
