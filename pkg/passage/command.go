package passage

import (
	"fmt"
	"strings"

	"github.com/haroldo-ok/twee2sam/pkg/expr"
)

// Command is implemented by every node of a parsed passage.
type Command interface {
	commandNode()
	String() string
}

// Text is literal story text.
type Text struct {
	Text string
}

func (*Text) commandNode()     {}
func (t *Text) String() string { return fmt.Sprintf("Text(%q)", t.Text) }

// Image shows a picture: [img[path]]
type Image struct {
	Path string
}

func (*Image) commandNode()     {}
func (i *Image) String() string { return fmt.Sprintf("Image(%s)", i.Path) }

// Link is a menu option.
//
//	[[Go north|North Room][$steps = $steps + 1]]
//	  ^^^^^^^^ ^^^^^^^^^^  ^^^^^^^^^^^^^^^^^^^^
//	  Label    Target      OnClick
type Link struct {
	Target  string
	Label   string // empty when the link text is the target itself
	OnClick *Set   // nil when the link has no action
}

func (*Link) commandNode() {}
func (l *Link) String() string {
	s := fmt.Sprintf("Link(%s, label=%q", l.Target, l.Label)
	if l.OnClick != nil {
		s += ", on_click=" + l.OnClick.String()
	}
	return s + ")"
}

// ActualLabel is the text shown in the menu for this link.
func (l *Link) ActualLabel() string {
	if l.Label != "" {
		return l.Label
	}
	return l.Target
}

// List is a run of "#" or "*" items. Only its links take part in
// emission, as menu options.
type List struct {
	Ordered bool
	Items   []Command
}

func (*List) commandNode()     {}
func (l *List) String() string { return fmt.Sprintf("List(ordered=%t)", l.Ordered) }

// Set assigns an expression to a variable: <<set $x = expr>>
type Set struct {
	Target string // variable name without sigil
	Expr   expr.Node
}

func (*Set) commandNode()     {}
func (s *Set) String() string { return fmt.Sprintf("Set(%s = %s)", s.Target, s.Expr) }

// Print shows the value of an expression: <<print expr>>
type Print struct {
	Expr expr.Node
}

func (*Print) commandNode()     {}
func (p *Print) String() string { return fmt.Sprintf("Print(%s)", p.Expr) }

// Pause flushes the text shown so far: <<pause>>
type Pause struct{}

func (*Pause) commandNode()   {}
func (*Pause) String() string { return "Pause" }

// If is a conditional block. Children is flat: an *Else among them marks
// where the true branch ends and the false branch begins, exactly like the
// VM's own [true|false] form.
type If struct {
	Cond     expr.Node
	Children []Command
}

func (*If) commandNode()     {}
func (i *If) String() string { return fmt.Sprintf("If(%s)", i.Cond) }

// Else separates the branches of the enclosing If.
type Else struct{}

func (*Else) commandNode()   {}
func (*Else) String() string { return "Else" }

// End closes a block. The parser consumes it; it never appears in a tree.
type End struct{}

func (*End) commandNode()   {}
func (*End) String() string { return "End" }

// Call runs another passage as a subroutine: <<call Target>>
type Call struct {
	Target string
}

func (*Call) commandNode()     {}
func (c *Call) String() string { return fmt.Sprintf("Call(%s)", c.Target) }

// Return leaves a passage entered through Call.
type Return struct{}

func (*Return) commandNode()   {}
func (*Return) String() string { return "Return" }

// Music starts a tune: <<music "path">>
type Music struct {
	Path string
}

func (*Music) commandNode()     {}
func (m *Music) String() string { return fmt.Sprintf("Music(%s)", m.Path) }

// Display includes another passage's commands in place: <<display Target>>
type Display struct {
	Target string
}

func (*Display) commandNode()     {}
func (d *Display) String() string { return fmt.Sprintf("Display(%s)", d.Target) }

// Invalid stands in for a macro that could not be parsed.
type Invalid struct {
	Macro   string
	Message string
}

func (*Invalid) commandNode()     {}
func (i *Invalid) String() string { return fmt.Sprintf("Invalid(%s: %s)", i.Macro, i.Message) }

// Format renders a command tree, one command per line, children indented
// with a tab per level.
func Format(cmds []Command) string {
	var sb strings.Builder
	writeTree(&sb, cmds, 0)
	return sb.String()
}

func writeTree(sb *strings.Builder, cmds []Command, depth int) {
	for _, c := range cmds {
		sb.WriteString(strings.Repeat("\t", depth))
		sb.WriteString(c.String())
		sb.WriteByte('\n')
		switch c := c.(type) {
		case *If:
			writeTree(sb, c.Children, depth+1)
		case *List:
			writeTree(sb, c.Items, depth+1)
		}
	}
}
