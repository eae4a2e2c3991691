package passage

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/haroldo-ok/twee2sam/pkg/expr"
)

var (
	reAttribution = regexp.MustCompile(`^\s*([\w\$]+)\s*(?:=|\sto\s)\s*(.*)`)
	reCallTarget  = regexp.MustCompile(`^\s*([A-Za-z0-9_]+)\s*$`)
)

// Passage is one parsed unit of story text.
type Passage struct {
	Title    string
	Tags     []string
	Commands []Command
}

func (p *Passage) String() string {
	return fmt.Sprintf("Passage %s\n%s", p.Title, Format(p.Commands))
}

// stream is a fragment sequence consumed front to back.
type stream struct {
	frags []Fragment
	pos   int
}

func (s *stream) more() bool { return s.pos < len(s.frags) }

func (s *stream) next() Fragment {
	f := s.frags[s.pos]
	s.pos++
	return f
}

// Parser turns the fragments of one passage into commands. It keeps a
// stack of open if/else macros, used only for diagnostics.
type Parser struct {
	title  string
	log    *slog.Logger
	blocks []string
}

// NewParser returns a parser for the passage called title. Diagnostics go
// to log, or to slog.Default when log is nil.
func NewParser(title string, log *slog.Logger) *Parser {
	if log == nil {
		log = slog.Default()
	}
	return &Parser{title: title, log: log}
}

// Parse tokenizes and parses the passage text.
func (p *Parser) Parse(text string) []Command {
	p.blocks = nil
	cmds := p.parseCommands(&stream{frags: Tokenize(text)})
	for range p.blocks {
		p.warning("<<if>> without <<endif>>")
	}
	return cmds
}

// ParsePassage is shorthand for NewParser(title, log).Parse(text).
func ParsePassage(title, text string, tags []string, log *slog.Logger) *Passage {
	return &Passage{
		Title:    title,
		Tags:     tags,
		Commands: NewParser(title, log).Parse(text),
	}
}

func (p *Parser) warning(msg string) {
	p.log.Warn(msg, "passage", p.title)
}

// parseCommands consumes fragments until the stream ends or an <<endif>>
// closes the current block.
func (p *Parser) parseCommands(s *stream) []Command {
	var cmds []Command
	for s.more() {
		f := s.next()
		switch f.Kind {
		case TextFragment:
			cmds = append(cmds, &Text{Text: strings.ReplaceAll(f.Text, "&nbsp;", "\x16")})
		case MacroFragment:
			cmd := p.parseMacro(f, s)
			if _, ok := cmd.(*End); ok {
				return cmds
			}
			cmds = append(cmds, cmd)
		case ImageFragment:
			cmds = append(cmds, &Image{Path: f.Text})
		case LinkFragment:
			cmds = append(cmds, p.parseLink(f.Text))
		case ListFragment:
			items := p.parseCommands(&stream{frags: f.Items})
			cmds = append(cmds, &List{Ordered: f.Ordered, Items: items})
		}
	}
	return cmds
}

func (p *Parser) top() string {
	if len(p.blocks) == 0 {
		return ""
	}
	return p.blocks[len(p.blocks)-1]
}

// parseMacro dispatches on the macro name. A macro whose parameters do not
// parse becomes *Invalid and is reported; parsing always goes on.
func (p *Parser) parseMacro(f Fragment, s *stream) Command {
	var (
		cmd Command
		err error
	)
	switch f.Macro {
	case "set":
		cmd, err = parseSet(f.Params)
	case "print":
		var e expr.Node
		if e, err = parseExpression(strings.TrimLeft(f.Params, " \t\r\n")); err == nil {
			cmd = &Print{Expr: e}
		}
	case "pause":
		cmd = &Pause{}
	case "if":
		cmd, err = p.parseIf(f, s)
	case "call":
		target := unquote(f.Params)
		if m := reCallTarget.FindStringSubmatch(target); m != nil {
			cmd = &Call{Target: m[1]}
		} else {
			err = fmt.Errorf("invalid \"call\" target: %s", strings.TrimSpace(f.Params))
		}
	case "return":
		cmd = &Return{}
	case "else":
		if top := p.top(); top == "if" || top == "else" {
			p.blocks[len(p.blocks)-1] = "else"
		} else {
			p.warning("<<else>> without <<if>>")
		}
		cmd = &Else{}
	case "endif":
		if top := p.top(); top == "if" || top == "else" {
			p.blocks = p.blocks[:len(p.blocks)-1]
		} else {
			p.warning("<<endif>> without <<if>>")
		}
		cmd = &End{}
	case "music":
		if path := unquote(f.Params); path != "" {
			cmd = &Music{Path: path}
		} else {
			err = fmt.Errorf("missing \"music\" path")
		}
	case "display":
		if target := unquote(f.Params); target != "" {
			cmd = &Display{Target: target}
		} else {
			err = fmt.Errorf("missing \"display\" target")
		}
	default:
		err = fmt.Errorf("unknown macro: %s", f.Macro)
	}

	if err != nil {
		p.warning(err.Error())
		return &Invalid{Macro: f.Macro, Message: err.Error()}
	}
	return cmd
}

// parseIf opens a block and parses everything up to the matching <<endif>>
// as its children. With a bad condition the children are still consumed,
// so the block structure of the rest of the passage is kept.
func (p *Parser) parseIf(f Fragment, s *stream) (Command, error) {
	cond, err := parseExpression(f.Params)
	p.blocks = append(p.blocks, "if")
	children := p.parseCommands(s)
	if err != nil {
		return nil, err
	}
	return &If{Cond: cond, Children: children}, nil
}

// parseLink splits "label|target][action" into its parts.
func (p *Parser) parseLink(text string) Command {
	link := &Link{}
	parts := strings.Split(text, "][")
	if len(parts) > 1 {
		set, err := parseSet(parts[1])
		if err != nil {
			msg := fmt.Sprintf("invalid link action: %v", err)
			p.warning(msg)
			return &Invalid{Macro: "link", Message: msg}
		}
		link.OnClick = set
	}

	labelTarget := strings.Split(parts[0], "|")
	if len(labelTarget) > 1 {
		link.Target = labelTarget[len(labelTarget)-1]
		link.Label = strings.Join(labelTarget[:len(labelTarget)-1], "|")
	} else {
		link.Target = parts[0]
	}
	return link
}

func parseSet(params string) (*Set, error) {
	m := reAttribution.FindStringSubmatch(params)
	if m == nil {
		return nil, fmt.Errorf("invalid \"set\" expression: %s", params)
	}
	e, err := parseExpression(m[2])
	if err != nil {
		return nil, err
	}
	return &Set{Target: NormalizeName(m[1]), Expr: e}, nil
}

func parseExpression(src string) (expr.Node, error) {
	e, err := expr.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("invalid expression: %v: %s", err, src)
	}
	return e, nil
}

// NormalizeName strips the variable sigil, so $gold and gold name the same
// variable.
func NormalizeName(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(name, "$", ""))
}

// unquote drops double quotes and surrounding blanks from a macro parameter.
func unquote(params string) string {
	return strings.TrimSpace(strings.ReplaceAll(params, `"`, ""))
}
