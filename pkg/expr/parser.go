package expr

import "fmt"

// SyntaxError reports an expression that could not be lexed or parsed.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string { return e.Msg }

func syntaxErrorf(pos int, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

type (
	prefixFn func(p *parser, tok Token) (Node, error)
	infixFn  func(p *parser, tok Token, left Node) (Node, error)
)

// rule is the parse behaviour attached to one token key.
type rule struct {
	lbp    int // left binding power
	prefix prefixFn
	infix  infixFn
}

// rules is filled once by init and only read afterwards.
var rules = map[string]*rule{}

func symbol(key string, bp int) *rule {
	r, ok := rules[key]
	if !ok {
		r = &rule{}
		rules[key] = r
	}
	r.lbp = max(r.lbp, bp)
	return r
}

func infix(key string, bp int) {
	symbol(key, bp).infix = func(p *parser, tok Token, left Node) (Node, error) {
		right, err := p.expression(bp)
		if err != nil {
			return nil, err
		}
		return &BinaryNode{Op: tok.Text, Left: left, Right: right}, nil
	}
}

func infixRight(key string, bp int) {
	symbol(key, bp).infix = func(p *parser, tok Token, left Node) (Node, error) {
		right, err := p.expression(bp - 1)
		if err != nil {
			return nil, err
		}
		return &BinaryNode{Op: tok.Text, Left: left, Right: right}, nil
	}
}

func prefix(key string, bp int) {
	symbol(key, 0).prefix = func(p *parser, tok Token) (Node, error) {
		operand, err := p.expression(bp)
		if err != nil {
			return nil, err
		}
		return &UnaryNode{Op: tok.Text, Operand: operand}, nil
	}
}

func constant(key string) {
	symbol(key, 0).prefix = func(p *parser, tok Token) (Node, error) {
		return &LiteralNode{Value: key}, nil
	}
}

func init() {
	infixRight("or", 30)
	infixRight("and", 40)
	prefix("not", 50)

	for _, op := range []string{"is", "<", "<=", ">", ">=", "<>", "!=", "=="} {
		infix(op, 60)
	}
	infix("+", 110)
	infix("-", 110)
	infix("*", 120)
	infix("/", 120)
	infix("%", 120)
	prefix("-", 130)
	prefix("+", 130)

	symbol("(literal)", 0).prefix = func(p *parser, tok Token) (Node, error) {
		return &LiteralNode{Value: tok.Text}, nil
	}
	symbol("(name)", 0).prefix = func(p *parser, tok Token) (Node, error) {
		return &NameNode{ID: tok.Text}, nil
	}
	constant("true")
	constant("false")

	symbol("(end)", 0)
	symbol(")", 0)
	symbol(",", 0)
	symbol(":", 0)
	symbol("=", 0)

	paren := symbol("(", 150)
	paren.prefix = parseGroup
	paren.infix = parseCall
}

// parseGroup handles a parenthesized sub-expression.
func parseGroup(p *parser, tok Token) (Node, error) {
	e, err := p.expression(0)
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return e, nil
}

// parseCall handles name(arg, ...).
func parseCall(p *parser, tok Token, left Node) (Node, error) {
	callee, ok := left.(*NameNode)
	if !ok {
		return nil, syntaxErrorf(tok.Pos, "invalid call target (%s)", left)
	}
	call := &CallNode{Name: callee.ID}
	if p.tok.Text != ")" || p.tok.Kind != Operator {
		for {
			arg, err := p.expression(0)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if p.tok.Kind != Operator || p.tok.Text != "," {
				break
			}
			p.advance()
		}
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return call, nil
}

// parser is the per-call parse context; it owns the token cursor.
type parser struct {
	tokens []Token
	pos    int
	tok    Token // current lookahead
}

func (p *parser) advance() {
	if p.pos < len(p.tokens) {
		p.tok = p.tokens[p.pos]
		p.pos++
		return
	}
	p.tok = Token{Kind: End, Text: "(end)"}
}

// expect consumes the current token if it is the operator op.
func (p *parser) expect(op string) error {
	if p.tok.Kind != Operator || p.tok.Text != op {
		return syntaxErrorf(p.tok.Pos, "expected %q", op)
	}
	p.advance()
	return nil
}

func lbp(tok Token) int {
	if r, ok := rules[tok.ruleKey()]; ok {
		return r.lbp
	}
	return 0
}

// expression parses with minimum binding power rbp.
func (p *parser) expression(rbp int) (Node, error) {
	t := p.tok
	p.advance()
	r := rules[t.ruleKey()]
	if r == nil || r.prefix == nil {
		return nil, syntaxErrorf(t.Pos, "syntax error (%q)", t.Text)
	}
	left, err := r.prefix(p, t)
	if err != nil {
		return nil, err
	}
	for rbp < lbp(p.tok) {
		t = p.tok
		p.advance()
		r = rules[t.ruleKey()]
		if r.infix == nil {
			return nil, syntaxErrorf(t.Pos, "unknown operator (%q)", t.Text)
		}
		if left, err = r.infix(p, t, left); err != nil {
			return nil, err
		}
	}
	return left, nil
}

// Parse lexes and parses one complete expression.
func Parse(src string) (Node, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	p.advance()
	node, err := p.expression(0)
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != End {
		return nil, syntaxErrorf(p.tok.Pos, "unexpected %q", p.tok.Text)
	}
	return node, nil
}
