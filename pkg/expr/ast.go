package expr

import (
	"fmt"
	"strings"
)

// Node is implemented by every expression tree node.
// Nodes are built once by Parse and never mutated afterwards.
type Node interface {
	exprNode()
	String() string
}

// LiteralNode is a constant. Value keeps the source spelling, so the
// keywords true and false stay as "true" and "false".
//
//	$x + 10
//	     ^^  LiteralNode{Value: "10"}
type LiteralNode struct {
	Value string
}

func (*LiteralNode) exprNode()        {}
func (l *LiteralNode) String() string { return l.Value }

// NameNode is a read of a variable, sigil already stripped.
//
//	$gold > 5
//	 ^^^^  NameNode{ID: "gold"}
type NameNode struct {
	ID string
}

func (*NameNode) exprNode()        {}
func (n *NameNode) String() string { return n.ID }

// UnaryNode is a prefix operator: not, unary minus or unary plus.
type UnaryNode struct {
	Op      string
	Operand Node
}

func (*UnaryNode) exprNode()        {}
func (u *UnaryNode) String() string { return fmt.Sprintf("(%s %s)", u.Op, u.Operand) }

// BinaryNode represents Left Op Right.
//
//	$a - $b
//	 ^ ^  ^
//	 | |  Right
//	 | Op
//	 Left
type BinaryNode struct {
	Op    string
	Left  Node
	Right Node
}

func (*BinaryNode) exprNode() {}
func (b *BinaryNode) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Op, b.Left, b.Right)
}

// CallNode represents name(args).
type CallNode struct {
	Name string
	Args []Node
}

func (*CallNode) exprNode() {}
func (c *CallNode) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(args, ", "))
}
