package expr

import (
	"fmt"
	"strings"
)

// Translator maps a variable name to the id of the register holding it.
type Translator func(name string) string

// constTable maps literal keywords to the numbers the VM understands.
var constTable = map[string]string{
	"true":  "1",
	"false": "0",
}

// operatorTable maps source operators to VM postfix sequences. Operators
// missing from the table are emitted verbatim.
var operatorTable = map[string]string{
	"or":  "+0>",
	"and": "*0>",
	"not": "0=",
	"is":  "=",
	"==":  "=",
	"<>":  "=0=",
	"!=":  "=0=",
	"<=":  ">0=",
	">=":  "<0=",
	"%":   `\`,
}

// UnknownFunctionError is returned when a call names a function the VM
// cannot express.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function (%q)", e.Name)
}

// isNumeric reports whether a register id is made of digits only. Numeric
// ids need a separator before the read/write marker.
func isNumeric(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ReadMarker returns the instruction suffix that reads register id.
func ReadMarker(id string) string {
	if isNumeric(id) {
		return " :"
	}
	return ":"
}

// WriteMarker returns the instruction suffix that writes register id.
func WriteMarker(id string) string {
	if isNumeric(id) {
		return " ."
	}
	return "."
}

// Compile translates a parsed expression into VM postfix code. The result
// leaves exactly one value on the VM stack.
func Compile(n Node, regs Translator) (string, error) {
	var sb strings.Builder
	if err := gen(&sb, n, regs); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func gen(sb *strings.Builder, n Node, regs Translator) error {
	switch n := n.(type) {
	case *LiteralNode:
		if c, ok := constTable[n.Value]; ok {
			sb.WriteString(c)
		} else {
			sb.WriteString(n.Value)
		}
		sb.WriteByte(' ')

	case *NameNode:
		id := regs(n.ID)
		sb.WriteString(id)
		sb.WriteString(ReadMarker(id))

	case *UnaryNode:
		switch n.Op {
		case "+":
			return gen(sb, n.Operand, regs)
		case "-":
			// negation as 0 - x
			sb.WriteString("0 ")
			if err := gen(sb, n.Operand, regs); err != nil {
				return err
			}
			sb.WriteByte('-')
		default:
			if err := gen(sb, n.Operand, regs); err != nil {
				return err
			}
			sb.WriteString(mapOperator(n.Op))
		}

	case *BinaryNode:
		if err := gen(sb, n.Left, regs); err != nil {
			return err
		}
		if err := gen(sb, n.Right, regs); err != nil {
			return err
		}
		if n.Op == "+" || n.Op == "-" {
			sb.WriteString(n.Op)
		} else {
			sb.WriteString(mapOperator(n.Op))
		}

	case *CallNode:
		return genCall(sb, n, regs)

	default:
		return fmt.Errorf("unsupported expression node %T", n)
	}
	return nil
}

func mapOperator(op string) string {
	if code, ok := operatorTable[op]; ok {
		return code
	}
	return op
}

// genCall emits the built-in functions. random(n) yields [0, n);
// random(lo, hi) yields [lo, hi] as lo + random(hi - lo + 1).
func genCall(sb *strings.Builder, c *CallNode, regs Translator) error {
	if c.Name != "random" {
		return &UnknownFunctionError{Name: c.Name}
	}
	switch len(c.Args) {
	case 1:
		sb.WriteByte('r')
		if err := gen(sb, c.Args[0], regs); err != nil {
			return err
		}
		sb.WriteByte('\\')
	case 2:
		lo, hi := c.Args[0], c.Args[1]
		sb.WriteByte('r')
		if err := gen(sb, hi, regs); err != nil {
			return err
		}
		if err := gen(sb, lo, regs); err != nil {
			return err
		}
		sb.WriteString(`-1+\`)
		if err := gen(sb, lo, regs); err != nil {
			return err
		}
		sb.WriteByte('+')
	default:
		return fmt.Errorf("random expects 1 or 2 arguments, got %d", len(c.Args))
	}
	return nil
}
