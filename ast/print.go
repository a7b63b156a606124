package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented dump of the tree rooted at node, one node per
// line with its position and, when set, its type.
func Fprint(w io.Writer, node Node) error {
	return fprint(w, node, 0)
}

func fprint(w io.Writer, node Node, depth int) error {
	line := strings.Repeat("  ", depth) + describe(node)
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for _, child := range Children(node) {
		if err := fprint(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func describe(node Node) string {
	name := strings.TrimPrefix(fmt.Sprintf("%T", node), "*ast.")
	var detail string
	switch n := node.(type) {
	case *Program:
		detail = n.Name.Text()
	case *ParamDec:
		detail = n.String()
	case *Dec:
		detail = n.String()
		if n.Slot != NoSlot {
			detail += fmt.Sprintf(" slot=%d", n.Slot)
		}
	case *IdentLValue:
		detail = n.Ident.Text()
	case *BinaryExpr:
		detail = n.Op.Text()
	case *BinaryChain:
		detail = n.Arrow.Text()
	case OpChain:
		detail = n.Op().Text()
	case *IdentChain:
		detail = n.Ident.Text()
	case *IntLit, *BoolLit, *ConstantExpr, *IdentExpr:
		detail = n.String()
	}
	s := name
	if detail != "" {
		s += " " + detail
	}
	s += " @" + node.Pos().String()
	if t, ok := node.(Typed); ok && t.Type() != NONE {
		s += " : " + t.Type().String()
	}
	return s
}
