package ast

import "iter"

// Children returns the direct children of node in source order.
func Children(node Node) []Node {
	var out []Node
	switch n := node.(type) {
	case *Program:
		for _, p := range n.Params {
			out = append(out, p)
		}
		if n.Block != nil {
			out = append(out, n.Block)
		}
	case *Block:
		for _, d := range n.Decs {
			out = append(out, d)
		}
		for _, s := range n.Statements {
			out = append(out, s)
		}
	case *AssignStatement:
		out = append(out, n.Target, n.Value)
	case *IfStatement:
		out = append(out, n.Condition, n.Block)
	case *WhileStatement:
		out = append(out, n.Condition, n.Block)
	case *SleepStatement:
		out = append(out, n.Duration)
	case *BinaryChain:
		out = append(out, n.Left, n.Right)
	case OpChain:
		if n.Arguments() != nil {
			out = append(out, n.Arguments())
		}
	case *Tuple:
		for _, e := range n.Exprs {
			out = append(out, e)
		}
	case *BinaryExpr:
		out = append(out, n.Left, n.Right)
	case *ParamDec, *Dec, *IdentLValue, *IdentChain,
		*IntLit, *BoolLit, *ConstantExpr, *IdentExpr:
		// leaves
	}
	return out
}

// Inspect traverses an AST in depth-first order. It calls f(node) for each
// node; if f returns true, Inspect invokes f recursively for each of the
// non-nil children of node.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	for _, child := range Children(node) {
		Inspect(child, f)
	}
}

// Preorder returns an iterator over all the nodes of the AST rooted at node
// in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var visit func(Node) bool
		visit = func(n Node) bool {
			if !yield(n) {
				return false
			}
			for _, child := range Children(n) {
				if !visit(child) {
					return false
				}
			}
			return true
		}
		visit(root)
	}
}
