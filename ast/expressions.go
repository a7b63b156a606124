package ast

import "github.com/deepnoodle-ai/plpc/internal/token"

// IntLit is an integer literal.
type IntLit struct {
	typed
	Token token.Token
	Value int32
}

func (x *IntLit) exprNode()               {}
func (x *IntLit) FirstToken() token.Token { return x.Token }
func (x *IntLit) Pos() token.Position     { return x.Token.Position() }
func (x *IntLit) String() string          { return x.Token.Text() }

// BoolLit is "true" or "false".
type BoolLit struct {
	typed
	Token token.Token
	Value bool
}

func (x *BoolLit) exprNode()               {}
func (x *BoolLit) FirstToken() token.Token { return x.Token }
func (x *BoolLit) Pos() token.Position     { return x.Token.Position() }
func (x *BoolLit) String() string          { return x.Token.Text() }

// ConstantExpr is a platform constant: screenwidth or screenheight.
type ConstantExpr struct {
	typed
	Token token.Token
}

func (x *ConstantExpr) exprNode()               {}
func (x *ConstantExpr) FirstToken() token.Token { return x.Token }
func (x *ConstantExpr) Pos() token.Position     { return x.Token.Position() }
func (x *ConstantExpr) String() string          { return x.Token.Text() }

// IdentExpr is a reference to a declared name.
type IdentExpr struct {
	typed
	Token token.Token
	// Decl is bound by the checker.
	Decl Declaration
}

func (x *IdentExpr) exprNode()               {}
func (x *IdentExpr) FirstToken() token.Token { return x.Token }
func (x *IdentExpr) Pos() token.Position     { return x.Token.Position() }
func (x *IdentExpr) String() string          { return x.Token.Text() }

// BinaryExpr is an infix operation. Left is always evaluated before Right.
type BinaryExpr struct {
	typed
	Left  Expression
	Op    token.Token
	Right Expression
}

func (x *BinaryExpr) exprNode()               {}
func (x *BinaryExpr) FirstToken() token.Token { return x.Left.FirstToken() }
func (x *BinaryExpr) Pos() token.Position     { return x.Left.Pos() }

func (x *BinaryExpr) String() string {
	return "(" + x.Left.String() + " " + x.Op.Text() + " " + x.Right.String() + ")"
}

// Tuple is the argument list of a pipeline stage. It may be empty.
type Tuple struct {
	// Open is the first token of the tuple: the opening parenthesis, or the
	// token following the stage name when the list is omitted.
	Open  token.Token
	Exprs []Expression
}

func (x *Tuple) FirstToken() token.Token { return x.Open }
func (x *Tuple) Pos() token.Position     { return x.Open.Position() }

// Len returns the number of arguments.
func (x *Tuple) Len() int {
	if x == nil {
		return 0
	}
	return len(x.Exprs)
}

func (x *Tuple) String() string {
	if x.Len() == 0 {
		return ""
	}
	s := "("
	for i, e := range x.Exprs {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + ")"
}
