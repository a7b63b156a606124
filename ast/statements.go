package ast

import "github.com/deepnoodle-ai/plpc/internal/token"

// IdentLValue is the target of an assignment.
type IdentLValue struct {
	Ident token.Token
	// Decl is bound by the checker.
	Decl Declaration
}

func (x *IdentLValue) FirstToken() token.Token { return x.Ident }
func (x *IdentLValue) Pos() token.Position     { return x.Ident.Position() }
func (x *IdentLValue) String() string          { return x.Ident.Text() }

// AssignStatement is "name <- expression;".
type AssignStatement struct {
	Target *IdentLValue
	Value  Expression
}

func (s *AssignStatement) stmtNode()               {}
func (s *AssignStatement) FirstToken() token.Token { return s.Target.Ident }
func (s *AssignStatement) Pos() token.Position     { return s.Target.Pos() }

func (s *AssignStatement) String() string {
	return s.Target.String() + " <- " + s.Value.String() + ";"
}

// IfStatement runs its block when the condition is true.
type IfStatement struct {
	If        token.Token
	Condition Expression
	Block     *Block
}

func (s *IfStatement) stmtNode()               {}
func (s *IfStatement) FirstToken() token.Token { return s.If }
func (s *IfStatement) Pos() token.Position     { return s.If.Position() }

func (s *IfStatement) String() string {
	return "if (" + s.Condition.String() + ") " + s.Block.String()
}

// WhileStatement runs its block while the condition is true.
type WhileStatement struct {
	While     token.Token
	Condition Expression
	Block     *Block
}

func (s *WhileStatement) stmtNode()               {}
func (s *WhileStatement) FirstToken() token.Token { return s.While }
func (s *WhileStatement) Pos() token.Position     { return s.While.Position() }

func (s *WhileStatement) String() string {
	return "while (" + s.Condition.String() + ") " + s.Block.String()
}

// SleepStatement pauses execution for a number of milliseconds.
type SleepStatement struct {
	Sleep    token.Token
	Duration Expression
}

func (s *SleepStatement) stmtNode()               {}
func (s *SleepStatement) FirstToken() token.Token { return s.Sleep }
func (s *SleepStatement) Pos() token.Position     { return s.Sleep.Position() }
func (s *SleepStatement) String() string          { return "sleep " + s.Duration.String() + ";" }
