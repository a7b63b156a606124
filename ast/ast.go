// Package ast defines the abstract syntax tree of the image pipeline
// language.
//
// The node set is closed: every node is one of the concrete types in this
// package. Passes traverse the tree through the Visitor interface, where
// each node type dispatches to exactly one method, or through Inspect and
// Preorder for generic walks.
package ast

import "github.com/deepnoodle-ai/plpc/internal/token"

// Node represents a portion of the syntax tree. All nodes keep the token
// they start with for diagnostics.
type Node interface {
	// FirstToken returns the token the node starts with.
	FirstToken() token.Token

	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string

	// Accept calls the Visitor method for this node type.
	Accept(v Visitor, arg any) (any, error)
}

// Typed is implemented by nodes that receive a type during checking.
type Typed interface {
	Type() Type
	SetType(t Type)
}

// Statement represents a statement node.
type Statement interface {
	Node
	stmtNode()
}

// Expression represents an expression node. Expressions evaluate to a
// single value whose type is set by the checker.
type Expression interface {
	Node
	Typed
	exprNode()
}

// Declaration is a named, typed binding: a program parameter or a block
// local. Identifier nodes point at their Declaration once checked.
type Declaration interface {
	Node
	Name() string
	DeclType() Type
	declNode()
}

// typed is embedded by nodes that carry a resolved type.
type typed struct {
	typ Type
}

func (t *typed) Type() Type { return t.typ }

func (t *typed) SetType(typ Type) { t.typ = typ }

// Program is the root node: a name, the externally supplied parameters
// and the body.
type Program struct {
	// Name is the leading identifier of the program.
	Name   token.Token
	Params []*ParamDec
	Block  *Block
}

func (p *Program) FirstToken() token.Token { return p.Name }
func (p *Program) Pos() token.Position     { return p.Name.Position() }

func (p *Program) String() string {
	s := p.Name.Text()
	for i, param := range p.Params {
		if i == 0 {
			s += " "
		} else {
			s += ", "
		}
		s += param.String()
	}
	return s + " " + p.Block.String()
}

// ParamDec declares a program parameter. Parameters become fields of the
// generated unit, initialized from the program arguments.
type ParamDec struct {
	TypeToken token.Token
	Ident     token.Token
	// Index is the position of the parameter in the program's parameter
	// list, which is also the field index in the generated unit.
	Index int
}

func (d *ParamDec) declNode()               {}
func (d *ParamDec) FirstToken() token.Token { return d.TypeToken }
func (d *ParamDec) Pos() token.Position     { return d.TypeToken.Position() }
func (d *ParamDec) Name() string            { return d.Ident.Text() }
func (d *ParamDec) DeclType() Type          { return TypeOf(d.TypeToken.Type) }
func (d *ParamDec) String() string          { return d.TypeToken.Text() + " " + d.Ident.Text() }

// NoSlot marks a Dec whose local slot has not been assigned.
const NoSlot = -1

// Dec declares a block local variable.
type Dec struct {
	TypeToken token.Token
	Ident     token.Token
	// Slot is the local variable slot; assigned only by code generation.
	Slot int
}

func (d *Dec) declNode()               {}
func (d *Dec) FirstToken() token.Token { return d.TypeToken }
func (d *Dec) Pos() token.Position     { return d.TypeToken.Position() }
func (d *Dec) Name() string            { return d.Ident.Text() }
func (d *Dec) DeclType() Type          { return TypeOf(d.TypeToken.Type) }
func (d *Dec) String() string          { return d.TypeToken.Text() + " " + d.Ident.Text() }

// Block is a brace delimited scope. Declarations are visible to every
// statement of the block regardless of where they appear in it.
type Block struct {
	LBrace     token.Token
	Decs       []*Dec
	Statements []Statement
}

func (b *Block) FirstToken() token.Token { return b.LBrace }
func (b *Block) Pos() token.Position     { return b.LBrace.Position() }

func (b *Block) String() string {
	s := "{"
	for _, d := range b.Decs {
		s += " " + d.String()
	}
	for _, stmt := range b.Statements {
		s += " " + stmt.String()
		if _, ok := stmt.(Chain); ok {
			s += ";"
		}
	}
	return s + " }"
}
