// Package checker resolves every identifier of a parsed program to its
// declaration and assigns a type to every expression and pipeline.
//
// Checking stops at the first violated rule. A program that passes has all
// of its IdentExpr, IdentChain and IdentLValue nodes bound and all of its
// Typed nodes annotated, which is what the compiler relies on.
package checker

import (
	"context"
	"fmt"

	"github.com/deepnoodle-ai/plpc/ast"
	"github.com/deepnoodle-ai/plpc/errors"
	"github.com/deepnoodle-ai/plpc/internal/token"
)

// Option is a configuration function for a Checker.
type Option func(*Checker)

// WithSuggestions controls whether errors about undeclared names carry
// "did you mean" hints. Enabled by default.
func WithSuggestions(enabled bool) Option {
	return func(c *Checker) {
		c.suggest = enabled
	}
}

// Checker is a single-use type checking pass. It implements ast.Visitor.
type Checker struct {
	ctx     context.Context
	symbols *SymbolTable
	suggest bool
}

var _ ast.Visitor = (*Checker)(nil)

// New returns a Checker with an empty symbol table.
func New(options ...Option) *Checker {
	c := &Checker{symbols: NewSymbolTable(), suggest: true}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Check annotates the program in place. It is shorthand for New followed
// by Checker.Check.
func Check(ctx context.Context, program *ast.Program, options ...Option) error {
	return New(options...).Check(ctx, program)
}

// Check annotates the program in place and returns the first TypeError.
func (c *Checker) Check(ctx context.Context, program *ast.Program) error {
	c.ctx = ctx
	_, err := program.Accept(c, nil)
	return err
}

// Symbols returns the symbol table. After a successful check it holds the
// full scope tree of the program.
func (c *Checker) Symbols() *SymbolTable {
	return c.symbols
}

func location(tok token.Token) errors.Location {
	pos := tok.Position()
	loc := errors.Location{
		Filename: pos.File,
		Line:     pos.LineNumber(),
		Column:   pos.ColumnNumber(),
	}
	if tok.File != nil {
		loc.SourceLine = tok.File.Line(pos.Line)
	}
	return loc
}

func typeError(node ast.Node, code errors.ErrorCode, format string, args ...any) *errors.TypeError {
	return errors.TypeErrorf(code, location(node.FirstToken()), format, args...)
}

func (c *Checker) declare(decl ast.Declaration) error {
	if !c.symbols.Insert(decl.Name(), decl) {
		return typeError(decl, errors.E3001, "%s is already declared in this scope", decl.Name())
	}
	return nil
}

func (c *Checker) resolve(tok token.Token) (ast.Declaration, error) {
	name := tok.Text()
	if decl := c.symbols.Lookup(name); decl != nil {
		return decl, nil
	}
	err := errors.TypeErrorf(errors.E3002, location(tok), "%s is not declared", name)
	if c.suggest {
		err.Suggestions = errors.SuggestSimilar(name, c.symbols.Visible())
	}
	return nil, err
}

// expr checks an expression and returns its type.
func (c *Checker) expr(e ast.Expression) (ast.Type, error) {
	if _, err := e.Accept(c, nil); err != nil {
		return ast.NONE, err
	}
	return e.Type(), nil
}

func (c *Checker) VisitProgram(node *ast.Program, arg any) (any, error) {
	for _, param := range node.Params {
		if _, err := param.Accept(c, arg); err != nil {
			return nil, err
		}
	}
	return node.Block.Accept(c, arg)
}

func (c *Checker) VisitParamDec(node *ast.ParamDec, arg any) (any, error) {
	return nil, c.declare(node)
}

func (c *Checker) VisitDec(node *ast.Dec, arg any) (any, error) {
	return nil, c.declare(node)
}

func (c *Checker) VisitBlock(node *ast.Block, arg any) (any, error) {
	if err := c.ctx.Err(); err != nil {
		return nil, err
	}
	c.symbols.EnterScope()
	defer c.symbols.LeaveScope()
	for _, dec := range node.Decs {
		if _, err := dec.Accept(c, arg); err != nil {
			return nil, err
		}
	}
	for _, stmt := range node.Statements {
		if _, err := stmt.Accept(c, arg); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (c *Checker) VisitAssignStatement(node *ast.AssignStatement, arg any) (any, error) {
	if _, err := node.Target.Accept(c, arg); err != nil {
		return nil, err
	}
	valueType, err := c.expr(node.Value)
	if err != nil {
		return nil, err
	}
	target := node.Target.Decl.DeclType()
	if valueType != target {
		return nil, typeError(node.Value, errors.E3003,
			"cannot assign %s to %s of type %s", valueType, node.Target.Ident.Text(), target)
	}
	return nil, nil
}

func (c *Checker) VisitIdentLValue(node *ast.IdentLValue, arg any) (any, error) {
	decl, err := c.resolve(node.Ident)
	if err != nil {
		return nil, err
	}
	node.Decl = decl
	return nil, nil
}

func (c *Checker) condition(keyword string, cond ast.Expression) error {
	typ, err := c.expr(cond)
	if err != nil {
		return err
	}
	if typ != ast.BOOLEAN {
		return typeError(cond, errors.E3003, "%s condition must be BOOLEAN, found %s", keyword, typ)
	}
	return nil
}

func (c *Checker) VisitIfStatement(node *ast.IfStatement, arg any) (any, error) {
	if err := c.condition("if", node.Condition); err != nil {
		return nil, err
	}
	return node.Block.Accept(c, arg)
}

func (c *Checker) VisitWhileStatement(node *ast.WhileStatement, arg any) (any, error) {
	if err := c.condition("while", node.Condition); err != nil {
		return nil, err
	}
	return node.Block.Accept(c, arg)
}

func (c *Checker) VisitSleepStatement(node *ast.SleepStatement, arg any) (any, error) {
	typ, err := c.expr(node.Duration)
	if err != nil {
		return nil, err
	}
	if typ != ast.INTEGER {
		return nil, typeError(node.Duration, errors.E3003, "sleep duration must be INTEGER, found %s", typ)
	}
	return nil, nil
}

func (c *Checker) VisitIntLit(node *ast.IntLit, arg any) (any, error) {
	node.SetType(ast.INTEGER)
	return nil, nil
}

func (c *Checker) VisitBoolLit(node *ast.BoolLit, arg any) (any, error) {
	node.SetType(ast.BOOLEAN)
	return nil, nil
}

func (c *Checker) VisitConstantExpr(node *ast.ConstantExpr, arg any) (any, error) {
	node.SetType(ast.INTEGER)
	return nil, nil
}

func (c *Checker) VisitIdentExpr(node *ast.IdentExpr, arg any) (any, error) {
	decl, err := c.resolve(node.Token)
	if err != nil {
		return nil, err
	}
	node.Decl = decl
	node.SetType(decl.DeclType())
	return nil, nil
}

func (c *Checker) VisitBinaryExpr(node *ast.BinaryExpr, arg any) (any, error) {
	left, err := c.expr(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.expr(node.Right)
	if err != nil {
		return nil, err
	}
	result, ok := binaryResult(left, node.Op.Type, right)
	if !ok {
		if node.Op.Is(token.EQUAL, token.NOTEQUAL) {
			return nil, errors.TypeErrorf(errors.E3003, location(node.Op),
				"cannot compare %s with %s", left, right)
		}
		return nil, errors.TypeErrorf(errors.E3003, location(node.Op),
			"operator %s is not defined on (%s, %s)", node.Op.Text(), left, right)
	}
	node.SetType(result)
	return nil, nil
}

func (c *Checker) VisitTuple(node *ast.Tuple, arg any) (any, error) {
	op, _ := arg.(string)
	for i, e := range node.Exprs {
		typ, err := c.expr(e)
		if err != nil {
			return nil, err
		}
		if typ != ast.INTEGER {
			return nil, typeError(e, errors.E3006,
				"argument %d of %s must be INTEGER, found %s", i+1, op, typ)
		}
	}
	return nil, nil
}

// stage checks the arguments of an operation stage and sets its
// standalone type.
func (c *Checker) stage(node ast.OpChain) error {
	opTok := node.Op()
	sig, ok := operations[opTok.Type]
	if !ok {
		return &errors.InternalError{Message: fmt.Sprintf("unknown pipeline operation %s", opTok)}
	}
	if got := node.Arguments().Len(); got != sig.arity {
		return typeError(node, errors.E3005, "%s %s, found %d", opTok.Text(), takes(sig.arity), got)
	}
	if args := node.Arguments(); args != nil {
		if _, err := args.Accept(c, opTok.Text()); err != nil {
			return err
		}
	}
	node.SetType(sig.result)
	return nil
}

func takes(n int) string {
	switch n {
	case 0:
		return "takes no arguments"
	case 1:
		return "takes 1 argument"
	default:
		return fmt.Sprintf("takes %d arguments", n)
	}
}

func (c *Checker) VisitFilterOpChain(node *ast.FilterOpChain, arg any) (any, error) {
	return nil, c.stage(node)
}

func (c *Checker) VisitFrameOpChain(node *ast.FrameOpChain, arg any) (any, error) {
	return nil, c.stage(node)
}

func (c *Checker) VisitImageOpChain(node *ast.ImageOpChain, arg any) (any, error) {
	return nil, c.stage(node)
}

func (c *Checker) VisitIdentChain(node *ast.IdentChain, arg any) (any, error) {
	decl, err := c.resolve(node.Ident)
	if err != nil {
		return nil, err
	}
	node.Decl = decl
	node.SetType(decl.DeclType())
	return nil, nil
}

func (c *Checker) VisitBinaryChain(node *ast.BinaryChain, arg any) (any, error) {
	if _, err := node.Left.Accept(c, arg); err != nil {
		return nil, err
	}
	if op, ok := node.Left.(ast.OpChain); ok {
		return nil, typeError(op, errors.E3004, "%s cannot start a pipeline", op.Op().Text())
	}
	if _, err := node.Right.Accept(c, arg); err != nil {
		return nil, err
	}
	current := node.Left.Type()
	result, ok := transition(current, node.Arrow.Type, node.Right)
	if !ok {
		return nil, typeError(node.Right, errors.E3004,
			"%s cannot follow a value of type %s with %s",
			node.Right.String(), current, node.Arrow.Text())
	}
	node.SetType(result)
	return nil, nil
}
