// Package compiler lowers a checked syntax tree into a bytecode unit.
//
// # Methods
//
// Every program becomes three code blocks:
//
//   - init: parses each program argument into its field
//   - main: creates the instance and invokes run
//   - run: the program body
//
// # Control Flow
//
// Each method is built as a graph of basic blocks. Jumps target blocks
// rather than offsets, and the graph is linearized once the method is
// complete, at which point every jump becomes a forward or backward opcode
// with a distance measured from the jump itself.
//
// # Pipelines
//
// A chain threads one value through its stages on the operand stack. The
// leftmost identifier pushes its value (reading the image behind a url or
// file), each later stage consumes the top of the stack and pushes its
// result, and the enclosing statement discards what is left.
package compiler

import (
	"fmt"

	"github.com/deepnoodle-ai/plpc/ast"
	"github.com/deepnoodle-ai/plpc/bytecode"
	"github.com/deepnoodle-ai/plpc/errors"
	"github.com/deepnoodle-ai/plpc/internal/token"
	"github.com/deepnoodle-ai/plpc/op"
)

// Option is a configuration function for a Compiler.
type Option func(*Compiler)

// WithFilename overrides the filename recorded on the unit. By default it
// is taken from the program's tokens.
func WithFilename(filename string) Option {
	return func(c *Compiler) {
		c.filename = filename
	}
}

// WithSource overrides the source text recorded on the unit, which also
// determines its ID.
func WithSource(source string) Option {
	return func(c *Compiler) {
		c.source = &source
	}
}

// Compiler generates code for one checked program. It implements
// ast.Visitor with an *emitContext as the argument.
type Compiler struct {
	filename string
	source   *string
}

var _ ast.Visitor = (*Compiler)(nil)

// New returns a Compiler configured with the given options.
func New(options ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Compile generates the unit for a program that passed the checker.
func Compile(program *ast.Program, options ...Option) (*bytecode.Unit, error) {
	return New(options...).Compile(program)
}

// Compile generates the unit for a program that passed the checker. A tree
// that was not checked is reported as an *errors.InternalError.
func (c *Compiler) Compile(program *ast.Program) (unit *bytecode.Unit, err error) {
	if program == nil {
		return nil, &errors.InternalError{Message: "nil program"}
	}
	defer func() {
		if r := recover(); r != nil {
			unit = nil
			err = &errors.InternalError{Message: fmt.Sprint(r)}
		}
	}()
	result, err := program.Accept(c, nil)
	if err != nil {
		return nil, err
	}
	return result.(*bytecode.Unit), nil
}

func internalf(format string, args ...any) error {
	return &errors.InternalError{Message: fmt.Sprintf(format, args...)}
}

func fieldType(t ast.Type) (bytecode.FieldType, bool) {
	switch t {
	case ast.INTEGER:
		return bytecode.IntegerField, true
	case ast.BOOLEAN:
		return bytecode.BooleanField, true
	case ast.FILE:
		return bytecode.FileField, true
	case ast.URL:
		return bytecode.URLField, true
	default:
		return bytecode.InvalidField, false
	}
}

func (c *Compiler) VisitProgram(node *ast.Program, arg any) (any, error) {
	filename, source := c.filename, ""
	if f := node.Name.File; f != nil {
		source = f.Source()
		if filename == "" {
			filename = f.Name()
		}
	}
	if c.source != nil {
		source = *c.source
	}

	// init
	initMethod := newMethod("init")
	initCtx := &emitContext{m: initMethod}
	fields := make([]bytecode.Field, len(node.Params))
	for i, param := range node.Params {
		result, err := param.Accept(c, initCtx)
		if err != nil {
			return nil, err
		}
		fields[i] = bytecode.Field{Name: param.Name(), Type: result.(bytecode.FieldType)}
	}
	initCtx.emit(nil, op.Nil)
	initCtx.emit(nil, op.ReturnValue)

	// main
	mainMethod := newMethod("main")
	mainCtx := &emitContext{m: mainMethod}
	mainCtx.emit(nil, op.NewInstance)
	mainCtx.emit(nil, op.InvokeRun)
	mainCtx.emit(nil, op.Halt)

	// run
	runMethod := newMethod("run")
	runCtx := &emitContext{m: runMethod}
	if _, err := node.Block.Accept(c, runCtx); err != nil {
		return nil, err
	}
	runCtx.emit(nil, op.Nil)
	runCtx.emit(nil, op.ReturnValue)

	codes := make([]*bytecode.Code, 0, 3)
	for _, m := range []*method{initMethod, mainMethod, runMethod} {
		code, err := m.build()
		if err != nil {
			return nil, &errors.InternalError{Message: "linearize", Cause: err}
		}
		codes = append(codes, code)
	}
	return bytecode.NewUnit(bytecode.UnitParams{
		Name:     node.Name.Text(),
		Source:   source,
		Filename: filename,
		Fields:   fields,
		Init:     codes[0],
		Main:     codes[1],
		Run:      codes[2],
	}), nil
}

// VisitParamDec emits the initialization of one field and returns its
// bytecode.FieldType.
func (c *Compiler) VisitParamDec(node *ast.ParamDec, arg any) (any, error) {
	ctx := arg.(*emitContext)
	ft, ok := fieldType(node.DeclType())
	if !ok {
		return nil, internalf("parameter %s has unsupported type %s", node.Name(), node.DeclType())
	}
	idx := op.Code(node.Index)
	ctx.emit(node, op.LoadArg, idx)
	ctx.emit(node, op.ParseArg, op.Code(ft))
	ctx.emit(node, op.StoreField, idx)
	return ft, nil
}

// VisitDec assigns the declaration a slot and stores its zero value.
func (c *Compiler) VisitDec(node *ast.Dec, arg any) (any, error) {
	ctx := arg.(*emitContext)
	slot := ctx.allocSlot(node)
	switch node.DeclType() {
	case ast.INTEGER:
		ctx.emit(node, op.LoadConst, ctx.m.constant(0))
	case ast.BOOLEAN:
		ctx.emit(node, op.False)
	case ast.IMAGE, ast.FRAME, ast.FILE, ast.URL:
		ctx.emit(node, op.Nil)
	default:
		return nil, internalf("declaration %s has no type", node.Name())
	}
	ctx.emit(node, op.StoreFast, op.Code(slot))
	return nil, nil
}

func (c *Compiler) VisitBlock(node *ast.Block, arg any) (any, error) {
	ctx := arg.(*emitContext)
	for _, dec := range node.Decs {
		if _, err := dec.Accept(c, ctx); err != nil {
			return nil, err
		}
	}
	for _, stmt := range node.Statements {
		if _, err := stmt.Accept(c, ctx.source()); err != nil {
			return nil, err
		}
		if _, ok := stmt.(ast.Chain); ok {
			ctx.emit(stmt, op.PopTop)
		}
	}
	return nil, nil
}

func (c *Compiler) load(ctx *emitContext, node ast.Node, decl ast.Declaration) error {
	switch d := decl.(type) {
	case *ast.ParamDec:
		ctx.emit(node, op.LoadField, op.Code(d.Index))
	case *ast.Dec:
		if d.Slot == ast.NoSlot {
			return internalf("%s has no slot", d.Name())
		}
		ctx.emit(node, op.LoadFast, op.Code(d.Slot))
	default:
		return internalf("unbound identifier %s", node)
	}
	return nil
}

func (c *Compiler) store(ctx *emitContext, node ast.Node, decl ast.Declaration) error {
	switch d := decl.(type) {
	case *ast.ParamDec:
		ctx.emit(node, op.StoreField, op.Code(d.Index))
	case *ast.Dec:
		if d.Slot == ast.NoSlot {
			return internalf("%s has no slot", d.Name())
		}
		ctx.emit(node, op.StoreFast, op.Code(d.Slot))
	default:
		return internalf("unbound identifier %s", node)
	}
	return nil
}

func (c *Compiler) VisitAssignStatement(node *ast.AssignStatement, arg any) (any, error) {
	if _, err := node.Value.Accept(c, arg); err != nil {
		return nil, err
	}
	return node.Target.Accept(c, arg)
}

func (c *Compiler) VisitIdentLValue(node *ast.IdentLValue, arg any) (any, error) {
	return nil, c.store(arg.(*emitContext), node, node.Decl)
}

func (c *Compiler) VisitIfStatement(node *ast.IfStatement, arg any) (any, error) {
	ctx := arg.(*emitContext)
	if _, err := node.Condition.Accept(c, ctx); err != nil {
		return nil, err
	}
	after := ctx.newLabel()
	ctx.jump(node, IfFalse, after)
	if _, err := node.Block.Accept(c, ctx); err != nil {
		return nil, err
	}
	ctx.bind(after)
	return nil, nil
}

func (c *Compiler) VisitWhileStatement(node *ast.WhileStatement, arg any) (any, error) {
	ctx := arg.(*emitContext)
	body, cond := ctx.newLabel(), ctx.newLabel()
	ctx.jump(node, Always, cond)
	ctx.bind(body)
	if _, err := node.Block.Accept(c, ctx); err != nil {
		return nil, err
	}
	ctx.bind(cond)
	if _, err := node.Condition.Accept(c, ctx); err != nil {
		return nil, err
	}
	ctx.jump(node, IfTrue, body)
	return nil, nil
}

func (c *Compiler) VisitSleepStatement(node *ast.SleepStatement, arg any) (any, error) {
	ctx := arg.(*emitContext)
	if _, err := node.Duration.Accept(c, ctx); err != nil {
		return nil, err
	}
	ctx.emit(node, op.Intrinsic, op.Code(op.Sleep))
	ctx.emit(node, op.PopTop)
	return nil, nil
}

func (c *Compiler) VisitIntLit(node *ast.IntLit, arg any) (any, error) {
	ctx := arg.(*emitContext)
	ctx.emit(node, op.LoadConst, ctx.m.constant(node.Value))
	return nil, nil
}

func (c *Compiler) VisitBoolLit(node *ast.BoolLit, arg any) (any, error) {
	ctx := arg.(*emitContext)
	if node.Value {
		ctx.emit(node, op.True)
	} else {
		ctx.emit(node, op.False)
	}
	return nil, nil
}

func (c *Compiler) VisitConstantExpr(node *ast.ConstantExpr, arg any) (any, error) {
	ctx := arg.(*emitContext)
	switch node.Token.Type {
	case token.KW_SCREENWIDTH:
		ctx.emit(node, op.Intrinsic, op.Code(op.ScreenWidth))
	case token.KW_SCREENHEIGHT:
		ctx.emit(node, op.Intrinsic, op.Code(op.ScreenHeight))
	default:
		return nil, internalf("unknown constant %s", node.Token)
	}
	return nil, nil
}

func (c *Compiler) VisitIdentExpr(node *ast.IdentExpr, arg any) (any, error) {
	return nil, c.load(arg.(*emitContext), node, node.Decl)
}

var binaryOps = map[token.Type]op.BinaryOpType{
	token.PLUS:  op.Add,
	token.MINUS: op.Subtract,
	token.TIMES: op.Multiply,
	token.DIV:   op.Divide,
	token.MOD:   op.Modulo,
	token.AND:   op.And,
	token.OR:    op.Or,
}

var compareOps = map[token.Type]op.CompareOpType{
	token.LT:       op.LessThan,
	token.LE:       op.LessThanOrEqual,
	token.EQUAL:    op.Equal,
	token.NOTEQUAL: op.NotEqual,
	token.GT:       op.GreaterThan,
	token.GE:       op.GreaterThanOrEqual,
}

func (c *Compiler) VisitBinaryExpr(node *ast.BinaryExpr, arg any) (any, error) {
	ctx := arg.(*emitContext)
	if _, err := node.Left.Accept(c, ctx); err != nil {
		return nil, err
	}
	if _, err := node.Right.Accept(c, ctx); err != nil {
		return nil, err
	}
	if bop, ok := binaryOps[node.Op.Type]; ok {
		ctx.emit(node, op.BinaryOp, op.Code(bop))
		return nil, nil
	}
	cop, ok := compareOps[node.Op.Type]
	if !ok {
		return nil, internalf("unknown operator %s", node.Op)
	}
	// The comparison leaves a boolean: jump to the false branch when the
	// negated comparison holds.
	isFalse, end := ctx.newLabel(), ctx.newLabel()
	ctx.jump(node, Compare, isFalse, op.Code(cop.Negate()))
	ctx.emit(node, op.True)
	ctx.jump(node, Always, end)
	ctx.bind(isFalse)
	ctx.emit(node, op.False)
	ctx.bind(end)
	return nil, nil
}

func (c *Compiler) VisitTuple(node *ast.Tuple, arg any) (any, error) {
	if node == nil {
		return nil, nil
	}
	for _, e := range node.Exprs {
		if _, err := e.Accept(c, arg); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (c *Compiler) VisitBinaryChain(node *ast.BinaryChain, arg any) (any, error) {
	ctx := arg.(*emitContext)
	if _, err := node.Left.Accept(c, ctx.source()); err != nil {
		return nil, err
	}
	if first, ok := node.Left.(*ast.IdentChain); ok {
		switch first.Type() {
		case ast.URL:
			ctx.emit(first, op.Intrinsic, op.Code(op.ReadURL))
		case ast.FILE:
			ctx.emit(first, op.Intrinsic, op.Code(op.ReadFile))
		}
	}
	return node.Right.Accept(c, ctx.into(node.Arrow.Type))
}

func (c *Compiler) VisitIdentChain(node *ast.IdentChain, arg any) (any, error) {
	ctx := arg.(*emitContext)
	if !ctx.sink {
		return nil, c.load(ctx, node, node.Decl)
	}
	switch node.Type() {
	case ast.IMAGE, ast.INTEGER:
		ctx.emit(node, op.Copy, 0)
		return nil, c.store(ctx, node, node.Decl)
	case ast.FRAME:
		if err := c.load(ctx, node, node.Decl); err != nil {
			return nil, err
		}
		ctx.emit(node, op.Intrinsic, op.Code(op.SetFrame))
		ctx.emit(node, op.Copy, 0)
		return nil, c.store(ctx, node, node.Decl)
	case ast.FILE:
		if err := c.load(ctx, node, node.Decl); err != nil {
			return nil, err
		}
		ctx.emit(node, op.Intrinsic, op.Code(op.Write))
		return nil, nil
	default:
		return nil, internalf("%s of type %s cannot receive a value", node, node.Type())
	}
}

var stageIntrinsics = map[token.Type]op.IntrinsicID{
	token.OP_BLUR:     op.Blur,
	token.OP_GRAY:     op.Gray,
	token.OP_CONVOLVE: op.Convolve,
	token.KW_SHOW:     op.Show,
	token.KW_HIDE:     op.Hide,
	token.KW_MOVE:     op.Move,
	token.KW_XLOC:     op.XLoc,
	token.KW_YLOC:     op.YLoc,
	token.OP_WIDTH:    op.Width,
	token.OP_HEIGHT:   op.Height,
	token.KW_SCALE:    op.Scale,
}

// stage emits an operation applied to the value on top of the stack.
func (c *Compiler) stage(ctx *emitContext, node ast.OpChain) error {
	if !ctx.sink {
		return internalf("%s has no input", node.Op().Text())
	}
	id, ok := stageIntrinsics[node.Op().Type]
	if !ok {
		return internalf("unknown pipeline operation %s", node.Op())
	}
	if _, err := node.Arguments().Accept(c, ctx.source()); err != nil {
		return err
	}
	ctx.emit(node, op.Intrinsic, op.Code(id))
	return nil
}

func (c *Compiler) VisitFilterOpChain(node *ast.FilterOpChain, arg any) (any, error) {
	ctx := arg.(*emitContext)
	if !ctx.sink {
		return nil, internalf("%s has no input", node.Op().Text())
	}
	// Filters modify the image in place unless reached over |->
	if ctx.arrow == token.BARARROW {
		ctx.emit(node, op.False)
	} else {
		ctx.emit(node, op.True)
	}
	return nil, c.stage(ctx, node)
}

func (c *Compiler) VisitFrameOpChain(node *ast.FrameOpChain, arg any) (any, error) {
	return nil, c.stage(arg.(*emitContext), node)
}

func (c *Compiler) VisitImageOpChain(node *ast.ImageOpChain, arg any) (any, error) {
	return nil, c.stage(arg.(*emitContext), node)
}
