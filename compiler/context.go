package compiler

import (
	"fmt"
	"math"

	"github.com/deepnoodle-ai/plpc/ast"
	"github.com/deepnoodle-ai/plpc/bytecode"
	"github.com/deepnoodle-ai/plpc/internal/token"
	"github.com/deepnoodle-ai/plpc/op"
)

// method accumulates one code block of the unit.
type method struct {
	name       string
	graph      *Graph
	constants  []any
	intIndex   map[int32]int
	localNames []string
}

func newMethod(name string) *method {
	return &method{
		name:     name,
		graph:    NewGraph(),
		intIndex: map[int32]int{},
	}
}

// constant returns the index of v in the constant pool, adding it once.
func (m *method) constant(v int32) op.Code {
	if idx, ok := m.intIndex[v]; ok {
		return op.Code(idx)
	}
	if len(m.constants) >= math.MaxUint16 {
		panic("compiler: number of constants exceeded limits")
	}
	m.constants = append(m.constants, v)
	m.intIndex[v] = len(m.constants) - 1
	return op.Code(len(m.constants) - 1)
}

func (m *method) build() (*bytecode.Code, error) {
	instructions, locations, err := m.graph.Linearize()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.name, err)
	}
	return bytecode.NewCode(bytecode.CodeParams{
		Name:         m.name,
		Instructions: instructions,
		Constants:    m.constants,
		Locations:    locations,
		LocalCount:   len(m.localNames),
		LocalNames:   m.localNames,
	}), nil
}

// emitContext is passed as the visitor argument while generating code.
// Nested blocks and chain stages get derived copies; the method itself,
// with its slot counter and label allocator, is shared.
type emitContext struct {
	m *method

	// sink is set when a chain element receives the value on the stack
	// instead of producing one.
	sink bool

	// arrow is the arrow leading into a sink element.
	arrow token.Type
}

func (ctx *emitContext) source() *emitContext {
	return &emitContext{m: ctx.m}
}

func (ctx *emitContext) into(arrow token.Type) *emitContext {
	return &emitContext{m: ctx.m, sink: true, arrow: arrow}
}

// newLabel allocates a block that a jump may target before it is placed.
func (ctx *emitContext) newLabel() *Block {
	return ctx.m.graph.NewBlock()
}

// bind places a label at the current position.
func (ctx *emitContext) bind(label *Block) {
	ctx.m.graph.Place(label)
}

// allocSlot assigns the next local slot to a declaration. Slots increase
// monotonically over the method and are never reused, so sibling blocks
// get disjoint slots.
func (ctx *emitContext) allocSlot(dec *ast.Dec) int {
	slot := len(ctx.m.localNames)
	if slot >= math.MaxUint16 {
		panic("compiler: number of locals exceeded limits")
	}
	ctx.m.localNames = append(ctx.m.localNames, dec.Name())
	dec.Slot = slot
	return slot
}

func location(node ast.Node) bytecode.SourceLocation {
	if node == nil {
		return bytecode.SourceLocation{}
	}
	pos := node.Pos()
	return bytecode.SourceLocation{Line: pos.LineNumber(), Column: pos.ColumnNumber()}
}

func (ctx *emitContext) emit(node ast.Node, code op.Code, operands ...op.Code) {
	ctx.m.graph.Emit(location(node), code, operands...)
}

func (ctx *emitContext) jump(node ast.Node, branch Branch, target *Block, operands ...op.Code) {
	ctx.m.graph.EmitJump(location(node), branch, target, operands...)
}
