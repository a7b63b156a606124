package compiler

import (
	"testing"

	"github.com/deepnoodle-ai/plpc/bytecode"
	"github.com/deepnoodle-ai/plpc/op"
	"github.com/stretchr/testify/require"
)

var noLoc bytecode.SourceLocation

func TestGraphStraightLine(t *testing.T) {
	g := NewGraph()
	g.Emit(noLoc, op.True)
	g.Emit(noLoc, op.PopTop)
	code, locs, err := g.Linearize()
	require.NoError(t, err)
	require.Equal(t, []op.Code{op.True, op.PopTop}, code)
	require.Len(t, locs, 2)
	require.Len(t, g.Blocks(), 1)
	require.Empty(t, g.Blocks()[0].Successors())
}

func TestGraphForwardJump(t *testing.T) {
	g := NewGraph()
	after := g.NewBlock()
	g.Emit(noLoc, op.True)
	g.EmitJump(noLoc, IfFalse, after)
	g.Emit(noLoc, op.Nop)
	g.Place(after)
	g.Emit(noLoc, op.Halt)

	code, _, err := g.Linearize()
	require.NoError(t, err)
	require.Equal(t, []op.Code{op.True, op.PopJumpForwardIfFalse, 3, op.Nop, op.Halt}, code)

	blocks := g.Blocks()
	require.Len(t, blocks, 3)
	entry, then := blocks[0], blocks[1]
	require.Equal(t, []Edge{{CondJump, after}, {FallThrough, then}}, entry.Successors())
	require.Equal(t, []Edge{{FallThrough, after}}, then.Successors())
	require.Empty(t, after.Successors())
}

func TestGraphBackwardJump(t *testing.T) {
	g := NewGraph()
	loop := g.NewBlock()
	g.Place(loop)
	g.Emit(noLoc, op.Nop)
	g.Emit(noLoc, op.True)
	g.EmitJump(noLoc, IfTrue, loop)

	code, _, err := g.Linearize()
	require.NoError(t, err)
	require.Equal(t, []op.Code{op.Nop, op.True, op.PopJumpBackwardIfTrue, 2}, code)
	require.Equal(t, []Edge{{CondJump, loop}}, loop.Successors())
}

func TestGraphCompareJumpOperands(t *testing.T) {
	g := NewGraph()
	target := g.NewBlock()
	g.EmitJump(noLoc, Compare, target, op.Code(op.LessThan))
	g.Place(target)
	code, _, err := g.Linearize()
	require.NoError(t, err)
	require.Equal(t, []op.Code{op.CompareJumpForward, op.Code(op.LessThan), 3}, code)
}

func TestGraphUnconditionalJumpHasNoFallThrough(t *testing.T) {
	g := NewGraph()
	end := g.NewBlock()
	g.EmitJump(noLoc, Always, end)
	g.Emit(noLoc, op.Nop) // unreachable, opens a new block
	g.Place(end)

	blocks := g.Blocks()
	require.Len(t, blocks, 3)
	require.Equal(t, []Edge{{Jump, end}}, blocks[0].Successors())
	require.Equal(t, []Edge{{FallThrough, end}}, blocks[1].Successors())
}

func TestGraphUnplacedTarget(t *testing.T) {
	g := NewGraph()
	g.EmitJump(noLoc, Always, g.NewBlock())
	_, _, err := g.Linearize()
	require.ErrorContains(t, err, "never placed")
}

func TestGraphPlaceTwicePanics(t *testing.T) {
	g := NewGraph()
	b := g.NewBlock()
	g.Place(b)
	require.Panics(t, func() { g.Place(b) })
}

func TestGraphLocations(t *testing.T) {
	g := NewGraph()
	loc := bytecode.SourceLocation{Line: 3, Column: 7}
	g.Emit(loc, op.LoadConst, 0)
	_, locs, err := g.Linearize()
	require.NoError(t, err)
	require.Equal(t, []bytecode.SourceLocation{loc, loc}, locs)
}

func TestEdgeKindString(t *testing.T) {
	require.Equal(t, "fallthrough", FallThrough.String())
	require.Equal(t, "jump", Jump.String())
	require.Equal(t, "cond", CondJump.String())
}
