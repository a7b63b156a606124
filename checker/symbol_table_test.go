package checker

import (
	"testing"

	"github.com/deepnoodle-ai/plpc/ast"
	"github.com/deepnoodle-ai/plpc/internal/token"
	"github.com/stretchr/testify/require"
)

func dec(typ token.Type, name string) *ast.Dec {
	file := token.NewFile("", name)
	return &ast.Dec{
		TypeToken: token.Token{Type: typ},
		Ident:     token.Token{Type: token.IDENT, Length: len(name), File: file},
		Slot:      ast.NoSlot,
	}
}

func TestTable(t *testing.T) {
	table := NewSymbolTable()
	require.Equal(t, "root", table.Root().ID())
	require.Equal(t, 0, table.Current().Number())
	require.Nil(t, table.Root().Parent())

	a := dec(token.KW_INTEGER, "a")
	require.True(t, table.Insert("a", a))
	require.False(t, table.Insert("a", dec(token.KW_BOOLEAN, "a")))
	require.Equal(t, a, table.Lookup("a"))
	require.Nil(t, table.Lookup("b"))
	require.Equal(t, []string{"a"}, table.Root().Names())
}

func TestShadowing(t *testing.T) {
	table := NewSymbolTable()
	outer := dec(token.KW_INTEGER, "x")
	require.True(t, table.Insert("x", outer))

	inner := dec(token.KW_BOOLEAN, "x")
	scope := table.EnterScope()
	require.True(t, table.Insert("x", inner))
	require.Equal(t, inner, table.Lookup("x"))
	decl, found := table.Resolve("x")
	require.Equal(t, inner, decl)
	require.Equal(t, scope, found)

	table.LeaveScope()
	require.Equal(t, outer, table.Lookup("x"))
	decl, found = table.Resolve("x")
	require.Equal(t, outer, decl)
	require.Equal(t, table.Root(), found)
}

func TestInnerDeclarationsDisappear(t *testing.T) {
	table := NewSymbolTable()
	table.EnterScope()
	require.True(t, table.Insert("y", dec(token.KW_FRAME, "y")))
	table.LeaveScope()
	require.Nil(t, table.Lookup("y"))

	// A sibling scope cannot see it either
	table.EnterScope()
	require.Nil(t, table.Lookup("y"))
	require.True(t, table.Insert("y", dec(token.KW_IMAGE, "y")))
	table.LeaveScope()
}

func TestScopeNumbersAndIDs(t *testing.T) {
	table := NewSymbolTable()
	first := table.EnterScope()  // root.0
	nested := table.EnterScope() // root.0.0
	require.Equal(t, 2, table.Depth())
	table.LeaveScope()
	table.LeaveScope()
	second := table.EnterScope() // root.1
	table.LeaveScope()

	require.Equal(t, "root.0", first.ID())
	require.Equal(t, "root.0.0", nested.ID())
	require.Equal(t, "root.1", second.ID())
	require.Equal(t, []int{1, 2, 3}, []int{first.Number(), nested.Number(), second.Number()})
	require.Equal(t, first, nested.Parent())
	require.Len(t, table.Root().Children(), 2)
	require.Equal(t, 0, table.Depth())
}

func TestLeaveRootPanics(t *testing.T) {
	table := NewSymbolTable()
	require.Panics(t, func() { table.LeaveScope() })
}

func TestVisible(t *testing.T) {
	table := NewSymbolTable()
	table.Insert("width0", dec(token.KW_INTEGER, "width0"))
	table.Insert("a", dec(token.KW_INTEGER, "a"))
	table.EnterScope()
	table.Insert("a", dec(token.KW_BOOLEAN, "a"))
	table.Insert("img", dec(token.KW_IMAGE, "img"))
	require.Equal(t, []string{"a", "img", "width0"}, table.Visible())
	table.LeaveScope()
	require.Equal(t, []string{"a", "width0"}, table.Visible())
}
