package ast_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/deepnoodle-ai/plpc/ast"
	"github.com/deepnoodle-ai/plpc/internal/token"
	"github.com/deepnoodle-ai/plpc/parser"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	program, err := parser.Parse(context.Background(), input)
	require.Nil(t, err)
	return program
}

func TestTypeOf(t *testing.T) {
	require.Equal(t, ast.INTEGER, ast.TypeOf(token.KW_INTEGER))
	require.Equal(t, ast.BOOLEAN, ast.TypeOf(token.KW_BOOLEAN))
	require.Equal(t, ast.IMAGE, ast.TypeOf(token.KW_IMAGE))
	require.Equal(t, ast.FRAME, ast.TypeOf(token.KW_FRAME))
	require.Equal(t, ast.FILE, ast.TypeOf(token.KW_FILE))
	require.Equal(t, ast.URL, ast.TypeOf(token.KW_URL))
	require.Equal(t, ast.NONE, ast.TypeOf(token.IDENT))
	require.Equal(t, "UNKNOWN", ast.Type(99).String())
}

func TestString(t *testing.T) {
	program := mustParse(t, "p url u, integer n { image i i <- n; if (n > 0) { u -> gray -> i; } }")
	require.Equal(t, "p url u, integer n { image i i <- n; if ((n > 0)) { u -> gray -> i; } }", program.String())
}

func TestTypedNodes(t *testing.T) {
	program := mustParse(t, "p { x <- 1 + 2; }")
	assign := program.Block.Statements[0].(*ast.AssignStatement)
	require.Equal(t, ast.NONE, assign.Value.Type())
	assign.Value.SetType(ast.INTEGER)
	require.Equal(t, ast.INTEGER, assign.Value.Type())

	// Operands keep their own type
	bin := assign.Value.(*ast.BinaryExpr)
	require.Equal(t, ast.NONE, bin.Left.Type())
}

func TestLeftmost(t *testing.T) {
	program := mustParse(t, "p { a -> blur |-> b -> show; c -> d; }")
	first := program.Block.Statements[0].(ast.Chain)
	require.Equal(t, "a", ast.Leftmost(first).String())
	second := program.Block.Statements[1].(ast.Chain)
	require.Equal(t, "c", ast.Leftmost(second).String())
	// A lone stage is its own leftmost element
	right := second.(*ast.BinaryChain).Right
	require.Equal(t, right, ast.Leftmost(right))
}

func TestInspect(t *testing.T) {
	program := mustParse(t, "p integer n { integer x while (x < n) { x <- x + 1; } }")
	var idents []string
	ast.Inspect(program, func(node ast.Node) bool {
		if ident, ok := node.(*ast.IdentExpr); ok {
			idents = append(idents, ident.Token.Text())
		}
		return true
	})
	require.Equal(t, []string{"x", "n", "x"}, idents)

	// Returning false prunes the subtree
	var count int
	ast.Inspect(program, func(node ast.Node) bool {
		count++
		_, isBlock := node.(*ast.Block)
		return !isBlock
	})
	require.Equal(t, 3, count)
}

func TestPreorder(t *testing.T) {
	program := mustParse(t, "p { a -> move(1, 2); }")
	var kinds []string
	for node := range ast.Preorder(program) {
		kinds = append(kinds, nodeName(node))
	}
	require.Equal(t, []string{
		"Program", "Block", "BinaryChain", "IdentChain",
		"FrameOpChain", "Tuple", "IntLit", "IntLit",
	}, kinds)

	// Stops early when the consumer breaks
	var n int
	for range ast.Preorder(program) {
		n++
		if n == 2 {
			break
		}
	}
	require.Equal(t, 2, n)
}

func TestFprint(t *testing.T) {
	program := mustParse(t, "p integer n {\n  integer x\n  x <- n * 2;\n}")
	block := program.Block
	block.Decs[0].Slot = 1
	assign := block.Statements[0].(*ast.AssignStatement)
	assign.Value.SetType(ast.INTEGER)

	var buf bytes.Buffer
	require.Nil(t, ast.Fprint(&buf, program))
	expected := `Program p @1:1
  ParamDec integer n @1:3
  Block @1:13
    Dec integer x slot=1 @2:3
    AssignStatement @3:3
      IdentLValue x @3:3
      BinaryExpr * @3:8 : INTEGER
        IdentExpr n @3:8
        IntLit 2 @3:12
`
	require.Equal(t, expected, buf.String())
}

// countingVisitor records the order in which Accept dispatches.
type countingVisitor struct {
	visited []string
}

func (v *countingVisitor) record(name string) (any, error) {
	v.visited = append(v.visited, name)
	return name, nil
}

func (v *countingVisitor) VisitProgram(node *ast.Program, arg any) (any, error) {
	for _, p := range node.Params {
		if _, err := p.Accept(v, arg); err != nil {
			return nil, err
		}
	}
	if _, err := node.Block.Accept(v, arg); err != nil {
		return nil, err
	}
	return v.record("Program")
}

func (v *countingVisitor) VisitParamDec(*ast.ParamDec, any) (any, error) { return v.record("ParamDec") }
func (v *countingVisitor) VisitDec(*ast.Dec, any) (any, error)           { return v.record("Dec") }

func (v *countingVisitor) VisitBlock(node *ast.Block, arg any) (any, error) {
	for _, d := range node.Decs {
		if _, err := d.Accept(v, arg); err != nil {
			return nil, err
		}
	}
	for _, s := range node.Statements {
		if _, err := s.Accept(v, arg); err != nil {
			return nil, err
		}
	}
	return v.record("Block")
}

func (v *countingVisitor) VisitAssignStatement(*ast.AssignStatement, any) (any, error) {
	return v.record("AssignStatement")
}
func (v *countingVisitor) VisitIdentLValue(*ast.IdentLValue, any) (any, error) {
	return v.record("IdentLValue")
}
func (v *countingVisitor) VisitIfStatement(*ast.IfStatement, any) (any, error) {
	return v.record("IfStatement")
}
func (v *countingVisitor) VisitWhileStatement(*ast.WhileStatement, any) (any, error) {
	return v.record("WhileStatement")
}
func (v *countingVisitor) VisitSleepStatement(*ast.SleepStatement, any) (any, error) {
	return v.record("SleepStatement")
}
func (v *countingVisitor) VisitBinaryChain(*ast.BinaryChain, any) (any, error) {
	return v.record("BinaryChain")
}
func (v *countingVisitor) VisitIdentChain(*ast.IdentChain, any) (any, error) {
	return v.record("IdentChain")
}
func (v *countingVisitor) VisitFilterOpChain(*ast.FilterOpChain, any) (any, error) {
	return v.record("FilterOpChain")
}
func (v *countingVisitor) VisitFrameOpChain(*ast.FrameOpChain, any) (any, error) {
	return v.record("FrameOpChain")
}
func (v *countingVisitor) VisitImageOpChain(*ast.ImageOpChain, any) (any, error) {
	return v.record("ImageOpChain")
}
func (v *countingVisitor) VisitTuple(*ast.Tuple, any) (any, error)     { return v.record("Tuple") }
func (v *countingVisitor) VisitIntLit(*ast.IntLit, any) (any, error)   { return v.record("IntLit") }
func (v *countingVisitor) VisitBoolLit(*ast.BoolLit, any) (any, error) { return v.record("BoolLit") }
func (v *countingVisitor) VisitConstantExpr(*ast.ConstantExpr, any) (any, error) {
	return v.record("ConstantExpr")
}
func (v *countingVisitor) VisitIdentExpr(*ast.IdentExpr, any) (any, error) {
	return v.record("IdentExpr")
}
func (v *countingVisitor) VisitBinaryExpr(*ast.BinaryExpr, any) (any, error) {
	return v.record("BinaryExpr")
}

func TestAcceptDispatch(t *testing.T) {
	program := mustParse(t, "p file f { frame fr sleep 1; fr -> show; while (true) { } }")
	v := &countingVisitor{}
	result, err := program.Accept(v, nil)
	require.Nil(t, err)
	require.Equal(t, "Program", result)
	require.Equal(t, []string{
		"ParamDec", "Dec", "SleepStatement", "BinaryChain", "WhileStatement", "Block", "Program",
	}, v.visited)
}

func nodeName(node ast.Node) string {
	switch node.(type) {
	case *ast.Program:
		return "Program"
	case *ast.Block:
		return "Block"
	case *ast.BinaryChain:
		return "BinaryChain"
	case *ast.IdentChain:
		return "IdentChain"
	case *ast.FrameOpChain:
		return "FrameOpChain"
	case *ast.Tuple:
		return "Tuple"
	case *ast.IntLit:
		return "IntLit"
	default:
		return "other"
	}
}
