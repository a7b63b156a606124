package parser

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/plpc/ast"
	"github.com/deepnoodle-ai/plpc/errors"
	"github.com/deepnoodle-ai/plpc/internal/lexer"
	"github.com/deepnoodle-ai/plpc/internal/token"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	program, err := Parse(context.Background(), input)
	require.Nil(t, err)
	return program
}

func TestEmptyProgram(t *testing.T) {
	program := parse(t, "prog {}")
	require.Equal(t, "prog", program.Name.Text())
	require.Empty(t, program.Params)
	require.Empty(t, program.Block.Decs)
	require.Empty(t, program.Block.Statements)
}

func TestParams(t *testing.T) {
	program := parse(t, "p url u, file f, integer n, boolean b { }")
	require.Len(t, program.Params, 4)
	expected := []struct {
		name string
		typ  ast.Type
	}{
		{"u", ast.URL},
		{"f", ast.FILE},
		{"n", ast.INTEGER},
		{"b", ast.BOOLEAN},
	}
	for i, e := range expected {
		require.Equal(t, e.name, program.Params[i].Name())
		require.Equal(t, e.typ, program.Params[i].DeclType())
		require.Equal(t, i, program.Params[i].Index)
	}
}

func TestDeclarationsAndStatements(t *testing.T) {
	program := parse(t, `p {
		integer x
		x <- 1;
		boolean b
		image img frame fr
		sleep x * 2;
		while (x < 10) { x <- x + 1; }
		if (b) { integer y }
	}`)
	block := program.Block
	require.Len(t, block.Decs, 4)
	for _, d := range block.Decs {
		require.Equal(t, ast.NoSlot, d.Slot)
	}
	require.Len(t, block.Statements, 4)
	require.IsType(t, &ast.AssignStatement{}, block.Statements[0])
	require.IsType(t, &ast.SleepStatement{}, block.Statements[1])
	require.IsType(t, &ast.WhileStatement{}, block.Statements[2])
	require.IsType(t, &ast.IfStatement{}, block.Statements[3])

	ifStmt := block.Statements[3].(*ast.IfStatement)
	require.Len(t, ifStmt.Block.Decs, 1)
	require.Equal(t, "y", ifStmt.Block.Decs[0].Name())
}

func TestAssignVersusChain(t *testing.T) {
	program := parse(t, "p { x <- y; x -> y; x |-> gray; }")
	stmts := program.Block.Statements
	require.Len(t, stmts, 3)

	assign, ok := stmts[0].(*ast.AssignStatement)
	require.True(t, ok)
	require.Equal(t, "x", assign.Target.Ident.Text())
	require.Equal(t, "y", assign.Value.String())

	chain, ok := stmts[1].(*ast.BinaryChain)
	require.True(t, ok)
	require.Equal(t, token.ARROW, chain.Arrow.Type)
	require.IsType(t, &ast.IdentChain{}, chain.Left)
	require.IsType(t, &ast.IdentChain{}, chain.Right)

	bar, ok := stmts[2].(*ast.BinaryChain)
	require.True(t, ok)
	require.Equal(t, token.BARARROW, bar.Arrow.Type)
	require.IsType(t, &ast.FilterOpChain{}, bar.Right)
}

func TestChainFoldsLeft(t *testing.T) {
	program := parse(t, "p { u -> blur -> scale(2) -> img -> fr -> move(1, 2) -> xloc; }")
	chain := program.Block.Statements[0].(*ast.BinaryChain)
	require.Equal(t, "u -> blur -> scale(2) -> img -> fr -> move(1, 2) -> xloc", chain.String())

	// Walk down the left spine: every right side is a single stage
	var stages []string
	var c ast.Chain = chain
	for {
		bc, ok := c.(*ast.BinaryChain)
		if !ok {
			stages = append(stages, c.String())
			break
		}
		stages = append(stages, bc.Right.String())
		c = bc.Left
	}
	require.Equal(t, []string{"xloc", "move(1, 2)", "fr", "img", "scale(2)", "blur", "u"}, stages)
	require.Equal(t, "u", ast.Leftmost(chain).String())

	move := chain.Left.(*ast.BinaryChain).Right.(*ast.FrameOpChain)
	require.Equal(t, 2, move.Args.Len())
	xloc := chain.Right.(*ast.FrameOpChain)
	require.Equal(t, 0, xloc.Args.Len())
	require.Equal(t, token.SEMI, xloc.Args.Open.Type)
}

func TestEmptyArgumentListIsAnError(t *testing.T) {
	_, err := Parse(context.Background(), "p { a -> convolve() ; }")
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "saw RPAREN())")
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"a < b == c", "((a < b) == c)"},
		{"a | b & c", "(a | (b & c))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"x % 2 != 0", "((x % 2) != 0)"},
		{"screenwidth / 2 >= screenheight", "((screenwidth / 2) >= screenheight)"},
		{"true & false", "(true & false)"},
		{"0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			program := parse(t, "p { v <- "+tt.input+"; }")
			assign := program.Block.Statements[0].(*ast.AssignStatement)
			require.Equal(t, tt.expected, assign.Value.String())
		})
	}
}

func TestLiterals(t *testing.T) {
	program := parse(t, "p { v <- 2147483647; b <- false; w <- screenwidth; }")
	stmts := program.Block.Statements
	lit := stmts[0].(*ast.AssignStatement).Value.(*ast.IntLit)
	require.Equal(t, int32(2147483647), lit.Value)
	boolean := stmts[1].(*ast.AssignStatement).Value.(*ast.BoolLit)
	require.False(t, boolean.Value)
	constant := stmts[2].(*ast.AssignStatement).Value.(*ast.ConstantExpr)
	require.Equal(t, token.KW_SCREENWIDTH, constant.Token.Type)
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errMsg string
		line   int
		column int
	}{
		{
			name:   "missing arrow",
			input:  "p { x; }",
			errMsg: "syntax error: saw SEMI(;), expected one of ARROW(->), BARARROW(|->) (1:6)",
			line:   1, column: 6,
		},
		{
			name:   "missing param name",
			input:  "p integer { }",
			errMsg: "syntax error: saw LBRACE({), expected IDENT (1:11)",
			line:   1, column: 11,
		},
		{
			name:   "program without block",
			input:  "p",
			errMsg: "syntax error: saw EOF(eof), expected one of LBRACE({), KW_URL(url), KW_FILE(file), KW_INTEGER(integer), KW_BOOLEAN(boolean) (1:2)",
			line:   1, column: 2,
		},
		{
			name:   "image is not a parameter type",
			input:  "p image i { }",
			errMsg: "syntax error: saw KW_IMAGE(image), expected one of LBRACE({), KW_URL(url), KW_FILE(file), KW_INTEGER(integer), KW_BOOLEAN(boolean) (1:3)",
			line:   1, column: 3,
		},
		{
			name:   "tokens after program",
			input:  "p { }\nq",
			errMsg: "syntax error: saw IDENT(q), expected EOF(eof) (2:1)",
			line:   2, column: 1,
		},
		{
			name:   "bad factor",
			input:  "p { x <- ; }",
			errMsg: "syntax error: saw SEMI(;), expected one of IDENT, INT_LIT, KW_TRUE(true), KW_FALSE(false), KW_SCREENWIDTH(screenwidth), KW_SCREENHEIGHT(screenheight), LPAREN(() (1:10)",
			line:   1, column: 10,
		},
		{
			name:   "bad stage argument follow",
			input:  "p { x -> blur y; }",
			errMsg: "syntax error: saw IDENT(y), expected one of LPAREN((), ARROW(->), BARARROW(|->), SEMI(;) (1:15)",
			line:   1, column: 15,
		},
		{
			name:   "statement start",
			input:  "p { 1 -> x; }",
			errMsg: "syntax error: saw INT_LIT(1), expected one of KW_INTEGER(integer), KW_BOOLEAN(boolean), KW_IMAGE(image), KW_FRAME(frame), OP_SLEEP(sleep), KW_WHILE(while), KW_IF(if), IDENT, OP_BLUR(blur), OP_GRAY(gray), OP_CONVOLVE(convolve), KW_SHOW(show), KW_HIDE(hide), KW_MOVE(move), KW_XLOC(xloc), KW_YLOC(yloc), OP_WIDTH(width), OP_HEIGHT(height), KW_SCALE(scale), RBRACE(}) (1:5)",
			line:   1, column: 5,
		},
		{
			name:   "semicolon after while block",
			input:  "p { while (true) { }; }",
			line:   1, column: 21,
		},
		{
			name:   "unclosed tuple",
			input:  "p { x -> move(1, 2 -> y; }",
			errMsg: "syntax error: saw ARROW(->), expected RPAREN()) (1:20)",
			line:   1, column: 20,
		},
		{
			name:   "unary not is not an expression",
			input:  "p { b <- !b; }",
			line:   1, column: 10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(context.Background(), tt.input)
			require.NotNil(t, err)
			var syntaxErr *errors.SyntaxError
			require.True(t, stderrors.As(err, &syntaxErr), "got %T: %v", err, err)
			if tt.errMsg != "" {
				require.Equal(t, tt.errMsg, err.Error())
			}
			require.Equal(t, tt.line, syntaxErr.Line)
			require.Equal(t, tt.column, syntaxErr.Column)
			require.NotEmpty(t, syntaxErr.Expected)
		})
	}
}

func TestSyntaxErrorSourceLine(t *testing.T) {
	_, err := Parse(context.Background(), "p {\n  x -> ;\n}", WithFilename("bad.plp"))
	var syntaxErr *errors.SyntaxError
	require.True(t, stderrors.As(err, &syntaxErr))
	require.Equal(t, "bad.plp", syntaxErr.Filename)
	require.Equal(t, "  x -> ;", syntaxErr.SourceLine)
	require.Equal(t, "SEMI(;)", syntaxErr.Saw)
	require.Contains(t, syntaxErr.FriendlyErrorMessage(), "--> bad.plp:2:8")
}

func TestLexErrorsPassThrough(t *testing.T) {
	_, err := Parse(context.Background(), "p { x <- 1 = 2; }")
	var lexErr *errors.LexError
	require.True(t, stderrors.As(err, &lexErr))
	require.Equal(t, errors.IllegalCharacter, lexErr.Kind)
}

func TestParseTokens(t *testing.T) {
	tokens, err := lexer.ScanString("p integer n { n <- n + 1; }")
	require.Nil(t, err)
	program, err := New(tokens).Parse(context.Background())
	require.Nil(t, err)
	require.Len(t, program.Params, 1)

	// A stream without EOF behaves as if it had one
	program, err = New(tokens[:len(tokens)-1]).Parse(context.Background())
	require.Nil(t, err)
	require.Len(t, program.Block.Statements, 1)
}

func TestMaxDepth(t *testing.T) {
	input := "p { x <- " + strings.Repeat("(", 20) + "1" + strings.Repeat(")", 20) + "; }"
	_, err := Parse(context.Background(), input)
	require.Nil(t, err)

	_, err = Parse(context.Background(), input, WithMaxDepth(10))
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "maximum nesting depth of 10 exceeded")
}

func TestContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, "p { x <- 1; }")
	require.ErrorIs(t, err, context.Canceled)
}

func TestPositions(t *testing.T) {
	program := parse(t, "p integer n {\n  integer x\n  x <- n;\n}")
	require.Equal(t, "1:1", program.Pos().String())
	require.Equal(t, "1:3", program.Params[0].Pos().String())
	require.Equal(t, "2:3", program.Block.Decs[0].Pos().String())
	require.Equal(t, "3:3", program.Block.Statements[0].Pos().String())
	assign := program.Block.Statements[0].(*ast.AssignStatement)
	require.Equal(t, "3:8", assign.Value.Pos().String())
}
