package dis

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/plpc/bytecode"
	"github.com/deepnoodle-ai/plpc/checker"
	"github.com/deepnoodle-ai/plpc/compiler"
	"github.com/deepnoodle-ai/plpc/op"
	"github.com/deepnoodle-ai/plpc/parser"
	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func compileSource(t *testing.T, input string) *bytecode.Unit {
	t.Helper()
	program, err := parser.Parse(context.Background(), input)
	require.Nil(t, err)
	require.Nil(t, checker.Check(context.Background(), program))
	unit, err := compiler.Compile(program)
	require.NoError(t, err)
	return unit
}

func noColor(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = saved })
}

func TestRunDisassembly(t *testing.T) {
	noColor(t)
	unit := compileSource(t, "p integer n { n <- n + 2; }")
	methods, err := DisassembleUnit(unit)
	require.NoError(t, err)
	require.Len(t, methods, 3)
	require.Equal(t, []string{"init", "main", "run"},
		[]string{methods[0].Name, methods[1].Name, methods[2].Name})

	var buf bytes.Buffer
	Print(methods[2].Instructions, &buf)

	expected := strings.TrimSpace(`
+--------+--------------+----------+------+
| OFFSET |    OPCODE    | OPERANDS | INFO |
+--------+--------------+----------+------+
|      0 | LOAD_FIELD   |        0 | n    |
|      2 | LOAD_CONST   |        0 | 2    |
|      4 | BINARY_OP    |        1 | +    |
|      6 | STORE_FIELD  |        0 | n    |
|      8 | NIL          |          |      |
|      9 | RETURN_VALUE |          |      |
+--------+--------------+----------+------+
`)
	require.Equal(t, expected+"\n", buf.String())
}

func TestAnnotations(t *testing.T) {
	unit := compileSource(t, "p integer n { integer x if (n > 1) { x <- 0; } }")
	methods, err := DisassembleUnit(unit)
	require.NoError(t, err)

	initCode := methods[0].Instructions
	require.Equal(t, "n", initCode[0].Annotation)
	require.Equal(t, "integer", initCode[1].Annotation)

	run := methods[2]
	require.Equal(t, []string{"x"}, run.Locals)
	var jumps int
	for _, instr := range run.Instructions {
		switch instr.Opcode {
		case op.CompareJumpForward:
			jumps++
			target := instr.Offset + int(instr.Operands[1])
			require.Equal(t, fmt.Sprintf("if <= to %d", target), instr.Annotation)
			require.Equal(t, 1, instr.Line)
		case op.JumpForward, op.PopJumpForwardIfFalse:
			jumps++
			require.Equal(t, fmt.Sprintf("to %d", instr.Offset+int(instr.Operands[0])), instr.Annotation)
		case op.StoreFast:
			require.Equal(t, "x", instr.Annotation)
		}
	}
	require.Equal(t, 3, jumps)
}

func TestIntrinsicAnnotation(t *testing.T) {
	unit := compileSource(t, "p { integer w w <- screenwidth; sleep 1; }")
	instructions, err := Disassemble(unit.Run())
	require.NoError(t, err)
	var names []string
	for _, instr := range instructions {
		if instr.Opcode == op.Intrinsic {
			names = append(names, instr.Annotation)
		}
	}
	require.Equal(t, []string{"screen_width", "sleep"}, names)
}

func TestDisassembleErrors(t *testing.T) {
	_, err := Disassemble(bytecode.NewCode(bytecode.CodeParams{
		Name:         "run",
		Instructions: []op.Code{op.Nil, op.LoadConst},
	}))
	require.EqualError(t, err, "truncated LOAD_CONST at offset 1")

	_, err = Disassemble(bytecode.NewCode(bytecode.CodeParams{
		Name:         "run",
		Instructions: []op.Code{op.Code(250)},
	}))
	require.EqualError(t, err, "unknown opcode 250 at offset 0")
}

func TestPrintUnit(t *testing.T) {
	noColor(t)
	unit := compileSource(t, "collatz integer n { }")
	var buf bytes.Buffer
	require.NoError(t, PrintUnit(unit, &buf))
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "unit collatz\nid: "+unit.ID().String()+"\n"))
	require.Contains(t, out, "usage: collatz <integer n>\n")
	require.Contains(t, out, "\nmethod init\n")
	require.Contains(t, out, "\nmethod main\n")
	require.Contains(t, out, "| NEW_INSTANCE |")
}
