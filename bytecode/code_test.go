package bytecode

import (
	"testing"

	"github.com/deepnoodle-ai/plpc/op"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewCodeImmutability(t *testing.T) {
	instructions := []op.Code{op.LoadConst, 0, op.ReturnValue}
	constants := []any{int32(42)}
	locations := []SourceLocation{{Line: 1, Column: 1}, {Line: 1, Column: 5}}
	names := []string{"x"}

	code := NewCode(CodeParams{
		Name:         "run",
		Instructions: instructions,
		Constants:    constants,
		Locations:    locations,
		LocalCount:   1,
		LocalNames:   names,
	})

	instructions[0] = op.Nil
	constants[0] = int32(99)
	locations[0] = SourceLocation{Line: 999, Column: 999}
	names[0] = "modified"

	require.Equal(t, op.LoadConst, code.InstructionAt(0))
	require.Equal(t, int32(42), code.ConstantAt(0))
	require.Equal(t, 1, code.LocationAt(0).Line)
	require.Equal(t, "x", code.LocalNameAt(0))
}

func TestCodeAccessors(t *testing.T) {
	code := NewCode(CodeParams{
		Name:         "run",
		Instructions: []op.Code{op.LoadConst, 0, op.StoreFast, 1},
		Constants:    []any{int32(7)},
		Locations:    []SourceLocation{{Line: 2, Column: 3}},
		LocalCount:   2,
		LocalNames:   []string{"a", "b"},
	})
	require.Equal(t, "run", code.Name())
	require.Equal(t, 4, code.InstructionCount())
	require.Equal(t, op.StoreFast, code.InstructionAt(2))
	require.Equal(t, 1, code.ConstantCount())
	require.Equal(t, 2, code.LocalCount())
	require.Equal(t, "b", code.LocalNameAt(1))
	require.Equal(t, "", code.LocalNameAt(5))
	require.Equal(t, 1, code.LocationCount())
	require.Equal(t, "2:3", code.LocationAt(0).String())
	require.True(t, code.LocationAt(10).IsZero())
	require.True(t, code.LocationAt(-1).IsZero())
}

func testUnit() *Unit {
	init := NewCode(CodeParams{
		Name:         "init",
		Instructions: []op.Code{op.LoadArg, 0, op.ParseArg, op.Code(IntegerField), op.StoreField, 0, op.ReturnValue},
	})
	main := NewCode(CodeParams{
		Name:         "main",
		Instructions: []op.Code{op.NewInstance, op.InvokeRun, op.Halt},
	})
	run := NewCode(CodeParams{
		Name:         "run",
		Instructions: []op.Code{op.LoadConst, 0, op.StoreFast, 0, op.Nil, op.ReturnValue},
		Constants:    []any{int32(3)},
		Locations:    []SourceLocation{{Line: 2, Column: 3}, {Line: 2, Column: 3}, {Line: 2, Column: 1}, {Line: 2, Column: 1}},
		LocalCount:   1,
		LocalNames:   []string{"x"},
	})
	return NewUnit(UnitParams{
		Name:     "prog",
		Source:   "prog integer n {\ninteger x x := 3;\n}",
		Filename: "prog.plp",
		Fields:   []Field{{Name: "n", Type: IntegerField}},
		Init:     init,
		Main:     main,
		Run:      run,
	})
}

func TestUnitAccessors(t *testing.T) {
	unit := testUnit()
	require.Equal(t, "prog", unit.Name())
	require.Equal(t, "prog.plp", unit.Filename())
	require.Equal(t, 1, unit.FieldCount())
	require.Equal(t, Field{Name: "n", Type: IntegerField}, unit.FieldAt(0))
	require.Equal(t, "prog <integer n>", unit.Usage())
	require.Equal(t, "integer x x := 3;", unit.SourceLine(2))
	require.Equal(t, "", unit.SourceLine(0))
	require.Equal(t, "", unit.SourceLine(9))

	codes := unit.Codes()
	require.Len(t, codes, 3)
	require.Equal(t, "init", codes[0].Name())
	require.Equal(t, "main", codes[1].Name())
	require.Equal(t, "run", codes[2].Name())
}

func TestUnitID(t *testing.T) {
	unit := testUnit()
	require.NotEqual(t, uuid.Nil, unit.ID())
	require.Equal(t, UnitID("prog", unit.Source()), unit.ID())
	require.Equal(t, testUnit().ID(), unit.ID())
	require.NotEqual(t, UnitID("prog", "other"), unit.ID())
	require.EqualValues(t, 5, unit.ID().Version())

	explicit := uuid.Must(uuid.NewV4())
	require.Equal(t, explicit, NewUnit(UnitParams{ID: explicit, Name: "prog"}).ID())
}

func TestFieldTypes(t *testing.T) {
	for _, ft := range []FieldType{IntegerField, BooleanField, FileField, URLField} {
		parsed, err := ParseFieldType(ft.String())
		require.NoError(t, err)
		require.Equal(t, ft, parsed)
	}
	_, err := ParseFieldType("image")
	require.Error(t, err)
	require.Equal(t, "FieldType(9)", FieldType(9).String())
}

func TestStats(t *testing.T) {
	stats := testUnit().Stats()
	require.Equal(t, 7+3+6, stats.InstructionCount)
	require.Equal(t, 1, stats.ConstantCount)
	require.Equal(t, 1, stats.FieldCount)
	require.Equal(t, 1, stats.LocalCount)
	require.Equal(t, len(testUnit().Source()), stats.SourceBytes)
}
