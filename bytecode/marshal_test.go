package bytecode

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	unit := testUnit()
	data, err := Marshal(unit)
	require.NoError(t, err)

	restored, err := Unmarshal(data)
	require.NoError(t, err)

	require.Equal(t, unit.ID(), restored.ID())
	require.Equal(t, unit.Name(), restored.Name())
	require.Equal(t, unit.Source(), restored.Source())
	require.Equal(t, unit.Filename(), restored.Filename())
	require.Equal(t, unit.FieldAt(0), restored.FieldAt(0))
	require.Equal(t, unit.Usage(), restored.Usage())

	for i, code := range unit.Codes() {
		got := restored.Codes()[i]
		require.Equal(t, code.Name(), got.Name())
		require.Equal(t, code.InstructionCount(), got.InstructionCount())
		for ip := 0; ip < code.InstructionCount(); ip++ {
			require.Equal(t, code.InstructionAt(ip), got.InstructionAt(ip))
		}
		require.Equal(t, code.ConstantCount(), got.ConstantCount())
		for j := 0; j < code.ConstantCount(); j++ {
			require.Equal(t, code.ConstantAt(j), got.ConstantAt(j))
		}
		require.Equal(t, code.LocationCount(), got.LocationCount())
		require.Equal(t, code.LocalCount(), got.LocalCount())
	}
	require.Equal(t, int32(3), restored.Run().ConstantAt(0))
	require.Equal(t, "x", restored.Run().LocalNameAt(0))
	require.Equal(t, SourceLocation{Line: 2, Column: 3}, restored.Run().LocationAt(0))
}

func TestMarshalFormat(t *testing.T) {
	data, err := Marshal(testUnit())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	require.EqualValues(t, FormatVersion, doc["version"])
	require.Equal(t, testUnit().ID().String(), doc["id"])

	fields := doc["fields"].([]any)
	require.Equal(t, map[string]any{"name": "n", "type": "integer"}, fields[0])

	run := doc["run"].(map[string]any)
	constants := run["constants"].([]any)
	require.Equal(t, map[string]any{"type": "int", "value": float64(3)}, constants[0])
}

func TestMarshalConstantTypes(t *testing.T) {
	run := NewCode(CodeParams{Name: "run", Constants: []any{int32(-5), true, "s"}})
	unit := NewUnit(UnitParams{Name: "p", Init: run, Main: run, Run: run})
	data, err := Marshal(unit)
	require.NoError(t, err)
	restored, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, int32(-5), restored.Run().ConstantAt(0))
	require.Equal(t, true, restored.Run().ConstantAt(1))
	require.Equal(t, "s", restored.Run().ConstantAt(2))

	bad := NewCode(CodeParams{Name: "run", Constants: []any{3.5}})
	_, err = Marshal(NewUnit(UnitParams{Name: "p", Init: bad, Main: bad, Run: bad}))
	require.ErrorContains(t, err, "unsupported constant type: float64")
}

func TestMarshalMissingCode(t *testing.T) {
	_, err := Marshal(NewUnit(UnitParams{Name: "p"}))
	require.ErrorContains(t, err, "missing a code block")
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"syntax", `{`, "unexpected end of JSON input"},
		{"version", `{"version": 7}`, "unsupported artifact version 7 (expected 1)"},
		{"id", `{"version": 1, "id": "nope"}`, "invalid unit id"},
		{"field", `{"version": 1, "id": "6ba7b811-9dad-11d1-80b4-00c04fd430c8", "fields": [{"name": "a", "type": "image"}]}`, `field a: unknown field type "image"`},
		{"code", `{"version": 1, "id": "6ba7b811-9dad-11d1-80b4-00c04fd430c8", "fields": []}`, "missing a code block"},
		{"constant", `{"version": 1, "id": "6ba7b811-9dad-11d1-80b4-00c04fd430c8",
			"init": {"name": "init", "constants": [{"type": "float"}]},
			"main": {"name": "main"}, "run": {"name": "run"}}`, "code init: unsupported constant type: float"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.input))
			require.ErrorContains(t, err, tt.want)
		})
	}
}
