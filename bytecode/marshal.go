package bytecode

import (
	"encoding/json"
	"fmt"

	"github.com/deepnoodle-ai/plpc/op"
	"github.com/gofrs/uuid"
)

// FormatVersion is written into every artifact. Unmarshal rejects other
// versions.
const FormatVersion = 1

// Marshal converts a Unit into its JSON artifact representation.
func Marshal(unit *Unit) ([]byte, error) {
	state, err := stateFromUnit(unit)
	if err != nil {
		return nil, err
	}
	return json.Marshal(state)
}

// Unmarshal converts a JSON artifact into a Unit.
func Unmarshal(data []byte) (*Unit, error) {
	var state unitState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return unitFromState(&state)
}

// Serialization types

type constantDef struct {
	Type string `json:"type"`
}

type intConstantDef struct {
	Type  string `json:"type"`
	Value int64  `json:"value"`
}

type boolConstantDef struct {
	Type  string `json:"type"`
	Value bool   `json:"value"`
}

type stringConstantDef struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type locationDef struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type fieldDef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type codeDef struct {
	Name         string            `json:"name"`
	Instructions []op.Code         `json:"instructions"`
	Constants    []json.RawMessage `json:"constants"`
	Locations    []locationDef     `json:"locations,omitempty"`
	LocalCount   int               `json:"local_count"`
	LocalNames   []string          `json:"local_names,omitempty"`
}

type unitState struct {
	Version  int        `json:"version"`
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Source   string     `json:"source,omitempty"`
	Filename string     `json:"filename,omitempty"`
	Fields   []fieldDef `json:"fields"`
	Init     *codeDef   `json:"init"`
	Main     *codeDef   `json:"main"`
	Run      *codeDef   `json:"run"`
}

func stateFromUnit(unit *Unit) (*unitState, error) {
	state := &unitState{
		Version:  FormatVersion,
		ID:       unit.ID().String(),
		Name:     unit.Name(),
		Source:   unit.Source(),
		Filename: unit.Filename(),
		Fields:   make([]fieldDef, unit.FieldCount()),
	}
	for i := 0; i < unit.FieldCount(); i++ {
		f := unit.FieldAt(i)
		state.Fields[i] = fieldDef{Name: f.Name, Type: f.Type.String()}
	}
	var err error
	if state.Init, err = defFromCode(unit.Init()); err != nil {
		return nil, err
	}
	if state.Main, err = defFromCode(unit.Main()); err != nil {
		return nil, err
	}
	if state.Run, err = defFromCode(unit.Run()); err != nil {
		return nil, err
	}
	return state, nil
}

func defFromCode(c *Code) (*codeDef, error) {
	if c == nil {
		return nil, fmt.Errorf("unit is missing a code block")
	}
	constants, err := marshalConstants(c)
	if err != nil {
		return nil, err
	}
	instructions := make([]op.Code, c.InstructionCount())
	for j := 0; j < c.InstructionCount(); j++ {
		instructions[j] = c.InstructionAt(j)
	}
	locations := make([]locationDef, c.LocationCount())
	for j := 0; j < c.LocationCount(); j++ {
		loc := c.LocationAt(j)
		locations[j] = locationDef{Line: loc.Line, Column: loc.Column}
	}
	var localNames []string
	for j := 0; j < c.LocalCount(); j++ {
		localNames = append(localNames, c.LocalNameAt(j))
	}
	return &codeDef{
		Name:         c.Name(),
		Instructions: instructions,
		Constants:    constants,
		Locations:    locations,
		LocalCount:   c.LocalCount(),
		LocalNames:   localNames,
	}, nil
}

func marshalConstants(c *Code) ([]json.RawMessage, error) {
	constants := make([]json.RawMessage, c.ConstantCount())
	for i := 0; i < c.ConstantCount(); i++ {
		var def any
		switch v := c.ConstantAt(i).(type) {
		case int32:
			def = intConstantDef{Type: "int", Value: int64(v)}
		case bool:
			def = boolConstantDef{Type: "bool", Value: v}
		case string:
			def = stringConstantDef{Type: "string", Value: v}
		default:
			return nil, fmt.Errorf("unsupported constant type: %T", v)
		}
		data, err := json.Marshal(def)
		if err != nil {
			return nil, err
		}
		constants[i] = data
	}
	return constants, nil
}

func unitFromState(state *unitState) (*Unit, error) {
	if state.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported artifact version %d (expected %d)", state.Version, FormatVersion)
	}
	id, err := uuid.FromString(state.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid unit id: %w", err)
	}
	fields := make([]Field, len(state.Fields))
	for i, f := range state.Fields {
		typ, err := ParseFieldType(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		fields[i] = Field{Name: f.Name, Type: typ}
	}
	codes := make([]*Code, 3)
	for i, def := range []*codeDef{state.Init, state.Main, state.Run} {
		if def == nil {
			return nil, fmt.Errorf("artifact is missing a code block")
		}
		if codes[i], err = codeFromDef(def); err != nil {
			return nil, err
		}
	}
	return NewUnit(UnitParams{
		ID:       id,
		Name:     state.Name,
		Source:   state.Source,
		Filename: state.Filename,
		Fields:   fields,
		Init:     codes[0],
		Main:     codes[1],
		Run:      codes[2],
	}), nil
}

func codeFromDef(def *codeDef) (*Code, error) {
	constants, err := unmarshalConstants(def.Constants)
	if err != nil {
		return nil, fmt.Errorf("code %s: %w", def.Name, err)
	}
	locations := make([]SourceLocation, len(def.Locations))
	for i, loc := range def.Locations {
		locations[i] = SourceLocation{Line: loc.Line, Column: loc.Column}
	}
	return NewCode(CodeParams{
		Name:         def.Name,
		Instructions: def.Instructions,
		Constants:    constants,
		Locations:    locations,
		LocalCount:   def.LocalCount,
		LocalNames:   def.LocalNames,
	}), nil
}

func unmarshalConstants(raw []json.RawMessage) ([]any, error) {
	constants := make([]any, len(raw))
	for i, data := range raw {
		var def constantDef
		if err := json.Unmarshal(data, &def); err != nil {
			return nil, err
		}
		switch def.Type {
		case "int":
			var c intConstantDef
			if err := json.Unmarshal(data, &c); err != nil {
				return nil, err
			}
			constants[i] = int32(c.Value)
		case "bool":
			var c boolConstantDef
			if err := json.Unmarshal(data, &c); err != nil {
				return nil, err
			}
			constants[i] = c.Value
		case "string":
			var c stringConstantDef
			if err := json.Unmarshal(data, &c); err != nil {
				return nil, err
			}
			constants[i] = c.Value
		default:
			return nil, fmt.Errorf("unsupported constant type: %s", def.Type)
		}
	}
	return constants, nil
}
