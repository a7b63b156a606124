package bytecode

import (
	"fmt"

	"github.com/deepnoodle-ai/plpc/op"
)

// SourceLocation is the line and column an instruction was generated from.
// The zero value means the instruction has no source position, as is the
// case for the synthesized Init and Main blocks.
type SourceLocation struct {
	Line   int // 1-based line number
	Column int // 1-based column number
}

func (s SourceLocation) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}

// Code is one compiled method of a unit. It is immutable after creation and
// safe for concurrent use.
type Code struct {
	name         string
	instructions []op.Code
	constants    []any

	// One location per instruction word
	locations []SourceLocation

	localCount int

	// Local variable names by slot, for disassembly
	localNames []string
}

// CodeParams contains parameters for creating a new Code.
type CodeParams struct {
	Name         string
	Instructions []op.Code
	Constants    []any
	Locations    []SourceLocation
	LocalCount   int
	LocalNames   []string
}

// NewCode creates a new immutable Code from the given parameters.
// Input slices are copied.
func NewCode(params CodeParams) *Code {
	return &Code{
		name:         params.Name,
		instructions: copyInstructions(params.Instructions),
		constants:    copyAny(params.Constants),
		locations:    copyLocations(params.Locations),
		localCount:   params.LocalCount,
		localNames:   copyStrings(params.LocalNames),
	}
}

// Name returns the name of this code block: "init", "main" or "run".
func (c *Code) Name() string {
	return c.name
}

// InstructionCount returns the number of instruction words, counting
// opcodes and operands alike.
func (c *Code) InstructionCount() int {
	return len(c.instructions)
}

// InstructionAt returns the instruction word at the given index.
func (c *Code) InstructionAt(index int) op.Code {
	return c.instructions[index]
}

// ConstantCount returns the number of constants.
func (c *Code) ConstantCount() int {
	return len(c.constants)
}

// ConstantAt returns the constant at the given index.
func (c *Code) ConstantAt(index int) any {
	return c.constants[index]
}

// LocalCount returns the number of local variable slots.
func (c *Code) LocalCount() int {
	return c.localCount
}

// LocalNameAt returns the name declared for a local slot, or an empty
// string if the index is out of range.
func (c *Code) LocalNameAt(index int) string {
	if index < 0 || index >= len(c.localNames) {
		return ""
	}
	return c.localNames[index]
}

// LocationAt returns the source location for the instruction at the given index.
func (c *Code) LocationAt(ip int) SourceLocation {
	if ip < 0 || ip >= len(c.locations) {
		return SourceLocation{}
	}
	return c.locations[ip]
}

// LocationCount returns the number of recorded source locations.
func (c *Code) LocationCount() int {
	return len(c.locations)
}
