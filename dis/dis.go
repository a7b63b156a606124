// Package dis disassembles compiled units into readable instruction
// listings.
package dis

import (
	"fmt"
	"io"
	"strconv"

	"github.com/deepnoodle-ai/plpc/bytecode"
	"github.com/deepnoodle-ai/plpc/internal/table"
	"github.com/deepnoodle-ai/plpc/op"
	"github.com/fatih/color"
)

// Instruction is one decoded instruction.
type Instruction struct {
	Offset     int       `json:"offset"`
	Name       string    `json:"name"`
	Opcode     op.Code   `json:"opcode"`
	Operands   []op.Code `json:"operands,omitempty"`
	Annotation string    `json:"annotation,omitempty"`
	Line       int       `json:"line,omitempty"`
}

// Method is the disassembly of one code block of a unit.
type Method struct {
	Name         string        `json:"name"`
	Locals       []string      `json:"locals,omitempty"`
	Instructions []Instruction `json:"instructions"`
}

// Disassemble decodes every instruction of the code block.
func Disassemble(code *bytecode.Code) ([]Instruction, error) {
	return disassemble(code, nil)
}

// DisassembleUnit decodes the init, main and run methods of a unit, naming
// fields in the annotations.
func DisassembleUnit(unit *bytecode.Unit) ([]Method, error) {
	var methods []Method
	for _, code := range unit.Codes() {
		instructions, err := disassemble(code, unit)
		if err != nil {
			return nil, err
		}
		locals := make([]string, code.LocalCount())
		for i := range locals {
			locals[i] = code.LocalNameAt(i)
		}
		methods = append(methods, Method{
			Name:         code.Name(),
			Locals:       locals,
			Instructions: instructions,
		})
	}
	return methods, nil
}

func disassemble(code *bytecode.Code, unit *bytecode.Unit) ([]Instruction, error) {
	var instructions []Instruction
	offset := 0
	count := code.InstructionCount()
	for offset < count {
		opcode := code.InstructionAt(offset)
		info := op.GetInfo(opcode)
		if info.Name == "" {
			return nil, fmt.Errorf("unknown opcode %d at offset %d", opcode, offset)
		}
		if offset+info.OperandCount >= count {
			return nil, fmt.Errorf("truncated %s at offset %d", info.Name, offset)
		}
		operands := make([]op.Code, info.OperandCount)
		for i := range operands {
			operands[i] = code.InstructionAt(offset + 1 + i)
		}
		instructions = append(instructions, Instruction{
			Offset:     offset,
			Name:       info.Name,
			Opcode:     opcode,
			Operands:   operands,
			Annotation: annotate(code, unit, offset, opcode, operands),
			Line:       code.LocationAt(offset).Line,
		})
		offset += 1 + info.OperandCount
	}
	return instructions, nil
}

func fieldName(unit *bytecode.Unit, index op.Code) string {
	if unit == nil || int(index) >= unit.FieldCount() {
		return ""
	}
	return unit.FieldAt(int(index)).Name
}

func annotate(code *bytecode.Code, unit *bytecode.Unit, offset int, opcode op.Code, operands []op.Code) string {
	if jump, backward := op.IsJump(opcode); jump {
		dist := int(operands[len(operands)-1])
		target := offset + dist
		if backward {
			target = offset - dist
		}
		if opcode == op.CompareJumpForward || opcode == op.CompareJumpBackward {
			return fmt.Sprintf("if %s to %d", op.CompareOpType(operands[0]), target)
		}
		return fmt.Sprintf("to %d", target)
	}
	switch opcode {
	case op.LoadConst:
		if int(operands[0]) < code.ConstantCount() {
			return fmt.Sprint(code.ConstantAt(int(operands[0])))
		}
	case op.LoadFast, op.StoreFast:
		return code.LocalNameAt(int(operands[0]))
	case op.LoadField, op.StoreField, op.LoadArg:
		return fieldName(unit, operands[0])
	case op.BinaryOp:
		return op.BinaryOpType(operands[0]).String()
	case op.ParseArg:
		return bytecode.FieldType(operands[0]).String()
	case op.Intrinsic:
		return op.IntrinsicID(operands[0]).String()
	}
	return ""
}

// Print writes the instructions as a table.
func Print(instructions []Instruction, w io.Writer) {
	opcodeColor := color.New(color.FgCyan)
	tbl := table.NewTable(w).
		WithHeader([]string{"OFFSET", "OPCODE", "OPERANDS", "INFO"}).
		WithHeaderAlignment([]table.Alignment{table.AlignCenter, table.AlignCenter, table.AlignCenter, table.AlignCenter}).
		WithColumnAlignment([]table.Alignment{table.AlignRight, table.AlignLeft, table.AlignRight, table.AlignLeft})
	for _, instr := range instructions {
		var operands string
		for i, operand := range instr.Operands {
			if i > 0 {
				operands += " "
			}
			operands += strconv.Itoa(int(operand))
		}
		tbl.Append([]string{
			strconv.Itoa(instr.Offset),
			opcodeColor.Sprint(instr.Name),
			operands,
			instr.Annotation,
		})
	}
	tbl.Render()
}

// PrintUnit writes a summary of the unit followed by a table per method.
func PrintUnit(unit *bytecode.Unit, w io.Writer) error {
	methods, err := DisassembleUnit(unit)
	if err != nil {
		return err
	}
	title := color.New(color.Bold)
	fmt.Fprintf(w, "%s %s\n", title.Sprint("unit"), unit.Name())
	fmt.Fprintf(w, "id: %s\n", unit.ID())
	if unit.Filename() != "" {
		fmt.Fprintf(w, "file: %s\n", unit.Filename())
	}
	fmt.Fprintf(w, "usage: %s\n", unit.Usage())
	for _, m := range methods {
		fmt.Fprintf(w, "\n%s %s", title.Sprint("method"), m.Name)
		if len(m.Locals) > 0 {
			fmt.Fprintf(w, " (locals: %v)", m.Locals)
		}
		fmt.Fprintln(w)
		Print(m.Instructions, w)
	}
	return nil
}
