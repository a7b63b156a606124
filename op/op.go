// Package op defines the opcodes of the stack machine that runs compiled
// programs.
//
// An instruction is an opcode followed by its operands, all stored as Code
// values in one flat slice. Jump operands are unsigned distances measured
// from the offset of the jump opcode itself; the direction is part of the
// opcode.
package op

// Code is an integer opcode that indicates an operation to execute.
type Code uint16

const (
	Invalid Code = 0

	// Execution
	Nop         Code = 1
	Halt        Code = 2
	NewInstance Code = 3 // Build the instance from the program arguments
	InvokeRun   Code = 4 // Execute the run method of the instance
	ReturnValue Code = 5

	// Jump
	JumpForward            Code = 10
	JumpBackward           Code = 11
	PopJumpForwardIfFalse  Code = 12
	PopJumpBackwardIfFalse Code = 13
	PopJumpForwardIfTrue   Code = 14
	PopJumpBackwardIfTrue  Code = 15
	CompareJumpForward     Code = 16 // operand1=CompareOpType, operand2=distance
	CompareJumpBackward    Code = 17

	// Load
	LoadConst Code = 20
	LoadFast  Code = 21
	LoadField Code = 22
	LoadArg   Code = 23

	// Store
	StoreFast  Code = 30
	StoreField Code = 31

	// Operations
	BinaryOp  Code = 40
	ParseArg  Code = 41 // Convert the argument string at TOS to a value of the field type
	Intrinsic Code = 42

	// Stack
	Copy   Code = 70
	PopTop Code = 71

	// Push constants
	Nil   Code = 80
	False Code = 81
	True  Code = 82
)

// BinaryOpType describes a type of binary operation, as in an operation that
// takes two operands. For example, addition, subtraction, multiplication, etc.
type BinaryOpType uint16

const (
	Add      BinaryOpType = 1
	Subtract BinaryOpType = 2
	Multiply BinaryOpType = 3
	Divide   BinaryOpType = 4
	Modulo   BinaryOpType = 5
	And      BinaryOpType = 6
	Or       BinaryOpType = 7
)

// String returns a string representation of the binary operation.
// For example "+" for addition.
func (bop BinaryOpType) String() string {
	switch bop {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Modulo:
		return "%"
	case And:
		return "&"
	case Or:
		return "|"
	default:
		return ""
	}
}

// CompareOpType describes a type of comparison operation. For example, less
// than, greater than, equal, etc.
type CompareOpType uint16

const (
	LessThan           CompareOpType = 1
	LessThanOrEqual    CompareOpType = 2
	Equal              CompareOpType = 3
	NotEqual           CompareOpType = 4
	GreaterThan        CompareOpType = 5
	GreaterThanOrEqual CompareOpType = 6
)

// String returns a string representation of the comparison operation.
// For example "<" for less than.
func (cop CompareOpType) String() string {
	switch cop {
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	default:
		return ""
	}
}

// Negate returns the comparison that holds exactly when cop does not.
func (cop CompareOpType) Negate() CompareOpType {
	switch cop {
	case LessThan:
		return GreaterThanOrEqual
	case LessThanOrEqual:
		return GreaterThan
	case Equal:
		return NotEqual
	case NotEqual:
		return Equal
	case GreaterThan:
		return LessThanOrEqual
	case GreaterThanOrEqual:
		return LessThan
	default:
		return cop
	}
}

// IntrinsicID selects one of the built-in operations on images, frames and
// the screen. Intrinsics pop their inputs and push exactly one result.
type IntrinsicID uint16

const (
	ReadFile     IntrinsicID = 1  // file -> image
	ReadURL      IntrinsicID = 2  // url -> image
	Write        IntrinsicID = 3  // image, file -> image
	SetFrame     IntrinsicID = 4  // image, frame -> frame
	Show         IntrinsicID = 5  // frame -> frame
	Hide         IntrinsicID = 6  // frame -> frame
	Move         IntrinsicID = 7  // frame, x, y -> frame
	XLoc         IntrinsicID = 8  // frame -> integer
	YLoc         IntrinsicID = 9  // frame -> integer
	ScreenWidth  IntrinsicID = 10 // -> integer
	ScreenHeight IntrinsicID = 11 // -> integer
	Blur         IntrinsicID = 12 // image, inPlace -> image
	Gray         IntrinsicID = 13 // image, inPlace -> image
	Convolve     IntrinsicID = 14 // image, inPlace -> image
	Scale        IntrinsicID = 15 // image, factor -> image
	Width        IntrinsicID = 16 // image -> integer
	Height       IntrinsicID = 17 // image -> integer
	Sleep        IntrinsicID = 18 // milliseconds -> nil
)

var intrinsicNames = map[IntrinsicID]string{
	ReadFile:     "read_file",
	ReadURL:      "read_url",
	Write:        "write",
	SetFrame:     "set_frame",
	Show:         "show",
	Hide:         "hide",
	Move:         "move",
	XLoc:         "xloc",
	YLoc:         "yloc",
	ScreenWidth:  "screen_width",
	ScreenHeight: "screen_height",
	Blur:         "blur",
	Gray:         "gray",
	Convolve:     "convolve",
	Scale:        "scale",
	Width:        "width",
	Height:       "height",
	Sleep:        "sleep",
}

func (id IntrinsicID) String() string {
	return intrinsicNames[id]
}

// Info contains information about an opcode.
type Info struct {
	Code         Code
	Name         string
	OperandCount int
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op    Code
		name  string
		count int
	}
	ops := []opInfo{
		{BinaryOp, "BINARY_OP", 1},
		{CompareJumpBackward, "COMPARE_JUMP_BACKWARD", 2},
		{CompareJumpForward, "COMPARE_JUMP_FORWARD", 2},
		{Copy, "COPY", 1},
		{False, "FALSE", 0},
		{Halt, "HALT", 0},
		{Intrinsic, "INTRINSIC", 1},
		{InvokeRun, "INVOKE_RUN", 0},
		{JumpBackward, "JUMP_BACKWARD", 1},
		{JumpForward, "JUMP_FORWARD", 1},
		{LoadArg, "LOAD_ARG", 1},
		{LoadConst, "LOAD_CONST", 1},
		{LoadFast, "LOAD_FAST", 1},
		{LoadField, "LOAD_FIELD", 1},
		{NewInstance, "NEW_INSTANCE", 0},
		{Nil, "NIL", 0},
		{Nop, "NOP", 0},
		{ParseArg, "PARSE_ARG", 1},
		{PopJumpBackwardIfFalse, "POP_JUMP_BACKWARD_IF_FALSE", 1},
		{PopJumpBackwardIfTrue, "POP_JUMP_BACKWARD_IF_TRUE", 1},
		{PopJumpForwardIfFalse, "POP_JUMP_FORWARD_IF_FALSE", 1},
		{PopJumpForwardIfTrue, "POP_JUMP_FORWARD_IF_TRUE", 1},
		{PopTop, "POP_TOP", 0},
		{ReturnValue, "RETURN_VALUE", 0},
		{StoreFast, "STORE_FAST", 1},
		{StoreField, "STORE_FIELD", 1},
		{True, "TRUE", 0},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Name:         o.name,
			Code:         o.op,
			OperandCount: o.count,
		}
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(op Code) Info {
	if int(op) >= len(infos) {
		return Info{}
	}
	return infos[op]
}

// IsJump reports whether the opcode transfers control, and if so whether it
// jumps backward. The distance is always its last operand.
func IsJump(code Code) (jump, backward bool) {
	switch code {
	case JumpForward, PopJumpForwardIfFalse, PopJumpForwardIfTrue, CompareJumpForward:
		return true, false
	case JumpBackward, PopJumpBackwardIfFalse, PopJumpBackwardIfTrue, CompareJumpBackward:
		return true, true
	}
	return false, false
}
