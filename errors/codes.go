package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Lex errors
//   - E2xxx: Syntax errors
//   - E3xxx: Type errors
//   - E4xxx: Runtime errors
type ErrorCode string

const (
	// Lex errors (E1xxx)
	E1001 ErrorCode = "E1001" // Illegal character
	E1002 ErrorCode = "E1002" // Illegal number

	// Syntax errors (E2xxx)
	E2001 ErrorCode = "E2001" // Unexpected token

	// Type errors (E3xxx)
	E3001 ErrorCode = "E3001" // Redeclaration in the same scope
	E3002 ErrorCode = "E3002" // Undeclared identifier
	E3003 ErrorCode = "E3003" // Type mismatch
	E3004 ErrorCode = "E3004" // Invalid pipeline stage
	E3005 ErrorCode = "E3005" // Wrong argument count
	E3006 ErrorCode = "E3006" // Non-integer argument

	// Runtime errors (E4xxx)
	E4001 ErrorCode = "E4001" // Invalid program argument
	E4002 ErrorCode = "E4002" // Division by zero
	E4003 ErrorCode = "E4003" // Image I/O failure
	E4004 ErrorCode = "E4004" // Nil reference
	E4005 ErrorCode = "E4005" // Stack overflow
	E4006 ErrorCode = "E4006" // Invalid operation
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E1001: "illegal character",
	E1002: "illegal number",

	E2001: "unexpected token",

	E3001: "redeclaration",
	E3002: "undeclared identifier",
	E3003: "type mismatch",
	E3004: "invalid pipeline stage",
	E3005: "wrong argument count",
	E3006: "non-integer argument",

	E4001: "invalid program argument",
	E4002: "division by zero",
	E4003: "image i/o failure",
	E4004: "nil reference",
	E4005: "stack overflow",
	E4006: "invalid operation",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "lex"
	case '2':
		return "syntax"
	case '3':
		return "type"
	case '4':
		return "runtime"
	default:
		return "unknown"
	}
}
