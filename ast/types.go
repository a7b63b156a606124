package ast

import "github.com/deepnoodle-ai/plpc/internal/token"

// Type is the static type of a declaration, expression or chain.
type Type int

const (
	NONE Type = iota
	INTEGER
	BOOLEAN
	IMAGE
	FRAME
	FILE
	URL
)

var typeNames = [...]string{
	NONE:    "NONE",
	INTEGER: "INTEGER",
	BOOLEAN: "BOOLEAN",
	IMAGE:   "IMAGE",
	FRAME:   "FRAME",
	FILE:    "FILE",
	URL:     "URL",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "UNKNOWN"
	}
	return typeNames[t]
}

// TypeOf maps a type keyword to its Type. Any other token maps to NONE.
func TypeOf(kind token.Type) Type {
	switch kind {
	case token.KW_INTEGER:
		return INTEGER
	case token.KW_BOOLEAN:
		return BOOLEAN
	case token.KW_IMAGE:
		return IMAGE
	case token.KW_FRAME:
		return FRAME
	case token.KW_FILE:
		return FILE
	case token.KW_URL:
		return URL
	default:
		return NONE
	}
}
