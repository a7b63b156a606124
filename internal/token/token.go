// Package token defines language keywords and tokens used when lexing source code.
package token

import (
	"fmt"
	"strings"
)

// Type describes the kind of a token.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// String returns the position as "line:column", 1-indexed.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.LineNumber(), p.ColumnNumber())
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Token is one lexeme of the input. Its text is not stored: fixed-spelling
// kinds use their canonical spelling and the rest slice the source in File.
type Token struct {
	Type   Type
	Offset int
	Length int
	File   *File
}

// Text returns the text of the token.
func (t Token) Text() string {
	if s, ok := spellings[t.Type]; ok {
		return s
	}
	if t.File == nil || t.Offset+t.Length > len(t.File.src) {
		return ""
	}
	return t.File.src[t.Offset : t.Offset+t.Length]
}

// Position resolves the line and column of the token's first character.
func (t Token) Position() Position {
	if t.File == nil {
		return Position{Char: t.Offset, Column: t.Offset}
	}
	return t.File.Position(t.Offset)
}

// Is reports whether the token is one of the given kinds.
func (t Token) Is(types ...Type) bool {
	for _, typ := range types {
		if t.Type == typ {
			return true
		}
	}
	return false
}

// String renders the token as KIND(text).
func (t Token) String() string {
	return fmt.Sprintf("%s(%s)", t.Type, t.Text())
}

// Token types
const (
	IDENT    Type = "IDENT"
	INT_LIT  Type = "INT_LIT"
	SEMI     Type = "SEMI"
	COMMA    Type = "COMMA"
	LPAREN   Type = "LPAREN"
	RPAREN   Type = "RPAREN"
	LBRACE   Type = "LBRACE"
	RBRACE   Type = "RBRACE"
	ARROW    Type = "ARROW"
	BARARROW Type = "BARARROW"
	OR       Type = "OR"
	AND      Type = "AND"
	EQUAL    Type = "EQUAL"
	NOTEQUAL Type = "NOTEQUAL"
	LT       Type = "LT"
	GT       Type = "GT"
	LE       Type = "LE"
	GE       Type = "GE"
	PLUS     Type = "PLUS"
	MINUS    Type = "MINUS"
	TIMES    Type = "TIMES"
	DIV      Type = "DIV"
	MOD      Type = "MOD"
	NOT      Type = "NOT"
	ASSIGN   Type = "ASSIGN"

	KW_INTEGER      Type = "KW_INTEGER"
	KW_BOOLEAN      Type = "KW_BOOLEAN"
	KW_IMAGE        Type = "KW_IMAGE"
	KW_URL          Type = "KW_URL"
	KW_FILE         Type = "KW_FILE"
	KW_FRAME        Type = "KW_FRAME"
	KW_WHILE        Type = "KW_WHILE"
	KW_IF           Type = "KW_IF"
	KW_TRUE         Type = "KW_TRUE"
	KW_FALSE        Type = "KW_FALSE"
	KW_SCREENHEIGHT Type = "KW_SCREENHEIGHT"
	KW_SCREENWIDTH  Type = "KW_SCREENWIDTH"
	KW_XLOC         Type = "KW_XLOC"
	KW_YLOC         Type = "KW_YLOC"
	KW_HIDE         Type = "KW_HIDE"
	KW_SHOW         Type = "KW_SHOW"
	KW_MOVE         Type = "KW_MOVE"
	KW_SCALE        Type = "KW_SCALE"
	OP_SLEEP        Type = "OP_SLEEP"
	OP_BLUR         Type = "OP_BLUR"
	OP_GRAY         Type = "OP_GRAY"
	OP_CONVOLVE     Type = "OP_CONVOLVE"
	OP_WIDTH        Type = "OP_WIDTH"
	OP_HEIGHT       Type = "OP_HEIGHT"

	EOF Type = "EOF"
)

// Canonical spellings of fixed-text kinds
var spellings = map[Type]string{
	SEMI:     ";",
	COMMA:    ",",
	LPAREN:   "(",
	RPAREN:   ")",
	LBRACE:   "{",
	RBRACE:   "}",
	ARROW:    "->",
	BARARROW: "|->",
	OR:       "|",
	AND:      "&",
	EQUAL:    "==",
	NOTEQUAL: "!=",
	LT:       "<",
	GT:       ">",
	LE:       "<=",
	GE:       ">=",
	PLUS:     "+",
	MINUS:    "-",
	TIMES:    "*",
	DIV:      "/",
	MOD:      "%",
	NOT:      "!",
	ASSIGN:   "<-",
	EOF:      "eof",
}

// Reserved keywords
var keywords = map[string]Type{
	"integer":      KW_INTEGER,
	"boolean":      KW_BOOLEAN,
	"image":        KW_IMAGE,
	"url":          KW_URL,
	"file":         KW_FILE,
	"frame":        KW_FRAME,
	"while":        KW_WHILE,
	"if":           KW_IF,
	"true":         KW_TRUE,
	"false":        KW_FALSE,
	"screenheight": KW_SCREENHEIGHT,
	"screenwidth":  KW_SCREENWIDTH,
	"xloc":         KW_XLOC,
	"yloc":         KW_YLOC,
	"hide":         KW_HIDE,
	"show":         KW_SHOW,
	"move":         KW_MOVE,
	"scale":        KW_SCALE,
	"sleep":        OP_SLEEP,
	"blur":         OP_BLUR,
	"gray":         OP_GRAY,
	"convolve":     OP_CONVOLVE,
	"width":        OP_WIDTH,
	"height":       OP_HEIGHT,
}

func init() {
	for word, typ := range keywords {
		spellings[typ] = word
	}
}

// LookupIdentifier used to determinate whether identifier is keyword nor not
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}

// Spelling returns the canonical text of a fixed-spelling kind, or the
// kind name itself for IDENT and INT_LIT.
func Spelling(typ Type) string {
	if s, ok := spellings[typ]; ok {
		return s
	}
	return string(typ)
}

// Set is an ordered set of token kinds, used for PREDICT sets and for
// listing expected kinds in syntax errors.
type Set []Type

// NewSet returns a Set holding the given kinds without duplicates.
func NewSet(types ...Type) Set {
	var s Set
	for _, typ := range types {
		if !s.Contains(typ) {
			s = append(s, typ)
		}
	}
	return s
}

// Union returns a new Set holding the kinds of s followed by those of other.
func (s Set) Union(other Set) Set {
	out := make(Set, 0, len(s)+len(other))
	out = append(out, s...)
	for _, typ := range other {
		if !out.Contains(typ) {
			out = append(out, typ)
		}
	}
	return out
}

// Contains reports whether typ is in the set.
func (s Set) Contains(typ Type) bool {
	for _, t := range s {
		if t == typ {
			return true
		}
	}
	return false
}

func (s Set) String() string {
	parts := make([]string, len(s))
	for i, typ := range s {
		if text, ok := spellings[typ]; ok {
			parts[i] = fmt.Sprintf("%s(%s)", typ, text)
		} else {
			parts[i] = string(typ)
		}
	}
	return strings.Join(parts, ", ")
}
