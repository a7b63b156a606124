// Package errors defines the diagnostics produced while compiling and
// running programs. Every phase fails on its first error, so each error
// describes exactly one problem at one source location.
package errors

import (
	"fmt"
	"strings"
)

// Location represents a position in source code.
type Location struct {
	Filename   string
	Line       int    // 1-based line number
	Column     int    // 1-based column number
	SourceLine string // The line of source code
}

// String returns a formatted string representation of the source location.
func (l Location) String() string {
	if l.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", l.Filename, l.Line, l.Column)
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// IsZero returns true if the location has not been set.
func (l Location) IsZero() bool {
	return l.Line == 0 && l.Column == 0
}

// FriendlyError is an interface for errors that have a human friendly message
// in addition to a the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be formatted with
// the enhanced error formatter (with colors, source context, etc).
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}

func describe(label, message string, loc Location) string {
	var b strings.Builder
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(message)
	if !loc.IsZero() {
		b.WriteString(" (")
		b.WriteString(loc.String())
		b.WriteString(")")
	}
	return b.String()
}

func formatted(code ErrorCode, kind, message string, loc Location) *FormattedError {
	fe := &FormattedError{
		Code:     code,
		Kind:     kind,
		Message:  message,
		Filename: loc.Filename,
		Line:     loc.Line,
		Column:   loc.Column,
	}
	if loc.SourceLine != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: loc.Line, Text: loc.SourceLine, IsMain: true},
		}
	}
	return fe
}

// LexErrorKind distinguishes the two ways scanning can fail.
type LexErrorKind string

const (
	IllegalCharacter LexErrorKind = "illegal character"
	IllegalNumber    LexErrorKind = "illegal number"
)

// LexError is raised when a character matches no transition of the scanner
// or an integer literal does not fit in 32 bits.
type LexError struct {
	Kind    LexErrorKind
	Message string
	Location
}

// NewLexError returns a LexError of the given kind.
func NewLexError(kind LexErrorKind, loc Location, format string, args ...any) *LexError {
	return &LexError{Kind: kind, Message: fmt.Sprintf(format, args...), Location: loc}
}

func (e *LexError) Error() string {
	return describe(string(e.Kind), e.Message, e.Location)
}

// Code returns E1001 for illegal characters and E1002 for illegal numbers.
func (e *LexError) Code() ErrorCode {
	if e.Kind == IllegalNumber {
		return E1002
	}
	return E1001
}

func (e *LexError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

func (e *LexError) ToFormatted() *FormattedError {
	return formatted(e.Code(), string(e.Kind), e.Message, e.Location)
}

// SyntaxError is raised on the first token the grammar does not allow.
type SyntaxError struct {
	Message  string
	Saw      string   // KIND(text) of the offending token
	Expected []string // every kind that would have been accepted
	Location
}

func (e *SyntaxError) Error() string {
	return describe("syntax error", e.Message, e.Location)
}

func (e *SyntaxError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

func (e *SyntaxError) ToFormatted() *FormattedError {
	return formatted(E2001, "syntax error", e.Message, e.Location)
}

// TypeError is raised by the checker on the first violated typing rule.
type TypeError struct {
	Code        ErrorCode
	Message     string
	Suggestions []Suggestion
	Location
}

// TypeErrorf returns a TypeError with a formatted message.
func TypeErrorf(code ErrorCode, loc Location, format string, args ...any) *TypeError {
	return &TypeError{Code: code, Message: fmt.Sprintf(format, args...), Location: loc}
}

func (e *TypeError) Error() string {
	return describe("type error", e.Message, e.Location)
}

func (e *TypeError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

func (e *TypeError) ToFormatted() *FormattedError {
	fe := formatted(e.Code, "type error", e.Message, e.Location)
	if len(e.Suggestions) > 0 {
		fe.Hint = FormatSuggestions(e.Suggestions)
	}
	return fe
}

// RuntimeError is raised while a compiled unit executes.
type RuntimeError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Location
}

// RuntimeErrorf returns a RuntimeError with a formatted message.
func RuntimeErrorf(code ErrorCode, format string, args ...any) *RuntimeError {
	return &RuntimeError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *RuntimeError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	return describe("runtime error", msg, e.Location)
}

func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

func (e *RuntimeError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

func (e *RuntimeError) ToFormatted() *FormattedError {
	msg := e.Message
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	return formatted(e.Code, "runtime error", msg, e.Location)
}

// InternalError indicates a broken invariant inside the compiler, such as
// generating code for a tree that was never checked. It is never caused by
// user input that passed the earlier phases.
type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return "internal error: " + e.Message + ": " + e.Cause.Error()
	}
	return "internal error: " + e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}
