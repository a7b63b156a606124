package parser

import (
	"fmt"

	"github.com/deepnoodle-ai/plpc/errors"
	"github.com/deepnoodle-ai/plpc/internal/token"
)

// location converts a token to an error location, including the text of
// the line it sits on.
func location(tok token.Token) errors.Location {
	pos := tok.Position()
	loc := errors.Location{
		Filename: pos.File,
		Line:     pos.LineNumber(),
		Column:   pos.ColumnNumber(),
	}
	if tok.File != nil {
		loc.SourceLine = tok.File.Line(pos.Line)
	}
	return loc
}

// unexpected returns the SyntaxError for the current token when it is not
// in the expected set.
func (p *Parser) unexpected(expected token.Set) error {
	tok := p.cur()
	names := make([]string, len(expected))
	for i, typ := range expected {
		names[i] = string(typ)
	}
	var msg string
	if len(expected) == 1 {
		msg = fmt.Sprintf("saw %s, expected %s", tok, expected)
	} else {
		msg = fmt.Sprintf("saw %s, expected one of %s", tok, expected)
	}
	return &errors.SyntaxError{
		Message:  msg,
		Saw:      tok.String(),
		Expected: names,
		Location: location(tok),
	}
}

func (p *Parser) syntaxError(tok token.Token, format string, args ...any) error {
	return &errors.SyntaxError{
		Message:  fmt.Sprintf(format, args...),
		Saw:      tok.String(),
		Location: location(tok),
	}
}
