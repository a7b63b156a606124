// Package lexer converts source text into a stream of tokens.
//
// The scanner is a deterministic finite automaton that consumes one byte at
// a time. Every state either consumes the byte and moves to another state,
// or emits a token without consuming it. Newlines are recorded in the
// token.File line index as they are seen, so positions of tokens can later
// be resolved with a binary search.
package lexer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/deepnoodle-ai/plpc/errors"
	"github.com/deepnoodle-ai/plpc/internal/token"
)

type state int

const (
	stateStart       state = iota
	stateIdent             // identifier run
	stateDigits            // integer literal after a non-zero first digit
	stateMinus             // saw '-'
	stateLess              // saw '<'
	stateGreater           // saw '>'
	stateBang              // saw '!'
	stateEqual             // saw '='
	stateBar               // saw '|'
	stateSlash             // saw '/'
	stateComment           // inside /* */
	stateCommentStar       // inside a comment, just saw '*'
)

// Lexer produces tokens from a single source file.
type Lexer struct {
	file *token.File
	src  string
	pos  int
	done bool
}

// New returns a Lexer reading the given file.
func New(file *token.File) *Lexer {
	return &Lexer{file: file, src: file.Source()}
}

// Scan tokenizes the whole file. The returned slice always ends with
// exactly one EOF token.
func Scan(file *token.File) ([]token.Token, error) {
	l := New(file)
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

// ScanString tokenizes source text that has no filename.
func ScanString(src string) ([]token.Token, error) {
	return Scan(token.NewFile("", src))
}

// Next returns the next token. Once EOF has been returned, every later
// call returns EOF again.
func (l *Lexer) Next() (token.Token, error) {
	if l.done {
		return l.token(token.EOF, len(l.src), 0), nil
	}
	st := stateStart
	start := l.pos
	for {
		eof := l.pos >= len(l.src)
		var ch byte
		if !eof {
			ch = l.src[l.pos]
		}
		switch st {
		case stateStart:
			if eof {
				l.done = true
				return l.token(token.EOF, l.pos, 0), nil
			}
			start = l.pos
			l.pos++
			switch {
			case ch == '\n':
				l.file.AddLine(l.pos)
			case isSpace(ch):
			case ch == '0':
				return l.token(token.INT_LIT, start, 1), nil
			case isDigit(ch):
				st = stateDigits
			case isIdentStart(ch):
				st = stateIdent
			case ch == '-':
				st = stateMinus
			case ch == '<':
				st = stateLess
			case ch == '>':
				st = stateGreater
			case ch == '!':
				st = stateBang
			case ch == '=':
				st = stateEqual
			case ch == '|':
				st = stateBar
			case ch == '/':
				st = stateSlash
			default:
				if typ, ok := singles[ch]; ok {
					return l.token(typ, start, 1), nil
				}
				return token.Token{}, l.errorAt(errors.IllegalCharacter, start,
					"unexpected character %s", quoteByte(ch))
			}
		case stateIdent:
			if !eof && isIdentPart(ch) {
				l.pos++
				continue
			}
			text := l.src[start:l.pos]
			return l.token(token.LookupIdentifier(text), start, l.pos-start), nil
		case stateDigits:
			if !eof && isDigit(ch) {
				l.pos++
				continue
			}
			text := l.src[start:l.pos]
			if v, err := strconv.ParseInt(text, 10, 64); err != nil || v > math.MaxInt32 {
				return token.Token{}, l.errorAt(errors.IllegalNumber, start,
					"%s does not fit in a 32-bit integer", text)
			}
			return l.token(token.INT_LIT, start, l.pos-start), nil
		case stateMinus:
			if ch == '>' && !eof {
				l.pos++
				return l.token(token.ARROW, start, 2), nil
			}
			return l.token(token.MINUS, start, 1), nil
		case stateLess:
			if !eof && ch == '-' {
				l.pos++
				return l.token(token.ASSIGN, start, 2), nil
			}
			if !eof && ch == '=' {
				l.pos++
				return l.token(token.LE, start, 2), nil
			}
			return l.token(token.LT, start, 1), nil
		case stateGreater:
			if !eof && ch == '=' {
				l.pos++
				return l.token(token.GE, start, 2), nil
			}
			return l.token(token.GT, start, 1), nil
		case stateBang:
			if !eof && ch == '=' {
				l.pos++
				return l.token(token.NOTEQUAL, start, 2), nil
			}
			return l.token(token.NOT, start, 1), nil
		case stateEqual:
			if !eof && ch == '=' {
				l.pos++
				return l.token(token.EQUAL, start, 2), nil
			}
			return token.Token{}, l.errorAt(errors.IllegalCharacter, start,
				"unexpected character '=' (use '==' to compare or '<-' to assign)")
		case stateBar:
			// "|->" needs two characters of lookahead; "|-" alone is OR, MINUS
			if !eof && ch == '-' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '>' {
				l.pos += 2
				return l.token(token.BARARROW, start, 3), nil
			}
			return l.token(token.OR, start, 1), nil
		case stateSlash:
			if !eof && ch == '*' {
				l.pos++
				st = stateComment
				continue
			}
			return l.token(token.DIV, start, 1), nil
		case stateComment, stateCommentStar:
			if eof {
				return token.Token{}, l.errorAt(errors.IllegalCharacter, start,
					"comment is never closed")
			}
			l.pos++
			switch {
			case ch == '\n':
				l.file.AddLine(l.pos)
				st = stateComment
			case ch == '*':
				st = stateCommentStar
			case ch == '/' && st == stateCommentStar:
				st = stateStart
			default:
				st = stateComment
			}
		}
	}
}

func (l *Lexer) token(typ token.Type, offset, length int) token.Token {
	return token.Token{Type: typ, Offset: offset, Length: length, File: l.file}
}

func (l *Lexer) errorAt(kind errors.LexErrorKind, offset int, format string, args ...any) error {
	pos := l.file.Position(offset)
	loc := errors.Location{
		Filename:   l.file.Name(),
		Line:       pos.LineNumber(),
		Column:     pos.ColumnNumber(),
		SourceLine: l.file.Line(pos.Line),
	}
	return errors.NewLexError(kind, loc, format, args...)
}

var singles = map[byte]token.Type{
	';': token.SEMI,
	',': token.COMMA,
	'(': token.LPAREN,
	')': token.RPAREN,
	'{': token.LBRACE,
	'}': token.RBRACE,
	'&': token.AND,
	'+': token.PLUS,
	'*': token.TIMES,
	'%': token.MOD,
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isIdentStart(ch byte) bool {
	return isLetter(ch) || ch == '$' || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func quoteByte(ch byte) string {
	if ch < 0x20 || ch >= 0x7f {
		return fmt.Sprintf("0x%02x", ch)
	}
	return fmt.Sprintf("'%c'", ch)
}
