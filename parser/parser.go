// Package parser is used to generate the abstract syntax tree (AST) for a program.
//
// The parser is a predictive recursive-descent parser with one method per
// grammar production. Each method starts by testing the current token
// against the PREDICT set of its alternatives, so a single token of
// lookahead selects the production everywhere except at the start of a
// statement, where an identifier followed by "<-" begins an assignment and
// any other identifier begins a pipeline. Parsing stops at the first error.
package parser

import (
	"context"

	"github.com/deepnoodle-ai/plpc/ast"
	"github.com/deepnoodle-ai/plpc/internal/lexer"
	"github.com/deepnoodle-ai/plpc/internal/token"
)

// Parse the provided input as source code and return the AST. This is
// shorthand way to scan the input and then call Parse on a new Parser.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Program, error) {
	var probe Parser
	for _, opt := range options {
		opt(&probe)
	}
	tokens, err := lexer.Scan(token.NewFile(probe.filename, input))
	if err != nil {
		return nil, err
	}
	return New(tokens, options...).Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name reported in errors when Parse scans the
// input itself.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// Parser object
type Parser struct {
	// the Context supplied in the Parse() call
	ctx context.Context

	// tokens is the complete token stream, ending with EOF
	tokens []token.Token

	// pos is the index of the current token
	pos int

	// The filename of the input
	filename string

	// Current recursion depth
	depth int

	// Maximum allowed recursion depth
	maxDepth int
}

// New returns a Parser for the given token stream. A stream that does not
// end with EOF is treated as if it did.
func New(tokens []token.Token, options ...Option) *Parser {
	p := &Parser{maxDepth: DefaultMaxDepth}
	for _, opt := range options {
		opt(p)
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		eof := token.Token{Type: token.EOF}
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1]
			eof.Offset = last.Offset + last.Length
			eof.File = last.File
		}
		tokens = append(tokens[:len(tokens):len(tokens)], eof)
	}
	p.tokens = tokens
	return p
}

// Parse consumes the whole token stream and returns the program. The
// Parser should be used only once.
func (p *Parser) Parse(ctx context.Context) (*ast.Program, error) {
	p.ctx = ctx
	program, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	if _, err := p.match(token.EOF); err != nil {
		return nil, err
	}
	return program, nil
}

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

// peek returns the token n positions after the current one. Looking past
// the end yields EOF.
func (p *Parser) peek(n int) token.Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() token.Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

// match consumes the current token if it has the given kind.
func (p *Parser) match(typ token.Type) (token.Token, error) {
	if p.cur().Type != typ {
		return token.Token{}, p.unexpected(token.NewSet(typ))
	}
	return p.advance(), nil
}

// matchAny consumes the current token if its kind is in the set.
func (p *Parser) matchAny(set token.Set) (token.Token, error) {
	if !set.Contains(p.cur().Type) {
		return token.Token{}, p.unexpected(set)
	}
	return p.advance(), nil
}

func (p *Parser) enter() error {
	if err := p.ctx.Err(); err != nil {
		return err
	}
	p.depth++
	if p.depth > p.maxDepth {
		return p.syntaxError(p.cur(), "maximum nesting depth of %d exceeded", p.maxDepth)
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// program := IDENT block | IDENT paramDec (',' paramDec)* block
func (p *Parser) parseProgram() (*ast.Program, error) {
	name, err := p.match(token.IDENT)
	if err != nil {
		return nil, err
	}
	program := &ast.Program{Name: name}
	switch {
	case p.cur().Is(token.LBRACE):
	case predictParamDec.Contains(p.cur().Type):
		for {
			param, err := p.parseParamDec()
			if err != nil {
				return nil, err
			}
			param.Index = len(program.Params)
			program.Params = append(program.Params, param)
			if !p.cur().Is(token.COMMA) {
				break
			}
			p.advance()
		}
	default:
		return nil, p.unexpected(predictProgramTail)
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	program.Block = block
	return program, nil
}

// paramDec := (url | file | integer | boolean) IDENT
func (p *Parser) parseParamDec() (*ast.ParamDec, error) {
	typ, err := p.matchAny(predictParamDec)
	if err != nil {
		return nil, err
	}
	ident, err := p.match(token.IDENT)
	if err != nil {
		return nil, err
	}
	return &ast.ParamDec{TypeToken: typ, Ident: ident}, nil
}

// dec := (integer | boolean | image | frame) IDENT
func (p *Parser) parseDec() (*ast.Dec, error) {
	typ, err := p.matchAny(predictDec)
	if err != nil {
		return nil, err
	}
	ident, err := p.match(token.IDENT)
	if err != nil {
		return nil, err
	}
	return &ast.Dec{TypeToken: typ, Ident: ident, Slot: ast.NoSlot}, nil
}

// block := '{' (dec | statement)* '}'
func (p *Parser) parseBlock() (*ast.Block, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	lbrace, err := p.match(token.LBRACE)
	if err != nil {
		return nil, err
	}
	block := &ast.Block{LBrace: lbrace}
	for {
		typ := p.cur().Type
		switch {
		case typ == token.RBRACE:
			p.advance()
			return block, nil
		case predictDec.Contains(typ):
			dec, err := p.parseDec()
			if err != nil {
				return nil, err
			}
			block.Decs = append(block.Decs, dec)
		case predictStatement.Contains(typ):
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			block.Statements = append(block.Statements, stmt)
		default:
			return nil, p.unexpected(predictBlockItem.Union(token.NewSet(token.RBRACE)))
		}
	}
}
