package checker

import (
	"github.com/deepnoodle-ai/plpc/ast"
	"github.com/deepnoodle-ai/plpc/internal/token"
)

type operands struct {
	left, right ast.Type
}

// binaryRules gives the result type of every operator allowed on a pair of
// operand types. Equality is handled separately since it accepts any pair
// of identical types.
var binaryRules = map[operands]map[token.Type]ast.Type{
	{ast.INTEGER, ast.INTEGER}: {
		token.PLUS:  ast.INTEGER,
		token.MINUS: ast.INTEGER,
		token.TIMES: ast.INTEGER,
		token.DIV:   ast.INTEGER,
		token.MOD:   ast.INTEGER,
		token.LT:    ast.BOOLEAN,
		token.GT:    ast.BOOLEAN,
		token.LE:    ast.BOOLEAN,
		token.GE:    ast.BOOLEAN,
	},
	{ast.BOOLEAN, ast.BOOLEAN}: {
		token.LT:  ast.BOOLEAN,
		token.GT:  ast.BOOLEAN,
		token.LE:  ast.BOOLEAN,
		token.GE:  ast.BOOLEAN,
		token.AND: ast.BOOLEAN,
		token.OR:  ast.BOOLEAN,
	},
	{ast.IMAGE, ast.IMAGE}: {
		token.PLUS:  ast.IMAGE,
		token.MINUS: ast.IMAGE,
	},
	{ast.IMAGE, ast.INTEGER}: {
		token.TIMES: ast.IMAGE,
		token.DIV:   ast.IMAGE,
		token.MOD:   ast.IMAGE,
	},
	{ast.INTEGER, ast.IMAGE}: {
		token.TIMES: ast.IMAGE,
	},
}

// binaryResult returns the type of "left op right".
func binaryResult(left ast.Type, op token.Type, right ast.Type) (ast.Type, bool) {
	if op == token.EQUAL || op == token.NOTEQUAL {
		if left != right {
			return ast.NONE, false
		}
		return ast.BOOLEAN, true
	}
	ops, ok := binaryRules[operands{left, right}]
	if !ok {
		return ast.NONE, false
	}
	result, ok := ops[op]
	return result, ok
}

// transition returns the type of a pipeline after the value it carries, of
// type current, passes through stage next over the given arrow.
func transition(current ast.Type, arrow token.Type, next ast.ChainElem) (ast.Type, bool) {
	// Only filters accept the copying arrow
	if arrow == token.BARARROW {
		if _, ok := next.(*ast.FilterOpChain); ok && current == ast.IMAGE {
			return ast.IMAGE, true
		}
		return ast.NONE, false
	}
	switch current {
	case ast.URL, ast.FILE:
		if next.Type() == ast.IMAGE {
			return ast.IMAGE, true
		}
	case ast.IMAGE:
		switch n := next.(type) {
		case *ast.FilterOpChain:
			return ast.IMAGE, true
		case *ast.ImageOpChain:
			return n.Type(), true
		case *ast.IdentChain:
			switch n.Type() {
			case ast.IMAGE:
				return ast.IMAGE, true
			case ast.FRAME:
				return ast.FRAME, true
			case ast.FILE:
				return ast.NONE, true
			}
		}
	case ast.FRAME:
		if n, ok := next.(*ast.FrameOpChain); ok {
			switch n.OpToken.Type {
			case token.KW_SHOW, token.KW_HIDE, token.KW_MOVE:
				return ast.FRAME, true
			case token.KW_XLOC, token.KW_YLOC:
				return ast.INTEGER, true
			}
		}
	case ast.INTEGER:
		if n, ok := next.(*ast.IdentChain); ok && n.Type() == ast.INTEGER {
			return ast.INTEGER, true
		}
	}
	return ast.NONE, false
}

// operation describes the argument count and standalone type of a stage.
type operation struct {
	arity  int
	result ast.Type
}

var operations = map[token.Type]operation{
	token.OP_BLUR:     {0, ast.IMAGE},
	token.OP_GRAY:     {0, ast.IMAGE},
	token.OP_CONVOLVE: {0, ast.IMAGE},
	token.KW_SHOW:     {0, ast.NONE},
	token.KW_HIDE:     {0, ast.NONE},
	token.KW_MOVE:     {2, ast.NONE},
	token.KW_XLOC:     {0, ast.INTEGER},
	token.KW_YLOC:     {0, ast.INTEGER},
	token.OP_WIDTH:    {0, ast.INTEGER},
	token.OP_HEIGHT:   {0, ast.INTEGER},
	token.KW_SCALE:    {1, ast.IMAGE},
}
