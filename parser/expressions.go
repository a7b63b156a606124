package parser

import (
	"strconv"

	"github.com/deepnoodle-ai/plpc/ast"
	"github.com/deepnoodle-ai/plpc/internal/token"
)

// Precedence, lowest to highest: relOp, weakOp, strongOp. All binary
// operators are left associative.

// expression := term (relOp term)*
func (p *Parser) parseExpression() (ast.Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	return p.parseBinary(relOps, p.parseTerm)
}

// term := elem (weakOp elem)*
func (p *Parser) parseTerm() (ast.Expression, error) {
	return p.parseBinary(weakOps, p.parseElem)
}

// elem := factor (strongOp factor)*
func (p *Parser) parseElem() (ast.Expression, error) {
	return p.parseBinary(strongOps, p.parseFactor)
}

func (p *Parser) parseBinary(ops token.Set, operand func() (ast.Expression, error)) (ast.Expression, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for ops.Contains(p.cur().Type) {
		op := p.advance()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

// factor := IDENT | INT_LIT | true | false | screenwidth | screenheight
//
//	| '(' expression ')'
func (p *Parser) parseFactor() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Type {
	case token.IDENT:
		p.advance()
		return &ast.IdentExpr{Token: tok}, nil
	case token.INT_LIT:
		p.advance()
		value, err := strconv.ParseInt(tok.Text(), 10, 32)
		if err != nil {
			return nil, p.syntaxError(tok, "invalid integer literal %s", tok.Text())
		}
		return &ast.IntLit{Token: tok, Value: int32(value)}, nil
	case token.KW_TRUE, token.KW_FALSE:
		p.advance()
		return &ast.BoolLit{Token: tok, Value: tok.Type == token.KW_TRUE}, nil
	case token.KW_SCREENWIDTH, token.KW_SCREENHEIGHT:
		p.advance()
		return &ast.ConstantExpr{Token: tok}, nil
	case token.LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.match(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, p.unexpected(predictFactor)
	}
}
