package parser

import (
	"github.com/deepnoodle-ai/plpc/ast"
	"github.com/deepnoodle-ai/plpc/internal/token"
)

// statement := sleep expression ';' | whileStatement | ifStatement
//
//	| assign ';' | chain ';'
func (p *Parser) parseStatement() (ast.Statement, error) {
	if err := p.ctx.Err(); err != nil {
		return nil, err
	}
	var stmt ast.Statement
	var err error
	needSemi := true
	switch tok := p.cur(); {
	case tok.Is(token.OP_SLEEP):
		stmt, err = p.parseSleep()
	case tok.Is(token.KW_WHILE):
		// Compound statements end with their block, not a semicolon
		stmt, err = p.parseWhile()
		needSemi = false
	case tok.Is(token.KW_IF):
		stmt, err = p.parseIf()
		needSemi = false
	case tok.Is(token.IDENT) && p.peek(1).Is(token.ASSIGN):
		stmt, err = p.parseAssign()
	case predictChainElem.Contains(tok.Type):
		stmt, err = p.parseChain()
	default:
		return nil, p.unexpected(predictStatement)
	}
	if err != nil {
		return nil, err
	}
	if needSemi {
		if _, err := p.match(token.SEMI); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *Parser) parseSleep() (*ast.SleepStatement, error) {
	sleep := p.advance()
	duration, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.SleepStatement{Sleep: sleep, Duration: duration}, nil
}

// whileStatement := while '(' expression ')' block
func (p *Parser) parseWhile() (*ast.WhileStatement, error) {
	while := p.advance()
	cond, block, err := p.parseGuardedBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{While: while, Condition: cond, Block: block}, nil
}

// ifStatement := if '(' expression ')' block
func (p *Parser) parseIf() (*ast.IfStatement, error) {
	ifTok := p.advance()
	cond, block, err := p.parseGuardedBlock()
	if err != nil {
		return nil, err
	}
	return &ast.IfStatement{If: ifTok, Condition: cond, Block: block}, nil
}

func (p *Parser) parseGuardedBlock() (ast.Expression, *ast.Block, error) {
	if _, err := p.match(token.LPAREN); err != nil {
		return nil, nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.match(token.RPAREN); err != nil {
		return nil, nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, nil, err
	}
	return cond, block, nil
}

// assign := IDENT '<-' expression
func (p *Parser) parseAssign() (*ast.AssignStatement, error) {
	ident := p.advance()
	if _, err := p.match(token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.AssignStatement{Target: &ast.IdentLValue{Ident: ident}, Value: value}, nil
}

// chain := chainElem arrowOp chainElem (arrowOp chainElem)*
//
// Each additional stage folds the chain built so far into the left side of
// a new BinaryChain.
func (p *Parser) parseChain() (ast.Chain, error) {
	first, err := p.parseChainElem()
	if err != nil {
		return nil, err
	}
	if !arrowOps.Contains(p.cur().Type) {
		return nil, p.unexpected(arrowOps)
	}
	var chain ast.Chain = first
	for arrowOps.Contains(p.cur().Type) {
		arrow := p.advance()
		right, err := p.parseChainElem()
		if err != nil {
			return nil, err
		}
		chain = &ast.BinaryChain{Left: chain, Arrow: arrow, Right: right}
	}
	return chain, nil
}

// chainElem := IDENT | filterOp arg | frameOp arg | imageOp arg
func (p *Parser) parseChainElem() (ast.ChainElem, error) {
	tok := p.cur()
	switch {
	case tok.Is(token.IDENT):
		p.advance()
		return &ast.IdentChain{Ident: tok}, nil
	case predictFilterOp.Contains(tok.Type):
		p.advance()
		args, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		return &ast.FilterOpChain{OpToken: tok, Args: args}, nil
	case predictFrameOp.Contains(tok.Type):
		p.advance()
		args, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		return &ast.FrameOpChain{OpToken: tok, Args: args}, nil
	case predictImageOp.Contains(tok.Type):
		p.advance()
		args, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		return &ast.ImageOpChain{OpToken: tok, Args: args}, nil
	default:
		return nil, p.unexpected(predictChainElem)
	}
}

// arg := ε | '(' expression (',' expression)* ')'
func (p *Parser) parseArg() (*ast.Tuple, error) {
	tok := p.cur()
	if !predictArg.Contains(tok.Type) {
		return nil, p.unexpected(predictArg)
	}
	tuple := &ast.Tuple{Open: tok}
	if !tok.Is(token.LPAREN) {
		return tuple, nil
	}
	p.advance()
	for {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		tuple.Exprs = append(tuple.Exprs, expr)
		if !p.cur().Is(token.COMMA) {
			break
		}
		p.advance()
	}
	if _, err := p.match(token.RPAREN); err != nil {
		return nil, err
	}
	return tuple, nil
}
