package parser

import (
	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/token"
)

// parseBlockExpr parses a `{ ... }` block. curToken is the '{' on entry;
// on return curToken is the matching '}'.
func (p *Parser) parseBlockExpr() *ast.BlockExpr {
	start := p.curToken
	block := &ast.BlockExpr{}
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.NEWLINE) || p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}

		stmt := p.parseStatement()
		if stmt == nil {
			p.synchronize()
			continue
		}

		// The last expression-statement in a block without a trailing `;`
		// is the block's tail value (spec §3 block typing rule).
		if es, ok := stmt.(*ast.ExprStmt); ok && !p.curTokenIs(token.SEMICOLON) && p.peekTokenIs(token.RBRACE) {
			block.Tail = es.Expr
			p.nextToken()
			break
		}
		block.Statements = append(block.Statements, stmt)
		p.nextToken()
	}
	block.Sp = p.span(start)
	return block
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLetStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.BREAK:
		return p.parseBreakStmt()
	case token.CONTINUE:
		return p.parseContinueStmt()
	case token.FN, token.STRUCT, token.ENUM, token.TRAIT, token.IMPL,
		token.USE, token.CONST, token.STATIC, token.TYPE, token.MOD, token.PUB:
		start := p.curToken
		item := p.parseItem()
		if item == nil {
			return nil
		}
		return &ast.ItemStmt{Sp: p.span(start), Item: item}
	default:
		stmt := p.parseExprStmt()
		// A nil *ast.ExprStmt boxed directly into the ast.Statement
		// interface would compare non-nil to callers (the classic Go
		// typed-nil trap), so translate it to a true nil interface here.
		if stmt == nil {
			return nil
		}
		return stmt
	}
}

func (p *Parser) parseLetStmt() *ast.LetStmt {
	start := p.curToken
	stmt := &ast.LetStmt{}
	if p.peekTokenIs(token.MUT) {
		p.nextToken()
		stmt.Mutable = true
	}
	p.nextToken()
	stmt.Pattern = p.parsePattern()
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		stmt.TypeAnnotation = p.parseType()
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		stmt.Init = p.parseExpression(LOWEST)
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	stmt.Sp = p.span(start)
	return stmt
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.curToken
	stmt := &ast.ReturnStmt{}
	if !p.peekTokenIs(token.SEMICOLON) && !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	stmt.Sp = p.span(start)
	return stmt
}

func (p *Parser) parseBreakStmt() *ast.BreakStmt {
	start := p.curToken
	stmt := &ast.BreakStmt{}
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		stmt.Label = &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme}
	}
	if !p.peekTokenIs(token.SEMICOLON) && !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	stmt.Sp = p.span(start)
	return stmt
}

func (p *Parser) parseContinueStmt() *ast.ContinueStmt {
	start := p.curToken
	stmt := &ast.ContinueStmt{}
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		stmt.Label = &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme}
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	stmt.Sp = p.span(start)
	return stmt
}

func (p *Parser) parseExprStmt() *ast.ExprStmt {
	start := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	stmt := &ast.ExprStmt{Sp: p.span(start), Expr: expr}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}
