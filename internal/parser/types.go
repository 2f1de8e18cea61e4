package parser

import (
	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/diagnostics"
	"github.com/latticelang/latticec/internal/token"
)

// parseType dispatches on curToken and returns the parsed type, leaving
// curToken on the type's final token.
func (p *Parser) parseType() ast.Type {
	p.depth++
	defer func() { p.depth-- }()
	if !p.guardDepth("type") {
		return nil
	}

	switch p.curToken.Type {
	case token.IDENT, token.SELF_TYPE:
		return p.parseNamedType()
	case token.AMP:
		return p.parseRefType()
	case token.STAR:
		return p.parsePointerType()
	case token.LBRACKET:
		return p.parseArrayType()
	case token.LPAREN:
		return p.parseTupleOrUnitType()
	case token.FN:
		return p.parseFunctionType()
	case token.DYN:
		return p.parseTraitObjectType()
	default:
		p.errorf(diagnostics.ErrP001, p.curToken, "expected a type, found %s", p.curToken.Type)
		return nil
	}
}

func (p *Parser) parseNamedType() ast.Type {
	start := p.curToken
	if p.curToken.Lexeme == "_" {
		return &ast.InferredType{Sp: p.curToken.Span}
	}
	segs := []*ast.Identifier{{Sp: p.curToken.Span, Value: p.curToken.Lexeme}}
	for p.peekTokenIs(token.COLON_COLON) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			break
		}
		segs = append(segs, &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme})
	}
	nt := &ast.NamedType{Path: segs}
	if p.peekTokenIs(token.LT) {
		p.nextToken() // '<'
		p.nextToken()
		for {
			nt.Args = append(nt.Args, p.parseType())
			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				continue
			}
			break
		}
		p.expectPeek(token.GT)
	}
	nt.Sp = p.span(start)
	return nt
}

func (p *Parser) parseRefType() ast.Type {
	start := p.curToken
	var lifetime *ast.Identifier
	mutable := false
	if p.peekTokenIs(token.MUT) {
		p.nextToken()
		mutable = true
	}
	p.nextToken()
	inner := p.parseType()
	if inner == nil {
		return nil
	}
	return &ast.RefType{Sp: p.span(start), Mutable: mutable, Lifetime: lifetime, Inner: inner}
}

func (p *Parser) parsePointerType() ast.Type {
	start := p.curToken
	mutable := false
	if p.peekTokenIs(token.MUT) {
		p.nextToken()
		mutable = true
	} else if p.peekTokenIs(token.CONST) {
		p.nextToken()
	}
	p.nextToken()
	inner := p.parseType()
	if inner == nil {
		return nil
	}
	return &ast.PointerType{Sp: p.span(start), Mutable: mutable, Inner: inner}
}

func (p *Parser) parseArrayType() ast.Type {
	start := p.curToken
	p.nextToken() // '['
	elem := p.parseType()
	if elem == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	p.nextToken()
	size := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.ArrayType{Sp: p.span(start), Elem: elem, Size: size}
}

func (p *Parser) parseTupleOrUnitType() ast.Type {
	start := p.curToken
	p.nextToken() // '('
	if p.curTokenIs(token.RPAREN) {
		return &ast.TupleType{Sp: p.span(start)}
	}
	elements := []ast.Type{p.parseType()}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RPAREN) {
			break
		}
		p.nextToken()
		elements = append(elements, p.parseType())
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return &ast.TupleType{Sp: p.span(start), Elements: elements}
}

func (p *Parser) parseFunctionType() ast.Type {
	start := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	var params []ast.Type
	if !p.peekTokenIs(token.RPAREN) {
		for {
			p.nextToken()
			params = append(params, p.parseType())
			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
				continue
			}
			break
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	var ret ast.Type
	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		ret = p.parseType()
	}
	return &ast.FunctionType{Sp: p.span(start), Params: params, ReturnType: ret}
}

func (p *Parser) parseTraitObjectType() ast.Type {
	start := p.curToken
	p.nextToken()
	bounds := []ast.Type{p.parseType()}
	for p.peekTokenIs(token.PLUS) {
		p.nextToken()
		p.nextToken()
		bounds = append(bounds, p.parseType())
	}
	return &ast.TraitObjectType{Sp: p.span(start), Bounds: bounds}
}
