package parser

import (
	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/diagnostics"
	"github.com/latticelang/latticec/internal/token"
)

// parsePattern dispatches on curToken and returns the parsed pattern,
// leaving curToken on the pattern's final token.
func (p *Parser) parsePattern() ast.Pattern {
	p.depth++
	defer func() { p.depth-- }()
	if !p.guardDepth("pattern") {
		return nil
	}

	switch p.curToken.Type {
	case token.IDENT, token.SELF:
		if p.curToken.Lexeme == "_" {
			return &ast.WildcardPattern{Sp: p.curToken.Span}
		}
		return p.parseIdentOrPathPattern()
	case token.MUT, token.REF:
		return p.parseIdentOrPathPattern()
	case token.INT, token.FLOAT, token.STRING, token.CHAR, token.TRUE, token.FALSE, token.MINUS:
		return p.parseLiteralOrRangePattern()
	case token.LPAREN:
		return p.parseTuplePattern()
	case token.AMP:
		return p.parseRefPattern()
	case token.DOT_DOT:
		return p.parseOpenRangePattern()
	default:
		p.errorf(diagnostics.ErrP001, p.curToken, "expected a pattern, found %s", p.curToken.Type)
		return nil
	}
}

func (p *Parser) parseIdentOrPathPattern() ast.Pattern {
	start := p.curToken
	byRef := false
	mutable := false
	for p.curTokenIs(token.REF) || p.curTokenIs(token.MUT) {
		if p.curTokenIs(token.REF) {
			byRef = true
		} else {
			mutable = true
		}
		p.nextToken()
	}

	// A path of more than one segment (`Enum::Variant`) is always a
	// struct/enum-variant pattern, never a binding.
	if p.peekTokenIs(token.COLON_COLON) || p.peekTokenIs(token.LBRACE) || p.peekTokenIs(token.LPAREN) {
		return p.parsePathLikePattern(start, byRef, mutable)
	}

	name := p.curToken.Lexeme
	ip := &ast.IdentPattern{Sp: p.curToken.Span, Name: name, ByRef: byRef, Mutable: mutable}
	if p.peekTokenIs(token.AT) {
		p.nextToken() // '@'
		p.nextToken()
		ip.SubPattern = p.parsePattern()
	}
	ip.Sp = p.span(start)
	return ip
}

// parsePathLikePattern handles struct patterns (`Point { x, y }`), tuple
// enum-variant patterns (`Some(x)`), and bare multi-segment paths used as
// unit-variant patterns (`Color::Red`).
func (p *Parser) parsePathLikePattern(start token.Token, byRef, mutable bool) ast.Pattern {
	segs := []*ast.Identifier{{Sp: p.curToken.Span, Value: p.curToken.Lexeme}}
	for p.peekTokenIs(token.COLON_COLON) {
		p.nextToken() // '::'
		if !p.expectPeek(token.IDENT) {
			break
		}
		segs = append(segs, &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme})
	}

	if p.peekTokenIs(token.LBRACE) {
		p.nextToken() // '{'
		sp := &ast.StructPattern{Path: segs}
		p.nextToken()
		for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
			if p.curTokenIs(token.DOT_DOT) {
				sp.HasRest = true
				p.nextToken()
				break
			}
			fname := &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme}
			var fpat ast.Pattern
			if p.peekTokenIs(token.COLON) {
				p.nextToken()
				p.nextToken()
				fpat = p.parsePattern()
			}
			sp.Fields = append(sp.Fields, &ast.FieldPattern{Name: fname, Pattern: fpat})
			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				continue
			}
			p.nextToken()
			break
		}
		sp.Sp = p.span(start)
		return sp
	}

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken() // '('
		vp := &ast.EnumVariantPattern{Path: segs}
		p.nextToken()
		for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
			vp.Elements = append(vp.Elements, p.parsePattern())
			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				continue
			}
			p.nextToken()
			break
		}
		vp.Sp = p.span(start)
		return vp
	}

	return &ast.EnumVariantPattern{Sp: p.span(start), Path: segs}
}

func (p *Parser) parseLiteralOrRangePattern() ast.Pattern {
	start := p.curToken
	lit := p.parsePatternLiteral()
	if lit == nil {
		return nil
	}
	if p.peekTokenIs(token.DOT_DOT_EQ) {
		p.nextToken()
		p.nextToken()
		end := p.parsePatternLiteral()
		return &ast.RangePattern{Sp: p.span(start), Start: lit, End: end}
	}
	return &ast.LiteralPattern{Sp: p.span(start), Literal: lit}
}

// parsePatternLiteral parses the constant-expression literals allowed in a
// pattern position: integers (with optional unary minus), floats, strings,
// chars, and booleans.
func (p *Parser) parsePatternLiteral() ast.Expression {
	start := p.curToken
	if p.curTokenIs(token.MINUS) {
		p.nextToken()
		inner := p.parsePatternLiteral()
		if inner == nil {
			return nil
		}
		return &ast.UnaryExpr{Sp: p.span(start), Op: token.MINUS, Operand: inner}
	}
	switch p.curToken.Type {
	case token.INT:
		return p.parseIntLiteral()
	case token.FLOAT:
		return p.parseFloatLiteral()
	case token.STRING:
		return p.parseStringLiteral()
	case token.CHAR:
		return p.parseCharLiteral()
	case token.TRUE, token.FALSE:
		return p.parseBoolLiteral()
	default:
		p.errorf(diagnostics.ErrP001, p.curToken, "expected a literal pattern, found %s", p.curToken.Type)
		return nil
	}
}

func (p *Parser) parseOpenRangePattern() ast.Pattern {
	start := p.curToken
	p.nextToken()
	end := p.parsePatternLiteral()
	return &ast.RangePattern{Sp: p.span(start), End: end}
}

func (p *Parser) parseTuplePattern() ast.Pattern {
	start := p.curToken
	p.nextToken() // '('
	if p.curTokenIs(token.RPAREN) {
		return &ast.TuplePattern{Sp: p.span(start)}
	}
	elements := []ast.Pattern{p.parsePattern()}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RPAREN) {
			break
		}
		p.nextToken()
		elements = append(elements, p.parsePattern())
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return &ast.TuplePattern{Sp: p.span(start), Elements: elements}
}

func (p *Parser) parseRefPattern() ast.Pattern {
	start := p.curToken
	mutable := false
	if p.peekTokenIs(token.MUT) {
		p.nextToken()
		mutable = true
	}
	p.nextToken()
	inner := p.parsePattern()
	if inner == nil {
		return nil
	}
	return &ast.RefPattern{Sp: p.span(start), Mutable: mutable, Inner: inner}
}
