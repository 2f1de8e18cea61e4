package parser

import (
	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/diagnostics"
	"github.com/latticelang/latticec/internal/token"
)

func (p *Parser) parseVisibility() ast.Visibility {
	if !p.curTokenIs(token.PUB) {
		return ast.Private
	}
	p.nextToken()
	// `pub(crate)` — `pub` followed immediately by a parenthesized qualifier.
	if p.curTokenIs(token.LPAREN) {
		p.nextToken()
		p.nextToken() // the qualifier identifier, e.g. `crate`
		if !p.expectPeek(token.RPAREN) {
			return ast.Pub
		}
		p.nextToken()
		return ast.PubCrate
	}
	return ast.Pub
}

// parseItem dispatches on curToken and returns nil (with a diagnostic
// already recorded) on failure, leaving synchronize() to the caller.
//
// Each concrete parseXxxItem helper below returns a typed *ast.XxxItem, not
// the ast.Item interface, so every branch must be nil-checked before
// boxing it into the returned interface value: assigning a nil pointer
// straight into an interface-typed return produces a non-nil interface
// holding a nil pointer, and `item == nil` checks by callers (ParseFile,
// parseModItem) would silently stop catching parse failures.
func (p *Parser) parseItem() ast.Item {
	vis := p.parseVisibility()
	switch p.curToken.Type {
	case token.FN:
		if it := p.parseFnItem(vis); it != nil {
			return it
		}
	case token.STRUCT:
		if it := p.parseStructItem(vis); it != nil {
			return it
		}
	case token.ENUM:
		if it := p.parseEnumItem(vis); it != nil {
			return it
		}
	case token.TRAIT:
		if it := p.parseTraitItem(vis); it != nil {
			return it
		}
	case token.IMPL:
		if it := p.parseImplItem(); it != nil {
			return it
		}
	case token.USE:
		if it := p.parseUseItem(); it != nil {
			return it
		}
	case token.CONST:
		if it := p.parseConstItem(vis); it != nil {
			return it
		}
	case token.STATIC:
		if it := p.parseStaticItem(vis); it != nil {
			return it
		}
	case token.TYPE:
		if it := p.parseTypeAliasItem(vis); it != nil {
			return it
		}
	case token.MOD:
		if it := p.parseModItem(vis); it != nil {
			return it
		}
	default:
		p.errorf(diagnostics.ErrP006, p.curToken, "expected an item, found %s", p.curToken.Type)
	}
	return nil
}

// parseGenerics parses an optional `<T: Bound, U>` generic parameter list.
func (p *Parser) parseGenerics() []*ast.GenericParam {
	if !p.peekTokenIs(token.LT) {
		return nil
	}
	p.nextToken() // consume '<'
	var params []*ast.GenericParam
	for {
		p.nextToken()
		if p.curTokenIs(token.GT) {
			break
		}
		start := p.curToken
		name := &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme}
		gp := &ast.GenericParam{Name: name}
		if p.peekTokenIs(token.COLON) {
			p.nextToken() // ':'
			p.nextToken()
			gp.Bounds = append(gp.Bounds, p.parseType())
			for p.peekTokenIs(token.PLUS) {
				p.nextToken()
				p.nextToken()
				gp.Bounds = append(gp.Bounds, p.parseType())
			}
		}
		gp.Sp = p.span(start)
		params = append(params, gp)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(token.GT) {
		return params
	}
	return params
}

// parseWhereClause parses an optional `where T: Bound, ...` clause.
func (p *Parser) parseWhereClause() []*ast.WherePredicate {
	if !p.peekTokenIs(token.WHERE) {
		return nil
	}
	p.nextToken() // consume 'where'
	var preds []*ast.WherePredicate
	for {
		p.nextToken()
		start := p.curToken
		target := p.parseType()
		if !p.expectPeek(token.COLON) {
			break
		}
		p.nextToken()
		bound := p.parseType()
		bounds := []ast.Type{bound}
		for p.peekTokenIs(token.PLUS) {
			p.nextToken()
			p.nextToken()
			bounds = append(bounds, p.parseType())
		}
		preds = append(preds, &ast.WherePredicate{Sp: p.span(start), Target: target, Bounds: bounds})
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	return preds
}

func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	for {
		p.nextToken()
		start := p.curToken
		pat := p.parsePattern()
		var typ ast.Type
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			typ = p.parseType()
		}
		params = append(params, &ast.Param{Sp: p.span(start), Pattern: pat, Type: typ})
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(token.RPAREN) {
		return params
	}
	return params
}

func (p *Parser) parseFnItem(vis ast.Visibility) *ast.FnItem {
	start := p.curToken
	fn := &ast.FnItem{Visibility: vis}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	fn.Name = &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme}
	fn.Generics = p.parseGenerics()
	fn.Params = p.parseParamList()
	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		fn.ReturnType = p.parseType()
	}
	fn.Where = p.parseWhereClause()
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlockExpr()
	fn.Sp = p.span(start)
	return fn
}

func (p *Parser) parseFieldDefList(terminator token.Type) []*ast.FieldDef {
	var fields []*ast.FieldDef
	for !p.peekTokenIs(terminator) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		start := p.curToken
		vis := p.parseVisibility()
		var name *ast.Identifier
		// Named field: IDENT ':' Type. Tuple-style field: bare Type.
		if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.COLON) {
			name = &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme}
			p.nextToken() // ':'
			p.nextToken()
		}
		typ := p.parseType()
		fields = append(fields, &ast.FieldDef{Sp: p.span(start), Visibility: vis, Name: name, Type: typ})
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	return fields
}

func (p *Parser) parseStructItem(vis ast.Visibility) *ast.StructItem {
	start := p.curToken
	s := &ast.StructItem{Visibility: vis}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	s.Name = &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme}
	s.Generics = p.parseGenerics()
	s.Where = p.parseWhereClause()
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken() // unit struct
		s.Sp = p.span(start)
		return s
	}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		s.Fields = p.parseFieldDefList(token.RPAREN)
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
		s.Sp = p.span(start)
		return s
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	s.Fields = p.parseFieldDefList(token.RBRACE)
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	s.Sp = p.span(start)
	return s
}

func (p *Parser) parseEnumVariant() *ast.EnumVariant {
	start := p.curToken
	v := &ast.EnumVariant{Name: &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme}}
	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		v.Fields = p.parseFieldDefList(token.RBRACE)
		p.expectPeek(token.RBRACE)
	} else if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		v.Fields = p.parseFieldDefList(token.RPAREN)
		p.expectPeek(token.RPAREN)
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		v.Discriminant = p.parseExpression(LOWEST)
	}
	v.Sp = p.span(start)
	return v
}

func (p *Parser) parseEnumItem(vis ast.Visibility) *ast.EnumItem {
	start := p.curToken
	e := &ast.EnumItem{Visibility: vis}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	e.Name = &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme}
	e.Generics = p.parseGenerics()
	e.Where = p.parseWhereClause()
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		e.Variants = append(e.Variants, p.parseEnumVariant())
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	e.Sp = p.span(start)
	return e
}

func (p *Parser) parseTraitMethod() *ast.FnItem {
	start := p.curToken
	fn := &ast.FnItem{Visibility: ast.Private}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	fn.Name = &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme}
	fn.Generics = p.parseGenerics()
	fn.Params = p.parseParamList()
	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		fn.ReturnType = p.parseType()
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken() // abstract signature, no body
		fn.Sp = p.span(start)
		return fn
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlockExpr()
	fn.Sp = p.span(start)
	return fn
}

func (p *Parser) parseTraitItem(vis ast.Visibility) *ast.TraitItem {
	start := p.curToken
	t := &ast.TraitItem{Visibility: vis}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	t.Name = &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme}
	t.Generics = p.parseGenerics()
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		t.SuperBounds = append(t.SuperBounds, p.parseType())
		for p.peekTokenIs(token.PLUS) {
			p.nextToken()
			p.nextToken()
			t.SuperBounds = append(t.SuperBounds, p.parseType())
		}
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		if !p.curTokenIs(token.FN) {
			p.errorf(diagnostics.ErrP006, p.curToken, "expected fn, found %s", p.curToken.Type)
			p.synchronize()
			continue
		}
		if m := p.parseTraitMethod(); m != nil {
			t.Methods = append(t.Methods, m)
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	t.Sp = p.span(start)
	return t
}

func (p *Parser) parseImplItem() *ast.ImplItem {
	start := p.curToken
	im := &ast.ImplItem{}
	im.Generics = p.parseGenerics()
	p.nextToken()
	first := p.parseType()
	if p.peekTokenIs(token.FOR) {
		p.nextToken() // 'for'
		p.nextToken()
		im.TraitName = first
		im.SelfType = p.parseType()
	} else {
		im.SelfType = first
	}
	im.Where = p.parseWhereClause()
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		vis := p.parseVisibility()
		if !p.curTokenIs(token.FN) {
			p.errorf(diagnostics.ErrP006, p.curToken, "expected fn, found %s", p.curToken.Type)
			p.synchronize()
			continue
		}
		if m := p.parseFnItem(vis); m != nil {
			im.Methods = append(im.Methods, m)
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	im.Sp = p.span(start)
	return im
}

func (p *Parser) parseUseItem() *ast.UseItem {
	start := p.curToken
	u := &ast.UseItem{}
	for {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		u.Path = append(u.Path, &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme})
		if p.peekTokenIs(token.COLON_COLON) {
			p.nextToken()
			continue
		}
		break
	}
	if p.peekTokenIs(token.AS) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		u.Alias = &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme}
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	u.Sp = p.span(start)
	return u
}

func (p *Parser) parseConstItem(vis ast.Visibility) *ast.ConstItem {
	start := p.curToken
	c := &ast.ConstItem{Visibility: vis}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	c.Name = &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	c.Type = p.parseType()
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	c.Value = p.parseExpression(LOWEST)
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	c.Sp = p.span(start)
	return c
}

func (p *Parser) parseStaticItem(vis ast.Visibility) *ast.StaticItem {
	start := p.curToken
	s := &ast.StaticItem{Visibility: vis}
	if p.peekTokenIs(token.MUT) {
		p.nextToken()
		s.Mutable = true
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	s.Name = &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	s.Type = p.parseType()
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	s.Value = p.parseExpression(LOWEST)
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	s.Sp = p.span(start)
	return s
}

func (p *Parser) parseTypeAliasItem(vis ast.Visibility) *ast.TypeAliasItem {
	start := p.curToken
	t := &ast.TypeAliasItem{Visibility: vis}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	t.Name = &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme}
	t.Generics = p.parseGenerics()
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	t.Target = p.parseType()
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	t.Sp = p.span(start)
	return t
}

func (p *Parser) parseModItem(vis ast.Visibility) *ast.ModItem {
	start := p.curToken
	m := &ast.ModItem{Visibility: vis}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	m.Name = &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.NEWLINE) {
			p.nextToken()
			continue
		}
		item := p.parseItem()
		if item != nil {
			m.Items = append(m.Items, item)
			p.nextToken()
		} else {
			p.synchronize()
		}
	}
	m.Sp = p.span(start)
	return m
}
