package parser

import (
	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/diagnostics"
	"github.com/latticelang/latticec/internal/token"
)

func (p *Parser) registerExpressionParseFns() {
	p.prefixParseFns[token.IDENT] = p.parsePathExpr
	p.prefixParseFns[token.SELF] = p.parsePathExpr
	p.prefixParseFns[token.SELF_TYPE] = p.parsePathExpr
	p.prefixParseFns[token.INT] = p.parseIntLiteral
	p.prefixParseFns[token.FLOAT] = p.parseFloatLiteral
	p.prefixParseFns[token.STRING] = p.parseStringLiteral
	p.prefixParseFns[token.RAW_STRING] = p.parseStringLiteral
	p.prefixParseFns[token.CHAR] = p.parseCharLiteral
	p.prefixParseFns[token.TRUE] = p.parseBoolLiteral
	p.prefixParseFns[token.FALSE] = p.parseBoolLiteral
	p.prefixParseFns[token.BANG] = p.parseUnaryExpr
	p.prefixParseFns[token.MINUS] = p.parseUnaryExpr
	p.prefixParseFns[token.STAR] = p.parseDerefExpr
	p.prefixParseFns[token.AMP] = p.parseRefExpr
	p.prefixParseFns[token.LPAREN] = p.parseGroupedOrTupleExpr
	p.prefixParseFns[token.LBRACKET] = p.parseArrayExpr
	p.prefixParseFns[token.LBRACE] = p.parseBlockAsExpr
	p.prefixParseFns[token.IF] = p.parseIfExpr
	p.prefixParseFns[token.MATCH] = p.parseMatchExpr
	p.prefixParseFns[token.WHILE] = p.parseWhileExpr
	p.prefixParseFns[token.FOR] = p.parseForExpr
	p.prefixParseFns[token.LOOP] = p.parseLoopExpr
	p.prefixParseFns[token.PIPE] = p.parseClosureExpr
	p.prefixParseFns[token.PIPE_PIPE] = p.parseClosureExprNoParams
	p.prefixParseFns[token.MOVE] = p.parseMoveClosureExpr
	p.prefixParseFns[token.DOT_DOT] = p.parseOpenRangeExpr
	p.prefixParseFns[token.DOT_DOT_EQ] = p.parseOpenRangeExpr

	p.infixParseFns[token.PLUS] = p.parseBinaryExpr
	p.infixParseFns[token.MINUS] = p.parseBinaryExpr
	p.infixParseFns[token.STAR] = p.parseBinaryExpr
	p.infixParseFns[token.SLASH] = p.parseBinaryExpr
	p.infixParseFns[token.PERCENT] = p.parseBinaryExpr
	p.infixParseFns[token.AMP] = p.parseBinaryExpr
	p.infixParseFns[token.PIPE] = p.parseBinaryExpr
	p.infixParseFns[token.CARET] = p.parseBinaryExpr
	p.infixParseFns[token.SHL] = p.parseBinaryExpr
	p.infixParseFns[token.SHR] = p.parseBinaryExpr
	p.infixParseFns[token.AMP_AMP] = p.parseBinaryExpr
	p.infixParseFns[token.PIPE_PIPE] = p.parseBinaryExpr
	p.infixParseFns[token.EQ_EQ] = p.parseBinaryExpr
	p.infixParseFns[token.BANG_EQ] = p.parseBinaryExpr
	p.infixParseFns[token.LT] = p.parseBinaryExpr
	p.infixParseFns[token.LE] = p.parseBinaryExpr
	p.infixParseFns[token.GT] = p.parseBinaryExpr
	p.infixParseFns[token.GE] = p.parseBinaryExpr

	p.infixParseFns[token.ASSIGN] = p.parseAssignExpr
	p.infixParseFns[token.PLUS_ASSIGN] = p.parseAssignExpr
	p.infixParseFns[token.MINUS_ASSIGN] = p.parseAssignExpr
	p.infixParseFns[token.STAR_ASSIGN] = p.parseAssignExpr
	p.infixParseFns[token.SLASH_ASSIGN] = p.parseAssignExpr
	p.infixParseFns[token.PERCENT_ASSIGN] = p.parseAssignExpr
	p.infixParseFns[token.AMP_ASSIGN] = p.parseAssignExpr
	p.infixParseFns[token.PIPE_ASSIGN] = p.parseAssignExpr
	p.infixParseFns[token.CARET_ASSIGN] = p.parseAssignExpr
	p.infixParseFns[token.SHL_ASSIGN] = p.parseAssignExpr
	p.infixParseFns[token.SHR_ASSIGN] = p.parseAssignExpr

	p.infixParseFns[token.DOT_DOT] = p.parseRangeExpr
	p.infixParseFns[token.DOT_DOT_EQ] = p.parseRangeExpr
	p.infixParseFns[token.AS] = p.parseCastExpr
	p.infixParseFns[token.LPAREN] = p.parseCallExpr
	p.infixParseFns[token.LBRACKET] = p.parseIndexExpr
	p.infixParseFns[token.DOT] = p.parseDotExpr
}

func (p *Parser) noPrefixParseFnError(t token.Type) {
	p.errorf(diagnostics.ErrP001, p.curToken, "unexpected token %s in expression position", t)
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if !p.guardDepth("expression") {
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

// --- prefix ---

func (p *Parser) parsePathExpr() ast.Expression {
	start := p.curToken
	// A bare identifier immediately followed by `:` and a loop keyword is a
	// loop label (`outer: while ... { ... break outer; }`), not a path.
	if p.peekTokenIs(token.COLON) && p.pos < len(p.tokens) {
		switch peekAfterColon := p.tokens[p.pos]; peekAfterColon.Type {
		case token.WHILE, token.FOR, token.LOOP:
			label := &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme}
			p.nextToken() // ':'
			p.nextToken() // loop keyword
			switch p.curToken.Type {
			case token.WHILE:
				return p.parseWhileExprLabeled(label)
			case token.FOR:
				return p.parseForExprLabeled(label)
			default:
				return p.parseLoopExprLabeled(label)
			}
		}
	}
	segs := []*ast.Identifier{{Sp: p.curToken.Span, Value: p.curToken.Lexeme}}
	for p.peekTokenIs(token.COLON_COLON) {
		p.nextToken() // '::'
		if !p.expectPeek(token.IDENT) {
			break
		}
		segs = append(segs, &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme})
	}
	if len(segs) == 1 {
		// Struct literal: `Name { field: value }`. Guard against `if Name
		// {` ambiguity by only firing here, not inside if/while/for/match
		// conditions (those call parseExpression through dedicated
		// no-struct-literal entry points, see parseNoStructCondition).
		if p.peekTokenIs(token.LBRACE) && p.allowStructLiteral {
			return p.parseStructLiteralFrom(start, segs)
		}
		return &ast.PathExpr{Sp: start.Span, Segments: segs}
	}
	sp := start.Span
	for _, s := range segs {
		sp = sp.Cover(s.Sp)
	}
	if p.peekTokenIs(token.LBRACE) && p.allowStructLiteral {
		return p.parseStructLiteralFrom(start, segs)
	}
	return &ast.PathExpr{Sp: sp, Segments: segs}
}

func (p *Parser) parseIntLiteral() ast.Expression {
	t := p.curToken
	return &ast.IntLiteral{Sp: t.Span, Value: t.IntValue, Base: t.IntBase, Suffix: t.IntSuffix}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	t := p.curToken
	return &ast.FloatLiteral{Sp: t.Span, Value: t.FloatValue, Suffix: t.FloatSuffix}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	t := p.curToken
	return &ast.StringLiteral{Sp: t.Span, Value: t.StringValue}
}

func (p *Parser) parseCharLiteral() ast.Expression {
	t := p.curToken
	return &ast.CharLiteral{Sp: t.Span, Value: t.CharValue}
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	t := p.curToken
	return &ast.BoolLiteral{Sp: t.Span, Value: t.Type == token.TRUE}
}

func (p *Parser) parseUnaryExpr() ast.Expression {
	start := p.curToken
	op := p.curToken.Type
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.UnaryExpr{Sp: p.span(start), Op: op, Operand: operand}
}

func (p *Parser) parseDerefExpr() ast.Expression {
	start := p.curToken
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.DerefExpr{Sp: p.span(start), Operand: operand}
}

func (p *Parser) parseRefExpr() ast.Expression {
	start := p.curToken
	mutable := false
	if p.peekTokenIs(token.MUT) {
		p.nextToken()
		mutable = true
	}
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.RefExpr{Sp: p.span(start), Mutable: mutable, Operand: operand}
}

func (p *Parser) parseGroupedOrTupleExpr() ast.Expression {
	start := p.curToken
	p.nextToken() // consume '('

	if p.curTokenIs(token.RPAREN) {
		return &ast.TupleExpr{Sp: p.span(start)}
	}

	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}

	if p.peekTokenIs(token.COMMA) {
		elements := []ast.Expression{first}
		for p.peekTokenIs(token.COMMA) {
			p.nextToken() // ','
			if p.peekTokenIs(token.RPAREN) {
				break
			}
			p.nextToken()
			elements = append(elements, p.parseExpression(LOWEST))
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return &ast.TupleExpr{Sp: p.span(start), Elements: elements}
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return first
}

func (p *Parser) parseArrayExpr() ast.Expression {
	start := p.curToken
	p.nextToken() // consume '['
	if p.curTokenIs(token.RBRACKET) {
		return &ast.ArrayExpr{Sp: p.span(start)}
	}
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken() // ';'
		p.nextToken()
		size := p.parseExpression(LOWEST)
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		return &ast.ArrayExpr{Sp: p.span(start), Repeat: first, Size: size}
	}
	elements := []ast.Expression{first}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RBRACKET) {
			break
		}
		p.nextToken()
		elements = append(elements, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.ArrayExpr{Sp: p.span(start), Elements: elements}
}

func (p *Parser) parseBlockAsExpr() ast.Expression {
	return p.parseBlockExpr()
}

// parseNoStructCondition parses an expression with struct-literal parsing
// suppressed, so `if x { ... }` parses `x` as the condition rather than
// greedily consuming `{` as a struct literal (a standard Pratt-parser
// ambiguity in brace-delimited languages).
func (p *Parser) parseNoStructCondition() ast.Expression {
	saved := p.allowStructLiteral
	p.allowStructLiteral = false
	expr := p.parseExpression(LOWEST)
	p.allowStructLiteral = saved
	return expr
}

func (p *Parser) parseMatchExpr() ast.Expression {
	start := p.curToken
	p.nextToken()
	scrutinee := p.parseNoStructCondition()
	if scrutinee == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()
	me := &ast.MatchExpr{Scrutinee: scrutinee}
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		arm := p.parseMatchArm()
		if arm == nil {
			p.synchronize()
			continue
		}
		me.Arms = append(me.Arms, arm)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
		p.nextToken()
	}
	me.Sp = p.span(start)
	return me
}

func (p *Parser) parseMatchArm() *ast.MatchArm {
	pat := p.parsePattern()
	if pat == nil {
		return nil
	}
	for p.peekTokenIs(token.PIPE) {
		// Or-patterns (`A | B => ...`) are folded away: only the first
		// alternative is retained as the arm pattern for now, since the
		// AST has no dedicated or-pattern node.
		p.nextToken()
		p.nextToken()
		p.parsePattern()
	}
	arm := &ast.MatchArm{Pattern: pat}
	if p.peekTokenIs(token.IF) {
		p.nextToken()
		p.nextToken()
		arm.Guard = p.parseNoStructCondition()
	}
	if !p.expectPeek(token.FAT_ARROW) {
		return nil
	}
	p.nextToken()
	arm.Body = p.parseExpression(LOWEST)
	if arm.Body == nil {
		return nil
	}
	return arm
}

func (p *Parser) parseIfExpr() ast.Expression {
	start := p.curToken
	p.nextToken()
	cond := p.parseNoStructCondition()
	if cond == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	then := p.parseBlockExpr()
	ie := &ast.IfExpr{Condition: cond, Then: then}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			ie.Else = p.parseIfExpr()
		} else if p.expectPeek(token.LBRACE) {
			ie.Else = p.parseBlockExpr()
		}
	}
	ie.Sp = p.span(start)
	return ie
}

func (p *Parser) parseWhileExpr() ast.Expression {
	return p.parseWhileExprLabeled(nil)
}

func (p *Parser) parseWhileExprLabeled(label *ast.Identifier) ast.Expression {
	start := p.curToken
	p.nextToken()
	cond := p.parseNoStructCondition()
	if cond == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockExpr()
	return &ast.WhileExpr{Sp: p.span(start), Label: label, Condition: cond, Body: body}
}

func (p *Parser) parseForExpr() ast.Expression {
	return p.parseForExprLabeled(nil)
}

func (p *Parser) parseForExprLabeled(label *ast.Identifier) ast.Expression {
	start := p.curToken
	p.nextToken()
	pat := p.parsePattern()
	if !p.expectPeek(token.IN) {
		return nil
	}
	p.nextToken()
	iterable := p.parseNoStructCondition()
	if iterable == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockExpr()
	return &ast.ForExpr{Sp: p.span(start), Label: label, Pattern: pat, Iterable: iterable, Body: body}
}

func (p *Parser) parseLoopExpr() ast.Expression {
	return p.parseLoopExprLabeled(nil)
}

func (p *Parser) parseLoopExprLabeled(label *ast.Identifier) ast.Expression {
	start := p.curToken
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockExpr()
	return &ast.LoopExpr{Sp: p.span(start), Label: label, Body: body}
}

func (p *Parser) parseClosureParamList() []*ast.Param {
	var params []*ast.Param
	if p.curTokenIs(token.PIPE_PIPE) {
		return params
	}
	if p.curTokenIs(token.PIPE) && p.peekTokenIs(token.PIPE) {
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
	p.expectPeek(token.PIPE)
	return params
}

func (p *Parser) parseClosureExpr() ast.Expression {
	start := p.curToken
	params := p.parseClosureParamList()
	return p.finishClosure(start, params)
}

func (p *Parser) parseClosureExprNoParams() ast.Expression {
	start := p.curToken
	return p.finishClosure(start, nil)
}

func (p *Parser) parseMoveClosureExpr() ast.Expression {
	start := p.curToken
	if !p.peekTokenIs(token.PIPE) && !p.peekTokenIs(token.PIPE_PIPE) {
		p.errorf(diagnostics.ErrP001, p.peekToken, "expected %s or %s after move, found %s",
			token.PIPE, token.PIPE_PIPE, p.peekToken.Type)
		return nil
	}
	p.nextToken()
	var params []*ast.Param
	if p.curTokenIs(token.PIPE) {
		params = p.parseClosureParamList()
	}
	c := p.finishClosure(start, params)
	if cl, ok := c.(*ast.ClosureExpr); ok {
		cl.IsMove = true
	}
	return c
}

func (p *Parser) finishClosure(start token.Token, params []*ast.Param) ast.Expression {
	var ret ast.Type
	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		ret = p.parseType()
	}
	p.nextToken()
	body := p.parseExpression(LOWEST)
	if body == nil {
		return nil
	}
	return &ast.ClosureExpr{Sp: p.span(start), Params: params, ReturnType: ret, Body: body}
}

func (p *Parser) parseOpenRangeExpr() ast.Expression {
	start := p.curToken
	inclusive := p.curToken.Type == token.DOT_DOT_EQ
	re := &ast.RangeExpr{Inclusive: inclusive}
	if p.canStartExpression(p.peekToken.Type) {
		p.nextToken()
		re.End = p.parseExpression(RANGE)
	}
	re.Sp = p.span(start)
	return re
}

func (p *Parser) canStartExpression(t token.Type) bool {
	_, ok := p.prefixParseFns[t]
	return ok
}

// --- infix ---

func (p *Parser) parseBinaryExpr(left ast.Expression) ast.Expression {
	start := p.curToken
	op := p.curToken.Type
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.BinaryExpr{Sp: left.Span().Cover(p.span(start)), Op: op, Left: left, Right: right}
}

func (p *Parser) parseAssignExpr(left ast.Expression) ast.Expression {
	op := p.curToken.Type
	p.nextToken()
	// Right-associative: use precedence - 1 so `a = b = c` nests as
	// `a = (b = c)` (spec §4.2, assignment is right-associative).
	value := p.parseExpression(ASSIGNMENT - 1)
	if value == nil {
		return nil
	}
	return &ast.AssignExpr{Sp: left.Span().Cover(value.Span()), Op: op, Target: left, Value: value}
}

func (p *Parser) parseRangeExpr(left ast.Expression) ast.Expression {
	inclusive := p.curToken.Type == token.DOT_DOT_EQ
	re := &ast.RangeExpr{Sp: left.Span(), Start: left, Inclusive: inclusive}
	if p.canStartExpression(p.peekToken.Type) {
		p.nextToken()
		re.End = p.parseExpression(RANGE)
		re.Sp = left.Span().Cover(re.End.Span())
	}
	return re
}

func (p *Parser) parseCastExpr(left ast.Expression) ast.Expression {
	p.nextToken()
	typ := p.parseType()
	if typ == nil {
		return nil
	}
	return &ast.CastExpr{Sp: left.Span().Cover(typ.Span()), Operand: left, Type: typ}
}

func (p *Parser) parseCallExpr(callee ast.Expression) ast.Expression {
	start := p.curToken
	var args []ast.Expression
	if !p.peekTokenIs(token.RPAREN) {
		for {
			p.nextToken()
			args = append(args, p.parseExpression(LOWEST))
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
	return &ast.CallExpr{Sp: callee.Span().Cover(p.span(start)), Callee: callee, Args: args}
}

func (p *Parser) parseIndexExpr(left ast.Expression) ast.Expression {
	start := p.curToken
	p.nextToken()
	idx := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.IndexExpr{Sp: left.Span().Cover(p.span(start)), Receiver: left, Index: idx}
}

func (p *Parser) parseDotExpr(left ast.Expression) ast.Expression {
	if p.peekTokenIs(token.AWAIT) {
		p.nextToken()
		return &ast.AwaitExpr{Sp: left.Span().Cover(p.curToken.Span), Operand: left}
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken() // '('
		start := p.curToken
		var args []ast.Expression
		if !p.peekTokenIs(token.RPAREN) {
			for {
				p.nextToken()
				args = append(args, p.parseExpression(LOWEST))
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
		return &ast.MethodCallExpr{Sp: left.Span().Cover(p.span(start)), Receiver: left, Method: name, Args: args}
	}
	return &ast.FieldExpr{Sp: left.Span().Cover(name.Sp), Receiver: left, Field: name}
}

func (p *Parser) parseStructLiteralFrom(start token.Token, path []*ast.Identifier) ast.Expression {
	p.nextToken() // '{'
	p.nextToken()
	sl := &ast.StructLiteralExpr{Path: path}
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.DOT_DOT) {
			p.nextToken()
			sl.Spread = p.parseExpression(LOWEST)
			break
		}
		fname := &ast.Identifier{Sp: p.curToken.Span, Value: p.curToken.Lexeme}
		var value ast.Expression
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			value = p.parseExpression(LOWEST)
		} else {
			value = &ast.PathExpr{Sp: fname.Sp, Segments: []*ast.Identifier{fname}}
		}
		sl.Fields = append(sl.Fields, &ast.FieldInit{Name: fname, Value: value})
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		p.nextToken()
		break
	}
	sl.Sp = start.Span.Cover(p.curToken.Span)
	return sl
}
