// Package parser turns a token stream into an AST using recursive descent
// for items, statements, and types, and Pratt parsing for expressions.
package parser

import (
	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/diagnostics"
	"github.com/latticelang/latticec/internal/source"
	"github.com/latticelang/latticec/internal/token"
)

// Precedence levels, lowest to highest (spec §4.2).
const (
	_ int = iota
	LOWEST
	ASSIGNMENT  // = += -= ...
	RANGE       // .. ..=
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	COMPARISON  // == != < <= > >=
	BITWISE_OR  // |
	BITWISE_XOR // ^
	BITWISE_AND // &
	SHIFT       // << >>
	ADDITIVE    // + -
	MULTIPLICATIVE // * / %
	CAST        // as
	PREFIX      // ! - * & &mut (unary)
	POSTFIX     // call / index / field / method
)

var precedences = map[token.Type]int{
	token.ASSIGN: ASSIGNMENT, token.PLUS_ASSIGN: ASSIGNMENT, token.MINUS_ASSIGN: ASSIGNMENT,
	token.STAR_ASSIGN: ASSIGNMENT, token.SLASH_ASSIGN: ASSIGNMENT, token.PERCENT_ASSIGN: ASSIGNMENT,
	token.AMP_ASSIGN: ASSIGNMENT, token.PIPE_ASSIGN: ASSIGNMENT, token.CARET_ASSIGN: ASSIGNMENT,
	token.SHL_ASSIGN: ASSIGNMENT, token.SHR_ASSIGN: ASSIGNMENT,

	token.DOT_DOT: RANGE, token.DOT_DOT_EQ: RANGE,

	token.PIPE_PIPE: LOGICAL_OR,
	token.AMP_AMP:   LOGICAL_AND,

	token.EQ_EQ: COMPARISON, token.BANG_EQ: COMPARISON, token.LT: COMPARISON,
	token.LE: COMPARISON, token.GT: COMPARISON, token.GE: COMPARISON,

	token.PIPE:  BITWISE_OR,
	token.CARET: BITWISE_XOR,
	token.AMP:   BITWISE_AND,

	token.SHL: SHIFT, token.SHR: SHIFT,

	token.PLUS: ADDITIVE, token.MINUS: ADDITIVE,

	token.STAR: MULTIPLICATIVE, token.SLASH: MULTIPLICATIVE, token.PERCENT: MULTIPLICATIVE,

	token.AS: CAST,

	token.LPAREN: POSTFIX, token.LBRACKET: POSTFIX, token.DOT: POSTFIX,
}

// MaxRecursionDepth guards parseExpression/parseType against stack
// exhaustion on pathologically nested input (spec §4.2).
const MaxRecursionDepth = 256

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser consumes a pre-lexed token slice (the lexer already buffers the
// whole file; look-ahead of more than one token is needed for e.g.
// distinguishing a struct literal from a block).
type Parser struct {
	fileID int
	tokens []token.Token
	pos    int

	curToken  token.Token
	peekToken token.Token

	depth               int
	inRecursionRecovery bool

	// allowStructLiteral suppresses parsing `Name { ... }` as a struct
	// literal while parsing if/while/for/match conditions, where `{`
	// instead opens the body block (standard Pratt-parser ambiguity).
	allowStructLiteral bool

	diags []*diagnostics.Diagnostic

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New creates a Parser over a finished token stream (as produced by
// lexer.Tokenize, always EOF-terminated).
func New(fileID int, tokens []token.Token) *Parser {
	p := &Parser{fileID: fileID, tokens: tokens, allowStructLiteral: true}
	p.prefixParseFns = make(map[token.Type]prefixParseFn)
	p.infixParseFns = make(map[token.Type]infixParseFn)
	p.registerExpressionParseFns()

	// Prime curToken/peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

// Diagnostics returns every diagnostic accumulated during parsing.
func (p *Parser) Diagnostics() []*diagnostics.Diagnostic { return p.diags }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
	} else {
		p.peekToken = token.Token{Type: token.EOF}
	}
	// The grammar is newline-insensitive inside expressions/statements;
	// callers that care about NEWLINE (none currently do — Lattice uses
	// `;` as the statement terminator) can check curToken directly before
	// calling nextToken. Blank NEWLINE tokens between statements are
	// skipped here so every other parse function can ignore them.
	for p.peekToken.Type == token.NEWLINE {
		p.advancePastNewline()
	}
}

func (p *Parser) advancePastNewline() {
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
	} else {
		p.peekToken = token.Token{Type: token.EOF}
	}
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

// expectPeek advances past peekToken if it matches t, else records a
// diagnostic and leaves the cursor in place.
func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(diagnostics.ErrP001, p.peekToken, "expected %s, found %s", t, p.peekToken.Type)
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) errorf(code diagnostics.Code, tok token.Token, format string, args ...any) {
	p.diags = append(p.diags, diagnostics.New(code, tok, format, args...))
}

func (p *Parser) span(start token.Token) source.Span {
	return start.Span.Cover(p.curToken.Span)
}

func (p *Parser) spanTo(start token.Token, end token.Token) source.Span {
	return start.Span.Cover(end.Span)
}

// synchronize implements panic-mode error recovery: skip tokens until one
// of the statement/item boundary tokens, or EOF (spec §4.2). Consumes the
// boundary token itself when it is `;`.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case token.SEMICOLON:
			p.nextToken()
			return
		case token.RBRACE, token.FN, token.LET, token.STRUCT, token.ENUM,
			token.TRAIT, token.IMPL, token.USE, token.CONST, token.STATIC:
			return
		}
		p.nextToken()
	}
}

// ParseFile parses one complete source file into a *ast.File.
func (p *Parser) ParseFile(name string) *ast.File {
	start := p.curToken
	file := &ast.File{Name: name}
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.NEWLINE) {
			p.nextToken()
			continue
		}
		item := p.parseItem()
		if item != nil {
			file.Items = append(file.Items, item)
			p.nextToken()
		} else {
			p.synchronize()
		}
	}
	end := p.curToken
	if len(p.tokens) > 0 {
		end = p.tokens[len(p.tokens)-1]
	}
	file.Sp = p.spanTo(start, end)
	return file
}

func (p *Parser) guardDepth(kind string) bool {
	if p.depth <= MaxRecursionDepth {
		return true
	}
	if !p.inRecursionRecovery {
		p.errorf(diagnostics.ErrP003, p.curToken, "%s too deeply nested: recursion limit exceeded", kind)
		p.inRecursionRecovery = true
	}
	return false
}
