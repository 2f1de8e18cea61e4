// Package token defines the lexical tokens of Lattice.
package token

import "github.com/latticelang/latticec/internal/source"

// Type identifies the lexical class of a Token.
type Type int

const (
	ILLEGAL Type = iota
	EOF
	NEWLINE

	// Literals
	IDENT
	INT
	FLOAT
	STRING
	RAW_STRING
	CHAR
	TRUE
	FALSE

	// Keywords
	FN
	LET
	MUT
	CONST
	STATIC
	IF
	ELSE
	WHILE
	FOR
	LOOP
	BREAK
	CONTINUE
	RETURN
	MATCH
	STRUCT
	ENUM
	TRAIT
	IMPL
	PUB
	USE
	MOD
	AS
	WHERE
	TYPE
	ASYNC
	AWAIT
	UNSAFE
	DYN
	MOVE
	REF
	SELF_TYPE // Self
	SELF      // self
	IN

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	AMP
	PIPE
	CARET
	TILDE
	SHL
	SHR
	AMP_AMP
	PIPE_PIPE
	BANG
	EQ_EQ
	BANG_EQ
	LT
	LE
	GT
	GE
	ASSIGN
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	PERCENT_ASSIGN
	AMP_ASSIGN
	PIPE_ASSIGN
	CARET_ASSIGN
	SHL_ASSIGN
	SHR_ASSIGN
	ARROW    // ->
	FAT_ARROW // =>
	DOT_DOT
	DOT_DOT_EQ
	COLON_COLON
	DOT
	QUESTION
	AT

	// Delimiters
	COMMA
	SEMICOLON
	COLON
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
)

var names = map[Type]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", NEWLINE: "NEWLINE",
	IDENT: "IDENT", INT: "INT", FLOAT: "FLOAT", STRING: "STRING",
	RAW_STRING: "RAW_STRING", CHAR: "CHAR", TRUE: "true", FALSE: "false",
	FN: "fn", LET: "let", MUT: "mut", CONST: "const", STATIC: "static",
	IF: "if", ELSE: "else", WHILE: "while", FOR: "for", LOOP: "loop",
	BREAK: "break", CONTINUE: "continue", RETURN: "return", MATCH: "match",
	STRUCT: "struct", ENUM: "enum", TRAIT: "trait", IMPL: "impl", PUB: "pub",
	USE: "use", MOD: "mod", AS: "as", WHERE: "where", TYPE: "type",
	ASYNC: "async", AWAIT: "await", UNSAFE: "unsafe", DYN: "dyn",
	MOVE: "move", REF: "ref", SELF_TYPE: "Self", SELF: "self", IN: "in",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	AMP: "&", PIPE: "|", CARET: "^", TILDE: "~", SHL: "<<", SHR: ">>",
	AMP_AMP: "&&", PIPE_PIPE: "||", BANG: "!",
	EQ_EQ: "==", BANG_EQ: "!=", LT: "<", LE: "<=", GT: ">", GE: ">=",
	ASSIGN: "=", PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=", STAR_ASSIGN: "*=",
	SLASH_ASSIGN: "/=", PERCENT_ASSIGN: "%=", AMP_ASSIGN: "&=",
	PIPE_ASSIGN: "|=", CARET_ASSIGN: "^=", SHL_ASSIGN: "<<=", SHR_ASSIGN: ">>=",
	ARROW: "->", FAT_ARROW: "=>", DOT_DOT: "..", DOT_DOT_EQ: "..=",
	COLON_COLON: "::", DOT: ".", QUESTION: "?", AT: "@",
	COMMA: ",", SEMICOLON: ";", COLON: ":",
	LPAREN: "(", RPAREN: ")", LBRACKET: "[", RBRACKET: "]",
	LBRACE: "{", RBRACE: "}",
}

func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return "UNKNOWN"
}

var keywords = map[string]Type{
	"fn": FN, "let": LET, "mut": MUT, "const": CONST, "static": STATIC,
	"if": IF, "else": ELSE, "while": WHILE, "for": FOR, "loop": LOOP,
	"break": BREAK, "continue": CONTINUE, "return": RETURN, "match": MATCH,
	"struct": STRUCT, "enum": ENUM, "trait": TRAIT, "impl": IMPL, "pub": PUB,
	"use": USE, "mod": MOD, "as": AS, "where": WHERE, "type": TYPE,
	"async": ASYNC, "await": AWAIT, "unsafe": UNSAFE, "dyn": DYN,
	"move": MOVE, "ref": REF, "Self": SELF_TYPE, "self": SELF, "in": IN,
	"true": TRUE, "false": FALSE,
}

// LookupIdent classifies ident as a keyword Type, or IDENT otherwise.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IntBase identifies the base of an integer literal's digit sequence.
type IntBase int

const (
	Base10 IntBase = 10
	Base2  IntBase = 2
	Base8  IntBase = 8
	Base16 IntBase = 16
)

// Token is a single lexical token with its originating span.
type Token struct {
	Type    Type
	Lexeme  string // exact source text
	Line    int
	Column  int
	Span    source.Span

	// Literal payloads, populated only for the relevant Type:
	IntValue     int64
	IntBase      IntBase
	IntSuffix    string
	IntOverflow  bool // saturation marker: digits exceeded the accumulator
	FloatValue   float64
	FloatSuffix  string
	StringValue  string
	CharValue    rune
}

func (t Token) String() string {
	if t.Lexeme != "" {
		return t.Lexeme
	}
	return t.Type.String()
}
