package lexer_test

import (
	"testing"

	"github.com/latticelang/latticec/internal/lexer"
	"github.com/latticelang/latticec/internal/token"
)

// lexAll is a test helper: lexes input to completion and returns the
// token stream including the trailing EOF.
func lexAll(input string) []token.Token {
	l := lexer.New(0, input)
	return l.Tokenize()
}

func typesOf(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func assertTypes(t *testing.T, input string, want ...token.Type) {
	t.Helper()
	got := typesOf(lexAll(input))
	if len(got) != len(want) {
		t.Fatalf("lexAll(%q) = %v, want %v", input, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("lexAll(%q)[%d] = %s, want %s", input, i, got[i], want[i])
		}
	}
}

// TestTotality checks that the lexer always terminates in EOF, even on
// malformed input (spec §8 property 1).
func TestTotality(t *testing.T) {
	inputs := []string{
		"",
		"   \t\n  ",
		"/* unterminated",
		`"unterminated string`,
		"'",
		"§invalid€",
	}
	for _, in := range inputs {
		toks := lexAll(in)
		if len(toks) == 0 || toks[len(toks)-1].Type != token.EOF {
			t.Errorf("lexAll(%q) did not end in EOF: %v", in, toks)
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	assertTypes(t, "fn let mut x", token.FN, token.LET, token.MUT, token.IDENT, token.EOF)
	assertTypes(t, "self Self", token.SELF, token.SELF_TYPE, token.EOF)
}

func TestOperators(t *testing.T) {
	assertTypes(t, "+ - * / % == != <= >= && || << >> -> =>",
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.EQ_EQ, token.BANG_EQ, token.LE, token.GE, token.AMP_AMP,
		token.PIPE_PIPE, token.SHL, token.SHR, token.ARROW, token.FAT_ARROW,
		token.EOF)
}

func TestCompoundAssign(t *testing.T) {
	assertTypes(t, "+= -= *= /= %= &= |= ^= <<= >>=",
		token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN, token.SLASH_ASSIGN,
		token.PERCENT_ASSIGN, token.AMP_ASSIGN, token.PIPE_ASSIGN, token.CARET_ASSIGN,
		token.SHL_ASSIGN, token.SHR_ASSIGN, token.EOF)
}

func TestRanges(t *testing.T) {
	assertTypes(t, ".. ..=", token.DOT_DOT, token.DOT_DOT_EQ, token.EOF)
}

func TestIntegerBases(t *testing.T) {
	cases := []struct {
		input string
		base  token.IntBase
		value int64
	}{
		{"42", token.Base10, 42},
		{"0x2A", token.Base16, 42},
		{"0b101010", token.Base2, 42},
		{"0o52", token.Base8, 42},
		{"1_000_000", token.Base10, 1000000},
	}
	for _, c := range cases {
		toks := lexAll(c.input)
		if toks[0].Type != token.INT {
			t.Fatalf("lexAll(%q)[0].Type = %s, want INT", c.input, toks[0].Type)
		}
		if toks[0].IntBase != c.base {
			t.Errorf("lexAll(%q) base = %d, want %d", c.input, toks[0].IntBase, c.base)
		}
		if toks[0].IntValue != c.value {
			t.Errorf("lexAll(%q) value = %d, want %d", c.input, toks[0].IntValue, c.value)
		}
	}
}

func TestIntegerOverflowSaturates(t *testing.T) {
	l := lexer.New(0, "99999999999999999999999999")
	tok := l.NextToken()
	if tok.Type != token.INT {
		t.Fatalf("Type = %s, want INT", tok.Type)
	}
	if !tok.IntOverflow {
		t.Errorf("expected IntOverflow to be set")
	}
	if len(l.Diagnostics()) == 0 {
		t.Errorf("expected an overflow diagnostic")
	}
}

func TestIntegerSuffix(t *testing.T) {
	l := lexer.New(0, "10i32")
	tok := l.NextToken()
	if tok.Type != token.INT || tok.IntSuffix != "i32" {
		t.Fatalf("got Type=%s Suffix=%q, want INT/i32", tok.Type, tok.IntSuffix)
	}
}

func TestFloatLiterals(t *testing.T) {
	cases := []struct {
		input string
		value float64
	}{
		{"3.14", 3.14},
		{"1.0e10", 1.0e10},
		{"1e-3", 1e-3},
	}
	for _, c := range cases {
		l := lexer.New(0, c.input)
		tok := l.NextToken()
		if tok.Type != token.FLOAT {
			t.Fatalf("lexAll(%q)[0].Type = %s, want FLOAT", c.input, tok.Type)
		}
		if tok.FloatValue != c.value {
			t.Errorf("lexAll(%q) value = %v, want %v", c.input, tok.FloatValue, c.value)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	l := lexer.New(0, `"a\nb\t\"c\""`)
	tok := l.NextToken()
	if tok.Type != token.STRING {
		t.Fatalf("Type = %s, want STRING", tok.Type)
	}
	want := "a\nb\t\"c\""
	if tok.StringValue != want {
		t.Errorf("StringValue = %q, want %q", tok.StringValue, want)
	}
}

func TestStringHexAndUnicodeEscapes(t *testing.T) {
	l := lexer.New(0, `"\x41\u{1F600}"`)
	tok := l.NextToken()
	if tok.Type != token.STRING {
		t.Fatalf("Type = %s, want STRING", tok.Type)
	}
	want := "A\U0001F600"
	if tok.StringValue != want {
		t.Errorf("StringValue = %q, want %q", tok.StringValue, want)
	}
}

func TestRawStrings(t *testing.T) {
	l := lexer.New(0, `r"no \n escapes"`)
	tok := l.NextToken()
	if tok.Type != token.RAW_STRING {
		t.Fatalf("Type = %s, want RAW_STRING", tok.Type)
	}
	if tok.StringValue != `no \n escapes` {
		t.Errorf("StringValue = %q", tok.StringValue)
	}
}

func TestRawStringsHashDelimited(t *testing.T) {
	l := lexer.New(0, `r#"has "quotes" inside"#`)
	tok := l.NextToken()
	if tok.Type != token.RAW_STRING {
		t.Fatalf("Type = %s, want RAW_STRING", tok.Type)
	}
	if tok.StringValue != `has "quotes" inside` {
		t.Errorf("StringValue = %q", tok.StringValue)
	}
}

func TestBareRIsIdentifier(t *testing.T) {
	assertTypes(t, "r + 1", token.IDENT, token.PLUS, token.INT, token.EOF)
}

func TestCharLiteral(t *testing.T) {
	l := lexer.New(0, `'a'`)
	tok := l.NextToken()
	if tok.Type != token.CHAR || tok.CharValue != 'a' {
		t.Fatalf("got Type=%s Value=%q, want CHAR/a", tok.Type, tok.CharValue)
	}
}

func TestEmptyCharLiteralDiagnoses(t *testing.T) {
	l := lexer.New(0, `''`)
	l.NextToken()
	if len(l.Diagnostics()) == 0 {
		t.Errorf("expected a diagnostic for empty character literal")
	}
}

func TestNestedBlockComments(t *testing.T) {
	l := lexer.New(0, "/* outer /* inner */ still outer */ 42")
	tok := l.NextToken()
	if tok.Type != token.INT || tok.IntValue != 42 {
		t.Fatalf("got Type=%s Value=%d, want INT/42", tok.Type, tok.IntValue)
	}
	if len(l.Diagnostics()) != 0 {
		t.Errorf("unexpected diagnostics: %v", l.Diagnostics())
	}
}

func TestLineComment(t *testing.T) {
	assertTypes(t, "1 // comment\n2", token.INT, token.NEWLINE, token.INT, token.EOF)
}

func TestInvalidCharacterRecovers(t *testing.T) {
	l := lexer.New(0, "1 § 2")
	toks := l.Tokenize()
	if len(l.Diagnostics()) == 0 {
		t.Errorf("expected a diagnostic for invalid character")
	}
	types := typesOf(toks)
	want := []token.Type{token.INT, token.ILLEGAL, token.INT, token.EOF}
	if len(types) != len(want) {
		t.Fatalf("got %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("got %v, want %v", types, want)
		}
	}
}
