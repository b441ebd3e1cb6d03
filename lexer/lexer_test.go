package lexer

import "testing"

func kinds(toks []Info) []Token {
	out := make([]Token, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestNextTokenBasics(t *testing.T) {
	src := `function main() let x = 1 + 2 * 3; print(x); .. `
	l := New(src)
	toks := l.TokenizeAll()
	want := []Token{
		FUNCTION, IDENTIFIER, LPAREN, RPAREN,
		LET, IDENTIFIER, ASSIGN, INT_LITERAL, PLUS, INT_LITERAL, STAR, INT_LITERAL, SEMICOLON,
		IDENTIFIER, LPAREN, IDENTIFIER, RPAREN, SEMICOLON,
		DOT_DOT, EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestStringLiteralVerbatim(t *testing.T) {
	l := New(`"hello \n world"`)
	tok := l.NextToken()
	if tok.Kind != STRING_LITERAL {
		t.Fatalf("kind = %v, want STRING_LITERAL", tok.Kind)
	}
	if tok.Literal != `hello \n world` {
		t.Errorf("literal = %q, want verbatim payload including backslash", tok.Literal)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"unterminated`)
	tok := l.NextToken()
	if tok.Kind != ILLEGAL {
		t.Fatalf("kind = %v, want ILLEGAL", tok.Kind)
	}
	if l.Err() == nil {
		t.Fatal("expected lex error for unterminated string")
	}
}

func TestFloatPromotion(t *testing.T) {
	l := New("1 1.5 2.")
	tok := l.NextToken()
	if tok.Kind != INT_LITERAL || tok.Value.Int != 1 {
		t.Fatalf("first token = %+v, want INT_LITERAL 1", tok)
	}
	tok = l.NextToken()
	if tok.Kind != FLOAT_LITERAL || tok.Value.Float != 1.5 {
		t.Fatalf("second token = %+v, want FLOAT_LITERAL 1.5", tok)
	}
	// "2." without a trailing digit does not promote (spec: '.' followed by digits).
	tok = l.NextToken()
	if tok.Kind != INT_LITERAL || tok.Value.Int != 2 {
		t.Fatalf("third token = %+v, want INT_LITERAL 2", tok)
	}
	tok = l.NextToken()
	if tok.Kind != DOT {
		t.Fatalf("fourth token = %+v, want DOT", tok)
	}
}

func TestCommentSkipped(t *testing.T) {
	l := New("let x = 1; # this is a comment\nlet y = 2;")
	toks := kinds(l.TokenizeAll())
	count := 0
	for _, k := range toks {
		if k == LET {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected 2 let tokens, got %d (%v)", count, toks)
	}
}

func TestIllegalCharacter(t *testing.T) {
	l := New("let x = @;")
	for {
		tok := l.NextToken()
		if tok.Kind == ILLEGAL {
			if l.Err() == nil {
				t.Fatal("expected lex error recorded")
			}
			return
		}
		if tok.Kind == EOF {
			t.Fatal("expected to hit illegal character before EOF")
		}
	}
}

func TestPositionTracking(t *testing.T) {
	l := New("let\nx = 1;")
	_ = l.NextToken() // let, line 1
	tok := l.NextToken()
	if tok.Position.Line != 2 {
		t.Errorf("x position line = %d, want 2", tok.Position.Line)
	}
}
