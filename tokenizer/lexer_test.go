package tokenizer

import (
	"testing"

	"github.com/texlayout/texmath/scanner"
	"github.com/texlayout/texmath/token"
)

func lexAll(t *testing.T, text string) []token.Token {
	t.Helper()
	lx := NewLexer(scanner.New(text, "test"))
	var toks []token.Token
	for {
		tok, err := lx.NextToken()
		if err != nil {
			t.Fatalf("NextToken: %v", err)
		}
		toks = append(toks, tok)
		if tok.IsEof() {
			return toks
		}
	}
}

func TestLexCharacters(t *testing.T) {
	toks := lexAll(t, "a1+")
	wantKinds := []token.Kind{token.Character, token.Character, token.Character, token.Eof}
	if len(toks) != len(wantKinds) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(wantKinds), toks)
	}
	wantCats := []token.Category{token.Letter, token.Digit, token.MathSymbol}
	for i, cat := range wantCats {
		if toks[i].Category != cat {
			t.Errorf("token %d: category = %v, want %v", i, toks[i].Category, cat)
		}
	}
}

func TestLexControlSequenceLetterRun(t *testing.T) {
	toks := lexAll(t, "\\alpha beta")
	if toks[0].Kind != token.ControlSequence || toks[0].Name != "alpha" {
		t.Fatalf("got %+v, want control sequence alpha", toks[0])
	}
	// trailing whitespace after a letter-run control sequence is skipped,
	// so "beta" starts immediately as its own letter run.
	if toks[1].Kind != token.Character || toks[1].Char != 'b' {
		t.Fatalf("got %+v, want character 'b' immediately after \\alpha", toks[1])
	}
}

func TestLexControlSequenceSingleSymbol(t *testing.T) {
	toks := lexAll(t, "\\, x")
	if toks[0].Kind != token.ControlSequence || toks[0].Name != "," {
		t.Fatalf("got %+v, want control sequence \",\"", toks[0])
	}
	// single-symbol control sequences do not skip trailing whitespace.
	if toks[1].Kind != token.Character || toks[1].Category != token.Space {
		t.Fatalf("got %+v, want a space character", toks[1])
	}
}

func TestLexEndOfLineToken(t *testing.T) {
	toks := lexAll(t, "\\\\")
	if toks[0].Kind != token.ControlSequence || !toks[0].IsEndOfLine() {
		t.Fatalf("got %+v, want an end-of-line control sequence", toks[0])
	}
}

func TestLexGroupingAndAlignment(t *testing.T) {
	toks := lexAll(t, "{a&b}")
	wantKinds := []token.Kind{
		token.GroupBegin, token.Character, token.Alignment, token.Character, token.GroupEnd, token.Eof,
	}
	for i, k := range wantKinds {
		if toks[i].Kind != k {
			t.Errorf("token %d: kind = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLexCommentIsInvisible(t *testing.T) {
	toks := lexAll(t, "a% a comment\nb")
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3 (a, b, eof): %v", len(toks), toks)
	}
	if toks[0].Char != 'a' || toks[1].Char != 'b' {
		t.Fatalf("got %+v", toks)
	}
}

func TestLexEofIsIdempotent(t *testing.T) {
	lx := NewLexer(scanner.New("a", "test"))
	lx.NextToken()
	first, _ := lx.NextToken()
	second, _ := lx.NextToken()
	if !first.IsEof() || !second.IsEof() {
		t.Fatalf("expected repeated Eof, got %+v then %+v", first, second)
	}
}

func TestLexParameterOnlyInParamMode(t *testing.T) {
	lx := NewLexer(scanner.New("#1", "test"))
	tok, err := lx.NextToken()
	if err != nil {
		t.Fatal(err)
	}
	if tok.Kind != token.Character || tok.Char != '#' {
		t.Fatalf("without param mode, '#' should lex as a character, got %+v", tok)
	}

	lx2 := NewLexer(scanner.New("#1", "test"))
	lx2.SetParamMode(true)
	tok2, err := lx2.NextToken()
	if err != nil {
		t.Fatal(err)
	}
	if tok2.Kind != token.Parameter || tok2.Index != 1 {
		t.Fatalf("with param mode, '#1' should lex as Parameter(1), got %+v", tok2)
	}
}

func TestLexInvalidControlSequenceAtEof(t *testing.T) {
	lx := NewLexer(scanner.New("\\", "test"))
	_, err := lx.NextToken()
	if err == nil {
		t.Fatal("expected an error for a trailing lone backslash")
	}
}
