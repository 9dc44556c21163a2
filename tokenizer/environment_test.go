package tokenizer

import (
	"testing"

	"github.com/texlayout/texmath/scanner"
	"github.com/texlayout/texmath/texerr"
	"github.com/texlayout/texmath/token"
)

func newEnv(text string) *Environment {
	lx := NewLexer(scanner.New(text, "test"))
	return NewEnvironment(lx, 0, nil)
}

func expandAll(t *testing.T, text string) []token.Token {
	t.Helper()
	env := newEnv(text)
	var toks []token.Token
	for {
		tok, err := env.NextExpandedToken()
		if err != nil {
			t.Fatalf("NextExpandedToken(%q): %v", text, err)
		}
		toks = append(toks, tok)
		if tok.IsEof() {
			return toks
		}
	}
}

func TestDefSimpleSubstitution(t *testing.T) {
	toks := expandAll(t, "\\def\\foo{xy}\\foo")
	// expect 'x', 'y', Eof
	if len(toks) != 3 || toks[0].Char != 'x' || toks[1].Char != 'y' {
		t.Fatalf("got %v", toks)
	}
}

func TestDefWithParameters(t *testing.T) {
	toks := expandAll(t, "\\def\\pair#1#2{#1,#2}\\pair{a}{b}")
	chars := charsOf(toks)
	if chars != "a,b" {
		t.Fatalf("got %q, want %q", chars, "a,b")
	}
}

func TestDefWithDelimiter(t *testing.T) {
	toks := expandAll(t, "\\def\\greet to#1{hi #1}\\greet to world")
	chars := charsOf(toks)
	if chars != "hi world" {
		t.Fatalf("got %q, want %q", chars, "hi world")
	}
}

func TestDefDelimiterMismatchIsMacroSuffixNotFound(t *testing.T) {
	env := newEnv("\\def\\greet to#1{hi #1}\\greet from world")
	var lastErr error
	for {
		_, err := env.NextExpandedToken()
		if err != nil {
			lastErr = err
			break
		}
	}
	terr, ok := lastErr.(*texerr.Error)
	if !ok || terr.Kind != texerr.MacroSuffixNotFound {
		t.Fatalf("got %v, want MacroSuffixNotFound", lastErr)
	}
}

func TestNewcommandWithCount(t *testing.T) {
	toks := expandAll(t, "\\newcommand{\\twice}[1]{#1#1}\\twice{z}")
	chars := charsOf(toks)
	if chars != "zz" {
		t.Fatalf("got %q, want %q", chars, "zz")
	}
}

func TestUndefinedControlSequence(t *testing.T) {
	env := newEnv("\\notarealmacro")
	_, err := env.NextExpandedToken()
	terr, ok := err.(*texerr.Error)
	if !ok || terr.Kind != texerr.UndefinedControlSequence {
		t.Fatalf("got %v, want UndefinedControlSequence", err)
	}
}

func TestBuiltinRedefinitionRejectedAtGlobalScope(t *testing.T) {
	env := newEnv("\\def\\sum{oops}")
	_, err := env.NextExpandedToken()
	terr, ok := err.(*texerr.Error)
	if !ok || terr.Kind != texerr.BuiltinRedefinition {
		t.Fatalf("got %v, want BuiltinRedefinition", err)
	}
}

func TestBuiltinSymbolsPassThroughUnexpanded(t *testing.T) {
	toks := expandAll(t, "\\alpha")
	if len(toks) != 2 || toks[0].Kind != token.ControlSequence || toks[0].Name != "alpha" {
		t.Fatalf("got %v, want the builtin \\alpha token to pass through", toks)
	}
}

func TestExpansionTooDeepOnSelfReference(t *testing.T) {
	lx := NewLexer(scanner.New("\\def\\loop{\\loop}\\loop", "test"))
	env := NewEnvironment(lx, 8, nil)
	var lastErr error
	for i := 0; i < 100; i++ {
		_, err := env.NextExpandedToken()
		if err != nil {
			lastErr = err
			break
		}
	}
	terr, ok := lastErr.(*texerr.Error)
	if !ok || terr.Kind != texerr.ExpansionTooDeep {
		t.Fatalf("got %v, want ExpansionTooDeep", lastErr)
	}
}

func charsOf(toks []token.Token) string {
	var out []rune
	for _, tok := range toks {
		if tok.Kind == token.Character {
			out = append(out, tok.Char)
		}
	}
	return string(out)
}
