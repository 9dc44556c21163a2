package texmath

import (
	"io"
	"testing"

	"github.com/texlayout/texmath/texerr"
	"github.com/texlayout/texmath/token"
)

func parseAll(t *testing.T, src string, cfg Config) ([]token.Event, error) {
	t.Helper()
	p := NewParser(src, nil, cfg)
	var evs []token.Event
	for {
		ev, err := p.NextEvent()
		if err == io.EOF {
			return evs, nil
		}
		if err != nil {
			return evs, err
		}
		evs = append(evs, ev)
	}
}

func mustParse(t *testing.T, src string, cfg Config) []token.Event {
	t.Helper()
	evs, err := parseAll(t, src, cfg)
	if err != nil {
		t.Fatalf("parse(%q): unexpected error %v", src, err)
	}
	return evs
}

func wantErr(t *testing.T, src string, cfg Config, kind texerr.Kind) {
	t.Helper()
	_, err := parseAll(t, src, cfg)
	terr, ok := err.(*texerr.Error)
	if !ok {
		t.Fatalf("parse(%q): got %v, want *texerr.Error with kind %v", src, err, kind)
	}
	if terr.Kind != kind {
		t.Fatalf("parse(%q): error kind = %v, want %v", src, terr.Kind, kind)
	}
}

// TestScenarioSubSuper is spec.md §8 scenario 1: "a_i^2".
func TestScenarioSubSuper(t *testing.T) {
	evs := mustParse(t, "a_i^2", DefaultConfig())
	want := []struct {
		kind token.EventKind
		char rune
	}{
		{token.EvContent, 'a'},
		{token.EvScript, 0},
		{token.EvContent, 'i'},
		{token.EvContent, '2'},
	}
	if len(evs) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(evs), len(want), evs)
	}
	for i, w := range want {
		if evs[i].Kind != w.kind {
			t.Errorf("event %d: kind = %v, want %v", i, evs[i].Kind, w.kind)
		}
	}
	if evs[1].Position != token.SubSuper {
		t.Errorf("Script position = %v, want SubSuper", evs[1].Position)
	}
	if evs[0].Content != token.Identifier || evs[2].Content != token.Identifier {
		t.Errorf("expected identifier content for 'a' and 'i'")
	}
	if evs[3].Content != token.Number {
		t.Errorf("expected number content for '2'")
	}
}

// TestScenarioMovableLimits is spec.md §8 scenario 2:
// "\sum_{i=0}^n i" in display mode.
func TestScenarioMovableLimits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DisplayMode = true
	evs := mustParse(t, `\sum_{i=0}^n i`, cfg)

	wantKinds := []token.EventKind{
		token.EvContent, token.EvScript, token.EvBeginGroup, token.EvContent,
		token.EvContent, token.EvContent, token.EvEndGroup, token.EvContent, token.EvContent,
	}
	if len(evs) != len(wantKinds) {
		t.Fatalf("got %d events, want %d: %+v", len(evs), len(wantKinds), evs)
	}
	for i, k := range wantKinds {
		if evs[i].Kind != k {
			t.Errorf("event %d: kind = %v, want %v", i, evs[i].Kind, k)
		}
	}
	if evs[0].Char != '∑' || !evs[0].MovableLimits || evs[0].Class != token.Op {
		t.Errorf("sum content = %+v, want large movable operator '∑'", evs[0])
	}
	if evs[1].Position != token.MovableSubSuper {
		t.Errorf("Script position = %v, want MovableSubSuper", evs[1].Position)
	}
	if evs[5].Char != '0' || evs[5].Content != token.Number {
		t.Errorf("event 5 = %+v, want Number '0'", evs[5])
	}
	if evs[7].Char != 'n' {
		t.Errorf("event 7 = %+v, want Identifier 'n'", evs[7])
	}
	if evs[8].Char != 'i' {
		t.Errorf("event 8 = %+v, want Identifier 'i'", evs[8])
	}
}

// TestScenarioFraction is spec.md §8 scenario 3: "\frac{1}{2}".
func TestScenarioFraction(t *testing.T) {
	evs := mustParse(t, `\frac{1}{2}`, DefaultConfig())
	wantKinds := []token.EventKind{
		token.EvFraction, token.EvBeginGroup, token.EvContent, token.EvEndGroup,
		token.EvBeginGroup, token.EvContent, token.EvEndGroup,
	}
	if len(evs) != len(wantKinds) {
		t.Fatalf("got %d events, want %d: %+v", len(evs), len(wantKinds), evs)
	}
	for i, k := range wantKinds {
		if evs[i].Kind != k {
			t.Errorf("event %d: kind = %v, want %v", i, evs[i].Kind, k)
		}
	}
	if evs[2].Char != '1' || evs[5].Char != '2' {
		t.Errorf("got numerator/denominator %c/%c, want 1/2", evs[2].Char, evs[5].Char)
	}
}

// TestScenarioMatrix is spec.md §8 scenario 4:
// "\begin{pmatrix} a & b \\ c & d \end{pmatrix}".
func TestScenarioMatrix(t *testing.T) {
	evs := mustParse(t, `\begin{pmatrix} a & b \\ c & d \end{pmatrix}`, DefaultConfig())
	wantKinds := []token.EventKind{
		token.EvBeginGroup, token.EvBeginArray,
		token.EvContent, token.EvEnvironmentFlow, token.EvContent, token.EvEnvironmentFlow,
		token.EvContent, token.EvEnvironmentFlow, token.EvContent,
		token.EvEndArray, token.EvEndGroup,
	}
	if len(evs) != len(wantKinds) {
		t.Fatalf("got %d events, want %d: %+v", len(evs), len(wantKinds), evs)
	}
	for i, k := range wantKinds {
		if evs[i].Kind != k {
			t.Errorf("event %d: kind = %v, want %v", i, evs[i].Kind, k)
		}
	}
	if evs[0].FenceLeft != '(' || evs[0].FenceRight != ')' {
		t.Errorf("fence = %c/%c, want (/)", evs[0].FenceLeft, evs[0].FenceRight)
	}
	if evs[3].Flow != token.FlowAlignment || evs[7].Flow != token.FlowAlignment {
		t.Errorf("expected Alignment flows at positions 3 and 7")
	}
	if evs[5].Flow != token.FlowNewLine {
		t.Errorf("expected NewLine flow at position 5, got %+v", evs[5])
	}
}

// TestScenarioRadicalWithIndex is spec.md §8 scenario 5: "\sqrt[3]{x}".
func TestScenarioRadicalWithIndex(t *testing.T) {
	evs := mustParse(t, `\sqrt[3]{x}`, DefaultConfig())
	wantKinds := []token.EventKind{
		token.EvRadical, token.EvBeginGroup, token.EvContent, token.EvEndGroup,
		token.EvBeginGroup, token.EvContent, token.EvEndGroup,
	}
	if len(evs) != len(wantKinds) {
		t.Fatalf("got %d events, want %d: %+v", len(evs), len(wantKinds), evs)
	}
	for i, k := range wantKinds {
		if evs[i].Kind != k {
			t.Errorf("event %d: kind = %v, want %v", i, evs[i].Kind, k)
		}
	}
	if !evs[0].IndexPresent {
		t.Errorf("Radical.IndexPresent = false, want true")
	}
	if evs[2].Char != '3' || evs[5].Char != 'x' {
		t.Errorf("got index/radicand %c/%c, want 3/x", evs[2].Char, evs[5].Char)
	}
}

// TestScenarioDoubleScript is spec.md §8 scenario 6: "a__b".
func TestScenarioDoubleScript(t *testing.T) {
	wantErr(t, "a__b", DefaultConfig(), texerr.DoubleScript)
}

func TestUnmatchedCloseIsError(t *testing.T) {
	wantErr(t, "a}", DefaultConfig(), texerr.UnmatchedClose)
}

func TestUnbalancedGroupAtEofIsError(t *testing.T) {
	wantErr(t, "{a", DefaultConfig(), texerr.UnmatchedOpen)
}

func TestStrayAlignmentOutsideArray(t *testing.T) {
	wantErr(t, "a & b", DefaultConfig(), texerr.StrayAlignment)
}

func TestEmptyRadicandIsError(t *testing.T) {
	wantErr(t, `\sqrt{}`, DefaultConfig(), texerr.EmptyRadicand)
}

func TestUnknownEnvironmentIsError(t *testing.T) {
	wantErr(t, `\begin{nonsense}x\end{nonsense}`, DefaultConfig(), texerr.UnknownEnvironment)
}

func TestEnvironmentMismatchIsError(t *testing.T) {
	wantErr(t, `\begin{matrix}a\end{pmatrix}`, DefaultConfig(), texerr.EnvironmentMismatch)
}

func TestLimitsRejectedWhenDisallowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowSuffixModifiers = false
	wantErr(t, `\sum\limits_0^1`, cfg, texerr.LimitsInInvalidContext)
}

// TestCommentTransparency is spec.md §8's "Comment transparency"
// invariant: a "%...\n" anywhere outside a control-sequence name must
// not change the event sequence.
func TestCommentTransparency(t *testing.T) {
	plain := mustParse(t, "a+b", DefaultConfig())
	commented := mustParse(t, "a%comment\n+b", DefaultConfig())
	if len(plain) != len(commented) {
		t.Fatalf("got %d events with a comment, %d without", len(commented), len(plain))
	}
	for i := range plain {
		if plain[i].Kind != commented[i].Kind || plain[i].Char != commented[i].Char {
			t.Errorf("event %d differs: %+v vs %+v", i, plain[i], commented[i])
		}
	}
}

// TestScopeHygiene is spec.md §8's "Scope hygiene" invariant: a macro
// defined inside a brace group is unresolvable outside it.
func TestScopeHygiene(t *testing.T) {
	wantErr(t, `{\def\foo{x}}\foo`, DefaultConfig(), texerr.UndefinedControlSequence)
}

// TestIdempotentEof is spec.md §8's "Idempotent EOF" invariant.
func TestIdempotentEof(t *testing.T) {
	p := NewParser("a", nil, DefaultConfig())
	if _, err := p.NextEvent(); err != nil {
		t.Fatalf("first NextEvent: %v", err)
	}
	if _, err := p.NextEvent(); err != io.EOF {
		t.Fatalf("second NextEvent = %v, want io.EOF", err)
	}
	if _, err := p.NextEvent(); err != io.EOF {
		t.Fatalf("third NextEvent = %v, want io.EOF (idempotent)", err)
	}
}

// TestEofDrainsTrailingSuffix guards against flushSuffix's events being
// silently dropped when the suffix that triggers them is only flushed by
// Eof itself: "x^2" never sees a following nucleus, so the Script event
// and its child are only produced by the same step() call that returns
// io.EOF, and NextEvent must still hand them out before reporting EOF.
func TestEofDrainsTrailingSuffix(t *testing.T) {
	p := NewParser("x^2", nil, DefaultConfig())
	ev, err := p.NextEvent()
	if err != nil || ev.Kind != token.EvContent || ev.Char != 'x' {
		t.Fatalf("event 1 = %+v, %v, want Content('x')", ev, err)
	}
	ev, err = p.NextEvent()
	if err != nil || ev.Kind != token.EvScript || ev.Position != token.Super {
		t.Fatalf("event 2 = %+v, %v, want Script(Super)", ev, err)
	}
	ev, err = p.NextEvent()
	if err != nil || ev.Kind != token.EvContent || ev.Char != '2' {
		t.Fatalf("event 3 = %+v, %v, want Content('2')", ev, err)
	}
	if _, err := p.NextEvent(); err != io.EOF {
		t.Fatalf("event 4 err = %v, want io.EOF", err)
	}
	if _, err := p.NextEvent(); err != io.EOF {
		t.Fatalf("event 5 err = %v, want io.EOF (idempotent)", err)
	}
}

// TestMultiDigitNumberRun is spec.md §4.4.1's number-extension rule: a run
// of adjacent digits is one Content(Number) event, not one per digit.
func TestMultiDigitNumberRun(t *testing.T) {
	evs := mustParse(t, "23+4", DefaultConfig())
	if len(evs) != 3 {
		t.Fatalf("got %d events, want 3: %+v", len(evs), evs)
	}
	if evs[0].Content != token.Number || evs[0].Text != "23" {
		t.Errorf("event 0 = %+v, want Number with Text \"23\"", evs[0])
	}
	if evs[1].Content != token.Operator || evs[1].Char != '+' {
		t.Errorf("event 1 = %+v, want Operator '+'", evs[1])
	}
	if evs[2].Content != token.Number || evs[2].Text != "4" {
		t.Errorf("event 2 = %+v, want Number with Text \"4\"", evs[2])
	}
}

func TestNotNegatesFollowingRelation(t *testing.T) {
	evs := mustParse(t, `\not\in`, DefaultConfig())
	if len(evs) != 1 || evs[0].Kind != token.EvContent || !evs[0].Negated {
		t.Fatalf("got %+v, want one negated Content event", evs)
	}
}

func TestOversetOrdersBaseThenAnnotation(t *testing.T) {
	evs := mustParse(t, `\overset{x}{y}`, DefaultConfig())
	if len(evs) != 7 || evs[0].Kind != token.EvUnderover {
		t.Fatalf("got %+v, want Underover + two braced children", evs)
	}
	if !evs[0].Over || !evs[0].AnnotationPresent {
		t.Fatalf("Underover = %+v, want Over=true AnnotationPresent=true", evs[0])
	}
	if evs[2].Char != 'y' || evs[5].Char != 'x' {
		t.Fatalf("got base/annotation %c/%c, want y/x (base first)", evs[2].Char, evs[5].Char)
	}
}

// TestPrimeIsOrdinaryContent guards the grounded behavior: a bare `'` is
// an ordinary Content atom (matching original_source's primitives table,
// `'\'' => ordinary('′')`), not an implicit superscript. "a'" is two
// sibling Content events, not an identifier with a Script child.
func TestPrimeIsOrdinaryContent(t *testing.T) {
	evs := mustParse(t, `a'`, DefaultConfig())
	if len(evs) != 2 {
		t.Fatalf("got %+v, want 2 Content events", evs)
	}
	if evs[0].Kind != token.EvContent || evs[0].Char != 'a' {
		t.Fatalf("event 0 = %+v, want Content('a')", evs[0])
	}
	if evs[1].Kind != token.EvContent || evs[1].Content != token.Identifier || evs[1].Char != '′' {
		t.Fatalf("event 1 = %+v, want Content(Identifier '′')", evs[1])
	}
}

// TestPrimeRunIsSiblingAtoms: "a'''" is four ordinary atoms in a row,
// not one atom carrying a chained superscript.
func TestPrimeRunIsSiblingAtoms(t *testing.T) {
	evs := mustParse(t, `a'''`, DefaultConfig())
	if len(evs) != 4 {
		t.Fatalf("got %d events, want 4: %+v", len(evs), evs)
	}
	for i, want := range []rune{'a', '′', '′', '′'} {
		if evs[i].Kind != token.EvContent || evs[i].Char != want {
			t.Errorf("event %d = %+v, want Content(%q)", i, evs[i], want)
		}
	}
}
