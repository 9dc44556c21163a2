package texmath

import (
	"strconv"

	"github.com/texlayout/texmath/texerr"
	"github.com/texlayout/texmath/token"
	"github.com/texlayout/texmath/tokenizer"
)

// fontVariantNames maps a font-switch command to the StyleVariant a
// downstream writer resolves to an actual font family (spec.md §4.4.2
// "Style/color/size").
var fontVariantNames = map[string]string{
	"mathbf":     "bold",
	"mathit":     "italic",
	"mathrm":     "roman",
	"mathcal":    "calligraphic",
	"mathbb":     "blackboard",
	"mathfrak":   "fraktur",
	"mathsf":     "sans-serif",
	"mathtt":     "monospace",
	"boldsymbol": "bold",
}

// dispatchFontStyle implements \mathbf{...} and its siblings: emit a
// Style event, then the argument's own events, exactly as Fraction and
// Radical announce their children (spec.md §3's "each either a single
// Content event or a balanced BeginGroup...EndGroup" shape already
// covers a braced argument here).
func (p *Parser) dispatchFontStyle(tok token.Token) error {
	p.flushSuffix()
	child, err := p.parseChild()
	if err != nil {
		return err
	}
	p.emit(token.Event{Kind: token.EvStyle, StyleVariant: fontVariantNames[tok.Name], Span: spanOf(tok)})
	p.emitChild(child)
	p.setNucleus(true, false, spanOf(tok))
	return nil
}

// dispatchColor implements \color{spec} (applies to the remainder of
// the current group, no argument consumed) and \textcolor{spec}{...}
// (applies to exactly the following child).
func (p *Parser) dispatchColor(tok token.Token) error {
	p.flushSuffix()
	spec, err := p.readRawBraceArg()
	if err != nil {
		return err
	}
	if tok.Name == "textcolor" {
		child, err := p.parseChild()
		if err != nil {
			return err
		}
		p.emit(token.Event{Kind: token.EvColor, ColorSpec: spec, Span: spanOf(tok)})
		p.emitChild(child)
		p.setNucleus(true, false, spanOf(tok))
		return nil
	}
	p.emit(token.Event{Kind: token.EvColor, ColorSpec: spec, Span: spanOf(tok)})
	return nil
}

// dispatchMathStyle implements the supplemented \displaystyle/
// \textstyle/\scriptstyle/\scriptscriptstyle (SPEC_FULL.md §D.4): they
// apply to the remainder of the current scope, like bare \color, and
// re-derive the movable-limits default for large operators opened
// afterward.
func (p *Parser) dispatchMathStyle(tok token.Token) error {
	p.flushSuffix()
	display := tok.Name == "displaystyle"
	if len(p.displayStack) > 0 {
		p.displayStack[len(p.displayStack)-1] = display
	}
	p.emit(token.Event{Kind: token.EvStyle, StyleVariant: tok.Name, Span: spanOf(tok)})
	return nil
}

// accentChars maps an accent command to the combining glyph a writer
// places over (or, for \vec-like stretchy accents, around) the base.
var accentChars = map[string]rune{
	"hat": '̂', "check": '̌', "breve": '̆',
	"acute": '́', "grave": '̀', "tilde": '̃',
	"bar": '̄', "vec": '⃗', "dot": '̇', "ddot": '̈',
}

var accentStretchy = map[string]bool{"tilde": true, "vec": true}

// dispatchAccent implements the accent commands (spec.md §4.4.2
// "Accent / underover"): consume one child, emit Accent.
func (p *Parser) dispatchAccent(tok token.Token) error {
	p.flushSuffix()
	child, err := p.parseChild()
	if err != nil {
		return err
	}
	p.emit(token.Event{
		Kind: token.EvAccent, AccentChar: accentChars[tok.Name],
		Stretchy: accentStretchy[tok.Name], IsAccent: true, Span: spanOf(tok),
	})
	p.emitChild(child)
	p.setNucleus(true, false, spanOf(tok))
	return nil
}

// dispatchOverUnderLine implements \overline/\underline: a plain rule
// drawn over or under the base, distinct from the glyph-bearing
// Underover event \overbrace/\overset use.
func (p *Parser) dispatchOverUnderLine(tok token.Token, over bool) error {
	p.flushSuffix()
	child, err := p.parseChild()
	if err != nil {
		return err
	}
	kind := token.VisualUnderline
	if over {
		kind = token.VisualOverline
	}
	p.emit(token.Event{Kind: token.EvVisual, Visual: kind, Span: spanOf(tok)})
	p.emitChild(child)
	p.setNucleus(true, false, spanOf(tok))
	return nil
}

// dispatchOverUnderBrace implements \overbrace/\underbrace: an Underover
// event carrying the brace glyph and a single base child.
func (p *Parser) dispatchOverUnderBrace(tok token.Token, over bool) error {
	p.flushSuffix()
	child, err := p.parseChild()
	if err != nil {
		return err
	}
	ch := rune('⏟')
	if over {
		ch = '⏞'
	}
	p.emit(token.Event{Kind: token.EvUnderover, UnderoverChar: ch, Over: over, Span: spanOf(tok)})
	p.emitChild(child)
	p.setNucleus(true, false, spanOf(tok))
	return nil
}

// dispatchOverUnderSet implements the supplemented \overset/\underset/
// \stackrel (SPEC_FULL.md §D.1): base + annotation stacking, generalized
// from spec.md's Underover{char, over} shape to AnnotationPresent=true
// carrying two children, base first then annotation, regardless of the
// source order LaTeX's argument convention reads them in (annotation,
// then base).
func (p *Parser) dispatchOverUnderSet(tok token.Token) error {
	p.flushSuffix()
	annotation, err := p.parseChild()
	if err != nil {
		return err
	}
	base, err := p.parseChild()
	if err != nil {
		return err
	}
	p.emit(token.Event{
		Kind: token.EvUnderover, Over: tok.Name != "underset",
		AnnotationPresent: true, Span: spanOf(tok),
	})
	p.emitChild(base)
	p.emitChild(annotation)
	p.setNucleus(true, false, spanOf(tok))
	return nil
}

// dispatchBoxed implements \boxed: a Visual(Boxed) wrapping one child.
func (p *Parser) dispatchBoxed(tok token.Token) error {
	p.flushSuffix()
	child, err := p.parseChild()
	if err != nil {
		return err
	}
	p.emit(token.Event{Kind: token.EvVisual, Visual: token.VisualBoxed, Span: spanOf(tok)})
	p.emitChild(child)
	p.setNucleus(true, false, spanOf(tok))
	return nil
}

// dispatchPhantom implements \phantom/\hphantom/\vphantom: the child is
// still parsed (its layout metrics matter to the renderer even though
// nothing is drawn), tagged with which dimensions are phantom.
func (p *Parser) dispatchPhantom(tok token.Token) error {
	p.flushSuffix()
	kind := token.PhantomBoth
	switch tok.Name {
	case "hphantom":
		kind = token.PhantomHorizontal
	case "vphantom":
		kind = token.PhantomVertical
	}
	child, err := p.parseChild()
	if err != nil {
		return err
	}
	p.emit(token.Event{Kind: token.EvVisual, Visual: token.VisualPhantom, Phantom: kind, Span: spanOf(tok)})
	p.emitChild(child)
	p.setNucleus(true, false, spanOf(tok))
	return nil
}

// dispatchRule implements \rule{width}{height}: a Visual(Rule) with no
// children. The two dimensions are packed into Text ("WxH") since
// spec.md's Visual event carries no dedicated width/height fields.
func (p *Parser) dispatchRule(tok token.Token) error {
	p.flushSuffix()
	w, err := p.readBracedDimension()
	if err != nil {
		return err
	}
	h, err := p.readBracedDimension()
	if err != nil {
		return err
	}
	p.emit(token.Event{Kind: token.EvVisual, Visual: token.VisualRule, Text: w + "x" + h, Span: spanOf(tok)})
	p.setNucleus(true, false, spanOf(tok))
	return nil
}

func (p *Parser) readBracedDimension() (string, error) {
	t, err := p.nextToken()
	if err != nil {
		return "", err
	}
	if t.Kind != token.GroupBegin {
		return "", texerr.New(texerr.InvalidDimension, spanOf(t),
			"expected a brace-delimited dimension", p.env.Scopes.Frames())
	}
	dim, err := p.env.Lexer().ReadDimension()
	if err != nil {
		return "", err
	}
	closeTok, err := p.nextToken()
	if err != nil {
		return "", err
	}
	if closeTok.Kind != token.GroupEnd {
		return "", texerr.New(texerr.InvalidDimension, spanOf(closeTok),
			"expected '}' after dimension", p.env.Scopes.Frames())
	}
	return formatDimension(dim), nil
}

func formatDimension(d tokenizer.Dimension) string {
	return strconv.FormatFloat(d.Value, 'g', -1, 64) + d.Unit
}

// dispatchText implements \text/\mbox: the brace-delimited body is
// captured as raw source text, not re-lexed as math, since text-mode
// layout is an explicit non-goal (spec.md §1).
func (p *Parser) dispatchText(tok token.Token) error {
	p.flushSuffix()
	text, err := p.readRawBraceArg()
	if err != nil {
		return err
	}
	p.emit(token.Event{Kind: token.EvContent, Content: token.String, Text: text, Span: spanOf(tok)})
	p.setNucleus(true, false, spanOf(tok))
	return nil
}
