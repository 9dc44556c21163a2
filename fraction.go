package texmath

import (
	"github.com/texlayout/texmath/texerr"
	"github.com/texlayout/texmath/token"
	"github.com/texlayout/texmath/tokenizer"
)

// fracStyleOverride picks the Style event \tfrac/\dfrac push before their
// Fraction event, so a downstream writer can tell a forced-inline or
// forced-display fraction from a plain \frac that inherits the ambient
// style.
var fracStyleOverride = map[string]string{
	"tfrac": "textstyle",
	"dfrac": "displaystyle",
}

// dispatchFrac implements \frac, \tfrac, \dfrac, \cfrac (spec.md §4.4.2
// "Structural binary"): emit Fraction then consume two children.
func (p *Parser) dispatchFrac(tok token.Token) error {
	p.flushSuffix()
	num, err := p.parseChild()
	if err != nil {
		return err
	}
	den, err := p.parseChild()
	if err != nil {
		return err
	}
	if variant, ok := fracStyleOverride[tok.Name]; ok {
		p.emit(token.Event{Kind: token.EvStyle, StyleVariant: variant, Span: spanOf(tok)})
	}
	p.emit(token.Event{Kind: token.EvFraction, Span: spanOf(tok)})
	p.emitChild(num)
	p.emitChild(den)
	p.setNucleus(true, false, spanOf(tok))
	return nil
}

// dispatchBinom implements \binom{a}{b}: a Fraction with no visible
// line, wrapped in parentheses, per amsmath's definition of \binom in
// terms of \genfrac.
func (p *Parser) dispatchBinom(tok token.Token) error {
	p.flushSuffix()
	num, err := p.parseChild()
	if err != nil {
		return err
	}
	den, err := p.parseChild()
	if err != nil {
		return err
	}
	p.emit(token.Event{Kind: token.EvFraction, LineThickness: "0", DelimLeft: '(', DelimRight: ')', Span: spanOf(tok)})
	p.emitChild(num)
	p.emitChild(den)
	p.setNucleus(true, false, spanOf(tok))
	return nil
}

// dispatchGenfrac implements the supplemented \genfrac (SPEC_FULL.md
// §D.6): \genfrac{left}{right}{thickness}{style}{num}{den}, the fully
// general form \binom/\frac/\cfrac specialize. style is read but not
// otherwise acted on: spec.md's Fraction event carries line thickness
// and delimiters, not a separate display-style flag.
func (p *Parser) dispatchGenfrac(tok token.Token) error {
	p.flushSuffix()
	leftRaw, err := p.readRawBraceArg()
	if err != nil {
		return err
	}
	rightRaw, err := p.readRawBraceArg()
	if err != nil {
		return err
	}
	thickRaw, err := p.readRawBraceArg()
	if err != nil {
		return err
	}
	if _, err := p.readRawBraceArg(); err != nil { // style, unused
		return err
	}
	num, err := p.parseChild()
	if err != nil {
		return err
	}
	den, err := p.parseChild()
	if err != nil {
		return err
	}

	var left, right rune
	if leftRaw != "" {
		left = []rune(leftRaw)[0]
	}
	if rightRaw != "" {
		right = []rune(rightRaw)[0]
	}
	p.emit(token.Event{Kind: token.EvFraction, LineThickness: thickRaw, DelimLeft: left, DelimRight: right, Span: spanOf(tok)})
	p.emitChild(num)
	p.emitChild(den)
	p.setNucleus(true, false, spanOf(tok))
	return nil
}

// isEmptyChild reports whether a parsed child is exactly an empty brace
// group, as opposed to a single token or a non-empty group.
func isEmptyChild(events []token.Event) bool {
	return len(events) == 2 && events[0].Kind == token.EvBeginGroup && events[1].Kind == token.EvEndGroup
}

// dispatchSqrt implements \sqrt (spec.md §4.4.2 "Radical"): an optional
// [index] then a mandatory radicand.
func (p *Parser) dispatchSqrt(tok token.Token) error {
	p.flushSuffix()

	var indexEvents []token.Event
	indexPresent := false
	peek, err := p.nextToken()
	if err != nil {
		return err
	}
	if peek.Kind == token.Character && peek.Char == '[' {
		indexPresent = true
		indexEvents, err = p.parseBracketedIndex()
		if err != nil {
			return err
		}
	} else {
		p.pushback(peek)
	}

	radicand, err := p.parseChild()
	if err != nil {
		return err
	}
	if len(radicand) == 0 || isEmptyChild(radicand) {
		return texerr.New(texerr.EmptyRadicand, spanOf(tok),
			"\\sqrt requires a radicand", p.env.Scopes.Frames())
	}

	p.emit(token.Event{Kind: token.EvRadical, IndexPresent: indexPresent, Span: spanOf(tok)})
	if indexPresent {
		p.emitChild(indexEvents)
	}
	p.emitChild(radicand)
	p.setNucleus(true, false, spanOf(tok))
	return nil
}

// dispatchSubstack implements the supplemented \substack (SPEC_FULL.md
// §D.6): a single-column stack of rows separated by "\\", used as
// "_{\substack{...}}". It reuses the array machinery (BeginArray /
// EnvironmentFlow(NewLine) / EndArray) rather than inventing a new
// event shape.
func (p *Parser) dispatchSubstack(tok token.Token) error {
	p.flushSuffix()
	begin, err := p.nextToken()
	if err != nil {
		return err
	}
	if begin.Kind != token.GroupBegin {
		return texerr.New(texerr.UnmatchedOpen, spanOf(begin),
			"\\substack requires a brace-delimited body", p.env.Scopes.Frames())
	}

	p.env.Scopes.Push(tokenizer.ImplicitBrace, "")
	p.log.Debug("scope pushed", "kind", tokenizer.ImplicitBrace.String(), "depth", p.env.Scopes.Depth())
	p.pushAuxScope(true)
	p.emit(token.Event{Kind: token.EvBeginArray, ColumnSpec: "c", Span: spanOf(tok)})
	p.nucleus = nucleusState{}

	for {
		t, err := p.nextToken()
		if err != nil {
			return err
		}
		if t.IsEof() {
			return texerr.New(texerr.UnmatchedOpen, spanOf(t),
				"unterminated \\substack", p.env.Scopes.Frames())
		}
		if t.Kind == token.GroupEnd {
			break
		}
		if err := p.dispatchToken(t); err != nil {
			return err
		}
	}

	p.flushNumber()
	p.flushSuffix()
	if _, err := p.env.Scopes.Pop(tokenizer.ImplicitBrace, "", false); err != nil {
		return err
	}
	p.log.Debug("scope popped", "kind", tokenizer.ImplicitBrace.String(), "depth", p.env.Scopes.Depth())
	p.popAuxScope()
	p.emit(token.Event{Kind: token.EvEndArray, Span: spanOf(tok)})
	p.setNucleus(true, false, spanOf(tok))
	return nil
}
