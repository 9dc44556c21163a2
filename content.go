package texmath

import (
	"github.com/texlayout/texmath/texerr"
	"github.com/texlayout/texmath/token"
)

// dispatchCharacter handles a plain Character token: `_`/`^` divert into
// the suffix machinery, letters and digits become Identifier/Number
// content, `'` is an ordinary prime glyph, everything else is looked up
// in the literal-operator class table (spec.md §4.4.1).
func (p *Parser) dispatchCharacter(tok token.Token) error {
	switch tok.Char {
	case '_':
		return p.readSuffix(false, tok)
	case '^':
		return p.readSuffix(true, tok)
	case '\'':
		return p.dispatchPrime(tok)
	}

	switch tok.Category {
	case token.Space:
		// spec.md §4.1: spaces and tabs in math mode collapse to
		// nothing. Neither the nucleus nor the pending suffix is
		// disturbed by a space between tokens.
		return nil
	case token.Letter:
		p.flushSuffix()
		p.emit(token.Event{Kind: token.EvContent, Content: token.Identifier, Char: tok.Char, Span: spanOf(tok)})
		p.setNucleus(true, false, spanOf(tok))
		return nil
	case token.Digit:
		if !p.numberRun {
			p.flushSuffix()
			p.setNucleus(true, false, spanOf(tok))
			p.numberRun = true
			p.numberText = ""
			p.numberSpan = spanOf(tok)
		}
		p.numberText += string(tok.Char)
		p.numberSpan.End = tok.End
		return nil
	default:
		p.flushSuffix()
		class := classifyOperatorChar(tok.Char)
		p.emit(token.Event{Kind: token.EvContent, Content: token.Operator, Char: tok.Char, Class: class, Span: spanOf(tok)})
		p.setNucleus(true, false, spanOf(tok))
		return nil
	}
}

// readSuffix records one `_` or `^` against the current suffix buffer
// (spec.md §4.4.3). Two subscripts or two superscripts on the same
// nucleus is DoubleScript; a script with no preceding nucleus is
// InvalidScriptTarget when strict_scripts is set.
func (p *Parser) readSuffix(isSuper bool, tok token.Token) error {
	if isSuper && p.suffix.hasSup {
		return texerr.New(texerr.DoubleScript, spanOf(tok),
			"a nucleus cannot carry two superscripts", p.env.Scopes.Frames())
	}
	if !isSuper && p.suffix.hasSub {
		return texerr.New(texerr.DoubleScript, spanOf(tok),
			"a nucleus cannot carry two subscripts", p.env.Scopes.Frames())
	}
	if !p.nucleus.valid && p.cfg.StrictScripts {
		return texerr.New(texerr.InvalidScriptTarget, spanOf(tok),
			"script has no preceding nucleus to attach to", p.env.Scopes.Frames())
	}

	// A second `_` (or `^`) immediately where an argument was expected,
	// with nothing in between, is "double subscript"/"double superscript"
	// in the TeX sense (spec.md §8 scenario 6: "a__b"), not a one-token
	// argument of `_` in its own right.
	peek, err := p.nextToken()
	if err != nil {
		return err
	}
	if peek.Kind == token.Character && ((isSuper && peek.Char == '^') || (!isSuper && peek.Char == '_')) {
		word := "subscripts"
		if isSuper {
			word = "superscripts"
		}
		return texerr.New(texerr.DoubleScript, spanOf(peek),
			"a nucleus cannot carry two "+word, p.env.Scopes.Frames())
	}
	p.pushback(peek)

	child, err := p.parseChild()
	if err != nil {
		return err
	}
	p.suffix.touch(tok.Start, tok.End)
	if isSuper {
		p.suffix.hasSup = true
		p.suffix.supEvents = child
	} else {
		p.suffix.hasSub = true
		p.suffix.subEvents = child
	}
	return nil
}

// dispatchLimitsDirective records \limits/\nolimits, overriding the
// movable-limits default the next flush resolves against. A bare
// directive with no accompanying script still flushes to nothing.
func (p *Parser) dispatchLimitsDirective(tok token.Token, wantLimits bool) error {
	if !p.cfg.AllowSuffixModifiers {
		return texerr.New(texerr.LimitsInInvalidContext, spanOf(tok),
			"\\"+tok.Name+" is not permitted here", p.env.Scopes.Frames())
	}
	if wantLimits {
		p.suffix.limits = 1
	} else {
		p.suffix.limits = 2
	}
	p.suffix.touch(tok.Start, tok.End)
	return nil
}

// dispatchPrime implements a bare `'` the way `original_source`'s
// primitive table actually does it (`primitives.rs`'s `'\'' =>
// ordinary('′')`): an ordinary Content event carrying U+2032 PRIME,
// exactly like `\prime` (which resolves to the same glyph through the
// builtin symbol table). It is not a suffix trigger — a run of `'''`
// is three ordinary atoms in a row, not an implicit `^{\prime\prime\prime}`.
func (p *Parser) dispatchPrime(tok token.Token) error {
	p.flushSuffix()
	p.emit(token.Event{Kind: token.EvContent, Content: token.Identifier, Char: '′', Class: token.Ord, Span: spanOf(tok)})
	p.setNucleus(true, false, spanOf(tok))
	return nil
}
