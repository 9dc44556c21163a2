package texmath

import (
	"github.com/texlayout/texmath/texerr"
	"github.com/texlayout/texmath/token"
	"github.com/texlayout/texmath/tokenizer"
)

// dispatchControlSequence is the control-sequence half of spec.md
// §4.4.1's dispatch table, broken out per §4.4.2: a symbol lookup first,
// then the closed set of structural built-ins. Anything reaching the
// default case is a bug in structuralNames/IsBuiltin rather than user
// input, since NextExpandedToken already rejects any name that is
// neither a built-in nor a resolvable user macro.
func (p *Parser) dispatchControlSequence(tok token.Token) error {
	if sym, ok := tokenizer.LookupSymbol(tok.Name); ok {
		return p.dispatchSymbol(tok, sym)
	}

	switch tok.Name {
	case "frac", "tfrac", "dfrac", "cfrac":
		return p.dispatchFrac(tok)
	case "binom":
		return p.dispatchBinom(tok)
	case "genfrac":
		return p.dispatchGenfrac(tok)
	case "sqrt":
		return p.dispatchSqrt(tok)
	case "left":
		return p.dispatchLeft(tok)
	case "right":
		return texerr.New(texerr.UnmatchedRight, spanOf(tok),
			"\\right without a matching \\left", p.env.Scopes.Frames())
	case "begin":
		return p.dispatchBegin(tok)
	case "end":
		return texerr.New(texerr.EnvironmentMismatch, spanOf(tok),
			"\\end without a matching \\begin", p.env.Scopes.Frames())
	case "text", "mbox":
		return p.dispatchText(tok)
	case "mathbf", "mathit", "mathrm", "mathcal", "mathbb", "mathfrak", "mathsf", "mathtt", "boldsymbol":
		return p.dispatchFontStyle(tok)
	case "color", "textcolor":
		return p.dispatchColor(tok)
	case "displaystyle", "textstyle", "scriptstyle", "scriptscriptstyle":
		return p.dispatchMathStyle(tok)
	case "limits":
		return p.dispatchLimitsDirective(tok, true)
	case "nolimits":
		return p.dispatchLimitsDirective(tok, false)
	case "hline", "hdashline":
		return p.dispatchHline(tok)
	case "cr":
		return p.dispatchEndOfLine(tok)
	case "hat", "check", "breve", "acute", "grave", "tilde", "bar", "vec", "dot", "ddot":
		return p.dispatchAccent(tok)
	case "overline", "underline":
		return p.dispatchOverUnderLine(tok, tok.Name == "overline")
	case "overbrace", "underbrace":
		return p.dispatchOverUnderBrace(tok, tok.Name == "overbrace")
	case "overset", "underset", "stackrel":
		return p.dispatchOverUnderSet(tok)
	case "substack":
		return p.dispatchSubstack(tok)
	case "boxed":
		return p.dispatchBoxed(tok)
	case "phantom", "hphantom", "vphantom":
		return p.dispatchPhantom(tok)
	case "rule":
		return p.dispatchRule(tok)
	case "not":
		return p.dispatchNot(tok)
	case "quad", "qquad", ",", ";", ":", "!":
		return p.dispatchSpace(tok)
	default:
		return texerr.New(texerr.UndefinedControlSequence, spanOf(tok),
			"\\"+tok.Name+" has no dispatch handler", p.env.Scopes.Frames())
	}
}

// dispatchSymbol emits the Content event for a built-in symbol command
// (spec.md §4.4.2 "Symbol"). Class Ord reads as an Identifier (a Greek
// letter or similar variable-like glyph); everything else is an
// Operator carrying its spacing class. MovableLimits on the nucleus
// combines the command's intrinsic capability with the current
// \displaystyle/\textstyle mode (spec.md GLOSSARY "movable limits");
// the Content event's own MovableLimits flag stays intrinsic so a
// downstream writer can tell a capable operator from one that currently
// happens to render with limits.
func (p *Parser) dispatchSymbol(tok token.Token, sym tokenizer.Symbol) error {
	p.flushSuffix()
	content := token.Operator
	if sym.Class == token.Ord {
		content = token.Identifier
	}
	p.emit(token.Event{
		Kind: token.EvContent, Content: content, Char: sym.Char, Class: sym.Class,
		Stretchy: sym.Stretchy, MovableLimits: sym.LargeOperator && sym.MovableLimits,
		Span: spanOf(tok),
	})
	movableNow := sym.LargeOperator && sym.MovableLimits && p.currentDisplayMode()
	p.setNucleus(true, movableNow, spanOf(tok))
	return nil
}

// dispatchNot implements the supplemented \not prefix (SPEC_FULL.md
// §D.2): parse exactly one following nucleus and mark its leading
// Content event negated, rather than composing a combining-overlay
// glyph ourselves.
func (p *Parser) dispatchNot(tok token.Token) error {
	p.flushSuffix()
	child, err := p.parseChild()
	if err != nil {
		return err
	}
	if len(child) == 0 {
		return texerr.New(texerr.UndefinedControlSequence, spanOf(tok),
			"\\not requires a following relation", p.env.Scopes.Frames())
	}
	if child[0].Kind == token.EvContent {
		child[0].Negated = true
	}
	p.emitChild(child)
	p.setNucleus(true, false, child[len(child)-1].Span)
	return nil
}

// spaceWidths maps the supplemented fixed-width spacing primitives
// (SPEC_FULL.md §D.5) to the width tag carried on the Space event.
var spaceWidths = map[string]string{
	",":     "thin",
	";":     "thick",
	":":     "medium",
	"!":     "negthin",
	"quad":  "1em",
	"qquad": "2em",
}

func (p *Parser) dispatchSpace(tok token.Token) error {
	p.flushSuffix()
	p.emit(token.Event{Kind: token.EvSpace, SpaceWidth: spaceWidths[tok.Name], Span: spanOf(tok)})
	return nil
}
