package texmath

import (
	"github.com/texlayout/texmath/texerr"
	"github.com/texlayout/texmath/token"
	"github.com/texlayout/texmath/tokenizer"
)

// envDescriptor describes one of the closed set of environment names
// spec.md §4.4.4 lists: whether \begin wraps a fenced delimiter group,
// and (for array) whether a {column_spec} argument is mandatory.
type envDescriptor struct {
	HasFence              bool
	FenceLeft, FenceRight rune
	RequiresColumnSpec    bool
	DefaultColumnSpec     string
}

var environments = map[string]envDescriptor{
	"matrix":      {},
	"smallmatrix": {},
	"pmatrix":     {HasFence: true, FenceLeft: '(', FenceRight: ')'},
	"bmatrix":     {HasFence: true, FenceLeft: '[', FenceRight: ']'},
	"Bmatrix":     {HasFence: true, FenceLeft: '{', FenceRight: '}'},
	"vmatrix":     {HasFence: true, FenceLeft: '|', FenceRight: '|'},
	"Vmatrix":     {HasFence: true, FenceLeft: '‖', FenceRight: '‖'},
	"array":       {RequiresColumnSpec: true},
	"align":       {DefaultColumnSpec: "rl"},
	"align*":      {DefaultColumnSpec: "rl"},
	"aligned":     {DefaultColumnSpec: "rl"},
	"gather":      {DefaultColumnSpec: "c"},
	"gather*":     {DefaultColumnSpec: "c"},
	"equation":    {DefaultColumnSpec: "c"},
	"equation*":   {DefaultColumnSpec: "c"},
	"split":       {DefaultColumnSpec: "rl"},
	"subarray":    {DefaultColumnSpec: "r"},
	"cases":       {HasFence: true, FenceLeft: '{', DefaultColumnSpec: "ll"},
}

// dispatchBegin implements \begin{name}...\end{name} (spec.md §4.4.4).
// It reads the environment name and, for array, its mandatory column
// spec, then consumes tokens through the matching \end itself — the
// same self-contained loop shape dispatchLeft uses for \left...\right.
func (p *Parser) dispatchBegin(tok token.Token) error {
	p.flushSuffix()
	name, err := p.readRawBraceArg()
	if err != nil {
		return err
	}
	desc, ok := environments[name]
	if !ok {
		return texerr.New(texerr.UnknownEnvironment, spanOf(tok),
			"unknown environment \""+name+"\"", p.env.Scopes.Frames())
	}

	colSpec := desc.DefaultColumnSpec
	if desc.RequiresColumnSpec {
		raw, err := p.readRawBraceArg()
		if err != nil {
			return err
		}
		if err := validateColumnSpec(raw, spanOf(tok), p.env.Scopes.Frames()); err != nil {
			return err
		}
		colSpec = raw
	}

	if desc.HasFence {
		p.emit(token.Event{Kind: token.EvBeginGroup, Group: token.FencedGroup,
			FenceLeft: desc.FenceLeft, FenceRight: desc.FenceRight, Span: spanOf(tok)})
	}

	p.env.Scopes.Push(tokenizer.EnvironmentScope, name)
	p.log.Debug("environment entered", "name", name)
	p.pushAuxScope(true)
	p.nucleus = nucleusState{}
	p.emit(token.Event{Kind: token.EvBeginArray, ColumnSpec: colSpec, Span: spanOf(tok)})

	for {
		t, err := p.nextToken()
		if err != nil {
			return err
		}
		if t.IsEof() {
			return texerr.New(texerr.EnvironmentMismatch, spanOf(t),
				"\\begin{"+name+"} without a matching \\end", p.env.Scopes.Frames())
		}
		if t.Kind == token.ControlSequence && t.Name == "end" {
			endName, err := p.readRawBraceArg()
			if err != nil {
				return err
			}
			if endName != name {
				return texerr.New(texerr.EnvironmentMismatch, spanOf(t),
					"expected \\end{"+name+"}, found \\end{"+endName+"}", p.env.Scopes.Frames())
			}
			break
		}
		if err := p.dispatchToken(t); err != nil {
			return err
		}
	}

	p.flushNumber()
	p.flushSuffix()
	if _, err := p.env.Scopes.Pop(tokenizer.EnvironmentScope, name, true); err != nil {
		return err
	}
	p.log.Debug("environment exited", "name", name)
	p.popAuxScope()
	p.emit(token.Event{Kind: token.EvEndArray, Span: spanOf(tok)})
	if desc.HasFence {
		p.emit(token.Event{Kind: token.EvEndGroup, Span: spanOf(tok)})
	}
	p.setNucleus(true, false, spanOf(tok))
	return nil
}

// validateColumnSpec checks an \begin{array}{...} column specification
// against the closed character set spec.md §4.4.4 names:
// {l, c, r, |, :, p{dim}, @{...}, !{...}}.
func validateColumnSpec(spec string, span texerr.Span, trace []texerr.Frame) error {
	i := 0
	for i < len(spec) {
		c := spec[i]
		switch {
		case c == 'l' || c == 'c' || c == 'r' || c == '|' || c == ':' ||
			c == ' ' || c == '\t' || c == '\n':
			i++
		case c == 'p' || c == '@' || c == '!':
			if i+1 >= len(spec) || spec[i+1] != '{' {
				return texerr.New(texerr.InvalidDimension, span,
					"expected '{' after column spec letter '"+string(c)+"'", trace)
			}
			depth := 1
			j := i + 2
			for j < len(spec) && depth > 0 {
				switch spec[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				j++
			}
			if depth != 0 {
				return texerr.New(texerr.InvalidDimension, span,
					"unterminated column spec group", trace)
			}
			i = j
		default:
			return texerr.New(texerr.InvalidDimension, span,
				"invalid column spec character '"+string(c)+"'", trace)
		}
	}
	return nil
}

// dispatchAlignment implements '&' (spec.md §4.4.1): legal only between
// BeginArray and EndArray.
func (p *Parser) dispatchAlignment(tok token.Token) error {
	p.flushSuffix()
	if !p.currentArrayCtx() {
		return texerr.New(texerr.StrayAlignment, spanOf(tok),
			"'&' outside an array-like environment", p.env.Scopes.Frames())
	}
	p.emit(token.Event{Kind: token.EvEnvironmentFlow, Flow: token.FlowAlignment, Span: spanOf(tok)})
	p.nucleus = nucleusState{}
	return nil
}

// dispatchEndOfLine implements "\\" (and its \cr alias) as a row
// terminator: legal only inside an array-like environment, optionally
// followed by "[dim]" row spacing (spec.md §4.4.4).
func (p *Parser) dispatchEndOfLine(tok token.Token) error {
	p.flushSuffix()
	if !p.currentArrayCtx() {
		return texerr.New(texerr.StrayNewLine, spanOf(tok),
			"row terminator outside an array-like environment", p.env.Scopes.Frames())
	}
	rowSpacing, err := p.readOptionalRowSpacing()
	if err != nil {
		return err
	}
	p.emit(token.Event{Kind: token.EvEnvironmentFlow, Flow: token.FlowNewLine, RowSpacing: rowSpacing, Span: spanOf(tok)})
	p.nucleus = nucleusState{}
	return nil
}

func (p *Parser) readOptionalRowSpacing() (string, error) {
	t, err := p.nextToken()
	if err != nil {
		return "", err
	}
	if !(t.Kind == token.Character && t.Char == '[') {
		p.pushback(t)
		return "", nil
	}
	dim, err := p.env.Lexer().ReadDimension()
	if err != nil {
		return "", err
	}
	closeTok, err := p.nextToken()
	if err != nil {
		return "", err
	}
	if !(closeTok.Kind == token.Character && closeTok.Char == ']') {
		return "", texerr.New(texerr.InvalidDimension, spanOf(closeTok),
			"expected ']' after row spacing", p.env.Scopes.Frames())
	}
	return formatDimension(dim), nil
}

// dispatchHline implements \hline/\hdashline. Spec.md §9 leaves the
// exact mid-table attachment semantics under-documented when multiple
// \hline's stack between rows; this emits a fresh StartLines event each
// time rather than inventing a new attachment rule, so the leading case
// (spec.md §4.4.4, before any row content) and the mid-table case both
// produce the same event kind for a downstream writer to fold.
func (p *Parser) dispatchHline(tok token.Token) error {
	p.flushSuffix()
	if !p.currentArrayCtx() {
		return texerr.New(texerr.StrayAlignment, spanOf(tok),
			"\\hline outside an array-like environment", p.env.Scopes.Frames())
	}
	p.emit(token.Event{Kind: token.EvEnvironmentFlow, Flow: token.FlowStartLines, Span: spanOf(tok)})
	return nil
}
