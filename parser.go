package texmath

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/texlayout/texmath/scanner"
	"github.com/texlayout/texmath/texerr"
	"github.com/texlayout/texmath/texlog"
	"github.com/texlayout/texmath/token"
	"github.com/texlayout/texmath/tokenizer"
)

// nucleusState tracks the most recently emitted atom that could carry a
// script, spec.md GLOSSARY "nucleus". valid is false right after a
// group opens (nothing to attach to yet) and right after an empty
// group closes under strict_scripts.
type nucleusState struct {
	valid         bool
	movableLimits bool
	span          texerr.Span
}

// suffixState accumulates `_`/`^`/\limits/\nolimits for the current
// nucleus until a flush point (spec.md §4.4.3). Presence of a suffix
// worth emitting is hasSub || hasSup; limits/nolimits alone, with no
// actual script, resolves to nothing.
type suffixState struct {
	hasSub, hasSup       bool
	subEvents, supEvents []token.Event
	limits               int // 0 unset, 1 \limits, 2 \nolimits
	span                  texerr.Span
	touched              bool
}

func (s *suffixState) touch(start, end int) {
	if !s.touched {
		s.span = texerr.Span{Start: start, End: end}
		s.touched = true
		return
	}
	s.span.End = end
}

// groupFrame tracks whether a plain brace group has emitted any content,
// used to decide whether the closed group can itself carry a script
// (spec.md §4.4.3's "nucleus that cannot carry scripts" edge case).
type groupFrame struct {
	hadContent bool
}

// Parser is the streaming event generator: it pulls expanded tokens
// from a *tokenizer.Environment and yields rendering Events one at a
// time (spec.md §4.4, §6). It is not safe for concurrent use — spec.md
// §5 calls out single-threaded, synchronous pulls as the whole
// concurrency model.
type Parser struct {
	cfg Config
	env *tokenizer.Environment
	log *slog.Logger

	// SessionID tags every diagnostic record this parser emits, so logs
	// from concurrently running parsers (in the embedding process, not
	// within one Parser) can be told apart.
	SessionID uuid.UUID

	queue      []token.Event  // events ready to hand to the caller
	sink       *[]token.Event // current emission target; &queue unless inside parseChild
	done       bool           // true once a terminal error or Eof has been returned
	pendingErr error          // a terminal error step() already raised, owed to the caller once queue drains

	pending *token.Token // one-token lookahead, for constructs that must peek

	nucleus   nucleusState
	suffix    suffixState
	numberRun  bool // true while consuming a run of adjacent digit characters
	numberText string
	numberSpan texerr.Span

	groupFrames []*groupFrame // one entry per open plain brace group
	arrayCtx     []bool // one entry per open scope: is `&`/`\\` legal here
	displayStack []bool // one entry per open scope: current \displaystyle/\textstyle
}

// NewParser constructs a Parser over source, an UTF-8 LaTeX math
// fragment. predefined, if non-nil, seeds the global scope's macro
// table before any input is read (spec.md §6 "an optional initial set
// of pre-defined user macros").
func NewParser(source string, predefined map[string]*tokenizer.MacroDef, cfg Config) *Parser {
	if cfg.MaxExpansionDepth <= 0 {
		cfg.MaxExpansionDepth = tokenizer.DefaultMaxExpansionDepth
	}
	log := cfg.Logger
	switch {
	case log != nil:
		// caller-supplied logger, used as-is.
	case cfg.LogWriter != nil:
		log = texlog.New(cfg.LogWriter, slog.LevelDebug, cfg.LogHandlers...)
	default:
		log = texlog.Discard()
	}
	sessionID := uuid.New()
	log = log.With("session", sessionID.String())

	sc := scanner.New(source, "<input>")
	lex := tokenizer.NewLexer(sc)
	env := tokenizer.NewEnvironment(lex, cfg.MaxExpansionDepth, log)
	for name, def := range predefined {
		env.Scopes.DefineMacro(name, def)
	}

	p := &Parser{
		cfg:       cfg,
		env:       env,
		log:       log,
		SessionID: sessionID,
	}
	p.sink = &p.queue
	p.displayStack = []bool{cfg.DisplayMode}
	return p
}

// NextEvent returns the next rendering event, io.EOF once the input is
// exhausted with all groups balanced, or a *texerr.Error describing why
// the input could not be parsed. Per spec.md §6, once either of the
// latter two is returned, the Parser is terminal: every subsequent call
// returns io.EOF with no further side effects (spec.md §8 "Idempotent
// EOF").
func (p *Parser) NextEvent() (token.Event, error) {
	if p.done {
		return token.Event{}, io.EOF
	}
	for len(p.queue) == 0 {
		if p.pendingErr != nil {
			p.done = true
			err := p.pendingErr
			p.pendingErr = nil
			return token.Event{}, err
		}
		err := p.step()
		if err != nil && len(p.queue) == 0 {
			// step()'s own error carries no event, and this step didn't
			// queue any on its way to it (e.g. Eof with a nucleus that
			// had no pending suffix): nothing left to drain, so the
			// error is terminal right now.
			p.done = true
			return token.Event{}, err
		}
		if err != nil {
			// step() reached a terminal condition (Eof, or a bad token)
			// but also queued events first — flushSuffix's Script and
			// its children, for instance. Those events are owed to the
			// caller before the error is; hand them out first and defer
			// the error to the call that finds the queue empty again.
			p.pendingErr = err
		}
	}
	ev := p.queue[0]
	p.queue = p.queue[1:]
	return ev, nil
}

// nextToken returns the pushed-back token if one is pending, otherwise
// pulls and expands the next one from the environment. It is the only
// path dispatch code should use to read tokens, so pushback is honored
// uniformly everywhere a construct needs one token of lookahead.
func (p *Parser) nextToken() (token.Token, error) {
	if p.pending != nil {
		tok := *p.pending
		p.pending = nil
		return tok, nil
	}
	return p.env.NextExpandedToken()
}

func (p *Parser) pushback(tok token.Token) {
	p.pending = &tok
}

// step reads and dispatches tokens until at least one event lands in
// the queue, or the input is exhausted, or an error occurs. A single
// call may dispatch many tokens (e.g. consuming all of `_2` produces no
// event by itself — the suffix buffer only flushes once a new nucleus,
// a group close, or Eof is reached).
func (p *Parser) step() error {
	for {
		tok, err := p.nextToken()
		if err != nil {
			return err
		}
		if tok.IsEof() {
			p.flushNumber()
			p.flushSuffix()
			if p.env.Scopes.Depth() != 0 {
				return texerr.New(texerr.UnmatchedOpen, spanOf(tok),
					"unexpected end of input with open groups", p.env.Scopes.Frames())
			}
			return io.EOF
		}
		if err := p.dispatchToken(tok); err != nil {
			return err
		}
		if len(p.queue) > 0 {
			return nil
		}
	}
}

// dispatchToken is the single top-level-token dispatch switch
// (spec.md §4.4.1). It is also reused, via a swapped-out sink, by
// everything that needs to parse exactly one nested construct: group
// bodies, script/fraction/radical/accent children, array cells.
func (p *Parser) dispatchToken(tok token.Token) error {
	if !(tok.Kind == token.Character && tok.Category == token.Digit) {
		p.flushNumber()
	}
	switch tok.Kind {
	case token.Character:
		return p.dispatchCharacter(tok)
	case token.ControlSequence:
		if tok.IsEndOfLine() {
			return p.dispatchEndOfLine(tok)
		}
		return p.dispatchControlSequence(tok)
	case token.GroupBegin:
		return p.dispatchGroupBegin(tok)
	case token.GroupEnd:
		return p.dispatchGroupEnd(tok)
	case token.Alignment:
		return p.dispatchAlignment(tok)
	case token.Eof:
		return texerr.New(texerr.UnmatchedOpen, spanOf(tok),
			"unexpected end of input", p.env.Scopes.Frames())
	default:
		return texerr.New(texerr.InternalToken, spanOf(tok),
			"unhandled token kind", p.env.Scopes.Frames())
	}
}

// emit appends ev to the current sink and, if we are inside a plain
// brace group, marks that group as non-empty.
func (p *Parser) emit(ev token.Event) {
	*p.sink = append(*p.sink, ev)
	if len(p.groupFrames) > 0 {
		p.groupFrames[len(p.groupFrames)-1].hadContent = true
	}
}

func (p *Parser) emitChild(events []token.Event) {
	for _, ev := range events {
		p.emit(ev)
	}
}

func (p *Parser) setNucleus(valid, movableLimits bool, span texerr.Span) {
	p.nucleus = nucleusState{valid: valid, movableLimits: movableLimits, span: span}
}

// flushSuffix emits the pending Script (and its children) built up by
// `_`/`^`/\limits/\nolimits since the last flush, per the three
// triggers in spec.md §4.4.3: a new nucleus beginning, the enclosing
// group closing, or Eof. A \limits/\nolimits directive with no actual
// sub or superscript resolves to nothing, matching "No suffix ->
// nothing emitted."
func (p *Parser) flushSuffix() {
	if !p.suffix.hasSub && !p.suffix.hasSup {
		p.suffix = suffixState{}
		return
	}
	pos := p.resolveSuffixPosition()
	p.emit(token.Event{Kind: token.EvScript, Position: pos, Span: p.suffix.span})
	p.emitChild(p.suffix.subEvents)
	p.emitChild(p.suffix.supEvents)
	p.suffix = suffixState{}
}

// flushNumber emits the Content(Number) event for a completed run of
// adjacent digit characters (spec.md §4.4.1: "if previous nucleus was a
// number adjacent without intervening events, extend it; else emit
// fresh Content(Number) nucleus"). A run of N digits produces exactly
// one event carrying the whole run in Text, not one event per digit.
func (p *Parser) flushNumber() {
	if !p.numberRun {
		return
	}
	p.emit(token.Event{
		Kind: token.EvContent, Content: token.Number,
		Char: []rune(p.numberText)[0], Text: p.numberText, Span: p.numberSpan,
	})
	p.numberRun = false
	p.numberText = ""
}

func (p *Parser) resolveSuffixPosition() token.ScriptPosition {
	movable := p.nucleus.movableLimits
	switch p.suffix.limits {
	case 1:
		movable = true
	case 2:
		movable = false
	}
	switch {
	case p.suffix.hasSub && p.suffix.hasSup:
		if movable {
			return token.MovableSubSuper
		}
		return token.SubSuper
	case p.suffix.hasSup:
		if movable {
			return token.MovableSuper
		}
		return token.Super
	default:
		if movable {
			return token.MovableSub
		}
		return token.Sub
	}
}

func spanOf(tok token.Token) texerr.Span {
	return texerr.Span{Start: tok.Start, End: tok.End}
}

// currentArrayCtx reports whether `&` and `\\` are legal at the current
// nesting depth (spec.md §4.4.4).
func (p *Parser) currentArrayCtx() bool {
	if len(p.arrayCtx) == 0 {
		return false
	}
	return p.arrayCtx[len(p.arrayCtx)-1]
}

// currentDisplayMode reports the effective \displaystyle/\textstyle at
// the current nesting depth, used as the movable-limits default for
// large operators (SPEC_FULL.md §D.4).
func (p *Parser) currentDisplayMode() bool {
	if len(p.displayStack) == 0 {
		return p.cfg.DisplayMode
	}
	return p.displayStack[len(p.displayStack)-1]
}

// pushAuxScope/popAuxScope keep arrayCtx and displayStack in lockstep
// with every scope this parser opens, so nested groups inherit (and
// can locally override) both without leaking changes back out.
func (p *Parser) pushAuxScope(inheritArray bool) {
	p.arrayCtx = append(p.arrayCtx, inheritArray)
	p.displayStack = append(p.displayStack, p.currentDisplayMode())
}

func (p *Parser) popAuxScope() {
	p.arrayCtx = p.arrayCtx[:len(p.arrayCtx)-1]
	p.displayStack = p.displayStack[:len(p.displayStack)-1]
}

// classifyOperatorChar assigns an AtomClass to a literal character that
// is not a letter or digit and has no built-in symbol entry, mirroring
// the spacing-hint role tokenizer.Symbol.Class plays for control
// sequences (spec.md §4.3).
func classifyOperatorChar(r rune) token.AtomClass {
	switch r {
	case '+', '-', '*':
		return token.BinaryOp
	case '=', '<', '>':
		return token.Relation
	case '(', '[':
		return token.Open
	case ')', ']':
		return token.Close
	case ',', ';':
		return token.Punctuation
	default:
		return token.Ord
	}
}
