package token

import "github.com/texlayout/texmath/texerr"

// AtomClass is the semantic category of a symbol (spec.md GLOSSARY "atom
// class"), used both by the built-in symbol table (tokenizer package) and
// by Content events (this package) so spacing hints survive the trip
// from lexer to event stream without being recomputed.
type AtomClass int

const (
	Ord AtomClass = iota
	Op
	BinaryOp
	Relation
	Open
	Close
	Punctuation
	Inner
)

func (c AtomClass) String() string {
	switch c {
	case Ord:
		return "ord"
	case Op:
		return "op"
	case BinaryOp:
		return "bin"
	case Relation:
		return "rel"
	case Open:
		return "open"
	case Close:
		return "close"
	case Punctuation:
		return "punct"
	case Inner:
		return "inner"
	default:
		return "ord"
	}
}

// ContentClass distinguishes the four leaf content shapes spec.md §3
// names under Content(...).
type ContentClass int

const (
	Identifier ContentClass = iota
	Operator
	Number
	String
)

func (c ContentClass) String() string {
	switch c {
	case Identifier:
		return "identifier"
	case Operator:
		return "operator"
	case Number:
		return "number"
	case String:
		return "string"
	default:
		return "identifier"
	}
}

// GroupKind distinguishes the three BeginGroup flavors spec.md §3 names.
type GroupKind int

const (
	NormalGroup GroupKind = iota
	InternalGroup
	FencedGroup
)

func (k GroupKind) String() string {
	switch k {
	case NormalGroup:
		return "normal"
	case InternalGroup:
		return "internal"
	case FencedGroup:
		return "fenced"
	default:
		return "normal"
	}
}

// ScriptPosition is the attachment point a Script event announces,
// spec.md §3's target_position.
type ScriptPosition int

const (
	Sub ScriptPosition = iota
	Super
	SubSuper
	MovableSub
	MovableSuper
	MovableSubSuper
)

func (p ScriptPosition) String() string {
	switch p {
	case Sub:
		return "sub"
	case Super:
		return "super"
	case SubSuper:
		return "sub-super"
	case MovableSub:
		return "movable-sub"
	case MovableSuper:
		return "movable-super"
	case MovableSubSuper:
		return "movable-sub-super"
	default:
		return "sub"
	}
}

// FlowKind distinguishes the EnvironmentFlow variants spec.md §3 names.
type FlowKind int

const (
	FlowAlignment FlowKind = iota
	FlowNewLine
	FlowStartLines
)

func (f FlowKind) String() string {
	switch f {
	case FlowAlignment:
		return "alignment"
	case FlowNewLine:
		return "new-line"
	case FlowStartLines:
		return "start-lines"
	default:
		return "alignment"
	}
}

// VisualKind distinguishes the Visual(...) variants spec.md §3 names.
type VisualKind int

const (
	VisualRule VisualKind = iota
	VisualBoxed
	VisualOverline
	VisualUnderline
	VisualPhantom
)

func (v VisualKind) String() string {
	switch v {
	case VisualRule:
		return "rule"
	case VisualBoxed:
		return "boxed"
	case VisualOverline:
		return "overline"
	case VisualUnderline:
		return "underline"
	case VisualPhantom:
		return "phantom"
	default:
		return "rule"
	}
}

// PhantomKind distinguishes \phantom from \hphantom/\vphantom, valid
// only when VisualKind == VisualPhantom.
type PhantomKind int

const (
	PhantomBoth PhantomKind = iota
	PhantomHorizontal
	PhantomVertical
)

// EventKind tags which of Event's field groups is meaningful. Events are
// a closed tagged union (spec.md §9 "Dynamic dispatch over command kinds
// maps cleanly to a tagged variant"); Go has no sum types, so this is
// expressed as one flat struct with a discriminant, the same shape
// token.Token already uses for the lexer's output.
type EventKind int

const (
	EvContent EventKind = iota
	EvBeginGroup
	EvEndGroup
	EvScript
	EvFraction
	EvRadical
	EvAccent
	EvUnderover
	EvStyle
	EvColor
	EvSpace
	EvEnvironmentFlow
	EvBeginArray
	EvEndArray
	EvVisual
)

func (k EventKind) String() string {
	switch k {
	case EvContent:
		return "Content"
	case EvBeginGroup:
		return "BeginGroup"
	case EvEndGroup:
		return "EndGroup"
	case EvScript:
		return "Script"
	case EvFraction:
		return "Fraction"
	case EvRadical:
		return "Radical"
	case EvAccent:
		return "Accent"
	case EvUnderover:
		return "Underover"
	case EvStyle:
		return "Style"
	case EvColor:
		return "Color"
	case EvSpace:
		return "Space"
	case EvEnvironmentFlow:
		return "EnvironmentFlow"
	case EvBeginArray:
		return "BeginArray"
	case EvEndArray:
		return "EndArray"
	case EvVisual:
		return "Visual"
	default:
		return "Unknown"
	}
}

// Event is one unit of the parser's pull-based output (spec.md §3, §6).
// Only the fields relevant to Kind are meaningful; the rest are zero.
type Event struct {
	Kind EventKind
	Span texerr.Span

	// Content (EvContent).
	Content       ContentClass
	Char          rune   // Identifier/Operator: the literal character; Number: its first digit
	Text          string // String: the accumulated text-mode run; Number: the full digit run ("23", not "2" then "3")
	Class         AtomClass
	Stretchy      bool
	MovableLimits bool
	IsAccent      bool
	Negated       bool // supplemented \not, spec.md SPEC_FULL §D.2

	// BeginGroup (EvBeginGroup).
	Group      GroupKind
	FenceLeft  rune
	FenceRight rune

	// Script (EvScript).
	Position ScriptPosition

	// Fraction (EvFraction).
	LineThickness string // "" means the renderer's default thickness
	DelimLeft     rune   // 0 means no delimiter, e.g. plain \frac
	DelimRight    rune

	// Radical (EvRadical).
	IndexPresent bool

	// Accent (EvAccent).
	AccentChar rune

	// Underover (EvUnderover). AnnotationPresent selects between the two
	// shapes spec.md SPEC_FULL §D.1 generalizes this event to carry:
	// false (spec.md's original shape) means a literal decoration glyph
	// (UnderoverChar) drawn over/under exactly one following child (the
	// base); true (the \overset/\underset/\stackrel supplement) means no
	// literal glyph, and two children follow in fixed order: base, then
	// annotation.
	UnderoverChar     rune
	Over              bool
	AnnotationPresent bool

	// Style (EvStyle).
	StyleVariant string // e.g. "bold", "italic", "displaystyle", "scriptstyle"

	// Color (EvColor).
	ColorSpec string

	// Space (EvSpace).
	SpaceWidth string // e.g. "thin", "medium", "thick", "negthin", "1em", "2em"

	// EnvironmentFlow (EvEnvironmentFlow).
	Flow       FlowKind
	RowSpacing string // optional "[dim]" following "\\" or "\cr", "" if absent

	// BeginArray (EvBeginArray).
	ColumnSpec string // raw column-spec text, e.g. "lcr|c"

	// Visual (EvVisual).
	Visual  VisualKind
	Phantom PhantomKind
}
