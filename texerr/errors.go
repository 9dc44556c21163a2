// Package texerr defines the closed taxonomy of errors the parser can
// raise (spec.md §7) and the trace mechanism used to report where, in
// terms of open groups and environments, an error occurred. The parser
// does not record macro expansions in a trace.
//
// It sits below both tokenizer and the root parser package so that either
// layer can raise a fully-formed *Error without an import cycle.
package texerr

import (
	"fmt"
	"log/slog"
	"strings"
)

// Kind is a closed set of error categories. New kinds are never added by
// callers; this is the complete taxonomy.
type Kind int

const (
	// Lexical errors.
	UnexpectedCharacter Kind = iota
	InvalidControlSequence
	InvalidDimension
	BadNumber

	// Macro errors.
	UndefinedControlSequence
	MacroSuffixNotFound
	BuiltinRedefinition
	ExpansionTooDeep
	BadParameterIndex

	// Structural errors.
	UnmatchedOpen
	UnmatchedClose
	UnmatchedRight
	EnvironmentMismatch
	UnknownEnvironment
	MismatchedGroup

	// Semantic errors.
	DoubleScript
	InvalidScriptTarget
	LimitsInInvalidContext
	StrayAlignment
	StrayNewLine
	EmptyRadicand

	// InternalToken is the catch-all for malformed input whose specific
	// category is unclear. Spec.md names this kind "Token".
	InternalToken
)

var names = map[Kind]string{
	UnexpectedCharacter:      "UnexpectedCharacter",
	InvalidControlSequence:   "InvalidControlSequence",
	InvalidDimension:         "InvalidDimension",
	BadNumber:                "BadNumber",
	UndefinedControlSequence: "UndefinedControlSequence",
	MacroSuffixNotFound:      "MacroSuffixNotFound",
	BuiltinRedefinition:      "BuiltinRedefinition",
	ExpansionTooDeep:         "ExpansionTooDeep",
	BadParameterIndex:        "BadParameterIndex",
	UnmatchedOpen:            "UnmatchedOpen",
	UnmatchedClose:           "UnmatchedClose",
	UnmatchedRight:           "UnmatchedRight",
	EnvironmentMismatch:      "EnvironmentMismatch",
	UnknownEnvironment:       "UnknownEnvironment",
	MismatchedGroup:          "MismatchedGroup",
	DoubleScript:             "DoubleScript",
	InvalidScriptTarget:      "InvalidScriptTarget",
	LimitsInInvalidContext:   "LimitsInInvalidContext",
	StrayAlignment:           "StrayAlignment",
	StrayNewLine:             "StrayNewLine",
	EmptyRadicand:            "EmptyRadicand",
	InternalToken:            "Token",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "Unknown"
}

// Span is a byte-offset range into the source, as tracked by
// scanner.Scanner.Pos.
type Span struct {
	Start, End int
}

// FrameKind classifies one entry of an error's Trace.
type FrameKind int

const (
	FrameMacro FrameKind = iota
	FrameEnvironment
	FrameGroup
	FrameLeftRight
)

func (k FrameKind) String() string {
	switch k {
	case FrameMacro:
		return "macro"
	case FrameEnvironment:
		return "environment"
	case FrameGroup:
		return "group"
	case FrameLeftRight:
		return "left-right"
	default:
		return "unknown"
	}
}

// Frame identifies one macro expansion, environment, or group that was
// active when an error occurred.
type Frame struct {
	Kind FrameKind
	Name string
}

func (f Frame) String() string {
	if f.Name == "" {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s %q", f.Kind, f.Name)
}

// Error is the error type returned by every layer of the parser. Once one
// has been produced, the parser that produced it is in a terminal state.
type Error struct {
	Kind    Kind
	Span    Span
	Trace   []Frame
	Message string
}

// New builds an Error. trace is copied so the caller's scope stack can
// keep mutating after the error is returned.
func New(kind Kind, span Span, message string, trace []Frame) *Error {
	cp := make([]Frame, len(trace))
	copy(cp, trace)
	return &Error{Kind: kind, Span: span, Trace: cp, Message: message}
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Kind, e.Message)
	for _, f := range e.Trace {
		fmt.Fprintf(&b, "\n    in %s", f)
	}
	return b.String()
}

// LogValue lets an *Error be passed directly to a slog.Logger as a
// structured attribute instead of a bare string.
func (e *Error) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", e.Kind.String()),
		slog.Int("start", e.Span.Start),
		slog.Int("end", e.Span.End),
		slog.String("message", e.Message),
		slog.Int("frames", len(e.Trace)),
	)
}
