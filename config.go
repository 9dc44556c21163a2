// Package texmath implements the event generator (spec.md §4.4): the
// nucleus+suffix state machine that turns a stream of expanded tokens
// into a flat sequence of rendering Events. It is the top-level package;
// scanner, token, and tokenizer are its layers beneath.
package texmath

import (
	"io"
	"log/slog"

	"github.com/texlayout/texmath/tokenizer"
)

// Config holds the construction-time options spec.md §6 names. There is
// no functional-options API here, matching the teacher's plain-struct
// configuration style (e.g. scanner.Scanner{BaseDir: ...}); Config is
// built in-process by the embedding caller and never loaded from a file.
type Config struct {
	// AllowSuffixModifiers permits \limits and \nolimits. When false,
	// either raises LimitsInInvalidContext.
	AllowSuffixModifiers bool
	// MaxExpansionDepth bounds macro expansion (spec.md §4.3); <= 0
	// selects tokenizer.DefaultMaxExpansionDepth.
	MaxExpansionDepth int
	// DisplayMode affects the movable-limits default for large
	// operators opened without an explicit \displaystyle/\textstyle.
	DisplayMode bool
	// StrictScripts controls whether a Script on a nucleus that cannot
	// carry one raises InvalidScriptTarget (true) or is forgiven by
	// attaching to the most recently closed group (false).
	StrictScripts bool
	// Logger receives Debug-level diagnostic records for scope
	// push/pop, macro expansion, and environment enter/exit. A nil
	// Logger disables tracing (texlog.Discard is used), unless
	// LogWriter is set.
	Logger *slog.Logger
	// LogWriter, when Logger is nil, builds a Debug-level logger via
	// texlog.New that writes to LogWriter, fanned out to LogHandlers
	// (e.g. a secondary sink for shipping parser diagnostics elsewhere).
	LogWriter   io.Writer
	LogHandlers []slog.Handler
}

// DefaultConfig returns the defaults spec.md §6 lists.
func DefaultConfig() Config {
	return Config{
		AllowSuffixModifiers: true,
		MaxExpansionDepth:    tokenizer.DefaultMaxExpansionDepth,
		DisplayMode:          false,
		StrictScripts:        true,
	}
}
