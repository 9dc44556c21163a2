// Package texlog builds the structured logger used for the parser's
// diagnostic tracing: scope push/pop, macro expansion, and environment
// enter/exit, all at slog.LevelDebug. This replaces the teacher's
// log.Println("unknown macro", name)-style narration with structured,
// level-gated records, grounded on reusee-tai/logs' handler fan-out.
package texlog

import (
	"io"
	"log/slog"

	slogmulti "github.com/samber/slog-multi"
)

// New builds a *slog.Logger that writes to w at the given level, fanned
// out to any extra handlers the caller supplies (e.g. a test handler that
// records records for assertions, or a second sink for shipping parser
// diagnostics elsewhere).
func New(w io.Writer, level slog.Leveler, extra ...slog.Handler) *slog.Logger {
	handlers := make([]slog.Handler, 0, len(extra)+1)
	handlers = append(handlers, slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	handlers = append(handlers, extra...)

	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

// Discard is a logger that drops every record; it is the default used
// when a Parser is constructed without an explicit logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
