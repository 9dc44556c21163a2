package tokenizer

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/texlayout/texmath/texerr"
	"github.com/texlayout/texmath/texlog"
	"github.com/texlayout/texmath/token"
)

// DefaultMaxExpansionDepth is the recommended bound from spec.md §4.3.
const DefaultMaxExpansionDepth = 256

// Environment combines a Lexer with the scope stack and implements
// single-step macro expansion (spec.md §4.3). The event generator never
// talks to the Lexer directly; it always calls NextExpandedToken.
type Environment struct {
	lex      *Lexer
	Scopes   *Stack
	maxDepth int
	log      *slog.Logger
}

// NewEnvironment builds an Environment. maxDepth <= 0 selects
// DefaultMaxExpansionDepth. A nil logger disables tracing.
func NewEnvironment(lex *Lexer, maxDepth int, log *slog.Logger) *Environment {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxExpansionDepth
	}
	if log == nil {
		log = texlog.Discard()
	}
	return &Environment{lex: lex, Scopes: NewStack(), maxDepth: maxDepth, log: log}
}

// Lexer returns the underlying lexer, for sub-lexing contexts such as
// \text{...} that need raw tokens without macro expansion.
func (env *Environment) Lexer() *Lexer { return env.lex }

// NextExpandedToken pulls the next token that is not itself a macro
// definition or a user-macro invocation: definitions are parsed and
// installed silently, and user macros are expanded and re-fed through
// the lexer until something else comes out the other end (spec.md §4.3
// "Request model").
func (env *Environment) NextExpandedToken() (token.Token, error) {
	depth := 0
	for {
		tok, err := env.lex.NextToken()
		if err != nil {
			return token.Token{}, err
		}
		if tok.Kind != token.ControlSequence {
			return tok, nil
		}

		switch tok.Name {
		case "def":
			if err := env.parseDef(tok); err != nil {
				return token.Token{}, err
			}
			continue
		case "newcommand":
			if err := env.parseNewcommand(tok, false); err != nil {
				return token.Token{}, err
			}
			continue
		case "renewcommand":
			if err := env.parseNewcommand(tok, true); err != nil {
				return token.Token{}, err
			}
			continue
		}

		if IsBuiltin(tok.Name) {
			return tok, nil
		}

		def := env.Scopes.LookupMacro(tok.Name)
		if def == nil {
			return token.Token{}, texerr.New(texerr.UndefinedControlSequence,
				texerr.Span{Start: tok.Start, End: tok.End},
				"undefined control sequence \\"+tok.Name, env.Scopes.Frames())
		}
		depth++
		if depth > env.maxDepth {
			return token.Token{}, texerr.New(texerr.ExpansionTooDeep,
				texerr.Span{Start: tok.Start, End: tok.End},
				"macro expansion exceeded the maximum nesting depth", env.Scopes.Frames())
		}
		if err := env.expand(tok, def); err != nil {
			return token.Token{}, err
		}
		env.log.Debug("macro expanded", "name", tok.Name, "depth", depth)
	}
}

// expand binds arguments for a user macro invocation and splices its
// substituted body onto the scanner so the next lex reads the expansion.
// The caller (NextExpandedToken) is responsible for bounding how many
// expansions in a row this may be called, since a cyclic definition
// (spec.md §9) would otherwise recurse forever without ever growing the
// scanner's input stack: a macro whose entire body is a single
// recursive call exactly replaces the frame it consumed.
func (env *Environment) expand(tok token.Token, def *MacroDef) error {
	if def.Delimiter != "" {
		if err := env.matchDelimiter(def.Delimiter); err != nil {
			return err
		}
	}

	args := make([]string, def.ParameterCount)
	for i := range args {
		arg, err := env.readMacroArgument()
		if err != nil {
			return err
		}
		args[i] = arg
	}

	body := substituteMacroArgs(def.Body, args)
	env.lex.Scanner().Prepend([]byte(body), tok.Name)
	return nil
}

// matchDelimiter consumes and verifies the literal text required to
// precede a macro's arguments, raising MacroSuffixNotFound on mismatch.
func (env *Environment) matchDelimiter(delim string) error {
	sc := env.lex.Scanner()
	start := sc.Pos()
	if !sc.Next() {
		return texerr.New(texerr.MacroSuffixNotFound, texerr.Span{Start: start, End: sc.Pos()},
			"expected delimiter "+strconv.Quote(delim)+" before end of input", env.Scopes.Frames())
	}
	buf := sc.Peek()
	if len(buf) < len(delim) || string(buf[:len(delim)]) != delim {
		return texerr.New(texerr.MacroSuffixNotFound, texerr.Span{Start: start, End: sc.Pos()},
			"expected delimiter "+strconv.Quote(delim), env.Scopes.Frames())
	}
	sc.Skip(len(delim))
	return nil
}

// readMacroArgument reads one macro argument: a brace-stripped group, or
// the next single token after whitespace (spec.md §4.3 "Parameter
// binding").
func (env *Environment) readMacroArgument() (string, error) {
	lx := env.lex
	lx.SkipMathWhitespace()
	sc := lx.Scanner()
	if !sc.Next() {
		return "", texerr.New(texerr.MacroSuffixNotFound, texerr.Span{Start: sc.Pos(), End: sc.Pos()},
			"expected a macro argument before end of input", env.Scopes.Frames())
	}
	buf := sc.Peek()
	if len(buf) > 0 && buf[0] == '{' {
		sc.Skip(1)
		return readBalancedGroup(lx)
	}

	tok, err := lx.NextToken()
	if err != nil {
		return "", err
	}
	if tok.IsEof() {
		return "", texerr.New(texerr.MacroSuffixNotFound, texerr.Span{Start: tok.Start, End: tok.End},
			"expected a macro argument, found end of input", env.Scopes.Frames())
	}
	return tokenRawText(tok), nil
}

// tokenRawText reconstructs the literal LaTeX text a token stands for,
// so it can be spliced back into a macro body for re-lexing.
func tokenRawText(tok token.Token) string {
	switch tok.Kind {
	case token.ControlSequence:
		return "\\" + tok.Name
	case token.Character:
		return string(tok.Char)
	case token.GroupBegin:
		return "{"
	case token.GroupEnd:
		return "}"
	case token.Alignment:
		return "&"
	default:
		return tok.String()
	}
}

// readBalancedGroup reads raw source text up to the matching closing
// brace, assuming the opening '{' has already been consumed. Braces
// escaped by a backslash (e.g. "\{") do not affect nesting, matching the
// lexer's own rule that "\{" is a control sequence, not a GroupBegin.
func readBalancedGroup(lx *Lexer) (string, error) {
	sc := lx.Scanner()
	start := sc.Pos()
	depth := 1
	var out []byte

	for {
		if !sc.Next() {
			return "", texerr.New(texerr.UnmatchedOpen, texerr.Span{Start: start, End: sc.Pos()},
				"unterminated group", nil)
		}
		buf := sc.Peek()
		if len(buf) == 0 {
			return "", texerr.New(texerr.UnmatchedOpen, texerr.Span{Start: start, End: sc.Pos()},
				"unterminated group", nil)
		}

		switch buf[0] {
		case '\\':
			out = append(out, '\\')
			sc.Skip(1)
			if !sc.Next() {
				continue
			}
			buf = sc.Peek()
			if len(buf) == 0 {
				continue
			}
			r, size := utf8.DecodeRune(buf)
			if !unicode.IsLetter(r) {
				out = append(out, buf[:size]...)
				sc.Skip(size)
				continue
			}
			for unicode.IsLetter(r) {
				out = append(out, buf[:size]...)
				sc.Skip(size)
				if !sc.Next() {
					break
				}
				buf = sc.Peek()
				if len(buf) == 0 {
					break
				}
				r, size = utf8.DecodeRune(buf)
			}
		case '{':
			depth++
			out = append(out, '{')
			sc.Skip(1)
		case '}':
			depth--
			sc.Skip(1)
			if depth == 0 {
				return string(out), nil
			}
			out = append(out, '}')
		default:
			out = append(out, buf[0])
			sc.Skip(1)
		}
	}
}

// ReadRawGroup reads raw source text up to the matching closing brace,
// assuming the opening '{' has already been consumed by the caller. It
// is exported for callers outside this package (the event generator)
// that need configuration text — such as \genfrac's delimiter argument
// or \text's body — verbatim rather than as tokens to re-lex.
func ReadRawGroup(lx *Lexer) (string, error) {
	return readBalancedGroup(lx)
}

// readDefParamText reads a \def parameter pattern: a run of literal
// bytes (the delimiter that must precede the arguments) followed by a
// strictly increasing run of #1..#9 markers, terminated by the body's
// opening brace (left unconsumed). Literal text after the first
// parameter marker is not supported, since MacroDef carries a single
// Delimiter that always precedes all arguments.
func (env *Environment) readDefParamText() (count int, delim string, err error) {
	sc := env.lex.Scanner()
	var raw []byte
	for {
		if !sc.Next() {
			return 0, "", texerr.New(texerr.InvalidControlSequence,
				texerr.Span{Start: sc.Pos(), End: sc.Pos()},
				"\\def body is missing", env.Scopes.Frames())
		}
		buf := sc.Peek()
		if len(buf) == 0 {
			return 0, "", texerr.New(texerr.InvalidControlSequence,
				texerr.Span{Start: sc.Pos(), End: sc.Pos()},
				"\\def body is missing", env.Scopes.Frames())
		}
		if buf[0] == '{' {
			return count, string(raw), nil
		}
		if buf[0] == '#' && len(buf) >= 2 && isDigit19(buf[1]) {
			n := int(buf[1] - '0')
			if n != count+1 {
				return 0, "", texerr.New(texerr.BadParameterIndex,
					texerr.Span{Start: sc.Pos(), End: sc.Pos() + 2},
					"\\def parameters must be numbered consecutively from #1", env.Scopes.Frames())
			}
			count = n
			sc.Skip(2)
			continue
		}
		if count == 0 {
			raw = append(raw, buf[0])
		}
		sc.Skip(1)
	}
}

// parseDef implements \def<name><param text>{<body>} (spec.md §4.3).
func (env *Environment) parseDef(defTok token.Token) error {
	nameTok, err := env.lex.NextToken()
	if err != nil {
		return err
	}
	if nameTok.Kind != token.ControlSequence {
		return texerr.New(texerr.InvalidControlSequence,
			texerr.Span{Start: defTok.Start, End: nameTok.End},
			"\\def requires a control sequence name", env.Scopes.Frames())
	}

	count, delim, err := env.readDefParamText()
	if err != nil {
		return err
	}

	sc := env.lex.Scanner()
	sc.Skip(1) // '{'
	body, err := readBalancedGroup(env.lex)
	if err != nil {
		return err
	}

	return env.installMacro(nameTok, &MacroDef{ParameterCount: count, Delimiter: delim, Body: body})
}

// parseNewcommand implements \newcommand and \renewcommand: the name
// (optionally brace-wrapped), an optional [n] parameter count, and a
// mandatory brace-delimited body. Delimited parameter patterns are a
// \def-only feature; \newcommand's parameters are always single tokens
// or brace groups bound positionally. Both spellings share this parser:
// the core does not distinguish "must already exist" (\renewcommand)
// from "must not already exist" (\newcommand), since only built-in
// redefinition is part of the error taxonomy.
func (env *Environment) parseNewcommand(callTok token.Token, isRenew bool) error {
	lx := env.lex
	sc := lx.Scanner()

	lx.SkipMathWhitespace()
	braced := false
	if sc.Next() {
		if buf := sc.Peek(); len(buf) > 0 && buf[0] == '{' {
			braced = true
			sc.Skip(1)
		}
	}

	nameTok, err := lx.NextToken()
	if err != nil {
		return err
	}
	if nameTok.Kind != token.ControlSequence {
		return texerr.New(texerr.InvalidControlSequence,
			texerr.Span{Start: callTok.Start, End: nameTok.End},
			callTok.Name+" requires a control sequence name", env.Scopes.Frames())
	}
	if braced {
		lx.SkipMathWhitespace()
		if sc.Next() {
			if buf := sc.Peek(); len(buf) > 0 && buf[0] == '}' {
				sc.Skip(1)
			}
		}
	}

	count := 0
	lx.SkipMathWhitespace()
	if sc.Next() {
		if buf := sc.Peek(); len(buf) > 0 && buf[0] == '[' {
			sc.Skip(1)
			n, err := lx.ReadInt()
			if err != nil {
				return err
			}
			if sc.Next() {
				if buf := sc.Peek(); len(buf) > 0 && buf[0] == ']' {
					sc.Skip(1)
				}
			}
			count = n
		}
	}

	lx.SkipMathWhitespace()
	if !sc.Next() {
		return texerr.New(texerr.InvalidControlSequence,
			texerr.Span{Start: callTok.Start, End: sc.Pos()},
			callTok.Name+" body is missing", env.Scopes.Frames())
	}
	buf := sc.Peek()
	if len(buf) == 0 || buf[0] != '{' {
		return texerr.New(texerr.InvalidControlSequence,
			texerr.Span{Start: callTok.Start, End: sc.Pos()},
			callTok.Name+" requires a brace-delimited body", env.Scopes.Frames())
	}
	sc.Skip(1)
	body, err := readBalancedGroup(lx)
	if err != nil {
		return err
	}

	return env.installMacro(nameTok, &MacroDef{ParameterCount: count, Body: body})
}

// installMacro defines a macro in the current scope, rejecting attempts
// to shadow a built-in while at global scope.
func (env *Environment) installMacro(nameTok token.Token, def *MacroDef) error {
	if env.Scopes.Depth() == 0 && IsBuiltin(nameTok.Name) {
		return texerr.New(texerr.BuiltinRedefinition,
			texerr.Span{Start: nameTok.Start, End: nameTok.End},
			"cannot redefine built-in \\"+nameTok.Name, env.Scopes.Frames())
	}
	env.Scopes.DefineMacro(nameTok.Name, def)
	return nil
}

// substituteMacroArgs replaces "#1".."#9" in body with the corresponding
// entry of args. A "#n" with no corresponding argument, and a "#" not
// followed by a digit, are dropped from the result; "##" yields "#".
func substituteMacroArgs(body string, args []string) string {
	var parts []string

	partStart := 0
	numStart := -1
	hashSeen := false
	for pos := 0; pos < len(body); pos++ {
		c := body[pos]

		if numStart >= 0 {
			if isDigitByte(c) {
				continue
			}
			if num, err := strconv.Atoi(body[numStart:pos]); err == nil && num > 0 && num <= len(args) {
				parts = append(parts, args[num-1])
			}
			partStart = pos
			numStart = -1
		}

		switch {
		case hashSeen && isDigitByte(c):
			numStart = pos
			hashSeen = false
		case c == '#' && !hashSeen:
			parts = append(parts, body[partStart:pos])
			partStart = pos + 1
			hashSeen = true
		default:
			hashSeen = false
		}
	}
	if numStart >= 0 {
		if num, err := strconv.Atoi(body[numStart:]); err == nil && num > 0 && num <= len(args) {
			parts = append(parts, args[num-1])
		}
		partStart = len(body)
	}
	parts = append(parts, body[partStart:])
	return strings.Join(parts, "")
}
