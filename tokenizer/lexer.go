// Copyright (C) 2016  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package tokenizer implements the lexer and the macro & scope
// environment (spec.md §4.2, §4.3): it turns scanner bytes into Tokens,
// and knows how to expand a user- or builtin-defined control sequence one
// step at a time.
package tokenizer

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/texlayout/texmath/scanner"
	"github.com/texlayout/texmath/texerr"
	"github.com/texlayout/texmath/token"
)

// Lexer turns scanner bytes into primitive Tokens, per spec.md §4.2. It
// does not itself know about macros; see Environment for expansion.
type Lexer struct {
	scan *scanner.Scanner

	// paramMode, when set, makes "#" followed by a digit 1-9 lex as a
	// Parameter token instead of two ordinary Character tokens. It is
	// off unless SetParamMode turns it on; macro expansion does not use
	// it, since bodies are substituted as raw text (see MacroDef).
	paramMode bool
}

// NewLexer creates a Lexer reading from scan.
func NewLexer(scan *scanner.Scanner) *Lexer {
	return &Lexer{scan: scan}
}

// Scanner returns the underlying scanner, e.g. so macro expansion can
// Prepend substituted bytes onto it.
func (lx *Lexer) Scanner() *scanner.Scanner {
	return lx.scan
}

// SetParamMode toggles whether "#" followed by a digit 1-9 lexes as a
// Parameter token. Only meaningful while lexing the body of a macro
// definition.
func (lx *Lexer) SetParamMode(on bool) {
	lx.paramMode = on
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isDigit19(b byte) bool {
	return b >= '1' && b <= '9'
}

// skipComment discards from the current position (which must be sitting
// on '%') through the next line feed, inclusive.
func (lx *Lexer) skipComment() {
	for lx.scan.Next() {
		buf := lx.scan.Peek()
		if i := bytes.IndexByte(buf, '\n'); i >= 0 {
			lx.scan.Skip(i + 1)
			return
		}
		lx.scan.Skip(len(buf))
	}
}

// SkipMathWhitespace implements spec.md §4.1: spaces and tabs in math
// mode collapse to nothing, line feeds are whitespace, and '%' begins a
// comment that is skipped along with any whitespace around it.
func (lx *Lexer) SkipMathWhitespace() {
	for lx.scan.Next() {
		buf := lx.scan.Peek()
		if len(buf) == 0 {
			return
		}
		if buf[0] == '%' {
			lx.skipComment()
			continue
		}
		if !isSpaceByte(buf[0]) {
			return
		}
		lx.scan.Skip(1)
	}
}

// NextToken pulls one token from the scanner. Comments are consumed
// silently and never yielded. Once Eof is produced, further calls keep
// producing Eof.
func (lx *Lexer) NextToken() (token.Token, error) {
	for {
		if !lx.scan.Next() {
			pos := lx.scan.Pos()
			return token.Token{Kind: token.Eof, Start: pos, End: pos}, nil
		}
		buf := lx.scan.Peek()
		if len(buf) == 0 {
			pos := lx.scan.Pos()
			return token.Token{Kind: token.Eof, Start: pos, End: pos}, nil
		}

		if buf[0] == '%' {
			lx.skipComment()
			continue
		}

		start := lx.scan.Pos()
		switch buf[0] {
		case '\\':
			return lx.readControlSequence(start)
		case '{':
			lx.scan.Skip(1)
			return token.Token{Kind: token.GroupBegin, Start: start, End: start + 1}, nil
		case '}':
			lx.scan.Skip(1)
			return token.Token{Kind: token.GroupEnd, Start: start, End: start + 1}, nil
		case '&':
			lx.scan.Skip(1)
			return token.Token{Kind: token.Alignment, Start: start, End: start + 1}, nil
		case '#':
			if lx.paramMode && len(buf) >= 2 && isDigit19(buf[1]) {
				lx.scan.Skip(2)
				return token.Token{
					Kind: token.Parameter, Index: int(buf[1] - '0'),
					Start: start, End: start + 2,
				}, nil
			}
			return lx.readCharacter(start, buf)
		default:
			return lx.readCharacter(start, buf)
		}
	}
}

// readControlSequence lexes a backslash-introduced name. If followed by
// a letter, the name is the maximal run of letters, and trailing math
// whitespace is skipped; otherwise the name is exactly the single
// following character (no letter-run, no whitespace skip).
func (lx *Lexer) readControlSequence(start int) (token.Token, error) {
	lx.scan.Skip(1) // '\\'

	if !lx.scan.Next() {
		return token.Token{}, texerr.New(texerr.InvalidControlSequence,
			texerr.Span{Start: start, End: lx.scan.Pos()},
			"control sequence at end of input", nil)
	}
	buf := lx.scan.Peek()
	if len(buf) == 0 {
		return token.Token{}, texerr.New(texerr.InvalidControlSequence,
			texerr.Span{Start: start, End: lx.scan.Pos()},
			"control sequence at end of input", nil)
	}

	r, size := utf8.DecodeRune(buf)
	if !unicode.IsLetter(r) {
		lx.scan.Skip(size)
		return token.Token{
			Kind: token.ControlSequence, Name: string(r),
			Start: start, End: lx.scan.Pos(),
		}, nil
	}

	var name []rune
	for {
		name = append(name, r)
		lx.scan.Skip(size)
		if !lx.scan.Next() {
			break
		}
		buf = lx.scan.Peek()
		if len(buf) == 0 {
			break
		}
		r, size = utf8.DecodeRune(buf)
		if !unicode.IsLetter(r) {
			break
		}
	}

	end := lx.scan.Pos()
	lx.SkipMathWhitespace()
	return token.Token{
		Kind: token.ControlSequence, Name: string(name),
		Start: start, End: end,
	}, nil
}

// readCharacter lexes a single non-control, non-grouping character and
// classifies it.
func (lx *Lexer) readCharacter(start int, buf []byte) (token.Token, error) {
	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError && size <= 1 {
		return token.Token{}, texerr.New(texerr.UnexpectedCharacter,
			texerr.Span{Start: start, End: start + 1},
			"invalid UTF-8 in source", nil)
	}
	lx.scan.Skip(size)

	cat := classify(r)
	return token.Token{
		Kind: token.Character, Char: r, Category: cat,
		Start: start, End: start + size,
	}, nil
}

func classify(r rune) token.Category {
	switch {
	case unicode.IsLetter(r):
		return token.Letter
	case unicode.IsDigit(r):
		return token.Digit
	case isSpaceByte(byte(r)) && r < 128:
		return token.Space
	case isMathSymbol(r):
		return token.MathSymbol
	default:
		return token.Other
	}
}

// isMathSymbol recognizes the small set of characters that are always
// mathematical operators regardless of surrounding macro packages, as
// opposed to "other" punctuation such as '.' or ','.
func isMathSymbol(r rune) bool {
	switch r {
	case '+', '-', '=', '<', '>', '*', '/':
		return true
	default:
		return false
	}
}
