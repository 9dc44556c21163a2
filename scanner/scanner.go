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

// Package scanner implements the character cursor that the rest of the
// parser is built on: a forward-only, byte-offset position over a stack of
// in-memory buffers, with a bounded look-ahead window and span tracking.
//
// A stack of buffers, rather than a single one, is what lets macro
// expansion work by substitution: expanding a control sequence pushes its
// body onto the scanner so that the following read sees the expansion
// before the text that triggered it, exactly as if the macro body had been
// typed in place. Frames returns enough information about that stack to
// build a trace for an error.
package scanner

import (
	"fmt"
	"strings"
)

// PeekWindowSize gives the minimum size of the lookahead buffer. Unless
// the end of input is reached, at least this many bytes are visible in
// the buffer returned by Peek.
const PeekWindowSize = 128

// Scanner is a forward-only cursor over a stack of byte buffers.
//
// The top of the stack (the last element of sources) is read first; when
// it is exhausted the scanner falls through to the buffer below it. This
// is what Prepend relies on: pushing macro-body bytes onto the stack makes
// them the next thing read, with the caller's remaining input resuming
// underneath once the pushed bytes are consumed.
type Scanner struct {
	sources []*source
	peekBuf []byte
	ready   bool
	pos     int
}

type source struct {
	Name   string
	Buffer []byte
	Line   int
	start  int
}

func (src *source) skip(n int) {
	for _, c := range src.Buffer[:n] {
		if c == '\n' {
			src.Line++
		}
	}
	src.Buffer = src.Buffer[n:]
}

// New creates a Scanner reading from the given source text. name
// identifies the buffer in error traces.
func New(text string, name string) *Scanner {
	scan := &Scanner{}
	scan.Prepend([]byte(text), name)
	return scan
}

// Prepend adds the given buffer to the top of the input stack. Its
// contents are read next, followed by whatever was being read before.
// name identifies the buffer in error traces and should be a short,
// human-readable string (e.g. the name of the macro whose body this is).
func (scan *Scanner) Prepend(data []byte, name string) {
	scan.sources = append(scan.sources, &source{
		Name:   name,
		Buffer: data,
		start:  scan.pos,
	})
	scan.ready = false
}

// Next checks whether more input is available. This method must be
// called before every call to Peek.
func (scan *Scanner) Next() bool {
	var peekBuf []byte
	for idx := len(scan.sources) - 1; idx >= 0; idx-- {
		if len(peekBuf) >= PeekWindowSize {
			break
		}
		peekBuf = append(peekBuf, scan.sources[idx].Buffer...)
	}
	scan.peekBuf = peekBuf

	n := len(scan.sources)
	for n > 0 && len(scan.sources[n-1].Buffer) == 0 {
		n--
	}
	scan.sources = scan.sources[:n]
	scan.ready = true

	return len(peekBuf) > 0
}

// Peek returns a buffer showing the first input bytes after the current
// position. Unless the end of input is reached, this buffer is at least
// PeekWindowSize bytes long. The current position is not changed.
//
// The returned buffer is only valid until the next call to Skip. Next
// must be called to populate the lookahead buffer before every call to
// Peek.
func (scan *Scanner) Peek() []byte {
	if !scan.ready {
		panic("scanner: missing call to Next")
	}
	return scan.peekBuf
}

// Skip advances the current position by n bytes.
func (scan *Scanner) Skip(n int) {
	if n < 0 {
		panic("scanner: invalid skip amount")
	}
	scan.ready = false
	scan.pos += n
	idx := len(scan.sources) - 1
	for n > 0 {
		src := scan.sources[idx]
		k := len(src.Buffer)
		if k > n {
			k = n
		}
		src.skip(k)
		n -= k
		scan.peekBuf = scan.peekBuf[k:]
		idx--
	}
}

// Pos returns the scanner's current position, expressed as the number of
// bytes consumed since construction. Because Prepend can splice
// macro-expansion text in front of the caller's original input, this is
// not always a byte offset into any single buffer, but it is monotonic,
// which is all span tracking requires of it.
func (scan *Scanner) Pos() int {
	return scan.pos
}

// Frame describes one entry of the active input stack, innermost first,
// for use in an error trace.
type Frame struct {
	// Name identifies the buffer (e.g. the source name, or the name of
	// the macro whose expansion is being read).
	Name string
	// Line is the 1-based line number within the buffer.
	Line int
	// Context is a short excerpt of the buffer's unread content.
	Context string
}

// Frames returns the current input stack, innermost (currently being
// read) first.
func (scan *Scanner) Frames() []Frame {
	frames := make([]Frame, 0, len(scan.sources))
	for idx := len(scan.sources) - 1; idx >= 0; idx-- {
		src := scan.sources[idx]
		var context string
		if len(src.Buffer) > 20 {
			context = string(src.Buffer[:17]) + "..."
		} else {
			context = string(src.Buffer)
		}
		frames = append(frames, Frame{
			Name:    src.Name,
			Line:    src.Line + 1,
			Context: context,
		})
	}
	return frames
}

// FormatFrames renders Frames as a multi-line, human-readable trace, in
// the same style as the teacher's original ParseError.Error.
func FormatFrames(frames []Frame) string {
	var res []string
	for i, frame := range frames {
		if i > 0 {
			res = append(res, ", included from")
		}
		res = append(res, "\n    ", frame.Name)
		if frame.Context != "" {
			res = append(res, fmt.Sprintf(", before %q", frame.Context))
		}
	}
	return strings.Join(res, "")
}
