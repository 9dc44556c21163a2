package tokenizer

import (
	"strconv"

	"github.com/texlayout/texmath/texerr"
)

// units is the closed, case-sensitive set of dimension units spec.md
// §4.2 recognizes.
var units = map[string]bool{
	"pt": true, "mm": true, "cm": true, "in": true, "ex": true,
	"em": true, "mu": true, "bp": true, "pc": true, "dd": true,
	"cc": true, "sp": true,
}

// Dimension is a parsed LaTeX length: a signed magnitude plus one of the
// units in the closed set above.
type Dimension struct {
	Value float64
	Unit  string
}

func isDigitByte(b byte) bool {
	return b >= '0' && b <= '9'
}

// ReadDimension reads an optional sign, an integer or fractional number,
// and a unit, per spec.md §4.2. It is invoked on demand by the parser
// (for the "[dim]" row spacing after "\\" and for \rule's width and
// height), not by every call to NextToken.
func (lx *Lexer) ReadDimension() (Dimension, error) {
	start := lx.scan.Pos()
	lx.SkipMathWhitespace()

	negative := false
	for lx.scan.Next() {
		buf := lx.scan.Peek()
		if len(buf) == 0 {
			break
		}
		switch buf[0] {
		case '+':
			lx.scan.Skip(1)
			continue
		case '-':
			negative = !negative
			lx.scan.Skip(1)
			continue
		}
		break
	}

	numStart := lx.scan.Pos()
	var digits []byte
	sawDot := false
	for lx.scan.Next() {
		buf := lx.scan.Peek()
		if len(buf) == 0 {
			break
		}
		c := buf[0]
		if isDigitByte(c) {
			digits = append(digits, c)
			lx.scan.Skip(1)
			continue
		}
		if c == '.' && !sawDot {
			sawDot = true
			digits = append(digits, c)
			lx.scan.Skip(1)
			continue
		}
		break
	}
	if len(digits) == 0 {
		return Dimension{}, texerr.New(texerr.BadNumber,
			texerr.Span{Start: numStart, End: lx.scan.Pos()},
			"expected a number", nil)
	}

	value, err := strconv.ParseFloat(string(digits), 64)
	if err != nil {
		return Dimension{}, texerr.New(texerr.BadNumber,
			texerr.Span{Start: numStart, End: lx.scan.Pos()},
			"malformed number "+string(digits), nil)
	}
	if negative {
		value = -value
	}

	unitStart := lx.scan.Pos()
	if !lx.scan.Next() {
		return Dimension{}, texerr.New(texerr.InvalidDimension,
			texerr.Span{Start: start, End: lx.scan.Pos()},
			"missing dimension unit", nil)
	}
	buf := lx.scan.Peek()
	if len(buf) < 2 {
		return Dimension{}, texerr.New(texerr.InvalidDimension,
			texerr.Span{Start: unitStart, End: lx.scan.Pos()},
			"missing dimension unit", nil)
	}
	unit := string(buf[:2])
	if !units[unit] {
		return Dimension{}, texerr.New(texerr.InvalidDimension,
			texerr.Span{Start: unitStart, End: unitStart + 2},
			"unrecognized or mis-cased unit "+strconv.Quote(unit), nil)
	}
	lx.scan.Skip(2)

	return Dimension{Value: value, Unit: unit}, nil
}

// ReadInt reads a bare, unsigned decimal integer, as used for
// \newcommand's "[n]" parameter count. It does not accept a unit.
func (lx *Lexer) ReadInt() (int, error) {
	start := lx.scan.Pos()
	var digits []byte
	for lx.scan.Next() {
		buf := lx.scan.Peek()
		if len(buf) == 0 || !isDigitByte(buf[0]) {
			break
		}
		digits = append(digits, buf[0])
		lx.scan.Skip(1)
	}
	if len(digits) == 0 {
		return 0, texerr.New(texerr.BadNumber,
			texerr.Span{Start: start, End: lx.scan.Pos()},
			"expected an integer", nil)
	}
	n, err := strconv.Atoi(string(digits))
	if err != nil {
		return 0, texerr.New(texerr.BadNumber,
			texerr.Span{Start: start, End: lx.scan.Pos()},
			"malformed integer "+string(digits), nil)
	}
	return n, nil
}
