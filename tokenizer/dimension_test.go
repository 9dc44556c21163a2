package tokenizer

import (
	"testing"

	"github.com/texlayout/texmath/scanner"
	"github.com/texlayout/texmath/texerr"
)

func TestReadDimension(t *testing.T) {
	testCases := []struct {
		in        string
		value     float64
		unit      string
		remainder string
	}{
		{"12pt", 12, "pt", ""},
		{"-3.5em", -3.5, "em", ""},
		{"+2mu ", 2, "mu", " "},
		{"0.5in rest", 0.5, "in", " rest"},
	}
	for _, tc := range testCases {
		lx := NewLexer(scanner.New(tc.in, "test"))
		dim, err := lx.ReadDimension()
		if err != nil {
			t.Fatalf("ReadDimension(%q): %v", tc.in, err)
		}
		if dim.Value != tc.value || dim.Unit != tc.unit {
			t.Errorf("ReadDimension(%q) = %+v, want {%v %v}", tc.in, dim, tc.value, tc.unit)
		}
	}
}

func TestReadDimensionRejectsMiscasedUnit(t *testing.T) {
	lx := NewLexer(scanner.New("3PT", "test"))
	_, err := lx.ReadDimension()
	if err == nil {
		t.Fatal("expected an error for a mis-cased unit")
	}
	terr, ok := err.(*texerr.Error)
	if !ok {
		t.Fatalf("expected *texerr.Error, got %T", err)
	}
	if terr.Kind != texerr.InvalidDimension {
		t.Errorf("Kind = %v, want InvalidDimension", terr.Kind)
	}
}

func TestReadDimensionRejectsUnknownUnit(t *testing.T) {
	lx := NewLexer(scanner.New("3xx", "test"))
	_, err := lx.ReadDimension()
	if err == nil {
		t.Fatal("expected an error for an unrecognized unit")
	}
}

func TestReadDimensionRequiresANumber(t *testing.T) {
	lx := NewLexer(scanner.New("pt", "test"))
	_, err := lx.ReadDimension()
	if err == nil {
		t.Fatal("expected an error when no number precedes the unit")
	}
	terr, ok := err.(*texerr.Error)
	if !ok || terr.Kind != texerr.BadNumber {
		t.Fatalf("expected BadNumber, got %v", err)
	}
}

func TestReadInt(t *testing.T) {
	lx := NewLexer(scanner.New("42columns", "test"))
	n, err := lx.ReadInt()
	if err != nil {
		t.Fatal(err)
	}
	if n != 42 {
		t.Errorf("ReadInt() = %d, want 42", n)
	}
}

func TestReadIntRejectsNonDigit(t *testing.T) {
	lx := NewLexer(scanner.New("x", "test"))
	_, err := lx.ReadInt()
	if err == nil {
		t.Fatal("expected an error")
	}
}
