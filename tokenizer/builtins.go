package tokenizer

import "github.com/texlayout/texmath/token"

// Symbol describes a built-in symbol command: what character it renders
// as, and its semantic class. Class reuses token.AtomClass, the same
// enum Content events carry, so the event generator can copy it
// straight through without translation.
type Symbol struct {
	Char          rune
	Class         token.AtomClass
	LargeOperator bool
	// MovableLimits is only meaningful when LargeOperator is true: it
	// says whether the command's default limit placement depends on
	// inline-vs-display context (spec.md GLOSSARY "movable limits").
	MovableLimits bool
	// Stretchy marks delimiters that grow to match their contents (e.g.
	// inside \left...\right).
	Stretchy bool
}

// symbolTable is the closed set of built-in symbol commands known to the
// parser (spec.md §4.3 "Built-in table"). It is consulted by the event
// generator, not by the tokenizer itself, but lives here so that
// IsBuiltin (used to reject redefinition, spec.md §4.3) and the event
// generator's dispatch share one name list instead of drifting apart.
var symbolTable = map[string]Symbol{
	// Greek letters.
	"alpha": {Char: 'α', Class: token.Ord}, "beta": {Char: 'β', Class: token.Ord},
	"gamma": {Char: 'γ', Class: token.Ord}, "delta": {Char: 'δ', Class: token.Ord},
	"epsilon": {Char: 'ε', Class: token.Ord}, "varepsilon": {Char: 'ε', Class: token.Ord},
	"zeta": {Char: 'ζ', Class: token.Ord}, "eta": {Char: 'η', Class: token.Ord},
	"theta": {Char: 'θ', Class: token.Ord}, "vartheta": {Char: 'ϑ', Class: token.Ord},
	"iota": {Char: 'ι', Class: token.Ord}, "kappa": {Char: 'κ', Class: token.Ord},
	"lambda": {Char: 'λ', Class: token.Ord}, "mu": {Char: 'μ', Class: token.Ord},
	"nu": {Char: 'ν', Class: token.Ord}, "xi": {Char: 'ξ', Class: token.Ord},
	"pi": {Char: 'π', Class: token.Ord}, "varpi": {Char: 'ϖ', Class: token.Ord},
	"rho": {Char: 'ρ', Class: token.Ord}, "varrho": {Char: 'ϱ', Class: token.Ord},
	"sigma": {Char: 'σ', Class: token.Ord}, "varsigma": {Char: 'ς', Class: token.Ord},
	"tau": {Char: 'τ', Class: token.Ord}, "upsilon": {Char: 'υ', Class: token.Ord},
	"phi": {Char: 'φ', Class: token.Ord}, "varphi": {Char: 'ϕ', Class: token.Ord},
	"chi": {Char: 'χ', Class: token.Ord}, "psi": {Char: 'ψ', Class: token.Ord},
	"omega": {Char: 'ω', Class: token.Ord},
	"Gamma": {Char: 'Γ', Class: token.Ord}, "Delta": {Char: 'Δ', Class: token.Ord},
	"Theta": {Char: 'Θ', Class: token.Ord}, "Lambda": {Char: 'Λ', Class: token.Ord},
	"Xi": {Char: 'Ξ', Class: token.Ord}, "Pi": {Char: 'Π', Class: token.Ord},
	"Sigma": {Char: 'Σ', Class: token.Ord}, "Upsilon": {Char: 'Υ', Class: token.Ord},
	"Phi": {Char: 'Φ', Class: token.Ord}, "Psi": {Char: 'Ψ', Class: token.Ord},
	"Omega": {Char: 'Ω', Class: token.Ord},

	// Large operators.
	"sum": {Char: '∑', Class: token.Op, LargeOperator: true, MovableLimits: true},
	"prod": {Char: '∏', Class: token.Op, LargeOperator: true, MovableLimits: true},
	"coprod": {Char: '∐', Class: token.Op, LargeOperator: true, MovableLimits: true},
	"int": {Char: '∫', Class: token.Op, LargeOperator: true, MovableLimits: false},
	"oint": {Char: '∮', Class: token.Op, LargeOperator: true, MovableLimits: false},
	"iint": {Char: '∬', Class: token.Op, LargeOperator: true, MovableLimits: false},
	"bigcup": {Char: '⋃', Class: token.Op, LargeOperator: true, MovableLimits: true},
	"bigcap": {Char: '⋂', Class: token.Op, LargeOperator: true, MovableLimits: true},
	"bigoplus": {Char: '⊕', Class: token.Op, LargeOperator: true, MovableLimits: true},
	"bigotimes": {Char: '⊗', Class: token.Op, LargeOperator: true, MovableLimits: true},
	"bigvee": {Char: '⋁', Class: token.Op, LargeOperator: true, MovableLimits: true},
	"bigwedge": {Char: '⋀', Class: token.Op, LargeOperator: true, MovableLimits: true},
	"lim": {Char: 'l', Class: token.Op, LargeOperator: true, MovableLimits: true},
	"max": {Char: 'm', Class: token.Op, LargeOperator: true, MovableLimits: true},
	"min": {Char: 'm', Class: token.Op, LargeOperator: true, MovableLimits: true},
	"sup": {Char: 's', Class: token.Op, LargeOperator: true, MovableLimits: true},
	"inf": {Char: 'i', Class: token.Op, LargeOperator: true, MovableLimits: true},

	// Binary operators.
	"times": {Char: '×', Class: token.BinaryOp}, "div": {Char: '÷', Class: token.BinaryOp},
	"pm": {Char: '±', Class: token.BinaryOp}, "mp": {Char: '∓', Class: token.BinaryOp},
	"cdot": {Char: '⋅', Class: token.BinaryOp}, "ast": {Char: '∗', Class: token.BinaryOp},
	"cup": {Char: '∪', Class: token.BinaryOp}, "cap": {Char: '∩', Class: token.BinaryOp},
	"setminus": {Char: '∖', Class: token.BinaryOp}, "wedge": {Char: '∧', Class: token.BinaryOp},
	"vee": {Char: '∨', Class: token.BinaryOp}, "oplus": {Char: '⊕', Class: token.BinaryOp},
	"otimes": {Char: '⊗', Class: token.BinaryOp}, "circ": {Char: '∘', Class: token.BinaryOp},

	// Relations.
	"leq": {Char: '≤', Class: token.Relation}, "geq": {Char: '≥', Class: token.Relation},
	"neq": {Char: '≠', Class: token.Relation}, "approx": {Char: '≈', Class: token.Relation},
	"equiv": {Char: '≡', Class: token.Relation}, "sim": {Char: '∼', Class: token.Relation},
	"simeq": {Char: '≃', Class: token.Relation}, "cong": {Char: '≅', Class: token.Relation},
	"propto": {Char: '∝', Class: token.Relation}, "in": {Char: '∈', Class: token.Relation},
	"notin": {Char: '∉', Class: token.Relation}, "ni": {Char: '∋', Class: token.Relation},
	"subset": {Char: '⊂', Class: token.Relation}, "supset": {Char: '⊃', Class: token.Relation},
	"subseteq": {Char: '⊆', Class: token.Relation}, "supseteq": {Char: '⊇', Class: token.Relation},
	"prec": {Char: '≺', Class: token.Relation}, "succ": {Char: '≻', Class: token.Relation},
	"parallel": {Char: '∥', Class: token.Relation}, "perp": {Char: '⊥', Class: token.Relation},
	"to": {Char: '→', Class: token.Relation, Stretchy: true},
	"gets": {Char: '←', Class: token.Relation, Stretchy: true},
	"mapsto": {Char: '↦', Class: token.Relation, Stretchy: true},
	"leftrightarrow": {Char: '↔', Class: token.Relation, Stretchy: true},
	"Rightarrow": {Char: '⇒', Class: token.Relation, Stretchy: true},
	"Leftarrow": {Char: '⇐', Class: token.Relation, Stretchy: true},
	"Leftrightarrow": {Char: '⇔', Class: token.Relation, Stretchy: true},

	// Ordinary symbols.
	"infty": {Char: '∞', Class: token.Ord}, "partial": {Char: '∂', Class: token.Ord},
	"nabla": {Char: '∇', Class: token.Ord}, "emptyset": {Char: '∅', Class: token.Ord},
	"forall": {Char: '∀', Class: token.Ord}, "exists": {Char: '∃', Class: token.Ord},
	"aleph": {Char: 'ℵ', Class: token.Ord}, "hbar": {Char: 'ℏ', Class: token.Ord},
	"ell": {Char: 'ℓ', Class: token.Ord}, "Re": {Char: 'ℜ', Class: token.Ord},
	"Im": {Char: 'ℑ', Class: token.Ord}, "top": {Char: '⊤', Class: token.Ord},
	"bot": {Char: '⊥', Class: token.Ord}, "ldots": {Char: '…', Class: token.Inner},
	"cdots": {Char: '⋯', Class: token.Inner}, "vdots": {Char: '⋮', Class: token.Inner},
	"ddots": {Char: '⋱', Class: token.Inner}, "prime": {Char: '′', Class: token.Ord},
	"dprime": {Char: '″', Class: token.Ord},

	// Delimiters.
	"langle": {Char: '⟨', Class: token.Open, Stretchy: true},
	"rangle": {Char: '⟩', Class: token.Close, Stretchy: true},
	"lceil": {Char: '⌈', Class: token.Open, Stretchy: true},
	"rceil": {Char: '⌉', Class: token.Close, Stretchy: true},
	"lfloor": {Char: '⌊', Class: token.Open, Stretchy: true},
	"rfloor": {Char: '⌋', Class: token.Close, Stretchy: true},
	"vert": {Char: '|', Class: token.Ord, Stretchy: true},
	"Vert": {Char: '‖', Class: token.Ord, Stretchy: true},

	// Punctuation.
	"colon": {Char: ':', Class: token.Punctuation},
}

// structuralNames is the closed set of built-in control sequences that
// are never macro-expanded and instead drive the event generator's
// dispatch directly (spec.md §4.4.2): they consume following tokens
// structurally rather than producing a substitution.
var structuralNames = map[string]bool{
	"frac": true, "tfrac": true, "dfrac": true, "cfrac": true,
	"binom": true, "genfrac": true,
	"sqrt": true,
	"left": true, "right": true,
	"begin": true, "end": true,
	"text": true, "mbox": true,
	"mathbf": true, "mathit": true, "mathrm": true, "mathcal": true,
	"mathbb": true, "mathfrak": true, "mathsf": true, "mathtt": true,
	"boldsymbol": true,
	"color": true, "textcolor": true,
	"displaystyle": true, "textstyle": true,
	"scriptstyle": true, "scriptscriptstyle": true,
	"limits": true, "nolimits": true,
	"hline": true, "hdashline": true, "cr": true,
	"hat": true, "check": true, "breve": true, "acute": true,
	"grave": true, "tilde": true, "bar": true, "vec": true,
	"dot": true, "ddot": true,
	"overline": true, "underline": true,
	"overbrace": true, "underbrace": true,
	"overset": true, "underset": true, "stackrel": true,
	"substack": true,
	"boxed": true, "phantom": true, "hphantom": true, "vphantom": true,
	"rule": true,
	"not": true,
	"def": true, "newcommand": true, "renewcommand": true,
	"quad": true, "qquad": true,
	",": true, ";": true, ":": true, "!": true,
	"\\": true,
}

// IsBuiltin reports whether name is a known built-in control sequence
// (either a symbol or a structural command). Spec.md §4.3 forbids
// redefining a built-in at global scope.
func IsBuiltin(name string) bool {
	if _, ok := symbolTable[name]; ok {
		return true
	}
	return structuralNames[name]
}

// LookupSymbol returns the built-in symbol entry for name, if any.
func LookupSymbol(name string) (Symbol, bool) {
	s, ok := symbolTable[name]
	return s, ok
}

// IsStructural reports whether name is a structural built-in.
func IsStructural(name string) bool {
	return structuralNames[name]
}
