package tokenizer

import (
	"testing"

	"github.com/texlayout/texmath/texerr"
)

func TestStackPushPopBalanced(t *testing.T) {
	st := NewStack()
	if st.Depth() != 0 {
		t.Fatalf("fresh stack depth = %d, want 0", st.Depth())
	}
	st.Push(ExplicitBrace, "")
	st.Push(EnvironmentScope, "pmatrix")
	if st.Depth() != 2 {
		t.Fatalf("depth after two pushes = %d, want 2", st.Depth())
	}
	if top := st.Top(); top.Kind != EnvironmentScope || top.Name != "pmatrix" {
		t.Fatalf("Top() = %+v, want EnvironmentScope pmatrix", top)
	}
	if _, err := st.Pop(EnvironmentScope, "pmatrix", true); err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if _, err := st.Pop(ExplicitBrace, "", true); err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if st.Depth() != 0 {
		t.Fatalf("depth after popping both = %d, want 0", st.Depth())
	}
}

func TestStackPopBelowZeroIsUnmatchedClose(t *testing.T) {
	st := NewStack()
	_, err := st.Pop(ImplicitBrace, "", false)
	terr, ok := err.(*texerr.Error)
	if !ok || terr.Kind != texerr.UnmatchedClose {
		t.Fatalf("Pop on empty stack = %v, want UnmatchedClose", err)
	}
}

func TestStackPopMismatchedKind(t *testing.T) {
	st := NewStack()
	st.Push(LeftRight, "")
	_, err := st.Pop(EnvironmentScope, "align", true)
	terr, ok := err.(*texerr.Error)
	if !ok || terr.Kind != texerr.MismatchedGroup {
		t.Fatalf("Pop with wrong kind = %v, want MismatchedGroup", err)
	}
}

func TestMacroScopeHygiene(t *testing.T) {
	st := NewStack()
	st.DefineMacro("outer", &MacroDef{Body: "outer-body"})

	st.Push(ExplicitBrace, "")
	st.DefineMacro("inner", &MacroDef{Body: "inner-body"})
	if st.LookupMacro("inner") == nil {
		t.Fatal("inner macro should resolve inside the group that defines it")
	}
	if st.LookupMacro("outer") == nil {
		t.Fatal("outer macro should still resolve from inside a nested group")
	}
	st.Pop(ExplicitBrace, "", true)

	if st.LookupMacro("inner") != nil {
		t.Fatal("inner macro must be unresolvable once its defining group has closed")
	}
	if st.LookupMacro("outer") == nil {
		t.Fatal("outer macro should still resolve after the nested group closes")
	}
}

func TestScopeInheritsStyleFromParent(t *testing.T) {
	st := NewStack()
	st.Top().Style.FontVariant = "bold"
	st.Top().AllowSuffixModifiers = false

	child := st.Push(ImplicitBrace, "")
	if child.Style.FontVariant != "bold" {
		t.Errorf("child did not inherit FontVariant, got %q", child.Style.FontVariant)
	}
	if child.AllowSuffixModifiers {
		t.Error("child did not inherit AllowSuffixModifiers = false")
	}

	child.Style.FontVariant = "italic"
	if st.frames[0].Style.FontVariant != "bold" {
		t.Error("mutating the child scope's style must not affect the parent")
	}
}

func TestStackFramesInnermostFirst(t *testing.T) {
	st := NewStack()
	st.Push(EnvironmentScope, "matrix")
	st.Push(LeftRight, "")
	frames := st.Frames()
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if frames[0].Kind != texerr.FrameLeftRight {
		t.Errorf("innermost frame kind = %v, want FrameLeftRight", frames[0].Kind)
	}
	if frames[1].Kind != texerr.FrameEnvironment || frames[1].Name != "matrix" {
		t.Errorf("outer frame = %+v, want environment matrix", frames[1])
	}
}
