package ast

import (
	"testing"

	"nestml/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 0, Start: start, End: end}
}

// buildTree constructs (a + b) * f(2, c ? 1 : 0).
func buildTree() (root, a, call, ternary *Expr) {
	a = NewVarRef(sp(1, 2), "a")
	b := NewVarRef(sp(5, 6), "b")
	sum := NewBinary(sp(0, 7), OpAdd, a, b)

	ternary = NewTernary(sp(15, 24), NewVarRef(sp(15, 16), "c"),
		NewIntLiteral(sp(19, 20), 1), NewIntLiteral(sp(23, 24), 0))
	call = NewCall(sp(10, 25), "f", NewIntLiteral(sp(12, 13), 2), ternary)

	root = NewBinary(sp(0, 25), OpMul, sum, call)
	return root, a, call, ternary
}

func TestFindAllPreOrder(t *testing.T) {
	root, _, _, _ := buildTree()
	refs := FindAll(root, KindIs(ExprVarRef))
	if len(refs) != 3 {
		t.Fatalf("expected 3 varrefs, got %d", len(refs))
	}
	names := []string{refs[0].Name, refs[1].Name, refs[2].Name}
	if names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Fatalf("pre-order violated: %v", names)
	}
}

func TestFindAllEager(t *testing.T) {
	root, _, _, _ := buildTree()
	lits := FindAll(root, KindIs(ExprLiteral))
	if len(lits) != 3 {
		t.Fatalf("expected 3 literals, got %d", len(lits))
	}
}

func TestFindFirstShortCircuits(t *testing.T) {
	root, _, call, _ := buildTree()
	got, ok := FindFirst(root, KindIs(ExprCall))
	if !ok || got != call {
		t.Fatalf("expected the call node, got %v", got)
	}
	if _, ok := FindFirst(root, func(e *Expr) bool { return e.Name == "zzz" }); ok {
		t.Fatalf("no node should match")
	}
}

func TestFindParent(t *testing.T) {
	root, a, call, ternary := buildTree()

	parent, ok := FindParent(a, root)
	if !ok || parent.Kind != ExprBinary || parent.Binary != OpAdd {
		t.Fatalf("parent of a must be the + node, got %v", parent)
	}

	parent, ok = FindParent(ternary, root)
	if !ok || parent != call {
		t.Fatalf("parent of the ternary must be the call")
	}

	if _, ok := FindParent(root, root); ok {
		t.Fatalf("root has no parent")
	}

	stray := NewVarRef(sp(0, 1), "stray")
	if _, ok := FindParent(stray, root); ok {
		t.Fatalf("detached node has no parent in this tree")
	}
}
