package sema

import (
	"testing"

	"nestml/internal/ast"
	"nestml/internal/types"
	"nestml/internal/units"
)

func TestResolvePrimitiveTypes(t *testing.T) {
	cases := []struct {
		prim ast.Primitive
		want types.Kind
	}{
		{ast.PrimInteger, types.KindInteger},
		{ast.PrimReal, types.KindReal},
		{ast.PrimBoolean, types.KindBoolean},
		{ast.PrimString, types.KindString},
		{ast.PrimVoid, types.KindVoid},
	}
	for _, tc := range cases {
		h := newHarness()
		got := ResolveType(ast.NewPrimitiveType(sp(0, 4), tc.prim), h.opts())
		if got.Kind != tc.want {
			t.Fatalf("%v: expected %s, got %s", tc.prim, tc.want, got)
		}
		if h.bag.Len() != 0 {
			t.Fatalf("%v: unexpected diagnostics %v", tc.prim, h.bag.Items())
		}
	}
}

func TestResolveNilDefaultsToReal(t *testing.T) {
	h := newHarness()
	if got := ResolveType(nil, h.opts()); got.Kind != types.KindReal {
		t.Fatalf("expected real, got %s", got)
	}
}

func TestResolveUnitSymbol(t *testing.T) {
	h := newHarness()
	got := ResolveType(ast.NewUnitSymbolType(sp(0, 2), "pF"), h.opts())
	if !got.SameSignature(unitType(t, "pF")) {
		t.Fatalf("expected Unit(pF), got %s", got)
	}
}

func TestResolveUnrecognizedSymbol(t *testing.T) {
	h := newHarness()
	got := ResolveType(ast.NewUnitSymbolType(sp(0, 3), "foo"), h.opts())
	if h.errors() != 1 {
		t.Fatalf("expected one error, got %v", h.bag.Items())
	}
	h.mustMessage(t, "unit foo is not a recognized SI unit")
	if got.Kind != types.KindReal {
		t.Fatalf("recovery type must be real, got %s", got)
	}
}

// pF*mV/ms is charge over time, i.e. a current at picoampere scale.
func TestResolveCompoundType(t *testing.T) {
	h := newHarness()
	te := ast.NewDivType(sp(0, 8),
		ast.NewMulType(sp(0, 5),
			ast.NewUnitSymbolType(sp(0, 2), "pF"),
			ast.NewUnitSymbolType(sp(3, 5), "mV")),
		ast.NewUnitSymbolType(sp(6, 8), "ms"))

	got := ResolveType(te, h.opts())
	if h.bag.Len() != 0 {
		t.Fatalf("expected clean, got %v", h.bag.Items())
	}
	if !got.IsUnit() {
		t.Fatalf("expected a unit, got %s", got)
	}
	amp, _ := units.Default().Lookup("A")
	if !got.Unit.DimensionallyEqual(amp) {
		t.Fatalf("expected the dimension of current, got %s", got.Unit)
	}
	// 10^-12 * 10^-3 / 10^-3
	if got.Unit.Magnitude != -12 {
		t.Fatalf("expected magnitude -12, got %d", got.Unit.Magnitude)
	}
}

func TestResolvePowType(t *testing.T) {
	h := newHarness()
	te := ast.NewPowType(sp(0, 5), ast.NewUnitSymbolType(sp(0, 2), "mV"), 2)
	got := ResolveType(te, h.opts())
	if h.bag.Len() != 0 {
		t.Fatalf("expected clean, got %v", h.bag.Items())
	}
	want, _ := unitType(t, "mV").Unit.Pow(2)
	if !got.IsUnit() || got.Unit != want {
		t.Fatalf("expected mV**2, got %s", got)
	}
}

func TestResolvePowOverflow(t *testing.T) {
	h := newHarness()
	te := ast.NewPowType(sp(0, 6), ast.NewUnitSymbolType(sp(0, 2), "mV"), 5)
	got := ResolveType(te, h.opts())
	if h.errors() != 1 {
		t.Fatalf("expected one overflow error, got %v", h.bag.Items())
	}
	if !got.SameSignature(unitType(t, "mV")) {
		t.Fatalf("recovery keeps the base, got %s", got)
	}
}

func TestResolveBadOperandRecoversQuietly(t *testing.T) {
	h := newHarness()
	// the bad symbol reports once; the enclosing division must not pile on
	te := ast.NewDivType(sp(0, 6),
		ast.NewUnitSymbolType(sp(0, 3), "foo"),
		ast.NewUnitSymbolType(sp(4, 6), "ms"))
	got := ResolveType(te, h.opts())
	if h.errors() != 1 {
		t.Fatalf("expected exactly one error, got %v", h.bag.Items())
	}
	if got.Kind != types.KindReal {
		t.Fatalf("expected real recovery, got %s", got)
	}
}
