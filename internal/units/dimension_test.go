package units

import (
	"errors"
	"testing"
)

func mustUnit(t *testing.T, symbol string) UnitType {
	t.Helper()
	u, ok := Default().Lookup(symbol)
	if !ok {
		t.Fatalf("symbol %q missing from registry", symbol)
	}
	return u
}

func TestNewDimensionVectorRange(t *testing.T) {
	if _, err := NewDimensionVector([7]int8{7, -7, 0, 0, 0, 0, 0}); err != nil {
		t.Fatalf("band edges must be legal: %v", err)
	}
	if _, err := NewDimensionVector([7]int8{0, 0, 0, 0, 0, 0, 8}); !errors.Is(err, ErrExponentRange) {
		t.Fatalf("expected ErrExponentRange, got %v", err)
	}
}

func TestMulDivInverse(t *testing.T) {
	// divide(multiply(a,b), b) == a, across a spread of catalog units
	symbols := []string{"V", "mV", "pF", "Ohm", "nS", "ms", "Hz", "kg", "J"}
	for _, sa := range symbols {
		for _, sb := range symbols {
			a := mustUnit(t, sa)
			b := mustUnit(t, sb)
			prod, err := a.Mul(b)
			if err != nil {
				continue // exponent band exceeded, nothing to invert
			}
			back, err := prod.Div(b)
			if err != nil {
				t.Fatalf("(%s*%s)/%s: %v", sa, sb, sb, err)
			}
			if back != a {
				t.Fatalf("(%s*%s)/%s: expected %v, got %v", sa, sb, sb, a, back)
			}
		}
	}
}

func TestMulOverflow(t *testing.T) {
	big, err := NewDimensionVector([7]int8{7, 0, 0, 0, 0, 0, 0})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	u := UnitType{Dim: big}
	if _, err := u.Mul(u); !errors.Is(err, ErrExponentRange) {
		t.Fatalf("expected ErrExponentRange, got %v", err)
	}
}

func TestPow(t *testing.T) {
	v := mustUnit(t, "mV")
	sq, err := v.Pow(2)
	if err != nil {
		t.Fatalf("mV**2: %v", err)
	}
	if sq.Dim.Exponent(DimLength) != 4 || sq.Dim.Exponent(DimCurrent) != -2 {
		t.Fatalf("unexpected squared dimensions: %v", sq.Dim)
	}
	if sq.Magnitude != -6 {
		t.Fatalf("expected magnitude -6, got %d", sq.Magnitude)
	}

	inv, err := v.Pow(-1)
	if err != nil {
		t.Fatalf("mV**-1: %v", err)
	}
	if got, want := inv.Dim.Exponent(DimCurrent), int8(1); got != want {
		t.Fatalf("expected current exponent %d, got %d", want, got)
	}

	if _, err := v.Pow(5); !errors.Is(err, ErrExponentRange) {
		t.Fatalf("mV**5 must overflow the band, got %v", err)
	}
}

func TestDimensionallyEqualIsEquivalence(t *testing.T) {
	mv := mustUnit(t, "mV")
	v := mustUnit(t, "V")
	kv := mustUnit(t, "kV")
	ohm := mustUnit(t, "Ohm")

	// reflexive
	if !mv.DimensionallyEqual(mv) {
		t.Fatalf("reflexivity violated")
	}
	// symmetric
	if !mv.DimensionallyEqual(v) || !v.DimensionallyEqual(mv) {
		t.Fatalf("symmetry violated")
	}
	// transitive
	if !mv.DimensionallyEqual(v) || !v.DimensionallyEqual(kv) || !mv.DimensionallyEqual(kv) {
		t.Fatalf("transitivity violated")
	}
	if mv.DimensionallyEqual(ohm) {
		t.Fatalf("mV and Ohm must differ")
	}
}

func TestDimensionVectorString(t *testing.T) {
	v := mustUnit(t, "V")
	if got, want := v.Dim.String(), "m^2*kg*s^-3*A^-1"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	var dimless DimensionVector
	if dimless.String() != "1" {
		t.Fatalf("dimensionless must render as 1")
	}
}
