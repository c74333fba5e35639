package units

import (
	"errors"
	"math"
	"testing"
)

func TestConversionFactor(t *testing.T) {
	mv := mustUnit(t, "mV")
	v := mustUnit(t, "V")

	got, err := ConversionFactor(mv, v)
	if err != nil {
		t.Fatalf("mV->V: %v", err)
	}
	if math.Abs(got-0.001) > 1e-12 {
		t.Fatalf("mV->V: expected 0.001, got %g", got)
	}

	got, err = ConversionFactor(v, mv)
	if err != nil {
		t.Fatalf("V->mV: %v", err)
	}
	if math.Abs(got-1000) > 1e-9 {
		t.Fatalf("V->mV: expected 1000, got %g", got)
	}
}

func TestConversionFactorIdentity(t *testing.T) {
	for _, s := range []string{"mV", "pF", "Ohm", "s", "kg"} {
		u := mustUnit(t, s)
		got, err := ConversionFactor(u, u)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		if got != 1 {
			t.Fatalf("%s: expected 1, got %g", s, got)
		}
	}
}

func TestConversionFactorRequiresSameDimension(t *testing.T) {
	mv := mustUnit(t, "mV")
	pa := mustUnit(t, "pA")
	if _, err := ConversionFactor(mv, pa); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestRegistryConversionFactor(t *testing.T) {
	r := Default()
	// voltage target is mV: a V-typed constant scales by 1000,
	// so "70mV" and "0.07V" agree internally.
	v := mustUnit(t, "V")
	mv := mustUnit(t, "mV")
	if got := 0.07 * r.ConversionFactor(v); math.Abs(got-70) > 1e-9 {
		t.Fatalf("0.07V: expected 70 internal, got %g", got)
	}
	if got := 70 * r.ConversionFactor(mv); math.Abs(got-70) > 1e-9 {
		t.Fatalf("70mV: expected 70 internal, got %g", got)
	}
}
