package units

import (
	"testing"
)

func TestIsValidSIUnitCatalog(t *testing.T) {
	r := Default()
	valid := []string{
		"mV", "pF", "ms", "nS", "Ohm", "pA", "V", "A", "kg", "g",
		"MOhm", "GOhm", "uS", "Hz", "kHz", "mol", "mmol", "cd", "Pa",
		"kPa", "T", "mT", "dam", "kat", "lx", "Sv",
	}
	for _, s := range valid {
		if !r.IsValidSIUnit(s) {
			t.Fatalf("expected %q to be a valid SI unit", s)
		}
	}

	invalid := []string{"foo", "V2", "", "2V", "mVs", "xV", "Ohmm", "kgk"}
	for _, s := range invalid {
		if r.IsValidSIUnit(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestLookupAgreesWithIsValid(t *testing.T) {
	r := Default()
	for _, s := range []string{"mV", "pF", "nonsense", "daN", "yV", "YV"} {
		_, ok := r.Lookup(s)
		if ok != r.IsValidSIUnit(s) {
			t.Fatalf("Lookup and IsValidSIUnit disagree on %q", s)
		}
	}
}

func TestLookupMagnitudes(t *testing.T) {
	r := Default()
	cases := []struct {
		symbol string
		mag    int16
	}{
		{"V", 0},
		{"mV", -3},
		{"uV", -6},
		{"kV", 3},
		{"pF", -12},
		{"kg", 0},  // kilo + gram(-3)
		{"g", -3},  // gram itself sits below the coherent unit
		{"ug", -9},
		{"ms", -3},
		{"GOhm", 9},
	}
	for _, tc := range cases {
		u, ok := r.Lookup(tc.symbol)
		if !ok {
			t.Fatalf("symbol %q missing", tc.symbol)
		}
		if u.Magnitude != tc.mag {
			t.Fatalf("%s: expected magnitude %d, got %d", tc.symbol, tc.mag, u.Magnitude)
		}
	}
}

func TestFullNameBeatsPrefixReading(t *testing.T) {
	r := Default()
	// "Pa" is pascal, not peta-year; "T" is tesla, not a bare prefix.
	pa, _ := r.Lookup("Pa")
	if pa.Dim.Exponent(DimMass) != 1 || pa.Dim.Exponent(DimLength) != -1 {
		t.Fatalf("Pa resolved to something other than pascal: %v", pa)
	}
	tesla, ok := r.Lookup("T")
	if !ok || tesla.Dim.Exponent(DimCurrent) != -1 {
		t.Fatalf("T resolved to something other than tesla: %v", tesla)
	}
}

func TestMicroSignNormalization(t *testing.T) {
	r := Default()
	ascii, _ := r.Lookup("uV")
	for _, spelled := range []string{"µV", "μV"} {
		u, ok := r.Lookup(spelled)
		if !ok {
			t.Fatalf("micro spelling %q not recognized", spelled)
		}
		if u != ascii {
			t.Fatalf("micro spelling %q resolved differently: %v vs %v", spelled, u, ascii)
		}
	}
	if !r.IsValidSIUnit("µS") {
		t.Fatalf("µS must validate")
	}
}

func TestNameFor(t *testing.T) {
	r := Default()
	mv, _ := r.Lookup("mV")
	if got := r.NameFor(mv); got != "mV" {
		t.Fatalf("expected mV, got %q", got)
	}
	// no catalog symbol: falls back to the raw rendering
	odd, err := mv.Mul(mv)
	if err != nil {
		t.Fatalf("mV*mV: %v", err)
	}
	if got := r.NameFor(odd); got == "" || got == "mV" {
		t.Fatalf("fallback name missing for %v: %q", odd, got)
	}
}

func TestCanonicalTargets(t *testing.T) {
	r := Default()
	mv, _ := r.Lookup("mV")
	target := r.CanonicalTarget(mv.Dim)
	if target.Magnitude != -3 {
		t.Fatalf("voltage target must be mV, got magnitude %d", target.Magnitude)
	}

	// unconfigured dimension falls back to the coherent magnitude
	k, _ := r.Lookup("K")
	if got := r.CanonicalTarget(k.Dim).Magnitude; got != 0 {
		t.Fatalf("temperature target must default to 0, got %d", got)
	}
}

func TestNewRejectsBadTargets(t *testing.T) {
	if _, err := New(Targets{"voltage": "bogus"}); err == nil {
		t.Fatalf("expected error for unknown target symbol")
	}
	if _, err := New(Targets{"voltage": "mV", "potential": "V"}); err == nil {
		t.Fatalf("expected error for duplicate dimension targets")
	}
}

func TestCatalogDeterministic(t *testing.T) {
	r := Default()
	a := r.Catalog()
	b := r.Catalog()
	if len(a) == 0 || len(a) != len(b) {
		t.Fatalf("catalog must be non-empty and stable")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("catalog order unstable at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestSignatureRoundTrip(t *testing.T) {
	r := Default()
	for _, s := range []string{"mV", "pF", "Ohm", "nS", "ms", "kg", "Hz"} {
		u, _ := r.Lookup(s)
		sig := u.Signature()
		back, err := r.ResolveSignature(sig)
		if err != nil {
			t.Fatalf("%s: resolve %q: %v", s, sig, err)
		}
		if back != u {
			t.Fatalf("%s: round trip changed %v into %v", s, u, back)
		}
	}
}

func TestSignatureFormat(t *testing.T) {
	mv := mustUnit(t, "mV")
	if got, want := mv.Signature(), "U2_1_n3_n1_0_0_0__n3"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if _, err := ParseSignature("U1_2_3"); err == nil {
		t.Fatalf("short signature must be rejected")
	}
	if _, err := ParseSignature("X0_0_0_0_0_0_0__0"); err == nil {
		t.Fatalf("wrong sigil must be rejected")
	}
}
