package units

import (
	"fmt"
	"strconv"
	"strings"
)

// Canonical signature format: "U" + the seven exponents joined by "_",
// then "__" and the magnitude. Negative values spell the sign as "n" so
// the whole string stays a legal identifier in generated code:
//
//	mV -> U2_1_n3_n1_0_0_0__n3
//
// The encoding is a pure function of the numeric fields; code generation
// uses it verbatim as the generated numeric-type name and the checker
// uses it as a map key.
func encodeSignature(u UnitType) string {
	var b strings.Builder
	b.WriteByte('U')
	for i, e := range u.Dim {
		if i > 0 {
			b.WriteByte('_')
		}
		writeSigInt(&b, int(e))
	}
	b.WriteString("__")
	writeSigInt(&b, int(u.Magnitude))
	return b.String()
}

func writeSigInt(b *strings.Builder, v int) {
	if v < 0 {
		b.WriteByte('n')
		v = -v
	}
	b.WriteString(strconv.Itoa(v))
}

// ParseSignature is the inverse of Signature. It accepts exactly the
// strings Signature produces.
func ParseSignature(sig string) (UnitType, error) {
	rest, ok := strings.CutPrefix(sig, "U")
	if !ok {
		return UnitType{}, fmt.Errorf("malformed unit signature %q: missing U prefix", sig)
	}
	vec, magPart, ok := strings.Cut(rest, "__")
	if !ok {
		return UnitType{}, fmt.Errorf("malformed unit signature %q: missing magnitude", sig)
	}

	parts := strings.Split(vec, "_")
	if len(parts) != int(dimCount) {
		return UnitType{}, fmt.Errorf("malformed unit signature %q: expected %d exponents, got %d", sig, dimCount, len(parts))
	}

	var exps [7]int8
	for i, p := range parts {
		v, err := parseSigInt(p)
		if err != nil {
			return UnitType{}, fmt.Errorf("malformed unit signature %q: %w", sig, err)
		}
		if v < MinExponent || v > MaxExponent {
			return UnitType{}, fmt.Errorf("%w: %s^%d in signature %q", ErrExponentRange, Dim(i), v, sig)
		}
		exps[i] = int8(v)
	}

	mag, err := parseSigInt(magPart)
	if err != nil {
		return UnitType{}, fmt.Errorf("malformed unit signature %q: %w", sig, err)
	}
	m, err := combineMagnitude(mag)
	if err != nil {
		return UnitType{}, fmt.Errorf("malformed unit signature %q: %w", sig, err)
	}

	dv, err := NewDimensionVector(exps)
	if err != nil {
		return UnitType{}, err
	}
	return UnitType{Dim: dv, Magnitude: m}, nil
}

func parseSigInt(s string) (int, error) {
	neg := false
	if rest, ok := strings.CutPrefix(s, "n"); ok {
		neg = true
		s = rest
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("bad signature component %q", s)
	}
	if neg {
		v = -v
	}
	return v, nil
}
