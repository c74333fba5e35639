package units

import (
	"errors"
	"fmt"
	"sync"
)

// Sentinel errors callers branch on.
var (
	ErrExponentRange     = errors.New("dimension exponent out of range")
	ErrDimensionMismatch = errors.New("dimensions do not match")
	ErrMagnitudeRange    = errors.New("magnitude out of range")
)

// Magnitudes cover the full prefix ladder with room for combined units.
const (
	MinMagnitude = -128
	MaxMagnitude = 127
)

// UnitType is a dimension vector plus a power-of-ten magnitude offset
// relative to the coherent SI unit of that dimension. Pure value type;
// two UnitTypes are dimensionally equal iff their vectors are equal,
// irrespective of magnitude.
type UnitType struct {
	Dim       DimensionVector
	Magnitude int16
}

// Make builds a UnitType from an already validated vector.
func Make(dim DimensionVector, magnitude int16) UnitType {
	return UnitType{Dim: dim, Magnitude: magnitude}
}

// Dimensionless returns the unit type of a bare scale factor.
func Dimensionless(magnitude int16) UnitType {
	return UnitType{Magnitude: magnitude}
}

// Mul multiplies two unit types: exponents summed, magnitudes summed.
func (u UnitType) Mul(other UnitType) (UnitType, error) {
	dim, err := u.Dim.mul(other.Dim)
	if err != nil {
		return UnitType{}, err
	}
	mag, err := combineMagnitude(int(u.Magnitude) + int(other.Magnitude))
	if err != nil {
		return UnitType{}, err
	}
	return UnitType{Dim: dim, Magnitude: mag}, nil
}

// Div divides two unit types: exponents subtracted, magnitudes subtracted.
func (u UnitType) Div(other UnitType) (UnitType, error) {
	dim, err := u.Dim.div(other.Dim)
	if err != nil {
		return UnitType{}, err
	}
	mag, err := combineMagnitude(int(u.Magnitude) - int(other.Magnitude))
	if err != nil {
		return UnitType{}, err
	}
	return UnitType{Dim: dim, Magnitude: mag}, nil
}

// Pow raises a unit type to a statically known integer power.
// Rejecting non-constant and non-integer exponents is the caller's job;
// here n is already an int by construction.
func (u UnitType) Pow(n int) (UnitType, error) {
	dim, err := u.Dim.pow(n)
	if err != nil {
		return UnitType{}, err
	}
	mag, err := combineMagnitude(int(u.Magnitude) * n)
	if err != nil {
		return UnitType{}, err
	}
	return UnitType{Dim: dim, Magnitude: mag}, nil
}

// DimensionallyEqual ignores magnitude: mV and V compare equal.
func (u UnitType) DimensionallyEqual(other UnitType) bool {
	return u.Dim == other.Dim
}

func combineMagnitude(mag int) (int16, error) {
	if mag < MinMagnitude || mag > MaxMagnitude {
		return 0, fmt.Errorf("%w: 10^%d", ErrMagnitudeRange, mag)
	}
	return int16(mag), nil
}

// String renders the unit for diagnostics, e.g. "10^-3*m^2*kg*s^-3*A^-1".
// Registry.NameFor gives the nicer symbolic form when one exists.
func (u UnitType) String() string {
	if u.Magnitude == 0 {
		return u.Dim.String()
	}
	return fmt.Sprintf("10^%d*%s", u.Magnitude, u.Dim.String())
}

// sigCache memoizes canonical signatures per distinct UnitType value.
// UnitType is comparable, so the value itself is the key; safe for
// concurrent readers checking independent models.
var sigCache sync.Map // UnitType -> string

// Signature returns the canonical, identifier-safe encoding of the
// exponent vector and magnitude. Lazily computed, cached process-wide.
func (u UnitType) Signature() string {
	if v, ok := sigCache.Load(u); ok {
		return v.(string)
	}
	s := encodeSignature(u)
	sigCache.Store(u, s)
	return s
}
