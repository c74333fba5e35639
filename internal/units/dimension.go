package units

import (
	"fmt"
	"strings"
)

// Dim indexes the seven SI base dimensions.
type Dim uint8

const (
	DimLength Dim = iota
	DimMass
	DimTime
	DimCurrent
	DimTemperature
	DimAmount
	DimLuminosity

	dimCount
)

func (d Dim) String() string {
	switch d {
	case DimLength:
		return "length"
	case DimMass:
		return "mass"
	case DimTime:
		return "time"
	case DimCurrent:
		return "current"
	case DimTemperature:
		return "temperature"
	case DimAmount:
		return "amount"
	case DimLuminosity:
		return "luminosity"
	default:
		return fmt.Sprintf("Dim(%d)", uint8(d))
	}
}

// Exponents are kept in a narrow band: anything a physical model can
// legitimately describe fits well inside it, and the band turns runaway
// algebra (e.g. repeated squaring) into a reportable error instead of a
// silent wrap.
const (
	MinExponent = -7
	MaxExponent = 7
)

// DimensionVector is an immutable exponent tuple over the SI base
// dimensions. The zero value is dimensionless.
type DimensionVector [dimCount]int8

// NewDimensionVector validates the exponent range on construction.
func NewDimensionVector(exps [7]int8) (DimensionVector, error) {
	var dv DimensionVector
	for i, e := range exps {
		if e < MinExponent || e > MaxExponent {
			return DimensionVector{}, fmt.Errorf("%w: %s^%d", ErrExponentRange, Dim(i), e)
		}
		dv[i] = e
	}
	return dv, nil
}

// mustDim is for the fixed catalog only; the entries are compile-time data.
func mustDim(length, mass, time, current, temperature, amount, luminosity int8) DimensionVector {
	dv, err := NewDimensionVector([7]int8{length, mass, time, current, temperature, amount, luminosity})
	if err != nil {
		panic(fmt.Errorf("unreachable: catalog dimension out of range: %w", err))
	}
	return dv
}

// Exponent returns the exponent of one base dimension.
func (dv DimensionVector) Exponent(d Dim) int8 {
	return dv[d]
}

// IsDimensionless reports whether every exponent is zero.
func (dv DimensionVector) IsDimensionless() bool {
	return dv == DimensionVector{}
}

// mul combines exponents component-wise, checking the band.
func (dv DimensionVector) mul(other DimensionVector) (DimensionVector, error) {
	var out DimensionVector
	for i := range dv {
		e := int(dv[i]) + int(other[i])
		if e < MinExponent || e > MaxExponent {
			return DimensionVector{}, fmt.Errorf("%w: %s^%d", ErrExponentRange, Dim(i), e)
		}
		out[i] = int8(e)
	}
	return out, nil
}

func (dv DimensionVector) div(other DimensionVector) (DimensionVector, error) {
	var out DimensionVector
	for i := range dv {
		e := int(dv[i]) - int(other[i])
		if e < MinExponent || e > MaxExponent {
			return DimensionVector{}, fmt.Errorf("%w: %s^%d", ErrExponentRange, Dim(i), e)
		}
		out[i] = int8(e)
	}
	return out, nil
}

func (dv DimensionVector) pow(n int) (DimensionVector, error) {
	var out DimensionVector
	for i := range dv {
		e := int(dv[i]) * n
		if e < MinExponent || e > MaxExponent {
			return DimensionVector{}, fmt.Errorf("%w: %s^%d", ErrExponentRange, Dim(i), e)
		}
		out[i] = int8(e)
	}
	return out, nil
}

var dimSymbol = [dimCount]string{"m", "kg", "s", "A", "K", "mol", "cd"}

// String renders the vector as a product of base-unit powers, e.g.
// "m^2*kg*s^-3*A^-1". Dimensionless vectors render as "1".
func (dv DimensionVector) String() string {
	var b strings.Builder
	for i, e := range dv {
		if e == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('*')
		}
		b.WriteString(dimSymbol[i])
		if e != 1 {
			fmt.Fprintf(&b, "^%d", e)
		}
	}
	if b.Len() == 0 {
		return "1"
	}
	return b.String()
}
