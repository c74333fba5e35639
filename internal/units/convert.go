package units

import (
	"fmt"
	"math"
)

// ConversionFactor computes the scale factor between two representations
// of the same physical dimension:
//
//	value_in_target = value_in_actual * ConversionFactor(actual, target)
//
// Defined only for dimensionally equal types; mV against V yields 0.001.
func ConversionFactor(actual, target UnitType) (float64, error) {
	if !actual.DimensionallyEqual(target) {
		return 0, fmt.Errorf("%w: %s vs %s", ErrDimensionMismatch, actual.Dim, target.Dim)
	}
	return math.Pow(10, float64(actual.Magnitude)-float64(target.Magnitude)), nil
}
