package units

import (
	"fmt"
	"strconv"
)

// SplitLiteral splits the surface form of a unit literal, a numeric
// literal immediately followed by a unit symbol: "70mV" -> (70, "mV").
// The numeric half follows Go float syntax (fraction and decimal
// exponent); the symbol half is everything after it and must be
// non-empty. Symbol validity is the registry's concern, not ours.
func SplitLiteral(lit string) (value float64, symbol string, err error) {
	i := 0
	digits := func() int {
		n := 0
		for i < len(lit) && lit[i] >= '0' && lit[i] <= '9' {
			i++
			n++
		}
		return n
	}

	intDigits := digits()
	fracDigits := 0
	if i < len(lit) && lit[i] == '.' {
		i++
		fracDigits = digits()
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0, "", fmt.Errorf("unit literal %q has no numeric part", lit)
	}

	// an exponent needs digits after the e; a bare "E" here is the exa
	// prefix starting the unit symbol, as in "2EV"
	if i < len(lit) && (lit[i] == 'e' || lit[i] == 'E') {
		j := i + 1
		if j < len(lit) && (lit[j] == '+' || lit[j] == '-') {
			j++
		}
		if j < len(lit) && lit[j] >= '0' && lit[j] <= '9' {
			i = j
			digits()
		}
	}

	if i == len(lit) {
		return 0, "", fmt.Errorf("unit literal %q has no unit symbol", lit)
	}

	value, err = strconv.ParseFloat(lit[:i], 64)
	if err != nil {
		return 0, "", fmt.Errorf("unit literal %q: %w", lit, err)
	}
	return value, lit[i:], nil
}
