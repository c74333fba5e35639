package units

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// siPrefixes maps prefix symbols to their decimal exponents. Spans the
// full standard ladder, -24..+24.
var siPrefixes = map[string]int16{
	"y":  -24,
	"z":  -21,
	"a":  -18,
	"f":  -15,
	"p":  -12,
	"n":  -9,
	"u":  -6,
	"m":  -3,
	"c":  -2,
	"d":  -1,
	"da": 1,
	"h":  2,
	"k":  3,
	"M":  6,
	"G":  9,
	"T":  12,
	"P":  15,
	"E":  18,
	"Z":  21,
	"Y":  24,
}

// PrefixExponent resolves a prefix symbol, "" meaning no prefix.
func PrefixExponent(prefix string) (int16, bool) {
	if prefix == "" {
		return 0, true
	}
	exp, ok := siPrefixes[prefix]
	return exp, ok
}

// NormalizeSymbol folds the two unicode micro signs (U+00B5 MICRO SIGN
// and U+03BC GREEK SMALL LETTER MU) into the ASCII "u" spelling the
// catalog uses. NFKC maps the micro sign to the Greek mu first, so both
// source spellings of "µV" land on "uV".
func NormalizeSymbol(symbol string) string {
	if !strings.ContainsAny(symbol, "µμ") {
		return symbol
	}
	symbol = norm.NFKC.String(symbol)
	return strings.ReplaceAll(symbol, "μ", "u")
}
