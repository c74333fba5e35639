package units

import (
	"fmt"
	"sort"
	"sync"
)

// Entry is one resolvable unit symbol.
type Entry struct {
	Symbol string
	Name   string
	Unit   UnitType
}

// catalogRow describes an unprefixed base or derived unit.
type catalogRow struct {
	symbol    string
	name      string
	dim       DimensionVector
	magnitude int16
}

// The fixed SI catalog. Gram carries magnitude -3 so the prefixed
// kilogram stays the coherent unit of mass.
var siCatalog = []catalogRow{
	{"m", "metre", mustDim(1, 0, 0, 0, 0, 0, 0), 0},
	{"g", "gram", mustDim(0, 1, 0, 0, 0, 0, 0), -3},
	{"s", "second", mustDim(0, 0, 1, 0, 0, 0, 0), 0},
	{"A", "ampere", mustDim(0, 0, 0, 1, 0, 0, 0), 0},
	{"K", "kelvin", mustDim(0, 0, 0, 0, 1, 0, 0), 0},
	{"mol", "mole", mustDim(0, 0, 0, 0, 0, 1, 0), 0},
	{"cd", "candela", mustDim(0, 0, 0, 0, 0, 0, 1), 0},

	{"Hz", "hertz", mustDim(0, 0, -1, 0, 0, 0, 0), 0},
	{"N", "newton", mustDim(1, 1, -2, 0, 0, 0, 0), 0},
	{"Pa", "pascal", mustDim(-1, 1, -2, 0, 0, 0, 0), 0},
	{"J", "joule", mustDim(2, 1, -2, 0, 0, 0, 0), 0},
	{"W", "watt", mustDim(2, 1, -3, 0, 0, 0, 0), 0},
	{"C", "coulomb", mustDim(0, 0, 1, 1, 0, 0, 0), 0},
	{"V", "volt", mustDim(2, 1, -3, -1, 0, 0, 0), 0},
	{"F", "farad", mustDim(-2, -1, 4, 2, 0, 0, 0), 0},
	{"Ohm", "ohm", mustDim(2, 1, -3, -2, 0, 0, 0), 0},
	{"S", "siemens", mustDim(-2, -1, 3, 2, 0, 0, 0), 0},
	{"Wb", "weber", mustDim(2, 1, -2, -1, 0, 0, 0), 0},
	{"T", "tesla", mustDim(0, 1, -2, -1, 0, 0, 0), 0},
	{"H", "henry", mustDim(2, 1, -2, -2, 0, 0, 0), 0},
	{"lm", "lumen", mustDim(0, 0, 0, 0, 0, 0, 1), 0},
	{"lx", "lux", mustDim(-2, 0, 0, 0, 0, 0, 1), 0},
	{"Bq", "becquerel", mustDim(0, 0, -1, 0, 0, 0, 0), 0},
	{"Gy", "gray", mustDim(2, 0, -2, 0, 0, 0, 0), 0},
	{"Sv", "sievert", mustDim(2, 0, -2, 0, 0, 0, 0), 0},
	{"kat", "katal", mustDim(0, 0, -1, 0, 0, 1, 0), 0},
}

var siPrefixNames = map[string]string{
	"y": "yocto", "z": "zepto", "a": "atto", "f": "femto", "p": "pico",
	"n": "nano", "u": "micro", "m": "milli", "c": "centi", "d": "deci",
	"da": "deca", "h": "hecto", "k": "kilo", "M": "mega", "G": "giga",
	"T": "tera", "P": "peta", "E": "exa", "Z": "zetta", "Y": "yotta",
}

// Registry is the immutable, process-wide catalog of legal unit symbols.
// Built once; safe for unsynchronized concurrent readers.
type Registry struct {
	bySymbol map[string]Entry
	names    map[UnitType]string          // preferred symbol per unit value
	targets  map[DimensionVector]int16    // canonical magnitude per dimension
	targetBy map[DimensionVector]string   // quantity label, for messages
}

// Targets maps a quantity label to the unit symbol the simulation back
// end represents that dimension in, e.g. {"voltage": "mV"}.
type Targets map[string]string

// DefaultTargets returns the NEST-simulator conventions.
func DefaultTargets() Targets {
	return Targets{
		"voltage":     "mV",
		"time":        "ms",
		"current":     "pA",
		"capacitance": "pF",
		"conductance": "nS",
		"resistance":  "GOhm",
	}
}

// New builds a registry: the unit product {prefix}x{catalog} is
// materialized up front so Lookup and IsValidSIUnit are map hits.
func New(targets Targets) (*Registry, error) {
	r := &Registry{
		bySymbol: make(map[string]Entry, (len(siPrefixes)+1)*len(siCatalog)),
		names:    make(map[UnitType]string, (len(siPrefixes)+1)*len(siCatalog)),
		targets:  make(map[DimensionVector]int16, len(targets)),
		targetBy: make(map[DimensionVector]string, len(targets)),
	}

	// Unprefixed names first: a full catalog-name match wins over a
	// {prefix}{shorter-name} reading of the same spelling ("Pa" is
	// pascal, never peta-year).
	for _, row := range siCatalog {
		r.add(row.symbol, row.name, UnitType{Dim: row.dim, Magnitude: row.magnitude})
	}
	for prefix, exp := range siPrefixes {
		for _, row := range siCatalog {
			mag, err := combineMagnitude(int(row.magnitude) + int(exp))
			if err != nil {
				return nil, fmt.Errorf("catalog build: %s%s: %w", prefix, row.symbol, err)
			}
			r.add(prefix+row.symbol, siPrefixNames[prefix]+row.name, UnitType{Dim: row.dim, Magnitude: mag})
		}
	}

	for quantity, symbol := range targets {
		u, ok := r.Lookup(symbol)
		if !ok {
			return nil, fmt.Errorf("canonical target %s: unit %s is not a recognized SI unit", quantity, symbol)
		}
		if prev, dup := r.targetBy[u.Dim]; dup && prev != quantity {
			return nil, fmt.Errorf("canonical targets %s and %s share a dimension", prev, quantity)
		}
		r.targets[u.Dim] = u.Magnitude
		r.targetBy[u.Dim] = quantity
	}
	return r, nil
}

func (r *Registry) add(symbol, name string, u UnitType) {
	if _, exists := r.bySymbol[symbol]; exists {
		return
	}
	r.bySymbol[symbol] = Entry{Symbol: symbol, Name: name, Unit: u}
	if _, exists := r.names[u]; !exists {
		r.names[u] = symbol
	}
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := New(DefaultTargets())
	if err != nil {
		panic(fmt.Errorf("unreachable: default registry: %w", err))
	}
	return r
})

// Default returns the shared registry built from DefaultTargets.
func Default() *Registry {
	return defaultRegistry()
}

// Lookup resolves a unit symbol, micro-sign spellings included.
func (r *Registry) Lookup(symbol string) (UnitType, bool) {
	e, ok := r.bySymbol[NormalizeSymbol(symbol)]
	return e.Unit, ok
}

// Describe returns the full entry for a symbol.
func (r *Registry) Describe(symbol string) (Entry, bool) {
	e, ok := r.bySymbol[NormalizeSymbol(symbol)]
	return e, ok
}

// IsValidSIUnit reports whether symbol decomposes into a legal
// {prefix}{unit-name} pair with no residue.
func (r *Registry) IsValidSIUnit(symbol string) bool {
	_, ok := r.bySymbol[NormalizeSymbol(symbol)]
	return ok
}

// NameFor returns the preferred symbol for a unit value, falling back to
// the raw dimension rendering when no catalog symbol matches.
func (r *Registry) NameFor(u UnitType) string {
	if sym, ok := r.names[u]; ok {
		return sym
	}
	return u.String()
}

// CanonicalTarget returns the representation the back end uses for the
// given dimension. Dimensions without a configured target use the
// coherent SI magnitude.
func (r *Registry) CanonicalTarget(dim DimensionVector) UnitType {
	return UnitType{Dim: dim, Magnitude: r.targets[dim]}
}

// ConversionFactor rescales a value of type actual into the canonical
// target representation of its own dimension.
func (r *Registry) ConversionFactor(actual UnitType) float64 {
	factor, err := ConversionFactor(actual, r.CanonicalTarget(actual.Dim))
	if err != nil {
		panic(fmt.Errorf("unreachable: target shares the dimension by construction: %w", err))
	}
	return factor
}

// ResolveSignature re-resolves a canonical signature produced by
// UnitType.Signature back into the unit value it encodes.
func (r *Registry) ResolveSignature(sig string) (UnitType, error) {
	return ParseSignature(sig)
}

// Catalog lists every resolvable symbol in deterministic order:
// unprefixed catalog rows first, then prefixed forms alphabetically.
func (r *Registry) Catalog() []Entry {
	out := make([]Entry, 0, len(r.bySymbol))
	for _, e := range r.bySymbol {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Symbol < out[j].Symbol
	})
	return out
}
