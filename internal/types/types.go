package types

import (
	"fmt"

	"nestml/internal/units"
)

// Kind enumerates the closed sum of expression types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnit
	KindInteger
	KindReal
	KindBoolean
	KindString
	KindVoid
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnit:
		return "unit"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindVoid:
		return "void"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is the value every expression node resolves to. Unit carries the
// physical unit; the other kinds are bare tags.
type Type struct {
	Kind Kind
	Unit units.UnitType // meaningful only when Kind == KindUnit
}

// Descriptor helpers ---------------------------------------------------------

func MakeUnit(u units.UnitType) Type { return Type{Kind: KindUnit, Unit: u} }
func Integer() Type                  { return Type{Kind: KindInteger} }
func Real() Type                     { return Type{Kind: KindReal} }
func Boolean() Type                  { return Type{Kind: KindBoolean} }
func String() Type                   { return Type{Kind: KindString} }
func Void() Type                     { return Type{Kind: KindVoid} }
func Invalid() Type                  { return Type{Kind: KindInvalid} }

// IsUnit reports whether the type carries a physical unit.
func (t Type) IsUnit() bool { return t.Kind == KindUnit }

// IsNumeric covers integer and real, the plain-number kinds the lenient
// reconciliation rules mix with units.
func (t Type) IsNumeric() bool { return t.Kind == KindInteger || t.Kind == KindReal }

// IsValid reports whether the type is anything but the invalid marker.
func (t Type) IsValid() bool { return t.Kind != KindInvalid }

// SameSignature compares exact unit signatures: dimension and magnitude.
func (t Type) SameSignature(other Type) bool {
	if t.Kind != KindUnit || other.Kind != KindUnit {
		return t.Kind == other.Kind
	}
	return t.Unit == other.Unit
}

func (t Type) String() string {
	if t.Kind == KindUnit {
		return fmt.Sprintf("unit(%s)", t.Unit)
	}
	return t.Kind.String()
}
