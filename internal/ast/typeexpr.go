package ast

import (
	"fmt"

	"nestml/internal/source"
)

// TypeExprKind tags type-position constructs: a primitive name, a unit
// symbol, or units combined with *, / and an integer ** exponent
// (e.g. pF/mV/ms). The set is closed; the parser guarantees it.
type TypeExprKind uint8

const (
	TypePrimitive TypeExprKind = iota
	TypeUnitSymbol
	TypeMul
	TypeDiv
	TypePow
)

// Primitive enumerates the non-unit declared types.
type Primitive uint8

const (
	PrimInteger Primitive = iota
	PrimReal
	PrimBoolean
	PrimString
	PrimVoid
)

func (p Primitive) String() string {
	switch p {
	case PrimInteger:
		return "integer"
	case PrimReal:
		return "real"
	case PrimBoolean:
		return "boolean"
	case PrimString:
		return "string"
	case PrimVoid:
		return "void"
	default:
		return fmt.Sprintf("Primitive(%d)", p)
	}
}

// TypeExpr is a type-position expression.
type TypeExpr struct {
	Kind   TypeExprKind
	Span   source.Span
	Prim   Primitive // TypePrimitive
	Symbol string    // TypeUnitSymbol
	Exp    int       // TypePow: the integer exponent
	Left   *TypeExpr // TypeMul, TypeDiv, TypePow
	Right  *TypeExpr // TypeMul, TypeDiv
}

func NewPrimitiveType(span source.Span, p Primitive) *TypeExpr {
	return &TypeExpr{Kind: TypePrimitive, Span: span, Prim: p}
}

func NewUnitSymbolType(span source.Span, symbol string) *TypeExpr {
	return &TypeExpr{Kind: TypeUnitSymbol, Span: span, Symbol: symbol}
}

func NewMulType(span source.Span, left, right *TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: TypeMul, Span: span, Left: left, Right: right}
}

func NewDivType(span source.Span, left, right *TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: TypeDiv, Span: span, Left: left, Right: right}
}

func NewPowType(span source.Span, base *TypeExpr, exp int) *TypeExpr {
	return &TypeExpr{Kind: TypePow, Span: span, Left: base, Exp: exp}
}

// String renders the surface form, for diagnostics and the CLI.
func (t *TypeExpr) String() string {
	switch t.Kind {
	case TypePrimitive:
		return t.Prim.String()
	case TypeUnitSymbol:
		return t.Symbol
	case TypeMul:
		return fmt.Sprintf("%s*%s", t.Left, t.Right)
	case TypeDiv:
		return fmt.Sprintf("%s/%s", t.Left, t.Right)
	case TypePow:
		return fmt.Sprintf("%s**%d", t.Left, t.Exp)
	default:
		panic(fmt.Errorf("unreachable: TypeExprKind(%d)", t.Kind))
	}
}
