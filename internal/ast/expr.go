package ast

import (
	"fmt"

	"nestml/internal/source"
)

// ExprKind tags the closed set of expression node kinds. Anything else
// reaching the checker is a grammar-impossible shape and fails fast.
type ExprKind uint8

const (
	ExprLiteral ExprKind = iota
	ExprVarRef
	ExprUnary
	ExprBinary
	ExprTernary
	ExprCall
)

func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "literal"
	case ExprVarRef:
		return "varref"
	case ExprUnary:
		return "unary"
	case ExprBinary:
		return "binary"
	case ExprTernary:
		return "ternary"
	case ExprCall:
		return "call"
	default:
		return fmt.Sprintf("ExprKind(%d)", k)
	}
}

// UnaryOp enumerates unary operators.
type UnaryOp uint8

const (
	OpNeg UnaryOp = iota
	OpPos
	OpNot
)

func (op UnaryOp) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpPos:
		return "+"
	case OpNot:
		return "not"
	default:
		return fmt.Sprintf("UnaryOp(%d)", op)
	}
}

// BinaryOp enumerates binary operators.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpPow
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpPow:
		return "**"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	default:
		return fmt.Sprintf("BinaryOp(%d)", op)
	}
}

// IsAdditive covers + and -, the dimension-preserving pair.
func (op BinaryOp) IsAdditive() bool { return op == OpAdd || op == OpSub }

// IsMultiplicative covers * and /, the dimension-combining pair.
func (op BinaryOp) IsMultiplicative() bool { return op == OpMul || op == OpDiv }

// IsRelational covers the comparison operators.
func (op BinaryOp) IsRelational() bool { return op >= OpEq && op <= OpGe }

// IsLogical covers and/or.
func (op BinaryOp) IsLogical() bool { return op == OpAnd || op == OpOr }

// LitKind tags literal payloads.
type LitKind uint8

const (
	LitInteger LitKind = iota
	LitReal
	LitBoolean
	LitString
	LitUnit
)

// Literal is the payload of an ExprLiteral node. Unit literals keep the
// numeric value and the raw unit symbol ("70mV" -> 70, "mV"); symbol
// validation belongs to the checker.
type Literal struct {
	Kind       LitKind
	Int        int64
	Real       float64
	Bool       bool
	Str        string
	UnitValue  float64
	UnitSymbol string
}

// Expr is a closed tagged-variant expression node. Kids holds the
// operands in evaluation order: unary (operand), binary (left, right),
// ternary (cond, then, else), call (args).
type Expr struct {
	Kind   ExprKind
	Span   source.Span
	Lit    Literal  // ExprLiteral
	Name   string   // ExprVarRef, ExprCall
	Unary  UnaryOp  // ExprUnary
	Binary BinaryOp // ExprBinary
	Kids   []*Expr
}

// Children exposes the ordered child nodes for tree traversal.
func (e *Expr) Children() []*Expr {
	if e == nil {
		return nil
	}
	return e.Kids
}

// Constructors -----------------------------------------------------------

func NewIntLiteral(span source.Span, v int64) *Expr {
	return &Expr{Kind: ExprLiteral, Span: span, Lit: Literal{Kind: LitInteger, Int: v}}
}

func NewRealLiteral(span source.Span, v float64) *Expr {
	return &Expr{Kind: ExprLiteral, Span: span, Lit: Literal{Kind: LitReal, Real: v}}
}

func NewBoolLiteral(span source.Span, v bool) *Expr {
	return &Expr{Kind: ExprLiteral, Span: span, Lit: Literal{Kind: LitBoolean, Bool: v}}
}

func NewStringLiteral(span source.Span, v string) *Expr {
	return &Expr{Kind: ExprLiteral, Span: span, Lit: Literal{Kind: LitString, Str: v}}
}

func NewUnitLiteral(span source.Span, value float64, symbol string) *Expr {
	return &Expr{Kind: ExprLiteral, Span: span, Lit: Literal{Kind: LitUnit, UnitValue: value, UnitSymbol: symbol}}
}

func NewVarRef(span source.Span, name string) *Expr {
	return &Expr{Kind: ExprVarRef, Span: span, Name: name}
}

func NewUnary(span source.Span, op UnaryOp, operand *Expr) *Expr {
	return &Expr{Kind: ExprUnary, Span: span, Unary: op, Kids: []*Expr{operand}}
}

func NewBinary(span source.Span, op BinaryOp, left, right *Expr) *Expr {
	return &Expr{Kind: ExprBinary, Span: span, Binary: op, Kids: []*Expr{left, right}}
}

func NewTernary(span source.Span, cond, then, els *Expr) *Expr {
	return &Expr{Kind: ExprTernary, Span: span, Kids: []*Expr{cond, then, els}}
}

func NewCall(span source.Span, name string, args ...*Expr) *Expr {
	return &Expr{Kind: ExprCall, Span: span, Name: name, Kids: args}
}
