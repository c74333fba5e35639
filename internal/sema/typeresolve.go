package sema

import (
	"fmt"

	"nestml/internal/ast"
	"nestml/internal/diag"
	"nestml/internal/types"
)

// resolveType turns a type-position expression into an ExpressionType.
// Bad unit symbols are user errors and go through the reporter with a
// real-typed recovery; a TypeExpr kind outside the closed set means the
// grammar contract was broken upstream, and that fails fast.
func (tc *checker) resolveType(te *ast.TypeExpr) types.Type {
	if te == nil {
		return types.Real()
	}

	switch te.Kind {
	case ast.TypePrimitive:
		return resolvePrimitive(te.Prim)

	case ast.TypeUnitSymbol:
		u, ok := tc.reg.Lookup(te.Symbol)
		if !ok {
			tc.errorf(diag.TypUnrecognizedUnit, te.Span,
				"unit %s is not a recognized SI unit", te.Symbol)
			return types.Real()
		}
		return types.MakeUnit(u)

	case ast.TypeMul, ast.TypeDiv:
		left := tc.resolveType(te.Left)
		right := tc.resolveType(te.Right)
		if !left.IsUnit() || !right.IsUnit() {
			// a side already failed and was recovered; stay quiet
			return types.Real()
		}
		combined, err := combine(te.Kind, left, right)
		if err != nil {
			tc.errorf(diag.TypDimensionOverflow, te.Span, "%s", err)
			return left
		}
		return combined

	case ast.TypePow:
		base := tc.resolveType(te.Left)
		if !base.IsUnit() {
			return types.Real()
		}
		powered, err := base.Unit.Pow(te.Exp)
		if err != nil {
			tc.errorf(diag.TypDimensionOverflow, te.Span, "%s", err)
			return base
		}
		return types.MakeUnit(powered)

	default:
		panic(fmt.Errorf("unreachable: TypeExprKind(%d) reached the checker", te.Kind))
	}
}

func combine(kind ast.TypeExprKind, left, right types.Type) (types.Type, error) {
	if kind == ast.TypeMul {
		u, err := left.Unit.Mul(right.Unit)
		if err != nil {
			return types.Invalid(), err
		}
		return types.MakeUnit(u), nil
	}
	u, err := left.Unit.Div(right.Unit)
	if err != nil {
		return types.Invalid(), err
	}
	return types.MakeUnit(u), nil
}

func resolvePrimitive(p ast.Primitive) types.Type {
	switch p {
	case ast.PrimInteger:
		return types.Integer()
	case ast.PrimReal:
		return types.Real()
	case ast.PrimBoolean:
		return types.Boolean()
	case ast.PrimString:
		return types.String()
	case ast.PrimVoid:
		return types.Void()
	default:
		panic(fmt.Errorf("unreachable: Primitive(%d) reached the checker", p))
	}
}

// ResolveType is the exported form used by the driver and CLI.
func ResolveType(te *ast.TypeExpr, opts Options) types.Type {
	opts = opts.normalize()
	tc := &checker{
		reporter: opts.Reporter,
		env:      opts.Symbols,
		reg:      opts.Registry,
		result: &Result{
			ExprTypes: make(map[*ast.Expr]types.Type),
			DeclTypes: make(map[string]types.Type),
			Env:       opts.Symbols,
		},
	}
	return tc.resolveType(te)
}
