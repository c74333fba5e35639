package sema

import (
	"fmt"

	"nestml/internal/ast"
	"nestml/internal/diag"
	"nestml/internal/source"
	"nestml/internal/types"
)

// checkAssignment reconciles an RHS against a declared LHS type.
// Unit-typed targets demand a matching dimension; magnitude differences
// are the magnitude converter's job, not a type error. Plain numeric
// RHS against a unit target stays legal with a warning, per the lenient
// policy. Everything else that has no rule is an error.
func (tc *checker) checkAssignment(declared, got types.Type, rhs *ast.Expr, span source.Span) {
	switch declared.Kind {
	case types.KindUnit:
		switch {
		case got.IsUnit():
			if got.Unit.DimensionallyEqual(declared.Unit) {
				return
			}
			tc.assignError(declared, got, rhs, span)
		case got.IsNumeric():
			b := diag.ReportWarning(tc.reporter, diag.TypMixedNumericUnit, span,
				fmt.Sprintf("plain number assumed compatible with %s", tc.name(declared)))
			if symbol, ok := tc.annotationFor(declared, rhs); ok {
				end := source.Span{File: rhs.Span.File, Start: rhs.Span.End, End: rhs.Span.End}
				b.WithFix("annotate the literal with "+symbol, diag.FixEdit{Span: end, NewText: symbol})
			}
			b.Emit()
		default:
			tc.assignError(declared, got, rhs, span)
		}

	case types.KindInteger:
		switch {
		case got.Kind == types.KindInteger:
		case got.IsUnit():
			tc.warnf(diag.TypMixedNumericUnit, span,
				"unit-typed value assigned to plain integer")
		default:
			tc.assignError(declared, got, rhs, span)
		}

	case types.KindReal:
		switch {
		// integer widens to real silently
		case got.IsNumeric():
		case got.IsUnit():
			tc.warnf(diag.TypMixedNumericUnit, span,
				"unit-typed value assigned to plain real")
		default:
			tc.assignError(declared, got, rhs, span)
		}

	case types.KindBoolean, types.KindString:
		if got.Kind != declared.Kind {
			tc.assignError(declared, got, rhs, span)
		}

	case types.KindVoid:
		tc.assignError(declared, got, rhs, span)

	case types.KindInvalid:
		// the declared type already produced a diagnostic; stay quiet

	default:
		panic("unreachable: Kind out of the closed sum in checkAssignment")
	}
}

// annotationFor yields the catalog symbol to suffix onto a bare numeric
// literal so it reads as the declared unit. Non-literal RHS or units
// with no catalog name get no fix.
func (tc *checker) annotationFor(declared types.Type, rhs *ast.Expr) (string, bool) {
	if rhs == nil || rhs.Kind != ast.ExprLiteral {
		return "", false
	}
	if k := rhs.Lit.Kind; k != ast.LitInteger && k != ast.LitReal {
		return "", false
	}
	symbol := tc.reg.NameFor(declared.Unit)
	if resolved, ok := tc.reg.Lookup(symbol); !ok || resolved != declared.Unit {
		return "", false
	}
	return symbol, true
}

// assignError distinguishes a mismatched function-call result from a
// plain incompatible assignment.
func (tc *checker) assignError(declared, got types.Type, rhs *ast.Expr, span source.Span) {
	if rhs != nil && rhs.Kind == ast.ExprCall {
		tc.errorf(diag.TypReturnMismatch, span,
			"function %s returns %s, expected %s", rhs.Name, tc.name(got), tc.name(declared))
		return
	}
	tc.errorf(diag.TypAssignmentMismatch, span,
		"cannot assign %s to %s", tc.name(got), tc.name(declared))
}

// assignable is the diagnostic-free form used for call arguments.
func assignable(param, arg types.Type) bool {
	switch param.Kind {
	case types.KindUnit:
		return (arg.IsUnit() && arg.Unit.DimensionallyEqual(param.Unit)) || arg.IsNumeric()
	case types.KindInteger:
		return arg.Kind == types.KindInteger || arg.IsUnit()
	case types.KindReal:
		return arg.IsNumeric() || arg.IsUnit()
	case types.KindBoolean, types.KindString:
		return arg.Kind == param.Kind
	default:
		return false
	}
}
