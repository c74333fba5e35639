package sema

import (
	"fmt"

	"nestml/internal/ast"
	"nestml/internal/diag"
	"nestml/internal/types"
	"nestml/internal/units"
)

// infer assigns a type to expr and every node below it, post-order.
// Anomalies become diagnostics on the offending node; the result type
// follows the lenient recovery policy so the walk always continues.
func (tc *checker) infer(expr *ast.Expr) types.Type {
	t := tc.inferNode(expr)
	tc.result.ExprTypes[expr] = t
	return t
}

func (tc *checker) inferNode(expr *ast.Expr) types.Type {
	switch expr.Kind {
	case ast.ExprLiteral:
		return tc.inferLiteral(expr)
	case ast.ExprVarRef:
		return tc.inferVarRef(expr)
	case ast.ExprUnary:
		return tc.inferUnary(expr)
	case ast.ExprBinary:
		return tc.inferBinary(expr)
	case ast.ExprTernary:
		return tc.inferTernary(expr)
	case ast.ExprCall:
		return tc.inferCall(expr)
	default:
		panic(fmt.Errorf("unreachable: ExprKind(%d) in reconciler", expr.Kind))
	}
}

func (tc *checker) inferLiteral(expr *ast.Expr) types.Type {
	switch expr.Lit.Kind {
	case ast.LitInteger:
		return types.Integer()
	case ast.LitReal:
		return types.Real()
	case ast.LitBoolean:
		return types.Boolean()
	case ast.LitString:
		return types.String()
	case ast.LitUnit:
		u, ok := tc.reg.Lookup(expr.Lit.UnitSymbol)
		if !ok {
			tc.errorf(diag.TypUnrecognizedUnit, expr.Span,
				"unit %s is not a recognized SI unit", expr.Lit.UnitSymbol)
			return types.Real()
		}
		return types.MakeUnit(u)
	default:
		panic(fmt.Errorf("unreachable: LitKind(%d) in reconciler", expr.Lit.Kind))
	}
}

func (tc *checker) inferVarRef(expr *ast.Expr) types.Type {
	sym, ok := tc.env.Lookup(expr.Name)
	if !ok {
		tc.errorf(diag.TypUnknownSymbol, expr.Span, "use of undeclared name %s", expr.Name)
		return types.Real()
	}
	return sym.Type
}

func (tc *checker) inferUnary(expr *ast.Expr) types.Type {
	operand := tc.infer(expr.Kids[0])

	if expr.Unary == ast.OpNot {
		if operand.Kind != types.KindBoolean {
			tc.errorf(diag.TypIllegalOperand, expr.Span, "operand is not boolean")
		}
		return types.Boolean()
	}

	// numeric negation/identity preserves the operand type
	if operand.IsUnit() || operand.IsNumeric() {
		return operand
	}
	tc.errorf(diag.TypIllegalOperand, expr.Span,
		"illegal operand of type %s for operator %s", tc.name(operand), expr.Unary)
	return types.Real()
}

func (tc *checker) inferBinary(expr *ast.Expr) types.Type {
	left := tc.infer(expr.Kids[0])
	right := tc.infer(expr.Kids[1])
	op := expr.Binary

	switch {
	case op.IsAdditive():
		return tc.reconcileAdditive(expr, left, right)
	case op.IsMultiplicative():
		return tc.reconcileMultiplicative(expr, left, right)
	case op == ast.OpPow:
		return tc.reconcilePower(expr, left, right)
	case op.IsRelational():
		return tc.reconcileRelational(expr, left, right)
	case op.IsLogical():
		if left.Kind != types.KindBoolean || right.Kind != types.KindBoolean {
			tc.errorf(diag.TypIllegalOperand, expr.Span, "operand is not boolean")
		}
		return types.Boolean()
	default:
		panic(fmt.Errorf("unreachable: BinaryOp(%d) in reconciler", op))
	}
}

// reconcileAdditive implements the + and - rows of the decision table.
func (tc *checker) reconcileAdditive(expr *ast.Expr, left, right types.Type) types.Type {
	switch {
	case left.IsUnit() && right.IsUnit():
		if !left.Unit.DimensionallyEqual(right.Unit) {
			tc.errorf(diag.TypDimensionMismatch, expr.Span,
				"dimensions of %s and %s do not match", tc.name(left), tc.name(right))
		}
		// first operand wins, even on mismatch
		return left

	case left.IsUnit() && right.IsNumeric():
		tc.warnf(diag.TypMixedNumericUnit, expr.Span,
			"plain number assumed compatible with %s", tc.name(left))
		return left

	case right.IsUnit() && left.IsNumeric():
		tc.warnf(diag.TypMixedNumericUnit, expr.Span,
			"plain number assumed compatible with %s", tc.name(right))
		return right

	case left.IsNumeric() && right.IsNumeric():
		if left.Kind == types.KindReal || right.Kind == types.KindReal {
			return types.Real()
		}
		return types.Integer()

	default:
		tc.errorf(diag.TypIllegalOperand, expr.Span,
			"illegal operand of type %s for operator %s",
			tc.name(pickOffender(left, right)), expr.Binary)
		return types.Real()
	}
}

// reconcileMultiplicative implements the * and / rows.
func (tc *checker) reconcileMultiplicative(expr *ast.Expr, left, right types.Type) types.Type {
	// plain numbers scale a unit without changing its dimension; a unit
	// in a divisor inverts. Model both through the algebra by treating
	// numbers as dimensionless.
	lu, lok := asUnitOperand(left)
	ru, rok := asUnitOperand(right)

	switch {
	case lok && rok:
		var (
			combined units.UnitType
			err      error
		)
		if expr.Binary == ast.OpMul {
			combined, err = lu.Mul(ru)
		} else {
			combined, err = lu.Div(ru)
		}
		if err != nil {
			tc.errorf(diag.TypDimensionOverflow, expr.Span, "%s", err)
			if left.IsUnit() {
				return left
			}
			return right
		}
		if !left.IsUnit() && !right.IsUnit() {
			// both were plain numbers
			if left.Kind == types.KindReal || right.Kind == types.KindReal {
				return types.Real()
			}
			return types.Integer()
		}
		if combined.Dim.IsDimensionless() && combined.Magnitude == 0 {
			// units cancelled exactly, e.g. mV/mV
			return types.Real()
		}
		return types.MakeUnit(combined)

	default:
		verb := "multiplication"
		if expr.Binary == ast.OpDiv {
			verb = "division"
		}
		offender := right
		if !lok {
			offender = left
		}
		if left.IsUnit() || right.IsUnit() {
			tc.errorf(diag.TypIllegalOperand, expr.Span,
				"illegal %s of unit and %s", verb, tc.name(offender))
			if left.IsUnit() {
				return left
			}
			return right
		}
		tc.errorf(diag.TypIllegalOperand, expr.Span,
			"illegal operand of type %s for operator %s", tc.name(offender), expr.Binary)
		return types.Real()
	}
}

// reconcilePower implements the ** rows. A unit base demands a
// statically known integer exponent.
func (tc *checker) reconcilePower(expr *ast.Expr, base, exponent types.Type) types.Type {
	expNode := expr.Kids[1]

	if !base.IsUnit() {
		switch {
		case base.IsNumeric() && exponent.IsNumeric():
			if base.Kind == types.KindReal || exponent.Kind == types.KindReal {
				return types.Real()
			}
			return types.Integer()
		default:
			tc.errorf(diag.TypIllegalOperand, expr.Span,
				"illegal operand of type %s for operator **", tc.name(pickOffender(base, exponent)))
			return types.Real()
		}
	}

	switch {
	case exponent.Kind == types.KindBoolean || exponent.Kind == types.KindString:
		tc.errorf(diag.TypIllegalOperand, expr.Span, "non-numeric exponent on unit base")
		return base
	case isRealLiteral(expNode):
		tc.errorf(diag.TypNonIntegerExponent, expr.Span, "non-integer exponent on unit base")
		return base
	}

	n, ok := constIntExponent(expNode)
	if !ok {
		tc.errorf(diag.TypNonConstantExponent, expr.Span, "variable exponent not allowed on unit base")
		return base
	}

	powered, err := base.Unit.Pow(n)
	if err != nil {
		tc.errorf(diag.TypDimensionOverflow, expr.Span, "%s", err)
		return base
	}
	return types.MakeUnit(powered)
}

// reconcileRelational implements the comparison rows; the result is
// always boolean, whatever went wrong.
func (tc *checker) reconcileRelational(expr *ast.Expr, left, right types.Type) types.Type {
	switch {
	case left.IsUnit() && right.IsUnit():
		if !left.Unit.DimensionallyEqual(right.Unit) {
			tc.warnf(diag.TypUnitComparisonMismatch, expr.Span,
				"compared unit types %s and %s do not match", tc.name(left), tc.name(right))
		}

	case left.IsUnit() || right.IsUnit():
		other := right
		if right.IsUnit() {
			other = left
		}
		if other.IsNumeric() {
			tc.warnf(diag.TypMixedNumericUnit, expr.Span, "comparison of unit and plain number")
		} else {
			tc.errorf(diag.TypIllegalComparison, expr.Span,
				"illegal comparison of unit and %s", tc.name(other))
		}

	case left.IsNumeric() && right.IsNumeric():
		// fine, including integer against real

	case left.Kind == right.Kind && (left.Kind == types.KindBoolean || left.Kind == types.KindString):
		if expr.Binary != ast.OpEq && expr.Binary != ast.OpNe {
			tc.errorf(diag.TypIllegalComparison, expr.Span,
				"illegal ordering comparison of %s values", tc.name(left))
		}

	default:
		tc.errorf(diag.TypIllegalComparison, expr.Span,
			"illegal comparison of %s and %s", tc.name(left), tc.name(right))
	}
	return types.Boolean()
}

// inferTernary implements the c?a:b rows.
func (tc *checker) inferTernary(expr *ast.Expr) types.Type {
	cond := tc.infer(expr.Kids[0])
	then := tc.infer(expr.Kids[1])
	els := tc.infer(expr.Kids[2])

	if cond.Kind != types.KindBoolean {
		tc.errorf(diag.TypConditionNotBoolean, expr.Kids[0].Span, "condition is not boolean")
	}

	switch {
	case then.IsUnit() && els.IsUnit():
		if then.Unit.DimensionallyEqual(els.Unit) {
			return then
		}
		tc.warnf(diag.TypAssumedReal, expr.Span,
			"mismatched unit types %s and %s, assumed real", tc.name(then), tc.name(els))
		return types.Real()

	case then.IsUnit() && els.IsNumeric():
		tc.warnf(diag.TypMixedNumericUnit, expr.Span,
			"mixed numeric and unit branches, assumed %s", tc.name(then))
		return then

	case els.IsUnit() && then.IsNumeric():
		tc.warnf(diag.TypMixedNumericUnit, expr.Span,
			"mixed numeric and unit branches, assumed %s", tc.name(els))
		return els

	case then.IsNumeric() && els.IsNumeric():
		if then.Kind == types.KindReal || els.Kind == types.KindReal {
			return types.Real()
		}
		return types.Integer()

	case then.Kind == els.Kind && then.IsValid():
		return then

	case then.Kind == types.KindReal || els.Kind == types.KindReal:
		// a real branch absorbs any non-unit partner silently
		return types.Real()

	default:
		tc.errorf(diag.TypIllegalOperand, expr.Span,
			"branches of type %s and %s cannot be reconciled", tc.name(then), tc.name(els))
		return types.Real()
	}
}

func (tc *checker) inferCall(expr *ast.Expr) types.Type {
	args := make([]types.Type, 0, len(expr.Kids))
	for _, arg := range expr.Kids {
		args = append(args, tc.infer(arg))
	}

	sig, ok := tc.env.LookupFn(expr.Name)
	if !ok {
		tc.errorf(diag.TypUnknownSymbol, expr.Span, "call to undeclared function %s", expr.Name)
		return types.Real()
	}

	if len(args) != len(sig.Params) {
		tc.errorf(diag.TypAssignmentMismatch, expr.Span,
			"function %s expects %d arguments, got %d", expr.Name, len(sig.Params), len(args))
		return sig.Return
	}
	for i, param := range sig.Params {
		if !assignable(param, args[i]) {
			tc.errorf(diag.TypAssignmentMismatch, expr.Kids[i].Span,
				"argument %d of %s: cannot pass %s as %s",
				i+1, expr.Name, tc.name(args[i]), tc.name(param))
		}
	}
	return sig.Return
}

// Helpers ----------------------------------------------------------------

// asUnitOperand views numeric operands as dimensionless units so the
// algebra can combine them uniformly.
func asUnitOperand(t types.Type) (units.UnitType, bool) {
	if t.IsUnit() {
		return t.Unit, true
	}
	if t.IsNumeric() {
		return units.Dimensionless(0), true
	}
	return units.UnitType{}, false
}

func pickOffender(left, right types.Type) types.Type {
	if left.Kind == types.KindBoolean || left.Kind == types.KindString || !left.IsValid() {
		return left
	}
	return right
}

func isRealLiteral(e *ast.Expr) bool {
	if e.Kind == ast.ExprUnary && (e.Unary == ast.OpNeg || e.Unary == ast.OpPos) {
		return isRealLiteral(e.Kids[0])
	}
	return e.Kind == ast.ExprLiteral && e.Lit.Kind == ast.LitReal
}

// constIntExponent recognizes the statically known integer exponents the
// grammar allows: an integer literal, optionally signed.
func constIntExponent(e *ast.Expr) (int, bool) {
	switch {
	case e.Kind == ast.ExprLiteral && e.Lit.Kind == ast.LitInteger:
		return int(e.Lit.Int), true
	case e.Kind == ast.ExprUnary && e.Unary == ast.OpNeg:
		n, ok := constIntExponent(e.Kids[0])
		return -n, ok
	case e.Kind == ast.ExprUnary && e.Unary == ast.OpPos:
		return constIntExponent(e.Kids[0])
	default:
		return 0, false
	}
}
