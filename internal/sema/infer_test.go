package sema

import (
	"testing"

	"nestml/internal/ast"
	"nestml/internal/types"
	"nestml/internal/units"
)

func lit(symbol string) *ast.Expr       { return ast.NewUnitLiteral(sp(0, 4), 1, symbol) }
func num(v float64) *ast.Expr           { return ast.NewRealLiteral(sp(0, 3), v) }
func integer(v int64) *ast.Expr         { return ast.NewIntLiteral(sp(0, 1), v) }
func boolean(v bool) *ast.Expr          { return ast.NewBoolLiteral(sp(0, 4), v) }
func str(s string) *ast.Expr            { return ast.NewStringLiteral(sp(0, 4), s) }
func bin(op ast.BinaryOp, l, r *ast.Expr) *ast.Expr {
	return ast.NewBinary(sp(0, 9), op, l, r)
}

// wantUnit asserts the inferred type is a unit with the given signature.
func wantUnit(t *testing.T, got types.Type, symbol string) {
	t.Helper()
	want := unitType(t, symbol)
	if !got.SameSignature(want) {
		t.Fatalf("expected Unit(%s), got %s", symbol, got)
	}
}

func TestAdditiveTable(t *testing.T) {
	t.Run("same dimension keeps left operand", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(bin(ast.OpAdd, lit("mV"), lit("V")), h.opts())
		if h.bag.Len() != 0 {
			t.Fatalf("same dimension must be clean, got %v", h.bag.Items())
		}
		wantUnit(t, got, "mV")
	})

	t.Run("different dimension errors and keeps left operand", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(bin(ast.OpSub, lit("mV"), lit("ms")), h.opts())
		if h.errors() != 1 {
			t.Fatalf("expected one error, got %v", h.bag.Items())
		}
		h.mustMessage(t, "dimensions of mV and ms do not match")
		wantUnit(t, got, "mV")
	})

	t.Run("integer plus real is real", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(bin(ast.OpAdd, integer(1), num(2.5)), h.opts())
		if h.bag.Len() != 0 || got.Kind != types.KindReal {
			t.Fatalf("expected clean real, got %s / %v", got, h.bag.Items())
		}
	})

	t.Run("integer plus integer stays integer", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(bin(ast.OpAdd, integer(1), integer(2)), h.opts())
		if got.Kind != types.KindInteger {
			t.Fatalf("expected integer, got %s", got)
		}
	})

	t.Run("number on the left of a unit warns", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(bin(ast.OpAdd, integer(2), lit("mV")), h.opts())
		if h.warnings() != 1 || h.errors() != 0 {
			t.Fatalf("expected single warning, got %v", h.bag.Items())
		}
		wantUnit(t, got, "mV")
	})

	t.Run("boolean operand is an error", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(bin(ast.OpAdd, boolean(true), integer(1)), h.opts())
		if h.errors() != 1 {
			t.Fatalf("expected one error, got %v", h.bag.Items())
		}
		if got.Kind != types.KindReal {
			t.Fatalf("recovery type must be real, got %s", got)
		}
	})
}

func TestMultiplicativeTable(t *testing.T) {
	t.Run("unit times unit combines dimensions", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(bin(ast.OpMul, lit("mA"), lit("Ohm")), h.opts())
		if h.bag.Len() != 0 {
			t.Fatalf("expected clean, got %v", h.bag.Items())
		}
		// mA * Ohm has the dimension of voltage at magnitude 0+...
		if !got.IsUnit() || !got.Unit.DimensionallyEqual(unitType(t, "V").Unit) {
			t.Fatalf("expected a voltage-dimensioned unit, got %s", got)
		}
	})

	t.Run("scaling by a plain number keeps the unit", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(bin(ast.OpMul, num(2.0), lit("pF")), h.opts())
		if h.bag.Len() != 0 {
			t.Fatalf("expected clean, got %v", h.bag.Items())
		}
		wantUnit(t, got, "pF")
	})

	t.Run("exact cancellation collapses to real", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(bin(ast.OpDiv, lit("mV"), lit("mV")), h.opts())
		if h.bag.Len() != 0 || got.Kind != types.KindReal {
			t.Fatalf("mV/mV must be a clean real, got %s / %v", got, h.bag.Items())
		}
	})

	t.Run("division inverts the dimension", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(bin(ast.OpDiv, num(1.0), lit("ms")), h.opts())
		if !got.IsUnit() {
			t.Fatalf("expected a unit, got %s", got)
		}
		if e := got.Unit.Dim.Exponent(units.DimTime); e != -1 {
			t.Fatalf("expected time exponent -1, got %d", e)
		}
	})

	t.Run("unit times string errors and keeps the unit side", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(bin(ast.OpMul, lit("Ohm"), str("x")), h.opts())
		if h.errors() != 1 {
			t.Fatalf("expected one error, got %v", h.bag.Items())
		}
		h.mustMessage(t, "illegal multiplication of unit and string")
		wantUnit(t, got, "Ohm")
	})

	t.Run("unit divided by boolean names division", func(t *testing.T) {
		h := newHarness()
		CheckExpr(bin(ast.OpDiv, lit("nS"), boolean(true)), h.opts())
		h.mustMessage(t, "illegal division of unit and boolean")
	})

	t.Run("repeated division can overflow an exponent", func(t *testing.T) {
		h := newHarness()
		// s^-7 / s drops the time exponent below the floor
		deep := lit("s")
		e := bin(ast.OpDiv, num(1.0), deep)
		for i := 0; i < 7; i++ {
			e = bin(ast.OpDiv, e, lit("s"))
		}
		CheckExpr(e, h.opts())
		if h.errors() == 0 {
			t.Fatalf("expected an overflow error, got %v", h.bag.Items())
		}
	})
}

func TestPowerTable(t *testing.T) {
	t.Run("unit base with integer exponent", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(bin(ast.OpPow, lit("ms"), integer(2)), h.opts())
		if h.bag.Len() != 0 {
			t.Fatalf("expected clean, got %v", h.bag.Items())
		}
		if !got.IsUnit() || got.Unit.Dim.Exponent(units.DimTime) != 2 {
			t.Fatalf("expected time squared, got %s", got)
		}
	})

	t.Run("negative literal exponent inverts", func(t *testing.T) {
		h := newHarness()
		neg := ast.NewUnary(sp(0, 2), ast.OpNeg, integer(1))
		got, _ := CheckExpr(bin(ast.OpPow, lit("s"), neg), h.opts())
		if h.bag.Len() != 0 {
			t.Fatalf("expected clean, got %v", h.bag.Items())
		}
		if !got.IsUnit() || got.Unit.Dim.Exponent(units.DimTime) != -1 {
			t.Fatalf("expected s^-1, got %s", got)
		}
	})

	t.Run("variable exponent on unit base", func(t *testing.T) {
		h := newHarness()
		h.env.Define(sym(t, "n", types.Integer()))
		got, _ := CheckExpr(bin(ast.OpPow, lit("mV"), ast.NewVarRef(sp(6, 7), "n")), h.opts())
		if h.errors() != 1 {
			t.Fatalf("expected one error, got %v", h.bag.Items())
		}
		h.mustMessage(t, "variable exponent not allowed on unit base")
		wantUnit(t, got, "mV")
	})

	t.Run("boolean exponent on unit base", func(t *testing.T) {
		h := newHarness()
		CheckExpr(bin(ast.OpPow, lit("mV"), boolean(true)), h.opts())
		h.mustMessage(t, "non-numeric exponent on unit base")
	})

	t.Run("plain numeric power", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(bin(ast.OpPow, num(2.0), integer(10)), h.opts())
		if h.bag.Len() != 0 || got.Kind != types.KindReal {
			t.Fatalf("expected clean real, got %s / %v", got, h.bag.Items())
		}
	})

	t.Run("large exponent overflows", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(bin(ast.OpPow, lit("mV"), integer(5)), h.opts())
		if h.errors() != 1 {
			t.Fatalf("expected one overflow error, got %v", h.bag.Items())
		}
		wantUnit(t, got, "mV")
	})
}

func TestRelationalTable(t *testing.T) {
	t.Run("same dimension comparison is clean", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(bin(ast.OpLt, lit("mV"), lit("V")), h.opts())
		if h.bag.Len() != 0 || got.Kind != types.KindBoolean {
			t.Fatalf("expected clean boolean, got %s / %v", got, h.bag.Items())
		}
	})

	t.Run("different dimension comparison warns", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(bin(ast.OpGe, lit("mV"), lit("pA")), h.opts())
		if h.warnings() != 1 || h.errors() != 0 {
			t.Fatalf("expected single warning, got %v", h.bag.Items())
		}
		if got.Kind != types.KindBoolean {
			t.Fatalf("comparison result must be boolean, got %s", got)
		}
	})

	t.Run("unit against plain number warns", func(t *testing.T) {
		h := newHarness()
		CheckExpr(bin(ast.OpGt, lit("ms"), num(5.0)), h.opts())
		h.mustMessage(t, "comparison of unit and plain number")
	})

	t.Run("unit against string errors", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(bin(ast.OpEq, lit("ms"), str("x")), h.opts())
		if h.errors() != 1 {
			t.Fatalf("expected one error, got %v", h.bag.Items())
		}
		h.mustMessage(t, "illegal comparison of unit and string")
		if got.Kind != types.KindBoolean {
			t.Fatalf("comparison recovers to boolean, got %s", got)
		}
	})

	t.Run("string equality allowed, ordering rejected", func(t *testing.T) {
		h := newHarness()
		CheckExpr(bin(ast.OpEq, str("a"), str("b")), h.opts())
		if h.bag.Len() != 0 {
			t.Fatalf("string equality must be clean, got %v", h.bag.Items())
		}
		CheckExpr(bin(ast.OpLt, str("a"), str("b")), h.opts())
		if h.errors() != 1 {
			t.Fatalf("string ordering must error, got %v", h.bag.Items())
		}
	})
}

func TestTernaryTable(t *testing.T) {
	tern := func(cond, then, els *ast.Expr) *ast.Expr {
		return ast.NewTernary(sp(0, 12), cond, then, els)
	}

	t.Run("matching unit branches", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(tern(boolean(true), lit("mV"), lit("V")), h.opts())
		if h.bag.Len() != 0 {
			t.Fatalf("expected clean, got %v", h.bag.Items())
		}
		wantUnit(t, got, "mV")
	})

	t.Run("mismatched unit branches assume real", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(tern(boolean(true), lit("mV"), lit("ms")), h.opts())
		if h.warnings() != 1 || h.errors() != 0 {
			t.Fatalf("expected single warning, got %v", h.bag.Items())
		}
		h.mustMessage(t, "mismatched unit types mV and ms, assumed real")
		if got.Kind != types.KindReal {
			t.Fatalf("expected real, got %s", got)
		}
	})

	t.Run("non-boolean condition", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(tern(integer(1), integer(2), integer(3)), h.opts())
		if h.errors() != 1 {
			t.Fatalf("expected one error, got %v", h.bag.Items())
		}
		h.mustMessage(t, "condition is not boolean")
		if got.Kind != types.KindInteger {
			t.Fatalf("branch reconciliation still applies, got %s", got)
		}
	})

	t.Run("numeric and unit branch warns and keeps the unit", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(tern(boolean(false), num(1.0), lit("pA")), h.opts())
		if h.warnings() != 1 {
			t.Fatalf("expected single warning, got %v", h.bag.Items())
		}
		wantUnit(t, got, "pA")
	})

	t.Run("real branch absorbs a string partner silently", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(tern(boolean(true), num(1.0), str("s")), h.opts())
		if h.bag.Len() != 0 {
			t.Fatalf("expected clean, got %v", h.bag.Items())
		}
		if got.Kind != types.KindReal {
			t.Fatalf("expected real, got %s", got)
		}
	})

	t.Run("real branch absorbs a boolean partner silently", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(tern(boolean(true), boolean(false), num(2.5)), h.opts())
		if h.bag.Len() != 0 {
			t.Fatalf("expected clean, got %v", h.bag.Items())
		}
		if got.Kind != types.KindReal {
			t.Fatalf("expected real, got %s", got)
		}
	})
}

func TestUnaryOperators(t *testing.T) {
	t.Run("negation preserves the unit", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(ast.NewUnary(sp(0, 5), ast.OpNeg, lit("mV")), h.opts())
		if h.bag.Len() != 0 {
			t.Fatalf("expected clean, got %v", h.bag.Items())
		}
		wantUnit(t, got, "mV")
	})

	t.Run("not on a unit", func(t *testing.T) {
		h := newHarness()
		got, _ := CheckExpr(ast.NewUnary(sp(0, 7), ast.OpNot, lit("mV")), h.opts())
		if h.errors() != 1 {
			t.Fatalf("expected one error, got %v", h.bag.Items())
		}
		if got.Kind != types.KindBoolean {
			t.Fatalf("not recovers to boolean, got %s", got)
		}
	})
}

func TestUnrecognizedUnitLiteral(t *testing.T) {
	h := newHarness()
	got, _ := CheckExpr(lit("foo"), h.opts())
	if h.errors() != 1 {
		t.Fatalf("expected one error, got %v", h.bag.Items())
	}
	h.mustMessage(t, "unit foo is not a recognized SI unit")
	if got.Kind != types.KindReal {
		t.Fatalf("recovery type must be real, got %s", got)
	}
}

func TestEveryNodeAnnotated(t *testing.T) {
	h := newHarness()
	h.env.Define(sym(t, "x", unitType(t, "mV")))
	expr := bin(ast.OpAdd,
		bin(ast.OpMul, num(2.0), ast.NewVarRef(sp(4, 5), "x")),
		lit("mV"))

	_, res := CheckExpr(expr, h.opts())
	var missing int
	var walk func(e *ast.Expr)
	walk = func(e *ast.Expr) {
		if !res.TypeOf(e).IsValid() {
			missing++
		}
		for _, kid := range e.Children() {
			walk(kid)
		}
	}
	walk(expr)
	if missing != 0 {
		t.Fatalf("%d nodes left unannotated", missing)
	}
}
