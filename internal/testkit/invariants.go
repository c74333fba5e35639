// Package testkit holds invariant checks shared by tests: structural
// properties a correct check pass must always satisfy, independent of
// the model being checked.
package testkit

import (
	"fmt"

	"nestml/internal/ast"
	"nestml/internal/sema"
	"nestml/internal/types"
	"nestml/internal/units"
)

// CheckAnnotationInvariants verifies that a check pass annotated every
// expression node of the model:
//  1. every node reachable from a declaration initializer or an
//     assignment value carries a type annotation
//  2. no annotation is the invalid type (recovery always lands on a
//     real member of the type sum)
//  3. every declared name has a recorded declared type
func CheckAnnotationInvariants(model *ast.Model, res *sema.Result) error {
	if model == nil || res == nil {
		return fmt.Errorf("nil model or result")
	}

	check := func(root *ast.Expr) error {
		for _, node := range ast.FindAll(root, func(*ast.Expr) bool { return true }) {
			typ, ok := res.ExprTypes[node]
			if !ok {
				return fmt.Errorf("node %s at %s has no annotation", node.Kind, node.Span)
			}
			if !typ.IsValid() {
				return fmt.Errorf("node %s at %s annotated invalid", node.Kind, node.Span)
			}
		}
		return nil
	}

	for _, decl := range model.Decls {
		if _, ok := res.DeclTypes[decl.Name]; !ok {
			return fmt.Errorf("declaration %s has no recorded type", decl.Name)
		}
		if decl.Init != nil {
			if err := check(decl.Init); err != nil {
				return fmt.Errorf("decl %s: %w", decl.Name, err)
			}
		}
	}
	for _, assign := range model.Assigns {
		if err := check(assign.Value); err != nil {
			return fmt.Errorf("assignment to %s: %w", assign.Name, err)
		}
	}
	return nil
}

// CheckUnitAnnotations verifies that every unit-typed annotation stays
// inside the legal exponent band and survives a signature round trip;
// the algebra must have rejected anything outside it.
func CheckUnitAnnotations(res *sema.Result) error {
	if res == nil {
		return fmt.Errorf("nil result")
	}
	for node, typ := range res.ExprTypes {
		if typ.Kind != types.KindUnit {
			continue
		}
		for d := units.DimLength; d <= units.DimLuminosity; d++ {
			e := typ.Unit.Dim.Exponent(d)
			if e < units.MinExponent || e > units.MaxExponent {
				return fmt.Errorf("node at %s: %s exponent %d out of band", node.Span, d, e)
			}
		}
		back, err := units.ParseSignature(typ.Unit.Signature())
		if err != nil {
			return fmt.Errorf("node at %s: %w", node.Span, err)
		}
		if back != typ.Unit {
			return fmt.Errorf("node at %s: signature round trip changed the type", node.Span)
		}
	}
	return nil
}
