// Package sema implements the expression type reconciler: a pure,
// post-order walk over expression trees that assigns every node an
// inferred type and accumulates diagnostics for anomalous operand
// combinations. The walk never aborts; one pass reports every problem.
package sema

import (
	"fmt"

	"nestml/internal/ast"
	"nestml/internal/diag"
	"nestml/internal/source"
	"nestml/internal/symbols"
	"nestml/internal/types"
	"nestml/internal/units"
)

// Options configure a check pass over one model.
type Options struct {
	Reporter diag.Reporter
	Symbols  *symbols.Env
	Registry *units.Registry
}

// Result stores the artefacts of a check pass.
type Result struct {
	// ExprTypes annotates every visited expression node.
	ExprTypes map[*ast.Expr]types.Type
	// DeclTypes records the resolved declared type per name.
	DeclTypes map[string]types.Type
	// Env is the environment the pass resolved against.
	Env *symbols.Env
}

// TypeOf returns the annotation for a node, Invalid when unvisited.
func (r *Result) TypeOf(e *ast.Expr) types.Type {
	if t, ok := r.ExprTypes[e]; ok {
		return t
	}
	return types.Invalid()
}

// Check reconciles a whole model: function signatures first, then
// declarations in order, then assignments.
func (c *Options) normalize() Options {
	out := *c
	if out.Reporter == nil {
		out.Reporter = diag.NopReporter{}
	}
	if out.Registry == nil {
		out.Registry = units.Default()
	}
	if out.Symbols == nil {
		out.Symbols = symbols.NewEnv(nil)
	}
	return out
}

func Check(model *ast.Model, opts Options) *Result {
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
	if model == nil {
		return tc.result
	}

	for _, fn := range model.Fns {
		tc.declareFn(fn)
	}
	for _, decl := range model.Decls {
		tc.checkDecl(decl)
	}
	for _, assign := range model.Assigns {
		tc.checkAssignStmt(assign)
	}
	return tc.result
}

// CheckExpr reconciles a single expression tree against an environment.
func CheckExpr(expr *ast.Expr, opts Options) (types.Type, *Result) {
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
	return tc.infer(expr), tc.result
}

type checker struct {
	reporter diag.Reporter
	env      *symbols.Env
	reg      *units.Registry
	result   *Result
	errs     int
}

func (tc *checker) declareFn(fn *ast.FnDecl) {
	params := make([]types.Type, 0, len(fn.Params))
	for _, p := range fn.Params {
		params = append(params, tc.resolveType(p.Type))
	}
	ret := types.Void()
	if fn.Return != nil {
		ret = tc.resolveType(fn.Return)
	}
	tc.env.DefineFn(symbols.Signature{
		Name:   fn.Name,
		Params: params,
		Return: ret,
		Span:   fn.Span,
	})
}

func (tc *checker) checkDecl(decl *ast.Decl) {
	declared := tc.resolveType(decl.Type)
	tc.result.DeclTypes[decl.Name] = declared
	tc.env.Define(symbols.Symbol{Name: decl.Name, Type: declared, Span: decl.Span})

	if decl.Init != nil {
		before := tc.errs
		got := tc.infer(decl.Init)
		// an initializer that already failed gets no follow-on
		// assignment error; its recovered type is a guess
		if tc.errs == before {
			tc.checkAssignment(declared, got, decl.Init, decl.Init.Span)
		}
	}
}

func (tc *checker) checkAssignStmt(assign *ast.Assign) {
	before := tc.errs
	got := tc.infer(assign.Value)

	sym, ok := tc.env.Lookup(assign.Name)
	if !ok {
		tc.errorf(diag.TypUnknownSymbol, assign.Span, "use of undeclared name %s", assign.Name)
		return
	}
	if tc.errs == before {
		tc.checkAssignment(sym.Type, got, assign.Value, assign.Span)
	}
}

// errorf and warnf keep call sites terse. The error count lets the
// statement checkers tell whether a subtree already produced an error.
func (tc *checker) errorf(code diag.Code, span source.Span, format string, args ...any) {
	tc.errs++
	diag.ReportError(tc.reporter, code, span, fmt.Sprintf(format, args...)).Emit()
}

func (tc *checker) warnf(code diag.Code, span source.Span, format string, args ...any) {
	diag.ReportWarning(tc.reporter, code, span, fmt.Sprintf(format, args...)).Emit()
}

// name renders a type for diagnostics, preferring catalog unit symbols.
func (tc *checker) name(t types.Type) string {
	if t.IsUnit() {
		return tc.reg.NameFor(t.Unit)
	}
	return t.String()
}
