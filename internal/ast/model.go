package ast

import (
	"nestml/internal/source"
)

// Decl is one declaration: name, declared type, optional initializer.
type Decl struct {
	Name string
	Type *TypeExpr
	Init *Expr
	Span source.Span
}

// Param is a typed function parameter.
type Param struct {
	Name string
	Type *TypeExpr
	Span source.Span
}

// FnDecl declares a function signature. Bodies are the code generator's
// concern; the checker only needs the declared types.
type FnDecl struct {
	Name   string
	Params []Param
	Return *TypeExpr
	Span   source.Span
}

// Assign is an assignment to a previously declared name.
type Assign struct {
	Name  string
	Value *Expr
	Span  source.Span
}

// Model is one compilation unit: ordered declarations, function
// signatures and assignments, as resolved by the external front end.
type Model struct {
	Name    string
	Decls   []*Decl
	Fns     []*FnDecl
	Assigns []*Assign
	Span    source.Span
}
