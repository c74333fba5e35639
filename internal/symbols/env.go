// Package symbols holds the symbol-type environment the external
// resolution collaborator hands to the checker: declared variables and
// function signatures, looked up through a lexical parent chain.
package symbols

import (
	"nestml/internal/source"
	"nestml/internal/types"
)

// Symbol is one resolved variable declaration.
type Symbol struct {
	Name string
	Type types.Type
	Span source.Span
}

// Signature is one resolved function declaration.
type Signature struct {
	Name   string
	Params []types.Type
	Return types.Type
	Span   source.Span
}

// Env is a lexical scope. Lookups walk toward the root.
type Env struct {
	parent *Env
	vars   map[string]Symbol
	fns    map[string]Signature
}

// NewEnv creates a scope, optionally nested in a parent.
func NewEnv(parent *Env) *Env {
	return &Env{
		parent: parent,
		vars:   make(map[string]Symbol),
		fns:    make(map[string]Signature),
	}
}

// Define records a variable in the current scope, shadowing outer ones.
func (e *Env) Define(sym Symbol) {
	e.vars[sym.Name] = sym
}

// DefineFn records a function signature in the current scope.
func (e *Env) DefineFn(sig Signature) {
	e.fns[sig.Name] = sig
}

// Lookup resolves a variable through the scope chain.
func (e *Env) Lookup(name string) (Symbol, bool) {
	for scope := e; scope != nil; scope = scope.parent {
		if sym, ok := scope.vars[name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// LookupFn resolves a function signature through the scope chain.
func (e *Env) LookupFn(name string) (Signature, bool) {
	for scope := e; scope != nil; scope = scope.parent {
		if sig, ok := scope.fns[name]; ok {
			return sig, true
		}
	}
	return Signature{}, false
}

// Child opens a nested scope.
func (e *Env) Child() *Env {
	return NewEnv(e)
}
