// Package unitsyntax reads the compact textual form of a type
// expression — "mV", "pF*mV/ms", "mV**2", "(nS*ms)/pF", "real" — into
// an ast.TypeExpr. It is a reader for type positions only, not a
// modeling-language parser.
package unitsyntax

import (
	"fmt"

	"fortio.org/safecast"

	"nestml/internal/ast"
	"nestml/internal/source"
)

// ParseError carries the byte offset of the first offending character.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("type expression: %s at offset %d", e.Msg, e.Offset)
}

// Parse reads a full type expression; trailing input is an error.
// Spans index into the input string with file id 0.
func Parse(input string) (*ast.TypeExpr, error) {
	r := &reader{src: input}
	r.skipSpace()
	te, err := r.parseExpr()
	if err != nil {
		return nil, err
	}
	r.skipSpace()
	if !r.eof() {
		return nil, r.errf("unexpected %q", rune(r.peek()))
	}
	return te, nil
}

type reader struct {
	src string
	off int
}

func (r *reader) eof() bool  { return r.off >= len(r.src) }
func (r *reader) peek() byte { return r.src[r.off] }

func (r *reader) errf(format string, args ...any) error {
	return &ParseError{Offset: r.off, Msg: fmt.Sprintf(format, args...)}
}

func (r *reader) skipSpace() {
	for !r.eof() && (r.peek() == ' ' || r.peek() == '\t') {
		r.off++
	}
}

func (r *reader) span(start int) source.Span {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(fmt.Errorf("unreachable: span start overflow: %w", err))
	}
	e, err := safecast.Conv[uint32](r.off)
	if err != nil {
		panic(fmt.Errorf("unreachable: span end overflow: %w", err))
	}
	return source.Span{File: 0, Start: s, End: e}
}

// expr := term (('*' | '/') term)*   left-associative
func (r *reader) parseExpr() (*ast.TypeExpr, error) {
	start := r.off
	left, err := r.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		r.skipSpace()
		if r.eof() {
			return left, nil
		}
		switch r.peek() {
		case '*':
			// '**' binds inside parseTerm; a lone '*' here is multiplication
			if r.off+1 < len(r.src) && r.src[r.off+1] == '*' {
				return nil, r.errf("'**' may only follow a unit symbol or group")
			}
			r.off++
			r.skipSpace()
			right, err := r.parseTerm()
			if err != nil {
				return nil, err
			}
			left = ast.NewMulType(r.span(start), left, right)
		case '/':
			r.off++
			r.skipSpace()
			right, err := r.parseTerm()
			if err != nil {
				return nil, err
			}
			left = ast.NewDivType(r.span(start), left, right)
		default:
			return left, nil
		}
	}
}

// term := atom ['**' signedInt]
func (r *reader) parseTerm() (*ast.TypeExpr, error) {
	start := r.off
	atom, err := r.parseAtom()
	if err != nil {
		return nil, err
	}
	r.skipSpace()
	if r.off+1 < len(r.src) && r.peek() == '*' && r.src[r.off+1] == '*' {
		r.off += 2
		r.skipSpace()
		exp, err := r.parseSignedInt()
		if err != nil {
			return nil, err
		}
		return ast.NewPowType(r.span(start), atom, exp), nil
	}
	return atom, nil
}

// atom := '(' expr ')' | ident
func (r *reader) parseAtom() (*ast.TypeExpr, error) {
	if r.eof() {
		return nil, r.errf("unexpected end of input")
	}
	if r.peek() == '(' {
		r.off++
		r.skipSpace()
		inner, err := r.parseExpr()
		if err != nil {
			return nil, err
		}
		r.skipSpace()
		if r.eof() || r.peek() != ')' {
			return nil, r.errf("missing ')'")
		}
		r.off++
		return inner, nil
	}
	return r.parseIdent()
}

var primitives = map[string]ast.Primitive{
	"integer": ast.PrimInteger,
	"real":    ast.PrimReal,
	"boolean": ast.PrimBoolean,
	"string":  ast.PrimString,
	"void":    ast.PrimVoid,
}

// parseIdent reads a unit symbol or primitive name. Symbols may start
// with a micro sign, so any non-ASCII byte is taken as part of the
// identifier and left to the registry to judge.
func (r *reader) parseIdent() (*ast.TypeExpr, error) {
	start := r.off
	for !r.eof() && isIdentByte(r.peek()) {
		r.off++
	}
	if r.off == start {
		return nil, r.errf("expected a unit symbol or primitive name, found %q", rune(r.peek()))
	}
	name := r.src[start:r.off]
	if prim, ok := primitives[name]; ok {
		return ast.NewPrimitiveType(r.span(start), prim), nil
	}
	return ast.NewUnitSymbolType(r.span(start), name), nil
}

func (r *reader) parseSignedInt() (int, error) {
	start := r.off
	neg := false
	if !r.eof() && (r.peek() == '-' || r.peek() == '+') {
		neg = r.peek() == '-'
		r.off++
	}
	n := 0
	digits := 0
	for !r.eof() && r.peek() >= '0' && r.peek() <= '9' {
		n = n*10 + int(r.peek()-'0')
		if n > 1<<16 {
			r.off = start
			return 0, r.errf("exponent out of range")
		}
		r.off++
		digits++
	}
	if digits == 0 {
		return 0, r.errf("expected an integer exponent")
	}
	if neg {
		n = -n
	}
	return n, nil
}

func isIdentByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b == '_':
		return true
	case b >= 0x80:
		// multi-byte rune, e.g. the micro sign in "µV"
		return true
	default:
		return false
	}
}
