package driver

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"nestml/internal/ast"
	"nestml/internal/diag"
	"nestml/internal/source"
	"nestml/internal/units"
	"nestml/internal/unitsyntax"
)

// A model arrives as a JSON dump emitted by the surface front end: the
// declarations, functions and assignments that carry typing content,
// plus the original model text so diagnostics can point into it. Type
// positions use the compact textual form ("pF", "nS*ms/pF", "real").
type modelFile struct {
	Model        string       `json:"model"`
	Source       string       `json:"source,omitempty"`
	Declarations []declNode   `json:"declarations,omitempty"`
	Functions    []fnNode     `json:"functions,omitempty"`
	Assignments  []assignNode `json:"assignments,omitempty"`
}

type declNode struct {
	Name string     `json:"name"`
	Type string     `json:"type"`
	Init *exprNode  `json:"init,omitempty"`
	Span *[2]uint32 `json:"span,omitempty"`
}

type fnNode struct {
	Name   string      `json:"name"`
	Params []paramNode `json:"params,omitempty"`
	Return string      `json:"return,omitempty"`
	Span   *[2]uint32  `json:"span,omitempty"`
}

type paramNode struct {
	Name string     `json:"name"`
	Type string     `json:"type"`
	Span *[2]uint32 `json:"span,omitempty"`
}

type assignNode struct {
	Target string     `json:"target"`
	Value  *exprNode  `json:"value"`
	Span   *[2]uint32 `json:"span,omitempty"`
}

// exprNode is the union of all expression shapes; exactly one variant
// is populated per node.
type exprNode struct {
	Span *[2]uint32 `json:"span,omitempty"`

	Int  *int64   `json:"int,omitempty"`
	Real *float64 `json:"real,omitempty"`
	Bool *bool    `json:"bool,omitempty"`
	Str  *string  `json:"string,omitempty"`
	Unit string   `json:"unit,omitempty"` // surface literal, e.g. "70mV"
	Var  string   `json:"var,omitempty"`

	Unary   string    `json:"unary,omitempty"`
	Operand *exprNode `json:"operand,omitempty"`

	Binary string    `json:"binary,omitempty"`
	Left   *exprNode `json:"left,omitempty"`
	Right  *exprNode `json:"right,omitempty"`

	Cond *exprNode `json:"cond,omitempty"`
	Then *exprNode `json:"then,omitempty"`
	Else *exprNode `json:"else,omitempty"`

	Call string      `json:"call,omitempty"`
	Args []*exprNode `json:"args,omitempty"`
}

// LoadModel reads one model dump from disk. IO and decode failures
// become diagnostics in the returned bag, never a crash; a nil model
// means there was nothing checkable.
func LoadModel(fileSet *source.FileSet, path string, maxDiagnostics int) (*ast.Model, source.FileID, *diag.Bag) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		bag := diag.NewBag(maxDiagnostics)
		code := diag.IOModelDecode
		if errors.Is(err, os.ErrNotExist) {
			code = diag.IOFileNotFound
		}
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     code,
			Message:  fmt.Sprintf("cannot read model: %v", err),
		})
		return nil, 0, bag
	}
	return DecodeModel(fileSet, path, data, maxDiagnostics)
}

// DecodeModel decodes an in-memory dump under the given path label.
func DecodeModel(fileSet *source.FileSet, path string, data []byte, maxDiagnostics int) (*ast.Model, source.FileID, *diag.Bag) {
	bag := diag.NewBag(maxDiagnostics)

	var mf modelFile
	if err := json.Unmarshal(data, &mf); err != nil {
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.IOModelDecode,
			Message:  fmt.Sprintf("model %s: %v", path, err),
		})
		return nil, 0, bag
	}

	// Spans in the dump index into the original model text; register it
	// so diagnostics resolve to line:col. Dumps without the text fall
	// back to the JSON bytes and empty spans.
	var fileID source.FileID
	if mf.Source != "" {
		fileID = fileSet.AddVirtual(path, []byte(mf.Source))
	} else {
		fileID = fileSet.AddVirtual(path, data)
	}

	d := &modelDecoder{fileID: fileID, bag: bag}
	model := d.decode(&mf)
	return model, fileID, bag
}

type modelDecoder struct {
	fileID source.FileID
	bag    *diag.Bag
	broken bool
}

func (d *modelDecoder) span(raw *[2]uint32) source.Span {
	if raw == nil {
		return source.Span{File: d.fileID}
	}
	return source.Span{File: d.fileID, Start: raw[0], End: raw[1]}
}

func (d *modelDecoder) errorf(span source.Span, format string, args ...any) {
	d.broken = true
	d.bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.IOModelDecode,
		Message:  fmt.Sprintf(format, args...),
		Primary:  span,
	})
}

func (d *modelDecoder) decode(mf *modelFile) *ast.Model {
	model := &ast.Model{Name: mf.Model}

	for i := range mf.Functions {
		fn := &mf.Functions[i]
		out := &ast.FnDecl{Name: fn.Name, Span: d.span(fn.Span)}
		for j := range fn.Params {
			p := &fn.Params[j]
			out.Params = append(out.Params, ast.Param{
				Name: p.Name,
				Type: d.typeExpr(p.Type, d.span(p.Span)),
				Span: d.span(p.Span),
			})
		}
		if fn.Return != "" {
			out.Return = d.typeExpr(fn.Return, d.span(fn.Span))
		}
		model.Fns = append(model.Fns, out)
	}

	for i := range mf.Declarations {
		decl := &mf.Declarations[i]
		out := &ast.Decl{
			Name: decl.Name,
			Type: d.typeExpr(decl.Type, d.span(decl.Span)),
			Span: d.span(decl.Span),
		}
		if decl.Init != nil {
			out.Init = d.expr(decl.Init)
		}
		model.Decls = append(model.Decls, out)
	}

	for i := range mf.Assignments {
		as := &mf.Assignments[i]
		if as.Value == nil {
			d.errorf(d.span(as.Span), "assignment to %s has no value", as.Target)
			continue
		}
		model.Assigns = append(model.Assigns, &ast.Assign{
			Name:  as.Target,
			Value: d.expr(as.Value),
			Span:  d.span(as.Span),
		})
	}

	if d.broken && len(model.Decls) == 0 && len(model.Assigns) == 0 && len(model.Fns) == 0 {
		return nil
	}
	return model
}

// typeExpr reads a compact type string and rebases its spans onto the
// surrounding declaration, since offsets inside the string are
// meaningless in the model text.
func (d *modelDecoder) typeExpr(s string, span source.Span) *ast.TypeExpr {
	if s == "" {
		return nil
	}
	te, err := unitsyntax.Parse(s)
	if err != nil {
		d.errorf(span, "bad type %q: %v", s, err)
		return ast.NewPrimitiveType(span, ast.PrimReal)
	}
	rebaseTypeSpans(te, span)
	return te
}

func rebaseTypeSpans(te *ast.TypeExpr, span source.Span) {
	if te == nil {
		return
	}
	te.Span = span
	rebaseTypeSpans(te.Left, span)
	rebaseTypeSpans(te.Right, span)
}

var unaryOps = map[string]ast.UnaryOp{
	"-": ast.OpNeg, "+": ast.OpPos, "not": ast.OpNot,
}

var binaryOps = map[string]ast.BinaryOp{
	"+": ast.OpAdd, "-": ast.OpSub, "*": ast.OpMul, "/": ast.OpDiv,
	"**": ast.OpPow, "==": ast.OpEq, "!=": ast.OpNe,
	"<": ast.OpLt, "<=": ast.OpLe, ">": ast.OpGt, ">=": ast.OpGe,
	"and": ast.OpAnd, "or": ast.OpOr,
}

func (d *modelDecoder) expr(n *exprNode) *ast.Expr {
	span := d.span(n.Span)

	switch {
	case n.Int != nil:
		return ast.NewIntLiteral(span, *n.Int)
	case n.Real != nil:
		return ast.NewRealLiteral(span, *n.Real)
	case n.Bool != nil:
		return ast.NewBoolLiteral(span, *n.Bool)
	case n.Str != nil:
		return ast.NewStringLiteral(span, *n.Str)

	case n.Unit != "":
		value, symbol, err := units.SplitLiteral(n.Unit)
		if err != nil {
			d.errorf(span, "%v", err)
			return ast.NewRealLiteral(span, 0)
		}
		return ast.NewUnitLiteral(span, value, symbol)

	case n.Var != "":
		return ast.NewVarRef(span, n.Var)

	case n.Unary != "":
		op, ok := unaryOps[n.Unary]
		if !ok || n.Operand == nil {
			d.errorf(span, "bad unary node %q", n.Unary)
			return ast.NewRealLiteral(span, 0)
		}
		return ast.NewUnary(span, op, d.expr(n.Operand))

	case n.Binary != "":
		op, ok := binaryOps[n.Binary]
		if !ok || n.Left == nil || n.Right == nil {
			d.errorf(span, "bad binary node %q", n.Binary)
			return ast.NewRealLiteral(span, 0)
		}
		return ast.NewBinary(span, op, d.expr(n.Left), d.expr(n.Right))

	case n.Cond != nil:
		if n.Then == nil || n.Else == nil {
			d.errorf(span, "conditional node is missing a branch")
			return ast.NewRealLiteral(span, 0)
		}
		return ast.NewTernary(span, d.expr(n.Cond), d.expr(n.Then), d.expr(n.Else))

	case n.Call != "":
		args := make([]*ast.Expr, 0, len(n.Args))
		for _, a := range n.Args {
			args = append(args, d.expr(a))
		}
		return ast.NewCall(span, n.Call, args...)

	default:
		d.errorf(span, "expression node has no recognized variant")
		return ast.NewRealLiteral(span, 0)
	}
}
