package ast

// Tree-search primitives over expression trees. Downstream passes need
// complete, ordered match lists, so FindAll materializes eagerly.

// FindAll returns every node satisfying pred, in pre-order.
func FindAll(root *Expr, pred func(*Expr) bool) []*Expr {
	var out []*Expr
	walk(root, func(e *Expr) bool {
		if pred(e) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// FindFirst returns the first pre-order node satisfying pred.
func FindFirst(root *Expr, pred func(*Expr) bool) (*Expr, bool) {
	var found *Expr
	walk(root, func(e *Expr) bool {
		if pred(e) {
			found = e
			return false
		}
		return true
	})
	return found, found != nil
}

// FindParent returns the ancestor of node whose children include it.
// Pre-order scan over candidate ancestors; O(N) per query, fine for the
// small per-model trees this checker sees.
func FindParent(node, root *Expr) (*Expr, bool) {
	var parent *Expr
	walk(root, func(candidate *Expr) bool {
		for _, kid := range candidate.Children() {
			if kid == node {
				parent = candidate
				return false
			}
		}
		return true
	})
	return parent, parent != nil
}

// KindIs builds the usual find-all-of-kind predicate.
func KindIs(kind ExprKind) func(*Expr) bool {
	return func(e *Expr) bool { return e.Kind == kind }
}

// walk visits in pre-order; visit returning false stops the traversal.
func walk(root *Expr, visit func(*Expr) bool) {
	if root == nil {
		return
	}
	stack := []*Expr{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		if !visit(n) {
			return
		}
		kids := n.Children()
		// push in reverse so the leftmost child pops first
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
}
