package expr

import (
	"fmt"

	"bridje/analyser-go/pkg/types"
)

// Children returns the direct sub-expressions of e in evaluation order.
func Children(e Expr) []Expr {
	switch node := e.(type) {
	case *If:
		return []Expr{node.Cond, node.Then, node.Else}
	case *Let:
		out := make([]Expr, 0, len(node.Bindings)+1)
		for _, binding := range node.Bindings {
			out = append(out, binding.Value)
		}
		return append(out, node.Body)
	case *Fn:
		return []Expr{node.Body}
	case *Def:
		return []Expr{node.Value}
	case *Do:
		return node.Exprs
	case *Call:
		out := make([]Expr, 0, len(node.Args)+1)
		out = append(out, node.Fn)
		return append(out, node.Args...)
	default:
		return nil
	}
}

// Walk visits e and its descendants pre-order. Returning false from visit
// skips the children of that node.
func Walk(e Expr, visit func(Expr) bool) {
	if e == nil || !visit(e) {
		return
	}
	for _, child := range Children(e) {
		Walk(child, visit)
	}
}

// Verify re-checks the typing rules over a whole tree and reports the first
// node whose type disagrees with its children.
func Verify(root Expr) error {
	var failure error
	Walk(root, func(e Expr) bool {
		if failure != nil {
			return false
		}
		if e.Type() == nil {
			failure = fmt.Errorf("expr: %T at %s has no type", e, e.Span())
			return false
		}
		failure = verifyNode(e)
		return failure == nil
	})
	return failure
}

func verifyNode(e Expr) error {
	switch node := e.(type) {
	case *If:
		if !types.Equal(node.Cond.Type(), types.Bool) {
			return fmt.Errorf("expr: if condition at %s has type %s", node.Span(), node.Cond.Type())
		}
		if !types.Equal(node.Then.Type(), node.Else.Type()) || !types.Equal(node.Type(), node.Then.Type()) {
			return fmt.Errorf("expr: if at %s has branches %s and %s", node.Span(), node.Then.Type(), node.Else.Type())
		}
	case *Let:
		for _, binding := range node.Bindings {
			if !types.Equal(binding.Local.Type, binding.Value.Type()) {
				return fmt.Errorf("expr: let binding '%s' at %s has type %s but value is %s",
					binding.Local.Name, node.Span(), binding.Local.Type, binding.Value.Type())
			}
		}
	case *LocalRef:
		if !types.Equal(node.Type(), node.Local.Type) {
			return fmt.Errorf("expr: reference to '%s' at %s has type %s", node.Local.Name, node.Span(), node.Type())
		}
	case *GlobalRef:
		if !types.Equal(node.Type(), node.Var.Type()) {
			return fmt.Errorf("expr: reference to '%s' at %s has type %s", node.Var.QualifiedName(), node.Span(), node.Type())
		}
	case *Def:
		if !types.Equal(node.Var.Type(), node.Value.Type()) {
			return fmt.Errorf("expr: def of '%s' at %s stores %s into %s",
				node.Var.QualifiedName(), node.Span(), node.Value.Type(), node.Var.Type())
		}
	case *Call:
		fnType, ok := node.Fn.Type().(types.FunctionType)
		if !ok {
			return fmt.Errorf("expr: call at %s applies non-function %s", node.Span(), node.Fn.Type())
		}
		if len(fnType.Params) != len(node.Args) {
			return fmt.Errorf("expr: call at %s passes %d arguments to %s", node.Span(), len(node.Args), fnType)
		}
		for i, arg := range node.Args {
			if !types.Equal(fnType.Params[i], arg.Type()) {
				return fmt.Errorf("expr: call at %s argument %d is %s, want %s", node.Span(), i+1, arg.Type(), fnType.Params[i])
			}
		}
	}
	return nil
}
