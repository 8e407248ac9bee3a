package types

import (
	"bridje/analyser-go/pkg/diag"
	"bridje/analyser-go/pkg/form"
)

// FromForm reads a type annotation: a primitive name such as `Int`, or
// `(-> P1 ... Pn R)` for a function type.
func FromForm(f form.Form) (Type, error) {
	switch node := f.(type) {
	case *form.Symbol:
		if typ, ok := Primitive(node.Name); ok {
			return typ, nil
		}
		return nil, diag.At(diag.MalformedForm, node, "types: unknown type '%s'", node.Name)
	case *form.List:
		head, ok := node.Head().(*form.Symbol)
		if !ok || head.Name != FunctionArrow {
			return nil, diag.At(diag.MalformedForm, node, "types: expected (-> params... return), got %s", node)
		}
		if len(node.Items) < 2 {
			return nil, diag.At(diag.MalformedForm, node, "types: function type needs a return type")
		}
		resolved := make([]Type, 0, len(node.Items)-1)
		for _, item := range node.Items[1:] {
			typ, err := FromForm(item)
			if err != nil {
				return nil, err
			}
			resolved = append(resolved, typ)
		}
		return Fn(resolved...), nil
	default:
		return nil, diag.At(diag.MalformedForm, f, "types: expected a type, got %s", form.Describe(f))
	}
}
