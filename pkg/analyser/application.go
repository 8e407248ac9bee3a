package analyser

import (
	"bridje/analyser-go/pkg/diag"
	"bridje/analyser-go/pkg/expr"
	"bridje/analyser-go/pkg/form"
	"bridje/analyser-go/pkg/types"
)

// analyseApplication handles `(f arg ...)`: f must be function-typed, the
// argument count must match exactly and each argument must equal its
// parameter type. There is no partial application and no variadic call.
func (a *analysis) analyseApplication(scope *Scope, list *form.List) (expr.Expr, error) {
	head := list.Items[0]
	fn, err := a.analyse(scope, head)
	if err != nil {
		return nil, err
	}
	fnType, ok := fn.Type().(types.FunctionType)
	if !ok {
		de := diag.At(diag.NotCallable, head, "analyser: %s is not callable, it has type %s", head, fn.Type())
		de.Actual = fn.Type().String()
		return nil, de
	}

	argForms := list.Items[1:]
	args := make([]expr.Expr, 0, len(argForms))
	for _, argForm := range argForms {
		arg, err := a.analyse(scope, argForm)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	if len(args) != len(fnType.Params) {
		de := diag.At(diag.ArityMismatch, list, "analyser: %s expects %d %s, got %d",
			head, len(fnType.Params), pluralArguments(len(fnType.Params)), len(args))
		de.Expected = fnType.String()
		return nil, de
	}
	for i, arg := range args {
		if err := types.Unify(fnType.Params[i], arg.Type()); err != nil {
			de := diag.At(diag.TypeMismatch, argForms[i], "analyser: argument %d to %s: expected %s, got %s",
				i+1, head, fnType.Params[i], arg.Type())
			de.Position = i + 1
			de.Expected = fnType.Params[i].String()
			de.Actual = arg.Type().String()
			return nil, de
		}
	}
	return expr.NewCall(list.Span(), fn, args), nil
}

func pluralArguments(n int) string {
	if n == 1 {
		return "argument"
	}
	return "arguments"
}
