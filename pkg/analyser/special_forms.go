package analyser

import (
	"errors"

	"bridje/analyser-go/pkg/diag"
	"bridje/analyser-go/pkg/expr"
	"bridje/analyser-go/pkg/form"
	"bridje/analyser-go/pkg/types"
)

const (
	ifShape   = "(if condition then else)"
	letShape  = "(let [name value ...] body)"
	fnShape   = "(fn [param Type ...] body)"
	defShape  = "(def name value)"
	defxShape = "(defx name Type)"
	doShape   = "(do expr ...)"
)

func malformed(f form.Form, shape string, format string, args ...any) error {
	err := diag.At(diag.MalformedForm, f, format, args...)
	err.Message = "analyser: " + err.Message + ", expected " + shape
	return err
}

func (a *analysis) analyseIf(scope *Scope, list *form.List) (expr.Expr, error) {
	if len(list.Items) != 4 {
		return nil, malformed(list, ifShape, "if takes 3 forms, got %d", len(list.Items)-1)
	}
	cond, err := a.analyse(scope, list.Items[1])
	if err != nil {
		return nil, err
	}
	if !types.Equal(cond.Type(), types.Bool) {
		de := diag.At(diag.TypeMismatch, list.Items[1], "analyser: if condition must be Bool, got %s", cond.Type())
		de.Expected = types.Bool.String()
		de.Actual = cond.Type().String()
		return nil, de
	}
	then, err := a.analyse(scope, list.Items[2])
	if err != nil {
		return nil, err
	}
	els, err := a.analyse(scope, list.Items[3])
	if err != nil {
		return nil, err
	}
	if !types.Equal(then.Type(), els.Type()) {
		de := diag.At(diag.BranchTypeMismatch, list, "analyser: if branches disagree: then is %s, else is %s", then.Type(), els.Type())
		de.Expected = then.Type().String()
		de.Actual = els.Type().String()
		return nil, de
	}
	return expr.NewIf(list.Span(), cond, then, els), nil
}

func (a *analysis) analyseLet(scope *Scope, list *form.List) (expr.Expr, error) {
	if len(list.Items) != 3 {
		return nil, malformed(list, letShape, "let takes a binding vector and a body, got %d forms", len(list.Items)-1)
	}
	pairs, err := bindingPairs(list.Items[1], letShape)
	if err != nil {
		return nil, err
	}
	inner := scope
	bindings := make([]expr.LetBinding, 0, len(pairs))
	for _, pair := range pairs {
		value, err := a.analyse(inner, pair.value)
		if err != nil {
			return nil, err
		}
		local := a.newLocal(pair.name.Name, value.Type())
		bindings = append(bindings, expr.LetBinding{Local: local, Value: value})
		inner = inner.Extend(local)
	}
	body, err := a.analyse(inner, list.Items[2])
	if err != nil {
		return nil, err
	}
	return expr.NewLet(list.Span(), bindings, body), nil
}

func (a *analysis) analyseFn(scope *Scope, list *form.List) (expr.Expr, error) {
	if len(list.Items) != 3 {
		return nil, malformed(list, fnShape, "fn takes a parameter vector and a body, got %d forms", len(list.Items)-1)
	}
	pairs, err := bindingPairs(list.Items[1], fnShape)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(pairs))
	params := make([]*expr.Local, 0, len(pairs))
	for _, pair := range pairs {
		if _, dup := seen[pair.name.Name]; dup {
			return nil, malformed(pair.name, fnShape, "duplicate parameter '%s'", pair.name.Name)
		}
		seen[pair.name.Name] = struct{}{}
		typ, err := types.FromForm(pair.value)
		if err != nil {
			return nil, err
		}
		params = append(params, a.newLocal(pair.name.Name, typ))
	}
	body, err := a.analyse(scope.Extend(params...), list.Items[2])
	if err != nil {
		return nil, err
	}
	return expr.NewFn(list.Span(), params, body), nil
}

func (a *analysis) analyseDef(scope *Scope, list *form.List) (expr.Expr, error) {
	if len(list.Items) != 3 {
		return nil, malformed(list, defShape, "def takes a name and a value, got %d forms", len(list.Items)-1)
	}
	name, err := definitionName(list.Items[1], defShape)
	if err != nil {
		return nil, err
	}
	value, err := a.analyse(scope, list.Items[2])
	if err != nil {
		return nil, err
	}
	v, err := a.declare(name.Name, value.Type())
	if err != nil {
		var de *diag.Error
		if errors.As(err, &de) && de.Kind == diag.VarTypeConflict {
			mismatch := diag.At(diag.TypeMismatch, list.Items[2],
				"analyser: cannot define '%s/%s' as %s, it is declared as %s", a.ns, name.Name, de.Actual, de.Expected)
			mismatch.Expected = de.Expected
			mismatch.Actual = de.Actual
			return nil, mismatch
		}
		return nil, err
	}
	return expr.NewDef(list.Span(), v, value), nil
}

func (a *analysis) analyseDefx(list *form.List) (expr.Expr, error) {
	if len(list.Items) != 3 {
		return nil, malformed(list, defxShape, "defx takes a name and a type, got %d forms", len(list.Items)-1)
	}
	name, err := definitionName(list.Items[1], defxShape)
	if err != nil {
		return nil, err
	}
	typ, err := types.FromForm(list.Items[2])
	if err != nil {
		return nil, err
	}
	v, err := a.declare(name.Name, typ)
	if err != nil {
		var de *diag.Error
		if errors.As(err, &de) {
			return nil, de.WithSpan(list.Span())
		}
		return nil, err
	}
	return expr.NewDecl(list.Span(), v), nil
}

func (a *analysis) analyseDo(scope *Scope, list *form.List) (expr.Expr, error) {
	if len(list.Items) < 2 {
		return nil, malformed(list, doShape, "do needs at least one form")
	}
	exprs := make([]expr.Expr, 0, len(list.Items)-1)
	for _, item := range list.Items[1:] {
		e, err := a.analyse(scope, item)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return expr.NewDo(list.Span(), exprs), nil
}

type bindingPair struct {
	name  *form.Symbol
	value form.Form
}

// bindingPairs reads `[name form name form ...]`.
func bindingPairs(f form.Form, shape string) ([]bindingPair, error) {
	vec, ok := f.(*form.Vector)
	if !ok {
		return nil, malformed(f, shape, "expected a binding vector, got %s", form.Describe(f))
	}
	if len(vec.Items)%2 != 0 {
		return nil, malformed(vec, shape, "binding vector needs an even number of forms, got %d", len(vec.Items))
	}
	pairs := make([]bindingPair, 0, len(vec.Items)/2)
	for i := 0; i < len(vec.Items); i += 2 {
		name, ok := vec.Items[i].(*form.Symbol)
		if !ok {
			return nil, malformed(vec.Items[i], shape, "binding name must be a symbol, got %s", form.Describe(vec.Items[i]))
		}
		if _, _, qualified := name.Qualified(); qualified {
			return nil, malformed(name, shape, "binding name '%s' cannot be namespace-qualified", name.Name)
		}
		if IsSpecialForm(name.Name) {
			return nil, malformed(name, shape, "cannot bind special form '%s'", name.Name)
		}
		pairs = append(pairs, bindingPair{name: name, value: vec.Items[i+1]})
	}
	return pairs, nil
}

func definitionName(f form.Form, shape string) (*form.Symbol, error) {
	name, ok := f.(*form.Symbol)
	if !ok {
		return nil, malformed(f, shape, "definition name must be a symbol, got %s", form.Describe(f))
	}
	if _, _, qualified := name.Qualified(); qualified {
		return nil, malformed(name, shape, "definition name '%s' cannot be namespace-qualified", name.Name)
	}
	if IsSpecialForm(name.Name) {
		return nil, malformed(name, shape, "cannot define special form '%s'", name.Name)
	}
	return name, nil
}
