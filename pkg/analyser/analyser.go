// Package analyser turns forms into typed expressions. Symbols resolve to
// lexical locals or namespace vars; every sub-expression gets a concrete
// type; the first failure aborts the whole form.
package analyser

import (
	"errors"
	"fmt"

	"bridje/analyser-go/pkg/diag"
	"bridje/analyser-go/pkg/expr"
	"bridje/analyser-go/pkg/form"
	"bridje/analyser-go/pkg/runtime"
	"bridje/analyser-go/pkg/types"
)

// Analyse checks f in namespace ns with the given lexical scope. Vars that
// f declares are staged while it is analysed and registered in env only
// when the whole form succeeds, so a failed analysis leaves env untouched
// and concurrent analyses never see each other's unfinished declarations.
func Analyse(env *runtime.Environment, ns string, scope *Scope, f form.Form) (expr.Expr, error) {
	if env == nil {
		return nil, fmt.Errorf("analyser: environment is nil")
	}
	if ns == "" {
		return nil, fmt.Errorf("analyser: current namespace is empty")
	}
	a := &analysis{env: env, ns: ns, nextLocal: scope.MaxID()}
	result, err := a.analyse(scope, f)
	if err != nil {
		return nil, err
	}
	if err := a.commit(result); err != nil {
		var de *diag.Error
		if errors.As(err, &de) {
			return nil, de.WithSpan(f.Span())
		}
		return nil, err
	}
	return result, nil
}

// analysis is the state of one Analyse call. It is never shared.
type analysis struct {
	env       *runtime.Environment
	ns        string
	nextLocal int

	// pending holds vars declared by this analysis that env does not have
	// yet; staged keeps their declaration order.
	pending map[string]*runtime.Var
	staged  []*runtime.Var
}

func (a *analysis) analyse(scope *Scope, f form.Form) (expr.Expr, error) {
	switch node := f.(type) {
	case *form.Symbol:
		return a.analyseSymbol(scope, node)
	case form.Literal:
		return analyseLiteral(node)
	case *form.List:
		if len(node.Items) == 0 {
			return nil, diag.At(diag.MalformedForm, node, "analyser: cannot analyse an empty list")
		}
		if head, ok := node.Items[0].(*form.Symbol); ok {
			switch head.Name {
			case "if":
				return a.analyseIf(scope, node)
			case "let":
				return a.analyseLet(scope, node)
			case "fn":
				return a.analyseFn(scope, node)
			case "def":
				return a.analyseDef(scope, node)
			case "defx":
				return a.analyseDefx(node)
			case "do":
				return a.analyseDo(scope, node)
			}
		}
		return a.analyseApplication(scope, node)
	case *form.Vector:
		return nil, diag.At(diag.MalformedForm, node, "analyser: vectors are only valid as binding or parameter lists")
	case nil:
		return nil, fmt.Errorf("analyser: form is nil")
	default:
		return nil, diag.At(diag.MalformedForm, f, "analyser: unsupported form %T", f)
	}
}

// SpecialForms lists the head symbols handled by dedicated rules.
func SpecialForms() []string {
	return []string{"def", "defx", "do", "fn", "if", "let"}
}

// IsSpecialForm reports whether name selects a dedicated rule.
func IsSpecialForm(name string) bool {
	for _, special := range SpecialForms() {
		if special == name {
			return true
		}
	}
	return false
}

func (a *analysis) analyseSymbol(scope *Scope, sym *form.Symbol) (expr.Expr, error) {
	if local, ok := scope.Lookup(sym.Name); ok {
		return expr.NewLocalRef(sym.Span(), local), nil
	}
	if nsName, name, ok := sym.Qualified(); ok {
		if v, staged := a.pendingVar(nsName, name); staged {
			return expr.NewGlobalRef(sym.Span(), v), nil
		}
		ns, ok := a.env.Lookup(nsName)
		if !ok {
			return nil, diag.At(diag.UnknownNamespace, sym, "analyser: unknown namespace '%s' in '%s'", nsName, sym.Name)
		}
		v, ok := ns.Lookup(name)
		if !ok {
			return nil, diag.At(diag.UnresolvedSymbol, sym, "analyser: unresolved symbol '%s'", sym.Name)
		}
		return expr.NewGlobalRef(sym.Span(), v), nil
	}
	if v, staged := a.pendingVar(a.ns, sym.Name); staged {
		return expr.NewGlobalRef(sym.Span(), v), nil
	}
	v, err := a.env.Resolve(a.ns, sym.Name)
	if err != nil {
		return nil, diag.At(diag.UnresolvedSymbol, sym, "analyser: unresolved symbol '%s' in namespace '%s'", sym.Name, a.ns)
	}
	return expr.NewGlobalRef(sym.Span(), v), nil
}

func analyseLiteral(lit form.Literal) (expr.Expr, error) {
	switch node := lit.(type) {
	case *form.IntLiteral:
		return expr.NewLiteral(node.Span(), runtime.IntegerValue{Val: node.Value}), nil
	case *form.FloatLiteral:
		return expr.NewLiteral(node.Span(), runtime.FloatValue{Val: node.Value}), nil
	case *form.StringLiteral:
		return expr.NewLiteral(node.Span(), runtime.StringValue{Val: node.Value}), nil
	case *form.BoolLiteral:
		return expr.NewLiteral(node.Span(), runtime.BoolValue{Val: node.Value}), nil
	default:
		return nil, diag.At(diag.MalformedForm, lit, "analyser: unsupported literal %T", lit)
	}
}

func (a *analysis) newLocal(name string, typ types.Type) *expr.Local {
	a.nextLocal++
	return &expr.Local{Name: name, Type: typ, ID: a.nextLocal}
}

func (a *analysis) pendingVar(ns, name string) (*runtime.Var, bool) {
	if ns != a.ns {
		return nil, false
	}
	v, ok := a.pending[name]
	return v, ok
}

// declare returns the var name denotes in the current namespace: one staged
// earlier by this analysis, one already registered, or a newly staged var.
// A different type than the existing declaration fails with VarTypeConflict.
func (a *analysis) declare(name string, typ types.Type) (*runtime.Var, error) {
	existing, ok := a.pending[name]
	if !ok {
		if ns, found := a.env.Lookup(a.ns); found {
			existing, ok = ns.Lookup(name)
		}
	}
	if ok {
		if !types.Equal(existing.Type(), typ) {
			de := diag.Errorf(diag.VarTypeConflict, "analyser: '%s/%s' is already declared as %s, cannot redeclare as %s",
				a.ns, name, existing.Type(), typ)
			de.Expected = existing.Type().String()
			de.Actual = typ.String()
			return nil, de
		}
		return existing, nil
	}
	v, err := runtime.NewVar(a.ns, name, typ)
	if err != nil {
		return nil, err
	}
	if a.pending == nil {
		a.pending = make(map[string]*runtime.Var)
	}
	a.pending[name] = v
	a.staged = append(a.staged, v)
	return v, nil
}

// commit registers the staged vars. When another analysis registered the
// same name first, result is repointed at the registered var.
func (a *analysis) commit(result expr.Expr) error {
	if len(a.staged) == 0 {
		return nil
	}
	replaced, err := a.env.Namespace(a.ns).Commit(a.staged)
	if err != nil {
		return err
	}
	if len(replaced) == 0 {
		return nil
	}
	expr.Walk(result, func(e expr.Expr) bool {
		switch node := e.(type) {
		case *expr.GlobalRef:
			if v, ok := replaced[node.Var]; ok {
				node.Var = v
			}
		case *expr.Def:
			if v, ok := replaced[node.Var]; ok {
				node.Var = v
			}
		case *expr.Decl:
			if v, ok := replaced[node.Var]; ok {
				node.Var = v
			}
		}
		return true
	})
	return nil
}
