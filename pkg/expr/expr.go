// Package expr is the typed tree produced by the analyser and consumed by an
// evaluator. Every node carries its resolved type and the span of the form it
// was analysed from. Constructors derive a node's type from its children, so a
// node's type cannot disagree with the subtree it was built from.
package expr

import (
	"bridje/analyser-go/pkg/form"
	"bridje/analyser-go/pkg/runtime"
	"bridje/analyser-go/pkg/types"
)

// Expr is a typed expression node.
type Expr interface {
	Type() types.Type
	Span() form.Span
	exprNode()
}

type exprImpl struct {
	typ  types.Type
	span form.Span
}

func (e exprImpl) Type() types.Type { return e.typ }
func (e exprImpl) Span() form.Span  { return e.span }
func (exprImpl) exprNode()          {}

// Local is the slot identity of a let- or fn-bound name. IDs are unique within
// one analysis so an evaluator can allocate frames without re-resolving names.
type Local struct {
	Name string
	Type types.Type
	ID   int
}

type Literal struct {
	exprImpl
	Value runtime.Value
}

func NewLiteral(span form.Span, value runtime.Value) *Literal {
	return &Literal{exprImpl: exprImpl{typ: value.Type(), span: span}, Value: value}
}

type LocalRef struct {
	exprImpl
	Local *Local
}

func NewLocalRef(span form.Span, local *Local) *LocalRef {
	return &LocalRef{exprImpl: exprImpl{typ: local.Type, span: span}, Local: local}
}

// GlobalRef refers to a namespace var; its type is the var's declared type.
type GlobalRef struct {
	exprImpl
	Var *runtime.Var
}

func NewGlobalRef(span form.Span, v *runtime.Var) *GlobalRef {
	return &GlobalRef{exprImpl: exprImpl{typ: v.Type(), span: span}, Var: v}
}

type If struct {
	exprImpl
	Cond Expr
	Then Expr
	Else Expr
}

func NewIf(span form.Span, cond, then, els Expr) *If {
	return &If{exprImpl: exprImpl{typ: then.Type(), span: span}, Cond: cond, Then: then, Else: els}
}

type LetBinding struct {
	Local *Local
	Value Expr
}

type Let struct {
	exprImpl
	Bindings []LetBinding
	Body     Expr
}

func NewLet(span form.Span, bindings []LetBinding, body Expr) *Let {
	return &Let{exprImpl: exprImpl{typ: body.Type(), span: span}, Bindings: bindings, Body: body}
}

type Fn struct {
	exprImpl
	Params []*Local
	Body   Expr
}

func NewFn(span form.Span, params []*Local, body Expr) *Fn {
	paramTypes := make([]types.Type, len(params))
	for i, param := range params {
		paramTypes[i] = param.Type
	}
	typ := types.FunctionType{Params: paramTypes, Return: body.Type()}
	return &Fn{exprImpl: exprImpl{typ: typ, span: span}, Params: params, Body: body}
}

// FunctionType returns the node's type as a function type.
func (f *Fn) FunctionType() types.FunctionType {
	return f.typ.(types.FunctionType)
}

// Def binds the analysed value to a namespace var. Binding the runtime value
// is left to the evaluator.
type Def struct {
	exprImpl
	Var   *runtime.Var
	Value Expr
}

func NewDef(span form.Span, v *runtime.Var, value Expr) *Def {
	return &Def{exprImpl: exprImpl{typ: value.Type(), span: span}, Var: v, Value: value}
}

// Decl is a forward declaration; it has the declared type and no value.
type Decl struct {
	exprImpl
	Var *runtime.Var
}

func NewDecl(span form.Span, v *runtime.Var) *Decl {
	return &Decl{exprImpl: exprImpl{typ: v.Type(), span: span}, Var: v}
}

type Do struct {
	exprImpl
	Exprs []Expr
}

func NewDo(span form.Span, exprs []Expr) *Do {
	return &Do{exprImpl: exprImpl{typ: exprs[len(exprs)-1].Type(), span: span}, Exprs: exprs}
}

type Call struct {
	exprImpl
	Fn   Expr
	Args []Expr
}

func NewCall(span form.Span, fn Expr, args []Expr) *Call {
	var result types.Type
	if fnType, ok := fn.Type().(types.FunctionType); ok {
		result = fnType.Return
	}
	return &Call{exprImpl: exprImpl{typ: result, span: span}, Fn: fn, Args: args}
}
