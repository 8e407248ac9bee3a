// Package types is the type algebra of the analyser: primitive types and
// function types, compared structurally. There is no subtyping and no
// coercion; equality is the only relation.
package types

import (
	"strings"

	"bridje/analyser-go/pkg/diag"
)

// Type represents a type understood by the analyser. The set of
// implementations is closed.
type Type interface {
	Name() string
	String() string
	sealed()
}

type PrimitiveKind string

const (
	PrimitiveInt    PrimitiveKind = "Int"
	PrimitiveFloat  PrimitiveKind = "Float"
	PrimitiveString PrimitiveKind = "String"
	PrimitiveBool   PrimitiveKind = "Bool"
)

type PrimitiveType struct {
	Kind PrimitiveKind
}

func (p PrimitiveType) Name() string   { return string(p.Kind) }
func (p PrimitiveType) String() string { return string(p.Kind) }
func (PrimitiveType) sealed()          {}

var (
	Int    Type = PrimitiveType{Kind: PrimitiveInt}
	Float  Type = PrimitiveType{Kind: PrimitiveFloat}
	String Type = PrimitiveType{Kind: PrimitiveString}
	Bool   Type = PrimitiveType{Kind: PrimitiveBool}
)

var primitivesByName = map[string]Type{
	string(PrimitiveInt):    Int,
	string(PrimitiveFloat):  Float,
	string(PrimitiveString): String,
	string(PrimitiveBool):   Bool,
}

// Primitive looks up a primitive type by its source name.
func Primitive(name string) (Type, bool) {
	typ, ok := primitivesByName[name]
	return typ, ok
}

type FunctionType struct {
	Params []Type
	Return Type
}

// Fn builds a function type; the last argument is the return type.
func Fn(paramsAndReturn ...Type) FunctionType {
	if len(paramsAndReturn) == 0 {
		panic("types: Fn requires at least a return type")
	}
	last := len(paramsAndReturn) - 1
	params := make([]Type, last)
	copy(params, paramsAndReturn[:last])
	return FunctionType{Params: params, Return: paramsAndReturn[last]}
}

func (f FunctionType) Name() string { return "Function" }
func (FunctionType) sealed()        {}

func (f FunctionType) String() string {
	parts := make([]string, 0, len(f.Params)+2)
	parts = append(parts, FunctionArrow)
	for _, param := range f.Params {
		parts = append(parts, typeName(param))
	}
	parts = append(parts, typeName(f.Return))
	return "(" + strings.Join(parts, " ") + ")"
}

// FunctionArrow is the head symbol of a function type annotation.
const FunctionArrow = "->"

// Equal reports structural equality.
func Equal(a, b Type) bool {
	switch left := a.(type) {
	case nil:
		return b == nil
	case PrimitiveType:
		right, ok := b.(PrimitiveType)
		return ok && left.Kind == right.Kind
	case FunctionType:
		right, ok := b.(FunctionType)
		if !ok || len(left.Params) != len(right.Params) {
			return false
		}
		for i := range left.Params {
			if !Equal(left.Params[i], right.Params[i]) {
				return false
			}
		}
		return Equal(left.Return, right.Return)
	default:
		return false
	}
}

// Unify succeeds only when actual equals expected.
func Unify(expected, actual Type) error {
	if Equal(expected, actual) {
		return nil
	}
	err := diag.Errorf(diag.TypeMismatch, "expected %s, got %s", typeName(expected), typeName(actual))
	err.Expected = typeName(expected)
	err.Actual = typeName(actual)
	return err
}

// Arity returns the parameter count of a function type.
func Arity(t Type) (int, bool) {
	fn, ok := t.(FunctionType)
	if !ok {
		return 0, false
	}
	return len(fn.Params), true
}

// IsFunction reports whether t is a function type.
func IsFunction(t Type) bool {
	_, ok := t.(FunctionType)
	return ok
}

func typeName(t Type) string {
	if t == nil {
		return "Unknown"
	}
	return t.String()
}
