package runtime

import (
	"fmt"

	"bridje/analyser-go/pkg/types"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindNativeFunction
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindNativeFunction:
		return "native_function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for values stored in namespace vars. Every
// value knows its static type so definitions can be checked against the
// var's declared type.
type Value interface {
	Kind() Kind
	Type() types.Type
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind       { return KindString }
func (v StringValue) Type() types.Type { return types.String }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind       { return KindBool }
func (v BoolValue) Type() types.Type { return types.Bool }

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind       { return KindInteger }
func (v IntegerValue) Type() types.Type { return types.Int }

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind       { return KindFloat }
func (v FloatValue) Type() types.Type { return types.Float }

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

type NativeCallContext struct {
	Env       *Environment
	Namespace string
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

// NativeFunctionValue is a built-in implemented in Go. Signature is the
// function type the analyser sees.
type NativeFunctionValue struct {
	Name      string
	Signature types.FunctionType
	Impl      NativeFunc
}

func (v NativeFunctionValue) Kind() Kind       { return KindNativeFunction }
func (v NativeFunctionValue) Type() types.Type { return v.Signature }

// Call checks the argument count and invokes the implementation.
func (v NativeFunctionValue) Call(ctx *NativeCallContext, args []Value) (Value, error) {
	if len(args) != len(v.Signature.Params) {
		return nil, fmt.Errorf("runtime: %s expects %d arguments, got %d", v.Name, len(v.Signature.Params), len(args))
	}
	if v.Impl == nil {
		return nil, fmt.Errorf("runtime: %s has no implementation", v.Name)
	}
	return v.Impl(ctx, args)
}
