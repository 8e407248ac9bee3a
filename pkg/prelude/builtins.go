package prelude

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"bridje/analyser-go/pkg/runtime"
	"bridje/analyser-go/pkg/types"
)

type builtin struct {
	signature types.FunctionType
	impl      runtime.NativeFunc
}

var (
	intBinary   = types.Fn(types.Int, types.Int, types.Int)
	intCompare  = types.Fn(types.Int, types.Int, types.Bool)
	floatBinary = types.Fn(types.Float, types.Float, types.Float)
)

// builtins maps the `builtin:` keys a manifest may use to Go code.
var builtins = map[string]builtin{
	"int.add": {intBinary, intOp(func(a, b int64) (int64, error) { return a + b, nil })},
	"int.sub": {intBinary, intOp(func(a, b int64) (int64, error) { return a - b, nil })},
	"int.mul": {intBinary, intOp(func(a, b int64) (int64, error) { return a * b, nil })},
	"int.div": {intBinary, intOp(func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return a / b, nil
	})},
	"int.eq": {intCompare, intCmp(func(a, b int64) bool { return a == b })},
	"int.lt": {intCompare, intCmp(func(a, b int64) bool { return a < b })},
	"int.str": {types.Fn(types.Int, types.String), func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		n, err := intArg(args, 0)
		if err != nil {
			return nil, err
		}
		return runtime.StringValue{Val: strconv.FormatInt(n, 10)}, nil
	}},
	"int.float": {types.Fn(types.Int, types.Float), func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		n, err := intArg(args, 0)
		if err != nil {
			return nil, err
		}
		return runtime.FloatValue{Val: float64(n)}, nil
	}},
	"float.add": {floatBinary, floatOp(func(a, b float64) float64 { return a + b })},
	"float.mul": {floatBinary, floatOp(func(a, b float64) float64 { return a * b })},
	"str.concat": {types.Fn(types.String, types.String, types.String), func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		var b strings.Builder
		for i := range args {
			s, ok := args[i].(runtime.StringValue)
			if !ok {
				return nil, argError(i, "String", args[i])
			}
			b.WriteString(s.Val)
		}
		return runtime.StringValue{Val: b.String()}, nil
	}},
	"str.length": {types.Fn(types.String, types.Int), func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		s, ok := args[0].(runtime.StringValue)
		if !ok {
			return nil, argError(0, "String", args[0])
		}
		return runtime.IntegerValue{Val: int64(len([]rune(s.Val)))}, nil
	}},
	"bool.not": {types.Fn(types.Bool, types.Bool), func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		b, ok := args[0].(runtime.BoolValue)
		if !ok {
			return nil, argError(0, "Bool", args[0])
		}
		return runtime.BoolValue{Val: !b.Val}, nil
	}},
}

// Builtins lists the keys a manifest may reference, sorted.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func intOp(op func(a, b int64) (int64, error)) runtime.NativeFunc {
	return func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		a, err := intArg(args, 0)
		if err != nil {
			return nil, err
		}
		b, err := intArg(args, 1)
		if err != nil {
			return nil, err
		}
		out, err := op(a, b)
		if err != nil {
			return nil, err
		}
		return runtime.IntegerValue{Val: out}, nil
	}
}

func intCmp(cmp func(a, b int64) bool) runtime.NativeFunc {
	return func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		a, err := intArg(args, 0)
		if err != nil {
			return nil, err
		}
		b, err := intArg(args, 1)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: cmp(a, b)}, nil
	}
}

func floatOp(op func(a, b float64) float64) runtime.NativeFunc {
	return func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		a, ok := args[0].(runtime.FloatValue)
		if !ok {
			return nil, argError(0, "Float", args[0])
		}
		b, ok := args[1].(runtime.FloatValue)
		if !ok {
			return nil, argError(1, "Float", args[1])
		}
		return runtime.FloatValue{Val: op(a.Val, b.Val)}, nil
	}
}

func intArg(args []runtime.Value, i int) (int64, error) {
	n, ok := args[i].(runtime.IntegerValue)
	if !ok {
		return 0, argError(i, "Int", args[i])
	}
	return n.Val, nil
}

func argError(i int, want string, got runtime.Value) error {
	if got == nil {
		return fmt.Errorf("argument %d: expected %s, got nothing", i+1, want)
	}
	return fmt.Errorf("argument %d: expected %s, got %s", i+1, want, got.Type())
}
