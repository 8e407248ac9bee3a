package runtime

import (
	"errors"
	"testing"

	"bridje/analyser-go/pkg/diag"
	"bridje/analyser-go/pkg/types"
)

func TestNamespaceIsCreatedOnceByName(t *testing.T) {
	env := NewEnvironment()
	first := env.Namespace("core")
	second := env.Namespace("core")
	if first != second {
		t.Fatalf("expected namespace lookup to be idempotent")
	}
	if _, ok := env.Lookup("user"); ok {
		t.Fatalf("expected Lookup not to create namespaces")
	}
	if names := env.Names(); len(names) != 1 || names[0] != "core" {
		t.Fatalf("expected only core to be registered, got %v", names)
	}
}

func TestDeclareVarIsIdempotentForSameType(t *testing.T) {
	env := NewEnvironment()
	first, err := env.DeclareVar("core", "x", types.Int)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := env.DeclareVar("core", "x", types.Int)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("expected redeclaration to return the existing var")
	}
	if first.Defined() || first.Version() != 0 {
		t.Fatalf("expected declared var to be undefined")
	}
}

func TestDeclareVarRejectsDifferentType(t *testing.T) {
	env := NewEnvironment()
	if _, err := env.DeclareVar("core", "x", types.Int); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := env.DeclareVar("core", "x", types.Fn(types.Int, types.Int))
	if !errors.Is(err, diag.Kind(diag.VarTypeConflict)) {
		t.Fatalf("expected VarTypeConflict, got %v", err)
	}
	v, _ := env.Namespace("core").Lookup("x")
	if !types.Equal(v.Type(), types.Int) {
		t.Fatalf("expected declared type to stay Int, got %s", v.Type())
	}
}

func TestDefineAutoDeclaresAndChecksType(t *testing.T) {
	env := NewEnvironment()
	v, err := env.Define("user", "greeting", StringValue{Val: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !types.Equal(v.Type(), types.String) {
		t.Fatalf("expected String var, got %s", v.Type())
	}
	if _, err := env.Define("user", "greeting", IntegerValue{Val: 1}); !errors.Is(err, diag.Kind(diag.TypeMismatch)) {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
	value, ok := v.Value()
	if !ok || value.(StringValue).Val != "hi" {
		t.Fatalf("expected failed redefinition to keep the old value, got %#v", value)
	}
	if _, err := env.Define("user", "greeting", StringValue{Val: "hello"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Version() != 2 {
		t.Fatalf("expected version 2 after two definitions, got %d", v.Version())
	}
}

func TestDefineAfterDeclare(t *testing.T) {
	env := NewEnvironment()
	declared, err := env.DeclareVar("core", "answer", types.Int)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defined, err := env.Define("core", "answer", IntegerValue{Val: 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if declared != defined {
		t.Fatalf("expected define to fill the declared var")
	}
	if value, ok := declared.Value(); !ok || value.(IntegerValue).Val != 42 {
		t.Fatalf("expected 42, got %#v", value)
	}
}

func TestResolveSearchesRequiresInOrder(t *testing.T) {
	env := NewEnvironment()
	if _, err := env.DeclareVar("a", "shared", types.Int); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.DeclareVar("b", "shared", types.String); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.DeclareVar("b", "only-b", types.Bool); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env.Namespace("user")
	for _, other := range []string{"a", "b", "a"} {
		if err := env.Require("user", other); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := env.Namespace("user").Requires(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected requires [a b], got %v", got)
	}

	v, err := env.Resolve("user", "shared")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Namespace() != "a" {
		t.Fatalf("expected first required namespace to win, got %s", v.QualifiedName())
	}
	if v, err := env.Resolve("user", "only-b"); err != nil || v.Namespace() != "b" {
		t.Fatalf("expected only-b from b, got %v (%v)", v, err)
	}

	if _, err := env.DeclareVar("user", "shared", types.Float); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := env.Resolve("user", "shared"); v.Namespace() != "user" {
		t.Fatalf("expected own namespace to shadow requires, got %s", v.QualifiedName())
	}

	if _, err := env.Resolve("user", "missing"); !errors.Is(err, diag.Kind(diag.UnresolvedSymbol)) {
		t.Fatalf("expected UnresolvedSymbol, got %v", err)
	}
	if _, err := env.Resolve("nowhere", "shared"); !errors.Is(err, diag.Kind(diag.UnresolvedSymbol)) {
		t.Fatalf("expected UnresolvedSymbol for unknown namespace, got %v", err)
	}
}

func TestResolveIsNotTransitive(t *testing.T) {
	env := NewEnvironment()
	if _, err := env.DeclareVar("base", "deep", types.Int); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env.Namespace("middle")
	env.Namespace("top")
	if err := env.Require("middle", "base"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := env.Require("top", "middle"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.Resolve("top", "deep"); !errors.Is(err, diag.Kind(diag.UnresolvedSymbol)) {
		t.Fatalf("expected requires not to chain, got %v", err)
	}
}

func TestRequireUnknownNamespace(t *testing.T) {
	env := NewEnvironment()
	err := env.Require("user", "ghost")
	if !errors.Is(err, diag.Kind(diag.UnknownNamespace)) {
		t.Fatalf("expected UnknownNamespace, got %v", err)
	}
	if _, ok := env.Lookup("user"); ok {
		t.Fatalf("expected failed require not to create the requiring namespace")
	}
}

func TestCommitRegistersPendingVars(t *testing.T) {
	env := NewEnvironment()
	ns := env.Namespace("user")
	x, err := NewVar("user", "x", types.Int)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ns.Lookup("x"); ok {
		t.Fatalf("expected pending var to be invisible before commit")
	}
	replaced, err := ns.Commit([]*Var{x})
	if err != nil || len(replaced) != 0 {
		t.Fatalf("expected clean commit, got %v (%v)", replaced, err)
	}
	if got, _ := ns.Lookup("x"); got != x {
		t.Fatalf("expected committed var to be registered")
	}
	if replaced, err := ns.Commit([]*Var{x}); err != nil || len(replaced) != 0 {
		t.Fatalf("expected recommitting the same var to be a no-op, got %v (%v)", replaced, err)
	}
}

func TestCommitAdoptsConcurrentDeclaration(t *testing.T) {
	env := NewEnvironment()
	ns := env.Namespace("user")
	pending, _ := NewVar("user", "x", types.Int)
	winner, _, err := ns.Declare("x", types.Int)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	replaced, err := ns.Commit([]*Var{pending})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if replaced[pending] != winner {
		t.Fatalf("expected pending var to map onto the registered one")
	}
	if got, _ := ns.Lookup("x"); got != winner {
		t.Fatalf("expected the first registration to stay")
	}
}

func TestCommitIsAllOrNothing(t *testing.T) {
	env := NewEnvironment()
	ns := env.Namespace("user")
	if _, err := env.DeclareVar("user", "taken", types.String); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fresh, _ := NewVar("user", "fresh", types.Int)
	clash, _ := NewVar("user", "taken", types.Int)
	_, err := ns.Commit([]*Var{fresh, clash})
	if !errors.Is(err, diag.Kind(diag.VarTypeConflict)) {
		t.Fatalf("expected VarTypeConflict, got %v", err)
	}
	if _, ok := ns.Lookup("fresh"); ok {
		t.Fatalf("expected a failed commit to register nothing")
	}
	foreign, _ := NewVar("other", "y", types.Int)
	if _, err := ns.Commit([]*Var{foreign}); err == nil {
		t.Fatalf("expected a var of another namespace to be refused")
	}
}

func TestDeclareRejectsMissingType(t *testing.T) {
	env := NewEnvironment()
	if _, err := env.DeclareVar("core", "broken", nil); err == nil {
		t.Fatalf("expected a nil type to be rejected")
	}
	if _, ok := env.Lookup("core"); ok {
		t.Fatalf("expected a rejected declaration not to create its namespace")
	}
	if _, err := NewVar("core", "broken", nil); err == nil {
		t.Fatalf("expected NewVar to reject a nil type")
	}
}

func TestNativeFunctionCall(t *testing.T) {
	plus := NativeFunctionValue{
		Name:      "plus",
		Signature: types.Fn(types.Int, types.Int, types.Int),
		Impl: func(_ *NativeCallContext, args []Value) (Value, error) {
			return IntegerValue{Val: args[0].(IntegerValue).Val + args[1].(IntegerValue).Val}, nil
		},
	}
	if !types.Equal(plus.Type(), types.Fn(types.Int, types.Int, types.Int)) {
		t.Fatalf("expected native function type to be its signature, got %s", plus.Type())
	}
	result, err := plus.Call(&NativeCallContext{}, []Value{IntegerValue{Val: 2}, IntegerValue{Val: 3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.(IntegerValue).Val != 5 {
		t.Fatalf("expected 5, got %#v", result)
	}
	if _, err := plus.Call(&NativeCallContext{}, []Value{IntegerValue{Val: 2}}); err == nil {
		t.Fatalf("expected arity error")
	}
}
