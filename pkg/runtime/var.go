package runtime

import (
	"fmt"
	"sync"

	"bridje/analyser-go/pkg/types"
)

// Var is a namespace-owned slot with a fixed declared type and a value that
// is absent until the first definition. Each definition bumps the version.
type Var struct {
	namespace string
	name      string
	typ       types.Type

	mu      sync.RWMutex
	value   Value
	version int
}

func newVar(namespace, name string, typ types.Type) *Var {
	return &Var{namespace: namespace, name: name, typ: typ}
}

// NewVar builds an undefined var that no namespace holds yet. It becomes
// visible once passed to Namespace.Commit.
func NewVar(namespace, name string, typ types.Type) (*Var, error) {
	if typ == nil {
		return nil, fmt.Errorf("runtime: cannot declare '%s/%s' without a type", namespace, name)
	}
	return newVar(namespace, name, typ), nil
}

func (v *Var) Namespace() string { return v.namespace }
func (v *Var) Name() string      { return v.name }
func (v *Var) Type() types.Type  { return v.typ }

// QualifiedName returns `ns/name`.
func (v *Var) QualifiedName() string {
	return v.namespace + "/" + v.name
}

// Value returns the bound value; ok is false while the var is declared but
// undefined.
func (v *Var) Value() (Value, bool) {
	v.mu.RLock()
	value := v.value
	v.mu.RUnlock()
	return value, value != nil
}

// Defined reports whether a value has been bound.
func (v *Var) Defined() bool {
	_, ok := v.Value()
	return ok
}

// Version counts definitions; zero means undefined.
func (v *Var) Version() int {
	v.mu.RLock()
	version := v.version
	v.mu.RUnlock()
	return version
}

// set installs a value whose type the caller has already checked.
func (v *Var) set(value Value) {
	v.mu.Lock()
	v.value = value
	v.version++
	v.mu.Unlock()
}

func (v *Var) String() string {
	return v.QualifiedName() + " :: " + v.typ.String()
}
