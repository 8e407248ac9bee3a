package runtime

import (
	"fmt"
	"sort"
	"sync"

	"bridje/analyser-go/pkg/diag"
	"bridje/analyser-go/pkg/types"
)

// Environment is the registry of namespaces. It is passed explicitly to every
// analysis; namespaces are created on first reference and never deleted.
type Environment struct {
	mu         sync.RWMutex
	namespaces map[string]*Namespace
}

// NewEnvironment creates an empty registry.
func NewEnvironment() *Environment {
	return &Environment{
		namespaces: make(map[string]*Namespace),
	}
}

// Namespace returns the named namespace, creating and registering an empty
// one if needed.
func (e *Environment) Namespace(name string) *Namespace {
	e.mu.RLock()
	ns, ok := e.namespaces[name]
	e.mu.RUnlock()
	if ok {
		return ns
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if ns, ok := e.namespaces[name]; ok {
		return ns
	}
	ns = newNamespace(name)
	e.namespaces[name] = ns
	return ns
}

// Lookup returns an existing namespace without creating one.
func (e *Environment) Lookup(name string) (*Namespace, bool) {
	e.mu.RLock()
	ns, ok := e.namespaces[name]
	e.mu.RUnlock()
	return ns, ok
}

// Names returns the registered namespace names in sorted order.
func (e *Environment) Names() []string {
	e.mu.RLock()
	names := make([]string, 0, len(e.namespaces))
	for name := range e.namespaces {
		names = append(names, name)
	}
	e.mu.RUnlock()
	sort.Strings(names)
	return names
}

// DeclareVar declares name in ns with typ. Redeclaring with the same type
// returns the existing var; a different type fails with VarTypeConflict.
func (e *Environment) DeclareVar(ns, name string, typ types.Type) (*Var, error) {
	if typ == nil {
		return nil, fmt.Errorf("runtime: cannot declare '%s/%s' without a type", ns, name)
	}
	v, _, err := e.Namespace(ns).Declare(name, typ)
	return v, err
}

// Define binds value to ns/name, auto-declaring it with the value's type.
func (e *Environment) Define(ns, name string, value Value) (*Var, error) {
	return e.Namespace(ns).Define(name, value)
}

// Resolve looks name up in ns, then in each namespace ns requires in the
// order they were required. The first match wins.
func (e *Environment) Resolve(ns, name string) (*Var, error) {
	current, ok := e.Lookup(ns)
	if !ok {
		return nil, diag.Errorf(diag.UnresolvedSymbol, "runtime: unresolved symbol '%s' (namespace '%s' does not exist)", name, ns)
	}
	if v, ok := current.Lookup(name); ok {
		return v, nil
	}
	for _, required := range current.Requires() {
		other, ok := e.Lookup(required)
		if !ok {
			continue
		}
		if v, ok := other.Lookup(name); ok {
			return v, nil
		}
	}
	return nil, diag.Errorf(diag.UnresolvedSymbol, "runtime: unresolved symbol '%s' in namespace '%s'", name, ns)
}

// Require records that ns imports other. other must already exist.
func (e *Environment) Require(ns, other string) error {
	if _, ok := e.Lookup(other); !ok {
		return diag.Errorf(diag.UnknownNamespace, "runtime: namespace '%s' requires unknown namespace '%s'", ns, other)
	}
	if ns == other {
		return nil
	}
	e.Namespace(ns).addRequire(other)
	return nil
}
