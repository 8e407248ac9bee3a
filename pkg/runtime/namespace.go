package runtime

import (
	"fmt"
	"sort"
	"sync"

	"bridje/analyser-go/pkg/diag"
	"bridje/analyser-go/pkg/types"
)

// Namespace maps names to vars and records the namespaces it requires.
// A single RWMutex guards both; readers never block each other.
type Namespace struct {
	name string

	mu       sync.RWMutex
	vars     map[string]*Var
	requires []string
}

func newNamespace(name string) *Namespace {
	return &Namespace{
		name: name,
		vars: make(map[string]*Var),
	}
}

func (ns *Namespace) Name() string { return ns.name }

// Lookup finds a var declared directly in this namespace.
func (ns *Namespace) Lookup(name string) (*Var, bool) {
	ns.mu.RLock()
	v, ok := ns.vars[name]
	ns.mu.RUnlock()
	return v, ok
}

// Declare returns the var for name, creating an undefined one when absent.
// created reports whether this call registered it. Redeclaring with a
// different type fails with VarTypeConflict and changes nothing.
func (ns *Namespace) Declare(name string, typ types.Type) (v *Var, created bool, err error) {
	if typ == nil {
		return nil, false, fmt.Errorf("runtime: cannot declare '%s/%s' without a type", ns.name, name)
	}
	ns.mu.Lock()
	defer ns.mu.Unlock()
	if existing, ok := ns.vars[name]; ok {
		if err := ns.checkRedeclare(existing, typ); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	v = newVar(ns.name, name, typ)
	ns.vars[name] = v
	return v, true, nil
}

func (ns *Namespace) checkRedeclare(existing *Var, typ types.Type) error {
	if types.Equal(existing.typ, typ) {
		return nil
	}
	de := diag.Errorf(diag.VarTypeConflict,
		"runtime: '%s/%s' is already declared as %s, cannot redeclare as %s",
		ns.name, existing.name, existing.typ, typ)
	de.Expected = existing.typ.String()
	de.Actual = typ.String()
	return de
}

// Commit registers vars built with NewVar for this namespace, all or
// nothing. A name registered in the meantime with the same type is kept and
// reported in the returned map (pending var -> registered var) so callers
// can repoint references; a different type fails with VarTypeConflict and
// registers nothing.
func (ns *Namespace) Commit(pending []*Var) (map[*Var]*Var, error) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	for _, v := range pending {
		if v.namespace != ns.name {
			return nil, fmt.Errorf("runtime: cannot commit %s into namespace '%s'", v.QualifiedName(), ns.name)
		}
		if existing, ok := ns.vars[v.name]; ok && existing != v {
			if err := ns.checkRedeclare(existing, v.typ); err != nil {
				return nil, err
			}
		}
	}
	replaced := make(map[*Var]*Var)
	for _, v := range pending {
		if existing, ok := ns.vars[v.name]; ok {
			if existing != v {
				replaced[v] = existing
			}
			continue
		}
		ns.vars[v.name] = v
	}
	return replaced, nil
}

// Define binds value to name, declaring it with the value's type when absent.
// A value whose type differs from the declared type fails with TypeMismatch.
func (ns *Namespace) Define(name string, value Value) (*Var, error) {
	if value == nil {
		return nil, diag.Errorf(diag.TypeMismatch, "runtime: cannot define '%s/%s' without a value", ns.name, name)
	}
	typ := value.Type()
	if typ == nil {
		return nil, fmt.Errorf("runtime: cannot define '%s/%s' with an untyped value", ns.name, name)
	}
	ns.mu.Lock()
	defer ns.mu.Unlock()
	v, ok := ns.vars[name]
	if !ok {
		v = newVar(ns.name, name, typ)
		ns.vars[name] = v
	} else if err := types.Unify(v.typ, typ); err != nil {
		de := err.(*diag.Error)
		de.Message = "runtime: cannot define '" + ns.name + "/" + name + "': " + de.Message
		return nil, de
	}
	v.set(value)
	return v, nil
}

// Requires returns the required namespace names in declaration order.
func (ns *Namespace) Requires() []string {
	ns.mu.RLock()
	out := make([]string, len(ns.requires))
	copy(out, ns.requires)
	ns.mu.RUnlock()
	return out
}

func (ns *Namespace) addRequire(other string) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	for _, existing := range ns.requires {
		if existing == other {
			return
		}
	}
	ns.requires = append(ns.requires, other)
}

// Keys returns the declared names in sorted order.
func (ns *Namespace) Keys() []string {
	ns.mu.RLock()
	keys := make([]string, 0, len(ns.vars))
	for k := range ns.vars {
		keys = append(keys, k)
	}
	ns.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the name to var mapping.
func (ns *Namespace) Snapshot() map[string]*Var {
	ns.mu.RLock()
	out := make(map[string]*Var, len(ns.vars))
	for k, v := range ns.vars {
		out[k] = v
	}
	ns.mu.RUnlock()
	return out
}
