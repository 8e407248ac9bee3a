package main

import (
	"fmt"

	"bridje/analyser-go/pkg/analyser"
	"bridje/analyser-go/pkg/expr"
	"bridje/analyser-go/pkg/form"
	"bridje/analyser-go/pkg/prelude"
	"bridje/analyser-go/pkg/runtime"
)

// session owns the environment shared by every form the CLI analyses.
type session struct {
	env       *runtime.Environment
	namespace string
	requires  []string
}

func newSession(opts cliOptions, proj *project) (*session, error) {
	env := runtime.NewEnvironment()
	if err := prelude.Bootstrap(env); err != nil {
		return nil, err
	}

	preludePath := opts.prelude
	if preludePath == "" && proj != nil {
		preludePath = proj.Prelude
	}
	if preludePath != "" {
		manifest, err := prelude.Load(preludePath)
		if err != nil {
			return nil, err
		}
		if err := prelude.Apply(env, manifest); err != nil {
			return nil, err
		}
	}

	s := &session{env: env, requires: []string{prelude.CoreNamespace}}
	if proj != nil {
		s.requires = append(s.requires, proj.Requires...)
	}
	ns := opts.namespace
	if ns == "" && proj != nil {
		ns = proj.Namespace
	}
	if ns == "" {
		ns = defaultNamespace
	}
	if err := s.switchNamespace(ns); err != nil {
		return nil, err
	}
	return s, nil
}

// switchNamespace makes ns current, creating it and wiring its requires on
// first use.
func (s *session) switchNamespace(ns string) error {
	if _, exists := s.env.Lookup(ns); !exists {
		s.env.Namespace(ns)
		for _, req := range s.requires {
			if err := s.env.Require(ns, req); err != nil {
				return err
			}
		}
	}
	s.namespace = ns
	return nil
}

func (s *session) analyse(f form.Form) (expr.Expr, error) {
	return analyser.Analyse(s.env, s.namespace, analyser.NewScope(), f)
}

// describe renders a result the way `check` and the REPL print it.
func describe(e expr.Expr) string {
	switch node := e.(type) {
	case *expr.Def:
		return fmt.Sprintf("%s :: %s", node.Var.QualifiedName(), node.Type())
	case *expr.Decl:
		return fmt.Sprintf("%s :: %s", node.Var.QualifiedName(), node.Type())
	default:
		return e.Type().String()
	}
}
