package analyser

import (
	"sort"

	"bridje/analyser-go/pkg/expr"
)

// Scope is one frame of lexical bindings. Frames are immutable once built;
// Extend returns a new innermost frame, so a chain can be shared freely by
// the branches of one analysis. A nil *Scope is the empty scope.
type Scope struct {
	parent *Scope
	locals map[string]*expr.Local
	maxID  int
}

// NewScope returns an empty root scope.
func NewScope() *Scope {
	return nil
}

// Extend pushes a frame binding the given locals. Within one frame a later
// local with the same name wins.
func (s *Scope) Extend(locals ...*expr.Local) *Scope {
	frame := &Scope{
		parent: s,
		locals: make(map[string]*expr.Local, len(locals)),
		maxID:  s.MaxID(),
	}
	for _, local := range locals {
		frame.locals[local.Name] = local
		if local.ID > frame.maxID {
			frame.maxID = local.ID
		}
	}
	return frame
}

// Lookup resolves name innermost-first.
func (s *Scope) Lookup(name string) (*expr.Local, bool) {
	for frame := s; frame != nil; frame = frame.parent {
		if local, ok := frame.locals[name]; ok {
			return local, true
		}
	}
	return nil, false
}

// Parent returns the enclosing frame (nil at the root).
func (s *Scope) Parent() *Scope {
	if s == nil {
		return nil
	}
	return s.parent
}

// Depth counts the frames in the chain.
func (s *Scope) Depth() int {
	depth := 0
	for frame := s; frame != nil; frame = frame.parent {
		depth++
	}
	return depth
}

// MaxID is the largest local slot id visible from this frame.
func (s *Scope) MaxID() int {
	if s == nil {
		return 0
	}
	return s.maxID
}

// Names returns every visible name in sorted order.
func (s *Scope) Names() []string {
	seen := make(map[string]struct{})
	for frame := s; frame != nil; frame = frame.parent {
		for name := range frame.locals {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
