// Package form defines the parsed surface syntax consumed by the analyser.
// Forms are produced by a reader and are never mutated afterwards.
package form

import (
	"fmt"
	"strconv"
	"strings"
)

// Position identifies a point in a source buffer. Offset is zero-based,
// Line and Column are one-based.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span is the half-open source range a form was read from.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// ZeroSpan returns an empty span value.
func ZeroSpan() Span {
	return Span{}
}

// IsZero reports whether the span carries no location.
func (s Span) IsZero() bool {
	return s == Span{}
}

func (s Span) String() string {
	if s.IsZero() {
		return "<unknown>"
	}
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%d:%d-%d", s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// Form is a span-tagged syntax node: a symbol, a literal, a list or a vector.
type Form interface {
	Span() Span
	String() string
	formNode()
}

// Literal is implemented by the self-evaluating forms.
type Literal interface {
	Form
	literal()
}

type formImpl struct {
	span Span
}

func (f formImpl) Span() Span { return f.span }
func (formImpl) formNode()    {}

type Symbol struct {
	formImpl
	Name string
}

func NewSymbol(name string, span Span) *Symbol {
	return &Symbol{formImpl: formImpl{span: span}, Name: name}
}

func (s *Symbol) String() string { return s.Name }

// Qualified splits `ns/name` into its parts. A bare `/` or a symbol with an
// empty half is not qualified.
func (s *Symbol) Qualified() (ns string, name string, ok bool) {
	idx := strings.IndexByte(s.Name, '/')
	if idx <= 0 || idx == len(s.Name)-1 {
		return "", s.Name, false
	}
	return s.Name[:idx], s.Name[idx+1:], true
}

type IntLiteral struct {
	formImpl
	Value int64
}

func NewIntLiteral(value int64, span Span) *IntLiteral {
	return &IntLiteral{formImpl: formImpl{span: span}, Value: value}
}

func (l *IntLiteral) String() string { return strconv.FormatInt(l.Value, 10) }
func (*IntLiteral) literal()         {}

type FloatLiteral struct {
	formImpl
	Value float64
}

func NewFloatLiteral(value float64, span Span) *FloatLiteral {
	return &FloatLiteral{formImpl: formImpl{span: span}, Value: value}
}

func (l *FloatLiteral) String() string {
	text := strconv.FormatFloat(l.Value, 'g', -1, 64)
	if !strings.ContainsAny(text, ".eEnN") {
		text += ".0"
	}
	return text
}
func (*FloatLiteral) literal() {}

type StringLiteral struct {
	formImpl
	Value string
}

func NewStringLiteral(value string, span Span) *StringLiteral {
	return &StringLiteral{formImpl: formImpl{span: span}, Value: value}
}

func (l *StringLiteral) String() string { return strconv.Quote(l.Value) }
func (*StringLiteral) literal()         {}

type BoolLiteral struct {
	formImpl
	Value bool
}

func NewBoolLiteral(value bool, span Span) *BoolLiteral {
	return &BoolLiteral{formImpl: formImpl{span: span}, Value: value}
}

func (l *BoolLiteral) String() string { return strconv.FormatBool(l.Value) }
func (*BoolLiteral) literal()         {}

// List is a parenthesised sequence: `(head arg ...)`.
type List struct {
	formImpl
	Items []Form
}

func NewList(items []Form, span Span) *List {
	return &List{formImpl: formImpl{span: span}, Items: items}
}

func (l *List) String() string { return "(" + joinForms(l.Items) + ")" }

// Head returns the first item of the list, or nil when it is empty.
func (l *List) Head() Form {
	if len(l.Items) == 0 {
		return nil
	}
	return l.Items[0]
}

// Vector is a bracketed sequence: `[a b ...]`.
type Vector struct {
	formImpl
	Items []Form
}

func NewVector(items []Form, span Span) *Vector {
	return &Vector{formImpl: formImpl{span: span}, Items: items}
}

func (v *Vector) String() string { return "[" + joinForms(v.Items) + "]" }

func joinForms(items []Form) string {
	parts := make([]string, len(items))
	for i, item := range items {
		if item == nil {
			parts[i] = "<nil>"
			continue
		}
		parts[i] = item.String()
	}
	return strings.Join(parts, " ")
}

// Describe names the syntactic class of a form for error messages.
func Describe(f Form) string {
	switch f.(type) {
	case *Symbol:
		return "symbol"
	case *IntLiteral:
		return "integer literal"
	case *FloatLiteral:
		return "float literal"
	case *StringLiteral:
		return "string literal"
	case *BoolLiteral:
		return "boolean literal"
	case *List:
		return "list"
	case *Vector:
		return "vector"
	case nil:
		return "nothing"
	default:
		return fmt.Sprintf("%T", f)
	}
}
