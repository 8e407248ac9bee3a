// Package reader turns source text into forms. It is the reference reader
// used by the CLI, the prelude and tests; the analyser only sees forms.
package reader

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"bridje/analyser-go/pkg/form"
)

// Strings are single-line; numbers, booleans and symbols share one atom
// token and are told apart by classifyAtom.
var formLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `;[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s,]+`},
	{Name: "String", Pattern: `"(\\[^\n]|[^"\\\n])*"`},
	{Name: "Punct", Pattern: `[()\[\]]`},
	{Name: "Atom", Pattern: `[^\s,()\[\]";]+`},
})

var (
	intPattern   = regexp.MustCompile(`^[-+]?\d+$`)
	floatPattern = regexp.MustCompile(`^[-+]?\d+\.\d+([eE][-+]?\d+)?$`)
	// numberStart matches atoms that can only be meant as numbers.
	numberStart = regexp.MustCompile(`^[-+]?\d`)
)

type document struct {
	Forms []*node `@@*`
}

type node struct {
	Pos lexer.Position

	Open   string  `(  @( "(" | "[" )`
	Items  []*node `   @@*`
	Close  *closer `   @@ )`
	String string  `| @String`
	Atom   string  `| @Atom`
}

type closer struct {
	Pos   lexer.Position
	Token string `@( ")" | "]" )`
}

var parser = participle.MustBuild[document](
	participle.Lexer(formLexer),
	participle.Elide("Whitespace", "Comment"),
)

// SyntaxError reports text that is not a sequence of well-formed forms.
type SyntaxError struct {
	Path     string
	Position form.Position
	Message  string
}

func (e *SyntaxError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("reader: %s:%d:%d: %s", e.Path, e.Position.Line, e.Position.Column, e.Message)
	}
	return fmt.Sprintf("reader: %d:%d: %s", e.Position.Line, e.Position.Column, e.Message)
}

// Read parses every form in src. path is only used for error messages.
func Read(path, src string) ([]form.Form, error) {
	doc, err := parser.ParseString(path, src)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			return nil, &SyntaxError{Path: path, Position: position(perr.Position()), Message: perr.Message()}
		}
		return nil, &SyntaxError{Path: path, Message: err.Error()}
	}
	out := make([]form.Form, 0, len(doc.Forms))
	for _, n := range doc.Forms {
		f, err := convert(path, n)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// ReadOne parses src, which must hold exactly one form.
func ReadOne(src string) (form.Form, error) {
	forms, err := Read("", src)
	if err != nil {
		return nil, err
	}
	if len(forms) != 1 {
		return nil, &SyntaxError{Message: fmt.Sprintf("expected exactly one form, got %d", len(forms))}
	}
	return forms[0], nil
}

// MustRead is ReadOne for hand-written sources; it panics on error.
func MustRead(src string) form.Form {
	f, err := ReadOne(src)
	if err != nil {
		panic(err)
	}
	return f
}

func convert(path string, n *node) (form.Form, error) {
	start := position(n.Pos)
	switch {
	case n.Open != "":
		items := make([]form.Form, 0, len(n.Items))
		for _, item := range n.Items {
			f, err := convert(path, item)
			if err != nil {
				return nil, err
			}
			items = append(items, f)
		}
		if want := matchingClose(n.Open); n.Close.Token != want {
			return nil, &SyntaxError{
				Path:     path,
				Position: position(n.Close.Pos),
				Message:  fmt.Sprintf("mismatched bracket: %q closed by %q", n.Open, n.Close.Token),
			}
		}
		span := form.Span{Start: start, End: advance(position(n.Close.Pos), n.Close.Token)}
		if n.Open == "[" {
			return form.NewVector(items, span), nil
		}
		return form.NewList(items, span), nil
	case n.String != "":
		value, err := strconv.Unquote(n.String)
		if err != nil {
			return nil, &SyntaxError{Path: path, Position: start, Message: fmt.Sprintf("invalid string literal %s", n.String)}
		}
		return form.NewStringLiteral(value, spanOf(start, n.String)), nil
	default:
		return classifyAtom(path, start, n.Atom)
	}
}

func classifyAtom(path string, start form.Position, raw string) (form.Form, error) {
	span := spanOf(start, raw)
	switch {
	case raw == "true" || raw == "false":
		return form.NewBoolLiteral(raw == "true", span), nil
	case intPattern.MatchString(raw):
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, &SyntaxError{Path: path, Position: start, Message: fmt.Sprintf("integer %s out of range", raw)}
		}
		return form.NewIntLiteral(value, span), nil
	case floatPattern.MatchString(raw):
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &SyntaxError{Path: path, Position: start, Message: fmt.Sprintf("invalid float %s", raw)}
		}
		return form.NewFloatLiteral(value, span), nil
	case numberStart.MatchString(raw):
		return nil, &SyntaxError{Path: path, Position: start, Message: fmt.Sprintf("invalid number %s", raw)}
	default:
		return form.NewSymbol(raw, span), nil
	}
}

func matchingClose(open string) string {
	if open == "[" {
		return "]"
	}
	return ")"
}

func position(pos lexer.Position) form.Position {
	return form.Position{Offset: pos.Offset, Line: pos.Line, Column: pos.Column}
}

func spanOf(start form.Position, raw string) form.Span {
	return form.Span{Start: start, End: advance(start, raw)}
}

// advance moves pos past text, tracking newlines.
func advance(pos form.Position, text string) form.Position {
	for i := 0; i < len(text); i++ {
		pos.Offset++
		if text[i] == '\n' {
			pos.Line++
			pos.Column = 1
			continue
		}
		pos.Column++
	}
	return pos
}
