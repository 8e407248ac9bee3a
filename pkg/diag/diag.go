// Package diag holds the error values shared by the registry and the
// analyser. Every failure is terminal for the analysis that produced it.
package diag

import (
	"errors"
	"fmt"
	"strings"

	"bridje/analyser-go/pkg/form"
)

// ErrorKind classifies an analysis failure.
type ErrorKind string

const (
	UnresolvedSymbol   ErrorKind = "UnresolvedSymbol"
	UnknownNamespace   ErrorKind = "UnknownNamespace"
	VarTypeConflict    ErrorKind = "VarTypeConflict"
	TypeMismatch       ErrorKind = "TypeMismatch"
	BranchTypeMismatch ErrorKind = "BranchTypeMismatch"
	ArityMismatch      ErrorKind = "ArityMismatch"
	NotCallable        ErrorKind = "NotCallable"
	MalformedForm      ErrorKind = "MalformedForm"
)

// Error is a single analysis failure. Position is the 1-based argument index
// for application errors and zero otherwise. Expected and Actual hold
// rendered types when the failure compares two of them.
type Error struct {
	Kind     ErrorKind
	Span     form.Span
	Message  string
	Position int
	Expected string
	Actual   string
}

func (e *Error) Error() string {
	return e.Message
}

// Is lets errors.Is match against a bare kind sentinel (`diag.Kind(...)`).
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Message == "" && other.Kind == e.Kind
}

// Kind returns a sentinel usable with errors.Is.
func Kind(kind ErrorKind) error {
	return &Error{Kind: kind}
}

// Errorf builds an Error without a location.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// At builds an Error anchored to the span of the offending form.
func At(kind ErrorKind, f form.Form, format string, args ...any) *Error {
	err := Errorf(kind, format, args...)
	if f != nil {
		err.Span = f.Span()
	}
	return err
}

// WithSpan returns a copy of the error anchored to span unless it already has
// a location.
func (e *Error) WithSpan(span form.Span) *Error {
	if e == nil {
		return nil
	}
	out := *e
	if out.Span.IsZero() {
		out.Span = span
	}
	return &out
}

// KindOf extracts the ErrorKind from err, looking through wrapping.
func KindOf(err error) (ErrorKind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

// Describe formats an error for CLI output, prefixed with path:line:column
// when a location is known.
func Describe(path string, err error) string {
	var de *Error
	if !errors.As(err, &de) {
		return strings.TrimSpace(err.Error())
	}
	location := formatLocation(path, de.Span)
	message := strings.TrimSpace(de.Message)
	if location != "" {
		return fmt.Sprintf("%s: %s: %s", location, de.Kind, message)
	}
	return fmt.Sprintf("%s: %s", de.Kind, message)
}

func formatLocation(path string, span form.Span) string {
	path = strings.TrimSpace(path)
	line := span.Start.Line
	column := span.Start.Column
	switch {
	case path != "" && line > 0 && column > 0:
		return fmt.Sprintf("%s:%d:%d", path, line, column)
	case path != "" && line > 0:
		return fmt.Sprintf("%s:%d", path, line)
	case path != "":
		return path
	case line > 0 && column > 0:
		return fmt.Sprintf("line %d, column %d", line, column)
	default:
		return ""
	}
}
