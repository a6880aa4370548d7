package weave

import (
	"fmt"
	"strings"
)

// ErrDuplicateComponent is returned when two component files normalize to
// the same tag name. Silent override is never allowed.
type ErrDuplicateComponent struct {
	Tag      string
	Path     string
	Existing string
}

func (e ErrDuplicateComponent) Error() string {
	return fmt.Sprintf("duplicate component %q: %s conflicts with %s", e.Tag, e.Path, e.Existing)
}

// ErrComponentParse is returned when a component file cannot be parsed.
type ErrComponentParse struct {
	Path string
	Err  error
}

func (e ErrComponentParse) Error() string {
	return fmt.Sprintf("failed to parse component at %s: %v", e.Path, e.Err)
}

func (e ErrComponentParse) Unwrap() error { return e.Err }

// ErrEmptyComponent is returned when a component file contains no element
// nodes at all.
type ErrEmptyComponent struct {
	Path string
}

func (e ErrEmptyComponent) Error() string {
	return fmt.Sprintf("component at %s has no root element", e.Path)
}

// ErrInvalidPattern is returned when the pattern of an <if> condition does
// not compile as a regular expression.
type ErrInvalidPattern struct {
	Pattern string
	Err     error
}

func (e ErrInvalidPattern) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e ErrInvalidPattern) Unwrap() error { return e.Err }

// ErrMalformedIf is returned when an <if> element does not carry exactly one
// attribute (the condition).
type ErrMalformedIf struct {
	Attrs int
}

func (e ErrMalformedIf) Error() string {
	return fmt.Sprintf("<if> requires exactly one attribute, got %d", e.Attrs)
}

// ErrMalformedForeach is returned when a foreachchild element is missing its
// loop variable or does not contain exactly one element child.
type ErrMalformedForeach struct {
	Var      string
	Elements int
}

func (e ErrMalformedForeach) Error() string {
	if e.Var == "" {
		return "foreachchild is missing a loop variable (expected foreachchild.<name>)"
	}
	return fmt.Sprintf("foreachchild.%s requires exactly one element child as loop body, got %d", e.Var, e.Elements)
}

// ErrNoFixedPoint is returned when expansion still produces changes after
// the pass ceiling, which indicates unbounded recursive component
// self-reference.
type ErrNoFixedPoint struct {
	File       string
	Passes     int
	Unresolved []string
}

func (e ErrNoFixedPoint) Error() string {
	return fmt.Sprintf("expansion of %s did not converge after %d passes; components still expanding: %s",
		e.File, e.Passes, strings.Join(e.Unresolved, ", "))
}

// ErrPathKind is returned when a source, components or destination path is
// not the kind of filesystem entry the generator expects.
type ErrPathKind struct {
	Path string
	Want string
}

func (e ErrPathKind) Error() string {
	return fmt.Sprintf("%s must be a %s", e.Path, e.Want)
}
