// Package ruchyerr defines the typed diagnostics produced by every stage of
// the pipeline (lexer, parser, transpiler). Each error kind carries the
// source span of the offending token so the CLI can render a positioned
// diagnostic.
package ruchyerr

import (
	"fmt"

	"github.com/ruchy-lang/ruchy/pkg/token"
)

// Kind classifies which stage raised the error.
type Kind int

const (
	Lex Kind = iota
	Parse
	Lowering
	Internal
)

func (k Kind) String() string {
	switch k {
	case Lex:
		return "lex error"
	case Parse:
		return "parse error"
	case Lowering:
		return "lowering error"
	case Internal:
		return "internal error"
	default:
		return "error"
	}
}

// Error is a single diagnostic with a message and the span it applies to.
type Error struct {
	Kind    Kind
	Message string
	Span    token.Span
	File    string
}

func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s [%d:%d)", e.File, e.Kind, e.Message, e.Span.Start, e.Span.End)
	}
	return fmt.Sprintf("%s: %s [%d:%d)", e.Kind, e.Message, e.Span.Start, e.Span.End)
}

// New constructs an Error.
func New(kind Kind, span token.Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Span: span}
}

// List is a collection of diagnostics, satisfying the error interface so it
// can be returned from functions that accumulate more than one problem
// before giving up (the parser records one error for each top-level
// statement it fails on and resumes at the next sync point).
type List []*Error

func (l List) Error() string {
	if len(l) == 0 {
		return "no errors"
	}
	if len(l) == 1 {
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", l[0].Error(), len(l)-1)
}
