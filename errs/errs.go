// Package errs defines the error kind taxonomy of spec.md §7 (ParseError,
// ResolutionError, TypeError, NotImplemented, IOError, CatalogError,
// InternalError) as a single error type callers can inspect with
// errors.As, in the spirit of the teacher's plan.Plan.err(stage, fmt, args)
// helper (plan/plan.go) which already tagged every planning error with a
// stage name — we add a Kind on top so callers can branch on taxonomy, not
// just print a stage-tagged string.
package errs

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Internal Kind = iota
	Parse
	Resolution
	Type
	NotImplemented
	IO
	Catalog
)

func (k Kind) String() string {
	switch k {
	case Parse:
		return "ParseError"
	case Resolution:
		return "ResolutionError"
	case Type:
		return "TypeError"
	case NotImplemented:
		return "NotImplemented"
	case IO:
		return "IOError"
	case Catalog:
		return "CatalogError"
	default:
		return "InternalError"
	}
}

// Pos is a source position for parse-time errors, carried the way the
// sql.CodeInfo does (line and column plus a snippet).
type Pos struct {
	Line    int
	Col     int
	Snippet string
}

type Error struct {
	Kind    Kind
	Stage   string
	Message string
	Pos     *Pos
	cause   error
}

func (e *Error) Error() string {
	if e.Pos != nil {
		return fmt.Sprintf("%s[%s] %s (line %d, col %d: %q)", e.Kind, e.Stage, e.Message, e.Pos.Line, e.Pos.Col, e.Pos.Snippet)
	}
	return fmt.Sprintf("%s[%s] %s", e.Kind, e.Stage, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a Kind-tagged error, mirroring the teacher's
// Plan.err(stage, format, args...) signature.
func New(kind Kind, stage, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Stage: stage, Message: fmt.Sprintf(format, args...)}
}

// NewAt is New with a source position attached, for parse-time errors.
func NewAt(kind Kind, stage string, pos Pos, format string, args ...interface{}) *Error {
	e := New(kind, stage, format, args...)
	e.Pos = &pos
	return e
}

// Wrap attaches a Kind/stage to an underlying error, preserving it for
// errors.Unwrap/errors.Is chains (e.g. wrapping an *os.PathError as IOError).
func Wrap(kind Kind, stage string, cause error) *Error {
	e := New(kind, stage, "%s", cause.Error())
	e.cause = cause
	return e
}

func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
