package gocalc

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the engine can report.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	LexError
	ParseError
	UndefinedVariable
	UnknownFunction
	MathDomainError
	NonDifferentiable
	ZeroDerivative
)

var errorKindNames = map[ErrorKind]string{
	KindNone:          "none",
	LexError:          "lex_error",
	ParseError:        "parse_error",
	UndefinedVariable: "undefined_variable",
	UnknownFunction:   "unknown_function",
	MathDomainError:   "math_domain_error",
	NonDifferentiable: "non_differentiable",
	ZeroDerivative:    "zero_derivative",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the single error type returned by every component. Subject holds
// the offending name (variable, function) when there is one; Pos is a byte
// offset into the parsed text, or -1.
type Error struct {
	Kind    ErrorKind
	Subject string
	Msg     string
	Pos     int
}

func (e *Error) Error() string { return e.Msg }

func newError(kind ErrorKind, subject string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Subject: subject, Msg: fmt.Sprintf(format, args...), Pos: -1}
}

func posError(kind ErrorKind, pos int, format string, args ...interface{}) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{Kind: kind, Msg: fmt.Sprintf("%s (char %d)", msg, pos+1), Pos: pos}
}

// KindOf returns the kind carried by err, or KindNone when err is nil or
// did not come from this package.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}
