package gocalc

import "math"

// ResultKind tags the variant held by a Result.
type ResultKind int

const (
	ResultNumber ResultKind = iota
	ResultText
	ResultSequence
	ResultFailure
)

var resultKindNames = map[ResultKind]string{
	ResultNumber:   "number",
	ResultText:     "text",
	ResultSequence: "sequence",
	ResultFailure:  "failure",
}

func (k ResultKind) String() string { return resultKindNames[k] }

// Result is the outcome of an evaluation: a number, opaque text, an ordered
// sequence of results, or a failure. Only the field matching Kind is set.
type Result struct {
	Kind  ResultKind
	Num   float64
	Text  string
	Items []Result
	Err   *Error
}

// NumberResult wraps v, finite or not.
func NumberResult(v float64) Result { return Result{Kind: ResultNumber, Num: v} }

// TextResult wraps opaque text that Format returns verbatim.
func TextResult(s string) Result { return Result{Kind: ResultText, Text: s} }

// SequenceResult keeps items in order.
func SequenceResult(items ...Result) Result { return Result{Kind: ResultSequence, Items: items} }

// FailureResult wraps a typed error.
func FailureResult(err *Error) Result { return Result{Kind: ResultFailure, Err: err} }

func failure(kind ErrorKind, subject string, format string, args ...interface{}) Result {
	return FailureResult(newError(kind, subject, format, args...))
}

// Float returns the numeric value and whether the result is a number.
func (r Result) Float() (float64, bool) {
	return r.Num, r.Kind == ResultNumber
}

// Finite reports whether r is a number that is neither infinite nor NaN.
func (r Result) Finite() bool {
	return r.Kind == ResultNumber && !math.IsInf(r.Num, 0) && !math.IsNaN(r.Num)
}

// Failed reports whether r is a failure.
func (r Result) Failed() bool { return r.Kind == ResultFailure }

// AsError returns the failure as an error, or nil for any other kind.
func (r Result) AsError() error {
	if r.Kind != ResultFailure || r.Err == nil {
		return nil
	}
	return r.Err
}

// String is Format(r).
func (r Result) String() string { return Format(r) }
