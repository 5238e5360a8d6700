package gocalc

import (
	"errors"
	"io"
	"math"

	"github.com/sirupsen/logrus"
)

// ============================================================
// Newton–Raphson solver
// ============================================================

const (
	DefaultMaxIterations = 80
	DefaultTolerance     = 1e-12
	DefaultGuess         = 1.0
)

// Status tags an Outcome.
type Status int

const (
	Converged Status = iota
	NotConverged
	Failed
)

var statusNames = map[Status]string{
	Converged:    "converged",
	NotConverged: "not_converged",
	Failed:       "failed",
}

func (s Status) String() string { return statusNames[s] }

// Outcome reports a solve. Value is the root when Converged and the last
// iterate otherwise; Err is set only when Failed. NotConverged is a normal
// outcome that asks the caller for another guess.
type Outcome struct {
	Status     Status
	Value      float64
	Iterations int
	Err        *Error
}

// Solver runs Newton–Raphson iteration. The zero value is not usable; start
// from NewSolver.
type Solver struct {
	MaxIterations int
	Tolerance     float64
	Logger        logrus.FieldLogger
}

// NewSolver returns a solver with the default bound and tolerance and a
// logger that discards everything.
func NewSolver() *Solver {
	return &Solver{
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
		Logger:        discardLogger(),
	}
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}

func (s *Solver) logger() logrus.FieldLogger {
	if s.Logger == nil {
		return discardLogger()
	}
	return s.Logger
}

// Solve finds a root of n in varName starting from guess, with the default
// solver.
func Solve(n Node, varName string, guess float64) Outcome {
	return NewSolver().Solve(n, varName, guess)
}

// Solve runs Newton iteration on n with no other bindings.
func (s *Solver) Solve(n Node, varName string, guess float64) Outcome {
	return s.SolveIn(n, varName, guess, nil)
}

// SolveIn is Solve with every other variable of n bound by scope. The
// binding of varName itself, if any, is ignored.
//
// A derivative that is exactly zero at an iterate fails the solve with
// ZeroDerivative instead of taking a zero step, which would otherwise be
// reported as convergence at a point that is not a root.
func (s *Solver) SolveIn(n Node, varName string, guess float64, scope Scope) Outcome {
	log := s.logger().WithFields(logrus.Fields{"var": varName})
	if IsEmpty(n) {
		return failedOutcome(newError(ParseError, "", "nothing to solve"), 0)
	}

	d, err := Differentiate(n, varName)
	if err != nil {
		log.WithError(err).Debug("Derivative unavailable")
		return failedOutcome(asError(err), 0)
	}

	x := guess
	if !isFinite(x) {
		x = DefaultGuess
	}
	env := scope.Clone()

	for i := 1; i <= s.MaxIterations; i++ {
		env[varName] = NumberResult(x)

		fx, out := s.sample(n, env, x, i)
		if out != nil {
			return *out
		}
		dfx, out := s.sample(d, env, x, i)
		if out != nil {
			return *out
		}
		if math.Abs(fx) < s.Tolerance {
			log.WithFields(logrus.Fields{"root": x, "iterations": i}).Debug("Converged on residual")
			return Outcome{Status: Converged, Value: x, Iterations: i}
		}
		if dfx == 0 {
			return failedOutcome(newError(ZeroDerivative, varName,
				"derivative vanishes at %s = %s, try another initial guess", varName, formatLiteral(x)), i)
		}

		next := x - fx/dfx
		log.WithFields(logrus.Fields{"iteration": i, "x": x, "f": fx, "df": dfx, "next": next}).Trace("Newton step")
		if !isFinite(next) {
			return Outcome{Status: NotConverged, Value: x, Iterations: i}
		}
		if math.Abs(next-x) < s.Tolerance {
			log.WithFields(logrus.Fields{"root": next, "iterations": i}).Debug("Converged on step")
			return Outcome{Status: Converged, Value: next, Iterations: i}
		}
		x = next
	}

	log.WithField("last", x).Debug("Iteration bound exhausted")
	return Outcome{Status: NotConverged, Value: x, Iterations: s.MaxIterations}
}

// sample evaluates n at the current iterate. A non-nil Outcome ends the
// solve: leaving the real domain or the finite range is NotConverged, any
// other failure is Failed.
func (s *Solver) sample(n Node, env Scope, x float64, iter int) (float64, *Outcome) {
	r := n.eval(env)
	switch {
	case r.Failed() && r.Err != nil && r.Err.Kind == MathDomainError:
		s.logger().WithError(r.Err).WithField("x", x).Debug("Iterate left the domain")
		return 0, &Outcome{Status: NotConverged, Value: x, Iterations: iter}
	case r.Failed():
		out := failedOutcome(r.Err, iter)
		return 0, &out
	case r.Kind != ResultNumber:
		out := failedOutcome(newError(MathDomainError, "", "expression is not numeric"), iter)
		return 0, &out
	case !r.Finite():
		return 0, &Outcome{Status: NotConverged, Value: x, Iterations: iter}
	}
	return r.Num, nil
}

func failedOutcome(err *Error, iter int) Outcome {
	return Outcome{Status: Failed, Iterations: iter, Err: err}
}

func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return newError(KindNone, "", "%s", err.Error())
}

func isFinite(v float64) bool { return !math.IsInf(v, 0) && !math.IsNaN(v) }
