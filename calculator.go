package gocalc

import (
	"sort"
	"strings"
)

// ============================================================
// Calculator — statements, assignments and equations
// ============================================================

const noSolutionMsg = "no solution found, try another initial guess"

// Calculator runs whole calculator input: one or more statements separated
// by ";" or newlines. A statement is an expression, an assignment
// "name = expr", or an equation to solve for its single unknown.
type Calculator struct {
	Solver    *Solver
	Formatter Formatter
}

// NewCalculator returns a Calculator with the default solver and
// 14-digit formatter.
func NewCalculator() *Calculator {
	return &Calculator{Solver: NewSolver(), Formatter: Formatter{Precision: DefaultPrecision}}
}

// Format renders r with the calculator's formatter.
func (c *Calculator) Format(r Result) string { return c.Formatter.Format(r) }

// Calculate runs input with the default calculator.
func Calculate(input string, scope Scope) (Result, Scope) {
	return NewCalculator().Calculate(input, scope)
}

// Calculate runs every statement of input in order, each seeing the
// bindings made by the ones before it. scope is never modified; the
// returned scope holds the bindings after the last statement. A single
// statement yields its own result, several yield a Sequence.
func (c *Calculator) Calculate(input string, scope Scope) (Result, Scope) {
	env := scope.Clone()
	stmts := splitStatements(input)
	if len(stmts) == 0 {
		return TextResult(""), env
	}
	results := make([]Result, len(stmts))
	for i, stmt := range stmts {
		results[i] = c.statement(stmt, env)
	}
	if len(results) == 1 {
		return results[0], env
	}
	return SequenceResult(results...), env
}

func (c *Calculator) statement(stmt string, env Scope) Result {
	lhs, rhs, found, err := splitEquation(stmt)
	if err != nil {
		return FailureResult(asError(err))
	}
	if !found {
		n, err := Parse(stmt)
		if err != nil {
			return FailureResult(asError(err))
		}
		return n.eval(env)
	}

	if isIdentifier(lhs) {
		value, err := Parse(rhs)
		if err != nil {
			return FailureResult(asError(err))
		}
		if !DependsOn(value, lhs) {
			r := value.eval(env)
			if !r.Failed() {
				env[lhs] = r
			}
			return r
		}
	}
	return c.equation(lhs, rhs, env)
}

func (c *Calculator) equation(lhs, rhs string, env Scope) Result {
	n, err := Parse("(" + lhs + ")-(" + rhs + ")")
	if err != nil {
		return FailureResult(asError(err))
	}
	name, err := unknownOf(n, env)
	if err != nil {
		return FailureResult(asError(err))
	}
	guess := DefaultGuess
	if r, ok := env[name]; ok && r.Finite() {
		guess = r.Num
	}

	solver := c.Solver
	if solver == nil {
		solver = NewSolver()
	}
	out := solver.SolveIn(n, name, guess, env)
	switch out.Status {
	case Converged:
		env[name] = NumberResult(out.Value)
		return NumberResult(out.Value)
	case NotConverged:
		return failure(MathDomainError, name, noSolutionMsg)
	}
	return FailureResult(out.Err)
}

// unknownOf picks the variable an equation is solved for: the one free
// variable with no binding, or failing that the one free variable at all.
// Constants never count.
func unknownOf(n Node, env Scope) (string, error) {
	var free, unbound []string
	for name := range FreeVariables(n) {
		if _, ok := constants[name]; ok {
			if _, bound := env[name]; !bound {
				continue
			}
		}
		free = append(free, name)
		if _, ok := env[name]; !ok {
			unbound = append(unbound, name)
		}
	}
	sort.Strings(free)
	sort.Strings(unbound)
	switch {
	case len(unbound) == 1:
		return unbound[0], nil
	case len(unbound) > 1:
		return "", newError(ParseError, "", "equation has more than one unknown: %s", strings.Join(unbound, ", "))
	case len(free) == 1:
		return free[0], nil
	case len(free) == 0:
		return "", newError(ParseError, "", "equation has no unknown")
	}
	return "", newError(ParseError, "", "equation has more than one unknown: %s", strings.Join(free, ", "))
}

// splitStatements cuts input on ";" and newlines outside parentheses,
// dropping blank statements.
func splitStatements(input string) []string {
	var out []string
	depth, start := 0, 0
	push := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	for i, r := range input {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ';', '\n':
			if depth <= 0 {
				push(input[start:i])
				start = i + 1
			}
		}
	}
	push(input[start:])
	return out
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) || i > 0 && !isIdentPart(r) {
			return false
		}
	}
	return true
}
