package gocalc

import (
	"fmt"
	"math"
	"sort"
)

// constants resolve bare identifiers that the Scope does not bind.
var constants = map[string]float64{
	"pi":  math.Pi,
	"e":   math.E,
	"tau": 2 * math.Pi,
	"phi": math.Phi,
}

// factorialTolerance is how far from an integer a factorial argument may be.
const factorialTolerance = 1e-9

type evalFn func(args []float64) (float64, *Error)

// diffRule returns the derivative of the whole call with respect to varName.
type diffRule func(c *Call, varName string) (Node, error)

type function struct {
	name             string
	minArgs, maxArgs int // maxArgs < 0 means variadic
	eval             evalFn
	diff             diffRule // nil: not differentiable
}

func (f function) accepts(n int) bool {
	return n >= f.minArgs && (f.maxArgs < 0 || n <= f.maxArgs)
}

func (f function) arityText() string {
	switch {
	case f.maxArgs < 0:
		return fmt.Sprintf("at least %d argument(s)", f.minArgs)
	case f.minArgs == f.maxArgs:
		return fmt.Sprintf("%d argument(s)", f.minArgs)
	}
	return fmt.Sprintf("%d to %d arguments", f.minArgs, f.maxArgs)
}

var functions = map[string]function{}

func registerFunction(name string, minArgs, maxArgs int, eval evalFn, diff diffRule) {
	functions[name] = function{name: name, minArgs: minArgs, maxArgs: maxArgs, eval: eval, diff: diff}
}

// unary registers a one-argument function whose derivative is outer(u)*u'.
func unary(name string, f func(float64) (float64, *Error), outer func(u Node) Node) {
	var rule diffRule
	if outer != nil {
		rule = chain(outer)
	}
	registerFunction(name, 1, 1, func(args []float64) (float64, *Error) { return f(args[0]) }, rule)
}

func chain(outer func(u Node) Node) diffRule {
	return func(c *Call, varName string) (Node, error) {
		u := c.Args[0]
		du, err := u.diff(varName)
		if err != nil {
			return nil, err
		}
		return MulOf(outer(Clone(u)), du), nil
	}
}

func total(f func(float64) float64) func(float64) (float64, *Error) {
	return func(x float64) (float64, *Error) { return f(x), nil }
}

func domain(name string, valid func(float64) bool, f func(float64) float64) func(float64) (float64, *Error) {
	return func(x float64) (float64, *Error) {
		if !valid(x) {
			return 0, newError(MathDomainError, name, "%s is undefined for %s", name, formatLiteral(x))
		}
		return f(x), nil
	}
}

func nonNegative(x float64) bool { return x >= 0 || math.IsNaN(x) }
func unitRange(x float64) bool   { return (x >= -1 && x <= 1) || math.IsNaN(x) }

func init() {
	unary("sin", total(math.Sin), func(u Node) Node { return CallOf("cos", u) })
	unary("cos", total(math.Cos), func(u Node) Node { return NegOf(CallOf("sin", u)) })
	unary("tan", total(math.Tan), func(u Node) Node {
		return DivOf(N(1), PowOf(CallOf("cos", u), N(2)))
	})
	unary("asin", domain("asin", unitRange, math.Asin), func(u Node) Node {
		return DivOf(N(1), CallOf("sqrt", SubOf(N(1), PowOf(u, N(2)))))
	})
	unary("acos", domain("acos", unitRange, math.Acos), func(u Node) Node {
		return NegOf(DivOf(N(1), CallOf("sqrt", SubOf(N(1), PowOf(u, N(2))))))
	})
	unary("atan", total(math.Atan), func(u Node) Node {
		return DivOf(N(1), AddOf(N(1), PowOf(u, N(2))))
	})
	unary("sinh", total(math.Sinh), func(u Node) Node { return CallOf("cosh", u) })
	unary("cosh", total(math.Cosh), func(u Node) Node { return CallOf("sinh", u) })
	unary("tanh", total(math.Tanh), func(u Node) Node {
		return SubOf(N(1), PowOf(CallOf("tanh", u), N(2)))
	})

	unary("ln", domain("ln", nonNegative, math.Log), func(u Node) Node { return DivOf(N(1), u) })
	unary("log10", domain("log10", nonNegative, math.Log10), func(u Node) Node {
		return DivOf(N(1), MulOf(u, CallOf("ln", N(10))))
	})
	unary("log2", domain("log2", nonNegative, math.Log2), func(u Node) Node {
		return DivOf(N(1), MulOf(u, CallOf("ln", N(2))))
	})
	registerFunction("log", 1, 2, evalLog, diffLog)

	unary("sqrt", domain("sqrt", nonNegative, math.Sqrt), func(u Node) Node {
		return DivOf(N(1), MulOf(N(2), CallOf("sqrt", u)))
	})
	unary("cbrt", total(math.Cbrt), func(u Node) Node {
		return DivOf(N(1), MulOf(N(3), PowOf(CallOf("cbrt", u), N(2))))
	})
	unary("exp", total(math.Exp), func(u Node) Node { return CallOf("exp", u) })

	// Kinks and steps: evaluable, never differentiable.
	unary("abs", total(math.Abs), nil)
	unary("floor", total(math.Floor), nil)
	unary("ceil", total(math.Ceil), nil)
	unary("round", total(math.Round), nil)
	unary("sign", total(sign), nil)
	unary("factorial", factorial, nil)
	registerFunction("min", 1, -1, fold(math.Min), nil)
	registerFunction("max", 1, -1, fold(math.Max), nil)

	registerFunction("pi", 0, 0, constant(math.Pi), constantDiff)
	registerFunction("e", 0, 0, constant(math.E), constantDiff)
}

// evalLog is the natural log, or ln(x)/ln(base) with a second argument.
func evalLog(args []float64) (float64, *Error) {
	for _, a := range args {
		if a < 0 {
			return 0, newError(MathDomainError, "log", "log is undefined for %s", formatLiteral(a))
		}
	}
	if len(args) == 2 {
		return math.Log(args[0]) / math.Log(args[1]), nil
	}
	return math.Log(args[0]), nil
}

func diffLog(c *Call, varName string) (Node, error) {
	if len(c.Args) == 2 {
		return DivOf(CallOf("ln", Clone(c.Args[0])), CallOf("ln", Clone(c.Args[1]))).diff(varName)
	}
	return chain(func(u Node) Node { return DivOf(N(1), u) })(c, varName)
}

func constant(v float64) evalFn {
	return func([]float64) (float64, *Error) { return v, nil }
}

func constantDiff(*Call, string) (Node, error) { return N(0), nil }

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return x
}

func factorial(n float64) (float64, *Error) {
	r := math.Round(n)
	if math.IsNaN(n) || n < 0 || math.Abs(n-r) > factorialTolerance {
		return 0, newError(MathDomainError, "factorial", "factorial is undefined for %s", formatLiteral(n))
	}
	if r > 170 {
		return math.Inf(1), nil
	}
	acc := 1.0
	for i := 2.0; i <= r; i++ {
		acc *= i
	}
	return acc, nil
}

func fold(f func(a, b float64) float64) evalFn {
	return func(args []float64) (float64, *Error) {
		acc := args[0]
		for _, a := range args[1:] {
			acc = f(acc, a)
		}
		return acc, nil
	}
}

// Functions lists the names of all built-in functions.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
