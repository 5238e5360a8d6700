package gocalc

import "math"

// Evaluate reduces n under scope. The first failure anywhere in the tree is
// the whole result; nothing partial is returned. Division by zero follows
// IEEE-754 and yields a signed infinity, not a failure.
func Evaluate(n Node, scope Scope) Result {
	if n == nil {
		return TextResult("")
	}
	return n.eval(scope)
}

// EvaluateFloat evaluates n and requires a numeric result.
func EvaluateFloat(n Node, scope Scope) (float64, error) {
	r := Evaluate(n, scope)
	v, err := operand(r, "result")
	if err != nil {
		return 0, err
	}
	return v, nil
}

func (n *Number) eval(Scope) Result { return NumberResult(n.Value) }

func (v *Variable) eval(s Scope) Result {
	if r, ok := s[v.Name]; ok {
		return r
	}
	if c, ok := constants[v.Name]; ok {
		return NumberResult(c)
	}
	return failure(UndefinedVariable, v.Name, "undefined variable: %s", v.Name)
}

func (u *Unary) eval(s Scope) Result {
	x, err := operand(u.X.eval(s), "-")
	if err != nil {
		return FailureResult(err)
	}
	return NumberResult(-x)
}

func (b *Binary) eval(s Scope) Result {
	lr := b.Left.eval(s)
	if lr.Failed() {
		return lr
	}
	rr := b.Right.eval(s)
	if rr.Failed() {
		return rr
	}
	sym := b.Op.String()
	l, err := operand(lr, sym)
	if err != nil {
		return FailureResult(err)
	}
	r, err := operand(rr, sym)
	if err != nil {
		return FailureResult(err)
	}
	switch b.Op {
	case OpAdd:
		return NumberResult(l + r)
	case OpSub:
		return NumberResult(l - r)
	case OpMul:
		return NumberResult(l * r)
	case OpDiv:
		return NumberResult(l / r)
	case OpPow:
		v, err := power(l, r)
		if err != nil {
			return FailureResult(err)
		}
		return NumberResult(v)
	}
	return failure(ParseError, sym, "unknown operator %d", int(b.Op))
}

// power is math.Pow restricted to real results: 0^0 is 1, and a negative
// base only accepts integral exponents.
func power(base, exp float64) (float64, *Error) {
	if base < 0 && !math.IsInf(exp, 0) && !math.IsNaN(exp) && exp != math.Trunc(exp) {
		return 0, newError(MathDomainError, "^", "negative base %s with non-integer exponent %s",
			formatLiteral(base), formatLiteral(exp))
	}
	return math.Pow(base, exp), nil
}

func (c *Call) eval(s Scope) Result {
	args := make([]float64, len(c.Args))
	for i, a := range c.Args {
		v, err := operand(a.eval(s), c.Func)
		if err != nil {
			return FailureResult(err)
		}
		args[i] = v
	}
	fn, ok := functions[c.Func]
	if !ok {
		return failure(UnknownFunction, c.Func, "unknown function: %s", c.Func)
	}
	if !fn.accepts(len(args)) {
		return failure(ParseError, c.Func, "%s expects %s, got %d", c.Func, fn.arityText(), len(args))
	}
	v, err := fn.eval(args)
	if err != nil {
		return FailureResult(err)
	}
	return NumberResult(v)
}

func (e *Empty) eval(Scope) Result { return TextResult("") }

// operand extracts a number from r, passing failures through and rejecting
// text and sequences.
func operand(r Result, op string) (float64, *Error) {
	switch r.Kind {
	case ResultNumber:
		return r.Num, nil
	case ResultFailure:
		return 0, r.Err
	}
	return 0, newError(MathDomainError, op, "%s expects a number, got %s", op, r.Kind)
}
