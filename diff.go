package gocalc

// ============================================================
// Symbolic differentiation
// ============================================================

// Differentiate returns the derivative of n with respect to varName as a
// new tree. It never evaluates anything: a rule that would be undefined at
// some point surfaces later as a MathDomainError from Evaluate. Constructs
// with no rule (abs, factorial, unknown functions, ...) fail the whole
// derivative with NonDifferentiable.
func Differentiate(n Node, varName string) (Node, error) {
	if n == nil {
		return nil, newError(ParseError, "", "nothing to differentiate")
	}
	d, err := n.diff(varName)
	if err != nil {
		return nil, err
	}
	return Simplify(d), nil
}

// MaxDerivativeOrder bounds DifferentiateN. Trees roughly double in size
// with every order.
const MaxDerivativeOrder = 10

// DifferentiateN applies Differentiate order times. Orders outside
// 0..MaxDerivativeOrder are a ParseError.
func DifferentiateN(n Node, varName string, order int) (Node, error) {
	if order < 0 || order > MaxDerivativeOrder {
		return nil, newError(ParseError, "order",
			"derivative order must be between 0 and %d, got %d", MaxDerivativeOrder, order)
	}
	d := n
	for i := 0; i < order; i++ {
		var err error
		if d, err = Differentiate(d, varName); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (n *Number) diff(string) (Node, error) { return N(0), nil }

func (v *Variable) diff(varName string) (Node, error) {
	if v.Name == varName {
		return N(1), nil
	}
	return N(0), nil
}

func (u *Unary) diff(varName string) (Node, error) {
	dx, err := u.X.diff(varName)
	if err != nil {
		return nil, err
	}
	return NegOf(dx), nil
}

func (b *Binary) diff(varName string) (Node, error) {
	dl, err := b.Left.diff(varName)
	if err != nil {
		return nil, err
	}
	dr, err := b.Right.diff(varName)
	if err != nil {
		return nil, err
	}
	switch b.Op {
	case OpAdd:
		return AddOf(dl, dr), nil
	case OpSub:
		return SubOf(dl, dr), nil
	case OpMul:
		// (fg)' = f'g + fg'
		return AddOf(MulOf(dl, Clone(b.Right)), MulOf(Clone(b.Left), dr)), nil
	case OpDiv:
		// (f/g)' = (f'g - fg') / g^2
		return DivOf(
			SubOf(MulOf(dl, Clone(b.Right)), MulOf(Clone(b.Left), dr)),
			PowOf(Clone(b.Right), N(2)),
		), nil
	case OpPow:
		return b.diffPow(varName, dl, dr), nil
	}
	return nil, newError(NonDifferentiable, b.Op.String(), "no derivative rule for operator %q", b.Op.String())
}

// diffPow picks the power rule, the exponential rule, or the logarithmic
// derivative f^g * (g'*ln(f) + g*f'/f) depending on which side varies.
func (b *Binary) diffPow(varName string, df, dg Node) Node {
	f, g := b.Left, b.Right
	switch {
	case !DependsOn(g, varName):
		var lowered Node
		if n, ok := g.(*Number); ok {
			lowered = N(n.Value - 1)
		} else {
			lowered = SubOf(Clone(g), N(1))
		}
		return MulOf(MulOf(Clone(g), PowOf(Clone(f), lowered)), df)
	case !DependsOn(f, varName):
		return MulOf(MulOf(Clone(b), CallOf("ln", Clone(f))), dg)
	}
	return MulOf(Clone(b), AddOf(
		MulOf(dg, CallOf("ln", Clone(f))),
		DivOf(MulOf(Clone(g), df), Clone(f)),
	))
}

func (c *Call) diff(varName string) (Node, error) {
	fn, ok := functions[c.Func]
	if !ok {
		return nil, newError(NonDifferentiable, c.Func, "cannot differentiate unknown function %s", c.Func)
	}
	if fn.diff == nil {
		return nil, newError(NonDifferentiable, c.Func, "%s is not differentiable", c.Func)
	}
	if !fn.accepts(len(c.Args)) {
		return nil, newError(ParseError, c.Func, "%s expects %s, got %d", c.Func, fn.arityText(), len(c.Args))
	}
	return fn.diff(c, varName)
}

func (e *Empty) diff(string) (Node, error) { return &Empty{}, nil }
