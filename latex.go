package gocalc

import "strings"

func (n *Number) LaTeX() string {
	switch s := formatLiteral(n.Value); s {
	case "Infinity":
		return "\\infty"
	case "-Infinity":
		return "-\\infty"
	default:
		return s
	}
}

func (v *Variable) LaTeX() string {
	switch v.Name {
	case "pi", "tau", "phi":
		return "\\" + v.Name
	}
	return v.Name
}

func (u *Unary) LaTeX() string {
	x := u.X.LaTeX()
	if precedenceOf(u.X) <= precUnary {
		x = "\\left(" + x + "\\right)"
	}
	return "-" + x
}

func (b *Binary) LaTeX() string {
	left, right := b.Left.LaTeX(), b.Right.LaTeX()
	p := b.Op.precedence()
	switch b.Op {
	case OpDiv:
		return "\\frac{" + left + "}{" + right + "}"
	case OpPow:
		if precedenceOf(b.Left) <= p {
			left = "\\left(" + left + "\\right)"
		}
		return left + "^{" + right + "}"
	}
	if precedenceOf(b.Left) < p {
		left = "\\left(" + left + "\\right)"
	}
	if precedenceOf(b.Right) <= p {
		right = "\\left(" + right + "\\right)"
	}
	if b.Op == OpMul {
		return left + " \\cdot " + right
	}
	return left + " " + b.Op.String() + " " + right
}

func (c *Call) LaTeX() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.LaTeX()
	}
	arg := strings.Join(args, ", ")
	switch c.Func {
	case "sin", "cos", "tan", "exp", "ln", "sinh", "cosh", "tanh":
		return "\\" + c.Func + "\\left(" + arg + "\\right)"
	case "asin", "acos", "atan":
		return "\\arc" + c.Func[1:] + "\\left(" + arg + "\\right)"
	case "sqrt":
		return "\\sqrt{" + arg + "}"
	case "cbrt":
		return "\\sqrt[3]{" + arg + "}"
	case "abs":
		return "\\left|" + arg + "\\right|"
	case "floor":
		return "\\lfloor " + arg + " \\rfloor"
	case "ceil":
		return "\\lceil " + arg + " \\rceil"
	case "factorial":
		return "\\left(" + arg + "\\right)!"
	case "log":
		if len(args) == 2 {
			return "\\log_{" + args[1] + "}\\left(" + args[0] + "\\right)"
		}
		return "\\log\\left(" + arg + "\\right)"
	case "log10":
		return "\\log_{10}\\left(" + arg + "\\right)"
	case "log2":
		return "\\log_{2}\\left(" + arg + "\\right)"
	case "pi":
		return "\\pi"
	case "e":
		return "e"
	}
	return "\\operatorname{" + c.Func + "}\\left(" + arg + "\\right)"
}

func (e *Empty) LaTeX() string { return "" }

// LaTeX renders n as LaTeX math.
func LaTeX(n Node) string { return n.LaTeX() }
