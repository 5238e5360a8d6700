package gocalc

import "math"

// Simplify folds numeric constants and drops additive and multiplicative
// identities. It only makes trees shorter; it never rewrites them into a
// canonical form.
func Simplify(n Node) Node {
	switch v := n.(type) {
	case *Unary:
		return negate(Simplify(v.X))
	case *Binary:
		return simplifyBinary(v.Op, Simplify(v.Left), Simplify(v.Right))
	case *Call:
		args := make([]Node, len(v.Args))
		for i, a := range v.Args {
			args[i] = Simplify(a)
		}
		return CallOf(v.Func, args...)
	}
	return Clone(n)
}

func negate(x Node) Node {
	switch v := x.(type) {
	case *Number:
		return N(-v.Value)
	case *Unary:
		return v.X
	}
	return NegOf(x)
}

func simplifyBinary(op BinaryOp, l, r Node) Node {
	if a, ok := l.(*Number); ok {
		if b, ok := r.(*Number); ok {
			if v, ok := foldConstant(op, a.Value, b.Value); ok {
				return N(v)
			}
		}
	}
	switch op {
	case OpAdd:
		switch {
		case isNum(l, 0):
			return r
		case isNum(r, 0):
			return l
		}
		if neg, ok := r.(*Unary); ok {
			return SubOf(l, neg.X)
		}
	case OpSub:
		switch {
		case isNum(r, 0):
			return l
		case isNum(l, 0):
			return negate(r)
		}
	case OpMul:
		switch {
		case isNum(l, 0), isNum(r, 0):
			return N(0)
		case isNum(l, 1):
			return r
		case isNum(r, 1):
			return l
		case isNum(l, -1):
			return negate(r)
		case isNum(r, -1):
			return negate(l)
		}
	case OpDiv:
		switch {
		case isNum(r, 1):
			return l
		case isNum(l, 0):
			return N(0)
		}
	case OpPow:
		switch {
		case isNum(r, 0):
			return N(1)
		case isNum(r, 1):
			return l
		}
	}
	return &Binary{Op: op, Left: l, Right: r}
}

// foldConstant evaluates a constant operation, keeping the tree when the result is
// not finite so that infinities and domain errors stay visible.
func foldConstant(op BinaryOp, a, b float64) (float64, bool) {
	var v float64
	switch op {
	case OpAdd:
		v = a + b
	case OpSub:
		v = a - b
	case OpMul:
		v = a * b
	case OpDiv:
		v = a / b
	case OpPow:
		p, err := power(a, b)
		if err != nil {
			return 0, false
		}
		v = p
	}
	return v, !math.IsInf(v, 0) && !math.IsNaN(v)
}

func isNum(n Node, v float64) bool {
	num, ok := n.(*Number)
	return ok && num.Value == v
}
