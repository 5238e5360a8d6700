// Package gocalc is the expression engine behind an interactive calculator.
//
// Text is tokenized and parsed into an immutable syntax tree, evaluated
// against a Scope of variable bindings, differentiated symbolically, and
// solved for a variable with Newton–Raphson iteration. Results are
// canonicalized to fixed-precision text by Format.
//
// The engine is pure: no I/O, no shared mutable state, no cross-call memory.
package gocalc

import (
	"math"
	"strconv"
)

// ============================================================
// Core Interface
// ============================================================

// Node is an expression tree node. Trees are never mutated after
// construction and never share subtrees.
type Node interface {
	String() string
	LaTeX() string
	Equal(other Node) bool
	nodeType() string
	toJSON() map[string]interface{}
	eval(s Scope) Result
	diff(varName string) (Node, error)
}

// UnaryOp identifies a prefix operation.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
)

// BinaryOp identifies an infix operation.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpPow
)

var binaryOpSymbols = map[BinaryOp]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpPow: "^",
}

var binaryOpsBySymbol = map[string]BinaryOp{
	"+": OpAdd,
	"-": OpSub,
	"*": OpMul,
	"/": OpDiv,
	"^": OpPow,
}

func (op BinaryOp) String() string { return binaryOpSymbols[op] }

// Binding strength, used by String to place the fewest parentheses that
// still re-parse to the same tree.
const (
	precSum = iota + 1
	precProduct
	precUnary
	precPower
	precAtom
)

func (op BinaryOp) precedence() int {
	switch op {
	case OpAdd, OpSub:
		return precSum
	case OpMul, OpDiv:
		return precProduct
	}
	return precPower
}

func precedenceOf(n Node) int {
	switch v := n.(type) {
	case *Binary:
		return v.Op.precedence()
	case *Unary:
		return precUnary
	case *Number:
		if math.Signbit(v.Value) && !math.IsInf(v.Value, 0) && !math.IsNaN(v.Value) {
			return precUnary
		}
	}
	return precAtom
}

// ============================================================
// Node types
// ============================================================

// Number is a numeric literal.
type Number struct{ Value float64 }

// Variable is a reference resolved against the Scope, then the constants.
type Variable struct{ Name string }

// Unary applies a prefix operator.
type Unary struct {
	Op UnaryOp
	X  Node
}

// Binary applies an infix operator.
type Binary struct {
	Op          BinaryOp
	Left, Right Node
}

// Call applies a named function to its arguments.
type Call struct {
	Func string
	Args []Node
}

// Empty is what Parse returns for blank input, so callers can short-circuit
// without treating it as an error.
type Empty struct{}

// ============================================================
// Constructors
// ============================================================

// N returns the literal v.
func N(v float64) *Number { return &Number{Value: v} }

// V returns a reference to the variable name.
func V(name string) *Variable { return &Variable{Name: name} }

// NegOf returns -x.
func NegOf(x Node) *Unary { return &Unary{Op: OpNeg, X: x} }

// AddOf returns l + r.
func AddOf(l, r Node) *Binary { return &Binary{Op: OpAdd, Left: l, Right: r} }

// SubOf returns l - r.
func SubOf(l, r Node) *Binary { return &Binary{Op: OpSub, Left: l, Right: r} }

// MulOf returns l * r.
func MulOf(l, r Node) *Binary { return &Binary{Op: OpMul, Left: l, Right: r} }

// DivOf returns l / r.
func DivOf(l, r Node) *Binary { return &Binary{Op: OpDiv, Left: l, Right: r} }

// PowOf returns l ^ r.
func PowOf(l, r Node) *Binary { return &Binary{Op: OpPow, Left: l, Right: r} }

// CallOf does not check name against the function table; unknown names
// fail at evaluation.
func CallOf(name string, args ...Node) *Call {
	return &Call{Func: name, Args: args}
}

// IsEmpty reports whether n is the blank-input sentinel.
func IsEmpty(n Node) bool {
	_, ok := n.(*Empty)
	return ok || n == nil
}

// ============================================================
// String
// ============================================================

// String prints non-finite values as parenthesized divisions so the text
// still parses back to the same value.
func (n *Number) String() string {
	switch {
	case math.IsInf(n.Value, 1):
		return "(1 / 0)"
	case math.IsInf(n.Value, -1):
		return "(-1 / 0)"
	case math.IsNaN(n.Value):
		return "(0 / 0)"
	}
	return formatLiteral(n.Value)
}

func formatLiteral(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (v *Variable) String() string { return v.Name }

func (u *Unary) String() string {
	x := u.X.String()
	if precedenceOf(u.X) <= precUnary {
		x = "(" + x + ")"
	}
	return "-" + x
}

func (b *Binary) String() string {
	left, right := b.Left.String(), b.Right.String()
	p := b.Op.precedence()
	if b.Op == OpPow {
		if precedenceOf(b.Left) <= p {
			left = "(" + left + ")"
		}
		if precedenceOf(b.Right) < p {
			right = "(" + right + ")"
		}
		return left + "^" + right
	}
	if precedenceOf(b.Left) < p {
		left = "(" + left + ")"
	}
	if precedenceOf(b.Right) <= p {
		right = "(" + right + ")"
	}
	return left + " " + b.Op.String() + " " + right
}

func (c *Call) String() string {
	s := c.Func + "("
	for i, a := range c.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

func (e *Empty) String() string { return "" }

// ============================================================
// Equal
// ============================================================

func (n *Number) Equal(other Node) bool {
	o, ok := other.(*Number)
	if !ok {
		return false
	}
	return n.Value == o.Value || (math.IsNaN(n.Value) && math.IsNaN(o.Value))
}

func (v *Variable) Equal(other Node) bool {
	o, ok := other.(*Variable)
	return ok && v.Name == o.Name
}

func (u *Unary) Equal(other Node) bool {
	o, ok := other.(*Unary)
	return ok && u.Op == o.Op && u.X.Equal(o.X)
}

func (b *Binary) Equal(other Node) bool {
	o, ok := other.(*Binary)
	return ok && b.Op == o.Op && b.Left.Equal(o.Left) && b.Right.Equal(o.Right)
}

func (c *Call) Equal(other Node) bool {
	o, ok := other.(*Call)
	if !ok || c.Func != o.Func || len(c.Args) != len(o.Args) {
		return false
	}
	for i := range c.Args {
		if !c.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

func (e *Empty) Equal(other Node) bool {
	_, ok := other.(*Empty)
	return ok
}

func (n *Number) nodeType() string   { return "num" }
func (v *Variable) nodeType() string { return "var" }
func (u *Unary) nodeType() string    { return "neg" }
func (b *Binary) nodeType() string   { return "binary" }
func (c *Call) nodeType() string     { return "call" }
func (e *Empty) nodeType() string    { return "empty" }

// ============================================================
// Free variables
// ============================================================

// FreeVariables returns the names of all variables referenced by n,
// constants included.
func FreeVariables(n Node) map[string]struct{} {
	out := map[string]struct{}{}
	collectVariables(n, out)
	return out
}

func collectVariables(n Node, out map[string]struct{}) {
	switch v := n.(type) {
	case *Variable:
		out[v.Name] = struct{}{}
	case *Unary:
		collectVariables(v.X, out)
	case *Binary:
		collectVariables(v.Left, out)
		collectVariables(v.Right, out)
	case *Call:
		for _, a := range v.Args {
			collectVariables(a, out)
		}
	}
}

// DependsOn reports whether varName occurs anywhere in n.
func DependsOn(n Node, varName string) bool {
	switch v := n.(type) {
	case *Variable:
		return v.Name == varName
	case *Unary:
		return DependsOn(v.X, varName)
	case *Binary:
		return DependsOn(v.Left, varName) || DependsOn(v.Right, varName)
	case *Call:
		for _, a := range v.Args {
			if DependsOn(a, varName) {
				return true
			}
		}
	}
	return false
}
