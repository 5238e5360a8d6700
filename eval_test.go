package gocalc_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gocalc"
)

// ============================================================
// Evaluate tests
// ============================================================

func eval(t *testing.T, text string, scope gocalc.Scope) gocalc.Result {
	t.Helper()
	n, err := gocalc.Parse(text)
	require.NoError(t, err, text)
	return gocalc.Evaluate(n, scope)
}

func evalNum(t *testing.T, text string, scope gocalc.Scope) float64 {
	t.Helper()
	r := eval(t, text, scope)
	require.Equal(t, gocalc.ResultNumber, r.Kind, "%s: %s", text, gocalc.Format(r))
	return r.Num
}

func TestEvaluate_Arithmetic(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"2+2", 4},
		{"(1+2)*(3+4)", 21},
		{"7-2-1", 4},
		{"8/4/2", 1},
		{"-2^2", -4},
		{"(-2)^2", 4},
		{"2^3^2", 512},
		{"2^-1", 0.5},
		{"0^0", 1},
		{"(-8)^3", -512},
		{"3,5*2", 7},
		{"factorial(5)", 120},
		{"factorial(0)", 1},
		{"sqrt(16)", 4},
		{"cbrt(-27)", -3},
		{"abs(-3)", 3},
		{"floor(2.7) + ceil(2.1) + round(2.5)", 8},
		{"sign(-4) + sign(0) + sign(9)", 0},
		{"min(3, 1, 2) + max(4)", 5},
		{"exp(0)", 1},
		{"log2(8)", 3},
		{"log10(1000)", 3},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			assert.InDelta(t, c.want, evalNum(t, c.in, nil), 1e-12)
		})
	}
}

func TestEvaluate_Functions(t *testing.T) {
	assert.InDelta(t, 1, evalNum(t, "sin(pi/2)", nil), 1e-10)
	assert.InDelta(t, 2, evalNum(t, "log(100,10)", nil), 1e-12)
	assert.InDelta(t, 1, evalNum(t, "log(e)", nil), 1e-12)
	assert.InDelta(t, 1, evalNum(t, "ln(e())", nil), 1e-12)
	assert.InDelta(t, math.Pi, evalNum(t, "pi()", nil), 0)
	assert.InDelta(t, 2*math.Pi, evalNum(t, "tau", nil), 1e-15)
	assert.InDelta(t, math.Pi/4, evalNum(t, "atan(1)", nil), 1e-15)
	assert.InDelta(t, 0, evalNum(t, "tanh(0) + sinh(0)", nil), 0)
	assert.InDelta(t, 120, evalNum(t, "factorial(5.0000000001)", nil), 0)
}

func TestEvaluate_Scope(t *testing.T) {
	scope := gocalc.ScopeOf(map[string]float64{"a": 2, "b": 3, "c": 1})
	assert.Equal(t, 7.0, evalNum(t, "a*b + c", scope))

	// Bindings shadow constants.
	assert.Equal(t, 3.0, evalNum(t, "pi", gocalc.ScopeOf(map[string]float64{"pi": 3})))

	r := eval(t, "name", gocalc.NewScope().SetText("name", "hello"))
	assert.Equal(t, gocalc.TextResult("hello"), r)
}

func TestEvaluate_DivisionByZero(t *testing.T) {
	assert.True(t, math.IsInf(evalNum(t, "5/0", nil), 1))
	assert.True(t, math.IsInf(evalNum(t, "-5/0", nil), -1))
	assert.True(t, math.IsNaN(evalNum(t, "0/0", nil)))
	assert.Equal(t, "Infinity", gocalc.Format(eval(t, "5/0", nil)))
}

func TestEvaluate_Failures(t *testing.T) {
	cases := []struct {
		in      string
		kind    gocalc.ErrorKind
		subject string
	}{
		{"unknownVar + 1", gocalc.UndefinedVariable, "unknownVar"},
		{"sqrt(-1)", gocalc.MathDomainError, "sqrt"},
		{"ln(-1)", gocalc.MathDomainError, "ln"},
		{"log(-10, 10)", gocalc.MathDomainError, "log"},
		{"asin(2)", gocalc.MathDomainError, "asin"},
		{"factorial(-1)", gocalc.MathDomainError, "factorial"},
		{"factorial(2.5)", gocalc.MathDomainError, "factorial"},
		{"(-8)^(1/3)", gocalc.MathDomainError, "^"},
		{"nope(2)", gocalc.UnknownFunction, "nope"},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			r := eval(t, c.in, nil)
			require.True(t, r.Failed(), gocalc.Format(r))
			assert.Equal(t, c.kind, r.Err.Kind)
			assert.Equal(t, c.subject, r.Err.Subject)
			assert.Equal(t, c.kind, gocalc.KindOf(r.AsError()))
		})
	}
}

func TestEvaluate_FirstFailureWins(t *testing.T) {
	r := eval(t, "a + sqrt(-1) + b", nil)
	require.True(t, r.Failed())
	assert.Equal(t, gocalc.UndefinedVariable, r.Err.Kind)
	assert.Equal(t, "a", r.Err.Subject)

	r = eval(t, "nope(missing)", nil)
	assert.Equal(t, gocalc.UndefinedVariable, r.Err.Kind)
}

func TestEvaluate_TextOperand(t *testing.T) {
	r := eval(t, "t + 1", gocalc.NewScope().SetText("t", "word"))
	require.True(t, r.Failed())
	assert.Equal(t, gocalc.MathDomainError, r.Err.Kind)
}

func TestEvaluate_Special(t *testing.T) {
	assert.True(t, math.IsInf(evalNum(t, "ln(0)", nil), -1))
	assert.True(t, math.IsInf(evalNum(t, "factorial(171)", nil), 1))
	assert.Equal(t, gocalc.TextResult(""), eval(t, "  ", nil))
	assert.Equal(t, gocalc.TextResult(""), gocalc.Evaluate(nil, nil))
}

func TestEvaluate_Deterministic(t *testing.T) {
	for _, in := range []string{"sin(1)^2 + cos(1)^2", "2^0.5 * 3", "factorial(10) / 7", "5/0"} {
		n := gocalc.MustParse(in)
		first := gocalc.Evaluate(n, nil)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, gocalc.Evaluate(n, nil), in)
		}
	}
}

func TestEvaluate_DoesNotTouchScope(t *testing.T) {
	scope := gocalc.ScopeOf(map[string]float64{"x": 1})
	_ = eval(t, "x + y", scope)
	assert.Len(t, scope, 1)
}

func TestEvaluateFloat(t *testing.T) {
	v, err := gocalc.EvaluateFloat(gocalc.MustParse("x*2"), gocalc.NewScope().SetNumber("x", 4))
	require.NoError(t, err)
	assert.Equal(t, 8.0, v)

	_, err = gocalc.EvaluateFloat(gocalc.MustParse("y"), nil)
	assert.Equal(t, gocalc.UndefinedVariable, gocalc.KindOf(err))

	_, err = gocalc.EvaluateFloat(gocalc.MustParse(""), nil)
	assert.Equal(t, gocalc.MathDomainError, gocalc.KindOf(err))
}

// ============================================================
// Scope and function table tests
// ============================================================

func TestScope_With(t *testing.T) {
	base := gocalc.ScopeOf(map[string]float64{"a": 1})
	next := base.With("b", 2)
	_, ok := base.Lookup("b")
	assert.False(t, ok)
	r, ok := next.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, 2.0, r.Num)
}

func TestFunctions(t *testing.T) {
	names := gocalc.Functions()
	assert.Contains(t, names, "sin")
	assert.Contains(t, names, "factorial")
	assert.IsIncreasing(t, names)
}
