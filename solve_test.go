package gocalc_test

import (
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gocalc"
)

// ============================================================
// Solve tests
// ============================================================

func TestSolve_Quadratic(t *testing.T) {
	n, err := gocalc.ParseEquation("x^2 - 4")
	require.NoError(t, err)

	out := gocalc.Solve(n, "x", 1)
	require.Equal(t, gocalc.Converged, out.Status)
	assert.InDelta(t, 2, out.Value, 1e-9)
	assert.Positive(t, out.Iterations)
	assert.Nil(t, out.Err)

	out = gocalc.Solve(n, "x", -1)
	require.Equal(t, gocalc.Converged, out.Status)
	assert.InDelta(t, -2, out.Value, 1e-9)
}

func TestSolve_Equation(t *testing.T) {
	n, err := gocalc.ParseEquation("x^2 = 9")
	require.NoError(t, err)
	out := gocalc.Solve(n, "x", 1)
	require.Equal(t, gocalc.Converged, out.Status)
	assert.InDelta(t, 3, out.Value, 1e-9)

	n, err = gocalc.ParseEquation("cos(x) = x")
	require.NoError(t, err)
	out = gocalc.Solve(n, "x", 0.5)
	require.Equal(t, gocalc.Converged, out.Status)
	assert.InDelta(t, 0.7390851332151607, out.Value, 1e-9)
}

func TestSolve_ZeroDerivative(t *testing.T) {
	out := gocalc.Solve(gocalc.MustParse("x^2 - 4"), "x", 0)
	require.Equal(t, gocalc.Failed, out.Status)
	require.NotNil(t, out.Err)
	assert.Equal(t, gocalc.ZeroDerivative, out.Err.Kind)
	assert.Equal(t, 1, out.Iterations)
}

func TestSolve_NonFiniteGuessFallsBack(t *testing.T) {
	for _, guess := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		out := gocalc.Solve(gocalc.MustParse("x^2 - 4"), "x", guess)
		require.Equal(t, gocalc.Converged, out.Status)
		assert.InDelta(t, 2, out.Value, 1e-9)
	}
}

func TestSolve_NonDifferentiable(t *testing.T) {
	out := gocalc.Solve(gocalc.MustParse("abs(x) - 1"), "x", 3)
	require.Equal(t, gocalc.Failed, out.Status)
	assert.Equal(t, gocalc.NonDifferentiable, out.Err.Kind)
	assert.Zero(t, out.Iterations)
}

func TestSolve_LeavesDomain(t *testing.T) {
	out := gocalc.Solve(gocalc.MustParse("sqrt(x) + 1"), "x", 1)
	assert.Equal(t, gocalc.NotConverged, out.Status)
	assert.Nil(t, out.Err)
}

func TestSolve_NoRealRoot(t *testing.T) {
	out := gocalc.Solve(gocalc.MustParse("x^2 + 1"), "x", 0.5)
	assert.Equal(t, gocalc.NotConverged, out.Status)
	assert.Equal(t, gocalc.DefaultMaxIterations, out.Iterations)
}

func TestSolve_UndefinedVariableFails(t *testing.T) {
	out := gocalc.Solve(gocalc.MustParse("x + y"), "x", 1)
	require.Equal(t, gocalc.Failed, out.Status)
	assert.Equal(t, gocalc.UndefinedVariable, out.Err.Kind)
	assert.Equal(t, "y", out.Err.Subject)
}

func TestSolveIn_Scope(t *testing.T) {
	scope := gocalc.ScopeOf(map[string]float64{"y": 3, "x": 100})
	out := gocalc.NewSolver().SolveIn(gocalc.MustParse("x + y"), "x", 1, scope)
	require.Equal(t, gocalc.Converged, out.Status)
	assert.InDelta(t, -3, out.Value, 1e-12)
	assert.Equal(t, 100.0, scope["x"].Num)
}

func TestSolve_Empty(t *testing.T) {
	out := gocalc.Solve(gocalc.MustParse(""), "x", 1)
	require.Equal(t, gocalc.Failed, out.Status)
	assert.Equal(t, gocalc.ParseError, out.Err.Kind)
}

// ============================================================
// Solver configuration tests
// ============================================================

func TestSolver_Bounds(t *testing.T) {
	s := gocalc.NewSolver()
	s.MaxIterations = 2
	out := s.Solve(gocalc.MustParse("x^3 - 1000"), "x", 1)
	assert.Equal(t, gocalc.NotConverged, out.Status)
	assert.Equal(t, 2, out.Iterations)
}

func TestSolver_Logs(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	s := gocalc.NewSolver()
	s.Logger = logger
	out := s.Solve(gocalc.MustParse("x^2 - 2"), "x", 1)
	require.Equal(t, gocalc.Converged, out.Status)

	require.NotEmpty(t, hook.AllEntries())
	last := hook.LastEntry()
	assert.Equal(t, logrus.DebugLevel, last.Level)
	assert.Equal(t, "x", last.Data["var"])
}

func TestSolver_NilLogger(t *testing.T) {
	s := &gocalc.Solver{MaxIterations: 10, Tolerance: 1e-12}
	out := s.Solve(gocalc.MustParse("x - 5"), "x", 0)
	require.Equal(t, gocalc.Converged, out.Status)
	assert.InDelta(t, 5, out.Value, 1e-12)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "converged", gocalc.Converged.String())
	assert.Equal(t, "not_converged", gocalc.NotConverged.String())
	assert.Equal(t, "failed", gocalc.Failed.String())
}
