package gocalc_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gocalc"
)

// ============================================================
// Tool tests
// ============================================================

func call(tool string, params map[string]interface{}) gocalc.ToolResponse {
	return gocalc.HandleToolCall(gocalc.ToolRequest{Tool: tool, Params: params})
}

func TestTool_Evaluate(t *testing.T) {
	resp := call("evaluate", map[string]interface{}{
		"expr":  "a*b + c",
		"scope": map[string]interface{}{"a": 2.0, "b": 3.0, "c": 1.0},
	})
	assert.Empty(t, resp.Error)
	assert.Equal(t, "7", resp.String)

	resp = call("evaluate", map[string]interface{}{"expr": "sqrt(-1)"})
	assert.Equal(t, "math_domain_error", resp.Kind)
	assert.Equal(t, "Error: sqrt is undefined for -1", resp.String)

	resp = call("evaluate", map[string]interface{}{"expr": "x", "scope": map[string]interface{}{"x": true}})
	assert.Contains(t, resp.Error, "scope.x")
}

func TestTool_ExprAsObject(t *testing.T) {
	s, err := gocalc.ToJSON(gocalc.MustParse("x^2 + 1"))
	require.NoError(t, err)
	var obj map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &obj))

	resp := call("evaluate", map[string]interface{}{"expr": obj, "scope": map[string]interface{}{"x": 3.0}})
	assert.Equal(t, "10", resp.String)

	resp = call("parse", map[string]interface{}{"expr": obj})
	assert.Equal(t, "x^2 + 1", resp.String)
	assert.Equal(t, "x^{2} + 1", resp.LaTeX)
}

func TestTool_Differentiate(t *testing.T) {
	resp := call("differentiate", map[string]interface{}{"expr": "x^2", "var": "x"})
	assert.Empty(t, resp.Error)
	assert.Equal(t, "2 * x", resp.String)

	resp = call("differentiate", map[string]interface{}{"expr": "x^3", "var": "x", "order": 3.0})
	assert.Equal(t, "6", resp.String)

	resp = call("differentiate", map[string]interface{}{"expr": "abs(x)", "var": "x"})
	assert.Equal(t, "non_differentiable", resp.Kind)

	resp = call("differentiate", map[string]interface{}{"expr": "x", "var": "x", "order": 1.5})
	assert.Contains(t, resp.Error, "order")
}

func TestTool_DifferentiateOrderIsCapped(t *testing.T) {
	resp := call("differentiate", map[string]interface{}{
		"expr": "sin(x)*exp(x)*x", "var": "x", "order": float64(gocalc.MaxDerivativeOrder),
	})
	assert.Empty(t, resp.Error)

	for _, order := range []float64{float64(gocalc.MaxDerivativeOrder + 1), 30, 1e300} {
		resp = call("differentiate", map[string]interface{}{
			"expr": "sin(x)*exp(x)*x", "var": "x", "order": order,
		})
		assert.Equal(t, "parse_error", resp.Kind, "order %g", order)
		assert.Contains(t, resp.Error, "at most 10")
		assert.Empty(t, resp.String)
	}
}

func TestTool_Solve(t *testing.T) {
	resp := call("solve", map[string]interface{}{"expr": "x^2 - 4", "var": "x", "guess": 1.0})
	assert.Empty(t, resp.Error)
	assert.Equal(t, "2", resp.String)

	resp = call("solve", map[string]interface{}{"expr": "x^2 = 4", "var": "x", "guess": -5.0})
	assert.Equal(t, "-2", resp.String)

	resp = call("solve", map[string]interface{}{"expr": "x^2 - 4", "var": "x", "guess": 0.0})
	assert.Equal(t, "zero_derivative", resp.Kind)

	resp = call("solve", map[string]interface{}{"expr": "sqrt(x) + 1", "var": "x"})
	assert.Equal(t, "no solution found, try another initial guess", resp.Error)
}

func TestTool_Calculate(t *testing.T) {
	resp := call("calculate", map[string]interface{}{"input": "a = 2; a * 3"})
	assert.Empty(t, resp.Error)
	assert.Equal(t, "[2, 6]", resp.String)

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"scope":{"a":{"display":"2","kind":"number","value":2}}`)
}

func TestTool_Misc(t *testing.T) {
	resp := call("simplify", map[string]interface{}{"expr": "0 + x * 1"})
	assert.Equal(t, "x", resp.String)

	resp = call("to_latex", map[string]interface{}{"expr": "x/2"})
	assert.Equal(t, `\frac{x}{2}`, resp.LaTeX)

	resp = call("free_variables", map[string]interface{}{"expr": "x*y + x"})
	assert.Equal(t, []string{"x", "y"}, resp.Result)

	resp = call("format", map[string]interface{}{"value": 1e21})
	assert.Equal(t, "1e+21", resp.String)

	resp = call("format", map[string]interface{}{"value": 3.14159, "precision": 3.0})
	assert.Equal(t, "3.14", resp.String)
}

func TestTool_Errors(t *testing.T) {
	assert.Equal(t, "unknown tool: nope", call("nope", nil).Error)
	assert.Equal(t, "missing param: expr", call("evaluate", map[string]interface{}{}).Error)
	assert.Contains(t, call("evaluate", map[string]interface{}{"expr": 3.0}).Error, "must be a string or expression object")
	assert.Equal(t, "parse_error", call("parse", map[string]interface{}{"expr": "(1"}).Kind)
	assert.Equal(t, "missing param: var", call("solve", map[string]interface{}{"expr": "x"}).Error)
}

// ============================================================
// ToolSpec tests
// ============================================================

func TestToolSpec(t *testing.T) {
	var spec struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(gocalc.ToolSpec()), &spec))
	var names []string
	for _, tool := range spec.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"parse", "evaluate", "calculate", "differentiate", "solve",
		"simplify", "format", "to_latex", "free_variables", "tool_spec",
	}, names)

	assert.Equal(t, gocalc.ToolSpec(), call("tool_spec", nil).String)
}
