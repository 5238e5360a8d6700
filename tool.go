package gocalc

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ============================================================
// Tool Interface
// ============================================================

// ToolRequest names a tool and its parameters, as decoded from JSON.
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

// ToolResponse carries either a result (with its String and LaTeX forms)
// or an Error. Kind is the error kind name when the failure is typed.
type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
	Kind   string      `json:"kind,omitempty"`
}

func errorResponse(err error) ToolResponse {
	resp := ToolResponse{Error: err.Error()}
	if k := KindOf(err); k != KindNone {
		resp.Kind = k.String()
	}
	return resp
}

// HandleToolCall dispatches a JSON tool request to the default engine.
func HandleToolCall(req ToolRequest) ToolResponse {
	return NewToolHandler(nil).Handle(req)
}

// ToolHandler serves tool requests with a configured Calculator.
type ToolHandler struct {
	calc *Calculator
}

// NewToolHandler wraps calc; nil means NewCalculator().
func NewToolHandler(calc *Calculator) *ToolHandler {
	if calc == nil {
		calc = NewCalculator()
	}
	if calc.Solver == nil {
		calc.Solver = NewSolver()
	}
	return &ToolHandler{calc: calc}
}

// Handle dispatches req. Expression parameters accept either calculator
// text or a tree in the ToJSON format.
func (h *ToolHandler) Handle(req ToolRequest) ToolResponse {
	getExpr := func(key string) (Node, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		switch val := v.(type) {
		case string:
			return ParseEquation(val)
		case map[string]interface{}:
			return FromJSON(val)
		}
		return nil, fmt.Errorf("param %s must be a string or expression object", key)
	}
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getNumber := func(key string, def float64) (float64, error) {
		v, ok := req.Params[key]
		if !ok || v == nil {
			return def, nil
		}
		f, ok := v.(float64)
		if !ok {
			return 0, fmt.Errorf("param %s must be a number", key)
		}
		return f, nil
	}
	getScope := func() (Scope, error) {
		v, ok := req.Params["scope"]
		if !ok || v == nil {
			return NewScope(), nil
		}
		raw, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("param scope must be an object")
		}
		s := make(Scope, len(raw))
		for name, val := range raw {
			switch b := val.(type) {
			case float64:
				s.SetNumber(name, b)
			case string:
				s.SetText(name, b)
			default:
				return nil, fmt.Errorf("scope.%s must be a number or a string", name)
			}
		}
		return s, nil
	}
	respond := func(n Node) ToolResponse {
		return ToolResponse{Result: n.toJSON(), LaTeX: LaTeX(n), String: n.String()}
	}
	respondResult := func(r Result) ToolResponse {
		resp := ToolResponse{Result: r, String: h.calc.Format(r)}
		if r.Failed() && r.Err != nil {
			resp.Error, resp.Kind = r.Err.Msg, r.Err.Kind.String()
		}
		return resp
	}

	switch req.Tool {
	case "parse":
		e, err := getExpr("expr")
		if err != nil {
			return errorResponse(err)
		}
		return respond(e)

	case "evaluate":
		e, err := getExpr("expr")
		if err != nil {
			return errorResponse(err)
		}
		s, err := getScope()
		if err != nil {
			return errorResponse(err)
		}
		return respondResult(Evaluate(e, s))

	case "calculate":
		input, err := getString("input")
		if err != nil {
			return errorResponse(err)
		}
		s, err := getScope()
		if err != nil {
			return errorResponse(err)
		}
		r, after := h.calc.Calculate(input, s)
		resp := respondResult(r)
		resp.Result = map[string]interface{}{"value": r, "scope": scopeJSON(after)}
		return resp

	case "differentiate":
		e, err := getExpr("expr")
		if err != nil {
			return errorResponse(err)
		}
		v, err := getString("var")
		if err != nil {
			return errorResponse(err)
		}
		order, err := getNumber("order", 1)
		if err != nil {
			return errorResponse(err)
		}
		if order < 0 || order != math.Trunc(order) {
			return ToolResponse{Error: "param order must be a non-negative integer"}
		}
		if order > MaxDerivativeOrder {
			return errorResponse(newError(ParseError, "order",
				"param order must be at most %d, got %s", MaxDerivativeOrder, formatLiteral(order)))
		}
		d, err := DifferentiateN(e, v, int(order))
		if err != nil {
			return errorResponse(err)
		}
		return respond(d)

	case "solve":
		e, err := getExpr("expr")
		if err != nil {
			return errorResponse(err)
		}
		v, err := getString("var")
		if err != nil {
			return errorResponse(err)
		}
		guess, err := getNumber("guess", DefaultGuess)
		if err != nil {
			return errorResponse(err)
		}
		s, err := getScope()
		if err != nil {
			return errorResponse(err)
		}
		out := h.calc.Solver.SolveIn(e, v, guess, s)
		resp := ToolResponse{Result: out}
		switch out.Status {
		case Converged:
			resp.String = h.calc.Formatter.Number(out.Value)
		case NotConverged:
			resp.Error = noSolutionMsg
		default:
			if out.Err != nil {
				resp.Error, resp.Kind = out.Err.Msg, out.Err.Kind.String()
			} else {
				resp.Error = "solve failed"
			}
		}
		return resp

	case "simplify":
		e, err := getExpr("expr")
		if err != nil {
			return errorResponse(err)
		}
		return respond(Simplify(e))

	case "format":
		v, err := getNumber("value", 0)
		if err != nil {
			return errorResponse(err)
		}
		p, err := getNumber("precision", float64(h.calc.Formatter.Precision))
		if err != nil {
			return errorResponse(err)
		}
		return ToolResponse{Result: v, String: Formatter{Precision: int(p)}.Number(v)}

	case "to_latex":
		e, err := getExpr("expr")
		if err != nil {
			return errorResponse(err)
		}
		return ToolResponse{LaTeX: LaTeX(e), String: LaTeX(e)}

	case "free_variables":
		e, err := getExpr("expr")
		if err != nil {
			return errorResponse(err)
		}
		var names []string
		for name := range FreeVariables(e) {
			names = append(names, name)
		}
		sort.Strings(names)
		return ToolResponse{Result: names, String: strings.Join(names, ", ")}

	case "tool_spec":
		return ToolResponse{String: ToolSpec()}
	}
	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

func scopeJSON(s Scope) map[string]interface{} {
	out := make(map[string]interface{}, len(s))
	for name, r := range s {
		out[name] = r
	}
	return out
}

// ToolSpec returns the JSON schema of every tool HandleToolCall accepts.
func ToolSpec() string {
	tools := []map[string]interface{}{
		ts("parse", "Parse calculator text (equations in root form) into an expression tree", []string{"expr"}, map[string]string{"expr": "string|object"}),
		ts("evaluate", "Evaluate an expression. Optional scope: {name: number|string}", []string{"expr"}, map[string]string{"expr": "string|object", "scope": "object"}),
		ts("calculate", "Run calculator input: statements, assignments and equations", []string{"input"}, map[string]string{"input": "string", "scope": "object"}),
		ts("differentiate", "Symbolic derivative d/dvar. Optional order (integer)", []string{"expr", "var"}, map[string]string{"expr": "string|object", "var": "string", "order": "integer"}),
		ts("solve", "Newton–Raphson root of expr in var. Optional guess, scope", []string{"expr", "var"}, map[string]string{"expr": "string|object", "var": "string", "guess": "number", "scope": "object"}),
		ts("simplify", "Fold constants and drop identities", []string{"expr"}, map[string]string{"expr": "string|object"}),
		ts("format", "Format a number for display. Optional precision", []string{"value"}, map[string]string{"value": "number", "precision": "integer"}),
		ts("to_latex", "Convert to LaTeX", []string{"expr"}, map[string]string{"expr": "string|object"}),
		ts("free_variables", "Return referenced variable names", []string{"expr"}, map[string]string{"expr": "string|object"}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		if alts := strings.Split(typ, "|"); len(alts) > 1 {
			properties[k] = map[string]interface{}{"type": alts}
			continue
		}
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
