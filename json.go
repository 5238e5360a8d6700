package gocalc

import (
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ============================================================
// JSON Serialization
// ============================================================

func (n *Number) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": n.nodeType(), "value": formatLiteral(n.Value)}
}

func (v *Variable) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": v.nodeType(), "name": v.Name}
}

func (u *Unary) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": u.nodeType(), "arg": u.X.toJSON()}
}

func (b *Binary) toJSON() map[string]interface{} {
	return map[string]interface{}{
		"type":  b.nodeType(),
		"op":    b.Op.String(),
		"left":  b.Left.toJSON(),
		"right": b.Right.toJSON(),
	}
}

func (c *Call) toJSON() map[string]interface{} {
	args := make([]map[string]interface{}, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.toJSON()
	}
	return map[string]interface{}{"type": c.nodeType(), "name": c.Func, "args": args}
}

func (e *Empty) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": e.nodeType()}
}

// ToJSON encodes n as a JSON object tree.
func ToJSON(n Node) (string, error) {
	b, err := json.Marshal(n.toJSON())
	return string(b), err
}

// ToMap returns the generic map form of n, as embedded in tool responses.
func ToMap(n Node) map[string]interface{} { return n.toJSON() }

// ParseJSON decodes a tree produced by ToJSON.
func ParseJSON(data []byte) (Node, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, newError(ParseError, "", "invalid JSON: %v", err)
	}
	return FromJSON(m)
}

// FromJSON rebuilds a tree from its generic map form.
func FromJSON(data map[string]interface{}) (Node, error) {
	if data == nil {
		return nil, newError(ParseError, "", "expression must be an object")
	}
	typ, ok := data["type"].(string)
	if !ok || typ == "" {
		return nil, newError(ParseError, "", "field 'type' must be a non-empty string")
	}

	subString := func(field string) (string, error) {
		s, ok := data[field].(string)
		if !ok || s == "" {
			return "", newError(ParseError, "", "%s: %q must be a non-empty string", typ, field)
		}
		return s, nil
	}
	subNode := func(field string) (Node, error) {
		m, ok := data[field].(map[string]interface{})
		if !ok {
			return nil, newError(ParseError, "", "%s: %q must be an object", typ, field)
		}
		n, err := FromJSON(m)
		if err != nil {
			return nil, wrapJSON(err, "%s: %s", typ, field)
		}
		return n, nil
	}

	switch typ {
	case "num":
		var v float64
		switch raw := data["value"].(type) {
		case string:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, newError(ParseError, "", "invalid num value: %s", raw)
			}
			v = f
		case float64:
			v = raw
		default:
			return nil, newError(ParseError, "", "num: 'value' must be a string or number")
		}
		return N(v), nil

	case "var":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		return V(name), nil

	case "neg":
		x, err := subNode("arg")
		if err != nil {
			return nil, err
		}
		return NegOf(x), nil

	case "binary":
		sym, err := subString("op")
		if err != nil {
			return nil, err
		}
		op, ok := binaryOpsBySymbol[sym]
		if !ok {
			return nil, newError(ParseError, sym, "binary: unknown operator %q", sym)
		}
		left, err := subNode("left")
		if err != nil {
			return nil, err
		}
		right, err := subNode("right")
		if err != nil {
			return nil, err
		}
		return &Binary{Op: op, Left: left, Right: right}, nil

	case "call":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		var raw []interface{}
		if v, present := data["args"]; present && v != nil {
			if raw, ok = v.([]interface{}); !ok {
				return nil, newError(ParseError, "", "call: 'args' must be an array")
			}
		}
		args := make([]Node, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, newError(ParseError, "", "call: args[%d] must be an object", i)
			}
			a, err := FromJSON(m)
			if err != nil {
				return nil, wrapJSON(err, "call: args[%d]", i)
			}
			args[i] = a
		}
		return CallOf(name, args...), nil

	case "empty":
		return &Empty{}, nil
	}
	return nil, newError(ParseError, typ, "unknown expression type: %s", typ)
}

func wrapJSON(err error, format string, args ...interface{}) error {
	e := asError(err)
	return &Error{Kind: e.Kind, Subject: e.Subject, Msg: fmt.Sprintf(format, args...) + ": " + e.Msg, Pos: e.Pos}
}

// ============================================================
// Results and outcomes
// ============================================================

func errorJSON(e *Error) map[string]interface{} {
	if e == nil {
		return nil
	}
	m := map[string]interface{}{"kind": e.Kind.String(), "message": e.Msg}
	if e.Subject != "" {
		m["subject"] = e.Subject
	}
	if e.Pos >= 0 {
		m["pos"] = e.Pos
	}
	return m
}

func (r Result) toJSON() map[string]interface{} {
	m := map[string]interface{}{"kind": r.Kind.String(), "display": Format(r)}
	switch r.Kind {
	case ResultNumber:
		if isFinite(r.Num) {
			m["value"] = r.Num
		}
	case ResultText:
		m["value"] = r.Text
	case ResultSequence:
		items := make([]map[string]interface{}, len(r.Items))
		for i, it := range r.Items {
			items[i] = it.toJSON()
		}
		m["items"] = items
	case ResultFailure:
		m["error"] = errorJSON(r.Err)
	}
	return m
}

// MarshalJSON encodes r with its display form; non-finite numbers carry
// only the display form.
func (r Result) MarshalJSON() ([]byte, error) { return json.Marshal(r.toJSON()) }

func (o Outcome) toJSON() map[string]interface{} {
	m := map[string]interface{}{"status": o.Status.String(), "iterations": o.Iterations}
	if o.Status != Failed && isFinite(o.Value) {
		m["value"] = o.Value
	}
	if o.Err != nil {
		m["error"] = errorJSON(o.Err)
	}
	return m
}

func (o Outcome) MarshalJSON() ([]byte, error) { return json.Marshal(o.toJSON()) }
