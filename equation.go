package gocalc

import "strings"

// ============================================================
// Equation — "lhs = rhs" rewritten to root form "(lhs)-(rhs)"
// ============================================================

// splitEquation finds the single top-level "=" in text. found is false when
// there is none; more than one "=", an "=" inside parentheses, or an empty
// side is a ParseError.
func splitEquation(text string) (lhs, rhs string, found bool, err error) {
	at, depth := -1, 0
	for i, r := range text {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case '=':
			if depth != 0 {
				return "", "", false, posError(ParseError, i, "'=' inside parentheses")
			}
			if at >= 0 {
				return "", "", false, posError(ParseError, i, "more than one '=' in equation")
			}
			at = i
		}
	}
	if at < 0 {
		return text, "", false, nil
	}
	lhs = strings.TrimSpace(text[:at])
	rhs = strings.TrimSpace(text[at+1:])
	if lhs == "" || rhs == "" {
		return "", "", false, posError(ParseError, at, "equation is missing a side")
	}
	return lhs, rhs, true, nil
}

// RootForm rewrites "lhs = rhs" into "(lhs)-(rhs)", whose zeros are the
// solutions of the equation. Text without "=" is returned unchanged.
func RootForm(text string) (string, error) {
	lhs, rhs, found, err := splitEquation(text)
	if err != nil || !found {
		return lhs, err
	}
	return "(" + lhs + ")-(" + rhs + ")", nil
}

// ParseEquation parses text after rewriting it to root form.
func ParseEquation(text string) (Node, error) {
	root, err := RootForm(text)
	if err != nil {
		return nil, err
	}
	return Parse(root)
}
