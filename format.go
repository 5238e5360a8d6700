package gocalc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultPrecision is the number of significant digits Format keeps.
const DefaultPrecision = 14

// Formatter renders results as display text.
type Formatter struct {
	Precision int
}

// Format renders r with DefaultPrecision significant digits.
func Format(r Result) string {
	return Formatter{Precision: DefaultPrecision}.Format(r)
}

// Format renders r: numbers in shortest fixed-precision form, text
// verbatim, sequences as a bracketed list, failures as "Error: <message>".
// It never panics.
func (f Formatter) Format(r Result) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			out = fmt.Sprintf("<unprintable %s result>", r.Kind)
		}
	}()

	switch r.Kind {
	case ResultNumber:
		return f.Number(r.Num)
	case ResultText:
		return r.Text
	case ResultSequence:
		parts := make([]string, len(r.Items))
		for i, item := range r.Items {
			if item.Kind == ResultText {
				parts[i] = strconv.Quote(item.Text)
				continue
			}
			parts[i] = f.Format(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ResultFailure:
		if r.Err == nil {
			return "Error: unknown error"
		}
		return "Error: " + r.Err.Msg
	}
	return fmt.Sprintf("<unknown result kind %d>", int(r.Kind))
}

// Number renders v with f.Precision significant digits, dropping trailing
// zeros: 4, 0.3, 1.2345678901235e+17, 1e-7, Infinity, NaN.
func (f Formatter) Number(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	case v == 0:
		return "0"
	}
	p := f.Precision
	if p <= 0 || p > 17 {
		p = DefaultPrecision
	}
	s := strconv.FormatFloat(v, 'g', p, 64)
	i := strings.IndexByte(s, 'e')
	if i < 0 {
		return s
	}
	// Go pads exponents to two digits ("1e-07").
	mantissa, sign, digits := s[:i], s[i+1:i+2], strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}
