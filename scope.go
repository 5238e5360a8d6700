package gocalc

// Scope binds variable names to values for one evaluation. A binding is
// either a number or opaque text; lookups are exact and case-sensitive.
// A nil Scope is valid and empty.
type Scope map[string]Result

// NewScope returns an empty, writable Scope.
func NewScope() Scope { return Scope{} }

// ScopeOf builds a numeric scope.
func ScopeOf(vals map[string]float64) Scope {
	s := make(Scope, len(vals))
	for k, v := range vals {
		s[k] = NumberResult(v)
	}
	return s
}

// SetNumber binds name to v in place and returns s for chaining.
func (s Scope) SetNumber(name string, v float64) Scope {
	s[name] = NumberResult(v)
	return s
}

// SetText binds name to opaque text in place.
func (s Scope) SetText(name, text string) Scope {
	s[name] = TextResult(text)
	return s
}

// Lookup is safe on a nil Scope.
func (s Scope) Lookup(name string) (Result, bool) {
	r, ok := s[name]
	return r, ok
}

// Clone returns an independent copy of s.
func (s Scope) Clone() Scope {
	c := make(Scope, len(s)+1)
	for k, v := range s {
		c[k] = v
	}
	return c
}

// With returns a copy of s with name bound to v; s itself is unchanged.
func (s Scope) With(name string, v float64) Scope {
	return s.Clone().SetNumber(name, v)
}
