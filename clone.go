package gocalc

// Clone returns a deep copy of n. Derived trees clone any subtree they reuse
// so that no two trees share a node.
func Clone(n Node) Node {
	switch v := n.(type) {
	case *Number:
		return &Number{Value: v.Value}
	case *Variable:
		return &Variable{Name: v.Name}
	case *Unary:
		return &Unary{Op: v.Op, X: Clone(v.X)}
	case *Binary:
		return &Binary{Op: v.Op, Left: Clone(v.Left), Right: Clone(v.Right)}
	case *Call:
		args := make([]Node, len(v.Args))
		for i, a := range v.Args {
			args[i] = Clone(a)
		}
		return &Call{Func: v.Func, Args: args}
	}
	return &Empty{}
}
