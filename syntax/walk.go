package syntax

// Inspect traverses node in depth-first order. It calls f(n), when f returns
// true Inspect continues with children of n.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *Group:
		InspectSeq(n.Items, f)
	case *Container:
		InspectSeq(n.Items, f)
	case *Template:
		for i, q := range n.Quasis {
			Inspect(q, f)
			if i < len(n.Exprs) {
				InspectSeq(n.Exprs[i], f)
			}
		}
	case *Element:
		for _, a := range n.Attrs {
			Inspect(a, f)
		}
		InspectSeq(n.Children, f)
	case *Attribute:
		if n.Value != nil {
			Inspect(n.Value, f)
		}
	}
}

// InspectSeq calls Inspect for every item of seq.
func InspectSeq(seq Seq, f func(Node) bool) {
	for _, n := range seq {
		Inspect(n, f)
	}
}
