package rewrite

import (
	"slices"
	"strings"

	"github.com/tdewolff/parse/v2/js"

	"pxrem/marker"
	"pxrem/syntax"
)

// visitor walks parsed program and dispatches constructs holding styles.
type visitor struct {
	values
	lines marker.Lines
}

func (v *visitor) walk(seq syntax.Seq) {
	for i, n := range seq {
		switch n := n.(type) {
		case *syntax.Template:
			if v.styleTag(seq, i) {
				v.stylesheet(n)
			}
			for _, e := range n.Exprs {
				v.walk(e)
			}
		case *syntax.Group:
			if n.IsParen() {
				v.call(seq, i)
			}
			v.walk(n.Items)
		case *syntax.Container:
			v.walk(n.Items)
		case *syntax.Element:
			v.element(n)
		}
	}
}

// styleTag reports if template at seq[i] is tagged with stylesheet function
// directly or as the last member of a chain.
func (v *visitor) styleTag(seq syntax.Seq, i int) bool {
	tag := syntax.TokenAt(seq, i-1)
	return tag != nil && tag.IsName() && slices.Contains(v.t.opts.TemplateFunctions, tag.Text)
}

// member reports if name at seq[i] is accessed as property.
func member(seq syntax.Seq, i int) bool {
	return syntax.IsToken(seq, i-1, js.DotToken) || syntax.IsToken(seq, i-1, js.OptChainToken)
}

// typeArguments returns index of '<' opening type arguments which end right
// before seq[i], or -1.
func typeArguments(seq syntax.Seq, i int) int {
	depth := 0
	for j := i - 1; j >= 0; j-- {
		t := syntax.TokenAt(seq, j)
		if t == nil {
			if depth == 0 {
				return -1
			}
			continue
		}
		switch t.Type {
		case js.GtToken:
			depth++
		case js.GtGtToken:
			depth += 2
		case js.GtGtGtToken:
			depth += 3
		case js.LtToken:
			depth--
			if depth == 0 {
				return j
			}
		case js.SemicolonToken, js.ArrowToken, js.EqToken:
			return -1
		default:
			if depth == 0 {
				return -1
			}
		}
		if depth < 0 {
			return -1
		}
	}
	return -1
}

// call dispatches call whose argument list is seq[i].
func (v *visitor) call(seq syntax.Seq, i int) {
	args := seq[i].(*syntax.Group)

	callee := syntax.TokenAt(seq, i-1)
	if callee != nil && callee.IsName() {
		if v.t.opts.EnableJSXTransform && v.compiled(seq, i-1) {
			v.compiledCall(args)
			return
		}
		if v.factory(seq, i-1) {
			v.factoryArgs(args.Items)
		}
		return
	}

	// createStyles<Props>(...)
	if j := typeArguments(seq, i); j > 0 && v.factory(seq, j-1) {
		v.factoryArgs(args.Items)
	}
}

// compiled reports if name at seq[i] is compiled markup factory.
func (v *visitor) compiled(seq syntax.Seq, i int) bool {
	name := seq[i].(*syntax.Token).Text
	if !slices.Contains(compiledFactories, name) {
		return false
	}
	if !member(seq, i) {
		return true
	}
	if name != "createElement" || !syntax.IsToken(seq, i-1, js.DotToken) {
		return false
	}
	ns := syntax.TokenAt(seq, i-2)
	return ns != nil && ns.Text == compiledNamespace && !member(seq, i-2)
}

// factory reports if token at seq[i] is style factory callee and not its
// declaration.
func (v *visitor) factory(seq syntax.Seq, i int) bool {
	name := syntax.TokenAt(seq, i)
	if name == nil || !slices.Contains(v.t.opts.StyleFactories, name.Text) {
		return false
	}
	return !member(seq, i) && !syntax.IsToken(seq, i-1, js.FunctionToken)
}

// factoryArgs processes every object literal inside style factory arguments.
func (v *visitor) factoryArgs(seq syntax.Seq) {
	for i, n := range seq {
		switch n := n.(type) {
		case *syntax.Group:
			if syntax.IsObjectAt(seq, i) {
				v.factoryObject(n)
			}
			v.factoryArgs(n.Items)
		case *syntax.Template:
			for _, e := range n.Exprs {
				v.factoryArgs(e)
			}
		case *syntax.Container:
			v.factoryArgs(n.Items)
		case *syntax.Element:
			for _, a := range n.Attrs {
				if c, ok := a.Value.(*syntax.Container); ok {
					v.factoryArgs(c.Items)
				}
			}
			v.factoryArgs(n.Children)
		}
	}
}

// compiledCall handles _jsx("div", { style: {...} }) and alike.
func (v *visitor) compiledCall(args *syntax.Group) {
	list := syntax.Split(args.Items, js.CommaToken)
	if len(list) < 2 {
		return
	}
	props := syntax.Object(list[1])
	if props == nil {
		return
	}
	component := ""
	if first := syntax.Unwrap(list[0]); len(first) == 1 {
		switch c := first[0].(type) {
		case *syntax.String:
			if s, err := c.Value(); err == nil {
				component = s
			}
		case *syntax.Token:
			if js.IsIdentifier(c.Type) {
				component = c.Text
			}
		}
	}
	for _, p := range syntax.Properties(props) {
		v.attribute(component, p.Key, p.Value, true)
	}
}

// element handles markup element attributes unless element is annotated.
// Nested content is always visited.
func (v *visitor) element(el *syntax.Element) {
	if v.t.opts.EnableJSXTransform && plainName(el.Name) && !v.lines.Suppressed(el.Line) {
		for _, a := range el.Attrs {
			if a.Spread {
				continue
			}
			switch val := a.Value.(type) {
			case *syntax.Container:
				v.attribute(el.Name, a.Name, val.Items, false)
			case *syntax.String:
				v.attribute(el.Name, a.Name, syntax.Seq{val}, false)
			}
		}
	}
	for _, a := range el.Attrs {
		switch val := a.Value.(type) {
		case *syntax.Container:
			v.walk(val.Items)
		case *syntax.Element:
			v.element(val)
		}
	}
	v.walk(el.Children)
}

// plainName reports if element name is a single identifier, not a member
// expression or namespaced name.
func plainName(name string) bool {
	return len(name) > 0 && !strings.ContainsAny(name, ".:")
}
