package rewrite

import (
	"pxrem/syntax"
	"pxrem/units"
)

// maxDepth limits recursion into nested conditionals. Deeper values are
// left as they are.
const maxDepth = 64

// values rewrites literal values inside script expressions. It carries no
// state besides the counters and may only be used by a single visit.
type values struct {
	t       *Transformer
	changed int
}

// str converts pixel tokens inside string literal.
func (vs *values) str(s *syntax.String) {
	v, err := s.Value()
	if err != nil {
		return
	}
	if out, ok := vs.t.conv.ReplacePx(v); ok {
		s.Set(out)
		vs.changed++
	}
}

// number replaces numeric literal at seq[i] with converted string when
// conversion fires.
func (vs *values) number(seq syntax.Seq, i int) {
	n := seq[i].(*syntax.Number)
	v, ok := n.Value()
	if !ok {
		return
	}
	out, ok := vs.t.conv.Convert(v)
	if !ok {
		return
	}
	seq[i] = syntax.NewString(n.From, n.To, out)
	vs.changed++
}

// stylesheet rewrites static text of the template and its interpolations.
func (vs *values) stylesheet(tpl *syntax.Template) {
	for _, q := range tpl.Quasis {
		if out, ok := vs.t.sheet.Process(q.Raw); ok {
			q.SetRaw(out)
			vs.changed++
		}
	}
	for _, e := range tpl.Exprs {
		vs.interpolation(e, 0)
	}
}

// interpolation handles embedded expression of a stylesheet template:
// string literals and branches of conditionals only.
func (vs *values) interpolation(seq syntax.Seq, depth int) {
	if depth > maxDepth {
		return
	}
	seq = syntax.Unwrap(seq)
	if len(seq) == 1 {
		if s, ok := seq[0].(*syntax.String); ok {
			vs.str(s)
		}
		return
	}
	if _, cons, alt, ok := syntax.Conditional(seq); ok {
		vs.interpolation(cons, depth+1)
		vs.interpolation(alt, depth+1)
	}
}

// styleObject processes style properties of object literal.
func (vs *values) styleObject(obj *syntax.Group, depth int) {
	for _, p := range syntax.Properties(obj) {
		if !vs.t.props.Allows(p.Key) {
			continue
		}
		value := syntax.Unwrap(p.Value)
		if len(value) != 1 {
			if _, _, _, ok := syntax.Conditional(value); ok {
				vs.propertyBranches(p.Key, value, depth+1)
			}
			continue
		}
		switch lit := value[0].(type) {
		case *syntax.Number:
			if units.IsLengthProperty(p.Key) {
				vs.number(value, 0)
			}
		case *syntax.String:
			vs.str(lit)
		case *syntax.Template:
			if len(lit.Exprs) == 0 {
				vs.staticTemplate(lit)
			}
		}
	}
}

// staticTemplate converts pixel tokens in template without interpolations.
func (vs *values) staticTemplate(tpl *syntax.Template) {
	q := tpl.Quasis[0]
	if out, ok := vs.t.conv.ReplacePx(q.Raw); ok {
		q.SetRaw(out)
		vs.changed++
	}
}

// styleBranches handles conditional choosing between whole style objects.
func (vs *values) styleBranches(seq syntax.Seq, depth int) {
	if depth > maxDepth {
		return
	}
	_, cons, alt, ok := syntax.Conditional(syntax.Unwrap(seq))
	if !ok {
		return
	}
	for _, branch := range []syntax.Seq{cons, alt} {
		if obj := syntax.Object(branch); obj != nil {
			vs.styleObject(obj, depth+1)
			continue
		}
		vs.styleBranches(branch, depth+1)
	}
}

// propertyBranches handles conditional choosing between values of a single
// property.
func (vs *values) propertyBranches(prop string, seq syntax.Seq, depth int) {
	if depth > maxDepth || !vs.t.props.Allows(prop) {
		return
	}
	_, cons, alt, ok := syntax.Conditional(syntax.Unwrap(seq))
	if !ok {
		return
	}
	for _, branch := range []syntax.Seq{cons, alt} {
		branch = syntax.Unwrap(branch)
		if len(branch) != 1 {
			vs.propertyBranches(prop, branch, depth+1)
			continue
		}
		switch lit := branch[0].(type) {
		case *syntax.Number:
			if units.IsLengthProperty(prop) {
				vs.number(branch, 0)
			}
		case *syntax.String:
			vs.str(lit)
		}
	}
}

// factoryObject processes entries of object literal found inside style
// factory call. Templates are stylesheets regardless of property name.
func (vs *values) factoryObject(obj *syntax.Group) {
	for _, p := range syntax.Properties(obj) {
		value := syntax.Unwrap(p.Value)
		if len(value) == 1 {
			if tpl, ok := value[0].(*syntax.Template); ok {
				vs.stylesheet(tpl)
				continue
			}
		}
		if !vs.t.props.Allows(p.Key) {
			continue
		}
		if len(value) != 1 {
			if _, _, _, ok := syntax.Conditional(value); ok {
				vs.propertyBranches(p.Key, value, 1)
			}
			continue
		}
		switch lit := value[0].(type) {
		case *syntax.Number:
			if units.IsLengthProperty(p.Key) {
				vs.number(value, 0)
			}
		case *syntax.String:
			vs.str(lit)
		}
	}
}

// attribute processes markup attribute or compiled markup property of the
// component. Mapped string values are converted in compiled calls only.
func (vs *values) attribute(component, name string, value syntax.Seq, compiled bool) {
	value = syntax.Unwrap(value)
	if name == "style" {
		if obj := syntax.Object(value); obj != nil {
			vs.styleObject(obj, 0)
			return
		}
		vs.styleBranches(value, 0)
		return
	}
	if len(value) != 1 || !vs.t.mapped(component, name) {
		return
	}
	switch lit := value[0].(type) {
	case *syntax.Number:
		if v, ok := lit.Value(); ok && vs.t.conv.Above(v) {
			vs.number(value, 0)
		}
	case *syntax.String:
		if compiled {
			vs.str(lit)
		}
	}
}
