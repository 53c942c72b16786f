package syntax

import "github.com/tdewolff/parse/v2/js"

// Helpers below interpret flat item sequences as expressions. They only
// recognize the shapes needed to find literal values and return sub-slices
// sharing storage with the tree, so replacing their elements edits the tree.

// TokenAt returns item i of seq as token or nil.
func TokenAt(seq Seq, i int) *Token {
	if i < 0 || i >= len(seq) {
		return nil
	}
	t, _ := seq[i].(*Token)
	return t
}

// IsToken reports if item i of seq is a token of the given type.
func IsToken(seq Seq, i int, tt js.TokenType) bool {
	t := TokenAt(seq, i)
	return t != nil && t.Type == tt
}

// Split cuts seq at every token of the given type.
func Split(seq Seq, sep js.TokenType) []Seq {
	var (
		parts []Seq
		start int
	)
	for i, n := range seq {
		if t, ok := n.(*Token); ok && t.Type == sep {
			parts = append(parts, seq[start:i:i])
			start = i + 1
		}
	}
	return append(parts, seq[start:])
}

// Unwrap removes redundant parentheses around expression and TypeScript
// non-null assertions.
func Unwrap(seq Seq) Seq {
	for {
		if len(seq) == 2 && IsToken(seq, 1, js.NotToken) {
			seq = seq[:1]
		}
		if len(seq) != 1 {
			return seq
		}
		g, ok := seq[0].(*Group)
		if !ok || !g.IsParen() {
			return seq
		}
		seq = g.Items
	}
}

// Conditional splits "test ? consequent : alternate" at the top level of
// seq. Assignments, arrows and sequence expressions are not conditionals.
func Conditional(seq Seq) (test, cons, alt Seq, ok bool) {
	q := -1
	for i, n := range seq {
		t, isTok := n.(*Token)
		if !isTok {
			continue
		}
		switch {
		case t.Type == js.QuestionToken:
			q = i
		case t.Type == js.ArrowToken || t.Type == js.CommaToken || isAssignment(t.Type):
			return nil, nil, nil, false
		}
		if q >= 0 {
			break
		}
	}
	if q <= 0 {
		return nil, nil, nil, false
	}

	depth := 0
	for i := q + 1; i < len(seq); i++ {
		t, isTok := seq[i].(*Token)
		if !isTok {
			continue
		}
		switch t.Type {
		case js.QuestionToken:
			depth++
		case js.ColonToken:
			if depth > 0 {
				depth--
				continue
			}
			test, cons, alt = seq[:q:q], seq[q+1:i:i], seq[i+1:]
			if len(cons) == 0 || len(alt) == 0 {
				return nil, nil, nil, false
			}
			return test, cons, alt, true
		}
	}
	return nil, nil, nil, false
}

func isAssignment(tt js.TokenType) bool {
	switch tt {
	case js.EqToken, js.AddEqToken, js.SubEqToken, js.MulEqToken, js.DivEqToken,
		js.ModEqToken, js.ExpEqToken, js.LtLtEqToken, js.GtGtEqToken, js.GtGtGtEqToken,
		js.BitAndEqToken, js.BitOrEqToken, js.BitXorEqToken, js.AndEqToken, js.OrEqToken,
		js.NullishEqToken:
		return true
	}
	return false
}

// Property is a "key: value" entry of an object literal.
type Property struct {
	Key   string
	Value Seq
}

// Properties returns plain key-value entries of object literal. Spread,
// shorthand, method, computed and numeric keys are skipped.
func Properties(obj *Group) []Property {
	if obj == nil || !obj.IsBrace() {
		return nil
	}
	var props []Property
	for _, entry := range Split(obj.Items, js.CommaToken) {
		if len(entry) < 3 || !IsToken(entry, 1, js.ColonToken) {
			continue
		}
		var key string
		switch k := entry[0].(type) {
		case *Token:
			if !k.IsName() {
				continue
			}
			key = k.Text
		case *String:
			v, err := k.Value()
			if err != nil {
				continue
			}
			key = v
		default:
			continue
		}
		props = append(props, Property{Key: key, Value: entry[2:]})
	}
	return props
}

// Object returns object literal when seq consists of it alone.
func Object(seq Seq) *Group {
	seq = Unwrap(seq)
	if len(seq) != 1 {
		return nil
	}
	if g, ok := seq[0].(*Group); ok && g.IsBrace() {
		return g
	}
	return nil
}

// IsObjectAt reports if brace group at position i of seq is an object
// literal rather than a block, judging by the preceding item.
func IsObjectAt(seq Seq, i int) bool {
	g, ok := seq[i].(*Group)
	if !ok || !g.IsBrace() {
		return false
	}
	if i == 0 {
		return true
	}
	switch prev := seq[i-1].(type) {
	case *Group:
		return prev.IsBracket()
	case *Token:
		switch prev.Type {
		case js.ArrowToken, js.SemicolonToken, js.ElseToken, js.TryToken, js.FinallyToken, js.DoToken:
			return false
		}
		return !js.IsIdentifier(prev.Type)
	}
	return true
}
