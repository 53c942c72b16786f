// Package syntax is a tolerant parser for JavaScript, TypeScript and JSX
// sources. It does not build a full grammar tree: it keeps tokens, bracketed
// groups, template literals and markup elements, which is enough to find and
// rewrite literal values and print the source back with every untouched byte
// preserved.
package syntax

import (
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2/js"
)

// Node is one of the node types defined in this package.
type Node interface {
	// Pos is the byte offset of the first byte of the node.
	Pos() int
	// End is the byte offset immediately after the node.
	End() int
	node()
}

// Seq is an ordered list of sibling nodes. Replacing an element of a Seq
// obtained from a parent node replaces it in the tree.
type Seq []Node

type (
	// Token is any lexeme without structure of its own: identifiers,
	// keywords, punctuators, operators and regular expressions.
	Token struct {
		From, To int
		Type     js.TokenType
		Text     string
	}

	// Number is a numeric literal.
	Number struct {
		From, To int
		Type     js.TokenType
		Text     string
	}

	// String is a quoted string literal, either script or markup attribute.
	String struct {
		From, To int
		Raw      string

		markup bool
		edited bool
	}

	// Template is a template literal. There is always one more quasi than
	// there are expressions.
	Template struct {
		From, To int
		Quasis   []*Quasi
		Exprs    []Seq
	}

	// Quasi is the static text of a template literal between delimiters.
	Quasi struct {
		From, To int
		Raw      string

		edited bool
	}

	// Group is a bracketed sequence: parentheses, brackets or braces.
	Group struct {
		From, To int
		Open     js.TokenType
		Items    Seq
	}

	// Element is a markup element or fragment (empty Name).
	Element struct {
		From, To    int
		Name        string
		Attrs       []*Attribute
		Children    Seq
		SelfClosing bool
		// Line is 1-based line of the opening bracket.
		Line int
	}

	// Attribute of a markup element. Spread attributes have no name and
	// Container value.
	Attribute struct {
		From, To int
		Name     string
		Spread   bool
		// Value is nil, *String, *Container or *Element.
		Value Node
	}

	// Container is a script expression embedded into markup.
	Container struct {
		From, To int
		Items    Seq
	}

	// Text is markup text.
	Text struct {
		From, To int
		Raw      string
	}
)

func (n *Token) Pos() int     { return n.From }
func (n *Number) Pos() int    { return n.From }
func (n *String) Pos() int    { return n.From }
func (n *Template) Pos() int  { return n.From }
func (n *Quasi) Pos() int     { return n.From }
func (n *Group) Pos() int     { return n.From }
func (n *Element) Pos() int   { return n.From }
func (n *Attribute) Pos() int { return n.From }
func (n *Container) Pos() int { return n.From }
func (n *Text) Pos() int      { return n.From }

func (n *Token) End() int     { return n.To }
func (n *Number) End() int    { return n.To }
func (n *String) End() int    { return n.To }
func (n *Template) End() int  { return n.To }
func (n *Quasi) End() int     { return n.To }
func (n *Group) End() int     { return n.To }
func (n *Element) End() int   { return n.To }
func (n *Attribute) End() int { return n.To }
func (n *Container) End() int { return n.To }
func (n *Text) End() int      { return n.To }

func (*Token) node()     {}
func (*Number) node()    {}
func (*String) node()    {}
func (*Template) node()  {}
func (*Quasi) node()     {}
func (*Group) node()     {}
func (*Element) node()   {}
func (*Attribute) node() {}
func (*Container) node() {}
func (*Text) node()      {}

// Is reports if token has given type.
func (n *Token) Is(tt js.TokenType) bool {
	return n.Type == tt
}

// IsName reports if token may be used as a property name or identifier.
func (n *Token) IsName() bool {
	return js.IsIdentifierName(n.Type)
}

// Value returns numeric value of the literal. BigInt literals are not
// numbers for our purposes.
func (n *Number) Value() (float64, bool) {
	text := strings.ReplaceAll(n.Text, "_", "")
	if strings.HasSuffix(text, "n") {
		return 0, false
	}
	switch n.Type {
	case js.HexadecimalToken, js.OctalToken, js.BinaryToken:
		v, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return 0, false
		}
		return float64(v), true
	}
	if len(text) > 1 && text[0] == '0' && isDigits(text) {
		// legacy octal, unless there are 8 or 9
		if v, err := strconv.ParseInt(text, 8, 64); err == nil {
			return float64(v), true
		}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// NewString creates double quoted string literal taking place of the source
// range [from, to).
func NewString(from, to int, value string) *String {
	return &String{From: from, To: to, Raw: Quote(value, '"'), edited: true}
}

// Value returns decoded string value.
func (n *String) Value() (string, error) {
	if n.markup {
		return n.Raw[1 : len(n.Raw)-1], nil
	}
	return Unquote(n.Raw)
}

// Quote returns quote character used by the literal.
func (n *String) Quote() byte {
	return n.Raw[0]
}

// Set replaces string value keeping the quote character.
func (n *String) Set(value string) {
	if n.markup {
		n.Raw = string(n.Quote()) + value + string(n.Quote())
	} else {
		n.Raw = Quote(value, n.Quote())
	}
	n.edited = true
}

// Edited reports if literal has been changed.
func (n *String) Edited() bool {
	return n.edited
}

// HasEscapes reports if raw text has escape sequences.
func (n *String) HasEscapes() bool {
	return !n.markup && strings.IndexByte(n.Raw, '\\') >= 0
}

// SetRaw replaces raw quasi text. Text must be already escaped.
func (n *Quasi) SetRaw(raw string) {
	n.Raw = raw
	n.edited = true
}

// Edited reports if quasi has been changed.
func (n *Quasi) Edited() bool {
	return n.edited
}

// IsParen, IsBracket and IsBrace report group kind.
func (n *Group) IsParen() bool   { return n.Open == js.OpenParenToken }
func (n *Group) IsBracket() bool { return n.Open == js.OpenBracketToken }
func (n *Group) IsBrace() bool   { return n.Open == js.OpenBraceToken }

// Fragment reports if element is <>...</>.
func (n *Element) Fragment() bool {
	return len(n.Name) == 0
}

// Attr returns first attribute with the given name.
func (n *Element) Attr(name string) *Attribute {
	for _, a := range n.Attrs {
		if !a.Spread && a.Name == name {
			return a
		}
	}
	return nil
}
