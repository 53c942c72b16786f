package syntax

import (
	"bytes"
	"errors"
	"io"

	"github.com/tdewolff/parse/v2/js"
)

// errNotMarkup rolls back markup attempt before anything was committed.
var errNotMarkup = errors.New("not markup")

func isNameStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '$' || c >= 0x80
}

func isNamePart(c byte) bool {
	return isNameStart(c) || c >= '0' && c <= '9' || c == '-'
}

// markupAhead reports if text after '<' at offset may start an element.
func (p *parser) markupAhead(offset int) bool {
	if offset >= len(p.src) {
		return false
	}
	c := p.src[offset]
	return c == '>' || isNameStart(c)
}

func (p *parser) peek(i int) byte {
	if i < len(p.src) {
		return p.src[i]
	}
	return 0
}

// skipSpace skips white space and comments inside tags.
func (p *parser) skipSpace(i int) (int, error) {
	for i < len(p.src) {
		switch c := p.src[i]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			i++
		case c == '/' && p.peek(i+1) == '/':
			end := bytes.IndexByte(p.src[i:], '\n')
			if end < 0 {
				return len(p.src), nil
			}
			i += end + 1
		case c == '/' && p.peek(i+1) == '*':
			end := bytes.Index(p.src[i+2:], []byte("*/"))
			if end < 0 {
				return i, p.errorf(ErrMarkup, i, "unterminated comment")
			}
			i += end + 4
		default:
			return i, nil
		}
	}
	return i, nil
}

// name reads element or attribute name: identifiers joined by '.' or ':'
// with dashes allowed.
func (p *parser) name(i int) (string, int) {
	start := i
	if i >= len(p.src) || !isNameStart(p.src[i]) {
		return "", i
	}
	for i < len(p.src) {
		c := p.src[i]
		if isNamePart(c) {
			i++
			continue
		}
		if (c == '.' || c == ':') && isNameStart(p.peek(i+1)) {
			i++
			continue
		}
		break
	}
	return string(p.src[start:i]), i
}

// element parses markup element starting with '<' at offset from. When ok
// is false the text is not markup and nothing has been consumed.
func (p *parser) element(from int) (*Element, bool, error) {
	if err := p.enter(from); err != nil {
		return nil, false, err
	}
	defer p.leave()

	el := &Element{From: from, Line: p.prog.Line(from)}
	i, err := p.openingTag(el)
	if errors.Is(err, errNotMarkup) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if !el.SelfClosing {
		if i, err = p.children(el, i); err != nil {
			return nil, false, err
		}
	}
	el.To = i
	p.seek(i)
	return el, true, nil
}

// openingTag fills element name and attributes and returns offset after the
// tag. It returns errNotMarkup if tag is malformed before any embedded
// script has been consumed.
func (p *parser) openingTag(el *Element) (int, error) {
	committed := false
	fail := func(i int, msg string) (int, error) {
		if committed {
			return i, p.errorf(ErrMarkup, i, "%s", msg)
		}
		return i, errNotMarkup
	}

	i := el.From + 1
	if p.peek(i) == '>' {
		return i + 1, nil
	}
	el.Name, i = p.name(i)
	if len(el.Name) == 0 {
		return fail(i, "expected element name")
	}

	for {
		var err error
		if i, err = p.skipSpace(i); err != nil {
			return fail(i, "unterminated comment")
		}
		switch c := p.peek(i); {
		case c == 0 && i >= len(p.src):
			return fail(i, "unterminated tag")
		case c == '/' && p.peek(i+1) == '>':
			el.SelfClosing = true
			return i + 2, nil
		case c == '>':
			return i + 1, nil
		case c == '{':
			committed = true
			cont, err := p.container(i)
			if err != nil {
				return i, err
			}
			el.Attrs = append(el.Attrs, &Attribute{From: i, To: cont.To, Spread: true, Value: cont})
			i = cont.To
		default:
			attr := &Attribute{From: i}
			if attr.Name, i = p.name(i); len(attr.Name) == 0 {
				return fail(i, "unexpected character in tag")
			}
			j, err := p.skipSpace(i)
			if err != nil {
				return fail(j, "unterminated comment")
			}
			if p.peek(j) == '=' {
				if j, err = p.skipSpace(j + 1); err != nil {
					return fail(j, "unterminated comment")
				}
				switch q := p.peek(j); q {
				case '"', '\'':
					end := bytes.IndexByte(p.src[j+1:], q)
					if end < 0 {
						return fail(j, "unterminated attribute value")
					}
					i = j + end + 2
					attr.Value = &String{From: j, To: i, Raw: string(p.src[j:i]), markup: true}
				case '{':
					committed = true
					cont, err := p.container(j)
					if err != nil {
						return j, err
					}
					attr.Value, i = cont, cont.To
				case '<':
					child, ok, err := p.element(j)
					if err != nil {
						return j, err
					}
					if !ok {
						return fail(j, "unexpected attribute value")
					}
					committed = true
					attr.Value, i = child, child.To
				default:
					return fail(j, "unexpected attribute value")
				}
			}
			attr.To = i
			el.Attrs = append(el.Attrs, attr)
		}
	}
}

// children reads element content up to and including the closing tag.
func (p *parser) children(el *Element, i int) (int, error) {
	for {
		if i >= len(p.src) {
			return i, p.errorf(ErrMarkup, el.From, "element <%s> is not closed", el.Name)
		}
		switch p.src[i] {
		case '<':
			j, err := p.skipSpace(i + 1)
			if err != nil {
				return j, err
			}
			if p.peek(j) == '/' {
				return p.closingTag(el, j+1)
			}
			child, ok, err := p.element(i)
			if err != nil {
				return i, err
			}
			if !ok {
				return i, p.errorf(ErrMarkup, i, "unexpected '<' in markup text")
			}
			el.Children = append(el.Children, child)
			i = child.To
		case '{':
			cont, err := p.container(i)
			if err != nil {
				return i, err
			}
			el.Children = append(el.Children, cont)
			i = cont.To
		default:
			j := i
			for j < len(p.src) && p.src[j] != '<' && p.src[j] != '{' {
				j++
			}
			el.Children = append(el.Children, &Text{From: i, To: j, Raw: string(p.src[i:j])})
			i = j
		}
	}
}

func (p *parser) closingTag(el *Element, i int) (int, error) {
	i, err := p.skipSpace(i)
	if err != nil {
		return i, err
	}
	name, i := p.name(i)
	if name != el.Name {
		return i, p.errorf(ErrMarkup, i, "expected closing tag for <%s>, got </%s>", el.Name, name)
	}
	if i, err = p.skipSpace(i); err != nil {
		return i, err
	}
	if p.peek(i) != '>' {
		return i, p.errorf(ErrMarkup, i, "expected '>' in closing tag")
	}
	return i + 1, nil
}

// container parses embedded script in braces at offset from using the
// lexer.
func (p *parser) container(from int) (*Container, error) {
	p.seek(from)
	t, err := p.next()
	if errors.Is(err, io.EOF) || err == nil && t.tt != js.OpenBraceToken {
		return nil, p.errorf(ErrMarkup, from, "expected '{'")
	}
	if err != nil {
		return nil, err
	}
	if err := p.enter(from); err != nil {
		return nil, err
	}
	defer p.leave()

	saved := p.exprEnd
	p.exprEnd = false
	items, end, err := p.seq(js.CloseBraceToken)
	p.exprEnd = saved
	if err != nil {
		return nil, err
	}
	return &Container{From: from, To: end.to, Items: items}, nil
}
