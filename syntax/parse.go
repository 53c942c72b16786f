package syntax

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

// maxDepth limits nesting of groups, templates and elements.
const maxDepth = 512

var (
	ErrUnbalanced = errors.New("unbalanced brackets")
	ErrMarkup     = errors.New("malformed markup")
	ErrTooDeep    = errors.New("nesting is too deep")
)

// Options controls parsing.
type Options struct {
	// Markup enables JSX elements.
	Markup bool
}

// MarkupAllowed reports if file with the given path may contain markup.
// Plain TypeScript files use angle brackets for type assertions.
func MarkupAllowed(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return false
	}
	return true
}

// Program is a parsed source file.
type Program struct {
	Items Seq

	src   string
	lines []int
}

// Source returns text program was parsed from.
func (p *Program) Source() string {
	return p.src
}

// Line returns 1-based line number of byte offset.
func (p *Program) Line(offset int) int {
	return sort.SearchInts(p.lines, offset+1)
}

// Position returns 1-based line and column of byte offset.
func (p *Program) Position(offset int) (line, col int) {
	line = p.Line(offset)
	return line, offset - p.lines[line-1] + 1
}

type token struct {
	tt       js.TokenType
	data     []byte
	from, to int
}

type parser struct {
	src   []byte
	in    *parse.Input
	lex   *js.Lexer
	opts  Options
	prog  *Program
	depth int
	// exprEnd is true when the last item may end an expression, so that
	// slash is division and angle bracket is comparison.
	exprEnd bool
}

// Parse tokenizes src and builds tree of items. Source may not be valid
// script, but brackets, literals and markup must be well formed.
func Parse(src string, opts Options) (*Program, error) {
	prog := &Program{src: src, lines: lineStarts(src)}
	b := []byte(src)
	p := &parser{
		src:  b,
		in:   parse.NewInputBytes(b),
		opts: opts,
		prog: prog,
	}
	p.lex = js.NewLexer(p.in)

	items, _, err := p.seq()
	if err != nil {
		return nil, err
	}
	prog.Items = items
	return prog, nil
}

func lineStarts(src string) []int {
	lines := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return lines
}

func (p *parser) errorf(sentinel error, offset int, format string, args ...any) error {
	return fmt.Errorf("%w: %w", sentinel, parse.NewError(bytes.NewReader(p.src), offset, format, args...))
}

func (p *parser) enter(offset int) error {
	p.depth++
	if p.depth > maxDepth {
		return p.errorf(ErrTooDeep, offset, "more than %d nested levels", maxDepth)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// seek repositions lexer input to the given offset.
func (p *parser) seek(offset int) {
	p.in.Move(offset - p.in.Offset())
	p.in.Skip()
}

// next returns next significant token. At the end of input error is io.EOF.
func (p *parser) next() (token, error) {
	for {
		tt, data := p.lex.Next()
		to := p.in.Offset()
		t := token{tt: tt, data: data, from: to - len(data), to: to}
		switch tt {
		case js.WhitespaceToken, js.LineTerminatorToken, js.CommentToken, js.CommentLineTerminatorToken:
			continue
		case js.ErrorToken:
			err := p.lex.Err()
			if errors.Is(err, io.EOF) && len(data) == 0 {
				return t, io.EOF
			}
			if tolerable(data) {
				// stray character (decorator, shebang), keep going
				return t, nil
			}
			return t, fmt.Errorf("unable to tokenize source: %w", err)
		}
		return t, nil
	}
}

// tolerable reports if lexer error is a single unexpected character rather
// than broken literal.
func tolerable(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if _, n := utf8.DecodeRune(data); n != len(data) {
		return false
	}
	return !strings.ContainsRune("'\"`}.0123456789", rune(data[0]))
}

func closerOf(open js.TokenType) js.TokenType {
	switch open {
	case js.OpenParenToken:
		return js.CloseParenToken
	case js.OpenBracketToken:
		return js.CloseBracketToken
	}
	return js.CloseBraceToken
}

// endsExpression reports if token may be the last one of an expression.
func endsExpression(tt js.TokenType) bool {
	if js.IsIdentifier(tt) || js.IsNumeric(tt) {
		return true
	}
	switch tt {
	case js.ThisToken, js.SuperToken, js.TrueToken, js.FalseToken, js.NullToken,
		js.PrivateIdentifierToken, js.RegExpToken, js.StringToken,
		js.IncrToken, js.DecrToken:
		return true
	}
	return false
}

// seq parses items until one of closers is met or until the end of input
// when there are no closers.
func (p *parser) seq(closers ...js.TokenType) (Seq, token, error) {
	var items Seq
	for {
		t, err := p.next()
		if errors.Is(err, io.EOF) {
			if len(closers) == 0 {
				return items, t, nil
			}
			return nil, t, p.errorf(ErrUnbalanced, t.from, "unexpected end of input")
		}
		if err != nil {
			return nil, t, err
		}
		if slices.Contains(closers, t.tt) {
			return items, t, nil
		}

		switch t.tt {
		case js.CloseParenToken, js.CloseBracketToken, js.CloseBraceToken, js.TemplateMiddleToken, js.TemplateEndToken:
			return nil, t, p.errorf(ErrUnbalanced, t.from, "unexpected %q", string(t.data[:1]))

		case js.OpenParenToken, js.OpenBracketToken, js.OpenBraceToken:
			g, err := p.group(t)
			if err != nil {
				return nil, t, err
			}
			items = append(items, g)
			p.exprEnd = true

		case js.TemplateToken:
			items = append(items, &Template{
				From:   t.from,
				To:     t.to,
				Quasis: []*Quasi{p.quasi(t.from+1, t.to-1)},
			})
			p.exprEnd = true

		case js.TemplateStartToken:
			tpl, err := p.template(t)
			if err != nil {
				return nil, t, err
			}
			items = append(items, tpl)
			p.exprEnd = true

		case js.StringToken:
			items = append(items, &String{From: t.from, To: t.to, Raw: string(t.data)})
			p.exprEnd = true

		case js.DivToken, js.DivEqToken:
			if !p.exprEnd {
				tt, data := p.lex.RegExp()
				if tt == js.ErrorToken {
					return nil, t, fmt.Errorf("unable to tokenize regular expression: %w", p.lex.Err())
				}
				to := p.in.Offset()
				items = append(items, &Token{From: to - len(data), To: to, Type: tt, Text: string(data)})
				p.exprEnd = true
				continue
			}
			items = append(items, p.token(t))
			p.exprEnd = false

		case js.LtToken:
			if p.opts.Markup && !p.exprEnd && p.markupAhead(t.to) {
				el, ok, err := p.element(t.from)
				if err != nil {
					return nil, t, err
				}
				if ok {
					items = append(items, el)
					p.exprEnd = true
					continue
				}
			}
			items = append(items, p.token(t))
			p.exprEnd = false

		default:
			if js.IsNumeric(t.tt) {
				items = append(items, &Number{From: t.from, To: t.to, Type: t.tt, Text: string(t.data)})
			} else {
				items = append(items, p.token(t))
			}
			p.exprEnd = endsExpression(t.tt)
		}
	}
}

func (p *parser) token(t token) *Token {
	return &Token{From: t.from, To: t.to, Type: t.tt, Text: string(t.data)}
}

func (p *parser) quasi(from, to int) *Quasi {
	return &Quasi{From: from, To: to, Raw: string(p.src[from:to])}
}

func (p *parser) group(open token) (*Group, error) {
	if err := p.enter(open.from); err != nil {
		return nil, err
	}
	defer p.leave()

	p.exprEnd = false
	items, end, err := p.seq(closerOf(open.tt))
	if err != nil {
		return nil, err
	}
	return &Group{From: open.from, To: end.to, Open: open.tt, Items: items}, nil
}

func (p *parser) template(start token) (*Template, error) {
	if err := p.enter(start.from); err != nil {
		return nil, err
	}
	defer p.leave()

	tpl := &Template{
		From:   start.from,
		Quasis: []*Quasi{p.quasi(start.from+1, start.to-2)},
	}
	for {
		p.exprEnd = false
		items, end, err := p.seq(js.TemplateMiddleToken, js.TemplateEndToken)
		if err != nil {
			return nil, err
		}
		tpl.Exprs = append(tpl.Exprs, items)
		if end.tt == js.TemplateEndToken {
			tpl.Quasis = append(tpl.Quasis, p.quasi(end.from+1, end.to-1))
			tpl.To = end.to
			return tpl, nil
		}
		tpl.Quasis = append(tpl.Quasis, p.quasi(end.from+1, end.to-2))
	}
}
