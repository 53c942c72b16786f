// Package stylesheet rewrites pixel values in raw stylesheet text embedded
// into source code. It never builds a stylesheet tree: text is processed
// line by line.
package stylesheet

import (
	"fmt"
	"regexp"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"

	"pxrem/marker"
	"pxrem/units"
)

// Options controls processing beyond the conversion arithmetic.
type Options struct {
	// Replace rewrites values in place, when false converted declaration is
	// appended after the original one.
	Replace bool
	// MediaQuery allows conversion in media query preludes.
	MediaQuery bool
}

// Processor is immutable and may be shared between goroutines.
type Processor struct {
	conv  *units.Converter
	props units.PropList
	opts  Options
	log   *zap.Logger
}

// declaration: indentation, property name (custom properties included),
// colon with surrounding space, value.
var declaration = regexp.MustCompile(`^(\s*)(-{0,2}[a-zA-Z_][a-zA-Z0-9_-]*)(\s*:\s*)(.*)$`)

func New(conv *units.Converter, props units.PropList, opts Options, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{
		conv:  conv,
		props: props,
		opts:  opts,
		log:   log.Named("stylesheet"),
	}
}

// Process converts pixel values in text. When nothing is converted or
// processing fails text is returned as is and changed is false.
func (p *Processor) Process(text string) (out string, changed bool) {
	if strings.TrimSpace(text) == "" || !strings.Contains(text, "px") {
		return text, false
	}

	defer func() {
		if r := recover(); r != nil {
			p.log.Warn("Unable to convert stylesheet text, leaving it unchanged", zap.Error(fmt.Errorf("%v", r)))
			out, changed = text, false
		}
	}()

	lines := strings.Split(text, "\n")
	inComment := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if inComment {
			if strings.Contains(trimmed, "*/") {
				inComment = false
			}
			continue
		}
		if strings.HasPrefix(trimmed, "/*") {
			inComment = !strings.Contains(trimmed, "*/")
			continue
		}
		if strings.HasPrefix(trimmed, "//") {
			continue
		}
		if i > 0 && marker.StandaloneAbove(lines[i-1]) {
			continue
		}
		ignored := marker.Has(line)

		if m := declaration.FindStringSubmatch(line); m != nil {
			if ignored || !p.props.Allows(m[2]) {
				continue
			}
			value, ok := p.conv.ReplacePx(m[4])
			if !ok {
				continue
			}
			lines[i] = p.rewriteDeclaration(m[1], m[2], m[3], m[4], value)
			changed = true
			continue
		}

		if ignored || !p.props.IsBareWildcard() {
			continue
		}
		if IsMediaRule(trimmed) && !p.opts.MediaQuery {
			continue
		}
		if res, ok := p.conv.ReplacePx(line); ok {
			lines[i] = res
			changed = true
		}
	}
	if !changed {
		return text, false
	}
	return strings.Join(lines, "\n"), true
}

func (p *Processor) rewriteDeclaration(indent, name, colon, orig, value string) string {
	if !p.opts.Replace && strings.HasSuffix(strings.TrimRight(orig, " \t\r"), ";") {
		return indent + name + colon + orig + " " + name + colon + strings.TrimRight(value, " \t\r")
	}
	return indent + name + colon + value
}

// IsMediaRule reports if line starts a conditional group rule whose prelude
// holds media features.
func IsMediaRule(line string) bool {
	if !strings.HasPrefix(line, "@") {
		return false
	}
	lex := css.NewLexer(parse.NewInputString(line))
	for {
		tt, data := lex.Next()
		switch tt {
		case css.WhitespaceToken, css.CommentToken:
			continue
		case css.AtKeywordToken:
			switch strings.ToLower(string(data)) {
			case "@media", "@container", "@custom-media":
				return true
			}
		}
		return false
	}
}
