package rewrite

import (
	"fmt"
	"regexp"
	"strings"
)

// defaultInclude selects script files when no include patterns are given.
var defaultInclude = regexp.MustCompile(`\.(tsx?|jsx?)$`)

type pattern struct {
	re  *regexp.Regexp
	sub string
}

func (p pattern) match(path string) bool {
	if p.re != nil {
		return p.re.MatchString(path)
	}
	return strings.Contains(path, p.sub)
}

func compilePatterns(list []string) ([]pattern, error) {
	var out []pattern
	for _, s := range list {
		if len(s) == 0 {
			continue
		}
		if len(s) > 2 && strings.HasPrefix(s, "/") && strings.HasSuffix(s, "/") {
			re, err := regexp.Compile(s[1 : len(s)-1])
			if err != nil {
				return nil, fmt.Errorf("bad path pattern %q: %w", s, err)
			}
			out = append(out, pattern{re: re})
			continue
		}
		out = append(out, pattern{sub: s})
	}
	return out, nil
}

// pathFilter decides which files are processed. Exclusions are checked
// first.
type pathFilter struct {
	include, exclude []pattern
}

func newPathFilter(include, exclude []string) (*pathFilter, error) {
	in, err := compilePatterns(include)
	if err != nil {
		return nil, err
	}
	ex, err := compilePatterns(exclude)
	if err != nil {
		return nil, err
	}
	return &pathFilter{include: in, exclude: ex}, nil
}

func (f *pathFilter) match(path string) bool {
	// patterns are written with forward slashes on every platform
	path = strings.ReplaceAll(path, `\`, "/")
	for _, p := range f.exclude {
		if p.match(path) {
			return false
		}
	}
	if len(f.include) == 0 {
		return defaultInclude.MatchString(path)
	}
	for _, p := range f.include {
		if p.match(path) {
			return true
		}
	}
	return false
}
