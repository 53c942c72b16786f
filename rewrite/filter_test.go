package rewrite

import "testing"

func TestPathFilter(t *testing.T) {
	tests := []struct {
		name             string
		include, exclude []string
		path             string
		want             bool
	}{
		{"default tsx", nil, nil, "/src/App.tsx", true},
		{"default js", nil, nil, "lib/index.js", true},
		{"default mjs", nil, nil, "lib/index.mjs", false},
		{"default css", nil, nil, "styles.css", false},
		{"windows path", nil, []string{"src/gen/"}, `src\gen\a.ts`, false},
		{"substring exclusion", nil, []string{"node_modules"}, "node_modules/x/index.js", false},
		{"expression exclusion", nil, []string{`/\.test\.tsx?$/`}, "src/a.test.tsx", false},
		{"exclusion wins", []string{"src"}, []string{"src/legacy"}, "src/legacy/a.tsx", false},
		{"substring inclusion", []string{"components"}, nil, "src/components/a.vue", true},
		{"inclusion miss", []string{"components"}, nil, "src/pages/a.tsx", false},
		{"expression inclusion", []string{`/\.vue$/`, "/pages/"}, nil, "src/a.vue", true},
		{"slash pattern is expression", []string{"/pages/"}, nil, "src/pages/a.tsx", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := newPathFilter(tt.include, tt.exclude)
			if err != nil {
				t.Fatalf("newPathFilter() error = %v", err)
			}
			if got := f.match(tt.path); got != tt.want {
				t.Errorf("match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestPrecheck(t *testing.T) {
	tr := newTransformer(t, nil)
	tests := []struct {
		code string
		want bool
	}{
		{"css`a`", true},
		{"css `a`", false},
		{"createStyles", true},
		{"<div style={x} />", true},
		{"<Flex gap={8} />", true},
		{"<Flex wrap />", false},
		{"_jsxs(a, b)", true},
		{"el.createElement(", true},
		{"const a = 1", false},
	}
	for _, tt := range tests {
		if got := tr.precheck(tt.code); got != tt.want {
			t.Errorf("precheck(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}

	off := newTransformer(t, func(o *Options) { o.EnableJSXTransform = false })
	if off.precheck("<div style={x} />") || off.precheck("_jsx(a, b)") {
		t.Error("markup needles used with markup processing disabled")
	}
}
