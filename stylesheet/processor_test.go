package stylesheet

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"pxrem/units"
)

func newProcessor(t *testing.T, props []string, opts Options, conv units.Options) *Processor {
	t.Helper()
	c, err := units.NewConverter(conv)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	return New(c, units.NewPropList(props), opts, zap.NewNop())
}

func defaultProcessor(t *testing.T) *Processor {
	return newProcessor(t, []string{"*"}, Options{Replace: true}, units.Options{RootValue: 16, UnitPrecision: 5})
}

func TestProcess(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOk bool
	}{
		{
			name:   "single declaration",
			in:     "width: 320px;",
			want:   "width: 20rem;",
			wantOk: true,
		},
		{
			name:   "multi token value",
			in:     "\n  border: 1px solid #ccc;\n  padding: 8px 16px;\n",
			want:   "\n  border: 0.0625rem solid #ccc;\n  padding: 0.5rem 1rem;\n",
			wantOk: true,
		},
		{
			name:   "custom property",
			in:     "  --primary-size: 24px;",
			want:   "  --primary-size: 1.5rem;",
			wantOk: true,
		},
		{
			name:   "calc",
			in:     "height: calc(100vh - 44px);",
			want:   "height: calc(100vh - 2.75rem);",
			wantOk: true,
		},
		{
			name:   "zero",
			in:     "width: 0px;",
			want:   "width: 0;",
			wantOk: true,
		},
		{
			name:   "keyframes fallback",
			in:     "@keyframes slide {\n  from { transform: translateX(-100px); }\n  to { transform: translateX(0px); }\n}",
			want:   "@keyframes slide {\n  from { transform: translateX(-6.25rem); }\n  to { transform: translateX(0); }\n}",
			wantOk: true,
		},
		{
			name:   "line comment",
			in:     "// width: 10px;\nheight: 16px;",
			want:   "// width: 10px;\nheight: 1rem;",
			wantOk: true,
		},
		{
			name:   "block comment across lines",
			in:     "/*\n  width: 10px;\n*/\nheight: 16px;",
			want:   "/*\n  width: 10px;\n*/\nheight: 1rem;",
			wantOk: true,
		},
		{
			name:   "single line block comment",
			in:     "/* width: 10px; */\nheight: 16px;",
			want:   "/* width: 10px; */\nheight: 1rem;",
			wantOk: true,
		},
		{
			name:   "ignore on same line",
			in:     "width: 16px; /* px-to-rem ignore */\nheight: 16px;",
			want:   "width: 16px; /* px-to-rem ignore */\nheight: 1rem;",
			wantOk: true,
		},
		{
			name:   "standalone ignore above",
			in:     "/* px-to-rem ignore */\nwidth: 16px;\nheight: 16px;",
			want:   "/* px-to-rem ignore */\nwidth: 16px;\nheight: 1rem;",
			wantOk: true,
		},
		{
			name:   "uppercase marker does not ignore",
			in:     "/* PX-TO-REM IGNORE */\nwidth: 16px;",
			want:   "/* PX-TO-REM IGNORE */\nwidth: 1rem;",
			wantOk: true,
		},
		{
			name:   "media query is kept by default",
			in:     "@media (max-width: 768px) {\n  width: 16px;\n}",
			want:   "@media (max-width: 768px) {\n  width: 1rem;\n}",
			wantOk: true,
		},
		{
			name:   "no pixels",
			in:     "width: 100%;\ncolor: red;",
			want:   "width: 100%;\ncolor: red;",
			wantOk: false,
		},
		{
			name:   "invalid tokens",
			in:     "width: abcpx;\nheight: NaNpx;",
			want:   "width: abcpx;\nheight: NaNpx;",
			wantOk: false,
		},
		{
			name:   "blank",
			in:     "   \n  ",
			want:   "   \n  ",
			wantOk: false,
		},
	}
	p := defaultProcessor(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.Process(tt.in)
			if got != tt.want || ok != tt.wantOk {
				t.Errorf("Process(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestProcess_PropList(t *testing.T) {
	conv := units.Options{RootValue: 16, UnitPrecision: 5}
	in := "width: 16px;\nborder: 1px solid;\n  16px 32px"

	tests := []struct {
		name  string
		props []string
		want  string
	}{
		{"exclusion", []string{"*", "!border"}, "width: 1rem;\nborder: 1px solid;\n  16px 32px"},
		{"inclusion", []string{"border"}, "width: 16px;\nborder: 0.0625rem solid;\n  16px 32px"},
		{"wildcard fallback", []string{"*"}, "width: 1rem;\nborder: 0.0625rem solid;\n  1rem 2rem"},
		{"empty", nil, in},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProcessor(t, tt.props, Options{Replace: true}, conv)
			if got, _ := p.Process(in); got != tt.want {
				t.Errorf("Process() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProcess_Threshold(t *testing.T) {
	p := newProcessor(t, []string{"*"}, Options{Replace: true}, units.Options{RootValue: 16, UnitPrecision: 5, MinPixelValue: 2})
	got, ok := p.Process("border: 1px solid;\nwidth: 32px;")
	if want := "border: 1px solid;\nwidth: 2rem;"; got != want || !ok {
		t.Errorf("Process() = (%q, %v), want (%q, true)", got, ok, want)
	}
}

func TestProcess_Options(t *testing.T) {
	conv := units.Options{RootValue: 16, UnitPrecision: 5}

	t.Run("keep original declaration", func(t *testing.T) {
		p := newProcessor(t, []string{"*"}, Options{Replace: false}, conv)
		got, _ := p.Process("  width: 16px;\n  height: 32px")
		if want := "  width: 16px; width: 1rem;\n  height: 2rem"; got != want {
			t.Errorf("Process() = %q, want %q", got, want)
		}
	})

	t.Run("media query allowed", func(t *testing.T) {
		p := newProcessor(t, []string{"*"}, Options{Replace: true, MediaQuery: true}, conv)
		got, _ := p.Process("@media (max-width: 768px) {")
		if want := "@media (max-width: 48rem) {"; got != want {
			t.Errorf("Process() = %q, want %q", got, want)
		}
	})
}

func TestIsMediaRule(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"@media (min-width: 10px) {", true},
		{"@container sidebar (min-width: 400px) {", true},
		{"@keyframes spin {", false},
		{"width: 10px;", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsMediaRule(tt.line); got != tt.want {
			t.Errorf("IsMediaRule(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestProcess_Recover(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	// converter is missing, conversion fails on the first declaration
	p := New(nil, units.NewPropList([]string{"*"}), Options{Replace: true}, zap.New(core))

	in := "width: 16px;"
	out, changed := p.Process(in)
	if out != in || changed {
		t.Errorf("Process() = %q, %v, want input unchanged", out, changed)
	}

	entries := logs.FilterMessageSnippet("leaving it unchanged").All()
	if len(entries) != 1 {
		t.Fatalf("Expected one warning, got %d", logs.Len())
	}
	if entries[0].Level != zapcore.WarnLevel || entries[0].LoggerName != "stylesheet" {
		t.Errorf("Unexpected warning entry: %+v", entries[0].Entry)
	}
}
