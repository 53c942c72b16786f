package debug

import "testing"

func TestTreeWriter(t *testing.T) {
	tw := NewTreeWriter()
	if tw.String() != "" {
		t.Error("Expected empty string from new TreeWriter")
	}

	tw.Line(0, "root %d", 1)
	tw.Line(1, "child")
	tw.TextBlock(2, "text", "two\nlines")
	tw.TextBlock(2, "empty", "")
	tw.Line(-1, "negative depth")

	want := "root 1\n  child\n    text: \"two\\nlines\"\n    empty: \nnegative depth\n"
	if got := tw.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
