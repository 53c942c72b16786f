package convert

import (
	"errors"
	"testing"
)

func TestSummary(t *testing.T) {
	var s Summary
	s.add(Outcome{Path: "src/file10.js", Status: StatusConverted, Edits: 3})
	s.add(Outcome{Path: "src/file2.js", Status: StatusConverted, Edits: 1})
	s.add(Outcome{Path: "lib/a.js", Status: StatusUnchanged})
	s.add(Outcome{Path: "lib/b.js", Status: StatusFailed, Err: errors.New("unable to parse")})

	want := `Files: 4
  converted: 2
    src/file2.js (1 edits)
    src/file10.js (3 edits)
  failed: 1
    lib/b.js
      error: "unable to parse"
  unchanged: 1
    lib/a.js
`
	if got := s.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
	if s.Count(StatusConverted) != 2 || s.Count(StatusFailed) != 1 {
		t.Errorf("Unexpected counts")
	}
}

func TestSummary_Empty(t *testing.T) {
	var s Summary
	if got := s.String(); got != "Files: 0\n" {
		t.Errorf("String() = %q", got)
	}
}

func TestStatus_String(t *testing.T) {
	for status, want := range map[Status]string{
		StatusUnchanged: "unchanged",
		StatusConverted: "converted",
		StatusFailed:    "failed",
		Status(42):      "unchanged",
	} {
		if got := status.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", status, got, want)
		}
	}
}
