package convert

import (
	"slices"
	"sync"
	"time"

	"github.com/maruel/natural"

	"pxrem/utils/debug"
)

type Status int

const (
	StatusUnchanged Status = iota
	StatusConverted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusConverted:
		return "converted"
	case StatusFailed:
		return "failed"
	}
	return "unchanged"
}

// Outcome describes what happened to a single source file.
type Outcome struct {
	Path    string
	Status  Status
	Edits   int
	Err     error
	Elapsed time.Duration
}

// Summary collects outcomes reported by concurrent workers.
type Summary struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func (s *Summary) add(o Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, o)
}

// Outcomes returns collected outcomes in natural order of paths.
func (s *Summary) Outcomes() []Outcome {
	s.mu.Lock()
	out := slices.Clone(s.outcomes)
	s.mu.Unlock()

	slices.SortStableFunc(out, func(a, b Outcome) int {
		switch {
		case natural.Less(a.Path, b.Path):
			return -1
		case natural.Less(b.Path, a.Path):
			return 1
		}
		return 0
	})
	return out
}

// Count returns number of outcomes with given status.
func (s *Summary) Count(status Status) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, o := range s.outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// String renders summary as indented tree grouped by status.
func (s *Summary) String() string {
	outcomes := s.Outcomes()
	tw := debug.NewTreeWriter()
	tw.Line(0, "Files: %d", len(outcomes))
	for _, status := range []Status{StatusConverted, StatusFailed, StatusUnchanged} {
		group := slices.DeleteFunc(slices.Clone(outcomes), func(o Outcome) bool {
			return o.Status != status
		})
		if len(group) == 0 {
			continue
		}
		tw.Line(1, "%s: %d", status, len(group))
		for _, o := range group {
			switch o.Status {
			case StatusConverted:
				tw.Line(2, "%s (%d edits)", o.Path, o.Edits)
			default:
				tw.Line(2, "%s", o.Path)
			}
			if o.Err != nil {
				tw.TextBlock(3, "error", o.Err.Error())
			}
		}
	}
	return tw.String()
}
