package syntax

import (
	"sort"
	"strings"
)

// Edit is a replacement of source range [From, To) with Text.
type Edit struct {
	From, To int
	Text     string
}

// Edits collects changes made to the tree ordered by position.
func (p *Program) Edits() []Edit {
	var edits []Edit
	InspectSeq(p.Items, func(n Node) bool {
		switch n := n.(type) {
		case *String:
			if n.edited {
				edits = append(edits, Edit{From: n.From, To: n.To, Text: n.Raw})
			}
		case *Quasi:
			if n.edited {
				edits = append(edits, Edit{From: n.From, To: n.To, Text: n.Raw})
			}
		}
		return true
	})
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].From < edits[j].From })
	return edits
}

// Print returns program source with edits applied. Text outside of edited
// nodes is copied verbatim.
func Print(src string, edits []Edit) string {
	if len(edits) == 0 {
		return src
	}
	var sb strings.Builder
	sb.Grow(len(src))
	last := 0
	for _, e := range edits {
		if e.From < last {
			// overlapping edit, the first one wins
			continue
		}
		sb.WriteString(src[last:e.From])
		sb.WriteString(e.Text)
		last = e.To
	}
	sb.WriteString(src[last:])
	return sb.String()
}
