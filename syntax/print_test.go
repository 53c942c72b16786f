package syntax

import (
	"encoding/json"
	"testing"
)

func TestPrint(t *testing.T) {
	src := "const a = { w: 16, h: '8px' }\nconst b = css`top: 4px;`"
	prog := mustParse(t, src, false)

	for _, n := range collect[*String](prog) {
		n.Set("0.5rem")
	}
	for _, q := range collect[*Quasi](prog) {
		q.SetRaw("top: 0.25rem;")
	}
	InspectSeq(prog.Items, func(n Node) bool {
		if g, ok := n.(*Group); ok {
			for i, item := range g.Items {
				if num, ok := item.(*Number); ok {
					g.Items[i] = NewString(num.From, num.To, "1rem")
				}
			}
		}
		return true
	})

	edits := prog.Edits()
	if len(edits) != 3 {
		t.Fatalf("Edits() = %d, want 3", len(edits))
	}
	got := Print(src, edits)
	want := "const a = { w: \"1rem\", h: '0.5rem' }\nconst b = css`top: 0.25rem;`"
	if got != want {
		t.Errorf("Print() = %q, want %q", got, want)
	}
}

func TestPrint_Overlapping(t *testing.T) {
	got := Print("abcdef", []Edit{{From: 1, To: 4, Text: "X"}, {From: 2, To: 3, Text: "Y"}, {From: 5, To: 6, Text: "Z"}})
	if got != "aXeZ" {
		t.Errorf("Print() = %q, want %q", got, "aXeZ")
	}
}

func TestPrint_NoEdits(t *testing.T) {
	if got := Print("same", nil); got != "same" {
		t.Errorf("Print() = %q", got)
	}
}

func TestSourceMap(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		edits []Edit
		want  string
	}{
		{"no edits", "a\nb", nil, "AAAA;AACA"},
		{"same width", "a\nbb", []Edit{{From: 2, To: 4, Text: "cc"}}, "AAAA;AACA,EAAE"},
		{"wider", "a\nbb", []Edit{{From: 2, To: 4, Text: "ccc"}}, "AAAA;AACA,GAAE"},
		{"mid line", "xx = 16", []Edit{{From: 5, To: 7, Text: `"1rem"`}}, "AAAA,KAAK,MAAE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewSourceMap("file.tsx", tt.src, tt.edits)
			if sm.Mappings != tt.want {
				t.Errorf("Mappings = %q, want %q", sm.Mappings, tt.want)
			}
		})
	}
}

func TestSourceMap_JSON(t *testing.T) {
	sm := NewSourceMap("file.tsx", "x", nil)
	data, err := sm.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if decoded["version"] != float64(3) || decoded["mappings"] != "AAAA" {
		t.Errorf("decoded = %v", decoded)
	}
	if names, ok := decoded["names"].([]any); !ok || len(names) != 0 {
		t.Errorf("names = %v", decoded["names"])
	}
}
