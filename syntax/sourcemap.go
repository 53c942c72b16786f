package syntax

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// SourceMap is revision 3 source map. Generated code keeps line numbers of
// the source, columns are re-aligned after every edit.
type SourceMap struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// NewSourceMap describes result of applying edits to src. Source file name
// is used as both generated and original file.
func NewSourceMap(file, src string, edits []Edit) *SourceMap {
	var (
		m              = mappings{first: true, lastLine: -1}
		gl, gc, ol, oc int
		pos            int
	)

	m.add(0, 0, 0, 0)
	unchanged := func(text string) {
		for _, r := range text {
			if r == '\n' {
				gl, gc, ol, oc = gl+1, 0, ol+1, 0
				m.add(gl, 0, ol, 0)
				continue
			}
			gc += width(r)
			oc += width(r)
		}
	}

	for _, e := range edits {
		if e.From < pos {
			continue
		}
		unchanged(src[pos:e.From])
		m.add(gl, gc, ol, oc)

		old := src[e.From:e.To]
		oldLines := strings.Count(old, "\n")
		startLine, k := ol, 0
		for _, r := range e.Text {
			if r == '\n' {
				k++
				gl, gc = gl+1, 0
				m.add(gl, 0, startLine+min(k, oldLines), 0)
				continue
			}
			gc += width(r)
		}
		for _, r := range old {
			if r == '\n' {
				ol, oc = ol+1, 0
				continue
			}
			oc += width(r)
		}
		m.add(gl, gc, ol, oc)
		pos = e.To
	}
	unchanged(src[pos:])

	return &SourceMap{
		Version:        3,
		File:           file,
		Sources:        []string{file},
		SourcesContent: []string{src},
		Names:          []string{},
		Mappings:       m.sb.String(),
	}
}

// JSON returns encoded source map.
func (sm *SourceMap) JSON() ([]byte, error) {
	return json.Marshal(sm)
}

// width returns number of UTF-16 code units used by rune.
func width(r rune) int {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}
	return 1
}

type mappings struct {
	sb strings.Builder

	line, prevCol     int
	prevOrigLine      int
	prevOrigCol       int
	first             bool
	lastLine, lastCol int
}

func (m *mappings) add(genLine, genCol, origLine, origCol int) {
	if genLine == m.lastLine && genCol == m.lastCol {
		return
	}
	m.lastLine, m.lastCol = genLine, genCol

	for m.line < genLine {
		m.sb.WriteByte(';')
		m.line++
		m.prevCol = 0
		m.first = true
	}
	if !m.first {
		m.sb.WriteByte(',')
	}
	m.first = false

	vlq(&m.sb, genCol-m.prevCol)
	vlq(&m.sb, 0)
	vlq(&m.sb, origLine-m.prevOrigLine)
	vlq(&m.sb, origCol-m.prevOrigCol)
	m.prevCol, m.prevOrigLine, m.prevOrigCol = genCol, origLine, origCol
}

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

func vlq(sb *strings.Builder, v int) {
	u := v << 1
	if v < 0 {
		u = (-v << 1) | 1
	}
	for {
		digit := u & 31
		u >>= 5
		if u > 0 {
			digit |= 32
		}
		sb.WriteByte(base64Chars[digit])
		if u == 0 {
			return
		}
	}
}
