// Package units converts pixel lengths to root relative units.
package units

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultRootValue     = 16.0
	DefaultUnitPrecision = 5
	DefaultUnit          = "rem"
)

// Options describes conversion arithmetic.
type Options struct {
	RootValue     float64
	UnitPrecision int
	MinPixelValue float64
	Unit          string
}

// Converter is immutable and safe for concurrent use.
type Converter struct {
	root      float64
	precision int
	min       float64
	unit      string
}

// pxToken matches a signed, optionally fractional number followed by px.
var pxToken = regexp.MustCompile(`(-?\d*\.?\d+)px`)

func NewConverter(opts Options) (*Converter, error) {
	if opts.RootValue == 0 || math.IsNaN(opts.RootValue) || math.IsInf(opts.RootValue, 0) {
		return nil, fmt.Errorf("invalid root value %v", opts.RootValue)
	}
	if opts.UnitPrecision < 0 || opts.UnitPrecision > 20 {
		return nil, fmt.Errorf("unit precision %d is out of range [0, 20]", opts.UnitPrecision)
	}
	if opts.MinPixelValue < 0 {
		return nil, fmt.Errorf("negative minimal pixel value %v", opts.MinPixelValue)
	}
	c := &Converter{
		root:      opts.RootValue,
		precision: opts.UnitPrecision,
		min:       opts.MinPixelValue,
		unit:      opts.Unit,
	}
	if len(c.unit) == 0 {
		c.unit = DefaultUnit
	}
	return c, nil
}

// MinPixelValue returns conversion threshold.
func (c *Converter) MinPixelValue() float64 {
	return c.min
}

// Above reports if magnitude of v is strictly greater than the threshold.
func (c *Converter) Above(v float64) bool {
	return math.Abs(v) > c.min
}

// Convert returns root relative representation of v. The boolean reports
// whether conversion happened, when it is false the result is v formatted
// as is. Zero always converts to bare "0".
func (c *Converter) Convert(v float64) (string, bool) {
	if math.IsNaN(v) {
		return "NaN", false
	}
	if v == 0 {
		return "0", true
	}
	if !c.Above(v) {
		return strconv.FormatFloat(v, 'f', -1, 64), false
	}
	r := new(big.Rat).SetFloat64(v / c.root)
	if r == nil {
		return strconv.FormatFloat(v, 'f', -1, 64), false
	}
	// halves are rounded away from zero
	rounded, err := strconv.ParseFloat(r.FloatString(c.precision), 64)
	if err != nil {
		return strconv.FormatFloat(v, 'f', -1, 64), false
	}
	if rounded == 0 {
		return "0", true
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64) + c.unit, true
}

// ConvertString parses s as a number and converts it. Strings which are not
// numbers are returned unchanged.
func (c *Converter) ConvertString(s string) (string, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return s, false
	}
	out, ok := c.Convert(v)
	if !ok {
		return s, false
	}
	return out, true
}

// ReplacePx substitutes every "<number>px" token in text. Tokens which do
// not convert are left as they are, unit included.
func (c *Converter) ReplacePx(text string) (string, bool) {
	if !strings.Contains(text, "px") {
		return text, false
	}
	changed := false
	out := pxToken.ReplaceAllStringFunc(text, func(tok string) string {
		res, ok := c.ConvertString(strings.TrimSuffix(tok, "px"))
		if !ok {
			return tok
		}
		changed = true
		return res
	})
	if !changed {
		return text, false
	}
	return out, true
}

// HasPx reports if text contains at least one pixel token.
func HasPx(text string) bool {
	return strings.Contains(text, "px") && pxToken.MatchString(text)
}
