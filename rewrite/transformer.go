// Package rewrite converts pixel lengths to root relative units in script
// sources: stylesheet templates, style factory arguments, markup style
// attributes and compiled markup calls.
package rewrite

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"pxrem/marker"
	"pxrem/stylesheet"
	"pxrem/syntax"
	"pxrem/units"
)

// Result is transformed source. Line numbers of the source are preserved.
type Result struct {
	Code  string
	Map   *syntax.SourceMap
	Edits int
}

// Transformer is immutable and may be used from many goroutines at once.
type Transformer struct {
	opts   Options
	conv   *units.Converter
	props  units.PropList
	sheet  *stylesheet.Processor
	filter *pathFilter
	// needles are substrings at least one of which must be present in
	// source for it to be parsed.
	needles []string
	log     *zap.Logger
}

func New(opts Options, log *zap.Logger) (*Transformer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("rewrite")

	conv, err := units.NewConverter(units.Options{
		RootValue:     opts.RootValue,
		UnitPrecision: opts.UnitPrecision,
		MinPixelValue: opts.MinPixelValue,
		Unit:          opts.Unit,
	})
	if err != nil {
		return nil, fmt.Errorf("bad conversion options: %w", err)
	}
	filter, err := newPathFilter(opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}
	if len(opts.SelectorBlackList) > 0 {
		log.Debug("Selector black list is not enforced", zap.Strings("selectors", opts.SelectorBlackList))
	}

	props := units.NewPropList(opts.PropList)
	t := &Transformer{
		opts:   opts,
		conv:   conv,
		props:  props,
		sheet:  stylesheet.New(conv, props, stylesheet.Options{Replace: opts.Replace, MediaQuery: opts.MediaQuery}, log),
		filter: filter,
		log:    log,
	}
	t.needles = t.precheckNeedles()
	return t, nil
}

// Options returns configuration transformer was created with.
func (t *Transformer) Options() Options {
	return t.opts
}

func (t *Transformer) precheckNeedles() []string {
	var needles []string
	for _, fn := range t.opts.TemplateFunctions {
		needles = append(needles, fn+"`")
	}
	needles = append(needles, t.opts.StyleFactories...)
	if !t.opts.EnableJSXTransform {
		return needles
	}
	needles = append(needles, "style=")
	for _, attrs := range t.opts.JSXAttributeMapping {
		for _, a := range attrs {
			needles = append(needles, a+"=")
		}
	}
	for _, fn := range compiledFactories {
		needles = append(needles, fn+"(")
	}
	return needles
}

// Wants reports if file with the given path passes include and exclude
// patterns.
func (t *Transformer) Wants(path string) bool {
	return t.filter.match(path)
}

// precheck cheaply rejects sources which cannot contain anything to convert.
func (t *Transformer) precheck(code string) bool {
	return slices.ContainsFunc(t.needles, func(s string) bool {
		return len(s) > 0 && strings.Contains(code, s)
	})
}

func (t *Transformer) mapped(component, attr string) bool {
	return slices.Contains(t.opts.JSXAttributeMapping[component], attr)
}

// Transform converts code read from path. It returns nil when file is not
// selected, has nothing to convert or cannot be processed, failures are
// logged.
func (t *Transformer) Transform(code, path string) *Result {
	res, err := t.Process(code, path)
	if err != nil {
		t.log.Error("Unable to process file, leaving it unchanged", zap.String("file", path), zap.Error(err))
		return nil
	}
	return res
}

// Process is Transform which returns failures to the caller. Result is nil
// when nothing was changed.
func (t *Transformer) Process(code, path string) (res *Result, err error) {
	if !t.Wants(path) || !t.precheck(code) {
		return nil, nil
	}

	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("unexpected failure: %v", r)
		}
	}()

	prog, err := syntax.Parse(code, syntax.Options{Markup: syntax.MarkupAllowed(path)})
	if err != nil {
		return nil, fmt.Errorf("unable to parse: %w", err)
	}

	v := &visitor{values: values{t: t}, lines: marker.Split(code)}
	v.walk(prog.Items)
	if v.changed == 0 {
		return nil, nil
	}

	edits := prog.Edits()
	out := syntax.Print(code, edits)
	if out == code {
		return nil, nil
	}
	t.log.Debug("Converted", zap.String("file", path), zap.Int("edits", len(edits)))
	return &Result{
		Code:  out,
		Map:   syntax.NewSourceMap(filepath.Base(path), code, edits),
		Edits: len(edits),
	}, nil
}
