package rewrite

import (
	"pxrem/units"
)

// Options is resolved transform configuration. It is never modified after
// Transformer is created.
type Options struct {
	RootValue     float64
	UnitPrecision int
	MinPixelValue float64
	// Unit is appended to converted values, "rem" when empty.
	Unit string
	// PropList selects eligible properties: exact names, "*" wildcard and
	// "!name" exclusions.
	PropList []string
	// SelectorBlackList is accepted for compatibility and not enforced.
	SelectorBlackList []string
	Replace           bool
	MediaQuery        bool
	// Include and Exclude are path patterns: "/re/" is regular expression,
	// anything else is matched as substring.
	Include []string
	Exclude []string
	// TemplateFunctions are tags of stylesheet templates.
	TemplateFunctions []string
	// StyleFactories are functions whose arguments describe style objects.
	StyleFactories []string
	// EnableJSXTransform turns on markup attributes and compiled markup
	// calls processing.
	EnableJSXTransform bool
	// JSXAttributeMapping maps component name to attributes holding pixel
	// lengths.
	JSXAttributeMapping map[string][]string
}

// DefaultOptions returns options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		RootValue:           units.DefaultRootValue,
		UnitPrecision:       units.DefaultUnitPrecision,
		MinPixelValue:       0,
		Unit:                units.DefaultUnit,
		PropList:            []string{units.Wildcard},
		Replace:             true,
		TemplateFunctions:   []string{"css"},
		StyleFactories:      []string{"createStyles"},
		EnableJSXTransform:  true,
		JSXAttributeMapping: map[string][]string{},
	}
}

// compiledFactories are callees produced by markup compilation.
var compiledFactories = []string{"_jsx", "_jsxs", "_jsxDEV", "createElement"}

// compiledNamespace is the object createElement may be called on.
const compiledNamespace = "React"
