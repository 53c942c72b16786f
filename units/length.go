package units

// lengthProperties lists style properties holding distances, both in
// camelCase (style objects) and kebab-case (quoted keys).
var lengthProperties = func() map[string]struct{} {
	names := []string{
		"width", "height", "minWidth", "minHeight", "maxWidth", "maxHeight",
		"blockSize", "inlineSize", "minBlockSize", "minInlineSize", "maxBlockSize", "maxInlineSize",

		"margin", "marginTop", "marginRight", "marginBottom", "marginLeft",
		"marginBlock", "marginBlockStart", "marginBlockEnd",
		"marginInline", "marginInlineStart", "marginInlineEnd",

		"padding", "paddingTop", "paddingRight", "paddingBottom", "paddingLeft",
		"paddingBlock", "paddingBlockStart", "paddingBlockEnd",
		"paddingInline", "paddingInlineStart", "paddingInlineEnd",

		"top", "right", "bottom", "left", "inset",
		"insetBlock", "insetBlockStart", "insetBlockEnd",
		"insetInline", "insetInlineStart", "insetInlineEnd",

		"border", "borderWidth", "borderTop", "borderRight", "borderBottom", "borderLeft",
		"borderTopWidth", "borderRightWidth", "borderBottomWidth", "borderLeftWidth",
		"borderBlockWidth", "borderInlineWidth",
		"borderRadius", "borderTopLeftRadius", "borderTopRightRadius",
		"borderBottomLeftRadius", "borderBottomRightRadius",
		"borderStartStartRadius", "borderStartEndRadius", "borderEndStartRadius", "borderEndEndRadius",
		"borderSpacing",

		"outline", "outlineWidth", "outlineOffset",

		"fontSize", "letterSpacing", "wordSpacing", "textIndent",
		"textUnderlineOffset", "textDecorationThickness",

		"gap", "rowGap", "columnGap", "gridGap", "gridRowGap", "gridColumnGap",
		"columnWidth", "columnRuleWidth",
		"flexBasis",

		"backgroundPosition", "backgroundPositionX", "backgroundPositionY", "backgroundSize",
		"maskPosition", "maskSize",
		"objectPosition",
		"perspective", "translate",
		"boxShadow", "textShadow",

		"scrollMargin", "scrollMarginTop", "scrollMarginRight", "scrollMarginBottom", "scrollMarginLeft",
		"scrollPadding", "scrollPaddingTop", "scrollPaddingRight", "scrollPaddingBottom", "scrollPaddingLeft",

		"strokeWidth",
	}
	m := make(map[string]struct{}, 2*len(names))
	for _, n := range names {
		m[n] = struct{}{}
		m[kebab(n)] = struct{}{}
	}
	return m
}()

// IsLengthProperty reports if bare numbers assigned to the property mean
// pixels. Properties like zIndex, opacity or lineHeight are not lengths.
func IsLengthProperty(name string) bool {
	_, ok := lengthProperties[name]
	return ok
}

func kebab(camel string) string {
	out := make([]byte, 0, len(camel)+4)
	for i := 0; i < len(camel); i++ {
		ch := camel[i]
		if ch >= 'A' && ch <= 'Z' {
			out = append(out, '-', ch+('a'-'A'))
			continue
		}
		out = append(out, ch)
	}
	return string(out)
}
