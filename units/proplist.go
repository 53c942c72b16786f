package units

import "strings"

const (
	Wildcard        = "*"
	ExclusionMarker = "!"
)

// PropList decides which property names are eligible for conversion.
// Exclusions ("!name") always win over the wildcard.
type PropList struct {
	empty      bool
	wildcard   bool
	inclusions map[string]struct{}
	exclusions map[string]struct{}
}

func NewPropList(entries []string) PropList {
	pl := PropList{
		empty:      len(entries) == 0,
		inclusions: make(map[string]struct{}),
		exclusions: make(map[string]struct{}),
	}
	for _, e := range entries {
		switch {
		case e == Wildcard:
			pl.wildcard = true
		case strings.HasPrefix(e, ExclusionMarker):
			pl.exclusions[strings.TrimPrefix(e, ExclusionMarker)] = struct{}{}
		default:
			pl.inclusions[e] = struct{}{}
		}
	}
	return pl
}

// Allows reports if property name may be converted. Matching is exact.
func (pl PropList) Allows(name string) bool {
	if pl.empty {
		return false
	}
	if _, excluded := pl.exclusions[name]; excluded {
		return false
	}
	if pl.wildcard {
		return true
	}
	_, included := pl.inclusions[name]
	return included
}

// IsBareWildcard reports if list has wildcard and no exclusions.
func (pl PropList) IsBareWildcard() bool {
	return pl.wildcard && len(pl.exclusions) == 0
}
