package processor

import (
	"github.com/rfkalmar/logan/pkg/pattern"
)

// ColorTag is an opaque terminal palette index (0-255). Rendering a tag
// into an escape sequence is the caller's concern.
type ColorTag uint8

// ColorRule pairs a matcher with the color applied to matching lines.
type ColorRule struct {
	Matcher *pattern.Matcher
	Color   ColorTag
}

// ColorRules is an ordered rule list. Order matters: the first matching
// rule's color wins and later rules are not consulted.
type ColorRules []ColorRule

// FindColor returns the color of the first rule matching line. Evaluation
// is stateless; a line without a match reports no color.
func (rs ColorRules) FindColor(line string) (ColorTag, bool) {
	for _, rule := range rs {
		if rule.Matcher.Matches(line) {
			return rule.Color, true
		}
	}
	return 0, false
}
