// Package pattern compiles user-supplied regular expressions, optionally
// prepended with a shared prefix, into immutable matchers.
package pattern

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidPattern reports a prefix+pattern combination that does not
// compile as a regular expression.
var ErrInvalidPattern = errors.New("invalid pattern")

// Matcher answers whether a line contains a match for its pattern. The
// effective expression is the literal concatenation of the configured
// prefix (if any) and the pattern, compiled exactly once at construction.
type Matcher struct {
	source string
	re     *regexp.Regexp
}

// New compiles prefix+pattern into a Matcher.
func New(prefix, pattern string) (*Matcher, error) {
	source := prefix + pattern
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, source, err)
	}
	return &Matcher{source: source, re: re}, nil
}

// Matches reports whether the pattern occurs anywhere within line.
// Matching is a search, not a full-line anchor.
func (m *Matcher) Matches(line string) bool {
	return m.re.MatchString(line)
}

// String returns the effective expression, prefix included.
func (m *Matcher) String() string {
	return m.source
}
