package merge

import (
	"regexp"

	"github.com/grailbio/base/errors"
)

// PrefixMatch is a located read prefix.
type PrefixMatch struct {
	// Trim is the offset at which the usable sequence begins, i.e., the end
	// of the match.
	Trim int
	// Text is the matched text.
	Text string
}

// PrefixMatcher locates a prefix such as a primer or an inline index in a
// read. A PrefixMatcher is immutable and may be shared by concurrent merge
// passes.
type PrefixMatcher struct {
	re *regexp.Regexp
}

// NewPrefixMatcher compiles pattern. The pattern is not implicitly anchored:
// add '^' to require the match to start at the first base.
func NewPrefixMatcher(pattern string) (*PrefixMatcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.E(errors.Invalid, err, "prefix pattern", pattern)
	}
	return &PrefixMatcher{re: re}, nil
}

// Match finds the leftmost match in seq. Not finding one is not an error.
func (m *PrefixMatcher) Match(seq string) (PrefixMatch, bool) {
	loc := m.re.FindStringIndex(seq)
	if loc == nil {
		return PrefixMatch{}, false
	}
	return PrefixMatch{Trim: loc[1], Text: seq[loc[0]:loc[1]]}, true
}

// String returns the source pattern.
func (m *PrefixMatcher) String() string { return m.re.String() }
