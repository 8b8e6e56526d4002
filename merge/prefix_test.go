package merge

import (
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestPrefixMatcher(t *testing.T) {
	tests := []struct {
		pattern, seq string
		want         PrefixMatch
		ok           bool
	}{
		{"^ACGT", "ACGTTTTT", PrefixMatch{Trim: 4, Text: "ACGT"}, true},
		{"^ACGT", "TACGTTTT", PrefixMatch{}, false},
		// Unanchored patterns match anywhere; the read is trimmed through the
		// end of the match.
		{"ACGT", "TTACGTTT", PrefixMatch{Trim: 6, Text: "ACGT"}, true},
		{"^[ACGT]{3}TT", "GGATTCCCC", PrefixMatch{Trim: 5, Text: "GGATT"}, true},
		// The leftmost match wins.
		{"A+C", "GAACAAAC", PrefixMatch{Trim: 4, Text: "AAC"}, true},
		{"C*", "ACGT", PrefixMatch{Trim: 0, Text: ""}, true},
	}
	for _, test := range tests {
		m, err := NewPrefixMatcher(test.pattern)
		assert.NoError(t, err)
		expect.EQ(t, m.String(), test.pattern)
		got, ok := m.Match(test.seq)
		expect.EQ(t, ok, test.ok, "pattern %s, seq %s", test.pattern, test.seq)
		expect.EQ(t, got, test.want, "pattern %s, seq %s", test.pattern, test.seq)
	}
}

func TestPrefixMatcherBadPattern(t *testing.T) {
	_, err := NewPrefixMatcher("AC(GT")
	expect.True(t, errors.Is(errors.Invalid, err), "got %v", err)
}
