package merge

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/pairmerge/biosimd"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestOverlapExamples(t *testing.T) {
	tests := []struct {
		r1, r2     string
		opts       OverlapOpts
		wantInsert string
		wantLen    int
		wantKind   OverlapKind
	}{
		// R2 lies within R1.
		{
			r1:         "AAAAACCCCCGGGGGTTTTT",
			r2:         "CCCCCGGGGGTTTTTAAAAA",
			opts:       OverlapOpts{MinOverlap: 10, AllowFull: true},
			wantInsert: "AAAAACCCCCGGGGG",
			wantLen:    15,
			wantKind:   FullOverlap,
		},
		// Same pair, full overlaps disallowed.
		{
			r1:       "AAAAACCCCCGGGGGTTTTT",
			r2:       "CCCCCGGGGGTTTTTAAAAA",
			opts:     OverlapOpts{MinOverlap: 10},
			wantKind: NoOverlap,
		},
		{
			r1:         "AAAAATTTTTGGGGGCCCCC",
			r2:         "TTTTTGGGGGCCCCCAAAAA",
			opts:       OverlapOpts{MinOverlap: 10},
			wantInsert: "AAAAATTTTTGGGGGCCCCCAAAAA",
			wantLen:    15,
			wantKind:   PartialOverlap,
		},
		{
			r1:         "AAAAATTTTTGGGGGCCCCC",
			r2:         "TTTTTGGGGGCCCCCAAAAA",
			opts:       OverlapOpts{MinOverlap: 10, AllowFull: true},
			wantInsert: "AAAAATTTTTGGGGGCCCCCAAAAA",
			wantLen:    15,
			wantKind:   PartialOverlap,
		},
		{
			r1:         "AAAAATTTTTGGGGGCCCCC",
			r2:         "TTTTTGGGGGCCCCCAAAAA",
			opts:       OverlapOpts{MinOverlap: 10, RetainOverlapOnly: true},
			wantInsert: "TTTTTGGGGGCCCCC",
			wantLen:    15,
			wantKind:   PartialOverlap,
		},
		// The overlap is shorter than the minimum.
		{
			r1:       "AAAAATTTTTGGGGGCCCCC",
			r2:       "TTTTTGGGGGCCCCCAAAAA",
			opts:     OverlapOpts{MinOverlap: 16},
			wantKind: NoOverlap,
		},
	}
	for i, test := range tests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			o, err := Overlap(test.r1, test.r2, 0, 0, test.opts)
			assert.NoError(t, err)
			expect.EQ(t, o.Kind, test.wantKind)
			expect.EQ(t, o.Insert, test.wantInsert)
			if test.wantKind != NoOverlap {
				expect.EQ(t, o.Len, test.wantLen)
			}
		})
	}
}

func TestOverlapWithPrefixes(t *testing.T) {
	// 20-base reads sequencing a 24-base insert. R1 had a 3-base prefix and
	// R2 a 2-base prefix, both already trimmed, so the reads overlap by
	// insert[6:17].
	const insert = "ACGTTGCAAGCTTCGATCCGTAGA"
	r1 := insert[:17]
	r2 := biosimd.ReverseComp8String(insert)[:18]
	o, err := Overlap(r1, r2, 3, 2, OverlapOpts{MinOverlap: 10})
	assert.NoError(t, err)
	expect.EQ(t, o, Outcome{Insert: insert, Len: 11, Kind: PartialOverlap})

	o, err = Overlap(r1, r2, 3, 2, OverlapOpts{MinOverlap: 10, RetainOverlapOnly: true})
	assert.NoError(t, err)
	expect.EQ(t, o, Outcome{Insert: insert[6:17], Len: 11, Kind: PartialOverlap})

	o, err = Overlap(r1, r2, 3, 2, OverlapOpts{MinOverlap: 12})
	assert.NoError(t, err)
	expect.EQ(t, o.Kind, NoOverlap)
}

func TestOverlapLengthMismatch(t *testing.T) {
	_, err := Overlap("ACGTACGTAC", "ACGTACGTA", 0, 0, OverlapOpts{MinOverlap: 5})
	expect.True(t, errors.Is(errors.Invalid, err), "got %v", err)
	_, err = Overlap("ACGTACGTAC", "ACGTACGTA", 0, 1, OverlapOpts{MinOverlap: 5})
	assert.NoError(t, err)
}

func TestOverlapPlanted(t *testing.T) {
	const (
		readLen    = 40
		minOverlap = 12
	)
	rnd := rand.New(rand.NewSource(1))
	opts := OverlapOpts{MinOverlap: minOverlap, AllowFull: true}
	for insertLen := minOverlap; insertLen <= 2*readLen-minOverlap; insertLen++ {
		insert := randomBases(rnd, insertLen)
		p := sequencePair(rnd, insert, readLen)
		o, err := Overlap(p.r1, p.r2, 0, 0, opts)
		assert.NoError(t, err)
		if insertLen <= readLen {
			expect.EQ(t, o, Outcome{Insert: insert, Len: insertLen, Kind: FullOverlap}, "insert length %d", insertLen)
		} else {
			expect.EQ(t, o, Outcome{Insert: insert, Len: 2*readLen - insertLen, Kind: PartialOverlap}, "insert length %d", insertLen)
		}
	}
	// The overlap is too short to be found.
	for insertLen := 2*readLen - minOverlap + 1; insertLen <= 2*readLen; insertLen++ {
		p := sequencePair(rnd, randomBases(rnd, insertLen), readLen)
		o, err := Overlap(p.r1, p.r2, 0, 0, opts)
		assert.NoError(t, err)
		expect.EQ(t, o.Kind, NoOverlap, "insert length %d", insertLen)
	}
}

func TestOverlapNoFalseFull(t *testing.T) {
	// Without AllowFull, pairs whose insert is shorter than a read are only
	// merged if the adapter sequence happens to match, which it does not
	// here.
	rnd := rand.New(rand.NewSource(2))
	for insertLen := 12; insertLen < 40; insertLen++ {
		p := sequencePair(rnd, randomBases(rnd, insertLen), 40)
		o, err := Overlap(p.r1, p.r2, 0, 0, OverlapOpts{MinOverlap: 12})
		assert.NoError(t, err)
		expect.EQ(t, o.Kind, NoOverlap, "insert length %d", insertLen)
	}
}

func TestOverlapKindString(t *testing.T) {
	expect.EQ(t, NoOverlap.String(), "none")
	expect.EQ(t, PartialOverlap.String(), "partial")
	expect.EQ(t, FullOverlap.String(), "full")
}
