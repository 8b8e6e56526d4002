package merge

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/pairmerge/biosimd"
)

// OverlapKind describes how the two reads of a pair overlap.
type OverlapKind int

const (
	// NoOverlap means no exact overlap of at least the minimum size exists.
	NoOverlap OverlapKind = iota
	// PartialOverlap means the reads overlap over a strict sub-span, and the
	// insert is longer than either read.
	PartialOverlap
	// FullOverlap means the whole insert fits within R1.
	FullOverlap
)

func (k OverlapKind) String() string {
	switch k {
	case NoOverlap:
		return "none"
	case PartialOverlap:
		return "partial"
	case FullOverlap:
		return "full"
	}
	return fmt.Sprintf("OverlapKind(%d)", int(k))
}

// Outcome is the result of merging one read pair.
type Outcome struct {
	// Insert is the merged sequence. It is empty iff Kind == NoOverlap.
	Insert string
	// Len is the overlap length.
	Len int
	// Kind is the overlap kind.
	Kind OverlapKind
}

// OverlapOpts controls Overlap.
type OverlapOpts struct {
	// MinOverlap is the minimum overlap size.
	MinOverlap int
	// AllowFull also searches for inserts that fit within R1. When false,
	// only partial overlaps are reported.
	AllowFull bool
	// RetainOverlapOnly makes a partial overlap return only the overlapping
	// span instead of the whole reconstructed insert.
	RetainOverlapOnly bool
}

// Overlap finds the longest exact overlap between r1 and the reverse
// complement of r2.
//
// The reads may have been trimmed: r1Prefix and r2Prefix are the number of
// bases removed from the front of each read. Both reads must come from the
// same physical read length, i.e., r1Prefix+len(r1) == r2Prefix+len(r2);
// otherwise an Invalid error is returned.
//
// The search slides the reverse-complemented R2 right along R1 one base at a
// time, starting from the largest overlap, and stops at the first shift
// whose overlapping spans are identical. There is no mismatch tolerance. For
// a partial overlap the insert is R1 up to the end of the overlap followed
// by the rest of the reverse-complemented R2. For a full overlap the insert
// is the part of R1 covered by R2.
func Overlap(r1, r2 string, r1Prefix, r2Prefix int, opts OverlapOpts) (Outcome, error) {
	n1, n2 := len(r1), len(r2)
	if r1Prefix < 0 || r2Prefix < 0 || r1Prefix+n1 != r2Prefix+n2 {
		return Outcome{}, errors.E(errors.Invalid,
			fmt.Sprintf("reads have different lengths: %d+%d vs %d+%d", r1Prefix, n1, r2Prefix, n2))
	}
	readLen := r1Prefix + n1
	rc := biosimd.ReverseComp8String(r2)

	// maxFull is the insert length when R2 starts at the beginning of R1.
	maxFull := n1 - r2Prefix
	if opts.AllowFull {
		if o, ok := fullOverlap(r1, rc, maxFull, r1Prefix); ok {
			return o, nil
		}
	}
	for shift := 1; readLen-shift >= opts.MinOverlap; shift++ {
		var r1Start, rcStart int
		if shift > r1Prefix {
			r1Start = shift - r1Prefix
		} else {
			rcStart = r1Prefix - shift
		}
		r1End := n1
		if shift < r2Prefix {
			r1End = n1 - r2Prefix + shift
		}
		rcEnd := n2
		if shift > r2Prefix {
			rcEnd = n2 + r2Prefix - shift
		}
		if validSpan(r1Start, r1End, n1) && validSpan(rcStart, rcEnd, n2) &&
			r1[r1Start:r1End] == rc[rcStart:rcEnd] {
			o := Outcome{Len: r1End - r1Start, Kind: PartialOverlap}
			if opts.RetainOverlapOnly {
				o.Insert = r1[r1Start:r1End]
			} else {
				o.Insert = r1[:r1End] + rc[rcEnd:]
			}
			return o, nil
		}
		if !opts.AllowFull || maxFull-shift < opts.MinOverlap {
			continue
		}
		if o, ok := fullOverlap(r1, rc, maxFull-shift, r1Prefix+shift); ok {
			return o, nil
		}
	}
	return Outcome{}, nil
}

// fullOverlap tests whether the first insertLen bases of r1 equal rc from
// rcStart to its end.
func fullOverlap(r1, rc string, insertLen, rcStart int) (Outcome, bool) {
	if insertLen <= 0 || insertLen > len(r1) || rcStart < 0 || len(rc)-rcStart != insertLen {
		return Outcome{}, false
	}
	if r1[:insertLen] != rc[rcStart:] {
		return Outcome{}, false
	}
	return Outcome{Insert: r1[:insertLen], Len: insertLen, Kind: FullOverlap}, true
}

// validSpan reports whether [start, end) is a non-empty span of a
// sequence of length n.
func validSpan(start, end, n int) bool {
	return start >= 0 && start < end && end <= n
}
