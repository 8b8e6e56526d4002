package merge

// Stats counts read pairs by outcome. Each merge pass owns its own Stats;
// the results of parallel passes are combined with Merge.
type Stats struct {
	// TotalPairs is the # of read pairs examined.
	TotalPairs int
	// Merged is the # of pairs written to the output.
	Merged int
	// FullyOverlapping is the # of merged pairs whose insert fits in one read.
	FullyOverlapping int
	// PrefixPassed is the # of pairs that matched every configured prefix
	// pattern. Without patterns it equals TotalPairs.
	PrefixPassed int
	// TotalPrefixFailed is the # of pairs dropped because a read did not match
	// its prefix pattern.
	TotalPrefixFailed int
	// R1PrefixFailed and R2PrefixFailed count the reads that did not match
	// their pattern, independently of the mate.
	R1PrefixFailed int
	R2PrefixFailed int
	// BothPrefixesFailed is the # of pairs where neither read matched.
	BothPrefixesFailed int
	// DisqualifiedByNs is the # of overlapping pairs dropped because the insert
	// contains an 'N'.
	DisqualifiedByNs int
}

// Merge adds the field values of the two Stats objects and creates new Stats.
func (s Stats) Merge(o Stats) Stats {
	s.TotalPairs += o.TotalPairs
	s.Merged += o.Merged
	s.FullyOverlapping += o.FullyOverlapping
	s.PrefixPassed += o.PrefixPassed
	s.TotalPrefixFailed += o.TotalPrefixFailed
	s.R1PrefixFailed += o.R1PrefixFailed
	s.R2PrefixFailed += o.R2PrefixFailed
	s.BothPrefixesFailed += o.BothPrefixesFailed
	s.DisqualifiedByNs += o.DisqualifiedByNs
	return s
}

type counter struct {
	name string
	n    int
}

// counters lists the counters in report order.
func (s Stats) counters() []counter {
	return []counter{
		{"total_pairs", s.TotalPairs},
		{"merged", s.Merged},
		{"fully_overlapping_count", s.FullyOverlapping},
		{"prefix_passed", s.PrefixPassed},
		{"total_prefix_failed", s.TotalPrefixFailed},
		{"r1_prefix_failed", s.R1PrefixFailed},
		{"r2_prefix_failed", s.R2PrefixFailed},
		{"both_prefixes_failed", s.BothPrefixesFailed},
		{"pair_disqualified_by_Ns", s.DisqualifiedByNs},
	}
}

// Map returns the counters keyed by their report names, e.g.,
// "total_pairs" or "pair_disqualified_by_Ns".
func (s Stats) Map() map[string]int {
	m := map[string]int{}
	for _, c := range s.counters() {
		m[c.name] = c.n
	}
	return m
}
