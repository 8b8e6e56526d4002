package merge

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/pairmerge/biosimd"
	"github.com/grailbio/pairmerge/encoding/fasta"
	"github.com/grailbio/pairmerge/encoding/fastq"
)

// Merger merges the read pairs of one pair of FASTQ files. It holds only
// immutable state, so one Merger serves all the concurrent passes of a run.
type Merger struct {
	opts     Opts
	overlap  OverlapOpts
	r1Prefix *PrefixMatcher // nil if not configured
	r2Prefix *PrefixMatcher // nil if not configured
}

// NewMerger validates opts and compiles the prefix patterns.
func NewMerger(ctx context.Context, opts Opts) (*Merger, error) {
	if err := validate(ctx, &opts); err != nil {
		return nil, err
	}
	m := &Merger{
		opts: opts,
		overlap: OverlapOpts{
			MinOverlap:        opts.MinOverlap,
			AllowFull:         opts.AllowFullOverlap,
			RetainOverlapOnly: opts.RetainOverlapOnly,
		},
	}
	var err error
	if opts.R1PrefixPattern != "" {
		if m.r1Prefix, err = NewPrefixMatcher(opts.R1PrefixPattern); err != nil {
			return nil, err
		}
	}
	if opts.R2PrefixPattern != "" {
		if m.r2Prefix, err = NewPrefixMatcher(opts.R2PrefixPattern); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Outputs are the destinations of one merge pass. R1Prefix and R2Prefix must
// be set iff the corresponding prefix report is enabled.
type Outputs struct {
	Merged   io.Writer
	R1Prefix io.Writer
	R2Prefix io.Writer
}

type pairWriters struct {
	merged, r1Prefix, r2Prefix *fasta.Writer
}

// Description line fields that are not computed: mismatches in the overlap
// and quality consensus.
const placeholderFields = "|m/o:0|MR:n=0;r1=0;r2=0|Q30:n/a|mismatches:0"

// MergeRange merges the read pairs that start in rng. R1 and R2 are both
// opened at rng.Start.
//
// The range ends at the first record whose R1 offset is at or past rng.End,
// at the end of R1, or at a truncated record. A truncated record or an
// unequal number of records is logged and treated as the end of the input.
func (m *Merger) MergeRange(ctx context.Context, rng ChunkRange, out Outputs) (stats Stats, err error) {
	if rng.Start == NoChunk {
		return stats, nil
	}
	const fields = fastq.ID | fastq.Seq
	in1, err := fastq.Open(ctx, m.opts.R1Path, m.opts.R1Gzip, rng.Start, fields)
	if err != nil {
		return stats, errors.E(err, "merge", rng.String())
	}
	defer func() {
		if e := in1.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	in2, err := fastq.Open(ctx, m.opts.R2Path, m.opts.R2Gzip, rng.Start, fields)
	if err != nil {
		return stats, errors.E(err, "merge", rng.String())
	}
	defer func() {
		if e := in2.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()

	w := pairWriters{merged: fasta.NewWriter(out.Merged)}
	if out.R1Prefix != nil {
		w.r1Prefix = fasta.NewWriter(out.R1Prefix)
	}
	if out.R2Prefix != nil {
		w.r2Prefix = fasta.NewWriter(out.R2Prefix)
	}
	pairs := fastq.ComposePairScanner(in1.Scanner, in2.Scanner)
	var r1, r2 fastq.Read
	for {
		off, _ := pairs.Offsets()
		if !pairs.Scan(&r1, &r2) {
			break
		}
		if rng.End != EndOfStream && off >= rng.End {
			if off != rng.End || r1.ID != rng.EndMarker {
				log.Error.Printf("%s: record %q at offset %d does not match the end of range %v",
					m.opts.R1Path, r1.ID, off, rng)
			}
			break
		}
		if err := m.mergePair(&r1, &r2, &stats, w); err != nil {
			return stats, err
		}
	}
	switch err := pairs.Err(); err {
	case nil:
	case fastq.ErrShort, fastq.ErrDiscordant:
		off1, off2 := pairs.Offsets()
		log.Error.Printf("%s, %s: %v at offsets %d, %d; ignoring the rest of the input",
			m.opts.R1Path, m.opts.R2Path, err, off1, off2)
	default:
		return stats, errors.E(err, "merge", m.opts.R1Path, m.opts.R2Path, rng.String())
	}
	log.Debug.Printf("%v: %+v", rng, stats)
	return stats, nil
}

// mergePair merges one pair and updates stats.
func (m *Merger) mergePair(r1, r2 *fastq.Read, stats *Stats, w pairWriters) error {
	stats.TotalPairs++
	var (
		p1, p2   PrefixMatch
		ok1, ok2 = true, true
	)
	// Each read is tested against its own pattern, regardless of the mate.
	if m.r1Prefix != nil {
		if p1, ok1 = m.r1Prefix.Match(r1.Seq); !ok1 {
			stats.R1PrefixFailed++
		}
	}
	if m.r2Prefix != nil {
		if p2, ok2 = m.r2Prefix.Match(r2.Seq); !ok2 {
			stats.R2PrefixFailed++
			if m.r1Prefix != nil && !ok1 {
				stats.BothPrefixesFailed++
			}
		}
	}
	if !ok1 || !ok2 {
		stats.TotalPrefixFailed++
		return nil
	}
	stats.PrefixPassed++

	o, err := Overlap(r1.Seq[p1.Trim:], r2.Seq[p2.Trim:], p1.Trim, p2.Trim, m.overlap)
	if err != nil {
		return errors.E(err, "read", r1.ID)
	}
	if o.Kind == NoOverlap {
		return nil
	}
	if biosimd.IsNPresent(o.Insert) {
		stats.DisqualifiedByNs++
		return nil
	}
	stats.Merged++
	if o.Kind == FullOverlap {
		stats.FullyOverlapping++
	}
	desc := fmt.Sprintf("%s|o:%d%s", r1.Name(), o.Len, placeholderFields)
	if err := w.merged.Write(desc, o.Insert); err != nil {
		return errors.E(err, "write merged read", r1.ID)
	}
	if w.r1Prefix != nil {
		if err := w.r1Prefix.Write(desc, p1.Text); err != nil {
			return errors.E(err, "write R1 prefix", r1.ID)
		}
	}
	if w.r2Prefix != nil {
		if err := w.r2Prefix.Write(desc, p2.Text); err != nil {
			return errors.E(err, "write R2 prefix", r1.ID)
		}
	}
	return nil
}
