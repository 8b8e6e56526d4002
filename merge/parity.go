package merge

import (
	"context"
	"fmt"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/pairmerge/encoding/fastq"
)

// CheckPairLayout verifies that R1 and R2 can be split at the same offsets:
// both files must hold the same number of records, and every range start
// planned on R1 must also be a record start in R2. Parallel merging opens
// both files at each range's R1 offset, so it is only correct for files
// whose records have the same byte length pairwise.
func (m *Merger) CheckPairLayout(ctx context.Context, ranges []ChunkRange) error {
	var (
		paths  = [2]string{m.opts.R1Path, m.opts.R2Path}
		gzips  = [2]bool{m.opts.R1Gzip, m.opts.R2Gzip}
		counts [2]int64
	)
	err := traverse.Each(2, func(i int) (err error) {
		counts[i], err = fastq.CountRecords(ctx, paths[i], gzips[i])
		return
	})
	if err != nil {
		return errors.E(err, "check pair layout")
	}
	if counts[0] != counts[1] {
		return errors.E(errors.Precondition,
			fmt.Sprintf("%s has %d records, %s has %d", paths[0], counts[0], paths[1], counts[1]))
	}
	log.Debug.Printf("%s, %s: %d records each", paths[0], paths[1], counts[0])

	in, err := fastq.Open(ctx, m.opts.R2Path, m.opts.R2Gzip, 0, 0)
	if err != nil {
		return errors.E(err, "check pair layout")
	}
	defer in.Close(ctx) // nolint: errcheck
	prev := int64(-1)
	for _, rng := range ranges {
		if rng.Start == NoChunk {
			continue
		}
		if rng.Start <= prev {
			return errors.E(errors.Invalid, fmt.Sprintf("ranges out of order at %v", rng))
		}
		prev = rng.Start
		// The lines read to check the previous start run past this one, so
		// R2 records are longer than R1 records.
		if rng.Start < in.Offset() || !isRecordStart(in.Scanner, rng.Start) {
			if err := in.Err(); err != nil {
				return errors.E(err, "check pair layout", m.opts.R2Path)
			}
			return errors.E(errors.Precondition,
				fmt.Sprintf("%s: offset %d starts a record in %s but not in %s",
					rng.String(), rng.Start, m.opts.R1Path, m.opts.R2Path))
		}
	}
	return nil
}

// isRecordStart reports whether a record starts at offset off. It consumes
// the record's first three lines.
func isRecordStart(sc *fastq.Scanner, off int64) bool {
	if !sc.Skip(off - sc.Offset()) {
		return false
	}
	var lines [3]string
	for i := range lines {
		var ok bool
		if lines[i], ok = sc.Line(); !ok {
			return false
		}
	}
	return strings.HasPrefix(lines[0], "@") && strings.HasPrefix(lines[2], "+")
}
