package merge

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/pairmerge/encoding/fastq"
)

const (
	// NoChunk is the ChunkRange.Start of a range that holds no records,
	// because the file has fewer records than ranges.
	NoChunk int64 = -1
	// EndOfStream is the ChunkRange.End of the last range.
	EndOfStream int64 = -1
)

// ChunkRange is a record-aligned byte range of a FASTQ file. Offsets are in
// the uncompressed data.
type ChunkRange struct {
	// Start is the offset of the first record, or NoChunk.
	Start int64
	// End is the offset of the first record of the next range, or
	// EndOfStream.
	End int64
	// EndMarker is the ID line of the record at End, or "" if End is
	// EndOfStream.
	EndMarker string
}

// WholeStream is the range covering a complete file.
var WholeStream = ChunkRange{Start: 0, End: EndOfStream}

func (r ChunkRange) String() string {
	if r.Start == NoChunk {
		return "[empty)"
	}
	if r.End == EndOfStream {
		return fmt.Sprintf("[%d,eof)", r.Start)
	}
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// PlanChunks splits the FASTQ file at path into n contiguous, record-aligned
// ranges of roughly equal size.
//
// The k'th boundary is the first record start at least size/n bytes past
// the ID line of the previous boundary, where size is the uncompressed file
// size (see fastq.UncompressedSize). A gzip size that is only known modulo
// 2^32 makes the ranges unbalanced, but not incorrect: the last range always
// extends to the end of the file. If the file runs out of records, the
// remaining ranges are NoChunk.
//
// The file is read once, front to back.
func PlanChunks(ctx context.Context, path string, gzipped bool, n int) ([]ChunkRange, error) {
	if n < 1 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("number of chunks %d must be positive", n))
	}
	size, err := fastq.UncompressedSize(ctx, path, gzipped)
	if err != nil {
		return nil, errors.E(err, "plan chunks")
	}
	stride := size / int64(n)
	in, err := fastq.Open(ctx, path, gzipped, 0, 0)
	if err != nil {
		return nil, errors.E(err, "plan chunks")
	}
	defer in.Close(ctx) // nolint: errcheck

	var (
		starts  = make([]int64, n)
		markers = make([]string, n)
		target  int64
	)
	for i := range starts {
		start, marker, ok := nextRecordStart(in.Scanner, target)
		if !ok {
			if err := in.Err(); err != nil {
				return nil, errors.E(err, "plan chunks", path)
			}
			for ; i < n; i++ {
				starts[i] = NoChunk
			}
			break
		}
		starts[i], markers[i] = start, marker
		target = start + int64(len(marker)) + 1 + stride
	}

	ranges := make([]ChunkRange, n)
	for i := range ranges {
		ranges[i] = ChunkRange{Start: starts[i], End: EndOfStream}
		if i+1 < n && starts[i] != NoChunk && starts[i+1] != NoChunk {
			ranges[i].End = starts[i+1]
			ranges[i].EndMarker = markers[i+1]
		}
	}
	log.Printf("%s: planned %d ranges over %s (stride %s): %v", path, n,
		humanize.Bytes(uint64(size)), humanize.Bytes(uint64(stride)), ranges)
	return ranges, nil
}

// nextRecordStart finds the first record that starts at or after offset
// target and returns its offset and ID line. It returns false at the end of
// the file.
//
// A record start is a line beginning with '@' whose next-but-one line begins
// with '+'. The second condition rejects quality lines that begin with '@',
// since a quality line is followed by an ID line and a sequence line.
func nextRecordStart(sc *fastq.Scanner, target int64) (int64, string, bool) {
	if target > sc.Offset() {
		// Stop right before target and drop the rest of that line, so that
		// scanning resumes at the first line that starts at or after target.
		if !sc.Skip(target - 1 - sc.Offset()) {
			return 0, "", false
		}
		if _, ok := sc.Line(); !ok {
			return 0, "", false
		}
	}
	type line struct {
		off  int64
		text string
	}
	var prev [2]line // prev[0] is two lines back, prev[1] one line back.
	for n := 0; ; n++ {
		off := sc.Offset()
		text, ok := sc.Line()
		if !ok {
			return 0, "", false
		}
		if n >= 2 && strings.HasPrefix(text, "+") && strings.HasPrefix(prev[0].text, "@") {
			return prev[0].off, prev[0].text, true
		}
		prev[0], prev[1] = prev[1], line{off, text}
	}
}
