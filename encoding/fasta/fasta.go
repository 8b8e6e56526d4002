// Package fasta reads and writes FASTA files. FASTA files consist of a number
// of description lines, each starting with '>', followed by sequences that
// may be interrupted by newlines. For example:
//
// >read1|o:15
// ACGTAC
// GAGGAC
// >read2|o:20
// ACGT
//
// Unlike reference-genome FASTA readers, Read keeps the whole description
// line: merged-read files store annotations there.
package fasta

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const (
	bufferInitSize = 1024 * 1024 * 300 // 300 MB
)

// Record is one FASTA record.
type Record struct {
	// Desc is the description line without the leading '>'.
	Desc string
	// Seq is the sequence, with line breaks removed.
	Seq string
}

// Name returns the part of the description before the first space or '|'.
func (r Record) Name() string {
	if i := strings.IndexAny(r.Desc, " |"); i >= 0 {
		return r.Desc[:i]
	}
	return r.Desc
}

// Read reads all the records from r into memory, in order.
func Read(r io.Reader) ([]Record, error) {
	var (
		recs    []Record
		cur     *Record
		seq     strings.Builder
		scanner = bufio.NewScanner(r)
	)
	scanner.Buffer(nil, bufferInitSize)
	flush := func() {
		if cur != nil {
			cur.Seq = seq.String()
			recs = append(recs, *cur)
			seq.Reset()
		}
	}
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' { // Start a new record.
			flush()
			cur = &Record{Desc: line[1:]}
			continue
		}
		if cur == nil {
			return nil, errors.Errorf("malformed FASTA file: sequence %q before the first description line", line)
		}
		seq.WriteString(line)
	}
	if scanner.Err() != nil {
		return nil, errors.Wrap(scanner.Err(), "couldn't read FASTA data")
	}
	flush()
	return recs, nil
}
