package fastq

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

var (
	// ErrShort is returned when a truncated FASTQ file is encountered.
	ErrShort = errors.New("short FASTQ file")
	// ErrInvalid is returned when an invalid FASTQ file is encountered.
	ErrInvalid = errors.New("invalid FASTQ file")
	// ErrDiscordant is returned when two underlying FASTQ files are discordant.
	ErrDiscordant = errors.New("discordant FASTQ pairs")
)

// A Read is a FASTQ read, comprising an ID, sequence, line 3
// ("unknown"), and a quality string.
type Read struct {
	ID, Seq, Unk, Qual string
}

// Name returns the ID line without the leading '@'.
func (r *Read) Name() string {
	return strings.TrimPrefix(r.ID, "@")
}

var errEOF = errors.New("eof")

const lineTrimCutset = " \t\r\n\v\f"

// Scanner provides a convenient interface for reading FASTQ read
// data. The Scan method returns the next read, returning a boolean
// indicating whether the read succeeded. Scanners are not
// threadsafe.
//
// Scanner performs some validation: it requires ID lines to begin
// with "@" and that line 3 begins with "+", but does not perform
// further validation (e.g., seq/qual being of equal length,
// containing only data in range, etc.) A blank line where an ID line
// is expected ends the stream.
//
// Scanner also tracks the byte offset of the next unread byte, so that
// callers splitting a FASTQ file into byte ranges can tell which range a
// record belongs to. Trailing whitespace is removed from every line.
type Scanner struct {
	b      *bufio.Reader
	off    int64
	err    error
	fields Field
}

// Field enumerates FASTQ fields. It is used to specify fields to read in
// NewScanner.
type Field uint

const (
	// ID causes the Read.ID field to be filled
	ID Field = 1 << iota
	// Seq causes the Read.Seq field to be filled
	Seq
	// Unk causes the Read.Unk field to be filled
	Unk
	// Qual causes the Read.Unk field to be filled
	Qual
	// All equals ID|Seq|Unk|Qual.
	All = ID | Seq | Unk | Qual
)

// NewScanner constructs a new Scanner that reads raw FASTQ data from the
// provided reader. Fields is a bitset of the fields to read. A typical value
// would be All or ID|Seq|Qual.
func NewScanner(r io.Reader, fields Field) *Scanner {
	return NewScannerAt(r, 0, fields)
}

// NewScannerAt is like NewScanner, but the first byte of r is at offset off
// of the enclosing stream.
func NewScannerAt(r io.Reader, off int64, fields Field) *Scanner {
	return &Scanner{b: bufio.NewReaderSize(r, 256<<10), off: off, fields: fields}
}

// Offset returns the offset of the next unread byte. Right before Scan, it
// is the offset of the record about to be read.
func (f *Scanner) Offset() int64 { return f.off }

// Scan the next read into the provided read. Scan returns a boolean
// indicating whether the scan succeeded. Once Scan returns false, it
// never returns true again. Upon completion, the user should check
// the Err method to determine whether scanning stopped because of an
// error or because the end of the stream was reached.
func (f *Scanner) Scan(read *Read) bool {
	id, ok := f.Line()
	if !ok {
		return false
	}
	if len(id) == 0 {
		f.err = errEOF
		return false
	}
	if id[0] != '@' {
		f.err = ErrInvalid
		return false
	}
	if f.fields&ID != 0 {
		read.ID = id
	}
	seq, ok := f.record()
	if !ok {
		return false
	}
	if f.fields&Seq != 0 {
		read.Seq = seq
	}
	unk, ok := f.record()
	if !ok {
		return false
	}
	if len(unk) == 0 || unk[0] != '+' {
		f.err = ErrInvalid
		return false
	}
	if f.fields&Unk != 0 {
		read.Unk = unk
	}
	qual, ok := f.record()
	if !ok {
		return false
	}
	if f.fields&Qual != 0 {
		read.Qual = qual
	}
	return true
}

// record reads a line in the middle of a record; running out of data there
// means the file is truncated.
func (f *Scanner) record() (string, bool) {
	line, ok := f.Line()
	if !ok && f.err == errEOF {
		f.err = ErrShort
	}
	return line, ok
}

// Line reads the next raw line, with trailing whitespace removed. It
// returns false at the end of the stream or on error.
func (f *Scanner) Line() (string, bool) {
	if f.err != nil {
		return "", false
	}
	line, err := f.b.ReadString('\n')
	f.off += int64(len(line))
	if err != nil {
		if err == io.EOF {
			err = errEOF
		}
		f.err = err
		if len(line) == 0 {
			return "", false
		}
	}
	return strings.TrimRight(line, lineTrimCutset), true
}

// Skip discards the next n bytes. It returns false if the stream ended
// or failed before n bytes were discarded.
func (f *Scanner) Skip(n int64) bool {
	const maxDiscard = 1 << 30
	for n > 0 && f.err == nil {
		chunk := n
		if chunk > maxDiscard {
			chunk = maxDiscard
		}
		m, err := f.b.Discard(int(chunk))
		f.off += int64(m)
		n -= int64(m)
		if err == io.EOF {
			f.err = errEOF
		} else if err != nil {
			f.err = err
		}
	}
	return n == 0
}

// Err returns the scanning error, if any.
func (f *Scanner) Err() error {
	if f.err == errEOF {
		return nil
	}
	return f.err
}

// PairScanner composes a pair of scanners to scan a pair of FASTQ
// streams.
type PairScanner struct {
	r1, r2 *Scanner
	err    error
}

// NewPairScanner creates a new FASTQ pair scanner from the provided
// R1 and R2 readers.
func NewPairScanner(r1, r2 io.Reader, fields Field) *PairScanner {
	return ComposePairScanner(NewScanner(r1, fields), NewScanner(r2, fields))
}

// ComposePairScanner creates a pair scanner from two existing scanners, e.g.,
// ones positioned in the middle of their files.
func ComposePairScanner(r1, r2 *Scanner) *PairScanner {
	return &PairScanner{r1: r1, r2: r2}
}

// Offsets returns the offsets of the next unread bytes in R1 and R2.
func (p *PairScanner) Offsets() (int64, int64) {
	return p.r1.Offset(), p.r2.Offset()
}

// Scan scans the next read pair into r1, r2. Scan returns a boolean
// indicating whether the scan succeeded. Once Scan returns false, it
// never returns true again. Upon completion, the user should check
// the Err method to determine whether scanning stopped because of an
// error or because the end of the stream was reached.
func (p *PairScanner) Scan(r1, r2 *Read) bool {
	if p.err != nil {
		return false
	}
	ok1 := p.r1.Scan(r1)
	ok2 := p.r2.Scan(r2)
	if ok1 != ok2 {
		p.err = ErrDiscordant
	}
	return ok1 && ok2
}

// Err returns the scanning error, if any. It should be checked
// after Scan returns false.
func (p *PairScanner) Err() error {
	if err := p.r1.Err(); err != nil {
		return err
	}
	if err := p.r2.Err(); err != nil {
		return err
	}
	return p.err
}
