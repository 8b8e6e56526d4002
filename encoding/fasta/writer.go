package fasta

import "io"

var (
	defline = []byte{'>'}
	newline = []byte{'\n'}
)

// Writer writes FASTA records with the whole sequence on a single line. The
// first write error is sticky: once a write fails, later writes are no-ops
// that return the same error.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter constructs a new FASTA writer that writes records to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes a record with the given description line (without the
// leading '>') and sequence.
func (w *Writer) Write(desc, seq string) error {
	w.write(defline)
	w.writeln(desc)
	w.writeln(seq)
	return w.err
}

func (w *Writer) write(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

func (w *Writer) writeln(line string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, line)
	w.write(newline)
}
