package fastq

import "io"

var newline = []byte{'\n'}

// Writer is a FASTQ file writer.
type Writer struct {
	w   io.Writer
	off int64
	err error
}

// NewWriter constructs a new FASTQ writer
// that writes reads to the underlying writer w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes the read r in FASTQ format. An empty Unk is written as "+".
// An error is returned if the write failed.
func (w *Writer) Write(r *Read) error {
	w.writeln(r.ID)
	w.writeln(r.Seq)
	if r.Unk == "" {
		w.writeln("+")
	} else {
		w.writeln(r.Unk)
	}
	w.writeln(r.Qual)
	return w.err
}

// Offset returns the number of bytes written so far, i.e., the offset of the
// next record.
func (w *Writer) Offset() int64 { return w.off }

func (w *Writer) writeln(line string) {
	if w.err != nil {
		return
	}
	var n int
	n, w.err = io.WriteString(w.w, line)
	w.off += int64(n)
	if w.err == nil {
		n, w.err = w.w.Write(newline)
		w.off += int64(n)
	}
}
