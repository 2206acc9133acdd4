package fastq

import "io"

var newline = []byte{'\n'}

// Writer is a FASTQ file writer. Writers are not threadsafe.
type Writer struct {
	w   io.Writer
	n   int
	err error
}

// NewWriter constructs a new FASTQ writer
// that writes reads to the underlying writer w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes the read r in FASTQ format.
// An error is returned if the write failed. Once a write fails, all
// subsequent writes return the same error.
func (w *Writer) Write(r *Read) error {
	w.writeln(r.ID)
	w.writeln(r.Seq)
	w.writeln(r.Unk)
	w.writeln(r.Qual)
	if w.err == nil {
		w.n++
	}
	return w.err
}

// N returns the number of reads written successfully.
func (w *Writer) N() int { return w.n }

func (w *Writer) writeln(line string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, line)
	if w.err == nil {
		_, w.err = w.w.Write(newline)
	}
}
