// Package fasta implements the FASTA reader (C1): an eager parser built on
// the teacher's own github.com/shenwei356/bio/seqio/fastx stack, and a
// bounded-handle parser (hand-rolled, grounded on kman/io.py's
// SmartFastaParser) that keeps at most one file descriptor open at a time
// across thousands of batch files during a merge.
package fasta

// Record is a single (header, sequence) pair. Header is everything after
// the leading '>' up to the newline; Seq is the concatenation of the
// following lines with embedded spaces and carriage returns stripped.
type Record struct {
	Header string
	Seq    string
}

// Reader is the common contract both FASTA reader variants satisfy. Next
// returns io.EOF (from the standard library "io" package) once the stream is
// exhausted.
type Reader interface {
	Next() (Record, error)
	Close() error
}
