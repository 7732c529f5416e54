// Package batch implements the Batch and AppendableBatch components (C3):
// a bounded, typed, sortable record buffer backed by a temp file once full.
package batch

// Record is the minimal contract a Batch's payload type must satisfy: a
// sort key used to order the batch's on-disk artifact by sequence.
// Concrete record types (kmer.KMer, merge.SequenceCount) live in their own
// packages and are handed to a Batch through a Codec, so this package never
// imports them and stays free of cycles.
type Record interface {
	SortKey() string
}

// Codec is the "typed variant keyed on record trait" SPEC_FULL.md §9 asks
// for in place of dynamic dispatch by attribute name: one Codec per concrete
// record type, implementing exactly the serialize/deserialize/sort-key
// operations a Batch needs without reflection.
type Codec interface {
	// Suffix is the file suffix used for this record type's temp files
	// (".fa" for FASTA-format batches, ".txt" for text batches).
	Suffix() string

	// FastaFormat reports whether this codec's on-disk form is two lines
	// per record (">header\nseq\n") rather than one.
	FastaFormat() bool

	// LinesPerRecord is the number of lines Encode/Decode exchange per
	// record (2 for FASTA, 1 for text).
	LinesPerRecord() int

	// Encode renders one record as LinesPerRecord() lines, each without a
	// trailing newline; the caller joins them with "\n" and terminates
	// the record with a final "\n".
	Encode(r Record) []string

	// Decode parses LinesPerRecord() lines (already stripped of trailing
	// newlines) back into a Record.
	Decode(lines []string) (Record, error)
}
