// Package merge implements the merge crawler (C5), joiner (C6), and the
// intermediate SequenceCount batcher (C7): together they turn a list of
// sorted k-mer Batches into one of the joiner's four reduced outputs.
package merge

import (
	"strings"

	"github.com/ggirelli/kman/internal/batch"
	"github.com/ggirelli/kman/internal/kerrors"
	"github.com/ggirelli/kman/internal/natype"
)

// SequenceCount pairs one sequence with the ordered list of headers whose
// k-mer equalled it, grounded on kman/join.py's intermediate record used by
// the parallel joiner's first pass. Text form: "seq\th1 h2 …".
type SequenceCount struct {
	Seq     string
	Headers []string
	NAType  natype.NAType
}

// SortKey sorts SequenceCount records lexicographically on Seq.
func (s SequenceCount) SortKey() string { return s.Seq }

// HeaderList satisfies merge.HeaderedRecord: a SequenceCount already carries
// an aggregated header list from a prior crawl pass (C7).
func (s SequenceCount) HeaderList() []string { return s.Headers }

// SeqCountCodec is the batch.Codec for SequenceCount: a one-line-per-record
// text format (not FASTA), matching C7's ".txt suffix, non-FASTA serializer".
type SeqCountCodec struct {
	NAType natype.NAType
}

var _ batch.Codec = SeqCountCodec{}

// Suffix is ".txt", per C7.
func (SeqCountCodec) Suffix() string { return ".txt" }

// FastaFormat is always false: SequenceCount batches are plain text.
func (SeqCountCodec) FastaFormat() bool { return false }

// LinesPerRecord is 1.
func (SeqCountCodec) LinesPerRecord() int { return 1 }

// Encode renders a SequenceCount as "seq\th1 h2 …".
func (c SeqCountCodec) Encode(r batch.Record) []string {
	sc := r.(SequenceCount)
	return []string{sc.Seq + "\t" + strings.Join(sc.Headers, " ")}
}

// Decode parses a SequenceCount back from its one line.
func (c SeqCountCodec) Decode(lines []string) (batch.Record, error) {
	if len(lines) != 1 {
		return nil, kerrors.ErrMalformedFasta
	}
	parts := strings.SplitN(lines[0], "\t", 2)
	if len(parts) != 2 {
		return nil, kerrors.ErrMalformedHeader
	}
	headers := strings.Fields(parts[1])
	if len(headers) == 0 {
		return nil, kerrors.ErrMalformedHeader
	}
	return SequenceCount{Seq: parts[0], Headers: headers, NAType: c.NAType}, nil
}
