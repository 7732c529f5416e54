package kmer

import (
	"strings"

	"github.com/ggirelli/kman/internal/batch"
	"github.com/ggirelli/kman/internal/kerrors"
	"github.com/ggirelli/kman/internal/natype"
)

// Codec is the batch.Codec for KMer records: the typed variant C3/C9
// replace dynamic attribute dispatch with. Encode/Decode round-trip a KMer
// through its two-line FASTA form (">ref:start-end:strand\nseq").
type Codec struct {
	NAType natype.NAType
}

var _ batch.Codec = Codec{}

// Suffix is ".fa", per SPEC_FULL.md §6.5's naming of FASTA batches.
func (Codec) Suffix() string { return ".fa" }

// FastaFormat is always true for KMer batches.
func (Codec) FastaFormat() bool { return true }

// LinesPerRecord is 2 (header, sequence).
func (Codec) LinesPerRecord() int { return 2 }

// Encode renders a KMer as its two FASTA lines.
func (c Codec) Encode(r batch.Record) []string {
	k := r.(KMer)
	return []string{">" + k.Header(), k.Seq}
}

// Decode parses a KMer back from its two FASTA lines.
func (c Codec) Decode(lines []string) (batch.Record, error) {
	if len(lines) != 2 {
		return nil, kerrors.ErrMalformedFasta
	}
	header := strings.TrimPrefix(lines[0], ">")
	coord, err := ParseCoord(header)
	if err != nil {
		return nil, err
	}
	return KMer{
		Ref:    coord.Ref,
		Start:  coord.Start,
		End:    coord.End,
		Strand: coord.Strand,
		Seq:    lines[1],
		NAType: c.NAType,
	}, nil
}
