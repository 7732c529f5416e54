// Package kmer implements the K-mer producer (C2) and coordinate codec (C9):
// it turns a (sequence, k, strand) scan into a stream of KMer records, and
// parses/emits the "ref:start-end:strand" header string those records and
// their downstream output files carry.
package kmer

import "github.com/ggirelli/kman/internal/natype"

// Strand is the strand label carried by a KMer's coordinate.
type Strand byte

const (
	// Plus is the forward strand, serialized as '+'.
	Plus Strand = '+'
	// Minus is the reverse strand, serialized as '-'.
	Minus Strand = '-'
)

func (s Strand) String() string { return string(rune(s)) }

// Opposite returns the other strand.
func (s Strand) Opposite() Strand {
	if s == Plus {
		return Minus
	}
	return Plus
}

// KMer is the immutable record described in SPEC_FULL.md §3: a fixed-length
// substring of a reference sequence at a given half-open coordinate.
type KMer struct {
	Ref    string
	Start  uint64
	End    uint64
	Strand Strand
	Seq    string
	NAType natype.NAType
}

// Header renders the KMer's coordinate as "ref:start-end:strand".
func (k KMer) Header() string {
	return Coord{Ref: k.Ref, Start: k.Start, End: k.End, Strand: k.Strand}.String()
}

// AsFasta renders the KMer as a two-line FASTA record (no trailing blank
// line); callers append "\n" when writing to a stream.
func (k KMer) AsFasta() string {
	return ">" + k.Header() + "\n" + k.Seq
}

// SortKey is the attribute Batch sorts KMer records by: the sequence itself.
func (k KMer) SortKey() string { return k.Seq }

// HeaderList satisfies merge.HeaderedRecord: a KMer contributes its own
// single coordinate header to a merge group.
func (k KMer) HeaderList() []string { return []string{k.Header()} }

// IsAlphabetChecked reports whether every character of the KMer's sequence
// belongs to its NAType's alphabet. Sequences are expected to already be
// upper-cased by the caller (the producer upper-cases before slicing).
func (k KMer) IsAlphabetChecked() bool {
	return natype.IsInAlphabet(k.NAType, k.Seq)
}
