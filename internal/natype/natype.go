// Package natype names the nucleic-acid alphabet tables and reverse-complement
// primitive that the original specification left as "assumed available"
// external collaborators.
package natype

import "strings"

// NAType is the nucleic-acid alphabet a KMer or Batcher is configured for.
type NAType int

const (
	// DNA selects the {A,C,G,T} alphabet.
	DNA NAType = iota
	// RNA selects the {A,C,G,U} alphabet.
	RNA
)

func (t NAType) String() string {
	if t == RNA {
		return "RNA"
	}
	return "DNA"
}

// Parse maps "DNA"/"RNA" (case-insensitive) to a NAType.
func Parse(s string) (NAType, bool) {
	switch strings.ToUpper(s) {
	case "DNA":
		return DNA, true
	case "RNA":
		return RNA, true
	default:
		return 0, false
	}
}

// Alphabet is the set of single-character bases valid in the given alphabet,
// upper-case only (sequences are upper-cased before checking, per C2).
const (
	AlphabetDNA = "ACGT"
	AlphabetRNA = "ACGU"
)

func alphabet(t NAType) string {
	if t == RNA {
		return AlphabetRNA
	}
	return AlphabetDNA
}

// IsInAlphabet reports whether every character of s (assumed already
// upper-cased) belongs to t's alphabet.
func IsInAlphabet(t NAType, s string) bool {
	ab := alphabet(t)
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(ab, s[i]) < 0 {
			return false
		}
	}
	return true
}

var dnaComplement = [256]byte{}
var rnaComplement = [256]byte{}

func init() {
	for i := range dnaComplement {
		dnaComplement[i] = byte(i)
		rnaComplement[i] = byte(i)
	}
	pairsDNA := map[byte]byte{'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C'}
	for k, v := range pairsDNA {
		dnaComplement[k] = v
	}
	pairsRNA := map[byte]byte{'A': 'U', 'U': 'A', 'C': 'G', 'G': 'C'}
	for k, v := range pairsRNA {
		rnaComplement[k] = v
	}
}

// ReverseComplement returns the reverse complement of s (assumed already
// upper-cased) under t's alphabet.
//
// This is a direct byte-level translate-and-reverse rather than a wrapper
// around github.com/shenwei356/bio/seq.Seq: C2 calls ReverseComplement once
// per k-mer (i.e. once per position of every sequence scanned), and
// constructing a bio/seq.Seq value per call only to immediately discard it
// would put an allocation and a validation pass on that hot path for no
// benefit — the complement table itself is the same four/four-pair IUPAC
// mapping bio/seq ships, grounded on kman/seq.py's own `rc()` translate
// table. The eager FASTA reader (C1) reads records through bio/seq's own
// seqio/fastx.Record.Seq type (see internal/fasta); no whole record is
// reverse-complemented anywhere.
func ReverseComplement(t NAType, s string) string {
	table := &dnaComplement
	if t == RNA {
		table = &rnaComplement
	}
	out := make([]byte, len(s))
	n := len(s)
	for i := 0; i < n; i++ {
		out[n-1-i] = table[s[i]]
	}
	return string(out)
}
