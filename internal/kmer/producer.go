package kmer

import (
	"strings"

	"github.com/ggirelli/kman/internal/logx"
	"github.com/ggirelli/kman/internal/natype"
)

// Produce emits every k-mer of seq (already upper-cased by the caller is not
// required; Produce upper-cases internally) at positions
// i in [0, len(seq)-k], grounded on kman/seq.py's kmerator(). Each k-mer's
// Start is offset+i and End is Start+k.
//
// When includeRC is true, the reverse complement of each k-mer is also
// produced, sharing the forward k-mer's (start, end) and labeled with the
// opposite strand (see SPEC_FULL.md §9's decision on reverse-complement
// coordinate labeling).
//
// Out-of-alphabet k-mers are skipped and logged at warning level rather than
// returned; log may be logx.Discard.
func Produce(ref string, seq string, k int, t natype.NAType, offset uint64, strand Strand, includeRC bool, log logx.Logger) []KMer {
	if log == nil {
		log = logx.Discard
	}
	seq = strings.ToUpper(seq)
	n := len(seq)
	if k <= 0 || k > n {
		return nil
	}

	out := make([]KMer, 0, n-k+1)
	for i := 0; i+k <= n; i++ {
		sub := seq[i : i+k]
		start := offset + uint64(i)
		end := start + uint64(k)

		fwd := KMer{Ref: ref, Start: start, End: end, Strand: strand, Seq: sub, NAType: t}
		if fwd.IsAlphabetChecked() {
			out = append(out, fwd)
		} else {
			log.Warningf("skipping out-of-alphabet k-mer %q at %s", sub, fwd.Header())
		}

		if includeRC {
			rc := natype.ReverseComplement(t, sub)
			rev := KMer{Ref: ref, Start: start, End: end, Strand: strand.Opposite(), Seq: rc, NAType: t}
			if rev.IsAlphabetChecked() {
				out = append(out, rev)
			} else {
				log.Warningf("skipping out-of-alphabet k-mer %q at %s", rc, rev.Header())
			}
		}
	}
	return out
}

// Shard is one overlapping sub-sequence produced by Batcher, carrying the
// absolute offset of its first position within the original sequence.
type Shard struct {
	Seq    string
	Offset uint64
}

// Batcher splits seq into shards of at most batchSize bases suitable for
// independent parallel k-mer production (C2's "batcher helper"). Successive
// shards overlap by k-1 bases so that no k-mer spanning a shard boundary is
// missed or double-counted once each shard is scanned independently:
// shard i covers seq[i*stride : i*stride+batchSize], where stride =
// batchSize-(k-1), and the last shard is truncated to len(seq).
//
// Grounded on kman/seq.py's Sequence.batcher().
func Batcher(seq string, k int, batchSize int) []Shard {
	n := len(seq)
	if n == 0 || k <= 0 {
		return nil
	}
	overlap := k - 1
	if batchSize <= overlap {
		batchSize = overlap + 1
	}
	stride := batchSize - overlap
	if stride <= 0 {
		stride = 1
	}

	var shards []Shard
	for start := 0; start < n; start += stride {
		end := start + batchSize
		if end > n {
			end = n
		}
		shards = append(shards, Shard{Seq: seq[start:end], Offset: uint64(start)})
		if end == n {
			break
		}
	}
	return shards
}
