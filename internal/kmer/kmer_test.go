package kmer

import (
	"reflect"
	"testing"

	"github.com/ggirelli/kman/internal/natype"
)

func seqs(kmers []KMer) []string {
	out := make([]string, len(kmers))
	for i, k := range kmers {
		out[i] = k.Seq
	}
	return out
}

func TestProduceForward(t *testing.T) {
	kmers := Produce("r1", "ACGACG", 3, natype.DNA, 0, Plus, false, nil)
	got := seqs(kmers)
	want := []string{"ACG", "CGA", "GAC", "ACG"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if kmers[1].Header() != "r1:1-4:+" {
		t.Fatalf("unexpected header %q", kmers[1].Header())
	}
}

func TestProduceReverseComplement(t *testing.T) {
	kmers := Produce("r", "AT", 2, natype.DNA, 0, Plus, true, nil)
	if len(kmers) != 2 {
		t.Fatalf("expected 2 kmers (fwd+rc), got %d", len(kmers))
	}
	if kmers[0].Seq != "AT" || kmers[0].Strand != Plus {
		t.Fatalf("unexpected forward kmer: %+v", kmers[0])
	}
	if kmers[1].Seq != "AT" || kmers[1].Strand != Minus {
		t.Fatalf("unexpected rc kmer: %+v", kmers[1])
	}
	if kmers[0].Start != kmers[1].Start || kmers[0].End != kmers[1].End {
		t.Fatalf("rc kmer must share forward coordinates")
	}
}

func TestProduceAlphabetSkip(t *testing.T) {
	kmers := Produce("r", "ACNT", 2, natype.DNA, 0, Plus, false, nil)
	got := seqs(kmers)
	want := []string{"AC"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestProduceBoundary(t *testing.T) {
	if kmers := Produce("r", "ACG", 3, natype.DNA, 0, Plus, false, nil); len(kmers) != 1 {
		t.Fatalf("k==len(seq) should yield exactly one kmer, got %d", len(kmers))
	}
	if kmers := Produce("r", "AC", 3, natype.DNA, 0, Plus, false, nil); len(kmers) != 0 {
		t.Fatalf("k>len(seq) should yield no kmers, got %d", len(kmers))
	}
}

func TestBatcherShardsCoverWithOverlap(t *testing.T) {
	seq := "ACGTACGTACGT"
	k := 4
	shards := Batcher(seq, k, 5)
	if len(shards) == 0 {
		t.Fatal("expected at least one shard")
	}
	// every position's k-mer must appear in at least one shard
	for i := 0; i+k <= len(seq); i++ {
		found := false
		want := seq[i : i+k]
		for _, sh := range shards {
			if int(sh.Offset) > i {
				continue
			}
			rel := i - int(sh.Offset)
			if rel+k <= len(sh.Seq) && sh.Seq[rel:rel+k] == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("position %d (%q) not covered by any shard: %+v", i, want, shards)
		}
	}
}

func TestCoordRoundTrip(t *testing.T) {
	c := Coord{Ref: "chr1", Start: 10, End: 13, Strand: Plus}
	parsed, err := ParseCoord(c.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != c {
		t.Fatalf("round trip mismatch: got %+v, want %+v", parsed, c)
	}
}

func TestCoordParseMalformed(t *testing.T) {
	if _, err := ParseCoord("not-a-header"); err == nil {
		t.Fatal("expected malformed header error")
	}
}
