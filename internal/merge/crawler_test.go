package merge_test

import (
	"io"
	"testing"

	"github.com/ggirelli/kman/internal/batch"
	"github.com/ggirelli/kman/internal/kmer"
	"github.com/ggirelli/kman/internal/merge"
	"github.com/ggirelli/kman/internal/natype"
)

func mkBatch(t *testing.T, tmp string, k int, records ...kmer.KMer) *batch.Batch {
	t.Helper()
	b := batch.NewBatch(kmer.Codec{NAType: natype.DNA}, len(records)+1, tmp)
	for _, r := range records {
		if err := b.Add(r); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if err := b.Write(true, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	return b
}

func km(ref string, start, end uint64, seq string) kmer.KMer {
	return kmer.KMer{Ref: ref, Start: start, End: end, Strand: kmer.Plus, Seq: seq, NAType: natype.DNA}
}

func TestCrawlerMergesAcrossBatches(t *testing.T) {
	tmp := t.TempDir()
	b1 := mkBatch(t, tmp, 3, km("r1", 0, 3, "AAA"), km("r1", 1, 4, "AAA"))
	b2 := mkBatch(t, tmp, 3, km("r2", 0, 3, "AAA"), km("r2", 1, 4, "AAA"))

	cr := merge.NewCrawler([]*batch.Batch{b1, b2}, false, false)
	next, err := cr.Crawl()
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}

	g, err := next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if g.Seq != "AAA" {
		t.Fatalf("expected group seq AAA, got %q", g.Seq)
	}
	if len(g.Headers) != 4 {
		t.Fatalf("expected 4 headers in merged group, got %d: %v", len(g.Headers), g.Headers)
	}

	if _, err := next(); err != io.EOF {
		t.Fatalf("expected io.EOF after single group, got %v", err)
	}
}

func TestCrawlerOrdersBySequence(t *testing.T) {
	tmp := t.TempDir()
	b1 := mkBatch(t, tmp, 3, km("r", 0, 3, "GAC"))
	b2 := mkBatch(t, tmp, 3, km("r", 1, 4, "ACG"))

	cr := merge.NewCrawler([]*batch.Batch{b1, b2}, false, false)
	next, err := cr.Crawl()
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}

	var seqs []string
	for {
		g, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		seqs = append(seqs, g.Seq)
	}
	if len(seqs) != 2 || seqs[0] != "ACG" || seqs[1] != "GAC" {
		t.Fatalf("expected ascending [ACG GAC], got %v", seqs)
	}
}
