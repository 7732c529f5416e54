package batch_test

import (
	"io"
	"os"
	"testing"

	"github.com/ggirelli/kman/internal/batch"
	"github.com/ggirelli/kman/internal/kmer"
	"github.com/ggirelli/kman/internal/natype"
)

func drain(t *testing.T, b *batch.Batch, smart bool) []batch.Record {
	t.Helper()
	gen, err := b.RecordGen(smart)
	if err != nil {
		t.Fatalf("RecordGen: %v", err)
	}
	var out []batch.Record
	for {
		r, err := gen()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out = append(out, r)
	}
	return out
}

func mkKmers() []batch.Record {
	return []batch.Record{
		kmer.KMer{Ref: "r", Start: 2, End: 5, Strand: kmer.Plus, Seq: "GAC", NAType: natype.DNA},
		kmer.KMer{Ref: "r", Start: 0, End: 3, Strand: kmer.Plus, Seq: "ACG", NAType: natype.DNA},
		kmer.KMer{Ref: "r", Start: 1, End: 4, Strand: kmer.Plus, Seq: "CGA", NAType: natype.DNA},
	}
}

func TestBatchAddRespectsCapacityAndImmutability(t *testing.T) {
	b := batch.NewBatch(kmer.Codec{NAType: natype.DNA}, 2, t.TempDir())
	recs := mkKmers()
	if err := b.Add(recs[0]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.Add(recs[1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.Add(recs[2]); err == nil {
		t.Fatal("expected BatchFull error")
	}
	if err := b.Write(false, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := b.Add(recs[2]); err == nil {
		t.Fatal("expected WrittenBatchImmutable error")
	}
}

func TestBatchWriteUnsortedRoundTrip(t *testing.T) {
	b := batch.NewBatch(kmer.Codec{NAType: natype.DNA}, 10, t.TempDir())
	recs := mkKmers()
	if err := b.AddAll(recs); err != nil {
		t.Fatalf("AddAll: %v", err)
	}
	if err := b.Write(false, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := drain(t, b, false)
	if len(got) != len(recs) {
		t.Fatalf("expected %d records, got %d", len(recs), len(got))
	}
	for i := range recs {
		if got[i].SortKey() != recs[i].SortKey() {
			t.Fatalf("unsorted round trip reordered records: got %v want %v", got[i], recs[i])
		}
	}
}

func TestBatchWriteSortedRoundTrip(t *testing.T) {
	for _, smart := range []bool{false, true} {
		b := batch.NewBatch(kmer.Codec{NAType: natype.DNA}, 10, t.TempDir())
		recs := mkKmers()
		if err := b.AddAll(recs); err != nil {
			t.Fatalf("AddAll: %v", err)
		}
		if err := b.Write(true, false); err != nil {
			t.Fatalf("write: %v", err)
		}
		got := drain(t, b, smart)
		want := []string{"ACG", "CGA", "GAC"}
		if len(got) != len(want) {
			t.Fatalf("expected %d records, got %d", len(want), len(got))
		}
		for i, w := range want {
			if got[i].SortKey() != w {
				t.Fatalf("smart=%v: sorted round trip mismatch at %d: got %q want %q", smart, i, got[i].SortKey(), w)
			}
		}
	}
}

func TestBatchResetDeletesFile(t *testing.T) {
	b := batch.NewBatch(kmer.Codec{NAType: natype.DNA}, 10, t.TempDir())
	if err := b.AddAll(mkKmers()); err != nil {
		t.Fatalf("AddAll: %v", err)
	}
	if err := b.Write(true, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	path := b.TempPath()
	if err := b.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if b.Written() {
		t.Fatal("expected Written() to be false after reset")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to no longer exist, stat err=%v", err)
	}
}

func TestAppendableBatchWriteSorted(t *testing.T) {
	ab, err := batch.NewAppendableBatch(kmer.Codec{NAType: natype.DNA}, 10, t.TempDir())
	if err != nil {
		t.Fatalf("NewAppendableBatch: %v", err)
	}
	for _, r := range mkKmers() {
		if err := ab.Add(r); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if err := ab.Write(true); err != nil {
		t.Fatalf("write: %v", err)
	}
	b := ab.ToBatch()
	got := drain(t, b, false)
	want := []string{"ACG", "CGA", "GAC"}
	if len(got) != len(want) {
		t.Fatalf("expected %d, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].SortKey() != w {
			t.Fatalf("mismatch at %d: got %q want %q", i, got[i].SortKey(), w)
		}
	}
}
