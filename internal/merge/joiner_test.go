package merge_test

import (
	"bufio"
	"compress/gzip"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/ggirelli/kman/internal/batch"
	"github.com/ggirelli/kman/internal/kmer"
	"github.com/ggirelli/kman/internal/merge"
	"github.com/ggirelli/kman/internal/natype"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %q: %v", path, err)
	}
	s := strings.TrimRight(string(data), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestJoinUniqueScenario1(t *testing.T) {
	// Input >r1\nACGACG\n, k=3: ACG, CGA, GAC, ACG. Unique: CGA, GAC.
	tmp := t.TempDir()
	b := mkBatch(t, tmp, 3,
		km("r1", 0, 3, "ACG"),
		km("r1", 1, 4, "CGA"),
		km("r1", 2, 5, "GAC"),
		km("r1", 3, 6, "ACG"),
	)

	out := filepath.Join(tmp, "out.fa")
	err := merge.Join([]*batch.Batch{b}, merge.JoinerConfig{
		Mode:   merge.UNIQUE,
		K:      3,
		NAType: natype.DNA,
		Output: out,
		TmpDir: tmp,
	})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}

	lines := readLines(t, out)
	want := []string{">r1:1-4:+", "CGA", ">r1:2-5:+", "GAC"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %v", len(want), len(lines), lines)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Fatalf("line %d: got %q want %q", i, lines[i], w)
		}
	}
}

func TestJoinSeqCountScenario2(t *testing.T) {
	tmp := t.TempDir()
	b := mkBatch(t, tmp, 2,
		km("a", 0, 2, "AC"),
		km("a", 1, 3, "CA"),
		km("a", 2, 4, "AC"),
		km("b", 0, 2, "CA"),
		km("b", 1, 3, "AC"),
		km("b", 2, 4, "CA"),
	)

	out := filepath.Join(tmp, "out.tsv")
	err := merge.Join([]*batch.Batch{b}, merge.JoinerConfig{
		Mode:   merge.SEQ_COUNT,
		K:      2,
		NAType: natype.DNA,
		Output: out,
		TmpDir: tmp,
	})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}

	got := map[string]string{}
	for _, line := range readLines(t, out) {
		parts := strings.SplitN(line, "\t", 2)
		got[parts[0]] = parts[1]
	}
	if got["AC"] != "3" || got["CA"] != "3" {
		t.Fatalf("unexpected counts: %v", got)
	}
}

func readVectorGzLocal(t *testing.T, path string) []uint64 {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	gr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip: %v", err)
	}
	defer gr.Close()
	sc := bufio.NewScanner(gr)
	var vec []uint64
	first := true
	for sc.Scan() {
		if first {
			first = false
			continue
		}
		n, err := strconv.ParseUint(sc.Text(), 10, 64)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		vec = append(vec, n)
	}
	return vec
}

func TestJoinVecCountScenario3(t *testing.T) {
	tmp := t.TempDir()
	b := mkBatch(t, tmp, 3,
		km("r1", 0, 3, "AAA"),
		km("r1", 1, 4, "AAA"),
		km("r2", 0, 3, "AAA"),
		km("r2", 1, 4, "AAA"),
	)

	outDir := filepath.Join(tmp, "vec")
	err := merge.Join([]*batch.Batch{b}, merge.JoinerConfig{
		Mode:   merge.VEC_COUNT,
		K:      3,
		NAType: natype.DNA,
		Output: outDir,
		TmpDir: tmp,
	})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}

	for _, ref := range []string{"r1", "r2"} {
		vec := readVectorGzLocal(t, filepath.Join(outDir, ref+"___+.gz"))
		if len(vec) < 2 || vec[0] != 4 || vec[1] != 4 {
			t.Fatalf("%s: expected [4 4 ...], got %v", ref, vec)
		}
	}
}

func TestJoinVecCountMaskedScenario4(t *testing.T) {
	tmp := t.TempDir()
	b := mkBatch(t, tmp, 3,
		km("r1", 0, 3, "AAA"),
		km("r1", 1, 4, "AAA"),
		km("r2", 0, 3, "AAA"),
		km("r2", 1, 4, "AAA"),
	)

	outDir := filepath.Join(tmp, "vec")
	err := merge.Join([]*batch.Batch{b}, merge.JoinerConfig{
		Mode:   merge.VEC_COUNT_MASKED,
		K:      3,
		NAType: natype.DNA,
		Output: outDir,
		TmpDir: tmp,
	})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}

	for _, ref := range []string{"r1", "r2"} {
		vec := readVectorGzLocal(t, filepath.Join(outDir, ref+"___+.gz"))
		if len(vec) < 2 || vec[0] != 2 || vec[1] != 2 {
			t.Fatalf("%s: expected [2 2 ...], got %v", ref, vec)
		}
	}
}

func TestJoinParallelPrePassMatchesSerial(t *testing.T) {
	tmp := t.TempDir()
	var batches []*batch.Batch
	for i := 0; i < 5; i++ {
		batches = append(batches, mkBatch(t, tmp, 2,
			km("r", uint64(i*2), uint64(i*2+2), "AC"),
			km("r", uint64(i*2+1), uint64(i*2+3), "CA"),
		))
	}

	outSerial := filepath.Join(tmp, "serial.tsv")
	if err := merge.Join(batches, merge.JoinerConfig{
		Mode: merge.SEQ_COUNT, K: 2, NAType: natype.DNA, Output: outSerial, TmpDir: tmp, Threads: 1,
	}); err != nil {
		t.Fatalf("serial join: %v", err)
	}

	outParallel := filepath.Join(tmp, "parallel.tsv")
	if err := merge.Join(batches, merge.JoinerConfig{
		Mode: merge.SEQ_COUNT, K: 2, NAType: natype.DNA, Output: outParallel, TmpDir: tmp,
		Threads: 4, BatchSize: 2,
	}); err != nil {
		t.Fatalf("parallel join: %v", err)
	}

	serialLines := readLines(t, outSerial)
	parallelLines := readLines(t, outParallel)
	sort.Strings(serialLines)
	sort.Strings(parallelLines)
	if len(serialLines) != len(parallelLines) {
		t.Fatalf("line count mismatch: serial=%d parallel=%d", len(serialLines), len(parallelLines))
	}
	for i := range serialLines {
		if serialLines[i] != parallelLines[i] {
			t.Fatalf("mismatch at %d: serial=%q parallel=%q", i, serialLines[i], parallelLines[i])
		}
	}
}
