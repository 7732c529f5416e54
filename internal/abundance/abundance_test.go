package abundance_test

import (
	"bufio"
	"compress/gzip"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ggirelli/kman/internal/abundance"
	"github.com/ggirelli/kman/internal/kerrors"
)

func readVectorGz(t *testing.T, path string) (k int, vec []uint64) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	gr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	defer gr.Close()
	sc := bufio.NewScanner(gr)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			first = false
			if !strings.HasPrefix(line, "# k=") {
				t.Fatalf("expected k header, got %q", line)
			}
			k, _ = strconv.Atoi(strings.TrimPrefix(line, "# k="))
			continue
		}
		n, err := strconv.ParseUint(line, 10, 64)
		if err != nil {
			t.Fatalf("parse cell: %v", err)
		}
		vec = append(vec, n)
	}
	return k, vec
}

func testStoreVecCountScenario(t *testing.T, store abundance.Store) {
	t.Helper()
	// Group "AAA" headers: r1:0-3:+, r1:1-4:+, r2:0-3:+, r2:1-4:+ ; count=4.
	for _, ref := range []string{"r1", "r2"} {
		if err := store.AddCount(ref, '+', 0, 4, 3, false); err != nil {
			t.Fatalf("AddCount(%s,0): %v", ref, err)
		}
		if err := store.AddCount(ref, '+', 1, 4, 3, false); err != nil {
			t.Fatalf("AddCount(%s,1): %v", ref, err)
		}
	}

	dir := t.TempDir()
	if err := store.WriteTo(dir); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	for _, ref := range []string{"r1", "r2"} {
		k, vec := readVectorGz(t, filepath.Join(dir, ref+"___+.gz"))
		if k != 3 {
			t.Fatalf("expected k=3, got %d", k)
		}
		if len(vec) < 2 || vec[0] != 4 || vec[1] != 4 {
			t.Fatalf("unexpected vector for %s: %v", ref, vec)
		}
	}
}

func TestMemoryStoreVecCountScenario(t *testing.T) {
	testStoreVecCountScenario(t, abundance.NewMemoryStore())
}

func TestFileStoreVecCountScenario(t *testing.T) {
	testStoreVecCountScenario(t, abundance.NewFileStore(t.TempDir()))
}

func TestMemoryStoreConflictRequiresReplace(t *testing.T) {
	s := abundance.NewMemoryStore()
	if err := s.AddCount("r", '+', 0, 2, 3, false); err != nil {
		t.Fatalf("first AddCount: %v", err)
	}
	if err := s.AddCount("r", '+', 0, 5, 3, false); err != kerrors.ErrAbundanceConflict {
		t.Fatalf("expected ErrAbundanceConflict, got %v", err)
	}
	if err := s.AddCount("r", '+', 0, 5, 3, true); err != nil {
		t.Fatalf("replace=true should overwrite: %v", err)
	}
}

func TestMemoryStoreInconsistentK(t *testing.T) {
	s := abundance.NewMemoryStore()
	if err := s.AddCount("r", '+', 0, 1, 3, false); err != nil {
		t.Fatalf("AddCount: %v", err)
	}
	if err := s.AddCount("r", '+', 1, 1, 4, false); err != kerrors.ErrInconsistentK {
		t.Fatalf("expected ErrInconsistentK, got %v", err)
	}
}
