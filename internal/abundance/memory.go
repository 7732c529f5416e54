package abundance

import (
	"sync"

	"github.com/ggirelli/kman/internal/kerrors"
)

// MemoryStore holds every (ref, strand) vector entirely in memory; bounded
// by the sum of per-ref lengths (SPEC_FULL.md §5's memory accounting).
// Selected by --memory-mode NORMAL.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]uint64
	kSet bool
	k    int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]uint64)}
}

// CheckLength asserts a single k across the Store's lifetime.
func (s *MemoryStore) CheckLength(k int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return checkLength(&s.kSet, &s.k, k)
}

// AddRef zero-extends the (ref, strand) vector to at least size.
func (s *MemoryStore) AddRef(ref string, strand byte, size int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.growLocked(ref, strand, size)
	return nil
}

func (s *MemoryStore) growLocked(ref string, strand byte, size int) []uint64 {
	key := vectorKey(ref, strand)
	vec := s.data[key]
	if len(vec) < size {
		grown := make([]uint64, size)
		copy(grown, vec)
		vec = grown
		s.data[key] = vec
	}
	return vec
}

// AddCount writes count at (ref, strand, pos), growing the vector first.
func (s *MemoryStore) AddCount(ref string, strand byte, pos int, count uint64, k int, replace bool) error {
	if err := s.CheckLength(k); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	vec := s.growLocked(ref, strand, pos+1)
	if !replace && vec[pos] != 0 {
		return kerrors.ErrAbundanceConflict
	}
	vec[pos] = count
	return nil
}

// WriteTo gzip-serializes every held vector under dir.
func (s *MemoryStore) WriteTo(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, vec := range s.data {
		ref, strand := splitVectorKey(key)
		if err := writeVectorGz(dir, ref, strand, s.k, vec); err != nil {
			return err
		}
	}
	return nil
}
