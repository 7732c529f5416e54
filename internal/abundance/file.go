package abundance

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ggirelli/kman/internal/kerrors"
)

// FileStore backs every (ref, strand) vector by its own temp file instead of
// an in-memory slice, trading a held file descriptor per reference for
// O(1)-per-cell memory instead of O(total reference length). Cells are
// fixed-width 8-byte little-endian integers at offset pos*8. Selected by
// --memory-mode LOCAL; temp files are named with github.com/google/uuid, the
// same scheme the pack uses for scratch-file naming.
//
// Grounded on kman/abundance.py's AbundanceVectorLocal.
type FileStore struct {
	mu    sync.Mutex
	dir   string
	files map[string]*os.File
	lens  map[string]int
	kSet  bool
	k     int
}

var _ Store = (*FileStore)(nil)

const cellWidth = 8

// NewFileStore returns a Store whose vectors are backed by temp files under
// tmpDir.
func NewFileStore(tmpDir string) *FileStore {
	return &FileStore{
		dir:   tmpDir,
		files: make(map[string]*os.File),
		lens:  make(map[string]int),
	}
}

// CheckLength asserts a single k across the Store's lifetime.
func (s *FileStore) CheckLength(k int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return checkLength(&s.kSet, &s.k, k)
}

func (s *FileStore) fileForLocked(ref string, strand byte) (*os.File, error) {
	key := vectorKey(ref, strand)
	if f, ok := s.files[key]; ok {
		return f, nil
	}
	path := filepath.Join(s.dir, uuid.NewString()+".vec")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, errors.Wrapf(err, "creating abundance vector backing file %q", path)
	}
	s.files[key] = f
	return f, nil
}

// AddRef ensures the (ref, strand) file holds at least size cells,
// zero-extending (via Truncate, which zero-fills new bytes) if shorter.
func (s *FileStore) AddRef(ref string, strand byte, size int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.growLocked(ref, strand, size)
}

func (s *FileStore) growLocked(ref string, strand byte, size int) error {
	key := vectorKey(ref, strand)
	if s.lens[key] >= size {
		return nil
	}
	f, err := s.fileForLocked(ref, strand)
	if err != nil {
		return err
	}
	if err := f.Truncate(int64(size) * cellWidth); err != nil {
		return errors.Wrapf(err, "growing abundance vector file for %q", ref)
	}
	s.lens[key] = size
	return nil
}

// AddCount writes count at (ref, strand, pos), growing the backing file
// first.
func (s *FileStore) AddCount(ref string, strand byte, pos int, count uint64, k int, replace bool) error {
	if err := s.CheckLength(k); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.growLocked(ref, strand, pos+1); err != nil {
		return err
	}
	f, err := s.fileForLocked(ref, strand)
	if err != nil {
		return err
	}

	offset := int64(pos) * cellWidth
	if !replace {
		var cur [cellWidth]byte
		if n, err := f.ReadAt(cur[:], offset); err != nil && n != cellWidth {
			return errors.Wrap(err, "reading abundance vector cell")
		}
		if binary.LittleEndian.Uint64(cur[:]) != 0 {
			return kerrors.ErrAbundanceConflict
		}
	}

	var buf [cellWidth]byte
	binary.LittleEndian.PutUint64(buf[:], count)
	if _, err := f.WriteAt(buf[:], offset); err != nil {
		return errors.Wrap(err, "writing abundance vector cell")
	}
	return nil
}

// WriteTo reads every backing file back and gzip-serializes it under dir.
// The backing files are neither closed nor deleted.
func (s *FileStore) WriteTo(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, length := range s.lens {
		ref, strand := splitVectorKey(key)
		f := s.files[key]
		vec := make([]uint64, length)
		buf := make([]byte, length*cellWidth)
		if _, err := f.ReadAt(buf, 0); err != nil {
			return errors.Wrapf(err, "reading abundance vector file for %q", ref)
		}
		for i := range vec {
			vec[i] = binary.LittleEndian.Uint64(buf[i*cellWidth : (i+1)*cellWidth])
		}
		if err := writeVectorGz(dir, ref, strand, s.k, vec); err != nil {
			return err
		}
	}
	return nil
}
