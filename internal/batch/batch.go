package batch

import (
	"bufio"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/ggirelli/kman/internal/kerrors"
)

// Batch is a bounded, typed record container: an in-memory buffer that,
// once full, is sorted and written to a temp file, after which the
// in-memory collection is released (SPEC_FULL.md §3/§4.3).
type Batch struct {
	codec    Codec
	capacity int
	records  []Record
	count    int
	written  bool
	tmpDir   string
	tempPath string
}

// NewBatch creates an empty Batch of the given capacity, backed by codec,
// with temp files (once written) placed under tmpDir.
func NewBatch(codec Codec, capacity int, tmpDir string) *Batch {
	return &Batch{codec: codec, capacity: capacity, tmpDir: tmpDir}
}

// Capacity returns the batch's fixed capacity.
func (b *Batch) Capacity() int { return b.capacity }

// CurrentSize returns the number of records currently held (in-memory count
// before write, or the count remembered from the last write/load after).
func (b *Batch) CurrentSize() int { return b.Count() }

// Remaining returns capacity - current size.
func (b *Batch) Remaining() int { return b.capacity - b.CurrentSize() }

// Count returns the total number of records the batch holds, whether or not
// they're currently materialized in memory: for an unwritten or
// force-written batch this is len(records); for a batch whose in-memory
// collection was released on write, it's the count frozen at release time.
func (b *Batch) Count() int {
	if b.written && b.records == nil {
		return b.count
	}
	return len(b.records)
}

// Full reports whether the batch has no remaining capacity.
func (b *Batch) Full() bool { return b.Remaining() <= 0 }

// Written reports whether the batch's authoritative storage is its temp
// file rather than its in-memory collection.
func (b *Batch) Written() bool { return b.written }

// TempPath returns the batch's backing file path, or "" if never written.
func (b *Batch) TempPath() string { return b.tempPath }

// Codec returns the batch's record codec.
func (b *Batch) Codec() Codec { return b.codec }

// Add appends one record to the batch's in-memory collection.
func (b *Batch) Add(r Record) error {
	if b.written {
		return kerrors.ErrWrittenBatchImmutable
	}
	if b.Full() {
		return kerrors.ErrBatchFull
	}
	b.records = append(b.records, r)
	return nil
}

// AddAll adds every record in rs, stopping (and returning) at the first
// error.
func (b *Batch) AddAll(rs []Record) error {
	for _, r := range rs {
		if err := b.Add(r); err != nil {
			return err
		}
	}
	return nil
}

// RecordGen returns a lazy iterator over the batch's records: from the
// in-memory slice when unwritten, or from the temp file (via the
// bounded-handle FASTA/line reader when smart is true) when written.
func (b *Batch) RecordGen(smart bool) (func() (Record, error), error) {
	if !b.written {
		i := 0
		return func() (Record, error) {
			if i >= len(b.records) {
				return nil, io.EOF
			}
			r := b.records[i]
			i++
			return r, nil
		}, nil
	}

	it, err := newRecordIter(b.tempPath, b.codec, smart)
	if err != nil {
		return nil, err
	}
	return func() (Record, error) {
		r, err := it.Next()
		if err != nil {
			if err == io.EOF {
				it.Close()
			}
			return nil, err
		}
		return r, nil
	}, nil
}

// Sorted materializes and stably sorts (by Record.SortKey) every record in
// the batch, reading through RecordGen(smart).
func (b *Batch) Sorted(smart bool) ([]Record, error) {
	gen, err := b.RecordGen(smart)
	if err != nil {
		return nil, err
	}
	var out []Record
	for {
		r, err := gen()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortKey() < out[j].SortKey() })
	return out, nil
}

// Write serializes the batch's records to its temp file (sorted iff
// doSort), allocating a fresh temp path if one isn't already set. After a
// successful non-forced write the in-memory collection is released and
// Written() becomes true. A second call is a no-op unless force is true.
func (b *Batch) Write(doSort bool, force bool) error {
	if b.written && !force {
		return nil
	}

	records := b.records
	if b.written && records == nil && b.count > 0 {
		// a forced rewrite of a released batch reads its records back from
		// the temp file before truncating it.
		loaded, err := b.readAll()
		if err != nil {
			return err
		}
		records = loaded
	}
	if doSort {
		sorted := make([]Record, len(records))
		copy(sorted, records)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SortKey() < sorted[j].SortKey() })
		records = sorted
	}

	if b.tempPath == "" {
		b.tempPath = newTempPath(b.tmpDir, b.codec.Suffix())
	}

	f, err := os.Create(b.tempPath)
	if err != nil {
		return errors.Wrapf(err, "creating batch file %q", b.tempPath)
	}
	w := bufio.NewWriter(f)
	for _, r := range records {
		for _, line := range b.codec.Encode(r) {
			if _, err := w.WriteString(line); err != nil {
				f.Close()
				return errors.Wrap(err, "writing batch record")
			}
			if _, err := w.WriteString("\n"); err != nil {
				f.Close()
				return errors.Wrap(err, "writing batch record")
			}
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrap(err, "flushing batch file")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "closing batch file")
	}

	b.count = len(records)
	if !force {
		b.records = nil
	}
	b.written = true
	return nil
}

// Unwrite rehydrates the in-memory collection from the temp file and
// deletes it, only if the batch isn't full; used by C7's incremental
// buffering strategy.
func (b *Batch) Unwrite() error {
	if b.Full() {
		return errors.New("kman: cannot unwrite a full batch")
	}
	if !b.written {
		return nil
	}
	records, err := b.readAll()
	if err != nil {
		return err
	}
	if err := os.Remove(b.tempPath); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing batch file %q", b.tempPath)
	}
	b.records = records
	b.count = len(records)
	b.tempPath = ""
	b.written = false
	return nil
}

// Reset clears the batch back to empty, deleting its temp file if one
// exists.
func (b *Batch) Reset() error {
	if b.written && b.tempPath != "" {
		if err := os.Remove(b.tempPath); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "removing batch file %q", b.tempPath)
		}
	}
	b.records = nil
	b.count = 0
	b.tempPath = ""
	b.written = false
	return nil
}

func (b *Batch) readAll() ([]Record, error) {
	it, err := newRecordIter(b.tempPath, b.codec, false)
	if err != nil {
		return nil, err
	}
	defer it.Close()
	var out []Record
	for {
		r, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// FromFile binds an existing file as a full, written Batch, optionally
// re-sorting it in place first.
func FromFile(path string, codec Codec, smart bool, resort bool) (*Batch, error) {
	if resort {
		if err := resortFile(path, codec); err != nil {
			return nil, err
		}
	}

	it, err := newRecordIter(path, codec, smart)
	if err != nil {
		return nil, err
	}
	count := 0
	for {
		_, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			it.Close()
			return nil, err
		}
		count++
	}
	it.Close()

	return &Batch{
		codec:    codec,
		capacity: count,
		count:    count,
		written:  true,
		tempPath: path,
	}, nil
}

func resortFile(path string, codec Codec) error {
	it, err := newRecordIter(path, codec, false)
	if err != nil {
		return err
	}
	var records []Record
	for {
		r, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			it.Close()
			return err
		}
		records = append(records, r)
	}
	it.Close()

	sort.SliceStable(records, func(i, j int) bool { return records[i].SortKey() < records[j].SortKey() })

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "rewriting batch file %q", path)
	}
	w := bufio.NewWriter(f)
	for _, r := range records {
		for _, line := range codec.Encode(r) {
			w.WriteString(line)
			w.WriteString("\n")
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
