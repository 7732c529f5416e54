package batch

import (
	"bufio"
	"os"

	"github.com/pkg/errors"
)

// AppendableBatch shares Batch's contract but never buffers records in
// memory: each Add call serializes one record directly to temp_path
// (SPEC_FULL.md §4.3). Used by C7, where parallel workers each stream their
// own sorted SequenceCount batch straight to disk.
type AppendableBatch struct {
	codec    Codec
	capacity int
	current  int
	tempPath string
	f        *os.File
	w        *bufio.Writer
}

// NewAppendableBatch creates an AppendableBatch of the given capacity,
// writing immediately to a fresh temp file under tmpDir.
func NewAppendableBatch(codec Codec, capacity int, tmpDir string) (*AppendableBatch, error) {
	path := newTempPath(tmpDir, codec.Suffix())
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "creating appendable batch file %q", path)
	}
	return &AppendableBatch{
		codec:    codec,
		capacity: capacity,
		tempPath: path,
		f:        f,
		w:        bufio.NewWriter(f),
	}, nil
}

// Capacity returns the batch's fixed capacity.
func (b *AppendableBatch) Capacity() int { return b.capacity }

// CurrentSize returns the number of records appended so far.
func (b *AppendableBatch) CurrentSize() int { return b.current }

// Remaining returns capacity - current size.
func (b *AppendableBatch) Remaining() int { return b.capacity - b.current }

// Full reports whether the batch has no remaining capacity.
func (b *AppendableBatch) Full() bool { return b.Remaining() <= 0 }

// TempPath returns the batch's backing file path.
func (b *AppendableBatch) TempPath() string { return b.tempPath }

// Add appends one serialized record directly to the backing file.
func (b *AppendableBatch) Add(r Record) error {
	if b.Full() {
		return errorFull()
	}
	for _, line := range b.codec.Encode(r) {
		if _, err := b.w.WriteString(line); err != nil {
			return errors.Wrap(err, "appending batch record")
		}
		if _, err := b.w.WriteString("\n"); err != nil {
			return errors.Wrap(err, "appending batch record")
		}
	}
	b.current++
	return nil
}

func errorFull() error {
	return errors.New("kman: appendable batch is full")
}

// Write flushes and closes the backing file, re-sorting it in place when
// doSort is true. Unwrite is deliberately absent: it is a no-op for
// AppendableBatch per SPEC_FULL.md §4.3.
func (b *AppendableBatch) Write(doSort bool) error {
	if err := b.w.Flush(); err != nil {
		b.f.Close()
		return errors.Wrap(err, "flushing appendable batch file")
	}
	if err := b.f.Close(); err != nil {
		return errors.Wrap(err, "closing appendable batch file")
	}
	if doSort {
		return resortFile(b.tempPath, b.codec)
	}
	return nil
}

// ToBatch wraps the now-written AppendableBatch as a read-only Batch handle
// so it can be fed into a Batcher collection via the usual feed modes.
func (b *AppendableBatch) ToBatch() *Batch {
	return &Batch{
		codec:    b.codec,
		capacity: b.capacity,
		count:    b.current,
		written:  true,
		tempPath: b.tempPath,
	}
}
