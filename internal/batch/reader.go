package batch

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/ggirelli/kman/internal/fasta"
)

// recordIter is the internal iterator contract used to stream a Batch's
// on-disk file back as typed Records, regardless of which concrete reader
// (FASTA eager/bounded, or this package's own line reader) backs it.
type recordIter interface {
	Next() (Record, error)
	Close() error
}

func newRecordIter(path string, codec Codec, smart bool) (recordIter, error) {
	if codec.FastaFormat() {
		return newFastaRecordIter(path, codec, smart)
	}
	return newLineRecordIter(path, codec, smart)
}

// --- FASTA-backed iterator (delegates to package fasta, C1) ---

type fastaRecordIter struct {
	r     fasta.Reader
	codec Codec
}

func newFastaRecordIter(path string, codec Codec, smart bool) (recordIter, error) {
	var r fasta.Reader
	var err error
	if smart {
		r, err = fasta.NewBoundedReader(path)
	} else {
		r, err = fasta.NewEagerReader(path)
	}
	if err != nil {
		return nil, err
	}
	return &fastaRecordIter{r: r, codec: codec}, nil
}

func (it *fastaRecordIter) Next() (Record, error) {
	rec, err := it.r.Next()
	if err != nil {
		return nil, err
	}
	return it.codec.Decode([]string{">" + rec.Header, rec.Seq})
}

func (it *fastaRecordIter) Close() error { return it.r.Close() }

// --- text/line-backed iterator (one record per line; same bounded-handle
// reopen-seek-close contract as fasta.BoundedReader, applied to the
// .txt SequenceCount batches of C7). ---

type lineRecordIter struct {
	codec  Codec
	path   string
	smart  bool
	pos    int64
	done   bool
	eager  *bufio.Scanner
	eagerF *os.File
}

func newLineRecordIter(path string, codec Codec, smart bool) (recordIter, error) {
	it := &lineRecordIter{codec: codec, path: path, smart: smart}
	if !smart {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "opening batch file %q", path)
		}
		it.eagerF = f
		it.eager = bufio.NewScanner(f)
		it.eager.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	}
	return it, nil
}

func (it *lineRecordIter) Next() (Record, error) {
	if it.done {
		return nil, io.EOF
	}
	if !it.smart {
		if !it.eager.Scan() {
			it.done = true
			if err := it.eager.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		return it.codec.Decode([]string{it.eager.Text()})
	}
	return it.nextBounded()
}

func (it *lineRecordIter) nextBounded() (Record, error) {
	f, err := os.Open(it.path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening batch file %q", it.path)
	}
	defer f.Close()

	if it.pos > 0 {
		if _, err := f.Seek(it.pos, io.SeekStart); err != nil {
			return nil, err
		}
	}
	br := bufio.NewReader(f)
	line, err := br.ReadString('\n')
	if line == "" && err != nil {
		it.done = true
		return nil, io.EOF
	}
	it.pos += int64(len(line))
	line = strings.TrimRight(line, "\r\n")
	if err != nil && err != io.EOF {
		return nil, err
	}
	if err == io.EOF {
		// last line had no trailing newline; next call sees pos == file
		// size and immediately gets (0, io.EOF) above.
	}
	return it.codec.Decode([]string{line})
}

func (it *lineRecordIter) Close() error {
	if it.eagerF != nil {
		return it.eagerF.Close()
	}
	return nil
}
