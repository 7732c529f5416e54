package fasta

import (
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"
)

// EagerReader holds its file handle open for the lifetime of the scan; used
// for single-pass batching (§4.1). Built directly on fastx.Reader, the same
// FASTA stack the teacher repository uses in lib-index-build.go's genome
// scan.
type EagerReader struct {
	r *fastx.Reader
}

// NewEagerReader opens path (transparently gzip-decompressed if it ends in
// ".gz", via fastx/xopen) for an eager, single-pass scan.
func NewEagerReader(path string) (*EagerReader, error) {
	r, err := fastx.NewReader(nil, path, "")
	if err != nil {
		return nil, errors.Wrapf(err, "opening fasta file %q", path)
	}
	return &EagerReader{r: r}, nil
}

// Next returns the next (header, sequence) pair, or io.EOF when exhausted.
func (e *EagerReader) Next() (Record, error) {
	rec, err := e.r.Read()
	if err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		return Record{}, errors.Wrap(err, "reading fasta record")
	}
	return Record{Header: string(rec.Name), Seq: string(rec.Seq.Seq)}, nil
}

// Close releases the underlying file handle.
func (e *EagerReader) Close() error {
	e.r.Close()
	return nil
}
