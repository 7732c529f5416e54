package fasta

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"

	"github.com/ggirelli/kman/internal/kerrors"
)

// BoundedReader is the "bounded-handle" FASTA parser (§4.1): it opens the
// file on demand, closes the handle after every record, and reopens +
// discards up to a remembered byte offset on the next call. This keeps at
// most one descriptor per source open at any instant, which is what lets the
// merge crawler (C5) hold thousands of sorted-batch sources "logically open"
// at once without hitting the OS descriptor limit.
//
// Grounded on kman/io.py's SmartFastaParser, which reopens its handle and
// seeks to a remembered position before every read and closes it again right
// after. No pack dependency exposes this close-after-every-record contract,
// so the byte-counting state machine here is hand-rolled.
type BoundedReader struct {
	path      string
	pos       int64
	seenFirst bool
	done      bool
}

// NewBoundedReader prepares a bounded-handle reader over path without
// opening it; the first descriptor is opened lazily on the first Next call.
func NewBoundedReader(path string) (*BoundedReader, error) {
	return &BoundedReader{path: path}, nil
}

// Next opens the file, skips to the remembered offset, reads exactly one
// record, remembers the new offset, closes the file, and returns the record.
func (b *BoundedReader) Next() (Record, error) {
	if b.done {
		return Record{}, io.EOF
	}

	rc, err := xopen.Ropen(b.path)
	if err != nil {
		return Record{}, errors.Wrapf(err, "opening fasta file %q", b.path)
	}
	defer rc.Close()

	if b.pos > 0 {
		if _, err := io.CopyN(io.Discard, rc, b.pos); err != nil {
			return Record{}, errors.Wrapf(err, "seeking to offset %d in %q", b.pos, b.path)
		}
	}

	br := bufio.NewReader(rc)
	var consumed int64

	readLine := func() (string, error) {
		line, err := br.ReadString('\n')
		consumed += int64(len(line))
		return line, err
	}

	// skip blank lines and ';'-prefixed comment lines before the header
	var line string
	for {
		var err error
		line, err = readLine()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			if err != nil {
				// nothing but blanks/comments to EOF
				b.done = true
				if !b.seenFirst {
					return Record{}, kerrors.ErrEmptyInput
				}
				return Record{}, io.EOF
			}
			continue
		}
		break
	}

	trimmed := strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(trimmed, ">") {
		return Record{}, kerrors.ErrMalformedFasta
	}
	b.seenFirst = true
	header := trimmed[1:]

	var seqBuilder strings.Builder
	for {
		lineStart := consumed
		l, err := readLine()
		t := strings.TrimRight(l, "\r\n")
		if strings.HasPrefix(t, ">") {
			// don't count this line towards consumed progress: the next
			// Next() call must re-read it as the following record's header.
			consumed = lineStart
			break
		}
		seqBuilder.WriteString(strings.ReplaceAll(strings.ReplaceAll(t, " ", ""), "\r", ""))
		if err != nil {
			if err == io.EOF {
				b.done = true
			} else {
				return Record{}, errors.Wrapf(err, "reading fasta sequence in %q", b.path)
			}
			break
		}
	}

	b.pos += consumed
	return Record{Header: header, Seq: seqBuilder.String()}, nil
}

// Close is a no-op: BoundedReader never holds a descriptor open between
// Next calls.
func (b *BoundedReader) Close() error { return nil }
