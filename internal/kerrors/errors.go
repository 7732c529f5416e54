// Package kerrors collects the sentinel error values shared by the batching,
// merging and abundance-vector components. Call sites wrap these with
// github.com/pkg/errors so that the underlying file or parse context is
// preserved while the sentinel stays matchable with errors.Is.
package kerrors

import "errors"

var (
	// ErrMalformedFasta is returned when a FASTA stream doesn't start with
	// a header line, or a header is found where sequence was expected.
	ErrMalformedFasta = errors.New("kman: malformed fasta input")

	// ErrEmptyInput is returned when a FASTA stream has no records after
	// blank lines and comments are skipped.
	ErrEmptyInput = errors.New("kman: empty fasta input")

	// ErrMalformedHeader is returned by the coordinate codec when a header
	// string does not match ref:start-end:strand.
	ErrMalformedHeader = errors.New("kman: malformed coordinate header")

	// ErrBatchFull is returned by Batch.Add when the batch has no
	// remaining capacity.
	ErrBatchFull = errors.New("kman: batch is full")

	// ErrWrittenBatchImmutable is returned by Batch.Add (and other
	// mutators) once the batch has been written to its temp file.
	ErrWrittenBatchImmutable = errors.New("kman: batch already written")

	// ErrTypeMismatch is returned by the merge crawler when a record read
	// back from a batch carries no header list. Batch.Add does not check
	// record types and never returns it.
	ErrTypeMismatch = errors.New("kman: record type mismatch")

	// ErrAbundanceConflict is returned when a non-zero abundance vector
	// cell is written without replace=true.
	ErrAbundanceConflict = errors.New("kman: abundance vector cell already set")

	// ErrInconsistentK is returned when an abundance vector sees more
	// than one k-mer length across its lifetime.
	ErrInconsistentK = errors.New("kman: inconsistent k across abundance vector")

	// ErrInputNotFound is a CLI preflight error for a missing input path.
	ErrInputNotFound = errors.New("kman: input not found")

	// ErrOutputNotEmpty is a CLI preflight error for a non-empty output
	// directory.
	ErrOutputNotEmpty = errors.New("kman: output directory is not empty")
)
