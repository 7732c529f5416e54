// Package abundance implements the abundance-vector store (C8): a mapping
// from (reference, strand) to a dynamically resized count vector, with an
// in-memory and a file-backed variant, and a shared gzipped-text
// serializer. Grounded on kman/abundance.py's AbundanceVectorBase /
// AbundanceVector / AbundanceVectorLocal.
package abundance

import "github.com/ggirelli/kman/internal/kerrors"

// Store is the contract the joiner (C6) uses for VEC_COUNT and
// VEC_COUNT_MASKED output: a mapping ref -> strand -> []uint64, built up one
// cell at a time and finally materialized to a directory of gzip files.
type Store interface {
	// CheckLength asserts that every AddCount call across the Store's
	// lifetime names the same k; returns ErrInconsistentK otherwise.
	CheckLength(k int) error

	// AddRef ensures the (ref, strand) vector is at least size long,
	// zero-extending it if it was shorter. Lengths only ever grow.
	AddRef(ref string, strand byte, size int) error

	// AddCount first calls AddRef(ref, strand, pos+1), then writes count
	// at position pos. If replace is false, the cell must currently be
	// zero (ErrAbundanceConflict otherwise); replace=true always
	// overwrites.
	AddCount(ref string, strand byte, pos int, count uint64, k int, replace bool) error

	// WriteTo materializes one "{ref}___{strand}.gz" file per (ref,
	// strand) pair under dir, each containing a "# k={k}\n" header line
	// followed by one integer per line in position order.
	WriteTo(dir string) error
}

func vectorKey(ref string, strand byte) string {
	return ref + "\x00" + string(rune(strand))
}

func checkLength(kSet *bool, cur *int, k int) error {
	if !*kSet {
		*cur = k
		*kSet = true
		return nil
	}
	if *cur != k {
		return kerrors.ErrInconsistentK
	}
	return nil
}
