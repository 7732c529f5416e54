// Package batcher implements the Batcher component (C4): a growing ordered
// collection of Batches (C3) with a shared configuration, three feed modes,
// and the top-level FASTA scanning driver (KMERS/RECORDS modes, C2's
// per-shard parallel fan-out).
package batcher

import (
	"runtime"

	"github.com/ggirelli/kman/internal/batch"
	"github.com/ggirelli/kman/internal/logx"
	"github.com/ggirelli/kman/internal/natype"
)

// ScanMode selects how FastaBatcher fans work out across FASTA records.
type ScanMode int

const (
	// KMERS fans out per-record, optionally sharding a single record's
	// k-mer production across threads.
	KMERS ScanMode = iota
	// RECORDS fans out whole records to worker threads.
	RECORDS
)

func (m ScanMode) String() string {
	if m == RECORDS {
		return "RECORDS"
	}
	return "KMERS"
}

// ParseScanMode maps "KMERS"/"RECORDS" (all upper- or all lower-case) to a
// ScanMode.
func ParseScanMode(s string) (ScanMode, bool) {
	switch s {
	case "KMERS", "kmers":
		return KMERS, true
	case "RECORDS", "records":
		return RECORDS, true
	default:
		return 0, false
	}
}

// FeedMode selects how a donor Batcher's collection is absorbed into a
// recipient (SPEC_FULL.md §3).
type FeedMode int

const (
	// REPLACE swaps the recipient's collection for the donor's.
	REPLACE FeedMode = iota
	// FLOW re-emits the donor's records into the recipient one at a time,
	// resetting (deleting) the donor's batches as they drain.
	FLOW
	// APPEND concatenates the donor's batches onto the recipient's.
	APPEND
)

func (m FeedMode) String() string {
	switch m {
	case FLOW:
		return "FLOW"
	case APPEND:
		return "APPEND"
	default:
		return "REPLACE"
	}
}

// ParseFeedMode maps "REPLACE"/"FLOW"/"APPEND" (all upper- or all
// lower-case) to a FeedMode.
func ParseFeedMode(s string) (FeedMode, bool) {
	switch s {
	case "REPLACE", "replace":
		return REPLACE, true
	case "FLOW", "flow":
		return FLOW, true
	case "APPEND", "append":
		return APPEND, true
	default:
		return 0, false
	}
}

// Config flattens the shared state that the original Batcher subclass
// hierarchy inherited attribute-by-attribute (SPEC_FULL.md §9) into one
// record, passed to every leaf operation instead of living on a parent
// object.
type Config struct {
	K                 int
	Size              int // capacity per Batch
	Threads           int
	NAType            natype.NAType
	TmpDir            string
	ReverseComplement bool
	ScanMode          ScanMode
	Codec             batch.Codec
	Log               logx.Logger
}

// Normalized returns a copy of cfg with Threads clamped to [1, NumCPU] and a
// non-nil Log, matching BatcherThreading's thread-count clamp.
func (cfg Config) Normalized() Config {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	if max := runtime.NumCPU(); cfg.Threads > max {
		cfg.Threads = max
	}
	if cfg.Log == nil {
		cfg.Log = logx.Discard
	}
	return cfg
}
