package merge

import (
	"container/heap"
	"io"

	"github.com/ggirelli/kman/internal/batch"
	"github.com/ggirelli/kman/internal/kerrors"
)

// Group is one merge-group: every header whose k-mer sequence equals Seq,
// across every input batch, in ascending Seq order (SPEC_FULL.md §4.5).
type Group struct {
	Seq     string
	Headers []string
}

// HeaderedRecord is the contract a batch.Record must satisfy to be crawled:
// kmer.KMer contributes its own single coordinate header, while
// SequenceCount (C7's intermediate record) already carries an aggregated
// list from a prior crawl pass.
type HeaderedRecord interface {
	batch.Record
	HeaderList() []string
}

// cursor is one batch's position within the k-way merge: the most recently
// read record's sort key and header list, plus the generator to advance it.
type cursor struct {
	seq     string
	headers []string
	gen     func() (batch.Record, error)
}

// advance pulls the next record from the cursor's batch, or returns io.EOF
// once the batch is exhausted.
func (c *cursor) advance() error {
	r, err := c.gen()
	if err != nil {
		return err
	}
	hr, ok := r.(HeaderedRecord)
	if !ok {
		return kerrors.ErrTypeMismatch
	}
	c.seq = r.SortKey()
	c.headers = hr.HeaderList()
	return nil
}

// cursorHeap is the container/heap min-heap over cursors keyed by seq: the
// idiomatic Go shape for a k-way merge (grounded on dolthub's external
// sorter, which reaches for container/heap in the same role; see DESIGN.md
// for why this is the one component built on a standard-library package
// rather than a pack dependency).
type cursorHeap []*cursor

func (h cursorHeap) Len() int            { return len(h) }
func (h cursorHeap) Less(i, j int) bool  { return h[i].seq < h[j].seq }
func (h cursorHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *cursorHeap) Push(x interface{}) { *h = append(*h, x.(*cursor)) }
func (h *cursorHeap) Pop() interface{} {
	old := *h
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return c
}

// Crawler performs the merge crawler (C5): a k-way merge over a list of
// sorted Batches keyed on each record's SortKey, followed by a one-pass
// run-length grouping that accumulates headers while the key stays equal.
type Crawler struct {
	batches []*batch.Batch
	doSort  bool
	smart   bool
}

// NewCrawler builds a Crawler over batches. doSort requests that each batch
// be (re-)sorted in memory before merging, for batches not already sorted on
// disk; smart selects the bounded-handle FASTA/line reader for each batch's
// backing file, keeping at most one file descriptor open per batch at a
// time.
func NewCrawler(batches []*batch.Batch, doSort, smart bool) *Crawler {
	return &Crawler{batches: batches, doSort: doSort, smart: smart}
}

// Crawl returns a lazy iterator of Groups in ascending Seq order. The
// returned function returns io.EOF once every batch is exhausted.
func (cr *Crawler) Crawl() (func() (Group, error), error) {
	h := &cursorHeap{}
	for _, b := range cr.batches {
		gen, err := cr.batchGen(b)
		if err != nil {
			return nil, err
		}
		c := &cursor{gen: gen}
		if err := c.advance(); err != nil {
			if err == io.EOF {
				continue
			}
			return nil, err
		}
		*h = append(*h, c)
	}
	heap.Init(h)

	var current *Group

	next := func() (Group, error) {
		for h.Len() > 0 {
			top := (*h)[0]
			if current != nil && top.seq != current.Seq {
				break
			}
			if current == nil {
				current = &Group{Seq: top.seq}
			}
			current.Headers = append(current.Headers, top.headers...)
			if err := top.advance(); err != nil {
				if err != io.EOF {
					return Group{}, err
				}
				heap.Pop(h)
			} else {
				heap.Fix(h, 0)
			}
		}
		if current == nil {
			return Group{}, io.EOF
		}
		g := *current
		current = nil
		return g, nil
	}
	return next, nil
}

func (cr *Crawler) batchGen(b *batch.Batch) (func() (batch.Record, error), error) {
	if !cr.doSort {
		return b.RecordGen(cr.smart)
	}
	sorted, err := b.Sorted(cr.smart)
	if err != nil {
		return nil, err
	}
	i := 0
	return func() (batch.Record, error) {
		if i >= len(sorted) {
			return nil, io.EOF
		}
		r := sorted[i]
		i++
		return r, nil
	}, nil
}
