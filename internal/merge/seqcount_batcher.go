package merge

import (
	"io"

	"github.com/ggirelli/kman/internal/batch"
	"github.com/ggirelli/kman/internal/natype"
)

// BuildSeqCountBatch implements C7: crawls a sublist of already-sorted
// k-mer batches and produces one intermediate, sorted, disk-backed
// SequenceCount batch with one record per distinct sequence in the sublist.
// Grounded on kman/join.py's SeqCountBatcher, used by the parallel joiner's
// first pass to flatten a group of input batches down to one intermediate
// batch before the final single-threaded crawl.
func BuildSeqCountBatch(batches []*batch.Batch, nat natype.NAType, tmpDir string) (*batch.Batch, error) {
	cr := NewCrawler(batches, false, true)
	next, err := cr.Crawl()
	if err != nil {
		return nil, err
	}

	capacity := 0
	for _, b := range batches {
		capacity += b.Count()
	}
	if capacity == 0 {
		capacity = 1
	}

	ab, err := batch.NewAppendableBatch(SeqCountCodec{NAType: nat}, capacity, tmpDir)
	if err != nil {
		return nil, err
	}

	for {
		g, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := ab.Add(SequenceCount{Seq: g.Seq, Headers: g.Headers, NAType: nat}); err != nil {
			return nil, err
		}
	}
	if err := ab.Write(true); err != nil {
		return nil, err
	}
	return ab.ToBatch(), nil
}
