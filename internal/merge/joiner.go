package merge

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/ggirelli/kman/internal/abundance"
	"github.com/ggirelli/kman/internal/batch"
	"github.com/ggirelli/kman/internal/kmer"
	"github.com/ggirelli/kman/internal/logx"
	"github.com/ggirelli/kman/internal/natype"
	"github.com/ggirelli/kman/internal/runtimex"
)

// JoinerConfig configures one run of the joiner (C6): which reducer to
// apply, where to write its output, and how to parallelize the preceding
// crawl. Grounded on kman/join.py's KJoiner / KJoinerThreading.
type JoinerConfig struct {
	Mode       Mode
	K          int
	NAType     natype.NAType
	Output     string // file path (UNIQUE/SEQ_COUNT) or directory (VEC_*)
	MemoryMode MemoryMode
	TmpDir     string
	Threads    int
	BatchSize  int // batch_size_per_thread for the parallel pre-pass (C7)
	Smart      bool
	Log        logx.Logger
}

func (cfg JoinerConfig) normalized() JoinerConfig {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	if cfg.BatchSize < 2 {
		cfg.BatchSize = 2
	}
	if cfg.Log == nil {
		cfg.Log = logx.Discard
	}
	return cfg
}

// Join runs the joiner over batches: a crawl (parallelized via C7 when
// cfg.Threads>1 and there are enough batches to split) followed by the
// selected reducer's pre-join/per-group/post-join lifecycle.
func Join(batches []*batch.Batch, cfg JoinerConfig) error {
	cfg = cfg.normalized()
	if cfg.Mode.Vector() {
		return joinVector(batches, cfg)
	}
	return joinFile(batches, cfg)
}

// joinFile is the UNIQUE/SEQ_COUNT pre-join/post-join: open the output
// file, apply the reducer per group, close.
func joinFile(batches []*batch.Batch, cfg JoinerConfig) error {
	f, err := os.Create(cfg.Output)
	if err != nil {
		return errors.Wrapf(err, "creating joiner output %q", cfg.Output)
	}
	w := bufio.NewWriter(f)

	next, err := crawl(batches, cfg)
	if err != nil {
		f.Close()
		return err
	}

	for {
		g, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			f.Close()
			return err
		}
		if err := applyFileMode(w, cfg.Mode, g); err != nil {
			f.Close()
			return err
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrap(err, "flushing joiner output")
	}
	return f.Close()
}

func applyFileMode(w *bufio.Writer, mode Mode, g Group) error {
	switch mode {
	case UNIQUE:
		if len(g.Headers) != 1 {
			return nil
		}
		_, err := fmt.Fprintf(w, ">%s\n%s\n", g.Headers[0], g.Seq)
		return err
	case SEQ_COUNT:
		_, err := fmt.Fprintf(w, "%s\t%d\n", g.Seq, len(g.Headers))
		return err
	default:
		return errors.Errorf("kman: mode %v has no file-based reducer", mode)
	}
}

// joinVector is the VEC_COUNT/VEC_COUNT_MASKED pre-join/post-join:
// instantiate an AbundanceVector store, apply the reducer per group,
// materialize the store to cfg.Output.
func joinVector(batches []*batch.Batch, cfg JoinerConfig) error {
	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return errors.Wrapf(err, "creating abundance output directory %q", cfg.Output)
	}

	var store abundance.Store
	if cfg.MemoryMode == LOCAL {
		vecDir, err := os.MkdirTemp(cfg.TmpDir, "abundance-")
		if err != nil {
			return errors.Wrapf(err, "creating abundance vector temp directory under %q", cfg.TmpDir)
		}
		store = abundance.NewFileStore(vecDir)
	} else {
		store = abundance.NewMemoryStore()
	}

	next, err := crawl(batches, cfg)
	if err != nil {
		return err
	}

	for {
		g, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := applyVectorMode(store, cfg.Mode, g, cfg.K); err != nil {
			return err
		}
	}

	return store.WriteTo(cfg.Output)
}

func applyVectorMode(store abundance.Store, mode Mode, g Group, k int) error {
	switch mode {
	case VEC_COUNT:
		for _, h := range g.Headers {
			c, err := kmer.ParseCoord(h)
			if err != nil {
				return err
			}
			if err := store.AddCount(c.Ref, byte(c.Strand), int(c.Start), uint64(len(g.Headers)), k, false); err != nil {
				return err
			}
		}
		return nil

	case VEC_COUNT_MASKED:
		if len(g.Headers) == 1 {
			return nil
		}
		coords := make([]kmer.Coord, len(g.Headers))
		refCounts := make(map[string]int, len(g.Headers))
		for i, h := range g.Headers {
			c, err := kmer.ParseCoord(h)
			if err != nil {
				return err
			}
			coords[i] = c
			refCounts[c.Ref]++
		}
		if len(refCounts) <= 1 {
			return nil
		}
		for _, c := range coords {
			hcount := len(g.Headers) - refCounts[c.Ref]
			if err := store.AddCount(c.Ref, byte(c.Strand), int(c.Start), uint64(hcount), k, false); err != nil {
				return err
			}
		}
		return nil

	default:
		return errors.Errorf("kman: mode %v has no vector-based reducer", mode)
	}
}

// crawl returns the group iterator for batches: a single-threaded crawl
// directly, or the parallel pre-pass (C7) followed by a single-threaded
// final crawl once there are enough batches to make splitting worthwhile.
func crawl(batches []*batch.Batch, cfg JoinerConfig) (func() (Group, error), error) {
	if cfg.Threads <= 1 || len(batches) <= cfg.BatchSize {
		cr := NewCrawler(batches, false, cfg.Smart)
		return cr.Crawl()
	}

	intermediate, err := parallelPrePass(batches, cfg)
	if err != nil {
		return nil, err
	}
	cr := NewCrawler(intermediate, false, cfg.Smart)
	return cr.Crawl()
}

// parallelPrePass implements the parallel joiner's first pass: split the N
// input batches into groups of cfg.BatchSize (raising the open-file soft
// limit to cover one descriptor per batch in the largest group beforehand),
// and run C7's SequenceCount batcher over each group concurrently.
func parallelPrePass(batches []*batch.Batch, cfg JoinerConfig) ([]*batch.Batch, error) {
	groups := splitBatches(batches, cfg.BatchSize)

	if _, err := runtimex.RaiseFileLimit(uint64(cfg.BatchSize) + 16); err != nil {
		cfg.Log.Warningf("could not raise open-file limit: %v", err)
	}

	results := make([]*batch.Batch, len(groups))
	errs := make([]error, len(groups))
	tokens := make(chan struct{}, cfg.Threads)
	var wg sync.WaitGroup

	for i, grp := range groups {
		tokens <- struct{}{}
		wg.Add(1)
		go func(i int, grp []*batch.Batch) {
			defer func() { wg.Done(); <-tokens }()
			b, err := BuildSeqCountBatch(grp, cfg.NAType, cfg.TmpDir)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = b
		}(i, grp)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func splitBatches(batches []*batch.Batch, size int) [][]*batch.Batch {
	if size < 1 {
		size = 1
	}
	var groups [][]*batch.Batch
	for i := 0; i < len(batches); i += size {
		end := i + size
		if end > len(batches) {
			end = len(batches)
		}
		groups = append(groups, batches[i:end])
	}
	return groups
}
