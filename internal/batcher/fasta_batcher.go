package batcher

import (
	"io"
	"sync"

	"github.com/ggirelli/kman/internal/fasta"
	"github.com/ggirelli/kman/internal/kmer"
)

// shardSize picks the overlapping-shard size C2's Batcher helper uses to
// split one FASTA record across threads: large enough that each shard
// produces a meaningful chunk of work, but never smaller than Size so shards
// stay batch-sized.
func shardSize(cfg Config) int {
	if cfg.Size > 0 {
		return cfg.Size
	}
	return 1_000_000
}

// RunFasta is the FASTA batcher (C4) top-level driver: it scans path per
// cfg.ScanMode and returns the fully populated, sorted-and-written Batcher.
// Grounded on kman/batcher.py's FastaBatcher.do().
func RunFasta(path string, cfg Config) (*Batcher, error) {
	cfg = cfg.Normalized()
	b := New(cfg)

	switch cfg.ScanMode {
	case RECORDS:
		if err := runRecordsMode(b, path, cfg); err != nil {
			return nil, err
		}
	default:
		if err := runKmersMode(b, path, cfg); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// runKmersMode implements the per-record fan-out scan (FastaRecordBatcher):
// each FASTA record is read in turn; if cfg.Threads==1 its k-mers are
// emitted serially into the shared Batcher, otherwise the record is split
// into overlapping shards (C2) and each shard's sorted Batch is built by an
// independent worker, merged back via APPEND once every worker finishes.
func runKmersMode(b *Batcher, path string, cfg Config) error {
	r, err := fasta.NewEagerReader(path)
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		cfg.Log.Infof("batching record %q", rec.Header)

		if cfg.Threads <= 1 {
			kmers := kmer.Produce(rec.Header, rec.Seq, cfg.K, cfg.NAType, 0, kmer.Plus, cfg.ReverseComplement, cfg.Log)
			for _, km := range kmers {
				if err := b.AddRecord(km); err != nil {
					return err
				}
			}
			continue
		}

		if err := fanOutRecordShards(b, rec, cfg); err != nil {
			return err
		}
	}

	return b.WriteAll(true)
}

func fanOutRecordShards(b *Batcher, rec fasta.Record, cfg Config) error {
	shards := kmer.Batcher(rec.Seq, cfg.K, shardSize(cfg))
	if len(shards) == 0 {
		return nil
	}

	results := make([]*Batcher, len(shards))
	errs := make([]error, len(shards))
	tokens := make(chan struct{}, cfg.Threads)
	var wg sync.WaitGroup

	for i, sh := range shards {
		tokens <- struct{}{}
		wg.Add(1)
		go func(i int, sh kmer.Shard) {
			defer func() { wg.Done(); <-tokens }()
			local := New(cfg)
			kmers := kmer.Produce(rec.Header, sh.Seq, cfg.K, cfg.NAType, sh.Offset, kmer.Plus, cfg.ReverseComplement, cfg.Log)
			for _, km := range kmers {
				if err := local.AddRecord(km); err != nil {
					errs[i] = err
					return
				}
			}
			if err := local.WriteAll(true); err != nil {
				errs[i] = err
				return
			}
			results[i] = local
		}(i, sh)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	for _, res := range results {
		if res == nil || len(res.Batches()) == 0 {
			continue
		}
		if err := b.FeedCollection(res, APPEND); err != nil {
			return err
		}
	}
	return nil
}

// runRecordsMode implements the per-record-parallelism scan: every FASTA
// record is handed whole to a worker that runs a single-threaded
// FastaRecordBatcher; all per-record collections are concatenated (APPEND)
// in input order and then sorted-written in parallel.
func runRecordsMode(b *Batcher, path string, cfg Config) error {
	r, err := fasta.NewEagerReader(path)
	if err != nil {
		return err
	}
	defer r.Close()

	var records []fasta.Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		records = append(records, rec)
	}

	results := make([]*Batcher, len(records))
	errs := make([]error, len(records))
	tokens := make(chan struct{}, cfg.Threads)
	var wg sync.WaitGroup

	serialCfg := cfg
	serialCfg.Threads = 1

	for i, rec := range records {
		tokens <- struct{}{}
		wg.Add(1)
		go func(i int, rec fasta.Record) {
			defer func() { wg.Done(); <-tokens }()
			cfg.Log.Infof("batching record %q", rec.Header)
			local := New(serialCfg)
			kmers := kmer.Produce(rec.Header, rec.Seq, cfg.K, cfg.NAType, 0, kmer.Plus, cfg.ReverseComplement, cfg.Log)
			for _, km := range kmers {
				if err := local.AddRecord(km); err != nil {
					errs[i] = err
					return
				}
			}
			results[i] = local
		}(i, rec)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	// concatenate in input order (results[i] corresponds to records[i]).
	for _, res := range results {
		if res == nil || len(res.Batches()) == 0 {
			continue
		}
		if err := b.FeedCollection(res, APPEND); err != nil {
			return err
		}
	}

	return b.WriteAllParallel(true, cfg.Threads)
}
