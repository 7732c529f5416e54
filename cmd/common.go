package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"

	"github.com/ggirelli/kman/internal/batcher"
	"github.com/ggirelli/kman/internal/config"
	"github.com/ggirelli/kman/internal/kmer"
	"github.com/ggirelli/kman/internal/logx"
)

// addSharedFlags registers the flags common to batch/unique/count (§6.4).
func addSharedFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("out", "O", "", "output path")
	cmd.Flags().IntP("kmer", "k", 21, "k-mer length")
	cmd.Flags().Bool("reverse", false, "also emit reverse-complement k-mers")
	cmd.Flags().String("scan-mode", "KMERS", "FASTA scan mode: KMERS or RECORDS")
	cmd.Flags().String("batch-size", "1M", "records per batch, human-readable (e.g. 1M, 500K)")
	cmd.Flags().String("batch-mode", "APPEND", "feed mode when absorbing a collection: APPEND, FLOW or REPLACE")
	cmd.Flags().String("previous-batches", "", "directory of previously written batches to reload instead of scanning")
	cmd.Flags().String("tmp", "", "temp directory for batch files (default: OS temp dir)")
	cmd.Flags().Bool("re-sort", false, "re-sort previous batches on reload")
	cmd.Flags().String("na-type", "DNA", "nucleic-acid alphabet: DNA or RNA")
	checkError(cmd.MarkFlagRequired("out"))
}

// buildRunConfig assembles a config.RunConfig from cmd's flags, optionally
// overlaid by --config, matching SPEC_FULL.md §4.12: the resolved RunConfig
// is everything downstream of the CLI boundary sees, never *cobra.Command.
func buildRunConfig(cmd *cobra.Command) config.RunConfig {
	cfg := config.Default()
	cfg.K = getFlagPositiveInt(cmd, "kmer")
	cfg.Reverse = getFlagBool(cmd, "reverse")
	cfg.ScanMode = getFlagString(cmd, "scan-mode")
	cfg.BatchSize = getFlagBatchSize(cmd, "batch-size")
	cfg.BatchMode = getFlagString(cmd, "batch-mode")
	cfg.PreviousBatches = getFlagString(cmd, "previous-batches")
	cfg.Threads = threads
	cfg.TmpDir = getFlagString(cmd, "tmp")
	if cfg.TmpDir == "" {
		cfg.TmpDir = config.Default().TmpDir
	}
	cfg.ReSort = getFlagBool(cmd, "re-sort")
	cfg.NAType = getFlagString(cmd, "na-type")

	if cfgFile != "" {
		overlaid, err := config.LoadTOML(cfg, cfgFile)
		checkError(err)
		cfg = overlaid
	}
	return cfg
}

// sharedLogger returns the CLI's configured logger, for handoff to core
// packages (C1-C9 take a logx.Logger value rather than calling
// logx.Default themselves).
func sharedLogger() logx.Logger { return logx.Default() }

// batcherConfig translates a resolved RunConfig into a batcher.Config ready
// for RunFasta/FromFiles, resolving the NA-type and scan-mode enums and
// wiring the shared logger.
func batcherConfig(cfg config.RunConfig) batcher.Config {
	nat, err := cfg.NAT()
	checkError(err)
	scan, err := cfg.Scan()
	checkError(err)

	return batcher.Config{
		K:                 cfg.K,
		Size:              cfg.BatchSize,
		Threads:           cfg.Threads,
		NAType:            nat,
		TmpDir:            cfg.TmpDir,
		ReverseComplement: cfg.Reverse,
		ScanMode:          scan,
		Codec:             kmer.Codec{NAType: nat},
		Log:               logx.Default(),
	}
}

// scanOrReload runs C4's FASTA driver over input, or rehydrates a previous
// collection from --previous-batches and feeds it in per --batch-mode,
// matching the original distillation's supplemented feed-mode CLI surface.
func scanOrReload(input string, cfg config.RunConfig) (*batcher.Batcher, error) {
	bcfg := batcherConfig(cfg)

	if cfg.PreviousBatches == "" {
		return batcher.RunFasta(input, bcfg)
	}

	prevCfg := bcfg
	prevCfg.Codec = kmer.Codec{NAType: bcfg.NAType}
	previous, err := batcher.FromFiles(cfg.PreviousBatches, prevCfg)
	if err != nil {
		return nil, err
	}
	if cfg.ReSort {
		if err := previous.WriteAll(true); err != nil {
			return nil, err
		}
	}

	fresh, err := batcher.RunFasta(input, bcfg)
	if err != nil {
		return nil, err
	}

	feed, err := cfg.Feed()
	if err != nil {
		return nil, err
	}
	if err := fresh.FeedCollection(previous, feed); err != nil {
		return nil, err
	}
	return fresh, nil
}

// dumpBatches materializes b's collection as a directory of batch files
// (§6.3's "batch dump"), one file per batch named after its temp file, each
// gzipped when compress is set. Shows a per-batch progress bar under
// --verbose (C13).
func dumpBatches(b *batcher.Batcher, outDir string, compress bool) error {
	pb := newStageBar("dump", int64(len(b.Batches())))
	defer pb.wait()

	for _, bt := range b.Batches() {
		if !bt.Written() {
			if err := bt.Write(true, false); err != nil {
				return err
			}
		}
		name := filepath.Base(bt.TempPath())
		if compress {
			name += ".gz"
		}
		if err := copyFile(bt.TempPath(), filepath.Join(outDir, name), compress); err != nil {
			return err
		}
		pb.advance()
	}
	return nil
}

func copyFile(src, dst string, compress bool) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	var w io.Writer = out
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(out)
		w = gz
	}

	if _, err := io.Copy(w, in); err != nil {
		out.Close()
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			out.Close()
			return err
		}
	}
	return out.Close()
}
