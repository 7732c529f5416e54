package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ggirelli/kman/internal/logx"
	"github.com/ggirelli/kman/internal/runtimex"
)

var (
	verbose  bool
	log2file bool
	logFile  string
	threads  int
	cfgFile  string
)

// RootCmd is the kman entry point, mirroring the teacher's own RootCmd:
// global --verbose/--log2file/--threads/--config flags set up in
// PersistentPreRun before any sub-command runs.
var RootCmd = &cobra.Command{
	Use:   "kman",
	Short: "k-mer manager: count, deduplicate and localize k-mers in FASTA sequences",
	Long: `kman scans FASTA sequence collections into sorted batches of k-mers,
merges those batches with an external k-way merge, and reduces each merge
group into one of several outputs: unique k-mers, per-sequence counts, or
per-reference abundance vectors.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := logx.Setup(verbose, logFileArg()); err != nil {
			checkError(err)
		}
		if _, err := runtimex.RaiseFileLimit(1 << 16); err != nil {
			logx.Default().Warningf("could not raise file descriptor limit: %s", err)
		}
	},
}

func logFileArg() string {
	if log2file {
		if logFile != "" {
			return logFile
		}
		return "kman.log"
	}
	return ""
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print verbose information")
	RootCmd.PersistentFlags().BoolVar(&log2file, "log2file", false, "write log messages to a file as well as stderr")
	RootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path (used with --log2file; default kman.log)")
	RootCmd.PersistentFlags().IntVarP(&threads, "threads", "j", 1, "number of worker threads")
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional TOML configuration overlay")
}

// Execute runs the CLI, exiting 1 on error (the teacher's own main.go
// idiom, reproduced here instead of that file's original body).
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
