package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ggirelli/kman/internal/merge"
)

var uniqueCmd = &cobra.Command{
	Use:   "unique <input.fasta>",
	Short: "scan a FASTA file and emit every k-mer that occurs exactly once",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input := args[0]
		checkError(checkInputExists(input))

		out := getFlagString(cmd, "out")
		checkError(checkOutputFileAbsent(out))

		cfg := buildRunConfig(cmd)
		pb := newStageBar("unique", 2)

		b, err := scanOrReload(input, cfg)
		checkError(err)
		checkError(b.WriteAll(true))
		pb.advance()

		nat, err := cfg.NAT()
		checkError(err)

		checkError(merge.Join(b.Batches(), merge.JoinerConfig{
			Mode:      merge.UNIQUE,
			K:         cfg.K,
			NAType:    nat,
			Output:    out,
			TmpDir:    cfg.TmpDir,
			Threads:   cfg.Threads,
			BatchSize: cfg.BatchSize,
			Smart:     true,
			Log:       sharedLogger(),
		}))
		pb.advance()
		pb.wait()
	},
}

func init() {
	addSharedFlags(uniqueCmd)
	RootCmd.AddCommand(uniqueCmd)
}
