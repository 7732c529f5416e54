package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ggirelli/kman/internal/merge"
)

var countCmd = &cobra.Command{
	Use:   "count <input.fasta>",
	Short: "scan a FASTA file and reduce each k-mer group by the selected count mode",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input := args[0]
		checkError(checkInputExists(input))

		out := getFlagString(cmd, "out")
		mode, ok := merge.ParseMode(getFlagString(cmd, "count-mode"))
		if !ok {
			checkError(fmt.Errorf("kman: unknown count mode %q", getFlagString(cmd, "count-mode")))
		}
		if mode.Vector() {
			checkError(checkOutputEmpty(out))
		} else {
			checkError(checkOutputFileAbsent(out))
		}

		cfg := buildRunConfig(cmd)
		cfg.CountMode = getFlagString(cmd, "count-mode")
		cfg.MemoryMode = getFlagString(cmd, "memory-mode")

		pb := newStageBar("count", 2)

		b, err := scanOrReload(input, cfg)
		checkError(err)
		checkError(b.WriteAll(true))
		pb.advance()

		nat, err := cfg.NAT()
		checkError(err)
		mem, err := cfg.Memory()
		checkError(err)

		checkError(merge.Join(b.Batches(), merge.JoinerConfig{
			Mode:       mode,
			K:          cfg.K,
			NAType:     nat,
			Output:     out,
			MemoryMode: mem,
			TmpDir:     cfg.TmpDir,
			Threads:    cfg.Threads,
			BatchSize:  cfg.BatchSize,
			Smart:      true,
			Log:        sharedLogger(),
		}))
		pb.advance()
		pb.wait()
	},
}

func init() {
	addSharedFlags(countCmd)
	countCmd.Flags().String("count-mode", "SEQ_COUNT", "reduction mode: SEQ_COUNT, VEC_COUNT or VEC_COUNT_MASKED")
	countCmd.Flags().String("memory-mode", "NORMAL", "abundance vector backing: NORMAL (in-memory) or LOCAL (file-backed)")
	RootCmd.AddCommand(countCmd)
}
