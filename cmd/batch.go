package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch <input.fasta>",
	Short: "scan a FASTA file into sorted k-mer batches and dump them",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input := args[0]
		checkError(checkInputExists(input))

		outDir := getFlagString(cmd, "out")
		checkError(checkOutputEmpty(outDir))
		checkError(os.MkdirAll(outDir, 0o755))

		cfg := buildRunConfig(cmd)
		b, err := scanOrReload(input, cfg)
		checkError(err)
		checkError(dumpBatches(b, outDir, getFlagBool(cmd, "compress")))
	},
}

func init() {
	addSharedFlags(batchCmd)
	batchCmd.Flags().Bool("compress", false, "gzip each dumped batch file")
	RootCmd.AddCommand(batchCmd)
}
