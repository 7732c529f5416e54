package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ggirelli/kman/cmd"
)

// runCLI invokes RootCmd with args and fails the test if cobra reports an
// error. Flag values set by an earlier call are not reset: the tests run
// the same package-level *cobra.Command repeatedly.
func runCLI(t *testing.T, args ...string) {
	t.Helper()
	cmd.RootCmd.SetArgs(args)
	var stderr bytes.Buffer
	cmd.RootCmd.SetErr(&stderr)
	if err := cmd.RootCmd.Execute(); err != nil {
		t.Fatalf("kman %v: %v\n%s", args, err, stderr.String())
	}
}

func writeFastaFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fasta: %v", err)
	}
	return path
}

func TestCLIUniqueEndToEnd(t *testing.T) {
	tmp := t.TempDir()
	in := writeFastaFile(t, tmp, "in.fa", ">r1\nACGACG\n")
	out := filepath.Join(tmp, "unique.fa")

	runCLI(t, "unique", in, "-O", out, "-k", "3", "--tmp", tmp)

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, ">r1:1-4:+\nCGA\n") || !strings.Contains(got, ">r1:2-5:+\nGAC\n") {
		t.Fatalf("unexpected unique output:\n%s", got)
	}
	if strings.Contains(got, "ACG\n") {
		t.Fatalf("expected ACG (occurs twice) to be excluded:\n%s", got)
	}
}

func TestCLICountSeqCount(t *testing.T) {
	tmp := t.TempDir()
	in := writeFastaFile(t, tmp, "in.fa", ">a\nACAC\n")
	out := filepath.Join(tmp, "counts.tsv")

	runCLI(t, "count", in, "-O", out, "-k", "2", "--count-mode", "SEQ_COUNT", "--tmp", tmp)

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, "AC\t2\n") || !strings.Contains(got, "CA\t1\n") {
		t.Fatalf("unexpected seq-count output:\n%s", got)
	}
}

func TestCLIBatchDump(t *testing.T) {
	tmp := t.TempDir()
	in := writeFastaFile(t, tmp, "in.fa", ">r1\nACGTACGT\n")
	out := filepath.Join(tmp, "dump")

	runCLI(t, "batch", in, "-O", out, "-k", "4", "--tmp", tmp)

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatalf("read dump dir: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one dumped batch file")
	}
}
