// Package cmd implements the CLI (C11): a cobra root command plus batch,
// unique and count sub-commands, each building an internal/config.RunConfig
// from flags and handing it to the batcher/merge packages. The flag-accessor
// and preflight-check helpers below follow the call-site usage seen
// throughout mattheww95-LexicMap/lexicmap/cmd/index.go and bin.go
// (getFlagString, getFlagInt, checkError and friends), whose defining file
// wasn't part of the retrieved reference pack — only their call sites were,
// so the helpers here are written fresh in that same idiom rather than
// copied.
package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"

	"github.com/ggirelli/kman/internal/kerrors"
)

// checkError prints err and exits 1 if it is non-nil, matching the
// teacher's own checkError(err) idiom used after every fallible CLI step.
func checkError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "kman: %s\n", err)
		os.Exit(1)
	}
}

func getFlagString(cmd *cobra.Command, flag string) string {
	v, err := cmd.Flags().GetString(flag)
	checkError(err)
	return v
}

func getFlagInt(cmd *cobra.Command, flag string) int {
	v, err := cmd.Flags().GetInt(flag)
	checkError(err)
	return v
}

func getFlagBool(cmd *cobra.Command, flag string) bool {
	v, err := cmd.Flags().GetBool(flag)
	checkError(err)
	return v
}

// getFlagPositiveInt is getFlagInt with the positive-value guard the
// teacher applies to flags like --kmer and --threads.
func getFlagPositiveInt(cmd *cobra.Command, flag string) int {
	v := getFlagInt(cmd, flag)
	if v <= 0 {
		checkError(fmt.Errorf("kman: flag --%s must be a positive integer, got %d", flag, v))
	}
	return v
}

// getFlagBatchSize parses a human-readable size flag (e.g. "1M", "500K")
// via dustin/go-humanize, matching the pack's own ParseBytes-style
// --batch-size surface (SPEC_FULL.md §5 "Memory").
func getFlagBatchSize(cmd *cobra.Command, flag string) int {
	s := getFlagString(cmd, flag)
	n, err := humanize.ParseBytes(s)
	if err != nil {
		checkError(fmt.Errorf("kman: invalid --%s %q: %w", flag, s, err))
	}
	if n == 0 {
		checkError(fmt.Errorf("kman: flag --%s must be positive, got %q", flag, s))
	}
	return int(n)
}

// checkInputExists preflights a FASTA input path: it must exist and must
// not be a directory.
func checkInputExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", kerrors.ErrInputNotFound, path)
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", kerrors.ErrInputNotFound, path)
	}
	return nil
}

// checkOutputEmpty preflights an output directory: if it exists already it
// must be empty, matching the non-zero-exit-on-non-empty-output-directory
// requirement for the batch dump and vector-mode outputs. Directory
// existence goes through shenwei356/util/pathutil, matching the teacher's
// own preflight style (DirExists, used the same way in
// lib-index-search.go's NewIndexSearcher).
func checkOutputEmpty(dir string) error {
	exists, err := pathutil.DirExists(dir)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return fmt.Errorf("%w: %s", kerrors.ErrOutputNotEmpty, dir)
	}
	return nil
}

// checkOutputFileAbsent preflights a single output file path (UNIQUE/
// SEQ_COUNT modes write one file, not a directory): it must not already
// exist, reusing ErrOutputNotEmpty for the "don't clobber" case.
func checkOutputFileAbsent(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s already exists", kerrors.ErrOutputNotEmpty, path)
	} else if !os.IsNotExist(err) {
		return err
	}
	return nil
}
