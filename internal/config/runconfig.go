// Package config implements the run configuration (C12): the flattened
// record every CLI sub-command builds from its flags (and an optional TOML
// overlay) before handing off to the core batcher/joiner packages. Grounded
// on the teacher's own IndexInfo/writeIndexInfo/readIndexInfo TOML round
// trip in lib-index-build.go.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/ggirelli/kman/internal/batcher"
	"github.com/ggirelli/kman/internal/merge"
	"github.com/ggirelli/kman/internal/natype"
)

// RunConfig flattens every flag a sub-command accepts into one record
// (SPEC_FULL.md §3/§9), the way a Batcher subclass hierarchy's
// attribute-by-attribute inheritance would otherwise have been represented.
type RunConfig struct {
	K               int           `toml:"k"`
	Reverse         bool          `toml:"reverse"`
	ScanMode        string        `toml:"scan_mode"`
	BatchSize       int           `toml:"batch_size"`
	BatchMode       string        `toml:"batch_mode"`
	PreviousBatches string        `toml:"previous_batches"`
	Threads         int           `toml:"threads"`
	TmpDir          string        `toml:"tmp_dir"`
	Compress        bool          `toml:"compress"`
	ReSort          bool          `toml:"re_sort"`
	CountMode       string        `toml:"count_mode"`
	MemoryMode      string        `toml:"memory_mode"`
	NAType          string        `toml:"na_type"`
}

// Default returns a RunConfig with every field at its documented default.
func Default() RunConfig {
	return RunConfig{
		K:          21,
		ScanMode:   "KMERS",
		BatchSize:  1_000_000,
		BatchMode:  "APPEND",
		Threads:    1,
		TmpDir:     os.TempDir(),
		CountMode:  "SEQ_COUNT",
		MemoryMode: "NORMAL",
		NAType:     "DNA",
	}
}

// LoadTOML reads path as a TOML overlay and merges it onto cfg: only fields
// present in the file are changed (go-toml/v2 unmarshals into the existing
// struct value, leaving absent keys untouched).
func LoadTOML(cfg RunConfig, path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config file %q", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config file %q", path)
	}
	return cfg, nil
}

// NAT parses the configured nucleic-acid alphabet.
func (c RunConfig) NAT() (natype.NAType, error) {
	t, ok := natype.Parse(c.NAType)
	if !ok {
		return 0, errors.Errorf("kman: unknown na-type %q", c.NAType)
	}
	return t, nil
}

// Scan parses the configured FASTA scan mode.
func (c RunConfig) Scan() (batcher.ScanMode, error) {
	m, ok := batcher.ParseScanMode(c.ScanMode)
	if !ok {
		return 0, errors.Errorf("kman: unknown scan mode %q", c.ScanMode)
	}
	return m, nil
}

// Feed parses the configured batch feed mode.
func (c RunConfig) Feed() (batcher.FeedMode, error) {
	m, ok := batcher.ParseFeedMode(c.BatchMode)
	if !ok {
		return 0, errors.Errorf("kman: unknown batch mode %q", c.BatchMode)
	}
	return m, nil
}

// Count parses the configured joiner reduction mode.
func (c RunConfig) Count() (merge.Mode, error) {
	m, ok := merge.ParseMode(c.CountMode)
	if !ok {
		return 0, errors.Errorf("kman: unknown count mode %q", c.CountMode)
	}
	return m, nil
}

// Memory parses the configured abundance-vector memory mode.
func (c RunConfig) Memory() (merge.MemoryMode, error) {
	m, ok := merge.ParseMemoryMode(c.MemoryMode)
	if !ok {
		return 0, errors.Errorf("kman: unknown memory mode %q", c.MemoryMode)
	}
	return m, nil
}
