package cmd

import (
	"os"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// stageBar is a minimal staged progress bar (scan then join for
// unique/count, one stage per batch for the batch dump) shown only under
// --verbose, grounded on the teacher's own mpb setup in
// lib-index-build.go's buildAnIndex (mpb.New + PrependDecorators/
// AppendDecorators + bar.Increment). Resource-limit raising and progress
// display are both isolated as CLI-driver side effects per SPEC_FULL.md
// §4.13/§9, so core packages never import mpb themselves.
type stageBar struct {
	pbs *mpb.Progress
	bar *mpb.Bar
}

func newStageBar(name string, stages int64) *stageBar {
	if !verbose {
		return &stageBar{}
	}
	pbs := mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
	bar := pbs.AddBar(stages,
		mpb.PrependDecorators(
			decor.Name(name+": ", decor.WC{W: len(name) + 2, C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.Name(""), "done"),
		),
	)
	return &stageBar{pbs: pbs, bar: bar}
}

func (s *stageBar) advance() {
	if s.bar != nil {
		s.bar.Increment()
	}
}

func (s *stageBar) wait() {
	if s.pbs != nil {
		s.pbs.Wait()
	}
}
