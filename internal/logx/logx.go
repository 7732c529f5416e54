// Package logx sets up the single leveled logger shared by the CLI and the
// core packages, built on github.com/shenwei356/go-logging the same way the
// teacher's own command tree configures its logger: a stderr backend, an
// optional file backend, and one leveled format string used everywhere.
package logx

import (
	"io"
	"os"

	logging "github.com/shenwei356/go-logging"
)

var log = logging.MustGetLogger("kman")

const logFormat = "%{color}[%{level:.4s}]%{color:reset} %{message}"

func init() {
	Setup(false, "")
}

// Setup (re)configures the package logger. verbose lowers the level to DEBUG;
// logFile, if non-empty, adds a second backend writing to that file in
// addition to stderr.
func Setup(verbose bool, logFile string) error {
	format := logging.MustStringFormatter(logFormat)

	stderrBackend := logging.NewLogBackend(os.Stderr, "", 0)
	stderrFormatter := logging.NewBackendFormatter(stderrBackend, format)

	backends := []logging.Backend{stderrFormatter}

	if logFile != "" {
		fh, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		fileBackend := logging.NewLogBackend(fh, "", 0)
		fileFormatter := logging.NewBackendFormatter(fileBackend, format)
		backends = append(backends, fileFormatter)
	}

	leveled := logging.SetBackend(backends...)
	level := logging.INFO
	if verbose {
		level = logging.DEBUG
	}
	leveled.SetLevel(level, "kman")
	logging.SetBackend(leveled)
	return nil
}

// Logger is the subset of the shenwei356/go-logging API the core packages
// depend on. Core packages import this package only for Logger and Discard
// and take a Logger value instead of calling Default, so they stay usable as
// a library without relying on the process-wide logging backend (see
// SPEC_FULL.md §7).
type Logger interface {
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Default returns the package-level logger configured by Setup.
func Default() Logger { return log }

// Discard is a Logger that does nothing; used as the zero value for core
// components constructed outside the CLI (e.g. in tests).
var Discard Logger = discard{}

type discard struct{}

func (discard) Infof(string, ...interface{})    {}
func (discard) Warningf(string, ...interface{}) {}
func (discard) Errorf(string, ...interface{})   {}

// DiscardWriter satisfies io.Writer for callers that need a throwaway sink
// (e.g. a disabled file backend during tests).
var DiscardWriter io.Writer = io.Discard
