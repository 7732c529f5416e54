package runtimex_test

import (
	"testing"

	"github.com/ggirelli/kman/internal/runtimex"
	"golang.org/x/sys/unix"
)

func TestRaiseFileLimitIsIdempotentBelowCurrent(t *testing.T) {
	var before unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &before); err != nil {
		t.Fatalf("Getrlimit: %v", err)
	}

	got, err := runtimex.RaiseFileLimit(before.Cur)
	if err != nil {
		t.Fatalf("RaiseFileLimit: %v", err)
	}
	if got != before.Cur {
		t.Fatalf("expected limit to stay at %d, got %d", before.Cur, got)
	}
}

func TestRaiseFileLimitClampsToHardLimit(t *testing.T) {
	var before unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &before); err != nil {
		t.Fatalf("Getrlimit: %v", err)
	}

	got, err := runtimex.RaiseFileLimit(before.Max + 1000)
	if err != nil {
		t.Fatalf("RaiseFileLimit: %v", err)
	}
	if got > before.Max {
		t.Fatalf("expected limit clamped to hard limit %d, got %d", before.Max, got)
	}
}
