// Package runtimex collects process-wide setup performed once at startup:
// raising the open-file soft limit so the parallel joiner (C6) can hold one
// descriptor per input batch group. Grounded on the pack's own use of
// golang.org/x/sys/unix for direct syscalls (muscato.go's unix.Mkfifo);
// Setrlimit is that same package's idiomatic entry point for this operation,
// not a stdlib fallback.
package runtimex

import "golang.org/x/sys/unix"

// RaiseFileLimit raises the process's RLIMIT_NOFILE soft limit to at least
// want, clamped to the hard limit, and returns the limit actually in effect.
// It's a no-op (other than the read) if the soft limit already covers want.
func RaiseFileLimit(want uint64) (uint64, error) {
	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlim); err != nil {
		return 0, err
	}
	if want > rlim.Max {
		want = rlim.Max
	}
	if rlim.Cur >= want {
		return rlim.Cur, nil
	}
	rlim.Cur = want
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &rlim); err != nil {
		return 0, err
	}
	return rlim.Cur, nil
}
