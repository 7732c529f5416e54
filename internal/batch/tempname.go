package batch

import (
	"fmt"
	"hash/fnv"
	"sync/atomic"
	"time"
)

var tempNameCounter uint64

// newTempPath generates a batch file name with a hash-of-time prefix (per
// SPEC_FULL.md §6.5), combining the current time with a monotonic counter so
// that batches created within the same nanosecond never collide.
func newTempPath(dir, suffix string) string {
	seq := atomic.AddUint64(&tempNameCounter, 1)
	h := fnv.New64a()
	fmt.Fprintf(h, "%d-%d", time.Now().UnixNano(), seq)
	return fmt.Sprintf("%s/%x%s", dir, h.Sum64(), suffix)
}
