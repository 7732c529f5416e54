package abundance

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// splitVectorKey reverses vectorKey: ref and strand were joined with a NUL
// separator, which cannot occur in either a FASTA header or a strand label.
func splitVectorKey(key string) (ref string, strand byte) {
	i := strings.IndexByte(key, 0)
	if i < 0 {
		return key, 0
	}
	tail := key[i+1:]
	if len(tail) == 0 {
		return key[:i], 0
	}
	return key[:i], tail[0]
}

// writeVectorGz renders one (ref, strand) vector as "{ref}___{strand}.gz"
// under dir: a "# k={k}\n" header line then one integer per line, in
// position order starting at 0. Uses klauspost/compress/gzip, the pack's own
// faster drop-in for compress/gzip, rather than the stdlib package.
func writeVectorGz(dir string, ref string, strand byte, k int, vec []uint64) error {
	name := fmt.Sprintf("%s___%c.gz", ref, strand)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating abundance vector file %q", path)
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	bw := bufio.NewWriter(gw)

	if _, err := fmt.Fprintf(bw, "# k=%d\n", k); err != nil {
		return errors.Wrap(err, "writing abundance vector header")
	}
	for _, v := range vec {
		if _, err := fmt.Fprintf(bw, "%d\n", v); err != nil {
			return errors.Wrap(err, "writing abundance vector cell")
		}
	}

	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "flushing abundance vector writer")
	}
	return gw.Close()
}
