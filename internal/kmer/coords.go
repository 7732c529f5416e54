package kmer

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/ggirelli/kman/internal/kerrors"
)

// headerPattern matches "ref:start-end:strand" per SPEC_FULL.md §4.9. The ref
// capture is greedy (".+") so a ref name itself containing ":" is still
// parsed correctly, since start/end/strand are anchored at the string's end.
var headerPattern = regexp.MustCompile(`^(.+):(\d+)-(\d+):([+-])$`)

// Coord is the parsed form of a KMer header string (C9).
type Coord struct {
	Ref    string
	Start  uint64
	End    uint64
	Strand Strand
}

// String renders the coordinate as "ref:start-end:strand".
func (c Coord) String() string {
	return fmt.Sprintf("%s:%d-%d:%s", c.Ref, c.Start, c.End, c.Strand)
}

// ParseCoord parses a header string of the form
// "^(?P<ref>.+):(?P<start>\d+)-(?P<end>\d+):(?P<strand>[+-])$".
func ParseCoord(header string) (Coord, error) {
	m := headerPattern.FindStringSubmatch(header)
	if m == nil {
		return Coord{}, kerrors.ErrMalformedHeader
	}
	start, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return Coord{}, kerrors.ErrMalformedHeader
	}
	end, err := strconv.ParseUint(m[3], 10, 64)
	if err != nil {
		return Coord{}, kerrors.ErrMalformedHeader
	}
	return Coord{
		Ref:    m[1],
		Start:  start,
		End:    end,
		Strand: Strand(m[4][0]),
	}, nil
}
