package merge

import (
	"io"
	"strconv"

	"github.com/grailbio/base/tsv"
)

// WriteStats writes the counters as a two-column "name<TAB>count" TSV, one
// counter per line, in a fixed order.
func WriteStats(w io.Writer, s Stats) (err error) {
	out := tsv.NewWriter(w)
	for _, c := range s.counters() {
		out.WriteString(c.name)
		out.WriteString(strconv.Itoa(c.n))
		if err = out.EndLine(); err != nil {
			return
		}
	}
	return out.Flush()
}
