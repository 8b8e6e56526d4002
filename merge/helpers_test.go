package merge

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/pairmerge/biosimd"
	"github.com/grailbio/pairmerge/encoding/fastq"
	"github.com/grailbio/testutil/assert"
	"github.com/klauspost/compress/gzip"
)

// testPair is a read pair. Both reads of a pair, and all reads of a file,
// have the same length.
type testPair struct {
	r1, r2 string
}

func randomBases(rnd *rand.Rand, n int) string {
	const bases = "ACGT"
	b := make([]byte, n)
	for i := range b {
		b[i] = bases[rnd.Intn(len(bases))]
	}
	return string(b)
}

// sequencePair simulates sequencing both ends of insert with reads of
// length readLen. Reads longer than the insert run into random adapter
// sequence.
func sequencePair(rnd *rand.Rand, insert string, readLen int) testPair {
	r1 := insert
	r2 := biosimd.ReverseComp8String(insert)
	if len(insert) < readLen {
		r1 += randomBases(rnd, readLen-len(insert))
		r2 += randomBases(rnd, readLen-len(insert))
	}
	return testPair{r1: r1[:readLen], r2: r2[:readLen]}
}

// testPairs generates n pairs with readLen-base reads, and a mix of full,
// partial and absent overlaps.
func testPairs(seed int64, n, readLen int) []testPair {
	rnd := rand.New(rand.NewSource(seed))
	pairs := make([]testPair, n)
	for i := range pairs {
		insertLen := readLen/2 + rnd.Intn(2*readLen)
		pairs[i] = sequencePair(rnd, randomBases(rnd, insertLen), readLen)
	}
	return pairs
}

// fastqData formats pairs as R1 and R2 FASTQ text. Every third record has a
// quality line that starts with '@'.
func fastqData(pairs []testPair) (string, string) {
	var b1, b2 bytes.Buffer
	w1, w2 := fastq.NewWriter(&b1), fastq.NewWriter(&b2)
	for i, p := range pairs {
		qual := strings.Repeat("I", len(p.r1))
		if i%3 == 0 {
			qual = "@" + qual[1:]
		}
		name := fmt.Sprintf("@pair%06d", i)
		// Writes to a bytes.Buffer do not fail.
		w1.Write(&fastq.Read{ID: name + "/1", Seq: p.r1, Qual: qual}) // nolint: errcheck
		w2.Write(&fastq.Read{ID: name + "/2", Seq: p.r2, Qual: qual}) // nolint: errcheck
	}
	return b1.String(), b2.String()
}

func writeFile(t *testing.T, path, data string, gzipped bool) {
	if !gzipped {
		assert.NoError(t, ioutil.WriteFile(path, []byte(data), 0600))
		return
	}
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(data))
	assert.NoError(t, err)
	assert.NoError(t, gz.Close())
	assert.NoError(t, ioutil.WriteFile(path, buf.Bytes(), 0600))
}

// writePairs writes pairs to dir/r1.fq and dir/r2.fq, with a .gz suffix if
// gzipped.
func writePairs(t *testing.T, dir string, pairs []testPair, gzipped bool) (string, string) {
	d1, d2 := fastqData(pairs)
	suffix := ".fq"
	if gzipped {
		suffix += ".gz"
	}
	r1 := filepath.Join(dir, "r1"+suffix)
	r2 := filepath.Join(dir, "r2"+suffix)
	writeFile(t, r1, d1, gzipped)
	writeFile(t, r2, d2, gzipped)
	return r1, r2
}

// recordStarts lists the offset of every record in FASTQ text.
func recordStarts(data string) []int64 {
	var (
		starts []int64
		off    int64
	)
	for i, line := range strings.SplitAfter(data, "\n") {
		if i%4 == 0 && line != "" {
			starts = append(starts, off)
		}
		off += int64(len(line))
	}
	return starts
}

func makeDir(dir string) error { return os.MkdirAll(dir, 0700) }
