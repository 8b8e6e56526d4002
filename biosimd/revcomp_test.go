// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package biosimd_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/grailbio/pairmerge/biosimd"
	"github.com/grailbio/testutil/expect"
)

func reverseComp8Slow(src []byte) []byte {
	comp := map[byte]byte{
		'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A',
		'a': 'T', 'c': 'G', 'g': 'C', 't': 'A',
	}
	dst := make([]byte, len(src))
	for i, b := range src {
		c, ok := comp[b]
		if !ok {
			c = 'N'
		}
		dst[len(src)-1-i] = c
	}
	return dst
}

var revComp8RandTable = [...]byte{
	'A', 'C', 'G', 'T', 'N', 'a', 'c', 'g', 't', 'n', '0', 0}

func TestReverseComp8(t *testing.T) {
	maxSize := 500
	nIter := 200
	for iter := 0; iter < nIter; iter++ {
		src := make([]byte, rand.Intn(maxSize))
		for i := range src {
			src[i] = revComp8RandTable[rand.Intn(len(revComp8RandTable))]
		}
		want := reverseComp8Slow(src)

		dst := make([]byte, len(src))
		biosimd.ReverseComp8(dst, src)
		if !bytes.Equal(dst, want) {
			t.Fatalf("ReverseComp8(%q) = %q, want %q", src, dst, want)
		}
		expect.EQ(t, biosimd.ReverseComp8String(string(src)), string(want))
	}
}

func TestReverseComp8Examples(t *testing.T) {
	expect.EQ(t, biosimd.ReverseComp8String("CCCCCGGGGGTTTTTAAAAA"), "TTTTTAAAAACCCCCGGGGG")
	expect.EQ(t, biosimd.ReverseComp8String("TTTTTGGGGGCCCCCAAAAA"), "TTTTTGGGGGCCCCCAAAAA")
	expect.EQ(t, biosimd.ReverseComp8String("ACGTN"), "NACGT")
	expect.EQ(t, biosimd.ReverseComp8String(""), "")
}

func TestReverseComp8LengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("ReverseComp8 did not panic on mismatched lengths")
		}
	}()
	biosimd.ReverseComp8(make([]byte, 3), []byte("ACGT"))
}

func TestIsNPresent(t *testing.T) {
	for _, test := range []struct {
		seq  string
		want bool
	}{
		{"", false},
		{"ACGT", false},
		{"ACNGT", true},
		{"n", true},
		{"ACGTRY", false},
	} {
		expect.EQ(t, biosimd.IsNPresent(test.seq), test.want, "seq=%q", test.seq)
	}
}
