// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package seqbase provides the ASCII sequence primitives the abacus needs
// when extracting a flipped fragment's original-orientation sequence for
// consensus round-trip checks (spec.md section 8 property 2). It is
// adapted from biosimd's reverse-complement family in the teacher repo,
// trimmed to the single ASCII-in/ASCII-out variant this core needs: the
// abacus only ever handles reads as ASCII base characters (spec.md section
// 3 "Read"), never the .bam 4-bit or 2-bit packed encodings biosimd also
// supports, so those variants are dropped rather than carried as dead code.
package seqbase

var revCompTable = [256]byte{}

func init() {
	for i := range revCompTable {
		revCompTable[i] = 'N'
	}
	pairs := map[byte]byte{'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A'}
	for upper, comp := range pairs {
		revCompTable[upper] = comp
		revCompTable[upper+('a'-'A')] = comp + ('a' - 'A')
	}
}

// ReverseComplement writes the reverse complement of src to dst, which must
// have the same length as src (it panics otherwise, matching
// ReverseComp8NoValidate's contract in the teacher). Bytes outside
// A/C/G/T/a/c/g/t map to 'N', mirroring the teacher's revComp8Table.
func ReverseComplement(dst, src []byte) {
	if len(dst) != len(src) {
		panic("seqbase: ReverseComplement requires len(dst) == len(src)")
	}
	n := len(src)
	for i, j := 0, n-1; i < n; i, j = i+1, j-1 {
		dst[i] = revCompTable[src[j]]
	}
}

// ReverseComplementInplace reverse-complements ascii in place.
func ReverseComplementInplace(ascii []byte) {
	n := len(ascii)
	half := n / 2
	for i, j := 0, n-1; i != half; i, j = i+1, j-1 {
		ascii[i], ascii[j] = revCompTable[ascii[j]], revCompTable[ascii[i]]
	}
	if n&1 == 1 {
		ascii[half] = revCompTable[ascii[half]]
	}
}

// Reverse writes the reverse of src (no complementing) to dst, used to
// reverse a quality string alongside ReverseComplement of its sequence.
func Reverse(dst, src []byte) {
	if len(dst) != len(src) {
		panic("seqbase: Reverse requires len(dst) == len(src)")
	}
	n := len(src)
	for i := 0; i < n; i++ {
		dst[i] = src[n-1-i]
	}
}
