package seqbase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReverseComplement(t *testing.T) {
	src := []byte("ACGTacgtN")
	dst := make([]byte, len(src))
	ReverseComplement(dst, src)
	assert.Equal(t, "NacgtACGT", string(dst))
}

func TestReverseComplementInplace(t *testing.T) {
	seq := []byte("ACGT")
	ReverseComplementInplace(seq)
	assert.Equal(t, "ACGT", string(seq)) // palindromic under revcomp
}

func TestReverse(t *testing.T) {
	src := []byte("IIIH##")
	dst := make([]byte, len(src))
	Reverse(dst, src)
	assert.Equal(t, "##HIII", string(dst))
}
