package aligner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandedOracleIdenticalSequences(t *testing.T) {
	o := BandedOracle{}
	ov, err := o.Overlap(context.Background(), []byte("ACGTACGT"), []byte("ACGTACGT"), OverlapOpts{ErrorRate: 0.1})
	require.NoError(t, err)
	assert.Equal(t, 0, ov.Diffs)
	assert.Equal(t, 8, ov.Length)
	assert.Equal(t, 0, ov.BegPos)
	assert.Equal(t, 0, ov.EndPos)
}

func TestBandedOracleOneBaseIndel(t *testing.T) {
	o := BandedOracle{}
	// B = A with an extra 'A' inserted after position 4.
	ov, err := o.Overlap(context.Background(), []byte("ACGTACGT"), []byte("ACGTAACGT"), OverlapOpts{ErrorRate: 0.3})
	require.NoError(t, err)
	assert.Equal(t, 1, ov.Diffs)
}

func TestBandedOracleRejectsHighErrorRate(t *testing.T) {
	o := BandedOracle{}
	ov, err := o.Overlap(context.Background(), []byte("AAAAAAAA"), []byte("TTTTTTTT"), OverlapOpts{ErrorRate: 0.05})
	require.NoError(t, err)
	assert.True(t, ov.Null())
}
