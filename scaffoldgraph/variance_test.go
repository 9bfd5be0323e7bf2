package scaffoldgraph

import (
	"testing"

	"github.com/marbl/canu-cns/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContig(s *InMemoryStore, aMean, aVar, bMean, bVar float64) ContigID {
	return s.AddContig(Contig{
		EndA: coord.Position{Mean: aMean, Variance: aVar},
		EndB: coord.Position{Mean: bMean, Variance: bVar},
	})
}

func TestForceIncreasingVariancesScaffold(t *testing.T) {
	s := NewInMemoryStore()
	c1 := newContig(s, 0, 5, 100, 1) // variances out of order left to right
	c2 := newContig(s, 100, 2, 200, 8)
	c3 := newContig(s, 200, 20, 300, 15)
	sid := s.AddScaffold([]ContigID{c1, c2, c3})

	require.NoError(t, ForceIncreasingVariances(s, sid))

	contigs := make([]*Contig, 0, 3)
	for _, cid := range []ContigID{c1, c2, c3} {
		c, ok := s.Contig(cid)
		require.True(t, ok)
		contigs = append(contigs, c)
	}
	for i := 1; i < len(contigs); i++ {
		left, right := contigs[i-1], contigs[i]
		assert.GreaterOrEqual(t, right.MinVariance()+coord.Epsilon, left.MaxVariance())
	}
}

func TestForceIncreasingVariancesMissingScaffoldNoop(t *testing.T) {
	s := NewInMemoryStore()
	assert.NoError(t, ForceIncreasingVariances(s, ScaffoldID(42)))
}

func TestConnectedComponentsSplitsOnBrokenLink(t *testing.T) {
	s := NewInMemoryStore()
	c1 := newContig(s, 0, 1, 100, 2)
	c2 := newContig(s, 100, 2, 200, 3)
	c3 := newContig(s, 200, 3, 300, 4)
	sid := s.AddScaffold([]ContigID{c1, c2, c3})

	// Only c1-c2 has a trusted linking edge; c2-c3 has none, so the
	// all-edges subgraph should split off c3 on its own.
	s.AddEdge(Edge{From: c1, To: c2, EdgesContributing: 3})

	created := SplitIfDisconnected(s, sid)
	require.Len(t, created, 2)

	var sizes []int
	for _, id := range created {
		sc, ok := s.Scaffold(id)
		require.True(t, ok)
		sizes = append(sizes, len(sc.Contigs))
	}
	assert.ElementsMatch(t, []int{2, 1}, sizes)

	c3Contig, ok := s.Contig(c3)
	require.True(t, ok)
	assert.NotEqual(t, sid, c3Contig.Scaffold, "split contig must point at its new scaffold")
}

func TestConnectedComponentsSingleComponentNoSplit(t *testing.T) {
	s := NewInMemoryStore()
	c1 := newContig(s, 0, 1, 100, 2)
	c2 := newContig(s, 100, 2, 200, 3)
	sid := s.AddScaffold([]ContigID{c1, c2})
	s.AddEdge(Edge{From: c1, To: c2, EdgesContributing: 2})

	created := SplitIfDisconnected(s, sid)
	assert.Nil(t, created)
}

func TestTrustedEdgeExcludesBogusAndSloppy(t *testing.T) {
	assert.True(t, TrustedEdge(&Edge{}))
	assert.False(t, TrustedEdge(&Edge{ProbablyBogus: true}))
	assert.False(t, TrustedEdge(&Edge{Sloppy: true}))
}
