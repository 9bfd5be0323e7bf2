package gapfill

import (
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/marbl/canu-cns/config"
	"github.com/marbl/canu-cns/coord"
	"github.com/marbl/canu-cns/scaffoldgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildScaffold(s *scaffoldgraph.InMemoryStore, n int, spacing float64) scaffoldgraph.ScaffoldID {
	ids := make([]scaffoldgraph.ContigID, n)
	for i := 0; i < n; i++ {
		start := float64(i) * spacing
		ids[i] = s.AddContig(scaffoldgraph.Contig{
			Length: spacing - 100,
			EndA:   coord.Position{Mean: start, Variance: float64(i)},
			EndB:   coord.Position{Mean: start + spacing - 100, Variance: float64(i) + 1},
		})
	}
	return s.AddScaffold(ids)
}

// TestRockPlacement exercises spec.md end-to-end scenario 4: a single
// candidate with 3 mate-links to one scaffold, cover-stat = 5, should be
// kept and filed into its nearest gap with monotonic scaffold variance.
func TestRockPlacement(t *testing.T) {
	s := scaffoldgraph.NewInMemoryStore()
	sidA := buildScaffold(s, 3, 1000)
	_ = buildScaffold(s, 3, 1000) // a second, unrelated scaffold

	sc, _ := s.Scaffold(sidA)
	anchor := sc.Contigs[1]

	candidate := s.AddContig(scaffoldgraph.Contig{Length: 500})
	s.AddEdge(scaffoldgraph.Edge{
		From:              anchor,
		To:                candidate,
		EdgesContributing: 3,
		Distance:          coord.Position{Mean: 1100, Variance: 2},
	})

	cfg := config.Default()
	cand := Candidate{ContigID: candidate, CoverStat: 5.0}
	cand.Stack = NewStackBuilder(s, candidate).Build()
	require.Len(t, cand.Stack, 1)

	fill := Run(s, sidA, []Candidate{cand}, cfg)

	totalChunks := 0
	for _, g := range fill.Gaps {
		totalChunks += len(g.Chunks)
	}
	assert.Equal(t, 1, totalChunks, "candidate should have been filed into exactly one gap")

	require.NoError(t, scaffoldgraph.ForceIncreasingVariances(s, sidA))
}

// TestJoinVeto exercises spec.md end-to-end scenario 5: a candidate with
// links to two scaffolds should be routed to join tracking, and a join
// whose affine relation disagrees by 10 sigma with a trusted edge must be
// marked violated and not filed.
func TestJoinVeto(t *testing.T) {
	s := scaffoldgraph.NewInMemoryStore()
	sidA := buildScaffold(s, 2, 1000)
	sidB := buildScaffold(s, 2, 1000)
	scA, _ := s.Scaffold(sidA)
	scB, _ := s.Scaffold(sidB)

	candidate := s.AddContig(scaffoldgraph.Contig{Length: 400})
	s.AddEdge(scaffoldgraph.Edge{From: scA.Contigs[1], To: candidate, EdgesContributing: 2, Distance: coord.Position{Mean: 500, Variance: 1}})
	s.AddEdge(scaffoldgraph.Edge{From: scB.Contigs[0], To: candidate, EdgesContributing: 2, Distance: coord.Position{Mean: 500, Variance: 1}})

	cand := Candidate{ContigID: candidate, CoverStat: 5.0}
	cand.Stack = NewStackBuilder(s, candidate).Build()
	require.Len(t, cand.Stack, 2)

	ok := ResolveRock(&cand, 2, 4)
	expect.False(t, ok)
	expect.True(t, cand.JoinCandidate)

	join := BuildJoin(&cand)
	trusted := coord.Position{Mean: join.B.Mean + 100, Variance: 1} // disagrees by far more than 3 sigma
	joins := []scaffoldgraph.ScaffoldJoin{join}
	CheckJoinsConsistent(joins, []coord.Position{trusted}, 5)

	expect.True(t, joins[0].Violated)
	expect.EQ(t, -1, FileJoin(nil, joins[0]))
}

// TestDeduplicateGap exercises testable property 6: duplicate killing.
func TestDeduplicateGap(t *testing.T) {
	gap := scaffoldgraph.Gap{
		Chunks: []scaffoldgraph.GapChunk{
			{ContigID: 7, Start: coord.Position{Mean: 100}, End: coord.Position{Mean: 200}},
			{ContigID: 7, Start: coord.Position{Mean: 110}, End: coord.Position{Mean: 205}}, // within 30bp: duplicate
			{ContigID: 7, Start: coord.Position{Mean: 500}, End: coord.Position{Mean: 600}}, // far away: distinct
			{ContigID: 9, Start: coord.Position{Mean: 105}, End: coord.Position{Mean: 202}}, // different contig: not a duplicate
		},
	}
	dropped := DeduplicateGap(&gap, 30)
	expect.EQ(t, 1, dropped)
	assert.Len(t, gap.Chunks, 3)
}

func TestBuildGapArraySentinels(t *testing.T) {
	s := scaffoldgraph.NewInMemoryStore()
	sid := buildScaffold(s, 3, 1000)
	gaps := BuildGapArray(s, sid, 50000)
	require.Len(t, gaps, 4) // n+1 gaps for 3 contigs
	expect.EQ(t, scaffoldgraph.NilContig, gaps[0].LeftCid)
	expect.EQ(t, scaffoldgraph.NilContig, gaps[len(gaps)-1].RightCid)
}
