package stones

import (
	"context"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/marbl/canu-cns/aligner"
	"github.com/marbl/canu-cns/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOracle confirms an overlap between any two sequences tagged as
// adjacent in a caller-supplied map, returning a null overlap otherwise.
type fakeOracle struct {
	confirms map[[2]int]aligner.Overlap
	seqIndex map[string]int
}

func (f *fakeOracle) Overlap(ctx context.Context, a, b []byte, opts aligner.OverlapOpts) (aligner.Overlap, error) {
	ai, aok := f.seqIndex[string(a)]
	bi, bok := f.seqIndex[string(b)]
	if !aok || !bok {
		return aligner.Overlap{}, nil
	}
	if ov, ok := f.confirms[[2]int{ai, bi}]; ok {
		return ov, nil
	}
	return aligner.Overlap{}, nil
}

// TestStonePathPruning exercises spec.md end-to-end scenario 6: four
// stone candidates in one gap where the aligner confirms two disjoint
// paths of length 3 and 2; the longest path from the left to the right
// flank runs through the 3-path and leaves out the 2-path.
func TestStonePathPruning(t *testing.T) {
	// Nodes: 0=leftFlank, 1,2,3 form the 3-path (via flank), 4=rightFlank
	// is reached only from node 3; nodes 5,6 form a disjoint 2-path that
	// never reaches the right flank.
	seqs := []string{"LEFT", "N1", "N2", "N3", "RIGHT", "N5", "N6"}
	idx := map[string]int{}
	for i, s := range seqs {
		idx[s] = i
	}
	nodes := make([]Node, len(seqs))
	for i, s := range seqs {
		nodes[i] = Node{Position: coord.Position{Mean: float64(i) * 5, Variance: 1}, Sequence: []byte(s)}
	}
	leftFlank, rightFlank := 0, 4

	oracle := &fakeOracle{seqIndex: idx, confirms: map[[2]int]aligner.Overlap{
		{0, 1}: {BegPos: 0, EndPos: 0, Length: 50, Diffs: 0, ErrorRate: 0, Trace: []aligner.TraceOp{{Kind: aligner.Match, Len: 50}}},
		{1, 2}: {BegPos: 0, EndPos: 0, Length: 50, Trace: []aligner.TraceOp{{Kind: aligner.Match, Len: 50}}},
		{2, 3}: {BegPos: 0, EndPos: 0, Length: 50, Trace: []aligner.TraceOp{{Kind: aligner.Match, Len: 50}}},
		{3, 4}: {BegPos: 0, EndPos: 0, Length: 50, Trace: []aligner.TraceOp{{Kind: aligner.Match, Len: 50}}},
		{5, 6}: {BegPos: 0, EndPos: 0, Length: 50, Trace: []aligner.TraceOp{{Kind: aligner.Match, Len: 50}}},
	}}

	edges, err := BuildOverlapEdges(context.Background(), oracle, nodes, 0.06, 0, false)
	require.NoError(t, err)

	path := LongestPath(nodes, edges, leftFlank, rightFlank, 5)
	require.NotNil(t, path)
	expect.EQ(t, []int{0, 1, 2, 3, 4}, path)

	// Node 5/6 never reach the right flank, so without partial paths they
	// are simply absent from the winning path (dropped, per scenario 6).
	for _, idx := range path {
		assert.NotEqual(t, 5, idx)
		assert.NotEqual(t, 6, idx)
	}
}

func TestCheckOrderingDetectsConflict(t *testing.T) {
	nodes := []Node{{Position: coord.Position{Mean: 0}}, {Position: coord.Position{Mean: 100}}, {Position: coord.Position{Mean: 200}}}
	edges := []DAGEdge{
		{From: 0, To: 1, Overlap: aligner.Overlap{Length: 50}},
		{From: 1, To: 2, Overlap: aligner.Overlap{Length: 50}},
	}
	expect.True(t, checkOrdering(nodes, edges, []int{0, 1, 2}))

	// An edge from node 2 back to node 0 conflicts with the path order.
	conflicting := append(edges, DAGEdge{From: 2, To: 0, Overlap: aligner.Overlap{Length: 50}})
	expect.False(t, checkOrdering(nodes, conflicting, []int{0, 1, 2}))
}
