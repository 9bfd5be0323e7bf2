// Package stones implements per-gap stone confirmation and insertion
// (spec.md section 4.E), grounded on GapWalkerREZ.c's New_Confirm_Stones /
// Recompute_Scaffold_Header stages. It builds an overlap DAG over a gap's
// candidates using the aligner oracle, finds the longest geometrically
// consistent path, and inserts the surviving candidates into the scaffold
// graph.
package stones

import (
	"context"

	"github.com/marbl/canu-cns/aligner"
	"github.com/marbl/canu-cns/coord"
	"github.com/marbl/canu-cns/scaffoldgraph"
)

// Node is one confirmation-graph node: either a real gap-chunk candidate
// or one of the two flanking pseudo-candidates (spec.md section 4.E
// "plus the two flanks, included as pseudo-candidates").
type Node struct {
	ChunkIndex int // index into the gap's Chunks slice, or -1 for a flank.
	IsLeftFlank, IsRightFlank bool
	Position   coord.Position
	Sequence   []byte
}

// DAGEdge is a confirmed overlap between two nodes with a non-negative
// a-hang (spec.md section 4.E step 2: "using only edges with non-negative
// a-hang").
type DAGEdge struct {
	From, To int
	AHang    int
	Overlap  aligner.Overlap
}

// BuildOverlapEdges invokes the aligner oracle on every ordered pair of
// nodes whose position means lie within the slop window of each other
// (spec.md section 4.E step 1), producing at most one directed edge i->j
// per call: the overlap's own, kept when its a-hang is non-negative. No
// reversed or negated-a-hang copies are added, so a pair of nodes yields
// at most two edges. skipContained rejects any edge implying containment.
func BuildOverlapEdges(ctx context.Context, oracle aligner.Oracle, nodes []Node, errorRate, overlapEstK float64, skipContained bool) ([]DAGEdge, error) {
	var edges []DAGEdge
	for i := range nodes {
		for j := range nodes {
			if i == j {
				continue
			}
			slop := 30 + overlapEstK*estimateOverlap(nodes[i], nodes[j])
			if !withinSlop(nodes[i].Position, nodes[j].Position, slop) {
				continue
			}
			ov, err := oracle.Overlap(ctx, nodes[i].Sequence, nodes[j].Sequence, aligner.OverlapOpts{
				ErrorRate:         errorRate,
				AllowNegativeABeg: true,
				AllowPositiveBEnd: true,
			})
			if err != nil {
				return nil, err
			}
			if ov.Null() {
				continue
			}
			if skipContained && isContainment(ov) {
				continue
			}
			if ov.BegPos < 0 {
				continue // negative a-hang excluded from the path subgraph per step 2.
			}
			edges = append(edges, DAGEdge{From: i, To: j, AHang: ov.BegPos, Overlap: ov})
		}
	}
	return edges, nil
}

func estimateOverlap(a, b Node) float64 {
	d := a.Position.Mean - b.Position.Mean
	if d < 0 {
		d = -d
	}
	return d
}

func withinSlop(a, b coord.Position, slop float64) bool {
	d := a.Mean - b.Mean
	if d < 0 {
		d = -d
	}
	return d <= slop
}

func isContainment(ov aligner.Overlap) bool {
	return ov.BegPos <= 0 && ov.EndPos >= 0
}
