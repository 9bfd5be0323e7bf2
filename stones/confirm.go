package stones

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/marbl/canu-cns/aligner"
	"github.com/marbl/canu-cns/coord"
	"github.com/marbl/canu-cns/scaffoldgraph"
)

// Result is the outcome of confirming one gap (spec.md section 4.E
// "Per-gap confirmation"): the indices (into the gap's Chunks) that should
// be kept, each with its recomputed position, plus the gap's adjustment.
type Result struct {
	Kept       map[int]scaffoldgraph.GapChunk
	Adjustment coord.Delta
}

// Confirm runs steps 1-6 of spec.md section 4.E over a single gap, given
// the already-built Node list (flank pseudo-nodes at index 0 and
// len(nodes)-1, one real node per candidate in between) and each real
// node's fudge-variance basis (its total overlap length to neighbors).
func Confirm(ctx context.Context, oracle aligner.Oracle, gap *scaffoldgraph.Gap, nodes []Node,
	leftFlank, rightFlank int, cfg ConfirmOpts) (Result, error) {

	edges, err := BuildOverlapEdges(ctx, oracle, nodes, cfg.ErrorRate, cfg.OverlapEstK, cfg.SkipContainedStones)
	if err != nil {
		return Result{}, errors.E(err, "stones: confirm overlap-edge construction failed")
	}

	path := LongestPath(nodes, edges, leftFlank, rightFlank, cfg.NumStdDevs)
	result := Result{Kept: map[int]scaffoldgraph.GapChunk{}}

	if path == nil {
		if !cfg.UsePartialPaths {
			return result, nil
		}
		isReal := func(i int) bool { return i != leftFlank && i != rightFlank }
		components := DetermineComponents(len(nodes), edges, leftFlank, rightFlank, isReal)
		for _, comp := range components {
			// Restrict the path search to this component's own edges so a
			// disjoint component can't borrow a route through another one.
			compEdges := edgesWithin(edges, comp.Nodes)
			root, dest := leftFlank, rightFlank
			if !comp.ReachesLeft {
				root = comp.Nodes[0]
			}
			if !comp.ReachesRight {
				dest = comp.Nodes[len(comp.Nodes)-1]
			}
			sub := LongestPath(nodes, compEdges, root, dest, cfg.NumStdDevs)
			if sub == nil {
				// No spanning path within this component; keep its
				// internal candidates positioned as estimated, without a
				// confirmed path, subject to the caller's variance budget.
				for _, idx := range comp.Nodes {
					if isReal(idx) {
						result.Kept[idx] = chunkFromNode(nodes[idx], false)
					}
				}
				continue
			}
			if !checkOrdering(nodes, edges, sub) {
				continue
			}
			for _, idx := range sub {
				if isReal(idx) {
					result.Kept[idx] = chunkFromNode(nodes[idx], true)
				}
			}
		}
		return result, nil
	}

	if !checkOrdering(nodes, edges, path) {
		return result, nil
	}

	cumDist := 0.0
	for i, idx := range path {
		if i > 0 {
			cumDist += edgeLength(edges, path[i-1], idx)
		}
		if idx == leftFlank || idx == rightFlank {
			continue
		}
		chunk := chunkFromNode(nodes[idx], true)
		chunk.Start = coord.Position{Mean: nodes[leftFlank].Position.Mean + cumDist, Variance: coord.FudgeVariance(cumDist, cfg.FudgeFactor)}
		chunk.End = coord.Position{Mean: chunk.Start.Mean + nodes[idx].Position.Mean, Variance: coord.FudgeVariance(cumDist+nodes[idx].Position.Mean, cfg.FudgeFactor)}
		result.Kept[idx] = chunk
	}

	totalLen := cumDist
	result.Adjustment = coord.Delta{Mean: totalLen, Variance: coord.FudgeVariance(totalLen, cfg.FudgeFactor)}
	return result, nil
}

// ConfirmOpts carries the config.Config fields Confirm needs, kept
// narrow so this package doesn't import the whole Config struct.
type ConfirmOpts struct {
	ErrorRate           float64
	OverlapEstK         float64
	SkipContainedStones bool
	UsePartialPaths     bool
	NumStdDevs          float64
	FudgeFactor         float64
}

func chunkFromNode(n Node, confirmed bool) scaffoldgraph.GapChunk {
	return scaffoldgraph.GapChunk{
		Start:         n.Position,
		End:           n.Position,
		Keep:          confirmed,
		PathConfirmed: confirmed,
	}
}

func edgesWithin(edges []DAGEdge, nodes []int) []DAGEdge {
	in := map[int]bool{}
	for _, n := range nodes {
		in[n] = true
	}
	var out []DAGEdge
	for _, e := range edges {
		if in[e.From] && in[e.To] {
			out = append(out, e)
		}
	}
	return out
}

func edgeLength(edges []DAGEdge, from, to int) float64 {
	for _, e := range edges {
		if e.From == from && e.To == to {
			return float64(e.Overlap.Length)
		}
	}
	return 0
}

// checkOrdering re-derives each node's effective left position from
// accumulated a-hangs and verifies no pair is ordered in conflict with the
// edges that connect them (spec.md section 4.E step 4 "Reorder and
// sanity").
func checkOrdering(nodes []Node, edges []DAGEdge, path []int) bool {
	pos := make(map[int]float64, len(path))
	cum := 0.0
	for i, idx := range path {
		if i > 0 {
			cum += edgeLength(edges, path[i-1], idx)
		}
		pos[idx] = cum
	}
	for _, e := range edges {
		pi, iok := pos[e.From]
		pj, jok := pos[e.To]
		if !iok || !jok {
			continue
		}
		if pi > pj {
			return false
		}
	}
	return true
}
