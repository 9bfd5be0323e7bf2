// Package olappath implements the overlap path engine (spec.md section
// 4.B): a bounded, memoized DFS over the contig graph, looking for a path
// of overlaps from a source contig that hits as many target contigs as
// possible within a distance bound, optionally required to reach a
// destination contig.
//
// The traversal is hand-rolled rather than built on a generic graph
// library (katalvlaran-lvlath was read for algorithm shape, see DESIGN.md)
// because admissibility, pruning, and target-hit testing all need
// domain-specific per-edge fields a generic vertex/edge model has no slot
// for; the shape is grounded on GapWalkerREZ.c's bounded
// Find_Olap_Path-style walk.
package olappath

import (
	"context"
	"math"

	"github.com/grailbio/base/log"
)

// NodeID identifies a node (contig) in the graph being walked. Callers
// adapt their own contig id type to NodeID at the call site.
type NodeID int32

// End is one end of a contig, the side a path enters or exits through.
type End uint8

const (
	EndA End = iota
	EndB
)

// Opposite returns the other end.
func (e End) Opposite() End {
	if e == EndA {
		return EndB
	}
	return EndA
}

// EdgeKind classifies an edge for the admissibility mask.
type EdgeKind uint8

const (
	KindOverlap EdgeKind = iota
	KindTandemOverlap
	KindContainmentOverlap
)

// EdgeKindMask selects which edge kinds a walk may traverse (spec.md
// section 4.B "respect the edge-kind mask").
type EdgeKindMask uint8

const (
	// AllowTandemOverlap permits tandem-overlap edges.
	AllowTandemOverlap EdgeKindMask = 1 << iota
	// AllowContainmentOverlap permits containment-overlap edges at any
	// step.
	AllowContainmentOverlap
	// AllowContainmentAtEnds permits containment-overlap edges only when
	// the step is the first edge out of the source, or lands on a target
	// or the destination (an approximation of "first or last step" that
	// does not require knowing the final path length in advance).
	AllowContainmentAtEnds
)

// Edge is one outgoing edge from a node.
type Edge struct {
	To               NodeID
	ArrivalEnd       End // which end of To this edge arrives at
	DistanceMean     float64
	DistanceVariance float64
	FragmentLength   float64 // length contribution of the edge's own evidence, for variance bookkeeping
	Kind             EdgeKind
	ProbablyBogus    bool
}

// Graph is the contig graph the walk traverses. Implementations adapt a
// scaffoldgraph.Store (or any other contig graph) to this narrow
// interface.
type Graph interface {
	// OutEdges returns the admissible-candidate outgoing edges from node,
	// exiting through exitEnd.
	OutEdges(node NodeID, exitEnd End) []Edge
	// Length returns node's own length, used for the distance-bound
	// pruning test and for accumulating the fragment-length sum.
	Length(node NodeID) float64
}

// Target is one contig the walk is trying to hit, with its expected
// arrival window and required arrival orientation.
type Target struct {
	Node         NodeID
	Low, High    float64
	RequiredEnd  End
}

// NilNode is the sentinel "no destination" node id.
const NilNode NodeID = -1

// Params configures one Find call.
type Params struct {
	Source      NodeID
	ExitEnd     End
	Destination NodeID // NilNode if there is none
	Targets     []Target
	Bound       float64
	Mask        EdgeKindMask
	MaxCalls    int
}

// Hit records one target the chosen path reached, in traversal order.
type Hit struct {
	Node              NodeID
	PathLength        float64
	FragmentLengthSum float64
}

// Result is the outcome of a Find call.
type Result struct {
	// Found is true if params.Destination was reached (when set) or at
	// least one target was hit (when Destination is NilNode).
	Found bool
	Hits  []Hit
}

// Find runs the bounded, memoized DFS described in spec.md section 4.B.
// It terminates in at most params.MaxCalls node expansions (property 4);
// passing MaxCalls=1 forces failure.
func Find(ctx context.Context, g Graph, p Params) Result {
	w := &walker{
		ctx:      ctx,
		g:        g,
		params:   p,
		state:    map[NodeID]*nodeState{},
		callsLeft: p.MaxCalls,
	}
	res := w.visit(p.Source, p.ExitEnd, 0, g.Length(p.Source))
	if res == nil {
		return Result{}
	}
	found := res.reachedDestination
	if p.Destination == NilNode {
		found = res.targetHits > 0
	}
	return Result{Found: found, Hits: res.hits}
}

type nodeState struct {
	visited  bool
	finished bool
	memo     *pathResult
}

type pathResult struct {
	targetHits          int
	hits                []Hit
	reachedDestination bool
}

func firstHitDistance(r *pathResult) float64 {
	if r == nil || len(r.hits) == 0 {
		return math.Inf(1)
	}
	return r.hits[0].PathLength
}

func better(a, b *pathResult) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	if a.targetHits != b.targetHits {
		return a.targetHits > b.targetHits
	}
	return firstHitDistance(a) < firstHitDistance(b)
}

type walker struct {
	ctx       context.Context
	g         Graph
	params    Params
	state     map[NodeID]*nodeState
	callsLeft int
}

// visit is the memoized, call-bounded DFS step. It returns nil when the
// call budget is exhausted or the node is a currently-active ancestor (a
// back edge, cut per spec.md section 4.B).
func (w *walker) visit(node NodeID, exitEnd End, cumDist, cumFrag float64) *pathResult {
	if w.callsLeft <= 0 {
		if log.At(log.Debug) {
			log.Debug.Printf("olappath: call budget exhausted at node=%d", node)
		}
		return nil
	}
	w.callsLeft--

	st := w.state[node]
	if st == nil {
		st = &nodeState{}
		w.state[node] = st
	}
	if st.finished {
		return st.memo
	}
	if st.visited {
		if log.At(log.Debug) {
			log.Debug.Printf("olappath: back edge cut at node=%d", node)
		}
		return nil // back edge: node is on the active stack.
	}
	st.visited = true
	defer func() { st.finished = true; st.visited = false }()

	var ownHit *Hit
	for i := range w.params.Targets {
		t := &w.params.Targets[i]
		if t.Node == node && exitEnd.Opposite() == t.RequiredEnd && cumDist >= t.Low && cumDist <= t.High {
			ownHit = &Hit{Node: node, PathLength: cumDist, FragmentLengthSum: cumFrag}
			if log.At(log.Debug) {
				log.Debug.Printf("olappath: target hit node=%d dist=%.1f", node, cumDist)
			}
			break
		}
	}
	ownReachedDestination := w.params.Destination != NilNode && node == w.params.Destination

	result := &pathResult{reachedDestination: ownReachedDestination}
	if ownHit != nil {
		result.targetHits = 1
		result.hits = []Hit{*ownHit}
	}

	// Pruning: once remaining budget to the bound is exhausted, stop
	// descending but keep whatever this node itself contributed.
	if cumDist-w.g.Length(node) > w.params.Bound {
		st.memo = result
		return result
	}

	isFirstStep := node == w.params.Source

	var chosen *pathResult
	for _, e := range w.g.OutEdges(node, exitEnd) {
		if e.ProbablyBogus {
			continue
		}
		if !w.admissible(e, isFirstStep) {
			continue
		}
		nextLen := cumDist + e.DistanceMean
		reachesDestination := w.params.Destination != NilNode && e.To == w.params.Destination
		if nextLen <= cumDist && !reachesDestination {
			continue // no forward progress, and this step doesn't land on the destination.
		}
		child := w.visit(e.To, e.ArrivalEnd.Opposite(), nextLen, cumFrag+w.g.Length(e.To))
		if child == nil {
			continue
		}
		if better(child, chosen) {
			chosen = child
		}
	}

	if chosen != nil {
		result.targetHits += chosen.targetHits
		result.hits = append(append([]Hit{}, result.hits...), chosen.hits...)
		result.reachedDestination = result.reachedDestination || chosen.reachedDestination
	}

	st.memo = result
	return result
}

func (w *walker) admissible(e Edge, isFirstStep bool) bool {
	switch e.Kind {
	case KindTandemOverlap:
		return w.params.Mask&AllowTandemOverlap != 0
	case KindContainmentOverlap:
		if w.params.Mask&AllowContainmentOverlap != 0 {
			return true
		}
		if w.params.Mask&AllowContainmentAtEnds != 0 && isFirstStep {
			return true
		}
		return w.params.Mask&AllowContainmentAtEnds != 0 && w.isTargetOrDestination(e.To)
	default:
		return true
	}
}

func (w *walker) isTargetOrDestination(n NodeID) bool {
	if n == w.params.Destination {
		return true
	}
	for _, t := range w.params.Targets {
		if t.Node == n {
			return true
		}
	}
	return false
}
