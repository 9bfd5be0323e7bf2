// Package gapfill implements safe-chunk (rock) and weak-evidence (stone)
// candidate selection for a scaffold's gaps (spec.md section 4.D), grounded
// on GapWalkerREZ.c's Scaffold_Fill / Compute_Stone stages and following
// this repo's error-handling idiom (github.com/pkg/errors) and logging
// idiom (grailbio/base/log).
package gapfill

import (
	"github.com/marbl/canu-cns/coord"
	"github.com/marbl/canu-cns/scaffoldgraph"
)

// Candidate is an unplaced contig being considered for insertion into a
// specific gap (spec.md section 3 "Gap-Chunk" realized as a candidate
// under evaluation, before it becomes a scaffoldgraph.GapChunk).
type Candidate struct {
	ContigID scaffoldgraph.ContigID
	CoverStat float64
	Singleton bool

	Stack []scaffoldgraph.StackEntry

	// JoinCandidate is set when the stack has good evidence from two
	// distinct scaffolds (spec.md section 4.D step 3: "diverted to
	// scaffold-join tracking instead").
	JoinCandidate bool
	JoinScaffoldA, JoinScaffoldB scaffoldgraph.ScaffoldID

	// Resolved placement, once ends estimation succeeds.
	Scaffold scaffoldgraph.ScaffoldID
	Start, End coord.Position
	RefVariance float64
	Flipped bool

	GoodLinks int
	BadLinks  int

	// CopyLetter distinguishes multiple placements of the same contig
	// emitted by ResolveStones (spec.md section 3 "Gap-Chunk"); zero for
	// rocks, which place at most once.
	CopyLetter byte
}

// StackBuilder accumulates mate-link evidence for one unplaced contig
// across its edges (spec.md section 4.D Safe-chunk selection step 1-2).
type StackBuilder struct {
	store scaffoldgraph.Store
	cand  scaffoldgraph.ContigID
}

// NewStackBuilder begins collecting evidence for an unplaced contig.
func NewStackBuilder(store scaffoldgraph.Store, cand scaffoldgraph.ContigID) *StackBuilder {
	return &StackBuilder{store: store, cand: cand}
}

// Build scans the candidate's mate-link edges and returns the raw stack:
// one entry per edge that survives the basic admissibility filter
// (not probablyBogus, not sloppy, anchor side is uniquely scaffolded).
func (b *StackBuilder) Build() []scaffoldgraph.StackEntry {
	edges := b.store.Edges(b.cand)
	stack := make([]scaffoldgraph.StackEntry, 0, len(edges))
	for _, e := range edges {
		if e.ProbablyBogus || e.Sloppy {
			continue
		}
		anchorID := e.To
		leftLink := true
		if anchorID == b.cand {
			anchorID = e.From
			leftLink = false
		}
		anchor, ok := b.store.Contig(anchorID)
		if !ok || anchor.Scaffold == scaffoldgraph.NilScaffold {
			continue
		}
		good := e.GoodMateCount()
		if good == 0 {
			continue
		}
		leftEnd, rightEnd := impliedEnds(anchor, e, leftLink)
		stack = append(stack, scaffoldgraph.StackEntry{
			AnchorScaffold: anchor.Scaffold,
			GoodMates:      good,
			LeftEnd:        leftEnd,
			RightEnd:       rightEnd,
			Flipped:        e.Orientation == scaffoldgraph.ABBA || e.Orientation == scaffoldgraph.BABA,
			LeftLink:       leftLink,
			SourceVariance: anchor.MinVariance(),
			EdgeVariance:   e.Distance.Variance,
		})
	}
	return stack
}

// impliedEnds computes the candidate's implied (left_end, right_end) in
// scaffold coordinates from one anchor edge (spec.md section 4.D step 2).
func impliedEnds(anchor *scaffoldgraph.Contig, e *scaffoldgraph.Edge, leftLink bool) (coord.Position, coord.Position) {
	anchorPos := anchor.Max()
	if leftLink {
		left := anchorPos.Add(e.Distance.Mean, e.Distance.Variance)
		return left, left
	}
	anchorPos = anchor.Min()
	right := anchorPos.Add(-e.Distance.Mean, e.Distance.Variance)
	return right, right
}
