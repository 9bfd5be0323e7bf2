package scaffoldgraph

import "github.com/marbl/canu-cns/coord"

// Gap is the space between two flanking contigs in a scaffold (spec.md
// section 3 "Gap"). LeftCid/RightCid may be NilContig for a scaffold end.
type Gap struct {
	LeftCid, RightCid ContigID

	Start, End coord.Position
	// RefVariance is the variance of the left flank, the local origin for
	// variance arithmetic within this gap.
	RefVariance float64
	Len         float64

	// Adjustment must be added to everything right of this gap after
	// insertions (spec.md section 4.A "Delta propagation").
	Adjustment coord.Delta

	Chunks []GapChunk
}

// GapChunk is one placement candidate for a gap (spec.md section 3
// "Gap-Chunk").
type GapChunk struct {
	ID         GapChunkID
	ContigID   ContigID
	CopyLetter byte

	Start, End coord.Position
	Flipped    bool

	LinkCt    int
	CoverStat float64

	Keep          bool
	Best          bool
	Candidate     bool
	Split         bool
	PathConfirmed bool
	Visited       bool
	Finished      bool

	// Joiner marks a chunk that originated from a surviving scaffold-join
	// record (spec.md section 4.D "Surviving joins are filed into the
	// insert scaffold as ordinary gap candidates tagged with the joiner
	// marker").
	Joiner bool
}

// PositionsClose reports whether two chunks' (start,end) endpoints agree
// to within tol base pairs on both ends -- the duplicate-killing test from
// spec.md section 4.E and testable property 6.
func (c *GapChunk) PositionsClose(other *GapChunk, tol float64) bool {
	return absf(c.Start.Mean-other.Start.Mean) <= tol && absf(c.End.Mean-other.End.Mean) <= tol
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// StackEntry is one edge's placement evidence for a candidate contig
// (spec.md section 3 "Stack entry").
type StackEntry struct {
	AnchorScaffold ScaffoldID
	GoodMates      int
	LeftEnd        coord.Position
	RightEnd       coord.Position
	Flipped        bool
	LeftLink       bool
	IsBad          bool
	Partition      int

	// SourceVariance is the anchor contig's own end variance that this
	// estimate was derived from, used by ref-variance selection (spec.md
	// section 4.D step 4).
	SourceVariance float64
	EdgeVariance   float64
}

// ScaffoldJoin is a claim that two scaffolds should be joined (spec.md
// section 3 "Scaffold-Join record").
type ScaffoldJoin struct {
	CandidateContig ContigID
	ScaffoldA       ScaffoldID
	ScaffoldB       ScaffoldID

	// M is +1 or -1: the affine relation is y = M*x + B.
	M float64
	B coord.Position

	InsertStart, InsertEnd coord.Position
	LinkCount              int
	Violated               bool
}
