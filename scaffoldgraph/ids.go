// Package scaffoldgraph is the shared data model for gap-fill placement
// and stone confirmation (spec.md section 3: Contig, Scaffold, Edge, Gap,
// Gap-Chunk, Stack entry, Scaffold-Join record). Like abacusstore, every
// cross-reference is a stable typed-integer index into an arena owned by
// Store, never a pointer (spec.md section 9).
package scaffoldgraph

// ContigID indexes the contig arena.
type ContigID int32

// NilContig is the sentinel "no contig" id, used for a gap's flanking
// contig when the gap is at a scaffold end (spec.md section 4.D "Gap 0 is
// a sentinel left end").
const NilContig ContigID = -1

// ScaffoldID indexes the scaffold arena.
type ScaffoldID int32

// NilScaffold is the sentinel "no scaffold" id.
const NilScaffold ScaffoldID = -1

// EdgeID indexes the edge arena.
type EdgeID int32

// GapChunkID indexes the gap-chunk arena.
type GapChunkID int32
