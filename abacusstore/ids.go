// Package abacusstore implements the arena-style stores backing one
// unitig's multi-alignment: beads, columns, fragments, and the read
// sequence/quality buffers. Every cross-reference between these entities is
// a stable integer index into its owning arena, never a pointer, because an
// arena may relocate its backing slice on growth (spec.md section 3
// "Ownership", section 9 "Arena indices vs pointers"). The index-addressable
// store pattern is grounded on markduplicates/duplicate_index.go's
// IndexedSingle/IndexedPair id style, generalized to an explicit growable
// arena per entity kind.
package abacusstore

// ReadID identifies an input read. Reads are immutable for the run
// (spec.md section 3 "Read").
type ReadID int32

// BeadID indexes the process-wide bead arena. Ids start at 0; the sentinel
// NilBead (-1) is never a valid bead.
type BeadID int32

// NilBead is the sentinel "no bead" id, the newtype analogue of the
// source's piid == -1 sentinel (spec.md section 9 "Exception-free control").
const NilBead BeadID = -1

// ColumnID indexes the process-wide column arena. NilColumn is the sentinel
// "no column" id.
type ColumnID int32

// NilColumn is the sentinel "no column" id.
const NilColumn ColumnID = -1

// FragmentID indexes the process-wide fragment arena. NilFragment is the
// sentinel "no fragment" id, used in particular for Fragment.Parent when a
// fragment has no named parent.
type FragmentID int32

// NilFragment is the sentinel "no fragment" id.
const NilFragment FragmentID = -1
