// Package aligner defines the pairwise-aligner oracle this core treats as
// an external collaborator (spec.md section 1: "the low-level pairwise
// aligner (treated as an oracle returning begin/end hangs, a trace, and an
// error rate)"). Production alignment is out of scope for this repo; it
// ships only the Oracle interface and a reference banded dynamic-
// programming implementation used by this repo's own tests.
package aligner

import "context"

// TraceKind identifies one step of an alignment's edit script.
type TraceKind int

const (
	// Match consumes Len bases from both sequences (may include
	// mismatches; an edit script does not distinguish match from
	// substitution, matching the source aligner's trace convention).
	Match TraceKind = iota
	// InsertInA consumes Len bases from sequence A only: a gap must be
	// opened in B (equivalently, a new column inserted into consensus
	// when B is the frankenstein).
	InsertInA
	// InsertInB consumes Len bases from sequence B only: a gap bead must
	// be placed in A's fragment.
	InsertInB
)

// TraceOp is one run-length-encoded step of an alignment's edit script.
type TraceOp struct {
	Kind TraceKind
	Len  int
}

// OverlapOpts parameterizes one oracle call.
type OverlapOpts struct {
	// ErrorRate is the maximum fraction of differences per aligned base
	// the oracle will accept before rejecting the overlap as null.
	ErrorRate float64
	// AllowNegativeABeg permits the overlap to begin before position 0 of
	// sequence A (a negative a-hang).
	AllowNegativeABeg bool
	// MaxNegativeABeg bounds how far before position 0 the overlap may
	// begin, when AllowNegativeABeg is set.
	MaxNegativeABeg int
	// AllowPositiveBEnd permits the overlap to end after the end of
	// sequence B (a positive b-hang).
	AllowPositiveBEnd bool
}

// Overlap is the oracle's result for one pairwise alignment attempt.
type Overlap struct {
	// BegPos is the signed offset of the start of the overlap in A
	// relative to the start of B (the a-hang): positive means A begins
	// before B, negative means B begins before A.
	BegPos int
	// EndPos is the signed offset of the end of the overlap in A
	// relative to the end of B (the b-hang): positive means A ends after
	// B.
	EndPos int
	// Length is the number of aligned base-pairs (both sequences, since
	// they're the same after applying the trace).
	Length int
	// Diffs is the number of mismatching/indel bases in the alignment.
	Diffs int
	// ErrorRate is Diffs / Length.
	ErrorRate float64
	// Trace is the edit script transforming A into B over the aligned
	// region.
	Trace []TraceOp
}

// Null reports whether this is the oracle's "no overlap found" result.
func (o Overlap) Null() bool { return o.Length == 0 && len(o.Trace) == 0 }

// Oracle is the external pairwise aligner collaborator.
type Oracle interface {
	// Overlap attempts to align a against b under opts, returning the
	// null Overlap (Length 0) if no acceptable alignment exists.
	Overlap(ctx context.Context, a, b []byte, opts OverlapOpts) (Overlap, error)
}
