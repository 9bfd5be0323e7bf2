package abacus

import (
	"context"

	"github.com/marbl/canu-cns/abacusstore"
	"github.com/marbl/canu-cns/aligner"
)

// AlignOpts parameterizes one alignFragment call (spec.md section 4.C
// "alignFragment"): the error rate tier in force, MIN_OVERLAP_LEN, and the
// a-hang/b-hang admissibility the caller allows for this strategy.
type AlignOpts struct {
	ErrorRate         float64
	MinOverlapLen     int
	AllowNegativeABeg bool
	MaxNegativeABeg   int
	AllowPositiveBEnd bool
}

// alignResult carries the oracle's overlap plus the window offset it was
// computed against, so applyAlignment can translate trace-relative
// indices back into frankenstein/bead coordinates.
type alignResult struct {
	overlap   aligner.Overlap
	windowBeg int
}

// alignFragment invokes the aligner oracle to align fragment sequence b
// against a window of frankenstein starting at est.BegCol, applying the
// retry cascade from spec.md section 4.C: if the returned overlap's begpos
// is more negative than allowed and there's still room to extend the
// window to the left, widen it and retry. The window always runs to the
// end of frankenstein, so a forbidden positive endpos is not retried; such
// an overlap is rejected.
func alignFragment(ctx context.Context, oracle aligner.Oracle, frank *Frankenstein, est Estimate, fragSeq []byte, opts AlignOpts) (alignResult, bool) {
	bgnExtra, endTrim := 0, 0
	for attempt := 0; attempt < 4; attempt++ {
		windowBeg := est.BegCol - bgnExtra
		if windowBeg < 0 {
			windowBeg = 0
		}
		windowEnd := len(frank.Bases) + endTrim
		if windowEnd > len(frank.Bases) {
			windowEnd = len(frank.Bases)
		}
		if windowBeg > windowEnd {
			windowBeg = windowEnd
		}
		window := frank.Bases[windowBeg:windowEnd]

		ov, err := oracle.Overlap(ctx, window, fragSeq, aligner.OverlapOpts{
			ErrorRate:         opts.ErrorRate,
			AllowNegativeABeg: opts.AllowNegativeABeg,
			MaxNegativeABeg:   opts.MaxNegativeABeg,
			AllowPositiveBEnd: opts.AllowPositiveBEnd,
		})
		if err != nil || ov.Null() {
			return alignResult{}, false
		}

		if !opts.AllowNegativeABeg && ov.BegPos < 0 && windowBeg > 0 {
			bgnExtra += -ov.BegPos + 10
			continue
		}
		if !opts.AllowPositiveBEnd && ov.EndPos > 0 && windowEnd < len(frank.Bases) {
			endTrim += ov.EndPos + 10
			continue
		}

		if rejected(ov, opts) {
			return alignResult{}, false
		}
		return alignResult{overlap: ov, windowBeg: windowBeg}, true
	}
	return alignResult{}, false
}

// rejected runs the four rejection tests of spec.md section 4.C
// "Rejection tests": null overlap (already handled by the caller),
// forbidden negative a-hang, forbidden positive b-hang, excessive error
// rate, or length below MIN_OVERLAP_LEN.
func rejected(ov aligner.Overlap, opts AlignOpts) bool {
	if !opts.AllowNegativeABeg && ov.BegPos < 0 {
		return true
	}
	if !opts.AllowPositiveBEnd && ov.EndPos > 0 {
		return true
	}
	if ov.Length > 0 && float64(ov.Diffs)/float64(ov.Length) > opts.ErrorRate {
		return true
	}
	if ov.Length < opts.MinOverlapLen {
		return true
	}
	return false
}

// applyAlignment consumes a confirmed alignResult, extending frankenstein
// on the right for a positive b-hang, splicing in gap columns for
// consensus insertions, and placing the fragment's beads column by column
// (spec.md section 4.C "applyAlignment").
func applyAlignment(frank *Frankenstein, manode *MANode, columns *abacusstore.ColumnStore, beads *abacusstore.BeadStore,
	frag *abacusstore.Fragment, fragID abacusstore.FragmentID, fragSeq, fragQual []byte, res alignResult) {

	col := res.windowBeg
	readPos := 0
	firstBead := abacusstore.NilBead
	var prevBead abacusstore.BeadID = abacusstore.NilBead
	begCol := col

	placeBead := func(base, qual byte) abacusstore.BeadID {
		var colID abacusstore.ColumnID
		if col < len(manode.Columns) {
			colID = manode.Columns[col]
		} else {
			colID = manode.AppendColumn(columns)
			frank.Append(base, abacusstore.NilBead)
		}
		id := beads.Add(abacusstore.Bead{
			Base: base, Quality: qual,
			PrevInRead: prevBead, NextInRead: abacusstore.NilBead,
			Column: colID, Fragment: fragID,
		})
		if prevBead != abacusstore.NilBead {
			beads.Get(prevBead).NextInRead = id
		}
		prevBead = id
		if firstBead == abacusstore.NilBead {
			firstBead = id
		}
		cc := columns.Get(colID)
		cc.Beads = append(cc.Beads, id)
		return id
	}

	for _, op := range res.overlap.Trace {
		switch op.Kind {
		case aligner.Match:
			for i := 0; i < op.Len; i++ {
				if readPos < len(fragSeq) {
					placeBead(fragSeq[readPos], qualAt(fragQual, readPos))
					readPos++
				}
				col++
			}
		case aligner.InsertInA:
			// Frankenstein (A) consumes a base the fragment (B) has no
			// match for here: the fragment gets a gap bead in the
			// existing column and the cursor advances without consuming
			// the fragment.
			for i := 0; i < op.Len; i++ {
				placeBead('-', 0)
				col++
			}
		case aligner.InsertInB:
			// The fragment (B) consumes a base frankenstein (A) doesn't
			// have yet: a new column must be spliced into frankenstein to
			// hold it, carrying the fragment's real base.
			for i := 0; i < op.Len && readPos < len(fragSeq); i++ {
				var prevColID abacusstore.ColumnID = abacusstore.NilColumn
				if col > 0 && col-1 < len(manode.Columns) {
					prevColID = manode.Columns[col-1]
				}
				newCol := manode.InsertColumnAfter(columns, prevColID)
				frank.InsertGapAt(col, fragSeq[readPos], abacusstore.NilBead)
				id := beads.Add(abacusstore.Bead{Base: fragSeq[readPos], Quality: qualAt(fragQual, readPos),
					PrevInRead: prevBead, NextInRead: abacusstore.NilBead,
					Column: newCol, Fragment: fragID})
				if prevBead != abacusstore.NilBead {
					beads.Get(prevBead).NextInRead = id
				}
				prevBead = id
				if firstBead == abacusstore.NilBead {
					firstBead = id
				}
				columns.Get(newCol).Beads = append(columns.Get(newCol).Beads, id)
				col++
				readPos++
			}
		}
	}

	frag.FirstBead = firstBead
	frag.CnsPos = abacusstore.Interval{Begin: begCol, End: col}
}

func qualAt(q []byte, i int) byte {
	if i < len(q) {
		return q[i]
	}
	return 30 + 33
}
