package abacus

import "github.com/marbl/canu-cns/abacusstore"

// Rebuild re-derives frankenstein and every fragment's placement from the
// current column structure (spec.md section 4.C "rebuild"). When full is
// true it also runs the refinement chain (smooth, poly-X, indel passes,
// each followed by a merge-refine) before re-tallying; a cheap rebuild
// (full=false), as used after each successful single-fragment placement,
// skips refinement.
func Rebuild(frank *Frankenstein, manode *MANode, columns *abacusstore.ColumnStore, beads *abacusstore.BeadStore,
	fragments *abacusstore.FragmentStore, full bool) {

	if full {
		smoothPoly(manode, columns, beads)
		mergeRefine(manode, columns, beads)
		collapsePolyRuns(manode, columns, beads)
		mergeRefine(manode, columns, beads)
		resolveIndels(manode, columns, beads)
		mergeRefine(manode, columns, beads)
	}

	manode.Refresh(columns)
	tallyColumns(manode, columns, beads)
	rewriteFrankensteinFromColumns(frank, manode, columns)
	rewalkFragments(manode, columns, beads, fragments)
}

// tallyColumns resolves each column's member beads to base bytes and
// calls abacusstore.ColumnStore.TallyBases, the per-column half of rebuild
// kept in abacusstore to avoid a BeadStore dependency there.
func tallyColumns(manode *MANode, columns *abacusstore.ColumnStore, beads *abacusstore.BeadStore) {
	var scratch []byte
	for _, cid := range manode.Columns {
		col := columns.Get(cid)
		scratch = scratch[:0]
		for _, bid := range col.Beads {
			scratch = append(scratch, beads.Get(bid).Base)
		}
		columns.TallyBases(cid, scratch)
	}
}

// rewriteFrankensteinFromColumns rewrites the running consensus as the
// concatenation of column calls, one byte per column in manode.Columns
// order (spec.md section 4.C "rebuild"). Pure-gap columns are not skipped:
// they contribute their '-' call, so frankenstein stays index-aligned with
// the column list.
func rewriteFrankensteinFromColumns(frank *Frankenstein, manode *MANode, columns *abacusstore.ColumnStore) {
	bases := make([]byte, len(manode.Columns))
	drivers := make([]abacusstore.BeadID, len(manode.Columns))
	for i, cid := range manode.Columns {
		col := columns.Get(cid)
		bases[i] = col.Call
		if len(col.Beads) > 0 {
			drivers[i] = col.Beads[0]
		} else {
			drivers[i] = abacusstore.NilBead
		}
	}
	frank.Rewrite(bases, drivers)
}

// rewalkFragments rewalks each fragment's bead chain and updates its
// CnsPos to the new column indices, and recomputes AHang/BHang from its
// position relative to its current parent (spec.md section 4.C
// "rebuild"). Parent and Contained are left unchanged.
func rewalkFragments(manode *MANode, columns *abacusstore.ColumnStore, beads *abacusstore.BeadStore, fragments *abacusstore.FragmentStore) {
	for i := 0; i < fragments.Len(); i++ {
		frag := fragments.Get(abacusstore.FragmentID(i))
		if frag.Deleted || frag.Failed || frag.FirstBead == abacusstore.NilBead {
			continue
		}
		begIdx, endIdx := -1, -1
		for b := frag.FirstBead; b != abacusstore.NilBead; {
			bead := beads.Get(b)
			idx := columns.Get(bead.Column).Index
			if begIdx == -1 || idx < begIdx {
				begIdx = idx
			}
			if idx+1 > endIdx {
				endIdx = idx + 1
			}
			b = bead.NextInRead
		}
		if begIdx >= 0 {
			frag.CnsPos = abacusstore.Interval{Begin: begIdx, End: endIdx}
		}
		if frag.Parent != abacusstore.NilFragment {
			parent := fragments.Get(frag.Parent)
			frag.AHang = frag.CnsPos.Begin - parent.CnsPos.Begin
			frag.BHang = frag.CnsPos.End - parent.CnsPos.End
		}
	}
}
