package abacus

import "github.com/marbl/canu-cns/abacusstore"

// mergeRefine removes any column left with zero member beads by a prior
// refinement stage, splicing it out of the doubly-linked list (spec.md
// section 9 "a four-index update"). It runs between every pair of
// refinement stages, matching MultiAlignUnitig.C's pattern of re-merging
// the column list after each pass before the next one sees it.
func mergeRefine(manode *MANode, columns *abacusstore.ColumnStore, beads *abacusstore.BeadStore) {
	kept := manode.Columns[:0]
	for _, cid := range manode.Columns {
		col := columns.Get(cid)
		if len(col.Beads) == 0 {
			unsplice(columns, cid)
			continue
		}
		kept = append(kept, cid)
	}
	manode.Columns = kept
	if len(manode.Columns) > 0 {
		manode.First = manode.Columns[0]
		manode.Last = manode.Columns[len(manode.Columns)-1]
	} else {
		manode.First, manode.Last = abacusstore.NilColumn, abacusstore.NilColumn
	}
}

func unsplice(columns *abacusstore.ColumnStore, cid abacusstore.ColumnID) {
	col := columns.Get(cid)
	if col.Prev != abacusstore.NilColumn {
		columns.Get(col.Prev).Next = col.Next
	}
	if col.Next != abacusstore.NilColumn {
		columns.Get(col.Next).Prev = col.Prev
	}
}

// smoothPoly merges a homopolymer-run column into its predecessor when
// both share the same non-gap majority call and no fragment contributes a
// bead to both (so the merge never collides), collapsing the kind of
// single-base insertion/deletion noise that accumulates across a poly-X
// tract (spec.md section 4.C refinement chain "poly-X" stage).
func smoothPoly(manode *MANode, columns *abacusstore.ColumnStore, beads *abacusstore.BeadStore) {
	for i := 1; i < len(manode.Columns); i++ {
		prev := columns.Get(manode.Columns[i-1])
		cur := columns.Get(manode.Columns[i])
		if prev.Counts.NonGapTotal() == 0 || cur.Counts.NonGapTotal() == 0 {
			continue
		}
		if prev.Counts.Majority() != cur.Counts.Majority() {
			continue
		}
		if sharesFragment(beads, prev.Beads, cur.Beads) {
			continue
		}
		moveBeads(beads, manode.Columns[i-1], prev, cur)
	}
}

// collapsePolyRuns folds a run of identical-majority-call columns down to
// its first column, the deeper pass of the poly-X stage that smoothPoly's
// single-step merge can leave behind when a run is more than two columns
// long.
func collapsePolyRuns(manode *MANode, columns *abacusstore.ColumnStore, beads *abacusstore.BeadStore) {
	i := 0
	for i < len(manode.Columns)-1 {
		base := columns.Get(manode.Columns[i])
		j := i + 1
		for j < len(manode.Columns) {
			next := columns.Get(manode.Columns[j])
			if next.Counts.NonGapTotal() == 0 || next.Counts.Majority() != base.Counts.Majority() || sharesFragment(beads, base.Beads, next.Beads) {
				break
			}
			moveBeads(beads, manode.Columns[i], base, next)
			j++
		}
		i = j
	}
}

// resolveIndels drops columns that ended up pure-gap after the poly-X
// passes: they carry no consensus information and only dilute quality
// estimates (spec.md section 4.C refinement chain "indel" stage).
func resolveIndels(manode *MANode, columns *abacusstore.ColumnStore, beads *abacusstore.BeadStore) {
	for _, cid := range manode.Columns {
		col := columns.Get(cid)
		if col.Counts.Total() > 0 && col.Counts.NonGapTotal() == 0 {
			col.Beads = col.Beads[:0] // let the next mergeRefine splice it out.
		}
	}
}

func sharesFragment(beads *abacusstore.BeadStore, a, b []abacusstore.BeadID) bool {
	seen := map[abacusstore.FragmentID]bool{}
	for _, id := range a {
		seen[beads.Get(id).Fragment] = true
	}
	for _, id := range b {
		if seen[beads.Get(id).Fragment] {
			return true
		}
	}
	return false
}

// moveBeads re-points every bead in src's column to dstID and empties src,
// so a later mergeRefine will splice the now-empty column out of the list.
func moveBeads(beads *abacusstore.BeadStore, dstID abacusstore.ColumnID, dst, src *abacusstore.Column) {
	for _, id := range src.Beads {
		beads.Get(id).Column = dstID
	}
	dst.Beads = append(dst.Beads, src.Beads...)
	src.Beads = nil
}
