package abacus

import "github.com/marbl/canu-cns/abacusstore"

// Estimate is a starting-column guess for aligning one fragment against
// frankenstein, produced by one of the four placement strategies (spec.md
// section 4.C "Retry tiers": "for strategy in [parent, contained-parent,
// layout, alignment]").
type Estimate struct {
	BegCol int
	OK     bool
}

// FromParentNotContained estimates a fragment's starting column from its
// (already-placed, not-containing) parent's column interval plus its
// recorded a-hang (spec.md section 4.C edge cases: "A fragment with a
// parent that is itself unplaced falls through to layout/alignment").
func FromParentNotContained(fragStore *abacusstore.FragmentStore, frag *abacusstore.Fragment) Estimate {
	if frag.Parent == abacusstore.NilFragment {
		return Estimate{}
	}
	parent := fragStore.Get(frag.Parent)
	if parent.CnsPos.Len() == 0 {
		return Estimate{} // parent unplaced.
	}
	return Estimate{BegCol: parent.CnsPos.Begin + frag.AHang, OK: true}
}

// FromParentContained estimates a starting column when the fragment is
// recorded as contained within its parent: the parent's interval bounds
// the search, offset by the a-hang (spec.md section 4.C strategy 2).
func FromParentContained(fragStore *abacusstore.FragmentStore, frag *abacusstore.Fragment) Estimate {
	if frag.Contained == abacusstore.NilFragment || frag.Contained == frag.Parent {
		return Estimate{} // identical to strategy 1; spec.md section 4.C strategy 2 "skipped if equal".
	}
	container := fragStore.Get(frag.Contained)
	if container.CnsPos.Len() == 0 {
		return Estimate{}
	}
	beg := container.CnsPos.Begin + frag.AHang
	if beg < container.CnsPos.Begin {
		beg = container.CnsPos.Begin
	}
	if beg > container.CnsPos.End {
		return Estimate{} // "parent is placed in a clearly disjoint layout region".
	}
	return Estimate{BegCol: beg, OK: true}
}

// FromLayout estimates a starting column directly from the prior layout
// stage's signed position (spec.md section 4.C strategy 3; section 9
// "an assertion that can fire when cnspos[tiid].bgn >= cnspos[tiid].end
// is created by layout strategy").
func FromLayout(frag *abacusstore.Fragment) Estimate {
	if frag.Layout.Position < 0 {
		return Estimate{}
	}
	return Estimate{BegCol: frag.Layout.Position, OK: true}
}

// FromAlignment signals the fourth, no-hint strategy: align against the
// whole of frankenstein and let the oracle find the best offset itself
// (spec.md section 4.C strategy 4, the last resort before a retry tier
// bump or failure).
func FromAlignment() Estimate {
	return Estimate{BegCol: 0, OK: true}
}
