package gapfill

import (
	"sort"

	"github.com/marbl/canu-cns/coord"
	"github.com/marbl/canu-cns/scaffoldgraph"
)

// stonePartition groups a candidate's stack entries that agree on
// scaffold, orientation, and a 3-sigma-overlapping position interval
// (spec.md section 4.D Stone selection: "By_Scaff_Flipped_And_Left_End
// ordering").
type stonePartition struct {
	scaffold scaffoldgraph.ScaffoldID
	flipped  bool
	entries  []scaffoldgraph.StackEntry
}

// ResolveStones partitions a candidate's full stack (the weaker cover-stat
// gate makes the unique-scaffold requirement of ResolveRock too strict)
// into one sub-candidate per surviving partition. Each returned candidate
// carries a distinct CopyLetter-ready index via its position in the
// slice, matching spec.md's "distinct copy_letter tags, so the same
// contig may file into multiple gaps".
func ResolveStones(cand Candidate, minGoodLinks int, minStoneCoverStat float64) []Candidate {
	if cand.CoverStat < minStoneCoverStat {
		return nil
	}

	sorted := append([]scaffoldgraph.StackEntry{}, cand.Stack...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.AnchorScaffold != b.AnchorScaffold {
			return a.AnchorScaffold < b.AnchorScaffold
		}
		if a.Flipped != b.Flipped {
			return !a.Flipped && b.Flipped
		}
		return a.LeftEnd.Mean < b.LeftEnd.Mean
	})

	var partitions []*stonePartition
	for _, e := range sorted {
		var cur *stonePartition
		if len(partitions) > 0 {
			last := partitions[len(partitions)-1]
			if last.scaffold == e.AnchorScaffold && last.flipped == e.Flipped && intervalsOverlap(last.entries, e, 3) {
				cur = last
			}
		}
		if cur == nil {
			cur = &stonePartition{scaffold: e.AnchorScaffold, flipped: e.Flipped}
			partitions = append(partitions, cur)
		}
		cur.entries = append(cur.entries, e)
	}

	out := make([]Candidate, 0, len(partitions))
	letter := byte('a')
	for _, p := range partitions {
		links := 0
		for _, e := range p.entries {
			links += e.GoodMates
		}
		if links < minGoodLinks {
			continue
		}
		sub := cand
		sub.Stack = p.entries
		sub.Scaffold = p.scaffold
		sub.Flipped = p.flipped
		if !estimateEnds(&sub) {
			continue
		}
		sub.GoodLinks = links
		sub.CopyLetter = letter
		out = append(out, sub)
		letter++
	}
	return out
}

// intervalsOverlap reports whether candidate entry e's 3-sigma position
// interval overlaps the running partition's combined interval, approximated
// here by checking against the partition's most recent entry.
func intervalsOverlap(partition []scaffoldgraph.StackEntry, e scaffoldgraph.StackEntry, nsigma float64) bool {
	if len(partition) == 0 {
		return true
	}
	last := partition[len(partition)-1]
	a := last.LeftEnd
	b := e.LeftEnd
	if !last.LeftLink {
		a = last.RightEnd
	}
	if !e.LeftLink {
		b = e.RightEnd
	}
	return coord.WithinSigma(a, b, nsigma)
}
