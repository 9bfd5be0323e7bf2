package gapfill

import (
	"github.com/marbl/canu-cns/coord"
	"github.com/marbl/canu-cns/scaffoldgraph"
)

// group is the per-anchor-scaffold partition of a candidate's stack,
// used by the scaffold-and-orientation consistency step.
type group struct {
	scaffold scaffoldgraph.ScaffoldID
	entries  []scaffoldgraph.StackEntry
	links    int
}

func groupByScaffold(stack []scaffoldgraph.StackEntry) []*group {
	byScaffold := map[scaffoldgraph.ScaffoldID]*group{}
	order := make([]scaffoldgraph.ScaffoldID, 0)
	for _, e := range stack {
		g, ok := byScaffold[e.AnchorScaffold]
		if !ok {
			g = &group{scaffold: e.AnchorScaffold}
			byScaffold[e.AnchorScaffold] = g
			order = append(order, e.AnchorScaffold)
		}
		g.entries = append(g.entries, e)
		g.links += e.GoodMates
	}
	groups := make([]*group, 0, len(order))
	for _, sid := range order {
		groups = append(groups, byScaffold[sid])
	}
	return groups
}

// ResolveRock runs the safe-chunk selection pipeline (spec.md section 4.D
// Safe-chunk selection steps 3-6) over one candidate's stack, deciding
// whether it is a single-scaffold rock, a join candidate, or rejected
// outright.
func ResolveRock(cand *Candidate, minGoodLinks, goodLinksIfBad int) bool {
	groups := groupByScaffold(cand.Stack)
	if len(groups) == 0 {
		return false
	}

	best := groups[0]
	for _, g := range groups[1:] {
		if g.links > best.links {
			best = g
		}
	}

	conflictingLinks := 0
	for _, g := range groups {
		if g == best {
			continue
		}
		conflictingLinks += g.links
	}

	if len(groups) >= 2 {
		secondBestHasEvidence := false
		for _, g := range groups {
			if g != best && g.links > 0 {
				secondBestHasEvidence = true
				if g.links >= minGoodLinks {
					// Two scaffolds each with independently-sufficient
					// evidence: this is a join candidate, not a rock.
					cand.JoinCandidate = true
					cand.JoinScaffoldA = best.scaffold
					cand.JoinScaffoldB = g.scaffold
					return false
				}
			}
		}
		_ = secondBestHasEvidence
	}

	if best.links < minGoodLinks {
		return false
	}
	toleratedBad := 1
	if best.links < goodLinksIfBad {
		toleratedBad = 0
	}
	if conflictingLinks > toleratedBad {
		return false
	}

	cand.Stack = best.entries
	cand.Scaffold = best.scaffold
	// The motivating good edge stays at stack[0] (groupByScaffold
	// preserves the original stack order within a group); its Flipped
	// bit is load-bearing for everything downstream that reads the
	// candidate's orientation (spec.md section 9 open question:
	// "Estimate_Chunk_Ends ... stack[0].flipped ... preserve it").
	cand.Flipped = best.entries[0].Flipped
	return estimateEnds(cand)
}

// estimateEnds performs the maximum-likelihood combine of a single-scaffold
// stack (spec.md section 4.D Safe-chunk selection step 4) followed by the
// per-edge chi-squared check (step 5), retried once with bad links removed.
func estimateEnds(cand *Candidate) bool {
	for pass := 0; pass < 2; pass++ {
		if len(cand.Stack) == 0 {
			return false
		}

		// ref_variance is the maximum left-link source variance, or
		// failing that the minimum right-link one (spec.md section
		// 4.D step 4); it anchors the weighting in weightedCombine
		// below and must be known before the combine runs.
		var refVariance float64
		haveRef := false
		for _, e := range cand.Stack {
			if e.LeftLink && (!haveRef || e.SourceVariance > refVariance) {
				refVariance, haveRef = e.SourceVariance, true
			}
		}
		if !haveRef {
			for _, e := range cand.Stack {
				if !e.LeftLink && (!haveRef || e.SourceVariance < refVariance) {
					refVariance, haveRef = e.SourceVariance, true
				}
			}
		}

		left, leftOK := weightedCombine(cand.Stack, true, refVariance)
		right, rightOK := weightedCombine(cand.Stack, false, refVariance)

		switch {
		case leftOK && rightOK:
			cand.Start, cand.End = left, right
		case leftOK:
			cand.Start = left
			cand.End = left
		case rightOK:
			cand.Start = right
			cand.End = right
		default:
			return false
		}
		cand.RefVariance = refVariance

		bad := markBadLinks(cand)
		if bad == 0 {
			cand.GoodLinks = len(cand.Stack)
			return true
		}
		if pass == 1 {
			return false
		}
		filtered := cand.Stack[:0]
		for _, e := range cand.Stack {
			if !e.IsBad {
				filtered = append(filtered, e)
			}
		}
		cand.Stack = append([]scaffoldgraph.StackEntry{}, filtered...)
	}
	return false
}

// weightedCombine computes the maximum-likelihood weighted mean of the
// stack entries' relevant end, weighting each by
// 1/(|source_variance-ref_variance|+edge.variance).
func weightedCombine(stack []scaffoldgraph.StackEntry, wantLeft bool, refVariance float64) (coord.Position, bool) {
	var sumW, sumWX, sumVar float64
	n := 0
	for _, e := range stack {
		if e.LeftLink != wantLeft {
			continue
		}
		pos := e.LeftEnd
		if !wantLeft {
			pos = e.RightEnd
		}
		denom := absDiff(e.SourceVariance, refVariance) + e.EdgeVariance
		if denom <= 0 {
			denom = coord.Epsilon
		}
		w := 1.0 / denom
		sumW += w
		sumWX += w * pos.Mean
		sumVar += pos.Variance
		n++
	}
	if n == 0 || sumW == 0 {
		return coord.Position{}, false
	}
	return coord.Position{Mean: sumWX / sumW, Variance: sumVar / float64(n)}, true
}

func absDiff(a, b float64) float64 {
	d := a - b
	if d < 0 {
		return -d
	}
	return d
}

// markBadLinks flags stack entries whose individually-implied position
// disagrees with the consensus placement by more than 3 sigma (spec.md
// section 4.D Safe-chunk selection step 5), returning the count marked.
func markBadLinks(cand *Candidate) int {
	bad := 0
	for i := range cand.Stack {
		e := &cand.Stack[i]
		pos := e.LeftEnd
		consensus := cand.Start
		if !e.LeftLink {
			pos = e.RightEnd
			consensus = cand.End
		}
		if !coord.WithinSigma(pos, consensus, 3) {
			e.IsBad = true
			bad++
		} else {
			e.IsBad = false
		}
	}
	return bad
}

// File places a resolved rock candidate into the nearest gap of its
// scaffold (spec.md section 4.D Safe-chunk selection step 6) and returns
// the gap index it was filed into, or -1 if the scaffold has no gaps.
func File(gaps []scaffoldgraph.Gap, cand *Candidate) int {
	if len(gaps) == 0 {
		return -1
	}
	center := (cand.Start.Mean + cand.End.Mean) / 2
	idx := nearestGap(gaps, center)
	gaps[idx].Chunks = append(gaps[idx].Chunks, scaffoldgraph.GapChunk{
		ContigID:   cand.ContigID,
		CopyLetter: cand.CopyLetter,
		Start:      cand.Start,
		End:        cand.End,
		Flipped:    cand.Flipped,
		LinkCt:     cand.GoodLinks,
		CoverStat:  cand.CoverStat,
		Candidate:  true,
	})
	return idx
}
