package gapfill

import (
	"github.com/grailbio/base/log"
	"github.com/marbl/canu-cns/config"
	"github.com/marbl/canu-cns/scaffoldgraph"
)

// Fill is the output of one gap-filling pass over a scaffold: its gap
// array, any rock candidates filed into gaps, and any join candidates
// diverted to scaffold-join tracking (spec.md section 6 "Per successful
// scaffold update").
type Fill struct {
	Scaffold scaffoldgraph.ScaffoldID
	Gaps     []scaffoldgraph.Gap
	Joins    []scaffoldgraph.ScaffoldJoin
}

// Run performs the safe-chunk (rock) selection pass over one scaffold's
// unplaced-contig candidates (spec.md section 4.D), filing every resolved
// rock into its nearest gap and collecting join candidates separately for
// the caller to batch-check with CheckJoinsConsistent.
func Run(store scaffoldgraph.Store, sid scaffoldgraph.ScaffoldID, candidates []Candidate, cfg config.Config) Fill {
	gaps := BuildGapArray(store, sid, cfg.MaxMateDistance)
	fill := Fill{Scaffold: sid, Gaps: gaps}

	for i := range candidates {
		cand := &candidates[i]
		if cand.CoverStat < cfg.MinRockCoverStat {
			continue
		}
		if ok := ResolveRock(cand, cfg.MinGoodLinks, cfg.GoodLinksIfBad); ok {
			File(fill.Gaps, cand)
			continue
		}
		if cand.JoinCandidate {
			fill.Joins = append(fill.Joins, BuildJoin(cand))
			continue
		}
		if log.At(log.Debug) {
			log.Debug.Printf("gapfill: candidate rejected, contig=%d", cand.ContigID)
		}
	}
	return fill
}

// RunStones performs the weaker-evidence stone pass over a scaffold's
// remaining unplaced candidates (spec.md section 4.D Stone selection),
// filing every surviving partition into its nearest gap.
func RunStones(store scaffoldgraph.Store, sid scaffoldgraph.ScaffoldID, candidates []Candidate, cfg config.Config) Fill {
	gaps := BuildGapArray(store, sid, cfg.MaxMateDistance)
	fill := Fill{Scaffold: sid, Gaps: gaps}

	for _, cand := range candidates {
		if cfg.SingleFragmentOnly && !cand.Singleton {
			continue
		}
		for _, sub := range ResolveStones(cand, cfg.MinGoodLinks, cfg.MinStoneCoverStat) {
			subCopy := sub
			File(fill.Gaps, &subCopy)
		}
	}
	return fill
}

// DeduplicateGap drops the second of any two chunks in a gap whose
// (start,end) endpoints agree to within tol base pairs on both ends
// (spec.md section 4.E Duplicate killing, testable property 6).
func DeduplicateGap(gap *scaffoldgraph.Gap, tol float64) int {
	kept := gap.Chunks[:0]
	dropped := 0
	for i := range gap.Chunks {
		c := &gap.Chunks[i]
		dup := false
		for j := range kept {
			if c.ContigID == kept[j].ContigID && c.PositionsClose(&kept[j], tol) {
				dup = true
				break
			}
		}
		if dup {
			dropped++
			continue
		}
		kept = append(kept, *c)
	}
	gap.Chunks = kept
	return dropped
}
