package gapfill

import (
	"github.com/marbl/canu-cns/coord"
	"github.com/marbl/canu-cns/scaffoldgraph"
)

// BuildJoin computes the affine transform (m, b) between two anchor
// scaffolds implied by a join candidate's stack evidence (spec.md section
// 4.D Scaffold-join records).
func BuildJoin(cand *Candidate) scaffoldgraph.ScaffoldJoin {
	m := 1.0
	if cand.Flipped {
		m = -1.0
	}
	return scaffoldgraph.ScaffoldJoin{
		CandidateContig: cand.ContigID,
		ScaffoldA:       cand.JoinScaffoldA,
		ScaffoldB:       cand.JoinScaffoldB,
		M:               m,
		B:               cand.Start,
		InsertStart:     cand.Start,
		InsertEnd:       cand.End,
		LinkCount:       cand.GoodLinks,
	}
}

// CheckJoinsConsistent runs the batch consistency check over a set of
// candidate join records (spec.md section 4.D Scaffold-join records):
// two records implying overlapping-but-different affine relations between
// the same pair of scaffolds mark each other violated; survivors are then
// tested against existing trusted scaffold edges.
func CheckJoinsConsistent(joins []scaffoldgraph.ScaffoldJoin, trustedEdges []coord.Position, nsigma float64) {
	for i := range joins {
		for j := i + 1; j < len(joins); j++ {
			a, b := &joins[i], &joins[j]
			if !samePair(*a, *b) {
				continue
			}
			if !intervalsOverlapPositions(a.InsertStart, a.InsertEnd, b.InsertStart, b.InsertEnd) {
				continue
			}
			if a.M != b.M || !coord.WithinSigma(a.B, b.B, nsigma) {
				a.Violated = true
				b.Violated = true
			}
		}
	}
	for i := range joins {
		if joins[i].Violated {
			continue
		}
		for _, trusted := range trustedEdges {
			if !coord.WithinSigma(joins[i].B, trusted, nsigma) {
				joins[i].Violated = true
				break
			}
		}
	}
}

func samePair(a, b scaffoldgraph.ScaffoldJoin) bool {
	return (a.ScaffoldA == b.ScaffoldA && a.ScaffoldB == b.ScaffoldB) ||
		(a.ScaffoldA == b.ScaffoldB && a.ScaffoldB == b.ScaffoldA)
}

func intervalsOverlapPositions(aStart, aEnd, bStart, bEnd coord.Position) bool {
	return aStart.Mean <= bEnd.Mean && bStart.Mean <= aEnd.Mean
}

// FileJoin converts a surviving join record into an ordinary gap
// candidate tagged with the joiner marker (spec.md section 4.D: "Surviving
// joins are filed into the insert scaffold as ordinary gap candidates
// tagged with the joiner marker").
func FileJoin(gaps []scaffoldgraph.Gap, j scaffoldgraph.ScaffoldJoin) int {
	if j.Violated || len(gaps) == 0 {
		return -1
	}
	center := (j.InsertStart.Mean + j.InsertEnd.Mean) / 2
	idx := nearestGap(gaps, center)
	gaps[idx].Chunks = append(gaps[idx].Chunks, scaffoldgraph.GapChunk{
		ContigID:  j.CandidateContig,
		Start:     j.InsertStart,
		End:       j.InsertEnd,
		LinkCt:    j.LinkCount,
		Candidate: true,
		Joiner:    true,
	})
	return idx
}
