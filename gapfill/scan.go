package gapfill

import (
	"github.com/marbl/canu-cns/coord"
	"github.com/marbl/canu-cns/scaffoldgraph"
)

// BuildGapArray constructs a scaffold's gap array with sentinel end gaps
// (spec.md section 4.D Scan): gap 0 is a left sentinel at
// -maxMateDistance, gap n is a right sentinel, and every internal gap
// holds the (end-of-left, start-of-right) span with ref_variance set to
// the left flank's variance.
func BuildGapArray(store scaffoldgraph.Store, sid scaffoldgraph.ScaffoldID, maxMateDistance float64) []scaffoldgraph.Gap {
	sc, ok := store.Scaffold(sid)
	if !ok || len(sc.Contigs) == 0 {
		return nil
	}
	gaps := make([]scaffoldgraph.Gap, 0, len(sc.Contigs)+1)

	first, _ := store.Contig(sc.Contigs[0])
	leftSentinelStart := coord.Position{Mean: -maxMateDistance, Variance: 0}
	gaps = append(gaps, scaffoldgraph.Gap{
		LeftCid:     scaffoldgraph.NilContig,
		RightCid:    sc.Contigs[0],
		Start:       leftSentinelStart,
		End:         first.Min(),
		RefVariance: 0,
	})

	for i := 0; i < len(sc.Contigs)-1; i++ {
		left, _ := store.Contig(sc.Contigs[i])
		right, _ := store.Contig(sc.Contigs[i+1])
		gaps = append(gaps, scaffoldgraph.Gap{
			LeftCid:     sc.Contigs[i],
			RightCid:    sc.Contigs[i+1],
			Start:       left.Max(),
			End:         right.Min(),
			RefVariance: left.MaxVariance(),
		})
	}

	last, _ := store.Contig(sc.Contigs[len(sc.Contigs)-1])
	rightSentinelEnd := coord.Position{Mean: last.Max().Mean + maxMateDistance, Variance: last.MaxVariance()}
	gaps = append(gaps, scaffoldgraph.Gap{
		LeftCid:     sc.Contigs[len(sc.Contigs)-1],
		RightCid:    scaffoldgraph.NilContig,
		Start:       last.Max(),
		End:         rightSentinelEnd,
		RefVariance: last.MaxVariance(),
	})

	return gaps
}

// nearestGap returns the index of the gap in gaps whose center is closest
// to pos (spec.md section 4.D Safe-chunk selection step 6).
func nearestGap(gaps []scaffoldgraph.Gap, pos float64) int {
	best, bestDist := 0, -1.0
	for i, g := range gaps {
		center := (g.Start.Mean + g.End.Mean) / 2
		d := center - pos
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
