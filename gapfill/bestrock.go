package gapfill

import (
	"context"
	"math"

	"github.com/marbl/canu-cns/aligner"
	"github.com/marbl/canu-cns/coord"
	"github.com/marbl/canu-cns/scaffoldgraph"
	"github.com/pkg/errors"
)

// SelectBest picks the unique best-variance candidate in a gap that is not
// contained in any other candidate nor in either flank (spec.md section
// 4.D Best-rock restoration), or (-1, false) if none qualifies.
func SelectBest(gap *scaffoldgraph.Gap, leftFlank, rightFlank *scaffoldgraph.Contig) (int, bool) {
	best := -1
	bestVar := math.Inf(1)
	for i := range gap.Chunks {
		c := &gap.Chunks[i]
		if containedInAny(c, gap.Chunks, i) || containedInFlank(c, leftFlank) || containedInFlank(c, rightFlank) {
			continue
		}
		v := c.Start.Variance + c.End.Variance
		if v < bestVar {
			best, bestVar = i, v
		} else if v == bestVar {
			// Tie: no unique best.
			best = -1
		}
	}
	return best, best >= 0
}

func containedInAny(c *scaffoldgraph.GapChunk, all []scaffoldgraph.GapChunk, skip int) bool {
	for j, other := range all {
		if j == skip {
			continue
		}
		if other.Start.Mean <= c.Start.Mean && c.End.Mean <= other.End.Mean {
			return true
		}
	}
	return false
}

func containedInFlank(c *scaffoldgraph.GapChunk, flank *scaffoldgraph.Contig) bool {
	if flank == nil {
		return false
	}
	return flank.Min().Mean <= c.Start.Mean && c.End.Mean <= flank.Max().Mean
}

// RestoreBest attempts last-chance placement of a gap's best candidate by
// aligning it against both flanking sequences via the aligner oracle
// (spec.md section 4.D Best-rock restoration). On success it sets Keep,
// writes the implied position, and bounds the gap's adjustment to
// 3*sigma(gap.variance).
func RestoreBest(ctx context.Context, oracle aligner.Oracle, gap *scaffoldgraph.Gap, bestIdx int,
	candidateSeq, leftFlankSeq, rightFlankSeq []byte, errorRate, fudgeFactor float64) (bool, error) {

	chunk := &gap.Chunks[bestIdx]

	leftOverlap, err := oracle.Overlap(ctx, leftFlankSeq, candidateSeq, aligner.OverlapOpts{ErrorRate: errorRate, AllowPositiveBEnd: true})
	if err != nil {
		return false, errors.Wrap(err, "gapfill: best-rock left-flank overlap")
	}
	rightOverlap, err := oracle.Overlap(ctx, candidateSeq, rightFlankSeq, aligner.OverlapOpts{ErrorRate: errorRate, AllowNegativeABeg: true})
	if err != nil {
		return false, errors.Wrap(err, "gapfill: best-rock right-flank overlap")
	}
	if leftOverlap.Null() && rightOverlap.Null() {
		return false, nil
	}

	maxExpansion := 3 * math.Sqrt(gap.End.Variance-gap.Start.Variance)
	needed := 0.0
	if !leftOverlap.Null() {
		needed += float64(leftOverlap.Length)
	}
	if !rightOverlap.Null() {
		needed += float64(rightOverlap.Length)
	}
	if needed > maxExpansion && maxExpansion > 0 {
		return false, nil
	}

	chunk.Keep = true
	chunk.Start = coord.Position{Mean: gap.Start.Mean, Variance: gap.RefVariance}
	chunk.End = coord.Position{Mean: gap.End.Mean, Variance: gap.RefVariance}
	gap.Adjustment.Mean += needed
	if fudged := coord.FudgeVariance(needed, fudgeFactor); gap.Adjustment.Variance < fudged {
		gap.Adjustment.Variance = fudged
	}
	return true, nil
}
