package coord

import "github.com/grailbio/base/errors"

// GapLength computes the length and variance of the gap between a contig L,
// whose larger-end position is lMax, and a contig R, whose smaller-end
// position is rMin: length = rMin.Mean - lMax.Mean, variance =
// rMin.Variance - lMax.Variance. A negative variance means the caller has
// violated the monotonic-variance invariant upstream; per spec.md section
// 4.A this is a halting condition, not a recoverable one.
func GapLength(lMax, rMin Position) (Position, error) {
	gap := Position{
		Mean:     rMin.Mean - lMax.Mean,
		Variance: rMin.Variance - lMax.Variance,
	}
	if gap.Variance < 0 {
		return gap, errors.E(
			"coord: gap variance went negative, monotonic-variance invariant violated",
			"lMax", lMax, "rMin", rMin)
	}
	return gap, nil
}

// EndPositions is implemented by anything with two ordered end positions in
// scaffold coordinates (scaffoldgraph.Contig is the only implementation in
// this repo, kept as a narrow interface here so this package never imports
// the scaffold graph).
type EndPositions interface {
	Ends() (a, b Position)
	SetEnds(a, b Position)
}

// ForceIncreasingVariances walks contigs left to right, tracking the running
// maximum end-variance; whenever a contig's minimum end-variance dips below
// that running maximum, it adds (prevMax-min+Epsilon) to both ends of every
// subsequent contig. It asserts monotonicity on the final pass and returns
// an error (rather than panicking) if that assertion fails, so a caller can
// log a warning per spec.md section 7's "Variance violation" policy.
func ForceIncreasingVariances(contigs []EndPositions) error {
	if len(contigs) == 0 {
		return nil
	}
	runningMax := 0.0
	for i, c := range contigs {
		a, b := c.Ends()
		minVar := a.Variance
		if b.Variance < minVar {
			minVar = b.Variance
		}
		maxVar := a.Variance
		if b.Variance > maxVar {
			maxVar = b.Variance
		}
		if i > 0 && minVar < runningMax {
			delta := runningMax - minVar + Epsilon
			for j := i; j < len(contigs); j++ {
				ja, jb := contigs[j].Ends()
				ja.Variance += delta
				jb.Variance += delta
				contigs[j].SetEnds(ja, jb)
			}
			a, b = contigs[i].Ends()
			maxVar += delta
		}
		if maxVar > runningMax {
			runningMax = maxVar
		}
	}
	prevMax := 0.0
	for i, c := range contigs {
		a, b := c.Ends()
		minVar := a.Variance
		if b.Variance < minVar {
			minVar = b.Variance
		}
		maxVar := a.Variance
		if b.Variance > maxVar {
			maxVar = b.Variance
		}
		if i > 0 && minVar+Epsilon < prevMax {
			return errors.E(
				"coord: force-increasing-variances failed its own monotonicity assertion",
				"index", i)
		}
		prevMax = maxVar
	}
	return nil
}

// Delta is a (mean, variance) adjustment propagated rightward from a gap.
type Delta struct {
	Mean     float64
	Variance float64
}

// PropagateDelta adds delta to both ends of every contig to the right of a
// gap, and to the ref-variance of every nested gap structure so its local
// origin stays consistent (spec.md section 4.A "Delta propagation").
func PropagateDelta(contigsRight []EndPositions, nestedRefVariances []*float64, delta Delta) {
	for _, c := range contigsRight {
		a, b := c.Ends()
		a = a.Add(delta.Mean, delta.Variance)
		b = b.Add(delta.Mean, delta.Variance)
		c.SetEnds(a, b)
	}
	for _, rv := range nestedRefVariances {
		*rv += delta.Variance
	}
}
