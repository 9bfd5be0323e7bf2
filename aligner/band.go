package aligner

import "context"

// bandOperation mirrors util/distance.go's three-way Levenshtein traversal
// (diagonal/right/down), generalized here to a semi-global alignment: the
// matrix rows are a(the query, e.g. a fragment slice) and columns are b(the
// target, e.g. a frankenstein slice), and the end gaps of both sequences
// are free, which is what an overlap alignment needs (we are aligning a
// window, not the whole read).
type bandOperation uint8

const (
	opDiag bandOperation = iota
	opUp          // consumes a row (A) only
	opLeft        // consumes a column (B) only
)

// BandedOracle is a reference Oracle implementation for this repo's own
// tests: a full (unbanded, despite the name -- the "band" is the
// error-rate rejection, not a restricted DP width) Needleman-Wunsch-style
// semi-global alignment, grounded on util/distance.go's row-major matrix
// and computeCell technique.
type BandedOracle struct{}

// Overlap aligns a against b semi-globally (free end gaps on both
// sequences) and reports the result as an Overlap, rejecting it if the
// error rate exceeds opts.ErrorRate or the hangs violate opts' bounds.
func (BandedOracle) Overlap(_ context.Context, a, b []byte, opts OverlapOpts) (Overlap, error) {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return Overlap{}, nil
	}
	const inf = 1 << 30
	dist := make([][]int, n+1)
	for i := range dist {
		dist[i] = make([]int, m+1)
	}
	for j := 0; j <= m; j++ {
		dist[0][j] = 0 // free gap: starting anywhere in b is free.
	}
	for i := 0; i <= n; i++ {
		dist[i][0] = 0 // free gap: starting anywhere in a is free.
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			sub := dist[i-1][j-1]
			if a[i-1] != b[j-1] {
				sub++
			}
			del := dist[i-1][j] + 1
			ins := dist[i][j-1] + 1
			best := sub
			if del < best {
				best = del
			}
			if ins < best {
				best = ins
			}
			dist[i][j] = best
		}
	}
	// Free end gap: the best alignment may end at any column j, not just m.
	bestJ, bestCost := m, dist[n][m]
	for j := 0; j <= m; j++ {
		if dist[n][j] < bestCost {
			bestCost, bestJ = dist[n][j], j
		}
	}

	ops := traceback(dist, a, b, n, bestJ)
	trace := runLengthEncode(ops)
	diffs := bestCost

	length := n
	if bestJ > length {
		length = bestJ
	}
	errRate := 0.0
	if length > 0 {
		errRate = float64(diffs) / float64(length)
	}
	if errRate > opts.ErrorRate {
		return Overlap{}, nil
	}

	leadIns, trailIns := edgeRuns(ops, opLeft)
	leadDel, trailDel := edgeRuns(ops, opUp)
	begPos := leadDel - leadIns
	endPos := trailDel - trailIns

	if begPos < 0 && (!opts.AllowNegativeABeg || -begPos > opts.MaxNegativeABeg) {
		return Overlap{}, nil
	}
	if endPos > 0 && !opts.AllowPositiveBEnd {
		return Overlap{}, nil
	}

	return Overlap{
		BegPos:    begPos,
		EndPos:    endPos,
		Length:    length,
		Diffs:     diffs,
		ErrorRate: errRate,
		Trace:     trace,
	}, nil
}

func traceback(dist [][]int, a, b []byte, i, j int) []bandOperation {
	ops := make([]bandOperation, 0, i+j)
	for i > 0 && j > 0 {
		sub := dist[i-1][j-1]
		if a[i-1] != b[j-1] {
			sub++
		}
		switch {
		case dist[i][j] == sub:
			ops = append(ops, opDiag)
			i--
			j--
		case dist[i][j] == dist[i-1][j]+1:
			ops = append(ops, opUp)
			i--
		default:
			ops = append(ops, opLeft)
			j--
		}
	}
	for i > 0 {
		ops = append(ops, opUp)
		i--
	}
	for j > 0 {
		ops = append(ops, opLeft)
		j--
	}
	// ops were built end-to-start; reverse.
	for l, r := 0, len(ops)-1; l < r; l, r = l+1, r-1 {
		ops[l], ops[r] = ops[r], ops[l]
	}
	return ops
}

func runLengthEncode(ops []bandOperation) []TraceOp {
	var trace []TraceOp
	for _, op := range ops {
		var kind TraceKind
		switch op {
		case opDiag:
			kind = Match
		case opUp:
			kind = InsertInA
		case opLeft:
			kind = InsertInB
		}
		if len(trace) > 0 && trace[len(trace)-1].Kind == kind {
			trace[len(trace)-1].Len++
		} else {
			trace = append(trace, TraceOp{Kind: kind, Len: 1})
		}
	}
	return trace
}

// edgeRuns returns the length of the leading and trailing run of the given
// operation kind in ops.
func edgeRuns(ops []bandOperation, kind bandOperation) (lead, trail int) {
	for _, op := range ops {
		if op != kind {
			break
		}
		lead++
	}
	for k := len(ops) - 1; k >= 0; k-- {
		if ops[k] != kind {
			break
		}
		trail++
	}
	return lead, trail
}
