package abacus

import "github.com/marbl/canu-cns/abacusstore"

// Consensus is the final output of one successful unitig alignment
// (spec.md section 6 "Output"): the consensus string, its quality string,
// and a micro-heterozygosity probability.
type Consensus struct {
	Sequence           []byte
	Quality            []byte
	MicroHetScore      float64
}

// GenerateConsensus runs the final refinement pass and extracts the
// consensus/quality strings and micro-heterozygosity score (spec.md
// section 4.C, SPEC_FULL.md expansion of the micro-heterozygosity
// formula: the fraction of non-gap columns whose second-most-frequent
// base count, divided by the column's depth, exceeds
// MicroHetDisagreementThreshold).
func GenerateConsensus(frank *Frankenstein, manode *MANode, columns *abacusstore.ColumnStore, beads *abacusstore.BeadStore,
	fragments *abacusstore.FragmentStore, disagreementThreshold float64) Consensus {

	Rebuild(frank, manode, columns, beads, fragments, true)

	seq := make([]byte, 0, len(manode.Columns))
	qual := make([]byte, 0, len(manode.Columns))
	disagreeing := 0
	consideredColumns := 0

	for _, cid := range manode.Columns {
		col := columns.Get(cid)
		if col.Counts.NonGapTotal() == 0 {
			continue // pure-gap columns contribute no consensus base.
		}
		consideredColumns++
		call := col.Call
		if call >= 'a' && call <= 'z' {
			call -= 'a' - 'A'
		}
		seq = append(seq, call)
		qual = append(qual, bestQualityForCall(columns, beads, col, call))

		depth := col.Counts.NonGapTotal()
		second := secondMostFrequent(col.Counts, call)
		if depth > 0 && float64(second)/float64(depth) > disagreementThreshold {
			disagreeing++
		}
	}

	microHet := 0.0
	if consideredColumns > 0 {
		microHet = float64(disagreeing) / float64(consideredColumns)
	}

	return Consensus{Sequence: seq, Quality: qual, MicroHetScore: microHet}
}

// bestQualityForCall returns the highest quality value among the beads in
// col agreeing with call, matching the source's rule that a column's
// reported quality is the best-supported base's quality (spec.md scenario
// 1: "quality at each column equals the higher of the two input quality
// values").
func bestQualityForCall(columns *abacusstore.ColumnStore, beads *abacusstore.BeadStore, col *abacusstore.Column, call byte) byte {
	var best byte
	for _, bid := range col.Beads {
		b := beads.Get(bid)
		base := b.Base
		if base >= 'a' && base <= 'z' {
			base -= 'a' - 'A'
		}
		if base != call {
			continue
		}
		if b.Quality > best {
			best = b.Quality
		}
	}
	return best
}

func secondMostFrequent(c abacusstore.BaseCounts, exclude byte) int {
	counts := []int{c.A, c.C, c.G, c.T, c.N}
	bases := []byte{'A', 'C', 'G', 'T', 'N'}
	best := 0
	for i, n := range counts {
		if bases[i] == exclude {
			continue
		}
		if n > best {
			best = n
		}
	}
	return best
}
