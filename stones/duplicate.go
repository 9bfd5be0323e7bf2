package stones

import "github.com/marbl/canu-cns/scaffoldgraph"

// KillDuplicates drops the second of any two kept chunks in a gap that
// place the same contig with endpoints agreeing to within tol base pairs
// (spec.md section 4.E "Duplicate killing", testable property 6). It
// shares its test (scaffoldgraph.GapChunk.PositionsClose) with gapfill's
// rock/stone filing so both passes agree on what counts as a duplicate.
func KillDuplicates(chunks []scaffoldgraph.GapChunk, tol float64) []scaffoldgraph.GapChunk {
	kept := chunks[:0]
	for i := range chunks {
		c := &chunks[i]
		dup := false
		for j := range kept {
			if c.ContigID == kept[j].ContigID && c.PositionsClose(&kept[j], tol) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, *c)
		}
	}
	return kept
}
