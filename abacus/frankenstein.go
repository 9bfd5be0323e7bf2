package abacus

import "github.com/marbl/canu-cns/abacusstore"

// Frankenstein is the running consensus sequence of a unitig during
// incremental alignment (spec.md GLOSSARY "Frankenstein"): a growable byte
// buffer of column calls, paired with the bead index that currently drives
// each position, kept in lockstep with the MA-node's column list.
type Frankenstein struct {
	Bases       []byte
	DrivingBead []abacusstore.BeadID
}

// NewFrankenstein returns an empty buffer sized for capacityHint bases.
func NewFrankenstein(capacityHint int) *Frankenstein {
	return &Frankenstein{
		Bases:       make([]byte, 0, capacityHint),
		DrivingBead: make([]abacusstore.BeadID, 0, capacityHint),
	}
}

// Len returns the current consensus length.
func (f *Frankenstein) Len() int { return len(f.Bases) }

// Append extends frankenstein on the right with one new base/bead pair
// (spec.md section 4.C "applyAlignment": "Extend frankenstein on the right
// if the fragment's b-hang is positive").
func (f *Frankenstein) Append(base byte, bead abacusstore.BeadID) {
	f.Bases = append(f.Bases, base)
	f.DrivingBead = append(f.DrivingBead, bead)
}

// InsertGapAt splices a new gap column into frankenstein at index i,
// driven by bead (spec.md section 4.C "Insert gap columns into
// frankenstein wherever the trace calls for a positive insertion into the
// consensus; existing column links are spliced").
func (f *Frankenstein) InsertGapAt(i int, base byte, bead abacusstore.BeadID) {
	f.Bases = append(f.Bases, 0)
	copy(f.Bases[i+1:], f.Bases[i:])
	f.Bases[i] = base

	f.DrivingBead = append(f.DrivingBead, abacusstore.NilBead)
	copy(f.DrivingBead[i+1:], f.DrivingBead[i:])
	f.DrivingBead[i] = bead
}

// Reset clears the buffer for the next unitig.
func (f *Frankenstein) Reset() {
	f.Bases = f.Bases[:0]
	f.DrivingBead = f.DrivingBead[:0]
}

// Rewrite replaces the buffer wholesale from a list of column calls and
// driving beads, the per-column half of rebuild (spec.md section 4.C
// "rebuild": "Rewrite frankenstein as the concatenation of column calls").
func (f *Frankenstein) Rewrite(bases []byte, beads []abacusstore.BeadID) {
	f.Bases = append(f.Bases[:0], bases...)
	f.DrivingBead = append(f.DrivingBead[:0], beads...)
}
