package abacusstore

// Bead is one character of one read in one column of a unitig consensus
// (spec.md section 3 "Bead"). Beads are owned by a process-wide BeadStore
// and referenced only by BeadID; they are never deleted during a unitig's
// alignment, though their content (call, quality) can mutate as the column
// they belong to is rebuilt.
type Bead struct {
	Base    byte // 'A','C','G','T','N', or '-' for a gap bead.
	Quality byte // Phred+33 quality character; arbitrary for gap beads.

	PrevInRead BeadID // previous bead of the same read, or NilBead.
	NextInRead BeadID // next bead of the same read, or NilBead.
	Column     ColumnID

	Fragment FragmentID
}

// BeadStore is the process-wide bead arena for one unitig's alignment. It
// is reset between unitigs (spec.md section 5 "Shared resources").
type BeadStore struct {
	arena *arena[Bead]
}

// NewBeadStore returns an empty bead store sized for capacityHint beads.
func NewBeadStore(capacityHint int) *BeadStore {
	return &BeadStore{arena: newArena[Bead](capacityHint)}
}

// Add inserts a new bead and returns its id.
func (s *BeadStore) Add(b Bead) BeadID {
	return BeadID(s.arena.add(b))
}

// Get returns a mutable pointer to the bead with the given id.
func (s *BeadStore) Get(id BeadID) *Bead {
	return s.arena.get(int32(id))
}

// Len returns the number of beads currently allocated.
func (s *BeadStore) Len() int { return s.arena.len() }

// Reset clears the store for reuse by the next unitig.
func (s *BeadStore) Reset() { s.arena.reset() }
