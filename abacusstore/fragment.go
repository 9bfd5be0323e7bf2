package abacusstore

// Interval is a half-open [Begin, End) interval in consensus (frankenstein)
// column-index coordinates.
type Interval struct {
	Begin, End int
}

// Len returns End-Begin.
func (iv Interval) Len() int { return iv.End - iv.Begin }

// Fragment is a unitig-local read: the unit the multi-aligner places one at
// a time against the running consensus (spec.md section 3 "Fragment").
type Fragment struct {
	Read   ReadID
	Length int

	// Complemented is true when this fragment's placement in the unitig is
	// the reverse complement of its underlying read sequence.
	Complemented bool
	// Deleted marks a fragment removed from the alignment (e.g. superseded
	// during abacus refinement); deleted fragments are skipped by rebuild
	// and generateConsensus.
	Deleted bool

	FirstBead BeadID
	MANode    int32 // the owning MA-node's index; unitigs have exactly one.

	// CnsPos is the fragment's current placement in frankenstein/column
	// coordinates, refreshed by abacus.rebuild.
	CnsPos Interval

	// Layout is this fragment's original layout-stage estimate: a signed
	// position plus parent/hang/contained fields as produced by the prior
	// layout stage (spec.md section 6 "Input"). Layout is read-only
	// input; Parent/AHang/BHang/Contained below are the mutable working
	// copies the aligner updates as it places fragments.
	Layout LayoutEstimate

	// Mutable placement-derived fields, snapshotted at initialize and
	// restored by restore() on unitig failure (spec.md section 4.C
	// "restore").
	Parent    FragmentID
	AHang     int
	BHang     int
	Contained FragmentID

	// Failed records whether this fragment could not be placed after all
	// retry tiers (spec.md section 7 "Alignment unreachable").
	Failed bool
}

// LayoutEstimate is the read-only per-fragment estimate handed in by the
// prior layout stage: (read id, signed position, parent id, a-hang, b-hang,
// contained id), per spec.md section 6 "Input".
type LayoutEstimate struct {
	Position  int
	Parent    FragmentID
	AHang     int
	BHang     int
	Contained FragmentID
}

// snapshot is the subset of Fragment mutated during placement, captured at
// initialize() and restored by restore() (spec.md section 4.C).
type snapshot struct {
	parent    FragmentID
	ahang     int
	bhang     int
	contained FragmentID
}

// FragmentStore is the process-wide fragment arena for one unitig's
// alignment, plus the snapshot buffer restore() reverts from.
type FragmentStore struct {
	arena     *arena[Fragment]
	snapshots []snapshot
}

// NewFragmentStore returns an empty fragment store sized for capacityHint
// fragments.
func NewFragmentStore(capacityHint int) *FragmentStore {
	return &FragmentStore{arena: newArena[Fragment](capacityHint)}
}

// Add inserts a new fragment and returns its id.
func (s *FragmentStore) Add(f Fragment) FragmentID {
	return FragmentID(s.arena.add(f))
}

// Get returns a mutable pointer to the fragment with the given id.
func (s *FragmentStore) Get(id FragmentID) *Fragment {
	return s.arena.get(int32(id))
}

// Len returns the number of fragments currently allocated.
func (s *FragmentStore) Len() int { return s.arena.len() }

// Reset clears the store, including any snapshot, for reuse by the next
// unitig.
func (s *FragmentStore) Reset() {
	s.arena.reset()
	s.snapshots = nil
}

// Snapshot captures the mutable parent/ahang/bhang/contained fields of
// every fragment currently in the store, for later Restore.
func (s *FragmentStore) Snapshot() {
	s.snapshots = make([]snapshot, s.arena.len())
	for i := range s.arena.items {
		f := &s.arena.items[i]
		s.snapshots[i] = snapshot{parent: f.Parent, ahang: f.AHang, bhang: f.BHang, contained: f.Contained}
	}
}

// Restore reverts every fragment's mutable parent/ahang/bhang/contained
// fields to the last Snapshot (spec.md section 4.C "restore").
func (s *FragmentStore) Restore() {
	for i := range s.snapshots {
		f := &s.arena.items[i]
		snap := s.snapshots[i]
		f.Parent, f.AHang, f.BHang, f.Contained = snap.parent, snap.ahang, snap.bhang, snap.contained
	}
}
