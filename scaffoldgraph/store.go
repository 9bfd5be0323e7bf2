package scaffoldgraph

// Store is the scaffold-graph store the core mutates (spec.md section 6
// "External interfaces"). InMemoryStore is this repo's own reference
// implementation, used by its tests; a production store (out of scope) is
// whatever the host's binary format provides, adapted to this interface.
type Store interface {
	Contig(ContigID) (*Contig, bool)
	Scaffold(ScaffoldID) (*Scaffold, bool)
	Edges(ContigID) []*Edge
	AllScaffolds() []ScaffoldID
}

// InMemoryStore is a simple arena-backed Store.
type InMemoryStore struct {
	contigs   map[ContigID]*Contig
	scaffolds map[ScaffoldID]*Scaffold
	edges     map[EdgeID]*Edge
	byContig  map[ContigID][]EdgeID

	nextContig   ContigID
	nextScaffold ScaffoldID
	nextEdge     EdgeID
}

// NewInMemoryStore returns an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		contigs:   map[ContigID]*Contig{},
		scaffolds: map[ScaffoldID]*Scaffold{},
		edges:     map[EdgeID]*Edge{},
		byContig:  map[ContigID][]EdgeID{},
	}
}

// Contig implements Store.
func (s *InMemoryStore) Contig(id ContigID) (*Contig, bool) {
	c, ok := s.contigs[id]
	return c, ok
}

// Scaffold implements Store.
func (s *InMemoryStore) Scaffold(id ScaffoldID) (*Scaffold, bool) {
	sc, ok := s.scaffolds[id]
	return sc, ok
}

// Edges implements Store.
func (s *InMemoryStore) Edges(id ContigID) []*Edge {
	ids := s.byContig[id]
	out := make([]*Edge, 0, len(ids))
	for _, eid := range ids {
		out = append(out, s.edges[eid])
	}
	return out
}

// AllScaffolds implements Store, returning scaffold ids in ascending
// order (spec.md section 5 "Across scaffolds, insertions are ordered by
// scaffold id").
func (s *InMemoryStore) AllScaffolds() []ScaffoldID {
	ids := make([]ScaffoldID, 0, len(s.scaffolds))
	for id := range s.scaffolds {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}

// AddContig inserts a new contig (not yet in any scaffold) and returns its
// id.
func (s *InMemoryStore) AddContig(c Contig) ContigID {
	id := s.nextContig
	s.nextContig++
	c.ID = id
	s.contigs[id] = &c
	return id
}

// AddScaffold creates a new scaffold containing the given contigs in
// order, setting each contig's Scaffold field.
func (s *InMemoryStore) AddScaffold(contigs []ContigID) ScaffoldID {
	id := s.nextScaffold
	s.nextScaffold++
	s.scaffolds[id] = &Scaffold{ID: id, Contigs: append([]ContigID{}, contigs...)}
	for _, cid := range contigs {
		if c, ok := s.contigs[cid]; ok {
			c.Scaffold = id
		}
	}
	return id
}

// AddEdge inserts a new edge and indexes it by both endpoints.
func (s *InMemoryStore) AddEdge(e Edge) EdgeID {
	id := s.nextEdge
	s.nextEdge++
	e.ID = id
	s.edges[id] = &e
	s.byContig[e.From] = append(s.byContig[e.From], id)
	s.byContig[e.To] = append(s.byContig[e.To], id)
	return id
}

// RemoveEdge deletes an edge.
func (s *InMemoryStore) RemoveEdge(id EdgeID) {
	e, ok := s.edges[id]
	if !ok {
		return
	}
	delete(s.edges, id)
	s.byContig[e.From] = removeEdgeID(s.byContig[e.From], id)
	s.byContig[e.To] = removeEdgeID(s.byContig[e.To], id)
}

func removeEdgeID(ids []EdgeID, target EdgeID) []EdgeID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// RemoveContigFromScaffold removes cid from its current scaffold's contig
// list. If that empties the scaffold, the scaffold itself is deleted
// (spec.md section 4.E Insertion step 1).
func (s *InMemoryStore) RemoveContigFromScaffold(cid ContigID) {
	c, ok := s.contigs[cid]
	if !ok || c.Scaffold == NilScaffold {
		return
	}
	sc, ok := s.scaffolds[c.Scaffold]
	if !ok {
		return
	}
	kept := sc.Contigs[:0]
	for _, id := range sc.Contigs {
		if id != cid {
			kept = append(kept, id)
		}
	}
	sc.Contigs = kept
	c.Scaffold = NilScaffold
	if len(sc.Contigs) == 0 {
		delete(s.scaffolds, sc.ID)
	}
}

// InsertContigIntoScaffold inserts cid into scaffold sid at the position
// determined by its Start mean among the scaffold's current contigs
// (spec.md section 4.E Insertion step 4).
func (s *InMemoryStore) InsertContigIntoScaffold(sid ScaffoldID, cid ContigID) {
	sc, ok := s.scaffolds[sid]
	if !ok {
		sc = &Scaffold{ID: sid}
		s.scaffolds[sid] = sc
	}
	c := s.contigs[cid]
	c.Scaffold = sid
	pos := len(sc.Contigs)
	for i, id := range sc.Contigs {
		other := s.contigs[id]
		if c.Min().Mean < other.Min().Mean {
			pos = i
			break
		}
	}
	sc.Contigs = append(sc.Contigs, NilContig)
	copy(sc.Contigs[pos+1:], sc.Contigs[pos:])
	sc.Contigs[pos] = cid
}

// CloneContig creates a new contig with the same length and kind as src
// but a fresh id and SourceContig set to src's id (spec.md section 4.E
// Insertion step 2: splitting a non-singleton contig's new copy).
func (s *InMemoryStore) CloneContig(src ContigID, copyLetter byte) ContigID {
	orig := s.contigs[src]
	clone := *orig
	clone.SourceContig = src
	clone.CopyLetter = copyLetter
	clone.Scaffold = NilScaffold
	return s.AddContig(clone)
}
