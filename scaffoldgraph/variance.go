package scaffoldgraph

import "github.com/marbl/canu-cns/coord"

// contigEnds adapts *Contig to coord.EndPositions for ForceIncreasingVariances.
type contigEnds struct{ c *Contig }

func (e contigEnds) Ends() (coord.Position, coord.Position) { return e.c.Ends() }
func (e contigEnds) SetEnds(a, b coord.Position)             { e.c.SetEnds(a, b) }

// ForceIncreasingVariances re-establishes the monotonic-variance invariant
// (spec.md section 3 Scaffold invariant (i), testable property 1) across
// scaffold sid's contigs, left to right.
func ForceIncreasingVariances(s Store, sid ScaffoldID) error {
	sc, ok := s.Scaffold(sid)
	if !ok {
		return nil
	}
	ends := make([]coord.EndPositions, len(sc.Contigs))
	for i, cid := range sc.Contigs {
		c, _ := s.Contig(cid)
		ends[i] = contigEnds{c}
	}
	return coord.ForceIncreasingVariances(ends)
}

// TrustedEdge reports whether e counts as a "trusted" scaffold edge for
// the connectivity re-check (spec.md section 3 Scaffold invariant (ii)):
// an edge is trusted unless it is flagged bogus or sloppy.
func TrustedEdge(e *Edge) bool {
	return !e.ProbablyBogus && !e.Sloppy
}

// ConnectedComponents partitions a scaffold's contigs into connected
// components under the subgraph of edges accepted by include, using only
// edges whose both endpoints are in the scaffold.
func ConnectedComponents(s Store, sid ScaffoldID, include func(*Edge) bool) [][]ContigID {
	sc, ok := s.Scaffold(sid)
	if !ok {
		return nil
	}
	inScaffold := map[ContigID]bool{}
	for _, cid := range sc.Contigs {
		inScaffold[cid] = true
	}
	parent := map[ContigID]ContigID{}
	var find func(ContigID) ContigID
	find = func(x ContigID) ContigID {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b ContigID) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}
	for _, cid := range sc.Contigs {
		parent[cid] = cid
	}
	for _, cid := range sc.Contigs {
		for _, e := range s.Edges(cid) {
			if !include(e) {
				continue
			}
			if inScaffold[e.From] && inScaffold[e.To] {
				union(e.From, e.To)
			}
		}
	}
	groups := map[ContigID][]ContigID{}
	for _, cid := range sc.Contigs {
		root := find(cid)
		groups[root] = append(groups[root], cid)
	}
	out := make([][]ContigID, 0, len(groups))
	for _, cid := range sc.Contigs {
		if g, ok := groups[find(cid)]; ok {
			out = append(out, g)
			delete(groups, find(cid))
		}
	}
	return out
}

// SplitIfDisconnected checks scaffold sid's connectivity under the
// all-edges subgraph and, if it is no longer a single connected component,
// splits it into one scaffold per component (spec.md section 4.E
// Insertion, final connectivity check; section 7 "Scaffold split"). It
// returns the ids of the resulting scaffolds, one per component, or nil
// if no split was needed; the original id is reused for the component
// whose first contig comes earliest in the old scaffold order.
func SplitIfDisconnected(s *InMemoryStore, sid ScaffoldID) []ScaffoldID {
	components := ConnectedComponents(s, sid, func(e *Edge) bool { return true })
	if len(components) <= 1 {
		return nil
	}
	sc, ok := s.Scaffold(sid)
	if !ok {
		return nil
	}
	orderOf := map[ContigID]int{}
	for i, cid := range sc.Contigs {
		orderOf[cid] = i
	}
	for i := range components {
		comp := components[i]
		for j := 1; j < len(comp); j++ {
			k := j
			for k > 0 && orderOf[comp[k-1]] > orderOf[comp[k]] {
				comp[k-1], comp[k] = comp[k], comp[k-1]
				k--
			}
		}
	}
	for i := 1; i < len(components); i++ {
		for j := i; j > 0 && orderOf[components[j-1][0]] > orderOf[components[j][0]]; j-- {
			components[j-1], components[j] = components[j], components[j-1]
		}
	}

	delete(s.scaffolds, sid)
	created := make([]ScaffoldID, 0, len(components))
	first := true
	for _, comp := range components {
		var newID ScaffoldID
		if first {
			newID = sid
			first = false
		} else {
			newID = s.nextScaffold
			s.nextScaffold++
		}
		s.scaffolds[newID] = &Scaffold{ID: newID, Contigs: comp}
		for _, cid := range comp {
			s.contigs[cid].Scaffold = newID
		}
		created = append(created, newID)
	}
	return created
}
