package stones

import (
	"github.com/grailbio/base/log"
	"github.com/marbl/canu-cns/scaffoldgraph"
)

// Checkpointer is the host callback invoked every StonesPerCheckpoint
// insertions (spec.md section 6 "Configuration": stones-per-checkpoint).
type Checkpointer interface {
	Checkpoint()
}

// NoopCheckpointer satisfies Checkpointer for callers that don't need
// checkpointing (tests, or a host that persists some other way).
type NoopCheckpointer struct{}

// Checkpoint implements Checkpointer.
func (NoopCheckpointer) Checkpoint() {}

// Placement is one kept candidate ready for insertion (spec.md section
// 4.E "Insertion"): its resolved chunk, the kind tag it should carry, and
// whether it represents a new copy of a non-singleton contig that must be
// cloned rather than moved.
type Placement struct {
	Chunk scaffoldgraph.GapChunk
	Kind  scaffoldgraph.ContigKind
	Split bool
}

// Inserter drives spec.md section 4.E "Insertion" across a scaffold: for
// each gap and each kept candidate, remove it from any previous
// membership, clone it if it's a split placement, tag its kind, and
// insert it at its resolved position. It requests a checkpoint every
// StonesPerCheckpoint insertions, and after a scaffold's insertions it runs
// force-increasing-variances and checks connectivity. Edges are not
// re-marked and no edge cleanup pass is run.
type Inserter struct {
	Store               *scaffoldgraph.InMemoryStore
	Checkpointer        Checkpointer
	StonesPerCheckpoint int
	DuplicateTolerance  float64
	// DefaultKind tags placements that aren't joiner-marked (spec.md
	// section 4.E Insertion step 3). The gap-fill rock pass and the stone
	// pass share this type but use different defaults.
	DefaultKind scaffoldgraph.ContigKind

	count int
}

// InsertScaffold processes one scaffold's gaps left to right (spec.md
// section 5 ordering guarantee (ii)), inserting every kept, de-duplicated
// candidate as a Placement, then running the post-insertion consistency
// passes.
func (in *Inserter) InsertScaffold(sid scaffoldgraph.ScaffoldID, gaps []scaffoldgraph.Gap) error {
	anyInserted := false
	for gi := range gaps {
		gap := &gaps[gi]
		kept := make([]scaffoldgraph.GapChunk, 0, len(gap.Chunks))
		for _, c := range gap.Chunks {
			if c.Keep {
				kept = append(kept, c)
			}
		}
		kept = KillDuplicates(kept, in.DuplicateTolerance)
		for _, chunk := range kept {
			kind := in.DefaultKind
			if chunk.Joiner {
				kind = scaffoldgraph.KindWalk
			}
			in.insertOne(sid, Placement{Chunk: chunk, Kind: kind, Split: chunk.Split})
			anyInserted = true
			in.count++
			if in.StonesPerCheckpoint > 0 && in.count%in.StonesPerCheckpoint == 0 {
				in.Checkpointer.Checkpoint()
			}
		}
	}
	if !anyInserted {
		return nil
	}

	if err := scaffoldgraph.ForceIncreasingVariances(in.Store, sid); err != nil {
		log.Error.Printf("stones: force-increasing-variances after insertion: %v", err)
	}

	if created := scaffoldgraph.SplitIfDisconnected(in.Store, sid); len(created) > 0 {
		log.Debug.Printf("stones: scaffold %d split into %d components after insertion", sid, len(created))
	}
	return nil
}

func (in *Inserter) insertOne(sid scaffoldgraph.ScaffoldID, p Placement) {
	cid := p.Chunk.ContigID
	in.Store.RemoveContigFromScaffold(cid)

	if p.Split {
		cid = in.Store.CloneContig(p.Chunk.ContigID, p.Chunk.CopyLetter)
	}
	contig, ok := in.Store.Contig(cid)
	if !ok {
		return
	}
	contig.Kind = p.Kind
	contig.SetEnds(p.Chunk.Start, p.Chunk.End)
	contig.Flipped = p.Chunk.Flipped

	in.Store.InsertContigIntoScaffold(sid, cid)
}
