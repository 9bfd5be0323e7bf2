package abacus

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/marbl/canu-cns/abacusstore"
	"github.com/marbl/canu-cns/aligner"
	"github.com/marbl/canu-cns/config"
	"github.com/marbl/canu-cns/seqbase"
)

// LayoutFragment is one entry of the unitig layout the host supplies
// (spec.md section 6 "Input": "an ordered list of (read id, signed
// position, parent id, a-hang, b-hang, contained id)").
type LayoutFragment struct {
	Read      abacusstore.ReadID
	Position  int
	Parent    int // index into the layout slice, or -1.
	AHang     int
	BHang     int
	Contained int // index into the layout slice, or -1.
	Flipped   bool
}

// Aligner owns one unitig's alignment state: the four shared arenas
// (spec.md section 5 "Shared resources"), the single MA-node, and the
// running frankenstein buffer. A fresh Aligner is created per unitig and
// discarded after AlignUnitig returns (spec.md section 5 ordering
// guarantee (i): "each opening and tearing down its own abacus").
type Aligner struct {
	Oracle   aligner.Oracle
	Reads    abacusstore.SequenceStore
	Config   config.Config

	Beads     *abacusstore.BeadStore
	Columns   *abacusstore.ColumnStore
	Fragments *abacusstore.FragmentStore
	Frank     *Frankenstein
	MANode    *MANode
}

// NewAligner returns a freshly initialized Aligner sized for capacityHint
// fragments.
func NewAligner(oracle aligner.Oracle, reads abacusstore.SequenceStore, cfg config.Config, capacityHint int) *Aligner {
	return &Aligner{
		Oracle:    oracle,
		Reads:     reads,
		Config:    cfg,
		Beads:     abacusstore.NewBeadStore(capacityHint * 200),
		Columns:   abacusstore.NewColumnStore(capacityHint * 200),
		Fragments: abacusstore.NewFragmentStore(capacityHint),
		Frank:     NewFrankenstein(capacityHint * 200),
		MANode:    NewMANode(),
	}
}

// initialize loads the layout into the fragment store, rejecting
// duplicate read ids (spec.md section 4.C edge cases: "Duplicate fragment
// identifiers in the input abort initialize").
func (a *Aligner) initialize(layout []LayoutFragment) ([]abacusstore.FragmentID, error) {
	seen := map[abacusstore.ReadID]bool{}
	ids := make([]abacusstore.FragmentID, len(layout))
	for i, lf := range layout {
		if seen[lf.Read] {
			return nil, errors.E("abacus: duplicate fragment identifier in unitig layout", "read", lf.Read)
		}
		seen[lf.Read] = true
		ids[i] = a.Fragments.Add(abacusstore.Fragment{
			Read:   lf.Read,
			Length: a.Reads.Length(lf.Read),
			Complemented: lf.Flipped,
			Parent: abacusstore.NilFragment,
			Contained: abacusstore.NilFragment,
			Layout: abacusstore.LayoutEstimate{Position: lf.Position, AHang: lf.AHang, BHang: lf.BHang,
				Parent: abacusstore.NilFragment, Contained: abacusstore.NilFragment},
		})
	}
	for i, lf := range layout {
		frag := a.Fragments.Get(ids[i])
		if lf.Parent >= 0 {
			frag.Parent = ids[lf.Parent]
			frag.Layout.Parent = ids[lf.Parent]
		}
		if lf.Contained >= 0 {
			frag.Contained = ids[lf.Contained]
			frag.Layout.Contained = ids[lf.Contained]
		}
		frag.AHang, frag.BHang = lf.AHang, lf.BHang
	}
	a.Fragments.Snapshot()
	return ids, nil
}

// restore reverts every fragment's mutable placement fields to their
// initialize-time snapshot (spec.md section 4.C "restore").
func (a *Aligner) restore() {
	a.Fragments.Restore()
}

// fragmentSequence returns the fragment's sequence and quality, reverse
// complemented if the fragment is flipped (spec.md section 8 property 2).
func (a *Aligner) fragmentSequence(frag *abacusstore.Fragment) ([]byte, []byte) {
	seq := a.Reads.Sequence(frag.Read)
	qual := a.Reads.Quality(frag.Read)
	if !frag.Complemented {
		return seq, qual
	}
	rc := make([]byte, len(seq))
	seqbase.ReverseComplement(rc, seq)
	rq := make([]byte, len(qual))
	seqbase.Reverse(rq, qual)
	return rc, rq
}

// alignNext runs the retry-tier cascade of spec.md section 4.C "Retry
// tiers" for one fragment: four error-rate tiers (E0, 2E0, post-rebuild
// retry, 4E0, each clamped to the configured ceiling) times four
// placement strategies, returning whether the fragment was successfully
// applied.
func (a *Aligner) alignNext(ctx context.Context, fragID abacusstore.FragmentID) bool {
	frag := a.Fragments.Get(fragID)
	seq, qual := a.fragmentSequence(frag)

	tiers := []float64{
		a.Config.InitialErrorRate,
		clamp(2*a.Config.InitialErrorRate, a.Config.ErrorRateCeiling),
		clamp(2*a.Config.InitialErrorRate, a.Config.ErrorRateCeiling), // "after full-rebuild": same rate, different strategies.
		clamp(4*a.Config.InitialErrorRate, a.Config.ErrorRateCeiling),
	}

	for tier, rate := range tiers {
		if tier == 2 {
			Rebuild(a.Frank, a.MANode, a.Columns, a.Beads, a.Fragments, true)
		}
		estimates := []Estimate{
			FromParentNotContained(a.Fragments, frag),
			FromParentContained(a.Fragments, frag),
			FromLayout(frag),
			FromAlignment(),
		}
		opts := AlignOpts{
			ErrorRate:     rate,
			MinOverlapLen: a.Config.MinOverlapLen,
		}
		for _, est := range estimates {
			if !est.OK {
				continue
			}
			res, ok := alignFragment(ctx, a.Oracle, a.Frank, est, seq, opts)
			if !ok {
				continue
			}
			applyAlignment(a.Frank, a.MANode, a.Columns, a.Beads, frag, fragID, seq, qual, res)
			Rebuild(a.Frank, a.MANode, a.Columns, a.Beads, a.Fragments, false)
			if frag.CnsPos.Begin >= frag.CnsPos.End {
				log.Error.Printf("abacus: fragment %d placed with empty column interval [%d,%d)", fragID, frag.CnsPos.Begin, frag.CnsPos.End)
			}
			return true
		}
	}
	return false
}

func clamp(rate, ceiling float64) float64 {
	if rate > ceiling {
		return ceiling
	}
	return rate
}

// AlignUnitig runs the full per-unitig alignment described by spec.md
// section 4.C: initialize, place every fragment via the retry cascade,
// and either emit a Consensus or, on any unrecoverable fragment failure,
// restore and report failure without emitting one (spec.md section 4.C:
// "If any fragment failed, the unitig is reported as failed: restore is
// called and no consensus is emitted").
func (a *Aligner) AlignUnitig(ctx context.Context, layout []LayoutFragment) (Consensus, []bool, error) {
	ids, err := a.initialize(layout)
	if err != nil {
		return Consensus{}, nil, err
	}

	failed := make([]bool, len(ids))
	anyFailed := false
	for i, id := range ids {
		if ctx.Err() != nil {
			return Consensus{}, nil, ctx.Err()
		}
		// The first fragment seeds frankenstein directly; there is
		// nothing to align against yet.
		if a.Frank.Len() == 0 && a.MANode.Len() == 0 {
			a.seedFirstFragment(id)
			continue
		}
		if !a.alignNext(ctx, id) {
			failed[i] = true
			anyFailed = true
			a.Fragments.Get(id).Failed = true
			if a.Config.FailureIsFatal {
				return Consensus{}, failed, errors.E("abacus: fragment alignment unreachable and FailureIsFatal is set", "fragment", id)
			}
		}
	}

	if anyFailed {
		a.restore()
		return Consensus{}, failed, nil
	}

	cons := GenerateConsensus(a.Frank, a.MANode, a.Columns, a.Beads, a.Fragments, a.Config.MicroHetDisagreementThreshold)
	return cons, failed, nil
}

// seedFirstFragment places the unitig's first fragment as a straight
// column-for-base run, with no alignment needed (spec.md scenario 1
// "Minimal unitig").
func (a *Aligner) seedFirstFragment(fragID abacusstore.FragmentID) {
	frag := a.Fragments.Get(fragID)
	seq, qual := a.fragmentSequence(frag)

	var prevBead abacusstore.BeadID = abacusstore.NilBead
	firstBead := abacusstore.NilBead
	for i, base := range seq {
		colID := a.MANode.AppendColumn(a.Columns)
		a.Frank.Append(base, abacusstore.NilBead)
		q := byte(30 + 33)
		if i < len(qual) {
			q = qual[i]
		}
		id := a.Beads.Add(abacusstore.Bead{Base: base, Quality: q, PrevInRead: prevBead, NextInRead: abacusstore.NilBead, Column: colID, Fragment: fragID})
		if prevBead != abacusstore.NilBead {
			a.Beads.Get(prevBead).NextInRead = id
		}
		prevBead = id
		if firstBead == abacusstore.NilBead {
			firstBead = id
		}
		a.Columns.Get(colID).Beads = append(a.Columns.Get(colID).Beads, id)
	}
	frag.FirstBead = firstBead
	frag.CnsPos = abacusstore.Interval{Begin: 0, End: len(seq)}
	Rebuild(a.Frank, a.MANode, a.Columns, a.Beads, a.Fragments, false)
}
