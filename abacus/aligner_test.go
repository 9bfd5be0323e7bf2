package abacus

import (
	"context"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/marbl/canu-cns/abacusstore"
	"github.com/marbl/canu-cns/aligner"
	"github.com/marbl/canu-cns/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readBack concatenates a fragment's bead chain, filtering gap beads, and
// reverse complements it back if the fragment was placed flipped -- the
// round-trip check of spec.md section 8 property 2.
func readBack(t *testing.T, al *Aligner, id abacusstore.FragmentID) []byte {
	t.Helper()
	frag := al.Fragments.Get(id)
	var out []byte
	for b := frag.FirstBead; b != abacusstore.NilBead; {
		bead := al.Beads.Get(b)
		if bead.Base != '-' {
			out = append(out, bead.Base)
		}
		b = bead.NextInRead
	}
	if frag.Complemented {
		rc := make([]byte, len(out))
		for i, c := range out {
			rc[len(out)-1-i] = complementBase(c)
		}
		return rc
	}
	return out
}

func complementBase(b byte) byte {
	switch b {
	case 'A':
		return 'T'
	case 'T':
		return 'A'
	case 'C':
		return 'G'
	case 'G':
		return 'C'
	default:
		return 'N'
	}
}

func q30(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = 30 + 33
	}
	return out
}

func TestAlignUnitigMinimal(t *testing.T) {
	seq := []byte("ACGTACGTACGTACGTACGTACGTACGTACGTACGTACGTACGTACGTAC") // 50bp; the slice below keeps all of it.
	seq = seq[:50]
	reads := abacusstore.NewInMemoryStore()
	reads.Put(0, seq, q30(50))
	reads.Put(1, seq, q30(50))

	al := NewAligner(aligner.BandedOracle{}, reads, config.Default(), 2)
	layout := []LayoutFragment{
		{Read: 0, Position: 0, Parent: -1, Contained: -1},
		{Read: 1, Position: 0, Parent: -1, Contained: -1},
	}
	cons, failed, err := al.AlignUnitig(context.Background(), layout)
	require.NoError(t, err)
	require.False(t, failed[0])
	require.False(t, failed[1])

	expect.EQ(t, 50, len(cons.Sequence))
	expect.EQ(t, string(seq), string(cons.Sequence))
	for _, q := range cons.Quality {
		expect.EQ(t, byte(30+33), q)
	}
}

func TestAlignUnitigOneBaseIndel(t *testing.T) {
	a := []byte("ACGTACGT")
	b := []byte("ACGTAACGT")
	reads := abacusstore.NewInMemoryStore()
	reads.Put(0, a, q30(len(a)))
	reads.Put(1, b, q30(len(b)))

	cfg := config.Default()
	cfg.MinOverlapLen = 4
	cfg.InitialErrorRate = 0.05
	cfg.ErrorRateCeiling = 0.2
	al := NewAligner(aligner.BandedOracle{}, reads, cfg, 2)
	layout := []LayoutFragment{
		{Read: 0, Position: 0, Parent: -1, Contained: -1},
		{Read: 1, Position: 0, Parent: -1, Contained: -1},
	}
	cons, failed, err := al.AlignUnitig(context.Background(), layout)
	require.NoError(t, err)
	require.False(t, failed[0])
	require.False(t, failed[1])

	expect.EQ(t, 9, al.MANode.Len())
	upper := make([]byte, len(cons.Sequence))
	for i, c := range cons.Sequence {
		upper[i] = c
	}
	expect.EQ(t, "ACGTAACGT", string(upper))
}

func TestAlignUnitigRoundTripProperty(t *testing.T) {
	a := []byte("ACGTACGTACGTACGTACGT")
	b := []byte("ACGTACGTAACGTACGTACGT")
	reads := abacusstore.NewInMemoryStore()
	reads.Put(0, a, q30(len(a)))
	reads.Put(1, b, q30(len(b)))

	cfg := config.Default()
	cfg.MinOverlapLen = 4
	al := NewAligner(aligner.BandedOracle{}, reads, cfg, 2)
	layout := []LayoutFragment{
		{Read: 0, Position: 0, Parent: -1, Contained: -1},
		{Read: 1, Position: 0, Parent: -1, Contained: -1},
	}
	_, failed, err := al.AlignUnitig(context.Background(), layout)
	require.NoError(t, err)
	require.False(t, failed[0])
	require.False(t, failed[1])

	expect.EQ(t, string(a), string(readBack(t, al, 0)))
	expect.EQ(t, string(b), string(readBack(t, al, 1)))
}

func TestAlignUnitigFlippedFragmentRoundTrips(t *testing.T) {
	a := []byte("ACGTACGTACGTACGTACGT")
	reads := abacusstore.NewInMemoryStore()
	reads.Put(0, a, q30(len(a)))
	rc := make([]byte, len(a))
	for i, c := range a {
		rc[len(a)-1-i] = complementBase(byte(c))
	}
	reads.Put(1, rc, q30(len(rc)))

	cfg := config.Default()
	cfg.MinOverlapLen = 4
	al := NewAligner(aligner.BandedOracle{}, reads, cfg, 2)
	layout := []LayoutFragment{
		{Read: 0, Position: 0, Parent: -1, Contained: -1},
		{Read: 1, Position: 0, Parent: -1, Contained: -1, Flipped: true},
	}
	_, failed, err := al.AlignUnitig(context.Background(), layout)
	require.NoError(t, err)
	require.False(t, failed[0])
	require.False(t, failed[1])

	expect.EQ(t, string(rc), string(readBack(t, al, 1)))
}

func TestRebuildIsIdempotentOnCheapPass(t *testing.T) {
	a := []byte("ACGTACGTACGTACGTACGT")
	b := []byte("ACGTACGTAACGTACGTACGT")
	reads := abacusstore.NewInMemoryStore()
	reads.Put(0, a, q30(len(a)))
	reads.Put(1, b, q30(len(b)))

	cfg := config.Default()
	cfg.MinOverlapLen = 4
	al := NewAligner(aligner.BandedOracle{}, reads, cfg, 2)
	layout := []LayoutFragment{
		{Read: 0, Position: 0, Parent: -1, Contained: -1},
		{Read: 1, Position: 0, Parent: -1, Contained: -1},
	}
	_, failed, err := al.AlignUnitig(context.Background(), layout)
	require.NoError(t, err)
	require.False(t, failed[0])
	require.False(t, failed[1])

	callsBefore := make([]byte, al.MANode.Len())
	for i, cid := range al.MANode.Columns {
		callsBefore[i] = al.Columns.Get(cid).Call
	}
	posBefore := make([]abacusstore.Interval, al.Fragments.Len())
	for i := range posBefore {
		posBefore[i] = al.Fragments.Get(abacusstore.FragmentID(i)).CnsPos
	}

	Rebuild(al.Frank, al.MANode, al.Columns, al.Beads, al.Fragments, false)

	expect.EQ(t, al.MANode.Len(), len(callsBefore))
	for i, cid := range al.MANode.Columns {
		expect.EQ(t, callsBefore[i], al.Columns.Get(cid).Call)
	}
	for i := range posBefore {
		assert.Equal(t, posBefore[i], al.Fragments.Get(abacusstore.FragmentID(i)).CnsPos)
	}
}

func TestAlignUnitigForcedRetryAtHigherErrorRate(t *testing.T) {
	base := []byte("ACGTACGTACGTACGTACGTACGTACGTACGT")
	reads := abacusstore.NewInMemoryStore()
	reads.Put(0, base, q30(len(base)))
	reads.Put(1, base, q30(len(base)))

	// A third read differs from the consensus by enough substitutions that
	// it only clears InitialErrorRate's ceiling once the retry cascade
	// reaches the 4*E0 tier.
	noisy := append([]byte(nil), base...)
	noisy[3] = 'G'
	noisy[10] = 'A'
	reads.Put(2, noisy, q30(len(noisy)))

	cfg := config.Default()
	cfg.InitialErrorRate = 0.02
	cfg.ErrorRateCeiling = 0.2
	cfg.MinOverlapLen = 10

	al := NewAligner(aligner.BandedOracle{}, reads, cfg, 3)
	layout := []LayoutFragment{
		{Read: 0, Position: 0, Parent: -1, Contained: -1},
		{Read: 1, Position: 0, Parent: -1, Contained: -1},
		{Read: 2, Position: 0, Parent: -1, Contained: -1},
	}
	_, failed, err := al.AlignUnitig(context.Background(), layout)
	require.NoError(t, err)
	assert.False(t, failed[2], "third fragment should place once the retry cascade reaches a higher error-rate tier")
}

func TestInitializeRejectsDuplicateReadID(t *testing.T) {
	reads := abacusstore.NewInMemoryStore()
	reads.Put(0, []byte("ACGT"), q30(4))

	al := NewAligner(aligner.BandedOracle{}, reads, config.Default(), 2)
	_, err := al.initialize([]LayoutFragment{
		{Read: 0, Parent: -1, Contained: -1},
		{Read: 0, Parent: -1, Contained: -1},
	})
	assert.Error(t, err)
}
