package abacusstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnStoreInsertAfter(t *testing.T) {
	cs := NewColumnStore(4)
	first := cs.New()
	second := cs.InsertAfter(first)
	third := cs.InsertAfter(second)

	assert.Equal(t, second, cs.Get(first).Next)
	assert.Equal(t, first, cs.Get(second).Prev)
	assert.Equal(t, third, cs.Get(second).Next)
	assert.Equal(t, second, cs.Get(third).Prev)
	assert.Equal(t, NilColumn, cs.Get(third).Next)
}

func TestColumnStoreTallyMajorityCall(t *testing.T) {
	cs := NewColumnStore(1)
	id := cs.New()
	cs.Get(id).Beads = []BeadID{0, 1, 2}
	cs.TallyBases(id, []byte{'A', 'A', 'C'})

	assert.Equal(t, byte('A'), cs.Get(id).Call)
	assert.Equal(t, 2, cs.Get(id).Counts.A)
	assert.Equal(t, 1, cs.Get(id).Counts.C)
}

func TestColumnStoreTallyGapDominantIsLowercased(t *testing.T) {
	cs := NewColumnStore(1)
	id := cs.New()
	cs.TallyBases(id, []byte{'-', '-', 'A'})

	assert.Equal(t, byte('a'), cs.Get(id).Call)
}

func TestBeadAndFragmentStoreGrowth(t *testing.T) {
	bs := NewBeadStore(0)
	for i := 0; i < 100; i++ {
		id := bs.Add(Bead{Base: 'A'})
		assert.Equal(t, BeadID(i), id)
	}
	assert.Equal(t, 100, bs.Len())

	fs := NewFragmentStore(0)
	f1 := fs.Add(Fragment{Read: 1, Parent: NilFragment})
	fs.Snapshot()
	fs.Get(f1).Parent = 42
	fs.Get(f1).AHang = 7
	fs.Restore()
	assert.Equal(t, NilFragment, fs.Get(f1).Parent)
	assert.Equal(t, 0, fs.Get(f1).AHang)
}
