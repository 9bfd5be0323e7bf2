// Package abacus implements the unitig multi-aligner (spec.md section
// 4.C "Unitig Multi-Aligner"), grounded on MultiAlignUnitig.C: an
// editable, column-major multiple alignment built incrementally by
// placing one fragment at a time against a running consensus
// ("frankenstein"), refined by smoothing passes, and finally collapsed
// into a consensus string, quality string, and per-read column intervals.
package abacus

import "github.com/marbl/canu-cns/abacusstore"

// MANode is the head of one unitig's doubly-linked column list (spec.md
// section 9 "Doubly-linked column lists"): every column belongs to exactly
// one MA-node, and a unitig has exactly one MA-node for its lifetime.
type MANode struct {
	First, Last abacusstore.ColumnID
	// Columns is the ordered column-id list, kept in step with the linked
	// list by the methods that splice columns in or out (Refresh only
	// renumbers each column's Index from it), so placement code can
	// binary-search or index directly instead of walking the linked list.
	Columns []abacusstore.ColumnID
}

// NewMANode returns an empty MA-node.
func NewMANode() *MANode {
	return &MANode{First: abacusstore.NilColumn, Last: abacusstore.NilColumn}
}

// AppendColumn appends a freshly allocated column to the end of the list.
func (m *MANode) AppendColumn(store *abacusstore.ColumnStore) abacusstore.ColumnID {
	id := store.InsertAfter(m.Last)
	if m.First == abacusstore.NilColumn {
		m.First = id
	}
	m.Last = id
	m.Columns = append(m.Columns, id)
	return id
}

// InsertColumnAfter splices a new column into the list immediately after
// prev, updating Columns and First/Last as needed (spec.md section 9: "a
// four-index update; no pointer chasing across the arena").
func (m *MANode) InsertColumnAfter(store *abacusstore.ColumnStore, prev abacusstore.ColumnID) abacusstore.ColumnID {
	id := store.InsertAfter(prev)
	if prev == abacusstore.NilColumn {
		m.First = id
		if m.Last == abacusstore.NilColumn {
			m.Last = id
		}
		m.Columns = append([]abacusstore.ColumnID{id}, m.Columns...)
		return id
	}
	if prev == m.Last {
		m.Last = id
	}
	pos := 0
	for i, c := range m.Columns {
		if c == prev {
			pos = i + 1
			break
		}
	}
	m.Columns = append(m.Columns, abacusstore.NilColumn)
	copy(m.Columns[pos+1:], m.Columns[pos:])
	m.Columns[pos] = id
	return id
}

// Refresh recomputes each column's per-node Index field from the current
// Columns order, the per-column half of the "refresh indices" state
// spec.md section 9 calls out as scratch.
func (m *MANode) Refresh(store *abacusstore.ColumnStore) {
	for i, id := range m.Columns {
		store.Get(id).Index = i
	}
}

// Len returns the number of columns in the node.
func (m *MANode) Len() int { return len(m.Columns) }
