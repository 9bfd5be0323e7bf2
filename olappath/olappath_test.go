package olappath

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// simpleGraph is a small adjacency-list Graph for tests.
type simpleGraph struct {
	edges  map[NodeID][]Edge
	length map[NodeID]float64
}

func (g *simpleGraph) OutEdges(node NodeID, exitEnd End) []Edge {
	return g.edges[node]
}

func (g *simpleGraph) Length(node NodeID) float64 {
	return g.length[node]
}

func TestFindSimplePathToDestination(t *testing.T) {
	g := &simpleGraph{
		edges: map[NodeID][]Edge{
			0: {{To: 1, ArrivalEnd: EndA, DistanceMean: 100}},
			1: {{To: 2, ArrivalEnd: EndA, DistanceMean: 100}},
		},
		length: map[NodeID]float64{0: 50, 1: 50, 2: 50},
	}
	res := Find(context.Background(), g, Params{
		Source:      0,
		ExitEnd:     EndB,
		Destination: 2,
		Bound:       1000,
		MaxCalls:    100,
	})
	assert.True(t, res.Found)
}

func TestFindTargetHitWindow(t *testing.T) {
	g := &simpleGraph{
		edges: map[NodeID][]Edge{
			0: {{To: 1, ArrivalEnd: EndA, DistanceMean: 200}},
		},
		length: map[NodeID]float64{0: 10, 1: 10},
	}
	res := Find(context.Background(), g, Params{
		Source:      0,
		ExitEnd:     EndB,
		Destination: NilNode,
		Targets:     []Target{{Node: 1, Low: 150, High: 250, RequiredEnd: EndA}},
		Bound:       1000,
		MaxCalls:    100,
	})
	assert.True(t, res.Found)
	if assert.Len(t, res.Hits, 1) {
		assert.Equal(t, NodeID(1), res.Hits[0].Node)
		assert.Equal(t, 200.0, res.Hits[0].PathLength)
	}
}

func TestFindFailsOutsideWindow(t *testing.T) {
	g := &simpleGraph{
		edges: map[NodeID][]Edge{
			0: {{To: 1, ArrivalEnd: EndA, DistanceMean: 500}},
		},
		length: map[NodeID]float64{0: 10, 1: 10},
	}
	res := Find(context.Background(), g, Params{
		Source:   0,
		ExitEnd:  EndB,
		Targets:  []Target{{Node: 1, Low: 0, High: 100, RequiredEnd: EndA}},
		Bound:    1000,
		MaxCalls: 100,
	})
	assert.False(t, res.Found)
}

// TestFindMaxCallsOneForcesFailure is property 4 from spec.md section 8:
// Find_Olap_Path always terminates, and setting MAXCALLS = 1 forces failure.
func TestFindMaxCallsOneForcesFailure(t *testing.T) {
	g := &simpleGraph{
		edges: map[NodeID][]Edge{
			0: {{To: 1, ArrivalEnd: EndA, DistanceMean: 10}},
		},
		length: map[NodeID]float64{0: 10, 1: 10},
	}
	res := Find(context.Background(), g, Params{
		Source:      0,
		ExitEnd:     EndB,
		Destination: 1,
		Bound:       1000,
		MaxCalls:    1,
	})
	assert.False(t, res.Found)
}

func TestFindCutsBackEdges(t *testing.T) {
	g := &simpleGraph{
		edges: map[NodeID][]Edge{
			0: {{To: 1, ArrivalEnd: EndA, DistanceMean: 10}},
			1: {{To: 0, ArrivalEnd: EndA, DistanceMean: 10}, {To: 2, ArrivalEnd: EndA, DistanceMean: 10}},
		},
		length: map[NodeID]float64{0: 10, 1: 10, 2: 10},
	}
	res := Find(context.Background(), g, Params{
		Source:      0,
		ExitEnd:     EndB,
		Destination: 2,
		Bound:       1000,
		MaxCalls:    1000,
	})
	assert.True(t, res.Found)
}

func TestAdmissibleMasksContainment(t *testing.T) {
	g := &simpleGraph{
		edges: map[NodeID][]Edge{
			0: {{To: 1, ArrivalEnd: EndA, DistanceMean: 10, Kind: KindContainmentOverlap}},
		},
		length: map[NodeID]float64{0: 10, 1: 10},
	}
	res := Find(context.Background(), g, Params{
		Source: 0, ExitEnd: EndB, Destination: 1, Bound: 1000, MaxCalls: 100, Mask: 0,
	})
	assert.False(t, res.Found)

	res = Find(context.Background(), g, Params{
		Source: 0, ExitEnd: EndB, Destination: 1, Bound: 1000, MaxCalls: 100,
		Mask: AllowContainmentAtEnds,
	})
	assert.True(t, res.Found)
}
