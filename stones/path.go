package stones

import "github.com/marbl/canu-cns/coord"

// reachableFrom returns the set of node indices reachable from root by
// following edges forward (spec.md section 4.E step 2: "A topological
// sort rooted at the left flank defines the reachable set").
func reachableFrom(n int, edges []DAGEdge, root int) map[int]bool {
	adj := buildAdjacency(n, edges)
	seen := map[int]bool{root: true}
	queue := []int{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, to := range adj[cur] {
			if !seen[to] {
				seen[to] = true
				queue = append(queue, to)
			}
		}
	}
	return seen
}

func buildAdjacency(n int, edges []DAGEdge) map[int][]int {
	adj := make(map[int][]int, n)
	for _, e := range edges {
		adj[e.From] = append(adj[e.From], e.To)
	}
	return adj
}

// pathState is the per-node result of the longest-path DP (spec.md
// section 4.E step 3): hops traveled, cumulative hi-position (tie
// breaker), and the predecessor edge used.
type pathState struct {
	hops     int
	hiPos    float64
	predEdge int // index into edges, or -1.
	reached  bool
}

// LongestPath computes the longest path (by hop count, ties broken by
// larger cumulative hi-position) from leftFlank to rightFlank over the
// reachable subgraph, validating each candidate step against its node's
// previously-estimated position within numStdDevs (spec.md section 4.E
// steps 2-3). It returns the ordered node indices of the winning path, or
// nil if no path reaches the right flank.
func LongestPath(nodes []Node, edges []DAGEdge, leftFlank, rightFlank int, numStdDevs float64) []int {
	n := len(nodes)
	reachable := reachableFrom(n, edges, leftFlank)
	if !reachable[rightFlank] {
		return nil
	}

	order := topoOrder(n, edges, reachable)
	states := make([]pathState, n)
	for i := range states {
		states[i].predEdge = -1
	}
	states[leftFlank] = pathState{hops: 0, hiPos: nodes[leftFlank].Position.Mean, reached: true, predEdge: -1}

	for _, u := range order {
		if !states[u].reached {
			continue
		}
		for ei, e := range edges {
			if e.From != u || !reachable[e.To] {
				continue
			}
			if !geometricallyConsistent(nodes[u], nodes[e.To], e, numStdDevs) {
				continue
			}
			candHiPos := states[u].hiPos + float64(e.Overlap.Length)
			cand := pathState{hops: states[u].hops + 1, hiPos: candHiPos, reached: true, predEdge: ei}
			cur := states[e.To]
			if !cur.reached || better(cand, cur) {
				states[e.To] = cand
			}
		}
	}

	if !states[rightFlank].reached {
		return nil
	}
	return reconstructPath(edges, states, leftFlank, rightFlank)
}

func better(a, b pathState) bool {
	if a.hops != b.hops {
		return a.hops > b.hops
	}
	return a.hiPos > b.hiPos
}

// geometricallyConsistent validates that the path's implied a-hang sum
// lies within numStdDevs of the candidate node's previously-estimated
// position (spec.md section 4.E step 3 "validate that it is geometrically
// consistent").
func geometricallyConsistent(from, to Node, e DAGEdge, numStdDevs float64) bool {
	implied := coord.Position{Mean: from.Position.Mean + float64(e.AHang), Variance: to.Position.Variance}
	return coord.WithinSigma(implied, to.Position, numStdDevs)
}

// topoOrder returns a topological order of the reachable node set
// (Kahn's algorithm), so the longest-path DP can relax edges in one pass.
func topoOrder(n int, edges []DAGEdge, reachable map[int]bool) []int {
	indeg := map[int]int{}
	adj := map[int][]int{}
	for _, e := range edges {
		if !reachable[e.From] || !reachable[e.To] {
			continue
		}
		adj[e.From] = append(adj[e.From], e.To)
		indeg[e.To]++
	}
	var queue []int
	for v := range reachable {
		if indeg[v] == 0 {
			queue = append(queue, v)
		}
	}
	var order []int
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		order = append(order, u)
		for _, v := range adj[u] {
			indeg[v]--
			if indeg[v] == 0 {
				queue = append(queue, v)
			}
		}
	}
	return order
}

func reconstructPath(edges []DAGEdge, states []pathState, left, right int) []int {
	path := []int{right}
	cur := right
	for cur != left {
		ei := states[cur].predEdge
		if ei < 0 {
			return nil
		}
		cur = edges[ei].From
		path = append(path, cur)
	}
	// reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
