package stones

import "sort"

// Component is one connected group of nodes in the reachable overlap
// subgraph, considered for partial-path acceptance (spec.md section 4.E
// "Partial-path mode").
type Component struct {
	Nodes []int

	ReachesRight bool
	ReachesLeft  bool
}

// eligible reports whether a component satisfies spec.md's partial-path
// criteria: it reaches the right flank, reaches the left flank, or
// internally contains at least 2 candidates.
func (c Component) eligible(realCandidateCount func([]int) int) bool {
	if c.ReachesRight || c.ReachesLeft {
		return true
	}
	return realCandidateCount(c.Nodes) >= 2
}

// DetermineComponents segments the reachable subgraph (ignoring direction)
// into connected components and returns the ones eligible for partial-path
// acceptance (spec.md section 4.E "Determine_Components"). isReal reports
// whether a node index is a genuine candidate (as opposed to a flank
// pseudo-node).
func DetermineComponents(n int, edges []DAGEdge, leftFlank, rightFlank int, isReal func(int) bool) []Component {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}
	for _, e := range edges {
		union(e.From, e.To)
	}

	groups := map[int][]int{}
	var roots []int
	for i := 0; i < n; i++ {
		r := find(i)
		if _, ok := groups[r]; !ok {
			roots = append(roots, r)
		}
		groups[r] = append(groups[r], i)
	}
	sort.Ints(roots)

	reachRight := reachableBackward(n, edges, rightFlank)
	reachLeftFwd := reachableFrom(n, edges, leftFlank)

	var components []Component
	for _, r := range roots {
		nodes := groups[r]
		reachesRight, reachesLeft := false, false
		for _, idx := range nodes {
			if reachRight[idx] {
				reachesRight = true
			}
			if reachLeftFwd[idx] {
				reachesLeft = true
			}
		}
		comp := Component{Nodes: nodes, ReachesRight: reachesRight, ReachesLeft: reachesLeft}
		realCount := func(ns []int) int {
			c := 0
			for _, idx := range ns {
				if isReal(idx) {
					c++
				}
			}
			return c
		}
		if comp.eligible(realCount) {
			components = append(components, comp)
		}
	}
	return components
}

// reachableBackward returns the set of node indices that can reach root by
// following edges forward -- i.e. nodes reachable from root walking edges
// in reverse.
func reachableBackward(n int, edges []DAGEdge, root int) map[int]bool {
	radj := make(map[int][]int, n)
	for _, e := range edges {
		radj[e.To] = append(radj[e.To], e.From)
	}
	seen := map[int]bool{root: true}
	queue := []int{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, from := range radj[cur] {
			if !seen[from] {
				seen[from] = true
				queue = append(queue, from)
			}
		}
	}
	return seen
}
