package layout

// assignRanks computes the horizontal rank of every node in a component by
// longest-path-from-source distance, using a topological traversal (Kahn's
// algorithm). Source nodes (no incoming edges inside the component) sit at
// rank 0; every other node is pushed one past its deepest parent.
//
// The input is assumed acyclic. Should a cycle slip through, its members
// never reach zero in-degree and stay at their default rank 0 — the
// traversal terminates regardless.
func (a *adjacency) assignRanks(comp []string) map[string]int {
	inComp := make(map[string]bool, len(comp))
	for _, id := range comp {
		inComp[id] = true
	}

	inDegree := make(map[string]int, len(comp))
	ranks := make(map[string]int, len(comp))
	queue := make([]string, 0, len(comp))

	for _, id := range comp {
		degree := 0
		for _, p := range a.parents[id] {
			if inComp[p] {
				degree++
			}
		}
		inDegree[id] = degree
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range a.children[curr] {
			if !inComp[child] {
				continue
			}
			if r := ranks[curr] + 1; r > ranks[child] {
				ranks[child] = r
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	return ranks
}
