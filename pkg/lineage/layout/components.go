package layout

// NodeRef identifies a node to the layout engine. Nodes are passed in a
// stable order; that order seeds every tie-break downstream.
type NodeRef struct {
	ID string
}

// EdgeRef is a directed edge between two node IDs. Edges referencing IDs
// absent from the node set are ignored.
type EdgeRef struct {
	Source string
	Target string
}

// adjacency holds directed and undirected neighbor lists in input order.
type adjacency struct {
	order      []string            // node IDs in input order
	index      map[string]int      // id -> input position
	children   map[string][]string // directed source -> targets
	parents    map[string][]string // directed target -> sources
	undirected map[string][]string
}

func buildAdjacency(nodes []NodeRef, edges []EdgeRef) *adjacency {
	a := &adjacency{
		order:      make([]string, 0, len(nodes)),
		index:      make(map[string]int, len(nodes)),
		children:   make(map[string][]string, len(nodes)),
		parents:    make(map[string][]string, len(nodes)),
		undirected: make(map[string][]string, len(nodes)),
	}
	for _, n := range nodes {
		if _, dup := a.index[n.ID]; dup {
			continue
		}
		a.index[n.ID] = len(a.order)
		a.order = append(a.order, n.ID)
	}
	for _, e := range edges {
		if _, ok := a.index[e.Source]; !ok {
			continue
		}
		if _, ok := a.index[e.Target]; !ok {
			continue
		}
		a.children[e.Source] = append(a.children[e.Source], e.Target)
		a.parents[e.Target] = append(a.parents[e.Target], e.Source)
		a.undirected[e.Source] = append(a.undirected[e.Source], e.Target)
		a.undirected[e.Target] = append(a.undirected[e.Target], e.Source)
	}
	return a
}

// components partitions the node set under undirected reachability.
// Components are emitted in order of their first node's input position, and
// nodes within a component keep BFS discovery order (seeded by input order),
// so the partition is a pure function of the input.
func (a *adjacency) components() [][]string {
	visited := make(map[string]bool, len(a.order))
	var comps [][]string

	for _, start := range a.order {
		if visited[start] {
			continue
		}
		visited[start] = true
		comp := []string{start}
		queue := []string{start}
		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			for _, next := range a.undirected[curr] {
				if visited[next] {
					continue
				}
				visited[next] = true
				comp = append(comp, next)
				queue = append(queue, next)
			}
		}
		comps = append(comps, comp)
	}
	return comps
}
