// Package traverse implements upstream/downstream reachability over lineage
// edges, used for impact analysis and focus views.
//
// Both directions are visited-set-guarded walks in O(V+E). The guard doubles
// as an infinite-loop guard: the input is assumed acyclic, but a cycle only
// truncates the result instead of hanging. The WithCycles variants
// additionally report whether a back edge was encountered, by checking the
// recursion stack rather than the global visited set.
package traverse

import "github.com/linealens/linealens/pkg/lineage"

// Ancestors returns the set of all node IDs reachable from nodeID by
// following edges backward (target to source), including nodeID itself.
func Ancestors(nodeID string, edges []lineage.Edge) map[string]bool {
	set, _ := walk(nodeID, reverseAdjacency(edges))
	return set
}

// Descendants returns the set of all node IDs reachable from nodeID by
// following edges forward (source to target), including nodeID itself.
func Descendants(nodeID string, edges []lineage.Edge) map[string]bool {
	set, _ := walk(nodeID, forwardAdjacency(edges))
	return set
}

// AncestorsWithCycles is Ancestors plus a flag reporting whether the walk
// re-entered a node on its own recursion stack. The returned set is the
// same truncated set a plain Ancestors call produces.
func AncestorsWithCycles(nodeID string, edges []lineage.Edge) (map[string]bool, bool) {
	return walk(nodeID, reverseAdjacency(edges))
}

// DescendantsWithCycles is Descendants plus a cycle flag.
func DescendantsWithCycles(nodeID string, edges []lineage.Edge) (map[string]bool, bool) {
	return walk(nodeID, forwardAdjacency(edges))
}

func forwardAdjacency(edges []lineage.Edge) map[string][]string {
	adj := make(map[string][]string, len(edges))
	for _, e := range edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
	}
	return adj
}

func reverseAdjacency(edges []lineage.Edge) map[string][]string {
	adj := make(map[string][]string, len(edges))
	for _, e := range edges {
		adj[e.Target] = append(adj[e.Target], e.Source)
	}
	return adj
}

// walk performs a DFS from start over adj. onStack tracks the current
// recursion path; hitting a node on it means a directed cycle.
func walk(start string, adj map[string][]string) (map[string]bool, bool) {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	cycle := false

	var dfs func(id string)
	dfs = func(id string) {
		visited[id] = true
		onStack[id] = true
		for _, next := range adj[id] {
			if onStack[next] {
				cycle = true
				continue
			}
			if !visited[next] {
				dfs(next)
			}
		}
		onStack[id] = false
	}

	dfs(start)
	return visited, cycle
}
