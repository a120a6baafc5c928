package layout

import "sort"

// barycenterSweeps is the number of down/up sweep pairs applied before
// adjacent-swap refinement. More sweeps rarely improve small graphs.
const barycenterSweeps = 4

// orderRanks produces the vertical order of nodes inside each rank of a
// component. The initial order within a rank is input order; barycenter
// sweeps then pull each node toward the mean position of its neighbors in
// the fixed adjacent rank, and a final adjacent-swap pass removes local
// crossings the averaging missed.
//
// All sorting is stable with input position as the implicit secondary key,
// so the result is deterministic for a given input.
func (a *adjacency) orderRanks(comp []string, ranks map[string]int) map[int][]string {
	orders := make(map[int][]string)
	maxRank := 0
	for _, id := range comp {
		r := ranks[id]
		orders[r] = append(orders[r], id)
		if r > maxRank {
			maxRank = r
		}
	}
	if maxRank == 0 {
		return orders
	}

	for sweep := 0; sweep < barycenterSweeps; sweep++ {
		// Downward: order rank r by neighbor positions in rank r-1.
		for r := 1; r <= maxRank; r++ {
			a.barycenterSort(orders[r], posMap(orders[r-1]), true)
		}
		// Upward: order rank r by neighbor positions in rank r+1.
		for r := maxRank - 1; r >= 0; r-- {
			a.barycenterSort(orders[r], posMap(orders[r+1]), false)
		}
	}

	a.refineBySwaps(orders, maxRank)
	return orders
}

// barycenterSort stably reorders ids by the average position of their
// neighbors in the adjacent rank. Nodes without neighbors there keep their
// current position (stable sort leaves equal keys untouched; neighborless
// nodes inherit their own current index as key).
func (a *adjacency) barycenterSort(ids []string, adjPos map[string]int, useParents bool) {
	keys := make(map[string]float64, len(ids))
	for i, id := range ids {
		var nbrs []string
		if useParents {
			nbrs = a.parents[id]
		} else {
			nbrs = a.children[id]
		}
		sum, count := 0.0, 0
		for _, n := range nbrs {
			if p, ok := adjPos[n]; ok {
				sum += float64(p)
				count++
			}
		}
		if count == 0 {
			keys[id] = float64(i)
		} else {
			keys[id] = sum / float64(count)
		}
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return keys[ids[i]] < keys[ids[j]]
	})
}

// refineBySwaps greedily swaps adjacent nodes within each rank while the
// swap strictly reduces crossings against both neighboring ranks. Each
// sweep is accepted against a whole-layer recount from the Fenwick
// counter; the pass ends when a sweep no longer lowers the total, which
// keeps it deterministic and guarantees termination.
func (a *adjacency) refineBySwaps(orders map[int][]string, maxRank int) {
	best := a.totalCrossings(orders, maxRank)
	for {
		for r := 0; r <= maxRank; r++ {
			ids := orders[r]
			var abovePos, belowPos map[string]int
			if r > 0 {
				abovePos = posMap(orders[r-1])
			}
			if r < maxRank {
				belowPos = posMap(orders[r+1])
			}
			for i := 0; i+1 < len(ids); i++ {
				left, right := ids[i], ids[i+1]
				current, swapped := 0, 0
				if abovePos != nil {
					current += a.countPairCrossings(left, right, abovePos, true)
					swapped += a.countPairCrossings(right, left, abovePos, true)
				}
				if belowPos != nil {
					current += a.countPairCrossings(left, right, belowPos, false)
					swapped += a.countPairCrossings(right, left, belowPos, false)
				}
				if swapped < current {
					ids[i], ids[i+1] = right, left
				}
			}
		}

		after := a.totalCrossings(orders, maxRank)
		if after >= best {
			return
		}
		best = after
	}
}

// totalCrossings counts crossings across every adjacent rank pair.
func (a *adjacency) totalCrossings(orders map[int][]string, maxRank int) int {
	total := 0
	for r := 1; r <= maxRank; r++ {
		total += a.countLayerCrossings(orders[r-1], orders[r])
	}
	return total
}
