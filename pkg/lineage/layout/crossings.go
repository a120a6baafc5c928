package layout

import "sort"

// posMap maps each ID in ids to its index.
func posMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// countLayerCrossings counts edge crossings between two adjacent ranks using
// a Fenwick tree (binary indexed tree) for O(E log V) performance, where E
// is the number of edges between the ranks and V the size of the lower rank.
//
// Two edges (u1,v1) and (u2,v2) cross iff pos(u1) < pos(u2) and
// pos(v1) > pos(v2); this is inversion counting over target positions when
// edges are sorted by source position.
func (a *adjacency) countLayerCrossings(upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := posMap(lower)

	type cross struct{ upper, lower int }
	crossEdges := make([]cross, 0, len(upper)*2)
	for i, id := range upper {
		for _, child := range a.children[id] {
			if pos, ok := lowerPos[child]; ok {
				crossEdges = append(crossEdges, cross{i, pos})
			}
		}
	}
	if len(crossEdges) < 2 {
		return 0
	}

	sort.Slice(crossEdges, func(i, j int) bool {
		if crossEdges[i].upper != crossEdges[j].upper {
			return crossEdges[i].upper < crossEdges[j].upper
		}
		return crossEdges[i].lower < crossEdges[j].lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range crossEdges {
		// Count edges seen so far with target <= e.lower; the rest cross.
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}

// countPairCrossings counts the crossings contributed by the ordered pair
// (left, right) against one adjacent rank. If useParents is true, edges to
// the rank above are considered, otherwise edges to the rank below.
// Swapping the pair is beneficial when the swapped count is strictly lower.
func (a *adjacency) countPairCrossings(left, right string, adjPos map[string]int, useParents bool) int {
	var lnbr, rnbr []string
	if useParents {
		lnbr = a.parents[left]
		rnbr = a.parents[right]
	} else {
		lnbr = a.children[left]
		rnbr = a.children[right]
	}

	crossings := 0
	for _, ln := range lnbr {
		lp, ok := adjPos[ln]
		if !ok {
			continue
		}
		for _, rn := range rnbr {
			if rp, ok := adjPos[rn]; ok && lp > rp {
				crossings++
			}
		}
	}
	return crossings
}
