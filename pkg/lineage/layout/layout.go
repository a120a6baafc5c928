package layout

// Point is a computed node position in logical units.
type Point struct {
	X float64
	Y float64
}

// Fixed node footprint and spacing, in logical units.
const (
	NodeWidth  = 180.0
	NodeHeight = 80.0

	// RankGap is the horizontal spacing between adjacent ranks.
	RankGap = 150.0
	// SiblingGap is the vertical spacing between nodes sharing a rank.
	SiblingGap = 40.0
	// Margin is the outer margin on all sides.
	Margin = 50.0
	// ComponentGap separates vertically stacked components.
	ComponentGap = 50.0
)

// Compute assigns a position to every node. Edges referencing unknown node
// IDs are ignored. The result is a pure function of the input slices: the
// same nodes and edges in the same order always produce identical
// coordinates.
func Compute(nodes []NodeRef, edges []EdgeRef) map[string]Point {
	positions := make(map[string]Point, len(nodes))
	if len(nodes) == 0 {
		return positions
	}

	a := buildAdjacency(nodes, edges)
	offsetY := Margin

	for _, comp := range a.components() {
		ranks := a.assignRanks(comp)
		orders := a.orderRanks(comp, ranks)

		maxRank := 0
		for r := range orders {
			if r > maxRank {
				maxRank = r
			}
		}

		bottom := offsetY
		for r := 0; r <= maxRank; r++ {
			x := Margin + float64(r)*(NodeWidth+RankGap)
			for i, id := range orders[r] {
				y := offsetY + float64(i)*(NodeHeight+SiblingGap)
				positions[id] = Point{X: x, Y: y}
				if nodeBottom := y + NodeHeight; nodeBottom > bottom {
					bottom = nodeBottom
				}
			}
		}

		// Next component starts below everything placed so far.
		offsetY = bottom + ComponentGap
	}

	return positions
}
