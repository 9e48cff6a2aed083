package img2irc

import (
	"math"
	"sort"
)

// colorNode is a node of a k-d tree over palette entries. Each node
// splits its subtree on one RGB axis: entries in left have a component
// no larger than the node's, entries in right no smaller.
type colorNode struct {
	entry       PaletteEntry
	left, right *colorNode
	axis        int
}

// buildKDTree builds a balanced tree over entries, splitting each level
// on the axis with the largest variance. entries is reordered.
func buildKDTree(entries []PaletteEntry) *colorNode {
	if len(entries) == 0 {
		return nil
	}
	axis := chooseSplitAxis(entries)
	sort.Slice(entries, func(i, j int) bool {
		return component(entries[i].Color, axis) < component(entries[j].Color, axis)
	})
	median := len(entries) / 2
	return &colorNode{
		entry: entries[median],
		left:  buildKDTree(entries[:median]),
		right: buildKDTree(entries[median+1:]),
		axis:  axis,
	}
}

func chooseSplitAxis(entries []PaletteEntry) int {
	var mean [3]float64
	for _, e := range entries {
		for a := 0; a < 3; a++ {
			mean[a] += float64(component(e.Color, a))
		}
	}
	for a := range mean {
		mean[a] /= float64(len(entries))
	}
	var variance [3]float64
	for _, e := range entries {
		for a := 0; a < 3; a++ {
			variance[a] += math.Pow(float64(component(e.Color, a))-mean[a], 2)
		}
	}
	switch {
	case variance[0] > variance[1] && variance[0] > variance[2]:
		return 0
	case variance[1] > variance[2]:
		return 1
	}
	return 2
}

func component(c RGB, axis int) uint8 {
	switch axis {
	case 0:
		return c.R
	case 1:
		return c.G
	}
	return c.B
}

// nearest updates best with the closest entry in the subtree. Equal
// distances resolve to the lower code, so the result matches a linear
// scan in code order.
func (n *colorNode) nearest(target RGB, best *PaletteEntry, bestDist *int) {
	if n == nil {
		return
	}
	d := target.Distance(n.entry.Color)
	if d < *bestDist || (d == *bestDist && n.entry.Code < best.Code) {
		*best, *bestDist = n.entry, d
	}

	diff := int(component(target, n.axis)) - int(component(n.entry.Color, n.axis))
	near, far := n.left, n.right
	if diff >= 0 {
		near, far = n.right, n.left
	}
	near.nearest(target, best, bestDist)
	// Ties on the far side can still win on code, so only strictly
	// farther planes are pruned.
	if diff*diff <= *bestDist {
		far.nearest(target, best, bestDist)
	}
}
