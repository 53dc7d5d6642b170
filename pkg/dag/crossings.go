package dag

import (
	"maps"
	"slices"
)

// CountCrossings sums [CountLayerCrossings] over every pair of consecutive
// layers in orders, which maps a layer to its node IDs from left to right.
// Layers missing from orders count as empty.
//
//	orders := map[int][]string{
//	    0: {"doc:readme.md"},
//	    1: {"doc:guide.md", "doc:api.md"},
//	}
//	crossings := dag.CountCrossings(g, orders)
func CountCrossings(g *DAG, orders map[int][]string) int {
	total := 0
	for _, l := range slices.Sorted(maps.Keys(orders)) {
		total += CountLayerCrossings(g, orders[l], orders[l+1])
	}
	return total
}

// CountLayerCrossings counts crossing edges between an upper layer and the
// layer below it. Edges (u1,v1) and (u2,v2) cross when u1 is left of u2 and
// v1 right of v2, so listing edge targets in source order turns crossings
// into inversions, which a merge sort counts in O(E log E).
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}
	lowerPos := PosMap(lower)

	var targets []int
	for _, id := range upper {
		start := len(targets)
		for _, child := range g.Children(id) {
			if p, ok := lowerPos[child]; ok {
				targets = append(targets, p)
			}
		}
		// Edges sharing a source never cross each other.
		slices.Sort(targets[start:])
	}
	return inversions(targets, make([]int, len(targets)))
}

// inversions sorts a and returns the number of pairs i < j with a[i] > a[j].
// buf must be as long as a.
func inversions(a, buf []int) int {
	if len(a) < 2 {
		return 0
	}
	mid := len(a) / 2
	n := inversions(a[:mid], buf[:mid]) + inversions(a[mid:], buf[mid:])

	i, j, k := 0, mid, 0
	for i < mid && j < len(a) {
		if a[j] < a[i] {
			n += mid - i
			buf[k] = a[j]
			j++
		} else {
			buf[k] = a[i]
			i++
		}
		k++
	}
	k += copy(buf[k:], a[i:mid])
	copy(buf[k:], a[j:])
	copy(a, buf)
	return n
}

// PairCrossings counts crossings among the edges of two nodes in the same
// layer when left is placed before right. It looks at edges to the layer
// above when useParents is set and to the layer below otherwise; adjPos
// gives positions in that layer and nodes missing from it are ignored.
//
// Comparing PairCrossings(l, r) with PairCrossings(r, l) tells whether
// swapping two neighbours helps.
func PairCrossings(g *DAG, left, right string, adjPos map[string]int, useParents bool) int {
	neighbors := g.Children
	if useParents {
		neighbors = g.Parents
	}
	rightPos := make([]int, 0, len(neighbors(right)))
	for _, id := range neighbors(right) {
		if p, ok := adjPos[id]; ok {
			rightPos = append(rightPos, p)
		}
	}

	n := 0
	for _, id := range neighbors(left) {
		lp, ok := adjPos[id]
		if !ok {
			continue
		}
		for _, rp := range rightPos {
			if lp > rp {
				n++
			}
		}
	}
	return n
}
