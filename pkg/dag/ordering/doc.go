// Package ordering determines the left-to-right arrangement of nodes within
// each layer of a layered graph.
//
// Finding an ordering with the fewest edge crossings is NP-hard. The
// [Barycentric] orderer implements the classic Sugiyama barycenter heuristic:
//
//  1. Initialize every layer in insertion order
//  2. Sweep down: sort each layer by the mean position of its parents
//  3. Sweep up: sort each layer by the mean position of its children
//  4. Apply transpose passes that swap adjacent nodes when it reduces crossings
//  5. Return the best ordering seen, measured by [dag.CountCrossings]
//
// The [Orderer] interface allows algorithms to be used interchangeably:
//
//	var orderer ordering.Orderer = ordering.Barycentric{Passes: 8}
//	orders := orderer.OrderLayers(g) // map[layer][]nodeID
package ordering
