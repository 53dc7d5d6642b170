// Package positions keeps layouts stable across incremental rebuilds.
//
// Three pieces cooperate:
//
//   - [Diff] classifies nodes of two snapshots as added, removed or unchanged
//     by ID alone. A node whose data changed but whose ID did not is unchanged.
//   - [Store] remembers the last positions per graph for the life of the
//     process, so a rebuilt graph can be restored before layout runs.
//   - [Place] gives new nodes a starting point near the centroid of their
//     already-positioned neighbors, or near a center when they have none.
package positions
