// Package transform prepares a directed graph for layered drawing.
//
// # Overview
//
// Document link graphs are arbitrary: they have cycles, fan-in from many
// pages, and links of different weight. Layered drawing needs a graph where:
//
//   - There are no directed cycles
//   - Every node has a layer and every edge spans at least its MinLen layers
//   - Every edge connects consecutive layers
//
// The [Normalize] function applies the complete pipeline in the correct order.
//
// # Cycle Breaking
//
// [BreakCycles] reverses the edges that close a cycle during a depth-first
// search. The reversed edge still pulls its endpoints into neighbouring
// layers, so every link stays in the drawing. Roots passed to it, usually the
// focus document, are searched first and keep their outgoing links pointing
// down.
//
// # Layer Assignment
//
// [AssignLayers] computes a longest-path layering from the sources, honouring
// each edge's MinLen, then moves every source down next to its highest child.
// A link to an external domain typically has MinLen 2, so domains sit at
// least one extra layer below the documents citing them.
//
// # Edge Subdivision
//
// [Subdivide] breaks edges spanning several layers into chains of dummy
// nodes, one per intermediate layer:
//
//	Before: readme (layer 0) → api (layer 3)
//	After:  readme → readme->api@1 → readme->api@2 → api
//
// # Usage
//
//	transform.Normalize(g, focusID) // Modifies g in place
//
// For fine-grained control, apply transformations individually:
//
//	transform.BreakCycles(g, focusID)
//	transform.AssignLayers(g)
//	transform.Subdivide(g)
package transform
