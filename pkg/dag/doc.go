// Package dag provides a directed graph with layer assignments for
// Sugiyama-style layered drawing of document graphs.
//
// # Overview
//
// The hierarchical layout strategy turns a set of documents and links into a
// layered drawing: documents are assigned to layers (ranks), ordered within
// each layer to reduce crossings, and finally given coordinates. This package
// provides the data structure that carries the graph through those stages.
//
// Unlike a general-purpose graph, a [DAG] keeps insertion order for nodes and
// adjacency so that every stage is deterministic: the same input always
// produces the same drawing.
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "doc:readme.md", Width: 160})
//	g.AddNode(dag.Node{ID: "doc:guide.md", Width: 160})
//	g.AddEdge(dag.Edge{From: "doc:readme.md", To: "doc:guide.md", MinLen: 1})
//
// Self loops are rejected by [DAG.AddEdge]. Parallel edges are accepted, so
// callers that want a simple graph check [DAG.HasEdge] first.
//
// # Node Kinds
//
//   - [NodeKindRegular]: a document or external domain
//   - [NodeKindDummy]: a synthetic node on a long edge, one per crossed layer
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count crossings between adjacent
// layers as inversions of edge targets, in O(E log E). [PairCrossings]
// supports the adjacent-swap (transpose) heuristic.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use.
//
// # Related Packages
//
// The [transform] subpackage breaks cycles, assigns layers and subdivides long
// edges. The [ordering] subpackage orders nodes within layers.
//
// [transform]: github.com/matzehuels/linkgraph/pkg/dag/transform
// [ordering]: github.com/matzehuels/linkgraph/pkg/dag/ordering
package dag
