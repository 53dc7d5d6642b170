// Package graph provides the shared node-link model for document graphs.
//
// This package defines the canonical wire format used by graph construction,
// layout, animation, the CLI's JSON files and the HTTP API.
//
// # Core Types
//
//   - [Node]: a document or an aggregated external domain, optionally positioned
//   - [Edge]: an internal (document to document) or external (document to domain) link
//   - [Position]: a 2-D coordinate
//   - [Graph]: a node and edge list, the unit of serialization
//
// # Identity
//
// Node IDs are namespaced so documents and domains can never collide:
//
//	graph.DocumentID("guides/setup.md")   // "doc:guides/setup.md"
//	graph.ExternalID("github.com")        // "ext:github.com"
//	graph.EdgeID(src, dst)                // "doc:a.md->doc:b.md"
//
// # Serialization
//
//	data, _ := graph.MarshalGraph(g)          // Graph → []byte
//	parsed, _ := graph.UnmarshalGraph(data)   // []byte → Graph
//	graph.WriteGraphFile(g, "graph.json")     // Graph → File
//	g, _ := graph.ReadGraphFile("graph.json") // File → Graph
//
// Nodes and edges are written in slice order; producers are responsible for
// deterministic ordering.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
