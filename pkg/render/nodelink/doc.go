// Package nodelink draws positioned document graphs as node-link diagrams.
//
// # Overview
//
// Layout happens elsewhere (pkg/layout); this package only draws. [ToDOT]
// writes Graphviz DOT with every node pinned at its computed position, and
// [RenderSVG] runs the neato engine, which honours pinned positions, so the
// picture matches what the layout produced.
//
// # Usage
//
//	dot := nodelink.ToDOT(nodes, edges, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, convert the SVG with pkg/render:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Styling
//
// Documents are rounded boxes labelled with their title; documents with
// broken links get a red outline. External domains are grey ellipses and
// external edges are dashed.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
