// Package render turns laid-out document graphs into images.
//
// The [nodelink] subpackage draws a positioned graph with Graphviz, keeping
// the coordinates computed by pkg/layout. A [Converter] rasterizes the
// resulting SVG to PNG or PDF with rsvg-convert from librsvg:
//
//	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(nodes, edges, nodelink.Options{}))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2)
//
// [nodelink]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/render/nodelink
package render
