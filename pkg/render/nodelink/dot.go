package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds path, word count and size to document labels.
	Detailed bool
}

// ToDOT converts positioned nodes and edges to Graphviz DOT. Nodes without a
// finite position are left for neato to place.
func ToDOT(nodes []graph.Node, edges []graph.Edge, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if known[n.ID] {
			continue
		}
		known[n.ID] = true
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		if !known[e.Source] || !known[e.Target] {
			continue
		}
		if e.Kind == graph.EdgeExternal {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=grey50];\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	label := n.Label()
	if !detailed {
		return label
	}
	switch {
	case n.Doc != nil:
		s := n.Doc.Stats
		return fmt.Sprintf("%s\n%s\n%d words, %s", label, n.Doc.Path, s.WordCount, s.SizeLabel)
	case n.External != nil:
		return fmt.Sprintf("%s\n%d links", label, n.External.LinkCount)
	}
	return label
}

func fmtAttrs(n graph.Node, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	if n.HasPosition() {
		// Graphviz's y axis points up.
		attrs = append(attrs, fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.Position.X, -n.Position.Y))
	}
	if n.Kind == graph.KindExternal {
		attrs = append(attrs, "shape=ellipse", "fillcolor=grey92", "fontcolor=grey30")
	}
	if n.Doc != nil && len(n.Doc.BrokenLinks) > 0 {
		attrs = append(attrs, "color=red")
	}
	return attrs
}

// RenderSVG renders DOT with the neato engine, keeping pinned positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders DOT as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}

// Render produces the requested format: svg, png, pdf or dot.
func Render(ctx context.Context, nodes []graph.Node, edges []graph.Edge, format string, opts Options) ([]byte, error) {
	dot := ToDOT(nodes, edges, opts)
	switch format {
	case render.FormatDOT:
		return []byte(dot), nil
	case render.FormatSVG, "":
		return RenderSVG(ctx, dot)
	case render.FormatPNG:
		return RenderPNG(ctx, dot, 2.0)
	case render.FormatPDF:
		return RenderPDF(ctx, dot)
	}
	return nil, fmt.Errorf("unsupported format %q (want one of %v)", format, render.Formats())
}
