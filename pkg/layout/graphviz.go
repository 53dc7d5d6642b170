package layout

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/linkgraph/pkg/graph"
)

const pointsPerInch = 72.0

// Graphviz is a layered [Strategy] backed by the Graphviz "dot" engine.
// Any failure (engine init, parse, layout, unparsable output) falls back to
// the native [Hierarchical] strategy with the same options.
type Graphviz struct {
	opts     HierarchicalOptions
	fallback *Hierarchical
	logger   *log.Logger
}

// NewGraphviz creates a Graphviz-backed layered strategy.
func NewGraphviz(opts HierarchicalOptions, logger *log.Logger) *Graphviz {
	opts.ValidateAndSetDefaults()
	if logger == nil {
		logger = log.Default()
	}
	return &Graphviz{opts: opts, fallback: NewHierarchical(opts), logger: logger}
}

// Name implements Strategy.
func (g *Graphviz) Name() string { return NameDot }

// Layout implements Strategy.
func (g *Graphviz) Layout(nodes []graph.Node, edges []graph.Edge) []graph.Node {
	if len(nodes) == 0 {
		return []graph.Node{}
	}
	pos, err := g.run(context.Background(), nodes, edges)
	if err != nil {
		g.logger.Warn("graphviz layout failed, using native hierarchical layout", "error", err)
		return g.fallback.Layout(nodes, edges)
	}
	return withPositions(nodes, pos, g.opts.Center)
}

func (g *Graphviz) run(ctx context.Context, nodes []graph.Node, edges []graph.Edge) ([]graph.Position, error) {
	dot, ids := g.toDOT(nodes, edges)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	coords, err := parsePositions(buf.Bytes())
	if err != nil {
		return nil, err
	}

	pos := make([]graph.Position, len(nodes))
	for i, n := range nodes {
		p, ok := coords[ids[n.ID]]
		if !ok {
			return nil, fmt.Errorf("no position for %s in graphviz output", n.ID)
		}
		// Graphviz's y axis points up.
		pos[i] = graph.Position{X: p.X, Y: -p.Y}
	}
	recenter(pos, g.opts.Center)
	return pos, nil
}

// toDOT writes the layered graph with synthetic node names (n0, n1, ...) so
// that document paths never need DOT quoting. It returns the name per ID.
func (g *Graphviz) toDOT(nodes []graph.Node, edges []graph.Edge) (string, map[string]string) {
	o := g.opts
	ids := make(map[string]string, len(nodes))

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", o.Direction)
	fmt.Fprintf(&buf, "  nodesep=%.3f;\n", o.NodeSep/pointsPerInch)
	fmt.Fprintf(&buf, "  ranksep=%.3f;\n", o.RankSep/pointsPerInch)
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n\n")

	for _, n := range nodes {
		if _, dup := ids[n.ID]; dup {
			continue
		}
		name := fmt.Sprintf("n%d", len(ids))
		ids[n.ID] = name
		w, h := o.size(n)
		fmt.Fprintf(&buf, "  %s [width=%.3f, height=%.3f];\n", name, w/pointsPerInch, h/pointsPerInch)
	}

	buf.WriteString("\n")
	for _, e := range usableEdges(nodes, edges) {
		fmt.Fprintf(&buf, "  %s -> %s [minlen=%d];\n", ids[e.Source], ids[e.Target], minLen(e))
	}
	buf.WriteString("}\n")
	return buf.String(), ids
}

var (
	nodeStmtRe = regexp.MustCompile(`(?m)^\s*(n\d+)\s*\[([^\]]*)\]`)
	posAttrRe  = regexp.MustCompile(`\bpos="([-+0-9.eE]+),([-+0-9.eE]+)`)
)

// parsePositions extracts node centers from xdot output.
func parsePositions(out []byte) (map[string]graph.Position, error) {
	coords := make(map[string]graph.Position)
	for _, m := range nodeStmtRe.FindAllSubmatch(out, -1) {
		pm := posAttrRe.FindSubmatch(m[2])
		if pm == nil {
			continue
		}
		x, errX := strconv.ParseFloat(string(pm[1]), 64)
		y, errY := strconv.ParseFloat(string(pm[2]), 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("bad position for %s", m[1])
		}
		coords[string(m[1])] = graph.Position{X: x, Y: y}
	}
	if len(coords) == 0 {
		return nil, fmt.Errorf("no node positions in graphviz output")
	}
	return coords, nil
}
