package layout

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/linkgraph/pkg/errors"
	"github.com/matzehuels/linkgraph/pkg/graph"
)

func doc(id string) graph.Node {
	return graph.Node{ID: graph.DocumentID(id), Kind: graph.KindDocument, Doc: &graph.DocumentData{Path: id}}
}

func ext(domain string) graph.Node {
	return graph.Node{ID: graph.ExternalID(domain), Kind: graph.KindExternal, External: &graph.ExternalNodeData{Domain: domain}}
}

func link(a, b string) graph.Edge {
	s, t := graph.DocumentID(a), graph.DocumentID(b)
	return graph.Edge{ID: graph.EdgeID(s, t), Source: s, Target: t, Kind: graph.EdgeInternal}
}

func extLink(a, domain string) graph.Edge {
	s, t := graph.DocumentID(a), graph.ExternalID(domain)
	return graph.Edge{ID: graph.EdgeID(s, t), Source: s, Target: t, Kind: graph.EdgeExternal}
}

type fixture struct {
	name  string
	nodes []graph.Node
	edges []graph.Edge
}

func degenerateFixtures() []fixture {
	var mesh []graph.Node
	var meshEdges []graph.Edge
	for i := 0; i < 8; i++ {
		mesh = append(mesh, doc(fmt.Sprintf("m%d.md", i)))
	}
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			meshEdges = append(meshEdges, link(fmt.Sprintf("m%d.md", i), fmt.Sprintf("m%d.md", j)))
		}
	}

	return []fixture{
		{"empty edges", []graph.Node{doc("a.md")}, nil},
		{"self loop", []graph.Node{doc("a.md")}, []graph.Edge{link("a.md", "a.md")}},
		{"multi edge", []graph.Node{doc("a.md"), doc("b.md")}, []graph.Edge{link("a.md", "b.md"), link("a.md", "b.md"), link("a.md", "b.md")}},
		{"two cycle", []graph.Node{doc("a.md"), doc("b.md")}, []graph.Edge{link("a.md", "b.md"), link("b.md", "a.md")}},
		{"ring", []graph.Node{doc("a.md"), doc("b.md"), doc("c.md")}, []graph.Edge{link("a.md", "b.md"), link("b.md", "c.md"), link("c.md", "a.md")}},
		{"full mesh with self loops", mesh, meshEdges},
		{"disconnected", []graph.Node{doc("a.md"), doc("b.md"), doc("c.md"), doc("d.md"), ext("x.org")}, []graph.Edge{link("a.md", "b.md"), extLink("c.md", "x.org")}},
		{"dangling edge", []graph.Node{doc("a.md")}, []graph.Edge{link("a.md", "ghost.md")}},
		{"empty id", []graph.Node{doc("a.md"), {ID: ""}}, []graph.Edge{{Source: "", Target: graph.DocumentID("a.md")}}},
		{"empty focus id", []graph.Node{{ID: ""}, doc("a.md")}, nil},
		{"duplicate ids", []graph.Node{doc("a.md"), doc("a.md"), doc("b.md")}, []graph.Edge{link("a.md", "b.md")}},
		{"coincident positions", []graph.Node{
			doc("a.md").WithPosition(graph.Position{X: 5, Y: 5}),
			doc("b.md").WithPosition(graph.Position{X: 5, Y: 5}),
			doc("c.md").WithPosition(graph.Position{X: math.NaN(), Y: 1}),
		}, []graph.Edge{link("a.md", "b.md")}},
	}
}

func assertFinite(t *testing.T, in, out []graph.Node) {
	t.Helper()
	if len(out) != len(in) {
		t.Fatalf("got %d nodes, want %d", len(out), len(in))
	}
	for i, n := range out {
		if n.ID != in[i].ID {
			t.Errorf("node %d: ID %q, want %q", i, n.ID, in[i].ID)
		}
		if n.Position == nil {
			t.Errorf("node %s has no position", n.ID)
			continue
		}
		if !n.Position.IsFinite() {
			t.Errorf("node %s position %+v is not finite", n.ID, *n.Position)
		}
	}
}

func TestStrategiesAlwaysFinite(t *testing.T) {
	strategies := []Strategy{
		NewForce(ForceOptions{Iterations: 120}),
		NewHierarchical(HierarchicalOptions{}),
		NewHierarchical(HierarchicalOptions{Direction: LeftRight}),
	}
	for _, s := range strategies {
		for _, fx := range degenerateFixtures() {
			t.Run(s.Name()+"/"+fx.name, func(t *testing.T) {
				out := s.Layout(fx.nodes, fx.edges)
				assertFinite(t, fx.nodes, out)
			})
		}
	}
}

func TestLayoutDoesNotMutateInput(t *testing.T) {
	nodes := []graph.Node{doc("a.md"), doc("b.md")}
	edges := []graph.Edge{link("a.md", "b.md")}

	for _, s := range []Strategy{NewForce(ForceOptions{Iterations: 10}), NewHierarchical(HierarchicalOptions{})} {
		_ = s.Layout(nodes, edges)
		for _, n := range nodes {
			if n.Position != nil {
				t.Errorf("%s mutated input node %s", s.Name(), n.ID)
			}
		}
	}
}

func TestEmptyInput(t *testing.T) {
	for _, s := range []Strategy{NewForce(ForceOptions{}), NewHierarchical(HierarchicalOptions{}), NewGraphviz(HierarchicalOptions{}, nil)} {
		if out := s.Layout(nil, nil); len(out) != 0 {
			t.Errorf("%s.Layout(nil) = %d nodes, want 0", s.Name(), len(out))
		}
	}
}

func TestForceDeterministic(t *testing.T) {
	nodes := []graph.Node{doc("a.md"), doc("b.md"), doc("c.md"), ext("go.dev")}
	edges := []graph.Edge{link("a.md", "b.md"), link("b.md", "c.md"), extLink("a.md", "go.dev")}

	f := NewForce(ForceOptions{Iterations: 80})
	first := f.Layout(nodes, edges)
	second := f.Layout(nodes, edges)
	for i := range first {
		if *first[i].Position != *second[i].Position {
			t.Errorf("node %s: %+v vs %+v", first[i].ID, *first[i].Position, *second[i].Position)
		}
	}

	other := NewForce(ForceOptions{Iterations: 80, Seed: 7}).Layout(nodes, edges)
	same := true
	for i := range first {
		if *first[i].Position != *other[i].Position {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical layouts")
	}
}

func TestForceKeepPositioned(t *testing.T) {
	pinned := graph.Position{X: 10, Y: 20}
	nodes := []graph.Node{doc("a.md").WithPosition(pinned), doc("b.md")}
	edges := []graph.Edge{link("a.md", "b.md")}

	out := NewForce(ForceOptions{KeepPositioned: true, Iterations: 50}).Layout(nodes, edges)
	if *out[0].Position != pinned {
		t.Errorf("pinned node moved to %+v", *out[0].Position)
	}
	if *out[1].Position == pinned {
		t.Error("free node should not coincide with pinned node")
	}

	free := NewForce(ForceOptions{Iterations: 50}).Layout(nodes, edges)
	if *free[0].Position == pinned {
		t.Error("without KeepPositioned the positioned node should move")
	}
}

func TestForceMovable(t *testing.T) {
	pinned := graph.Position{X: 10, Y: 20}
	start := graph.Position{X: 12, Y: 22}
	nodes := []graph.Node{doc("a.md").WithPosition(pinned), doc("b.md").WithPosition(start)}
	edges := []graph.Edge{link("a.md", "b.md")}

	out := NewForce(ForceOptions{
		KeepPositioned: true,
		Movable:        map[string]struct{}{graph.DocumentID("b.md"): {}},
		Iterations:     50,
	}).Layout(nodes, edges)
	if *out[0].Position != pinned {
		t.Errorf("pinned node moved to %+v", *out[0].Position)
	}
	if *out[1].Position == start {
		t.Error("movable node should leave its starting point")
	}
}

func TestForceSpringsPullLinkedCloser(t *testing.T) {
	nodes := []graph.Node{doc("a.md"), doc("b.md"), doc("c.md"), doc("d.md"), doc("e.md")}
	edges := []graph.Edge{link("a.md", "b.md")}

	out := NewForce(ForceOptions{}).Layout(nodes, edges)
	dist := func(i, j int) float64 {
		return math.Hypot(out[i].Position.X-out[j].Position.X, out[i].Position.Y-out[j].Position.Y)
	}
	if dist(0, 1) >= dist(2, 3)+dist(3, 4) {
		t.Errorf("linked distance %.1f not smaller than unlinked spread", dist(0, 1))
	}
}

func TestHierarchicalRanks(t *testing.T) {
	nodes := []graph.Node{doc("readme.md"), doc("guide.md"), doc("api.md"), ext("github.com")}
	edges := []graph.Edge{
		link("readme.md", "guide.md"),
		link("guide.md", "api.md"),
		extLink("readme.md", "github.com"),
	}

	out := NewHierarchical(HierarchicalOptions{}).Layout(nodes, edges)
	y := func(i int) float64 { return out[i].Position.Y }

	if !(y(0) < y(1) && y(1) < y(2)) {
		t.Errorf("TB ranks not increasing: readme=%.1f guide=%.1f api=%.1f", y(0), y(1), y(2))
	}
	if y(3) <= y(1) {
		t.Errorf("external node should sit at least two ranks below its source: ext=%.1f guide=%.1f", y(3), y(1))
	}

	lr := NewHierarchical(HierarchicalOptions{Direction: LeftRight}).Layout(nodes, edges)
	if !(lr[0].Position.X < lr[1].Position.X && lr[1].Position.X < lr[2].Position.X) {
		t.Error("LR ranks should increase along X")
	}
}

func TestHierarchicalSeparation(t *testing.T) {
	nodes := []graph.Node{doc("root.md"), doc("a.md"), doc("b.md"), doc("c.md")}
	edges := []graph.Edge{link("root.md", "a.md"), link("root.md", "b.md"), link("root.md", "c.md")}

	opts := HierarchicalOptions{}
	out := NewHierarchical(opts).Layout(nodes, edges)
	opts.ValidateAndSetDefaults()

	for i := 1; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if d := math.Abs(out[i].Position.X - out[j].Position.X); d < opts.NodeWidth+opts.NodeSep-1e-9 {
				t.Errorf("siblings %s and %s overlap: dx=%.1f", out[i].ID, out[j].ID, d)
			}
		}
	}
}

func TestHierarchicalCentered(t *testing.T) {
	center := graph.Position{X: 300, Y: 200}
	nodes := []graph.Node{doc("a.md"), doc("b.md")}
	out := NewHierarchical(HierarchicalOptions{Center: center}).Layout(nodes, []graph.Edge{link("a.md", "b.md")})

	midY := (out[0].Position.Y + out[1].Position.Y) / 2
	if math.Abs(midY-center.Y) > 1e-9 {
		t.Errorf("vertical midpoint = %.2f, want %.2f", midY, center.Y)
	}
}

func TestGraphvizLayoutFinite(t *testing.T) {
	nodes := []graph.Node{doc("a.md"), doc("b.md"), ext("go.dev")}
	edges := []graph.Edge{link("a.md", "b.md"), link("b.md", "a.md"), link("a.md", "a.md"), extLink("a.md", "go.dev")}

	out := NewGraphviz(HierarchicalOptions{}, nil).Layout(nodes, edges)
	assertFinite(t, nodes, out)
}

func TestGraphvizToDOT(t *testing.T) {
	g := NewGraphviz(HierarchicalOptions{Direction: LeftRight}, nil)
	nodes := []graph.Node{doc(`we"ird path.md`), ext("go.dev")}
	dot, ids := g.toDOT(nodes, []graph.Edge{extLink(`we"ird path.md`, "go.dev")})

	if ids[nodes[0].ID] != "n0" || ids[nodes[1].ID] != "n1" {
		t.Errorf("ids = %v", ids)
	}
	for _, want := range []string{"rankdir=LR;", "n0 -> n1 [minlen=2];"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestParsePositions(t *testing.T) {
	out := []byte(`digraph G {
	graph [bb="0,0,200,300"];
	node [label="", shape=box];
	n0	[height=0.667, pos="100,278", width=2.222];
	n1	[height=0.667,
		pos="-12.5,1e+01",
		width=2.222];
	n0 -> n1	[pos="e,100,50 100,254 100,200"];
}`)
	coords, err := parsePositions(out)
	if err != nil {
		t.Fatalf("parsePositions() error: %v", err)
	}
	if coords["n0"] != (graph.Position{X: 100, Y: 278}) {
		t.Errorf("n0 = %+v", coords["n0"])
	}
	if coords["n1"] != (graph.Position{X: -12.5, Y: 10}) {
		t.Errorf("n1 = %+v", coords["n1"])
	}

	if _, err := parsePositions([]byte("digraph {}")); err == nil {
		t.Error("expected error for output without positions")
	}
}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		s, err := New(name, Options{})
		if err != nil {
			t.Fatalf("New(%q) error: %v", name, err)
		}
		if s.Name() != name {
			t.Errorf("New(%q).Name() = %q", name, s.Name())
		}
	}
	if _, err := New("spiral", Options{}); !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("New(spiral) error = %v, want INVALID_LAYOUT", err)
	}
}
