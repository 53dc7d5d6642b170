package transform

import (
	"strconv"
	"testing"

	"github.com/matzehuels/linkgraph/pkg/dag"
)

func layerOf(t *testing.T, g *dag.DAG, id string) int {
	t.Helper()
	n, ok := g.Node(id)
	if !ok {
		t.Fatalf("node %q missing", id)
	}
	return n.Layer
}

func TestAssignLayers_LongestPath(t *testing.T) {
	g := dag.New()
	for _, id := range []string{"a", "b", "c", "d"} {
		g.AddNode(dag.Node{ID: id})
	}
	g.AddEdge(dag.Edge{From: "a", To: "b"})
	g.AddEdge(dag.Edge{From: "b", To: "c"})
	g.AddEdge(dag.Edge{From: "a", To: "c"})
	g.AddEdge(dag.Edge{From: "a", To: "d"})

	AssignLayers(g)

	want := map[string]int{"a": 0, "b": 1, "c": 2, "d": 1}
	for id, layer := range want {
		if got := layerOf(t, g, id); got != layer {
			t.Errorf("layer(%s) = %d, want %d", id, got, layer)
		}
	}
}

func TestAssignLayers_MinLen(t *testing.T) {
	g := dag.New()
	g.AddNode(dag.Node{ID: "doc"})
	g.AddNode(dag.Node{ID: "other"})
	g.AddNode(dag.Node{ID: "ext"})
	g.AddEdge(dag.Edge{From: "doc", To: "other", MinLen: 1})
	g.AddEdge(dag.Edge{From: "doc", To: "ext", MinLen: 2})

	AssignLayers(g)

	if got := layerOf(t, g, "other"); got != 1 {
		t.Errorf("layer(other) = %d, want 1", got)
	}
	if got := layerOf(t, g, "ext"); got != 2 {
		t.Errorf("layer(ext) = %d, want 2", got)
	}
}

func TestAssignLayers_TightensSources(t *testing.T) {
	// focus → a → b → c, and a backlinking page x that only links to c.
	g := dag.New()
	for _, id := range []string{"focus", "a", "b", "c", "x"} {
		g.AddNode(dag.Node{ID: id})
	}
	g.AddEdge(dag.Edge{From: "focus", To: "a"})
	g.AddEdge(dag.Edge{From: "a", To: "b"})
	g.AddEdge(dag.Edge{From: "b", To: "c"})
	g.AddEdge(dag.Edge{From: "x", To: "c"})

	AssignLayers(g)

	if got := layerOf(t, g, "x"); got != 2 {
		t.Errorf("layer(x) = %d, want 2 (just above c)", got)
	}
	if got := layerOf(t, g, "focus"); got != 0 {
		t.Errorf("layer(focus) = %d, want 0", got)
	}
}

func TestSubdivide_LongEdge(t *testing.T) {
	g := dag.New()
	g.AddNode(dag.Node{ID: "a", Layer: 0})
	g.AddNode(dag.Node{ID: "b", Layer: 3})
	g.AddEdge(dag.Edge{From: "a", To: "b"})

	Subdivide(g)

	if g.NodeCount() != 4 {
		t.Fatalf("NodeCount() = %d, want 4", g.NodeCount())
	}
	if g.HasEdge("a", "b") {
		t.Error("long edge should be replaced")
	}
	for _, n := range g.Nodes() {
		if n.IsDummy() && n.Origin != "a" {
			t.Errorf("dummy %s Origin = %q, want a", n.ID, n.Origin)
		}
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if got := g.Children("a"); len(got) != 1 || got[0] != "a->b@1" {
		t.Errorf("Children(a) = %v, want [a->b@1]", got)
	}
}

func TestSubdivide_IDCollision(t *testing.T) {
	g := dag.New()
	g.AddNode(dag.Node{ID: "a", Layer: 0})
	g.AddNode(dag.Node{ID: "a->b@1", Layer: 5})
	g.AddNode(dag.Node{ID: "b", Layer: 2})
	g.AddEdge(dag.Edge{From: "a", To: "b"})

	Subdivide(g)

	if _, ok := g.Node("a->b@1+1"); !ok {
		t.Errorf("expected suffixed dummy, nodes = %v", dag.NodeIDs(g.Nodes()))
	}
}

func TestNormalize_CyclicGraphValidates(t *testing.T) {
	g := dag.New()
	for _, id := range []string{"a", "b", "c", "x"} {
		g.AddNode(dag.Node{ID: id})
	}
	g.AddEdge(dag.Edge{From: "a", To: "b"})
	g.AddEdge(dag.Edge{From: "b", To: "c"})
	g.AddEdge(dag.Edge{From: "c", To: "a"})
	g.AddEdge(dag.Edge{From: "a", To: "x", MinLen: 2})

	Normalize(g)

	if err := g.Validate(); err != nil {
		t.Errorf("Validate() after Normalize = %v", err)
	}
}

func TestNormalize_RootStaysOnTop(t *testing.T) {
	// a and b link each other; without a root a would win, with root b
	// the link b → a keeps its direction.
	g := dag.New()
	g.AddNode(dag.Node{ID: "a"})
	g.AddNode(dag.Node{ID: "b"})
	g.AddEdge(dag.Edge{From: "a", To: "b"})
	g.AddEdge(dag.Edge{From: "b", To: "a"})

	if reversed := Normalize(g, "b"); reversed != 1 {
		t.Errorf("reversed = %d, want 1", reversed)
	}
	if layerOf(t, g, "b") != 0 || layerOf(t, g, "a") != 1 {
		t.Errorf("layers a=%d b=%d, want b above a", layerOf(t, g, "a"), layerOf(t, g, "b"))
	}
}

func TestBreakCycles_DeepChain(t *testing.T) {
	g := dag.New()
	const n = 50000
	ids := make([]string, n)
	for i := range ids {
		ids[i] = "doc" + strconv.Itoa(i)
		g.AddNode(dag.Node{ID: ids[i]})
		if i > 0 {
			g.AddEdge(dag.Edge{From: ids[i-1], To: ids[i]})
		}
	}
	g.AddEdge(dag.Edge{From: ids[n-1], To: ids[0]})

	if reversed := BreakCycles(g); reversed != 1 {
		t.Errorf("reversed = %d, want 1", reversed)
	}
	if g.HasCycle() {
		t.Error("chain still cyclic")
	}
}
