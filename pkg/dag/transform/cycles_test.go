package transform

import (
	"strings"
	"testing"

	"github.com/matzehuels/linkgraph/pkg/dag"
)

// linkGraph builds a DAG from "from>to" pairs, adding nodes on first use.
func linkGraph(t *testing.T, links ...string) *dag.DAG {
	t.Helper()
	g := dag.New()
	for _, l := range links {
		from, to, ok := strings.Cut(l, ">")
		if !ok {
			t.Fatalf("bad link %q", l)
		}
		for _, id := range []string{from, to} {
			if _, exists := g.Node(id); !exists {
				if err := g.AddNode(dag.Node{ID: id}); err != nil {
					t.Fatal(err)
				}
			}
		}
		if err := g.AddEdge(dag.Edge{From: from, To: to}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestBreakCycles(t *testing.T) {
	tests := []struct {
		name      string
		links     []string
		roots     []string
		reversed  int
		edges     int
		keepEdges []string // edges that must survive unreversed
	}{
		{
			name:     "acyclic chain",
			links:    []string{"index>guide", "guide>api"},
			reversed: 0, edges: 2,
			keepEdges: []string{"index>guide", "guide>api"},
		},
		{
			name:     "mutual links collapse",
			links:    []string{"index>guide", "guide>index"},
			reversed: 1, edges: 1,
			keepEdges: []string{"index>guide"},
		},
		{
			name:     "triangle",
			links:    []string{"a>b", "b>c", "c>a"},
			reversed: 1, edges: 3,
			keepEdges: []string{"a>b", "b>c"},
		},
		{
			name:     "two independent cycles",
			links:    []string{"a>b", "b>a", "x>y", "y>z", "z>x"},
			reversed: 2, edges: 4,
		},
		{
			name:     "diamond is not a cycle",
			links:    []string{"a>b", "a>c", "b>d", "c>d"},
			reversed: 0, edges: 4,
		},
		{
			name:     "parallel back edges reverse once",
			links:    []string{"a>b", "b>a", "b>a"},
			reversed: 1, edges: 1,
		},
		{
			name:     "root keeps outgoing links",
			links:    []string{"guide>index", "index>guide", "index>api", "api>index"},
			roots:    []string{"index"},
			reversed: 2, edges: 2,
			keepEdges: []string{"index>guide", "index>api"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := linkGraph(t, tt.links...)
			if got := BreakCycles(g, tt.roots...); got != tt.reversed {
				t.Errorf("BreakCycles() = %d, want %d", got, tt.reversed)
			}
			if g.HasCycle() {
				t.Error("graph still has a cycle")
			}
			if g.EdgeCount() != tt.edges {
				t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), tt.edges)
			}
			for _, l := range tt.keepEdges {
				from, to, _ := strings.Cut(l, ">")
				if !g.HasEdge(from, to) {
					t.Errorf("edge %s was reversed", l)
				}
			}
			if again := BreakCycles(g, tt.roots...); again != 0 {
				t.Errorf("second BreakCycles() = %d, want 0", again)
			}
		})
	}
}

func TestBreakCycles_PreservesMinLen(t *testing.T) {
	g := linkGraph(t, "a>b")
	if err := g.AddNode(dag.Node{ID: "site"}); err != nil {
		t.Fatal(err)
	}
	_ = g.AddEdge(dag.Edge{From: "b", To: "site", MinLen: 2})
	_ = g.AddEdge(dag.Edge{From: "site", To: "a", MinLen: 2})

	BreakCycles(g, "a")

	e, ok := g.Edge("a", "site")
	if !ok {
		t.Fatal("closing edge site>a should be reversed to a>site")
	}
	if e.MinLen != 2 {
		t.Errorf("MinLen = %d, want 2", e.MinLen)
	}
}

func TestBreakCycles_UnknownRootIgnored(t *testing.T) {
	g := linkGraph(t, "a>b", "b>a")
	if got := BreakCycles(g, "missing"); got != 1 {
		t.Errorf("BreakCycles() = %d, want 1", got)
	}
}

func TestBreakCycles_Empty(t *testing.T) {
	if got := BreakCycles(dag.New()); got != 0 {
		t.Errorf("BreakCycles(empty) = %d", got)
	}
}
