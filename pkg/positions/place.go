package positions

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/linkgraph/pkg/graph"
)

// Placement defaults.
const (
	DefaultSpread = 60.0
	DefaultSeed   = 1
)

// PlaceOptions configures [Place].
type PlaceOptions struct {
	Center graph.Position
	// Spread bounds the random offset from the anchor point.
	Spread float64
	Seed   uint64
}

// Place returns a copy of nodes in which every node lacking a finite
// position has one. A node with positioned neighbors starts near their
// centroid; others start near opts.Center. Nodes are placed in order and
// count as positioned for later ones.
func Place(nodes []graph.Node, edges []graph.Edge, opts PlaceOptions) []graph.Node {
	if opts.Spread <= 0 {
		opts.Spread = DefaultSpread
	}
	if opts.Seed == 0 {
		opts.Seed = DefaultSeed
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed+1))

	neighbors := make(map[string][]string)
	for _, e := range edges {
		if e.Source == e.Target {
			continue
		}
		neighbors[e.Source] = append(neighbors[e.Source], e.Target)
		neighbors[e.Target] = append(neighbors[e.Target], e.Source)
	}

	placed := make(map[string]graph.Position, len(nodes))
	for _, n := range nodes {
		if n.HasPosition() {
			placed[n.ID] = *n.Position
		}
	}

	out := make([]graph.Node, len(nodes))
	for i, n := range nodes {
		if n.HasPosition() {
			out[i] = n
			continue
		}
		if p, ok := placed[n.ID]; ok {
			// Duplicate ID placed earlier in this call.
			out[i] = n.WithPosition(p)
			continue
		}

		var sx, sy float64
		count := 0
		for _, nb := range neighbors[n.ID] {
			if p, ok := placed[nb]; ok {
				sx += p.X
				sy += p.Y
				count++
			}
		}

		angle := rng.Float64() * 2 * math.Pi
		var p graph.Position
		if count > 0 {
			dist := opts.Spread * (0.5 + 0.5*rng.Float64())
			p = graph.Position{X: sx/float64(count) + dist*math.Cos(angle), Y: sy/float64(count) + dist*math.Sin(angle)}
		} else {
			dist := opts.Spread * 2 * rng.Float64()
			p = graph.Position{X: opts.Center.X + dist*math.Cos(angle), Y: opts.Center.Y + dist*math.Sin(angle)}
		}
		placed[n.ID] = p
		out[i] = n.WithPosition(p)
	}
	return out
}
