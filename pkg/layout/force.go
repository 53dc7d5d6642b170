package layout

import (
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/linkgraph/pkg/graph"
)

// Force layout defaults.
const (
	DefaultWidth           = 1200.0
	DefaultHeight          = 800.0
	DefaultLinkDistance    = 120.0
	DefaultIterations      = 300
	DefaultCharge          = -300.0
	DefaultDistanceMax     = 800.0
	DefaultNodeRadius      = 30.0
	DefaultExternalRadius  = 45.0
	DefaultCollisionPasses = 3
	DefaultCenterStrength  = 0.05
	DefaultSeed            = 42
)

// Relative weights of external nodes and edges.
const (
	externalChargeFactor   = 0.7
	externalDistanceFactor = 1.5
	externalStrengthFactor = 0.5
)

// Simulation constants.
const (
	alphaMin       = 0.001
	velocityDecay  = 0.4
	distanceMin2   = 1.0
	initialRadius  = 10.0
	componentSpace = 2.0 // component spacing in link distances
)

var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// ForceOptions configures the force-directed simulation. Zero values take
// the defaults above.
type ForceOptions struct {
	Width, Height   float64
	LinkDistance    float64
	Iterations      int
	Charge          float64
	DistanceMax     float64
	NodeRadius      float64
	ExternalRadius  float64
	CollisionPasses int
	CenterStrength  float64
	Seed            uint64

	// KeepPositioned pins nodes that arrive with a finite position.
	KeepPositioned bool
	// Movable lists node IDs that are never pinned. Their arriving
	// position is only the starting point of the simulation.
	Movable map[string]struct{} `json:"-"`
}

// ValidateAndSetDefaults fills zero values with defaults.
func (o *ForceOptions) ValidateAndSetDefaults() {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.LinkDistance <= 0 {
		o.LinkDistance = DefaultLinkDistance
	}
	if o.Iterations <= 0 {
		o.Iterations = DefaultIterations
	}
	if o.Charge == 0 {
		o.Charge = DefaultCharge
	}
	if o.DistanceMax <= 0 {
		o.DistanceMax = DefaultDistanceMax
	}
	if o.NodeRadius <= 0 {
		o.NodeRadius = DefaultNodeRadius
	}
	if o.ExternalRadius <= 0 {
		o.ExternalRadius = DefaultExternalRadius
	}
	if o.CollisionPasses <= 0 {
		o.CollisionPasses = DefaultCollisionPasses
	}
	if o.CenterStrength <= 0 {
		o.CenterStrength = DefaultCenterStrength
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
}

// Center returns the simulation's center point.
func (o ForceOptions) Center() graph.Position {
	return graph.Position{X: o.Width / 2, Y: o.Height / 2}
}

// Force is the force-directed [Strategy].
type Force struct {
	opts ForceOptions
}

// NewForce creates a force-directed strategy.
func NewForce(opts ForceOptions) *Force {
	opts.ValidateAndSetDefaults()
	return &Force{opts: opts}
}

// Name implements Strategy.
func (f *Force) Name() string { return NameForce }

// Options returns the effective options.
func (f *Force) Options() ForceOptions { return f.opts }

type particle struct {
	x, y, vx, vy float64
	fixed        bool
	radius       float64
	charge       float64
}

type spring struct {
	s, t     int
	distance float64
	strength float64
	bias     float64
}

// Layout implements Strategy.
func (f *Force) Layout(nodes []graph.Node, edges []graph.Edge) []graph.Node {
	if len(nodes) == 0 {
		return []graph.Node{}
	}
	o := f.opts
	center := o.Center()
	rng := rand.New(rand.NewPCG(o.Seed, o.Seed^0x9e3779b97f4a7c15))

	// Duplicate IDs share the first occurrence's particle.
	var uniq []graph.Node
	index := make(map[string]int, len(nodes))
	for _, n := range nodes {
		if _, dup := index[n.ID]; !dup {
			index[n.ID] = len(uniq)
			uniq = append(uniq, n)
		}
	}
	edges = usableEdges(uniq, edges)

	ps := make([]particle, len(uniq))
	for i, n := range uniq {
		ps[i].radius, ps[i].charge = o.NodeRadius, o.Charge
		if n.Kind == graph.KindExternal {
			ps[i].radius, ps[i].charge = o.ExternalRadius, o.Charge*externalChargeFactor
		}
		if n.HasPosition() {
			ps[i].x, ps[i].y = n.Position.X, n.Position.Y
			_, movable := o.Movable[n.ID]
			ps[i].fixed = o.KeepPositioned && !movable
		}
	}
	f.seed(ps, uniq, edges, index, center, rng)

	springs := buildSprings(edges, index, o.LinkDistance)
	anyFixed := slices.ContainsFunc(ps, func(p particle) bool { return p.fixed })

	alpha := 1.0
	alphaDecay := 1 - math.Pow(alphaMin, 1/float64(o.Iterations))
	jiggle := func() float64 { return (rng.Float64() - 0.5) * 1e-6 }

	for tick := 0; tick < o.Iterations; tick++ {
		alpha += (0 - alpha) * alphaDecay

		applySprings(ps, springs, alpha, jiggle)
		applyCharge(ps, alpha, o.DistanceMax, jiggle)
		for pass := 0; pass < o.CollisionPasses; pass++ {
			applyCollision(ps, jiggle)
		}
		for i := range ps {
			ps[i].vx += (center.X - ps[i].x) * o.CenterStrength * alpha
			ps[i].vy += (center.Y - ps[i].y) * o.CenterStrength * alpha
		}

		for i := range ps {
			p := &ps[i]
			if p.fixed {
				p.vx, p.vy = 0, 0
				continue
			}
			p.vx *= 1 - velocityDecay
			p.vy *= 1 - velocityDecay
			p.x += p.vx
			p.y += p.vy
			if math.IsNaN(p.x+p.y) || math.IsInf(p.x+p.y, 0) {
				p.x, p.y = center.X+jiggle(), center.Y+jiggle()
				p.vx, p.vy = 0, 0
			}
		}
		if !anyFixed {
			correctDrift(ps, center)
		}
	}

	pos := make([]graph.Position, len(nodes))
	for i, n := range nodes {
		p := ps[index[n.ID]]
		pos[i] = graph.Position{X: p.x, Y: p.y}
	}
	return withPositions(nodes, pos, center)
}

// seed places unpositioned nodes: each connected component on its own
// phyllotaxis spiral, components themselves spread on a wider spiral.
func (f *Force) seed(ps []particle, nodes []graph.Node, edges []graph.Edge, index map[string]int, center graph.Position, rng *rand.Rand) {
	g := simple.NewUndirectedGraph()
	for i := range nodes {
		g.AddNode(simple.Node(i))
	}
	for _, e := range edges {
		g.SetEdge(simple.Edge{F: simple.Node(index[e.Source]), T: simple.Node(index[e.Target])})
	}

	var components [][]int
	for _, c := range topo.ConnectedComponents(g) {
		ids := make([]int, 0, len(c))
		for _, n := range c {
			ids = append(ids, int(n.ID()))
		}
		slices.Sort(ids)
		components = append(components, ids)
	}
	slices.SortFunc(components, func(a, b []int) int { return a[0] - b[0] })

	placed := 0
	for _, comp := range components {
		var free []int
		for _, i := range comp {
			if !nodes[i].HasPosition() {
				free = append(free, i)
			}
		}
		if len(free) == 0 {
			continue
		}
		r := f.opts.LinkDistance * componentSpace * math.Sqrt(float64(placed))
		a := float64(placed) * goldenAngle
		cx, cy := center.X+r*math.Cos(a), center.Y+r*math.Sin(a)
		placed++

		for k, i := range free {
			radius := initialRadius * math.Sqrt(0.5+float64(k))
			angle := float64(k) * goldenAngle
			ps[i].x = cx + radius*math.Cos(angle) + (rng.Float64()-0.5)*1e-3
			ps[i].y = cy + radius*math.Sin(angle) + (rng.Float64()-0.5)*1e-3
		}
	}
}

func buildSprings(edges []graph.Edge, index map[string]int, distance float64) []spring {
	count := make(map[int]int)
	for _, e := range edges {
		count[index[e.Source]]++
		count[index[e.Target]]++
	}
	springs := make([]spring, 0, len(edges))
	for _, e := range edges {
		s, t := index[e.Source], index[e.Target]
		sp := spring{
			s:        s,
			t:        t,
			distance: distance,
			strength: 1 / float64(min(count[s], count[t])),
			bias:     float64(count[s]) / float64(count[s]+count[t]),
		}
		if e.Kind == graph.EdgeExternal {
			sp.distance *= externalDistanceFactor
			sp.strength *= externalStrengthFactor
		}
		springs = append(springs, sp)
	}
	return springs
}

func applySprings(ps []particle, springs []spring, alpha float64, jiggle func() float64) {
	for _, sp := range springs {
		s, t := &ps[sp.s], &ps[sp.t]
		dx := t.x + t.vx - s.x - s.vx
		dy := t.y + t.vy - s.y - s.vy
		if dx == 0 {
			dx = jiggle()
		}
		if dy == 0 {
			dy = jiggle()
		}
		l := math.Sqrt(dx*dx + dy*dy)
		l = (l - sp.distance) / l * alpha * sp.strength
		dx, dy = dx*l, dy*l
		t.vx -= dx * sp.bias
		t.vy -= dy * sp.bias
		s.vx += dx * (1 - sp.bias)
		s.vy += dy * (1 - sp.bias)
	}
}

func applyCharge(ps []particle, alpha, distanceMax float64, jiggle func() float64) {
	maxSq := distanceMax * distanceMax
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			dx := ps[j].x - ps[i].x
			dy := ps[j].y - ps[i].y
			if dx == 0 {
				dx = jiggle()
			}
			if dy == 0 {
				dy = jiggle()
			}
			l := dx*dx + dy*dy
			if l >= maxSq {
				continue
			}
			if l < distanceMin2 {
				l = math.Sqrt(distanceMin2 * l)
			}
			wi := ps[j].charge * alpha / l
			wj := ps[i].charge * alpha / l
			ps[i].vx += dx * wi
			ps[i].vy += dy * wi
			ps[j].vx -= dx * wj
			ps[j].vy -= dy * wj
		}
	}
}

func applyCollision(ps []particle, jiggle func() float64) {
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			a, b := &ps[i], &ps[j]
			r := a.radius + b.radius
			dx := (a.x + a.vx) - (b.x + b.vx)
			dy := (a.y + a.vy) - (b.y + b.vy)
			l := dx*dx + dy*dy
			if l >= r*r {
				continue
			}
			if dx == 0 {
				dx = jiggle()
				l += dx * dx
			}
			if dy == 0 {
				dy = jiggle()
				l += dy * dy
			}
			l = math.Sqrt(l)
			push := (r - l) / l
			ra, rb := a.radius*a.radius, b.radius*b.radius
			share := rb / (ra + rb)
			a.vx += dx * push * share
			a.vy += dy * push * share
			b.vx -= dx * push * (1 - share)
			b.vy -= dy * push * (1 - share)
		}
	}
}

// correctDrift translates all particles so their mean lies on the center.
func correctDrift(ps []particle, center graph.Position) {
	var sx, sy float64
	for _, p := range ps {
		sx += p.x
		sy += p.y
	}
	n := float64(len(ps))
	dx, dy := sx/n-center.X, sy/n-center.Y
	for i := range ps {
		ps[i].x -= dx
		ps[i].y -= dy
	}
}
