// Package layout positions graph nodes with a force-directed simulation
// and maps the result onto a pannable, zoomable viewport.
package layout

import (
	"math"

	"github.com/raphaelgruber/etymon/internal/models"
)

// Simulation parameters.
const (
	LinkDistance    = 100.0
	ChargeStrength  = -300.0
	CollidePadding  = 6.0
	VelocityDecay   = 0.4
	AlphaMin        = 0.001
	DragAlphaTarget = 0.3

	initialRadius = 10.0
	settleTicks   = 300
)

var (
	alphaDecay   = 1 - math.Pow(AlphaMin, 1.0/settleTicks)
	initialAngle = math.Pi * (3 - math.Sqrt(5))
)

// Point is a node position in world coordinates.
type Point struct {
	ID string
	X  float64
	Y  float64
}

// Radius returns the drawn and collision radius for a node kind.
// Unknown kinds get the smallest radius.
func Radius(k models.NodeKind) float64 {
	switch k {
	case models.NodeRoot:
		return 14
	case models.NodeCurrent:
		return 12
	case models.NodeAncestor:
		return 10
	case models.NodeCognate, models.NodeDerivative:
		return 9
	}
	return 8
}

type body struct {
	id     string
	radius float64
	x, y   float64
	vx, vy float64
	pinned bool
	fx, fy float64
}

type spring struct {
	source, target int
	strength       float64
	bias           float64
}

// Simulation is an incremental force-directed layout.
// It is stepped by the caller and is not safe for concurrent use.
type Simulation struct {
	bodies  []*body
	index   map[string]int
	springs []spring

	alpha       float64
	alphaTarget float64
	stopped     bool
	jiggleSeed  uint32
}

// NewSimulation seeds a simulation from g. Nodes start on a phyllotaxis
// spiral around the origin. Links whose endpoints are missing are ignored.
func NewSimulation(g models.Graph) *Simulation {
	s := &Simulation{
		index: make(map[string]int, len(g.Nodes)),
		alpha: 1,
	}

	for i, n := range g.Nodes {
		if _, dup := s.index[n.ID]; dup {
			continue
		}
		r := initialRadius * math.Sqrt(0.5+float64(i))
		a := float64(i) * initialAngle
		s.index[n.ID] = len(s.bodies)
		s.bodies = append(s.bodies, &body{
			id:     n.ID,
			radius: Radius(n.Kind),
			x:      r * math.Cos(a),
			y:      r * math.Sin(a),
		})
	}

	degree := make([]int, len(s.bodies))
	for _, l := range g.Links {
		src, ok1 := s.index[l.Source]
		dst, ok2 := s.index[l.Target]
		if !ok1 || !ok2 || src == dst {
			continue
		}
		s.springs = append(s.springs, spring{source: src, target: dst})
		degree[src]++
		degree[dst]++
	}
	for i := range s.springs {
		sp := &s.springs[i]
		ds, dt := float64(degree[sp.source]), float64(degree[sp.target])
		sp.strength = 1 / math.Min(ds, dt)
		sp.bias = ds / (ds + dt)
	}

	return s
}

// Alpha returns the current temperature. It decays toward the alpha target.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Running reports whether further ticks will move nodes.
func (s *Simulation) Running() bool {
	if s.stopped || len(s.bodies) == 0 {
		return false
	}
	return s.alpha >= AlphaMin || s.alphaTarget >= AlphaMin
}

// Progress returns how far the layout has settled, from 0 to 1.
func (s *Simulation) Progress() float64 {
	if !s.Running() {
		return 1
	}
	return math.Max(0, math.Min(1, 1-s.alpha))
}

// Stop disposes the stepper. A stopped simulation ignores Tick and drags.
func (s *Simulation) Stop() { s.stopped = true }

// Stopped reports whether Stop was called.
func (s *Simulation) Stopped() bool { return s.stopped }

// Tick advances the simulation n steps. It does nothing once the
// simulation has cooled or been stopped.
func (s *Simulation) Tick(n int) {
	for range n {
		if !s.Running() {
			return
		}
		s.step()
	}
}

func (s *Simulation) step() {
	s.alpha += (s.alphaTarget - s.alpha) * alphaDecay

	s.applyLinks()
	s.applyCharge()
	s.applyCollide()

	for _, b := range s.bodies {
		if b.pinned {
			b.x, b.y = b.fx, b.fy
			b.vx, b.vy = 0, 0
			continue
		}
		b.vx *= 1 - VelocityDecay
		b.vy *= 1 - VelocityDecay
		b.x += b.vx
		b.y += b.vy
	}

	s.applyCenter()
}

func (s *Simulation) applyLinks() {
	for _, sp := range s.springs {
		src, dst := s.bodies[sp.source], s.bodies[sp.target]
		x := dst.x + dst.vx - src.x - src.vx
		y := dst.y + dst.vy - src.y - src.vy
		if x == 0 {
			x = s.jiggle()
		}
		if y == 0 {
			y = s.jiggle()
		}
		l := math.Sqrt(x*x + y*y)
		l = (l - LinkDistance) / l * s.alpha * sp.strength
		x *= l
		y *= l
		dst.vx -= x * sp.bias
		dst.vy -= y * sp.bias
		src.vx += x * (1 - sp.bias)
		src.vy += y * (1 - sp.bias)
	}
}

// applyCharge computes pairwise repulsion exactly. Graphs here have a
// handful of nodes, so the quadratic cost does not matter.
func (s *Simulation) applyCharge() {
	for i, a := range s.bodies {
		for j, b := range s.bodies {
			if i == j {
				continue
			}
			x := b.x - a.x
			y := b.y - a.y
			if x == 0 {
				x = s.jiggle()
			}
			if y == 0 {
				y = s.jiggle()
			}
			l := x*x + y*y
			if l < 1 {
				l = math.Sqrt(l)
			}
			w := ChargeStrength * s.alpha / l
			a.vx += x * w
			a.vy += y * w
		}
	}
}

func (s *Simulation) applyCollide() {
	for i := 0; i < len(s.bodies); i++ {
		a := s.bodies[i]
		for j := i + 1; j < len(s.bodies); j++ {
			b := s.bodies[j]
			r := a.radius + b.radius + 2*CollidePadding
			x := (a.x + a.vx) - (b.x + b.vx)
			y := (a.y + a.vy) - (b.y + b.vy)
			l := x*x + y*y
			if l >= r*r {
				continue
			}
			if x == 0 {
				x = s.jiggle()
				l += x * x
			}
			if y == 0 {
				y = s.jiggle()
				l += y * y
			}
			l = math.Sqrt(l)
			l = (r - l) / l
			x *= l
			y *= l
			ra, rb := a.radius*a.radius, b.radius*b.radius
			share := rb / (ra + rb)
			a.vx += x * share
			a.vy += y * share
			b.vx -= x * (1 - share)
			b.vy -= y * (1 - share)
		}
	}
}

// applyCenter translates all nodes so their mean sits on the origin.
func (s *Simulation) applyCenter() {
	if len(s.bodies) == 0 {
		return
	}
	var sx, sy float64
	for _, b := range s.bodies {
		sx += b.x
		sy += b.y
	}
	sx /= float64(len(s.bodies))
	sy /= float64(len(s.bodies))
	for _, b := range s.bodies {
		if b.pinned {
			continue
		}
		b.x -= sx
		b.y -= sy
	}
}

// jiggle returns a tiny deterministic offset used to separate coincident points.
func (s *Simulation) jiggle() float64 {
	s.jiggleSeed = s.jiggleSeed*1664525 + 1013904223
	return (float64(s.jiggleSeed)/math.MaxUint32 - 0.5) * 1e-6
}

// DragStart pins node id at its current position and reheats the simulation.
func (s *Simulation) DragStart(id string) bool {
	b := s.body(id)
	if b == nil || s.stopped {
		return false
	}
	s.alphaTarget = DragAlphaTarget
	b.pinned = true
	b.fx, b.fy = b.x, b.y
	return true
}

// DragTo moves the pinned node to (x, y).
func (s *Simulation) DragTo(id string, x, y float64) bool {
	b := s.body(id)
	if b == nil || !b.pinned || s.stopped {
		return false
	}
	b.fx, b.fy = x, y
	b.x, b.y = x, y
	return true
}

// DragEnd releases node id so forces act on it again, and lets the
// simulation cool.
func (s *Simulation) DragEnd(id string) bool {
	b := s.body(id)
	if b == nil || !b.pinned {
		return false
	}
	s.alphaTarget = 0
	b.pinned = false
	return true
}

// Dragging reports whether node id is pinned by a drag.
func (s *Simulation) Dragging(id string) bool {
	b := s.body(id)
	return b != nil && b.pinned
}

// Position returns the position of node id.
func (s *Simulation) Position(id string) (Point, bool) {
	b := s.body(id)
	if b == nil {
		return Point{}, false
	}
	return Point{ID: b.id, X: b.x, Y: b.y}, true
}

// Positions returns every node position in graph order.
func (s *Simulation) Positions() []Point {
	out := make([]Point, len(s.bodies))
	for i, b := range s.bodies {
		out[i] = Point{ID: b.id, X: b.x, Y: b.y}
	}
	return out
}

// Len returns the number of nodes in the simulation.
func (s *Simulation) Len() int { return len(s.bodies) }

func (s *Simulation) body(id string) *body {
	i, ok := s.index[id]
	if !ok {
		return nil
	}
	return s.bodies[i]
}
