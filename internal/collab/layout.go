package collab

import (
	"math"
	"math/rand"
)

// Position is a 2-D node coordinate in the unit square [-1, 1]².
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutOptions controls the spring simulation. The same graph, seed, and
// iteration budget always yield the same coordinates.
type LayoutOptions struct {
	Seed       int64
	Iterations int
}

// DefaultLayoutOptions matches the layout the dashboard has always rendered.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{Seed: 42, Iterations: 50}
}

// minSeparation guards the force terms against coincident nodes.
const minSeparation = 1e-9

// SpringLayout computes a force-directed placement of the graph's nodes:
// every node pair repels with strength k²/d, every edge attracts with
// strength d²/k, and per-step displacement is capped by a temperature that
// decays linearly to zero across the iteration budget. Initial positions are
// drawn from a seeded generator in node insertion order, so the result is
// reproducible run to run.
func SpringLayout(g *Graph, opts LayoutOptions) map[string]Position {
	nodes := g.Nodes()
	n := len(nodes)
	layout := make(map[string]Position, n)
	switch n {
	case 0:
		return layout
	case 1:
		layout[nodes[0]] = Position{}
		return layout
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	pos := make([]Position, n)
	for i := range pos {
		pos[i] = Position{X: rng.Float64(), Y: rng.Float64()}
	}

	// Optimal pairwise distance for unit area.
	k := math.Sqrt(1 / float64(n))
	temp := 0.1
	cool := temp / float64(opts.Iterations+1)

	disp := make([]Position, n)
	for iter := 0; iter < opts.Iterations; iter++ {
		for i := range disp {
			disp[i] = Position{}
		}

		// Repulsion between every node pair.
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := pos[i].X - pos[j].X
				dy := pos[i].Y - pos[j].Y
				d := math.Hypot(dx, dy)
				if d < minSeparation {
					d = minSeparation
				}
				f := k * k / (d * d) // repulsive force k²/d over distance d
				disp[i].X += dx * f
				disp[i].Y += dy * f
				disp[j].X -= dx * f
				disp[j].Y -= dy * f
			}
		}

		// Attraction along every edge. Self-loops exert no force.
		for _, e := range g.Edges() {
			i, j := g.index(e.From), g.index(e.To)
			if i == j {
				continue
			}
			dx := pos[i].X - pos[j].X
			dy := pos[i].Y - pos[j].Y
			d := math.Hypot(dx, dy)
			if d < minSeparation {
				continue
			}
			f := d / k // attractive force d²/k over distance d
			disp[i].X -= dx * f
			disp[i].Y -= dy * f
			disp[j].X += dx * f
			disp[j].Y += dy * f
		}

		// Displace, capped by the current temperature.
		for i := 0; i < n; i++ {
			d := math.Hypot(disp[i].X, disp[i].Y)
			if d < minSeparation {
				continue
			}
			limited := math.Min(d, temp)
			pos[i].X += disp[i].X / d * limited
			pos[i].Y += disp[i].Y / d * limited
		}
		temp -= cool
	}

	rescale(pos)
	for i, name := range nodes {
		layout[name] = pos[i]
	}
	return layout
}

// rescale centers the positions on the origin and scales the widest axis
// extent to 1, matching the unit-square convention of the rendered graph.
func rescale(pos []Position) {
	var cx, cy float64
	for _, p := range pos {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(pos))
	cy /= float64(len(pos))

	var max float64
	for i := range pos {
		pos[i].X -= cx
		pos[i].Y -= cy
		max = math.Max(max, math.Max(math.Abs(pos[i].X), math.Abs(pos[i].Y)))
	}
	if max == 0 {
		return
	}
	for i := range pos {
		pos[i].X /= max
		pos[i].Y /= max
	}
}
