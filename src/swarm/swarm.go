// Package swarm implements a social-force swarm search over the plane. Each
// candidate is pulled towards every other candidate with a strength falling
// off with the square of their distance, so the population drifts towards
// dense regions while the best position seen so far is tracked.
package swarm

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync/atomic"

	"github.com/yggdrasil-network/rplsim/src/defaults"
	"github.com/yggdrasil-network/rplsim/src/types"
	"github.com/yggdrasil-network/rplsim/src/util"
)

// Keeps the two PCG words apart when both come from one seed.
const seedStream = 0x9e3779b97f4a7c15

// Sphere is the default objective, x² + y², minimal at the origin.
func Sphere(p types.Position) float64 {
	return p.X*p.X + p.Y*p.Y
}

type optimizer struct {
	bound   float64
	rng     *rand.Rand
	fitness Fitness
	workers int
	observe Observer
}

// generation is one frozen snapshot of every candidate's position. A
// generation is never written to while forces are computed from it.
type generation []types.Position

// Optimize draws populationSize candidates uniformly from [-B, B]² and runs
// maxIterations rounds of the force update, returning the best position
// observed in any generation. With maxIterations == 0 only the initial draw
// is evaluated. Ties keep the earlier solution.
func Optimize(populationSize, maxIterations uint32, opts ...SetupOption) (types.Solution, error) {
	o := &optimizer{
		bound:   defaults.DefaultBound,
		fitness: Sphere,
	}
	for _, opt := range opts {
		o._applyOption(opt)
	}
	if populationSize == 0 {
		return types.Solution{}, fmt.Errorf("%w: population size must be at least 1", types.ErrInvalidArgument)
	}
	if !(o.bound > 0) || math.IsInf(o.bound, 1) {
		return types.Solution{}, fmt.Errorf("%w: bound %v is not a positive finite number", types.ErrInvalidArgument, o.bound)
	}
	if o.fitness == nil {
		o.fitness = Sphere
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	current := o.draw(int(populationSize))
	next := make(generation, len(current))
	best := o.evaluate(current, 0, types.Solution{})
	for iteration := uint32(1); iteration <= maxIterations; iteration++ {
		if err := o.step(current, next); err != nil {
			return types.Solution{}, fmt.Errorf("iteration %d: %w", iteration, err)
		}
		current, next = next, current
		best = o.evaluate(current, iteration, best)
	}
	return best, nil
}

func (o *optimizer) draw(n int) generation {
	gen := make(generation, n)
	for i := range gen {
		gen[i] = types.Position{
			X: (o.rng.Float64()*2 - 1) * o.bound,
			Y: (o.rng.Float64()*2 - 1) * o.bound,
		}
	}
	return gen
}

// evaluate scores a generation and folds its fittest candidate into best.
// The initial draw always replaces the zero Solution.
func (o *optimizer) evaluate(gen generation, iteration uint32, best types.Solution) types.Solution {
	idx, fitness := 0, o.fitness(gen[0])
	for i := 1; i < len(gen); i++ {
		if f := o.fitness(gen[i]); f < fitness {
			idx, fitness = i, f
		}
	}
	if iteration == 0 || fitness < best.Fitness {
		best = types.Solution{
			Position:  gen[idx],
			Fitness:   fitness,
			Iteration: iteration,
		}
	}
	if o.observe != nil {
		o.observe(iteration, best)
	}
	return best
}

// step computes the next generation from prev. Every candidate only reads
// prev and only writes its own slot in next; WorkerFor returns once all of
// them are done, so next is complete before anyone reads it.
func (o *optimizer) step(prev, next generation) error {
	var degenerate atomic.Bool
	util.WorkerFor(len(prev), o.workers, func(i int) {
		next[i] = prev.pull(i)
		if !next[i].Finite() {
			degenerate.Store(true)
		}
	})
	if degenerate.Load() {
		return fmt.Errorf("%w: candidate position left the representable range", types.ErrNumericDegenerate)
	}
	return nil
}

// pull returns candidate i moved by the sum of (p_j - p_i) / d(i,j)² over all
// other candidates j. Candidate i is never paired with itself. Two distinct
// candidates sitting on exactly the same spot have no direction between
// them and exert no force on each other.
func (g generation) pull(i int) types.Position {
	p := g[i]
	var fx, fy float64
	for j, q := range g {
		if j == i {
			continue
		}
		dx, dy := q.X-p.X, q.Y-p.Y
		d2 := dx*dx + dy*dy
		if d2 == 0 {
			continue
		}
		fx += dx / d2
		fy += dy / d2
	}
	return types.Position{X: p.X + fx, Y: p.Y + fy}
}
