package swarm

import (
	"math/rand/v2"

	"github.com/yggdrasil-network/rplsim/src/types"
)

func (o *optimizer) _applyOption(opt SetupOption) {
	switch v := opt.(type) {
	case Bound:
		o.bound = float64(v)
	case Seed:
		o.rng = rand.New(rand.NewPCG(uint64(v), uint64(v)^seedStream))
	case RandomSource:
		o.rng = v.Rand
	case Fitness:
		o.fitness = v
	case Workers:
		o.workers = int(v)
	case Observer:
		o.observe = v
	}
}

type SetupOption interface {
	isSetupOption()
}

// Bound sets B for the search square [-B, B] x [-B, B].
type Bound float64

// Seed makes the initial draw reproducible.
type Seed uint64

// RandomSource supplies the generator for the initial draw directly.
// When combined with Seed, whichever option comes last wins.
type RandomSource struct {
	*rand.Rand
}

// Fitness replaces the objective. It must be deterministic and bounded below.
type Fitness func(types.Position) float64

// Workers spreads the force computation for each generation over this many
// pool workers. Values below 2 keep everything on the calling goroutine.
type Workers int

// Observer is called once per evaluated generation, starting with the
// initial draw as iteration 0, with the best solution so far.
type Observer func(iteration uint32, best types.Solution)

func (a Bound) isSetupOption()        {}
func (a Seed) isSetupOption()         {}
func (a RandomSource) isSetupOption() {}
func (a Fitness) isSetupOption()      {}
func (a Workers) isSetupOption()      {}
func (a Observer) isSetupOption()     {}
