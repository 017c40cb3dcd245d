package exchange

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/yggdrasil-network/rplsim/src/crypto"
	"github.com/yggdrasil-network/rplsim/src/types"
)

func (s *Simulator) _applyOption(opt SetupOption) {
	switch v := opt.(type) {
	case Curve:
		s.curve = v.Curve
	case Entropy:
		s.entropy = v.Reader
	case Seed:
		s.rng = rand.New(rand.NewPCG(uint64(v), uint64(v)^seedStream))
	case RandomSource:
		s.rng = v.Rand
	case Workers:
		s.workers = int(v)
	case Selection:
		s.selection = v
	case Progress:
		s.progress = v
	}
}

type SetupOption interface {
	isSetupOption()
}

// Curve selects the curve every node's key pair is generated on.
type Curve struct {
	crypto.Curve
}

// Entropy replaces crypto/rand.Reader as the source of key material.
type Entropy struct {
	io.Reader
}

// Seed makes pair selection reproducible. It never affects key material.
type Seed uint64

// RandomSource supplies the generator used for pair selection directly.
type RandomSource struct {
	*rand.Rand
}

// Workers runs up to this many attempts concurrently.
type Workers int

// Progress is called once for every recorded outcome.
type Progress func()

// Selection decides how senders are picked. Receivers are always drawn
// uniformly from the remaining nodes.
type Selection string

const (
	// Uniform draws every sender uniformly from the node set.
	Uniform Selection = "uniform"
	// RoundRobin uses the nodes in ascending order as senders, wrapping
	// around, so attempts == nodes gives every node one turn.
	RoundRobin Selection = "roundrobin"
)

// ParseSelection accepts "uniform" and "roundrobin" (also "round-robin" and
// "sweep"), case-insensitively.
func ParseSelection(name string) (Selection, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "uniform", "random":
		return Uniform, nil
	case "roundrobin", "round-robin", "sweep":
		return RoundRobin, nil
	default:
		return "", fmt.Errorf("%w: unknown selection %q", types.ErrInvalidArgument, name)
	}
}

func (a Curve) isSetupOption()        {}
func (a Entropy) isSetupOption()      {}
func (a Seed) isSetupOption()         {}
func (a RandomSource) isSetupOption() {}
func (a Workers) isSetupOption()      {}
func (a Selection) isSetupOption()    {}
func (a Progress) isSetupOption()     {}
