package types

import (
	"fmt"
	"math"
)

// Position is one candidate's location in the 2-D search space.
type Position struct {
	X float64
	Y float64
}

func (p Position) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", p.X, p.Y)
}

// Finite reports whether both coordinates are neither NaN nor infinite.
func (p Position) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Solution is a snapshot of the best position seen so far and its fitness.
// Lower fitness is better. Iteration is the generation in which the position
// was first observed, with 0 being the initial draw.
type Solution struct {
	Position  Position
	Fitness   float64
	Iteration uint32
}
