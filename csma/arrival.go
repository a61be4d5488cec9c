package csma

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sarchlab/csmacd/sim/rng"
	"github.com/sarchlab/csmacd/sim/timing"
)

// ArrivalProcess tells how many ticks pass until the next packet arrives.
type ArrivalProcess interface {
	NextInterval() int
}

// PoissonArrivals draws exponentially distributed inter-arrival times.
type PoissonArrivals struct {
	dist distuv.Exponential
	src  rng.Source
}

// NewPoissonArrivals creates an arrival process with the given rate in packets
// per second.
func NewPoissonArrivals(rate float64, src rng.Source) (*PoissonArrivals, error) {
	if !(rate > 0) || math.IsInf(rate, 1) {
		return nil, fmt.Errorf("%w: arrival rate must be positive, got %v",
			ErrInvalidParameter, rate)
	}

	a := &PoissonArrivals{
		dist: distuv.Exponential{Rate: rate},
		src:  src,
	}

	return a, nil
}

// Rate returns the arrival rate in packets per second.
func (a *PoissonArrivals) Rate() float64 {
	return a.dist.Rate
}

// NextInterval consumes one uniform draw u and returns
// round(-ln(1-u)/rate * TicksPerSecond), never less than one tick.
func (a *PoissonArrivals) NextInterval() int {
	u := a.src.Float64()
	seconds := a.dist.Quantile(u)
	ticks := math.Round(seconds * float64(timing.TicksPerSecond))

	if ticks < 1 {
		return 1
	}

	if ticks > math.MaxInt32 {
		return math.MaxInt32
	}

	return int(ticks)
}
