package simulation

import (
	"errors"
	"fmt"
	"math"

	"github.com/sarchlab/csmacd/csma"
)

// ErrInvalidParams is returned when a run cannot be configured. Errors coming
// from the station level are wrapped so that csma.ErrInvalidParameter still
// matches.
var ErrInvalidParams = errors.New("invalid simulation parameters")

// Params are the six command line parameters of a run.
type Params struct {
	// Duration is the simulated time T in seconds.
	Duration int
	// NumStations is N.
	NumStations int
	// ArrivalRate is A, in packets per second per station.
	ArrivalRate float64
	// LinkSpeed is W in Mbps.
	LinkSpeed int
	// PacketLength is L in bits.
	PacketLength int
	// Persistence is P: 1, -1, or a probability in (0, 1).
	Persistence float64
}

// Validate checks every parameter and returns the first problem found.
func (p Params) Validate() error {
	if p.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d",
			ErrInvalidParams, p.Duration)
	}

	if p.NumStations <= 0 {
		return fmt.Errorf("%w: number of stations must be positive, got %d",
			ErrInvalidParams, p.NumStations)
	}

	if !(p.ArrivalRate > 0) || math.IsInf(p.ArrivalRate, 1) {
		return fmt.Errorf("%w: arrival rate must be positive, got %v",
			ErrInvalidParams, p.ArrivalRate)
	}

	if _, err := p.Timing(); err != nil {
		return err
	}

	if _, err := p.Policy(); err != nil {
		return err
	}

	return nil
}

// Timing derives the station intervals from W and L.
func (p Params) Timing() (csma.Timing, error) {
	t, err := csma.NewTiming(p.LinkSpeed, p.PacketLength)
	if err != nil {
		return csma.Timing{}, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	return t, nil
}

// Policy returns the access policy selected by P.
func (p Params) Policy() (csma.Policy, error) {
	policy, err := csma.PolicyFromParameter(p.Persistence)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	return policy, nil
}
