// Package simulation wires stations, the channel, and the clock into a run and
// aggregates the counters once the run is over.
package simulation

import (
	"github.com/sarchlab/csmacd/csma"
	"github.com/sarchlab/csmacd/sim/timing"
)

// A Simulation owns every object of one run.
type Simulation struct {
	id     string
	params Params
	seed   uint64

	clock    *timing.Clock
	channel  *csma.Channel
	stations []*csma.Station
}

// ID returns the unique ID of the run.
func (s *Simulation) ID() string {
	return s.id
}

// Params returns the parameters the run was built with.
func (s *Simulation) Params() Params {
	return s.params
}

// Seed returns the seed of the shared random source.
func (s *Simulation) Seed() uint64 {
	return s.seed
}

// Clock returns the clock that drives the run.
func (s *Simulation) Clock() *timing.Clock {
	return s.clock
}

// Channel returns the shared medium.
func (s *Simulation) Channel() *csma.Channel {
	return s.channel
}

// Stations returns the stations in processing order.
func (s *Simulation) Stations() []*csma.Station {
	return s.stations
}

// Run advances the clock through T * TicksPerSecond ticks. A simulation can
// only run once.
func (s *Simulation) Run() error {
	return s.clock.Run()
}

// Results aggregates the counters of all the stations and the channel.
func (s *Simulation) Results() Results {
	stats := make([]csma.StationStats, 0, len(s.stations))
	queued := 0

	for _, st := range s.stations {
		stats = append(stats, st.Stats())
		queued += st.QueueLength()
	}

	r := Aggregate(stats, s.channel.Stats())
	r.Duration = timing.VTimeInSec(s.params.Duration)
	r.Ticks = s.clock.Now()
	r.Queued = uint64(queued)

	return r
}
