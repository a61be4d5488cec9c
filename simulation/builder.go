package simulation

import (
	"fmt"

	"github.com/sarchlab/csmacd/csma"
	"github.com/sarchlab/csmacd/monitoring"
	"github.com/sarchlab/csmacd/sim/hooking"
	"github.com/sarchlab/csmacd/sim/id"
	"github.com/sarchlab/csmacd/sim/rng"
	"github.com/sarchlab/csmacd/sim/timing"
	"golang.org/x/exp/slices"
)

var runIDs = id.NewRunIDGenerator()

// Builder can be used to build a simulation.
type Builder struct {
	params         Params
	seed           uint64
	sensing        csma.SensingMode
	maxAttempts    int
	bufferCapacity int
	sharedRandom   bool
	sources        rng.Factory
	stationHooks   []hooking.Hook
	clockHooks     []hooking.Hook
	monitor        *monitoring.Monitor
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		seed:        1,
		sensing:     csma.SenseInPlace,
		maxAttempts: csma.DefaultMaxAttempts,
	}
}

// WithParams sets the run parameters.
func (b Builder) WithParams(p Params) Builder {
	b.params = p
	return b
}

// Params returns the run parameters set on the builder.
func (b Builder) Params() Params {
	return b.params
}

// SensingMode returns the sensing mode set on the builder.
func (b Builder) SensingMode() csma.SensingMode {
	return b.sensing
}

// WithSeed sets the seed the station streams are derived from. It has no
// effect when random sources are given with WithRandomSources.
func (b Builder) WithSeed(seed uint64) Builder {
	b.seed = seed
	return b
}

// WithSensingMode sets how stations observe the channel.
func (b Builder) WithSensingMode(m csma.SensingMode) Builder {
	b.sensing = m
	return b
}

// WithMaxAttempts sets the number of backoffs before a packet is dropped.
func (b Builder) WithMaxAttempts(n int) Builder {
	b.maxAttempts = n
	return b
}

// WithBufferCapacity bounds every station buffer. 0 means unbounded.
func (b Builder) WithBufferCapacity(n int) Builder {
	b.bufferCapacity = n
	return b
}

// WithSharedRandomSource makes all stations draw from one seeded stream
// instead of a stream each.
func (b Builder) WithSharedRandomSource() Builder {
	b.sharedRandom = true
	return b
}

// WithRandomSources replaces the seeded station streams with a factory that
// hands out a source per station.
func (b Builder) WithRandomSources(f rng.Factory) Builder {
	b.sources = f
	return b
}

// WithStationHook attaches a hook to every station.
func (b Builder) WithStationHook(h hooking.Hook) Builder {
	b.stationHooks = append(slices.Clip(b.stationHooks), h)
	return b
}

// WithClockHook attaches a hook to the clock. Clock hooks run after the
// channel sampler.
func (b Builder) WithClockHook(h hooking.Hook) Builder {
	b.clockHooks = append(slices.Clip(b.clockHooks), h)
	return b
}

// WithMonitor registers the stations and a progress bar of every built
// simulation with the monitor.
func (b Builder) WithMonitor(m *monitoring.Monitor) Builder {
	b.monitor = m
	return b
}

func (b Builder) parametersMustBeValid() error {
	if err := b.params.Validate(); err != nil {
		return err
	}

	if b.maxAttempts < 1 || b.maxAttempts > csma.MaxAttemptsLimit {
		return fmt.Errorf("%w: max attempts must be in [1, %d], got %d",
			ErrInvalidParams, csma.MaxAttemptsLimit, b.maxAttempts)
	}

	if b.bufferCapacity < 0 {
		return fmt.Errorf("%w: buffer capacity cannot be negative, got %d",
			ErrInvalidParams, b.bufferCapacity)
	}

	return nil
}

// Build builds the simulation. Stations are named Station[i] and are updated
// in ascending index order within every tick.
func (b Builder) Build() (*Simulation, error) {
	if err := b.parametersMustBeValid(); err != nil {
		return nil, err
	}

	intervals, _ := b.params.Timing()
	policy, _ := b.params.Policy()

	sources := b.sources
	switch {
	case sources != nil:
	case b.sharedRandom:
		sources = rng.SharedFactory(b.seed)
	default:
		sources = rng.StreamFactory(b.seed)
	}

	s := &Simulation{
		id:     runIDs.Generate(),
		params: b.params,
		seed:   b.seed,
	}

	s.clock = timing.NewClock(
		timing.TicksPerSecond, timing.VTimeInSec(b.params.Duration))

	s.channel = csma.NewChannel(b.sensing)
	s.clock.AcceptHook(s.channel)

	for i := 0; i < b.params.NumStations; i++ {
		station, err := b.buildStation(i, intervals, policy, s.channel, sources)
		if err != nil {
			return nil, err
		}

		s.stations = append(s.stations, station)
		s.clock.RegisterTicker(station)
	}

	for _, h := range b.clockHooks {
		s.clock.AcceptHook(h)
	}

	if b.monitor != nil {
		b.monitor.RegisterClock("Run "+s.id, s.clock)

		for _, st := range s.stations {
			b.monitor.RegisterComponent(st)
		}
	}

	return s, nil
}

func (b Builder) buildStation(
	index int,
	intervals csma.Timing,
	policy csma.Policy,
	channel *csma.Channel,
	sources rng.Factory,
) (*csma.Station, error) {
	src := sources(index)

	arrivals, err := csma.NewPoissonArrivals(b.params.ArrivalRate, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	station := csma.MakeStationBuilder().
		WithPolicy(policy).
		WithTiming(intervals).
		WithChannel(channel).
		WithArrivalProcess(arrivals).
		WithRandomSource(src).
		WithMaxAttempts(b.maxAttempts).
		WithBufferCapacity(b.bufferCapacity).
		Build(StationName(index))

	for _, h := range b.stationHooks {
		station.AcceptHook(h)
	}

	return station, nil
}

// StationName returns the name given to the station with the given index.
func StationName(index int) string {
	return fmt.Sprintf("Station[%d]", index)
}
