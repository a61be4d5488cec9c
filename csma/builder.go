package csma

import (
	"log"

	"github.com/sarchlab/csmacd/sim/id"
	"github.com/sarchlab/csmacd/sim/naming"
	"github.com/sarchlab/csmacd/sim/rng"
)

// DefaultMaxAttempts is the number of backoffs a packet may take before it is
// dropped.
const DefaultMaxAttempts = 10

// MaxAttemptsLimit keeps the backoff window within an int.
const MaxAttemptsLimit = 30

// StationBuilder can build stations.
type StationBuilder struct {
	policy         Policy
	timing         Timing
	channel        *Channel
	arrivals       ArrivalProcess
	src            rng.Source
	maxAttempts    int
	bufferCapacity int
}

// MakeStationBuilder creates a StationBuilder with default parameters.
func MakeStationBuilder() StationBuilder {
	return StationBuilder{
		policy:      OnePersistent{},
		maxAttempts: DefaultMaxAttempts,
	}
}

// WithPolicy sets the access policy.
func (b StationBuilder) WithPolicy(p Policy) StationBuilder {
	b.policy = p
	return b
}

// WithTiming sets the intervals.
func (b StationBuilder) WithTiming(t Timing) StationBuilder {
	b.timing = t
	return b
}

// WithChannel sets the shared channel.
func (b StationBuilder) WithChannel(c *Channel) StationBuilder {
	b.channel = c
	return b
}

// WithArrivalProcess sets the process that generates packets.
func (b StationBuilder) WithArrivalProcess(a ArrivalProcess) StationBuilder {
	b.arrivals = a
	return b
}

// WithRandomSource sets the source used for backoff draws and the p-coin.
func (b StationBuilder) WithRandomSource(src rng.Source) StationBuilder {
	b.src = src
	return b
}

// WithMaxAttempts sets the number of backoffs before a packet is dropped.
// The backoff window is [0, 2^n - 1) slots.
func (b StationBuilder) WithMaxAttempts(n int) StationBuilder {
	b.maxAttempts = n
	return b
}

// WithBufferCapacity bounds the buffer. 0 means unbounded.
func (b StationBuilder) WithBufferCapacity(n int) StationBuilder {
	b.bufferCapacity = n
	return b
}

func (b StationBuilder) parametersMustBeValid() {
	if b.policy == nil {
		log.Panic("station requires a policy")
	}

	if b.channel == nil {
		log.Panic("station requires a channel")
	}

	if b.arrivals == nil {
		log.Panic("station requires an arrival process")
	}

	if b.src == nil {
		log.Panic("station requires a random source")
	}

	if b.timing.LinkSpeed <= 0 {
		log.Panic("station requires a timing derived from a positive link speed")
	}

	if b.maxAttempts < 1 || b.maxAttempts > MaxAttemptsLimit {
		log.Panicf("max attempts must be in [1, %d], got %d",
			MaxAttemptsLimit, b.maxAttempts)
	}

	if b.bufferCapacity < 0 {
		log.Panicf("buffer capacity cannot be negative, got %d",
			b.bufferCapacity)
	}
}

// Build creates a station and draws its first arrival.
func (b StationBuilder) Build(name string) *Station {
	b.parametersMustBeValid()

	s := &Station{
		NamedBase:    naming.MakeNamedBase(name),
		policy:       b.policy,
		timing:       b.timing,
		channel:      b.channel,
		arrivals:     b.arrivals,
		rng:          b.src,
		pktIDs:       id.NewIDGenerator(),
		maxAttempts:  b.maxAttempts,
		backoffSlots: 1<<b.maxAttempts - 1,
		buffer:       NewPacketBuffer(b.bufferCapacity),
		state:        StateIdle,
		sensingLeft:  b.timing.SensingTicks,
		jammingLeft:  b.timing.JammingTicks,
	}

	s.nextArrival = s.arrivals.NextInterval()

	return s
}
