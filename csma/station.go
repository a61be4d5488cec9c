package csma

import (
	"github.com/sarchlab/csmacd/sim/hooking"
	"github.com/sarchlab/csmacd/sim/id"
	"github.com/sarchlab/csmacd/sim/naming"
	"github.com/sarchlab/csmacd/sim/rng"
)

// StationStats holds the cumulative counters of a station.
type StationStats struct {
	// Generated counts every arrival, including the ones that overflowed.
	Generated   uint64
	Transmitted uint64
	// Dropped counts packets discarded after exhausting their attempts.
	Dropped uint64
	// Overflowed counts arrivals that found the buffer full.
	Overflowed uint64
	Collisions uint64

	// TotalDelayTicks sums the delay of the transmitted packets.
	TotalDelayTicks uint64
	// QueueLengthSum sums the buffer length sampled once per tick.
	QueueLengthSum uint64
	// PeakAttempts is the largest attempt count of a packet leaving the
	// buffer.
	PeakAttempts int
}

// A Station is a network endpoint contending for the channel.
type Station struct {
	naming.NamedBase
	hooking.HookableBase

	policy       Policy
	timing       Timing
	channel      *Channel
	arrivals     ArrivalProcess
	rng          rng.Source
	pktIDs       id.IDGenerator
	maxAttempts  int
	backoffSlots int

	buffer      *PacketBuffer
	state       State
	now         uint64
	nextArrival int
	sensingLeft int
	jammingLeft int
	waitingLeft int

	stats StationStats
}

// State returns the current state of the station.
func (s *Station) State() State {
	return s.state
}

// Policy returns the access policy of the station.
func (s *Station) Policy() Policy {
	return s.policy
}

// Timing returns the intervals the station uses.
func (s *Station) Timing() Timing {
	return s.timing
}

// QueueLength returns the number of buffered packets.
func (s *Station) QueueLength() int {
	return s.buffer.Size()
}

// HeadPacket returns the active packet, or nil if the buffer is empty.
func (s *Station) HeadPacket() *Packet {
	return s.buffer.Peek()
}

// Stats returns the counters of the station.
func (s *Station) Stats() StationStats {
	return s.stats
}

// Tick advances the station by one tick: it handles the arrival countdown,
// ages the buffered packets and runs one step of the state machine.
func (s *Station) Tick(now uint64) {
	s.now = now

	s.countDownArrival()
	s.buffer.Age()
	s.stats.QueueLengthSum += uint64(s.buffer.Size())

	switch s.state {
	case StateIdle:
		s.idle()
	case StateSensing:
		s.sense()
	case StateTransmitting:
		s.transmit()
	case StateJamming:
		s.jam()
	case StateWaiting:
		s.wait()
	case StateDeferred:
		s.deferred()
	}
}

func (s *Station) countDownArrival() {
	s.nextArrival--
	if s.nextArrival > 0 {
		return
	}

	s.nextArrival = s.arrivals.NextInterval()
	s.stats.Generated++

	p := &Packet{
		ID:                   s.Name() + ".Pkt[" + s.pktIDs.Generate() + "]",
		ArrivalTick:          s.now,
		RemainingServiceTime: s.timing.PacketTicks,
	}

	if !s.buffer.Push(p) {
		s.stats.Overflowed++
		s.invokeHook(HookPosOverflow, p)

		return
	}

	s.invokeHook(HookPosArrival, p)
}

func (s *Station) idle() {
	if !s.buffer.IsEmpty() {
		s.state = StateSensing
	}
}

func (s *Station) sense() {
	if !s.channel.IsIdle() {
		s.policy.OnChannelBusy(s)
		s.sensingLeft = s.timing.SensingTicks

		return
	}

	s.sensingLeft--
	if s.sensingLeft > 0 {
		return
	}

	s.sensingLeft = s.timing.SensingTicks
	s.policy.OnChannelIdle(s)
}

func (s *Station) transmit() {
	head := s.buffer.Peek()

	head.RemainingServiceTime--
	if s.channel.Collided() {
		s.stats.Collisions++
		head.RemainingServiceTime = s.timing.PacketTicks
		s.state = StateJamming
		s.invokeHook(HookPosCollision, head)

		return
	}

	if head.RemainingServiceTime <= 0 {
		s.channel.Release()
		s.completeTransmission()
	}
}

func (s *Station) completeTransmission() {
	p := s.buffer.Pop()

	s.stats.Transmitted++
	s.stats.TotalDelayTicks += uint64(p.DelayTime)
	s.notePeakAttempts(p)

	s.resetState()
	s.invokeHook(HookPosTransmitDone, p)
}

func (s *Station) jam() {
	s.jammingLeft--
	if s.jammingLeft > 0 {
		return
	}

	s.channel.Release()
	s.jammingLeft = s.timing.JammingTicks
	s.backoff()
}

func (s *Station) wait() {
	s.waitingLeft--
	if s.waitingLeft > 0 {
		return
	}

	s.resetState()
}

func (s *Station) deferred() {
	if s.channel.IsIdle() {
		s.policy.OnChannelIdle(s)
		return
	}

	s.backoff()
}

// backoff handles a failed attempt of the head packet. A packet that has
// already used all its attempts is dropped.
func (s *Station) backoff() {
	head := s.buffer.Peek()

	if head.Attempts >= s.maxAttempts {
		s.buffer.Pop()
		s.stats.Dropped++
		s.notePeakAttempts(head)
		s.resetState()
		s.invokeHook(HookPosDrop, head)

		return
	}

	head.Attempts++
	s.waitRandomBackoff()
	s.invokeHook(HookPosBackoff, head)
}

func (s *Station) startTransmission() {
	s.channel.Acquire()
	s.state = StateTransmitting
	s.invokeHook(HookPosTransmitStart, s.buffer.Peek())
}

func (s *Station) waitRandomBackoff() {
	r := s.rng.IntN(s.backoffSlots)
	s.waitingLeft = s.timing.BackoffTicks(r)
	s.state = StateWaiting
}

func (s *Station) deferOneTick() {
	s.state = StateDeferred
	s.invokeHook(HookPosDefer, s.buffer.Peek())
}

func (s *Station) resetState() {
	if s.buffer.IsEmpty() {
		s.state = StateIdle
		return
	}

	s.state = StateSensing
}

func (s *Station) notePeakAttempts(p *Packet) {
	if p.Attempts > s.stats.PeakAttempts {
		s.stats.PeakAttempts = p.Attempts
	}
}

func (s *Station) invokeHook(pos *hooking.HookPos, p *Packet) {
	if s.NumHooks() == 0 {
		return
	}

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    pos,
		Item: Event{
			Tick:    s.now,
			Station: s.Name(),
			State:   s.state,
			Packet:  p,
			Busy:    s.channel.Busy(),
		},
	})
}
