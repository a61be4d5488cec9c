package simulation

import (
	"errors"

	"github.com/sarchlab/csmacd/csma"
	"github.com/sarchlab/csmacd/sim/timing"
)

// ErrNoTransmissions is returned by MeanDelay when no packet got through.
var ErrNoTransmissions = errors.New("no packet was transmitted")

// ErrNoArrivals is returned by DropRatio when no packet was generated.
var ErrNoArrivals = errors.New("no packet was generated")

// Results are the counters of a finished run, summed over all the stations.
type Results struct {
	Duration    timing.VTimeInSec
	Ticks       uint64
	NumStations int

	Generated       uint64
	Transmitted     uint64
	Dropped         uint64
	Overflowed      uint64
	Queued          uint64
	Collisions      uint64
	TotalDelayTicks uint64
	QueueLengthSum  uint64
	PeakAttempts    int

	Channel csma.ChannelStats
}

// Aggregate sums the station counters. Duration, Ticks and Queued are left
// for the caller to fill.
func Aggregate(stats []csma.StationStats, channel csma.ChannelStats) Results {
	r := Results{
		NumStations: len(stats),
		Channel:     channel,
	}

	for _, s := range stats {
		r.Generated += s.Generated
		r.Transmitted += s.Transmitted
		r.Dropped += s.Dropped
		r.Overflowed += s.Overflowed
		r.Collisions += s.Collisions
		r.TotalDelayTicks += s.TotalDelayTicks
		r.QueueLengthSum += s.QueueLengthSum

		if s.PeakAttempts > r.PeakAttempts {
			r.PeakAttempts = s.PeakAttempts
		}
	}

	return r
}

// Throughput returns the successfully transmitted packets per second.
func (r Results) Throughput() float64 {
	if r.Duration <= 0 {
		return 0
	}

	return float64(r.Transmitted) / r.Duration
}

// MeanDelay returns the mean queueing plus service delay, in seconds, of the
// transmitted packets.
func (r Results) MeanDelay() (float64, error) {
	if r.Transmitted == 0 {
		return 0, ErrNoTransmissions
	}

	meanTicks := float64(r.TotalDelayTicks) / float64(r.Transmitted)

	return meanTicks / float64(timing.TicksPerSecond), nil
}

// DropRatio returns the share of generated packets that were dropped after
// using all their attempts or lost to a full buffer.
func (r Results) DropRatio() (float64, error) {
	if r.Generated == 0 {
		return 0, ErrNoArrivals
	}

	return float64(r.Dropped+r.Overflowed) / float64(r.Generated), nil
}

// ChannelIdleFraction returns the share of ticks that ended with nobody on the
// medium.
func (r Results) ChannelIdleFraction() float64 {
	if r.Channel.Ticks == 0 {
		return 0
	}

	return float64(r.Channel.IdleTicks) / float64(r.Channel.Ticks)
}

// MeanQueueLength returns the time average number of packets in a station
// buffer, including the one being served.
func (r Results) MeanQueueLength() float64 {
	if r.Ticks == 0 || r.NumStations == 0 {
		return 0
	}

	return float64(r.QueueLengthSum) /
		(float64(r.Ticks) * float64(r.NumStations))
}
