package csma

import (
	"fmt"
	"log"

	"github.com/sarchlab/csmacd/sim/hooking"
	"github.com/sarchlab/csmacd/sim/timing"
)

// SensingMode selects what a station sees when it senses the channel.
type SensingMode int

const (
	// SenseInPlace lets a station see the live counter. A station that starts
	// sending is immediately visible to the stations processed after it in
	// the same tick.
	SenseInPlace SensingMode = iota

	// SenseSnapshot lets a station see the counter as it was when the tick
	// began. Stations that decide to send in the same tick do not see each
	// other until the next tick and collide.
	SenseSnapshot
)

func (m SensingMode) String() string {
	switch m {
	case SenseInPlace:
		return "inplace"
	case SenseSnapshot:
		return "snapshot"
	default:
		return fmt.Sprintf("SensingMode(%d)", int(m))
	}
}

// ParseSensingMode converts "inplace" or "snapshot" to a SensingMode.
func ParseSensingMode(s string) (SensingMode, error) {
	switch s {
	case "inplace", "in-place", "":
		return SenseInPlace, nil
	case "snapshot":
		return SenseSnapshot, nil
	default:
		return 0, fmt.Errorf("%w: unknown channel sensing mode %q",
			ErrInvalidParameter, s)
	}
}

// ChannelStats summarizes the channel occupancy over the ticks it observed.
type ChannelStats struct {
	Ticks          uint64
	IdleTicks      uint64
	CollisionTicks uint64
	PeakBusy       int
}

// Channel is the shared medium. It counts the stations currently holding the
// medium, either sending or jamming.
//
// Register the channel as a hook on the clock so that it can take its
// per-tick snapshot and statistics.
type Channel struct {
	mode   SensingMode
	busy   int
	sensed int
	stats  ChannelStats
}

// NewChannel creates an idle channel.
func NewChannel(mode SensingMode) *Channel {
	return &Channel{mode: mode}
}

// Mode returns the sensing mode of the channel.
func (c *Channel) Mode() SensingMode {
	return c.mode
}

// Acquire marks one more station on the medium.
func (c *Channel) Acquire() {
	c.busy++

	if c.busy > c.stats.PeakBusy {
		c.stats.PeakBusy = c.busy
	}
}

// Release marks one station leaving the medium.
func (c *Channel) Release() {
	if c.busy == 0 {
		log.Panic("releasing an idle channel")
	}

	c.busy--
}

// Busy returns the live number of stations on the medium.
func (c *Channel) Busy() int {
	return c.busy
}

// IsIdle tells if a station sensing the channel now finds it idle.
func (c *Channel) IsIdle() bool {
	if c.mode == SenseSnapshot {
		return c.sensed == 0
	}

	return c.busy == 0
}

// Collided tells if more than one station is on the medium.
func (c *Channel) Collided() bool {
	return c.busy > 1
}

// Stats returns the occupancy statistics collected so far.
func (c *Channel) Stats() ChannelStats {
	return c.stats
}

// Func takes the sensing snapshot before each tick and samples occupancy
// after each tick.
func (c *Channel) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case timing.HookPosBeforeTick:
		c.sensed = c.busy
	case timing.HookPosAfterTick:
		c.sample()
	}
}

func (c *Channel) sample() {
	c.stats.Ticks++

	switch {
	case c.busy == 0:
		c.stats.IdleTicks++
	case c.busy > 1:
		c.stats.CollisionTicks++
	}
}
