// Package timing drives the simulated clock. Time advances in fixed ticks and
// every registered Ticker is updated once per tick.
package timing

import (
	"log"
	"math"
)

// VTimeInSec defines the time in the simulated space in the unit of second
type VTimeInSec = float64

// Freq defines the type of frequency
type Freq float64

// Defines the unit of frequency
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

// TicksPerSecond is the resolution of the simulated clock. One tick lasts
// 10 microseconds of simulated time.
const TicksPerSecond = 100 * KHz

// Period returns the time between two consecutive ticks
func (f Freq) Period() VTimeInSec {
	if f == 0 {
		log.Panic("frequency cannot be 0")
	}

	return VTimeInSec(1.0 / f)
}

// Cycle converts a time to the number of cycles passed since time 0.
func (f Freq) Cycle(time VTimeInSec) uint64 {
	if math.IsNaN(time) || time < 0 {
		log.Panic("invalid time")
	}

	return uint64(math.Round(time * float64(f)))
}

// Seconds converts a number of cycles to simulated time.
func (f Freq) Seconds(cycles uint64) VTimeInSec {
	return VTimeInSec(cycles) * f.Period()
}
