package csma

import "fmt"

// Interval lengths in bit times. Dividing by the link speed in Mbps yields
// ticks.
const (
	sensingBits = 96
	jammingBits = 48
	slotBits    = 512
)

// Timing holds the interval lengths, in ticks, derived from the link speed and
// the packet length. All arithmetic is integer division.
type Timing struct {
	LinkSpeed    int
	PacketTicks  int
	SensingTicks int
	JammingTicks int
}

// NewTiming derives the station intervals from the link speed W in Mbps and
// the packet length L in bits. Intervals that divide down to zero are raised
// to one tick.
func NewTiming(linkSpeed, packetLength int) (Timing, error) {
	if linkSpeed <= 0 {
		return Timing{}, fmt.Errorf("%w: link speed must be positive, got %d",
			ErrInvalidParameter, linkSpeed)
	}

	if packetLength <= 0 {
		return Timing{}, fmt.Errorf("%w: packet length must be positive, got %d",
			ErrInvalidParameter, packetLength)
	}

	t := Timing{
		LinkSpeed:    linkSpeed,
		PacketTicks:  atLeastOneTick(8 * packetLength / linkSpeed),
		SensingTicks: atLeastOneTick(sensingBits / linkSpeed),
		JammingTicks: atLeastOneTick(jammingBits / linkSpeed),
	}

	return t, nil
}

// BackoffTicks returns the length of a backoff of r slots.
func (t Timing) BackoffTicks(r int) int {
	return atLeastOneTick(slotBits * r / t.LinkSpeed)
}

// A countdown that starts at zero would never expire.
func atLeastOneTick(ticks int) int {
	if ticks < 1 {
		return 1
	}

	return ticks
}
