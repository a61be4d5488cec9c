package csma

import "fmt"

// Policy decides what a sensing station does with what it senses.
type Policy interface {
	// Name returns a short name of the policy.
	Name() string

	// OnChannelBusy is called when the station senses a busy channel.
	OnChannelBusy(s *Station)

	// OnChannelIdle is called when the station has sensed an idle channel
	// for the full sensing interval, or senses an idle channel after having
	// deferred.
	OnChannelIdle(s *Station)
}

// OnePersistent keeps sensing a busy channel and sends as soon as it is idle.
type OnePersistent struct{}

// Name returns "1-persistent".
func (OnePersistent) Name() string {
	return "1-persistent"
}

// OnChannelBusy keeps the station sensing.
func (OnePersistent) OnChannelBusy(*Station) {}

// OnChannelIdle starts sending.
func (OnePersistent) OnChannelIdle(s *Station) {
	s.startTransmission()
}

// NonPersistent gives up on a busy channel and senses again after a random
// wait.
type NonPersistent struct{}

// Name returns "non-persistent".
func (NonPersistent) Name() string {
	return "non-persistent"
}

// OnChannelBusy makes the station wait a random backoff.
func (NonPersistent) OnChannelBusy(s *Station) {
	s.waitRandomBackoff()
}

// OnChannelIdle starts sending.
func (NonPersistent) OnChannelIdle(s *Station) {
	s.startTransmission()
}

// PPersistent sends on an idle channel with probability P and otherwise
// defers to the next tick.
type PPersistent struct {
	P float64
}

// Name returns "p-persistent(P)".
func (p PPersistent) Name() string {
	return fmt.Sprintf("p-persistent(%g)", p.P)
}

// OnChannelBusy makes the station wait a random backoff.
func (p PPersistent) OnChannelBusy(s *Station) {
	s.waitRandomBackoff()
}

// OnChannelIdle flips the p-coin.
func (p PPersistent) OnChannelIdle(s *Station) {
	if s.rng.Float64() < p.P {
		s.startTransmission()
		return
	}

	s.deferOneTick()
}

// PolicyFromParameter selects the policy encoded by P: 1 selects
// OnePersistent, -1 selects NonPersistent, and a value strictly between 0 and
// 1 selects PPersistent with that probability.
func PolicyFromParameter(p float64) (Policy, error) {
	switch {
	case p == 1:
		return OnePersistent{}, nil
	case p == -1:
		return NonPersistent{}, nil
	case p > 0 && p < 1:
		return PPersistent{P: p}, nil
	default:
		return nil, fmt.Errorf(
			"%w: persistence must be 1, -1, or in (0, 1), got %v",
			ErrInvalidParameter, p)
	}
}
