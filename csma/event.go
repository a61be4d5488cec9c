package csma

import (
	"log"

	"github.com/sarchlab/csmacd/sim/hooking"
)

// Hook positions triggered by a station. The hook item is an Event.
var (
	HookPosArrival       = &hooking.HookPos{Name: "Arrival"}
	HookPosOverflow      = &hooking.HookPos{Name: "Overflow"}
	HookPosTransmitStart = &hooking.HookPos{Name: "TransmitStart"}
	HookPosTransmitDone  = &hooking.HookPos{Name: "TransmitDone"}
	HookPosCollision     = &hooking.HookPos{Name: "Collision"}
	HookPosBackoff       = &hooking.HookPos{Name: "Backoff"}
	HookPosDrop          = &hooking.HookPos{Name: "Drop"}
	HookPosDefer         = &hooking.HookPos{Name: "Defer"}
)

// Event describes what happened to a station at a tick.
type Event struct {
	Tick    uint64
	Station string
	State   State
	Packet  *Packet
	Busy    int
}

// EventLogger is a hook that prints one line per station event.
type EventLogger struct {
	hooking.LogHookBase
}

// NewEventLogger returns a new EventLogger which writes into the logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	h := new(EventLogger)

	h.Logger = logger

	return h
}

// Func writes the event into the logger.
func (h *EventLogger) Func(ctx hooking.HookCtx) {
	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	if evt.Packet == nil {
		h.Printf("%d, %s, %s, state=%s, busy=%d",
			evt.Tick, evt.Station, ctx.Pos.Name, evt.State, evt.Busy)
		return
	}

	h.Printf("%d, %s, %s, state=%s, busy=%d, pkt=%s, attempts=%d, delay=%d",
		evt.Tick, evt.Station, ctx.Pos.Name, evt.State, evt.Busy,
		evt.Packet.ID, evt.Packet.Attempts, evt.Packet.DelayTime)
}
