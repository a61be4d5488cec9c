package csma

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/csmacd/sim/hooking"
)

var _ = Describe("EventLogger", func() {
	var (
		buf    *bytes.Buffer
		logger *EventLogger
	)

	BeforeEach(func() {
		buf = new(bytes.Buffer)
		logger = NewEventLogger(log.New(buf, "", 0))
	})

	It("should log packet events", func() {
		logger.Func(hooking.HookCtx{
			Pos: HookPosTransmitDone,
			Item: Event{
				Tick:    42,
				Station: "Station[1]",
				State:   StateIdle,
				Packet:  &Packet{ID: "Station[1].Pkt[3]", DelayTime: 17},
			},
		})

		Expect(buf.String()).To(Equal(
			"42, Station[1], TransmitDone, state=Idle, busy=0, " +
				"pkt=Station[1].Pkt[3], attempts=0, delay=17\n"))
	})

	It("should log events without a packet", func() {
		logger.Func(hooking.HookCtx{
			Pos:  HookPosDefer,
			Item: Event{Tick: 1, Station: "S", State: StateDeferred, Busy: 1},
		})

		Expect(buf.String()).To(Equal("1, S, Defer, state=Deferred, busy=1\n"))
	})

	It("should ignore unrelated items", func() {
		logger.Func(hooking.HookCtx{Pos: HookPosDefer, Item: 3})

		Expect(buf.Len()).To(BeZero())
	})
})
