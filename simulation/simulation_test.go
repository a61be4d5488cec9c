package simulation

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/csmacd/csma"
	"github.com/sarchlab/csmacd/sim/hooking"
	"github.com/sarchlab/csmacd/sim/rng"
	"github.com/sarchlab/csmacd/sim/timing"
)

func mustRun(b Builder) *Simulation {
	s, err := b.Build()
	Expect(err).NotTo(HaveOccurred())
	Expect(s.Run()).To(Succeed())

	return s
}

var _ = Describe("Simulation", func() {
	It("should refuse to build with invalid parameters", func() {
		_, err := MakeBuilder().Build()

		Expect(err).To(MatchError(ErrInvalidParams))
	})

	It("should refuse to build with invalid max attempts", func() {
		_, err := MakeBuilder().
			WithParams(Params{1, 1, 10, 10, 1000, 1}).
			WithMaxAttempts(0).
			Build()

		Expect(err).To(MatchError(ErrInvalidParams))
	})

	It("should refuse to build with a negative buffer capacity", func() {
		_, err := MakeBuilder().
			WithParams(Params{1, 1, 10, 10, 1000, 1}).
			WithBufferCapacity(-1).
			Build()

		Expect(err).To(MatchError(ErrInvalidParams))
	})

	It("should name and order the stations", func() {
		s, err := MakeBuilder().
			WithParams(Params{1, 3, 10, 10, 1000, 1}).
			Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(s.ID()).NotTo(BeEmpty())
		Expect(s.Stations()).To(HaveLen(3))
		Expect(s.Stations()[0].Name()).To(Equal("Station[0]"))
		Expect(s.Stations()[2].Name()).To(Equal("Station[2]"))
		Expect(s.Clock().TotalTicks()).To(Equal(uint64(timing.TicksPerSecond)))
	})

	It("should only run once", func() {
		s := mustRun(MakeBuilder().WithParams(Params{1, 1, 10, 10, 1000, 1}))

		Expect(func() { _ = s.Run() }).To(Panic())
	})

	It("should deliver a lightly loaded single station", func() {
		s := mustRun(MakeBuilder().
			WithParams(Params{10, 1, 10, 10, 1000, 1}))

		r := s.Results()

		Expect(r.Throughput()).To(BeNumerically("~", 10, 4))
		Expect(r.Transmitted + 3).To(BeNumerically(">=", r.Generated))
		Expect(r.Collisions).To(BeZero())
		Expect(r.Dropped).To(BeZero())

		delay, err := r.MeanDelay()
		Expect(err).NotTo(HaveOccurred())
		Expect(delay).To(BeNumerically(">=", 0.00809))
	})

	It("should stay below the offered load with non-persistent stations", func() {
		s := mustRun(MakeBuilder().
			WithParams(Params{5, 2, 50, 10, 1000, -1}))

		r := s.Results()

		Expect(r.Throughput()).To(BeNumerically("<", 100))
		Expect(r.Transmitted).To(BeNumerically(">", 0))
		Expect(r.Transmitted).To(BeNumerically("<", r.Generated))
	})

	It("should be reproducible with the same seed", func() {
		b := MakeBuilder().
			WithParams(Params{1, 3, 40, 10, 1000, 0.5}).
			WithSeed(42)

		first := mustRun(b)
		second := mustRun(b)

		Expect(second.Results()).To(Equal(first.Results()))

		for i, st := range first.Stations() {
			Expect(second.Stations()[i].Stats()).To(Equal(st.Stats()))
		}
	})

	It("should give forked builders their own hooks", func() {
		base := MakeBuilder().
			WithParams(Params{1, 1, 20, 10, 1000, 1})
		for i := 0; i < 3; i++ {
			base = base.
				WithStationHook(hooking.NewPosCountTracer(hooking.AllPositions)).
				WithClockHook(hooking.NewPosCountTracer(hooking.AllPositions))
		}

		hx := hooking.NewPosCountTracer(hooking.AllPositions)
		hy := hooking.NewPosCountTracer(hooking.AllPositions)
		x := base.WithStationHook(hx).WithClockHook(hx)
		y := base.WithStationHook(hy).WithClockHook(hy)

		sx, err := x.Build()
		Expect(err).NotTo(HaveOccurred())
		sy, err := y.Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(sx.Stations()[0].Hooks()[3]).To(BeIdenticalTo(hx))
		Expect(sy.Stations()[0].Hooks()[3]).To(BeIdenticalTo(hy))
		Expect(sx.Clock().Hooks()[4]).To(BeIdenticalTo(hx))
		Expect(sy.Clock().Hooks()[4]).To(BeIdenticalTo(hy))
	})

	It("should account for every generated packet", func() {
		s := mustRun(MakeBuilder().
			WithParams(Params{1, 4, 60, 10, 1000, 1}).
			WithSensingMode(csma.SenseSnapshot).
			WithBufferCapacity(5).
			WithMaxAttempts(3))

		r := s.Results()

		Expect(r.Generated).To(Equal(
			r.Transmitted + r.Dropped + r.Overflowed + r.Queued))
	})

	It("should keep the channel counter between zero and the station count",
		func() {
			n := 5
			var s *Simulation

			check := hooking.HookFunc(func(hooking.HookCtx) {
				Expect(s.Channel().Busy()).To(BeNumerically(">=", 0))
				Expect(s.Channel().Busy()).To(BeNumerically("<=", n))
			})

			var err error
			s, err = MakeBuilder().
				WithParams(Params{1, n, 100, 10, 1000, 1}).
				WithSensingMode(csma.SenseSnapshot).
				WithStationHook(check).
				WithClockHook(check).
				Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Run()).To(Succeed())
		})

	It("should never collide with a single station", func() {
		s := mustRun(MakeBuilder().
			WithParams(Params{2, 1, 200, 10, 1000, 1}).
			WithSensingMode(csma.SenseSnapshot))

		r := s.Results()

		Expect(r.Collisions).To(BeZero())
		Expect(r.Channel.PeakBusy).To(BeNumerically("<=", 1))
	})

	It("should let one station at a time on the medium when sensing in place",
		func() {
			s := mustRun(MakeBuilder().
				WithParams(Params{1, 5, 100, 10, 1000, 1}))

			r := s.Results()

			Expect(r.Collisions).To(BeZero())
			Expect(r.Channel.PeakBusy).To(Equal(1))
		})

	Context("when stations sense a snapshot of the channel", func() {
		It("should collide, jam and back off under load", func() {
			tracer := hooking.NewPosCountTracer(nil)

			s := mustRun(MakeBuilder().
				WithParams(Params{1, 5, 100, 10, 1000, 1}).
				WithSensingMode(csma.SenseSnapshot).
				WithStationHook(tracer))

			r := s.Results()

			Expect(r.Collisions).To(BeNumerically(">", 0))
			Expect(r.Channel.PeakBusy).To(BeNumerically(">=", 2))
			Expect(r.Channel.CollisionTicks).To(BeNumerically(">", 0))
			Expect(r.PeakAttempts).To(BeNumerically("<=", csma.DefaultMaxAttempts))
			Expect(tracer.Count(csma.HookPosCollision.Name)).
				To(Equal(r.Collisions))
			Expect(tracer.Count(csma.HookPosTransmitDone.Name)).
				To(Equal(r.Transmitted))
		})

		It("should drop packets that run out of attempts", func() {
			s := mustRun(MakeBuilder().
				WithParams(Params{1, 5, 100, 10, 1000, 1}).
				WithSensingMode(csma.SenseSnapshot).
				WithMaxAttempts(1))

			r := s.Results()

			Expect(r.Dropped).To(BeNumerically(">", 0))
			Expect(r.PeakAttempts).To(Equal(1))
		})
	})

	It("should generate more packets at a higher arrival rate", func() {
		for seed := uint64(1); seed <= 5; seed++ {
			low := mustRun(MakeBuilder().
				WithParams(Params{1, 2, 20, 10, 1000, 1}).
				WithSeed(seed)).Results()
			high := mustRun(MakeBuilder().
				WithParams(Params{1, 2, 80, 10, 1000, 1}).
				WithSeed(seed)).Results()

			Expect(high.Generated).To(BeNumerically(">", low.Generated))
		}
	})

	It("should derive a stream per station from the seed", func() {
		p := Params{1, 2, 20, 10, 1000, 1}

		byDefault := mustRun(MakeBuilder().WithParams(p).WithSeed(7))
		explicit := mustRun(MakeBuilder().
			WithParams(p).
			WithRandomSources(rng.StreamFactory(7)))

		Expect(explicit.Results()).To(Equal(byDefault.Results()))
		Expect(byDefault.Results().Generated).To(BeNumerically(">", 0))
	})

	It("should run with one shared stream", func() {
		b := MakeBuilder().
			WithParams(Params{1, 2, 20, 10, 1000, 1}).
			WithSeed(7).
			WithSharedRandomSource()

		first := mustRun(b)
		second := mustRun(b)

		Expect(first.Results().Generated).To(BeNumerically(">", 0))
		Expect(second.Results()).To(Equal(first.Results()))
	})
})
