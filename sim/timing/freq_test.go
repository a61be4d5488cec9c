package timing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	It("should get period", func() {
		var f = 1 * GHz
		Expect(f.Period()).To(BeNumerically("==", 1e-9))
	})

	It("should panic on a zero frequency", func() {
		var f Freq
		Expect(func() { f.Period() }).To(Panic())
	})

	It("should convert seconds to ticks", func() {
		Expect(TicksPerSecond.Cycle(1)).To(Equal(uint64(100000)))
		Expect(TicksPerSecond.Cycle(10)).To(Equal(uint64(1000000)))
		Expect(TicksPerSecond.Cycle(0.000015)).To(Equal(uint64(2)))
	})

	It("should convert ticks to seconds", func() {
		Expect(TicksPerSecond.Seconds(250000)).To(BeNumerically("~", 2.5, 1e-12))
	})

	It("should reject negative time", func() {
		Expect(func() { TicksPerSecond.Cycle(-1) }).To(Panic())
	})
})
