package csma

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PacketBuffer", func() {
	It("should be a FIFO", func() {
		buf := NewPacketBuffer(0)
		p1 := &Packet{ID: "1"}
		p2 := &Packet{ID: "2"}

		Expect(buf.Push(p1)).To(BeTrue())
		Expect(buf.Push(p2)).To(BeTrue())
		Expect(buf.Size()).To(Equal(2))

		Expect(buf.Peek()).To(BeIdenticalTo(p1))
		Expect(buf.Pop()).To(BeIdenticalTo(p1))
		Expect(buf.Pop()).To(BeIdenticalTo(p2))
		Expect(buf.IsEmpty()).To(BeTrue())
	})

	It("should return nil from an empty buffer", func() {
		buf := NewPacketBuffer(0)

		Expect(buf.Peek()).To(BeNil())
		Expect(buf.Pop()).To(BeNil())
	})

	It("should refuse packets beyond its capacity", func() {
		buf := NewPacketBuffer(1)

		Expect(buf.Capacity()).To(Equal(1))
		Expect(buf.Push(&Packet{})).To(BeTrue())
		Expect(buf.CanPush()).To(BeFalse())
		Expect(buf.Push(&Packet{})).To(BeFalse())
		Expect(buf.Size()).To(Equal(1))
	})

	It("should age every packet", func() {
		buf := NewPacketBuffer(0)
		p1 := &Packet{DelayTime: 3}
		p2 := &Packet{}
		buf.Push(p1)
		buf.Push(p2)

		buf.Age()

		Expect(p1.DelayTime).To(Equal(4))
		Expect(p2.DelayTime).To(Equal(1))
	})
})
