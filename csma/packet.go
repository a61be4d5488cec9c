package csma

// A Packet is a frame waiting in, or being sent from, a station buffer.
type Packet struct {
	ID          string
	ArrivalTick uint64

	// Attempts counts the backoffs taken after collisions.
	Attempts int

	// RemainingServiceTime is the number of ticks left to send the packet. It
	// is only meaningful while the packet is being sent or jammed.
	RemainingServiceTime int

	// DelayTime counts the ticks the packet has spent in the station.
	DelayTime int
}

// PacketBuffer is a FIFO queue of packets. Only the head packet is active.
type PacketBuffer struct {
	capacity int
	packets  []*Packet
}

// NewPacketBuffer creates a buffer that holds at most capacity packets. A
// capacity of 0 means the buffer is unbounded.
func NewPacketBuffer(capacity int) *PacketBuffer {
	return &PacketBuffer{capacity: capacity}
}

// Capacity returns the capacity of the buffer, 0 if unbounded.
func (b *PacketBuffer) Capacity() int {
	return b.capacity
}

// CanPush tells if there is room for one more packet.
func (b *PacketBuffer) CanPush() bool {
	return b.capacity == 0 || len(b.packets) < b.capacity
}

// Push appends a packet. It returns false if the buffer is full.
func (b *PacketBuffer) Push(p *Packet) bool {
	if !b.CanPush() {
		return false
	}

	b.packets = append(b.packets, p)

	return true
}

// Peek returns the head packet, or nil if the buffer is empty.
func (b *PacketBuffer) Peek() *Packet {
	if len(b.packets) == 0 {
		return nil
	}

	return b.packets[0]
}

// Pop removes and returns the head packet, or nil if the buffer is empty.
func (b *PacketBuffer) Pop() *Packet {
	if len(b.packets) == 0 {
		return nil
	}

	p := b.packets[0]
	b.packets[0] = nil
	b.packets = b.packets[1:]

	return p
}

// Size returns the number of packets buffered.
func (b *PacketBuffer) Size() int {
	return len(b.packets)
}

// IsEmpty tells if the buffer holds no packet.
func (b *PacketBuffer) IsEmpty() bool {
	return len(b.packets) == 0
}

// Age adds one tick of delay to every buffered packet.
func (b *PacketBuffer) Age() {
	for _, p := range b.packets {
		p.DelayTime++
	}
}
