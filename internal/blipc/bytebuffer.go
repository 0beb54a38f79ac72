package blipc

import "encoding/binary"

// ByteBuffer is an append-only growable byte sequence. All multi-byte writes
// are little-endian regardless of host, matching the wire format the linker
// and the (external) executor both depend on.
//
// The teacher's rom.ROMBuilder accumulates fixed-width uint16 words; this
// buffer accumulates raw bytes of varying operand widths, since the bytecode
// format mixes u8/i16/i32 operands behind a single opcode byte.
type ByteBuffer struct {
	data []byte
}

// NewByteBuffer returns an empty buffer with capacity reserved up front.
func NewByteBuffer(capacityHint int) *ByteBuffer {
	return &ByteBuffer{data: make([]byte, 0, capacityHint)}
}

// WriteByte appends a single byte.
func (b *ByteBuffer) WriteByte(v byte) {
	b.data = append(b.data, v)
}

// WriteInt16 appends v as a little-endian 16-bit value.
func (b *ByteBuffer) WriteInt16(v int16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], uint16(v))
	b.data = append(b.data, buf[:]...)
}

// WriteInt32 appends v as a little-endian 32-bit value.
func (b *ByteBuffer) WriteInt32(v int32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	b.data = append(b.data, buf[:]...)
}

// WriteBytes appends raw bytes verbatim.
func (b *ByteBuffer) WriteBytes(p []byte) {
	b.data = append(b.data, p...)
}

// Append concatenates other onto b, in order.
func (b *ByteBuffer) Append(other *ByteBuffer) {
	b.data = append(b.data, other.data...)
}

// Size returns the number of bytes currently held.
func (b *ByteBuffer) Size() int {
	return len(b.data)
}

// Bytes returns a contiguous read view over the whole buffer. The linker
// walks this directly; callers must not mutate the returned slice, and the
// linker's in-place rewrites go through RewriteByteAt/RewriteInt32At.
func (b *ByteBuffer) Bytes() []byte {
	return b.data
}

// Clear empties the buffer. When keepCapacity is true the underlying array is
// retained for reuse (matching BKByteBufferOptionReuseStorage, used when a
// group slot is overwritten by a later `grp <same-index>` declaration);
// otherwise the backing array is released.
func (b *ByteBuffer) Clear(keepCapacity bool) {
	if keepCapacity {
		b.data = b.data[:0]
		return
	}
	b.data = nil
}

// RewriteByteAt overwrites the opcode byte at offset — used by the linker to
// turn a GroupJump into a Call in place.
func (b *ByteBuffer) RewriteByteAt(offset int, v byte) {
	b.data[offset] = v
}

// RewriteInt32At overwrites the 4-byte little-endian operand at offset —
// used by the linker to replace a group number with an absolute code offset.
func (b *ByteBuffer) RewriteInt32At(offset int, v int32) {
	binary.LittleEndian.PutUint32(b.data[offset:offset+4], uint32(v))
}

// ReadInt32At reads a little-endian 4-byte operand at offset, used by the
// linker to inspect a GroupJump's immediate operand.
func (b *ByteBuffer) ReadInt32At(offset int) int32 {
	return int32(binary.LittleEndian.Uint32(b.data[offset : offset+4]))
}
