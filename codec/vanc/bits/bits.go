/*
NAME
  bits.go

DESCRIPTION
  bits.go provides a bit reader and bit writer operating on byte slices. Both
  work most-significant bit first and are used by the ancillary data codecs and
  the SMPTE-2038 container code.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bits provides MSB-first bit reading and writing over byte slices.
//
// Reads and writes are provided by separate types so that a single buffer is
// never read and written in the same session.
package bits

import (
	"fmt"
	"io"
)

// maxBits is the largest number of bits that may be read or written at once.
const maxBits = 64

// Reader is a bit reader over a byte slice.
type Reader struct {
	buf  []byte
	off  int    // Index of the next byte to load from buf.
	n    uint64 // Loaded bits not yet consumed.
	bits int    // Number of valid bits in n.
}

// NewReader returns a new Reader reading from b. NewReader panics if b is nil.
func NewReader(b []byte) *Reader {
	if b == nil {
		panic("bits: nil buffer passed to NewReader")
	}
	return &Reader{buf: b}
}

// ReadBits reads n bits from the source and returns them in the
// least-significant part of a uint64. n must be between 1 and 64.
// For example, with a source as []byte{0x8f,0xe3} (1000 1111, 1110 0011), we
// would get the following results for consecutive reads with n values:
// n = 4, res = 0x8 (1000)
// n = 2, res = 0x3 (0011)
// n = 4, res = 0xf (1111)
// n = 6, res = 0x23 (0010 0011)
// If fewer than n bits remain, io.ErrUnexpectedEOF is returned and the reader
// is left unchanged.
func (r *Reader) ReadBits(n int) (uint64, error) {
	if n < 1 || n > maxBits {
		panic(fmt.Sprintf("bits: invalid read width %d", n))
	}
	if r.Remaining() < n {
		return 0, io.ErrUnexpectedEOF
	}

	// Keep the accumulator from overflowing when pending bits plus a
	// wide read exceed 64.
	if n > 56 {
		hi, _ := r.ReadBits(n - 32)
		lo, _ := r.ReadBits(32)
		return hi<<32 | lo, nil
	}

	for n > r.bits {
		r.n = r.n<<8 | uint64(r.buf[r.off])
		r.off++
		r.bits += 8
	}

	// Shift the wanted bits into the least-significant places and mask off
	// anything above, then drop them from the accumulator.
	v := (r.n >> uint(r.bits-n)) & (1<<uint(n) - 1)
	r.bits -= n
	r.n &= 1<<uint(r.bits) - 1
	return v, nil
}

// PeekBits provides the next n bits returning them in the least-significant
// part of a uint64, without advancing through the source. The read is
// performed on a copy of the reader state.
func (r *Reader) PeekBits(n int) (uint64, error) {
	snapshot := *r
	return snapshot.ReadBits(n)
}

// ReadFlag reads a single bit and returns it as a bool.
func (r *Reader) ReadFlag() (bool, error) {
	b, err := r.ReadBits(1)
	return b == 1, err
}

// ReadBytes reads n bytes. The reader need not be byte aligned.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if r.Remaining() < n*8 {
		return nil, io.ErrUnexpectedEOF
	}
	out := make([]byte, n)
	if r.bits == 0 {
		copy(out, r.buf[r.off:r.off+n])
		r.off += n
		return out, nil
	}
	for i := range out {
		b, _ := r.ReadBits(8)
		out[i] = byte(b)
	}
	return out, nil
}

// Align discards any bits remaining in the current byte.
func (r *Reader) Align() {
	r.bits = 0
	r.n = 0
}

// ByteAligned returns true if the reader position is at the start of a byte,
// and false otherwise.
func (r *Reader) ByteAligned() bool {
	return r.bits == 0
}

// Off returns the number of bits of the current byte not yet consumed.
func (r *Reader) Off() int {
	return r.bits
}

// BytesRead returns the number of bytes that have been loaded from the source,
// including a partially consumed byte.
func (r *Reader) BytesRead() int {
	return r.off
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int {
	return (len(r.buf)-r.off)*8 + r.bits
}

// Writer is a bit writer over a byte slice. A Writer created by NewWriter has
// a fixed capacity and panics if a write would exceed it. A Writer created by
// NewGrowingWriter extends its buffer as required.
type Writer struct {
	buf  []byte
	cur  byte // Partially filled byte.
	bits int  // Number of bits written to cur.
	grow bool
}

// NewWriter returns a Writer that writes into the capacity of buf. Writing
// more than cap(buf) bytes panics. NewWriter panics if buf is nil.
func NewWriter(buf []byte) *Writer {
	if buf == nil {
		panic("bits: nil buffer passed to NewWriter")
	}
	return &Writer{buf: buf[:0]}
}

// NewGrowingWriter returns a Writer with an initial capacity of size bytes
// that grows as needed.
func NewGrowingWriter(size int) *Writer {
	return &Writer{buf: make([]byte, 0, size), grow: true}
}

// WriteBits writes the n least-significant bits of v, most-significant first.
// n must be between 1 and 64.
func (w *Writer) WriteBits(v uint64, n int) {
	if n < 1 || n > maxBits {
		panic(fmt.Sprintf("bits: invalid write width %d", n))
	}
	for i := n - 1; i >= 0; i-- {
		w.WriteBit(v>>uint(i)&1 == 1)
	}
}

// WriteBit writes a single bit.
func (w *Writer) WriteBit(b bool) {
	w.cur <<= 1
	if b {
		w.cur |= 1
	}
	w.bits++
	if w.bits == 8 {
		w.put(w.cur)
		w.cur, w.bits = 0, 0
	}
}

// WriteBytes writes the bytes of b.
func (w *Writer) WriteBytes(b []byte) {
	for _, v := range b {
		w.WriteBits(uint64(v), 8)
	}
}

// Stuff writes the bit b until the writer is byte aligned.
func (w *Writer) Stuff(b bool) {
	for w.bits != 0 {
		w.WriteBit(b)
	}
}

// Flush completes any partially written byte with zero bits.
func (w *Writer) Flush() {
	w.Stuff(false)
}

// ByteAligned returns true if no partial byte is pending.
func (w *Writer) ByteAligned() bool {
	return w.bits == 0
}

// Len returns the number of complete bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the complete bytes written. The returned slice aliases the
// writer's buffer, so it may be used to patch previously written fields.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Reset discards all written data, retaining the buffer.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.cur, w.bits = 0, 0
}

func (w *Writer) put(b byte) {
	if len(w.buf) == cap(w.buf) && !w.grow {
		panic(fmt.Sprintf("bits: write beyond buffer capacity of %d bytes", cap(w.buf)))
	}
	w.buf = append(w.buf, b)
}
