/*
NAME
  read.go

DESCRIPTION
  read.go provides a field reader with a sticky error, so a sequence of
  fields may be read with a single error check at the end.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package scte104

import (
	"github.com/ausocean/vanc/codec/vanc/bits"
)

// fieldReader reads big-endian fields from a bits.Reader. Once a read fails
// all further reads return zero and the first error is kept in e.
type fieldReader struct {
	e  error
	br *bits.Reader
}

func newFieldReader(b []byte) *fieldReader {
	return &fieldReader{br: bits.NewReader(b)}
}

func (r *fieldReader) readBits(n int) uint64 {
	if r.e != nil {
		return 0
	}
	var b uint64
	b, r.e = r.br.ReadBits(n)
	return b
}

func (r *fieldReader) u8() byte    { return byte(r.readBits(8)) }
func (r *fieldReader) u16() uint16 { return uint16(r.readBits(16)) }
func (r *fieldReader) u32() uint32 { return uint32(r.readBits(32)) }

func (r *fieldReader) bytes(n int) []byte {
	if r.e != nil {
		return nil
	}
	if n > r.remaining() {
		r.e = ErrLengthExceedsBuffer
		return nil
	}
	var b []byte
	b, r.e = r.br.ReadBytes(n)
	return b
}

func (r *fieldReader) remaining() int { return r.br.Remaining() / 8 }

func (r *fieldReader) err() error { return r.e }

// fieldWriter writes big-endian fields to a growing bits.Writer.
type fieldWriter struct {
	bw *bits.Writer
}

func newFieldWriter() *fieldWriter {
	return &fieldWriter{bw: bits.NewGrowingWriter(64)}
}

func (w *fieldWriter) u8(v byte)      { w.bw.WriteBits(uint64(v), 8) }
func (w *fieldWriter) u16(v uint16)   { w.bw.WriteBits(uint64(v), 16) }
func (w *fieldWriter) u32(v uint32)   { w.bw.WriteBits(uint64(v), 32) }
func (w *fieldWriter) bytes(b []byte) { w.bw.WriteBytes(b) }
func (w *fieldWriter) len() int       { return w.bw.Len() }

// patch16 overwrites the 16-bit field at byte offset off.
func (w *fieldWriter) patch16(off int, v uint16) {
	b := w.bw.Bytes()
	b[off], b[off+1] = byte(v>>8), byte(v)
}

func (w *fieldWriter) result() []byte { return w.bw.Bytes() }
