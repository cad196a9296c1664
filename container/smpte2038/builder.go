/*
NAME
  builder.go

DESCRIPTION
  builder.go provides a Builder that accumulates ancillary packets into an
  SMPTE 2038 PES packet, completing the PES header once the content is known.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package smpte2038

import (
	"fmt"

	"github.com/ausocean/vanc/codec/vanc"
	"github.com/ausocean/vanc/codec/vanc/bits"
	"github.com/ausocean/vanc/container/mts"
	"github.com/ausocean/vanc/container/mts/pes"
)

// Initial capacity of a builder's buffer.
const initialSize = 1024

// Builder builds SMPTE 2038 containers. A container is built by calling Begin,
// Append for each ancillary packet, then End.
type Builder struct {
	w       *bits.Writer
	begun   bool
	entries int
}

// NewBuilder returns a new Builder.
func NewBuilder() *Builder {
	return &Builder{w: bits.NewGrowingWriter(initialSize)}
}

// Begin discards any partially built container and reserves space for the
// PES header.
func (b *Builder) Begin() {
	b.w.Reset()
	for i := 0; i < HeaderSize; i++ {
		b.w.WriteBits(0, 8)
	}
	b.begun = true
	b.entries = 0
}

// Append adds the ancillary packet h to the container. The entry's line
// number and horizontal offset are taken from h. The checksum word carried by
// h is written as is, unless h has none, in which case it is computed.
func (b *Builder) Append(h *vanc.Header) error {
	if !b.begun {
		return ErrNotBegun
	}
	if h.Line < 0 || h.Line > MaxLine {
		return fmt.Errorf("line %d: %w", h.Line, ErrFieldRange)
	}
	if h.Offset < 0 || h.Offset > MaxOffset {
		return fmt.Errorf("offset %d: %w", h.Offset, ErrFieldRange)
	}
	if len(h.Payload) > vanc.MaxDataCount {
		return vanc.ErrDataTooLong
	}

	b.w.WriteBits(0, reservedBits)
	b.w.WriteBit(false) // c_not_y_channel_flag
	b.w.WriteBits(uint64(h.Line), lineBits)
	b.w.WriteBits(uint64(h.Offset), offsetBits)
	words := h.Words()[vanc.ADFWords:]
	sum := words[len(words)-1]
	// A carried checksum is kept so that a bad one stays visible downstream.
	if h.Checksum != 0 || !h.ChecksumOK {
		sum = h.Checksum & 0x3ff
	}
	for _, word := range words[:len(words)-1] {
		b.w.WriteBits(uint64(word), wordBits)
	}
	b.w.WriteBits(uint64(sum), wordBits)
	b.w.Stuff(true)
	b.entries++
	return nil
}

// Len returns the number of entries appended since Begin.
func (b *Builder) Len() int { return b.entries }

// End completes the PES header with the given presentation timestamp and
// returns the container. The returned slice is valid until the next call to
// Begin.
func (b *Builder) End(pts uint64) ([]byte, error) {
	if !b.begun {
		return nil, ErrNotBegun
	}
	buf := b.w.Bytes()
	if len(buf) > MaxContainerSize {
		return nil, fmt.Errorf("%d bytes: %w", len(buf), ErrTooLarge)
	}

	hdr := pes.Packet{
		StreamID:     StreamID,
		DAI:          true,
		PDI:          pes.PTSOnly,
		PTS:          pts & mts.MaxPTS,
		HeaderLength: pes.PTSSize,
	}
	hdr.Bytes(buf[:0:HeaderSize])
	pes.SetLength(buf)
	b.begun = false
	return buf, nil
}
