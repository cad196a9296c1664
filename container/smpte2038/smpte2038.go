/*
NAME
  smpte2038.go

DESCRIPTION
  smpte2038.go provides the types and constants shared by the SMPTE ST 2038
  builder, parser, extractor and demuxer.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package smpte2038 provides carriage of ancillary data packets in MPEG-2
// transport streams as described by SMPTE ST 2038. Packets are encapsulated
// in private_stream_1 PES packets, one entry per ancillary packet.
package smpte2038

import (
	"errors"

	"github.com/ausocean/vanc/codec/vanc"
	"github.com/ausocean/vanc/container/mts/pes"
)

// Container layout constants.
const (
	// HeaderSize is the size of the PES header preceding the entries: the
	// fixed header and a PTS.
	HeaderSize = pes.FixedHeaderSize + pes.PTSSize

	// StreamID is the PES stream ID of an SMPTE 2038 container.
	StreamID = pes.PrivateStream1SID

	// MaxContainerSize is the largest container, limited by the 16 bit PES
	// packet length field.
	MaxContainerSize = pes.LengthOffset + 2 + 0xffff

	// MaxLine and MaxOffset are the largest line number and horizontal offset
	// an entry can carry.
	MaxLine   = 1<<11 - 1
	MaxOffset = 1<<12 - 1
)

// Field widths of an entry in bits.
const (
	reservedBits = 6
	lineBits     = 11
	offsetBits   = 12
	wordBits     = 10
)

// stuffing is the value of the reserved field position when only stuffing
// remains.
const stuffing = 1<<reservedBits - 1

// startCode is the packet start code prefix and stream ID beginning every
// container.
var startCode = [4]byte{0x00, 0x00, 0x01, StreamID}

var (
	ErrFieldRange     = errors.New("field value out of range")
	ErrTooLarge       = errors.New("container exceeds maximum size")
	ErrNotBegun       = errors.New("append before begin")
	ErrStreamID       = errors.New("not a private_stream_1 PES packet")
	ErrNoPTS          = errors.New("PES packet has no PTS")
	ErrReservedBits   = errors.New("reserved bits not zero")
	ErrTruncatedEntry = errors.New("truncated ancillary entry")
)

// Entry is an ancillary packet as carried in a container. DID, SDID,
// DataCount, Words and Checksum hold the 10-bit words with their parity bits.
type Entry struct {
	CNotY     bool // Chroma channel flag.
	Line      int
	Offset    int
	DID       uint16
	SDID      uint16
	DataCount uint16
	Words     []uint16
	Checksum  uint16
}

// Header returns the ancillary packet described by e. ChecksumOK reports
// whether the carried checksum matches the entry's words.
func (e *Entry) Header() *vanc.Header {
	h := &vanc.Header{
		DID:      byte(e.DID),
		SDID:     byte(e.SDID),
		Payload:  make([]uint16, len(e.Words)),
		Checksum: e.Checksum & 0x3ff,
		Line:     e.Line,
		Offset:   e.Offset,
	}
	for i, w := range e.Words {
		h.Payload[i] = w & 0x1ff
	}
	h.Type = vanc.Lookup(h.DID, h.SDID)

	words := make([]uint16, 0, len(e.Words)+4)
	words = append(words, e.DID, e.SDID, e.DataCount)
	words = append(words, e.Words...)
	words = append(words, e.Checksum)
	h.ChecksumOK = vanc.ValidChecksum(words)
	return h
}

// Container is a parsed SMPTE 2038 PES packet.
type Container struct {
	PTS     uint64
	Entries []Entry
}

// Headers returns the ancillary packets of c.
func (c *Container) Headers() []*vanc.Header {
	hdrs := make([]*vanc.Header, len(c.Entries))
	for i := range c.Entries {
		hdrs[i] = c.Entries[i].Header()
	}
	return hdrs
}
