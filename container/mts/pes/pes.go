/*
NAME
  pes.go

DESCRIPTION
  pes.go provides encoding of packetized elementary stream (PES) packet
  headers for private data streams.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pes provides encoding of PES packets.
package pes

import (
	gots "github.com/Comcast/gots/v2"
)

// Sizes of the fixed portions of a PES packet.
const (
	// FixedHeaderSize is the size of the start code, stream ID, packet
	// length and the two flag bytes plus the header length byte.
	FixedHeaderSize = 9

	// PTSSize is the size of an encoded PTS.
	PTSSize = 5

	// LengthOffset is the offset of the PES packet length field.
	LengthOffset = 4
)

// PTS DTS indicator values.
const (
	NoPTS   = 0
	PTSOnly = 2
)

// TODO: add DSMTM, ACI, CRC, Ext fields
type Packet struct {
	StreamID     byte   // Type of stream
	Length       uint16 // Pes packet length in bytes after this field
	SC           byte   // Scrambling control
	Priority     bool   // Priority Indicator
	DAI          bool   // Data alignment indicator
	Copyright    bool   // Copyright indicator
	Original     bool   // Original data indicator
	PDI          byte   // PTS DTS indicator
	ESCRF        bool   // Elementary stream clock reference flag
	ESRF         bool   // Elementary stream rate reference flag
	DSMTMF       bool   // Dsm trick mode flag
	ACIF         bool   // Additional copy info flag
	CRCF         bool   // Previous PES CRC flag
	EF           bool   // Extension flag
	HeaderLength byte   // Pes header length
	PTS          uint64 // Presentation time stamp
	Stuff        []byte // Stuffing bytes
	Data         []byte // Pes packet data
}

// Bytes appends the encoded packet to buf[:0], allocating when buf is nil or
// has insufficient capacity.
func (p *Packet) Bytes(buf []byte) []byte {
	n := FixedHeaderSize + PTSSize + len(p.Stuff) + len(p.Data)
	if cap(buf) < n {
		buf = make([]byte, 0, n)
	}
	buf = buf[:0]
	buf = append(buf,
		0x00, 0x00, 0x01,
		p.StreamID,
		byte(p.Length>>8),
		byte(p.Length),
		(0x2<<6 | p.SC<<4 | boolByte(p.Priority)<<3 | boolByte(p.DAI)<<2 |
			boolByte(p.Copyright)<<1 | boolByte(p.Original)),
		(p.PDI<<6 | boolByte(p.ESCRF)<<5 | boolByte(p.ESRF)<<4 | boolByte(p.DSMTMF)<<3 |
			boolByte(p.ACIF)<<2 | boolByte(p.CRCF)<<1 | boolByte(p.EF)),
		p.HeaderLength,
	)

	if p.PDI == PTSOnly {
		ptsIdx := len(buf)
		buf = buf[:ptsIdx+PTSSize]
		gots.InsertPTS(buf[ptsIdx:], p.PTS)
	}
	buf = append(buf, p.Stuff...)
	return append(buf, p.Data...)
}

// SetLength writes the PES packet length implied by the length of the
// encoded packet b into b.
func SetLength(b []byte) {
	l := len(b) - LengthOffset - 2
	b[LengthOffset] = byte(l >> 8)
	b[LengthOffset+1] = byte(l)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
