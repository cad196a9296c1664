/*
NAME
  mpegts.go - provides a data structure intended to encapsulate the properties
  of an MPEG-TS packet and also functions to allow manipulation of these packets.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mts provides MPEG-TS (mts) encoding of PES packets and related
// functions.
package mts

import (
	gotspsi "github.com/Comcast/gots/v2/psi"
	"github.com/pkg/errors"
)

const PacketSize = 188

// Standard program IDs for program specific information MPEG-TS packets.
const (
	PatPid = 0
	PmtPid = 4096
)

// HeadSize is the size of an MPEG-TS packet header.
const HeadSize = 4

// Adaptation field control values.
const (
	HasPayload         = 0x1
	HasAdaptationField = 0x2
)

/*
Packet encapsulates the fields of an MPEG-TS packet carrying payload only.
Below is the formatting of such a packet for reference!

============================================================================
| octet no | bit 0 | bit 1 | bit 2 | bit 3 | bit 4 | bit 5 | bit 6 | bit 7 |
============================================================================
| octet 0  | sync byte (0x47)                                              |
----------------------------------------------------------------------------
| octet 1  | TEI   | PUSI  | Prior | PID                                   |
----------------------------------------------------------------------------
| octet 2  | PID cont.                                                     |
----------------------------------------------------------------------------
| octet 3  | TSC           | AFC (01)      | CC                            |
----------------------------------------------------------------------------
| octet 4  | Payload (variable length)                                     |
----------------------------------------------------------------------------
| -        | Filler (0xff)                                                 |
----------------------------------------------------------------------------
*/
type Packet struct {
	TEI      bool   // Transport Error Indicator
	PUSI     bool   // Payload Unit Start Indicator
	Priority bool   // Transport priority indicator
	PID      uint16 // Packet identifier
	TSC      byte   // Transport Scrambling Control
	CC       byte   // Continuity Counter
	Payload  []byte // Mpeg ts Payload
}

// MaxPayloadSize is the payload capacity of a packet without an adaptation
// field.
const MaxPayloadSize = PacketSize - HeadSize

// FillPayload fills the packet's Payload field from data until the packet
// reaches capacity, and returns the number of bytes used.
func (p *Packet) FillPayload(data []byte) int {
	n := MaxPayloadSize
	if len(data) < n {
		n = len(data)
	}
	p.Payload = make([]byte, n)
	return copy(p.Payload, data)
}

// Bytes interprets the fields of the ts packet instance and outputs a
// corresponding byte slice. Space after the payload is filled with 0xff.
// Bytes panics if the payload exceeds MaxPayloadSize.
func (p *Packet) Bytes(buf []byte) []byte {
	if len(p.Payload) > MaxPayloadSize {
		panic("payload exceeds packet capacity")
	}
	if buf == nil || cap(buf) < PacketSize {
		buf = make([]byte, PacketSize)
	}

	buf = buf[:HeadSize]
	buf[0] = 0x47
	buf[1] = (asByte(p.TEI)<<7 | asByte(p.PUSI)<<6 | asByte(p.Priority)<<5 | byte((p.PID&0x1f00)>>8))
	buf[2] = byte(p.PID & 0x00ff)
	buf[3] = (p.TSC<<6 | HasPayload<<4 | p.CC&0xf)

	buf = append(buf, p.Payload...)
	for len(buf) < PacketSize {
		buf = append(buf, 0xff)
	}
	return buf
}

func asByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// ErrInvalidLen is returned for MPEG-TS data shorter than a packet.
var ErrInvalidLen = errors.New("MPEG-TS data not of valid length")

var (
	errNoPesPayload     = errors.New("no PES payload")
	errNoPesPTS         = errors.New("no PES PTS")
	errInvalidPesHeader = errors.New("invalid PES header")
)

// GetPTS returns a PTS from a packet that has PES payload, or an error otherwise.
func GetPTS(pkt []byte) (pts int64, err error) {
	if len(pkt) < PacketSize {
		return 0, ErrInvalidLen
	}

	// Check the Payload Unit Start Indicator.
	if pkt[1]&0x040 == 0 {
		err = errNoPesPayload
		return
	}

	pes, err := Payload(pkt)
	if err != nil {
		return 0, err
	}
	if len(pes) < 14 {
		err = errInvalidPesHeader
		return
	}

	// Check the PTS DTS indicator.
	if pes[7]&0xc0 == 0 {
		err = errNoPesPTS
		return
	}

	pts = extractPTS(pes[9:14])
	return
}

// extractPTS extracts a PTS from the given data.
func extractPTS(d []byte) int64 {
	return (int64((d[0]>>1)&0x07) << 30) | (int64(d[1]) << 22) | (int64((d[2]>>1)&0x7f) << 15) | (int64(d[3]) << 7) | int64((d[4]>>1)&0x7f)
}

// PID returns the packet identifier for the given packet.
func PID(p []byte) (uint16, error) {
	if len(p) < PacketSize {
		return 0, errors.New("packet length less than 188")
	}
	return uint16(p[1]&0x1f)<<8 | uint16(p[2]), nil
}

// Programs returns a map of program numbers and corresponding PMT PIDs for a
// given MPEG-TS PAT packet.
func Programs(p []byte) (map[uint16]uint16, error) {
	payload, err := Payload(p)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get packet payload")
	}
	pat, err := gotspsi.NewPAT(payload)
	if err != nil {
		return nil, err
	}
	// Convert to map[uint16]uint16.
	m := make(map[uint16]uint16)
	for k, v := range pat.ProgramMap() {
		m[uint16(k)] = uint16(v)
	}
	return m, nil
}

// Streams returns elementary streams defined in a given MPEG-TS PMT packet.
func Streams(p []byte) ([]gotspsi.PmtElementaryStream, error) {
	payload, err := Payload(p)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get packet payload")
	}
	pmt, err := gotspsi.NewPMT(payload)
	if err != nil {
		return nil, err
	}
	return pmt.ElementaryStreams(), nil
}

// Errors used by Payload.
var ErrNoPayload = errors.New("no payload")

// Payload returns the payload of an MPEG-TS packet p.
// NB: this is not a copy of the payload in the interests of performance.
func Payload(p []byte) ([]byte, error) {
	if len(p) < PacketSize {
		return nil, ErrInvalidLen
	}
	afc := (p[3] & 0x30) >> 4
	if afc&HasPayload == 0 {
		return nil, ErrNoPayload
	}

	// Check if there is an adaptation field.
	off := HeadSize
	if afc&HasAdaptationField != 0 {
		off += 1 + int(p[4])
	}
	if off > PacketSize {
		return nil, ErrInvalidLen
	}
	return p[off:PacketSize], nil
}
