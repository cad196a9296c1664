/*
NAME
  timecode.go

DESCRIPTION
  timecode.go provides decoding and encoding of SMPTE 12-2 ancillary
  timecode packets.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vanc

import "fmt"

const timecodeLen = 16

// Timecode holds an SMPTE 12-2 ancillary timecode.
//
// Each user data word carries one 4-bit nibble in b7-b4 and one distributed
// binary bit in b3. Even words carry the time address and flags, odd words
// carry the binary groups.
type Timecode struct {
	Header
	Hours   int
	Minutes int
	Seconds int
	Frames  int

	DropFrame  bool
	ColorFrame bool
	FieldMark  bool // Seconds tens b3, the polarity correction or field mark.
	BGF0       bool // Minutes tens b3.
	BGF1       bool // Hours tens b2.
	BGF2       bool // Hours tens b3.

	BinaryGroups [8]byte // Binary groups 1 to 8, 4 bits each.

	DBB1 byte // Distributed binary bits of words 1 to 8, LSB first.
	DBB2 byte // Distributed binary bits of words 9 to 16, LSB first.
}

// ParseTimecode decodes the timecode packet described by h.
func ParseTimecode(h *Header) (*Timecode, error) {
	b := h.Bytes()
	if len(b) < timecodeLen {
		return nil, ErrInsufficientData
	}

	var n [timecodeLen]byte
	for i := range n {
		n[i] = b[i] >> 4
	}

	tc := &Timecode{
		Header:     *h,
		Frames:     int(n[2]&0x3)*10 + int(n[0]),
		DropFrame:  n[2]&0x4 != 0,
		ColorFrame: n[2]&0x8 != 0,
		Seconds:    int(n[6]&0x7)*10 + int(n[4]),
		FieldMark:  n[6]&0x8 != 0,
		Minutes:    int(n[10]&0x7)*10 + int(n[8]),
		BGF0:       n[10]&0x8 != 0,
		Hours:      int(n[14]&0x3)*10 + int(n[12]),
		BGF1:       n[14]&0x4 != 0,
		BGF2:       n[14]&0x8 != 0,
	}
	for i := range tc.BinaryGroups {
		tc.BinaryGroups[i] = n[2*i+1]
	}
	for i := 0; i < 8; i++ {
		tc.DBB1 |= (b[i] >> 3 & 1) << uint(i)
		tc.DBB2 |= (b[i+8] >> 3 & 1) << uint(i)
	}
	return tc, nil
}

func (p *Timecode) PacketType() Type { return TypeTimecode }

func (p *Timecode) MarshalPayload() ([]byte, error) {
	if p.Hours < 0 || p.Hours > 23 || p.Minutes < 0 || p.Minutes > 59 ||
		p.Seconds < 0 || p.Seconds > 59 || p.Frames < 0 || p.Frames > 39 {
		return nil, ErrFieldRange
	}

	var n [timecodeLen]byte
	n[0] = byte(p.Frames % 10)
	n[2] = byte(p.Frames/10) | flag(p.DropFrame)<<2 | flag(p.ColorFrame)<<3
	n[4] = byte(p.Seconds % 10)
	n[6] = byte(p.Seconds/10) | flag(p.FieldMark)<<3
	n[8] = byte(p.Minutes % 10)
	n[10] = byte(p.Minutes/10) | flag(p.BGF0)<<3
	n[12] = byte(p.Hours % 10)
	n[14] = byte(p.Hours/10) | flag(p.BGF1)<<2 | flag(p.BGF2)<<3
	for i, g := range p.BinaryGroups {
		n[2*i+1] = g & 0x0f
	}

	b := make([]byte, timecodeLen)
	for i := range b {
		b[i] = n[i] << 4
	}
	for i := 0; i < 8; i++ {
		b[i] |= (p.DBB1 >> uint(i) & 1) << 3
		b[i+8] |= (p.DBB2 >> uint(i) & 1) << 3
	}
	return b, nil
}

// String returns the time address as HH:MM:SS:FF, using a semicolon before
// the frames for drop frame timecode.
func (p *Timecode) String() string {
	sep := ':'
	if p.DropFrame {
		sep = ';'
	}
	return fmt.Sprintf("%02d:%02d:%02d%c%02d", p.Hours, p.Minutes, p.Seconds, sep, p.Frames)
}
