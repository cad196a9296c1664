/*
NAME
  afd.go

DESCRIPTION
  afd.go provides decoding and encoding of SMPTE 2016-3 active format
  description and bar data packets.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vanc

const afdLen = 8

// Coded frame aspect ratios.
const (
	Aspect4x3  = 0
	Aspect16x9 = 1
)

// AFD holds an active format description and bar data.
type AFD struct {
	Header
	Code        byte // 4-bit active format code.
	AspectRatio byte // Aspect4x3 or Aspect16x9.

	// Bar data flags. When TopBar or BottomBar is set, Bar1 and Bar2 hold
	// the top and bottom bar lines; when LeftBar or RightBar is set they
	// hold the left and right bar pixels.
	TopBar    bool
	BottomBar bool
	LeftBar   bool
	RightBar  bool
	Bar1      uint16
	Bar2      uint16
}

// ParseAFD decodes the AFD packet described by h.
func ParseAFD(h *Header) (*AFD, error) {
	b := h.Bytes()
	if len(b) < afdLen {
		return nil, ErrInsufficientData
	}
	return &AFD{
		Header:      *h,
		Code:        b[0] >> 3 & 0x0f,
		AspectRatio: b[0] >> 2 & 0x01,
		TopBar:      b[3]&0x80 != 0,
		BottomBar:   b[3]&0x40 != 0,
		LeftBar:     b[3]&0x20 != 0,
		RightBar:    b[3]&0x10 != 0,
		Bar1:        uint16(b[4])<<8 | uint16(b[5]),
		Bar2:        uint16(b[6])<<8 | uint16(b[7]),
	}, nil
}

func (p *AFD) PacketType() Type { return TypeAFD }

func (p *AFD) MarshalPayload() ([]byte, error) {
	if p.Code > 0x0f || p.AspectRatio > 1 {
		return nil, ErrFieldRange
	}
	b := make([]byte, afdLen)
	b[0] = p.Code<<3 | p.AspectRatio<<2
	b[3] = flag(p.TopBar)<<7 | flag(p.BottomBar)<<6 | flag(p.LeftBar)<<5 | flag(p.RightBar)<<4
	b[4], b[5] = byte(p.Bar1>>8), byte(p.Bar1)
	b[6], b[7] = byte(p.Bar2>>8), byte(p.Bar2)
	return b, nil
}

func flag(b bool) byte {
	if b {
		return 1
	}
	return 0
}
