/*
NAME
  eia608.go

DESCRIPTION
  eia608.go provides decoding and encoding of EIA-608 closed caption packets
  carried as ancillary data.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vanc

const eia608Len = 3

// EIA608 holds a single pair of EIA-608 caption bytes.
type EIA608 struct {
	Header
	Field      byte // Field bit, b7 of the first user data word.
	LineOffset byte // 5-bit line offset.
	CC         [2]byte
}

// ParseEIA608 decodes the EIA-608 packet described by h.
func ParseEIA608(h *Header) (*EIA608, error) {
	b := h.Bytes()
	if len(b) < eia608Len {
		return nil, ErrInsufficientData
	}
	return &EIA608{
		Header:     *h,
		Field:      b[0] >> 7,
		LineOffset: b[0] & 0x1f,
		CC:         [2]byte{b[1], b[2]},
	}, nil
}

func (p *EIA608) PacketType() Type { return TypeEIA608 }

func (p *EIA608) MarshalPayload() ([]byte, error) {
	if p.Field > 1 || p.LineOffset > 0x1f {
		return nil, ErrFieldRange
	}
	return []byte{p.Field<<7 | p.LineOffset, p.CC[0], p.CC[1]}, nil
}

// CCData returns the caption bytes as a single 16-bit value, first byte high.
func (p *EIA608) CCData() uint16 {
	return uint16(p.CC[0])<<8 | uint16(p.CC[1])
}
