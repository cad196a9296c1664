/*
NAME
  counter.go

DESCRIPTION
  counter.go provides the 64-bit frame counter packet, used to check for
  dropped or repeated frames across a pipeline.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vanc

import "encoding/binary"

const counterLen = 8

// Counter holds a 64-bit counter value carried little-endian in 8 words.
type Counter struct {
	Header
	Value uint64
}

// ParseCounter decodes the counter packet described by h.
func ParseCounter(h *Header) (*Counter, error) {
	b := h.Bytes()
	if len(b) < counterLen {
		return nil, ErrInsufficientData
	}
	return &Counter{Header: *h, Value: binary.LittleEndian.Uint64(b)}, nil
}

func (p *Counter) PacketType() Type { return TypeCounter }

func (p *Counter) MarshalPayload() ([]byte, error) {
	b := make([]byte, counterLen)
	binary.LittleEndian.PutUint64(b, p.Value)
	return b, nil
}
