/*
NAME
  scte104.go

DESCRIPTION
  scte104.go provides the SCTE-104 ancillary packet, which carries an SCTE-104
  message behind a payload descriptor byte.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vanc

import (
	"errors"

	"github.com/ausocean/vanc/codec/vanc/scte104"
)

// SCTE104Descriptor is the only payload descriptor supported: a single
// packet carrying a complete message.
const SCTE104Descriptor = 0x08

// MaxSCTE104Message is the largest message that will be encoded.
const MaxSCTE104Message = 200

var ErrUnsupportedDescriptor = errors.New("unsupported SCTE-104 payload descriptor")

// SCTE104 holds an SCTE-104 message.
type SCTE104 struct {
	Header
	Message scte104.Message
}

// ParseSCTE104 decodes the SCTE-104 packet described by h.
func ParseSCTE104(h *Header) (*SCTE104, error) {
	b := h.Bytes()
	if len(b) < 1 {
		return nil, ErrInsufficientData
	}
	if b[0] != SCTE104Descriptor {
		return nil, ErrUnsupportedDescriptor
	}
	m, err := scte104.Parse(b[1:])
	if err != nil {
		return nil, err
	}
	return &SCTE104{Header: *h, Message: m}, nil
}

func (p *SCTE104) PacketType() Type { return TypeSCTE104 }

func (p *SCTE104) MarshalPayload() ([]byte, error) {
	if p.Message == nil {
		return nil, ErrInsufficientData
	}
	m, err := p.Message.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if len(m) > MaxSCTE104Message {
		return nil, ErrDataTooLong
	}
	return append([]byte{SCTE104Descriptor}, m...), nil
}
