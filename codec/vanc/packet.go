/*
NAME
  packet.go

DESCRIPTION
  packet.go provides the Packet interface implemented by every typed ancillary
  packet, and the Decode and Encode functions converting between typed packets
  and Headers.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vanc

import (
	"github.com/pkg/errors"
)

// Packet is a typed ancillary packet.
type Packet interface {
	// PacketType returns the type of the packet.
	PacketType() Type

	// MarshalPayload returns the packet's 8-bit user data.
	MarshalPayload() ([]byte, error)

	// AncHeader returns the header the packet was decoded from, or the zero
	// Header for a packet constructed in code.
	AncHeader() *Header
}

// Raw is a packet of a type this package does not decode.
type Raw struct {
	Header
}

func (p *Raw) PacketType() Type { return TypeUndefined }

func (p *Raw) MarshalPayload() ([]byte, error) { return p.Header.Bytes(), nil }

// Decode decodes the packet described by h into its typed form. Packets with
// an unregistered DID/SDID pair are returned as *Raw.
func Decode(h *Header) (Packet, error) {
	var (
		p   Packet
		err error
	)
	switch h.Type {
	case TypeAFD:
		p, err = ParseAFD(h)
	case TypeSCTE104:
		p, err = ParseSCTE104(h)
	case TypeHDR:
		p, err = ParseHDR(h)
	case TypeSDP:
		p, err = ParseSDP(h)
	case TypeCounter:
		p, err = ParseCounter(h)
	case TypeTimecode:
		p, err = ParseTimecode(h)
	case TypeCEA708:
		p, err = ParseCEA708(h)
	case TypeEIA608:
		p, err = ParseEIA608(h)
	default:
		return &Raw{Header: *h}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode %s packet", h.Type)
	}
	return p, nil
}

// Encode returns a Header for p with the DID and SDID registered for its type.
// The line number and offset of p's own header are carried over. A *Raw keeps
// its own DID and SDID.
func Encode(p Packet) (*Header, error) {
	payload, err := p.MarshalPayload()
	if err != nil {
		return nil, errors.Wrapf(err, "could not marshal %s payload", p.PacketType())
	}

	src := p.AncHeader()
	did, sdid, ok := p.PacketType().IDs()
	if !ok {
		if p.PacketType() != TypeUndefined {
			return nil, ErrUnknownType
		}
		did, sdid = src.DID, src.SDID
	}

	h, err := NewHeader(did, sdid, payload)
	if err != nil {
		return nil, err
	}
	h.Line, h.Offset = src.Line, src.Offset
	return h, nil
}
