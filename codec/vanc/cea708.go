/*
NAME
  cea708.go

DESCRIPTION
  cea708.go provides the CEA-708 ancillary packet carrying a caption
  distribution packet.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vanc

import (
	"github.com/ausocean/vanc/codec/vanc/cdp"
)

// CEA708 holds a caption distribution packet.
type CEA708 struct {
	Header
	CDP *cdp.CDP
}

// ParseCEA708 decodes the CEA-708 packet described by h.
func ParseCEA708(h *Header) (*CEA708, error) {
	c, err := cdp.Parse(h.Bytes())
	if err != nil {
		return nil, err
	}
	return &CEA708{Header: *h, CDP: c}, nil
}

func (p *CEA708) PacketType() Type { return TypeCEA708 }

func (p *CEA708) MarshalPayload() ([]byte, error) {
	if p.CDP == nil {
		return nil, ErrInsufficientData
	}
	return p.CDP.Bytes()
}
