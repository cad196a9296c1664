/*
NAME
  hdr.go

DESCRIPTION
  hdr.go provides decoding and encoding of SMPTE 2108-1 HDR/WCG metadata
  packets.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vanc

import (
	"encoding/binary"
)

// HDR metadata item types.
const (
	ItemMasteringDisplay = 137
	ItemContentLight     = 144
	ItemAlternativeTC    = 147
)

// Item payload sizes.
const (
	masteringDisplayLen = 24
	contentLightLen     = 4
	alternativeTCLen    = 1
)

// HDR holds the metadata items of an SMPTE 2108-1 packet.
type HDR struct {
	Header
	FrameType byte
	Items     []HDRItem
}

// HDRItem is a single metadata item. Exactly one of MasteringDisplay,
// ContentLight or Data is used, according to Type: items of an unknown type
// keep their bytes in Data.
type HDRItem struct {
	Type             byte
	MasteringDisplay *MasteringDisplay
	ContentLight     *ContentLight
	Data             []byte
}

// MasteringDisplay holds mastering display colour volume metadata.
type MasteringDisplay struct {
	Primaries    [3][2]uint16 // x and y of each display primary.
	WhitePoint   [2]uint16
	MaxLuminance uint32
	MinLuminance uint32
}

// ContentLight holds content light level metadata.
type ContentLight struct {
	MaxCLL  uint16
	MaxFALL uint16
}

// ParseHDR decodes the HDR packet described by h.
func ParseHDR(h *Header) (*HDR, error) {
	b := h.Bytes()
	if len(b) < 1 {
		return nil, ErrInsufficientData
	}
	p := &HDR{Header: *h, FrameType: b[0]}
	for b = b[1:]; len(b) > 0; {
		if len(b) < 2 {
			return nil, ErrInsufficientData
		}
		typ, size := b[0], int(b[1])
		if len(b) < 2+size {
			return nil, ErrInsufficientData
		}
		item, err := parseHDRItem(typ, b[2:2+size])
		if err != nil {
			return nil, err
		}
		p.Items = append(p.Items, item)
		b = b[2+size:]
	}
	return p, nil
}

func parseHDRItem(typ byte, d []byte) (HDRItem, error) {
	item := HDRItem{Type: typ}
	be := binary.BigEndian
	switch typ {
	case ItemMasteringDisplay:
		if len(d) != masteringDisplayLen {
			return item, ErrBadItemLength
		}
		md := &MasteringDisplay{}
		for i := range md.Primaries {
			md.Primaries[i][0] = be.Uint16(d[4*i:])
			md.Primaries[i][1] = be.Uint16(d[4*i+2:])
		}
		md.WhitePoint[0] = be.Uint16(d[12:])
		md.WhitePoint[1] = be.Uint16(d[14:])
		md.MaxLuminance = be.Uint32(d[16:])
		md.MinLuminance = be.Uint32(d[20:])
		item.MasteringDisplay = md
	case ItemContentLight:
		if len(d) != contentLightLen {
			return item, ErrBadItemLength
		}
		item.ContentLight = &ContentLight{MaxCLL: be.Uint16(d), MaxFALL: be.Uint16(d[2:])}
	case ItemAlternativeTC:
		if len(d) != alternativeTCLen {
			return item, ErrBadItemLength
		}
		item.Data = append([]byte(nil), d...)
	default:
		item.Data = append([]byte(nil), d...)
	}
	return item, nil
}

func (p *HDR) PacketType() Type { return TypeHDR }

func (p *HDR) MarshalPayload() ([]byte, error) {
	b := []byte{p.FrameType}
	be := binary.BigEndian
	for _, item := range p.Items {
		var d []byte
		switch {
		case item.Type == ItemMasteringDisplay && item.MasteringDisplay != nil:
			md := item.MasteringDisplay
			d = make([]byte, masteringDisplayLen)
			for i := range md.Primaries {
				be.PutUint16(d[4*i:], md.Primaries[i][0])
				be.PutUint16(d[4*i+2:], md.Primaries[i][1])
			}
			be.PutUint16(d[12:], md.WhitePoint[0])
			be.PutUint16(d[14:], md.WhitePoint[1])
			be.PutUint32(d[16:], md.MaxLuminance)
			be.PutUint32(d[20:], md.MinLuminance)
		case item.Type == ItemContentLight && item.ContentLight != nil:
			d = make([]byte, contentLightLen)
			be.PutUint16(d, item.ContentLight.MaxCLL)
			be.PutUint16(d[2:], item.ContentLight.MaxFALL)
		default:
			d = item.Data
		}
		if len(d) > 0xff {
			return nil, ErrBadItemLength
		}
		b = append(b, item.Type, byte(len(d)))
		b = append(b, d...)
	}
	if len(b) > MaxDataCount {
		return nil, ErrDataTooLong
	}
	return b, nil
}
