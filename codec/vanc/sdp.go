/*
NAME
  sdp.go

DESCRIPTION
  sdp.go provides decoding and encoding of OP-47 subtitling distribution
  packets carrying World System Teletext lines.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vanc

// SDP layout constants.
const (
	sdpID1        = 0x51
	sdpID2        = 0x15
	sdpFooterID   = 0x74
	sdpHeaderLen  = 9
	sdpFooterLen  = 4
	SDPFormatWST  = 0x02
	SDPPacketLen  = 45
	SDPDescriptor = 5
)

// SDP holds an OP-47 subtitling distribution packet.
type SDP struct {
	Header
	FormatCode byte

	// Descriptors describe where each teletext packet belongs: b7 is the
	// field and b4-b0 the line number. A zero descriptor is unused.
	Descriptors [SDPDescriptor]byte

	// Packets holds one 45-byte WST packet for each non-zero descriptor.
	Packets [][]byte

	Sequence   uint16
	ChecksumOK bool
}

// ParseSDP decodes the SDP packet described by h. A checksum failure is
// reported by the ChecksumOK field.
func ParseSDP(h *Header) (*SDP, error) {
	b := h.Bytes()
	if len(b) < sdpHeaderLen+sdpFooterLen {
		return nil, ErrInsufficientData
	}
	if b[0] != sdpID1 || b[1] != sdpID2 {
		return nil, ErrBadIdentifier
	}

	p := &SDP{Header: *h, FormatCode: b[3]}
	copy(p.Descriptors[:], b[4:sdpHeaderLen])

	off := sdpHeaderLen
	for _, d := range p.Descriptors {
		if d == 0 {
			continue
		}
		if off+SDPPacketLen > len(b) {
			return nil, ErrInsufficientData
		}
		p.Packets = append(p.Packets, append([]byte(nil), b[off:off+SDPPacketLen]...))
		off += SDPPacketLen
	}

	if off+sdpFooterLen > len(b) {
		return nil, ErrInsufficientData
	}
	if b[off] != sdpFooterID {
		return nil, ErrBadIdentifier
	}
	p.Sequence = uint16(b[off+1])<<8 | uint16(b[off+2])
	p.ChecksumOK = byteSum(b[:off+sdpFooterLen]) == 0
	return p, nil
}

func (p *SDP) PacketType() Type { return TypeSDP }

func (p *SDP) MarshalPayload() ([]byte, error) {
	var n int
	for _, d := range p.Descriptors {
		if d != 0 {
			n++
		}
	}
	if n != len(p.Packets) {
		return nil, ErrMismatchedCount
	}

	size := sdpHeaderLen + n*SDPPacketLen + sdpFooterLen
	if size > MaxDataCount {
		return nil, ErrDataTooLong
	}
	b := make([]byte, 0, size)
	b = append(b, sdpID1, sdpID2, byte(size), p.FormatCode)
	b = append(b, p.Descriptors[:]...)
	for _, pkt := range p.Packets {
		if len(pkt) != SDPPacketLen {
			return nil, ErrBadItemLength
		}
		b = append(b, pkt...)
	}
	b = append(b, sdpFooterID, byte(p.Sequence>>8), byte(p.Sequence))
	return append(b, -byteSum(b)), nil
}

// byteSum returns the sum of b modulo 256.
func byteSum(b []byte) byte {
	var s byte
	for _, v := range b {
		s += v
	}
	return s
}
