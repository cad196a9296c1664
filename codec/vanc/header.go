/*
NAME
  header.go

DESCRIPTION
  header.go provides the Header type, describing a single ancillary packet as
  found in a line, and its conversion to and from 10-bit words.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vanc

// Header describes an ancillary packet. Payload holds the user data words
// with b9 cleared; b9 is rebuilt from b8 when the packet is serialized.
type Header struct {
	DID        byte
	SDID       byte
	Payload    []uint16
	Checksum   uint16
	ChecksumOK bool
	Type       Type
	Line       int // Line number the packet was found on or is destined for.
	Offset     int // Horizontal word offset of the ancillary data flag.
}

// NewHeader returns a Header for a packet carrying the 8-bit user data in
// payload. Each payload byte is given parity bits.
func NewHeader(did, sdid byte, payload []byte) (*Header, error) {
	if len(payload) > MaxDataCount {
		return nil, ErrDataTooLong
	}
	h := &Header{
		DID:     did,
		SDID:    sdid,
		Payload: make([]uint16, len(payload)),
		Type:    Lookup(did, sdid),
	}
	for i, b := range payload {
		h.Payload[i] = Parity(b) & 0x1ff
	}
	w := h.Words()
	h.Checksum = w[len(w)-1]
	h.ChecksumOK = true
	return h, nil
}

// AncHeader returns h. It allows typed packets embedding a Header to expose
// it through the Packet interface.
func (h *Header) AncHeader() *Header { return h }

// DataCount returns the number of user data words.
func (h *Header) DataCount() int { return len(h.Payload) }

// Width returns the number of words the packet occupies in a line.
func (h *Header) Width() int { return MinPacketWidth + len(h.Payload) }

// Bytes returns the low 8 bits of each user data word.
func (h *Header) Bytes() []byte {
	b := make([]byte, len(h.Payload))
	for i, w := range h.Payload {
		b[i] = byte(w)
	}
	return b
}

// Words returns the packet as 10-bit words, from the ancillary data flag to
// the checksum. The checksum is recomputed from the other words.
func (h *Header) Words() []uint16 {
	w := make([]uint16, 0, h.Width())
	w = append(w, ADF[:]...)
	w = append(w, Parity(h.DID), Parity(h.SDID), Parity(byte(len(h.Payload))))
	for _, p := range h.Payload {
		w = append(w, userWord(p))
	}
	return append(w, Checksum(w[ADFWords:]))
}
