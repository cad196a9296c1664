/*
NAME
  registry.go

DESCRIPTION
  registry.go maps DID/SDID pairs to the packet types understood by this
  package.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vanc

// Type identifies the kind of an ancillary packet.
type Type int

// Packet types.
const (
	TypeUndefined Type = iota
	TypeAFD
	TypeSCTE104
	TypeHDR
	TypeSDP
	TypeCounter
	TypeTimecode
	TypeCEA708
	TypeEIA608
)

var registry = []struct {
	did, sdid byte
	typ       Type
	name      string
}{
	{0x41, 0x05, TypeAFD, "SMPTE 2016-3 AFD"},
	{0x41, 0x07, TypeSCTE104, "SCTE-104"},
	{0x41, 0x0c, TypeHDR, "SMPTE 2108-1 HDR"},
	{0x43, 0x02, TypeSDP, "OP-47 SDP"},
	{0x52, 0x01, TypeCounter, "KL 64-bit counter"},
	{0x60, 0x60, TypeTimecode, "SMPTE 12-2 timecode"},
	{0x61, 0x01, TypeCEA708, "CEA-708 CDP"},
	{0x61, 0x02, TypeEIA608, "EIA-608"},
}

// Lookup returns the type registered for did and sdid, or TypeUndefined.
func Lookup(did, sdid byte) Type {
	for _, e := range registry {
		if e.did == did && e.sdid == sdid {
			return e.typ
		}
	}
	return TypeUndefined
}

// IDs returns the DID and SDID registered for t. ok is false for
// TypeUndefined or an unknown type.
func (t Type) IDs() (did, sdid byte, ok bool) {
	for _, e := range registry {
		if e.typ == t {
			return e.did, e.sdid, true
		}
	}
	return 0, 0, false
}

func (t Type) String() string {
	for _, e := range registry {
		if e.typ == t {
			return e.name
		}
	}
	return "undefined"
}
