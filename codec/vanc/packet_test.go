/*
NAME
  packet_test.go

DESCRIPTION
  packet_test.go provides testing for decoding and encoding of the typed
  ancillary packets.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vanc

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ausocean/vanc/codec/vanc/cdp"
	"github.com/ausocean/vanc/codec/vanc/scte104"
)

// wire encodes p, places it in a line and scans it back.
func wire(t *testing.T, p Packet) *Header {
	t.Helper()
	h, err := Encode(p)
	if err != nil {
		t.Fatalf("could not encode %s: %v", p.PacketType(), err)
	}
	line := blankLine(MinPacketWidth + MaxDataCount + 16)
	copy(line[8:], h.Words())
	hdrs, err := Scan(line, 12)
	if err != nil {
		t.Fatalf("could not scan line: %v", err)
	}
	if len(hdrs) != 1 {
		t.Fatalf("expected one header, got: %d", len(hdrs))
	}
	if !hdrs[0].ChecksumOK {
		t.Fatalf("bad checksum for %s", p.PacketType())
	}
	return hdrs[0]
}

func TestRoundTrip(t *testing.T) {
	tests := []Packet{
		&AFD{Code: 0x9, AspectRatio: Aspect16x9, TopBar: true, BottomBar: true, Bar1: 60, Bar2: 1020},
		&Timecode{
			Hours: 10, Minutes: 32, Seconds: 59, Frames: 29,
			DropFrame: true, FieldMark: true, BGF2: true,
			BinaryGroups: [8]byte{1, 2, 3, 4, 5, 6, 7, 8},
			DBB1:         0xa5, DBB2: 0x0f,
		},
		&EIA608{Field: 1, LineOffset: 9, CC: [2]byte{0x94, 0x2c}},
		&Counter{Value: 0x0102030405060708},
		&HDR{FrameType: 1, Items: []HDRItem{
			{Type: ItemMasteringDisplay, MasteringDisplay: &MasteringDisplay{
				Primaries:    [3][2]uint16{{13250, 34500}, {7500, 3000}, {34000, 16000}},
				WhitePoint:   [2]uint16{15635, 16450},
				MaxLuminance: 10000000,
				MinLuminance: 50,
			}},
			{Type: ItemContentLight, ContentLight: &ContentLight{MaxCLL: 1000, MaxFALL: 400}},
			{Type: ItemAlternativeTC, Data: []byte{18}},
			{Type: 200, Data: []byte{1, 2, 3}},
		}},
		&SDP{
			FormatCode:  SDPFormatWST,
			Descriptors: [SDPDescriptor]byte{0x95, 0, 0x16, 0, 0},
			Packets:     [][]byte{bytes.Repeat([]byte{0x55}, SDPPacketLen), bytes.Repeat([]byte{0x27}, SDPPacketLen)},
			Sequence:    0x0102,
			ChecksumOK:  true,
		},
		&CEA708{CDP: &cdp.CDP{
			FrameRate:      cdp.Rate29_97,
			Sequence:       77,
			CCData:         []cdp.CC{{Valid: true, Data: [2]byte{0x94, 0x20}}},
			FooterSequence: 77,
			ChecksumOK:     true,
		}},
	}

	ignore := cmpopts.IgnoreTypes(Header{})
	for _, p := range tests {
		h := wire(t, p)
		if h.Type != p.PacketType() {
			t.Errorf("unexpected type.\nGot: %v\nWant: %v\n", h.Type, p.PacketType())
		}
		got, err := Decode(h)
		if err != nil {
			t.Fatalf("could not decode %s: %v", p.PacketType(), err)
		}
		if !cmp.Equal(got, p, ignore) {
			t.Errorf("round trip mismatch for %s: %s", p.PacketType(), cmp.Diff(p, got, ignore))
		}
		if got.AncHeader().Line != 12 || got.AncHeader().Offset != 8 {
			t.Errorf("header not carried for %s: %+v", p.PacketType(), got.AncHeader())
		}
	}
}

// TestSCTE104Splice checks a splice request and tier operation survive
// encoding to ancillary words and back.
func TestSCTE104Splice(t *testing.T) {
	m := &scte104.MultipleOperationMessage{}
	m.AddOperation(&scte104.SpliceRequest{
		SpliceInsertType: scte104.SpliceStartImmediate,
		SpliceEventID:    0x1234,
		UniqueProgramID:  0x4567,
		PreRollTime:      0,
		BreakDuration:    300,
		AvailNum:         1,
		AvailsExpected:   2,
		AutoReturnFlag:   1,
	})
	m.AddOperation(&scte104.InsertTier{Tier: 0x123})

	p := &SCTE104{Message: m}
	h := wire(t, p)
	if h.DID != 0x41 || h.SDID != 0x07 {
		t.Errorf("unexpected ids: %#02x/%#02x", h.DID, h.SDID)
	}
	if h.Bytes()[0] != SCTE104Descriptor {
		t.Errorf("unexpected payload descriptor: %#02x", h.Bytes()[0])
	}

	got, err := Decode(h)
	if err != nil {
		t.Fatalf("could not decode: %v", err)
	}
	s, ok := got.(*SCTE104)
	if !ok {
		t.Fatalf("unexpected packet type: %T", got)
	}
	if !cmp.Equal(s.Message, p.Message) {
		t.Errorf("message mismatch: %s", cmp.Diff(p.Message, s.Message))
	}
}

func TestDecodeRaw(t *testing.T) {
	h := mustHeader(t, 0x45, 0x01, []byte{1, 2, 3})
	p, err := Decode(h)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	raw, ok := p.(*Raw)
	if !ok {
		t.Fatalf("expected *Raw, got: %T", p)
	}
	e, err := Encode(raw)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	if !cmp.Equal(e.Words(), h.Words()) {
		t.Errorf("raw packet did not round trip.\nGot: %v\nWant: %v\n", e.Words(), h.Words())
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		did, sdid byte
		payload   []byte
		want      error
	}{
		{did: 0x41, sdid: 0x05, payload: []byte{1, 2, 3}, want: ErrInsufficientData},
		{did: 0x60, sdid: 0x60, payload: make([]byte, 15), want: ErrInsufficientData},
		{did: 0x61, sdid: 0x02, payload: []byte{1}, want: ErrInsufficientData},
		{did: 0x52, sdid: 0x01, payload: []byte{1}, want: ErrInsufficientData},
		{did: 0x41, sdid: 0x0c, payload: []byte{1, ItemContentLight, 3, 0, 0, 0}, want: ErrBadItemLength},
		{did: 0x41, sdid: 0x0c, payload: []byte{1, ItemContentLight, 4, 0}, want: ErrInsufficientData},
		{did: 0x43, sdid: 0x02, payload: make([]byte, 13), want: ErrBadIdentifier},
		{did: 0x41, sdid: 0x07, payload: []byte{0x09, 0xff, 0xff}, want: ErrUnsupportedDescriptor},
		{did: 0x41, sdid: 0x07, payload: []byte{0x08, 0xff, 0xff, 0x00, 0x40}, want: scte104.ErrLengthExceedsBuffer},
		{did: 0x61, sdid: 0x01, payload: []byte{0x96, 0x68, 7, 0, 0, 0, 0}, want: cdp.ErrBadIdentifier},
	}
	for i, test := range tests {
		h := mustHeader(t, test.did, test.sdid, test.payload)
		_, err := Decode(h)
		if !errors.Is(err, test.want) {
			t.Errorf("unexpected error for test %d.\nGot: %v\nWant: %v\n", i, err, test.want)
		}
	}
}

func TestSDPChecksumFailure(t *testing.T) {
	p := &SDP{FormatCode: SDPFormatWST}
	b, err := p.MarshalPayload()
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	b[len(b)-1]++
	h := mustHeader(t, 0x43, 0x02, b)
	got, err := ParseSDP(h)
	if err != nil {
		t.Fatalf("checksum failure should not be an error: %v", err)
	}
	if got.ChecksumOK {
		t.Error("expected ChecksumOK to be false")
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		p    Packet
		want error
	}{
		{p: &AFD{Code: 0x10}, want: ErrFieldRange},
		{p: &Timecode{Hours: 24}, want: ErrFieldRange},
		{p: &EIA608{LineOffset: 0x20}, want: ErrFieldRange},
		{p: &SDP{Descriptors: [SDPDescriptor]byte{1}}, want: ErrMismatchedCount},
		{p: &HDR{Items: []HDRItem{{Type: 200, Data: make([]byte, 256)}}}, want: ErrBadItemLength},
		{p: &SCTE104{}, want: ErrInsufficientData},
		{p: &SCTE104{Message: &scte104.SingleOperationMessage{Data: make([]byte, MaxSCTE104Message)}}, want: ErrDataTooLong},
	}
	for i, test := range tests {
		_, err := Encode(test.p)
		if !errors.Is(err, test.want) {
			t.Errorf("unexpected error for test %d.\nGot: %v\nWant: %v\n", i, err, test.want)
		}
	}
}

func TestTimecodeString(t *testing.T) {
	tc := &Timecode{Hours: 1, Minutes: 2, Seconds: 3, Frames: 4, DropFrame: true}
	if got := tc.String(); got != "01:02:03;04" {
		t.Errorf("unexpected string: %s", got)
	}
}
