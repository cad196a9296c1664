/*
NAME
  mpegts_test.go

DESCRIPTION
  mpegts_test.go contains testing for functionality found in mpegts.go and
  discontinuity.go.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mts

import (
	"bytes"
	"testing"

	"github.com/Comcast/gots/v2/packet"
	"github.com/pkg/errors"

	"github.com/ausocean/vanc/container/mts/pes"
)

// TestBytes checks that Packet.Bytes() correctly produces a []byte
// representation of a Packet.
func TestBytes(t *testing.T) {
	const payloadLen, payloadChar, fillerChar = 120, 0x11, 0xff

	tests := []struct {
		packet         Packet
		expectedHeader []byte
	}{
		{
			packet: Packet{
				PUSI: true,
				PID:  1,
				CC:   4,
			},
			expectedHeader: []byte{
				0x47, // Sync byte.
				0x40, // TEI=0, PUSI=1, TP=0, PID=00000.
				0x01, // PID(Cont)=00000001.
				0x14, // TSC=00, AFC=01(payload only), CC=0100(4).
			},
		},
		{
			packet: Packet{
				PID: 0x1abc,
				CC:  15,
			},
			expectedHeader: []byte{
				0x47, // Sync byte.
				0x1a, // TEI=0, PUSI=0, TP=0, PID=11010.
				0xbc, // PID(Cont)=10111100.
				0x1f, // TSC=00, AFC=01(payload only), CC=1111(15).
			},
		},
	}

	for testNum, test := range tests {
		payload := bytes.Repeat([]byte{payloadChar}, payloadLen)
		n := test.packet.FillPayload(payload)
		if n != payloadLen {
			t.Errorf("unexpected fill length for test %d: %d", testNum, n)
		}

		expected := append([]byte{}, test.expectedHeader...)
		expected = append(expected, payload...)
		for len(expected) < PacketSize {
			expected = append(expected, fillerChar)
		}

		got := test.packet.Bytes(nil)
		if !bytes.Equal(got, expected) {
			t.Errorf("did not get expected result for test: %v.\n Got: %v\n Want: %v\n", testNum, got, expected)
		}
	}
}

func TestFillPayloadCapacity(t *testing.T) {
	var p Packet
	n := p.FillPayload(make([]byte, 500))
	if n != MaxPayloadSize || len(p.Payload) != MaxPayloadSize {
		t.Errorf("unexpected fill: n=%d len=%d", n, len(p.Payload))
	}
}

func TestGetPTS(t *testing.T) {
	const pts = 123456789
	pesPkt := pes.Packet{
		StreamID:     pes.PrivateStream1SID,
		PDI:          pes.PTSOnly,
		PTS:          pts,
		HeaderLength: pes.PTSSize,
		Data:         []byte{0x01, 0x02},
	}
	p := Packet{PUSI: true, PID: PIDAncillary}
	p.FillPayload(pesPkt.Bytes(nil))

	got, err := GetPTS(p.Bytes(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != pts {
		t.Errorf("unexpected PTS, got: %d, want: %d", got, pts)
	}

	p.PUSI = false
	_, err = GetPTS(p.Bytes(nil))
	if !errors.Is(err, errNoPesPayload) {
		t.Errorf("unexpected error for packet without PUSI: %v", err)
	}

	_, err = GetPTS(make([]byte, 10))
	if !errors.Is(err, ErrInvalidLen) {
		t.Errorf("unexpected error for short packet: %v", err)
	}
}

// TestPayload checks payload location with and without an adaptation field.
func TestPayload(t *testing.T) {
	p := Packet{PID: 0x20}
	p.FillPayload([]byte{0xaa, 0xbb})
	b := p.Bytes(nil)
	got, err := Payload(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != MaxPayloadSize || got[0] != 0xaa || got[1] != 0xbb {
		t.Errorf("unexpected payload: %v", got[:2])
	}

	// Adaptation field of length 2 followed by payload.
	withAF := make([]byte, PacketSize)
	copy(withAF, []byte{0x47, 0x00, 0x20, 0x30, 0x02, 0x00, 0xff, 0xcc})
	got, err = Payload(withAF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != PacketSize-7 || got[0] != 0xcc {
		t.Errorf("unexpected payload after adaptation field: len %d first %#x", len(got), got[0])
	}

	// Adaptation field only.
	withAF[3] = 0x20
	_, err = Payload(withAF)
	if !errors.Is(err, ErrNoPayload) {
		t.Errorf("unexpected error for adaptation only packet: %v", err)
	}

	_, err = Payload(withAF[:10])
	if !errors.Is(err, ErrInvalidLen) {
		t.Errorf("unexpected error for short packet: %v", err)
	}
}

func TestDiscontinuityDetector(t *testing.T) {
	dd := NewDiscontinuityDetector()
	tests := []struct {
		pid  uint16
		cc   byte
		want bool
	}{
		{pid: 0x100, cc: 3, want: true}, // First seen.
		{pid: 0x100, cc: 4, want: true},
		{pid: 0x101, cc: 0, want: true}, // Independent PID.
		{pid: 0x100, cc: 6, want: false},
		{pid: 0x100, cc: 7, want: true}, // Resynchronised.
		{pid: 0x100, cc: 8, want: true},
	}
	for i, test := range tests {
		var pkt packet.Packet
		p := Packet{PID: test.pid, CC: test.cc}
		copy(pkt[:], p.Bytes(nil))
		if got := dd.Check(&pkt); got != test.want {
			t.Errorf("unexpected result for check %d, got: %v, want: %v", i, got, test.want)
		}
	}

	// Counter wraps.
	dd.Reset()
	for i, cc := range []byte{14, 15, 0, 1} {
		var pkt packet.Packet
		p := Packet{PID: 0x100, CC: cc}
		copy(pkt[:], p.Bytes(nil))
		if !dd.Check(&pkt) {
			t.Errorf("unexpected discontinuity at %d", i)
		}
	}
}
