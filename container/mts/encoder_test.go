/*
NAME
  encoder_test.go

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
	"errors"
	"io"
	"testing"
	"time"

	"github.com/Comcast/gots/v2/packet"

	"github.com/ausocean/utils/logging"
	"github.com/ausocean/vanc/container/mts/psi"
)

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

type destination struct {
	packets [][]byte
}

func (d *destination) Write(p []byte) (int, error) {
	tmp := make([]byte, PacketSize)
	copy(tmp, p)
	d.packets = append(d.packets, tmp)
	return len(p), nil
}

// pids returns the PID of each packet written to d.
func (d *destination) pids() []uint16 {
	var pids []uint16
	for _, p := range d.packets {
		pid, _ := PID(p)
		pids = append(pids, pid)
	}
	return pids
}

// TestEncode checks that we can correctly encode some dummy data into a
// valid MPEG-TS stream. This checks for correct MPEG-TS headers and also that the
// original data is stored correctly and is retrievable.
func TestEncode(t *testing.T) {
	const dataLength = 440

	// Generate test data.
	data := make([]byte, 0, dataLength)
	for i := 0; i < dataLength; i++ {
		data = append(data, byte(i))
	}

	expectedHeaders := [][]byte{
		{
			0x47, // Sync byte.
			0x41, // TEI=0, PUSI=1, TP=0, PID=00001 (256).
			0x00, // PID(Cont)=00000000.
			0x10, // TSC=00, AFC=01(payload only), CC=0000(0).
		},
		{
			0x47, // Sync byte.
			0x01, // TEI=0, PUSI=0, TP=0, PID=00001 (256).
			0x00, // PID(Cont)=00000000.
			0x11, // TSC=00, AFC=01(payload only), CC=0001(1).
		},
		{
			0x47, // Sync byte.
			0x01, // TEI=0, PUSI=0, TP=0, PID=00001 (256).
			0x00, // PID(Cont)=00000000.
			0x12, // TSC=00, AFC=01(payload only), CC=0010(2).
		},
	}

	dst := &destination{}
	e, err := NewEncoder(nopCloser{dst}, (*logging.TestLogger)(t))
	if err != nil {
		t.Fatalf("could not create MTS encoder, failed with error: %v", err)
	}

	n, err := e.Write(data)
	if err != nil {
		t.Fatalf("could not write data to encoder, failed with error: %v\n", err)
	}
	if n != dataLength {
		t.Errorf("unexpected write length: %d", n)
	}

	wantPIDs := []uint16{PatPid, PmtPid, PIDAncillary, PIDAncillary, PIDAncillary}
	if got := dst.pids(); !equalPIDs(got, wantPIDs) {
		t.Fatalf("unexpected PID sequence, got: %v, want: %v", got, wantPIDs)
	}

	var pesData []byte
	for i, p := range dst.packets[2:] {
		if !bytes.Equal(p[:HeadSize], expectedHeaders[i]) {
			t.Errorf("did not get expected header for idx: %v.\n Got: %v\n Want: %v\n", i, p[:HeadSize], expectedHeaders[i])
		}

		var _p packet.Packet
		copy(_p[:], p)
		payload, err := _p.Payload()
		if err != nil {
			t.Fatalf("could not get payload from mts packet, failed with err: %v\n", err)
		}
		pesData = append(pesData, payload...)
	}

	// The final packet is completed with filler.
	if !bytes.Equal(pesData[:dataLength], data) {
		t.Error("payload does not match input data")
	}
	for i, b := range pesData[dataLength:] {
		if b != 0xff {
			t.Fatalf("filler byte %d is %#x, want 0xff", i, b)
		}
	}
}

func equalPIDs(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestPacketBasedPSI checks that PSI is repeated once the packet count,
// which includes the PSI packets themselves, is reached.
func TestPacketBasedPSI(t *testing.T) {
	dst := &destination{}
	e, err := NewEncoder(nopCloser{dst}, (*logging.TestLogger)(t), PacketBasedPSI(6))
	if err != nil {
		t.Fatalf("could not create MTS encoder: %v", err)
	}

	data := make([]byte, 200) // Two packets each.
	for i := 0; i < 3; i++ {
		_, err = e.Write(data)
		if err != nil {
			t.Fatalf("could not write data: %v", err)
		}
	}

	want := []uint16{
		PatPid, PmtPid, PIDAncillary, PIDAncillary, PIDAncillary, PIDAncillary,
		PatPid, PmtPid, PIDAncillary, PIDAncillary,
	}
	if got := dst.pids(); !equalPIDs(got, want) {
		t.Errorf("unexpected PID sequence\ngot:  %v\nwant: %v", got, want)
	}

	// Continuity counters are per PID.
	var pat packet.Packet
	copy(pat[:], dst.packets[6])
	if cc := pat.ContinuityCounter(); cc != 1 {
		t.Errorf("unexpected PAT continuity counter: %d", cc)
	}
	var last packet.Packet
	copy(last[:], dst.packets[9])
	if cc := last.ContinuityCounter(); cc != 5 {
		t.Errorf("unexpected stream continuity counter: %d", cc)
	}
}

func TestTimeBasedPSI(t *testing.T) {
	dst := &destination{}
	e, err := NewEncoder(nopCloser{dst}, (*logging.TestLogger)(t), TimeBasedPSI(time.Hour))
	if err != nil {
		t.Fatalf("could not create MTS encoder: %v", err)
	}
	for i := 0; i < 2; i++ {
		_, err = e.Write([]byte{0x00, 0x00, 0x01, 0xbd})
		if err != nil {
			t.Fatalf("could not write data: %v", err)
		}
	}
	want := []uint16{PatPid, PmtPid, PIDAncillary, PIDAncillary}
	if got := dst.pids(); !equalPIDs(got, want) {
		t.Errorf("unexpected PID sequence, got: %v, want: %v", got, want)
	}
}

// TestPSIContent checks the generated PAT and PMT describe the configured
// stream.
func TestPSIContent(t *testing.T) {
	dst := &destination{}
	e, err := NewEncoder(nopCloser{dst}, (*logging.TestLogger)(t), StreamPID(0x101))
	if err != nil {
		t.Fatalf("could not create MTS encoder: %v", err)
	}
	_, err = e.Write([]byte{0x01})
	if err != nil {
		t.Fatalf("could not write data: %v", err)
	}

	progs, err := Programs(dst.packets[0])
	if err != nil {
		t.Fatalf("could not get programs: %v", err)
	}
	if progs[psi.ProgramNumber] != PmtPid {
		t.Errorf("unexpected program map: %v", progs)
	}

	streams, err := Streams(dst.packets[1])
	if err != nil {
		t.Fatalf("could not get streams: %v", err)
	}
	if len(streams) != 1 || streams[0].ElementaryPid() != 0x101 || streams[0].StreamType() != psi.StreamTypePrivatePES {
		t.Errorf("unexpected streams: %v", streams)
	}

	if pid, _ := PID(dst.packets[2]); pid != 0x101 {
		t.Errorf("unexpected stream PID: %#x", pid)
	}
}

func TestOptionErrors(t *testing.T) {
	tests := []struct {
		name   string
		option func(*Encoder) error
		want   error
	}{
		{name: "PAT PID", option: StreamPID(PatPid), want: ErrInvalidPID},
		{name: "PMT PID", option: StreamPID(PmtPid), want: ErrInvalidPID},
		{name: "null PID", option: StreamPID(0x1fff), want: ErrInvalidPID},
		{name: "zero send count", option: PacketBasedPSI(0), want: ErrInvalidSendCount},
	}
	for _, test := range tests {
		_, err := NewEncoder(nopCloser{&destination{}}, (*logging.TestLogger)(t), test.option)
		if !errors.Is(err, test.want) {
			t.Errorf("%s: unexpected error, got: %v, want: %v", test.name, err, test.want)
		}
	}
}
