/*
NAME
  psi_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package psi

import (
	"bytes"
	"testing"

	gotspsi "github.com/Comcast/gots/v2/psi"
)

// err message
const errCmp = "Incorrect output, for: %v \nwant: %v, \ngot:  %v"

var (
	// standardPatBytes is a minimal PAT without its CRC.
	standardPatBytes = []byte{
		0x00, 0x00, 0xb0, 0x0d, 0x00, 0x01, 0xc1, 0x00, 0x00,
		0x00, 0x01, 0xf0, 0x00,
	}

	// vancPmtBytes is the PMT for a private data stream on PID 0x100 with a
	// VANC registration descriptor, without its CRC.
	vancPmtBytes = []byte{
		0x00, 0x02, 0xb0, 0x18, 0x00, 0x01, 0xc1, 0x00, 0x00,
		0xff, 0xff, 0xf0, 0x00,
		0x06, 0xe1, 0x00, 0xf0, 0x06,
		0x05, 0x04, 'V', 'A', 'N', 'C',
	}
)

func TestBytes(t *testing.T) {
	tests := []struct {
		name  string
		input *PSI
		want  []byte
	}{
		{
			name:  "pat",
			input: NewPATPSI(),
			want:  standardPatBytes,
		},
		{
			name:  "pmt with registration",
			input: NewPMTPSI(0x100, StreamTypePrivatePES, Registration("VANC")),
			want:  vancPmtBytes,
		},
	}

	for _, test := range tests {
		got := test.input.Bytes()
		if len(got) != len(test.want)+crcSize {
			t.Errorf("%s: unexpected length, want: %d, got: %d", test.name, len(test.want)+crcSize, len(got))
			continue
		}
		if !bytes.Equal(got[:len(test.want)], test.want) {
			t.Errorf(errCmp, test.name, test.want, got)
		}

		// Running the CRC over a section and its CRC leaves no remainder.
		if crc := update(0xffffffff, mpegTable, got[1:]); crc != 0 {
			t.Errorf("%s: CRC check failed, residue: %#x", test.name, crc)
		}
	}
}

func TestRegistration(t *testing.T) {
	d := Registration("VANC")
	want := []byte{RegistrationTag, 0x04, 'V', 'A', 'N', 'C'}
	if got := d.Bytes(); !bytes.Equal(got, want) {
		t.Errorf(errCmp, "Registration", want, got)
	}

	// Short identifiers are zero padded.
	d = Registration("AB")
	want = []byte{RegistrationTag, 0x04, 'A', 'B', 0x00, 0x00}
	if got := d.Bytes(); !bytes.Equal(got, want) {
		t.Errorf(errCmp, "Registration", want, got)
	}
}

func TestAddPadding(t *testing.T) {
	got := AddPadding([]byte{0x01, 0x02})
	if len(got) != PacketSize {
		t.Fatalf("unexpected length: %d", len(got))
	}
	if got[0] != 0x01 || got[1] != 0x02 {
		t.Errorf("content not retained: %v", got[:2])
	}
	for i, b := range got[2:] {
		if b != 0xff {
			t.Fatalf("byte %d not padding: %#x", i+2, b)
		}
	}
}

// TestGotsParse checks that the tables are understood by an independent
// demuxer.
func TestGotsParse(t *testing.T) {
	pat, err := gotspsi.NewPAT(AddPadding(NewPATPSI().Bytes()))
	if err != nil {
		t.Fatalf("could not parse PAT: %v", err)
	}
	if pid, ok := pat.ProgramMap()[ProgramNumber]; !ok || pid != PmtPID {
		t.Errorf("unexpected program map: %v", pat.ProgramMap())
	}

	pmt, err := gotspsi.NewPMT(AddPadding(NewPMTPSI(0x100, StreamTypePrivatePES).Bytes()))
	if err != nil {
		t.Fatalf("could not parse PMT: %v", err)
	}
	es := pmt.ElementaryStreams()
	if len(es) != 1 {
		t.Fatalf("unexpected number of streams: %d", len(es))
	}
	if es[0].StreamType() != StreamTypePrivatePES || es[0].ElementaryPid() != 0x100 {
		t.Errorf("unexpected stream: type %#x, pid %#x", es[0].StreamType(), es[0].ElementaryPid())
	}
}
