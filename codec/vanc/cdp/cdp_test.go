/*
NAME
  cdp_test.go

DESCRIPTION
  cdp_test.go provides testing for CDP parsing and serialization.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package cdp

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBytes(t *testing.T) {
	c := &CDP{
		FrameRate:            Rate29_97,
		CaptionServiceActive: true,
		Sequence:             0x1234,
		CCData: []CC{
			{Valid: true, Type: 0, Data: [2]byte{0x94, 0x20}},
			{Valid: false, Type: 1, Data: [2]byte{0x80, 0x80}},
		},
	}
	got, err := c.Bytes()
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	want := []byte{
		0x96, 0x69, 0x13, 0x4f, 0x43, 0x12, 0x34,
		0x72, 0xe2,
		0xfc, 0x94, 0x20,
		0xf9, 0x80, 0x80,
		0x74, 0x12, 0x34, 0x00,
	}
	want[len(want)-1] = -byteSum(want)
	if !bytes.Equal(got, want) {
		t.Errorf("unexpected bytes.\nGot: %#v\nWant: %#v\n", got, want)
	}
	if byteSum(got) != 0 {
		t.Errorf("checksum does not zero packet sum")
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []*CDP{
		{
			FrameRate: Rate25,
			Sequence:  1,
			TimeCode:  &TimeCode{Hours: 23, Minutes: 59, Seconds: 58, Frames: 24, Field: true, DropFrame: false},
			CCData:    []CC{{Valid: true, Type: 2, Data: [2]byte{0x01, 0x02}}},
			ServiceInfo: &ServiceInfo{
				Start:    true,
				Complete: true,
				Services: []Service{
					{ServiceNumber: 1, Language: [3]byte{'e', 'n', 'g'}, DigitalCC: true, CaptionServiceNumber: 1, EasyReader: true},
					{CSNSize: true, ServiceNumber: 3, Language: [3]byte{'s', 'p', 'a'}, Line21Field: true, WideAspectRatio: true},
				},
			},
			Future: []FutureSection{{ID: 0x80, Data: []byte{0xaa, 0xbb}}},
		},
		{FrameRate: Rate60, Sequence: 0xffff, CCData: []CC{}},
		{FrameRate: Rate23_976, TimeCode: &TimeCode{Hours: 1, Minutes: 2, Seconds: 3, Frames: 4, DropFrame: true}},
	}

	for i, c := range tests {
		b, err := c.Bytes()
		if err != nil {
			t.Fatalf("did not expect error for test %d: %v", i, err)
		}
		got, err := Parse(b)
		if err != nil {
			t.Fatalf("did not expect error parsing test %d: %v", i, err)
		}
		c.FooterSequence = c.Sequence
		c.ChecksumOK = true
		if !cmp.Equal(got, c) {
			t.Errorf("round trip mismatch for test %d: %s", i, cmp.Diff(c, got))
		}
	}
}

func TestParseChecksumFailure(t *testing.T) {
	c := &CDP{FrameRate: Rate30, CCData: []CC{{Valid: true, Data: [2]byte{0x41, 0x42}}}}
	b, err := c.Bytes()
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	b[len(b)-1]++
	got, err := Parse(b)
	if err != nil {
		t.Fatalf("checksum failure should not be an error: %v", err)
	}
	if got.ChecksumOK {
		t.Error("expected ChecksumOK to be false")
	}
	if len(got.CCData) != 1 || got.CCData[0].Data != [2]byte{0x41, 0x42} {
		t.Errorf("unexpected cc data: %v", got.CCData)
	}
}

// TestParseMissingSection checks that a section flagged present but not found
// leaves it and the following sections absent.
func TestParseMissingSection(t *testing.T) {
	c := &CDP{FrameRate: Rate30, CCData: []CC{{Valid: true}}}
	b, err := c.Bytes()
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	b[4] |= 0x80 // Flag a time code section that is not there.
	got, err := Parse(b)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	if got.TimeCode != nil {
		t.Error("expected time code to be absent")
	}
	if got.CCData == nil {
		t.Error("expected cc data to be present")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in   []byte
		want error
	}{
		{in: []byte{0x96, 0x69}, want: ErrShort},
		{in: []byte{0x96, 0x68, 0x07, 0x4f, 0x43, 0x00, 0x00}, want: ErrBadIdentifier},
		{in: []byte{0x96, 0x69, 0x20, 0x4f, 0x43, 0x00, 0x00}, want: ErrShort},
	}
	for i, test := range tests {
		_, err := Parse(test.in)
		if !errors.Is(err, test.want) {
			t.Errorf("unexpected error for test %d.\nGot: %v\nWant: %v\n", i, err, test.want)
		}
	}
}

func TestBytesCapacity(t *testing.T) {
	tests := []struct {
		name string
		cdp  *CDP
		want error
	}{
		{
			name: "too many cc",
			cdp:  &CDP{CCData: make([]CC, MaxCCCount+1)},
			want: ErrCapacity,
		},
		{
			name: "too many services",
			cdp:  &CDP{ServiceInfo: &ServiceInfo{Services: make([]Service, MaxServices+1)}},
			want: ErrCapacity,
		},
		{
			name: "cc type",
			cdp:  &CDP{CCData: []CC{{Valid: true, Type: 6}}},
			want: ErrFieldRange,
		},
		{
			name: "5 bit service number",
			cdp:  &CDP{ServiceInfo: &ServiceInfo{Services: []Service{{CSNSize: true, ServiceNumber: 40}}}},
			want: ErrFieldRange,
		},
		{
			name: "6 bit service number",
			cdp:  &CDP{ServiceInfo: &ServiceInfo{Services: []Service{{ServiceNumber: 64}}}},
			want: ErrFieldRange,
		},
		{
			name: "digital caption service number",
			cdp:  &CDP{ServiceInfo: &ServiceInfo{Services: []Service{{ServiceNumber: 1, DigitalCC: true, CaptionServiceNumber: 70}}}},
			want: ErrFieldRange,
		},
	}

	for _, test := range tests {
		_, err := test.cdp.Bytes()
		if !errors.Is(err, test.want) {
			t.Errorf("%s: expected %v, got: %v", test.name, test.want, err)
		}
	}

	// Largest values in range are accepted.
	c := &CDP{
		CCData:      []CC{{Valid: true, Type: 3}},
		ServiceInfo: &ServiceInfo{Services: []Service{{ServiceNumber: 63, DigitalCC: true, CaptionServiceNumber: 63}}},
	}
	if _, err := c.Bytes(); err != nil {
		t.Errorf("unexpected error for values in range: %v", err)
	}
}

func TestField1(t *testing.T) {
	c := &CDP{CCData: []CC{
		{Valid: true, Type: 0, Data: [2]byte{0x94, 0x2c}},
		{Valid: true, Type: 1, Data: [2]byte{0x01, 0x02}},
		{Valid: false, Type: 0, Data: [2]byte{0x03, 0x04}},
		{Valid: true, Type: 0, Data: [2]byte{0xc1, 0xc2}},
	}}
	got := Field1(c)
	want := []uint16{0x942c, 0xc1c2}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected pairs.\nGot: %v\nWant: %v\n", got, want)
	}
}
