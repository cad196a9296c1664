/*
NAME
  message_test.go

DESCRIPTION
  message_test.go provides testing for SCTE-104 message parsing and
  serialization.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package scte104

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func spliceMessage() *MultipleOperationMessage {
	return &MultipleOperationMessage{
		Operations: []Operation{
			&SpliceRequest{
				SpliceInsertType: SpliceStartImmediate,
				SpliceEventID:    0x1234,
				UniqueProgramID:  0x4567,
				PreRollTime:      0,
				BreakDuration:    300,
				AvailNum:         1,
				AvailsExpected:   2,
				AutoReturnFlag:   1,
			},
			&InsertTier{Tier: 0x123},
		},
	}
}

func TestMultipleOperationBytes(t *testing.T) {
	got, err := spliceMessage().MarshalBinary()
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	want := []byte{
		0xff, 0xff, 0x00, 0x24, // Reserved, messageSize.
		0x00, 0x00, 0x00, 0x00, 0x00, // protocol_version, AS_index, message_number, DPI_PID_index.
		0x00,       // SCTE35_protocol_version.
		0x00,       // time_type.
		0x02,       // num_ops.
		0x01, 0x01, // opID.
		0x00, 0x0e, // data_length.
		0x02, 0x00, 0x00, 0x12, 0x34, 0x45, 0x67, 0x00, 0x00, 0x01, 0x2c, 0x01, 0x02, 0x01,
		0x01, 0x0d, // opID.
		0x00, 0x02, // data_length.
		0x01, 0x23,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("unexpected bytes.\nGot: %#v\nWant: %#v\n", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []Message{
		spliceMessage(),
		&MultipleOperationMessage{
			ProtocolVersion: 1,
			MessageNumber:   7,
			DPIPIDIndex:     0x100,
			Timestamp:       &UTCTimestamp{Seconds: 1234567, Microseconds: 999},
			Operations: []Operation{
				&TimeSignalRequest{PreRollTime: 4000},
				&InsertSegmentation{
					EventID:          42,
					Duration:         30,
					UPIDType:         0x09,
					UPID:             []byte("SIGNAL:abc"),
					TypeID:           0x34,
					SegmentNum:       1,
					SegmentsExpected: 1,
				},
				&InsertDTMF{PreRoll: 50, Chars: []byte("123*")},
				&InsertAvail{ProviderAvailIDs: []uint32{1, 2, 3}},
				&InsertDescriptor{Count: 1, Descriptors: []byte{0x02, 0x04, 'C', 'U', 'E', 'I'}},
				&ProprietaryCommand{ProprietaryID: 0xdeadbeef, Command: 3, Data: []byte{9, 8}},
				&InsertTimeDescriptor{TAISeconds: 1 << 40, TAINanos: 500, UTCOffset: 37},
				&RawOperation{ID: OpSpliceNull},
			},
		},
		&MultipleOperationMessage{
			Timestamp: &VITCTimestamp{Hours: 1, Minutes: 2, Seconds: 3, Frames: 4},
			Operations: []Operation{
				&InsertSegmentation{
					EventID:               7,
					UPID:                  []byte{},
					HasDelivery:           true,
					WebDeliveryAllowed:    1,
					ArchiveAllowed:        1,
					DeviceRestrictions:    3,
					HasSubSegment:         true,
					InsertSubSegment:      1,
					SubSegmentNum:         2,
					SubSegmentsExpected:   4,
					DeliveryNotRestricted: 0,
				},
			},
		},
		&MultipleOperationMessage{Timestamp: &GPITimestamp{Number: 2, Edge: 1}},
		&SingleOperationMessage{OpID: 0x0007, Result: 100, MessageNumber: 3, Data: []byte{1, 2, 3}},
	}

	for i, m := range tests {
		b, err := m.MarshalBinary()
		if err != nil {
			t.Fatalf("did not expect error marshalling test %d: %v", i, err)
		}
		got, err := Parse(b)
		if err != nil {
			t.Fatalf("did not expect error parsing test %d: %v", i, err)
		}
		if !cmp.Equal(got, m) {
			t.Errorf("round trip mismatch for test %d: %s", i, cmp.Diff(m, got))
		}
	}
}

func TestParseErrors(t *testing.T) {
	good, err := spliceMessage().MarshalBinary()
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	// Declared operation length longer than the remaining data.
	longOp := append([]byte(nil), good...)
	longOp[15] = 0x40

	// messageSize longer than the buffer.
	longMsg := append([]byte(nil), good...)
	longMsg[3] = 0xff

	// Unknown timestamp type.
	badTime := append([]byte(nil), good...)
	badTime[10] = 9

	// DTMF length beyond maximum.
	dtmf := &MultipleOperationMessage{Operations: []Operation{&RawOperation{ID: OpInsertDTMF, Data: []byte{0, 8, 1, 2, 3, 4, 5, 6, 7, 8}}}}
	badDTMF, err := dtmf.MarshalBinary()
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	tests := []struct {
		in   []byte
		want error
	}{
		{in: good[:3], want: ErrMessageTooShort},
		{in: longOp, want: ErrLengthExceedsBuffer},
		{in: longMsg, want: ErrLengthExceedsBuffer},
		{in: badTime, want: ErrTimeType},
		{in: badDTMF, want: ErrCapacity},
	}
	for i, test := range tests {
		_, err := Parse(test.in)
		if !errors.Is(err, test.want) {
			t.Errorf("unexpected error for test %d.\nGot: %v\nWant: %v\n", i, err, test.want)
		}
	}
}

func TestMarshalCapacity(t *testing.T) {
	m := &MultipleOperationMessage{Operations: []Operation{&InsertDTMF{Chars: []byte("12345678")}}}
	_, err := m.MarshalBinary()
	if !errors.Is(err, ErrCapacity) {
		t.Errorf("expected ErrCapacity, got: %v", err)
	}
}

func TestMarshalTierRange(t *testing.T) {
	m := &MultipleOperationMessage{Operations: []Operation{&InsertTier{Tier: 0x1000}}}
	_, err := m.MarshalBinary()
	if !errors.Is(err, ErrFieldRange) {
		t.Errorf("expected ErrFieldRange, got: %v", err)
	}

	m.Operations[0] = &InsertTier{Tier: 0xfff}
	if _, err := m.MarshalBinary(); err != nil {
		t.Errorf("unexpected error for largest tier: %v", err)
	}
}
