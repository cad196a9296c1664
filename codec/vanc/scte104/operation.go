/*
NAME
  operation.go

DESCRIPTION
  operation.go provides the SCTE-104 operations that may be carried in a
  multiple operation message.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package scte104

// Operation IDs.
const (
	OpSpliceRequest        uint16 = 0x0101
	OpSpliceNull           uint16 = 0x0102
	OpTimeSignalRequest    uint16 = 0x0104
	OpInsertDescriptor     uint16 = 0x0108
	OpInsertDTMF           uint16 = 0x0109
	OpInsertAvail          uint16 = 0x010a
	OpInsertSegmentation   uint16 = 0x010b
	OpProprietaryCommand   uint16 = 0x010c
	OpInsertTier           uint16 = 0x010d
	OpInsertTimeDescriptor uint16 = 0x010e
)

// Splice insert types.
const (
	SpliceStartNormal    = 1
	SpliceStartImmediate = 2
	SpliceEndNormal      = 3
	SpliceEndImmediate   = 4
	SpliceCancel         = 5
)

// Fixed maxima for variable length operation fields.
const (
	MaxDTMFLength       = 7
	MaxUPIDLength       = 255
	MaxDescriptorLength = 255
)

// Operation is a single operation of a multiple operation message. Its
// MarshalBinary and UnmarshalBinary methods handle the operation data only,
// not the opID and data_length fields preceding it.
type Operation interface {
	OpID() uint16
	MarshalBinary() ([]byte, error)
	UnmarshalBinary([]byte) error
}

// newOperation returns an empty operation for id, or a *RawOperation if the
// id is not one this package decodes.
func newOperation(id uint16) Operation {
	switch id {
	case OpSpliceRequest:
		return &SpliceRequest{}
	case OpTimeSignalRequest:
		return &TimeSignalRequest{}
	case OpInsertDescriptor:
		return &InsertDescriptor{}
	case OpInsertDTMF:
		return &InsertDTMF{}
	case OpInsertAvail:
		return &InsertAvail{}
	case OpInsertSegmentation:
		return &InsertSegmentation{}
	case OpProprietaryCommand:
		return &ProprietaryCommand{}
	case OpInsertTier:
		return &InsertTier{}
	case OpInsertTimeDescriptor:
		return &InsertTimeDescriptor{}
	default:
		return &RawOperation{ID: id}
	}
}

// SpliceRequest is a splice_request_data operation.
type SpliceRequest struct {
	SpliceInsertType byte
	SpliceEventID    uint32
	UniqueProgramID  uint16
	PreRollTime      uint16 // Milliseconds.
	BreakDuration    uint16 // Tenths of a second.
	AvailNum         byte
	AvailsExpected   byte
	AutoReturnFlag   byte
}

func (o *SpliceRequest) OpID() uint16 { return OpSpliceRequest }

func (o *SpliceRequest) MarshalBinary() ([]byte, error) {
	w := newFieldWriter()
	w.u8(o.SpliceInsertType)
	w.u32(o.SpliceEventID)
	w.u16(o.UniqueProgramID)
	w.u16(o.PreRollTime)
	w.u16(o.BreakDuration)
	w.u8(o.AvailNum)
	w.u8(o.AvailsExpected)
	w.u8(o.AutoReturnFlag)
	return w.result(), nil
}

func (o *SpliceRequest) UnmarshalBinary(b []byte) error {
	r := newFieldReader(b)
	o.SpliceInsertType = r.u8()
	o.SpliceEventID = r.u32()
	o.UniqueProgramID = r.u16()
	o.PreRollTime = r.u16()
	o.BreakDuration = r.u16()
	o.AvailNum = r.u8()
	o.AvailsExpected = r.u8()
	o.AutoReturnFlag = r.u8()
	return r.err()
}

// TimeSignalRequest is a time_signal_request_data operation.
type TimeSignalRequest struct {
	PreRollTime uint16
}

func (o *TimeSignalRequest) OpID() uint16 { return OpTimeSignalRequest }

func (o *TimeSignalRequest) MarshalBinary() ([]byte, error) {
	return []byte{byte(o.PreRollTime >> 8), byte(o.PreRollTime)}, nil
}

func (o *TimeSignalRequest) UnmarshalBinary(b []byte) error {
	r := newFieldReader(b)
	o.PreRollTime = r.u16()
	return r.err()
}

// InsertDescriptor is an insert_descriptor_request_data operation carrying
// complete SCTE-35 splice descriptors.
type InsertDescriptor struct {
	Count       byte
	Descriptors []byte
}

func (o *InsertDescriptor) OpID() uint16 { return OpInsertDescriptor }

func (o *InsertDescriptor) MarshalBinary() ([]byte, error) {
	if len(o.Descriptors) > MaxDescriptorLength {
		return nil, ErrCapacity
	}
	return append([]byte{o.Count}, o.Descriptors...), nil
}

func (o *InsertDescriptor) UnmarshalBinary(b []byte) error {
	r := newFieldReader(b)
	o.Count = r.u8()
	if r.remaining() > MaxDescriptorLength {
		return ErrCapacity
	}
	o.Descriptors = r.bytes(r.remaining())
	return r.err()
}

// InsertDTMF is an insert_DTMF_descriptor_request_data operation.
type InsertDTMF struct {
	PreRoll byte // Tenths of a second.
	Chars   []byte
}

func (o *InsertDTMF) OpID() uint16 { return OpInsertDTMF }

func (o *InsertDTMF) MarshalBinary() ([]byte, error) {
	if len(o.Chars) > MaxDTMFLength {
		return nil, ErrCapacity
	}
	return append([]byte{o.PreRoll, byte(len(o.Chars))}, o.Chars...), nil
}

func (o *InsertDTMF) UnmarshalBinary(b []byte) error {
	r := newFieldReader(b)
	o.PreRoll = r.u8()
	n := int(r.u8())
	if n > MaxDTMFLength {
		return ErrCapacity
	}
	o.Chars = r.bytes(n)
	return r.err()
}

// InsertAvail is an insert_avail_descriptor_request_data operation.
type InsertAvail struct {
	ProviderAvailIDs []uint32
}

func (o *InsertAvail) OpID() uint16 { return OpInsertAvail }

func (o *InsertAvail) MarshalBinary() ([]byte, error) {
	if len(o.ProviderAvailIDs) > 0xff {
		return nil, ErrCapacity
	}
	w := newFieldWriter()
	w.u8(byte(len(o.ProviderAvailIDs)))
	for _, id := range o.ProviderAvailIDs {
		w.u32(id)
	}
	return w.result(), nil
}

func (o *InsertAvail) UnmarshalBinary(b []byte) error {
	r := newFieldReader(b)
	n := int(r.u8())
	if r.err() == nil && n*4 > r.remaining() {
		return ErrLengthExceedsBuffer
	}
	o.ProviderAvailIDs = make([]uint32, n)
	for i := range o.ProviderAvailIDs {
		o.ProviderAvailIDs[i] = r.u32()
	}
	return r.err()
}

// InsertSegmentation is an insert_segmentation_descriptor_request_data
// operation. The delivery restriction and sub-segment fields were added in
// later revisions and are only present on the wire when the corresponding
// Has field is set.
type InsertSegmentation struct {
	EventID               uint32
	EventCancel           byte
	Duration              uint16 // Seconds.
	UPIDType              byte
	UPID                  []byte
	TypeID                byte
	SegmentNum            byte
	SegmentsExpected      byte
	DuplicateUPID         byte
	HasDelivery           bool
	DeliveryNotRestricted byte
	WebDeliveryAllowed    byte
	NoRegionalBlackout    byte
	ArchiveAllowed        byte
	DeviceRestrictions    byte
	HasSubSegment         bool
	InsertSubSegment      byte
	SubSegmentNum         byte
	SubSegmentsExpected   byte
}

func (o *InsertSegmentation) OpID() uint16 { return OpInsertSegmentation }

func (o *InsertSegmentation) MarshalBinary() ([]byte, error) {
	if len(o.UPID) > MaxUPIDLength {
		return nil, ErrCapacity
	}
	if o.HasSubSegment && !o.HasDelivery {
		return nil, ErrFieldOrder
	}
	w := newFieldWriter()
	w.u32(o.EventID)
	w.u8(o.EventCancel)
	w.u16(o.Duration)
	w.u8(o.UPIDType)
	w.u8(byte(len(o.UPID)))
	w.bytes(o.UPID)
	w.u8(o.TypeID)
	w.u8(o.SegmentNum)
	w.u8(o.SegmentsExpected)
	w.u8(o.DuplicateUPID)
	if o.HasDelivery {
		w.u8(o.DeliveryNotRestricted)
		w.u8(o.WebDeliveryAllowed)
		w.u8(o.NoRegionalBlackout)
		w.u8(o.ArchiveAllowed)
		w.u8(o.DeviceRestrictions)
	}
	if o.HasSubSegment {
		w.u8(o.InsertSubSegment)
		w.u8(o.SubSegmentNum)
		w.u8(o.SubSegmentsExpected)
	}
	return w.result(), nil
}

func (o *InsertSegmentation) UnmarshalBinary(b []byte) error {
	r := newFieldReader(b)
	o.EventID = r.u32()
	o.EventCancel = r.u8()
	o.Duration = r.u16()
	o.UPIDType = r.u8()
	o.UPID = r.bytes(int(r.u8()))
	o.TypeID = r.u8()
	o.SegmentNum = r.u8()
	o.SegmentsExpected = r.u8()
	o.DuplicateUPID = r.u8()
	if r.err() != nil {
		return r.err()
	}
	if r.remaining() >= 5 {
		o.HasDelivery = true
		o.DeliveryNotRestricted = r.u8()
		o.WebDeliveryAllowed = r.u8()
		o.NoRegionalBlackout = r.u8()
		o.ArchiveAllowed = r.u8()
		o.DeviceRestrictions = r.u8()
	}
	if r.remaining() >= 3 {
		o.HasSubSegment = true
		o.InsertSubSegment = r.u8()
		o.SubSegmentNum = r.u8()
		o.SubSegmentsExpected = r.u8()
	}
	return r.err()
}

// ProprietaryCommand is a proprietary_command_request_data operation.
type ProprietaryCommand struct {
	ProprietaryID uint32
	Command       byte
	Data          []byte
}

func (o *ProprietaryCommand) OpID() uint16 { return OpProprietaryCommand }

func (o *ProprietaryCommand) MarshalBinary() ([]byte, error) {
	w := newFieldWriter()
	w.u32(o.ProprietaryID)
	w.u8(o.Command)
	w.bytes(o.Data)
	return w.result(), nil
}

func (o *ProprietaryCommand) UnmarshalBinary(b []byte) error {
	r := newFieldReader(b)
	o.ProprietaryID = r.u32()
	o.Command = r.u8()
	o.Data = r.bytes(r.remaining())
	return r.err()
}

const maxTier = 0xfff

// InsertTier is an insert_tier_data operation. Tier is a 12 bit value.
type InsertTier struct {
	Tier uint16
}

func (o *InsertTier) OpID() uint16 { return OpInsertTier }

func (o *InsertTier) MarshalBinary() ([]byte, error) {
	if o.Tier > maxTier {
		return nil, ErrFieldRange
	}
	return []byte{byte(o.Tier >> 8), byte(o.Tier)}, nil
}

func (o *InsertTier) UnmarshalBinary(b []byte) error {
	r := newFieldReader(b)
	o.Tier = r.u16()
	return r.err()
}

// InsertTimeDescriptor is an insert_time_descriptor operation.
type InsertTimeDescriptor struct {
	TAISeconds uint64 // 48 bits.
	TAINanos   uint32
	UTCOffset  uint16
}

func (o *InsertTimeDescriptor) OpID() uint16 { return OpInsertTimeDescriptor }

func (o *InsertTimeDescriptor) MarshalBinary() ([]byte, error) {
	if o.TAISeconds >= 1<<48 {
		return nil, ErrFieldRange
	}
	w := newFieldWriter()
	w.bw.WriteBits(o.TAISeconds, 48)
	w.u32(o.TAINanos)
	w.u16(o.UTCOffset)
	return w.result(), nil
}

func (o *InsertTimeDescriptor) UnmarshalBinary(b []byte) error {
	r := newFieldReader(b)
	o.TAISeconds = r.readBits(48)
	o.TAINanos = r.u32()
	o.UTCOffset = r.u16()
	return r.err()
}

// RawOperation is an operation this package does not decode.
type RawOperation struct {
	ID   uint16
	Data []byte
}

func (o *RawOperation) OpID() uint16 { return o.ID }

func (o *RawOperation) MarshalBinary() ([]byte, error) { return o.Data, nil }

func (o *RawOperation) UnmarshalBinary(b []byte) error {
	o.Data = append([]byte(nil), b...)
	return nil
}
