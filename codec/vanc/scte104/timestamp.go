/*
NAME
  timestamp.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package scte104

import "errors"

// Timestamp time types.
const (
	TimeNone = 0
	TimeUTC  = 1
	TimeVITC = 2
	TimeGPI  = 3
)

var ErrTimeType = errors.New("invalid timestamp time_type")

// Timestamp is a multiple operation message timestamp: a *UTCTimestamp,
// *VITCTimestamp or *GPITimestamp.
type Timestamp interface {
	TimeType() byte
}

// UTCTimestamp is a GPS time based timestamp.
type UTCTimestamp struct {
	Seconds      uint32
	Microseconds uint16
}

func (*UTCTimestamp) TimeType() byte { return TimeUTC }

// VITCTimestamp is a SMPTE VITC timestamp.
type VITCTimestamp struct {
	Hours   byte
	Minutes byte
	Seconds byte
	Frames  byte
}

func (*VITCTimestamp) TimeType() byte { return TimeVITC }

// GPITimestamp is a general purpose interface trigger.
type GPITimestamp struct {
	Number byte
	Edge   byte
}

func (*GPITimestamp) TimeType() byte { return TimeGPI }

func readTimestamp(r *fieldReader) (Timestamp, error) {
	switch r.u8() {
	case TimeNone:
		return nil, r.err()
	case TimeUTC:
		return &UTCTimestamp{Seconds: r.u32(), Microseconds: r.u16()}, r.err()
	case TimeVITC:
		return &VITCTimestamp{Hours: r.u8(), Minutes: r.u8(), Seconds: r.u8(), Frames: r.u8()}, r.err()
	case TimeGPI:
		return &GPITimestamp{Number: r.u8(), Edge: r.u8()}, r.err()
	default:
		if r.err() != nil {
			return nil, r.err()
		}
		return nil, ErrTimeType
	}
}

func writeTimestamp(w *fieldWriter, ts Timestamp) error {
	if ts == nil {
		w.u8(TimeNone)
		return nil
	}
	w.u8(ts.TimeType())
	switch t := ts.(type) {
	case *UTCTimestamp:
		w.u32(t.Seconds)
		w.u16(t.Microseconds)
	case *VITCTimestamp:
		w.u8(t.Hours)
		w.u8(t.Minutes)
		w.u8(t.Seconds)
		w.u8(t.Frames)
	case *GPITimestamp:
		w.u8(t.Number)
		w.u8(t.Edge)
	default:
		return ErrTimeType
	}
	return nil
}
