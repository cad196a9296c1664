/*
NAME
  message.go

DESCRIPTION
  message.go provides parsing and serialization of SCTE-104 single and
  multiple operation messages.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package scte104 provides parsing and serialization of SCTE-104 automation
// messages as carried in ancillary data.
package scte104

import (
	"errors"
	"fmt"
)

// multipleOperationID is the opID marking a multiple operation message.
const multipleOperationID = 0xffff

// Fixed header sizes.
const (
	somHeaderLen = 13
	momHeaderLen = 10
)

// Errors returned when parsing or serializing messages.
var (
	ErrLengthExceedsBuffer = errors.New("declared length exceeds available data")
	ErrCapacity            = errors.New("field exceeds fixed maximum")
	ErrFieldRange          = errors.New("field value out of range")
	ErrFieldOrder          = errors.New("sub-segment fields require delivery restriction fields")
	ErrMessageTooShort     = errors.New("message too short")
	ErrTooManyOperations   = errors.New("too many operations")
	ErrMessageTooLarge     = errors.New("message too large")
)

// Message is an SCTE-104 message, either a *SingleOperationMessage or a
// *MultipleOperationMessage.
type Message interface {
	MarshalBinary() ([]byte, error)
	isMessage()
}

// SingleOperationMessage is a message carrying one operation whose data is
// kept as bytes.
type SingleOperationMessage struct {
	OpID            uint16
	Result          uint16
	ResultExtension uint16
	ProtocolVersion byte
	ASIndex         byte
	MessageNumber   byte
	DPIPIDIndex     uint16
	Data            []byte
}

func (*SingleOperationMessage) isMessage() {}

// MultipleOperationMessage is a message carrying a sequence of operations.
type MultipleOperationMessage struct {
	ProtocolVersion       byte
	ASIndex               byte
	MessageNumber         byte
	DPIPIDIndex           uint16
	SCTE35ProtocolVersion byte
	Timestamp             Timestamp // nil when no timestamp is given.
	Operations            []Operation
}

func (*MultipleOperationMessage) isMessage() {}

// AddOperation appends op to the message.
func (m *MultipleOperationMessage) AddOperation(op Operation) error {
	if len(m.Operations) == 0xff {
		return ErrTooManyOperations
	}
	m.Operations = append(m.Operations, op)
	return nil
}

// Parse parses the SCTE-104 message in b.
func Parse(b []byte) (Message, error) {
	if len(b) < 4 {
		return nil, ErrMessageTooShort
	}
	size := int(b[2])<<8 | int(b[3])
	if size > len(b) {
		return nil, ErrLengthExceedsBuffer
	}
	b = b[:size]

	if uint16(b[0])<<8|uint16(b[1]) == multipleOperationID {
		return parseMultiple(b)
	}
	return parseSingle(b)
}

func parseSingle(b []byte) (*SingleOperationMessage, error) {
	if len(b) < somHeaderLen {
		return nil, ErrMessageTooShort
	}
	r := newFieldReader(b)
	m := &SingleOperationMessage{OpID: r.u16()}
	r.u16() // message_size.
	m.Result = r.u16()
	m.ResultExtension = r.u16()
	m.ProtocolVersion = r.u8()
	m.ASIndex = r.u8()
	m.MessageNumber = r.u8()
	m.DPIPIDIndex = r.u16()
	m.Data = r.bytes(r.remaining())
	return m, r.err()
}

func parseMultiple(b []byte) (*MultipleOperationMessage, error) {
	if len(b) < momHeaderLen {
		return nil, ErrMessageTooShort
	}
	r := newFieldReader(b)
	r.u16() // Reserved.
	r.u16() // messageSize.
	m := &MultipleOperationMessage{
		ProtocolVersion:       r.u8(),
		ASIndex:               r.u8(),
		MessageNumber:         r.u8(),
		DPIPIDIndex:           r.u16(),
		SCTE35ProtocolVersion: r.u8(),
	}

	var err error
	m.Timestamp, err = readTimestamp(r)
	if err != nil {
		return nil, err
	}

	n := int(r.u8())
	if r.err() != nil {
		return nil, r.err()
	}
	for i := 0; i < n; i++ {
		id := r.u16()
		l := int(r.u16())
		if r.err() != nil {
			return nil, fmt.Errorf("could not read operation %d header: %w", i, r.err())
		}
		if l > r.remaining() {
			return nil, ErrLengthExceedsBuffer
		}
		data := r.bytes(l)
		op := newOperation(id)
		err := op.UnmarshalBinary(data)
		if err != nil {
			return nil, fmt.Errorf("could not unmarshal operation %#04x: %w", id, err)
		}
		m.Operations = append(m.Operations, op)
	}
	return m, nil
}

// MarshalBinary returns the wire form of m. The message_size field is
// computed from the data.
func (m *SingleOperationMessage) MarshalBinary() ([]byte, error) {
	if m.OpID == multipleOperationID {
		return nil, ErrFieldRange
	}
	w := newFieldWriter()
	w.u16(m.OpID)
	w.u16(0) // message_size, patched below.
	w.u16(m.Result)
	w.u16(m.ResultExtension)
	w.u8(m.ProtocolVersion)
	w.u8(m.ASIndex)
	w.u8(m.MessageNumber)
	w.u16(m.DPIPIDIndex)
	w.bytes(m.Data)
	if w.len() > 0xffff {
		return nil, ErrMessageTooLarge
	}
	w.patch16(2, uint16(w.len()))
	return w.result(), nil
}

// MarshalBinary returns the wire form of m. The messageSize field is
// computed from the data.
func (m *MultipleOperationMessage) MarshalBinary() ([]byte, error) {
	if len(m.Operations) > 0xff {
		return nil, ErrTooManyOperations
	}
	w := newFieldWriter()
	w.u16(multipleOperationID)
	w.u16(0) // messageSize, patched below.
	w.u8(m.ProtocolVersion)
	w.u8(m.ASIndex)
	w.u8(m.MessageNumber)
	w.u16(m.DPIPIDIndex)
	w.u8(m.SCTE35ProtocolVersion)
	err := writeTimestamp(w, m.Timestamp)
	if err != nil {
		return nil, err
	}
	w.u8(byte(len(m.Operations)))
	for _, op := range m.Operations {
		d, err := op.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("could not marshal operation %#04x: %w", op.OpID(), err)
		}
		if len(d) > 0xffff {
			return nil, ErrCapacity
		}
		w.u16(op.OpID())
		w.u16(uint16(len(d)))
		w.bytes(d)
	}
	if w.len() > 0xffff {
		return nil, ErrMessageTooLarge
	}
	w.patch16(2, uint16(w.len()))
	return w.result(), nil
}
