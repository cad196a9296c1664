/*
DESCRIPTION
  options.go provides option functions that can be provided to the MTS encoders
  constructor NewEncoder for encoder configuration. These options include the
  PSI insertion strategy and the elementary stream PID.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mts

import (
	"errors"
	"time"
)

var (
	ErrInvalidPID       = errors.New("invalid elementary stream PID")
	ErrInvalidSendCount = errors.New("invalid PSI send count")
)

// Lowest and highest PIDs available to an elementary stream.
const (
	minStreamPID = 0x0010
	maxStreamPID = 0x1ffe
)

// PacketBasedPSI is an option that can be passed to NewEncoder to select
// packet based PSI writing, i.e. PSI are written to the destination before the
// next PES packet once sendCount packets, including PSI, have been written.
func PacketBasedPSI(sendCount int) func(*Encoder) error {
	return func(e *Encoder) error {
		if sendCount < 1 {
			return ErrInvalidSendCount
		}
		e.psiMethod = psiMethodPacket
		e.psiSendCount = sendCount
		e.pktCount = e.psiSendCount
		e.log.Debug("configured for packet based PSI insertion", "count", sendCount)
		return nil
	}
}

// TimeBasedPSI is another option that can be passed to NewEncoder to select
// time based PSI writing, i.e. PSI are written to the destination every dur
// (duration).
func TimeBasedPSI(dur time.Duration) func(*Encoder) error {
	return func(e *Encoder) error {
		e.psiMethod = psiMethodTime
		e.psiTime = 0
		e.psiSetTime = dur
		e.startTime = time.Now()
		e.log.Debug("configured for time based PSI insertion", "period", dur)
		return nil
	}
}

// StreamPID is an option that can be passed to NewEncoder to set the PID of the
// elementary stream. The PAT and PMT PIDs and the null PID are not allowed.
func StreamPID(pid uint16) func(*Encoder) error {
	return func(e *Encoder) error {
		if pid < minStreamPID || pid > maxStreamPID || pid == PmtPid {
			return ErrInvalidPID
		}
		e.pid = pid
		e.log.Debug("configured elementary stream PID", "PID", pid)
		return nil
	}
}

// Registration is an option that can be passed to NewEncoder to set the
// format identifier of the registration descriptor announced in the PMT. An
// empty id omits the descriptor.
func Registration(id string) func(*Encoder) error {
	return func(e *Encoder) error {
		e.registration = id
		return nil
	}
}
