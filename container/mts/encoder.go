/*
NAME
  encoder.go

DESCRIPTION
  encoder.go provides an Encoder that segments complete PES packets into
  MPEG-TS packets on a single elementary PID, interleaving program specific
  information.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mts

import (
	"fmt"
	"io"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/ausocean/vanc/container/mts/psi"
)

// These constants are used to select between the different methods of when
// the PSI is sent.
const (
	psiMethodPacket = iota // PSI is inserted after a certain number of packets.
	psiMethodTime          // PSI is inserted after a certain amount of time.
)

// PIDAncillary is the default program ID of the ancillary data stream.
const PIDAncillary = 256

// Time-related constants.
const (
	// PTSFrequency is the presentation timestamp frequency in Hz.
	PTSFrequency = 90000

	// MaxPTS is the largest PTS value (i.e., for a 33-bit unsigned integer).
	MaxPTS = (1 << 33) - 1
)

// Default encoder configuration parameters.
const (
	defaultPSIMethod    = psiMethodPacket
	defaultPSISendCount = 7
	defaultRegistration = "VANC"
)

// Encoder encapsulates properties of an MPEG-TS generator.
type Encoder struct {
	dst io.WriteCloser

	tsSpace [PacketSize]byte

	continuity map[uint16]byte

	psiMethod    int
	pktCount     int
	psiSendCount int
	psiTime      time.Duration
	psiSetTime   time.Duration
	startTime    time.Time
	pid          uint16
	streamType   byte
	registration string

	patBytes, pmtBytes []byte

	// log is a function that will be used through the encoder code for logging.
	log logging.Logger
}

// NewEncoder returns an Encoder writing MPEG-TS to dst. By default the stream
// is carried on PIDAncillary as private PES data and PSI is written every 7
// packets.
func NewEncoder(dst io.WriteCloser, log logging.Logger, options ...func(*Encoder) error) (*Encoder, error) {
	e := &Encoder{
		dst:          dst,
		psiMethod:    defaultPSIMethod,
		psiSendCount: defaultPSISendCount,
		pktCount:     defaultPSISendCount,
		pid:          PIDAncillary,
		streamType:   psi.StreamTypePrivatePES,
		registration: defaultRegistration,
		log:          log,
		patBytes:     psi.NewPATPSI().Bytes(),
	}

	for _, option := range options {
		err := option(e)
		if err != nil {
			return nil, fmt.Errorf("option failed with error: %w", err)
		}
	}
	log.Debug("encoder options applied", "PID", e.pid)

	e.continuity = map[uint16]byte{PatPid: 0, PmtPid: 0, e.pid: 0}
	var descs []psi.Descriptor
	if e.registration != "" {
		descs = append(descs, psi.Registration(e.registration))
	}
	e.pmtBytes = psi.NewPMTPSI(e.pid, e.streamType, descs...).Bytes()

	return e, nil
}

// Write implements io.Writer. Write takes one complete PES packet and
// segments it into MPEG-TS packets, writing them to the encoder's
// destination. Only the first packet has the payload unit start indicator
// set and the last is filled with 0xff.
func (e *Encoder) Write(pes []byte) (int, error) {
	e.log.Debug("writing data", "len(data)", len(pes))
	switch e.psiMethod {
	case psiMethodPacket:
		e.log.Debug("checking packet no. conditions for PSI write", "count", e.pktCount, "PSI count", e.psiSendCount)
		if e.pktCount >= e.psiSendCount {
			e.pktCount = 0
			err := e.writePSI()
			if err != nil {
				return 0, fmt.Errorf("could not write psi (psiMethodPacket): %w", err)
			}
		}
	case psiMethodTime:
		dur := time.Since(e.startTime)
		e.log.Debug("checking time conditions for PSI write")
		if dur >= e.psiTime {
			e.psiTime = e.psiSetTime
			e.startTime = time.Now()
			err := e.writePSI()
			if err != nil {
				return 0, fmt.Errorf("could not write psi (psiMethodTime): %w", err)
			}
		}
	default:
		panic("undefined PSI method")
	}

	buf := pes
	pusi := true
	for len(buf) != 0 {
		pkt := Packet{
			PUSI: pusi,
			PID:  e.pid,
			CC:   e.ccFor(e.pid),
		}
		n := pkt.FillPayload(buf)
		buf = buf[n:]
		pusi = false

		b := pkt.Bytes(e.tsSpace[:PacketSize])
		e.log.Debug("writing MTS packet to destination", "size", len(b), "pusi", pkt.PUSI, "PID", pkt.PID, "CC", pkt.CC)
		_, err := e.dst.Write(b)
		if err != nil {
			return len(pes), fmt.Errorf("could not write MTS packet to destination: %w", err)
		}
		e.pktCount++
	}

	return len(pes), nil
}

// writePSI writes MPEG-TS packets carrying the PAT and PMT tables.
func (e *Encoder) writePSI() error {
	// Write PAT.
	patPkt := Packet{
		PUSI:    true,
		PID:     PatPid,
		CC:      e.ccFor(PatPid),
		Payload: psi.AddPadding(e.patBytes),
	}
	_, err := e.dst.Write(patPkt.Bytes(e.tsSpace[:PacketSize]))
	if err != nil {
		return fmt.Errorf("could not write pat packet: %w", err)
	}
	e.pktCount++

	// Create mts packet from pmt table.
	pmtPkt := Packet{
		PUSI:    true,
		PID:     PmtPid,
		CC:      e.ccFor(PmtPid),
		Payload: psi.AddPadding(e.pmtBytes),
	}
	_, err = e.dst.Write(pmtPkt.Bytes(e.tsSpace[:PacketSize]))
	if err != nil {
		return fmt.Errorf("could not write pmt packet: %w", err)
	}
	e.pktCount++

	e.log.Debug("PSI written", "PAT CC", patPkt.CC, "PMT CC", pmtPkt.CC)
	return nil
}

// ccFor returns the next continuity counter for pid.
func (e *Encoder) ccFor(pid uint16) byte {
	cc := e.continuity[pid]
	const continuityCounterMask = 0xf
	e.continuity[pid] = (cc + 1) & continuityCounterMask
	return cc
}

// Close closes the encoder's destination.
func (e *Encoder) Close() error {
	e.log.Debug("closing encoder")
	return e.dst.Close()
}
