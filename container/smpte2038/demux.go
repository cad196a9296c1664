/*
NAME
  demux.go

DESCRIPTION
  demux.go provides a Demuxer that extracts SMPTE 2038 containers from an
  MPEG-TS byte stream.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package smpte2038

import (
	"bytes"

	"github.com/Comcast/gots/v2/packet"

	"github.com/ausocean/utils/logging"
	"github.com/ausocean/vanc/container/mts"
	"github.com/ausocean/vanc/container/mts/psi"
)

// syncByte begins every MPEG-TS packet.
const syncByte = 0x47

// Demuxer is an io.Writer accepting MPEG-TS. Payloads of packets on the
// ancillary data PID are reassembled into containers, parsed and passed to a
// callback. Parse failures are logged.
//
// If the Demuxer is created with a zero PID, the PID is taken from the first
// private PES stream announced in a PMT.
type Demuxer struct {
	pid    uint16
	pmtPID uint16
	auto   bool

	pending []byte
	ext     *Extractor
	cc      *mts.DiscontinuityDetector
	fn      func(*Container)
	log     logging.Logger
}

// NewDemuxer returns a Demuxer extracting containers from the stream on pid,
// calling fn with each.
func NewDemuxer(log logging.Logger, pid uint16, fn func(*Container)) *Demuxer {
	d := &Demuxer{
		pid:  pid,
		auto: pid == 0,
		cc:   mts.NewDiscontinuityDetector(),
		fn:   fn,
		log:  log,
	}
	d.ext = NewExtractor(log, d.container)
	return d
}

// PID returns the PID being demultiplexed, or zero if not yet known.
func (d *Demuxer) PID() uint16 { return d.pid }

// Write implements io.Writer. Partial packets are held until completed by a
// later write. Bytes that do not begin a packet are discarded.
func (d *Demuxer) Write(p []byte) (int, error) {
	d.pending = append(d.pending, p...)
	for {
		i := bytes.IndexByte(d.pending, syncByte)
		if i < 0 {
			d.pending = d.pending[:0]
			break
		}
		if i > 0 {
			d.log.Warning("discarding bytes before sync", "n", i)
			d.pending = d.pending[i:]
		}
		if len(d.pending) < mts.PacketSize {
			break
		}
		d.packet(d.pending[:mts.PacketSize])
		d.pending = d.pending[mts.PacketSize:]
	}

	// Move any remaining partial packet to the front of the buffer.
	d.pending = append(d.pending[:0:0], d.pending...)
	return len(p), nil
}

// packet handles a single MPEG-TS packet.
func (d *Demuxer) packet(b []byte) {
	var pkt packet.Packet
	copy(pkt[:], b)
	pid := uint16(pkt.PID())

	switch {
	case d.auto && pid == mts.PatPid:
		progs, err := mts.Programs(b)
		if err != nil {
			d.log.Warning("could not parse PAT", "error", err)
			return
		}
		for prog, pmt := range progs {
			if prog != 0 {
				d.pmtPID = pmt
				break
			}
		}
		return
	case d.auto && d.pmtPID != 0 && pid == d.pmtPID:
		d.streams(b)
		return
	case pid != d.pid || d.pid == 0:
		return
	}

	if !d.cc.Check(&pkt) {
		d.log.Warning("continuity error, discarding partial container", "PID", pid, "buffered", d.ext.Buffered())
		d.ext.Reset()
	}

	if pkt.PayloadUnitStartIndicator() {
		pts, err := mts.GetPTS(b)
		if err != nil {
			d.log.Debug("no PTS at container start", "PID", pid, "error", err)
		} else {
			d.log.Debug("container start", "PID", pid, "PTS", pts)
		}
	}

	payload, err := pkt.Payload()
	if err != nil {
		return
	}
	d.ext.Push(payload)
}

// streams takes the ancillary PID from the first private PES stream in the
// PMT packet b.
func (d *Demuxer) streams(b []byte) {
	streams, err := mts.Streams(b)
	if err != nil {
		d.log.Warning("could not parse PMT", "error", err)
		return
	}
	for _, s := range streams {
		if s.StreamType() != psi.StreamTypePrivatePES {
			continue
		}
		pid := uint16(s.ElementaryPid())
		if pid != d.pid {
			d.log.Info("ancillary data PID found", "PID", pid)
			d.pid = pid
			d.ext.Reset()
		}
		return
	}
}

// container parses a reassembled container and passes it on. Entries
// preceding a malformed entry are kept.
func (d *Demuxer) container(b []byte) {
	c, err := Parse(b)
	if err != nil {
		d.log.Warning("could not parse container", "error", err, "len", len(b))
		if c == nil || len(c.Entries) == 0 {
			return
		}
	}
	d.fn(c)
}
