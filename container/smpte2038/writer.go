/*
NAME
  writer.go

DESCRIPTION
  writer.go provides a Writer that encapsulates ancillary packets as SMPTE
  2038 and writes them as MPEG-TS.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package smpte2038

import (
	"fmt"
	"io"

	"github.com/ausocean/utils/logging"
	"github.com/ausocean/vanc/codec/vanc"
	"github.com/ausocean/vanc/container/mts"
)

// Writer writes ancillary packets to an MPEG-TS destination, one container
// per call to WriteHeaders.
type Writer struct {
	b   *Builder
	enc *mts.Encoder
	log logging.Logger
}

// NewWriter returns a Writer writing to dst. The options configure the
// underlying MPEG-TS encoder.
func NewWriter(dst io.WriteCloser, log logging.Logger, options ...func(*mts.Encoder) error) (*Writer, error) {
	enc, err := mts.NewEncoder(dst, log, options...)
	if err != nil {
		return nil, fmt.Errorf("could not create MTS encoder: %w", err)
	}
	return &Writer{b: NewBuilder(), enc: enc, log: log}, nil
}

// WriteHeaders writes hdrs in a single container with presentation
// timestamp pts. Packets that cannot be carried are logged and skipped. If no
// packet can be carried, nothing is written.
func (w *Writer) WriteHeaders(hdrs []*vanc.Header, pts uint64) error {
	w.b.Begin()
	for _, h := range hdrs {
		err := w.b.Append(h)
		if err != nil {
			w.log.Warning("skipping ancillary packet", "error", err, "DID", h.DID, "SDID", h.SDID, "line", h.Line)
		}
	}
	if w.b.Len() == 0 {
		w.log.Debug("no ancillary packets to write", "PTS", pts)
		return nil
	}

	c, err := w.b.End(pts)
	if err != nil {
		return fmt.Errorf("could not complete container: %w", err)
	}
	_, err = w.enc.Write(c)
	if err != nil {
		return fmt.Errorf("could not write container: %w", err)
	}
	w.log.Debug("container written", "entries", w.b.Len(), "len", len(c), "PTS", pts)
	return nil
}

// WritePackets encodes each typed packet and writes them in a single
// container.
func (w *Writer) WritePackets(pkts []vanc.Packet, pts uint64) error {
	hdrs := make([]*vanc.Header, 0, len(pkts))
	for _, p := range pkts {
		h, err := vanc.Encode(p)
		if err != nil {
			w.log.Warning("could not encode packet", "error", err, "type", p.PacketType())
			continue
		}
		hdrs = append(hdrs, h)
	}
	return w.WriteHeaders(hdrs, pts)
}

// Close closes the underlying encoder and its destination.
func (w *Writer) Close() error {
	return w.enc.Close()
}
