/*
NAME
  extractor.go

DESCRIPTION
  extractor.go provides an Extractor that reassembles SMPTE 2038 PES packets
  from a stream of transport packet payloads.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package smpte2038

import (
	"github.com/gammazero/deque"

	"github.com/ausocean/utils/logging"
	"github.com/ausocean/vanc/container/mts/pes"
)

// lengthFieldEnd is the offset of the end of the PES packet length field.
const lengthFieldEnd = pes.LengthOffset + 2

// Extractor reassembles containers from arbitrarily split input. It searches
// for the start code, then waits until the number of bytes given by the PES
// packet length has arrived before passing the container to its callback.
//
// An Extractor must be used with a single input stream and is not safe for
// concurrent use.
type Extractor struct {
	buf    deque.Deque[byte]
	synced bool
	fn     func([]byte)
	log    logging.Logger
}

// NewExtractor returns an Extractor that calls fn with each complete
// container. The slice passed to fn is not retained by the Extractor.
func NewExtractor(log logging.Logger, fn func([]byte)) *Extractor {
	return &Extractor{fn: fn, log: log}
}

// Push appends b to the extractor's buffer and dequeues any containers that
// are complete, returning the number of containers passed to the callback.
func (e *Extractor) Push(b []byte) int {
	for _, v := range b {
		e.buf.PushBack(v)
	}

	var n int
	for {
		if !e.synced && !e.sync() {
			return n
		}
		if e.buf.Len() < lengthFieldEnd {
			return n
		}

		l := int(e.buf.At(pes.LengthOffset))<<8 | int(e.buf.At(pes.LengthOffset+1))
		if l == 0 {
			// Unbounded PES packets cannot be delimited.
			e.log.Warning("zero length PES packet, dropping sync")
			e.buf.PopFront()
			e.synced = false
			continue
		}

		total := lengthFieldEnd + l
		if e.buf.Len() < total {
			return n
		}

		c := make([]byte, total)
		for i := range c {
			c[i] = e.buf.PopFront()
		}
		e.synced = false
		e.log.Debug("container dequeued", "len", total)
		e.fn(c)
		n++
	}
}

// sync discards bytes until the buffer begins with the start code, returning
// true if it does.
func (e *Extractor) sync() bool {
	for e.buf.Len() >= len(startCode) {
		if e.hasStartCode() {
			e.synced = true
			return true
		}
		e.buf.PopFront()
	}
	return false
}

func (e *Extractor) hasStartCode() bool {
	for i, v := range startCode {
		if e.buf.At(i) != v {
			return false
		}
	}
	return true
}

// Buffered returns the number of bytes held awaiting a complete container.
func (e *Extractor) Buffered() int { return e.buf.Len() }

// Synced returns true if the extractor has found a start code and is
// accumulating a container.
func (e *Extractor) Synced() bool { return e.synced }

// Reset discards all buffered data and returns the extractor to searching
// for a start code.
func (e *Extractor) Reset() {
	e.buf.Clear()
	e.synced = false
}
