/*
NAME
  parse.go

DESCRIPTION
  parse.go provides parsing of SMPTE 2038 PES packets into their ancillary
  entries.

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

	gotspes "github.com/Comcast/gots/v2/pes"

	"github.com/ausocean/vanc/codec/vanc/bits"
)

// Parse parses the complete SMPTE 2038 PES packet b. Entries are read until
// the data is exhausted or only stuffing remains.
func Parse(b []byte) (*Container, error) {
	if len(b) < HeaderSize {
		return nil, fmt.Errorf("container of %d bytes: %w", len(b), ErrTruncatedEntry)
	}
	hdr, err := gotspes.NewPESHeader(b)
	if err != nil {
		return nil, fmt.Errorf("could not parse PES header: %w", err)
	}
	if hdr.StreamId() != StreamID {
		return nil, ErrStreamID
	}
	if !hdr.HasPTS() {
		return nil, ErrNoPTS
	}

	c := &Container{PTS: hdr.PTS()}
	r := bits.NewReader(hdr.Data())
	for r.Remaining() >= 8 {
		reserved, err := r.PeekBits(reservedBits)
		if err != nil {
			return c, fmt.Errorf("entry %d: %w", len(c.Entries), ErrTruncatedEntry)
		}
		if reserved == stuffing {
			break
		}
		e, err := readEntry(r)
		if err != nil {
			return c, fmt.Errorf("entry %d: %w", len(c.Entries), err)
		}
		c.Entries = append(c.Entries, *e)
	}
	return c, nil
}

// readEntry reads a single entry from r, leaving r byte aligned.
func readEntry(r *bits.Reader) (*Entry, error) {
	var err error
	read := func(n int) uint64 {
		if err != nil {
			return 0
		}
		var v uint64
		v, err = r.ReadBits(n)
		return v
	}

	if read(reservedBits) != 0 {
		return nil, ErrReservedBits
	}
	e := &Entry{
		CNotY:  read(1) == 1,
		Line:   int(read(lineBits)),
		Offset: int(read(offsetBits)),
		DID:    uint16(read(wordBits)),
		SDID:   uint16(read(wordBits)),
	}
	e.DataCount = uint16(read(wordBits))
	if err != nil {
		return nil, ErrTruncatedEntry
	}
	e.Words = make([]uint16, e.DataCount&0xff)
	for i := range e.Words {
		e.Words[i] = uint16(read(wordBits))
	}
	e.Checksum = uint16(read(wordBits))
	if err != nil {
		return nil, ErrTruncatedEntry
	}
	r.Align()
	return e, nil
}
