/*
NAME
  vanc.go

DESCRIPTION
  vanc.go provides the constants, errors and word level helpers shared by the
  ancillary data codecs.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package vanc provides detection, decoding and encoding of SMPTE ST 291
// ancillary data packets carried as 10-bit words in the vertical blanking
// interval of SDI video.
package vanc

import (
	"errors"
	"math/bits"
)

// Word layout constants.
const (
	// ADFWords is the number of words in the ancillary data flag.
	ADFWords = 3

	// MinPacketWidth is the smallest number of words a packet can occupy:
	// the ancillary data flag, DID, SDID, data count and checksum.
	MinPacketWidth = 7

	// MaxLineWidth is the widest line the scanner will accept.
	MaxLineWidth = 16384

	// MaxDataCount is the largest number of user data words in a packet.
	MaxDataCount = 255
)

// ADF is the ancillary data flag preceding every packet.
var ADF = [ADFWords]uint16{0x000, 0x3ff, 0x3ff}

// Errors returned by the vanc codecs.
var (
	ErrLineTooWide      = errors.New("line width exceeds maximum")
	ErrInsufficientData = errors.New("insufficient user data words")
	ErrDataTooLong      = errors.New("user data exceeds maximum data count")
	ErrFieldRange       = errors.New("field value out of range")
	ErrBadItemLength    = errors.New("bad item length")
	ErrUnknownType      = errors.New("no registered DID/SDID for packet type")
	ErrMismatchedCount  = errors.New("packet count does not match descriptors")
	ErrBadIdentifier    = errors.New("bad payload identifier")
)

// Parity returns b as a 10-bit word with b8 set to the parity of b0 through
// b7 and b9 set to the inverse of b8.
func Parity(b byte) uint16 {
	if bits.OnesCount8(b)%2 == 1 {
		return 0x100 | uint16(b)
	}
	return 0x200 | uint16(b)
}

// ParityOK returns true if the parity bits of w agree with its low byte.
func ParityOK(w uint16) bool {
	return Parity(byte(w)) == w&0x3ff
}

// userWord returns the 10-bit word for a 9-bit payload value, with b9 set to
// the inverse of b8.
func userWord(w uint16) uint16 {
	w &= 0x1ff
	if w&0x100 == 0 {
		w |= 0x200
	}
	return w
}
