/*
NAME
  scan.go

DESCRIPTION
  scan.go provides Scan, which finds ancillary packets in a line of 10-bit
  words.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vanc

// Scan returns the headers of the ancillary packets found in words, a single
// line of video identified by line. Packets are located by their ancillary
// data flag. A packet whose data count would run past the end of the line is
// ignored. Checksum failures are reported by each header's ChecksumOK field.
func Scan(words []uint16, line int) ([]*Header, error) {
	if len(words) > MaxLineWidth {
		return nil, ErrLineTooWide
	}

	var hdrs []*Header
	for i := 0; i+MinPacketWidth <= len(words); {
		if words[i]&0x3ff != ADF[0] || words[i+1]&0x3ff != ADF[1] || words[i+2]&0x3ff != ADF[2] {
			i++
			continue
		}

		dc := int(words[i+5] & 0xff)
		width := MinPacketWidth + dc
		if i+width > len(words) {
			i++
			continue
		}

		h := &Header{
			DID:      byte(words[i+3]),
			SDID:     byte(words[i+4]),
			Payload:  make([]uint16, dc),
			Checksum: words[i+width-1] & 0x3ff,
			Line:     line,
			Offset:   i,
		}
		for j := range h.Payload {
			h.Payload[j] = words[i+6+j] & 0x1ff
		}
		h.ChecksumOK = ValidChecksum(words[i+ADFWords : i+width])
		h.Type = Lookup(h.DID, h.SDID)
		hdrs = append(hdrs, h)
		i += width
	}
	return hdrs, nil
}
