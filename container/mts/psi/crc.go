/*
NAME
  crc.go

DESCRIPTION
  crc.go provides the CRC32/MPEG-2 checksum terminating each psi table.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package psi

import (
	"encoding/binary"
	"hash/crc32"
	"math/bits"
)

// mpegTable is the MSB-first CRC32 table used by MPEG-2 sections.
var mpegTable = makeTable(bits.Reverse32(crc32.IEEE))

// AddCRC appends the CRC of a psi table, excluding its pointer field, to out.
func AddCRC(out []byte) []byte {
	t := make([]byte, len(out)+crcSize)
	copy(t, out)
	UpdateCrc(t[1:])
	return t
}

// UpdateCrc updates the crc of bytes slice, writing the checksum into the last four bytes.
func UpdateCrc(b []byte) {
	crc := update(0xffffffff, mpegTable, b[:len(b)-crcSize])
	binary.BigEndian.PutUint32(b[len(b)-crcSize:], crc)
}

func makeTable(poly uint32) *crc32.Table {
	var t crc32.Table
	for i := range t {
		crc := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if crc&0x80000000 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return &t
}

func update(crc uint32, tab *crc32.Table, p []byte) uint32 {
	for _, v := range p {
		crc = tab[byte(crc>>24)^v] ^ (crc << 8)
	}
	return crc
}
