/*
NAME
  pack.go

DESCRIPTION
  pack.go provides conversion between 10-bit words and their packed byte
  form.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vanc

import (
	"github.com/pkg/errors"

	"github.com/ausocean/vanc/codec/vanc/bits"
)

// PackWords packs the low 10 bits of each word, most-significant bit first,
// so four words occupy five bytes. A final partial byte is zero padded.
func PackWords(words []uint16) []byte {
	w := bits.NewWriter(make([]byte, 0, (len(words)*10+7)/8))
	for _, v := range words {
		w.WriteBits(uint64(v&0x3ff), 10)
	}
	w.Flush()
	return w.Bytes()
}

// UnpackWords unpacks n 10-bit words from b.
func UnpackWords(b []byte, n int) ([]uint16, error) {
	r := bits.NewReader(b)
	words := make([]uint16, n)
	for i := range words {
		v, err := r.ReadBits(10)
		if err != nil {
			return nil, errors.Wrapf(err, "could not unpack word %d", i)
		}
		words[i] = uint16(v)
	}
	return words, nil
}
