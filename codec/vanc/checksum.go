/*
NAME
  checksum.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vanc

// Checksum returns the checksum word for words, which should run from the DID
// through the last user data word. The low 9 bits of each word are summed
// modulo 512 and b9 of the result is set to the inverse of b8.
// Word sequences whose sums agree modulo 512 share a checksum, and b9 of the
// summed words is not covered, so a flipped b9 in a data word goes undetected.
func Checksum(words []uint16) uint16 {
	var sum uint16
	for _, w := range words {
		sum += w & 0x1ff
	}
	return userWord(sum)
}

// ValidChecksum returns true if the last word of words is the checksum of the
// words preceding it.
func ValidChecksum(words []uint16) bool {
	if len(words) < 1 {
		return false
	}
	return Checksum(words[:len(words)-1]) == words[len(words)-1]&0x3ff
}
