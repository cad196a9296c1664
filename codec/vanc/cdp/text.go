/*
NAME
  text.go

DESCRIPTION
  text.go provides TextDecoder, which recovers caption text from the EIA-608
  field 1 data carried in CDPs.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package cdp

import (
	"fmt"

	gocaption "github.com/szatmary/gocaption"
)

// TextDecoder decodes EIA-608 caption text. It keeps caption state between
// calls, so a single decoder should be used per caption stream.
type TextDecoder struct {
	frame gocaption.EIA608Frame
}

// Field1 returns the valid EIA-608 field 1 caption pairs in c.
func Field1(c *CDP) []uint16 {
	var pairs []uint16
	for _, cc := range c.CCData {
		if cc.Valid && cc.Type == 0 {
			pairs = append(pairs, uint16(cc.Data[0])<<8|uint16(cc.Data[1]))
		}
	}
	return pairs
}

// Decode feeds pairs to the decoder. If a caption is completed, its text is
// returned with ok true.
func (d *TextDecoder) Decode(pairs []uint16) (text string, ok bool, err error) {
	for _, p := range pairs {
		ready, err := d.frame.Decode(p)
		if err != nil {
			return "", false, fmt.Errorf("could not decode caption pair %#04x: %w", p, err)
		}
		if ready {
			return d.frame.String(), true, nil
		}
	}
	return "", false, nil
}
