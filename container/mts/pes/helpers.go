/*
DESCRIPTIONS
  helpers.go provides stream identifiers for PES packets.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pes

import "errors"

// Stream IDs as per ITU-T Rec. H.222.0 / ISO/IEC 13818-1 [1], table 2-22.
const (
	PrivateStream1SID = 0xbd
	PrivateStream2SID = 0xbf
)

// SIDToMIMEType will return the corresponding MIME type for passed stream ID.
func SIDToMIMEType(id int) (string, error) {
	switch id {
	case PrivateStream1SID:
		return "application/x-smpte-2038", nil
	case PrivateStream2SID:
		return "application/octet-stream", nil
	default:
		return "", errors.New("unknown stream ID")
	}
}
