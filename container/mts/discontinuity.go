/*
NAME
  discontinuity.go

DESCRIPTION
  discontinuity.go provides functionality for detecting discontinuities in
  MPEG-TS using the per PID continuity counter.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mts

import (
	"github.com/Comcast/gots/v2/packet"
)

// ccUnset marks a PID whose continuity counter has not been seen.
const ccUnset = 16

// DiscontinuityDetector tracks the expected continuity counter of each PID
// and reports packets that break the sequence.
type DiscontinuityDetector struct {
	expCC map[int]int
}

// NewDiscontinuityDetector returns a pointer to a new DiscontinuityDetector.
func NewDiscontinuityDetector() *DiscontinuityDetector {
	return &DiscontinuityDetector{expCC: make(map[int]int)}
}

// Check returns false if pkt does not carry the expected continuity counter
// for its PID. Packets without payload do not advance the counter. The first
// packet seen on a PID is always accepted.
func (dd *DiscontinuityDetector) Check(pkt *packet.Packet) bool {
	pid := pkt.PID()
	cc := pkt.ContinuityCounter()
	if !pkt.HasPayload() {
		return true
	}
	expect, ok := dd.ExpectedCC(pid)
	dd.SetExpectedCC(pid, cc)
	dd.IncExpectedCC(pid)
	return !ok || cc == expect
}

// ExpectedCC returns the expected cc. If the cc hasn't been used yet, then 16
// and false is returned.
func (dd *DiscontinuityDetector) ExpectedCC(pid int) (int, bool) {
	cc, ok := dd.expCC[pid]
	if !ok || cc == ccUnset {
		return ccUnset, false
	}
	return cc, true
}

// IncExpectedCC increments the expected cc.
func (dd *DiscontinuityDetector) IncExpectedCC(pid int) {
	dd.expCC[pid] = (dd.expCC[pid] + 1) & 0xf
}

// SetExpectedCC sets the expected cc.
func (dd *DiscontinuityDetector) SetExpectedCC(pid, cc int) {
	dd.expCC[pid] = cc
}

// Reset forgets the expected cc of every PID.
func (dd *DiscontinuityDetector) Reset() {
	dd.expCC = make(map[int]int)
}
