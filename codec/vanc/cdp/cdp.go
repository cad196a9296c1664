/*
NAME
  cdp.go

DESCRIPTION
  cdp.go provides parsing and serialization of CEA-708 caption distribution
  packets (CDPs).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package cdp provides parsing and serialization of CEA-708 caption
// distribution packets, and a decoder for the EIA-608 caption text they
// carry.
package cdp

import (
	"errors"
	"fmt"

	"github.com/ausocean/vanc/codec/vanc/bits"
)

// Section and header identifiers.
const (
	cdpID           = 0x9669
	timeCodeID      = 0x71
	ccDataID        = 0x72
	svcInfoID       = 0x73
	footerID        = 0x74
	futureSectionLo = 0x75
	futureSectionHi = 0xef
)

// Section sizes.
const (
	headerLen    = 7
	timeCodeLen  = 5
	footerLen    = 4
	serviceLen   = 7
	MaxCCCount   = 31
	MaxServices  = 15
	maxCDPLength = 0xff
)

// FrameRate is a CDP frame rate code.
type FrameRate byte

// Frame rate codes.
const (
	Rate23_976 FrameRate = 1
	Rate24     FrameRate = 2
	Rate25     FrameRate = 3
	Rate29_97  FrameRate = 4
	Rate30     FrameRate = 5
	Rate50     FrameRate = 6
	Rate59_94  FrameRate = 7
	Rate60     FrameRate = 8
)

var frameRates = map[FrameRate]float64{
	Rate23_976: 24000.0 / 1001,
	Rate24:     24,
	Rate25:     25,
	Rate29_97:  30000.0 / 1001,
	Rate30:     30,
	Rate50:     50,
	Rate59_94:  60000.0 / 1001,
	Rate60:     60,
}

// FPS returns the frame rate in frames per second, or 0 for a reserved code.
func (r FrameRate) FPS() float64 { return frameRates[r] }

// Errors returned by Parse and Bytes.
var (
	ErrBadIdentifier = errors.New("bad cdp identifier")
	ErrShort         = errors.New("cdp shorter than declared length")
	ErrCapacity      = errors.New("field exceeds fixed maximum")
	ErrFieldRange    = errors.New("field value out of range")
)

// CDP is a caption distribution packet. The presence flags of the header are
// derived from which sections are non-nil.
type CDP struct {
	FrameRate            FrameRate
	SvcInfoStart         bool
	SvcInfoChange        bool
	SvcInfoComplete      bool
	CaptionServiceActive bool
	Sequence             uint16

	TimeCode    *TimeCode
	CCData      []CC // nil when the ccdata section is absent.
	ServiceInfo *ServiceInfo
	Future      []FutureSection

	// Set on parse. A packet without a footer or with a bad checksum is
	// still returned, with ChecksumOK false.
	FooterSequence uint16
	ChecksumOK     bool
}

// TimeCode is the optional time code section.
type TimeCode struct {
	Hours     int
	Minutes   int
	Seconds   int
	Frames    int
	Field     bool
	DropFrame bool
}

// CC is a single caption data triplet.
type CC struct {
	Valid bool
	Type  byte // 0 and 1 are EIA-608 fields 1 and 2, 2 and 3 are DTVCC.
	Data  [2]byte
}

// ServiceInfo is the optional caption service information section.
type ServiceInfo struct {
	Start    bool
	Change   bool
	Complete bool
	Services []Service
}

// Service describes a single caption service.
type Service struct {
	CSNSize       bool // Set when ServiceNumber is 5 bits.
	ServiceNumber byte
	Language      [3]byte
	DigitalCC     bool
	// CaptionServiceNumber is used when DigitalCC is set, Line21Field otherwise.
	CaptionServiceNumber byte
	Line21Field          bool
	EasyReader           bool
	WideAspectRatio      bool
}

// FutureSection is a section with an identifier reserved for future use.
type FutureSection struct {
	ID   byte
	Data []byte
}

// fieldReader reads bit fields with a sticky error.
type fieldReader struct {
	e  error
	br *bits.Reader
}

func (r *fieldReader) readBits(n int) uint64 {
	if r.e != nil {
		return 0
	}
	var b uint64
	b, r.e = r.br.ReadBits(n)
	return b
}

func (r *fieldReader) readFlag() bool { return r.readBits(1) == 1 }

func (r *fieldReader) peek8() (byte, bool) {
	if r.e != nil {
		return 0, false
	}
	b, err := r.br.PeekBits(8)
	return byte(b), err == nil
}

// Parse parses the CDP in b. Optional sections are read in order while the
// next byte carries the expected section identifier; at the first mismatch
// the remaining sections are left absent.
func Parse(b []byte) (*CDP, error) {
	if len(b) < headerLen {
		return nil, ErrShort
	}
	r := &fieldReader{br: bits.NewReader(b)}
	if r.readBits(16) != cdpID {
		return nil, ErrBadIdentifier
	}
	length := int(r.readBits(8))
	if length > len(b) || length < headerLen {
		return nil, ErrShort
	}
	b = b[:length]
	r.br = bits.NewReader(b[3:])

	c := &CDP{FrameRate: FrameRate(r.readBits(4))}
	r.readBits(4) // Reserved.
	tcPresent := r.readFlag()
	ccPresent := r.readFlag()
	svcPresent := r.readFlag()
	c.SvcInfoStart = r.readFlag()
	c.SvcInfoChange = r.readFlag()
	c.SvcInfoComplete = r.readFlag()
	c.CaptionServiceActive = r.readFlag()
	r.readBits(1) // Reserved.
	c.Sequence = uint16(r.readBits(16))
	if r.e != nil {
		return nil, fmt.Errorf("could not read cdp header: %w", r.e)
	}

	if tcPresent && next(r, timeCodeID) {
		c.TimeCode = readTimeCode(r)
	}
	if ccPresent && next(r, ccDataID) {
		c.CCData = readCCData(r)
	}
	if svcPresent && next(r, svcInfoID) {
		c.ServiceInfo = readServiceInfo(r)
	}
	for {
		id, ok := r.peek8()
		if !ok || id < futureSectionLo || id > futureSectionHi {
			break
		}
		r.readBits(8)
		n := int(r.readBits(8))
		if r.e != nil || n*8 > r.br.Remaining() {
			break
		}
		d, _ := r.br.ReadBytes(n)
		c.Future = append(c.Future, FutureSection{ID: id, Data: d})
	}
	if next(r, footerID) {
		c.FooterSequence = uint16(r.readBits(16))
		r.readBits(8) // packet_checksum.
		c.ChecksumOK = r.e == nil && byteSum(b) == 0
	}
	if r.e != nil {
		return nil, fmt.Errorf("could not read cdp section: %w", r.e)
	}
	return c, nil
}

// next consumes the next byte if it is id.
func next(r *fieldReader, id byte) bool {
	b, ok := r.peek8()
	if !ok || b != id {
		return false
	}
	r.readBits(8)
	return true
}

func readTimeCode(r *fieldReader) *TimeCode {
	tc := &TimeCode{}
	r.readBits(2)
	tc.Hours = int(r.readBits(2))*10 + int(r.readBits(4))
	r.readBits(1)
	tc.Minutes = int(r.readBits(3))*10 + int(r.readBits(4))
	tc.Field = r.readFlag()
	tc.Seconds = int(r.readBits(3))*10 + int(r.readBits(4))
	tc.DropFrame = r.readFlag()
	r.readBits(1)
	tc.Frames = int(r.readBits(2))*10 + int(r.readBits(4))
	return tc
}

func readCCData(r *fieldReader) []CC {
	r.readBits(3)
	n := int(r.readBits(5))
	cc := make([]CC, 0, n)
	for i := 0; i < n && r.e == nil; i++ {
		r.readBits(5)
		c := CC{Valid: r.readFlag(), Type: byte(r.readBits(2))}
		c.Data[0] = byte(r.readBits(8))
		c.Data[1] = byte(r.readBits(8))
		cc = append(cc, c)
	}
	return cc
}

func readServiceInfo(r *fieldReader) *ServiceInfo {
	r.readBits(1)
	si := &ServiceInfo{Start: r.readFlag(), Change: r.readFlag(), Complete: r.readFlag()}
	n := int(r.readBits(4))
	for i := 0; i < n && r.e == nil; i++ {
		var s Service
		r.readBits(1)
		s.CSNSize = r.readFlag()
		if s.CSNSize {
			r.readBits(1)
			s.ServiceNumber = byte(r.readBits(5))
		} else {
			s.ServiceNumber = byte(r.readBits(6))
		}
		for j := range s.Language {
			s.Language[j] = byte(r.readBits(8))
		}
		s.DigitalCC = r.readFlag()
		r.readBits(1)
		if s.DigitalCC {
			s.CaptionServiceNumber = byte(r.readBits(6))
		} else {
			r.readBits(5)
			s.Line21Field = r.readFlag()
		}
		s.EasyReader = r.readFlag()
		s.WideAspectRatio = r.readFlag()
		r.readBits(6)
		r.readBits(8)
		si.Services = append(si.Services, s)
	}
	return si
}

// Bytes returns the wire form of c. The cdp_length and packet_checksum fields
// are computed once the rest of the packet is written.
func (c *CDP) Bytes() ([]byte, error) {
	if len(c.CCData) > MaxCCCount {
		return nil, ErrCapacity
	}
	if c.ServiceInfo != nil && len(c.ServiceInfo.Services) > MaxServices {
		return nil, ErrCapacity
	}
	if c.FrameRate > 0xf {
		return nil, ErrFieldRange
	}

	w := bits.NewGrowingWriter(maxCDPLength)
	w.WriteBits(cdpID, 16)
	w.WriteBits(0, 8) // cdp_length, patched below.
	w.WriteBits(uint64(c.FrameRate), 4)
	w.WriteBits(0xf, 4)
	w.WriteBit(c.TimeCode != nil)
	w.WriteBit(c.CCData != nil)
	w.WriteBit(c.ServiceInfo != nil)
	w.WriteBit(c.SvcInfoStart)
	w.WriteBit(c.SvcInfoChange)
	w.WriteBit(c.SvcInfoComplete)
	w.WriteBit(c.CaptionServiceActive)
	w.WriteBit(true)
	w.WriteBits(uint64(c.Sequence), 16)

	if tc := c.TimeCode; tc != nil {
		if tc.Hours < 0 || tc.Hours > 23 || tc.Minutes < 0 || tc.Minutes > 59 ||
			tc.Seconds < 0 || tc.Seconds > 59 || tc.Frames < 0 || tc.Frames > 39 {
			return nil, ErrFieldRange
		}
		w.WriteBits(timeCodeID, 8)
		w.WriteBits(0x3, 2)
		w.WriteBits(uint64(tc.Hours/10), 2)
		w.WriteBits(uint64(tc.Hours%10), 4)
		w.WriteBit(true)
		w.WriteBits(uint64(tc.Minutes/10), 3)
		w.WriteBits(uint64(tc.Minutes%10), 4)
		w.WriteBit(tc.Field)
		w.WriteBits(uint64(tc.Seconds/10), 3)
		w.WriteBits(uint64(tc.Seconds%10), 4)
		w.WriteBit(tc.DropFrame)
		w.WriteBit(false)
		w.WriteBits(uint64(tc.Frames/10), 2)
		w.WriteBits(uint64(tc.Frames%10), 4)
	}

	if c.CCData != nil {
		w.WriteBits(ccDataID, 8)
		w.WriteBits(0x7, 3)
		w.WriteBits(uint64(len(c.CCData)), 5)
		for _, cc := range c.CCData {
			if cc.Type > 3 {
				return nil, fmt.Errorf("cc_type %d: %w", cc.Type, ErrFieldRange)
			}
			w.WriteBits(0x1f, 5)
			w.WriteBit(cc.Valid)
			w.WriteBits(uint64(cc.Type), 2)
			w.WriteBytes(cc.Data[:])
		}
	}

	if si := c.ServiceInfo; si != nil {
		w.WriteBits(svcInfoID, 8)
		w.WriteBit(true)
		w.WriteBit(si.Start)
		w.WriteBit(si.Change)
		w.WriteBit(si.Complete)
		w.WriteBits(uint64(len(si.Services)), 4)
		for _, s := range si.Services {
			maxService := byte(0x3f)
			if s.CSNSize {
				maxService = 0x1f
			}
			if s.ServiceNumber > maxService {
				return nil, fmt.Errorf("caption service number %d: %w", s.ServiceNumber, ErrFieldRange)
			}
			if s.DigitalCC && s.CaptionServiceNumber > 0x3f {
				return nil, fmt.Errorf("digital caption service %d: %w", s.CaptionServiceNumber, ErrFieldRange)
			}
			w.WriteBit(true)
			w.WriteBit(s.CSNSize)
			if s.CSNSize {
				w.WriteBit(true)
				w.WriteBits(uint64(s.ServiceNumber), 5)
			} else {
				w.WriteBits(uint64(s.ServiceNumber), 6)
			}
			w.WriteBytes(s.Language[:])
			w.WriteBit(s.DigitalCC)
			w.WriteBit(true)
			if s.DigitalCC {
				w.WriteBits(uint64(s.CaptionServiceNumber), 6)
			} else {
				w.WriteBits(0x1f, 5)
				w.WriteBit(s.Line21Field)
			}
			w.WriteBit(s.EasyReader)
			w.WriteBit(s.WideAspectRatio)
			w.WriteBits(0x3f, 6)
			w.WriteBits(0xff, 8)
		}
	}

	for _, f := range c.Future {
		if f.ID < futureSectionLo || f.ID > futureSectionHi || len(f.Data) > 0xff {
			return nil, ErrFieldRange
		}
		w.WriteBits(uint64(f.ID), 8)
		w.WriteBits(uint64(len(f.Data)), 8)
		w.WriteBytes(f.Data)
	}

	w.WriteBits(footerID, 8)
	w.WriteBits(uint64(c.Sequence), 16)
	w.WriteBits(0, 8) // packet_checksum, patched below.

	b := w.Bytes()
	if len(b) > maxCDPLength {
		return nil, ErrCapacity
	}
	b[2] = byte(len(b))
	b[len(b)-1] = -byteSum(b)
	return b, nil
}

// byteSum returns the sum of b modulo 256.
func byteSum(b []byte) byte {
	var s byte
	for _, v := range b {
		s += v
	}
	return s
}
