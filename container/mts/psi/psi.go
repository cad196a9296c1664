/*
NAME
  psi.go

DESCRIPTION
  psi.go provides the program specific information tables announcing an
  ancillary data elementary stream: a PAT naming a single program and a PMT
  describing the stream.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package psi provides encoding of MPEG-TS program specific information.
package psi

// PacketSize of psi (without MPEG-TS header)
const PacketSize = 184

// Lengths of section definitions.
const (
	ESSDataLen = 5
	DescDefLen = 2
	PMTDefLen  = 4
	PATLen     = 4
	TSSDefLen  = 5
)

// Table Type IDs.
const (
	patID = 0x00
	pmtID = 0x02
)

// CRC hash size.
const crcSize = 4

// Program and PID assignments.
const (
	ProgramNumber = 0x01
	PmtPID        = 0x1000

	// NoPCRPID is the PCR PID used when the program carries no clock
	// reference.
	NoPCRPID = 0x1fff
)

// Stream type and descriptor constants from ITU-T Rec. H.222.0.
const (
	// StreamTypePrivatePES is the stream type of PES packets containing
	// private data.
	StreamTypePrivatePES = 0x06

	// RegistrationTag is the tag of a registration descriptor.
	RegistrationTag = 0x05
)

// NewPATPSI will provide a standard program specific information (PSI) table
// with a program association table (PAT) specific data field.
func NewPATPSI() *PSI {
	return &PSI{
		TableID:         patID,
		SyntaxIndicator: true,
		SyntaxSection: &SyntaxSection{
			TableIDExt:  0x01,
			CurrentNext: true,
			SpecificData: &PAT{
				Program:       ProgramNumber,
				ProgramMapPID: PmtPID,
			},
		},
	}
}

// NewPMTPSI will provide a standard program specific information (PSI) table
// with a program mapping table specific data field describing one elementary
// stream of the given type on pid, carrying descs.
func NewPMTPSI(pid uint16, streamType byte, descs ...Descriptor) *PSI {
	return &PSI{
		TableID:         pmtID,
		SyntaxIndicator: true,
		SyntaxSection: &SyntaxSection{
			TableIDExt:  ProgramNumber,
			CurrentNext: true,
			SpecificData: &PMT{
				ProgramClockPID: NoPCRPID,
				StreamSpecificData: &StreamSpecificData{
					StreamType:  streamType,
					PID:         pid,
					Descriptors: descs,
				},
			},
		},
	}
}

// Registration returns a registration descriptor carrying the four character
// format identifier id.
func Registration(id string) Descriptor {
	var d [4]byte
	copy(d[:], id)
	return Descriptor{Tag: RegistrationTag, Data: d[:]}
}

// Program specific information
type PSI struct {
	PointerField    byte           // Point field
	TableID         byte           // Table ID
	SyntaxIndicator bool           // Section syntax indicator (1 for PAT, PMT, CAT)
	PrivateBit      bool           // Private bit (0 for PAT, PMT, CAT)
	SyntaxSection   *SyntaxSection // Table syntax section
}

// Table syntax section
type SyntaxSection struct {
	TableIDExt   uint16       // Table ID extension
	Version      byte         // Version number
	CurrentNext  bool         // Current/next indicator
	Section      byte         // Section number
	LastSection  byte         // Last section number
	SpecificData SpecificData // Specific data PAT/PMT
}

// Specific Data, (could be PAT or PMT)
type SpecificData interface {
	Bytes() []byte
}

// Program association table, implements SpecificData
type PAT struct {
	Program       uint16 // Program Number
	ProgramMapPID uint16 // Program map PID
}

// Program mapping table, implements SpecificData
type PMT struct {
	ProgramClockPID    uint16              // Program clock reference PID.
	Descriptors        []Descriptor        // Program descriptors.
	StreamSpecificData *StreamSpecificData // Elementary stream specific data.
}

// Elementary stream specific data
type StreamSpecificData struct {
	StreamType  byte         // Stream type.
	PID         uint16       // Elementary PID.
	Descriptors []Descriptor // Elementary stream descriptors.
}

// Descriptor
type Descriptor struct {
	Tag  byte   // Descriptor tag
	Data []byte // Descriptor data
}

// Bytes outputs a byte slice representation of the PSI. The section length
// and CRC are computed from the content.
func (p *PSI) Bytes() []byte {
	if p.PointerField != 0 {
		panic("No support for pointer filler bytes")
	}
	ss := p.SyntaxSection.Bytes()
	l := len(ss) + crcSize

	out := make([]byte, 4, 4+l)
	out[0] = p.PointerField
	out[1] = p.TableID
	out[2] = asByte(p.SyntaxIndicator)<<7 | asByte(p.PrivateBit)<<6 | 0x30 | (0x03 & byte(l>>8))
	out[3] = byte(l)
	out = append(out, ss...)
	return AddCRC(out)
}

// Bytes outputs a byte slice representation of the SyntaxSection
func (t *SyntaxSection) Bytes() []byte {
	out := make([]byte, TSSDefLen)
	out[0] = byte(t.TableIDExt >> 8)
	out[1] = byte(t.TableIDExt)
	out[2] = 0xc0 | (0x3e & (t.Version << 1)) | (0x01 & asByte(t.CurrentNext))
	out[3] = t.Section
	out[4] = t.LastSection
	return append(out, t.SpecificData.Bytes()...)
}

// Bytes outputs a byte slice representation of the PAT
func (p *PAT) Bytes() []byte {
	out := make([]byte, PATLen)
	out[0] = byte(p.Program >> 8)
	out[1] = byte(p.Program)
	out[2] = 0xe0 | (0x1f & byte(p.ProgramMapPID>>8))
	out[3] = byte(p.ProgramMapPID)
	return out
}

// Bytes outputs a byte slice representation of the PMT
func (p *PMT) Bytes() []byte {
	descs := descriptorBytes(p.Descriptors)
	out := make([]byte, PMTDefLen)
	out[0] = 0xe0 | (0x1f & byte(p.ProgramClockPID>>8))
	out[1] = byte(p.ProgramClockPID)
	out[2] = 0xf0 | (0x03 & byte(len(descs)>>8))
	out[3] = byte(len(descs))
	out = append(out, descs...)
	return append(out, p.StreamSpecificData.Bytes()...)
}

// Bytes outputs a byte slice representation of the Descriptor
func (d *Descriptor) Bytes() []byte {
	out := make([]byte, DescDefLen, DescDefLen+len(d.Data))
	out[0] = d.Tag
	out[1] = byte(len(d.Data))
	return append(out, d.Data...)
}

// Bytes outputs a byte slice representation of the StreamSpecificData
func (e *StreamSpecificData) Bytes() []byte {
	descs := descriptorBytes(e.Descriptors)
	out := make([]byte, ESSDataLen)
	out[0] = e.StreamType
	out[1] = 0xe0 | (0x1f & byte(e.PID>>8))
	out[2] = byte(e.PID)
	out[3] = 0xf0 | (0x03 & byte(len(descs)>>8))
	out[4] = byte(len(descs))
	return append(out, descs...)
}

func descriptorBytes(descs []Descriptor) []byte {
	var out []byte
	for _, d := range descs {
		out = append(out, d.Bytes()...)
	}
	return out
}

func asByte(b bool) byte {
	if b {
		return 0x01
	}
	return 0x00
}
