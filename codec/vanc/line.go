/*
NAME
  line.go

DESCRIPTION
  line.go provides LineSet, which collects ancillary packets destined for
  lines of a video frame and composes each line's packets into a contiguous
  run of words.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vanc

import (
	"errors"
	"sort"

	"github.com/ausocean/utils/logging"
)

// Capacity of a LineSet.
const (
	MaxLines          = 64
	MaxEntriesPerLine = 16
)

var (
	ErrLineSetFull = errors.New("line set is full")
	ErrLineFull    = errors.New("line is full")
)

// Entry is a packet's words and the offset it should be placed at.
type Entry struct {
	Words  []uint16
	Offset int // Requested offset.

	// Set by Compose. Width is zero if the entry was dropped.
	Effective int
	Width     int
}

// Line holds the entries destined for a single line.
type Line struct {
	Number  int
	Entries []*Entry
	log     logging.Logger
}

// LineSet holds lines by line number, creating them as entries are inserted.
type LineSet struct {
	lines map[int]*Line
	log   logging.Logger
}

// NewLineSet returns a new, empty LineSet.
func NewLineSet(log logging.Logger) *LineSet {
	return &LineSet{lines: make(map[int]*Line), log: log}
}

// Insert adds words to the given line, to be placed at offset.
func (s *LineSet) Insert(words []uint16, line, offset int) error {
	l, ok := s.lines[line]
	if !ok {
		if len(s.lines) == MaxLines {
			return ErrLineSetFull
		}
		l = &Line{Number: line, log: s.log}
		s.lines[line] = l
	}
	if len(l.Entries) == MaxEntriesPerLine {
		return ErrLineFull
	}
	l.Entries = append(l.Entries, &Entry{Words: words, Offset: offset})
	return nil
}

// InsertHeader adds the packet described by h at its line and offset.
func (s *LineSet) InsertHeader(h *Header) error {
	return s.Insert(h.Words(), h.Line, h.Offset)
}

// Line returns the line with the given number, or nil.
func (s *LineSet) Line(n int) *Line {
	return s.lines[n]
}

// Lines returns the lines in order of line number.
func (s *LineSet) Lines() []*Line {
	lines := make([]*Line, 0, len(s.lines))
	for _, l := range s.lines {
		lines = append(lines, l)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Number < lines[j].Number })
	return lines
}

// Reset removes all lines.
func (s *LineSet) Reset() {
	s.lines = make(map[int]*Line)
}

// Compose places the line's entries contiguously and returns the offset of the
// first placed word and the concatenated words. Entries are ordered by
// requested offset, keeping insertion order for equal offsets. The first
// entry is placed at its requested offset and each following entry directly
// after its predecessor. An entry containing a reserved word value after its
// ancillary data flag, or one that would extend past width, is dropped.
// Composing a line with no entries gives no words.
func (l *Line) Compose(width int) (start int, words []uint16) {
	sort.SliceStable(l.Entries, func(i, j int) bool { return l.Entries[i].Offset < l.Entries[j].Offset })

	next := -1
	for _, e := range l.Entries {
		e.Effective, e.Width = 0, 0
		if i, ok := illegalWord(e.Words); ok {
			l.warn("dropping packet with illegal word", "line", l.Number, "offset", e.Offset, "index", i, "word", e.Words[i])
			continue
		}
		off := e.Offset
		if next >= 0 {
			off = next
		}
		if off < 0 {
			off = 0
		}
		if off+len(e.Words) > width {
			l.warn("dropping packet beyond line width", "line", l.Number, "offset", off, "words", len(e.Words), "width", width)
			continue
		}
		if next < 0 {
			start = off
		}
		e.Effective, e.Width = off, len(e.Words)
		words = append(words, e.Words...)
		next = off + len(e.Words)
	}
	return start, words
}

func (l *Line) warn(msg string, args ...interface{}) {
	if l.log != nil {
		l.log.Warning(msg, args...)
	}
}

// illegalWord returns the index of the first word after the ancillary data
// flag holding a value reserved for timing reference signals.
func illegalWord(words []uint16) (int, bool) {
	for i := ADFWords; i < len(words); i++ {
		w := words[i] & 0x3ff
		if w <= 0x003 || w >= 0x3fc {
			return i, true
		}
	}
	return 0, false
}
