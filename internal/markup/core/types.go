// Package core provides the offset and span types shared by the markup
// subsystem. This package breaks import cycles between rule, guard and scan.
package core

import "fmt"

// Range is a half-open byte interval [From, To) over a document snapshot.
// It describes both where to scan and what a selection covers.
type Range struct {
	From int
	To   int
}

// NewRange creates a range from two offsets.
func NewRange(from, to int) Range {
	return Range{From: from, To: to}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.From, r.To)
}

// Len returns the length of the range in bytes.
func (r Range) Len() int {
	return r.To - r.From
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.From == r.To
}

// IsValid returns true if From <= To.
func (r Range) IsValid() bool {
	return r.From <= r.To
}

// Normalize returns the range with From <= To.
// Selections may be backward (head before anchor).
func (r Range) Normalize() Range {
	if r.From > r.To {
		return Range{From: r.To, To: r.From}
	}
	return r
}

// Clip restricts the range to [0, docLen].
func (r Range) Clip(docLen int) Range {
	r = r.Normalize()
	r.From = clampInt(r.From, 0, docLen)
	r.To = clampInt(r.To, 0, docLen)
	return r
}

// Match is a raw occurrence reported by a rule: the span [Left, Right) and
// the slice of the document it covers.
type Match struct {
	Left    int
	Right   int
	Content string
}

// Span returns the match bounds as a range.
func (m Match) Span() Range {
	return Range{From: m.Left, To: m.Right}
}

// Len returns the length of the match in bytes.
func (m Match) Len() int {
	return m.Right - m.Left
}

// Valid reports whether 0 <= Left <= Right <= docLen.
func (m Match) Valid(docLen int) bool {
	return m.Left >= 0 && m.Left <= m.Right && m.Right <= docLen
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
