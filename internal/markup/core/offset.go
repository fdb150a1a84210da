package core

import (
	"fmt"
	"unicode/utf8"
)

// OffsetError reports a match whose bounds violate
// 0 <= Left <= Right <= len(document). It indicates a bug in a rule.
type OffsetError struct {
	// Rule names the rule that produced the match.
	Rule string
	// Match is the offending match as reported.
	Match Match
	// DocLen is the document length at scan time.
	DocLen int
}

// Error implements the error interface.
func (e *OffsetError) Error() string {
	return fmt.Sprintf("rule %q reported span [%d:%d) outside document of length %d",
		e.Rule, e.Match.Left, e.Match.Right, e.DocLen)
}

// Clamp forces the match bounds into [0, len(doc)] and re-slices Content.
// It returns the repaired match and whether any change was needed.
func Clamp(m Match, doc string) (Match, bool) {
	if m.Valid(len(doc)) {
		return m, false
	}
	left := clampInt(m.Left, 0, len(doc))
	right := clampInt(m.Right, 0, len(doc))
	if right < left {
		right = left
	}
	return Match{Left: left, Right: right, Content: doc[left:right]}, true
}

// CharOffset converts a byte offset into a character (rune) index.
// Hosts that address the document by character use it to translate spans.
func CharOffset(doc string, byteOff int) int {
	byteOff = clampInt(byteOff, 0, len(doc))
	return utf8.RuneCountInString(doc[:byteOff])
}

// ByteOffset converts a character (rune) index into a byte offset.
// Indices past the end map to len(doc).
func ByteOffset(doc string, charOff int) int {
	if charOff <= 0 {
		return 0
	}
	n := 0
	for i := range doc {
		if n == charOff {
			return i
		}
		n++
	}
	return len(doc)
}

// CharRange converts a byte range into a character range.
func CharRange(doc string, r Range) Range {
	return Range{From: CharOffset(doc, r.From), To: CharOffset(doc, r.To)}
}
