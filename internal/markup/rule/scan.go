package rule

import (
	"iter"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dshills/inlinemark/internal/markup/core"
)

// scanLiteral reports non-overlapping occurrences of the literal.
func scanLiteral(r *Rule, doc string, rng core.Range) iter.Seq[core.Match] {
	return func(yield func(core.Match) bool) {
		text := doc[rng.From:rng.To]
		pos := 0
		for pos < len(text) {
			idx := strings.Index(text[pos:], r.literal)
			if idx < 0 {
				return
			}
			left := rng.From + pos + idx
			right := left + len(r.literal)
			if !yield(core.Match{Left: left, Right: right, Content: doc[left:right]}) {
				return
			}
			pos += idx + len(r.literal)
		}
	}
}

// scanPattern reports every occurrence of the pattern in the range.
// Anchors and word boundaries are evaluated relative to the range.
func scanPattern(r *Rule, doc string, rng core.Range) iter.Seq[core.Match] {
	return scanRegexp(r.pattern, doc, rng)
}

func scanRegexp(re *regexp.Regexp, doc string, rng core.Range) iter.Seq[core.Match] {
	return func(yield func(core.Match) bool) {
		text := doc[rng.From:rng.To]
		// FindAll steps at least one character past an empty match, so
		// the loop is bounded by len(text)+1 matches.
		for _, loc := range re.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			left, right := rng.From+start, rng.From+end
			if !yield(core.Match{Left: left, Right: right, Content: doc[left:right]}) {
				return
			}
		}
	}
}

// seekPattern wraps re so that it runs on text starting one character
// before the cursor: that character is consumed as context and group 1 is
// the earliest match of re at or after the cursor.
func seekPattern(re *regexp.Regexp) *regexp.Regexp {
	seek, err := regexp.Compile(`\A(?s:.)(?s:.*?)(` + re.String() + `)`)
	if err != nil {
		return nil
	}
	return seek
}

func firstRegexp(r *Rule, doc string, rng core.Range, from int) (core.Match, bool) {
	if from == rng.From || r.seek == nil {
		loc := r.pattern.FindStringIndex(doc[from:rng.To])
		if loc == nil {
			return core.Match{}, false
		}
		left, right := from+loc[0], from+loc[1]
		return core.Match{Left: left, Right: right, Content: doc[left:right]}, true
	}
	_, width := utf8.DecodeLastRuneInString(doc[rng.From:from])
	base := from - width
	loc := r.seek.FindStringSubmatchIndex(doc[base:rng.To])
	if loc == nil {
		return core.Match{}, false
	}
	left, right := base+loc[2], base+loc[3]
	return core.Match{Left: left, Right: right, Content: doc[left:right]}, true
}

// scanAnchored walks a cursor through the range and tests the anchored
// pattern against the text starting at the cursor. A match resumes the
// cursor at its end; no match, or an empty one, advances by one character.
// Empty matches are not reported since a mark over nothing has no effect.
func scanAnchored(r *Rule, doc string, rng core.Range) iter.Seq[core.Match] {
	return func(yield func(core.Match) bool) {
		pos := rng.From
		for pos < rng.To {
			loc := r.pattern.FindStringIndex(doc[pos:rng.To])
			if loc != nil && loc[0] == 0 && loc[1] > 0 {
				left, right := pos, pos+loc[1]
				if !yield(core.Match{Left: left, Right: right, Content: doc[left:right]}) {
					return
				}
				pos = right
				continue
			}
			pos += runeWidth(doc, pos)
		}
	}
}

// scanMathVariable reports single letters flanked on both sides by
// whitespace or a document edge. Flanks are read from the whole document,
// so a range boundary inside a word does not count as a line boundary.
func scanMathVariable(r *Rule, doc string, rng core.Range) iter.Seq[core.Match] {
	return func(yield func(core.Match) bool) {
		pos := rng.From
		for pos < rng.To {
			if !boundaryBefore(doc, pos) {
				pos += runeWidth(doc, pos)
				continue
			}
			cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(doc[pos:rng.To], -1)
			right := pos + len(cluster)
			if isLetter(cluster) && boundaryAfter(doc, right) && !r.denied[cluster] {
				if !yield(core.Match{Left: pos, Right: right, Content: cluster}) {
					return
				}
			}
			if len(cluster) == 0 {
				return
			}
			pos = right
		}
	}
}

// isLetter reports whether the grapheme cluster is exactly one letter rune.
// Letters carrying combining marks are more than one rune and are excluded.
func isLetter(cluster string) bool {
	r, size := utf8.DecodeRuneInString(cluster)
	return size > 0 && size == len(cluster) && unicode.IsLetter(r)
}

func boundaryBefore(doc string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(doc[:pos])
	return unicode.IsSpace(r)
}

func boundaryAfter(doc string, pos int) bool {
	if pos >= len(doc) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(doc[pos:])
	return unicode.IsSpace(r)
}

// runeWidth returns the byte width of the rune at pos, at least 1.
func runeWidth(doc string, pos int) int {
	_, size := utf8.DecodeRuneInString(doc[pos:])
	if size < 1 {
		return 1
	}
	return size
}
