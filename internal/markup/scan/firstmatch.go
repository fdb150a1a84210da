package scan

import (
	"context"
	"unicode/utf8"

	"github.com/dshills/inlinemark/internal/markup/core"
	"github.com/dshills/inlinemark/internal/markup/rule"
)

// pending is one rule's earliest known match at or after the cursor.
type pending struct {
	m    core.Match
	done bool
}

// firstMatch walks each range with a cursor. At each step the rule whose
// next match starts earliest wins, ties going to rule order, and the
// cursor resumes after that match. A match rejected by the guard is
// skipped for its rule only, so a lower-priority rule may still claim the
// same position.
func (s *Scanner) firstMatch(ctx context.Context, doc string, ranges, selections []core.Range) ([]Decoration, error) {
	var decos []Decoration
	rules := s.rules.Rules
	for _, rng := range ranges {
		next := make([]pending, len(rules))
		for i, r := range rules {
			if r == nil {
				next[i].done = true
				continue
			}
			next[i] = seek(r, doc, rng, rng.From)
		}

		pos := rng.From
		for {
			if err := ctx.Err(); err != nil {
				return decos, err
			}
			best := -1
			for i := range next {
				if next[i].done {
					continue
				}
				if next[i].m.Left < pos {
					next[i] = seek(rules[i], doc, rng, pos)
					if next[i].done {
						continue
					}
				}
				if best < 0 || next[i].m.Left < next[best].m.Left {
					best = i
				}
			}
			if best < 0 {
				break
			}

			m := next[best].m
			d, ok := s.accept(rules[best], doc, m, selections)
			if !ok {
				next[best] = seek(rules[best], doc, rng, m.Left+step(doc, m.Left))
				continue
			}
			decos = append(decos, d)

			if m.Right > m.Left {
				pos = m.Right
			} else {
				pos = m.Left + step(doc, m.Left)
			}
		}
	}
	return decos, nil
}

// seek finds the rule's first match in rng starting at or after from.
func seek(r *rule.Rule, doc string, rng core.Range, from int) pending {
	if from > rng.To {
		return pending{done: true}
	}
	m, ok := r.FirstFrom(doc, rng, from)
	if !ok {
		return pending{done: true}
	}
	return pending{m: m}
}

// step returns the width of the character at pos, at least 1.
func step(doc string, pos int) int {
	if pos >= len(doc) {
		return 1
	}
	_, size := utf8.DecodeRuneInString(doc[pos:])
	if size < 1 {
		return 1
	}
	return size
}
