// Package scan drives a RuleSet over a live document and produces the
// decorations a cursor-aware editing surface displays.
//
// Every candidate match is filtered through the selection guard so raw
// markup under the user's selections and cursors stays editable. Results
// are ordered by left offset; ties keep discovery order (rule priority,
// then match order).
package scan

import (
	"context"
	"log/slog"
	"sort"

	"github.com/dshills/inlinemark/internal/markup/artifact"
	"github.com/dshills/inlinemark/internal/markup/core"
	"github.com/dshills/inlinemark/internal/markup/guard"
	"github.com/dshills/inlinemark/internal/markup/rule"
)

// Decoration is an accepted match with its rendered artifact.
type Decoration struct {
	// Left and Right bound the decorated span [Left, Right).
	Left  int
	Right int

	// Rule names the rule that produced the decoration.
	Rule string

	// Artifact is the rendered payload.
	Artifact artifact.Artifact
}

// Span returns the decorated span.
func (d Decoration) Span() core.Range {
	return core.Range{From: d.Left, To: d.Right}
}

// IsMark reports whether the decoration styles text in place rather than
// replacing it.
func (d Decoration) IsMark() bool {
	return d.Artifact != nil && !d.Artifact.Replaces()
}

// Scanner runs a RuleSet in live mode. It holds configuration only and is
// safe for concurrent use by independent scans.
type Scanner struct {
	rules  *rule.RuleSet
	policy guard.Policy
	env    rule.Env
	logger *slog.Logger
	strict bool
}

// New creates a scanner for the rule set.
func New(rs *rule.RuleSet, opts ...Option) *Scanner {
	if rs == nil {
		rs = rule.NewRuleSet("empty")
	}
	logger := slog.New(slog.DiscardHandler)
	s := &Scanner{
		rules:  rs,
		policy: guard.PolicyOverlap,
		logger: logger,
		env:    rule.Env{Logger: logger},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RuleSet returns the scanner's rule set.
func (s *Scanner) RuleSet() *rule.RuleSet {
	return s.rules
}

// Decorate scans the ranges of doc and returns the accepted decorations.
// Nil or empty ranges scan the whole document. Selections are exclusion
// zones for this call only.
func (s *Scanner) Decorate(doc string, ranges, selections []core.Range) []Decoration {
	decos, _ := s.DecorateContext(context.Background(), doc, ranges, selections)
	return decos
}

// DecorateContext is Decorate with cancellation. A rule is never
// interrupted mid-scan; when ctx is done the remaining rules are skipped
// and the decorations found so far are returned with ctx.Err().
func (s *Scanner) DecorateContext(ctx context.Context, doc string, ranges, selections []core.Range) ([]Decoration, error) {
	ranges = mergeRanges(ranges, len(doc))

	var decos []Decoration
	var err error
	switch s.rules.Discipline {
	case rule.DisciplineFirstMatch:
		decos, err = s.firstMatch(ctx, doc, ranges, selections)
	default:
		decos, err = s.independent(ctx, doc, ranges, selections)
	}

	sort.SliceStable(decos, func(i, j int) bool {
		return decos[i].Left < decos[j].Left
	})

	s.logger.Debug("decorated",
		slog.String("rules", s.rules.Name),
		slog.String("discipline", s.rules.Discipline.String()),
		slog.Int("ranges", len(ranges)),
		slog.Int("selections", len(selections)),
		slog.Int("decorations", len(decos)))
	return decos, err
}

// independent runs each rule over every range without regard to the
// other rules' matches.
func (s *Scanner) independent(ctx context.Context, doc string, ranges, selections []core.Range) ([]Decoration, error) {
	var decos []Decoration
	for _, r := range s.rules.Rules {
		if err := ctx.Err(); err != nil {
			return decos, err
		}
		if r == nil {
			continue
		}
		for _, rng := range ranges {
			for m := range r.Scan(doc, rng) {
				if d, ok := s.accept(r, doc, m, selections); ok {
					decos = append(decos, d)
				}
			}
		}
	}
	return decos, nil
}

// accept validates, guards and renders one match.
func (s *Scanner) accept(r *rule.Rule, doc string, m core.Match, selections []core.Range) (Decoration, bool) {
	m = s.checkOffsets(r, doc, m)
	if !s.policy.Allows(selections, m.Left, m.Right) {
		return Decoration{}, false
	}
	return Decoration{
		Left:     m.Left,
		Right:    m.Right,
		Rule:     r.Name(),
		Artifact: r.Render(s.env, m.Content),
	}, true
}

// checkOffsets enforces 0 <= Left <= Right <= len(doc). Violations panic in
// strict mode and are clamped and logged otherwise.
func (s *Scanner) checkOffsets(r *rule.Rule, doc string, m core.Match) core.Match {
	fixed, changed := core.Clamp(m, doc)
	if !changed {
		return m
	}
	oerr := &core.OffsetError{Rule: r.Name(), Match: m, DocLen: len(doc)}
	if s.strict {
		panic(oerr)
	}
	s.logger.Warn("clamped out-of-bounds match", slog.Any("error", oerr))
	return fixed
}

// mergeRanges clips ranges to the document, sorts them and merges
// overlapping ones so no text is scanned twice.
func mergeRanges(ranges []core.Range, docLen int) []core.Range {
	if len(ranges) == 0 {
		return []core.Range{{From: 0, To: docLen}}
	}
	clipped := make([]core.Range, 0, len(ranges))
	for _, r := range ranges {
		clipped = append(clipped, r.Clip(docLen))
	}
	sort.Slice(clipped, func(i, j int) bool {
		return clipped[i].From < clipped[j].From
	})
	merged := clipped[:1]
	for _, r := range clipped[1:] {
		last := &merged[len(merged)-1]
		if r.From < last.To {
			if r.To > last.To {
				last.To = r.To
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}
