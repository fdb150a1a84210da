// Package rule provides the markup recognizers and the RuleSet that
// configures a scan.
//
// A Rule is a single tagged value: Kind selects the scan and render
// behavior from one dispatch table, and the remaining fields hold the
// configuration for that kind. Rules are immutable after construction and
// safe to share across concurrent scans.
package rule

import (
	"iter"
	"log/slog"
	"regexp"

	"github.com/dshills/inlinemark/internal/markup/artifact"
	"github.com/dshills/inlinemark/internal/markup/core"
)

// Kind identifies a rule variant.
type Kind uint8

const (
	// KindLiteral matches an exact substring and replaces it with fixed text.
	KindLiteral Kind = iota

	// KindAnchored matches a pattern only at the scan cursor.
	KindAnchored

	// KindPattern matches a pattern anywhere in the range.
	KindPattern

	// KindMathVariable matches a lone letter surrounded by whitespace.
	KindMathVariable

	// KindEscape matches a marker character followed by letters.
	KindEscape

	// KindColor matches name(argument) color functions.
	KindColor

	kindCount
)

var kindNames = [kindCount]string{
	KindLiteral:      "literal",
	KindAnchored:     "anchored",
	KindPattern:      "pattern",
	KindMathVariable: "math-variable",
	KindEscape:       "escape",
	KindColor:        "color",
}

// String returns the kind name.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

// KindFromString parses a kind name.
func KindFromString(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// Env carries the collaborators a rule needs to render a match.
type Env struct {
	// Typesetter renders math. Nil makes math rules fall back to raw text.
	Typesetter artifact.Typesetter

	// Logger receives render failures. Nil disables logging.
	Logger *slog.Logger
}

// Rule is one markup recognizer.
type Rule struct {
	name string
	kind Kind

	// Matching configuration. seek is pattern behind one character of
	// context, used to resume a scan in the middle of a range.
	pattern *regexp.Regexp
	seek    *regexp.Regexp
	literal string
	denied  map[string]bool

	// Rendering configuration.
	replacement string
	tag         string
	attrs       []artifact.Attribute
	leftInsert  string
	rightInsert string
	keepMatch   bool
	leftTrim    int
	rightTrim   int
	inline      bool
}

// behavior is the per-kind implementation.
type behavior struct {
	scan   func(r *Rule, doc string, rng core.Range) iter.Seq[core.Match]
	render func(r *Rule, env Env, content string) artifact.Artifact
}

// behaviors is the dispatch table indexed by Kind.
var behaviors = [kindCount]behavior{
	KindLiteral:      {scan: scanLiteral, render: renderLiteral},
	KindAnchored:     {scan: scanAnchored, render: renderAnchored},
	KindPattern:      {scan: scanPattern, render: renderPattern},
	KindMathVariable: {scan: scanMathVariable, render: renderMath},
	KindEscape:       {scan: scanPattern, render: renderMath},
	KindColor:        {scan: scanPattern, render: renderColor},
}

// Name returns the rule name.
func (r *Rule) Name() string { return r.name }

// Kind returns the rule kind.
func (r *Rule) Kind() Kind { return r.kind }

// Pattern returns the compiled pattern, or nil for kinds without one.
func (r *Rule) Pattern() *regexp.Regexp { return r.pattern }

// Tag returns the configured element tag.
func (r *Rule) Tag() string { return r.tag }

// Attributes returns the configured element attributes.
func (r *Rule) Attributes() []artifact.Attribute { return r.attrs }

// Scan returns the rule's occurrences within rng, in source order.
// The sequence is finite and restartable: each iteration scans afresh.
// The range is clipped to the document.
func (r *Rule) Scan(doc string, rng core.Range) iter.Seq[core.Match] {
	rng = rng.Clip(len(doc))
	return behaviors[r.kind].scan(r, doc, rng)
}

// First returns the earliest occurrence within rng.
func (r *Rule) First(doc string, rng core.Range) (core.Match, bool) {
	return r.FirstFrom(doc, rng, rng.From)
}

// FirstFrom returns the earliest occurrence within rng starting at or
// after from. Anchors and word boundaries see the same context a Scan of
// rng would, so resuming mid-range never matches inside a word.
func (r *Rule) FirstFrom(doc string, rng core.Range, from int) (core.Match, bool) {
	rng = rng.Clip(len(doc))
	from = max(from, rng.From)
	if from > rng.To {
		return core.Match{}, false
	}
	if r.pattern != nil && r.kind != KindAnchored {
		return firstRegexp(r, doc, rng, from)
	}
	for m := range behaviors[r.kind].scan(r, doc, core.Range{From: from, To: rng.To}) {
		return m, true
	}
	return core.Match{}, false
}

// Render builds the artifact for a match's content. It never fails: a
// render failure yields an artifact showing the raw content.
func (r *Rule) Render(env Env, content string) artifact.Artifact {
	return behaviors[r.kind].render(r, env, content)
}
