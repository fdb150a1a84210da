// Package markup recognizes lightweight inline markup in plain-text documents.
//
// The markup subsystem classifies spans of an immutable text snapshot and
// turns each recognized span into a presentational artifact. It never edits
// the document and does not own the selection model.
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│   scan (live mode)  │  bulk (static)    │
//	├─────────────────────────────────────────┤
//	│  rule (RuleSet, six rule kinds)         │
//	├─────────────────────────────────────────┤
//	│  guard  │  artifact (Element/Mark/Math) │
//	├─────────────────────────────────────────┤
//	│  core (Range, Match, offsets)           │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	s := scan.New(rule.Default(), scan.WithTypesetter(ts))
//	decos := s.Decorate(doc, []core.Range{{From: 0, To: len(doc)}}, selections)
//
//	html := bulk.Apply(fragment, rule.Default())
package markup
