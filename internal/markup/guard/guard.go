// Package guard decides whether a candidate span may be replaced given the
// user's active selections and cursors.
//
// Raw markup under or next to a selection stays visible so it remains
// editable. Which boundary cases count as "next to" is a Policy.
package guard

import "github.com/dshills/inlinemark/internal/markup/core"

// Policy selects the interval test used to reject a candidate.
type Policy uint8

const (
	// PolicyOverlap rejects a candidate [left, right) when any selection
	// intersects the closed interval [left, right]. A caret sitting exactly
	// at left or right blocks replacement, as does a selection covering the
	// whole candidate.
	PolicyOverlap Policy = iota

	// PolicyEndpoint rejects a candidate only when a selection ends inside
	// [left, right] or lies entirely within it. A selection that starts
	// before and ends after the candidate does not block it.
	PolicyEndpoint
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case PolicyOverlap:
		return "overlap"
	case PolicyEndpoint:
		return "endpoint"
	default:
		return "unknown"
	}
}

// PolicyFromString parses a policy name. The empty name is PolicyOverlap.
func PolicyFromString(s string) (Policy, bool) {
	switch s {
	case "", "overlap":
		return PolicyOverlap, true
	case "endpoint", "historical":
		return PolicyEndpoint, true
	default:
		return PolicyOverlap, false
	}
}

// Allows returns true if no selection blocks the candidate [left, right).
func (p Policy) Allows(selections []core.Range, left, right int) bool {
	for _, s := range selections {
		s = s.Normalize()
		if p.blocks(s, left, right) {
			return false
		}
	}
	return true
}

func (p Policy) blocks(s core.Range, left, right int) bool {
	switch p {
	case PolicyEndpoint:
		endInside := s.To >= left && s.To <= right
		contained := s.From >= left && s.To <= right
		return endInside || contained
	default:
		return s.From <= right && s.To >= left
	}
}

// IsOutsideSelections reports whether [left, right) may be replaced under
// the default policy.
func IsOutsideSelections(selections []core.Range, left, right int) bool {
	return PolicyOverlap.Allows(selections, left, right)
}
