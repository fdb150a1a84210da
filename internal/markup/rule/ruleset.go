package rule

import (
	"errors"
	"fmt"
)

// Discipline selects how a live scan combines the rules of a set.
type Discipline uint8

const (
	// DisciplineIndependent scans the range once per rule. Rules do not see
	// each other's matches and overlapping decorations are all kept.
	DisciplineIndependent Discipline = iota

	// DisciplineFirstMatch walks the range position by position, takes the
	// first rule in set order that matches at the position and resumes
	// after that match. Decorations never overlap.
	DisciplineFirstMatch
)

// String returns the discipline name.
func (d Discipline) String() string {
	switch d {
	case DisciplineIndependent:
		return "independent"
	case DisciplineFirstMatch:
		return "first-match"
	default:
		return "unknown"
	}
}

// DisciplineFromString parses a discipline name.
func DisciplineFromString(s string) (Discipline, bool) {
	switch s {
	case "", "independent":
		return DisciplineIndependent, true
	case "first-match", "first_match", "firstmatch":
		return DisciplineFirstMatch, true
	default:
		return DisciplineIndependent, false
	}
}

// RuleSet is an ordered collection of rules. Order is rule priority.
type RuleSet struct {
	// Name identifies the set in logs.
	Name string

	// Rules are applied in order.
	Rules []*Rule

	// Discipline selects the live scanning discipline.
	Discipline Discipline
}

// NewRuleSet creates a rule set with the independent discipline.
func NewRuleSet(name string, rules ...*Rule) *RuleSet {
	return &RuleSet{Name: name, Rules: rules}
}

// Add appends rules to the set.
func (rs *RuleSet) Add(rules ...*Rule) *RuleSet {
	rs.Rules = append(rs.Rules, rules...)
	return rs
}

// WithDiscipline sets the scanning discipline.
func (rs *RuleSet) WithDiscipline(d Discipline) *RuleSet {
	rs.Discipline = d
	return rs
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rules)
}

// Lookup returns the first rule with the given name.
func (rs *RuleSet) Lookup(name string) (*Rule, bool) {
	for _, r := range rs.Rules {
		if r != nil && r.name == name {
			return r, true
		}
	}
	return nil, false
}

// Validate reports nil rules and duplicate names.
func (rs *RuleSet) Validate() error {
	var errs []error
	seen := make(map[string]int, len(rs.Rules))
	for i, r := range rs.Rules {
		if r == nil {
			errs = append(errs, fmt.Errorf("rule %d: %w", i, ErrNilRule))
			continue
		}
		if prev, ok := seen[r.name]; ok && r.name != "" {
			errs = append(errs, fmt.Errorf("rule %d: name %q already used by rule %d", i, r.name, prev))
			continue
		}
		seen[r.name] = i
	}
	return errors.Join(errs...)
}
