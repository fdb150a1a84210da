package loader

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dshills/inlinemark/internal/markup/artifact"
	"github.com/dshills/inlinemark/internal/markup/rule"
)

// File is the decoded form of one rule file.
type File struct {
	Name       string     `toml:"name" yaml:"name"`
	Discipline string     `toml:"discipline" yaml:"discipline"`
	Include    []string   `toml:"@include" yaml:"@include"`
	Builtins   []string   `toml:"builtins" yaml:"builtins"`
	Rules      []RuleSpec `toml:"rules" yaml:"rules"`
}

// RuleSpec describes one rule. Which fields apply depends on Kind.
type RuleSpec struct {
	Name string `toml:"name" yaml:"name"`
	Kind string `toml:"kind" yaml:"kind"`

	// literal
	Literal     string `toml:"literal" yaml:"literal"`
	Replacement string `toml:"replacement" yaml:"replacement"`

	// anchored, pattern
	Pattern     string            `toml:"pattern" yaml:"pattern"`
	Tag         string            `toml:"tag" yaml:"tag"`
	Attributes  map[string]string `toml:"attributes" yaml:"attributes"`
	LeftInsert  string            `toml:"left_insert" yaml:"left_insert"`
	RightInsert string            `toml:"right_insert" yaml:"right_insert"`
	KeepMatch   bool              `toml:"keep_match" yaml:"keep_match"`
	LeftTrim    int               `toml:"left_trim" yaml:"left_trim"`
	RightTrim   int               `toml:"right_trim" yaml:"right_trim"`

	// math-variable
	Denylist []string `toml:"denylist" yaml:"denylist"`

	// escape
	Marker string `toml:"marker" yaml:"marker"`

	// color
	Function string `toml:"function" yaml:"function"`
	Color    string `toml:"color" yaml:"color"`
}

// builtins maps builtins entries to rule constructors.
var builtins = map[string]func() []*rule.Rule{
	"default":        func() []*rule.Rule { return rule.Default().Rules },
	"underline":      func() []*rule.Rule { return []*rule.Rule{rule.Underline()} },
	"mdash":          func() []*rule.Rule { return []*rule.Rule{rule.Mdash()} },
	"todo":           func() []*rule.Rule { return []*rule.Rule{rule.Todo()} },
	"math-variables": func() []*rule.Rule { return []*rule.Rule{rule.MathVariables()} },
	"escapes":        func() []*rule.Rule { return []*rule.Rule{rule.Escapes()} },
	"colors":         func() []*rule.Rule { return rule.Colors() },
}

// Build constructs the rule set: builtins first, then rules in file order.
// All rule errors are reported together.
func (f *File) Build() (*rule.RuleSet, error) {
	discipline, ok := rule.DisciplineFromString(f.Discipline)
	if !ok {
		return nil, fmt.Errorf("unknown discipline %q", f.Discipline)
	}
	rs := rule.NewRuleSet(f.Name).WithDiscipline(discipline)

	var errs []error
	for _, name := range f.Builtins {
		ctor, ok := builtins[name]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownBuiltin, name))
			continue
		}
		rs.Add(ctor()...)
	}
	for i, spec := range f.Rules {
		r, err := spec.Build(i)
		if err != nil {
			errs = append(errs, fmt.Errorf("rules[%d]: %w", i, err))
			continue
		}
		rs.Add(r)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return rs, nil
}

// Build constructs the rule. index names unnamed rules.
func (s RuleSpec) Build(index int) (*rule.Rule, error) {
	kind, ok := rule.KindFromString(s.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", rule.ErrUnknownKind, s.Kind)
	}
	name := s.Name
	if name == "" {
		name = fmt.Sprintf("%s-%d", kind, index+1)
	}
	attrs := artifact.Attributes(s.Attributes)

	switch kind {
	case rule.KindLiteral:
		return rule.NewLiteral(name, s.Literal, s.Replacement)
	case rule.KindAnchored:
		return rule.NewAnchored(name, s.Pattern, s.Tag, attrs)
	case rule.KindPattern:
		return rule.NewPattern(name, rule.PatternConfig{
			Pattern:     s.Pattern,
			LeftInsert:  s.LeftInsert,
			RightInsert: s.RightInsert,
			KeepMatch:   s.KeepMatch,
			LeftTrim:    s.LeftTrim,
			RightTrim:   s.RightTrim,
			Tag:         s.Tag,
			Attributes:  attrs,
		})
	case rule.KindMathVariable:
		return rule.NewMathVariable(name, s.Denylist...), nil
	case rule.KindEscape:
		marker := s.Marker
		if marker == "" {
			marker = `\`
		}
		if utf8.RuneCountInString(marker) != 1 {
			return nil, &rule.ConfigError{
				Rule:  name,
				Kind:  kind,
				Field: "marker",
				Value: marker,
				Err:   errors.New("marker must be a single character"),
			}
		}
		m, _ := utf8.DecodeRuneInString(marker)
		return rule.NewEscapeSequence(name, m)
	case rule.KindColor:
		return rule.NewColorFunction(name, s.Function, s.Color)
	}
	return nil, fmt.Errorf("%w: %q", rule.ErrUnknownKind, s.Kind)
}
