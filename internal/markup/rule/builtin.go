package rule

import "github.com/dshills/inlinemark/internal/markup/artifact"

// Underline renders -text- as underlined text.
func Underline() *Rule {
	return must(NewPattern("underline", PatternConfig{
		Pattern:   `-[^\n]+?-`,
		KeepMatch: true,
		LeftTrim:  1,
		RightTrim: 1,
		Tag:       "u",
	}))
}

// Mdash renders a double dash as an em dash.
func Mdash() *Rule {
	return must(NewLiteral("mdash", "--", "&mdash;"))
}

// Todo marks TODO in red without replacing it.
func Todo() *Rule {
	return must(NewAnchored("todo", `TODO\b`, "", []artifact.Attribute{
		{Key: "style", Value: "color:red"},
	}))
}

// MathVariables typesets lone letters as math.
func MathVariables() *Rule {
	return NewMathVariable("math-variable")
}

// Escapes typesets backslash sequences such as \alpha as math.
func Escapes() *Rule {
	return must(NewEscapeSequence("escape", '\\'))
}

// Colors returns one color function rule per name, red(...) and so on.
// With no names, red, green and blue are used.
func Colors(names ...string) []*Rule {
	if len(names) == 0 {
		names = []string{"red", "green", "blue"}
	}
	rules := make([]*Rule, 0, len(names))
	for _, n := range names {
		rules = append(rules, must(NewColorFunction("color-"+n, n, "")))
	}
	return rules
}

// Default returns the built-in rule set. The math rules come last:
// substitution chains, and typeset markup must not be rescanned by the
// text rules.
func Default() *RuleSet {
	rs := NewRuleSet("default",
		Mdash(),
		Underline(),
		Todo(),
	)
	rs.Add(Colors()...)
	return rs.Add(MathVariables(), Escapes())
}

func must(r *Rule, err error) *Rule {
	if err != nil {
		panic(err)
	}
	return r
}
