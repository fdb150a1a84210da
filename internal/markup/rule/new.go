package rule

import (
	"regexp"

	"github.com/dshills/inlinemark/internal/markup/artifact"
)

// DefaultDenylist holds single letters that are ordinary English words.
var DefaultDenylist = []string{"a", "A", "I"}

// NewLiteral creates a rule replacing every occurrence of literal with
// replacement, wrapped in a plain element.
func NewLiteral(name, literal, replacement string) (*Rule, error) {
	if literal == "" {
		return nil, configErr(name, KindLiteral, "literal", literal, ErrEmptyLiteral)
	}
	return &Rule{
		name:        name,
		kind:        KindLiteral,
		literal:     literal,
		replacement: replacement,
	}, nil
}

// NewAnchored creates a rule that matches source only at the scan cursor.
// The source is compiled as ^(?:source).
// With an empty tag the rule produces an in-place mark carrying attrs;
// otherwise the matched text is wrapped in the tag.
func NewAnchored(name, source, tag string, attrs []artifact.Attribute) (*Rule, error) {
	re, err := compileAnchored(source)
	if err != nil {
		return nil, configErr(name, KindAnchored, "pattern", source, err)
	}
	return newAnchored(name, re, tag, attrs), nil
}

// NewAnchoredRegexp is NewAnchored for a precompiled pattern.
func NewAnchoredRegexp(name string, re *regexp.Regexp, tag string, attrs []artifact.Attribute) (*Rule, error) {
	if re == nil {
		return nil, configErr(name, KindAnchored, "pattern", "", ErrInvalidPattern)
	}
	anchored, err := compileAnchored(re.String())
	if err != nil {
		return nil, configErr(name, KindAnchored, "pattern", re.String(), err)
	}
	return newAnchored(name, anchored, tag, attrs), nil
}

func newAnchored(name string, re *regexp.Regexp, tag string, attrs []artifact.Attribute) *Rule {
	return &Rule{
		name:    name,
		kind:    KindAnchored,
		pattern: re,
		tag:     tag,
		attrs:   attrs,
	}
}

// compileAnchored wraps the whole source so that every top-level
// alternative is tied to the cursor. A source that already starts with ^
// is wrapped too: ^a|b leaves b unanchored otherwise.
func compileAnchored(source string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("^(?:" + source + ")")
	if err != nil {
		return nil, joinPattern(err)
	}
	return re, nil
}

// PatternConfig configures a general pattern rule.
type PatternConfig struct {
	// Pattern is matched anywhere in the scanned range.
	Pattern string

	// LeftInsert and RightInsert surround the rendered content.
	LeftInsert  string
	RightInsert string

	// KeepMatch includes the trimmed match between the inserts.
	KeepMatch bool

	// LeftTrim and RightTrim count characters removed from each edge of
	// the match before it is kept.
	LeftTrim  int
	RightTrim int

	// Tag and Attributes describe the wrapping element.
	Tag        string
	Attributes []artifact.Attribute
}

// NewPattern creates a general pattern rule.
func NewPattern(name string, cfg PatternConfig) (*Rule, error) {
	re, err := regexp.Compile(cfg.Pattern)
	if err != nil {
		return nil, configErr(name, KindPattern, "pattern", cfg.Pattern, joinPattern(err))
	}
	if cfg.LeftTrim < 0 || cfg.RightTrim < 0 {
		return nil, configErr(name, KindPattern, "trim", cfg.Pattern, ErrInvalidTrim)
	}
	return &Rule{
		name:        name,
		kind:        KindPattern,
		pattern:     re,
		seek:        seekPattern(re),
		leftInsert:  cfg.LeftInsert,
		rightInsert: cfg.RightInsert,
		keepMatch:   cfg.KeepMatch,
		leftTrim:    cfg.LeftTrim,
		rightTrim:   cfg.RightTrim,
		tag:         cfg.Tag,
		attrs:       cfg.Attributes,
	}, nil
}

// NewMathVariable creates a rule typesetting lone letters as math.
// With no denylist, DefaultDenylist is used.
func NewMathVariable(name string, denylist ...string) *Rule {
	if len(denylist) == 0 {
		denylist = DefaultDenylist
	}
	denied := make(map[string]bool, len(denylist))
	for _, w := range denylist {
		denied[w] = true
	}
	return &Rule{
		name:   name,
		kind:   KindMathVariable,
		denied: denied,
		inline: true,
	}
}

// NewEscapeSequence creates a rule typesetting marker-prefixed words,
// such as \alpha, as math.
func NewEscapeSequence(name string, marker rune) (*Rule, error) {
	source := regexp.QuoteMeta(string(marker)) + `[A-Za-z]+`
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, configErr(name, KindEscape, "marker", string(marker), joinPattern(err))
	}
	return &Rule{
		name:    name,
		kind:    KindEscape,
		pattern: re,
		seek:    seekPattern(re),
		inline:  true,
	}, nil
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewColorFunction creates a rule rendering function(argument) as the
// argument colored by the function's color. An empty color uses the
// function name itself, which must then be a known color name.
// The argument is non-empty, single-line and may hold one level of
// nested parentheses.
func NewColorFunction(name, function, color string) (*Rule, error) {
	if !identPattern.MatchString(function) {
		return nil, configErr(name, KindColor, "function", function, ErrInvalidFunction)
	}
	if color == "" {
		color = function
	}
	value, err := CSSColor(color)
	if err != nil {
		return nil, configErr(name, KindColor, "color", color, err)
	}
	source := `\b` + regexp.QuoteMeta(function) + `\((?:[^()\n]|\([^()\n]*\))+\)`
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, configErr(name, KindColor, "function", function, joinPattern(err))
	}
	return &Rule{
		name:      name,
		kind:      KindColor,
		pattern:   re,
		seek:      seekPattern(re),
		tag:       "span",
		attrs:     []artifact.Attribute{{Key: "style", Value: "color:" + value}},
		leftTrim:  len([]rune(function)) + 1,
		rightTrim: 1,
		keepMatch: true,
	}, nil
}

func joinPattern(err error) error {
	return &patternError{err: err}
}

// patternError marks a compile failure as ErrInvalidPattern while keeping
// the regexp diagnostic.
type patternError struct {
	err error
}

func (e *patternError) Error() string { return e.err.Error() }

func (e *patternError) Unwrap() []error { return []error{ErrInvalidPattern, e.err} }
