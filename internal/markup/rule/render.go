package rule

import (
	"github.com/dshills/inlinemark/internal/markup/artifact"
)

func renderLiteral(r *Rule, _ Env, _ string) artifact.Artifact {
	return artifact.NewElement(r.replacement, r.tag, r.attrs)
}

func renderAnchored(r *Rule, _ Env, content string) artifact.Artifact {
	if r.tag == "" {
		return artifact.NewMark(content, r.attrs)
	}
	return artifact.NewElement(content, r.tag, r.attrs)
}

func renderPattern(r *Rule, _ Env, content string) artifact.Artifact {
	return artifact.NewElement(r.patternContent(content), r.tag, r.attrs)
}

func renderColor(r *Rule, _ Env, content string) artifact.Artifact {
	return artifact.NewElement(trimRunes(content, r.leftTrim, r.rightTrim), r.tag, r.attrs)
}

func renderMath(r *Rule, env Env, content string) artifact.Artifact {
	return artifact.NewMath(env.Typesetter, content, r.inline, env.Logger)
}

// patternContent computes leftInsert + trimmed match + rightInsert, the
// match part only when keepMatch is set.
func (r *Rule) patternContent(match string) string {
	if !r.keepMatch {
		return r.leftInsert + r.rightInsert
	}
	return r.leftInsert + trimRunes(match, r.leftTrim, r.rightTrim) + r.rightInsert
}

// trimRunes drops left characters from the start and right from the end.
// Trims that overlap leave an empty string.
func trimRunes(s string, left, right int) string {
	runes := []rune(s)
	if left+right >= len(runes) {
		return ""
	}
	return string(runes[left : len(runes)-right])
}
