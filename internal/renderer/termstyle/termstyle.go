// Package termstyle converts live-mode decorations into styled spans for a
// terminal surface.
//
// Replacing artifacts become display text with markup stripped and
// entities decoded; marks keep the document text and only add style.
package termstyle

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/net/html"

	"github.com/dshills/inlinemark/internal/markup/artifact"
	"github.com/dshills/inlinemark/internal/markup/rule"
	"github.com/dshills/inlinemark/internal/markup/scan"
)

// Span is a styled region of the document.
type Span struct {
	// Left and Right bound the document span [Left, Right).
	Left  int
	Right int

	// Style is applied to the span's cells.
	Style tcell.Style

	// Text replaces the document text when Replace is set.
	Text    string
	Replace bool
}

func underline(s tcell.Style) tcell.Style { return s.Underline(true) }
func bold(s tcell.Style) tcell.Style      { return s.Bold(true) }
func italic(s tcell.Style) tcell.Style    { return s.Italic(true) }
func strike(s tcell.Style) tcell.Style    { return s.StrikeThrough(true) }

// tagStyles maps element tags to terminal attributes.
var tagStyles = map[string]func(tcell.Style) tcell.Style{
	"u":      underline,
	"b":      bold,
	"strong": bold,
	"i":      italic,
	"em":     italic,
	"s":      strike,
	"del":    strike,
}

// Spans converts decorations in order. base is the style of undecorated
// text that decoration styles are layered on.
func Spans(base tcell.Style, decorations []scan.Decoration) []Span {
	spans := make([]Span, 0, len(decorations))
	for _, d := range decorations {
		if d.Artifact == nil {
			continue
		}
		spans = append(spans, convert(base, d))
	}
	return spans
}

func convert(base tcell.Style, d scan.Decoration) Span {
	sp := Span{Left: d.Left, Right: d.Right, Style: base}

	switch a := d.Artifact.(type) {
	case *artifact.Mark:
		sp.Style = applyAttributes(base, a.Attributes)
	case *artifact.Element:
		sp.Style = applyTag(applyAttributes(base, a.Attributes), a.Tag)
		sp.Text, sp.Replace = DisplayText(a.Inner), true
	case *artifact.Math:
		sp.Style = italic(base)
		sp.Text, sp.Replace = DisplayText(a.Markup), true
	case *artifact.Fallback:
		sp.Text, sp.Replace = a.Raw, true
	default:
		sp.Text, sp.Replace = DisplayText(a.String()), a.Replaces()
	}
	return sp
}

func applyTag(style tcell.Style, tag string) tcell.Style {
	if fn, ok := tagStyles[strings.ToLower(tag)]; ok {
		return fn(style)
	}
	return style
}

// applyAttributes layers an inline style attribute onto style.
// Unknown properties and colors are ignored.
func applyAttributes(style tcell.Style, attrs []artifact.Attribute) tcell.Style {
	css, ok := artifact.Lookup(attrs, "style")
	if !ok {
		return style
	}
	for _, decl := range strings.Split(css, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.ToLower(strings.TrimSpace(value))

		switch prop {
		case "color":
			if c, ok := Color(value); ok {
				style = style.Foreground(c)
			}
		case "background", "background-color":
			if c, ok := Color(value); ok {
				style = style.Background(c)
			}
		case "font-weight":
			if value == "bold" || value == "bolder" {
				style = bold(style)
			}
		case "font-style":
			if value == "italic" || value == "oblique" {
				style = italic(style)
			}
		case "text-decoration", "text-decoration-line":
			for _, v := range strings.Fields(value) {
				switch v {
				case "underline":
					style = underline(style)
				case "line-through":
					style = strike(style)
				}
			}
		}
	}
	return style
}

// Color resolves a CSS color to a terminal color. Names and hex accepted
// by color rules map to exact RGB; other names fall back to tcell's table.
func Color(value string) (tcell.Color, bool) {
	if c, err := rule.ParseColor(value); err == nil {
		r, g, b := c.RGB255()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b)), true
	}
	if c := tcell.GetColor(value); c != tcell.ColorDefault {
		return c, true
	}
	return tcell.ColorDefault, false
}

// DisplayText returns the text content of trusted inline markup.
func DisplayText(markup string) string {
	if !strings.ContainsAny(markup, "<&") {
		return markup
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
