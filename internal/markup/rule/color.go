package rule

import (
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// namedColors maps the CSS color names accepted by color functions to
// their sRGB values.
var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"gray":    "#808080",
	"grey":    "#808080",
	"silver":  "#c0c0c0",
	"red":     "#ff0000",
	"maroon":  "#800000",
	"orange":  "#ffa500",
	"yellow":  "#ffff00",
	"olive":   "#808000",
	"lime":    "#00ff00",
	"green":   "#008000",
	"teal":    "#008080",
	"cyan":    "#00ffff",
	"aqua":    "#00ffff",
	"blue":    "#0000ff",
	"navy":    "#000080",
	"purple":  "#800080",
	"magenta": "#ff00ff",
	"fuchsia": "#ff00ff",
	"pink":    "#ffc0cb",
	"brown":   "#a52a2a",
}

// NamedColors returns the accepted color names.
func NamedColors() []string {
	names := make([]string, 0, len(namedColors))
	for n := range namedColors {
		names = append(names, n)
	}
	return names
}

// ParseColor resolves a color name or #rgb/#rrggbb hex value.
func ParseColor(value string) (colorful.Color, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if hex, ok := namedColors[v]; ok {
		v = hex
	}
	if !strings.HasPrefix(v, "#") {
		return colorful.Color{}, ErrUnknownColor
	}
	if len(v) == 4 {
		v = "#" + strings.Repeat(v[1:2], 2) + strings.Repeat(v[2:3], 2) + strings.Repeat(v[3:4], 2)
	}
	if len(v) != 7 {
		return colorful.Color{}, ErrUnknownColor
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return colorful.Color{}, ErrUnknownColor
	}
	return c, nil
}

// CSSColor returns the value placed in a color style attribute: the
// lower-cased name for named colors, normalized #rrggbb otherwise.
func CSSColor(value string) (string, error) {
	c, err := ParseColor(value)
	if err != nil {
		return "", err
	}
	v := strings.ToLower(strings.TrimSpace(value))
	if _, ok := namedColors[v]; ok {
		return v, nil
	}
	return c.Hex(), nil
}
