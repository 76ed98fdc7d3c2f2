package title

import (
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]string{
	"black":     "#000000",
	"white":     "#ffffff",
	"red":       "#ff0000",
	"green":     "#00ff00",
	"blue":      "#0000ff",
	"yellow":    "#ffff00",
	"orange":    "#ffa500",
	"purple":    "#800080",
	"magenta":   "#ff00ff",
	"cyan":      "#00ffff",
	"brown":     "#a52a2a",
	"gray":      "#808080",
	"grey":      "#808080",
	"lightgray": "#d3d3d3",
	"darkgray":  "#a9a9a9",
	"pink":      "#ffc0cb",
	"teal":      "#008080",
	"navy":      "#000080",
}

// NormalizeColor resolves a color directive to "#rrggbb". A "light,dark"
// pair resolves to its light half. Unknown values yield "".
func NormalizeColor(raw string) string {
	value := strings.TrimSpace(raw)
	if light, _, ok := strings.Cut(value, ","); ok {
		value = strings.TrimSpace(light)
	}
	if value == "" {
		return ""
	}

	if strings.HasPrefix(value, "#") {
		if len(value) != 4 && len(value) != 7 {
			return ""
		}
		c, err := colorful.Hex(value)
		if err != nil {
			return ""
		}
		return c.Hex()
	}
	return namedColors[strings.ToLower(value)]
}
