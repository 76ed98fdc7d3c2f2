// Package title turns a decoded line into the styled title shown in the menu
// bar or a menu entry.
package title

import (
	"strings"

	"github.com/example/scriptbar/internal/directive"
)

// Ellipsis is appended to truncated titles.
const Ellipsis = "..."

// Title is a formatted, renderable title.
type Title struct {
	Text string
	// FullText is the title before truncation and newline unescaping.
	FullText  string
	Tooltip   string
	Truncated bool

	// Color is a normalised "#rrggbb" value or empty for the default.
	Color string
	Font  string
	Size  float64
	Icon  *Icon
}

// Format applies trim, emoji substitution, truncation, newline unescaping and
// styling, in that order. It is pure.
func Format(p directive.Params) Title {
	text := p.Text
	if p.Trim {
		text = strings.TrimSpace(text)
	}
	if p.Emojize {
		text = Emojize(text)
	}

	full := text
	truncated := false
	if p.Length > 0 {
		runes := []rune(text)
		if p.Length < len(runes) {
			text = string(runes[:p.Length]) + Ellipsis
			truncated = true
		}
	}
	text = strings.ReplaceAll(text, `\n`, "\n")

	t := Title{
		Text:      text,
		FullText:  full,
		Truncated: truncated,
		Color:     NormalizeColor(p.Color),
		Font:      p.Font,
		Size:      p.Size,
		Icon:      decodeIcon(p),
	}
	switch {
	case p.Tooltip != "":
		t.Tooltip = p.Tooltip
	case truncated:
		t.Tooltip = full
	}
	return t
}

// FormatLine parses and formats a raw line in one step.
func FormatLine(line string) Title {
	return Format(directive.Parse(line))
}

// WithColor formats p with its color replaced. An empty color clears it.
func WithColor(p directive.Params, color string) Title {
	p.Color = color
	return Format(p)
}
