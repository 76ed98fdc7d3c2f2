package title

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Render styles t for a terminal. Font families cannot be honoured there, so
// only their bold/italic hints are.
func Render(t Title) string {
	style := lipgloss.NewStyle()
	if t.Color != "" {
		style = style.Foreground(lipgloss.Color(t.Color))
	}
	font := strings.ToLower(t.Font)
	if strings.Contains(font, "bold") {
		style = style.Bold(true)
	}
	if strings.Contains(font, "italic") || strings.Contains(font, "oblique") {
		style = style.Italic(true)
	}
	return style.Render(t.Text)
}
