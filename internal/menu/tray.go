package menu

import (
	"context"
	"strings"

	"github.com/example/scriptbar/internal/parser"
)

// Tray renders a Bar until ctx is done or the user quits.
type Tray interface {
	Run(ctx context.Context, bar *Bar) error
}

// EntryLabel is the single-line text of a node in a native menu. Native
// menus cannot show line breaks, so they are folded into spaces.
func EntryLabel(n *parser.Node) string {
	text := strings.ReplaceAll(n.Title.Text, "\n", " ")
	if n.Params.Shortcut != nil {
		text += "\t" + n.Params.Shortcut.String()
	}
	return text
}

// VisibleEntries lists what a native menu can show at one level. Alternate
// entries need a modifier-key event native trays do not deliver, so they are
// left out.
func VisibleEntries(nodes []*parser.Node) []*parser.Node {
	out := make([]*parser.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Params.Alternate {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Entries is the top level of the dropdown: header lines first, then the
// body.
func Entries(res *parser.Result) []*parser.Node {
	if res == nil || res.Tree == nil {
		return nil
	}
	entries := make([]*parser.Node, 0, len(res.Tree.HeaderItems)+len(res.Tree.Roots))
	entries = append(entries, VisibleEntries(res.Tree.HeaderItems)...)
	entries = append(entries, VisibleEntries(res.Tree.Roots)...)
	return entries
}
