package service

import (
	"github.com/example/scriptbar/internal/menu"
	"github.com/example/scriptbar/internal/parser"
	"github.com/example/scriptbar/internal/protocol"
)

// Snapshot converts the current state of bar into its wire form.
func Snapshot(bar *menu.Bar) *protocol.Menu {
	snap := bar.Snapshot()
	tree := snap.Result.Tree

	out := &protocol.Menu{
		Generation: tree.Generation.String(),
		Header:     append([]string(nil), tree.Header...),
		Title:      snap.Title.Title.Text,
		Updated:    bar.LastUpdatedLabel(),
		Open:       snap.Cycle.Open,
		Shortcuts:  bar.Shortcuts().Combos(),
		Items:      make([]protocol.Item, 0, len(tree.HeaderItems)+len(tree.Roots)),
	}
	for _, n := range tree.HeaderItems {
		item := toItem(n)
		item.Header = true
		out.Items = append(out.Items, item)
	}
	for _, n := range tree.Roots {
		out.Items = append(out.Items, toItem(n))
	}
	return out
}

func toItem(n *parser.Node) protocol.Item {
	item := protocol.Item{
		Handle:     n.Handle.String(),
		Separator:  n.Separator,
		Selectable: n.Selectable(),
	}
	if n.Separator {
		return item
	}
	item.Text = n.Title.Text
	item.Tooltip = n.Title.Tooltip
	item.Color = n.Title.Color
	item.Checked = n.Params.Checked
	item.Alternate = n.Params.Alternate
	if n.Params.Shortcut != nil {
		item.Shortcut = n.Params.Shortcut.String()
	}
	for _, child := range n.Children {
		item.Children = append(item.Children, toItem(child))
	}
	return item
}
