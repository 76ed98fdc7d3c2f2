package main

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/example/scriptbar/internal/action"
	"github.com/example/scriptbar/internal/parser"
	"github.com/example/scriptbar/internal/title"
)

const separatorText = "────────"

type renderOptions struct {
	color   bool
	handles bool
}

var (
	sectionStyle = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

func newRenderCmd(opts *options) *cobra.Command {
	var noColor, handles bool

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Parse plugin output and print the menu it describes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			res := parser.ParseWith(raw, parser.Options{Placeholder: opts.cfg.Title.Placeholder})
			renderResult(cmd.OutOrStdout(), res, renderOptions{color: !noColor, handles: handles})
			return nil
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "print without terminal styling")
	cmd.Flags().BoolVar(&handles, "handles", false, "prefix entries with their path for activate --path")
	return cmd
}

func renderResult(w io.Writer, res *parser.Result, opts renderOptions) {
	style := func(s lipgloss.Style, text string) string {
		if !opts.color {
			return text
		}
		return s.Render(text)
	}

	fmt.Fprintln(w, style(sectionStyle, "Title"))
	for _, line := range res.Tree.Header {
		t := title.FormatLine(line)
		text := t.Text
		if opts.color {
			text = title.Render(t)
		}
		fmt.Fprintf(w, "  %s\n", text)
	}

	fmt.Fprintln(w, style(sectionStyle, "Menu"))
	for _, n := range res.Tree.HeaderItems {
		renderNode(w, n, nil, 1, opts, style)
	}
	for i, n := range res.Tree.Roots {
		renderNode(w, n, []int{i}, 1, opts, style)
	}

	if len(res.Bindings) > 0 {
		fmt.Fprintln(w, style(sectionStyle, "Shortcuts"))
		for _, b := range res.Bindings {
			target := "open menu"
			if !b.OpensMenu {
				target = b.Target.String()
			}
			fmt.Fprintf(w, "  %s %s\n", b.Shortcut.String(), style(dimStyle, "→ "+target))
		}
	}
}

func renderNode(w io.Writer, n *parser.Node, path []int, level int, opts renderOptions, style func(lipgloss.Style, string) string) {
	indent := strings.Repeat("  ", level)
	prefix := ""
	if opts.handles {
		if path == nil {
			prefix = "[h] "
		} else {
			prefix = "[" + joinPath(path) + "] "
		}
	}

	if n.Separator {
		fmt.Fprintf(w, "%s%s%s\n", indent, prefix, style(dimStyle, separatorText))
		return
	}

	text := n.Title.Text
	if opts.color {
		text = title.Render(n.Title)
	}
	text = strings.ReplaceAll(text, "\n", "\n"+indent+strings.Repeat(" ", len(prefix)))
	if n.Params.Checked {
		text = "✓ " + text
	}

	var notes []string
	if a := action.Resolve(n.Params); a.Kind != action.KindNone {
		notes = append(notes, describeAction(a))
	}
	if n.Params.Shortcut != nil {
		notes = append(notes, n.Params.Shortcut.String())
	}
	if n.Params.Alternate {
		notes = append(notes, "alternate")
	}
	if n.Title.Tooltip != "" {
		notes = append(notes, "tooltip: "+n.Title.Tooltip)
	}

	line := indent + prefix + text
	if len(notes) > 0 {
		line += "  " + style(dimStyle, "("+strings.Join(notes, ", ")+")")
	}
	fmt.Fprintln(w, line)

	for i, child := range n.Children {
		var childPath []int
		if path != nil {
			childPath = append(append([]int(nil), path...), i)
		}
		renderNode(w, child, childPath, level+1, opts, style)
	}
}

func describeAction(a action.Action) string {
	switch a.Kind {
	case action.KindOpenURL:
		return "open " + a.URL
	case action.KindRunCommand:
		desc := "run " + a.Command.Line()
		if a.Command.Interactive {
			desc += " in terminal"
		}
		if a.Refresh {
			desc += " then refresh"
		}
		return desc
	default:
		return a.Kind.String()
	}
}

func joinPath(path []int) string {
	parts := make([]string, len(path))
	for i, idx := range path {
		parts[i] = fmt.Sprint(idx)
	}
	return strings.Join(parts, ".")
}
