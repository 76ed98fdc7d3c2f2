package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/scriptbar/internal/action"
	"github.com/example/scriptbar/internal/logging"
	"github.com/example/scriptbar/internal/menu"
	"github.com/example/scriptbar/internal/parser"
	"github.com/example/scriptbar/internal/protocol"
	"github.com/example/scriptbar/internal/service"
)

func newActivateCmd(opts *options) *cobra.Command {
	var path, handle string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "activate [file|-]",
		Short: "Activate a menu entry",
		Long: "Activate an entry of plugin output read from a file or stdin, addressed by --path\n" +
			"(as printed by render --handles), or an entry of a running instance by --handle.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if handle != "" {
				resp, err := service.Send(ctx, opts.endpoint(), protocol.Request{
					Token:   opts.serviceToken(),
					Command: protocol.CommandMenuActivate,
					Handle:  handle,
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Action)
				return nil
			}

			indexes, err := parsePath(path)
			if err != nil {
				return err
			}
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			res := parser.ParseWith(raw, parser.Options{Placeholder: opts.cfg.Title.Placeholder})
			node, ok := res.Tree.Path(indexes...)
			if !ok {
				return fmt.Errorf("no entry at path %s", path)
			}
			if !node.Selectable() {
				return fmt.Errorf("%w: %q", menu.ErrNotSelectable, node.Title.Text)
			}

			a := action.Resolve(node.Params)
			fmt.Fprintln(cmd.OutOrStdout(), describeAction(a))
			if dryRun {
				return nil
			}
			return runAction(ctx, opts, a)
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "entry path such as 1.0 (second root entry, first child)")
	cmd.Flags().StringVar(&handle, "handle", "", "handle of an entry in a running instance")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the action without performing it")
	return cmd
}

// runAction performs a and waits for it. A requested refresh is forwarded to
// a running instance when one answers.
func runAction(ctx context.Context, opts *options, a action.Action) error {
	launcher := action.ExecLauncher{Terminal: opts.cfg.Terminal.Command}
	refresh := func() {
		_, err := service.Send(ctx, opts.endpoint(), protocol.Request{Token: opts.serviceToken(), Command: protocol.CommandMenuRefresh})
		if err != nil {
			logging.FromContext(ctx).V(1).Info("no running instance to refresh", "error", err.Error())
		}
	}

	switch a.Kind {
	case action.KindOpenURL:
		return launcher.OpenURL(ctx, a.URL)
	case action.KindRunCommand:
		err := launcher.Run(ctx, a.Command)
		if a.Refresh {
			refresh()
		}
		return err
	case action.KindRefresh:
		refresh()
	}
	return nil
}

func parsePath(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("missing --path or --handle")
	}
	parts := strings.Split(raw, ".")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		idx, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("invalid path %q", raw)
		}
		out = append(out, idx)
	}
	return out, nil
}
