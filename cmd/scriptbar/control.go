package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/scriptbar/internal/protocol"
	"github.com/example/scriptbar/internal/service"
)

func newPushCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "push [file|-]",
		Short: "Send plugin output to a running instance",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			resp, err := service.Send(cmd.Context(), opts.endpoint(), protocol.Request{
				Token:   opts.serviceToken(),
				Command: protocol.CommandContentPush,
				Content: raw,
			})
			if err != nil {
				return err
			}
			if resp.Changed {
				fmt.Fprintln(cmd.OutOrStdout(), "menu updated")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "menu unchanged")
			}
			return nil
		},
	}
}

func newRefreshCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Ask a running instance to fetch its content again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := service.Send(cmd.Context(), opts.endpoint(), protocol.Request{
				Token:   opts.serviceToken(),
				Command: protocol.CommandMenuRefresh,
			})
			return err
		},
	}
}
