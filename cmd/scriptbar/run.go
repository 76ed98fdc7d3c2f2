package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/scriptbar/internal/action"
	"github.com/example/scriptbar/internal/cycler"
	"github.com/example/scriptbar/internal/logging"
	"github.com/example/scriptbar/internal/menu"
	"github.com/example/scriptbar/internal/service"
	"github.com/example/scriptbar/internal/source"
	"github.com/example/scriptbar/internal/tray"
)

func newRunCmd(opts *options) *cobra.Command {
	var headless bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Show the menu in the system tray and keep it up to date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runBar(ctx, opts, headless)
		},
	}
	cmd.Flags().BoolVar(&headless, "headless", false, "do not show a tray icon; serve the control endpoint only")
	return cmd
}

func runBar(ctx context.Context, opts *options, headless bool) error {
	cfg := opts.cfg
	log := logging.FromContext(ctx)

	bar := menu.NewBar(
		action.ExecLauncher{Terminal: cfg.Terminal.Command},
		menu.WithPlaceholder(cfg.Title.Placeholder),
		menu.WithCycler(
			cycler.WithInterval(cfg.Title.CycleInterval.Std()),
			cycler.WithOpenColor(cfg.Title.OpenColor),
		),
	)

	runnerOpts := []menu.RunnerOption{menu.WithRefreshInterval(cfg.RefreshInterval.Std())}
	if !headless {
		if t := tray.New(); t != nil {
			runnerOpts = append(runnerOpts, menu.WithTray(t))
		}
	}

	src := source.New(source.Options{Path: cfg.Source.Path, URL: cfg.Source.URL, APIKey: cfg.Source.APIKey})
	if src == nil {
		log.Info("no source configured; waiting for pushed content")
	}
	runner := menu.NewRunner(bar, src, runnerOpts...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if token := opts.serviceToken(); token != "" {
		srv, err := service.New(bar, token, opts.endpoint())
		if err != nil {
			return err
		}
		go func() {
			if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error(err, "control service stopped", "endpoint", srv.Endpoint())
			}
		}()
	} else {
		log.Info("control service disabled; set SCRIPTBAR_SERVICE_TOKEN or SCRIPTBAR_SECRET to enable it")
	}

	err := runner.Start(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
