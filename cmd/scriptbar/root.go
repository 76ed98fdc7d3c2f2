package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/scriptbar/internal/config"
	"github.com/example/scriptbar/internal/ipc"
	"github.com/example/scriptbar/internal/logging"
	"github.com/example/scriptbar/internal/security"
)

// options is shared by every command.
type options struct {
	configPath string
	debug      bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "scriptbar",
		Short:         "Turn plugin output into a status bar menu",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.debug {
				logging.EnableDebug()
			}
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			opts.cfg = cfg
			logging.Debugf("configuration loaded (refresh=%s cycle=%s)", cfg.RefreshInterval.Std(), cfg.Title.CycleInterval.Std())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "configuration file (default $SCRIPTBAR_CONFIG_PATH or the user config dir)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newRenderCmd(opts),
		newActivateCmd(opts),
		newRunCmd(opts),
		newPushCmd(opts),
		newRefreshCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

func (o *options) endpoint() ipc.Endpoint {
	return ipc.Resolve(o.cfg.Service.Address)
}

func (o *options) serviceToken() string {
	return security.ResolveServiceToken(o.cfg.Service.Token, config.Passphrase())
}

// readInput reads the named file, or stdin for "" and "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	name := ""
	if len(args) > 0 {
		name = strings.TrimSpace(args[0])
	}
	if name == "" || name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}
