//go:build !windows && !darwin
// +build !windows,!darwin

package action

import (
	"context"
	"os/exec"
)

func launchURL(ctx context.Context, raw string) error {
	return exec.CommandContext(ctx, "xdg-open", raw).Run()
}

func defaultTerminal(line string) []string {
	return []string{"x-terminal-emulator", "-e", "sh", "-c", line}
}
