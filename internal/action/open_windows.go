//go:build windows
// +build windows

package action

import (
	"context"
	"os/exec"
)

func launchURL(ctx context.Context, raw string) error {
	return exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", raw).Run()
}

func defaultTerminal(line string) []string {
	return []string{"cmd", "/c", "start", "cmd", "/k", line}
}
