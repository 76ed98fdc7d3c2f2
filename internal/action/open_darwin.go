//go:build darwin
// +build darwin

package action

import (
	"context"
	"os/exec"
	"strings"
)

func launchURL(ctx context.Context, raw string) error {
	return exec.CommandContext(ctx, "open", raw).Run()
}

func defaultTerminal(line string) []string {
	script := `tell application "Terminal" to do script "` + appleScriptEscape(line) + `"`
	return []string{"osascript", "-e", script, "-e", `tell application "Terminal" to activate`}
}

func appleScriptEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
