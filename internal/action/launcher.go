package action

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// TerminalPlaceholder is replaced by the command line in a terminal template.
const TerminalPlaceholder = "{cmd}"

// ExecLauncher opens URLs with the platform opener and runs commands with
// os/exec.
type ExecLauncher struct {
	// Terminal is an argv template for interactive commands, for example
	// ["alacritty", "-e", "sh", "-c", "{cmd}"]. Empty uses the platform
	// default.
	Terminal []string
	// WorkingDir is the directory commands run in.
	WorkingDir string
}

// OpenURL validates target and hands it to the platform opener.
func (l ExecLauncher) OpenURL(ctx context.Context, target string) error {
	if _, ok := validURL(target); !ok {
		return fmt.Errorf("invalid url %q", target)
	}
	return launchURL(ctx, target)
}

// Run executes c and waits for it. Background commands report their output
// when they fail.
func (l ExecLauncher) Run(ctx context.Context, c Command) error {
	if strings.TrimSpace(c.Path) == "" {
		return errors.New("empty command")
	}

	var cmd *exec.Cmd
	if c.Interactive {
		argv := l.terminalArgv(c.Line())
		cmd = exec.CommandContext(ctx, argv[0], argv[1:]...)
	} else {
		cmd = exec.CommandContext(ctx, c.Path, c.Args...)
	}
	if l.WorkingDir != "" {
		cmd.Dir = l.WorkingDir
	}

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		snippet := strings.TrimSpace(output.String())
		if len(snippet) > 1024 {
			snippet = snippet[:1024]
		}
		if snippet != "" {
			return fmt.Errorf("run %s: %w: %s", c.Path, err, snippet)
		}
		return fmt.Errorf("run %s: %w", c.Path, err)
	}
	return nil
}

func (l ExecLauncher) terminalArgv(line string) []string {
	if len(l.Terminal) == 0 {
		return defaultTerminal(line)
	}
	return expandTerminal(l.Terminal, line)
}

func expandTerminal(template []string, line string) []string {
	argv := make([]string, len(template))
	replaced := false
	for i, arg := range template {
		if strings.Contains(arg, TerminalPlaceholder) {
			replaced = true
		}
		argv[i] = strings.ReplaceAll(arg, TerminalPlaceholder, line)
	}
	if !replaced {
		argv = append(argv, line)
	}
	return argv
}
