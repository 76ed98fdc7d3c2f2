// Package action decides what activating a menu entry does and hands the
// work to a Launcher.
package action

import (
	"net/url"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/example/scriptbar/internal/directive"
)

// Kind identifies the action an entry resolves to.
type Kind int

const (
	KindNone Kind = iota
	KindOpenURL
	KindRunCommand
	KindRefresh
)

func (k Kind) String() string {
	switch k {
	case KindOpenURL:
		return "open-url"
	case KindRunCommand:
		return "run-command"
	case KindRefresh:
		return "refresh"
	default:
		return "none"
	}
}

// Command is a program with ordered arguments.
type Command struct {
	Path string
	Args []string
	// Interactive runs the command in a visible terminal instead of silently
	// in the background.
	Interactive bool
}

// Line renders the command as a single shell-quoted command line.
func (c Command) Line() string {
	return shellquote.Join(append([]string{c.Path}, c.Args...)...)
}

// Action is the resolved outcome of an activation.
type Action struct {
	Kind    Kind
	URL     string
	Command Command
	// Refresh requests a plugin re-run after the command finishes. Only set
	// for KindRunCommand; KindRefresh refreshes directly.
	Refresh bool
}

// Resolve picks the single action for p: a valid href wins, then bash, then
// refresh. An href that is not a valid absolute URL is ignored.
func Resolve(p directive.Params) Action {
	if target, ok := validURL(p.Href); ok {
		return Action{Kind: KindOpenURL, URL: target}
	}

	if bash := strings.TrimSpace(p.Bash); bash != "" {
		return Action{
			Kind: KindRunCommand,
			Command: Command{
				Path:        bash,
				Args:        append([]string(nil), p.BashParams...),
				Interactive: p.Terminal,
			},
			Refresh: p.Refresh,
		}
	}

	if p.Refresh {
		return Action{Kind: KindRefresh}
	}
	return Action{Kind: KindNone}
}

func validURL(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	u, err := url.ParseRequestURI(trimmed)
	if err != nil || u.Scheme == "" {
		return "", false
	}
	return trimmed, true
}
