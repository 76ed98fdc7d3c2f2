package action

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/scriptbar/internal/directive"
)

type fakeLauncher struct {
	mu       sync.Mutex
	urls     []string
	commands []Command
	runErr   error
	block    chan struct{}
}

func (f *fakeLauncher) OpenURL(_ context.Context, target string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, target)
	return nil
}

func (f *fakeLauncher) Run(_ context.Context, c Command) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, c)
	return f.runErr
}

func (f *fakeLauncher) snapshot() ([]string, []Command) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.urls...), append([]Command(nil), f.commands...)
}

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Action
	}{
		{
			name: "href wins over bash",
			line: "x | href=https://x bash=y",
			want: Action{Kind: KindOpenURL, URL: "https://x"},
		},
		{
			name: "invalid href falls through to bash",
			line: "x | href='not a url' bash=/bin/echo param1=hi",
			want: Action{Kind: KindRunCommand, Command: Command{Path: "/bin/echo", Args: []string{"hi"}, Interactive: true}},
		},
		{
			name: "relative href is not a url",
			line: "x | href=/just/a/path refresh=true",
			want: Action{Kind: KindRefresh},
		},
		{
			name: "bash with refresh in background",
			line: "x | bash=/usr/bin/true terminal=false refresh=true",
			want: Action{Kind: KindRunCommand, Command: Command{Path: "/usr/bin/true", Args: []string{}}, Refresh: true},
		},
		{
			name: "whitespace bash is ignored",
			line: "x | bash='  '",
			want: Action{Kind: KindNone},
		},
		{
			name: "plain entry",
			line: "x",
			want: Action{Kind: KindNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(directive.Parse(tt.line))
			if tt.want.Kind == KindRunCommand && len(tt.want.Command.Args) == 0 {
				assert.Empty(t, got.Command.Args)
				got.Command.Args = tt.want.Command.Args
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParamsAreOrderedNumerically(t *testing.T) {
	a := Resolve(directive.Parse("x | bash=/bin/echo param10=ten param2=two param1=one"))
	require.Equal(t, KindRunCommand, a.Kind)
	assert.Equal(t, []string{"one", "two", "ten"}, a.Command.Args)
}

func TestCommandLineQuotes(t *testing.T) {
	c := Command{Path: "/usr/local/bin/my tool", Args: []string{"a b", "c"}}
	assert.Equal(t, `'/usr/local/bin/my tool' 'a b' c`, c.Line())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "open-url", KindOpenURL.String())
	assert.Equal(t, "run-command", KindRunCommand.String())
	assert.Equal(t, "refresh", KindRefresh.String())
	assert.Equal(t, "none", KindNone.String())
}

func TestDispatchOpensURLAndNeverRunsBash(t *testing.T) {
	launcher := &fakeLauncher{}
	d := NewDispatcher(launcher, nil)

	a := d.Dispatch(context.Background(), directive.Parse("x | href=https://x bash=y"))
	d.Wait()

	assert.Equal(t, KindOpenURL, a.Kind)
	urls, commands := launcher.snapshot()
	assert.Equal(t, []string{"https://x"}, urls)
	assert.Empty(t, commands)
}

func TestDispatchRefreshesAfterCommandFinishes(t *testing.T) {
	launcher := &fakeLauncher{block: make(chan struct{})}
	var refreshes atomic.Int32
	d := NewDispatcher(launcher, func() { refreshes.Add(1) })

	d.Dispatch(context.Background(), directive.Parse("x | bash=/bin/true terminal=false refresh=true"))

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), refreshes.Load(), "refresh must wait for the command")

	close(launcher.block)
	assert.Eventually(t, func() bool { return refreshes.Load() == 1 }, time.Second, 5*time.Millisecond)
	d.Wait()

	_, commands := launcher.snapshot()
	require.Len(t, commands, 1)
	assert.False(t, commands[0].Interactive)
}

func TestDispatchRefreshesEvenWhenCommandFails(t *testing.T) {
	launcher := &fakeLauncher{runErr: errors.New("exit status 1")}
	var refreshes atomic.Int32
	d := NewDispatcher(launcher, func() { refreshes.Add(1) })

	d.Dispatch(context.Background(), directive.Parse("x | bash=/bin/false refresh=true"))
	d.Wait()

	assert.Equal(t, int32(1), refreshes.Load())
}

func TestDispatchRefreshOnly(t *testing.T) {
	launcher := &fakeLauncher{}
	var refreshes atomic.Int32
	d := NewDispatcher(launcher, func() { refreshes.Add(1) })

	a := d.Dispatch(context.Background(), directive.Parse("x | refresh=true"))
	assert.Equal(t, KindRefresh, a.Kind)
	assert.Equal(t, int32(1), refreshes.Load())

	urls, commands := launcher.snapshot()
	assert.Empty(t, urls)
	assert.Empty(t, commands)
}

func TestDispatchNoneDoesNothing(t *testing.T) {
	launcher := &fakeLauncher{}
	d := NewDispatcher(launcher, nil)

	a := d.Dispatch(context.Background(), directive.Parse("plain"))
	d.Wait()

	assert.Equal(t, KindNone, a.Kind)
	urls, commands := launcher.snapshot()
	assert.Empty(t, urls)
	assert.Empty(t, commands)
}

func TestExpandTerminal(t *testing.T) {
	assert.Equal(t,
		[]string{"alacritty", "-e", "sh", "-c", "echo hi"},
		expandTerminal([]string{"alacritty", "-e", "sh", "-c", "{cmd}"}, "echo hi"))
	assert.Equal(t,
		[]string{"kitty", "--hold", "echo hi"},
		expandTerminal([]string{"kitty", "--hold"}, "echo hi"))
}
