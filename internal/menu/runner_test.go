package menu

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/scriptbar/internal/source"
)

var _ source.Source = (*scriptedSource)(nil)

type scriptedSource struct {
	mu      sync.Mutex
	outputs []string
	calls   int
	err     error
}

func (s *scriptedSource) Fetch(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	idx := s.calls - 1
	if idx >= len(s.outputs) {
		idx = len(s.outputs) - 1
	}
	return s.outputs[idx], nil
}

func (s *scriptedSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubTray struct {
	started chan *Bar
}

func (s *stubTray) Run(ctx context.Context, bar *Bar) error {
	s.started <- bar
	<-ctx.Done()
	return nil
}

func TestRunnerAppliesInitialFetch(t *testing.T) {
	src := &scriptedSource{outputs: []string{"first\n---\nitem"}}
	bar := NewBar(nil)
	r := NewRunner(bar, src, WithRefreshInterval(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()

	assert.Eventually(t, func() bool {
		return bar.Result().Tree.Header[0] == "first"
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestRunnerRefreshesOnRequest(t *testing.T) {
	src := &scriptedSource{outputs: []string{"one", "two"}}
	bar := NewBar(nil)
	r := NewRunner(bar, src, WithRefreshInterval(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Start(ctx) }()

	assert.Eventually(t, func() bool { return src.count() == 1 }, time.Second, 5*time.Millisecond)
	bar.RequestRefresh()
	assert.Eventually(t, func() bool {
		return bar.Result().Tree.Header[0] == "two"
	}, time.Second, 5*time.Millisecond)
}

func TestRunnerRefreshesPeriodically(t *testing.T) {
	src := &scriptedSource{outputs: []string{"a", "b", "c"}}
	bar := NewBar(nil)
	r := NewRunner(bar, src, WithRefreshInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Start(ctx) }()

	assert.Eventually(t, func() bool { return src.count() >= 3 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		return bar.Result().Tree.Header[0] == "c"
	}, time.Second, 5*time.Millisecond)
}

func TestRunnerKeepsMenuWhenFetchFails(t *testing.T) {
	src := &scriptedSource{outputs: []string{"kept"}}
	bar := NewBar(nil)
	bar.Update(context.Background(), "kept")
	src.err = errors.New("boom")

	r := NewRunner(bar, src, WithRefreshInterval(10*time.Millisecond))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_ = r.Start(ctx)

	assert.GreaterOrEqual(t, src.count(), 1)
	assert.Equal(t, []string{"kept"}, bar.Result().Tree.Header)
}

func TestRunnerStopsWhenTrayExits(t *testing.T) {
	tray := &stubTray{started: make(chan *Bar, 1)}
	bar := NewBar(nil)
	r := NewRunner(bar, nil, WithTray(tray))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()

	got := <-tray.started
	require.Same(t, bar, got)
	cancel()
	err := <-done
	assert.True(t, err == nil || errors.Is(err, context.Canceled))
}
