package menu

import (
	"context"
	"errors"
	"time"

	"github.com/example/scriptbar/internal/logging"
	"github.com/example/scriptbar/internal/source"
)

// DefaultRefreshInterval is how often the runner fetches content.
const DefaultRefreshInterval = 30 * time.Second

// Runner refreshes a Bar from a Source on a fixed period and on request, and
// drives the tray when one is available.
type Runner struct {
	bar             *Bar
	src             source.Source
	refreshInterval time.Duration
	tray            Tray
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRefreshInterval sets the fetch period.
func WithRefreshInterval(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.refreshInterval = d
		}
	}
}

// WithTray renders the Bar with t. Without a tray the Bar is only reachable
// through the control endpoint.
func WithTray(t Tray) RunnerOption {
	return func(r *Runner) {
		r.tray = t
	}
}

// NewRunner returns a Runner for bar. src may be nil when content only
// arrives by push.
func NewRunner(bar *Bar, src source.Source, opts ...RunnerOption) *Runner {
	r := &Runner{
		bar:             bar,
		src:             src,
		refreshInterval: DefaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start performs an initial fetch and then refreshes until ctx is canceled
// or the tray exits.
func (r *Runner) Start(ctx context.Context) error {
	log := logging.FromContext(ctx).WithValues("bar", r.bar.ID())
	ctx = logging.WithLogger(ctx, &log)

	if r.tray == nil {
		log.Info("scriptbar running without a system tray")
	}
	log.V(1).Info("runner initialising", "refreshInterval", r.refreshInterval.String())

	var trayErr <-chan error
	if r.tray != nil {
		ch := make(chan error, 1)
		trayErr = ch
		go func() {
			ch <- r.tray.Run(ctx, r.bar)
		}()
	}

	go func() {
		if err := r.bar.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error(err, "title rotation stopped")
		}
	}()

	if err := r.syncOnce(ctx); err != nil {
		log.Error(err, "initial fetch failed")
	}

	ticker := time.NewTicker(r.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("scriptbar stopping")
			r.bar.Wait()
			return ctx.Err()
		case <-ticker.C:
			if err := r.syncOnce(ctx); err != nil {
				log.Error(err, "refresh failed")
			}
		case <-r.bar.RefreshRequests():
			log.V(1).Info("manual refresh requested")
			if err := r.syncOnce(ctx); err != nil {
				log.Error(err, "manual refresh failed")
			}
			ticker.Reset(r.refreshInterval)
		case err := <-trayErr:
			r.bar.Wait()
			return err
		}
	}
}

// syncOnce fetches and applies content. On failure the previous menu stays
// on display.
func (r *Runner) syncOnce(ctx context.Context) error {
	if r.src == nil {
		return nil
	}
	raw, err := r.src.Fetch(ctx)
	if err != nil {
		return err
	}
	if r.bar.Update(ctx, raw) {
		logging.FromContext(ctx).V(1).Info("content changed", "bytes", len(raw))
	}
	return nil
}
