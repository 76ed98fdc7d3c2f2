package action

import (
	"context"
	"sync"

	"github.com/example/scriptbar/internal/directive"
	"github.com/example/scriptbar/internal/logging"
)

// Launcher performs the side effects of an action.
type Launcher interface {
	OpenURL(ctx context.Context, target string) error
	// Run blocks until the command exits.
	Run(ctx context.Context, cmd Command) error
}

// Dispatcher starts actions without waiting for them. Command failures are
// logged and never retried.
type Dispatcher struct {
	launcher Launcher
	refresh  func()

	wg sync.WaitGroup
}

// NewDispatcher returns a Dispatcher that calls refresh whenever an action
// asks for a plugin re-run. refresh may be nil.
func NewDispatcher(launcher Launcher, refresh func()) *Dispatcher {
	return &Dispatcher{launcher: launcher, refresh: refresh}
}

// Dispatch resolves p and starts the resulting action.
func (d *Dispatcher) Dispatch(ctx context.Context, p directive.Params) Action {
	a := Resolve(p)
	d.Execute(ctx, a)
	return a
}

// Execute starts a. Refresh-only actions run synchronously; URLs and
// commands run on their own goroutine.
func (d *Dispatcher) Execute(ctx context.Context, a Action) {
	log := logging.FromContext(ctx)

	switch a.Kind {
	case KindOpenURL:
		d.spawn(func() {
			if err := d.launcher.OpenURL(ctx, a.URL); err != nil {
				log.Error(err, "open url failed", "url", a.URL)
			}
		})
	case KindRunCommand:
		if d.launcher == nil {
			if a.Refresh {
				d.requestRefresh()
			}
			return
		}
		d.spawn(func() {
			log.V(1).Info("running command", "command", a.Command.Line(), "interactive", a.Command.Interactive)
			if err := d.launcher.Run(ctx, a.Command); err != nil {
				log.Error(err, "command failed", "command", a.Command.Line())
			}
			if a.Refresh {
				d.requestRefresh()
			}
		})
	case KindRefresh:
		d.requestRefresh()
	}
}

// Wait blocks until every started URL or command has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) spawn(fn func()) {
	if d.launcher == nil {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		fn()
	}()
}

func (d *Dispatcher) requestRefresh() {
	if d.refresh != nil {
		d.refresh()
	}
}
