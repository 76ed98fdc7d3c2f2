// Package menu ties parsing, title rotation, shortcuts and actions together
// for one status bar menu and renders it in the system tray.
package menu

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/example/scriptbar/internal/action"
	"github.com/example/scriptbar/internal/cycler"
	"github.com/example/scriptbar/internal/directive"
	"github.com/example/scriptbar/internal/logging"
	"github.com/example/scriptbar/internal/parser"
	"github.com/example/scriptbar/internal/title"
)

var (
	// ErrStaleHandle is returned when a handle belongs to a replaced tree.
	ErrStaleHandle = errors.New("menu: handle does not belong to the current tree")
	// ErrNotSelectable is returned when activating a display-only entry.
	ErrNotSelectable = errors.New("menu: entry is not selectable")
	// ErrNoBinding is returned when no entry is bound to a shortcut.
	ErrNoBinding = errors.New("menu: no entry bound to shortcut")
)

// TitleUpdate is the status bar title currently on display.
type TitleUpdate struct {
	Title title.Title
	Line  string
}

// Snapshot is a consistent view of a Bar.
type Snapshot struct {
	ID      uuid.UUID
	Result  *parser.Result
	Title   TitleUpdate
	Cycle   cycler.State
	Updated time.Time
	// Pending is set while new content waits for the menu to close.
	Pending bool
}

// Option configures a Bar.
type Option func(*Bar)

// WithPlaceholder sets the title used when the output has no header.
func WithPlaceholder(placeholder string) Option {
	return func(b *Bar) {
		if placeholder != "" {
			b.placeholder = placeholder
		}
	}
}

// WithCycler passes options to the title cycler.
func WithCycler(opts ...cycler.Option) Option {
	return func(b *Bar) {
		b.cyclerOpts = append(b.cyclerOpts, opts...)
	}
}

// WithMenuOpener sets the callback run when a shortcut bound to the title is
// pressed.
func WithMenuOpener(fn func()) Option {
	return func(b *Bar) {
		b.openMenu = fn
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Bar) {
		if now != nil {
			b.now = now
		}
	}
}

// Bar is one menu instance. Content updates are serialised by the Bar; a
// rebuild never interleaves with another.
type Bar struct {
	id          uuid.UUID
	placeholder string
	cyclerOpts  []cycler.Option
	openMenu    func()
	now         func() time.Time

	cycler     *cycler.Cycler
	dispatcher *action.Dispatcher
	shortcuts  *Shortcuts

	updateMu sync.Mutex

	mu      sync.RWMutex
	result  *parser.Result
	current TitleUpdate
	updated time.Time
	open    bool
	pending *string

	updates         chan *parser.Result
	titles          chan TitleUpdate
	refreshRequests chan struct{}
}

// NewBar returns a Bar showing the placeholder title. launcher performs the
// side effects of activated entries and may be nil for a read-only menu.
func NewBar(launcher action.Launcher, opts ...Option) *Bar {
	b := &Bar{
		id:              uuid.New(),
		placeholder:     parser.DefaultPlaceholder,
		now:             time.Now,
		shortcuts:       NewShortcuts(),
		updates:         make(chan *parser.Result, 1),
		titles:          make(chan TitleUpdate, 1),
		refreshRequests: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.dispatcher = action.NewDispatcher(launcher, b.RequestRefresh)
	b.cycler = cycler.New(b.display, b.cyclerOpts...)
	b.apply(context.Background(), "")
	return b
}

// ID identifies the Bar for logging.
func (b *Bar) ID() uuid.UUID {
	return b.id
}

// Run rotates the title until ctx is done.
func (b *Bar) Run(ctx context.Context) error {
	return b.cycler.Run(ctx)
}

// Update handles a content-changed event. Identical content is ignored. While
// the menu is open the content is held until Close. It reports whether the
// tree was rebuilt.
func (b *Bar) Update(ctx context.Context, raw string) bool {
	b.updateMu.Lock()
	defer b.updateMu.Unlock()

	b.mu.Lock()
	b.updated = b.now()
	if b.open {
		b.pending = &raw
		b.mu.Unlock()
		logging.FromContext(ctx).V(1).Info("menu open; holding update", "bar", b.id)
		return false
	}
	unchanged := b.result != nil && b.result.Digest == parser.Digest(raw)
	b.mu.Unlock()

	if unchanged {
		return false
	}
	b.apply(ctx, raw)
	return true
}

// Open freezes the title and marks the menu open.
func (b *Bar) Open() {
	b.mu.Lock()
	b.open = true
	b.mu.Unlock()
	b.cycler.Open()
}

// Close resumes rotation. Content received while open is applied now and
// rotation starts over from the first header line.
func (b *Bar) Close(ctx context.Context) {
	b.updateMu.Lock()
	defer b.updateMu.Unlock()

	b.mu.Lock()
	b.open = false
	pending := b.pending
	b.pending = nil
	changed := pending != nil && (b.result == nil || b.result.Digest != parser.Digest(*pending))
	b.mu.Unlock()

	if changed {
		b.apply(ctx, *pending)
		b.cycler.Restart()
	}
	b.cycler.Close()
}

// IsOpen reports whether the menu is open.
func (b *Bar) IsOpen() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.open
}

// Result returns the current parse result.
func (b *Bar) Result() *parser.Result {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.result
}

// Snapshot returns the current state.
func (b *Bar) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Snapshot{
		ID:      b.id,
		Result:  b.result,
		Title:   b.current,
		Cycle:   b.cycler.State(),
		Updated: b.updated,
		Pending: b.pending != nil,
	}
}

// LastUpdatedLabel describes when content last arrived, e.g.
// "Updated 3 minutes ago".
func (b *Bar) LastUpdatedLabel() string {
	b.mu.RLock()
	updated := b.updated
	b.mu.RUnlock()
	if updated.IsZero() {
		return "Updated never"
	}
	return "Updated " + humanize.RelTime(updated, b.now(), "ago", "from now")
}

// Activate runs the action of the entry behind h.
func (b *Bar) Activate(ctx context.Context, h parser.Handle) (action.Action, error) {
	node, ok := b.Result().Tree.Lookup(h)
	if !ok {
		return action.Action{}, ErrStaleHandle
	}
	if !node.Selectable() {
		return action.Action{}, ErrNotSelectable
	}
	logging.FromContext(ctx).V(1).Info("activating entry", "bar", b.id, "index", h.Index, "text", node.Title.Text)
	return b.dispatcher.Dispatch(ctx, node.Params), nil
}

// Press activates whatever is bound to combo. A title binding opens the
// menu instead of running an action.
func (b *Bar) Press(ctx context.Context, combo directive.KeyCombo) (action.Action, error) {
	binding, ok := b.shortcuts.Lookup(combo)
	if !ok {
		return action.Action{}, ErrNoBinding
	}
	if binding.OpensMenu {
		if b.openMenu != nil {
			b.openMenu()
		}
		return action.Action{}, nil
	}
	return b.Activate(ctx, binding.Target)
}

// Shortcuts returns the shortcut registry of the current tree.
func (b *Bar) Shortcuts() *Shortcuts {
	return b.shortcuts
}

// Updates delivers each rebuilt tree. Only the latest undelivered tree is
// kept.
func (b *Bar) Updates() <-chan *parser.Result {
	return b.updates
}

// Titles delivers title changes. Only the latest undelivered title is kept.
func (b *Bar) Titles() <-chan TitleUpdate {
	return b.titles
}

// RequestRefresh asks the runner to fetch content again.
func (b *Bar) RequestRefresh() {
	select {
	case b.refreshRequests <- struct{}{}:
	default:
	}
}

// RefreshRequests delivers refresh requests; bursts collapse into one.
func (b *Bar) RefreshRequests() <-chan struct{} {
	return b.refreshRequests
}

// Wait blocks until every started action has finished.
func (b *Bar) Wait() {
	b.dispatcher.Wait()
}

func (b *Bar) apply(ctx context.Context, raw string) {
	res := parser.ParseWith(raw, parser.Options{Placeholder: b.placeholder})

	b.mu.Lock()
	b.result = res
	b.mu.Unlock()

	b.shortcuts.Install(res.Bindings)
	b.cycler.SetLines(res.Tree.Header, res.Tree.HeaderDigest)

	logging.FromContext(ctx).V(1).Info("menu rebuilt",
		"bar", b.id,
		"generation", res.Tree.Generation,
		"nodes", res.Tree.Len(),
		"bindings", len(res.Bindings),
		"headerLines", len(res.Tree.Header))
	publishLatest(b.updates, res)
}

func (b *Bar) display(t title.Title, line string) {
	update := TitleUpdate{Title: t, Line: line}
	b.mu.Lock()
	b.current = update
	b.mu.Unlock()
	publishLatest(b.titles, update)
}

// publishLatest replaces any undelivered value in ch with v.
func publishLatest[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}
