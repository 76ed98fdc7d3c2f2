//go:build cgo || windows
// +build cgo windows

package tray

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/getlantern/systray"

	"github.com/example/scriptbar/internal/logging"
	"github.com/example/scriptbar/internal/menu"
	"github.com/example/scriptbar/internal/parser"
)

const (
	updatedLabelInterval = time.Minute
	defaultTooltip       = "scriptbar"
	separatorLabel       = "───"
)

type systrayController struct {
	mu      sync.Mutex
	entries []trayEntry
	updated *systray.MenuItem
}

type trayEntry struct {
	item   *systray.MenuItem
	cancel context.CancelFunc
}

// New returns the system tray renderer.
func New() menu.Tray {
	return &systrayController{}
}

func (c *systrayController) Run(ctx context.Context, bar *menu.Bar) error {
	done := make(chan struct{})

	go systray.Run(func() {
		systray.SetTooltip(defaultTooltip)
		c.setTitle(bar.Snapshot().Title)
		c.render(ctx, bar, bar.Result())
		go c.listen(ctx, bar)
	}, func() {
		c.shutdown()
		close(done)
	})

	select {
	case <-ctx.Done():
		systray.Quit()
		<-done
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (c *systrayController) listen(ctx context.Context, bar *menu.Bar) {
	ticker := time.NewTicker(updatedLabelInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			systray.Quit()
			return
		case res := <-bar.Updates():
			c.render(ctx, bar, res)
		case update := <-bar.Titles():
			c.setTitle(update)
			c.setUpdatedLabel(bar.LastUpdatedLabel())
		case <-ticker.C:
			c.setUpdatedLabel(bar.LastUpdatedLabel())
		}
	}
}

func (c *systrayController) setTitle(update menu.TitleUpdate) {
	text, _, _ := strings.Cut(update.Title.Text, "\n")
	systray.SetTitle(text)

	tooltip := update.Title.Tooltip
	if tooltip == "" {
		tooltip = defaultTooltip
	}
	systray.SetTooltip(tooltip)

	if icon := trayIcon(update.Title.Icon); icon != nil {
		setTitleIcon(icon, update.Title.Icon.Template)
	}
}

func (c *systrayController) setUpdatedLabel(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.updated != nil {
		c.updated.SetTitle(label)
	}
}

// render replaces the dropdown. systray cannot remove items, so the previous
// generation is hidden and its click listeners are stopped.
func (c *systrayController) render(ctx context.Context, bar *menu.Bar, res *parser.Result) {
	c.mu.Lock()
	old := c.entries
	c.entries = nil
	c.updated = nil
	c.mu.Unlock()

	for _, entry := range old {
		entry.cancel()
		if entry.item != nil {
			entry.item.Hide()
		}
	}

	var entries []trayEntry
	for _, n := range menu.Entries(res) {
		entries = append(entries, c.addNode(ctx, bar, n, nil)...)
	}
	standard, updated := c.addStandardItems(ctx, bar)
	entries = append(entries, standard...)

	c.mu.Lock()
	c.entries = entries
	c.updated = updated
	c.mu.Unlock()

	if res != nil {
		logging.FromContext(ctx).V(1).Info("tray menu rendered", "generation", res.Tree.Generation, "items", len(entries))
	}
}

func (c *systrayController) addNode(ctx context.Context, bar *menu.Bar, n *parser.Node, parent *systray.MenuItem) []trayEntry {
	if n.Separator {
		mi := makeMenuItem(parent, separatorLabel, "")
		mi.Disable()
		return []trayEntry{{item: mi, cancel: func() {}}}
	}

	mi := makeMenuItem(parent, menu.EntryLabel(n), n.Title.Tooltip)
	if icon := trayIcon(n.Title.Icon); icon != nil {
		mi.SetIcon(icon)
	}
	if n.Params.Checked {
		mi.Check()
	}

	ctxItem, cancel := context.WithCancel(ctx)
	entries := []trayEntry{{item: mi, cancel: cancel}}

	if n.Selectable() {
		go func(ch <-chan struct{}, handle parser.Handle) {
			for {
				select {
				case <-ctxItem.Done():
					return
				case _, ok := <-ch:
					if !ok {
						return
					}
					if _, err := bar.Activate(ctx, handle); err != nil && !errors.Is(err, menu.ErrStaleHandle) {
						logging.FromContext(ctx).Error(err, "activation failed", "text", n.Title.Text)
					}
				}
			}
		}(mi.ClickedCh, n.Handle)
	} else {
		go drainClicks(ctxItem, mi.ClickedCh)
		if len(n.Children) == 0 {
			mi.Disable()
		}
	}

	for _, child := range menu.VisibleEntries(n.Children) {
		entries = append(entries, c.addNode(ctx, bar, child, mi)...)
	}
	return entries
}

func (c *systrayController) addStandardItems(ctx context.Context, bar *menu.Bar) ([]trayEntry, *systray.MenuItem) {
	sep := systray.AddMenuItem(separatorLabel, "")
	sep.Disable()

	refresh := systray.AddMenuItem("Refresh", "Run the plugin again")
	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	go func() {
		for {
			select {
			case <-refreshCtx.Done():
				return
			case _, ok := <-refresh.ClickedCh:
				if !ok {
					return
				}
				bar.RequestRefresh()
			}
		}
	}()

	updated := systray.AddMenuItem(bar.LastUpdatedLabel(), "")
	updated.Disable()

	quit := systray.AddMenuItem("Quit", "Exit scriptbar")
	quitCtx, cancelQuit := context.WithCancel(ctx)
	go func() {
		select {
		case <-quitCtx.Done():
		case <-quit.ClickedCh:
			systray.Quit()
		}
	}()

	return []trayEntry{
		{item: sep, cancel: func() {}},
		{item: refresh, cancel: cancelRefresh},
		{item: updated, cancel: func() {}},
		{item: quit, cancel: cancelQuit},
	}, updated
}

func makeMenuItem(parent *systray.MenuItem, label, tooltip string) *systray.MenuItem {
	if parent == nil {
		return systray.AddMenuItem(label, tooltip)
	}
	return parent.AddSubMenuItem(label, tooltip)
}

func drainClicks(ctx context.Context, ch <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
		}
	}
}

func (c *systrayController) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, entry := range c.entries {
		entry.cancel()
	}
	c.entries = nil
	c.updated = nil
}
