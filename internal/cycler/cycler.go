// Package cycler rotates the status bar title through the header lines while
// the menu is closed.
package cycler

import (
	"context"
	"sync"
	"time"

	"github.com/example/scriptbar/internal/directive"
	"github.com/example/scriptbar/internal/title"
)

const (
	DefaultInterval  = 5 * time.Second
	DefaultOpenColor = "white"
)

// Display receives the title to show and the header line it came from.
type Display func(t title.Title, line string)

// State is a snapshot of the cycler.
type State struct {
	Index   int
	Enabled bool
	Open    bool
}

// Option configures a Cycler.
type Option func(*Cycler)

// WithInterval sets the rotation period.
func WithInterval(d time.Duration) Option {
	return func(c *Cycler) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithOpenColor sets the title color used while the menu is open.
func WithOpenColor(color string) Option {
	return func(c *Cycler) {
		c.openColor = color
	}
}

// Cycler holds the rotation state of one menu. Tick, Open, Close and SetLines
// may be called from any goroutine; display is always called without the
// lock held.
type Cycler struct {
	interval  time.Duration
	openColor string
	display   Display

	mu     sync.Mutex
	lines  []string
	digest string
	index  int
	open   bool

	wake chan struct{}
}

// New returns a disabled cycler; call SetLines to give it a header.
func New(display Display, opts ...Option) *Cycler {
	c := &Cycler{
		interval:  DefaultInterval,
		openColor: DefaultOpenColor,
		display:   display,
		wake:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Interval returns the rotation period.
func (c *Cycler) Interval() time.Duration {
	return c.interval
}

// SetLines installs a header sequence. The index returns to 0 when digest
// differs from the current one; an identical sequence keeps its position.
func (c *Cycler) SetLines(lines []string, digest string) {
	c.mu.Lock()
	if digest != c.digest || len(lines) != len(c.lines) {
		c.lines = append([]string(nil), lines...)
		c.digest = digest
		c.index = 0
	}
	c.mu.Unlock()

	c.poke()
	c.show()
}

// Restart moves back to the first line and restarts the period.
func (c *Cycler) Restart() {
	c.mu.Lock()
	c.index = 0
	c.mu.Unlock()

	c.poke()
	c.show()
}

// Tick advances to the next line. It does nothing while the menu is open or
// when there is nothing to rotate, and reports whether it advanced.
func (c *Cycler) Tick() bool {
	c.mu.Lock()
	if c.open || len(c.lines) < 2 {
		c.mu.Unlock()
		return false
	}
	c.index = (c.index + 1) % len(c.lines)
	c.mu.Unlock()

	c.show()
	return true
}

// Open freezes rotation and redraws the current line in the open color.
func (c *Cycler) Open() {
	c.mu.Lock()
	c.open = true
	c.mu.Unlock()
	c.show()
}

// Close resumes rotation from the current line.
func (c *Cycler) Close() {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()

	c.poke()
	c.show()
}

// Current returns the header line on display.
func (c *Cycler) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked()
}

// State reports the index and flags.
func (c *Cycler) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Index: c.index, Enabled: len(c.lines) > 1, Open: c.open}
}

// Run drives Tick every interval until ctx is done. SetLines, Restart and
// Close restart the period.
func (c *Cycler) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.wake:
			ticker.Reset(c.interval)
		case <-ticker.C:
			c.Tick()
		}
	}
}

func (c *Cycler) poke() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Cycler) currentLocked() string {
	if c.index < 0 || c.index >= len(c.lines) {
		if len(c.lines) > 0 {
			return c.lines[0]
		}
		return ""
	}
	return c.lines[c.index]
}

func (c *Cycler) show() {
	if c.display == nil {
		return
	}
	c.mu.Lock()
	line := c.currentLocked()
	open := c.open
	empty := len(c.lines) == 0
	c.mu.Unlock()
	if empty {
		return
	}

	params := directive.Parse(line)
	if open {
		c.display(title.WithColor(params, c.openColor), line)
		return
	}
	c.display(title.Format(params), line)
}
