package menu

import (
	"sort"
	"sync/atomic"

	"github.com/example/scriptbar/internal/directive"
	"github.com/example/scriptbar/internal/parser"
)

// Shortcuts holds the shortcut bindings of the current tree. Install swaps
// the whole set at once, so a lookup never mixes two generations.
type Shortcuts struct {
	table atomic.Pointer[map[string]parser.Binding]
}

// NewShortcuts returns an empty registry.
func NewShortcuts() *Shortcuts {
	s := &Shortcuts{}
	empty := map[string]parser.Binding{}
	s.table.Store(&empty)
	return s
}

// Install replaces every binding. When two entries share a combination the
// later one wins.
func (s *Shortcuts) Install(bindings []parser.Binding) {
	table := make(map[string]parser.Binding, len(bindings))
	for _, b := range bindings {
		table[b.Shortcut.String()] = b
	}
	s.table.Store(&table)
}

// Lookup returns the binding for combo.
func (s *Shortcuts) Lookup(combo directive.KeyCombo) (parser.Binding, bool) {
	b, ok := (*s.table.Load())[combo.String()]
	return b, ok
}

// Len returns the number of installed combinations.
func (s *Shortcuts) Len() int {
	return len(*s.table.Load())
}

// Combos lists installed combinations in sorted order.
func (s *Shortcuts) Combos() []string {
	table := *s.table.Load()
	out := make([]string, 0, len(table))
	for combo := range table {
		out = append(out, combo)
	}
	sort.Strings(out)
	return out
}
