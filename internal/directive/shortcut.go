package directive

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidShortcut is returned for shortcut values without a usable key.
var ErrInvalidShortcut = errors.New("invalid shortcut")

// Modifier is a bit set of keyboard modifiers.
type Modifier uint8

const (
	ModCommand Modifier = 1 << iota
	ModShift
	ModControl
	ModOption
)

var modifierNames = map[string]Modifier{
	"cmd":     ModCommand,
	"command": ModCommand,
	"super":   ModCommand,
	"shift":   ModShift,
	"ctrl":    ModControl,
	"control": ModControl,
	"opt":     ModOption,
	"option":  ModOption,
	"alt":     ModOption,
}

// canonical order used by String.
var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{ModControl, "CTRL"},
	{ModOption, "OPTION"},
	{ModShift, "SHIFT"},
	{ModCommand, "CMD"},
}

// KeyCombo is a parsed keyboard shortcut such as CMD+OPTION+T.
type KeyCombo struct {
	Modifiers Modifier
	// Key is lower-case: a single character or a named key ("f5", "space").
	Key string
}

// ParseShortcut parses "mod+mod+key". Modifier names are case-insensitive.
func ParseShortcut(value string) (KeyCombo, error) {
	parts := strings.Split(strings.TrimSpace(value), "+")
	if len(parts) == 0 {
		return KeyCombo{}, ErrInvalidShortcut
	}

	key := strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
	if key == "" {
		return KeyCombo{}, fmt.Errorf("%w: %q has no key", ErrInvalidShortcut, value)
	}
	if _, isModifier := modifierNames[key]; isModifier {
		return KeyCombo{}, fmt.Errorf("%w: %q ends with a modifier", ErrInvalidShortcut, value)
	}

	var combo KeyCombo
	for _, raw := range parts[:len(parts)-1] {
		name := strings.ToLower(strings.TrimSpace(raw))
		mod, ok := modifierNames[name]
		if !ok {
			return KeyCombo{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidShortcut, raw)
		}
		combo.Modifiers |= mod
	}
	combo.Key = key
	return combo, nil
}

// Has reports whether m is part of the combination.
func (k KeyCombo) Has(m Modifier) bool {
	return k.Modifiers&m != 0
}

func (k KeyCombo) String() string {
	var b strings.Builder
	for _, entry := range modifierOrder {
		if k.Has(entry.mod) {
			b.WriteString(entry.name)
			b.WriteByte('+')
		}
	}
	b.WriteString(strings.ToUpper(k.Key))
	return b.String()
}
