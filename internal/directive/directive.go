// Package directive decodes a single line of plugin output into its display
// text and the key=value directives that follow the first pipe.
package directive

import (
	"sort"
	"strconv"
	"strings"
)

// Separator is the bare line that splits header from body and draws a
// separator inside the body.
const Separator = "---"

// Params holds the recognised directives of one line. Unrecognised keys are
// kept in Extra.
type Params struct {
	// Text is the display portion of the line, untouched.
	Text string

	Color string
	Font  string
	Size  float64
	// Length truncates the display text; zero means no limit.
	Length int

	Image         string
	TemplateImage string

	Href       string
	Bash       string
	BashParams []string

	Terminal  bool
	Refresh   bool
	Trim      bool
	Emojize   bool
	Alternate bool
	Checked   bool
	Dropdown  bool

	Tooltip string

	// ShortcutValue is the raw shortcut/key value; Shortcut is set when it
	// parsed into a valid combination.
	ShortcutValue string
	Shortcut     *KeyCombo

	Extra map[string]string
}

// Defaults returns Params with every boolean directive at its default.
func Defaults() Params {
	return Params{
		Terminal: true,
		Trim:     true,
		Emojize:  true,
		Dropdown: true,
	}
}

// Parse decodes line. It never fails: malformed tokens are dropped and the
// rest of the line is kept.
func Parse(line string) Params {
	p := Defaults()

	text, rest, found := strings.Cut(line, "|")
	p.Text = text
	if !found {
		return p
	}

	params := make(map[int]string)
	for _, tok := range tokenize(rest) {
		key, value, ok := strings.Cut(tok, "=")
		if !ok || key == "" {
			continue
		}
		if n, isParam := paramIndex(key); isParam {
			params[n] = value
			continue
		}
		p.apply(key, value)
	}

	if len(params) > 0 {
		indexes := make([]int, 0, len(params))
		for n := range params {
			indexes = append(indexes, n)
		}
		sort.Ints(indexes)
		p.BashParams = make([]string, 0, len(indexes))
		for _, n := range indexes {
			p.BashParams = append(p.BashParams, params[n])
		}
	}
	return p
}

func (p *Params) apply(key, value string) {
	switch key {
	case "color":
		p.Color = value
	case "font":
		p.Font = value
	case "size":
		if v, err := strconv.ParseFloat(value, 64); err == nil && v > 0 {
			p.Size = v
		}
	case "length":
		if v, err := strconv.Atoi(value); err == nil && v > 0 {
			p.Length = v
		}
	case "image":
		p.Image = value
	case "templateImage":
		p.TemplateImage = value
	case "href":
		p.Href = value
	case "bash":
		p.Bash = value
	case "tooltip":
		p.Tooltip = value
	case "shortcut", "key":
		p.ShortcutValue = value
		p.Shortcut = nil
		if combo, err := ParseShortcut(value); err == nil {
			p.Shortcut = &combo
		}
	case "terminal":
		setBool(&p.Terminal, value)
	case "refresh":
		setBool(&p.Refresh, value)
	case "trim":
		setBool(&p.Trim, value)
	case "emojize":
		setBool(&p.Emojize, value)
	case "alternate":
		setBool(&p.Alternate, value)
	case "checked":
		setBool(&p.Checked, value)
	case "dropdown":
		setBool(&p.Dropdown, value)
	default:
		if p.Extra == nil {
			p.Extra = make(map[string]string)
		}
		p.Extra[key] = value
	}
}

// setBool leaves dst untouched when value is not a boolean.
func setBool(dst *bool, value string) {
	switch strings.ToLower(value) {
	case "true":
		*dst = true
	case "false":
		*dst = false
	}
}

// paramIndex reports N for keys of the form paramN with N >= 1.
func paramIndex(key string) (int, bool) {
	suffix, ok := strings.CutPrefix(key, "param")
	if !ok || suffix == "" {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 1 || strings.HasPrefix(suffix, "+") {
		return 0, false
	}
	return n, true
}

// HasAction reports whether activating the line does anything.
func (p Params) HasAction() bool {
	return strings.TrimSpace(p.Href) != "" || strings.TrimSpace(p.Bash) != "" || p.Refresh
}

// IsSeparator reports whether the line is a bare separator.
func IsSeparator(line string) bool {
	return line == Separator
}
