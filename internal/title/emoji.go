package title

import (
	"regexp"
	"sync"

	"github.com/yuin/goldmark-emoji/definition"
)

var (
	shortcodePattern = regexp.MustCompile(`:([a-zA-Z0-9_+\-]+):`)

	emojiOnce  sync.Once
	emojiTable definition.Emojis
)

func emojis() definition.Emojis {
	emojiOnce.Do(func() {
		emojiTable = definition.Github()
	})
	return emojiTable
}

// Emojize replaces known :shortcode: sequences with their emoji. Unknown
// shortcodes are left as written.
func Emojize(s string) string {
	if len(s) < 3 {
		return s
	}
	table := emojis()
	return shortcodePattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[1 : len(match)-1]
		if e, ok := table.Get(name); ok && len(e.Unicode) > 0 {
			return string(e.Unicode)
		}
		return match
	})
}
