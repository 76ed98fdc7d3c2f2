// Package parser builds a menu tree from the raw text a plugin prints.
//
// Lines before the first bare "---" form the header, which rotates through
// the status bar title. The rest is the body: each leading "--" pair nests a
// line one level deeper, and a line that is exactly "---" once the pairs are
// removed is a separator.
package parser

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/example/scriptbar/internal/directive"
	"github.com/example/scriptbar/internal/title"
)

// DefaultPlaceholder is the title used when the output has no header.
const DefaultPlaceholder = "⚠️"

const nestingMarker = "--"

// Options tunes a parse.
type Options struct {
	// Placeholder replaces an empty header. Defaults to DefaultPlaceholder.
	Placeholder string
}

// Binding ties a keyboard shortcut to a node, or to opening the menu when
// OpensMenu is set.
type Binding struct {
	Shortcut  directive.KeyCombo
	Target    Handle
	OpensMenu bool
}

// Result is everything produced from one RawOutput.
type Result struct {
	Tree     *Tree
	Bindings []Binding
	// Digest identifies the raw output that produced the result.
	Digest string
}

// Parse parses raw with default options.
func Parse(raw string) *Result {
	return ParseWith(raw, Options{})
}

// ParseWith never fails; malformed lines degrade to display-only entries.
func ParseWith(raw string, opts Options) *Result {
	placeholder := opts.Placeholder
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}

	header, body := Split(raw)
	tree := &Tree{Generation: uuid.New()}
	res := &Result{Tree: tree, Digest: Digest(raw)}

	b := builder{tree: tree, res: res}
	for _, line := range body {
		if moved, ok := b.addLine(line); ok && moved != "" {
			header = append(header, moved)
		}
	}

	if len(header) == 0 {
		header = []string{placeholder}
	}
	tree.Header = header
	tree.HeaderDigest = Digest(header...)
	b.addHeader(header)
	return res
}

// Split separates raw into header and body lines, dropping blank lines. The
// body starts with the first line that is exactly "---".
func Split(raw string) (header, body []string) {
	lines := splitLines(raw)
	for i, line := range lines {
		if directive.IsSeparator(line) {
			return lines[:i:i], lines[i:]
		}
	}
	return lines, nil
}

func splitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	parts := strings.Split(raw, "\n")
	lines := make([]string, 0, len(parts))
	for _, line := range parts {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Nesting strips leading "--" pairs from line and returns the depth and the
// remaining content. Stripping stops once the rest is a bare separator.
func Nesting(line string) (int, string) {
	depth := 0
	for line != directive.Separator && strings.HasPrefix(line, nestingMarker) {
		line = line[len(nestingMarker):]
		depth++
	}
	return depth, line
}

// Digest returns a stable hex digest of parts.
func Digest(parts ...string) string {
	h, _ := blake2b.New256(nil)
	for i, part := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}

type frame struct {
	depth int
	node  *Node
}

type builder struct {
	tree  *Tree
	res   *Result
	stack []frame
}

// addLine inserts one body line. Lines with dropdown=false are not inserted;
// their content is returned for the header instead.
func (b *builder) addLine(line string) (string, bool) {
	depth, content := Nesting(line)

	if directive.IsSeparator(content) {
		// A top-level separator leaves the open entries in scope, so a
		// following nested line still attaches to them.
		if depth > 0 {
			b.popTo(depth)
		}
		b.attach(&Node{Depth: depth, Content: content, Separator: true})
		return "", false
	}

	params := directive.Parse(content)
	if !params.Dropdown {
		return content, true
	}

	b.popTo(depth)
	node := b.attach(&Node{
		Depth:   depth,
		Content: content,
		Params:  params,
		Title:   title.Format(params),
	})
	b.stack = append(b.stack, frame{depth: depth, node: node})
	b.bind(node, false)
	return "", false
}

// popTo drops every open ancestor at depth or deeper, so the top of the stack
// is the nearest shallower line. Depth jumps larger than one therefore clamp
// to that line instead of over-popping.
func (b *builder) popTo(depth int) {
	for len(b.stack) > 0 && b.stack[len(b.stack)-1].depth >= depth {
		b.stack = b.stack[:len(b.stack)-1]
	}
}

func (b *builder) attach(n *Node) *Node {
	b.tree.add(n)
	if n.Depth == 0 || len(b.stack) == 0 {
		b.tree.Roots = append(b.tree.Roots, n)
		return n
	}
	parent := b.stack[len(b.stack)-1].node
	parent.Children = append(parent.Children, n)
	return n
}

func (b *builder) bind(n *Node, opensMenu bool) {
	if n.Params.Shortcut == nil {
		return
	}
	b.res.Bindings = append(b.res.Bindings, Binding{
		Shortcut:  *n.Params.Shortcut,
		Target:    n.Handle,
		OpensMenu: opensMenu,
	})
}

// addHeader binds the first header line's shortcut to opening the menu and,
// for a rotating header, lists the header lines as entries too.
func (b *builder) addHeader(header []string) {
	first := directive.Parse(header[0])
	if first.Shortcut != nil {
		b.res.Bindings = append(b.res.Bindings, Binding{Shortcut: *first.Shortcut, OpensMenu: true})
	}
	if len(header) < 2 {
		return
	}

	for i, line := range header {
		params := directive.Parse(line)
		if !params.Dropdown {
			continue
		}
		node := b.tree.add(&Node{Content: line, Params: params, Title: title.Format(params)})
		b.tree.HeaderItems = append(b.tree.HeaderItems, node)
		if i > 0 {
			b.bind(node, false)
		}
	}
}
