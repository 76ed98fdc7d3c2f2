package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/example/scriptbar/internal/directive"
	"github.com/example/scriptbar/internal/title"
)

// Handle addresses a node within one tree generation. Handles from an older
// generation never resolve against a newer tree.
type Handle struct {
	Generation uuid.UUID
	Index      int
}

// ErrInvalidHandle is returned by ParseHandle for malformed input.
var ErrInvalidHandle = errors.New("parser: invalid handle")

// String renders h as "<generation>/<index>".
func (h Handle) String() string {
	return h.Generation.String() + "/" + strconv.Itoa(h.Index)
}

// ParseHandle parses the String form of a Handle.
func ParseHandle(s string) (Handle, error) {
	gen, idx, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return Handle{}, fmt.Errorf("%w: %q", ErrInvalidHandle, s)
	}
	id, err := uuid.Parse(gen)
	if err != nil {
		return Handle{}, fmt.Errorf("%w: %v", ErrInvalidHandle, err)
	}
	index, err := strconv.Atoi(idx)
	if err != nil || index < 0 {
		return Handle{}, fmt.Errorf("%w: bad index %q", ErrInvalidHandle, idx)
	}
	return Handle{Generation: id, Index: index}, nil
}

// Node is one menu entry.
type Node struct {
	Handle Handle
	Depth  int
	// Content is the line with its nesting markers removed.
	Content   string
	Params    directive.Params
	Title     title.Title
	Separator bool
	Children  []*Node
}

// Selectable reports whether activating the node performs an action.
func (n *Node) Selectable() bool {
	return !n.Separator && n.Params.HasAction()
}

// HighlightTitle is the title shown while the entry is highlighted: custom
// colors are dropped so the selection color stays readable.
func (n *Node) HighlightTitle() title.Title {
	if n.Separator {
		return title.Title{}
	}
	return title.WithColor(n.Params, "")
}

// Tree is the result of one parse of plugin output.
type Tree struct {
	Generation uuid.UUID
	// Header is the title rotation sequence; never empty.
	Header []string
	// HeaderDigest identifies the header sequence; it changes only when the
	// sequence does.
	HeaderDigest string
	// HeaderItems lists header lines as entries when the header has more
	// than one line.
	HeaderItems []*Node
	Roots       []*Node

	nodes []*Node
}

// Lookup resolves h against the tree.
func (t *Tree) Lookup(h Handle) (*Node, bool) {
	if t == nil || h.Generation != t.Generation || h.Index < 0 || h.Index >= len(t.nodes) {
		return nil, false
	}
	return t.nodes[h.Index], true
}

// Len returns the number of nodes, header items and separators included.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Walk visits body nodes depth-first in display order. Returning false from
// fn skips the node's children.
func (t *Tree) Walk(fn func(n *Node) bool) {
	if t == nil {
		return
	}
	var visit func(nodes []*Node)
	visit = func(nodes []*Node) {
		for _, n := range nodes {
			if fn(n) {
				visit(n.Children)
			}
		}
	}
	visit(t.Roots)
}

// Path resolves a node by its child indexes from the body root, e.g. [1 0]
// is the first child of the second root entry.
func (t *Tree) Path(indexes ...int) (*Node, bool) {
	if t == nil || len(indexes) == 0 {
		return nil, false
	}
	level := t.Roots
	var node *Node
	for _, idx := range indexes {
		if idx < 0 || idx >= len(level) {
			return nil, false
		}
		node = level[idx]
		level = node.Children
	}
	return node, true
}

func (t *Tree) add(n *Node) *Node {
	n.Handle = Handle{Generation: t.Generation, Index: len(t.nodes)}
	t.nodes = append(t.nodes, n)
	return n
}
