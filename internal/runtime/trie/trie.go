// Package trie implements the routing tree mapping dot-separated keys to
// envelope handlers.
package trie

import (
	"strings"
	"sync"

	errspkg "github.com/wirelink-io/wirelink/internal/runtime/errors"
	handlerpkg "github.com/wirelink-io/wirelink/internal/runtime/handler"
)

// Node is a single trie node. Nodes are created lazily on insert and only
// mutated through the owning Trie.
type Node struct {
	name     string
	children map[string]*Node
	handler  handlerpkg.Handler
}

func newNode(name string) *Node {
	return &Node{
		name:     name,
		children: make(map[string]*Node),
	}
}

// Name returns the node's segment name. Only meaningful for debugging.
func (n *Node) Name() string { return n.name }

// Trie routes dot-separated keys to handlers. The root node is the trie
// itself (name ""); an empty key addresses the root handler directly.
type Trie struct {
	mu   sync.RWMutex
	root *Node
}

// New returns an empty routing trie with no root handler bound.
func New() *Trie {
	return &Trie{root: newNode("")}
}

// Insert binds h to the node addressed by path, creating intermediate nodes
// as needed. A handler already bound at that exact path is overwritten;
// ancestors and descendants are untouched.
func (t *Trie) Insert(path string, h handlerpkg.Handler) error {
	if path == "" {
		return errspkg.ErrRouteKeyRequired
	}
	if h == nil {
		return errspkg.ErrHandlerRequired
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	node := t.root
	for _, seg := range strings.Split(path, ".") {
		next := node.children[seg]
		if next == nil {
			next = newNode(seg)
			node.children[seg] = next
		}
		node = next
	}
	node.handler = h
	return nil
}

// Lookup walks path segment by segment. The second return is false when any
// segment is missing (no partial match, no wildcards). The returned handler
// may be nil when the node exists but nothing was ever bound there. An
// empty path resolves the root handler without tokenizing.
func (t *Trie) Lookup(path string) (handlerpkg.Handler, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if path == "" {
		return t.root.handler, true
	}

	node := t.root
	for _, seg := range strings.Split(path, ".") {
		node = node.children[seg]
		if node == nil {
			return nil, false
		}
	}
	return node.handler, true
}

// Remove detaches the node addressed by path from its immediate parent,
// discarding the entire subtree rooted there. Missing segments make the
// call a silent no-op. The root cannot be removed.
func (t *Trie) Remove(path string) {
	if path == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	segs := strings.Split(path, ".")
	parent := t.root
	for _, seg := range segs[:len(segs)-1] {
		parent = parent.children[seg]
		if parent == nil {
			return
		}
	}
	delete(parent.children, segs[len(segs)-1])
}

// BindRoot binds the root node's handler, the target for envelopes with an
// empty route key.
func (t *Trie) BindRoot(h handlerpkg.Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.root.handler = h
}
