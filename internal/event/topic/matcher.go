package topic

import "sync"

// Matcher resolves concrete topics against a set of registered patterns.
// Patterns are reference counted: a pattern added twice must be removed twice.
// It is safe for concurrent use.
type Matcher struct {
	mu   sync.RWMutex
	root *node
}

type node struct {
	children map[string]*node
	pattern  Topic
	refs     int
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// NewMatcher creates an empty matcher.
func NewMatcher() *Matcher {
	return &Matcher{root: newNode()}
}

// Add registers a pattern.
func (m *Matcher) Add(pattern Topic) {
	if pattern == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.root
	for _, seg := range pattern.Segments() {
		child, ok := n.children[seg]
		if !ok {
			child = newNode()
			n.children[seg] = child
		}
		n = child
	}
	n.pattern = pattern
	n.refs++
}

// Remove drops one reference to a pattern. Empty branches are pruned.
func (m *Matcher) Remove(pattern Topic) {
	if pattern == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	segs := pattern.Segments()
	path := make([]*node, 0, len(segs)+1)
	n := m.root
	path = append(path, n)
	for _, seg := range segs {
		child, ok := n.children[seg]
		if !ok {
			return
		}
		n = child
		path = append(path, n)
	}
	if n.refs == 0 {
		return
	}
	n.refs--
	if n.refs > 0 {
		return
	}
	n.pattern = ""

	for i := len(segs) - 1; i >= 0; i-- {
		child := path[i+1]
		if child.refs > 0 || len(child.children) > 0 {
			break
		}
		delete(path[i].children, segs[i])
	}
}

// Has reports whether the exact pattern is registered.
func (m *Matcher) Has(pattern Topic) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := m.root
	for _, seg := range pattern.Segments() {
		child, ok := n.children[seg]
		if !ok {
			return false
		}
		n = child
	}
	return n.refs > 0
}

// Match returns every registered pattern matching the concrete topic.
// Each pattern appears at most once.
func (m *Matcher) Match(t Topic) []Topic {
	if t == "" {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[*node]struct{})
	var out []Topic
	m.walk(m.root, t.Segments(), seen, &out)
	return out
}

func (m *Matcher) walk(n *node, segs []string, seen map[*node]struct{}, out *[]Topic) {
	if multi, ok := n.children[WildcardMulti]; ok {
		// "**" may swallow any suffix, including none.
		for skip := 0; skip <= len(segs); skip++ {
			m.walk(multi, segs[skip:], seen, out)
		}
	}

	if len(segs) == 0 {
		if n.refs > 0 {
			if _, dup := seen[n]; !dup {
				seen[n] = struct{}{}
				*out = append(*out, n.pattern)
			}
		}
		return
	}

	if child, ok := n.children[segs[0]]; ok {
		m.walk(child, segs[1:], seen, out)
	}
	if single, ok := n.children[WildcardSingle]; ok {
		m.walk(single, segs[1:], seen, out)
	}
}

// Count returns the number of distinct registered patterns.
func (m *Matcher) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count func(*node) int
	count = func(n *node) int {
		c := 0
		if n.refs > 0 {
			c = 1
		}
		for _, child := range n.children {
			c += count(child)
		}
		return c
	}
	return count(m.root)
}

// Clear removes all patterns.
func (m *Matcher) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.root = newNode()
}
