package event

import (
	"cmp"
	"slices"
	"sync"

	"github.com/ivanmalyshevv/weblarek/internal/event/topic"
)

// Registry indexes subscriptions by pattern. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	subs    map[topic.Topic][]*subscription
	byID    map[string]*subscription
	matcher *topic.Matcher
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		subs:    make(map[topic.Topic][]*subscription),
		byID:    make(map[string]*subscription),
		matcher: topic.NewMatcher(),
	}
}

// Add registers a subscription.
func (r *Registry) Add(sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs[sub.pattern] = append(r.subs[sub.pattern], sub)
	r.byID[sub.id] = sub
	r.matcher.Add(sub.pattern)
}

// Remove drops a subscription by ID and reports whether it existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byID, id)

	list := r.subs[sub.pattern]
	for i, s := range list {
		if s.id == id {
			// Copy so slices handed out by Match stay intact.
			next := make([]*subscription, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			list = next
			break
		}
	}
	if len(list) == 0 {
		delete(r.subs, sub.pattern)
	} else {
		r.subs[sub.pattern] = list
	}
	r.matcher.Remove(sub.pattern)
	return true
}

// Match returns the active subscriptions whose pattern matches the topic,
// ordered by priority and then by subscription order.
func (r *Registry) Match(t topic.Topic) []*subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	patterns := r.matcher.Match(t)
	if len(patterns) == 0 {
		return nil
	}

	var out []*subscription
	for _, p := range patterns {
		for _, s := range r.subs[p] {
			if s.IsActive() {
				out = append(out, s)
			}
		}
	}

	slices.SortFunc(out, func(a, b *subscription) int {
		if c := cmp.Compare(a.opts.priority, b.opts.priority); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	return out
}

// CountActive returns the number of active subscriptions.
func (r *Registry) CountActive() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.byID {
		if s.IsActive() {
			n++
		}
	}
	return n
}
