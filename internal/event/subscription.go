package event

import (
	"sync/atomic"

	"github.com/ivanmalyshevv/weblarek/internal/event/topic"
)

// SubscriptionState is derived from the pause and cancel flags of a
// subscription. Cancellation wins over pausing.
type SubscriptionState int32

const (
	SubscriptionStateActive SubscriptionState = iota
	SubscriptionStatePaused
	SubscriptionStateCancelled
)

var stateNames = [...]string{"active", "paused", "cancelled"}

func (s SubscriptionState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Subscription is the handle returned by Subscribe. Views keep it to detach
// their handlers when they are thrown away.
type Subscription interface {
	ID() string
	Topic() topic.Topic
	State() SubscriptionState

	// IsActive reports whether the next publish reaches the handler.
	IsActive() bool

	// Pause and Resume toggle delivery without losing the slot in the
	// handler order.
	Pause()
	Resume()

	// Cancel is final. The registry drops cancelled entries lazily.
	Cancel()
}

const (
	flagPaused uint32 = 1 << iota
	flagCancelled
)

// subscription is one registry entry. seq breaks priority ties so equal
// priorities run in the order they subscribed.
type subscription struct {
	id      string
	seq     uint64
	pattern topic.Topic
	handler Handler
	opts    subscribeOptions
	flags   atomic.Uint32
}

func newSubscription(id string, seq uint64, pattern topic.Topic, h Handler, opts []SubscriptionOption) *subscription {
	return &subscription{
		id:      id,
		seq:     seq,
		pattern: pattern,
		handler: h,
		opts:    collectSubscribeOptions(opts),
	}
}

func (s *subscription) ID() string         { return s.id }
func (s *subscription) Topic() topic.Topic { return s.pattern }

func (s *subscription) State() SubscriptionState {
	f := s.flags.Load()
	switch {
	case f&flagCancelled != 0:
		return SubscriptionStateCancelled
	case f&flagPaused != 0:
		return SubscriptionStatePaused
	}
	return SubscriptionStateActive
}

func (s *subscription) IsActive() bool { return s.flags.Load() == 0 }

func (s *subscription) Pause()  { s.setFlag(flagPaused, true) }
func (s *subscription) Resume() { s.setFlag(flagPaused, false) }
func (s *subscription) Cancel() { s.setFlag(flagCancelled, true) }

func (s *subscription) setFlag(flag uint32, on bool) {
	for {
		old := s.flags.Load()
		next := old &^ flag
		if on {
			next = old | flag
		}
		if old == next || s.flags.CompareAndSwap(old, next) {
			return
		}
	}
}

// accepts is checked right before the handler runs, so a subscription
// cancelled by an earlier handler of the same publish is skipped.
func (s *subscription) accepts(ev any) bool {
	if !s.IsActive() {
		return false
	}
	return s.opts.filter == nil || s.opts.filter(ev)
}
