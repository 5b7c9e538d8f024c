package event

import (
	"errors"
	"sync"

	"github.com/ivanmalyshevv/weblarek/internal/event/topic"
)

// Subscriber groups the subscriptions made by one owner, a session or a
// view, so that they are released together with Close.
type Subscriber struct {
	bus Bus

	mu     sync.Mutex
	owned  map[string]Subscription
	closed bool
}

func NewSubscriber(bus Bus) *Subscriber {
	return &Subscriber{bus: bus, owned: make(map[string]Subscription)}
}

// Subscribe is Bus.Subscribe, remembering the result. It fails with
// ErrSubscriberClosed after Close.
func (s *Subscriber) Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSubscriberClosed
	}
	sub, err := s.bus.Subscribe(pattern, handler, opts...)
	if err != nil {
		return nil, err
	}
	s.owned[sub.ID()] = sub
	return sub, nil
}

func (s *Subscriber) SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return s.Subscribe(pattern, fn, opts...)
}

// Unsubscribe releases one subscription early.
func (s *Subscriber) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}
	s.mu.Lock()
	delete(s.owned, sub.ID())
	s.mu.Unlock()
	return s.bus.Unsubscribe(sub)
}

// Close releases everything still owned. Closing twice is a no-op.
// Subscriptions the bus already dropped, such as spent WithOnce ones, are
// not reported.
func (s *Subscriber) Close() error {
	s.mu.Lock()
	owned := s.owned
	s.owned, s.closed = nil, true
	s.mu.Unlock()

	var errs []error
	for _, sub := range owned {
		if err := s.bus.Unsubscribe(sub); err != nil && !errors.Is(err, ErrSubscriptionNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Count is the number of subscriptions still owned.
func (s *Subscriber) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.owned)
}
