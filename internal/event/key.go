package event

import (
	"context"
	"fmt"

	"github.com/ivanmalyshevv/weblarek/internal/event/topic"
)

// Key binds a concrete topic to its payload type.
type Key[T any] struct {
	topic topic.Topic
}

// NewKey declares a typed topic. It panics on an invalid or wildcard topic,
// since keys are package-level declarations.
func NewKey[T any](t topic.Topic) Key[T] {
	if !t.IsValid() || t.IsWildcard() {
		panic(fmt.Sprintf("event: invalid key topic %q", t))
	}
	return Key[T]{topic: t}
}

// Topic returns the bound topic.
func (k Key[T]) Topic() topic.Topic {
	return k.topic
}

// String implements fmt.Stringer.
func (k Key[T]) String() string {
	return k.topic.String()
}

// Emit publishes payload on k's topic with p's source.
func Emit[T any](ctx context.Context, p *Publisher, k Key[T], payload T) error {
	return p.Publish(ctx, NewEvent(k.topic, payload, p.source))
}

// Subscribing is satisfied by Bus and *Subscriber.
type Subscribing interface {
	Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error)
}

// On subscribes fn to k. Events on k's topic whose payload is not a T are
// reported as ErrPayloadMismatch rather than dropped.
func On[T any](s Subscribing, k Key[T], fn func(ctx context.Context, payload T) error, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return s.Subscribe(k.topic, HandlerFunc(func(ctx context.Context, event any) error {
		payload, err := PayloadOf[T](event)
		if err != nil {
			return err
		}
		return fn(ctx, payload)
	}), opts...)
}

// PayloadOf extracts a T from an Event[T], an Envelope holding a T, or a
// bare T.
func PayloadOf[T any](event any) (T, error) {
	switch e := event.(type) {
	case Event[T]:
		return e.Payload, nil
	case Envelope:
		if p, ok := e.Payload.(T); ok {
			return p, nil
		}
	case T:
		return e, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: want %T, got %T", ErrPayloadMismatch, zero, event)
}
