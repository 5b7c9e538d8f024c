package event

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ivanmalyshevv/weblarek/internal/event/dispatch"
	"github.com/ivanmalyshevv/weblarek/internal/event/topic"
)

// Bus is the publish/subscribe interface shared by state, views and the
// orchestration layer.
type Bus interface {
	// Publish delivers the event synchronously to every matching handler.
	Publish(ctx context.Context, event any) error

	// Subscribe registers handler for an exact topic or wildcard pattern.
	Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error)

	// SubscribeFunc is Subscribe for plain functions.
	SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)

	// Unsubscribe removes a subscription.
	Unsubscribe(sub Subscription) error

	// Pause drops published events until Resume.
	Pause()
	Resume()
	IsPaused() bool

	Stats() Stats
}

type bus struct {
	registry   *Registry
	dispatcher *dispatch.Dispatcher
	onPanic    PanicHandler

	seq    atomic.Uint64
	paused atomic.Bool

	published atomic.Uint64
	dropped   atomic.Uint64
}

// NewBus creates a bus.
func NewBus(opts ...BusOption) Bus {
	b := &bus{registry: NewRegistry(), dispatcher: dispatch.New()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *bus) Pause() {
	b.paused.Store(true)
}

func (b *bus) Resume() {
	b.paused.Store(false)
}

func (b *bus) IsPaused() bool {
	return b.paused.Load()
}

// Publish runs every matching handler before returning. Errors from
// individual handlers do not stop delivery to the rest; they are joined into
// the returned error.
func (b *bus) Publish(ctx context.Context, event any) error {
	t := TopicOf(event)
	if !t.IsValid() || t.IsWildcard() {
		return ErrInvalidEvent
	}
	if b.paused.Load() {
		b.dropped.Add(1)
		return nil
	}
	b.published.Add(1)

	var errs []error
	for _, sub := range b.registry.Match(t) {
		if !sub.accepts(event) {
			continue
		}
		if sub.opts.once {
			sub.Cancel()
			b.registry.Remove(sub.id)
		}

		c := b.dispatcher.Dispatch(ctx, event, sub.handler)
		switch c.Outcome {
		case dispatch.Panicked:
			b.notePanic(event, c.Panic)
			errs = append(errs, &PanicError{
				SubscriptionID: sub.id,
				Topic:          t.String(),
				Value:          c.Panic.Value,
				Stack:          string(c.Panic.Stack),
			})
		case dispatch.Failed, dispatch.Skipped:
			errs = append(errs, &HandlerError{
				SubscriptionID: sub.id,
				Topic:          t.String(),
				Err:            c.Err,
			})
		}
	}
	return errors.Join(errs...)
}

// notePanic tells the panic observer, if any. A panicking observer is
// swallowed so the remaining handlers still run.
func (b *bus) notePanic(event any, r *dispatch.Recovered) {
	if b.onPanic == nil {
		return
	}
	defer func() { _ = recover() }()
	b.onPanic(event, r.Value, r.Stack)
}

func (b *bus) Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}

	sub := newSubscription(uuid.NewString(), b.seq.Add(1), pattern, handler, opts)
	b.registry.Add(sub)
	return sub, nil
}

func (b *bus) SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(pattern, fn, opts...)
}

// Unsubscribe cancels sub. Unknown subscriptions return
// ErrSubscriptionNotFound and leave the bus unchanged.
func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}
	if !b.registry.Remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	sub.Cancel()
	return nil
}

func (b *bus) Stats() Stats {
	d := b.dispatcher
	return Stats{
		EventsPublished:   b.published.Load(),
		EventsDelivered:   d.Count(dispatch.Delivered),
		EventsDropped:     b.dropped.Load(),
		HandlerErrors:     d.Count(dispatch.Failed) + d.Count(dispatch.Skipped),
		HandlerPanics:     d.Count(dispatch.Panicked),
		HandlerTime:       d.Busy(),
		ActiveSubscribers: b.registry.CountActive(),
	}
}
