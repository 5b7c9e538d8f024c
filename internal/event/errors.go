package event

import (
	"errors"
	"fmt"
)

// Sentinel errors for the event bus.
var (
	// ErrInvalidEvent is returned when a published value carries no topic.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrInvalidTopic is returned when a subscription pattern is empty or malformed.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrInvalidSubscription is returned for a nil subscription.
	ErrInvalidSubscription = errors.New("invalid subscription")

	// ErrSubscriptionNotFound is returned when unsubscribing something the bus
	// does not know. The bus is left unchanged.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrNilHandler is returned when subscribing a nil handler.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrHandlerPanic matches any *PanicError.
	ErrHandlerPanic = errors.New("handler panicked")

	// ErrSubscriberClosed is returned when subscribing through a closed Subscriber.
	ErrSubscriberClosed = errors.New("subscriber is closed")

	// ErrPayloadMismatch is returned when a typed handler receives an event
	// whose payload is not the key's type.
	ErrPayloadMismatch = errors.New("payload type mismatch")
)

// HandlerError wraps an error returned by a handler.
type HandlerError struct {
	SubscriptionID string
	Topic          string
	Err            error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %s on %s: %v", e.SubscriptionID, e.Topic, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// PanicError describes a recovered handler panic.
type PanicError struct {
	SubscriptionID string
	Topic          string
	Value          any
	Stack          string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler %s on %s panicked: %v", e.SubscriptionID, e.Topic, e.Value)
}

// Is matches ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}
