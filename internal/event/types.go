package event

import (
	"context"
	"time"
)

// Priority orders handlers within one publish, lowest first. Handlers of
// equal priority run in the order they subscribed.
type Priority int

// The session counts publications at PriorityLow, after every other
// handler has run.
const (
	PriorityHigh   Priority = 100
	PriorityNormal Priority = 200
	PriorityLow    Priority = 300
)

// Handler receives published values. Typed code uses On instead.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// HandlerFunc is a function Handler.
type HandlerFunc func(ctx context.Context, event any) error

func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// FilterFunc vetoes delivery of a single event to one subscription.
type FilterFunc func(event any) bool

// PanicHandler is told about every handler panic the bus recovered.
type PanicHandler func(event any, recovered any, stack []byte)

// Stats counts bus activity since creation.
type Stats struct {
	EventsPublished   uint64
	EventsDelivered   uint64
	EventsDropped     uint64
	HandlerErrors     uint64
	HandlerPanics     uint64
	HandlerTime       time.Duration
	ActiveSubscribers int
}
