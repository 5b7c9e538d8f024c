package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/ivanmalyshevv/weblarek/internal/event/topic"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// Event is a typed event. Events are immutable once created.
type Event[T any] struct {
	// Type is the concrete topic the event is published on.
	Type topic.Topic

	// Payload is the event data.
	Payload T

	// Metadata is attached to every event.
	Metadata Metadata
}

// Metadata carries standard event information.
type Metadata struct {
	// ID uniquely identifies the event instance.
	ID string

	// Timestamp is the creation time.
	Timestamp time.Time

	// Source names the publishing component (e.g. "state", "view.basket").
	Source string
}

// NewEvent creates an event with fresh metadata.
func NewEvent[T any](t topic.Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:     t,
		Payload:  payload,
		Metadata: newMetadata(source),
	}
}

func newMetadata(source string) Metadata {
	return Metadata{
		ID:        uuid.NewString(),
		Timestamp: timeNow(),
		Source:    source,
	}
}

// EventTopic implements TopicProvider.
func (e Event[T]) EventTopic() topic.Topic {
	return e.Type
}

// EventMetadata implements MetadataProvider.
func (e Event[T]) EventMetadata() Metadata {
	return e.Metadata
}

// TopicProvider is implemented by anything publishable.
type TopicProvider interface {
	EventTopic() topic.Topic
}

// MetadataProvider is implemented by events carrying metadata.
type MetadataProvider interface {
	EventMetadata() Metadata
}

// Envelope is an untyped event, used where the payload type is not known
// statically.
type Envelope struct {
	Topic    topic.Topic
	Payload  any
	Metadata Metadata
}

// EventTopic implements TopicProvider.
func (e Envelope) EventTopic() topic.Topic {
	return e.Topic
}

// EventMetadata implements MetadataProvider.
func (e Envelope) EventMetadata() Metadata {
	return e.Metadata
}

// TopicOf extracts the topic of an arbitrary event value, or "" if it has none.
func TopicOf(event any) topic.Topic {
	if tp, ok := event.(TopicProvider); ok {
		return tp.EventTopic()
	}
	return ""
}
