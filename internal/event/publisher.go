package event

import (
	"context"

	"github.com/ivanmalyshevv/weblarek/internal/event/topic"
)

// Publisher publishes on behalf of one component. Events it builds carry
// the component name as their metadata source ("state", "view.modal").
type Publisher struct {
	bus    Bus
	source string
}

func NewPublisher(bus Bus, source string) *Publisher {
	return &Publisher{bus: bus, source: source}
}

// Publish forwards a ready event untouched.
func (p *Publisher) Publish(ctx context.Context, event any) error {
	return p.bus.Publish(ctx, event)
}

// PublishPayload sends payload under t in an Envelope stamped with the
// publisher's source. Typed code uses Emit.
func (p *Publisher) PublishPayload(ctx context.Context, t topic.Topic, payload any) error {
	return p.bus.Publish(ctx, Envelope{Topic: t, Payload: payload, Metadata: newMetadata(p.source)})
}
