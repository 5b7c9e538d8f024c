package event

import (
	"context"
	"errors"
	"testing"
)

type itemRef struct {
	ID string
}

var testSelect = NewKey[itemRef]("catalog.select")

func TestKey_EmitOn(t *testing.T) {
	bus := NewBus()
	pub := NewPublisher(bus, "view.card")

	var got itemRef
	if _, err := On(bus, testSelect, func(_ context.Context, p itemRef) error {
		got = p
		return nil
	}); err != nil {
		t.Fatalf("On() error = %v", err)
	}

	if err := Emit(context.Background(), pub, testSelect, itemRef{ID: "a"}); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if got.ID != "a" {
		t.Errorf("payload = %+v, want ID a", got)
	}
}

func TestKey_PayloadMismatch(t *testing.T) {
	bus := NewBus()
	called := false
	On(bus, testSelect, func(context.Context, itemRef) error {
		called = true
		return nil
	})

	err := bus.Publish(context.Background(), Envelope{Topic: testSelect.Topic(), Payload: 42})
	if !errors.Is(err, ErrPayloadMismatch) {
		t.Errorf("got %v, want ErrPayloadMismatch", err)
	}
	if called {
		t.Error("typed handler ran with the wrong payload")
	}
}

func TestKey_AcceptsEnvelopeAndBarePayload(t *testing.T) {
	if p, err := PayloadOf[itemRef](Envelope{Topic: "x", Payload: itemRef{ID: "e"}}); err != nil || p.ID != "e" {
		t.Errorf("envelope: got %+v, %v", p, err)
	}
	if p, err := PayloadOf[itemRef](itemRef{ID: "b"}); err != nil || p.ID != "b" {
		t.Errorf("bare: got %+v, %v", p, err)
	}
}

func TestNewKey_PanicsOnWildcard(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for wildcard key")
		}
	}()
	NewKey[itemRef]("catalog.*")
}

func TestPublisher_PublishPayload(t *testing.T) {
	bus := NewBus()
	pub := NewPublisher(bus, "state")

	var env Envelope
	bus.SubscribeFunc("order.changed", func(_ context.Context, e any) error {
		env = e.(Envelope)
		return nil
	})

	if err := pub.PublishPayload(context.Background(), "order.changed", "x"); err != nil {
		t.Fatalf("PublishPayload() error = %v", err)
	}
	if env.Payload != "x" || env.Metadata.Source != "state" {
		t.Errorf("unexpected envelope %+v", env)
	}
	if env.Metadata.ID == "" {
		t.Error("envelope has no event id")
	}
}
