package event

import (
	"context"
	"testing"
)

func TestSubscriber_TracksAndCloses(t *testing.T) {
	bus := NewBus()
	s := NewSubscriber(bus)

	calls := 0
	h := func(context.Context, any) error {
		calls++
		return nil
	}
	if _, err := s.SubscribeFunc("basket.changed", h); err != nil {
		t.Fatalf("SubscribeFunc() error = %v", err)
	}
	if _, err := s.SubscribeFunc("catalog.*", h); err != nil {
		t.Fatalf("SubscribeFunc() error = %v", err)
	}
	if s.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", s.Count())
	}

	bus.Publish(context.Background(), envelope("catalog.changed"))
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	bus.Publish(context.Background(), envelope("basket.changed"))
	if calls != 1 {
		t.Errorf("handler ran after Close")
	}
	if bus.Stats().ActiveSubscribers != 0 {
		t.Errorf("ActiveSubscribers = %d, want 0", bus.Stats().ActiveSubscribers)
	}

	if _, err := s.SubscribeFunc("basket.changed", h); err != ErrSubscriberClosed {
		t.Errorf("subscribe after close: got %v, want ErrSubscriberClosed", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestSubscriber_Unsubscribe(t *testing.T) {
	bus := NewBus()
	s := NewSubscriber(bus)
	sub, _ := s.SubscribeFunc("basket.changed", func(context.Context, any) error { return nil })

	if err := s.Unsubscribe(sub); err != nil {
		t.Fatalf("Unsubscribe() error = %v", err)
	}
	if s.Count() != 0 {
		t.Errorf("Count() = %d, want 0", s.Count())
	}
}

func TestSubscriber_CloseIgnoresSpentOnce(t *testing.T) {
	bus := NewBus()
	s := NewSubscriber(bus)
	s.SubscribeFunc("order.finished", func(context.Context, any) error { return nil }, WithOnce())

	bus.Publish(context.Background(), envelope("order.finished"))
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
