package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"
)

type handlerFunc func(ctx context.Context, event any) error

func (f handlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

func TestDispatch_Outcomes(t *testing.T) {
	boom := errors.New("boom")
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		fn   handlerFunc
		want Outcome
		err  error
	}{
		{"delivered", context.Background(), func(context.Context, any) error { return nil }, Delivered, nil},
		{"failed", context.Background(), func(context.Context, any) error { return boom }, Failed, boom},
		{"panicked", context.Background(), func(context.Context, any) error { panic("kaboom") }, Panicked, nil},
		{"skipped", cancelled, func(context.Context, any) error { return nil }, Skipped, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			c := d.Dispatch(tt.ctx, "evt", tt.fn)
			if c.Outcome != tt.want {
				t.Fatalf("Outcome = %v, want %v", c.Outcome, tt.want)
			}
			if !errors.Is(c.Err, tt.err) {
				t.Errorf("Err = %v, want %v", c.Err, tt.err)
			}
			if d.Count(tt.want) != 1 {
				t.Errorf("Count(%v) = %d, want 1", tt.want, d.Count(tt.want))
			}
		})
	}
}

func TestDispatch_PassesEvent(t *testing.T) {
	var got any
	New().Dispatch(context.Background(), "basket.changed", handlerFunc(func(_ context.Context, event any) error {
		got = event
		return nil
	}))
	if got != "basket.changed" {
		t.Errorf("handler received %v", got)
	}
}

func TestDispatch_RecoversValueAndStack(t *testing.T) {
	c := New().Dispatch(context.Background(), nil, handlerFunc(func(context.Context, any) error {
		panic("kaboom")
	}))
	if c.Panic == nil {
		t.Fatal("no recovered panic")
	}
	if c.Panic.Value != "kaboom" || len(c.Panic.Stack) == 0 {
		t.Errorf("recovered %v with %d bytes of stack", c.Panic.Value, len(c.Panic.Stack))
	}
	if c.Err != nil {
		t.Errorf("Err = %v, want nil", c.Err)
	}
}

func TestDispatch_SkippedDoesNotRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	New().Dispatch(ctx, nil, handlerFunc(func(context.Context, any) error {
		called = true
		return nil
	}))
	if called {
		t.Error("handler ran with a cancelled context")
	}
}

func TestDispatcher_Busy(t *testing.T) {
	d := New()
	d.Dispatch(context.Background(), nil, handlerFunc(func(context.Context, any) error {
		time.Sleep(2 * time.Millisecond)
		return nil
	}))
	if d.Busy() < 2*time.Millisecond {
		t.Errorf("Busy() = %v", d.Busy())
	}
}

func TestOutcome_String(t *testing.T) {
	if Panicked.String() != "panicked" || Outcome(9).String() != "outcome(9)" {
		t.Error("unexpected outcome names")
	}
	if New().Count(Outcome(9)) != 0 {
		t.Error("out of range outcome counted")
	}
}
