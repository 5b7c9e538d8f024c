package dispatch

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"
)

// Handler mirrors event.Handler to avoid an import cycle.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// Outcome classifies one handler call.
type Outcome uint8

const (
	// Delivered means the handler returned nil.
	Delivered Outcome = iota
	// Failed means the handler returned an error.
	Failed
	// Panicked means the handler panicked and was recovered.
	Panicked
	// Skipped means the context was already done, so the handler never ran.
	Skipped

	numOutcomes
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case Failed:
		return "failed"
	case Panicked:
		return "panicked"
	case Skipped:
		return "skipped"
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

// Recovered is a handler panic caught by the dispatcher.
type Recovered struct {
	Value any
	Stack []byte
}

// Call reports how one handler call went.
type Call struct {
	Outcome Outcome
	// Err is the handler's error for Failed and the context error for Skipped.
	Err error
	// Panic is set for Panicked.
	Panic *Recovered
	Took  time.Duration
}

// Dispatcher runs handlers on the caller's goroutine and counts outcomes.
// The zero value is ready to use.
type Dispatcher struct {
	counts [numOutcomes]atomic.Uint64
	busy   atomic.Int64
}

// New returns a Dispatcher.
func New() *Dispatcher {
	return &Dispatcher{}
}

// Dispatch calls h with event and returns once it has returned or panicked.
func (d *Dispatcher) Dispatch(ctx context.Context, event any, h Handler) Call {
	c := run(ctx, event, h)
	d.counts[c.Outcome].Add(1)
	d.busy.Add(int64(c.Took))
	return c
}

func run(ctx context.Context, event any, h Handler) (c Call) {
	if err := ctx.Err(); err != nil {
		return Call{Outcome: Skipped, Err: err}
	}

	start := time.Now()
	defer func() {
		took := time.Since(start)
		if v := recover(); v != nil {
			c = Call{Outcome: Panicked, Panic: &Recovered{Value: v, Stack: debug.Stack()}}
		}
		c.Took = took
	}()

	if err := h.Handle(ctx, event); err != nil {
		return Call{Outcome: Failed, Err: err}
	}
	return Call{Outcome: Delivered}
}

// Count returns how many calls ended with o.
func (d *Dispatcher) Count(o Outcome) uint64 {
	if o >= numOutcomes {
		return 0
	}
	return d.counts[o].Load()
}

// Busy returns the total time spent inside handlers.
func (d *Dispatcher) Busy() time.Duration {
	return time.Duration(d.busy.Load())
}
