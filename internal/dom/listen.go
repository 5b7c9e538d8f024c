package dom

import (
	"context"
	"errors"

	"golang.org/x/net/html"
)

// Event types reported by the browser.
const (
	Click  = "click"
	Input  = "input"
	Submit = "submit"
)

// Event is one interaction travelling up the tree.
type Event struct {
	Type string

	// Target is the node the interaction happened on.
	Target *html.Node

	// CurrentTarget is the node whose listener is running.
	CurrentTarget *html.Node

	// Value is the new value of Target for input events.
	Value string

	stopped bool
}

// StopPropagation keeps the event from reaching ancestors of the current
// node.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Stopped reports whether StopPropagation was called.
func (e *Event) Stopped() bool {
	return e.stopped
}

// Listener handles an event.
type Listener func(ctx context.Context, e *Event) error

type listener struct {
	typ string
	fn  Listener
}

// Listen registers fn for events of typ reaching n and returns n's
// reference.
func (d *Document) Listen(n *html.Node, typ string, fn Listener) string {
	d.listeners[n] = append(d.listeners[n], listener{typ: typ, fn: fn})
	return d.Ref(n)
}

// Release drops the listeners of n and its descendants. Views call it for
// nodes they discard.
func (d *Document) Release(n *html.Node) {
	if n == nil {
		return
	}
	Walk(n, func(c *html.Node) bool {
		delete(d.listeners, c)
		return true
	})
}

// ListenerCount returns the number of nodes with listeners.
func (d *Document) ListenerCount() int {
	return len(d.listeners)
}

// Dispatch delivers an interaction on the node referenced by ref. Input
// events first store value on the target control. Clicks on disabled nodes
// are ignored. Listener errors are joined; a failing listener does not stop
// propagation.
func (d *Document) Dispatch(ctx context.Context, ref, typ, value string) error {
	target, err := d.NodeByRef(ref)
	if err != nil {
		return err
	}
	if typ == Click && IsDisabled(target) {
		return nil
	}
	if typ == Input && isFormControl(target) {
		SetValue(target, value)
	}

	var path []*html.Node
	for n := target; n != nil; n = n.Parent {
		path = append(path, n)
	}

	e := &Event{Type: typ, Target: target, Value: value}
	var errs []error
	for _, n := range path {
		e.CurrentTarget = n
		for _, l := range d.listeners[n] {
			if l.typ != typ {
				continue
			}
			if err := l.fn(ctx, e); err != nil {
				errs = append(errs, err)
			}
		}
		if e.stopped {
			break
		}
	}
	return errors.Join(errs...)
}
