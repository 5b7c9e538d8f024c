// Package dispatch runs event handlers on the caller's goroutine.
//
// The bus hands each matching subscription to Dispatch in order, so a
// publish returns only after every handler has finished. Dispatch never
// panics: a handler panic comes back as a Call with Outcome Panicked and
// the recovered value and stack attached.
//
//	d := dispatch.New()
//	c := d.Dispatch(ctx, evt, handler)
//	if c.Outcome == dispatch.Panicked {
//		log.Printf("handler panic: %v\n%s", c.Panic.Value, c.Panic.Stack)
//	}
package dispatch
