// Package event provides the storefront's publish/subscribe bus.
//
// Application state, views, and the orchestration layer never call each
// other directly for change notification. State mutators publish change
// events, views publish user intents, and subscribers react. The bus is the
// only shared dependency between them.
//
// # Topics
//
// Events are keyed by hierarchical topics (see package topic):
//
//	catalog.changed       - the catalog was replaced
//	basket.changed        - basket contents changed
//	form.errors.changed   - validation produced a new error set
//	contacts.submit       - the contacts form was submitted
//
// Subscriptions accept exact topics or wildcard patterns (basket.*, form.**,
// **).
//
// # Delivery
//
// Publish is synchronous. Every active matching subscription runs on the
// publisher's goroutine, ordered by priority and then by subscription order,
// and Publish returns after the last one. A handler may publish again; the
// nested publish completes before the outer handler resumes. Handler errors
// and recovered panics are returned to the publisher joined together.
//
// # Typed keys
//
// Key binds a topic to a payload type so both sides of the bus agree on the
// payload at compile time:
//
//	var BasketDelete = event.NewKey[ItemRef]("basket.delete")
//
//	event.On(sub, BasketDelete, func(ctx context.Context, p ItemRef) error {
//	    st.RemoveFromBasket(p.ID)
//	    return nil
//	})
//	event.Emit(ctx, pub, BasketDelete, ItemRef{ID: "a"})
//
// # Thread Safety
//
// Subscribing, unsubscribing and publishing are safe for concurrent use. The
// storefront nonetheless publishes from a single goroutine; handlers rely on
// that and do no locking of their own.
package event
