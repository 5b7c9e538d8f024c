// Package events declares the storefront's topics and their payloads.
//
// Every topic is bound to exactly one payload type through an event.Key, so
// publishers and subscribers agree on the payload at compile time:
//
//	event.Emit(ctx, pub, events.CatalogSelectKey, events.ItemRef{ID: id})
//
//	event.On(bus, events.CatalogSelectKey, func(ctx context.Context, ref events.ItemRef) error {
//	    return st.SetPreview(ctx, ref.ID)
//	})
//
// # Topic Naming Convention
//
// Topics follow <entity>.<action>. State notifications end in "changed";
// everything else is a user intent raised by a view:
//   - catalog.changed, preview.changed, basket.changed, order.changed
//   - catalog.select, basket.delete, order.submit, modal.close
//
// # Wildcard Subscriptions
//
//   - "*" matches exactly one segment: "*.changed" matches "basket.changed"
//   - "**" matches zero or more segments: "**" matches every topic
package events

// Signal is the payload of events that carry no data. Subscribers re-read
// whatever state they need.
type Signal struct{}
