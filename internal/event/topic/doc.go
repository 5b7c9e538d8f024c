// Package topic defines hierarchical event topics and wildcard matching.
//
// Topics are dot-separated names:
//
//	catalog.changed
//	basket.changed
//	form.errors.changed
//	contacts.submit
//
// Subscriptions may use two wildcards:
//
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
//
// Examples:
//
//	*.changed        matches catalog.changed, basket.changed (not form.errors.changed)
//	form.**          matches form.errors.changed, form.input.change
//	*.submit         matches order.submit, contacts.submit
//	**               matches everything
//
// Matcher indexes patterns in a segment trie so a published topic is resolved
// against every registered pattern in one walk.
package topic
