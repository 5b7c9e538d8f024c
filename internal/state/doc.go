// Package state holds the storefront's application state.
//
// State is the single source of truth for the catalog, the basket, the order
// draft, its validation errors and the preview selection. Every mutator
// publishes exactly one event describing what changed; read accessors and
// pure projections never publish.
//
// State is not safe for concurrent use. It is owned by the session loop,
// which serializes all access.
package state
