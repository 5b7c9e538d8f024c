// Package view implements the storefront's view components.
//
// Each view owns one root node of a dom.Document and updates it through
// Render with a view-specific patch. Patch fields are pointers: a nil field
// leaves the corresponding part of the view unchanged. Views translate
// interactions into bus events and never touch the application state.
package view
