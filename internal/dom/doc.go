// Package dom is a server-side document model built on golang.org/x/net/html.
//
// A Document is parsed once from an HTML page. Its <template> elements are
// taken out of the live tree and cloned on demand. Views mutate nodes with
// the helpers in this package and register listeners on them; the browser
// reports interactions by node reference (the data-ref attribute), and
// Dispatch delivers them with DOM-style bubbling.
//
// # Node References
//
// Listen and Ref stamp a node with a data-ref attribute that is unique
// within the document. Only nodes attached to the live tree can be
// targeted; events aimed at a detached node return ErrUnknownRef.
//
// # Event Propagation
//
// Dispatch computes the path from the target to the root before running
// any listener, then invokes the listeners of each node on that path in
// registration order. A listener may call Event.StopPropagation to keep the
// event from reaching ancestors; the remaining listeners on the current
// node still run.
//
// A Document is not safe for concurrent use.
package dom
