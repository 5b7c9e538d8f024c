package view

import (
	"context"

	"golang.org/x/net/html"

	"github.com/ivanmalyshevv/weblarek/internal/dom"
	"github.com/ivanmalyshevv/weblarek/internal/event"
)

// Env carries what every view is built from.
type Env struct {
	Doc    *dom.Document
	Bus    event.Bus
	Format *Formatter
}

// Ptr returns a pointer to v, for filling patches.
func Ptr[T any](v T) *T {
	return &v
}

// component is the part shared by all views: the root node and the
// publisher used for interactions.
type component struct {
	env  Env
	root *html.Node
	pub  *event.Publisher
}

func newComponent(env Env, root *html.Node, source string) component {
	return component{
		env:  env,
		root: root,
		pub:  event.NewPublisher(env.Bus, source),
	}
}

// fromTemplate builds a component on a fresh clone of template id.
func fromTemplate(env Env, id, source string) (component, error) {
	root, err := env.Doc.Template(id)
	if err != nil {
		return component{}, err
	}
	return newComponent(env, root, source), nil
}

// Root returns the view's root node.
func (c *component) Root() *html.Node {
	return c.root
}

func (c *component) ensure(sel string) (*html.Node, error) {
	return dom.Ensure(c.root, sel)
}

func (c *component) find(sel string) *html.Node {
	return dom.Find(c.root, sel)
}

// on registers fn on n; a nil node is skipped.
func (c *component) on(n *html.Node, typ string, fn dom.Listener) {
	if n == nil {
		return
	}
	c.env.Doc.Listen(n, typ, fn)
}

// emit is an on-handler that publishes payload on k.
func emit[T any](c *component, k event.Key[T], payload func() T) dom.Listener {
	return func(ctx context.Context, _ *dom.Event) error {
		return event.Emit(ctx, c.pub, k, payload())
	}
}

// releaseChildren drops listeners of every child of n.
func (c *component) releaseChildren(n *html.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.env.Doc.Release(child)
	}
}
