package view

import (
	"golang.org/x/net/html"

	"github.com/ivanmalyshevv/weblarek/internal/dom"
	"github.com/ivanmalyshevv/weblarek/internal/event/events"
)

// LockedClass marks the page while a modal is open.
const LockedClass = "page__wrapper_locked"

// PagePatch updates the page shell.
type PagePatch struct {
	Catalog *[]*html.Node
	Counter *int
	Locked  *bool
}

// Page is the shell around the gallery. The header basket button publishes
// basket.open.
type Page struct {
	component
	gallery *html.Node
	counter *html.Node
	basket  *html.Node
}

// NewPage binds to the .page__wrapper element of the document.
func NewPage(env Env) (*Page, error) {
	root, err := dom.Ensure(env.Doc.Body(), ".page__wrapper")
	if err != nil {
		return nil, err
	}
	p := &Page{component: newComponent(env, root, "view.page")}
	if p.gallery, err = p.ensure(".gallery"); err != nil {
		return nil, err
	}
	if p.counter, err = p.ensure(".header__basket-counter"); err != nil {
		return nil, err
	}
	if p.basket, err = p.ensure(".header__basket"); err != nil {
		return nil, err
	}
	p.on(p.basket, dom.Click, emit(&p.component, events.BasketOpenKey, func() events.Signal {
		return events.Signal{}
	}))
	return p, nil
}

// Render applies patch and returns the root.
func (p *Page) Render(patch PagePatch) *html.Node {
	if patch.Catalog != nil {
		p.releaseChildren(p.gallery)
		dom.ReplaceChildren(p.gallery, *patch.Catalog...)
	}
	if patch.Counter != nil {
		dom.SetText(p.counter, p.env.Format.Int(*patch.Counter))
	}
	if patch.Locked != nil {
		dom.ToggleClass(p.root, LockedClass, *patch.Locked)
	}
	return p.root
}
