package view

import (
	"github.com/shopspring/decimal"
	"golang.org/x/net/html"

	"github.com/ivanmalyshevv/weblarek/internal/dom"
	"github.com/ivanmalyshevv/weblarek/internal/event/events"
)

// EmptyBasket is shown instead of an empty list.
const EmptyBasket = "Корзина пуста"

// BasketPatch updates the basket view.
type BasketPatch struct {
	Items    *[]*html.Node
	Total    *decimal.Decimal
	Selected *int
}

// Basket lists the basket cards. The checkout button publishes order.open
// and is disabled while nothing is selected.
type Basket struct {
	component
	list   *html.Node
	total  *html.Node
	button *html.Node
}

// NewBasket clones the basket template.
func NewBasket(env Env) (*Basket, error) {
	c, err := fromTemplate(env, TemplateBasket, "view.basket")
	if err != nil {
		return nil, err
	}
	b := &Basket{component: c}
	if b.list, err = b.ensure(".basket__list"); err != nil {
		return nil, err
	}
	if b.total, err = b.ensure(".basket__price"); err != nil {
		return nil, err
	}
	if b.button, err = b.ensure(".basket__button"); err != nil {
		return nil, err
	}
	b.on(b.button, dom.Click, emit(&b.component, events.OrderOpenKey, func() events.Signal {
		return events.Signal{}
	}))
	return b, nil
}

// Render applies patch and returns the root.
func (b *Basket) Render(patch BasketPatch) *html.Node {
	if patch.Items != nil {
		b.releaseChildren(b.list)
		if items := *patch.Items; len(items) > 0 {
			dom.ReplaceChildren(b.list, items...)
		} else {
			dom.SetText(b.list, EmptyBasket)
		}
	}
	if patch.Total != nil {
		dom.SetText(b.total, b.env.Format.Synapses(*patch.Total))
	}
	if patch.Selected != nil {
		dom.SetDisabled(b.button, *patch.Selected == 0)
	}
	return b.root
}
